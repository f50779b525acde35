package accountRepo

import (
	"context"
	"errors"

	"teleka/models"
)

// ErrNotFound is returned by lookups that match nothing.
var ErrNotFound = errors.New("record not found")

// AccountRepository defines data access for riders, drivers and the admin
// dashboard records.
type AccountRepository interface {
	// CreateCustomer inserts a rider account.
	CreateCustomer(ctx context.Context, customer *models.Customer) error
	// GetCustomerByEmail returns ErrNotFound when no rider uses the email.
	GetCustomerByEmail(ctx context.Context, email string) (*models.Customer, error)

	// CreatePendingDriver queues a driver registration for review.
	CreatePendingDriver(ctx context.Context, driver *models.Driver) error
	// ListPendingDrivers returns the review queue, oldest first.
	ListPendingDrivers(ctx context.Context) ([]models.Driver, error)
	// GetDriverByEmail looks up an approved driver.
	GetDriverByEmail(ctx context.Context, email string) (*models.Driver, error)
	// GetPendingDriverByEmail looks up a driver still awaiting review.
	GetPendingDriverByEmail(ctx context.Context, email string) (*models.Driver, error)
	// ApproveDriver moves a pending driver into the approved set.
	ApproveDriver(ctx context.Context, id string) error
	// RejectDriver drops a pending driver.
	RejectDriver(ctx context.Context, id string) error

	// AddNotification appends to the admin feed.
	AddNotification(ctx context.Context, n models.AdminNotification) error
	// RecentNotifications returns up to limit entries, newest first.
	RecentNotifications(ctx context.Context, limit int) ([]models.AdminNotification, error)

	GetFareSettings(ctx context.Context) (models.FareSettings, error)
	SaveFareSettings(ctx context.Context, settings models.FareSettings) error

	CreateBooking(ctx context.Context, booking *models.Booking) error
}
