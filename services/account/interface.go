package account

import (
	"context"

	"teleka/models"
)

// AdminNotifier delivers a push to the admin devices.
type AdminNotifier interface {
	NotifyAdmins(ctx context.Context, payload models.PushPayload) error
}

// LoginResult is returned on a successful login.
type LoginResult struct {
	Message string `json:"message"`
	Role    string `json:"role"`
	Token   string `json:"token"`
	Name    string `json:"name,omitempty"`
}

// AccountService covers registration, login, driver review, the admin feed,
// fare settings and booking intake.
type AccountService interface {
	RegisterCustomer(ctx context.Context, req models.CustomerRegistration) error
	RegisterDriver(ctx context.Context, req models.DriverRegistration) error
	Login(ctx context.Context, req models.LoginRequest) (*LoginResult, error)

	PendingDrivers(ctx context.Context) ([]models.Driver, error)
	ApproveDriver(ctx context.Context, index int) (*models.Driver, error)
	RejectDriver(ctx context.Context, index int) (*models.Driver, error)

	Notifications(ctx context.Context) ([]models.AdminNotification, error)

	FareSettings(ctx context.Context) (models.FareSettings, error)
	UpdateFareSettings(ctx context.Context, settings models.FareSettings) error

	CreateBooking(ctx context.Context, booking models.Booking) (*models.Booking, error)
}
