package accountRepo

import (
	"context"
	"strings"
	"sync"

	"teleka/models"
)

// MemoryAccountRepo keeps everything in process memory. Data is lost on
// restart.
type MemoryAccountRepo struct {
	mu            sync.RWMutex
	customers     []models.Customer
	pending       []models.Driver
	drivers       []models.Driver
	notifications []models.AdminNotification
	fares         models.FareSettings
	bookings      []models.Booking
}

// NewMemoryAccountRepo creates an empty repository seeded with fare settings.
func NewMemoryAccountRepo(fares models.FareSettings) *MemoryAccountRepo {
	return &MemoryAccountRepo{fares: fares}
}

func (r *MemoryAccountRepo) CreateCustomer(_ context.Context, customer *models.Customer) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.customers = append(r.customers, *customer)
	return nil
}

func (r *MemoryAccountRepo) GetCustomerByEmail(_ context.Context, email string) (*models.Customer, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	for i := range r.customers {
		if strings.EqualFold(r.customers[i].Email, email) {
			c := r.customers[i]
			return &c, nil
		}
	}
	return nil, ErrNotFound
}

func (r *MemoryAccountRepo) CreatePendingDriver(_ context.Context, driver *models.Driver) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	d := *driver
	d.Approved = false
	r.pending = append(r.pending, d)
	return nil
}

func (r *MemoryAccountRepo) ListPendingDrivers(_ context.Context) ([]models.Driver, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	out := make([]models.Driver, len(r.pending))
	copy(out, r.pending)
	return out, nil
}

func (r *MemoryAccountRepo) GetDriverByEmail(_ context.Context, email string) (*models.Driver, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return findDriver(r.drivers, email)
}

func (r *MemoryAccountRepo) GetPendingDriverByEmail(_ context.Context, email string) (*models.Driver, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return findDriver(r.pending, email)
}

func findDriver(list []models.Driver, email string) (*models.Driver, error) {
	for i := range list {
		if strings.EqualFold(list[i].Email, email) {
			d := list[i]
			return &d, nil
		}
	}
	return nil, ErrNotFound
}

func (r *MemoryAccountRepo) ApproveDriver(_ context.Context, id string) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	d, ok := r.takePendingLocked(id)
	if !ok {
		return ErrNotFound
	}
	d.Approved = true
	r.drivers = append(r.drivers, d)
	return nil
}

func (r *MemoryAccountRepo) RejectDriver(_ context.Context, id string) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, ok := r.takePendingLocked(id); !ok {
		return ErrNotFound
	}
	return nil
}

func (r *MemoryAccountRepo) takePendingLocked(id string) (models.Driver, bool) {
	for i, d := range r.pending {
		if d.ID == id {
			r.pending = append(r.pending[:i], r.pending[i+1:]...)
			return d, true
		}
	}
	return models.Driver{}, false
}

func (r *MemoryAccountRepo) AddNotification(_ context.Context, n models.AdminNotification) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.notifications = append(r.notifications, n)
	return nil
}

func (r *MemoryAccountRepo) RecentNotifications(_ context.Context, limit int) ([]models.AdminNotification, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	out := make([]models.AdminNotification, 0, limit)
	for i := len(r.notifications) - 1; i >= 0 && len(out) < limit; i-- {
		out = append(out, r.notifications[i])
	}
	return out, nil
}

func (r *MemoryAccountRepo) GetFareSettings(_ context.Context) (models.FareSettings, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return r.fares, nil
}

func (r *MemoryAccountRepo) SaveFareSettings(_ context.Context, settings models.FareSettings) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.fares = settings
	return nil
}

func (r *MemoryAccountRepo) CreateBooking(_ context.Context, booking *models.Booking) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.bookings = append(r.bookings, *booking)
	return nil
}
