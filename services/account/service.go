package account

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	accountRepo "teleka/database/repository/account"
	"teleka/models"
	"teleka/utils"

	"github.com/google/uuid"
	"go.uber.org/zap"
	"golang.org/x/crypto/bcrypt"
)

const (
	RoleCustomer = "customer"
	RoleDriver   = "driver"
	RoleAdmin    = "admin"

	// NotificationFeedSize is how many entries the admin feed returns.
	NotificationFeedSize = 5
	// TokenTTL is the lifetime of login tokens.
	TokenTTL = 24 * time.Hour

	// AdminAlertURL is opened when an admin taps a booking push.
	AdminAlertURL = "/admin/alert.html"
	// AdminDashboardURL is opened for every other admin push.
	AdminDashboardURL = "/admin/dashboard.html"

	feedTimestampLayout = "1/2/2006, 3:04:05 PM"
)

// AdminCredentials is the single configured admin login.
type AdminCredentials struct {
	Email    string
	Password string
}

// DefaultAccountService is the production implementation.
type DefaultAccountService struct {
	Repo     accountRepo.AccountRepository
	Notifier AdminNotifier
	Admin    AdminCredentials
	Logger   *zap.Logger
	Now      func() time.Time
}

func NewAccountService(repo accountRepo.AccountRepository, notifier AdminNotifier, admin AdminCredentials, logger *zap.Logger) *DefaultAccountService {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &DefaultAccountService{
		Repo:     repo,
		Notifier: notifier,
		Admin:    admin,
		Logger:   logger,
		Now:      time.Now,
	}
}

func (s *DefaultAccountService) RegisterCustomer(ctx context.Context, req models.CustomerRegistration) error {
	email := normalizeEmail(req.Email)
	if strings.TrimSpace(req.Name) == "" || email == "" || req.Password == "" {
		return invalid("name, email and password are required")
	}

	if _, err := s.Repo.GetCustomerByEmail(ctx, email); err == nil {
		return AccountError{Code: CodeConflict, Message: "User already exists."}
	} else if !errors.Is(err, accountRepo.ErrNotFound) {
		return err
	}

	hash, err := hashPassword(req.Password)
	if err != nil {
		return err
	}
	customer := &models.Customer{
		ID:           uuid.NewString(),
		Name:         strings.TrimSpace(req.Name),
		Email:        email,
		Phone:        req.Phone,
		PasswordHash: hash,
		CreatedAt:    s.Now(),
	}
	if err := s.Repo.CreateCustomer(ctx, customer); err != nil {
		return fmt.Errorf("register customer: %w", err)
	}
	s.Logger.Info("customer registered", zap.String("id", customer.ID))
	return nil
}

func (s *DefaultAccountService) RegisterDriver(ctx context.Context, req models.DriverRegistration) error {
	email := normalizeEmail(req.Email)
	if strings.TrimSpace(req.Name) == "" || email == "" || req.Password == "" {
		return invalid("name, email and password are required")
	}

	if _, err := s.Repo.GetPendingDriverByEmail(ctx, email); err == nil {
		return AccountError{Code: CodeConflict, Message: "Driver already pending."}
	} else if !errors.Is(err, accountRepo.ErrNotFound) {
		return err
	}
	if _, err := s.Repo.GetDriverByEmail(ctx, email); err == nil {
		return AccountError{Code: CodeConflict, Message: "Driver already exists."}
	} else if !errors.Is(err, accountRepo.ErrNotFound) {
		return err
	}

	hash, err := hashPassword(req.Password)
	if err != nil {
		return err
	}
	driver := &models.Driver{
		ID:           uuid.NewString(),
		Name:         strings.TrimSpace(req.Name),
		Email:        email,
		Phone:        req.Phone,
		License:      req.License,
		NationalID:   req.NationalID,
		PasswordHash: hash,
		CreatedAt:    s.Now(),
	}
	if err := s.Repo.CreatePendingDriver(ctx, driver); err != nil {
		return fmt.Errorf("register driver: %w", err)
	}
	msg := fmt.Sprintf("New driver registration: %s", driver.Name)
	s.addNotification(ctx, msg)
	s.pushAdmins(ctx, models.PushPayload{
		Title: "New Driver Registration",
		Body:  msg,
		Data:  models.PushData{URL: AdminDashboardURL},
	})
	return nil
}

func (s *DefaultAccountService) Login(ctx context.Context, req models.LoginRequest) (*LoginResult, error) {
	email := normalizeEmail(req.Email)
	if email == "" || req.Password == "" {
		return nil, invalid("email and password are required")
	}

	switch req.Role {
	case RoleAdmin:
		if s.Admin.Password == "" || email != normalizeEmail(s.Admin.Email) || req.Password != s.Admin.Password {
			return nil, unauthorized("Invalid credentials.")
		}
		return s.issue(email, email, RoleAdmin, "Welcome Admin", "")

	case RoleCustomer:
		c, err := s.Repo.GetCustomerByEmail(ctx, email)
		if errors.Is(err, accountRepo.ErrNotFound) {
			return nil, unauthorized("Invalid credentials.")
		}
		if err != nil {
			return nil, err
		}
		if !checkPassword(c.PasswordHash, req.Password) {
			return nil, unauthorized("Invalid credentials.")
		}
		return s.issue(c.ID, c.Email, RoleCustomer, "Welcome "+c.Name, c.Name)

	case RoleDriver:
		d, err := s.Repo.GetDriverByEmail(ctx, email)
		if errors.Is(err, accountRepo.ErrNotFound) {
			if p, perr := s.Repo.GetPendingDriverByEmail(ctx, email); perr == nil && checkPassword(p.PasswordHash, req.Password) {
				return nil, AccountError{Code: CodePending, Message: "Pending approval."}
			}
			return nil, unauthorized("Invalid credentials.")
		}
		if err != nil {
			return nil, err
		}
		if !checkPassword(d.PasswordHash, req.Password) {
			return nil, unauthorized("Invalid credentials.")
		}
		return s.issue(d.ID, d.Email, RoleDriver, "Welcome "+d.Name, d.Name)
	}
	return nil, invalid("Invalid role.")
}

func (s *DefaultAccountService) issue(subject, email, role, message, name string) (*LoginResult, error) {
	token, err := utils.GenerateToken(subject, email, role, TokenTTL)
	if err != nil {
		return nil, fmt.Errorf("sign token: %w", err)
	}
	return &LoginResult{Message: message, Role: role, Token: token, Name: name}, nil
}

func (s *DefaultAccountService) PendingDrivers(ctx context.Context) ([]models.Driver, error) {
	drivers, err := s.Repo.ListPendingDrivers(ctx)
	if err != nil {
		return nil, err
	}
	if drivers == nil {
		drivers = []models.Driver{}
	}
	return drivers, nil
}

func (s *DefaultAccountService) ApproveDriver(ctx context.Context, index int) (*models.Driver, error) {
	d, err := s.pendingAt(ctx, index)
	if err != nil {
		return nil, err
	}
	if err := s.Repo.ApproveDriver(ctx, d.ID); err != nil {
		return nil, mapNotFound(err)
	}
	d.Approved = true
	s.addNotification(ctx, fmt.Sprintf("Driver approved: %s", d.Name))
	return d, nil
}

func (s *DefaultAccountService) RejectDriver(ctx context.Context, index int) (*models.Driver, error) {
	d, err := s.pendingAt(ctx, index)
	if err != nil {
		return nil, err
	}
	if err := s.Repo.RejectDriver(ctx, d.ID); err != nil {
		return nil, mapNotFound(err)
	}
	s.addNotification(ctx, fmt.Sprintf("Driver rejected: %s", d.Name))
	return d, nil
}

// pendingAt resolves a position in the review queue as shown to the admin.
func (s *DefaultAccountService) pendingAt(ctx context.Context, index int) (*models.Driver, error) {
	drivers, err := s.Repo.ListPendingDrivers(ctx)
	if err != nil {
		return nil, err
	}
	if index < 0 || index >= len(drivers) {
		return nil, AccountError{Code: CodeNotFound, Message: "Driver not found."}
	}
	d := drivers[index]
	return &d, nil
}

func (s *DefaultAccountService) Notifications(ctx context.Context) ([]models.AdminNotification, error) {
	return s.Repo.RecentNotifications(ctx, NotificationFeedSize)
}

func (s *DefaultAccountService) FareSettings(ctx context.Context) (models.FareSettings, error) {
	return s.Repo.GetFareSettings(ctx)
}

func (s *DefaultAccountService) UpdateFareSettings(ctx context.Context, settings models.FareSettings) error {
	if settings.BaseFare < 0 || settings.Commission < 0 {
		return invalid("fare settings must not be negative")
	}
	if err := s.Repo.SaveFareSettings(ctx, settings); err != nil {
		return err
	}
	s.addNotification(ctx, "Fare settings updated")
	return nil
}

// CreateBooking stores the request, adds it to the admin feed and pushes an
// alert to the admin devices. A failed push does not fail the booking.
func (s *DefaultAccountService) CreateBooking(ctx context.Context, booking models.Booking) (*models.Booking, error) {
	booking.Name = strings.TrimSpace(booking.Name)
	booking.Pickup = strings.TrimSpace(booking.Pickup)
	booking.Destination = strings.TrimSpace(booking.Destination)
	if booking.Name == "" || booking.Pickup == "" || booking.Destination == "" {
		return nil, invalid("name, pickup and destination are required")
	}
	booking.ID = uuid.NewString()
	booking.CreatedAt = s.Now()

	if err := s.Repo.CreateBooking(ctx, &booking); err != nil {
		return nil, fmt.Errorf("create booking: %w", err)
	}

	body := fmt.Sprintf("%s: %s → %s", booking.Name, booking.Pickup, booking.Destination)
	s.addNotification(ctx, "New booking from "+body)

	s.pushAdmins(ctx, models.PushPayload{
		Title: "New Booking Request",
		Body:  body,
		Data:  models.PushData{URL: AdminAlertURL, Booking: &booking},
	})
	return &booking, nil
}

func (s *DefaultAccountService) pushAdmins(ctx context.Context, payload models.PushPayload) {
	if s.Notifier == nil {
		return
	}
	if err := s.Notifier.NotifyAdmins(ctx, payload); err != nil {
		s.Logger.Warn("admin push failed", zap.String("title", payload.Title), zap.Error(err))
	}
}

func (s *DefaultAccountService) addNotification(ctx context.Context, message string) {
	now := s.Now()
	n := models.AdminNotification{
		ID:        uuid.NewString(),
		Message:   message,
		Timestamp: now.Format(feedTimestampLayout),
		CreatedAt: now,
	}
	if err := s.Repo.AddNotification(ctx, n); err != nil {
		s.Logger.Warn("failed to store admin notification", zap.Error(err))
	}
}

func normalizeEmail(email string) string {
	return strings.ToLower(strings.TrimSpace(email))
}

func hashPassword(password string) (string, error) {
	b, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return "", fmt.Errorf("hash password: %w", err)
	}
	return string(b), nil
}

func checkPassword(hash, password string) bool {
	return bcrypt.CompareHashAndPassword([]byte(hash), []byte(password)) == nil
}

func mapNotFound(err error) error {
	if errors.Is(err, accountRepo.ErrNotFound) {
		return AccountError{Code: CodeNotFound, Message: "Driver not found."}
	}
	return err
}
