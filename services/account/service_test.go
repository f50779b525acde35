package account

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"testing"
	"time"

	accountRepo "teleka/database/repository/account"
	"teleka/models"
	"teleka/utils"
)

type fakeNotifier struct {
	mu   sync.Mutex
	sent []models.PushPayload
	err  error
}

func (f *fakeNotifier) NotifyAdmins(_ context.Context, payload models.PushPayload) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.sent = append(f.sent, payload)
	return f.err
}

func newTestService() (*DefaultAccountService, *fakeNotifier) {
	notifier := &fakeNotifier{}
	repo := accountRepo.NewMemoryAccountRepo(models.FareSettings{BaseFare: 12000})
	s := NewAccountService(repo, notifier, AdminCredentials{Email: "admin@teleka.ug", Password: "s3cret"}, nil)
	s.Now = func() time.Time { return time.Date(2026, time.October, 14, 15, 4, 5, 0, time.UTC) }
	return s, notifier
}

func codeOf(t *testing.T, err error) string {
	t.Helper()
	var aerr AccountError
	if !errors.As(err, &aerr) {
		t.Fatalf("expected AccountError, got %v", err)
	}
	return aerr.Code
}

func registerDriver(t *testing.T, s *DefaultAccountService, name string) {
	t.Helper()
	err := s.RegisterDriver(context.Background(), models.DriverRegistration{
		Name:     name,
		Email:    name + "@drivers.ug",
		Password: "pw-" + name,
	})
	if err != nil {
		t.Fatalf("register driver %s: %v", name, err)
	}
}

func TestRegisterCustomerAndLogin(t *testing.T) {
	s, _ := newTestService()
	ctx := context.Background()

	req := models.CustomerRegistration{Name: "Amina", Email: " Amina@Example.com ", Password: "pw"}
	if err := s.RegisterCustomer(ctx, req); err != nil {
		t.Fatalf("register: %v", err)
	}
	if err := s.RegisterCustomer(ctx, req); codeOf(t, err) != CodeConflict {
		t.Fatalf("expected conflict on duplicate registration")
	}

	res, err := s.Login(ctx, models.LoginRequest{Role: RoleCustomer, Email: "amina@example.com", Password: "pw"})
	if err != nil {
		t.Fatalf("login: %v", err)
	}
	if res.Role != RoleCustomer || res.Name != "Amina" || res.Message != "Welcome Amina" {
		t.Fatalf("unexpected login result %+v", res)
	}
	claims, err := utils.ExtractClaims(res.Token)
	if err != nil || claims["role"] != RoleCustomer || claims["email"] != "amina@example.com" {
		t.Fatalf("unexpected claims %v (%v)", claims, err)
	}

	_, err = s.Login(ctx, models.LoginRequest{Role: RoleCustomer, Email: "amina@example.com", Password: "nope"})
	if codeOf(t, err) != CodeUnauthorized {
		t.Fatalf("expected unauthorized for a wrong password")
	}
}

func TestRegisterValidation(t *testing.T) {
	s, _ := newTestService()
	err := s.RegisterCustomer(context.Background(), models.CustomerRegistration{Name: " ", Email: "a@b.c", Password: "x"})
	if codeOf(t, err) != CodeInvalid {
		t.Fatalf("expected invalid for a blank name")
	}
}

func TestAdminLogin(t *testing.T) {
	s, _ := newTestService()
	ctx := context.Background()

	res, err := s.Login(ctx, models.LoginRequest{Role: RoleAdmin, Email: "ADMIN@teleka.ug", Password: "s3cret"})
	if err != nil || res.Role != RoleAdmin || res.Message != "Welcome Admin" {
		t.Fatalf("unexpected admin login %+v (%v)", res, err)
	}

	_, err = s.Login(ctx, models.LoginRequest{Role: RoleAdmin, Email: "admin@teleka.ug", Password: "wrong"})
	if codeOf(t, err) != CodeUnauthorized {
		t.Fatalf("expected unauthorized")
	}

	_, err = s.Login(ctx, models.LoginRequest{Role: "pilot", Email: "x@y.z", Password: "pw"})
	if codeOf(t, err) != CodeInvalid {
		t.Fatalf("expected invalid role")
	}
}

func TestDriverLifecycle(t *testing.T) {
	s, notifier := newTestService()
	ctx := context.Background()

	registerDriver(t, s, "okello")
	err := s.RegisterDriver(ctx, models.DriverRegistration{Name: "okello", Email: "okello@drivers.ug", Password: "x"})
	if codeOf(t, err) != CodeConflict {
		t.Fatalf("expected conflict for a pending duplicate")
	}
	if len(notifier.sent) != 1 || notifier.sent[0].Data.URL != AdminDashboardURL {
		t.Fatalf("expected one dashboard push, got %+v", notifier.sent)
	}

	_, err = s.Login(ctx, models.LoginRequest{Role: RoleDriver, Email: "okello@drivers.ug", Password: "pw-okello"})
	if codeOf(t, err) != CodePending {
		t.Fatalf("expected pending approval")
	}
	_, err = s.Login(ctx, models.LoginRequest{Role: RoleDriver, Email: "okello@drivers.ug", Password: "wrong"})
	if codeOf(t, err) != CodeUnauthorized {
		t.Fatalf("expected unauthorized for a pending driver with a wrong password")
	}

	d, err := s.ApproveDriver(ctx, 0)
	if err != nil || !d.Approved || d.Name != "okello" {
		t.Fatalf("approve: %+v (%v)", d, err)
	}
	pending, _ := s.PendingDrivers(ctx)
	if len(pending) != 0 {
		t.Fatalf("expected empty queue after approval, got %d", len(pending))
	}

	res, err := s.Login(ctx, models.LoginRequest{Role: RoleDriver, Email: "okello@drivers.ug", Password: "pw-okello"})
	if err != nil || res.Role != RoleDriver {
		t.Fatalf("expected approved driver login, got %+v (%v)", res, err)
	}

	err = s.RegisterDriver(ctx, models.DriverRegistration{Name: "okello", Email: "okello@drivers.ug", Password: "x"})
	if codeOf(t, err) != CodeConflict {
		t.Fatalf("expected conflict for an approved duplicate")
	}
}

func TestRejectByIndex(t *testing.T) {
	s, _ := newTestService()
	ctx := context.Background()
	registerDriver(t, s, "a")
	registerDriver(t, s, "b")

	d, err := s.RejectDriver(ctx, 1)
	if err != nil || d.Name != "b" {
		t.Fatalf("reject: %+v (%v)", d, err)
	}
	if _, err := s.RejectDriver(ctx, 1); codeOf(t, err) != CodeNotFound {
		t.Fatalf("expected not found for a stale index")
	}
	if _, err := s.ApproveDriver(ctx, -1); codeOf(t, err) != CodeNotFound {
		t.Fatalf("expected not found for a negative index")
	}

	pending, _ := s.PendingDrivers(ctx)
	if len(pending) != 1 || pending[0].Name != "a" {
		t.Fatalf("unexpected queue %+v", pending)
	}
}

func TestNotificationsNewestFirstAndCapped(t *testing.T) {
	s, _ := newTestService()
	ctx := context.Background()
	for i := 0; i < 7; i++ {
		registerDriver(t, s, fmt.Sprintf("d%d", i))
	}

	feed, err := s.Notifications(ctx)
	if err != nil {
		t.Fatalf("notifications: %v", err)
	}
	if len(feed) != NotificationFeedSize {
		t.Fatalf("expected %d entries, got %d", NotificationFeedSize, len(feed))
	}
	if feed[0].Message != "New driver registration: d6" || feed[4].Message != "New driver registration: d2" {
		t.Fatalf("unexpected order %q .. %q", feed[0].Message, feed[4].Message)
	}
	if feed[0].Timestamp != "10/14/2026, 3:04:05 PM" {
		t.Fatalf("unexpected timestamp %q", feed[0].Timestamp)
	}
}

func TestCreateBookingPushesAlert(t *testing.T) {
	s, notifier := newTestService()
	notifier.err = errors.New("fcm down")
	ctx := context.Background()

	b, err := s.CreateBooking(ctx, models.Booking{Name: " Amina ", Pickup: "Ntinda", Destination: "Entebbe Airport"})
	if err != nil {
		t.Fatalf("booking should not fail when the push fails: %v", err)
	}
	if b.ID == "" || b.Name != "Amina" {
		t.Fatalf("unexpected booking %+v", b)
	}

	if len(notifier.sent) != 1 {
		t.Fatalf("expected one push, got %d", len(notifier.sent))
	}
	push := notifier.sent[0]
	if push.Title != "New Booking Request" || push.Data.URL != AdminAlertURL || push.Data.Booking == nil || push.Data.Booking.ID != b.ID {
		t.Fatalf("unexpected push %+v", push)
	}
	if push.Body != "Amina: Ntinda → Entebbe Airport" {
		t.Fatalf("unexpected body %q", push.Body)
	}

	feed, _ := s.Notifications(ctx)
	if len(feed) != 1 || feed[0].Message != "New booking from Amina: Ntinda → Entebbe Airport" {
		t.Fatalf("unexpected feed %+v", feed)
	}

	if _, err := s.CreateBooking(ctx, models.Booking{Name: "x", Pickup: " "}); codeOf(t, err) != CodeInvalid {
		t.Fatalf("expected invalid for missing fields")
	}
}

func TestFareSettings(t *testing.T) {
	s, _ := newTestService()
	ctx := context.Background()

	got, err := s.FareSettings(ctx)
	if err != nil || got.BaseFare != 12000 {
		t.Fatalf("unexpected defaults %+v (%v)", got, err)
	}
	if err := s.UpdateFareSettings(ctx, models.FareSettings{BaseFare: -1}); codeOf(t, err) != CodeInvalid {
		t.Fatalf("expected invalid for negative fare")
	}
	if err := s.UpdateFareSettings(ctx, models.FareSettings{BaseFare: 15000, Commission: 10}); err != nil {
		t.Fatalf("update: %v", err)
	}
	got, _ = s.FareSettings(ctx)
	if got.BaseFare != 15000 || got.Commission != 10 {
		t.Fatalf("expected saved settings, got %+v", got)
	}
}
