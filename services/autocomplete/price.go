package autocomplete

import (
	"context"
	"fmt"
	"sync"
	"time"

	"teleka/models"
	"teleka/services/pricing"

	"go.uber.org/zap"
)

// PriceQuoter fetches a quote for two endpoints.
type PriceQuoter interface {
	CalculatePrice(ctx context.Context, origin, destination string) (*models.PriceQuote, error)
}

// PriceState is the lifecycle of the price panel.
type PriceState string

const (
	PriceIdle    PriceState = "idle"
	PriceLoading PriceState = "loading"
	PriceReady   PriceState = "ready"
	PriceFailed  PriceState = "failed"
)

// MsgPriceFailure is shown when a quote cannot be produced.
const MsgPriceFailure = "Could not calculate price."

// PriceView is what the price panel shows.
type PriceView struct {
	State        PriceState          `json:"state"`
	Amount       string              `json:"amount,omitempty"`
	Distance     string              `json:"distance,omitempty"`
	Duration     string              `json:"duration,omitempty"`
	TrafficLevel models.TrafficLevel `json:"traffic_level,omitempty"`
	Message      string              `json:"message,omitempty"`
}

// TrafficLabel is the "<Level> Traffic" caption.
func (v PriceView) TrafficLabel() string {
	if v.TrafficLevel == "" {
		return ""
	}
	return fmt.Sprintf("%s Traffic", v.TrafficLevel)
}

// PriceDisplay fetches quotes and keeps the panel state. A failure only
// affects the panel.
type PriceDisplay struct {
	quoter   PriceQuoter
	currency string
	locale   string
	logger   *zap.Logger

	mu   sync.Mutex
	view PriceView
}

func NewPriceDisplay(quoter PriceQuoter, currency, locale string, logger *zap.Logger) *PriceDisplay {
	if currency == "" {
		currency = "UGX"
	}
	if locale == "" {
		locale = "en-UG"
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	return &PriceDisplay{
		quoter:   quoter,
		currency: currency,
		locale:   locale,
		logger:   logger,
		view:     PriceView{State: PriceIdle},
	}
}

// Calculate fetches and renders a quote.
func (p *PriceDisplay) Calculate(ctx context.Context, origin, destination string) PriceView {
	p.set(PriceView{State: PriceLoading, Message: "Calculating price..."})

	quote, err := p.quoter.CalculatePrice(ctx, origin, destination)
	if err != nil {
		p.logger.Warn("price calculation failed", zap.Error(err))
		v := PriceView{State: PriceFailed, Message: MsgPriceFailure}
		p.set(v)
		return v
	}

	v := PriceView{
		State:        PriceReady,
		Amount:       pricing.FormatAmount(quote.Price, p.currency, p.locale),
		Distance:     quote.Distance.Text,
		Duration:     quote.Duration.Text,
		TrafficLevel: quote.TrafficLevel,
	}
	p.set(v)
	return v
}

func (p *PriceDisplay) set(v PriceView) {
	p.mu.Lock()
	p.view = v
	p.mu.Unlock()
}

// View returns the current panel state.
func (p *PriceDisplay) View() PriceView {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.view
}

// FormOptions configures a booking form.
type FormOptions struct {
	Suggester *Suggester
	Nearby    *NearbyProvider
	Recent    *RecentPlaces
	Selection SelectionHandler
	Price     *PriceDisplay
	Debounce  time.Duration
	Logger    *zap.Logger
}

// Form pairs the pickup and destination fields with the price panel. A
// completed selection in either field prices the trip once both are filled.
type Form struct {
	Pickup      *Controller
	Destination *Controller
	Price       *PriceDisplay
}

func NewForm(ctx context.Context, opts FormOptions) *Form {
	f := &Form{Price: opts.Price}
	ctrl := Options{
		Suggester:  opts.Suggester,
		Nearby:     opts.Nearby,
		Recent:     opts.Recent,
		Selection:  opts.Selection,
		OnComplete: func() { f.CalculatePriceIfReady(ctx) },
		Debounce:   opts.Debounce,
		Logger:     opts.Logger,
	}
	f.Pickup = NewController(ctx, ctrl)
	f.Destination = NewController(ctx, ctrl)
	return f
}

// CalculatePriceIfReady prices the trip when both fields have text and
// reports whether it did.
func (f *Form) CalculatePriceIfReady(ctx context.Context) bool {
	if f.Price == nil {
		return false
	}
	pickup := f.Pickup.Text()
	destination := f.Destination.Text()
	if pickup == "" || destination == "" {
		return false
	}
	f.Price.Calculate(ctx, pickup, destination)
	return true
}
