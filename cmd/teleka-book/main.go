// Command teleka-book fills the booking form against a running server: it
// types the pickup and destination, picks a suggestion for each and prints
// the fare. An empty pickup lists places nearby.
package main

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"os/signal"
	"syscall"
	"time"

	"teleka/config"
	"teleka/services/autocomplete"
	"teleka/services/places"
	"teleka/utils"

	"github.com/spf13/pflag"
	"github.com/spf13/viper"
	"go.uber.org/zap"
)

type options struct {
	Server      string
	Pickup      string
	Destination string
	Pick        int
	Currency    string
	Locale      string
	Timeout     time.Duration
}

func main() {
	pflag.String("server", "http://localhost:3000", "booking server base URL")
	pflag.String("pickup", "", "pickup text; empty lists nearby places")
	pflag.String("destination", "", "destination text")
	pflag.Int("pick", 0, "which selectable suggestion to choose in each field")
	pflag.Duration("timeout", 30*time.Second, "overall deadline")
	pflag.Parse()

	v := viper.New()
	config.SetDefaults(v)
	v.AutomaticEnv()
	if err := v.BindPFlags(pflag.CommandLine); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(2)
	}

	opts := options{
		Server:      v.GetString("server"),
		Pickup:      v.GetString("pickup"),
		Destination: v.GetString("destination"),
		Pick:        v.GetInt("pick"),
		Currency:    v.GetString("PRICE_CURRENCY"),
		Locale:      v.GetString("PRICE_LOCALE"),
		Timeout:     v.GetDuration("timeout"),
	}
	if opts.Destination == "" {
		fmt.Fprintln(os.Stderr, "--destination is required")
		os.Exit(2)
	}

	logger := utils.GetLogger()
	defer logger.Sync()

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()
	ctx, cancel := context.WithTimeout(ctx, opts.Timeout)
	defer cancel()

	if err := run(ctx, opts, os.Stdout, logger); err != nil {
		logger.Error("booking form failed", zap.Error(err))
		os.Exit(1)
	}
}

func run(ctx context.Context, opts options, out io.Writer, logger *zap.Logger) error {
	api := places.NewHTTPClient(opts.Server, 0)
	recent := autocomplete.NewRecentPlaces(autocomplete.NewMemoryStorage(), logger)

	form := autocomplete.NewForm(ctx, autocomplete.FormOptions{
		Suggester: autocomplete.NewSuggester(api, nil, recent, logger),
		Nearby:    autocomplete.NewNearbyProvider(api, nil, logger),
		Recent:    recent,
		Selection: autocomplete.NewDetailsResolver(api, logger),
		Price:     autocomplete.NewPriceDisplay(api, opts.Currency, opts.Locale, logger),
		Logger:    logger,
	})

	if err := fill(ctx, out, "Pickup", form.Pickup, opts.Pickup, opts.Pick); err != nil {
		return err
	}
	if err := fill(ctx, out, "Destination", form.Destination, opts.Destination, opts.Pick); err != nil {
		return err
	}

	view := form.Price.View()
	if view.State != autocomplete.PriceReady {
		return errors.New(view.Message)
	}
	fmt.Fprintf(out, "Price: %s\nDistance: %s\nDuration: %s\n%s\n",
		view.Amount, view.Distance, view.Duration, view.TrafficLabel())
	return nil
}

// fill types text into a field, prints the dropdown and selects the pick-th
// selectable row.
func fill(ctx context.Context, out io.Writer, label string, ctrl *autocomplete.Controller, text string, pick int) error {
	ctrl.Input(text)
	ctrl.Wait()

	var selectable []int
	fmt.Fprintf(out, "%s suggestions:\n", label)
	for _, row := range ctrl.View().Rows {
		if row.Error {
			fmt.Fprintf(out, "  %s\n", row.Message)
			continue
		}
		line := row.Main
		if row.Category != "" {
			line += " (" + row.Category + ")"
		}
		if row.Secondary != "" {
			line += ", " + row.Secondary
		}
		fmt.Fprintf(out, "  [%d] %s\n", len(selectable), line)
		selectable = append(selectable, row.Index)
	}
	if pick < 0 || pick >= len(selectable) {
		return fmt.Errorf("%s: no selectable suggestion at %d", label, pick)
	}
	if err := ctrl.Select(ctx, selectable[pick]); err != nil {
		return err
	}
	fmt.Fprintf(out, "%s: %s\n", label, ctrl.Text())
	return nil
}
