package pricing

import (
	"math"
	"strings"

	"golang.org/x/text/currency"
	"golang.org/x/text/language"
	"golang.org/x/text/message"
)

// FormatAmount renders a whole-unit amount with the locale's currency symbol
// and digit grouping, for example "USh 174,000" for en-UG/UGX.
func FormatAmount(amount float64, currencyCode, locale string) string {
	tag, err := language.Parse(locale)
	if err != nil {
		tag = language.English
	}
	p := message.NewPrinter(tag)

	unit, err := currency.ParseISO(currencyCode)
	symbol := strings.ToUpper(currencyCode)
	if err == nil {
		symbol = p.Sprint(currency.Symbol(unit))
	}
	return symbol + " " + p.Sprintf("%d", int64(math.Round(amount)))
}
