package shared

import (
	"fmt"

	"golang.org/x/text/language"
	"golang.org/x/text/message"
	"golang.org/x/text/number"
)

// DisplayConfig carries the locale and currency used when rendering
// monetary amounts. It is passed around explicitly; the process-wide
// locale is never touched.
type DisplayConfig struct {
	Locale   string
	Currency string
}

// Formatter renders integer fund amounts for the presentation layer.
type Formatter struct {
	printer  *message.Printer
	currency string
}

// NewFormatter builds a Formatter from the display configuration.
func NewFormatter(cfg DisplayConfig) (*Formatter, error) {
	tag, err := language.Parse(cfg.Locale)
	if err != nil {
		return nil, fmt.Errorf("shared: parse display locale %q: %w", cfg.Locale, err)
	}
	return &Formatter{printer: message.NewPrinter(tag), currency: cfg.Currency}, nil
}

// Amount renders v with locale-appropriate digit grouping.
func (f *Formatter) Amount(v int64) string {
	return f.printer.Sprintf("%v", number.Decimal(v))
}

// AmountWithCurrency renders v followed by the configured currency code.
func (f *Formatter) AmountWithCurrency(v int64) string {
	return f.Amount(v) + " " + f.currency
}

// Negative reports whether a balance should get the negative visual
// treatment. The threshold is exactly zero: zero is non-negative.
func Negative(v int64) bool {
	return v < 0
}
