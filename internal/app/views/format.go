package views

import (
	"fmt"
	"math"
	"time"

	"golang.org/x/text/currency"
	"golang.org/x/text/language"
	"golang.org/x/text/message"
)

const departureLayout = "Mon, 02 Jan 2006 15:04 MST"

// Formatter renders ticket values for display.
type Formatter struct {
	printer  *message.Printer
	unit     currency.Unit
	location *time.Location
}

func NewFormatter(currencyCode string, loc *time.Location) (Formatter, error) {
	unit, err := currency.ParseISO(currencyCode)
	if err != nil {
		return Formatter{}, fmt.Errorf("invalid currency %q: %w", currencyCode, err)
	}
	if loc == nil {
		loc = time.UTC
	}
	return Formatter{
		printer:  message.NewPrinter(language.English),
		unit:     unit,
		location: loc,
	}, nil
}

func (f Formatter) Price(price float64) string {
	if math.IsNaN(price) || math.IsInf(price, 0) {
		return "n/a"
	}
	if f.printer == nil {
		return fmt.Sprintf("%.2f", price)
	}
	return f.printer.Sprint(currency.Symbol(f.unit.Amount(price)))
}

func (f Formatter) Departure(t time.Time) string {
	if t.IsZero() {
		return "n/a"
	}
	loc := f.location
	if loc == nil {
		loc = time.UTC
	}
	return t.In(loc).Format(departureLayout)
}
