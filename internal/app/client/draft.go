package client

import (
	"errors"
	"math"
	"strconv"
	"strings"
	"time"
	"unicode"

	"github.com/FACorreiaa/go-ticketing/internal/app/models"
)

// isoMillis is the wire format for departure instants: UTC with
// millisecond precision and a Z suffix.
const isoMillis = "2006-01-02T15:04:05.000Z"

// Layouts a datetime-local input can submit. They carry no zone.
var localLayouts = []string{
	"2006-01-02T15:04",
	"2006-01-02T15:04:05",
	"2006-01-02T15:04:05.999999999",
}

var errEmptyDeparture = errors.New("departure time is required")

// PrepareTicket converts a draft into a request body. The price follows
// parseFloat semantics and the departure time is read in loc.
func PrepareTicket(draft models.NewTicketDraft, loc *time.Location) (models.NewTicket, error) {
	departure, err := ParseDeparture(draft.DepartureTime, loc)
	if err != nil {
		return models.NewTicket{}, &ValidationError{Field: "departureTime", Value: draft.DepartureTime, Err: err}
	}

	return models.NewTicket{
		From:          draft.From,
		To:            draft.To,
		DepartureTime: FormatDeparture(departure),
		Price:         models.Price(ParseFloat(draft.Price)),
	}, nil
}

// ParseDeparture reads a zone-less form value as a wall-clock time in loc.
// Values that already carry an offset are taken as-is.
func ParseDeparture(value string, loc *time.Location) (time.Time, error) {
	value = strings.TrimSpace(value)
	if value == "" {
		return time.Time{}, errEmptyDeparture
	}
	if loc == nil {
		loc = time.UTC
	}

	if t, err := time.Parse(time.RFC3339Nano, value); err == nil {
		return t, nil
	}

	var lastErr error
	for _, layout := range localLayouts {
		t, err := time.ParseInLocation(layout, value, loc)
		if err == nil {
			return t, nil
		}
		lastErr = err
	}
	return time.Time{}, lastErr
}

// FormatDeparture renders an instant in the wire format.
func FormatDeparture(t time.Time) string {
	return t.UTC().Format(isoMillis)
}

// ParseFloat reads the longest decimal prefix of s, skipping leading
// whitespace, the way a browser's parseFloat does. Input with no numeric
// prefix yields NaN.
func ParseFloat(s string) float64 {
	s = strings.TrimLeftFunc(s, unicode.IsSpace)

	i := 0
	if i < len(s) && (s[i] == '+' || s[i] == '-') {
		i++
	}
	if strings.HasPrefix(s[i:], "Infinity") {
		if s[0] == '-' {
			return math.Inf(-1)
		}
		return math.Inf(1)
	}

	digits := 0
	for i < len(s) && isDigit(s[i]) {
		i++
		digits++
	}
	if i < len(s) && s[i] == '.' {
		i++
		for i < len(s) && isDigit(s[i]) {
			i++
			digits++
		}
	}
	if digits == 0 {
		return math.NaN()
	}

	end := i
	if i < len(s) && (s[i] == 'e' || s[i] == 'E') {
		j := i + 1
		if j < len(s) && (s[j] == '+' || s[j] == '-') {
			j++
		}
		expDigits := 0
		for j < len(s) && isDigit(s[j]) {
			j++
			expDigits++
		}
		if expDigits > 0 {
			end = j
		}
	}

	f, err := strconv.ParseFloat(strings.TrimSuffix(s[:end], "."), 64)
	if err != nil {
		var numErr *strconv.NumError
		if errors.As(err, &numErr) && errors.Is(numErr.Err, strconv.ErrRange) {
			return f
		}
		return math.NaN()
	}
	return f
}

func isDigit(b byte) bool { return b >= '0' && b <= '9' }
