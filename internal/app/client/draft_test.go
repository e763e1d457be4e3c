package client

import (
	"math"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/FACorreiaa/go-ticketing/internal/app/models"
)

func TestParseFloat(t *testing.T) {
	tests := []struct {
		in   string
		want float64
	}{
		{"25.50", 25.5},
		{"  42", 42},
		{"-3.5", -3.5},
		{"+7", 7},
		{".5", 0.5},
		{"5.", 5},
		{"12abc", 12},
		{"1e3", 1000},
		{"1e", 1},
		{"2.5E-1x", 0.25},
		{"0x10", 0},
		{"Infinity", math.Inf(1)},
		{"-Infinity", math.Inf(-1)},
		{"1e400", math.Inf(1)},
	}
	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			assert.Equal(t, tt.want, ParseFloat(tt.in))
		})
	}

	for _, in := range []string{"", "abc", ".", "-", "e5", "$25"} {
		assert.True(t, math.IsNaN(ParseFloat(in)), "%q should be NaN", in)
	}
}

func TestParseDeparture(t *testing.T) {
	lagos, err := time.LoadLocation("Africa/Lagos")
	require.NoError(t, err)

	got, err := ParseDeparture("2024-05-01T10:00", lagos)
	require.NoError(t, err)
	assert.Equal(t, "2024-05-01T09:00:00.000Z", FormatDeparture(got))

	got, err = ParseDeparture("2024-05-01T10:00:30", time.UTC)
	require.NoError(t, err)
	assert.Equal(t, "2024-05-01T10:00:30.000Z", FormatDeparture(got))

	got, err = ParseDeparture("2024-05-01T10:00:00+02:00", lagos)
	require.NoError(t, err)
	assert.Equal(t, "2024-05-01T08:00:00.000Z", FormatDeparture(got), "explicit offsets win over the configured zone")

	got, err = ParseDeparture("2024-05-01T10:00", nil)
	require.NoError(t, err)
	assert.Equal(t, "2024-05-01T10:00:00.000Z", FormatDeparture(got))

	_, err = ParseDeparture("", lagos)
	assert.Error(t, err)
	_, err = ParseDeparture("01/05/2024 10:00", lagos)
	assert.Error(t, err)
}

func TestPrepareTicket(t *testing.T) {
	ticket, err := PrepareTicket(models.NewTicketDraft{
		From:          "Lagos",
		To:            "Kano",
		DepartureTime: "2024-05-01T10:00",
		Price:         "25.50",
	}, time.UTC)
	require.NoError(t, err)
	assert.Equal(t, models.NewTicket{
		From:          "Lagos",
		To:            "Kano",
		DepartureTime: "2024-05-01T10:00:00.000Z",
		Price:         25.5,
	}, ticket)

	_, err = PrepareTicket(models.NewTicketDraft{Price: "1"}, time.UTC)
	assert.ErrorIs(t, err, models.ErrValidation)
}
