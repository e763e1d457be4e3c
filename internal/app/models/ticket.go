package models

import (
	"bytes"
	"encoding/json"
	"fmt"
	"math"
	"strconv"
	"strings"
	"time"
)

// Ticket is a server-owned booking record. The client never mutates it.
type Ticket struct {
	ID            string    `json:"id"`
	From          string    `json:"from"`
	To            string    `json:"to"`
	DepartureTime time.Time `json:"departureTime"`
	Price         float64   `json:"price"`
}

func (t *Ticket) UnmarshalJSON(data []byte) error {
	var aux struct {
		ID            json.RawMessage `json:"id"`
		MongoID       json.RawMessage `json:"_id"`
		From          string          `json:"from"`
		To            string          `json:"to"`
		DepartureTime json.RawMessage `json:"departureTime"`
		Price         json.RawMessage `json:"price"`
	}
	if err := json.Unmarshal(data, &aux); err != nil {
		return err
	}

	id, err := opaqueID(aux.ID)
	if err != nil {
		return fmt.Errorf("ticket id: %w", err)
	}
	if id == "" {
		if id, err = opaqueID(aux.MongoID); err != nil {
			return fmt.Errorf("ticket _id: %w", err)
		}
	}

	*t = Ticket{
		ID:            id,
		From:          aux.From,
		To:            aux.To,
		DepartureTime: decodeDeparture(aux.DepartureTime),
		Price:         decodePrice(aux.Price),
	}
	return nil
}

// NewTicketDraft is the raw, unsaved state of the create form.
type NewTicketDraft struct {
	From          string `form:"from"`
	To            string `form:"to"`
	DepartureTime string `form:"departureTime"`
	Price         string `form:"price"`
}

func (d NewTicketDraft) IsEmpty() bool {
	return d == NewTicketDraft{}
}

// NewTicket is the body of a create call.
type NewTicket struct {
	From          string `json:"from"`
	To            string `json:"to"`
	DepartureTime string `json:"departureTime"`
	Price         Price  `json:"price"`
}

// Price is a float that encodes NaN and infinities as JSON null.
type Price float64

func (p Price) MarshalJSON() ([]byte, error) {
	f := float64(p)
	if math.IsNaN(f) || math.IsInf(f, 0) {
		return []byte("null"), nil
	}
	return json.Marshal(f)
}

// departureLayouts are tried after RFC 3339. Values without an offset
// are read as UTC.
var departureLayouts = []string{
	"2006-01-02T15:04:05.999999999",
	"2006-01-02T15:04",
	"2006-01-02 15:04:05.999999999Z07:00",
	"2006-01-02 15:04:05.999999999",
	"2006-01-02",
}

// decodeDeparture never fails: an unreadable departure is the zero time,
// so one bad record cannot hide the rest of a list.
func decodeDeparture(raw json.RawMessage) time.Time {
	raw = bytes.TrimSpace(raw)
	if len(raw) == 0 || bytes.Equal(raw, []byte("null")) {
		return time.Time{}
	}
	if raw[0] != '"' {
		var ms int64
		if err := json.Unmarshal(raw, &ms); err != nil {
			return time.Time{}
		}
		return time.UnixMilli(ms).UTC()
	}

	var s string
	if err := json.Unmarshal(raw, &s); err != nil {
		return time.Time{}
	}
	s = strings.TrimSpace(s)
	if ts, err := time.Parse(time.RFC3339Nano, s); err == nil {
		return ts
	}
	for _, layout := range departureLayouts {
		if ts, err := time.ParseInLocation(layout, s, time.UTC); err == nil {
			return ts
		}
	}
	return time.Time{}
}

// decodePrice accepts a number or a numeric string. Anything else is NaN.
func decodePrice(raw json.RawMessage) float64 {
	raw = bytes.TrimSpace(raw)
	if len(raw) == 0 || bytes.Equal(raw, []byte("null")) {
		return math.NaN()
	}
	if raw[0] == '"' {
		var s string
		if err := json.Unmarshal(raw, &s); err != nil {
			return math.NaN()
		}
		f, err := strconv.ParseFloat(strings.TrimSpace(s), 64)
		if err != nil {
			return math.NaN()
		}
		return f
	}
	var f float64
	if err := json.Unmarshal(raw, &f); err != nil {
		return math.NaN()
	}
	return f
}

// opaqueID accepts a string or numeric identifier.
func opaqueID(raw json.RawMessage) (string, error) {
	raw = bytes.TrimSpace(raw)
	if len(raw) == 0 || bytes.Equal(raw, []byte("null")) {
		return "", nil
	}
	if raw[0] == '"' {
		var s string
		if err := json.Unmarshal(raw, &s); err != nil {
			return "", err
		}
		return s, nil
	}
	var n json.Number
	if err := json.Unmarshal(raw, &n); err != nil {
		return "", err
	}
	return n.String(), nil
}
