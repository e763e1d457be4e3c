package client

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"time"

	"go.uber.org/zap"

	"github.com/FACorreiaa/go-ticketing/internal/app/models"
)

const ticketsPath = "/tickets"

// List fetches the tickets visible to the context credential, in the
// order the API returns them.
func (c *Client) List(ctx context.Context) ([]models.Ticket, error) {
	var out ticketList
	if err := c.do(ctx, "list tickets", http.MethodGet, ticketsPath, nil, &out); err != nil {
		return nil, err
	}
	return []models.Ticket(out), nil
}

// Create submits a prepared ticket. Callers refresh with List afterwards
// rather than merging the returned record into what they display.
func (c *Client) Create(ctx context.Context, ticket models.NewTicket) (models.Ticket, error) {
	var out models.Ticket
	if err := c.do(ctx, "create ticket", http.MethodPost, ticketsPath, ticket, &out); err != nil {
		return models.Ticket{}, err
	}
	return out, nil
}

// CreateFromDraft converts a form draft and submits it. A draft that
// cannot be converted fails with a ValidationError and sends nothing.
func (c *Client) CreateFromDraft(ctx context.Context, draft models.NewTicketDraft, loc *time.Location) (models.Ticket, error) {
	ticket, err := PrepareTicket(draft, loc)
	if err != nil {
		c.logger.Warn("Rejected ticket draft", zap.Error(err))
		return models.Ticket{}, err
	}
	return c.Create(ctx, ticket)
}

// ticketList accepts a bare array or an object wrapping it under
// "tickets" or "data".
type ticketList []models.Ticket

func (l *ticketList) UnmarshalJSON(data []byte) error {
	data = bytes.TrimSpace(data)
	if len(data) > 0 && data[0] == '[' {
		var tickets []models.Ticket
		if err := json.Unmarshal(data, &tickets); err != nil {
			return err
		}
		*l = tickets
		return nil
	}

	var wrapped struct {
		Tickets []models.Ticket `json:"tickets"`
		Data    []models.Ticket `json:"data"`
	}
	if err := json.Unmarshal(data, &wrapped); err != nil {
		return fmt.Errorf("ticket list: %w", err)
	}
	if wrapped.Tickets != nil {
		*l = wrapped.Tickets
	} else {
		*l = wrapped.Data
	}
	return nil
}
