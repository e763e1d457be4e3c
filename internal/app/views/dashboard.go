package views

import "github.com/FACorreiaa/go-ticketing/internal/app/models"

// DashboardProps is everything the dashboard body shows.
type DashboardProps struct {
	Tickets []models.Ticket
	Draft   models.NewTicketDraft
	Error   string
	Format  Formatter
}
