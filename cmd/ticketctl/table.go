package main

import (
	"fmt"
	"time"

	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/lipgloss/table"

	"github.com/FACorreiaa/go-ticketing/internal/app/models"
	"github.com/FACorreiaa/go-ticketing/internal/app/views"
)

var (
	headerStyle = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("63")).Padding(0, 1)
	cellStyle   = lipgloss.NewStyle().Padding(0, 1)
	priceStyle  = cellStyle.Foreground(lipgloss.Color("35")).Align(lipgloss.Right)
	emptyStyle  = lipgloss.NewStyle().Faint(true)
)

const priceColumn = 4

// printTickets writes tickets as a table, in the order the API returned them.
func (c *cli) printTickets(tickets []models.Ticket, loc *time.Location) error {
	if len(tickets) == 0 {
		fmt.Fprintln(c.stdout, emptyStyle.Render("No tickets yet."))
		return nil
	}

	format, err := views.NewFormatter(envOr("CURRENCY", "NGN"), loc)
	if err != nil {
		return err
	}

	rows := make([][]string, 0, len(tickets))
	for _, t := range tickets {
		rows = append(rows, []string{t.ID, t.From, t.To, format.Departure(t.DepartureTime), format.Price(t.Price)})
	}

	tbl := table.New().
		Border(lipgloss.RoundedBorder()).
		BorderStyle(lipgloss.NewStyle().Foreground(lipgloss.Color("240"))).
		Headers("ID", "FROM", "TO", "DEPARTURE", "PRICE").
		Rows(rows...).
		StyleFunc(func(row, col int) lipgloss.Style {
			switch {
			case row == table.HeaderRow:
				return headerStyle
			case col == priceColumn:
				return priceStyle
			default:
				return cellStyle
			}
		})

	fmt.Fprintln(c.stdout, tbl.Render())
	return nil
}
