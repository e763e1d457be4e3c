package dashboard

import (
	"context"
	"net/http"
	"time"

	"github.com/a-h/templ"
	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/FACorreiaa/go-ticketing/internal/app/client"
	"github.com/FACorreiaa/go-ticketing/internal/app/domain"
	"github.com/FACorreiaa/go-ticketing/internal/app/domain/session"
	"github.com/FACorreiaa/go-ticketing/internal/app/models"
	"github.com/FACorreiaa/go-ticketing/internal/app/observability/metrics"
	"github.com/FACorreiaa/go-ticketing/internal/app/views"
)

// TicketSync is the part of the ticket API the dashboard drives.
type TicketSync interface {
	List(ctx context.Context) ([]models.Ticket, error)
	CreateFromDraft(ctx context.Context, draft models.NewTicketDraft, loc *time.Location) (models.Ticket, error)
}

type Handlers struct {
	*domain.BaseHandler
	tickets  TicketSync
	guard    *session.Guard
	store    *Store
	location *time.Location
	format   views.Formatter
}

func NewHandlers(base *domain.BaseHandler, tickets TicketSync, guard *session.Guard, store *Store, loc *time.Location, format views.Formatter) *Handlers {
	return &Handlers{
		BaseHandler: base,
		tickets:     tickets,
		guard:       guard,
		store:       store,
		location:    loc,
		format:      format,
	}
}

// ShowDashboard mounts the page: one list call, then a full render.
func (h *Handlers) ShowDashboard(c *gin.Context) {
	view := h.view(c)
	view.Update(State.Mounted)
	if !h.refresh(c, view) {
		return
	}
	h.RenderPage(c, views.AppName, "Dashboard", h.content(view.Snapshot()))
}

// RefreshTickets re-lists and returns the dashboard body.
func (h *Handlers) RefreshTickets(c *gin.Context) {
	view := h.view(c)
	if !h.refresh(c, view) {
		return
	}
	h.RenderPage(c, views.AppName, "Dashboard", h.content(view.Snapshot()))
}

// CreateTicket submits the form. Success empties the form and lists
// exactly once more; the created record is never inserted locally.
func (h *Handlers) CreateTicket(c *gin.Context) {
	var draft models.NewTicketDraft
	if err := c.ShouldBind(&draft); err != nil {
		h.Logger.Warn("Failed to bind ticket form", zap.Error(err))
	}

	view := h.view(c)
	view.Update(func(s State) State { return s.SubmitStarted(draft) })

	created, err := h.tickets.CreateFromDraft(c.Request.Context(), draft, h.location)
	if err != nil {
		h.Logger.Error("Failed to create ticket",
			zap.String("kind", client.Kind(err)),
			zap.Error(err),
		)
		if client.IsUnauthorized(err) {
			h.guard.Invalidate(c)
			return
		}
		view.Update(func(s State) State { return s.CreateFailed(draft) })
		h.RenderPage(c, views.AppName, "Dashboard", h.content(view.Snapshot()))
		return
	}

	metrics.Get().TicketsCreatedTotal.Add(c.Request.Context(), 1)
	h.Logger.Info("Ticket created",
		zap.String("ticket_id", created.ID),
		zap.String("from", created.From),
		zap.String("to", created.To),
	)
	view.Update(State.CreateSucceeded)

	if !h.refresh(c, view) {
		return
	}
	h.RenderPage(c, views.AppName, "Dashboard", h.content(view.Snapshot()))
}

// refresh lists tickets into view. It returns false when the session was
// ended and the response has already been written.
func (h *Handlers) refresh(c *gin.Context, view *View) bool {
	seq := view.IssueList()
	tickets, err := h.tickets.List(c.Request.Context())
	if err != nil {
		h.Logger.Error("Failed to fetch tickets",
			zap.String("kind", client.Kind(err)),
			zap.Uint64("seq", seq),
			zap.Error(err),
		)
		if client.IsUnauthorized(err) {
			h.guard.Invalidate(c)
			return false
		}
		view.Update(func(s State) State { return s.ListFailed(seq) })
		return true
	}

	if !view.ApplyList(seq, tickets) {
		metrics.Get().StaleListsDropped.Add(c.Request.Context(), 1)
		h.Logger.Debug("Dropped stale ticket list", zap.Uint64("seq", seq))
	}
	return true
}

func (h *Handlers) view(c *gin.Context) *View {
	return h.store.View(session.ViewID(c))
}

func (h *Handlers) content(s State) templ.Component {
	return views.Dashboard(views.DashboardProps{
		Tickets: s.Tickets,
		Draft:   s.Draft,
		Error:   s.Error,
		Format:  h.format,
	})
}

// Home sends visitors to the dashboard; the guard takes it from there.
func Home(c *gin.Context) {
	c.Redirect(http.StatusFound, "/dashboard")
}

var _ TicketSync = (*client.Client)(nil)
