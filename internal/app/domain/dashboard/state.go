// Package dashboard holds the ticket dashboard's view state and the
// handlers that drive it.
//
// State never changes in place: each event produces a new State. List
// requests are numbered when issued and a response is applied only if no
// newer one has been applied, so overlapping create-then-list sequences
// settle on the list issued last.
package dashboard

import (
	"slices"

	"github.com/FACorreiaa/go-ticketing/internal/app/models"
)

type State struct {
	Tickets []models.Ticket
	Draft   models.NewTicketDraft
	Error   string

	issued  uint64
	applied uint64
}

// Mounted is a fresh page load: the form and any message are reset; the
// last list received stays until a new one arrives.
func (s State) Mounted() State {
	s.Draft = models.NewTicketDraft{}
	s.Error = ""
	return s
}

// ListIssued numbers a new list request.
func (s State) ListIssued() (State, uint64) {
	s.issued++
	return s, s.issued
}

// ListSucceeded applies the response to request seq unless a newer
// response already landed. The bool reports whether it was applied.
func (s State) ListSucceeded(seq uint64, tickets []models.Ticket) (State, bool) {
	if seq <= s.applied {
		return s, false
	}
	s.applied = seq
	s.Tickets = slices.Clone(tickets)
	return s, true
}

// ListFailed keeps the displayed tickets and sets the fetch message,
// unless a newer response already landed. A failure still counts as the
// answer to seq, so older responses arriving later are dropped.
func (s State) ListFailed(seq uint64) State {
	if seq <= s.applied {
		return s
	}
	s.applied = seq
	s.Error = models.MsgFetchTicketsFailed
	return s
}

// SubmitStarted records the draft being sent and clears the message.
func (s State) SubmitStarted(draft models.NewTicketDraft) State {
	s.Draft = draft
	s.Error = ""
	return s
}

// CreateSucceeded empties the form.
func (s State) CreateSucceeded() State {
	s.Draft = models.NewTicketDraft{}
	return s
}

// CreateFailed keeps the draft for another attempt.
func (s State) CreateFailed(draft models.NewTicketDraft) State {
	s.Draft = draft
	s.Error = models.MsgCreateTicketFailed
	return s
}
