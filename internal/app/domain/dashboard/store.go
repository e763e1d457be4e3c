package dashboard

import (
	"sync"
	"time"

	"github.com/patrickmn/go-cache"

	"github.com/FACorreiaa/go-ticketing/internal/app/models"
)

// View is one browser's dashboard state, safe for concurrent requests.
type View struct {
	mu    sync.Mutex
	state State
}

func (v *View) Snapshot() State {
	v.mu.Lock()
	defer v.mu.Unlock()
	return v.state
}

func (v *View) Update(fn func(State) State) State {
	v.mu.Lock()
	defer v.mu.Unlock()
	v.state = fn(v.state)
	return v.state
}

func (v *View) IssueList() uint64 {
	v.mu.Lock()
	defer v.mu.Unlock()
	var seq uint64
	v.state, seq = v.state.ListIssued()
	return seq
}

func (v *View) ApplyList(seq uint64, tickets []models.Ticket) bool {
	v.mu.Lock()
	defer v.mu.Unlock()
	var applied bool
	v.state, applied = v.state.ListSucceeded(seq, tickets)
	return applied
}

// Store keeps views keyed by the id held in each browser session.
// Idle views expire after the configured TTL.
type Store struct {
	views *cache.Cache
}

func NewStore(ttl time.Duration) *Store {
	return &Store{views: cache.New(ttl, 2*ttl)}
}

// View returns the view for id, creating it on first use. Each access
// extends its lifetime.
func (s *Store) View(id string) *View {
	if v, ok := s.views.Get(id); ok {
		view := v.(*View)
		s.views.SetDefault(id, view)
		return view
	}
	view := &View{}
	if err := s.views.Add(id, view, cache.DefaultExpiration); err != nil {
		// Lost a race with a concurrent first request.
		if v, ok := s.views.Get(id); ok {
			return v.(*View)
		}
		s.views.SetDefault(id, view)
	}
	return view
}

func (s *Store) Drop(id string) {
	s.views.Delete(id)
}

func (s *Store) Len() int {
	return s.views.ItemCount()
}
