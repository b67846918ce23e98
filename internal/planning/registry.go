package planning

import (
	"errors"
	"sync"

	"github.com/alexanderramin/hearth/internal/domain"
)

// ErrSessionActive is returned when starting a session for a household that
// already has one in flight.
var ErrSessionActive = errors.New("a planning session is already active for this household")

// ErrNoSession signals that no session is active. Callers routinely probe
// for a session speculatively and treat this as a no-op.
var ErrNoSession = errors.New("no active planning session")

// Registry holds the single live session per household. All access goes
// through one mutex so session mutations are single-writer; sessions are
// in-memory only and vanish on completion or abandonment.
type Registry struct {
	mu       sync.Mutex
	sessions map[string]*domain.PlanningSession
}

func NewRegistry() *Registry {
	return &Registry{sessions: make(map[string]*domain.PlanningSession)}
}

// Put installs a fresh session. At most one session may be active per
// household at a time.
func (r *Registry) Put(s *domain.PlanningSession) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, exists := r.sessions[s.HouseholdID]; exists {
		return ErrSessionActive
	}
	r.sessions[s.HouseholdID] = s
	return nil
}

// Get returns the active session for the household, or ErrNoSession.
func (r *Registry) Get(householdID string) (*domain.PlanningSession, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	s, ok := r.sessions[householdID]
	if !ok {
		return nil, ErrNoSession
	}
	return s, nil
}

// Mutate runs fn against the household's session while holding the registry
// lock, enforcing the single-writer invariant on session state.
func (r *Registry) Mutate(householdID string, fn func(s *domain.PlanningSession) error) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	s, ok := r.sessions[householdID]
	if !ok {
		return ErrNoSession
	}
	return fn(s)
}

// Discard drops the household's session, if any. Abandonment is cooperative:
// in-flight work against a discarded session simply has its result ignored.
func (r *Registry) Discard(householdID string) {
	r.mu.Lock()
	defer r.mu.Unlock()
	delete(r.sessions, householdID)
}
