package store

import (
	"strconv"
	"sync"

	"storefront/internal/cart"
	"storefront/internal/models"
	"storefront/internal/notify"
	"storefront/internal/util"

	"go.uber.org/zap"
)

// State is everything the two storefront screens render.
type State struct {
	Categories []models.Category `json:"categories"`
	Draft      models.Draft      `json:"draft"`
	Cart       cart.Cart         `json:"cart"`
	Form       models.OrderForm  `json:"form"`
	Screen     models.Screen     `json:"screen"`
}

func initialState() State {
	return State{
		Categories: []models.Category{},
		Draft:      models.NewDraft(),
		Cart:       cart.New(),
		Screen:     models.ScreenCatalog,
	}
}

// HasCategory reports whether name is one of the loaded categories.
func (s *State) HasCategory(name string) bool {
	for _, c := range s.Categories {
		if c.Name == name {
			return true
		}
	}
	return false
}

// Snapshot is a read-only copy of the store.
type Snapshot struct {
	State
	Dialog        notify.Message `json:"dialog"`
	DialogVisible bool           `json:"dialogVisible"`
}

// Token identifies the session a network call started in.
type Token struct {
	generation uint64
}

func (t Token) String() string {
	return "session-" + strconv.FormatUint(t.generation, 10)
}

// Store owns the storefront state. Every transition runs to completion under
// one lock, so handlers never observe a half-applied change.
type Store struct {
	mu         sync.Mutex
	state      State
	dialog     *notify.Dialog
	generation uint64
	closed     bool
	logger     *zap.Logger
}

// NewStore creates a store holding a fresh session
func NewStore() *Store {
	return &Store{
		state:      initialState(),
		dialog:     notify.NewDialog(),
		generation: 1,
		logger:     util.GetLogger(),
	}
}

// Snapshot returns a copy of the current state and dialog.
func (s *Store) Snapshot() Snapshot {
	s.mu.Lock()
	defer s.mu.Unlock()

	snap := Snapshot{State: s.state}
	snap.Categories = append([]models.Category(nil), s.state.Categories...)
	snap.Dialog, snap.DialogVisible = s.dialog.Current()
	return snap
}

// Update applies fn as one transition. Updates after Close are dropped.
func (s *Store) Update(fn func(st *State, d *notify.Dialog)) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.closed {
		return
	}
	fn(&s.state, s.dialog)
}

// Begin marks the start of a network call and returns its session token
// together with the state it should work from.
func (s *Store) Begin() (Token, State) {
	s.mu.Lock()
	defer s.mu.Unlock()
	st := s.state
	st.Categories = append([]models.Category(nil), s.state.Categories...)
	return Token{generation: s.generation}, st
}

// Token returns the token of the current session.
func (s *Store) Token() Token {
	s.mu.Lock()
	defer s.mu.Unlock()
	return Token{generation: s.generation}
}

// Apply runs fn only if the session that issued token is still current. It
// reports whether fn ran; a false result means the response arrived late.
func (s *Store) Apply(token Token, operation string, fn func(st *State, d *notify.Dialog)) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.closed || token.generation != s.generation {
		util.LateResponsesTotal.WithLabelValues(operation).Inc()
		s.logger.Info("Ignoring late response",
			zap.String("operation", operation),
			zap.Uint64("token", token.generation),
			zap.Uint64("current", s.generation))
		return false
	}
	fn(&s.state, s.dialog)
	return true
}

// Close ends the session. Responses for calls begun earlier are ignored.
func (s *Store) Close() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.closed = true
	s.generation++
}

// Reset starts a new session with empty state. Calls begun in the previous
// session are ignored when they return.
func (s *Store) Reset() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.generation++
	s.closed = false
	s.state = initialState()
	s.dialog.Dismiss()
}
