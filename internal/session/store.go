package session

import (
	"sync"
	"time"

	"github.com/google/uuid"

	"thesiscal/internal/calendar"
	appLog "thesiscal/internal/log"
	"thesiscal/internal/selection"
)

// Options configure a Store.
type Options struct {
	// TTL is how long an untouched session survives a Sweep.
	TTL time.Duration
	// Defaults seed every new machine unless overridden at Create.
	Defaults selection.Options
	// Location decides the month new sessions open on.
	Location *time.Location
	// Now defaults to time.Now.
	Now func() time.Time
}

// Store holds the live sessions.
type Store struct {
	opts Options

	mu       sync.Mutex
	sessions map[string]*Session
}

// NewStore returns an empty Store.
func NewStore(opts Options) *Store {
	if opts.Now == nil {
		opts.Now = time.Now
	}
	if opts.Location == nil {
		opts.Location = time.Local
	}
	if opts.TTL <= 0 {
		opts.TTL = 30 * time.Minute
	}
	return &Store{opts: opts, sessions: make(map[string]*Session)}
}

// CreateOptions override the store defaults for one session.
type CreateOptions struct {
	Mode          *selection.Mode
	AllowDeselect *bool
	// Month is the month to open on; zero means the current month.
	Month calendar.Date
}

// Create starts a new session and mounts its machine.
func (st *Store) Create(co CreateOptions) *Session {
	opts := st.opts.Defaults
	if co.Mode != nil {
		opts.Mode = *co.Mode
	}
	if co.AllowDeselect != nil {
		opts.AllowDeselect = *co.AllowDeselect
	}
	month := co.Month
	if month.IsZero() {
		month = calendar.DateOf(st.opts.Now().In(st.opts.Location))
	}

	s := newSession(uuid.NewString(), opts, month, st.opts.Now)

	st.mu.Lock()
	st.sessions[s.id] = s
	n := len(st.sessions)
	st.mu.Unlock()

	appLog.Debug("session created", "id", s.id, "mode", opts.Mode.String(), "live", n)
	return s
}

// Get returns the session with id.
func (st *Store) Get(id string) (*Session, error) {
	st.mu.Lock()
	defer st.mu.Unlock()
	s, ok := st.sessions[id]
	if !ok {
		return nil, ErrNotFound
	}
	return s, nil
}

// Apply forwards ev to the session with id.
func (st *Store) Apply(id string, ev Event) (State, []Notification, error) {
	s, err := st.Get(id)
	if err != nil {
		return State{}, nil, err
	}
	return s.Apply(ev)
}

// Delete unmounts and forgets the session.
func (st *Store) Delete(id string) error {
	st.mu.Lock()
	s, ok := st.sessions[id]
	delete(st.sessions, id)
	st.mu.Unlock()
	if !ok {
		return ErrNotFound
	}
	s.close()
	appLog.Debug("session deleted", "id", id)
	return nil
}

// Sweep removes sessions idle for longer than the TTL and returns how many
// were removed.
func (st *Store) Sweep(now time.Time) int {
	st.mu.Lock()
	var expired []*Session
	for id, s := range st.sessions {
		if s.idleSince(now) > st.opts.TTL {
			expired = append(expired, s)
			delete(st.sessions, id)
		}
	}
	st.mu.Unlock()

	for _, s := range expired {
		s.close()
	}
	if len(expired) > 0 {
		appLog.Info("sessions expired", "count", len(expired), "ttl", st.opts.TTL.String())
	}
	return len(expired)
}

// Len returns the number of live sessions.
func (st *Store) Len() int {
	st.mu.Lock()
	defer st.mu.Unlock()
	return len(st.sessions)
}

// Close unmounts every session. The store is empty afterwards.
func (st *Store) Close() error {
	st.mu.Lock()
	all := st.sessions
	st.sessions = make(map[string]*Session)
	st.mu.Unlock()

	for _, s := range all {
		s.close()
	}
	return nil
}
