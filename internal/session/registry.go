package session

import (
	"log/slog"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/TechHon-P/othello-game/internal/advisor"
)

// Registry keeps the controllers of all running sessions by ID.
type Registry struct {
	// sessions maps session ID to controller
	sessions map[string]*Controller

	// sessionsMutex protects sessions
	sessionsMutex sync.Mutex

	advisor     *advisor.Advisor
	delay       time.Duration
	maxSessions int

	// idleTTL is how long a session without subscribers survives without activity
	idleTTL time.Duration

	stop      chan struct{}
	stopOnce  sync.Once
	sweepDone chan struct{}
}

// NewRegistry creates a new Registry. A maxSessions of zero or less means unbounded.
// With a positive idleTTL, idle sessions are expired periodically until Close is called.
func NewRegistry(adv *advisor.Advisor, delay time.Duration, maxSessions int, idleTTL time.Duration) *Registry {
	r := &Registry{
		sessions:    make(map[string]*Controller),
		advisor:     adv,
		delay:       delay,
		maxSessions: maxSessions,
		idleTTL:     idleTTL,
		stop:        make(chan struct{}),
		sweepDone:   make(chan struct{}),
	}

	if idleTTL > 0 {
		go r.sweep(sweepInterval(idleTTL))
	} else {
		close(r.sweepDone)
	}

	return r
}

func sweepInterval(idleTTL time.Duration) time.Duration {
	return max(idleTTL/4, time.Second)
}

func (r *Registry) sweep(interval time.Duration) {
	defer close(r.sweepDone)

	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	for {
		select {
		case <-r.stop:
			return
		case now := <-ticker.C:
			if n := r.Expire(now); n > 0 {
				slog.Info("Expired idle sessions", "count", n)
			}
		}
	}
}

// Expire closes and removes the sessions without subscribers that were idle for longer
// than the idle TTL at now. It returns the number of removed sessions.
func (r *Registry) Expire(now time.Time) int {
	if r.idleTTL <= 0 {
		return 0
	}

	r.sessionsMutex.Lock()
	expired := r.expireLocked(now)
	r.sessionsMutex.Unlock()

	for _, controller := range expired {
		controller.Close()
	}

	return len(expired)
}

func (r *Registry) expireLocked(now time.Time) []*Controller {
	var expired []*Controller

	for id, controller := range r.sessions {
		since, idle := controller.IdleSince()
		if idle && now.Sub(since) > r.idleTTL {
			expired = append(expired, controller)
			delete(r.sessions, id)
		}
	}

	return expired
}

// Create starts a new session from state and returns its ID.
func (r *Registry) Create(state State) (string, *Controller, error) {
	r.sessionsMutex.Lock()

	var expired []*Controller
	if r.maxSessions > 0 && len(r.sessions) >= r.maxSessions && r.idleTTL > 0 {
		expired = r.expireLocked(time.Now())
	}

	defer func() {
		for _, controller := range expired {
			controller.Close()
		}
	}()
	defer r.sessionsMutex.Unlock()

	if r.maxSessions > 0 && len(r.sessions) >= r.maxSessions {
		return "", nil, ErrTooManySessions
	}

	id := uuid.New().String()
	controller := NewController(state, r.advisor, r.delay)
	r.sessions[id] = controller

	return id, controller, nil
}

// Get returns the controller of a session.
func (r *Registry) Get(id string) (*Controller, error) {
	r.sessionsMutex.Lock()
	defer r.sessionsMutex.Unlock()

	controller, ok := r.sessions[id]
	if !ok {
		return nil, ErrSessionNotFound
	}

	controller.Touch()
	return controller, nil
}

// Delete closes and removes a session.
func (r *Registry) Delete(id string) error {
	r.sessionsMutex.Lock()
	controller, ok := r.sessions[id]
	delete(r.sessions, id)
	r.sessionsMutex.Unlock()

	if !ok {
		return ErrSessionNotFound
	}

	controller.Close()
	return nil
}

// Len returns the number of sessions.
func (r *Registry) Len() int {
	r.sessionsMutex.Lock()
	defer r.sessionsMutex.Unlock()

	return len(r.sessions)
}

// Close stops expiring sessions and closes all sessions.
func (r *Registry) Close() {
	r.stopOnce.Do(func() { close(r.stop) })
	<-r.sweepDone

	r.sessionsMutex.Lock()
	sessions := r.sessions
	r.sessions = make(map[string]*Controller)
	r.sessionsMutex.Unlock()

	for _, controller := range sessions {
		controller.Close()
	}
}
