package session

import (
	"context"
	"log/slog"
	"sync"
	"time"

	"github.com/TechHon-P/othello-game/internal/advisor"
	"github.com/TechHon-P/othello-game/internal/othello"
)

// Update is sent to subscribers after every state change.
type Update struct {
	// State is the state after the change
	State State

	// Generation increases with every change, it can be used to order updates
	Generation uint64

	// ComputerPending indicates a computer move is scheduled
	ComputerPending bool

	// Closed is set on the last update, sent when the session is closed
	Closed bool
}

// Controller holds the state of a single session and serializes all transitions.
// Computer moves are played after a delay, so the human's move can be shown first.
type Controller struct {
	// mu protects all fields below
	mu sync.Mutex

	state State

	// advisor picks computer moves
	advisor *advisor.Advisor

	// delay is the time between a state change and the computer move
	delay time.Duration

	// generation is incremented on every state change. Scheduled computer moves
	// only apply if the generation did not change since scheduling.
	generation uint64

	// timer fires the scheduled computer move, if any
	timer *time.Timer

	subscribers      map[int]func(Update)
	nextSubscriberID int

	// lastActive is the time of the last action, subscription or lookup
	lastActive time.Time

	closed bool
}

// NewController creates a controller. If the computer is to move, its move is scheduled immediately.
func NewController(state State, adv *advisor.Advisor, delay time.Duration) *Controller {
	c := &Controller{
		state:       state,
		advisor:     adv,
		delay:       delay,
		subscribers: make(map[int]func(Update)),
		lastActive:  time.Now(),
	}

	c.mu.Lock()
	defer c.mu.Unlock()
	c.scheduleLocked()

	return c
}

// State returns the current state.
func (c *Controller) State() State {
	c.mu.Lock()
	defer c.mu.Unlock()

	return c.state
}

// Snapshot returns the current state as an Update.
func (c *Controller) Snapshot() Update {
	c.mu.Lock()
	defer c.mu.Unlock()

	return c.updateLocked()
}

// Pending returns whether a computer move is scheduled.
func (c *Controller) Pending() bool {
	c.mu.Lock()
	defer c.mu.Unlock()

	return c.timer != nil
}

// Dispatch applies action. On error the state is not changed and the current state is returned.
func (c *Controller) Dispatch(action Action) (State, error) {
	c.mu.Lock()

	if c.closed {
		state := c.state
		c.mu.Unlock()
		return state, ErrSessionClosed
	}

	c.lastActive = time.Now()

	next, err := Reduce(c.state, action)
	if err != nil {
		c.mu.Unlock()
		return next, err
	}

	update, subscribers := c.commitLocked(next)
	c.mu.Unlock()

	notify(subscribers, update)
	return next, nil
}

// Subscribe registers fn to be called after every state change. The returned function unsubscribes.
// Subscribing to a closed controller calls fn once with the closed update.
func (c *Controller) Subscribe(fn func(Update)) func() {
	c.mu.Lock()

	if c.closed {
		update := c.updateLocked()
		c.mu.Unlock()

		fn(update)
		return func() {}
	}

	id := c.nextSubscriberID
	c.nextSubscriberID++
	c.subscribers[id] = fn
	c.lastActive = time.Now()
	c.mu.Unlock()

	return func() {
		c.mu.Lock()
		defer c.mu.Unlock()

		delete(c.subscribers, id)
		c.lastActive = time.Now()
	}
}

// Touch marks the session as active.
func (c *Controller) Touch() {
	c.mu.Lock()
	defer c.mu.Unlock()

	c.lastActive = time.Now()
}

// IdleSince returns the time of the last activity. Sessions with subscribers are never idle.
func (c *Controller) IdleSince() (time.Time, bool) {
	c.mu.Lock()
	defer c.mu.Unlock()

	if len(c.subscribers) > 0 {
		return time.Time{}, false
	}
	return c.lastActive, true
}

// Close cancels a scheduled computer move and rejects further actions.
// Subscribers receive a last update with Closed set.
func (c *Controller) Close() {
	c.mu.Lock()

	if c.closed {
		c.mu.Unlock()
		return
	}

	c.closed = true
	c.generation++
	c.stopTimerLocked()

	subscribers := make([]func(Update), 0, len(c.subscribers))
	for _, fn := range c.subscribers {
		subscribers = append(subscribers, fn)
	}
	clear(c.subscribers)

	update := c.updateLocked()
	c.mu.Unlock()

	notify(subscribers, update)
}

// commitLocked stores next, invalidates any scheduled computer move and schedules a new one if needed.
func (c *Controller) commitLocked(next State) (Update, []func(Update)) {
	c.state = next
	c.generation++

	c.stopTimerLocked()
	c.scheduleLocked()

	subscribers := make([]func(Update), 0, len(c.subscribers))
	for _, fn := range c.subscribers {
		subscribers = append(subscribers, fn)
	}

	return c.updateLocked(), subscribers
}

func (c *Controller) updateLocked() Update {
	return Update{
		State:           c.state,
		Generation:      c.generation,
		ComputerPending: c.timer != nil,
		Closed:          c.closed,
	}
}

func (c *Controller) stopTimerLocked() {
	if c.timer != nil {
		c.timer.Stop()
		c.timer = nil
	}
}

func (c *Controller) scheduleLocked() {
	if c.closed || !c.state.NeedsComputerMove() {
		return
	}

	generation := c.generation
	c.timer = time.AfterFunc(c.delay, func() {
		c.playComputerMove(generation)
	})
}

// playComputerMove runs on the timer goroutine.
func (c *Controller) playComputerMove(generation uint64) {
	c.mu.Lock()

	// The state changed since the move was scheduled.
	if c.closed || generation != c.generation || !c.state.NeedsComputerMove() {
		c.mu.Unlock()
		slog.Debug("discarding stale computer move", "scheduled", generation)
		return
	}

	c.timer = nil

	next, err := Reduce(c.state, ComputerMove{Choose: c.choose})
	if err != nil {
		c.mu.Unlock()
		slog.Error("computer move failed", "error", err)
		return
	}

	update, subscribers := c.commitLocked(next)
	c.mu.Unlock()

	if move, ok := next.LastMove(); ok {
		slog.Debug("computer played", "move", move.String(), "generation", update.Generation)
	}

	notify(subscribers, update)
}

func (c *Controller) choose(board othello.Board, player othello.Color, strength int) (othello.Move, bool) {
	return c.advisor.BestMove(context.Background(), board, player, strength)
}

func notify(subscribers []func(Update), update Update) {
	for _, fn := range subscribers {
		fn(update)
	}
}
