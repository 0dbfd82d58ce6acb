package ws

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"sync"
	"sync/atomic"

	"github.com/gofiber/contrib/websocket"

	"github.com/TechHon-P/othello-game/internal/advisor"
	"github.com/TechHon-P/othello-game/internal/models"
	"github.com/TechHon-P/othello-game/internal/session"
)

// errSessionClosed ends the connection after the session was deleted.
var errSessionClosed = errors.New("session closed")

// errReleased is returned for writes after Handle returned, the connection belongs to the server again.
var errReleased = errors.New("connection released")

// Conn is the part of websocket.Conn used by Handler.
type Conn interface {
	ReadMessage() (int, []byte, error)
	WriteMessage(messageType int, data []byte) error
	Close() error
}

type Handler struct {
	ws         Conn
	id         string
	controller *session.Controller
	advisor    *advisor.Advisor

	// writeMutex serializes writes from the read loop and the update pusher
	writeMutex sync.Mutex

	// released is set when Handle returns, protected by writeMutex
	released bool

	// latest is the newest update not yet pushed, older updates are replaced
	latest *session.Update

	// newest is the highest generation queued so far
	newest uint64

	// latestMutex protects latest and newest
	latestMutex sync.Mutex

	// wake signals the pusher that latest was set
	wake chan struct{}

	// sessionClosed is set when the session was closed while connected
	sessionClosed atomic.Bool
}

// NewHandler creates a new Handler for session id. Hints in pushed views are scored by adv.
func NewHandler(ws Conn, id string, controller *session.Controller, adv *advisor.Advisor) *Handler {
	return &Handler{
		ws:         ws,
		id:         id,
		controller: controller,
		advisor:    adv,
		wake:       make(chan struct{}, 1),
	}
}

func (h *Handler) readMessage() (*Incoming, error) {
	var req Incoming

	msgType, msg, err := h.ws.ReadMessage()
	if err != nil {
		return nil, fmt.Errorf("ws read error: %w", err)
	}

	slog.Debug("read ws message", "session", h.id, "msgType", msgType, "msg", string(msg))

	if msgType != websocket.TextMessage {
		return nil, fmt.Errorf("unexpected message type: %d", msgType)
	}

	if err = json.Unmarshal(msg, &req); err != nil {
		return nil, fmt.Errorf("unmarshal error: %w", err)
	}

	return &req, nil
}

func (h *Handler) writeMessage(outgoing *Outgoing) error {
	msg, err := json.Marshal(outgoing)
	if err != nil {
		return fmt.Errorf("marshal error: %w", err)
	}

	slog.Debug("write ws message", "session", h.id, "msg", string(msg))

	h.writeMutex.Lock()
	defer h.writeMutex.Unlock()

	if h.released {
		return errReleased
	}

	if err = h.ws.WriteMessage(websocket.TextMessage, msg); err != nil {
		return fmt.Errorf("write error: %w", err)
	}

	return nil
}

// handleMessage returns the reply to req. Rejected actions are reported in the reply,
// malformed messages return an error and end the connection.
func (h *Handler) handleMessage(req *Incoming) (*Outgoing, error) {
	if req.Event == "" {
		return nil, errors.New("event field is either empty or missing")
	}

	switch req.Event {
	case EventAction:
		return h.handleAction(req)
	case EventGet:
		return h.result(req, h.controller.Snapshot()), nil
	default:
		return nil, fmt.Errorf("unknown event: %s", req.Event)
	}
}

func (h *Handler) handleAction(req *Incoming) (*Outgoing, error) {
	var actionRequest models.ActionRequest
	if err := json.Unmarshal(req.Data, &actionRequest); err != nil {
		return nil, fmt.Errorf("ws action unmarshal error: %w", err)
	}

	action, err := actionRequest.Action()
	if err != nil {
		return &Outgoing{Event: EventResult, ID: req.ID, Error: err.Error()}, nil
	}

	if _, err = h.controller.Dispatch(action); err != nil {
		outgoing := &Outgoing{Event: EventResult, ID: req.ID, Error: err.Error()}

		if errors.Is(err, session.ErrSessionClosed) {
			return outgoing, errSessionClosed
		}
		return outgoing, nil
	}

	return h.result(req, h.controller.Snapshot()), nil
}

func (h *Handler) result(req *Incoming, update session.Update) *Outgoing {
	return &Outgoing{
		Event: EventResult,
		ID:    req.ID,
		Data:  h.view(update),
	}
}

func (h *Handler) view(update session.Update) models.SessionView {
	return models.NewSessionView(context.Background(), h.id, update, h.advisor)
}

// queue keeps update as the next one to push, unless a newer one is already known.
// A slow client skips intermediate states but always ends up with the latest.
func (h *Handler) queue(update session.Update) {
	h.latestMutex.Lock()
	if h.latest != nil && h.latest.Closed {
		h.latestMutex.Unlock()
		return
	}
	if update.Generation < h.newest && !update.Closed {
		h.latestMutex.Unlock()
		return
	}
	h.newest = update.Generation
	h.latest = &update
	h.latestMutex.Unlock()

	select {
	case h.wake <- struct{}{}:
	default:
	}
}

func (h *Handler) takeLatest() (session.Update, bool) {
	h.latestMutex.Lock()
	defer h.latestMutex.Unlock()

	if h.latest == nil {
		return session.Update{}, false
	}

	update := *h.latest
	h.latest = nil
	return update, true
}

// pushUpdates writes queued updates until done is closed or the session is closed.
func (h *Handler) pushUpdates(done <-chan struct{}) {
	for {
		select {
		case <-done:
			return
		case <-h.wake:
		}

		update, ok := h.takeLatest()
		if !ok {
			continue
		}

		select {
		case <-done:
			return
		default:
		}

		if update.Closed {
			h.closeSession()
			return
		}

		if err := h.writeMessage(&Outgoing{Event: EventState, Data: h.view(update)}); err != nil {
			slog.Debug("ws push failed", "session", h.id, "error", err)
			return
		}
	}
}

// closeSession tells the client the session is gone and closes the connection, which ends the read loop.
func (h *Handler) closeSession() {
	h.sessionClosed.Store(true)

	if err := h.writeMessage(&Outgoing{Event: EventClosed}); err != nil {
		slog.Debug("ws close event failed", "session", h.id, "error", err)
	}

	h.writeMutex.Lock()
	defer h.writeMutex.Unlock()

	if h.released {
		return
	}

	msg := websocket.FormatCloseMessage(websocket.CloseNormalClosure, errSessionClosed.Error())
	if err := h.ws.WriteMessage(websocket.CloseMessage, msg); err != nil {
		slog.Debug("ws close message failed", "session", h.id, "error", err)
	}

	if err := h.ws.Close(); err != nil {
		slog.Debug("ws close failed", "session", h.id, "error", err)
	}
}

// release stops all writes, the connection must not be used after Handle returns.
func (h *Handler) release() {
	h.writeMutex.Lock()
	defer h.writeMutex.Unlock()

	h.released = true
}

// Handle handles the websocket connection. The current state is sent first, then every change.
// It returns nil when the session is closed, and never leaves a goroutine writing to the connection.
func (h *Handler) Handle() error {
	unsubscribe := h.controller.Subscribe(h.queue)
	defer unsubscribe()

	initial := &Outgoing{Event: EventState, Data: h.view(h.controller.Snapshot())}
	if err := h.writeMessage(initial); err != nil {
		return fmt.Errorf("ws write error: %w", err)
	}

	done := make(chan struct{})
	var pusher sync.WaitGroup

	pusher.Add(1)
	go func() {
		defer pusher.Done()
		h.pushUpdates(done)
	}()

	defer func() {
		close(done)
		h.release()
		pusher.Wait()
	}()

	for {
		req, err := h.readMessage()
		if err != nil {
			if h.sessionClosed.Load() {
				return nil
			}
			return fmt.Errorf("ws read error: %w", err)
		}

		respData, handleErr := h.handleMessage(req)
		if respData != nil {
			if err = h.writeMessage(respData); err != nil {
				return fmt.Errorf("ws write error: %w", err)
			}
		}

		if errors.Is(handleErr, errSessionClosed) {
			return nil
		}

		if handleErr != nil {
			return fmt.Errorf("ws handle error: %w", handleErr)
		}
	}
}
