package ws_test

import (
	"net/http"
	"testing"
	"time"

	"github.com/gorilla/websocket"
	"github.com/stretchr/testify/require"

	"github.com/TechHon-P/othello-game/internal/models"
	"github.com/TechHon-P/othello-game/internal/othello"
	"github.com/TechHon-P/othello-game/internal/services"
	"github.com/TechHon-P/othello-game/internal/session"
	"github.com/TechHon-P/othello-game/internal/tests"
	"github.com/TechHon-P/othello-game/internal/ws"
)

const readTimeout = 5 * time.Second

// message is an Outgoing with a decoded view.
type message struct {
	Event string             `json:"event"`
	ID    int                `json:"id"`
	Data  models.SessionView `json:"data"`
	Error string             `json:"error"`
}

// startServer serves the app on a random port and returns its address.
func startServer(t *testing.T) (string, *services.Services) {
	t.Helper()

	cfg := tests.NewConfig()
	cfg.Game.ComputerDelay = 10 * time.Millisecond

	app, svcs := tests.NewApp(t, cfg)

	return tests.Serve(t, app), svcs
}

func dial(t *testing.T, address, id string) *websocket.Conn {
	t.Helper()

	url := "ws://" + address + "/ws/sessions/" + id + "?token=" + tests.TestToken

	conn, resp, err := websocket.DefaultDialer.Dial(url, nil)
	require.NoError(t, err)
	resp.Body.Close()

	t.Cleanup(func() {
		conn.Close()
	})

	return conn
}

func read(t *testing.T, conn *websocket.Conn) message {
	t.Helper()

	require.NoError(t, conn.SetReadDeadline(time.Now().Add(readTimeout)))

	var msg message
	require.NoError(t, conn.ReadJSON(&msg))
	return msg
}

func TestSessionWebsocket(t *testing.T) {
	address, svcs := startServer(t)

	state, err := session.NewState(svcs.Defaults)
	require.NoError(t, err)

	id, _, err := svcs.Sessions.Create(state)
	require.NoError(t, err)

	conn := dial(t, address, id)

	initial := read(t, conn)
	require.Equal(t, ws.EventState, initial.Event)
	require.Equal(t, id, initial.Data.ID)
	require.Equal(t, othello.BLACK, initial.Data.Turn)

	require.NoError(t, conn.WriteJSON(map[string]any{
		"event": ws.EventAction,
		"id":    1,
		"data":  models.ActionRequest{Type: models.ActionMove, Row: 2, Col: 3},
	}))

	// Expect the reply to the move and a push after the delayed computer move, in any order.
	var gotResult, gotComputerMove bool
	for !gotResult || !gotComputerMove {
		msg := read(t, conn)

		switch msg.Event {
		case ws.EventResult:
			require.Equal(t, 1, msg.ID)
			require.Empty(t, msg.Error)
			require.GreaterOrEqual(t, msg.Data.HistoryLength, 2)
			gotResult = true
		case ws.EventState:
			if msg.Data.HistoryLength == 3 {
				require.Equal(t, othello.BLACK, msg.Data.Turn)
				require.False(t, msg.Data.ComputerPending)
				gotComputerMove = true
			}
		}
	}

	require.NoError(t, conn.WriteJSON(map[string]any{
		"event": ws.EventAction,
		"id":    2,
		"data":  models.ActionRequest{Type: models.ActionMove, Row: 0, Col: 0},
	}))

	rejected := read(t, conn)
	require.Equal(t, ws.EventResult, rejected.Event)
	require.Equal(t, 2, rejected.ID)
	require.Contains(t, rejected.Error, othello.ErrInvalidMove.Error())

	require.NoError(t, svcs.Sessions.Delete(id))
	requireClosed(t, conn)
}

// requireClosed reads the closed event and expects the server to end the connection.
func requireClosed(t *testing.T, conn *websocket.Conn) {
	t.Helper()

	closed := read(t, conn)
	require.Equal(t, ws.EventClosed, closed.Event)

	require.NoError(t, conn.SetReadDeadline(time.Now().Add(2*time.Second)))
	_, _, err := conn.ReadMessage()
	require.True(t, websocket.IsCloseError(err, websocket.CloseNormalClosure), "got %v", err)
}

func TestSessionWebsocket_IdleSocketEndsOnDelete(t *testing.T) {
	address, svcs := startServer(t)

	state, err := session.NewState(svcs.Defaults)
	require.NoError(t, err)

	id, _, err := svcs.Sessions.Create(state)
	require.NoError(t, err)

	conn := dial(t, address, id)
	require.Equal(t, ws.EventState, read(t, conn).Event)

	// The client never sends anything.
	require.NoError(t, svcs.Sessions.Delete(id))
	requireClosed(t, conn)
}

func TestSessionWebsocket_IdleSocketEndsOnShutdown(t *testing.T) {
	address, svcs := startServer(t)

	state, err := session.NewState(svcs.Defaults)
	require.NoError(t, err)

	id, _, err := svcs.Sessions.Create(state)
	require.NoError(t, err)

	conn := dial(t, address, id)
	require.Equal(t, ws.EventState, read(t, conn).Event)

	svcs.Sessions.Close()
	requireClosed(t, conn)
}

func TestSessionWebsocket_UnknownSession(t *testing.T) {
	address, _ := startServer(t)

	url := "ws://" + address + "/ws/sessions/unknown?token=" + tests.TestToken

	_, resp, err := websocket.DefaultDialer.Dial(url, nil)
	require.ErrorIs(t, err, websocket.ErrBadHandshake)
	defer resp.Body.Close()

	require.Equal(t, http.StatusNotFound, resp.StatusCode)
}

func TestSessionWebsocket_Unauthorized(t *testing.T) {
	address, svcs := startServer(t)

	state, err := session.NewState(svcs.Defaults)
	require.NoError(t, err)

	id, _, err := svcs.Sessions.Create(state)
	require.NoError(t, err)

	_, resp, err := websocket.DefaultDialer.Dial("ws://"+address+"/ws/sessions/"+id, nil)
	require.ErrorIs(t, err, websocket.ErrBadHandshake)
	defer resp.Body.Close()

	require.Equal(t, http.StatusUnauthorized, resp.StatusCode)
}
