package handlers

import (
	"encoding/json"
	"net/http"
	"time"

	"github.com/gorilla/mux"
	"github.com/gorilla/websocket"

	"github.com/wonny/rebalancer/internal/rebalance"
	"github.com/wonny/rebalancer/internal/session"
)

const (
	wsPingInterval = 30 * time.Second
	wsReadTimeout  = 75 * time.Second
)

var wsUpgrader = websocket.Upgrader{
	CheckOrigin: func(*http.Request) bool { return true },
}

// LiveEvent is an input change sent by the client over the socket.
// Type is one of value, percent, step, reset.
type LiveEvent struct {
	Type  string `json:"type"`
	Asset string `json:"asset,omitempty"`
	Input Input  `json:"input,omitempty"`
	Steps int    `json:"steps,omitempty"`
}

// LiveMessage is pushed to the client
type LiveMessage struct {
	Type    string           `json:"type"` // session, error
	Session *SessionResponse `json:"session,omitempty"`
	Error   string           `json:"error,omitempty"`
}

// Live streams the session: every input event triggers one computation
// pass, and every change (from this socket or the REST API) is pushed back.
// GET /api/sessions/{id}/ws
func (h *SessionHandler) Live(w http.ResponseWriter, r *http.Request) {
	id := mux.Vars(r)["id"]

	// subscribe before the first read so no update falls in between
	updates, cancel := h.manager.Subscribe(id)
	defer cancel()

	s, err := h.manager.Get(r.Context(), id)
	if err != nil {
		h.respondSessionError(w, err)
		return
	}

	conn, err := wsUpgrader.Upgrade(w, r, nil)
	if err != nil {
		h.logger.WithError(err).Warn("WebSocket upgrade failed")
		return
	}
	defer conn.Close()

	errs := make(chan string, 8)
	done := make(chan struct{})

	// writer: the only goroutine writing to conn
	go func() {
		ping := time.NewTicker(wsPingInterval)
		defer ping.Stop()

		initial := NewSessionResponse(s, h.currency())
		if err := conn.WriteJSON(LiveMessage{Type: "session", Session: &initial}); err != nil {
			return
		}
		for {
			select {
			case s, ok := <-updates:
				if !ok {
					_ = conn.WriteMessage(websocket.CloseMessage,
						websocket.FormatCloseMessage(websocket.CloseNormalClosure, "session deleted"))
					return
				}
				resp := NewSessionResponse(s, h.currency())
				if err := conn.WriteJSON(LiveMessage{Type: "session", Session: &resp}); err != nil {
					return
				}
			case msg := <-errs:
				if err := conn.WriteJSON(LiveMessage{Type: "error", Error: msg}); err != nil {
					return
				}
			case <-ping.C:
				if err := conn.WriteMessage(websocket.PingMessage, nil); err != nil {
					return
				}
			case <-done:
				return
			}
		}
	}()
	defer close(done)

	_ = conn.SetReadDeadline(time.Now().Add(wsReadTimeout))
	conn.SetPongHandler(func(string) error {
		return conn.SetReadDeadline(time.Now().Add(wsReadTimeout))
	})

	for {
		_, data, err := conn.ReadMessage()
		if err != nil {
			return
		}
		_ = conn.SetReadDeadline(time.Now().Add(wsReadTimeout))

		var ev LiveEvent
		if err := json.Unmarshal(data, &ev); err != nil {
			sendErr(errs, "invalid event: "+err.Error())
			continue
		}

		_, err = h.manager.Update(r.Context(), id, func(s *session.Session) error {
			return applyEvent(s, ev, h.manager)
		})
		if err != nil {
			sendErr(errs, err.Error())
		}
	}
}

func applyEvent(s *session.Session, ev LiveEvent, m *session.Manager) error {
	asset := rebalance.Asset(ev.Asset)
	switch ev.Type {
	case "value":
		return s.SetValue(asset, string(ev.Input))
	case "percent":
		return s.SetPercent(asset, string(ev.Input))
	case "step":
		return s.Step(asset, ev.Steps)
	case "reset":
		s.Reset(m.Catalog())
		return nil
	default:
		return &unknownEventError{ev.Type}
	}
}

type unknownEventError struct{ typ string }

func (e *unknownEventError) Error() string { return "unknown event type " + e.typ }

func sendErr(ch chan<- string, msg string) {
	select {
	case ch <- msg:
	default:
	}
}
