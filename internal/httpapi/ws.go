package httpapi

import (
	"encoding/json"
	"errors"
	"net/http"
	"sync"
	"time"

	"example.com/mastermind/internal/game"
	"example.com/mastermind/internal/session"
	"github.com/go-chi/chi/v5"
	"github.com/gorilla/websocket"
)

const (
	pingInterval = 25 * time.Second
	writeTimeout = 10 * time.Second
	maxFrameSize = 4 << 10
)

var upgrader = websocket.Upgrader{
	CheckOrigin: func(r *http.Request) bool { return true },
}

type GuessPayload struct {
	Guess []int `json:"guess"`
}

type FeedbackPayload struct {
	Guess        []int         `json:"guess"`
	Feedback     game.Feedback `json:"feedback"`
	FeedbackText string        `json:"feedbackText"`
}

type ErrorPayload struct {
	Code    string `json:"code"`
	Message string `json:"message"`
}

type clientConn struct {
	ws   *websocket.Conn
	send chan []byte

	closeOnce sync.Once
}

// Close stops accepting frames. The writer flushes what is queued, sends a
// close frame and returns.
func (c *clientConn) Close() {
	c.closeOnce.Do(func() {
		close(c.send)
	})
}

func (c *clientConn) push(typ string, payload any) {
	b, _ := json.Marshal(Envelope{Type: typ, Payload: mustJSON(payload)})
	select {
	case c.send <- b:
	default:
		// Slow reader; drop the frame rather than block the game.
	}
}

func (c *clientConn) pushError(code, msg string) {
	c.push("error", ErrorPayload{Code: code, Message: msg})
}

// PlayWS plays one game over a websocket. The current state is sent on
// connect and after every accepted guess.
func (h *Handler) PlayWS(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")
	sess, err := h.games.Get(id)
	if err != nil {
		writeGameError(w, err)
		return
	}

	ws, err := upgrader.Upgrade(w, r, nil)
	if err != nil {
		return
	}
	ws.SetReadLimit(maxFrameSize)

	cc := &clientConn{
		ws:   ws,
		send: make(chan []byte, 16),
	}

	writerDone := make(chan struct{})
	go func() {
		defer close(writerDone)
		ticker := time.NewTicker(pingInterval)
		defer ticker.Stop()

		for {
			select {
			case msg, ok := <-cc.send:
				if !ok {
					_ = ws.WriteControl(websocket.CloseMessage,
						websocket.FormatCloseMessage(websocket.CloseNormalClosure, ""),
						time.Now().Add(writeTimeout))
					return
				}
				_ = ws.SetWriteDeadline(time.Now().Add(writeTimeout))
				if err := ws.WriteMessage(websocket.TextMessage, msg); err != nil {
					return
				}
			case <-ticker.C:
				_ = ws.SetWriteDeadline(time.Now().Add(writeTimeout))
				if err := ws.WriteMessage(websocket.PingMessage, nil); err != nil {
					return
				}
			}
		}
	}()

	h.log.Debug("ws connected", "game_id", id)
	cc.push("state", sess.View())

read:
	for {
		_, data, err := ws.ReadMessage()
		if err != nil {
			break
		}

		var env Envelope
		if err := json.Unmarshal(data, &env); err != nil {
			cc.pushError("bad_json", "invalid json")
			continue
		}

		switch env.Type {
		case "guess":
			var p GuessPayload
			if err := json.Unmarshal(env.Payload, &p); err != nil {
				cc.pushError("invalid_input", "invalid payload")
				continue
			}
			if gone := h.wsGuess(cc, id, p.Guess); gone {
				break read
			}

		case "state":
			cc.push("state", sess.View())

		default:
			cc.pushError("unknown_type", "unknown message type")
		}
	}

	cc.Close()
	<-writerDone
	_ = ws.Close()
	h.log.Debug("ws disconnected", "game_id", id)
}

// wsGuess plays one guess and reports whether the game no longer exists.
func (h *Handler) wsGuess(cc *clientConn, id string, guess []int) bool {
	fb, view, err := h.games.Guess(id, guess)
	if err != nil {
		_, code := classify(err)
		cc.pushError(code, err.Error())
		return errors.Is(err, session.ErrNotFound)
	}
	cc.push("feedback", FeedbackPayload{Guess: guess, Feedback: fb, FeedbackText: fb.String()})
	cc.push("state", view)
	return false
}
