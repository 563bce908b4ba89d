package httpapi

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/gorilla/websocket"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func dialGame(t *testing.T, ts *httptest.Server, id string) *websocket.Conn {
	t.Helper()
	url := "ws" + strings.TrimPrefix(ts.URL, "http") + "/ws/games/" + id
	ws, resp, err := websocket.DefaultDialer.Dial(url, nil)
	require.NoError(t, err)
	require.Equal(t, http.StatusSwitchingProtocols, resp.StatusCode)
	t.Cleanup(func() { _ = ws.Close() })
	return ws
}

func readEnvelope(t *testing.T, ws *websocket.Conn) Envelope {
	t.Helper()
	require.NoError(t, ws.SetReadDeadline(time.Now().Add(2*time.Second)))
	var env Envelope
	require.NoError(t, ws.ReadJSON(&env))
	return env
}

func TestWS_PlayGame(t *testing.T) {
	ts := newTestServer(t, nil)
	g := createGame(t, ts, `{"secret":[0,1,3,5]}`)
	ws := dialGame(t, ts, g.ID)

	env := readEnvelope(t, ws)
	require.Equal(t, "state", env.Type)
	var v gameView
	require.NoError(t, json.Unmarshal(env.Payload, &v))
	assert.Equal(t, g.ID, v.ID)
	assert.Equal(t, "in_progress", v.State)

	require.NoError(t, ws.WriteMessage(websocket.TextMessage, []byte(`{"type":"guess","payload":{"guess":[2,2,4,6]}}`)))

	env = readEnvelope(t, ws)
	require.Equal(t, "feedback", env.Type)
	var fb struct {
		Guess        []int          `json:"guess"`
		Feedback     map[string]any `json:"feedback"`
		FeedbackText string         `json:"feedbackText"`
	}
	require.NoError(t, json.Unmarshal(env.Payload, &fb))
	assert.Equal(t, []int{2, 2, 4, 6}, fb.Guess)
	assert.Equal(t, map[string]any{"exactMatches": 0.0, "totalMatches": 0.0}, fb.Feedback)
	assert.Equal(t, "0 correct numbers, 0 correctly placed", fb.FeedbackText)

	env = readEnvelope(t, ws)
	require.Equal(t, "state", env.Type)
	require.NoError(t, json.Unmarshal(env.Payload, &v))
	assert.Equal(t, 1, v.MovesCompleted)

	require.NoError(t, ws.WriteMessage(websocket.TextMessage, []byte(`{"type":"guess","payload":{"guess":[0,1,3,5]}}`)))
	assert.Equal(t, "feedback", readEnvelope(t, ws).Type)
	env = readEnvelope(t, ws)
	require.NoError(t, json.Unmarshal(env.Payload, &v))
	assert.Equal(t, "won", v.State)
	assert.Equal(t, []int{0, 1, 3, 5}, v.Secret)

	require.NoError(t, ws.WriteMessage(websocket.TextMessage, []byte(`{"type":"guess","payload":{"guess":[0,1,3,5]}}`)))
	env = readEnvelope(t, ws)
	require.Equal(t, "error", env.Type)
	var e ErrorPayload
	require.NoError(t, json.Unmarshal(env.Payload, &e))
	assert.Equal(t, "game_over", e.Code)
}

func TestWS_Errors(t *testing.T) {
	ts := newTestServer(t, nil)
	g := createGame(t, ts, `{"secret":[0,1,3,5]}`)
	ws := dialGame(t, ts, g.ID)
	require.Equal(t, "state", readEnvelope(t, ws).Type)

	cases := []struct {
		name     string
		frame    string
		wantCode string
	}{
		{name: "bad_json", frame: `{nope`, wantCode: "bad_json"},
		{name: "bad_payload", frame: `{"type":"guess","payload":{"guess":"x"}}`, wantCode: "invalid_input"},
		{name: "short_guess", frame: `{"type":"guess","payload":{"guess":[1]}}`, wantCode: "invalid_input"},
		{name: "unknown_type", frame: `{"type":"resign","payload":{}}`, wantCode: "unknown_type"},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			require.NoError(t, ws.WriteMessage(websocket.TextMessage, []byte(tc.frame)))
			env := readEnvelope(t, ws)
			require.Equal(t, "error", env.Type)
			var e ErrorPayload
			require.NoError(t, json.Unmarshal(env.Payload, &e))
			assert.Equal(t, tc.wantCode, e.Code)
		})
	}

	// none of the rejected frames used an attempt
	require.NoError(t, ws.WriteMessage(websocket.TextMessage, []byte(`{"type":"state","payload":{}}`)))
	env := readEnvelope(t, ws)
	var v gameView
	require.NoError(t, json.Unmarshal(env.Payload, &v))
	assert.Equal(t, 0, v.MovesCompleted)
}

func TestWS_UnknownGame(t *testing.T) {
	ts := newTestServer(t, nil)

	url := "ws" + strings.TrimPrefix(ts.URL, "http") + "/ws/games/missing"
	ws, resp, err := websocket.DefaultDialer.Dial(url, nil)
	if ws != nil {
		_ = ws.Close()
	}
	require.Error(t, err)
	require.NotNil(t, resp)
	assert.Equal(t, http.StatusNotFound, resp.StatusCode)
}

func TestWS_DeletedGameSendsErrorBeforeClose(t *testing.T) {
	ts := newTestServer(t, nil)
	g := createGame(t, ts, `{"secret":[0,1,3,5]}`)
	ws := dialGame(t, ts, g.ID)
	require.Equal(t, "state", readEnvelope(t, ws).Type)

	resp := do(t, http.MethodDelete, ts.URL+"/api/games/"+g.ID, "")
	require.Equal(t, http.StatusNoContent, resp.StatusCode)

	require.NoError(t, ws.WriteMessage(websocket.TextMessage, []byte(`{"type":"guess","payload":{"guess":[0,1,3,5]}}`)))

	env := readEnvelope(t, ws)
	require.Equal(t, "error", env.Type)
	var e ErrorPayload
	require.NoError(t, json.Unmarshal(env.Payload, &e))
	assert.Equal(t, "not_found", e.Code)

	require.NoError(t, ws.SetReadDeadline(time.Now().Add(2*time.Second)))
	_, _, err := ws.ReadMessage()
	require.Error(t, err)
	assert.True(t, websocket.IsCloseError(err, websocket.CloseNormalClosure), "got %v", err)
}
