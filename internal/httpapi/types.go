package httpapi

import (
	"encoding/json"

	"example.com/mastermind/internal/game"
	"example.com/mastermind/internal/session"
)

type CreateGameRequest struct {
	CodeLength  int    `json:"codeLength" validate:"omitempty,min=1,max=32"`
	NumColors   int    `json:"numColors" validate:"omitempty,min=2,max=64"`
	MaxAttempts int    `json:"maxAttempts" validate:"omitempty,min=1,max=100"`
	Strategy    string `json:"strategy" validate:"omitempty,max=32"`
	Source      string `json:"source" validate:"omitempty,oneof=remote local literal"`
	Secret      []int  `json:"secret" validate:"omitempty,max=32"`
}

// settings converts the request, parsing the named enums.
func (r CreateGameRequest) settings() (game.Settings, error) {
	s := game.Settings{
		CodeLength:  r.CodeLength,
		NumColors:   r.NumColors,
		MaxAttempts: r.MaxAttempts,
		Secret:      r.Secret,
	}
	if r.Strategy != "" {
		st, err := game.ParseStrategy(r.Strategy)
		if err != nil {
			return s, err
		}
		s.Strategy = st
	}
	if r.Source != "" {
		src, err := game.ParseSecretSource(r.Source)
		if err != nil {
			return s, err
		}
		s.Source = src
	}
	return s, nil
}

type GuessRequest struct {
	Guess []int `json:"guess" validate:"max=32"`
}

type GuessResponse struct {
	Feedback          game.Feedback `json:"feedback"`
	FeedbackText      string        `json:"feedbackText"`
	State             game.State    `json:"state"`
	MovesCompleted    int           `json:"movesCompleted"`
	RemainingAttempts int           `json:"remainingAttempts"`
	Secret            []int         `json:"secret,omitempty"`
}

func newGuessResponse(fb game.Feedback, v session.View) GuessResponse {
	return GuessResponse{
		Feedback:          fb,
		FeedbackText:      fb.String(),
		State:             v.State,
		MovesCompleted:    v.MovesCompleted,
		RemainingAttempts: v.RemainingAttempts,
		Secret:            v.Secret,
	}
}

// Envelope is the websocket frame: {"type":"...","payload":{...}}
type Envelope struct {
	Type    string          `json:"type"`
	Payload json.RawMessage `json:"payload"`
}

func mustJSON(v any) json.RawMessage {
	b, _ := json.Marshal(v)
	return b
}
