package session

import (
	"sync"
	"time"

	"example.com/mastermind/internal/game"
)

// Session owns one Game and serializes every access to it.
type Session struct {
	id string
	mu sync.Mutex

	game      *game.Game
	createdAt time.Time
	lastUsed  time.Time
}

func newSession(id string, g *game.Game, now time.Time) *Session {
	return &Session{id: id, game: g, createdAt: now, lastUsed: now}
}

func (s *Session) ID() string { return s.id }

// Guess submits one attempt and returns its feedback together with the
// resulting view of the game.
func (s *Session) Guess(raw []int, now time.Time) (game.Feedback, View, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.lastUsed = now
	fb, err := s.game.ProcessGuess(raw)
	if err != nil {
		return nil, s.viewLocked(), err
	}
	return fb, s.viewLocked(), nil
}

func (s *Session) View() View {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.viewLocked()
}

func (s *Session) idleSince(now time.Time) time.Duration {
	s.mu.Lock()
	defer s.mu.Unlock()
	return now.Sub(s.lastUsed)
}

// Turn is one accepted guess and the feedback it received.
type Turn struct {
	Guess    []int         `json:"guess"`
	Feedback game.Feedback `json:"feedback"`
}

// View is the serializable state of a session. Secret is filled only once
// the game is over.
type View struct {
	ID                string        `json:"id"`
	CodeLength        int           `json:"codeLength"`
	NumColors         int           `json:"numColors"`
	MaxAttempts       int           `json:"maxAttempts"`
	Strategy          game.Strategy `json:"strategy"`
	State             game.State    `json:"state"`
	MovesCompleted    int           `json:"movesCompleted"`
	RemainingAttempts int           `json:"remainingAttempts"`
	History           []Turn        `json:"history"`
	Secret            []int         `json:"secret,omitempty"`
	CreatedAt         time.Time     `json:"createdAt"`
}

func (s *Session) viewLocked() View {
	g := s.game
	guesses := g.Guesses()
	feedbacks := g.Feedbacks()

	history := make([]Turn, len(guesses))
	for i := range guesses {
		history[i] = Turn{Guess: guesses[i].Values(), Feedback: feedbacks[i]}
	}

	v := View{
		ID:                s.id,
		CodeLength:        g.CodeLength(),
		NumColors:         g.NumColors(),
		MaxAttempts:       g.MaxAttempts(),
		Strategy:          g.Strategy(),
		State:             g.State(),
		MovesCompleted:    g.MovesCompleted(),
		RemainingAttempts: g.RemainingAttempts(),
		History:           history,
		CreatedAt:         s.createdAt,
	}
	if secret, ok := g.Secret(); ok {
		v.Secret = secret.Values()
	}
	return v
}
