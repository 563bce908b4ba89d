package game

import "slices"

// State is derived from the guess history; it is never stored.
type State string

const (
	InProgress State = "in_progress"
	Won        State = "won"
	Exhausted  State = "exhausted"
)

func (s State) Terminal() bool { return s == Won || s == Exhausted }

// Game is one round of play against a fixed secret. Configuration and the
// secret never change after Build; the only mutation is appending to the
// history in ProcessGuess.
//
// A Game is not safe for concurrent use. Callers that share one across
// goroutines must serialize access (see internal/session).
type Game struct {
	codeLength  int
	numColors   int
	maxAttempts int
	strategy    Strategy
	secret      Code

	guesses   []Code
	feedbacks []Feedback
}

// ProcessGuess validates raw, records it and scores it against the secret.
// Wrong guesses are recorded too; a guess that fails validation is not.
func (g *Game) ProcessGuess(raw []int) (Feedback, error) {
	if g.IsGameWon() {
		return nil, &StateError{Err: ErrAlreadyWon}
	}
	if g.MovesCompleted() == g.maxAttempts {
		return nil, &StateError{Err: ErrAttemptsExhausted}
	}

	guess, err := NewCode(raw, g.codeLength, g.numColors)
	if err != nil {
		return nil, err
	}
	g.guesses = append(g.guesses, guess)

	fb := g.strategy.Score(g.secret, guess)
	g.feedbacks = append(g.feedbacks, fb)
	return fb, nil
}

func (g *Game) MovesCompleted() int { return len(g.guesses) }

// IsGameWon reports whether the last recorded guess equals the secret.
func (g *Game) IsGameWon() bool {
	n := len(g.guesses)
	return n > 0 && g.guesses[n-1].Equal(g.secret)
}

func (g *Game) IsOver() bool { return g.State().Terminal() }

func (g *Game) State() State {
	switch {
	case g.IsGameWon():
		return Won
	case len(g.guesses) == g.maxAttempts:
		return Exhausted
	default:
		return InProgress
	}
}

func (g *Game) RemainingAttempts() int { return g.maxAttempts - len(g.guesses) }

func (g *Game) CodeLength() int  { return g.codeLength }
func (g *Game) NumColors() int   { return g.numColors }
func (g *Game) MaxAttempts() int { return g.maxAttempts }

func (g *Game) Strategy() Strategy { return g.strategy }

// Guesses returns the accepted guesses in attempt order.
func (g *Game) Guesses() []Code { return slices.Clone(g.guesses) }

// Feedbacks returns the feedback of each accepted guess, aligned with Guesses.
func (g *Game) Feedbacks() []Feedback { return slices.Clone(g.feedbacks) }

// Secret returns the secret only once the game is over.
func (g *Game) Secret() (Code, bool) {
	if !g.IsOver() {
		return Code{}, false
	}
	return g.secret, true
}
