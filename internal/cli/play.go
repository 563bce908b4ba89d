// Package cli runs a game interactively over a line-oriented terminal.
package cli

import (
	"bufio"
	"context"
	"errors"
	"fmt"
	"io"
	"strconv"
	"strings"

	"example.com/mastermind/internal/game"
)

// ErrQuit is returned by Run when the player types "quit".
var ErrQuit = errors.New("player quit")

// Session plays one Game against a reader and a writer. It holds no global
// state; several sessions may run side by side.
type Session struct {
	game *game.Game
	in   *bufio.Scanner
	out  io.Writer
}

func NewSession(g *game.Game, in io.Reader, out io.Writer) *Session {
	return &Session{game: g, in: bufio.NewScanner(in), out: out}
}

// Run loops until the game is over, the input ends, ctx is done or the player
// quits. Lines that do not parse or fail validation are reported and asked
// for again; they never use up an attempt.
func (s *Session) Run(ctx context.Context) (game.State, error) {
	g := s.game
	s.printf("Start!\nThe secret code is %d digits long from 0 to %d\n", g.CodeLength(), g.NumColors()-1)
	s.printf("Enter your guess in one line, space separated (\"quit\" to give up)\n")

	for !g.IsOver() {
		if err := ctx.Err(); err != nil {
			return g.State(), err
		}
		s.printf("\nRound %d of %d\n", g.MovesCompleted()+1, g.MaxAttempts())

		fb, err := s.nextGuess()
		if err != nil {
			return g.State(), err
		}
		s.printf("%s\n", fb)
	}

	if g.IsGameWon() {
		s.printf("\nCongratulations! You won!\n")
	} else {
		secret, _ := g.Secret()
		s.printf("\nGame over! The code was %s. Try again\n", secret)
	}
	return g.State(), nil
}

func (s *Session) nextGuess() (game.Feedback, error) {
	for {
		s.printf("> ")
		if !s.in.Scan() {
			if err := s.in.Err(); err != nil {
				return nil, fmt.Errorf("read guess: %w", err)
			}
			return nil, fmt.Errorf("read guess: %w", io.ErrUnexpectedEOF)
		}

		line := strings.TrimSpace(s.in.Text())
		if line == "quit" || line == "q" {
			return nil, ErrQuit
		}
		raw, err := ParseCode(line)
		if err != nil {
			s.printf("Invalid code. Please enter a numeric guess.\n")
			continue
		}

		fb, err := s.game.ProcessGuess(raw)
		if game.IsValidation(err) {
			s.printf("Invalid code. Please enter %d digits from 0 to %d, space separated\n",
				s.game.CodeLength(), s.game.NumColors()-1)
			continue
		}
		if err != nil {
			return nil, err
		}
		return fb, nil
	}
}

// ParseCode reads whitespace-separated integers, e.g. "1 2 3 4".
func ParseCode(line string) ([]int, error) {
	fields := strings.Fields(line)
	if len(fields) == 0 {
		return nil, errors.New("empty code")
	}
	out := make([]int, len(fields))
	for i, f := range fields {
		v, err := strconv.Atoi(f)
		if err != nil {
			return nil, fmt.Errorf("position %d: %w", i, err)
		}
		out[i] = v
	}
	return out, nil
}

func (s *Session) printf(format string, args ...any) {
	_, _ = fmt.Fprintf(s.out, format, args...)
}
