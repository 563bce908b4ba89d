package main

import (
	"bytes"
	"context"
	"strings"
	"testing"

	"example.com/mastermind/internal/game"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func runRoot(t *testing.T, stdin string, args ...string) (string, error) {
	t.Helper()
	t.Setenv("GAME_SOURCE", "local")

	var out bytes.Buffer
	cmd := newRootCmd()
	cmd.SetArgs(args)
	cmd.SetIn(strings.NewReader(stdin))
	cmd.SetOut(&out)
	cmd.SetErr(&out)
	err := cmd.ExecuteContext(context.Background())
	return out.String(), err
}

func TestPlayCommand_WinWithSecret(t *testing.T) {
	out, err := runRoot(t, "1 0\n0 1\n", "play", "--secret", "0 1", "--attempts", "3", "--strategy", "position_count")
	require.NoError(t, err)

	assert.Contains(t, out, "2 digits long from 0 to 7")
	assert.Contains(t, out, "0 correctly placed, 2 misplaced")
	assert.Contains(t, out, "Congratulations! You won!")
}

func TestPlayCommand_QuitAndEOF(t *testing.T) {
	out, err := runRoot(t, "quit\n", "play", "--length", "3", "--colors", "4")
	require.NoError(t, err)
	assert.Contains(t, out, "3 digits long from 0 to 3")
	assert.Contains(t, out, "Bye.")

	out, err = runRoot(t, "", "play")
	require.NoError(t, err)
	assert.Contains(t, out, "Round 1 of 10")
}

func TestPlayCommand_BadFlags(t *testing.T) {
	cases := []struct {
		name string
		args []string
	}{
		{name: "strategy", args: []string{"play", "--strategy", "bulls"}},
		{name: "secret_not_numeric", args: []string{"play", "--secret", "a b"}},
		{name: "secret_with_local", args: []string{"play", "--secret", "0 1", "--source", "local"}},
		{name: "attempts", args: []string{"play", "--attempts", "-1"}},
		{name: "length_disagrees_with_secret", args: []string{"play", "--secret", "0 1", "--length", "3"}},
		{name: "extra_arg", args: []string{"play", "now"}},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			_, err := runRoot(t, "", tc.args...)
			require.Error(t, err)
		})
	}
}

func TestPlayFlags_Apply(t *testing.T) {
	s := game.Settings{CodeLength: 4, NumColors: 8, MaxAttempts: 10, Strategy: game.Standard, Source: game.SourceRemote}
	f := playFlags{secret: "3 3 1", strategy: "exact_only"}
	require.NoError(t, f.apply(&s))

	assert.Equal(t, []int{3, 3, 1}, s.Secret)
	assert.Equal(t, 0, s.CodeLength)
	assert.Equal(t, game.SecretSource(""), s.Source)
	assert.Equal(t, game.ExactOnly, s.Strategy)

	f = playFlags{secret: "3 3 1", length: 4}
	require.NoError(t, f.apply(&s))
	assert.Equal(t, 4, s.CodeLength)
}
