package main

import (
	"bytes"
	"context"
	"io"
	"testing"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/log"
	"github.com/coder/quartz"
	"github.com/lox/holdem-table/internal/config"
	"github.com/lox/holdem-table/internal/display"
	"github.com/lox/holdem-table/internal/game"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseHands(t *testing.T) {
	tests := []struct {
		name     string
		input    []string
		expected int
		hasError bool
	}{
		{name: "Single hand", input: []string{"AcKh"}, expected: 1},
		{name: "Multiple hands", input: []string{"AcKh", "KdQs"}, expected: 2},
		{name: "Hand with spaces", input: []string{"Ac Kh"}, expected: 1},
		{name: "Too many cards", input: []string{"AcKhQd"}, hasError: true},
		{name: "Too few cards", input: []string{"Ac"}, hasError: true},
		{name: "Invalid card format", input: []string{"AcXy"}, hasError: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			seats, err := parseHands(tt.input)
			if tt.hasError {
				assert.Error(t, err)
				return
			}
			require.NoError(t, err)
			require.Len(t, seats, tt.expected)
			for _, seat := range seats {
				assert.Len(t, seat.Hole, 2)
			}
		})
	}
}

func TestParseCommand(t *testing.T) {
	tests := []struct {
		line string
		want command
	}{
		{"table", command{verb: "table"}},
		{"EXIT", command{verb: "quit"}},
		{"start alice bob", command{verb: "start", names: []string{"alice", "bob"}}},
		{"start", command{verb: "start", names: []string{}}},
		{"join Carol", command{verb: "join", player: "Carol"}},
		{"Alice fold", command{verb: "act", player: "Alice", action: game.Fold}},
		{"bob k", command{verb: "act", player: "bob", action: game.Check}},
		{"bob CALL", command{verb: "act", player: "bob", action: game.Call}},
		{"bob bet 60", command{verb: "act", player: "bob", action: game.Bet, amount: 60}},
		{"bob raise 20", command{verb: "act", player: "bob", action: game.Bet, amount: 20, mode: raiseBy}},
		{"bob allin", command{verb: "act", player: "bob", action: game.Bet, mode: allIn}},
	}
	for _, tt := range tests {
		t.Run(tt.line, func(t *testing.T) {
			got, err := parseCommand(tt.line)
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}

	for _, bad := range []string{"", "dance", "join", "bob bet", "bob bet lots", "bob shuffle"} {
		_, err := parseCommand(bad)
		assert.Error(t, err, bad)
	}
}

// newTestSession returns a session whose events are printed to the buffer,
// the way the terminal UI would show them.
func newTestSession(t *testing.T) (*session, *bytes.Buffer) {
	t.Helper()

	tc := config.DefaultTableConfig()
	tc.StartWait = 0
	tc.AutoStartCount = 0
	tc.EquityTrials = 100

	eng, err := game.NewEngine(tc,
		game.WithClock(quartz.NewMock(t)),
		game.WithSeed(7),
		game.WithSimulatorWorkers(1),
	)
	require.NoError(t, err)

	var out bytes.Buffer
	s := &session{
		engine:  eng,
		console: display.NewConsole(&out, nil, false),
		styles:  display.DefaultStyles(),
		logger:  log.New(io.Discard),
	}
	eng.Subscribe(s.console)
	return s, &out
}

func TestSessionScript(t *testing.T) {
	s, out := newTestSession(t)
	ctx := context.Background()

	var replies []string
	for _, line := range []string{"start alice bob", "carol fold", "end", "table", "dance"} {
		reply, quit := s.handle(ctx, line)
		require.False(t, quit, line)
		replies = append(replies, reply)
	}
	_, quit := s.handle(ctx, "quit")
	assert.True(t, quit)

	text := out.String()
	assert.Contains(t, text, "alice sits down with 1000")
	assert.Contains(t, text, "posts a blind of 5")
	assert.Contains(t, text, "Round aborted")
	assert.Empty(t, replies[0])
	assert.Contains(t, replies[1], "player is not at the table: carol")
	assert.Contains(t, replies[3], "IDLE")
	assert.Contains(t, replies[4], `unknown command "dance"`)
	assert.Equal(t, game.StateIdle, s.engine.State())
}

func TestSessionRaiseAndAllIn(t *testing.T) {
	s, out := newTestSession(t)
	ctx := context.Background()

	reply, _ := s.handle(ctx, "start alice bob")
	require.Empty(t, reply)
	view := s.engine.Snapshot()
	require.Equal(t, game.StateBetting, view.State)

	first := view.Actor
	reply, _ = s.handle(ctx, first+" raise 20")
	require.Empty(t, reply)
	assert.Contains(t, out.String(), first+" raises to 30")

	second := s.engine.Snapshot().Actor
	reply, _ = s.handle(ctx, second+" allin")
	require.Empty(t, reply)
	assert.Contains(t, out.String(), second+" is all-in for 1000")

	reply, _ = s.handle(ctx, second+" fold")
	assert.Contains(t, reply, "not your turn")

	s.shutdown()
	assert.Equal(t, game.StateIdle, s.engine.State())
}

func TestSessionDrivesTerminalUI(t *testing.T) {
	s, _ := newTestSession(t)
	ctx := context.Background()

	m := display.NewTUIModel(display.NewConsole(io.Discard, nil, false), "table",
		func(line string) (string, bool) { return s.handle(ctx, line) }, "start alice bob")
	s.engine.Subscribe(game.SubscriberFunc(func(ev game.Event) {
		m.Update(display.EventMsg{Event: ev})
	}))

	// Run the startup line the way the program would.
	for _, msg := range runBatch(m.Init()) {
		m.Update(msg)
	}
	assert.Contains(t, m.View(), "alice sits down with 1000")
	assert.Equal(t, game.StateBetting, s.engine.State())

	s.shutdown()
	assert.Contains(t, m.View(), "Round aborted")
}

// runBatch executes cmd and everything it batches, returning the messages.
func runBatch(cmd tea.Cmd) []tea.Msg {
	if cmd == nil {
		return nil
	}
	msg := cmd()
	batch, ok := msg.(tea.BatchMsg)
	if !ok {
		return []tea.Msg{msg}
	}
	var out []tea.Msg
	for _, c := range batch {
		out = append(out, runBatch(c)...)
	}
	return out
}
