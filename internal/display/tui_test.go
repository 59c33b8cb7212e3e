package display

import (
	"io"
	"testing"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/lox/holdem-table/internal/game"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestModel(run CommandFunc) *TUIModel {
	return NewTUIModel(NewConsole(io.Discard, nil, false), "table", run, "")
}

func TestTUIModelShowsEvents(t *testing.T) {
	m := newTestModel(nil)

	_, cmd := m.Update(EventMsg{Event: game.PlayerJoinedEvent{Player: "alice", Cash: 1000}})
	assert.Nil(t, cmd)
	_, _ = m.Update(EventMsg{Event: game.HandDealtEvent{Player: "alice"}})

	assert.Equal(t, []string{"alice sits down with 1000"}, m.gameLog, "hidden events add nothing")
	assert.Contains(t, m.View(), "alice sits down with 1000")
}

func TestTUIModelRunsCommandsOffTheEventLoop(t *testing.T) {
	var lines []string
	m := newTestModel(func(line string) (string, bool) {
		lines = append(lines, line)
		return "Auto-start stopped", false
	})

	m.actionInput.SetValue("  stop ")
	_, cmd := m.Update(tea.KeyMsg{Type: tea.KeyEnter})
	require.NotNil(t, cmd)
	assert.Empty(t, lines, "the command runs when the program executes it")
	assert.Empty(t, m.actionInput.Value())
	assert.Equal(t, []string{"> stop"}, m.gameLog)

	_, quit := m.Update(cmd())
	assert.Nil(t, quit)
	assert.Equal(t, []string{"stop"}, lines)
	assert.Equal(t, []string{"> stop", "Auto-start stopped"}, m.gameLog)

	_, cmd = m.Update(tea.KeyMsg{Type: tea.KeyEnter})
	assert.Nil(t, cmd, "an empty line does nothing")
}

func TestTUIModelQuits(t *testing.T) {
	m := newTestModel(func(string) (string, bool) { return "", true })

	m.actionInput.SetValue("quit")
	_, cmd := m.Update(tea.KeyMsg{Type: tea.KeyEnter})
	require.NotNil(t, cmd)
	_, cmd = m.Update(cmd())
	require.NotNil(t, cmd)
	assert.Equal(t, tea.QuitMsg{}, cmd())
	assert.Empty(t, m.View())

	m = newTestModel(nil)
	_, cmd = m.Update(tea.KeyMsg{Type: tea.KeyCtrlC})
	require.NotNil(t, cmd)
	assert.Equal(t, tea.QuitMsg{}, cmd())
}

func TestTUIModelTabFocusesLog(t *testing.T) {
	m := newTestModel(nil)
	_, _ = m.Update(tea.WindowSizeMsg{Width: 80, Height: 20})
	assert.Equal(t, 13, m.logViewport.Height)

	_, _ = m.Update(tea.KeyMsg{Type: tea.KeyTab})
	assert.Equal(t, logPane, m.focusedPane)
	assert.False(t, m.actionInput.Focused())
	assert.Contains(t, m.View(), "Log focused")

	_, _ = m.Update(tea.KeyMsg{Type: tea.KeyTab})
	assert.Equal(t, inputPane, m.focusedPane)
	assert.True(t, m.actionInput.Focused())
}
