package display

import (
	"strings"

	"github.com/charmbracelet/bubbles/textinput"
	"github.com/charmbracelet/bubbles/viewport"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/lox/holdem-table/internal/game"
)

// CommandFunc runs one line typed at the prompt. It returns the text to add
// to the log and whether the session should end.
type CommandFunc func(line string) (output string, quit bool)

// EventMsg carries an engine event into a running program.
type EventMsg struct {
	Event game.Event
}

// commandDoneMsg is sent once a CommandFunc returns.
type commandDoneMsg struct {
	output string
	quit   bool
}

// Feed forwards engine events to a program. Subscribe it to the engine once
// the program has been created; events published before the program runs
// block until it does.
type Feed struct {
	Program *tea.Program
}

// OnEvent implements game.EventSubscriber.
func (f Feed) OnEvent(event game.Event) {
	f.Program.Send(EventMsg{Event: event})
}

const (
	logPane = iota
	inputPane
)

// TUIModel is the Bubble Tea model for a table session: a scrolling log of
// table events above a command prompt.
type TUIModel struct {
	console *Console
	styles  *Styles
	run     CommandFunc
	startup string
	title   string

	logViewport viewport.Model
	actionInput textinput.Model

	gameLog     []string
	quitting    bool
	focusedPane int

	width  int
	height int
}

// NewTUIModel creates a model that renders events with console and hands
// typed lines to run. A non-empty startup line is run as soon as the
// program starts.
func NewTUIModel(console *Console, title string, run CommandFunc, startup string) *TUIModel {
	vp := viewport.New(100, 25)
	vp.SetContent("")

	ti := textinput.New()
	ti.Placeholder = "alice call, bob raise 50, table, help"
	ti.Focus()
	ti.CharLimit = 100
	ti.Width = 100
	ti.PromptStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("#04B575")).Bold(true)
	ti.TextStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("#FAFAFA"))
	ti.Prompt = "> "

	return &TUIModel{
		console:     console,
		styles:      console.styles,
		run:         run,
		startup:     startup,
		title:       title,
		logViewport: vp,
		actionInput: ti,
		focusedPane: inputPane,
		width:       104,
		height:      34,
	}
}

// Init starts the cursor blinking and runs the startup line.
func (m *TUIModel) Init() tea.Cmd {
	if m.startup == "" {
		return textinput.Blink
	}
	return tea.Batch(textinput.Blink, m.command(m.startup))
}

// command runs line off the event loop. The engine publishes events to the
// program while it executes, so it must not run inside Update.
func (m *TUIModel) command(line string) tea.Cmd {
	return func() tea.Msg {
		output, quit := m.run(line)
		return commandDoneMsg{output: output, quit: quit}
	}
}

// Update handles messages in the TUI
func (m *TUIModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	var cmds []tea.Cmd

	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		m.updateDimensions()

	case EventMsg:
		if text := m.console.Format(msg.Event); text != "" {
			m.AddLogEntry(text)
		}
		return m, nil

	case commandDoneMsg:
		if msg.output != "" {
			m.AddLogEntry(msg.output)
		}
		if msg.quit {
			m.quitting = true
			return m, tea.Quit
		}
		return m, nil

	case tea.KeyMsg:
		switch msg.String() {
		case "ctrl+c", "esc":
			m.quitting = true
			return m, tea.Quit
		case "tab":
			if m.focusedPane == logPane {
				m.focusedPane = inputPane
				m.actionInput.Focus()
			} else {
				m.focusedPane = logPane
				m.actionInput.Blur()
			}
		case "enter":
			if m.focusedPane == inputPane {
				line := strings.TrimSpace(m.actionInput.Value())
				m.actionInput.SetValue("")
				if line == "" {
					return m, nil
				}
				m.AddLogEntry(m.styles.Info.Render("> " + line))
				return m, m.command(line)
			}
		case "up", "k":
			if m.focusedPane == logPane {
				m.logViewport.ScrollUp(1)
			}
		case "down", "j":
			if m.focusedPane == logPane {
				m.logViewport.ScrollDown(1)
			}
		case "pgup", "b":
			if m.focusedPane == logPane {
				m.logViewport.HalfPageUp()
			}
		case "pgdown", "f":
			if m.focusedPane == logPane {
				m.logViewport.HalfPageDown()
			}
		case "home", "g":
			if m.focusedPane == logPane {
				m.logViewport.GotoTop()
			}
		case "end", "G":
			if m.focusedPane == logPane {
				m.logViewport.GotoBottom()
			}
		}
	}

	var cmd tea.Cmd
	if m.focusedPane == inputPane {
		m.actionInput, cmd = m.actionInput.Update(msg)
		cmds = append(cmds, cmd)
	}
	m.logViewport, cmd = m.logViewport.Update(msg)
	cmds = append(cmds, cmd)

	return m, tea.Batch(cmds...)
}

// View renders the TUI
func (m *TUIModel) View() string {
	if m.quitting {
		return ""
	}
	return lipgloss.JoinVertical(
		lipgloss.Left,
		m.styles.Header.Render(m.title),
		m.renderLogPane(),
		m.renderActionPane(),
	)
}

func (m *TUIModel) renderLogPane() string {
	style := paneStyle.Width(m.width - 4)
	if m.focusedPane == logPane {
		style = style.BorderForeground(focusColor)
	}
	return style.Render(m.logViewport.View())
}

func (m *TUIModel) renderActionPane() string {
	var content strings.Builder
	content.WriteString(m.actionInput.View())
	content.WriteString("\n")

	help := "Tab to scroll log • Enter to run • 'help' for commands • Ctrl+C to quit"
	if m.focusedPane == logPane {
		help = "Log focused: ↑↓ scroll, PgUp/PgDn half page, Home/End, Tab to input"
	}
	content.WriteString(m.styles.Info.Render(help))

	style := paneStyle.Width(m.width - 4)
	if m.focusedPane == inputPane {
		style = style.BorderForeground(focusColor)
	}
	return style.Render(content.String())
}

var (
	focusColor = lipgloss.Color("#04B575")
	paneStyle  = lipgloss.NewStyle().
			Border(lipgloss.RoundedBorder()).
			BorderForeground(lipgloss.Color("#626262")).
			Padding(0, 1)
)

// updateDimensions fits the log to the terminal, leaving room for the title
// line and the prompt pane (input, help and borders).
func (m *TUIModel) updateDimensions() {
	if m.height <= 0 || m.width <= 0 {
		return
	}

	const chrome = 1 + 4 + 2
	m.logViewport.Width = m.width - 8
	m.logViewport.Height = max(3, m.height-chrome)
	m.actionInput.Width = m.width - 10
	m.logViewport.GotoBottom()
}

// AddLogEntry appends entry to the log and scrolls to it.
func (m *TUIModel) AddLogEntry(entry string) {
	m.gameLog = append(m.gameLog, entry)
	m.logViewport.SetContent(strings.Join(m.gameLog, "\n"))
	if m.logViewport.Height > 0 && m.logViewport.Width > 0 {
		m.logViewport.GotoBottom()
	}
}
