// Package display renders table events, equity tables and round history
// for terminal hosts.
package display

import (
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/lox/holdem-table/internal/deck"
	"github.com/muesli/termenv"
)

// DisableColor makes every style render without colour, whatever the
// terminal supports.
func DisableColor() {
	lipgloss.SetColorProfile(termenv.Ascii)
}

// Styles contains all styling used by the renderers.
type Styles struct {
	Header    lipgloss.Style
	HandInfo  lipgloss.Style
	Actions   lipgloss.Style
	RedCard   lipgloss.Style
	BlackCard lipgloss.Style

	Success lipgloss.Style
	Error   lipgloss.Style
	Warning lipgloss.Style
	Info    lipgloss.Style
}

// DefaultStyles returns the standard palette.
func DefaultStyles() *Styles {
	return &Styles{
		Header: lipgloss.NewStyle().
			Foreground(lipgloss.Color("#FAFAFA")).
			Background(lipgloss.Color("#7D56F4")).
			Padding(0, 1).
			Bold(true),
		HandInfo: lipgloss.NewStyle().
			Foreground(lipgloss.Color("#96CEB4")).
			Bold(true),
		Actions: lipgloss.NewStyle().
			Foreground(lipgloss.Color("#FFD700")).
			Bold(true),
		RedCard: lipgloss.NewStyle().
			Foreground(lipgloss.Color("#FF6B6B")).
			Bold(true),
		BlackCard: lipgloss.NewStyle().
			Foreground(lipgloss.Color("#FAFAFA")).
			Bold(true),
		Success: lipgloss.NewStyle().
			Foreground(lipgloss.Color("#96CEB4")).
			Bold(true),
		Error: lipgloss.NewStyle().
			Foreground(lipgloss.Color("#FF6B6B")).
			Bold(true),
		Warning: lipgloss.NewStyle().
			Foreground(lipgloss.Color("#FFEAA7")).
			Bold(true),
		Info: lipgloss.NewStyle().
			Foreground(lipgloss.Color("#626262")),
	}
}

// Card renders a card with its suit symbol, coloured by suit.
func (s *Styles) Card(c deck.Card) string {
	if c.Suit.IsRed() {
		return s.RedCard.Render(c.Pretty())
	}
	return s.BlackCard.Render(c.Pretty())
}

// Cards renders cards separated by spaces, or a dash for none.
func (s *Styles) Cards(cards []deck.Card) string {
	if len(cards) == 0 {
		return s.Info.Render("-")
	}
	parts := make([]string, len(cards))
	for i, c := range cards {
		parts[i] = s.Card(c)
	}
	return strings.Join(parts, " ")
}
