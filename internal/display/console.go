package display

import (
	"fmt"
	"io"
	"strings"
	"sync"

	"github.com/lox/holdem-table/internal/game"
)

// Console prints table events as lines of text. It is safe to subscribe it
// to an engine that is driven from several goroutines.
type Console struct {
	mu     sync.Mutex
	w      io.Writer
	styles *Styles
	// showHoles prints every player's private cards, which only makes sense
	// for a hot-seat game at a single terminal.
	showHoles bool
}

// NewConsole creates a Console writing to w.
func NewConsole(w io.Writer, styles *Styles, showHoles bool) *Console {
	if styles == nil {
		styles = DefaultStyles()
	}
	return &Console{w: w, styles: styles, showHoles: showHoles}
}

// OnEvent implements game.EventSubscriber.
func (c *Console) OnEvent(event game.Event) {
	text := c.Format(event)
	if text == "" {
		return
	}
	c.mu.Lock()
	defer c.mu.Unlock()
	fmt.Fprintln(c.w, text)
}

// Format renders a single event. Events the console does not show render as
// an empty string.
func (c *Console) Format(event game.Event) string {
	s := c.styles
	switch ev := event.(type) {
	case game.StateChangedEvent:
		if ev.To == game.StatePreStart {
			return s.Info.Render("Next round is about to start")
		}
	case game.PlayerJoinedEvent:
		if ev.Waitlisted {
			return fmt.Sprintf("%s will join after this round", ev.Player)
		}
		return fmt.Sprintf("%s sits down with %d", ev.Player, ev.Cash)
	case game.PlayerLeftEvent:
		return s.Info.Render(fmt.Sprintf("%s leaves the table (%s)", ev.Player, ev.Reason))
	case game.HandDealtEvent:
		if !c.showHoles {
			return ""
		}
		return fmt.Sprintf("%s is dealt %s", ev.Player, s.Cards(ev.Hole))
	case game.StreetRevealedEvent:
		return fmt.Sprintf("%s %s  %s", s.Header.Render(strings.ToUpper(ev.Street.String())),
			s.Cards(ev.Community), s.Info.Render(fmt.Sprintf("pot %d", ev.Pot)))
	case game.TurnToActEvent:
		return c.formatTurn(ev)
	case game.PlayerActedEvent:
		return formatAction(ev)
	case game.IdleWarningEvent:
		return s.Warning.Render(fmt.Sprintf("%s, you have %s to act", ev.Player, ev.Remaining))
	case game.ShowdownOddsEvent:
		return c.formatOdds(ev)
	case game.RoundResultsEvent:
		return c.formatResults(ev)
	case game.StackReportEvent:
		return c.formatStacks(ev)
	case game.RoundAbortedEvent:
		return s.Error.Render("Round aborted: " + ev.Reason)
	}
	return ""
}

func (c *Console) formatTurn(ev game.TurnToActEvent) string {
	l := ev.Limits
	var options string
	if l.ToCall == 0 {
		options = fmt.Sprintf("check or bet %d-%d", l.MinRaiseTo, l.MaxBet)
	} else {
		options = fmt.Sprintf("%d to call, raise to %d-%d", l.ToCall, l.MinRaiseTo, l.MaxBet)
	}
	return fmt.Sprintf("%s to act: %s (pot %d)", c.styles.Actions.Render(ev.Player), options, ev.Pot)
}

func formatAction(ev game.PlayerActedEvent) string {
	r := ev.Result
	var text string
	switch {
	case ev.Blind:
		text = fmt.Sprintf("%s posts a blind of %d", r.Player, r.Amount)
	case r.Action == game.Fold:
		text = r.Player + " folds"
	case r.Action == game.Check:
		text = r.Player + " checks"
	case r.AllIn:
		text = fmt.Sprintf("%s is all-in for %d", r.Player, r.Amount)
	case r.Raise:
		text = fmt.Sprintf("%s raises to %d", r.Player, r.Amount)
	default:
		text = fmt.Sprintf("%s calls %d", r.Player, r.Amount)
	}
	if ev.Blind && r.AllIn {
		text += " and is all-in"
	}
	if r.Auto {
		text += " (timed out)"
	}
	return text
}

func (c *Console) formatOdds(ev game.ShowdownOddsEvent) string {
	var b strings.Builder
	fmt.Fprintf(&b, "Odds on the %s:", ev.Street)
	for _, o := range ev.Odds {
		fmt.Fprintf(&b, "\n  %-12s %3d%% win %3d%% tie", o.Name, o.WinPct, o.TiePct)
	}
	if ev.SplitPct > 0 {
		fmt.Fprintf(&b, "\n  %d%% of boards split the pot", ev.SplitPct)
	}
	return b.String()
}

func (c *Console) formatResults(ev game.RoundResultsEvent) string {
	s := c.styles
	var b strings.Builder
	b.WriteString(s.Header.Render("RESULTS"))
	if len(ev.Community) > 0 {
		b.WriteString(" " + s.Cards(ev.Community))
	}
	for _, h := range ev.Hands {
		fmt.Fprintf(&b, "\n  %s shows %s: %s", h.Player, s.Cards(h.Hole), s.HandInfo.Render(h.Hand.Describe()))
	}
	for i, pot := range ev.Pots {
		name := "Main pot"
		if i > 0 {
			name = fmt.Sprintf("Side pot %d", i)
		}
		fmt.Fprintf(&b, "\n  %s of %d: %s", name, pot.Amount, formatPayouts(pot))
	}
	return b.String()
}

func formatPayouts(pot game.Pot) string {
	if len(pot.Winners) == 0 {
		return "returned"
	}
	parts := make([]string, len(pot.Winners))
	for i, name := range pot.Winners {
		parts[i] = fmt.Sprintf("%s wins %d", name, pot.Payouts[name])
	}
	return strings.Join(parts, ", ")
}

func (c *Console) formatStacks(ev game.StackReportEvent) string {
	s := c.styles
	var b strings.Builder
	b.WriteString("Stacks:")
	for _, st := range ev.Stacks {
		change := s.Info.Render("even")
		switch {
		case st.Change > 0:
			change = s.Success.Render(fmt.Sprintf("+%d", st.Change))
		case st.Change < 0:
			change = s.Error.Render(fmt.Sprintf("%d", st.Change))
		}
		fmt.Fprintf(&b, "\n  %-12s %6d  %s", st.Player, st.Cash, change)
		if st.Bank > 0 {
			b.WriteString(s.Info.Render(fmt.Sprintf("  bank %d", st.Bank)))
		}
	}
	return b.String()
}

// Table renders a snapshot of the table.
func (c *Console) Table(view game.TableView) string {
	s := c.styles
	var b strings.Builder
	fmt.Fprintf(&b, "%s %s", s.Header.Render(strings.ToUpper(view.State.String())), s.Cards(view.Community))
	if view.Pot > 0 {
		fmt.Fprintf(&b, "  pot %d", view.Pot)
	}
	for _, p := range view.Players {
		marker := "  "
		switch p.Name {
		case view.Actor:
			marker = s.Actions.Render("> ")
		case view.Button:
			marker = "D "
		}
		status := ""
		switch {
		case p.Folded:
			status = s.Info.Render("folded")
		case p.AllIn:
			status = s.Warning.Render("all-in")
		case p.Bet > 0:
			status = fmt.Sprintf("bet %d", p.Bet)
		}
		fmt.Fprintf(&b, "\n%s%-12s %6d  %s", marker, p.Name, p.Cash, status)
	}
	if len(view.Waitlist) > 0 {
		fmt.Fprintf(&b, "\nWaiting: %s", strings.Join(view.Waitlist, ", "))
	}
	return b.String()
}
