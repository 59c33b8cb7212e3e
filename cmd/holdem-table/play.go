package main

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"os/signal"
	"strconv"
	"strings"
	"sync"
	"syscall"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/log"
	"github.com/lox/holdem-table/internal/config"
	"github.com/lox/holdem-table/internal/display"
	"github.com/lox/holdem-table/internal/game"
	"github.com/lox/holdem-table/internal/store"
)

// PlayCmd runs a hot-seat table in a full-screen terminal UI.
type PlayCmd struct {
	Players   []string `arg:"" optional:"" help:"Players to seat and start a round with"`
	Seed      *int64   `help:"Deterministic RNG seed (optional)"`
	ShowHoles bool     `help:"Print every player's hole cards"`
}

const helpText = `Commands:
  <player> fold | check | call      act for the player to move
  <player> bet <total>              bet or raise to a street total
  <player> raise <amount>           raise by an amount over the table bet
  <player> allin                    commit the player's whole stack
  join <player>  leave <player>     change who is seated
  start [players...]                join players and begin auto-started rounds
  force | stop | end                start now, stop auto-start, abort the round
  table                             show the table
  quit`

func (c *PlayCmd) Run(g *Globals) error {
	cfg, err := config.Load(g.Config)
	if err != nil {
		return err
	}

	// The table owns the terminal, so logs always go to a file.
	if cfg.Logging.File == "" {
		cfg.Logging.File = "holdem-table.log"
	}
	logger, closeLog, err := setupLogger(cfg.Logging, g.Debug)
	if err != nil {
		return err
	}
	defer func() { _ = closeLog() }()

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	st, err := store.Open(ctx, cfg.Storage)
	if err != nil {
		return fmt.Errorf("failed to open store: %w", err)
	}
	defer func() {
		if err := st.Close(); err != nil {
			logger.Error("Failed to close store", "error", err)
		}
	}()

	seed := time.Now().UnixNano()
	if c.Seed != nil {
		seed = *c.Seed
	}
	logger.Info("Starting table", "seed", seed, "driver", cfg.Storage.Driver,
		"minimum_bet", cfg.Table.MinimumBet, "starting_stack", cfg.Table.StartingStack)

	eng, err := game.NewEngine(cfg.Table,
		game.WithLogger(logger),
		game.WithStore(st),
		game.WithSeed(seed),
	)
	if err != nil {
		return err
	}

	s := &session{
		engine:  eng,
		console: display.NewConsole(io.Discard, nil, c.ShowHoles),
		styles:  display.DefaultStyles(),
		logger:  logger,
	}
	startup := "help"
	if len(c.Players) > 0 {
		startup = "start " + strings.Join(c.Players, " ")
	}
	model := display.NewTUIModel(s.console, " ♠ ♥ Texas Hold'em ♦ ♣ ", func(line string) (string, bool) {
		return s.handle(ctx, line)
	}, startup)

	program := tea.NewProgram(model, tea.WithAltScreen(), tea.WithContext(ctx))
	eng.Subscribe(display.Feed{Program: program})
	defer s.shutdown()

	if _, err := program.Run(); err != nil && !errors.Is(err, tea.ErrProgramKilled) {
		return fmt.Errorf("table UI: %w", err)
	}
	return nil
}

// session executes typed commands against one engine. Commands may arrive
// from several goroutines and are run one at a time.
type session struct {
	mu      sync.Mutex
	engine  *game.Engine
	console *display.Console
	styles  *display.Styles
	logger  *log.Logger
}

// handle parses and runs one line, returning what it printed and whether
// the player asked to quit.
func (s *session) handle(ctx context.Context, line string) (string, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()

	cmd, err := parseCommand(line)
	if err != nil {
		return s.styles.Error.Render(err.Error()), false
	}
	if cmd.verb == "quit" {
		return "", true
	}
	var out strings.Builder
	s.exec(ctx, &out, cmd)
	return strings.TrimRight(out.String(), "\n"), false
}

// shutdown aborts a round still in progress so that no chips are lost.
func (s *session) shutdown() {
	s.engine.StopAutoStart()
	if err := s.engine.ForceEndRound(); err != nil && !errors.Is(err, game.ErrNoRoundInProgress) {
		s.logger.Error("Failed to end round", "error", err)
	}
}

func (s *session) exec(ctx context.Context, w io.Writer, cmd command) {
	var err error
	switch cmd.verb {
	case "help":
		fmt.Fprintln(w, helpText)
	case "table":
		fmt.Fprintln(w, s.console.Table(s.engine.Snapshot()))
	case "join":
		err = s.engine.Join(ctx, cmd.player)
	case "leave":
		err = s.engine.Leave(cmd.player)
	case "start":
		err = s.engine.StartRound(ctx, cmd.names...)
	case "force":
		err = s.engine.ForceStart()
	case "stop":
		s.engine.StopAutoStart()
		fmt.Fprintln(w, s.styles.Info.Render("Auto-start stopped"))
	case "end":
		err = s.engine.ForceEndRound()
	case "act":
		err = s.act(cmd)
	}
	if err != nil {
		fmt.Fprintln(w, s.styles.Error.Render(err.Error()))
	}
}

func (s *session) act(cmd command) error {
	var err error
	switch cmd.mode {
	case raiseBy:
		_, err = s.engine.RaiseBy(cmd.player, cmd.amount)
	case allIn:
		_, err = s.engine.AllIn(cmd.player)
	default:
		_, err = s.engine.SubmitAction(cmd.player, cmd.action, cmd.amount)
	}
	return err
}

type amountMode int

const (
	exact amountMode = iota
	raiseBy
	allIn
)

// command is one parsed line of input.
type command struct {
	verb   string
	player string
	names  []string
	action game.Action
	amount int
	mode   amountMode
}

func parseCommand(line string) (command, error) {
	fields := strings.Fields(line)
	if len(fields) == 0 {
		return command{}, errors.New("empty command")
	}

	verb, args := strings.ToLower(fields[0]), fields[1:]
	switch verb {
	case "help", "?", "table", "force", "stop", "end":
		return command{verb: verb}, nil
	case "quit", "exit", "q":
		return command{verb: "quit"}, nil
	case "start":
		return command{verb: verb, names: args}, nil
	case "join", "leave":
		if len(args) != 1 {
			return command{}, fmt.Errorf("usage: %s <player>", verb)
		}
		return command{verb: verb, player: args[0]}, nil
	}

	// Anything else is "<player> <action> [amount]".
	if len(args) == 0 {
		return command{}, fmt.Errorf("unknown command %q", fields[0])
	}
	cmd := command{verb: "act", player: fields[0]}
	word := strings.ToLower(args[0])
	if word == "allin" || word == "all-in" || word == "shove" {
		cmd.action, cmd.mode = game.Bet, allIn
		return cmd, nil
	}

	action, err := game.ParseAction(word)
	if err != nil {
		return command{}, err
	}
	cmd.action = action
	if action != game.Bet {
		return cmd, nil
	}
	if len(args) != 2 {
		return command{}, fmt.Errorf("usage: %s %s <amount>", cmd.player, word)
	}
	cmd.amount, err = strconv.Atoi(args[1])
	if err != nil {
		return command{}, fmt.Errorf("invalid amount %q", args[1])
	}
	if word == "raise" || word == "r" {
		cmd.mode = raiseBy
	}
	return cmd, nil
}
