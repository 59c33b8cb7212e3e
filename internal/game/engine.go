package game

import (
	"context"
	"fmt"
	"io"
	rand "math/rand/v2"
	"slices"
	"sync"
	"time"

	"github.com/charmbracelet/log"
	"github.com/coder/quartz"
	"github.com/lox/holdem-table/internal/config"
	"github.com/lox/holdem-table/internal/deck"
	"github.com/lox/holdem-table/internal/evaluator"
	"github.com/lox/holdem-table/internal/randutil"
	"github.com/lox/holdem-table/internal/store"
)

// persistTimeout bounds each store call made at a round boundary.
const persistTimeout = 5 * time.Second

// Engine runs one table. All state is guarded by a single mutex that every
// public method and timer callback takes; events raised while it is held are
// published after it is released, so subscribers may call back in.
type Engine struct {
	mu sync.Mutex

	cfg      config.TableConfig
	clock    quartz.Clock
	logger   *log.Logger
	bus      EventBus
	store    store.Store
	rng      *rand.Rand
	evaluate EvaluateFunc
	workers  int

	deck *deck.Deck
	sim  *evaluator.Simulator

	state     State
	street    Street
	seats     []*Player
	waitlist  []string
	blacklist map[string]time.Time

	button     int
	smallBlind int
	bigBlind   int
	actor      int
	betting    betting
	ledger     *Ledger
	community  []deck.Card
	autoStarts int

	roundID     string
	roundStart  time.Time
	startStacks map[string]int

	idleWarn timerSlot
	idleOut  timerSlot
	start    timerSlot
	reveal   timerSlot
	timerGen uint64

	pending []Event
}

// NewEngine creates an idle table.
func NewEngine(cfg config.TableConfig, opts ...Option) (*Engine, error) {
	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	e := &Engine{
		cfg:       cfg,
		blacklist: make(map[string]time.Time),
		button:    -1,
	}
	for _, opt := range opts {
		opt(e)
	}

	if e.clock == nil {
		e.clock = quartz.NewReal()
	}
	if e.logger == nil {
		e.logger = log.NewWithOptions(io.Discard, log.Options{})
	}
	e.logger = e.logger.WithPrefix("engine")
	if e.bus == nil {
		e.bus = NewEventBus()
	}
	if e.store == nil {
		e.store = store.NewMemoryStore()
	}
	if e.rng == nil {
		e.rng = randutil.NewFromTime()
	}
	if e.evaluate == nil {
		e.evaluate = evaluator.Evaluate
	}

	e.deck = deck.NewDeck(e.rng)
	e.sim = evaluator.NewSimulator(randutil.Child(e.rng), evaluator.WithWorkers(e.workers))
	e.resetRound()
	return e, nil
}

// Subscribe registers a subscriber on the engine's event bus.
func (e *Engine) Subscribe(subscriber EventSubscriber) {
	e.bus.Subscribe(subscriber)
}

// Config returns the table configuration.
func (e *Engine) Config() config.TableConfig {
	return e.cfg
}

// locked runs fn under the engine lock and publishes whatever it emitted.
func (e *Engine) locked(fn func() error) error {
	e.mu.Lock()
	err := fn()
	events := e.flush()
	e.mu.Unlock()
	e.publish(events)
	return err
}

func (e *Engine) emit(event Event) {
	e.pending = append(e.pending, event)
}

func (e *Engine) flush() []Event {
	events := e.pending
	e.pending = nil
	return events
}

func (e *Engine) publish(events []Event) {
	for _, event := range events {
		e.bus.Publish(event)
	}
}

func (e *Engine) now() stamp {
	return stamp{at: e.clock.Now()}
}

// Join seats a player, loading their saved stack and statistics. A player
// joining while a round is running waits until it ends.
func (e *Engine) Join(ctx context.Context, name string) error {
	return e.locked(func() error {
		return e.join(ctx, name)
	})
}

func (e *Engine) join(ctx context.Context, name string) error {
	if name == "" {
		return ErrInvalidPlayerName
	}
	if e.seatOf(name) >= 0 || slices.Contains(e.waitlist, name) {
		return fmt.Errorf("%w: %s", ErrAlreadyJoined, name)
	}
	if until, ok := e.blacklist[name]; ok {
		if now := e.clock.Now(); now.Before(until) {
			return fmt.Errorf("%w: %s for another %s", ErrRespawnCooldown, name, until.Sub(now).Round(time.Second))
		}
		delete(e.blacklist, name)
	}
	if len(e.seats)+len(e.waitlist) >= e.cfg.MaxPlayers {
		return fmt.Errorf("%w: %d players", ErrTableFull, e.cfg.MaxPlayers)
	}

	if e.inRound() {
		e.waitlist = append(e.waitlist, name)
		e.logger.Info("Player waitlisted", "player", name)
		e.emit(PlayerJoinedEvent{stamp: e.now(), Player: name, Waitlisted: true})
		return nil
	}

	e.seat(e.load(ctx, name))
	return nil
}

func (e *Engine) seat(p *Player) {
	e.seats = append(e.seats, p)
	e.logger.Info("Player seated", "player", p.Name, "cash", p.Cash, "bank", p.Bank)
	e.emit(PlayerJoinedEvent{stamp: e.now(), Player: p.Name, Cash: p.Cash})
}

// load fetches a player's record. Unknown players start with the configured
// stack; a busted record is topped up from the bank or respawned.
func (e *Engine) load(ctx context.Context, name string) *Player {
	ctx, cancel := context.WithTimeout(ctx, persistTimeout)
	defer cancel()

	rec, ok, err := e.store.LoadPlayer(ctx, name)
	if err != nil {
		e.logger.Warn("Failed to load player", "player", name, "error", err)
	}
	if !ok || err != nil {
		rec = store.PlayerRecord{Name: name, Cash: e.cfg.StartingStack}
	}

	p := newPlayer(rec)
	if p.Cash == 0 {
		if p.withdraw(e.cfg.StartingStack) == 0 {
			p.Cash = e.cfg.StartingStack
		}
	}
	return p
}

// Leave removes a player. Mid-round the player folds at once and their seat
// is released when the round ends.
func (e *Engine) Leave(name string) error {
	return e.locked(func() error {
		return e.leave(name)
	})
}

func (e *Engine) leave(name string) error {
	if i := slices.Index(e.waitlist, name); i >= 0 {
		e.waitlist = slices.Delete(e.waitlist, i, i+1)
		e.emit(PlayerLeftEvent{stamp: e.now(), Player: name, Reason: "left the waitlist"})
		return nil
	}

	i := e.seatOf(name)
	if i < 0 {
		return fmt.Errorf("%w: %s", ErrUnknownPlayer, name)
	}
	p := e.seats[i]

	if !e.inRound() {
		e.savePlayers([]*Player{p})
		e.removeSeat(i)
		e.emit(PlayerLeftEvent{stamp: e.now(), Player: name, Reason: "left"})
		if e.state == StatePreStart && len(e.seats) < 2 {
			e.stop(&e.start)
			e.autoStarts = 0
			e.transition(StateIdle)
		}
		return nil
	}

	p.Quit = true
	if p.Folded {
		return nil
	}
	e.logger.Info("Player left mid-round", "player", name)
	e.fold(i, false)

	switch e.state {
	case StateBetting:
		if i == e.actor || e.liveCount() < 2 {
			e.stopIdle()
			e.run()
		}
	case StateShowdown:
		if e.liveCount() < 2 {
			e.stop(&e.reveal)
			e.transition(StateResolving)
			e.run()
		}
	}
	return nil
}

// StartRound seats any listed players that are not already seated and
// begins the start countdown. The auto-start counter is reset to the
// configured value.
func (e *Engine) StartRound(ctx context.Context, players ...string) error {
	return e.locked(func() error {
		if e.state != StateIdle {
			return ErrRoundInProgress
		}
		for _, name := range players {
			if e.seatOf(name) >= 0 {
				continue
			}
			if err := e.join(ctx, name); err != nil {
				return err
			}
		}
		if len(e.seats) < 2 {
			return ErrNotEnoughPlayers
		}

		e.autoStarts = e.cfg.AutoStartCount
		e.transition(StatePreStart)
		if e.cfg.StartWait == 0 {
			e.run()
			return nil
		}
		e.scheduleStart()
		return nil
	})
}

// ForceStart begins a round immediately, skipping any countdown.
func (e *Engine) ForceStart() error {
	return e.locked(func() error {
		switch e.state {
		case StateIdle:
			if len(e.seats) < 2 {
				return ErrNotEnoughPlayers
			}
			e.autoStarts = e.cfg.AutoStartCount
			e.transition(StatePreStart)
		case StatePreStart:
			e.stop(&e.start)
		default:
			return ErrRoundInProgress
		}
		e.run()
		return nil
	})
}

// StopAutoStart stops further rounds from starting automatically. A pending
// countdown is cancelled; a running round plays out.
func (e *Engine) StopAutoStart() {
	_ = e.locked(func() error {
		e.autoStarts = 0
		if e.state == StatePreStart {
			e.stop(&e.start)
			e.transition(StateIdle)
		}
		return nil
	})
}

// ForceEndRound abandons the current round and restores every stack to its
// value when the round began.
func (e *Engine) ForceEndRound() error {
	return e.locked(func() error {
		switch e.state {
		case StateIdle:
			return ErrNoRoundInProgress
		case StatePreStart:
			e.stop(&e.start)
			e.autoStarts = 0
			e.transition(StateIdle)
			return nil
		}
		next, _ := e.abort(errForceEnded)
		e.transition(next)
		return nil
	})
}

// SubmitAction applies a betting action for player. Amount is only read for
// Bet and is the player's total for the street. A rejected action leaves the
// table unchanged and restarts the actor's idle timer.
func (e *Engine) SubmitAction(player string, action Action, amount int) (Result, error) {
	return e.submitLocked(player, action, func(*Player) int { return amount })
}

// RaiseBy bets amount more than the current table bet for player. The
// street total is worked out under the same lock that applies it, so a
// concurrent raise cannot leave it stale.
func (e *Engine) RaiseBy(player string, amount int) (Result, error) {
	return e.submitLocked(player, Bet, func(*Player) int { return e.betting.tableBet + amount })
}

// AllIn bets player's whole stack.
func (e *Engine) AllIn(player string) (Result, error) {
	return e.submitLocked(player, Bet, func(p *Player) int { return p.Cash })
}

func (e *Engine) submitLocked(player string, action Action, amount func(*Player) int) (Result, error) {
	var res Result
	err := e.locked(func() error {
		var err error
		res, err = e.submit(player, action, amount)
		return err
	})
	return res, err
}

// submit resolves amount for the actor once it is known to be their turn.
func (e *Engine) submit(name string, action Action, amount func(*Player) int) (Result, error) {
	switch e.state {
	case StateIdle, StatePreStart:
		return Result{}, ErrNoRoundInProgress
	case StateBetting:
	default:
		return Result{}, ErrNotYourTurn
	}

	i := e.seatOf(name)
	if i < 0 {
		return Result{}, fmt.Errorf("%w: %s", ErrUnknownPlayer, name)
	}
	if i != e.actor {
		return Result{}, fmt.Errorf("%w: waiting on %s", ErrNotYourTurn, e.seats[e.actor].Name)
	}

	n := amount(e.seats[i])
	res, err := e.act(i, action, n, false)
	if err != nil {
		e.logger.Debug("Rejected action", "player", name, "action", action, "amount", n, "error", err)
		e.promptTimers()
		return res, err
	}
	e.run()
	return res, nil
}

// State returns the current lifecycle state.
func (e *Engine) State() State {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.state
}

// TableView is a point-in-time copy of the public table state.
type TableView struct {
	State     State
	Street    Street
	Community []deck.Card
	Players   []PlayerView
	Waitlist  []string
	Button    string
	Actor     string
	Limits    Limits
	Pot       int
	RoundID   string
}

// Snapshot returns a copy of the public table state.
func (e *Engine) Snapshot() TableView {
	e.mu.Lock()
	defer e.mu.Unlock()

	view := TableView{
		State:     e.state,
		Street:    e.street,
		Community: slices.Clone(e.community),
		Waitlist:  slices.Clone(e.waitlist),
		Pot:       e.ledger.Total(),
		RoundID:   e.roundID,
	}
	for _, p := range e.seats {
		view.Players = append(view.Players, p.view())
	}
	if e.button >= 0 && e.button < len(e.seats) {
		view.Button = e.seats[e.button].Name
	}
	if e.state == StateBetting && e.actor >= 0 {
		view.Actor = e.seats[e.actor].Name
		view.Limits = e.betting.limits(e.seats[e.actor])
	}
	return view
}

func (e *Engine) inRound() bool {
	return e.state != StateIdle && e.state != StatePreStart
}

func (e *Engine) seatOf(name string) int {
	return slices.IndexFunc(e.seats, func(p *Player) bool { return p.Name == name })
}

// removeSeat drops the seat at i, keeping the button on the same player or,
// if it was theirs, on the seat before.
func (e *Engine) removeSeat(i int) {
	e.seats = slices.Delete(e.seats, i, i+1)
	if i <= e.button {
		e.button--
	}
}

func (e *Engine) nextSeat(i int) int {
	return (i + 1) % len(e.seats)
}

func (e *Engine) liveCount() int {
	n := 0
	for _, p := range e.seats {
		if !p.Folded {
			n++
		}
	}
	return n
}

func (e *Engine) canBetCount() int {
	n := 0
	for _, p := range e.seats {
		if p.canBet() {
			n++
		}
	}
	return n
}

// seatOrder lists seated players starting left of the button.
func (e *Engine) seatOrder() []string {
	names := make([]string, 0, len(e.seats))
	for j := 1; j <= len(e.seats); j++ {
		names = append(names, e.seats[(e.button+j)%len(e.seats)].Name)
	}
	return names
}

func (e *Engine) savePlayers(players []*Player) {
	if len(players) == 0 {
		return
	}
	records := make([]store.PlayerRecord, len(players))
	for i, p := range players {
		records[i] = p.record()
	}

	ctx, cancel := context.WithTimeout(context.Background(), persistTimeout)
	defer cancel()
	if err := e.store.SavePlayers(ctx, records); err != nil {
		e.logger.Warn("Failed to save players", "count", len(records), "error", err)
	}
}

func (e *Engine) saveRound(rec store.RoundRecord) {
	ctx, cancel := context.WithTimeout(context.Background(), persistTimeout)
	defer cancel()
	if err := e.store.SaveRound(ctx, rec); err != nil {
		e.logger.Warn("Failed to save round", "round", rec.ID, "error", err)
	}
}
