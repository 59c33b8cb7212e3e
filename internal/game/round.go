package game

import (
	"cmp"
	"context"
	"errors"
	"fmt"
	"slices"

	"github.com/google/uuid"
	"github.com/lox/holdem-table/internal/deck"
	"github.com/lox/holdem-table/internal/evaluator"
	"github.com/lox/holdem-table/internal/store"
)

var errForceEnded = errors.New("round force ended")

// run drives the state machine until it reaches a state that waits on a
// player, a timer or the host.
func (e *Engine) run() {
	for {
		next, wait := e.step()
		if next != e.state {
			e.transition(next)
		}
		if wait {
			return
		}
	}
}

// step handles the current state and returns the next one. wait reports
// whether the machine should stop and wait for outside input.
func (e *Engine) step() (next State, wait bool) {
	switch e.state {
	case StatePreStart:
		return e.preStart()
	case StateBlinds:
		return e.postBlinds()
	case StateBetting:
		return e.advance()
	case StateResolving:
		return e.resolve()
	case StateShowdown:
		return e.showdown()
	case StateCleanup:
		return e.cleanup()
	}
	return StateIdle, true
}

func (e *Engine) transition(to State) {
	from := e.state
	e.state = to
	e.logger.Debug("State change", "from", from, "to", to, "street", e.street)
	e.emit(StateChangedEvent{stamp: e.now(), From: from, To: to, Street: e.street})
}

func (e *Engine) preStart() (State, bool) {
	if len(e.seats) < 2 {
		e.autoStarts = 0
		return StateIdle, true
	}
	return StateBlinds, false
}

// postBlinds rotates the button, posts the blinds and deals hole cards.
func (e *Engine) postBlinds() (State, bool) {
	e.roundID = uuid.New().String()
	e.roundStart = e.clock.Now()
	e.startStacks = make(map[string]int, len(e.seats))
	for _, p := range e.seats {
		p.reset()
		e.startStacks[p.Name] = p.Cash
	}

	e.deck.Refill()
	if err := e.deck.Verify(); err != nil {
		return e.abort(err)
	}

	n := len(e.seats)
	e.button = (e.button + 1) % n
	if n == 2 {
		e.smallBlind = e.button
	} else {
		e.smallBlind = (e.button + 1) % n
	}
	e.bigBlind = (e.smallBlind + 1) % n
	e.street = Preflop
	e.betting = betting{minRaise: e.cfg.MinimumBet, topBettor: -1}

	e.logger.Info("Round started", "round", e.roundID, "players", n,
		"button", e.seats[e.button].Name)

	e.postBlind(e.smallBlind, e.cfg.SmallBlind())
	e.postBlind(e.bigBlind, e.cfg.MinimumBet)
	e.betting.tableBet = e.cfg.MinimumBet

	for range 2 {
		for j := 1; j <= n; j++ {
			p := e.seats[(e.button+j)%n]
			card, err := e.deck.Draw()
			if err != nil {
				return e.abort(err)
			}
			p.Hole = append(p.Hole, card)
		}
	}
	for _, p := range e.seats {
		e.emit(HandDealtEvent{stamp: e.now(), Player: p.Name, Hole: slices.Clone(p.Hole)})
	}

	e.actor = e.bigBlind
	return StateBetting, false
}

// postBlind commits a forced bet, clamped to the player's stack.
func (e *Engine) postBlind(seat, amount int) {
	p := e.seats[seat]
	amount = min(amount, p.Cash)
	res := Result{Player: p.Name, Action: Bet, Amount: amount, AllIn: amount == p.Cash}
	e.commit(seat, res)
	e.emit(PlayerActedEvent{stamp: e.now(), Result: res, Blind: true, Pot: e.ledger.Total()})
}

// commit moves the player's street total to res.Amount.
func (e *Engine) commit(seat int, res Result) {
	p := e.seats[seat]
	e.ledger.Contribute(p.Name, res.Amount-p.Bet)
	p.Bet = res.Amount
	if res.AllIn {
		p.AllIn = true
		e.ledger.MarkAllIn(p.Name)
	}
}

// act validates and applies a voluntary or timed-out action by the actor.
func (e *Engine) act(seat int, action Action, amount int, auto bool) (Result, error) {
	p := e.seats[seat]
	res := Result{Player: p.Name, Action: action, Amount: p.Bet, Auto: auto}

	switch action {
	case Fold:
		e.fold(seat, auto)
		return res, nil
	case Check:
		if !e.betting.canCheck(p) {
			return res, fmt.Errorf("%w: %d to call", ErrIllegalCheck, e.betting.limits(p).ToCall)
		}
	case Call:
		res.Amount = min(p.Cash, e.betting.tableBet)
		res.AllIn = res.Amount == p.Cash
	case Bet:
		var err error
		if res, err = e.betting.validateBet(p, amount); err != nil {
			return res, err
		}
		res.Auto = auto
	default:
		return res, fmt.Errorf("unknown action %d", action)
	}

	e.stopIdle()
	e.commit(seat, res)
	e.betting.apply(seat, res)
	e.logger.Debug("Player acted", "player", p.Name, "action", action, "amount", res.Amount,
		"all_in", res.AllIn, "auto", auto)
	e.emit(PlayerActedEvent{stamp: e.now(), Result: res, Pot: e.ledger.Total()})
	return res, nil
}

// fold takes the player out of every pot. If they closed the street, the
// next live player takes over that role.
func (e *Engine) fold(seat int, auto bool) {
	p := e.seats[seat]
	if seat == e.actor {
		e.stopIdle()
	}
	p.Folded = true
	e.ledger.Fold(p.Name)

	if e.betting.topBettor == seat {
		e.betting.topBettor = -1
		for j := e.nextSeat(seat); j != seat; j = e.nextSeat(j) {
			if !e.seats[j].Folded {
				e.betting.topBettor = j
				break
			}
		}
	}

	res := Result{Player: p.Name, Action: Fold, Amount: p.Bet, Auto: auto}
	e.emit(PlayerActedEvent{stamp: e.now(), Result: res, Pot: e.ledger.Total()})
}

// advance passes the turn to the next player who can act, or closes the
// street when the action is back with its opener.
func (e *Engine) advance() (State, bool) {
	if e.liveCount() < 2 {
		return StateResolving, false
	}

	cur := e.actor
	next := e.nextSeat(cur)
	for next != cur && next != e.betting.topBettor && !e.seats[next].canBet() {
		next = e.nextSeat(next)
	}

	if next == cur || next == e.betting.topBettor ||
		(e.street == Preflop && e.canBetCount() == 0) {
		return StateResolving, false
	}

	e.actor = next
	e.promptActor()
	return StateBetting, true
}

func (e *Engine) promptActor() {
	p := e.seats[e.actor]
	e.promptTimers()
	e.emit(TurnToActEvent{
		stamp:  e.now(),
		Player: p.Name,
		Street: e.street,
		Limits: e.betting.limits(p),
		Pot:    e.ledger.Total(),
	})
}

// resolve settles the street and decides how the round continues.
func (e *Engine) resolve() (State, bool) {
	refunds := e.ledger.Settle()
	for _, p := range e.seats {
		p.Cash -= p.Bet
		p.Change -= p.Bet
		p.Bet = 0
		if r := refunds[p.Name]; r > 0 {
			p.Cash += r
			p.Change += r
			e.logger.Debug("Uncalled bet returned", "player", p.Name, "amount", r)
		}
	}
	e.actor = -1
	e.betting = betting{minRaise: e.cfg.MinimumBet, topBettor: -1}

	switch {
	case e.liveCount() < 2:
		dealt := e.street < River
		for e.street < River {
			if err := e.dealStreet(false); err != nil {
				return e.abort(err)
			}
		}
		if dealt && e.cfg.RevealCommunityOnFastForward {
			e.emitStreet()
		}
		return StateShowdown, false
	case e.street == River, e.canBetCount() < 2:
		return StateShowdown, false
	}

	if err := e.dealStreet(true); err != nil {
		return e.abort(err)
	}
	e.actor = e.button
	return StateBetting, false
}

// dealStreet burns a card and deals the next street's community cards.
func (e *Engine) dealStreet(announce bool) error {
	next := e.street + 1
	if err := e.deck.Burn(); err != nil {
		return err
	}
	cards, err := e.deck.DrawN(next.communityCount() - e.street.communityCount())
	if err != nil {
		return err
	}
	e.community = append(e.community, cards...)
	e.street = next
	if announce {
		e.emitStreet()
	}
	return nil
}

func (e *Engine) emitStreet() {
	e.emit(StreetRevealedEvent{
		stamp:     e.now(),
		Street:    e.street,
		Community: slices.Clone(e.community),
		Pot:       e.ledger.Total(),
	})
}

// showdown reveals the remaining streets one at a time while two or more
// players are live, then pays out.
func (e *Engine) showdown() (State, bool) {
	if e.liveCount() < 2 || e.street == River {
		return e.payout()
	}

	e.emitOdds()
	if e.cfg.ShowdownRevealDelay == 0 {
		if err := e.dealStreet(true); err != nil {
			return e.abort(err)
		}
		return StateShowdown, false
	}
	e.schedule(&e.reveal, e.cfg.ShowdownRevealDelay, e.revealNext)
	return StateShowdown, true
}

func (e *Engine) revealNext() {
	if e.state != StateShowdown {
		return
	}
	if err := e.dealStreet(true); err != nil {
		next, _ := e.abort(err)
		e.transition(next)
		return
	}
	e.run()
}

// emitOdds publishes live equity for the players still in the hand.
func (e *Engine) emitOdds() {
	var seats []evaluator.Seat
	for _, p := range e.seats {
		if !p.Folded {
			seats = append(seats, evaluator.Seat{Name: p.Name, Hole: p.Hole})
		}
	}
	if err := e.sim.SetSeats(seats); err != nil {
		e.logger.Warn("Skipping showdown odds", "error", err)
		return
	}
	if err := e.sim.SetCommunity(e.community); err != nil {
		e.logger.Warn("Skipping showdown odds", "error", err)
		return
	}
	if err := e.sim.Run(context.Background(), e.cfg.EquityTrials); err != nil {
		e.logger.Warn("Skipping showdown odds", "error", err)
		return
	}
	e.emit(ShowdownOddsEvent{
		stamp:     e.now(),
		Street:    e.street,
		Community: slices.Clone(e.community),
		Odds:      e.sim.Odds(),
		SplitPct:  e.sim.SplitPct(),
	})
}

// payout ranks the live hands and distributes the pots. An uncontested pot
// is awarded without evaluating anything.
func (e *Engine) payout() (State, bool) {
	var (
		ranks map[string]evaluator.Hand
		shown []ShownHand
	)
	if e.liveCount() >= 2 {
		ranks = make(map[string]evaluator.Hand)
		for _, p := range e.seats {
			if p.Folded {
				continue
			}
			hand, err := e.evaluate(append(slices.Clone(p.Hole), e.community...))
			if err != nil {
				return e.abort(fmt.Errorf("evaluate %s: %w", p.Name, err))
			}
			ranks[p.Name] = hand
			shown = append(shown, ShownHand{Player: p.Name, Hole: slices.Clone(p.Hole), Hand: hand})
		}
		slices.SortStableFunc(shown, func(a, b ShownHand) int { return b.Hand.Compare(a.Hand) })
	}

	payouts, err := e.ledger.Distribute(ranks, e.seatOrder())
	if err != nil {
		return e.abort(err)
	}

	net := 0
	for _, p := range e.seats {
		p.Cash += payouts[p.Name]
		p.Change += payouts[p.Name]
		net += p.Change
	}
	if net != 0 {
		return e.abort(fmt.Errorf("%w: stacks changed by %d", ErrPotMismatch, net))
	}

	pots := e.ledger.Pots()
	won := make(map[string]bool)
	for _, pot := range pots {
		for _, name := range pot.Winners {
			won[name] = true
		}
	}
	for _, p := range e.seats {
		if won[p.Name] {
			p.Stats.Wins++
		}
	}

	e.logger.Info("Round complete", "round", e.roundID, "board", deck.FormatCards(e.community),
		"pots", len(pots), "showdown", ranks != nil)
	e.emit(RoundResultsEvent{
		stamp:     e.now(),
		RoundID:   e.roundID,
		Community: slices.Clone(e.community),
		Hands:     shown,
		Pots:      pots,
		Payouts:   payouts,
	})
	e.saveRound(e.roundRecord(pots))
	return StateCleanup, false
}

func (e *Engine) roundRecord(pots []Pot) store.RoundRecord {
	rec := store.RoundRecord{
		ID:        e.roundID,
		StartedAt: e.roundStart,
		EndedAt:   e.clock.Now(),
		Board:     deck.FormatCards(e.community),
		Deltas:    make(map[string]int, len(e.seats)),
	}
	for _, pot := range pots {
		rec.Pots = append(rec.Pots, store.PotRecord{Amount: pot.Amount, Winners: pot.Winners})
	}
	for _, p := range e.seats {
		rec.Deltas[p.Name] = p.Change
	}
	return rec
}

// cleanup updates statistics, saves players, releases departed and busted
// seats, seats the waitlist and schedules the next round.
func (e *Engine) cleanup() (State, bool) {
	now := e.clock.Now()
	for _, p := range e.seats {
		p.Stats.Rounds++
		if p.Idled {
			p.Stats.Idles++
		}
		if amount := p.withdraw(e.cfg.StartingStack); amount > 0 {
			e.logger.Info("Withdrew from bank", "player", p.Name, "amount", amount, "bank", p.Bank)
		}
		if p.Cash == 0 {
			p.Stats.Bankrupts++
		}
	}
	e.savePlayers(e.seats)
	e.emitStacks()
	e.collectCards()

	for i := len(e.seats) - 1; i >= 0; i-- {
		p := e.seats[i]
		switch {
		case p.Cash == 0:
			e.blacklist[p.Name] = now.Add(e.cfg.RespawnCooldown)
			e.logger.Info("Player bankrupt", "player", p.Name, "respawn", e.cfg.RespawnCooldown)
			e.removeSeat(i)
			e.emit(PlayerLeftEvent{stamp: e.now(), Player: p.Name, Reason: "bankrupt"})
		case p.Quit:
			e.removeSeat(i)
			e.emit(PlayerLeftEvent{stamp: e.now(), Player: p.Name, Reason: "left"})
		}
	}

	e.endRound()

	if e.autoStarts > 0 && len(e.seats) >= 2 {
		e.autoStarts--
		if e.cfg.StartWait == 0 {
			return StatePreStart, false
		}
		e.scheduleStart()
		return StatePreStart, true
	}
	e.autoStarts = 0
	return StateIdle, true
}

func (e *Engine) emitStacks() {
	entries := make([]StackEntry, len(e.seats))
	for i, p := range e.seats {
		entries[i] = StackEntry{Player: p.Name, Cash: p.Cash, Bank: p.Bank, Change: p.Change}
	}
	slices.SortStableFunc(entries, func(a, b StackEntry) int { return cmp.Compare(b.Cash, a.Cash) })
	e.emit(StackReportEvent{stamp: e.now(), RoundID: e.roundID, Stacks: entries})
}

// collectCards moves every hole and community card to the discard pile.
func (e *Engine) collectCards() {
	for _, p := range e.seats {
		e.deck.Discard(p.Hole...)
		p.Hole = nil
	}
	e.deck.Discard(e.community...)
	e.community = nil
}

// endRound clears round state and seats the waitlist.
func (e *Engine) endRound() {
	for _, p := range e.seats {
		p.reset()
	}
	e.resetRound()

	waiting := e.waitlist
	e.waitlist = nil
	for _, name := range waiting {
		if len(e.seats) >= e.cfg.MaxPlayers {
			e.logger.Warn("Dropping waitlisted player, table is full", "player", name)
			e.emit(PlayerLeftEvent{stamp: e.now(), Player: name, Reason: "table full"})
			continue
		}
		e.seat(e.load(context.Background(), name))
	}
}

func (e *Engine) resetRound() {
	e.street = NoStreet
	e.actor = -1
	e.smallBlind = -1
	e.bigBlind = -1
	e.betting = betting{minRaise: e.cfg.MinimumBet, topBettor: -1}
	e.ledger = NewLedger()
	e.community = nil
	e.startStacks = nil
}

// abort ends the round without a result. Stacks go back to their values at
// the start of the round and the deck is rebuilt from scratch.
func (e *Engine) abort(reason error) (State, bool) {
	if errors.Is(reason, errForceEnded) {
		e.logger.Info("Round force ended", "round", e.roundID)
	} else {
		reason = fmt.Errorf("%w: %w", ErrRoundAborted, reason)
		e.logger.Error("Round aborted", "round", e.roundID, "error", reason)
	}
	e.stopAll()

	for _, p := range e.seats {
		if cash, ok := e.startStacks[p.Name]; ok {
			p.Cash = cash
		}
		p.reset()
	}
	e.community = nil
	e.deck.Shuffle()
	e.emit(RoundAbortedEvent{stamp: e.now(), RoundID: e.roundID, Reason: reason.Error()})

	var departed []*Player
	for i := len(e.seats) - 1; i >= 0; i-- {
		if p := e.seats[i]; p.Quit {
			departed = append(departed, p)
			e.removeSeat(i)
			e.emit(PlayerLeftEvent{stamp: e.now(), Player: p.Name, Reason: "left"})
		}
	}
	e.savePlayers(departed)

	e.autoStarts = 0
	e.endRound()
	return StateIdle, true
}
