package game

import (
	"time"

	"github.com/coder/quartz"
)

// timerSlot holds at most one pending callback. A callback whose generation
// no longer matches the slot was superseded and does nothing.
type timerSlot struct {
	timer *quartz.Timer
	gen   uint64
}

// schedule replaces whatever is pending in slot with fn after d. fn runs
// under the engine lock.
func (e *Engine) schedule(slot *timerSlot, d time.Duration, fn func(), tags ...string) {
	e.stop(slot)
	e.timerGen++
	gen := e.timerGen
	slot.gen = gen
	slot.timer = e.clock.AfterFunc(d, func() {
		e.mu.Lock()
		if slot.gen != gen {
			e.mu.Unlock()
			return
		}
		slot.timer, slot.gen = nil, 0
		fn()
		events := e.flush()
		e.mu.Unlock()
		e.publish(events)
	}, tags...)
}

func (e *Engine) stop(slot *timerSlot) {
	if slot.timer != nil {
		slot.timer.Stop()
	}
	slot.timer, slot.gen = nil, 0
}

func (e *Engine) stopIdle() {
	e.stop(&e.idleWarn)
	e.stop(&e.idleOut)
}

func (e *Engine) stopAll() {
	e.stopIdle()
	e.stop(&e.start)
	e.stop(&e.reveal)
}

// promptTimers (re)starts the actor's warning and timeout clocks.
func (e *Engine) promptTimers() {
	if e.cfg.IdleWarning > 0 && e.cfg.IdleWarning < e.cfg.IdleTimeout {
		e.schedule(&e.idleWarn, e.cfg.IdleWarning, e.warnIdle, "idle", "warning")
	}
	e.schedule(&e.idleOut, e.cfg.IdleTimeout, e.timeoutIdle, "idle", "timeout")
}

func (e *Engine) warnIdle() {
	if e.state != StateBetting || e.actor < 0 {
		return
	}
	p := e.seats[e.actor]
	remaining := e.cfg.IdleTimeout - e.cfg.IdleWarning
	e.logger.Debug("Idle warning", "player", p.Name, "remaining", remaining)
	e.emit(IdleWarningEvent{stamp: e.now(), Player: p.Name, Remaining: remaining})
}

// timeoutIdle acts for a player who ran out of time: a check if that is
// legal, otherwise a fold. The player keeps their seat.
func (e *Engine) timeoutIdle() {
	if e.state != StateBetting || e.actor < 0 {
		return
	}
	p := e.seats[e.actor]
	p.Idled = true

	action := Fold
	if e.betting.canCheck(p) {
		action = Check
	}
	e.logger.Info("Player timed out", "player", p.Name, "action", action)
	if _, err := e.act(e.actor, action, 0, true); err != nil {
		e.logger.Error("Timed out action rejected", "player", p.Name, "error", err)
		return
	}
	e.run()
}

func (e *Engine) scheduleStart() {
	e.schedule(&e.start, e.cfg.StartWait, func() {
		if e.state == StatePreStart {
			e.run()
		}
	}, "start")
}
