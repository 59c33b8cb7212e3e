package game

import (
	rand "math/rand/v2"

	"github.com/charmbracelet/log"
	"github.com/coder/quartz"
	"github.com/lox/holdem-table/internal/deck"
	"github.com/lox/holdem-table/internal/evaluator"
	"github.com/lox/holdem-table/internal/randutil"
	"github.com/lox/holdem-table/internal/store"
)

// EvaluateFunc ranks a player's hole cards plus the community.
type EvaluateFunc func(cards []deck.Card) (evaluator.Hand, error)

// Option configures an Engine during creation.
type Option func(*Engine)

// WithClock sets the clock used for every timer. Tests pass a quartz.Mock.
func WithClock(clock quartz.Clock) Option {
	return func(e *Engine) {
		e.clock = clock
	}
}

// WithLogger sets the logger.
func WithLogger(logger *log.Logger) Option {
	return func(e *Engine) {
		e.logger = logger
	}
}

// WithStore sets the persistence collaborator. The default keeps records in
// memory.
func WithStore(s store.Store) Option {
	return func(e *Engine) {
		e.store = s
	}
}

// WithRNG sets the random source for shuffling and simulation.
func WithRNG(rng *rand.Rand) Option {
	return func(e *Engine) {
		e.rng = rng
	}
}

// WithSeed is WithRNG with a deterministic generator.
func WithSeed(seed int64) Option {
	return WithRNG(randutil.New(seed))
}

// WithEvaluator replaces the showdown hand evaluator.
func WithEvaluator(fn EvaluateFunc) Option {
	return func(e *Engine) {
		e.evaluate = fn
	}
}

// WithEventBus publishes events on an existing bus.
func WithEventBus(bus EventBus) Option {
	return func(e *Engine) {
		e.bus = bus
	}
}

// WithSimulatorWorkers fixes the number of equity workers, which makes
// showdown odds reproducible for a given seed.
func WithSimulatorWorkers(n int) Option {
	return func(e *Engine) {
		e.workers = n
	}
}
