// Package game runs a single Texas Hold'em table.
//
// An Engine owns the deck, the pot ledger and the community cards for one
// table and advances a round through an explicit state machine. Player
// commands and timer callbacks are serialised by the engine's lock; events
// are delivered to subscribers after the lock is released.
package game
