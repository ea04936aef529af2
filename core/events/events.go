// Package events routes adapter transaction streams to wallet-level listeners.
package events

import (
	"github.com/gaze-network/coloredcoins-network/core/adapters"
)

// Event is a transaction event exposed to listeners.
type Event string

const (
	NewTransaction        Event = "newTransaction"
	NewCCTransaction      Event = "newCCTransaction"
	RevertedTransaction   Event = "revertedTransaction"
	RevertedCCTransaction Event = "revertedCCTransaction"
)

func (e Event) String() string {
	return string(e)
}

func (e Event) IsValid() bool {
	_, ok := eventKinds[e]
	return ok
}

func (e Event) kind() adapters.EventKind {
	return eventKinds[e]
}

func (e Event) isReverted() bool {
	return e == RevertedTransaction || e == RevertedCCTransaction
}

var eventKinds = map[Event]adapters.EventKind{
	NewTransaction:        adapters.EventNewTransaction,
	NewCCTransaction:      adapters.EventNewCCTransaction,
	RevertedTransaction:   adapters.EventRevertedTransaction,
	RevertedCCTransaction: adapters.EventRevertedCCTransaction,
}

// Config selects how transactions are received from the adapter.
type Config struct {
	Enabled bool `mapstructure:"enabled"`

	// Secure subscribes to the broad streams and filters locally instead of
	// announcing wallet addresses to the backend.
	Secure bool `mapstructure:"secure"`

	// AllTransactions delivers non-local transactions from the broad streams too.
	AllTransactions bool `mapstructure:"all_transactions"`
}

// Registry is the set of wallet addresses a transaction is checked against.
type Registry interface {
	Contains(address string) bool
	Addresses() []string
	OnAdd(fn func(address string))
}

// Discoverer is notified before a relevant transaction is delivered.
type Discoverer interface {
	Discover()
}
