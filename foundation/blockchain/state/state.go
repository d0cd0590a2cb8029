// Package state is the core API for the ledger and implements all the
// business rules and processing.
package state

import (
	"sync"

	"github.com/ardanlabs/ledger/foundation/blockchain/account"
	"github.com/ardanlabs/ledger/foundation/blockchain/database"
	"github.com/ardanlabs/ledger/foundation/blockchain/mempool"
	"github.com/ardanlabs/ledger/foundation/blockchain/peer"
)

// EventHandler defines a function that is called when events
// occur in the processing of the ledger.
type EventHandler func(v string, args ...any)

// Worker interface represents the behavior required to be implemented by any
// package providing support for mining and peer reconciliation.
type Worker interface {
	Shutdown()
	SignalStartMining()
	SignalReconcile()
}

// =============================================================================

// Config represents the configuration required to start
// the ledger node.
type Config struct {
	Host       string
	KnownPeers *peer.PeerSet
	EvHandler  EventHandler
}

// State manages the ledger. The mutex guards the chain and the account and
// is held across every operation that reads the chain and then changes the
// chain or the mempool.
type State struct {
	host      string
	evHandler EventHandler

	mu      sync.RWMutex
	account *account.Account
	chain   database.Chain

	knownPeers *peer.PeerSet
	mempool    *mempool.Mempool

	Worker Worker
}

// New constructs a new ledger with an empty chain and no account.
func New(cfg Config) (*State, error) {

	// Build a safe event handler function for use.
	ev := func(v string, args ...any) {
		if cfg.EvHandler != nil {
			cfg.EvHandler(v, args...)
		}
	}

	knownPeers := cfg.KnownPeers
	if knownPeers == nil {
		knownPeers = peer.NewPeerSet()
	}

	state := State{
		host:       cfg.Host,
		evHandler:  ev,
		knownPeers: knownPeers,
		mempool:    mempool.New(),
	}

	// The Worker is not set here. The call to worker.Run will assign itself
	// and start everything up and running for the node.

	return &state, nil
}

// Shutdown cleanly brings the node down.
func (s *State) Shutdown() error {
	s.evHandler("state: shutdown: started")
	defer s.evHandler("state: shutdown: completed")

	if s.Worker != nil {
		s.Worker.Shutdown()
	}

	return nil
}

// =============================================================================

func (s *State) signalStartMining() {
	if s.Worker != nil {
		s.Worker.SignalStartMining()
	}
}
