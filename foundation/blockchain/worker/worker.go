// Package worker implements mining and peer reconciliation for the ledger.
package worker

import (
	"context"
	"sync"
	"time"

	"github.com/ardanlabs/ledger/foundation/blockchain/peer"
	"github.com/ardanlabs/ledger/foundation/blockchain/state"
	"github.com/looplab/fsm"
)

// peerUpdateInterval represents the default interval for reconciling the
// chain with the known peers.
const peerUpdateInterval = time.Minute

// State represents the mining state of the worker.
type State string

// Set of mining states.
const (
	StateIdle     State = "idle"
	StateRunning  State = "running"
	StateStopping State = "stopping"
)

// Set of events moving the mining state machine.
const (
	eventStart  = "start"
	eventStop   = "stop"
	eventFinish = "finish"
)

// =============================================================================

// Config represents the configuration for the worker.
type Config struct {
	Fetcher            peer.Fetcher
	PeerUpdateInterval time.Duration
	EvHandler          state.EventHandler
}

// Worker manages the mining and peer workflows for the ledger.
type Worker struct {
	state       *state.State
	fetcher     peer.Fetcher
	wg          sync.WaitGroup
	ticker      *time.Ticker
	shut        chan struct{}
	startMining chan bool
	reconcile   chan bool
	evHandler   state.EventHandler

	mu         sync.Mutex
	machine    *fsm.FSM
	cancel     context.CancelFunc
	miningDone chan struct{}
}

// Run creates a worker, registers the worker with the state package, and
// starts up the peer reconciliation process. Mining is started on request.
func Run(st *state.State, cfg Config) *Worker {
	ev := func(v string, args ...any) {
		if cfg.EvHandler != nil {
			cfg.EvHandler(v, args...)
		}
	}

	interval := cfg.PeerUpdateInterval
	if interval <= 0 {
		interval = peerUpdateInterval
	}

	w := Worker{
		state:       st,
		fetcher:     cfg.Fetcher,
		ticker:      time.NewTicker(interval),
		shut:        make(chan struct{}),
		startMining: make(chan bool, 1),
		reconcile:   make(chan bool, 1),
		evHandler:   ev,
		machine:     newMachine(),
	}

	// Register this worker with the state package.
	st.Worker = &w

	w.wg.Add(1)
	hasStarted := make(chan bool)

	go func() {
		defer w.wg.Done()
		hasStarted <- true
		w.peerOperations()
	}()

	// We don't want to return until we know the G is up and running.
	<-hasStarted

	return &w
}

// newMachine constructs the mining state machine.
func newMachine() *fsm.FSM {
	return fsm.NewFSM(
		string(StateIdle),
		fsm.Events{
			{Name: eventStart, Src: []string{string(StateIdle)}, Dst: string(StateRunning)},
			{Name: eventStop, Src: []string{string(StateRunning)}, Dst: string(StateStopping)},
			{Name: eventFinish, Src: []string{string(StateRunning), string(StateStopping)}, Dst: string(StateIdle)},
		},
		fsm.Callbacks{},
	)
}

// =============================================================================
// These methods implement the state.Worker interface.

// Shutdown stops any mining operation and terminates the goroutines
// performing work.
func (w *Worker) Shutdown() {
	w.evHandler("worker: shutdown: started")
	defer w.evHandler("worker: shutdown: completed")

	w.evHandler("worker: shutdown: stop ticker")
	w.ticker.Stop()

	w.evHandler("worker: shutdown: stop mining")
	w.StopMining()

	w.evHandler("worker: shutdown: terminate goroutines")
	w.mu.Lock()
	if !w.isShutdown() {
		close(w.shut)
	}
	w.mu.Unlock()

	w.wg.Wait()
}

// SignalStartMining wakes up a mining operation waiting for transactions.
// If there is already a signal pending in the channel, just return since
// the mining operation will wake up.
func (w *Worker) SignalStartMining() {
	select {
	case w.startMining <- true:
		w.evHandler("worker: SignalStartMining: mining signaled")
	default:
	}
}

// SignalReconcile requests a reconciliation with the known peers.
func (w *Worker) SignalReconcile() {
	select {
	case w.reconcile <- true:
		w.evHandler("worker: SignalReconcile: reconcile signaled")
	default:
	}
}

// =============================================================================

// isShutdown is used to test if a shutdown has been signaled.
func (w *Worker) isShutdown() bool {
	select {
	case <-w.shut:
		return true
	default:
		return false
	}
}
