package worker

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/ardanlabs/ledger/foundation/blockchain/database"
)

// maxEvents is the number of mining events buffered for a slow reader.
const maxEvents = 100

// StartMining starts the mining loop which keeps committing the mempool into
// new blocks, polling the mempool at the specified interval while it is
// empty. The returned channel reports progress and is closed after the
// terminal stopped event.
func (w *Worker) StartMining(pollInterval time.Duration) (<-chan Event, error) {
	if pollInterval <= 0 {
		return nil, fmt.Errorf("poll interval %v: %w", pollInterval, database.ErrInvalidInput)
	}

	if w.state.ChainLength() == 0 {
		return nil, database.ErrEmptyChain
	}

	w.mu.Lock()
	defer w.mu.Unlock()

	if w.isShutdown() {
		return nil, errors.New("worker is shut down")
	}

	if err := w.machine.Event(context.Background(), eventStart); err != nil {
		return nil, fmt.Errorf("mining is %s: %w", w.machine.Current(), database.ErrAlreadyMining)
	}

	ctx, cancel := context.WithCancel(context.Background())
	events := make(chan Event, maxEvents)
	done := make(chan struct{})

	w.cancel = cancel
	w.miningDone = done

	// Drain a stale wake up signal.
	select {
	case <-w.startMining:
	default:
	}

	w.wg.Add(1)
	go func() {
		defer w.wg.Done()
		w.miningOperations(ctx, pollInterval, events, done)
	}()

	w.evHandler("worker: StartMining: MINING: started: poll[%v]", pollInterval)

	return events, nil
}

// StopMining signals the mining loop to stop and waits for it to report it
// has stopped. It does nothing when no mining operation is running.
func (w *Worker) StopMining() {
	w.mu.Lock()

	switch State(w.machine.Current()) {
	case StateIdle:
		w.mu.Unlock()
		return

	case StateRunning:
		if err := w.machine.Event(context.Background(), eventStop); err != nil {
			w.evHandler("worker: StopMining: ERROR: %s", err)
		}
		w.cancel()
	}

	done := w.miningDone
	w.mu.Unlock()

	w.evHandler("worker: StopMining: MINING: waiting for the loop to stop")
	<-done
}

// State reports the mining state.
func (w *Worker) State() State {
	w.mu.Lock()
	defer w.mu.Unlock()

	return State(w.machine.Current())
}

// =============================================================================

// miningOperations runs the mining loop until it is cancelled or the worker
// is shut down.
func (w *Worker) miningOperations(ctx context.Context, pollInterval time.Duration, events chan Event, done chan struct{}) {
	w.evHandler("worker: miningOperations: G started")
	defer w.evHandler("worker: miningOperations: G completed")

	emit := func(kind Kind, block database.Block, format string, args ...any) {
		e := Event{
			Kind:    kind,
			Message: fmt.Sprintf(format, args...),
			BlockID: block.BlockID,
			Txs:     len(block.Transactions),
			Time:    time.Now().UTC(),
		}
		w.evHandler("viewer: mining: %s: %s", e.Kind, e.Message)
		send(events, e)
	}

	defer func() {
		emit(KindStopped, database.Block{}, "mining stopped")
		close(events)

		w.mu.Lock()
		if err := w.machine.Event(context.Background(), eventFinish); err != nil {
			w.evHandler("worker: miningOperations: ERROR: %s", err)
		}
		w.cancel = nil
		w.mu.Unlock()

		close(done)
	}()

	for {
		select {
		case <-ctx.Done():
			return
		case <-w.shut:
			w.evHandler("worker: miningOperations: received shut signal")
			return
		default:
		}

		length := w.state.MempoolLength()
		if length == 0 {
			emit(KindWaiting, database.Block{}, "no transactions in mempool, waiting %v", pollInterval)
			if !w.wait(ctx, pollInterval) {
				return
			}
			continue
		}

		emit(KindMining, database.Block{}, "mining block with %d pending transactions", length)

		t := time.Now()
		block, err := w.state.MineNextBlock(ctx)
		duration := time.Since(t)

		w.evHandler("worker: miningOperations: MINING: mining duration[%v]", duration)

		if err != nil {
			switch {
			case errors.Is(err, database.ErrNoTransactions):
				continue
			case ctx.Err() != nil:
				return
			}

			emit(KindError, database.Block{}, "%s", err)
			if !w.wait(ctx, pollInterval) {
				return
			}
			continue
		}

		emit(KindMined, block, "block %s mined with %d transactions", block.BlockID, len(block.Transactions))
	}
}

// wait suspends the mining loop for the poll interval. A new transaction
// ends the wait early. It returns false when the loop must stop.
func (w *Worker) wait(ctx context.Context, pollInterval time.Duration) bool {
	timer := time.NewTimer(pollInterval)
	defer timer.Stop()

	select {
	case <-timer.C:
		return true
	case <-w.startMining:
		return true
	case <-ctx.Done():
		return false
	case <-w.shut:
		return false
	}
}
