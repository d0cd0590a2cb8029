package worker

import (
	"context"
	"errors"

	"github.com/ardanlabs/ledger/foundation/blockchain/database"
)

// peerOperations reconciles the chain with the known peers on a timer and
// whenever a reconciliation is signaled.
func (w *Worker) peerOperations() {
	w.evHandler("worker: peerOperations: G started")
	defer w.evHandler("worker: peerOperations: G completed")

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	go func() {
		<-w.shut
		cancel()
	}()

	// Update this node before waiting on the timer.
	w.runReconcileOperation(ctx)

	for {
		select {
		case <-w.ticker.C:
			if !w.isShutdown() {
				w.runReconcileOperation(ctx)
			}
		case <-w.reconcile:
			if !w.isShutdown() {
				w.runReconcileOperation(ctx)
			}
		case <-w.shut:
			w.evHandler("worker: peerOperations: received shut signal")
			return
		}
	}
}

// runReconcileOperation adopts the longest valid chain held by the peers.
func (w *Worker) runReconcileOperation(ctx context.Context) {
	if w.fetcher == nil {
		return
	}

	w.evHandler("worker: runReconcileOperation: started")
	defer w.evHandler("worker: runReconcileOperation: completed")

	replaced, err := w.state.Reconcile(ctx, w.fetcher)
	if err != nil {
		switch {
		case errors.Is(err, database.ErrPeerFetchFailure):
			w.evHandler("worker: runReconcileOperation: WARNING: %s", err)
		default:
			w.evHandler("worker: runReconcileOperation: ERROR: %s", err)
			return
		}
	}

	if replaced {
		w.evHandler("worker: runReconcileOperation: chain replaced: len[%d]", w.state.ChainLength())
	}
}
