package worker_test

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/ardanlabs/ledger/foundation/blockchain/database"
	"github.com/ardanlabs/ledger/foundation/blockchain/peer"
	"github.com/ardanlabs/ledger/foundation/blockchain/state"
	"github.com/ardanlabs/ledger/foundation/blockchain/worker"
)

// Success and failure markers.
const (
	success = "\u2713"
	failed  = "\u2717"
)

const bob = "0xF01813E4B85e178A83e29B8E7bF26BD830a25f32"

func newWorker(t *testing.T, fetcher peer.Fetcher) (*state.State, *worker.Worker) {
	ev := func(v string, args ...any) { t.Logf(v, args...) }

	st, err := state.New(state.Config{Host: "localhost:9080", EvHandler: ev})
	if err != nil {
		t.Fatalf("Should be able to construct the state: %v", err)
	}

	w := worker.Run(st, worker.Config{Fetcher: fetcher, EvHandler: ev})
	t.Cleanup(w.Shutdown)

	return st, w
}

// next returns the next event with the specified kind, failing the test if
// it doesn't show up in time.
func next(t *testing.T, events <-chan worker.Event, kind worker.Kind) worker.Event {
	t.Helper()

	timeout := time.After(5 * time.Second)
	for {
		select {
		case e, ok := <-events:
			if !ok {
				t.Fatalf("\t%s\tShould get a %s event before the channel closes.", failed, kind)
			}
			if e.Kind == kind {
				return e
			}
		case <-timeout:
			t.Fatalf("\t%s\tShould get a %s event in time.", failed, kind)
		}
	}
}

// =============================================================================

func Test_StartMiningErrors(t *testing.T) {
	t.Log("Given the need to only mine on top of a genesis block.")
	{
		_, w := newWorker(t, nil)

		if _, err := w.StartMining(10 * time.Millisecond); !errors.Is(err, database.ErrEmptyChain) {
			t.Fatalf("\t%s\tShould not start mining on an empty chain: %v", failed, err)
		}
		t.Logf("\t%s\tShould not start mining on an empty chain.", success)

		if _, err := w.StartMining(0); !errors.Is(err, database.ErrInvalidInput) {
			t.Fatalf("\t%s\tShould reject a zero poll interval: %v", failed, err)
		}
		t.Logf("\t%s\tShould reject a zero poll interval.", success)

		if w.State() != worker.StateIdle {
			t.Fatalf("\t%s\tShould stay idle: %s", failed, w.State())
		}
		t.Logf("\t%s\tShould stay idle.", success)
	}
}

func Test_Mining(t *testing.T) {
	t.Log("Given the need to mine pending transactions into blocks.")
	{
		st, w := newWorker(t, nil)

		st.CreateAccount("secret")
		if _, err := st.Emit("secret", 100); err != nil {
			t.Fatalf("\t%s\tShould be able to emit: %v", failed, err)
		}

		events, err := w.StartMining(10 * time.Millisecond)
		if err != nil {
			t.Fatalf("\t%s\tShould be able to start mining: %v", failed, err)
		}
		t.Logf("\t%s\tShould be able to start mining.", success)

		next(t, events, worker.KindWaiting)
		if st.ChainLength() != 1 {
			t.Fatalf("\t%s\tShould not mine an empty mempool: len[%d]", failed, st.ChainLength())
		}
		t.Logf("\t%s\tShould wait while the mempool is empty.", success)

		if _, err := w.StartMining(10 * time.Millisecond); !errors.Is(err, database.ErrAlreadyMining) {
			t.Fatalf("\t%s\tShould reject a second mining operation: %v", failed, err)
		}
		t.Logf("\t%s\tShould reject a second mining operation.", success)

		if w.State() != worker.StateRunning {
			t.Fatalf("\t%s\tShould be running: %s", failed, w.State())
		}
		t.Logf("\t%s\tShould be running.", success)

		tx, err := st.Transfer("secret", bob, 60)
		if err != nil {
			t.Fatalf("\t%s\tShould be able to transfer: %v", failed, err)
		}

		mined := next(t, events, worker.KindMined)
		if mined.Txs != 1 || st.ChainLength() != 2 || st.MempoolLength() != 0 {
			t.Fatalf("\t%s\tShould mine the pending transfer: txs[%d] len[%d]", failed, mined.Txs, st.ChainLength())
		}
		t.Logf("\t%s\tShould mine the pending transfer.", success)

		latest, _ := st.LatestBlock()
		if latest.BlockID != mined.BlockID || latest.Transactions[0].ID != tx.ID {
			t.Fatalf("\t%s\tShould report the mined block.", failed)
		}
		t.Logf("\t%s\tShould report the mined block.", success)

		w.StopMining()

		var last worker.Event
		for e := range events {
			last = e
		}

		if last.Kind != worker.KindStopped {
			t.Fatalf("\t%s\tShould end with a stopped event: %s", failed, last.Kind)
		}
		t.Logf("\t%s\tShould end with a stopped event.", success)

		if w.State() != worker.StateIdle {
			t.Fatalf("\t%s\tShould be idle after stopping: %s", failed, w.State())
		}
		t.Logf("\t%s\tShould be idle after stopping.", success)

		w.StopMining()
		t.Logf("\t%s\tShould ignore a stop while idle.", success)

		events, err = w.StartMining(10 * time.Millisecond)
		if err != nil {
			t.Fatalf("\t%s\tShould be able to mine again: %v", failed, err)
		}
		next(t, events, worker.KindWaiting)
		t.Logf("\t%s\tShould be able to mine again.", success)
	}
}

func Test_StopPromptly(t *testing.T) {
	t.Log("Given the need to cancel the wait for transactions promptly.")
	{
		st, w := newWorker(t, nil)
		st.CreateAccount("secret")
		st.Emit("secret", 100)

		events, err := w.StartMining(time.Hour)
		if err != nil {
			t.Fatalf("\t%s\tShould be able to start mining: %v", failed, err)
		}
		next(t, events, worker.KindWaiting)

		stopped := make(chan struct{})
		go func() {
			w.StopMining()
			close(stopped)
		}()

		select {
		case <-stopped:
		case <-time.After(5 * time.Second):
			t.Fatalf("\t%s\tShould stop without waiting out the poll interval.", failed)
		}
		t.Logf("\t%s\tShould stop without waiting out the poll interval.", success)

		next(t, events, worker.KindStopped)
		t.Logf("\t%s\tShould report the stop.", success)
	}
}

func Test_PeerReconcile(t *testing.T) {
	t.Log("Given the need to follow the longest chain of the peers.")
	{
		emit := database.NewTransaction(nil, database.Output{Receiver: bob, Amount: 10})
		genesis := database.NewBlock(database.Block{}, []database.Transaction{emit})
		spend := database.NewTransaction([]database.Input{{TxID: emit.ID}}, database.Output{Receiver: bob, Amount: 10})
		blocks := []database.Block{genesis, database.NewBlock(genesis, []database.Transaction{spend})}

		fetcher := peer.FetcherFunc(func(ctx context.Context) ([]peer.Candidate, error) {
			return []peer.Candidate{{Peer: peer.New("host1"), Blocks: blocks}}, nil
		})

		st, w := newWorker(t, fetcher)
		w.SignalReconcile()

		deadline := time.Now().Add(5 * time.Second)
		for st.ChainLength() != len(blocks) {
			if time.Now().After(deadline) {
				t.Fatalf("\t%s\tShould adopt the peer chain in time.", failed)
			}
			time.Sleep(10 * time.Millisecond)
		}
		t.Logf("\t%s\tShould adopt the peer chain.", success)
	}
}
