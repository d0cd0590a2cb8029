package mempool_test

import (
	"errors"
	"sync"
	"testing"

	"github.com/ardanlabs/ledger/foundation/blockchain/database"
	"github.com/ardanlabs/ledger/foundation/blockchain/mempool"
)

// Success and failure markers.
const (
	success = "\u2713"
	failed  = "\u2717"
)

func newTx(amount uint64) database.Transaction {
	return database.NewTransaction(nil, database.Output{Receiver: "0xF01813E4B85e178A83e29B8E7bF26BD830a25f32", Amount: amount})
}

func Test_CRUD(t *testing.T) {
	t.Log("Given the need to validate mempool api.")
	{
		mp := mempool.New()

		txs := []database.Transaction{newTx(10), newTx(50), newTx(100), newTx(1)}
		for i, tx := range txs {
			n, err := mp.Submit(tx)
			if err != nil {
				t.Fatalf("\t%s\tShould be able to add new transaction: %v", failed, err)
			}
			if n != i+1 {
				t.Fatalf("\t%s\tShould get back the pool size: got %d, exp %d", failed, n, i+1)
			}
		}
		t.Logf("\t%s\tShould be able to add new transactions.", success)

		if _, err := mp.Submit(txs[1]); !errors.Is(err, database.ErrDuplicate) {
			t.Fatalf("\t%s\tShould reject a duplicate transaction: %v", failed, err)
		}
		t.Logf("\t%s\tShould reject a duplicate transaction.", success)

		for i, tx := range mp.Copy() {
			if tx.ID != txs[i].ID {
				t.Logf("\t%s\tgot: %s", failed, tx.ID)
				t.Logf("\t%s\texp: %s", failed, txs[i].ID)
				t.Fatalf("\t%s\tShould keep submission order.", failed)
			}
		}
		t.Logf("\t%s\tShould keep submission order.", success)

		drained := mp.DrainAll()
		if len(drained) != len(txs) || mp.Count() != 0 || mp.Contains(txs[0].ID) {
			t.Fatalf("\t%s\tShould drain every transaction: drained[%d] left[%d]", failed, len(drained), mp.Count())
		}
		t.Logf("\t%s\tShould drain every transaction.", success)

		late := newTx(7)
		mp.Submit(late)
		mp.Requeue(drained)

		got := mp.Copy()
		if len(got) != len(txs)+1 || got[0].ID != txs[0].ID || got[len(got)-1].ID != late.ID {
			t.Fatalf("\t%s\tShould requeue the batch ahead of later submissions.", failed)
		}
		t.Logf("\t%s\tShould requeue the batch ahead of later submissions.", success)

		mp.Requeue(drained)
		if mp.Count() != len(txs)+1 {
			t.Fatalf("\t%s\tShould not requeue pending transactions twice: %d", failed, mp.Count())
		}
		t.Logf("\t%s\tShould not requeue pending transactions twice.", success)

		removed := mp.Prune(func(tx database.Transaction) bool { return tx.Output.Amount >= 10 })
		if removed != 2 || mp.Count() != 3 || mp.Contains(late.ID) {
			t.Fatalf("\t%s\tShould prune the rejected transactions: removed[%d] count[%d]", failed, removed, mp.Count())
		}
		t.Logf("\t%s\tShould prune the rejected transactions.", success)

		mp.Truncate()
		if mp.Count() != 0 {
			t.Fatalf("\t%s\tShould be able to truncate the pool.", failed)
		}
		t.Logf("\t%s\tShould be able to truncate the pool.", success)
	}
}

func Test_SpentIDs(t *testing.T) {
	a := newTx(10)
	b := newTx(20)
	spendA := database.NewTransaction([]database.Input{{TxID: a.ID}}, database.Output{Receiver: "0xdd6B972ffcc631a62CAE1BB9d80b7ff429c8ebA4", Amount: 10})
	spendAB := database.NewTransaction([]database.Input{{TxID: a.ID}, {TxID: b.ID}}, database.Output{Receiver: "0xdd6B972ffcc631a62CAE1BB9d80b7ff429c8ebA4", Amount: 30})

	mp := mempool.New()
	mp.Submit(spendA)
	mp.Submit(spendAB)

	spent := mp.SpentIDs()
	if len(spent) != 2 {
		t.Fatalf("Should report each referenced id once: %v", spent)
	}

	for _, id := range spent {
		if id != a.ID && id != b.ID {
			t.Fatalf("Should only report referenced ids: %s", id)
		}
	}
}

func Test_ConcurrentDrain(t *testing.T) {
	t.Log("Given the need to never lose or duplicate a transaction under load.")
	{
		const submitters = 8
		const perSubmitter = 200

		mp := mempool.New()

		var wg sync.WaitGroup
		wg.Add(submitters)
		for g := range submitters {
			go func() {
				defer wg.Done()
				for i := range perSubmitter {
					if _, err := mp.Submit(newTx(uint64(g*perSubmitter + i + 1))); err != nil {
						t.Errorf("\t%s\tShould be able to submit: %v", failed, err)
						return
					}
				}
			}()
		}

		done := make(chan struct{})
		seen := make(map[string]int)
		var mu sync.Mutex

		go func() {
			defer close(done)
			for {
				batch := mp.DrainAll()
				mu.Lock()
				for _, tx := range batch {
					seen[tx.ID]++
				}
				n := len(seen)
				mu.Unlock()

				if n == submitters*perSubmitter {
					return
				}
			}
		}()

		wg.Wait()
		<-done

		if len(seen) != submitters*perSubmitter {
			t.Fatalf("\t%s\tShould drain every submitted transaction: got %d", failed, len(seen))
		}

		for id, n := range seen {
			if n != 1 {
				t.Fatalf("\t%s\tShould drain %s exactly once: got %d", failed, id, n)
			}
		}
		t.Logf("\t%s\tShould drain every transaction exactly once.", success)

		if mp.Count() != 0 {
			t.Fatalf("\t%s\tShould leave nothing behind: %d", failed, mp.Count())
		}
		t.Logf("\t%s\tShould leave nothing behind.", success)
	}
}
