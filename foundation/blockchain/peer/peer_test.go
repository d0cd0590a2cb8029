package peer_test

import (
	"context"
	"errors"
	"net/http"
	"testing"

	"github.com/ardanlabs/ledger/foundation/blockchain/database"
	"github.com/ardanlabs/ledger/foundation/blockchain/peer"
	"github.com/jarcoal/httpmock"
)

// Success and failure markers.
const (
	success = "\u2713"
	failed  = "\u2717"
)

func Test_CRUD(t *testing.T) {
	type table struct {
		name  string
		peers []peer.Peer
	}

	tt := []table{
		{
			name:  "basic",
			peers: []peer.Peer{{Host: "host1"}, {Host: "host2"}, {Host: "host3"}},
		},
	}

	for _, tst := range tt {
		f := func(t *testing.T) {
			ps := peer.NewPeerSet()

			for _, peer := range tst.peers {
				if !ps.Add(peer) {
					t.Fatalf("Test %s:\tShould be able to add peer %s.", tst.name, peer)
				}
			}

			if ps.Add(tst.peers[0]) {
				t.Fatalf("Test %s:\tShould not add a known peer twice.", tst.name)
			}

			peers := ps.Copy("")
			if len(peers) != len(tst.peers) {
				t.Logf("Test %s:\tgot: %d", tst.name, len(peers))
				t.Logf("Test %s:\texp: %d", tst.name, len(tst.peers))
				t.Fatalf("Test %s:\tShould get back the right peers.", tst.name)
			}

			for i := range peers {
				if peers[i] != tst.peers[i] {
					t.Fatalf("Test %s:\tShould keep the insertion order: %v", tst.name, peers)
				}
			}

			peers = ps.Copy("host2")
			if len(peers) != len(tst.peers)-1 {
				t.Logf("Test %s:\tgot: %d", tst.name, len(peers))
				t.Logf("Test %s:\texp: %d", tst.name, len(tst.peers)-1)
				t.Fatalf("Test %s:\tShould get back the right peers.", tst.name)
			}

			ps.Remove(tst.peers[0])
			if peers := ps.Copy(""); len(peers) != len(tst.peers)-1 || peers[0] != tst.peers[1] {
				t.Fatalf("Test %s:\tShould be able to remove a peer: %v", tst.name, peers)
			}
		}

		t.Run(tst.name, f)
	}
}

func Test_FetchChains(t *testing.T) {
	emit := database.NewTransaction(nil, database.Output{Receiver: "0xdd6B972ffcc631a62CAE1BB9d80b7ff429c8ebA4", Amount: 100})
	genesis := database.NewBlock(database.Block{}, []database.Transaction{emit})

	t.Log("Given the need to collect the chains of the known peers.")
	{
		mt := httpmock.NewMockTransport()
		mt.RegisterResponder(http.MethodGet, "http://host1/v1/node/blocks", httpmock.NewJsonResponderOrPanic(http.StatusOK, []database.Block{genesis}))
		mt.RegisterResponder(http.MethodGet, "http://host2/v1/node/blocks", httpmock.NewStringResponder(http.StatusInternalServerError, "boom"))
		mt.RegisterResponder(http.MethodGet, "http://host3/v1/node/blocks", httpmock.NewJsonResponderOrPanic(http.StatusOK, []database.Block{}))

		fetcher := peer.HTTPFetcher{
			Peers:   peer.NewPeerSet(peer.New("host1"), peer.New("host2"), peer.New("host3"), peer.New("self")),
			Host:    "self",
			Client:  &http.Client{Transport: mt},
			Retries: 3,
		}

		candidates, err := fetcher.FetchChains(context.Background())
		if !errors.Is(err, database.ErrPeerFetchFailure) {
			t.Fatalf("\t%s\tShould report the failing peer: %v", failed, err)
		}
		t.Logf("\t%s\tShould report the failing peer.", success)

		var pe *database.PeerError
		if !errors.As(err, &pe) || pe.Host != "host2" {
			t.Fatalf("\t%s\tShould name the failing peer: %v", failed, err)
		}
		t.Logf("\t%s\tShould name the failing peer.", success)

		if len(candidates) != 2 || candidates[0].Peer.Host != "host1" || candidates[1].Peer.Host != "host3" {
			t.Fatalf("\t%s\tShould get the reachable peers in order: %v", failed, candidates)
		}
		t.Logf("\t%s\tShould get the reachable peers in order.", success)

		if len(candidates[0].Blocks) != 1 || candidates[0].Blocks[0].BlockID != genesis.BlockID {
			t.Fatalf("\t%s\tShould decode the peer's blocks.", failed)
		}
		t.Logf("\t%s\tShould decode the peer's blocks.", success)

		calls := mt.GetCallCountInfo()
		if n := calls["GET http://host2/v1/node/blocks"]; n != 3 {
			t.Fatalf("\t%s\tShould retry the failing peer: got %d calls", failed, n)
		}
		t.Logf("\t%s\tShould retry the failing peer.", success)

		if n := calls["GET http://self/v1/node/blocks"]; n != 0 {
			t.Fatalf("\t%s\tShould not ask this node for its own chain.", failed)
		}
		t.Logf("\t%s\tShould not ask this node for its own chain.", success)
	}
}

func Test_FetcherFunc(t *testing.T) {
	exp := []peer.Candidate{{Peer: peer.New("host1")}}

	var f peer.Fetcher = peer.FetcherFunc(func(ctx context.Context) ([]peer.Candidate, error) {
		return exp, nil
	})

	got, err := f.FetchChains(context.Background())
	if err != nil || len(got) != 1 || got[0].Peer != exp[0].Peer {
		t.Fatalf("Should adapt a function to a fetcher: %v %v", got, err)
	}
}
