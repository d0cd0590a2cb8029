package state

import (
	"github.com/ardanlabs/ledger/foundation/blockchain/database"
	"github.com/ardanlabs/ledger/foundation/blockchain/peer"
	"github.com/ardanlabs/ledger/foundation/blockchain/utxo"
)

// RetrieveHost returns a copy of host information.
func (s *State) RetrieveHost() string {
	return s.host
}

// ListBlocks returns a copy of the blocks in chain order.
func (s *State) ListBlocks() []database.Block {
	s.mu.RLock()
	defer s.mu.RUnlock()

	return s.chain.Blocks()
}

// ChainLength returns the number of blocks in the chain.
func (s *State) ChainLength() int {
	s.mu.RLock()
	defer s.mu.RUnlock()

	return s.chain.Len()
}

// LatestBlock returns a copy of the current latest block. The second value
// is false while the chain is empty.
func (s *State) LatestBlock() (database.Block, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	return s.chain.Latest()
}

// Balance computes the balance of the address from a snapshot of the chain
// taken at call time.
func (s *State) Balance(address string) (uint64, error) {
	addr, err := database.ToAddress(address)
	if err != nil {
		return 0, err
	}

	return utxo.Balance(s.ListBlocks(), addr)
}

// RetrieveMempool returns a copy of the mempool in submission order.
func (s *State) RetrieveMempool() []database.Transaction {
	return s.mempool.Copy()
}

// RetrieveKnownPeers retrieves a copy of the known peer list.
func (s *State) RetrieveKnownPeers() []peer.Peer {
	return s.knownPeers.Copy(s.host)
}

// KnownPeers returns the set of known peers.
func (s *State) KnownPeers() *peer.PeerSet {
	return s.knownPeers
}

// AddKnownPeer adds a peer to the set of known peers. It reports false when
// the peer is this node or already known.
func (s *State) AddKnownPeer(pr peer.Peer) bool {
	if pr.Match(s.host) {
		return false
	}

	if !s.knownPeers.Add(pr) {
		return false
	}

	s.evHandler("state: AddKnownPeer: peer[%s]", pr)

	if s.Worker != nil {
		s.Worker.SignalReconcile()
	}

	return true
}

// Status returns the information peers need about this node.
func (s *State) Status() peer.PeerStatus {
	s.mu.RLock()
	latest, _ := s.chain.Latest()
	length := s.chain.Len()
	s.mu.RUnlock()

	return peer.PeerStatus{
		LatestBlockID: latest.BlockID,
		ChainLength:   length,
		KnownPeers:    s.RetrieveKnownPeers(),
	}
}

// MempoolLength returns the current length of the mempool.
func (s *State) MempoolLength() int {
	return s.mempool.Count()
}
