// Package peer maintains the peer related information such as the set
// of know peers and their status.
package peer

import (
	"slices"
	"sync"
)

// Peer represents information about a Node in the network.
type Peer struct {
	Host string `json:"host"`
}

// New contructs a new info value.
func New(host string) Peer {
	return Peer{
		Host: host,
	}
}

// Match validates if the specified host matches this node.
func (p Peer) Match(host string) bool {
	return p.Host == host
}

// String implements the Stringer interface.
func (p Peer) String() string {
	return p.Host
}

// =============================================================================

// PeerStatus represents information about the status
// of any given peer.
type PeerStatus struct {
	LatestBlockID string `json:"latest_block_id"`
	ChainLength   int    `json:"chain_length"`
	KnownPeers    []Peer `json:"known_peers"`
}

// =============================================================================

// PeerSet represents the data representation to maintain a set of known peers.
// Peers are handed out in the order they were added.
type PeerSet struct {
	mu    sync.RWMutex
	peers []Peer
}

// NewPeerSet constructs a new info set to manage node peer information.
func NewPeerSet(peers ...Peer) *PeerSet {
	var ps PeerSet
	for _, peer := range peers {
		ps.Add(peer)
	}

	return &ps
}

// Add adds a new node to the set.
func (ps *PeerSet) Add(peer Peer) bool {
	ps.mu.Lock()
	defer ps.mu.Unlock()

	if peer.Host == "" || slices.Contains(ps.peers, peer) {
		return false
	}

	ps.peers = append(ps.peers, peer)
	return true
}

// Remove removes a node from the set.
func (ps *PeerSet) Remove(peer Peer) {
	ps.mu.Lock()
	defer ps.mu.Unlock()

	ps.peers = slices.DeleteFunc(ps.peers, func(p Peer) bool {
		return p == peer
	})
}

// Copy returns a list of the known peers, leaving out the specified host.
func (ps *PeerSet) Copy(host string) []Peer {
	ps.mu.RLock()
	defer ps.mu.RUnlock()

	var peers []Peer
	for _, peer := range ps.peers {
		if !peer.Match(host) {
			peers = append(peers, peer)
		}
	}

	return peers
}
