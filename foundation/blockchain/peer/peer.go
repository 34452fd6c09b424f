// Package peer maintains the set of known peer nodes.
package peer

import (
	"errors"
	"fmt"
	"net"
	"net/url"
	"sort"
	"strings"
	"sync"

	"github.com/ardanlabs/powchain/foundation/blockchain/database"
)

// ErrInvalidAddress is returned when an address doesn't carry a host.
var ErrInvalidAddress = errors.New("address has no host")

// Peer represents information about a Node in the network.
type Peer struct {
	Host string
}

// New contructs a new info value.
func New(host string) Peer {
	return Peer{
		Host: host,
	}
}

// ParseHost extracts the network location from the address. The scheme,
// path and query are ignored, a default port for the scheme is dropped and
// the host name is lowercased.
func ParseHost(address string) (string, error) {
	u, err := url.Parse(address)
	if err != nil {
		return "", fmt.Errorf("parsing address %q: %w", address, err)
	}

	if u.Host == "" {
		return "", fmt.Errorf("parsing address %q: %w", address, ErrInvalidAddress)
	}

	host := strings.ToLower(u.Host)
	switch port := u.Port(); {
	case u.Scheme == "http" && port == "80", u.Scheme == "https" && port == "443":
		host = strings.ToLower(u.Hostname())
		if ip := net.ParseIP(host); ip != nil && ip.To4() == nil {
			host = "[" + host + "]"
		}
	}

	return host, nil
}

// =============================================================================

// ChainStatus represents the chain a node reports to its peers.
type ChainStatus struct {
	Chain  []database.Block `json:"chain"`
	Length int              `json:"length"`
}

// =============================================================================

// PeerSet represents the data representation to maintain a set of known peers.
type PeerSet struct {
	mu  sync.RWMutex
	set map[Peer]struct{}
}

// NewPeerSet constructs a new info set to manage node peer information.
func NewPeerSet() *PeerSet {
	return &PeerSet{
		set: make(map[Peer]struct{}),
	}
}

// Register parses the address and adds the host to the set. It reports
// whether the host was new.
func (ps *PeerSet) Register(address string) (bool, error) {
	host, err := ParseHost(address)
	if err != nil {
		return false, err
	}

	return ps.Add(New(host)), nil
}

// Add adds a new node to the set.
func (ps *PeerSet) Add(peer Peer) bool {
	ps.mu.Lock()
	defer ps.mu.Unlock()

	_, exists := ps.set[peer]
	if !exists {
		ps.set[peer] = struct{}{}
		return true
	}

	return false
}

// Len returns the number of known peers.
func (ps *PeerSet) Len() int {
	ps.mu.RLock()
	defer ps.mu.RUnlock()

	return len(ps.set)
}

// Copy returns a list of the known peers sorted by host.
func (ps *PeerSet) Copy() []Peer {
	ps.mu.RLock()
	defer ps.mu.RUnlock()

	peers := make([]Peer, 0, len(ps.set))
	for peer := range ps.set {
		peers = append(peers, peer)
	}

	sort.Slice(peers, func(i, j int) bool {
		return peers[i].Host < peers[j].Host
	})

	return peers
}

// Hosts returns the hosts of the known peers sorted.
func (ps *PeerSet) Hosts() []string {
	peers := ps.Copy()

	hosts := make([]string, len(peers))
	for i, peer := range peers {
		hosts[i] = peer.Host
	}

	return hosts
}
