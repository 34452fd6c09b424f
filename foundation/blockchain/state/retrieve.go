package state

import (
	"github.com/ardanlabs/powchain/foundation/blockchain/database"
	"github.com/ardanlabs/powchain/foundation/blockchain/genesis"
	"github.com/ardanlabs/powchain/foundation/blockchain/peer"
)

// RetrieveHost returns a copy of host information.
func (s *State) RetrieveHost() string {
	return s.host
}

// RetrieveNodeID returns the identity credited with mining rewards.
func (s *State) RetrieveNodeID() database.NodeID {
	return s.nodeID
}

// RetrieveRules returns the rule set used to mine and validate.
func (s *State) RetrieveRules() database.Rules {
	return s.rules
}

// RetrieveGenesis returns a copy of the genesis information.
func (s *State) RetrieveGenesis() genesis.Genesis {
	return s.db.Genesis()
}

// RetrieveLatestBlock returns a copy the current latest block.
func (s *State) RetrieveLatestBlock() database.Block {
	return s.db.LatestBlock()
}

// RetrieveChain returns a copy of the chain.
func (s *State) RetrieveChain() []database.Block {
	return s.db.Copy()
}

// RetrievePending returns a copy of the transactions waiting to be mined.
func (s *State) RetrievePending() []database.Tx {
	return s.db.Pending()
}

// RetrieveKnownPeers retrieves a copy of the known peer list.
func (s *State) RetrieveKnownPeers() []peer.Peer {
	return s.knownPeers.Copy()
}

// QueryChainLength returns the number of blocks in the chain.
func (s *State) QueryChainLength() int {
	return s.db.Length()
}

// QueryPendingLength returns the number of transactions waiting to be mined.
func (s *State) QueryPendingLength() int {
	return len(s.db.Pending())
}

// QueryPeerCount returns the number of known peers.
func (s *State) QueryPeerCount() int {
	return s.knownPeers.Len()
}
