package database

import (
	"crypto/ecdsa"

	"github.com/ethereum/go-ethereum/crypto"
	"github.com/google/uuid"
)

// NodeID represents the identity a node uses as the recipient of the
// mining reward transaction.
type NodeID string

// NewNodeID constructs a random node identity for nodes that are not
// configured with a miner key.
func NewNodeID() NodeID {
	return NodeID(uuid.NewString())
}

// PublicKeyToNodeID converts the public key to a node identity using the
// account address derived from the key.
func PublicKeyToNodeID(pk ecdsa.PublicKey) NodeID {
	return NodeID(crypto.PubkeyToAddress(pk).String())
}

// String implements the fmt.Stringer interface.
func (id NodeID) String() string {
	return string(id)
}
