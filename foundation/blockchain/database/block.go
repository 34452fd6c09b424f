package database

import (
	"errors"
	"time"
)

// ErrChainChanged is returned when a mined block can't be committed because
// the latest block changed while the proof was being searched for.
var ErrChainChanged = errors.New("chain changed during mining")

// =============================================================================

// Block represents a group of transactions sealed by a proof of work and
// linked to the block before it.
type Block struct {
	Index        uint64 `json:"index"`        // Position in the chain starting at 1.
	Timestamp    int64  `json:"timestamp"`    // Unix time in milliseconds when the block was committed.
	Transactions []Tx   `json:"transactions"` // Pending transactions drained into this block.
	Proof        uint64 `json:"proof"`        // Value found by the proof of work search.
	PreviousHash string `json:"previousHash"` // Hash of the previous block, the genesis block uses a sentinel.
}

// newBlock constructs a block stamped with the current time. A nil set of
// transactions is replaced with an empty set so the block encodes the same
// way everywhere.
func newBlock(index uint64, trans []Tx, proof uint64, previousHash string) Block {
	if trans == nil {
		trans = []Tx{}
	}

	return Block{
		Index:        index,
		Timestamp:    time.Now().UnixMilli(),
		Transactions: trans,
		Proof:        proof,
		PreviousHash: previousHash,
	}
}

// Hash returns the canonical hash for the block.
func (b Block) Hash() string {
	return Hash(b)
}

// Same reports whether the two blocks carry the same contents.
func (b Block) Same(other Block) bool {
	return b.Index == other.Index && b.Hash() == other.Hash()
}
