// Package database maintains the in memory ledger: the chain of blocks and
// the pool of transactions waiting to be included in the next block.
package database

import (
	"sync"

	"github.com/ardanlabs/powchain/foundation/blockchain/genesis"
)

// Database manages the chain and the pending transactions. All access is
// serialized so a reader never observes a chain in the middle of a commit
// or a replacement.
type Database struct {
	mu sync.RWMutex

	genesis   genesis.Genesis
	chain     []Block
	pending   []Tx
	evHandler func(v string, args ...any)
}

// New constructs a new database and commits the genesis block.
func New(genesis genesis.Genesis, evHandler func(v string, args ...any)) *Database {
	ev := func(v string, args ...any) {
		if evHandler != nil {
			evHandler(v, args...)
		}
	}

	db := Database{
		genesis:   genesis,
		evHandler: ev,
	}

	db.NewBlock(genesis.Proof, genesis.PreviousHash)

	return &db
}

// Genesis returns the genesis values the database was constructed with.
func (db *Database) Genesis() genesis.Genesis {
	return db.genesis
}

// NewTransaction adds the transaction to the pending pool and returns the
// index of the block that will hold it once mined.
func (db *Database) NewTransaction(tx Tx) uint64 {
	db.mu.Lock()
	defer db.mu.Unlock()

	db.pending = append(db.pending, tx)
	db.evHandler("database: NewTransaction: tx[%s]: pending[%d]", tx, len(db.pending))

	return db.chain[len(db.chain)-1].Index + 1
}

// NewBlock commits a new block holding every pending transaction and clears
// the pool. An empty previousHash links the block to the latest block.
func (db *Database) NewBlock(proof uint64, previousHash string) Block {
	db.mu.Lock()
	defer db.mu.Unlock()

	return db.commit(proof, previousHash)
}

// CommitIfLatest commits a block for a proof that was searched for against
// the expected block. The reward transaction is added to the pool and the
// pool drained into the block under the same lock. If the latest block is no
// longer the expected block, nothing changes and ErrChainChanged is returned.
func (db *Database) CommitIfLatest(expected Block, proof uint64, reward Tx) (Block, error) {
	db.mu.Lock()
	defer db.mu.Unlock()

	latest := db.chain[len(db.chain)-1]
	if !latest.Same(expected) {
		db.evHandler("database: CommitIfLatest: latest blk[%d] no longer blk[%d]", latest.Index, expected.Index)
		return Block{}, ErrChainChanged
	}

	db.pending = append(db.pending, reward)

	return db.commit(proof, latest.Hash()), nil
}

// LatestBlock returns the last block committed to the chain.
func (db *Database) LatestBlock() Block {
	db.mu.RLock()
	defer db.mu.RUnlock()

	return db.chain[len(db.chain)-1]
}

// Length returns the number of blocks in the chain.
func (db *Database) Length() int {
	db.mu.RLock()
	defer db.mu.RUnlock()

	return len(db.chain)
}

// Copy returns a copy of the chain.
func (db *Database) Copy() []Block {
	db.mu.RLock()
	defer db.mu.RUnlock()

	chain := make([]Block, len(db.chain))
	copy(chain, db.chain)

	return chain
}

// Pending returns a copy of the transactions waiting to be mined.
func (db *Database) Pending() []Tx {
	db.mu.RLock()
	defer db.mu.RUnlock()

	pending := make([]Tx, len(db.pending))
	copy(pending, db.pending)

	return pending
}

// Replace swaps the chain for the specified chain if it is longer than the
// current chain. The length is checked again here since blocks may have
// been committed after the candidate was picked. Pending transactions are
// kept.
func (db *Database) Replace(chain []Block) bool {
	db.mu.Lock()
	defer db.mu.Unlock()

	if len(chain) <= len(db.chain) {
		db.evHandler("database: Replace: candidate len[%d] not longer than chain len[%d]", len(chain), len(db.chain))
		return false
	}

	db.chain = make([]Block, len(chain))
	copy(db.chain, chain)

	db.evHandler("database: Replace: chain replaced: len[%d]", len(db.chain))

	return true
}

// =============================================================================

// commit appends the new block to the chain. It must be called with the
// write lock held.
func (db *Database) commit(proof uint64, previousHash string) Block {
	if previousHash == "" {
		previousHash = db.chain[len(db.chain)-1].Hash()
	}

	block := newBlock(uint64(len(db.chain)+1), db.pending, proof, previousHash)

	db.chain = append(db.chain, block)
	db.pending = nil

	db.evHandler("database: commit: blk[%d]: hash[%s]: trans[%d]", block.Index, block.Hash(), len(block.Transactions))

	return block
}
