package state

import "github.com/ardanlabs/powchain/foundation/blockchain/database"

// SubmitTransaction adds the transaction to the pending pool and returns the
// index of the block it will be mined into.
func (s *State) SubmitTransaction(tx database.Tx) uint64 {
	return s.db.NewTransaction(tx)
}
