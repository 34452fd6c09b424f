package state

import (
	"context"
	"errors"

	"github.com/ardanlabs/powchain/foundation/blockchain/database"
	"github.com/ardanlabs/powchain/foundation/blockchain/pow"
)

// ErrMiningCancelled is returned when a mining operation is stopped because
// the chain is being replaced or the node is shutting down.
var ErrMiningCancelled = errors.New("mining cancelled")

// =============================================================================

// Mine hands a mining request to the worker and waits for the new block.
// Without a registered worker the block is mined on the calling goroutine.
func (s *State) Mine(ctx context.Context) (database.Block, error) {
	if s.Worker == nil {
		return s.MineNewBlock(ctx)
	}

	return s.Worker.Mine(ctx)
}

// MineNewBlock searches for the proof that seals the next block, then
// commits the pending transactions along with the mining reward. The search
// runs without holding any lock so the chain can be read and new
// transactions submitted while it runs.
func (s *State) MineNewBlock(ctx context.Context) (database.Block, error) {
	s.evHandler("state: MineNewBlock: MINING: started")
	defer s.evHandler("state: MineNewBlock: MINING: completed")

	latest := s.db.LatestBlock()

	s.evHandler("state: MineNewBlock: MINING: perform POW: blk[%d]: rules[%s]", latest.Index, s.rules)

	proof, err := pow.Mine(ctx, s.rules.MiningHash(latest), latest.Proof, s.evHandler)
	if err != nil {
		return database.Block{}, err
	}

	// Just check one more time we were not cancelled.
	if ctx.Err() != nil {
		return database.Block{}, ctx.Err()
	}

	s.evHandler("state: MineNewBlock: MINING: commit block: proof[%d]", proof)

	gen := s.db.Genesis()
	reward := database.NewTx(gen.RewardSender, s.nodeID.String(), gen.MiningReward)

	block, err := s.db.CommitIfLatest(latest, proof, reward)
	if err != nil {
		return database.Block{}, err
	}

	return block, nil
}
