// Package genesis maintains the values every chain is started with.
package genesis

// Genesis represents the starting values of the blockchain and the constants
// applied when new blocks are mined.
type Genesis struct {
	PreviousHash string  `json:"previous_hash"` // Sentinel link for the first block, not a real hash.
	Proof        uint64  `json:"proof"`         // Proof stored in the first block.
	RewardSender string  `json:"reward_sender"` // Sender used for the mining reward transaction.
	MiningReward float64 `json:"mining_reward"` // Amount credited to the node for mining a block.
}

// Default returns the genesis values used by every node in the network.
func Default() Genesis {
	return Genesis{
		PreviousHash: "1",
		Proof:        100,
		RewardSender: "0",
		MiningReward: 1,
	}
}
