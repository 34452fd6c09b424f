// Package dbtest contains supporting code for running tests that need
// chains built with fixed timestamps.
package dbtest

import (
	"context"

	"github.com/ardanlabs/powchain/foundation/blockchain/database"
	"github.com/ardanlabs/powchain/foundation/blockchain/genesis"
	"github.com/ardanlabs/powchain/foundation/blockchain/pow"
)

// GenesisTime is the timestamp of the genesis block in every chain built by
// this package.
const GenesisTime int64 = 1700000000000

// Chain builds a chain of the specified length the way a node running the
// specified rules would mine it. Each block after genesis holds a single
// reward transaction for the recipient, so different recipients produce
// different chains. Block n is stamped one second after block n-1.
func Chain(rules database.Rules, length int, recipient string) []database.Block {
	gen := genesis.Default()

	chain := []database.Block{
		{
			Index:        1,
			Timestamp:    GenesisTime,
			Transactions: []database.Tx{},
			Proof:        gen.Proof,
			PreviousHash: gen.PreviousHash,
		},
	}

	for i := 1; i < length; i++ {
		prev := chain[len(chain)-1]

		proof, err := pow.Mine(context.Background(), rules.MiningHash(prev), prev.Proof, nil)
		if err != nil {
			panic(err)
		}

		block := database.Block{
			Index:        prev.Index + 1,
			Timestamp:    GenesisTime + int64(i)*1000,
			Transactions: []database.Tx{database.NewTx(gen.RewardSender, recipient, gen.MiningReward)},
			Proof:        proof,
			PreviousHash: prev.Hash(),
		}

		chain = append(chain, block)
	}

	return chain
}
