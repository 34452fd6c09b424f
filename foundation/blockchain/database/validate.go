package database

import (
	"errors"
	"fmt"

	"github.com/ardanlabs/powchain/foundation/blockchain/pow"
)

// Rules selects how proofs are searched for and checked. The reference
// protocol mines against the latest block's previous hash and treats a
// block whose proof solves the puzzle as invalid. Those two behaviors offset
// each other, which is why peers running the reference protocol accept each
// other's chains. The strict rules mine against the hash of the latest block
// and require every proof to solve the puzzle.
type Rules int

// Set of rules that are supported.
const (
	RulesReference Rules = iota
	RulesStrict
)

// ParseRules converts the configured name into a rule set.
func ParseRules(name string) (Rules, error) {
	switch name {
	case "", "reference":
		return RulesReference, nil
	case "strict":
		return RulesStrict, nil
	}

	return 0, fmt.Errorf("unknown rules %q", name)
}

// String implements the fmt.Stringer interface.
func (r Rules) String() string {
	switch r {
	case RulesStrict:
		return "strict"
	default:
		return "reference"
	}
}

// MiningHash returns the hash term the next proof must be searched for
// given the latest block in the chain.
func (r Rules) MiningHash(latest Block) string {
	if r == RulesStrict {
		return latest.Hash()
	}

	return latest.PreviousHash
}

// AcceptProof applies the rule set to the result of the puzzle for a block
// and the block before it.
func (r Rules) AcceptProof(block Block, previous Block) bool {
	solved := pow.ValidProof(block.PreviousHash, previous.Proof, block.Proof)

	if r == RulesStrict {
		return solved
	}

	return !solved
}

// =============================================================================

// ErrEmptyChain is returned when a chain has no blocks.
var ErrEmptyChain = errors.New("chain has no blocks")

// ValidateChain walks the chain from the second block and checks each
// block is linked to the one before it and carries an acceptable proof.
func ValidateChain(blocks []Block, rules Rules) error {
	if len(blocks) == 0 {
		return ErrEmptyChain
	}

	previous := blocks[0]
	for _, block := range blocks[1:] {
		if hash := previous.Hash(); block.PreviousHash != hash {
			return fmt.Errorf("blk[%d]: previous hash doesn't match the previous block, got %s, exp %s", block.Index, block.PreviousHash, hash)
		}

		if !rules.AcceptProof(block, previous) {
			return fmt.Errorf("blk[%d]: proof %d not accepted under %s rules", block.Index, block.Proof, rules)
		}

		previous = block
	}

	return nil
}

// ValidChain reports whether the chain passes validation.
func ValidChain(blocks []Block, rules Rules) bool {
	return ValidateChain(blocks, rules) == nil
}
