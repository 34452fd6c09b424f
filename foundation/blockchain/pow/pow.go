// Package pow implements the proof of work puzzle used to seal blocks.
package pow

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	"strconv"
	"strings"
)

// Suffix is the pattern the hex digest of a guess must end with for the
// proof to be accepted. The difficulty is fixed and never retargeted.
const Suffix = "0000"

// checkInterval is how many attempts are made between checks of the
// context for cancellation.
const checkInterval = 10_000

// =============================================================================

// ValidProof checks if the proof solves the puzzle for the specified hash
// and last proof. The guess is the concatenation of the three values in
// their decimal form.
func ValidProof(previousHash string, lastProof uint64, proof uint64) bool {
	guess := previousHash + strconv.FormatUint(lastProof, 10) + strconv.FormatUint(proof, 10)

	sum := sha256.Sum256([]byte(guess))
	return strings.HasSuffix(hex.EncodeToString(sum[:]), Suffix)
}

// Mine performs a linear search from 0 for the first proof that solves the
// puzzle. There is no cap on the number of attempts. The search can only be
// stopped by cancelling the context.
func Mine(ctx context.Context, previousHash string, lastProof uint64, ev func(v string, args ...any)) (uint64, error) {
	if ev == nil {
		ev = func(string, ...any) {}
	}

	ev("pow: Mine: MINING: started: hash[%s] lastProof[%d]", previousHash, lastProof)
	defer ev("pow: Mine: MINING: completed")

	for proof := uint64(0); ; proof++ {
		if proof%checkInterval == 0 {
			if ctx.Err() != nil {
				ev("pow: Mine: MINING: CANCELLED: attempts[%d]", proof)
				return 0, ctx.Err()
			}
		}

		if !ValidProof(previousHash, lastProof, proof) {
			continue
		}

		ev("pow: Mine: MINING: SOLVED: proof[%d]", proof)
		return proof, nil
	}
}
