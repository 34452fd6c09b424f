package state

import (
	"context"

	"github.com/ardanlabs/powchain/foundation/blockchain/database"
	"github.com/ardanlabs/powchain/foundation/blockchain/peer"
	"golang.org/x/sync/errgroup"
)

// peerResult is the outcome of asking one peer for its chain.
type peerResult struct {
	peer  peer.Peer
	chain []database.Block
	err   error
}

// =============================================================================

// ResolveConflicts asks every known peer for its chain and replaces the local
// chain with the longest valid chain that is longer than the local chain. It
// reports whether the chain was replaced. A peer that can't be reached or
// returns an unusable chain is logged and skipped. An error is only returned
// when the context is cancelled.
func (s *State) ResolveConflicts(ctx context.Context) (bool, error) {
	s.evHandler("state: ResolveConflicts: started")
	defer s.evHandler("state: ResolveConflicts: completed")

	results := s.requestPeerChains(ctx, s.RetrieveKnownPeers())
	if err := ctx.Err(); err != nil {
		return false, err
	}

	chain := s.selectLongestChain(results, s.db.Length())
	if chain == nil {
		s.evHandler("state: ResolveConflicts: chain is authoritative: len[%d]", s.db.Length())
		return false, nil
	}

	// The mining G can't commit a block against the old chain or start a new
	// search until the replacement is done.
	done := s.signalCancelMining()
	defer done()

	if !s.db.Replace(chain) {
		return false, nil
	}

	s.evHandler("state: ResolveConflicts: chain replaced: len[%d]", len(chain))

	return true, nil
}

// =============================================================================

// requestPeerChains requests the chain from every peer at the same time. The
// results are returned in the order of the peers, not the order the peers
// responded in.
func (s *State) requestPeerChains(ctx context.Context, peers []peer.Peer) []peerResult {
	results := make([]peerResult, len(peers))

	var g errgroup.Group
	for i, pr := range peers {
		g.Go(func() error {
			chain, err := s.NetRequestPeerChain(ctx, pr)
			results[i] = peerResult{peer: pr, chain: chain, err: err}
			return nil
		})
	}
	g.Wait()

	return results
}

// selectLongestChain returns the longest valid chain that is longer than the
// specified length. When two chains have the same length the first one wins.
func (s *State) selectLongestChain(results []peerResult, length int) []database.Block {
	var chain []database.Block

	for _, res := range results {
		if res.err != nil {
			s.evHandler("state: ResolveConflicts: peer[%s]: ERROR: %s", res.peer.Host, res.err)
			continue
		}

		if len(res.chain) <= length {
			s.evHandler("state: ResolveConflicts: peer[%s]: len[%d] not longer than len[%d]", res.peer.Host, len(res.chain), length)
			continue
		}

		if err := database.ValidateChain(res.chain, s.rules); err != nil {
			s.evHandler("state: ResolveConflicts: peer[%s]: invalid chain: %s", res.peer.Host, err)
			continue
		}

		s.evHandler("state: ResolveConflicts: peer[%s]: candidate len[%d]", res.peer.Host, len(res.chain))

		length = len(res.chain)
		chain = res.chain
	}

	return chain
}
