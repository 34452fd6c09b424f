package state

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"

	"github.com/ardanlabs/powchain/foundation/blockchain/database"
	"github.com/ardanlabs/powchain/foundation/blockchain/peer"
)

const baseURL = "http://%s"

// ErrMalformedChain is returned when a peer responds with a chain that
// doesn't have the expected shape.
var ErrMalformedChain = errors.New("malformed chain")

// =============================================================================

// NetRequestPeerChain asks the peer for its full chain.
func (s *State) NetRequestPeerChain(ctx context.Context, pr peer.Peer) ([]database.Block, error) {
	s.evHandler("state: NetRequestPeerChain: started: %s", pr.Host)
	defer s.evHandler("state: NetRequestPeerChain: completed: %s", pr.Host)

	url := fmt.Sprintf("%s/chain", fmt.Sprintf(baseURL, pr.Host))

	resp, err := s.client.R().
		SetContext(ctx).
		Get(url)
	if err != nil {
		return nil, err
	}

	if resp.StatusCode() != http.StatusOK {
		return nil, fmt.Errorf("%s: status %d: %s", pr.Host, resp.StatusCode(), resp.String())
	}

	var status peer.ChainStatus
	if err := json.Unmarshal(resp.Body(), &status); err != nil {
		return nil, fmt.Errorf("%s: decoding chain: %w", pr.Host, err)
	}

	switch {
	case len(status.Chain) == 0:
		return nil, fmt.Errorf("%s: %w: no blocks", pr.Host, ErrMalformedChain)
	case status.Length != len(status.Chain):
		return nil, fmt.Errorf("%s: %w: length %d, blocks %d", pr.Host, ErrMalformedChain, status.Length, len(status.Chain))
	}

	s.evHandler("state: NetRequestPeerChain: peer-node[%s]: length[%d]", pr.Host, status.Length)

	return status.Chain, nil
}
