// Package public maintains the group of handlers for public access.
package public

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"time"

	"github.com/ardanlabs/powchain/business/sys/validate"
	"github.com/ardanlabs/powchain/business/web/errs"
	"github.com/ardanlabs/powchain/foundation/blockchain/database"
	"github.com/ardanlabs/powchain/foundation/blockchain/peer"
	"github.com/ardanlabs/powchain/foundation/blockchain/state"
	"github.com/ardanlabs/powchain/foundation/events"
	"github.com/ardanlabs/powchain/foundation/web"
	"github.com/gorilla/websocket"
	"go.uber.org/zap"
)

// Handlers manages the set of ledger endpoints.
type Handlers struct {
	Log   *zap.SugaredLogger
	State *state.State
	WS    websocket.Upgrader
	Evts  *events.Events
}

// Mine searches for the next proof and commits the pending transactions
// along with the mining reward.
func (h Handlers) Mine(ctx context.Context, w http.ResponseWriter, r *http.Request) error {
	block, err := h.State.Mine(ctx)
	if err != nil {
		switch {
		case errors.Is(err, state.ErrMiningCancelled), errors.Is(err, database.ErrChainChanged):
			return errs.Conflict(err)
		}
		return fmt.Errorf("mining block: %w", err)
	}

	resp := forged{
		Message:      "New Block Forged",
		Index:        block.Index,
		Proof:        block.Proof,
		PreviousHash: block.PreviousHash,
		Transactions: block.Transactions,
	}

	return web.Respond(ctx, w, resp, http.StatusOK)
}

// NewTransaction adds a transaction to the pending pool.
func (h Handlers) NewTransaction(ctx context.Context, w http.ResponseWriter, r *http.Request) error {
	v, err := web.GetValues(ctx)
	if err != nil {
		return web.NewShutdownError("web value missing from context")
	}

	var nt newTx
	if err := web.Decode(r, &nt); err != nil {
		return errs.BadRequest(err)
	}

	if err := validate.Check(nt); err != nil {
		return err
	}

	tx := database.NewTx(*nt.Sender, *nt.Recipient, *nt.Amount)

	h.Log.Infow("add tran", "traceid", v.TraceID, "tx", tx)
	index := h.State.SubmitTransaction(tx)

	resp := message{
		Message: fmt.Sprintf("Transaction will be added to Block %d", index),
	}

	return web.Respond(ctx, w, resp, http.StatusCreated)
}

// Chain returns the full chain.
func (h Handlers) Chain(ctx context.Context, w http.ResponseWriter, r *http.Request) error {
	chain := h.State.RetrieveChain()

	resp := peer.ChainStatus{
		Chain:  chain,
		Length: len(chain),
	}

	return web.Respond(ctx, w, resp, http.StatusOK)
}

// Pending returns the transactions waiting to be mined.
func (h Handlers) Pending(ctx context.Context, w http.ResponseWriter, r *http.Request) error {
	return web.Respond(ctx, w, h.State.RetrievePending(), http.StatusOK)
}

// RegisterNodes adds peer nodes to the set of known peers.
func (h Handlers) RegisterNodes(ctx context.Context, w http.ResponseWriter, r *http.Request) error {
	var rn registerNodes
	if err := web.Decode(r, &rn); err != nil {
		return errs.BadRequest(err)
	}

	if err := validate.Check(rn); err != nil {
		return errs.BadRequest(errors.New("Error: Please supply a valid list of nodes"))
	}

	if err := h.State.RegisterNodes(rn.Nodes); err != nil {
		return errs.BadRequest(err)
	}

	resp := registered{
		Message:    "New nodes have been added",
		TotalNodes: hosts(h.State.RetrieveKnownPeers()),
	}

	return web.Respond(ctx, w, resp, http.StatusCreated)
}

// ListNodes returns the hosts of the known peers.
func (h Handlers) ListNodes(ctx context.Context, w http.ResponseWriter, r *http.Request) error {
	return web.Respond(ctx, w, hosts(h.State.RetrieveKnownPeers()), http.StatusOK)
}

// ResolveNodes replaces the chain with the longest valid chain held by the
// known peers.
func (h Handlers) ResolveNodes(ctx context.Context, w http.ResponseWriter, r *http.Request) error {
	ok, err := h.State.ResolveConflicts(ctx)
	if err != nil {
		return fmt.Errorf("resolving conflicts: %w", err)
	}

	if ok {
		resp := replaced{
			Message:  "Our chain was replaced",
			NewChain: h.State.RetrieveChain(),
		}
		return web.Respond(ctx, w, resp, http.StatusOK)
	}

	resp := authoritative{
		Message: "Our chain is authoritative",
		Chain:   h.State.RetrieveChain(),
	}

	return web.Respond(ctx, w, resp, http.StatusOK)
}

// Events handles a web socket to provide events to a client.
func (h Handlers) Events(ctx context.Context, w http.ResponseWriter, r *http.Request) error {
	v, err := web.GetValues(ctx)
	if err != nil {
		return web.NewShutdownError("web value missing from context")
	}

	h.WS.CheckOrigin = func(r *http.Request) bool { return true }

	// The upgrader has already replied to the client when this fails.
	c, err := h.WS.Upgrade(w, r, nil)
	if err != nil {
		h.Log.Infow("events", "traceid", v.TraceID, "status", "upgrade failed", "ERROR", err)
		return nil
	}
	defer c.Close()

	ch := h.Evts.Acquire(v.TraceID)
	defer h.Evts.Release(v.TraceID)

	ticker := time.NewTicker(time.Second)
	defer ticker.Stop()

	for {
		select {
		case msg, wd := <-ch:
			if !wd {
				return nil
			}

			// The connection is hijacked, so a write failure means the
			// client went away and there is nothing left to respond to.
			if err := c.WriteMessage(websocket.TextMessage, []byte(msg)); err != nil {
				h.Log.Infow("events", "traceid", v.TraceID, "status", "client disconnected", "ERROR", err)
				return nil
			}

		case <-ticker.C:
			if err := c.WriteMessage(websocket.PingMessage, []byte("ping")); err != nil {
				return nil
			}
		}
	}
}

// =============================================================================

func hosts(peers []peer.Peer) []string {
	hosts := make([]string, len(peers))
	for i, pr := range peers {
		hosts[i] = pr.Host
	}
	return hosts
}
