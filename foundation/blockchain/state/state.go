// Package state is the core API for the blockchain and implements all the
// business rules and processing.
package state

import (
	"context"
	"errors"
	"time"

	"github.com/ardanlabs/powchain/foundation/blockchain/database"
	"github.com/ardanlabs/powchain/foundation/blockchain/genesis"
	"github.com/ardanlabs/powchain/foundation/blockchain/peer"
	"github.com/go-resty/resty/v2"
)

// defaultPeerTimeout is used when no timeout is configured for requests
// made to peer nodes.
const defaultPeerTimeout = 5 * time.Second

// =============================================================================

// EventHandler defines a function that is called when events
// occur in the processing of blocks.
type EventHandler func(v string, args ...any)

// Worker interface represents the behavior required to be implemented by any
// package providing support for mining and peer updates.
type Worker interface {
	Shutdown()
	Mine(ctx context.Context) (database.Block, error)
	SignalCancelMining() (done func())
	SignalResolve()
}

// =============================================================================

// Config represents the configuration required to start
// the blockchain node.
type Config struct {
	NodeID      database.NodeID
	Host        string
	Rules       database.Rules
	Genesis     genesis.Genesis
	KnownPeers  *peer.PeerSet
	PeerTimeout time.Duration
	EvHandler   EventHandler
}

// State manages the blockchain database.
type State struct {
	nodeID    database.NodeID
	host      string
	rules     database.Rules
	evHandler EventHandler

	knownPeers *peer.PeerSet
	db         *database.Database
	client     *resty.Client

	Worker Worker
}

// New constructs a new blockchain for data management.
func New(cfg Config) (*State, error) {
	if cfg.NodeID == "" {
		return nil, errors.New("node id is required")
	}

	// Build a safe event handler function for use.
	ev := func(v string, args ...any) {
		if cfg.EvHandler != nil {
			cfg.EvHandler(v, args...)
		}
	}

	gen := cfg.Genesis
	if gen == (genesis.Genesis{}) {
		gen = genesis.Default()
	}

	knownPeers := cfg.KnownPeers
	if knownPeers == nil {
		knownPeers = peer.NewPeerSet()
	}

	timeout := cfg.PeerTimeout
	if timeout <= 0 {
		timeout = defaultPeerTimeout
	}

	// Each request to a peer is bounded by this timeout so one slow peer
	// can't hold up conflict resolution.
	client := resty.New().
		SetTimeout(timeout).
		SetHeader("Accept", "application/json")

	state := State{
		nodeID:    cfg.NodeID,
		host:      cfg.Host,
		rules:     cfg.Rules,
		evHandler: ev,

		knownPeers: knownPeers,
		db:         database.New(gen, ev),
		client:     client,
	}

	// The Worker is not set here. The call to worker.Run will assign itself
	// and start everything up and running for the node.

	return &state, nil
}

// Shutdown cleanly brings the node down.
func (s *State) Shutdown() error {
	s.evHandler("state: shutdown: started")
	defer s.evHandler("state: shutdown: completed")

	// Stop all blockchain writing activity.
	if s.Worker != nil {
		s.Worker.Shutdown()
	}

	return nil
}

// =============================================================================

// signalCancelMining asks the worker to stop any mining operation and keeps
// it from starting a new one until done is called.
func (s *State) signalCancelMining() (done func()) {
	if s.Worker == nil {
		return func() {}
	}

	return s.Worker.SignalCancelMining()
}
