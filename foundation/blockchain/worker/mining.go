package worker

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/ardanlabs/powchain/foundation/blockchain/database"
	"github.com/ardanlabs/powchain/foundation/blockchain/state"
)

// mineRequest is a request for the mining G to mine the next block.
type mineRequest struct {
	ctx    context.Context
	result chan mineResult
}

// mineResult is the outcome of a mining request.
type mineResult struct {
	block database.Block
	err   error
}

// =============================================================================

// miningOperations handles mining.
func (w *Worker) miningOperations() {
	w.evHandler("worker: miningOperations: G started")
	defer w.evHandler("worker: miningOperations: G completed")

	for {
		select {
		case req := <-w.mineRequests:
			if w.isShutdown() {
				req.result <- mineResult{err: state.ErrMiningCancelled}
				continue
			}
			block, err := w.runMiningOperation(req.ctx)
			req.result <- mineResult{block: block, err: err}
		case <-w.shut:
			w.evHandler("worker: miningOperations: received shut signal")
			return
		}
	}
}

// runMiningOperation searches for the next proof and commits a new block with
// the pending transactions to the database.
func (w *Worker) runMiningOperation(reqCtx context.Context) (database.Block, error) {
	w.evHandler("worker: runMiningOperation: MINING: started")
	defer w.evHandler("worker: runMiningOperation: MINING: completed")

	// If mining is signalled to be cancelled by a chain replacement,
	// this G can't terminate until it is told it can.
	var wait chan struct{}
	defer func() {
		if wait != nil {
			w.evHandler("worker: runMiningOperation: MINING: termination signal: waiting")
			<-wait
			w.evHandler("worker: runMiningOperation: MINING: termination signal: received")
		}
	}()

	// Drain the cancel mining channel before starting.
	select {
	case <-w.cancelMining:
		w.evHandler("worker: runMiningOperation: MINING: drained cancel channel")
	default:
	}

	// Create a context so mining can be cancelled.
	ctx, cancel := context.WithCancel(w.ctx)
	defer cancel()

	var block database.Block
	var err error

	// Can't return from this function until these G's are complete.
	var wg sync.WaitGroup
	wg.Add(2)

	// This G exists to cancel the mining operation.
	go func() {
		defer func() {
			cancel()
			wg.Done()
		}()

		select {
		case wait = <-w.cancelMining:
			cancel()
			w.evHandler("worker: runMiningOperation: MINING: CANCEL: requested")
		case <-reqCtx.Done():
			w.evHandler("worker: runMiningOperation: MINING: CANCEL: request abandoned")
		case <-ctx.Done():
		}
	}()

	// This G is performing the mining.
	go func() {
		defer func() {
			cancel()
			wg.Done()
		}()

		t := time.Now()
		block, err = w.state.MineNewBlock(ctx)
		duration := time.Since(t)

		w.evHandler("worker: runMiningOperation: MINING: mining duration[%v]", duration)

		if err != nil {
			switch {
			case errors.Is(err, database.ErrChainChanged):
				w.evHandler("worker: runMiningOperation: MINING: WARNING: chain changed during search")
				err = fmt.Errorf("%w: %w", state.ErrMiningCancelled, err)
			case ctx.Err() != nil:
				w.evHandler("worker: runMiningOperation: MINING: CANCEL: complete")
				err = fmt.Errorf("%w: %w", state.ErrMiningCancelled, err)
			default:
				w.evHandler("worker: runMiningOperation: MINING: ERROR: %s", err)
			}
			return
		}

		w.evHandler("worker: runMiningOperation: MINING: block[%d] forged", block.Index)
	}()

	// Wait for both G's to terminate.
	wg.Wait()

	return block, err
}
