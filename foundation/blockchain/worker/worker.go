// Package worker implements mining and peer updates for the blockchain.
package worker

import (
	"context"
	"sync"
	"time"

	"github.com/ardanlabs/powchain/foundation/blockchain/database"
	"github.com/ardanlabs/powchain/foundation/blockchain/state"
)

// =============================================================================

// Worker manages the POW workflows for the blockchain.
type Worker struct {
	state        *state.State
	wg           sync.WaitGroup
	ticker       *time.Ticker
	shut         chan struct{}
	ctx          context.Context
	cancel       context.CancelFunc
	mineRequests chan mineRequest
	cancelMining chan chan struct{}
	resolve      chan bool
	evHandler    state.EventHandler
}

// Run creates a worker, registers the worker with the state package, and
// starts up all the background processes. Conflicts with peers are resolved
// on every resolveInterval. A zero interval turns that off.
func Run(st *state.State, resolveInterval time.Duration, evHandler state.EventHandler) *Worker {
	if evHandler == nil {
		evHandler = func(string, ...any) {}
	}

	ctx, cancel := context.WithCancel(context.Background())

	w := Worker{
		state:        st,
		shut:         make(chan struct{}),
		ctx:          ctx,
		cancel:       cancel,
		mineRequests: make(chan mineRequest),
		cancelMining: make(chan chan struct{}, 1),
		resolve:      make(chan bool, 1),
		evHandler:    evHandler,
	}

	if resolveInterval > 0 {
		w.ticker = time.NewTicker(resolveInterval)
	}

	// Register this worker with the state package.
	st.Worker = &w

	// Update this node before starting any support G's.
	w.Sync()

	// Load the set of operations we need to run.
	operations := []func(){
		w.peerOperations,
		w.miningOperations,
	}

	// Set waitgroup to match the number of G's we need for the set
	// of operations we have.
	g := len(operations)
	w.wg.Add(g)

	// We don't want to return until we know all the G's are up and running.
	hasStarted := make(chan bool)

	// Start all the operational G's.
	for _, op := range operations {
		go func(op func()) {
			defer w.wg.Done()
			hasStarted <- true
			op()
		}(op)
	}

	// Wait for the G's to report they are running.
	for i := 0; i < g; i++ {
		<-hasStarted
	}

	return &w
}

// =============================================================================
// These methods implement the state.Worker interface.

// Shutdown terminates the goroutine performing work.
func (w *Worker) Shutdown() {
	w.evHandler("worker: shutdown: started")
	defer w.evHandler("worker: shutdown: completed")

	if w.ticker != nil {
		w.evHandler("worker: shutdown: stop ticker")
		w.ticker.Stop()
	}

	w.evHandler("worker: shutdown: signal cancel mining")
	done := w.SignalCancelMining()
	done()

	w.evHandler("worker: shutdown: terminate goroutines")
	close(w.shut)
	w.cancel()
	w.wg.Wait()
}

// Mine asks the mining G to mine the next block and waits for the result.
// Requests are handled one at a time in the order they are received.
func (w *Worker) Mine(ctx context.Context) (database.Block, error) {
	req := mineRequest{
		ctx:    ctx,
		result: make(chan mineResult, 1),
	}

	select {
	case w.mineRequests <- req:
	case <-ctx.Done():
		return database.Block{}, ctx.Err()
	case <-w.shut:
		return database.Block{}, state.ErrMiningCancelled
	}

	select {
	case res := <-req.result:
		return res.block, res.err
	case <-ctx.Done():
		return database.Block{}, ctx.Err()
	}
}

// SignalCancelMining signals the G executing the runMiningOperation function
// to stop immediately. That G will not return from the function until done
// is called. This allows the caller to complete any state changes before a new
// mining operation takes place.
func (w *Worker) SignalCancelMining() (done func()) {
	wait := make(chan struct{})

	select {
	case w.cancelMining <- wait:
	default:
	}
	w.evHandler("worker: SignalCancelMining: MINING: CANCEL: signaled")

	return func() { close(wait) }
}

// SignalResolve starts a conflict resolution operation. If there is already
// a signal pending in the channel, just return since an operation will start.
func (w *Worker) SignalResolve() {
	select {
	case w.resolve <- true:
	default:
	}
	w.evHandler("worker: SignalResolve: resolve signaled")
}

// =============================================================================

// isShutdown is used to test if a shutdown has been signaled.
func (w *Worker) isShutdown() bool {
	select {
	case <-w.shut:
		return true
	default:
		return false
	}
}
