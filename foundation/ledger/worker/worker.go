// Package worker implements the optional background mining loop for the
// ledger. When enabled it periodically seals whatever transactions are
// pending, so the node behaves like a self-driving miner instead of only
// mining on demand.
package worker

import (
	"context"
	"errors"
	"sync"
	"time"

	"github.com/chainforge/ledger/foundation/ledger/state"
)

// Worker manages the background mining workflow for the ledger.
type Worker struct {
	state       *state.State
	beneficiary string
	ticker      *time.Ticker
	wg          sync.WaitGroup
	shut        chan struct{}
	startMining chan bool
	evHandler   state.EventHandler
}

// Run creates a worker, registers the worker with the state package, and
// starts the background mining loop.
func Run(st *state.State, beneficiary string, interval time.Duration, evHandler state.EventHandler) {
	w := Worker{
		state:       st,
		beneficiary: beneficiary,
		ticker:      time.NewTicker(interval),
		shut:        make(chan struct{}),
		startMining: make(chan bool, 1),
		evHandler:   evHandler,
	}

	// Register this worker with the state package.
	st.Worker = &w

	w.wg.Add(1)

	// We don't want to return until we know the G is up and running.
	hasStarted := make(chan bool)

	go func() {
		defer w.wg.Done()
		hasStarted <- true
		w.miningOperations()
	}()

	<-hasStarted
}

// =============================================================================
// These methods implement the state.Worker interface.

// Shutdown terminates the goroutine performing work.
func (w *Worker) Shutdown() {
	w.evHandler("worker: shutdown: started")
	defer w.evHandler("worker: shutdown: completed")

	w.ticker.Stop()
	close(w.shut)
	w.wg.Wait()
}

// SignalStartMining starts a mining operation outside of the regular
// cadence. If there is already a signal pending in the channel, just
// return since a mining operation will start.
func (w *Worker) SignalStartMining() {
	select {
	case w.startMining <- true:
	default:
	}
	w.evHandler("worker: SignalStartMining: mining signaled")
}

// =============================================================================

// miningOperations handles the mining cadence.
func (w *Worker) miningOperations() {
	w.evHandler("worker: miningOperations: G started")
	defer w.evHandler("worker: miningOperations: G completed")

	for {
		select {
		case <-w.ticker.C:
			if !w.isShutdown() {
				w.runMiningOperation()
			}
		case <-w.startMining:
			if !w.isShutdown() {
				w.runMiningOperation()
			}
		case <-w.shut:
			return
		}
	}
}

// runMiningOperation seals the currently pending transactions into the
// next block. An empty pool is a normal outcome, not a failure.
func (w *Worker) runMiningOperation() {
	w.evHandler("worker: runMiningOperation: MINING: started")
	defer w.evHandler("worker: runMiningOperation: MINING: completed")

	block, outcome, err := w.state.MinePending(context.Background(), w.beneficiary, true)
	if err != nil {
		if errors.Is(err, state.ErrNoTransactions) {
			w.evHandler("worker: runMiningOperation: MINING: no pending transactions")
			return
		}
		w.evHandler("worker: runMiningOperation: MINING: ERROR: %s", err)
		return
	}

	w.evHandler("worker: runMiningOperation: MINING: sealed block[%d] hash[%s] retarget[%s]", block.Number, block.Hash, outcome.State)
}

// isShutdown is used to test if a shutdown has been signaled.
func (w *Worker) isShutdown() bool {
	select {
	case <-w.shut:
		return true
	default:
		return false
	}
}
