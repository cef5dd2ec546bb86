// Package state is the core API for the ledger and implements all the
// business rules and processing.
package state

import (
	"errors"
	"sync"
	"time"

	"github.com/chainforge/ledger/foundation/ledger"
	"github.com/chainforge/ledger/foundation/ledger/difficulty"
	"github.com/chainforge/ledger/foundation/ledger/genesis"
	"github.com/chainforge/ledger/foundation/ledger/store"
	"github.com/lightningnetwork/lnd/clock"
)

// ErrAlreadyInitialized is returned when genesis creation is requested but
// the chain already has blocks.
var ErrAlreadyInitialized = errors.New("chain already initialized")

// =============================================================================

// EventHandler defines a function that is called when events occur in the
// processing of mining and persisting blocks.
type EventHandler func(v string, args ...any)

// Worker interface represents the behavior required to be implemented by
// any package providing support for background mining.
type Worker interface {
	Shutdown()
	SignalStartMining()
}

// =============================================================================

// Config represents the configuration required to start the ledger engine.
type Config struct {
	Storage      store.Storage
	Genesis      genesis.Genesis
	MiningBudget uint64 // Max POW attempts per block, 0 means unbounded.
	Clock        clock.Clock
	EvHandler    EventHandler
}

// State manages the ledger: the chain of blocks, the pending transaction
// pool held in the store, and the difficulty controller. All operations
// that mutate shared state are serialized through a single mutex, which is
// what keeps read-pending/mine/commit atomic with respect to concurrent
// mining rounds.
type State struct {
	mu sync.Mutex

	storage      store.Storage
	genesis      genesis.Genesis
	diff         *difficulty.Controller
	miningBudget uint64
	clock        clock.Clock
	evHandler    EventHandler

	Worker Worker
}

// New constructs a new ledger engine for data management.
func New(cfg Config) (*State, error) {
	if cfg.Storage == nil {
		return nil, errors.New("storage is required")
	}

	// Build a safe event handler function for use.
	ev := func(v string, args ...any) {
		if cfg.EvHandler != nil {
			cfg.EvHandler(v, args...)
		}
	}

	clk := cfg.Clock
	if clk == nil {
		clk = clock.NewDefaultClock()
	}

	diff := difficulty.New(
		cfg.Genesis.Difficulty,
		time.Duration(cfg.Genesis.TargetBlockTime)*time.Second,
		cfg.Genesis.AdjustmentInterval,
	)

	state := State{
		storage:      cfg.Storage,
		genesis:      cfg.Genesis,
		diff:         diff,
		miningBudget: cfg.MiningBudget,
		clock:        clk,
		evHandler:    ev,
	}

	// The Worker is not set here. The call to worker.Run will assign
	// itself and start the background mining loop if one is configured.

	return &state, nil
}

// Shutdown cleanly brings the engine down.
func (s *State) Shutdown() error {

	// Make sure the database is properly closed.
	defer s.storage.Close()

	// Stop any background mining activity.
	if s.Worker != nil {
		s.Worker.Shutdown()
	}

	return nil
}

// Reset wipes the chain and all transactions and restores the difficulty
// settings from genesis. This is the only operation that deletes settled
// transactions.
func (s *State) Reset() error {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.evHandler("state: Reset: wiping chain and transactions")

	if err := s.storage.Reset(); err != nil {
		return err
	}

	s.diff = difficulty.New(
		s.genesis.Difficulty,
		time.Duration(s.genesis.TargetBlockTime)*time.Second,
		s.genesis.AdjustmentInterval,
	)

	return nil
}

// Genesis returns a copy of the genesis settings.
func (s *State) Genesis() genesis.Genesis {
	return s.genesis
}

// =============================================================================
// Difficulty state access. A block's required proof of work is whatever
// difficulty was in effect when mining began; holding the same mutex as
// the mining commit keeps the two from interleaving.

// Difficulty returns the current mining difficulty.
func (s *State) Difficulty() int {
	s.mu.Lock()
	defer s.mu.Unlock()

	return s.diff.Difficulty()
}

// SetDifficulty replaces the mining difficulty. Values outside [1,10] are
// rejected.
func (s *State) SetDifficulty(diff int) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if err := s.diff.SetDifficulty(diff); err != nil {
		return err
	}

	s.evHandler("state: SetDifficulty: difficulty set to %d", diff)
	return nil
}

// TargetBlockTime returns the desired interval between blocks.
func (s *State) TargetBlockTime() time.Duration {
	s.mu.Lock()
	defer s.mu.Unlock()

	return s.diff.TargetBlockTime()
}

// SetTargetBlockTime replaces the desired interval between blocks.
func (s *State) SetTargetBlockTime(d time.Duration) {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.diff.SetTargetBlockTime(d)
	s.evHandler("state: SetTargetBlockTime: target block time set to %v", d)
}

// AdjustmentInterval returns the number of blocks between retarget
// evaluations.
func (s *State) AdjustmentInterval() int {
	s.mu.Lock()
	defer s.mu.Unlock()

	return s.diff.AdjustmentInterval()
}

// SetAdjustmentInterval replaces the retarget cadence.
func (s *State) SetAdjustmentInterval(n int) {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.diff.SetAdjustmentInterval(n)
	s.evHandler("state: SetAdjustmentInterval: adjustment interval set to %d", n)
}

// EvaluateRetarget runs the difficulty retarget algorithm against the
// current chain. This is the manual trigger, mining rounds evaluate
// automatically after the block commit.
func (s *State) EvaluateRetarget() (difficulty.Outcome, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	return s.evaluateRetarget()
}

// evaluateRetarget must be called with the mutex held.
func (s *State) evaluateRetarget() (difficulty.Outcome, error) {
	latest, err := s.storage.LatestBlock()
	if err != nil {
		if errors.Is(err, store.ErrEmptyChain) {
			d := s.diff.Difficulty()
			return difficulty.Outcome{State: difficulty.NotEnoughBlocks, Old: d, New: d}, nil
		}
		return difficulty.Outcome{}, err
	}

	interval := uint64(s.diff.AdjustmentInterval())

	window := []ledger.Block{latest}
	if latest.Number+1 >= interval {
		window, err = s.storage.BlocksRange(latest.Number+1-interval, latest.Number)
		if err != nil {
			return difficulty.Outcome{}, err
		}
	}

	outcome := s.diff.Evaluate(window)
	if outcome.State == difficulty.Adjusted {
		s.evHandler("state: evaluateRetarget: difficulty %s: %d -> %d", outcome.Reason, outcome.Old, outcome.New)
	}

	return outcome, nil
}
