package state

import (
	"context"
	"errors"
	"fmt"

	"github.com/chainforge/ledger/foundation/ledger"
	"github.com/chainforge/ledger/foundation/ledger/difficulty"
	"github.com/chainforge/ledger/foundation/ledger/store"
	"github.com/google/uuid"
)

// ErrNoTransactions is returned when a mining round is requested and there
// are no pending transactions. This is a documented no-op, not a failure.
var ErrNoTransactions = errors.New("no pending transactions to mine")

// =============================================================================

// CreateGenesis produces the trusted first block of the chain. Calling it
// on an initialized chain returns ErrAlreadyInitialized and never produces
// a second genesis.
func (s *State) CreateGenesis() (ledger.Block, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	return s.createGenesis()
}

// createGenesis must be called with the mutex held.
func (s *State) createGenesis() (ledger.Block, error) {
	if _, err := s.storage.LatestBlock(); !errors.Is(err, store.ErrEmptyChain) {
		if err != nil {
			return ledger.Block{}, err
		}
		return ledger.Block{}, ErrAlreadyInitialized
	}

	block := ledger.NewGenesisBlock(uint64(s.clock.Now().UTC().Unix()), s.genesis.MarkerMessage())

	if err := s.storage.AppendBlock(block); err != nil {
		return ledger.Block{}, err
	}

	s.evHandler("state: createGenesis: chain initialized: hash[%s]", block.Hash)

	return block, nil
}

// SubmitTransaction records a new pending transaction. The amount must be
// strictly positive.
func (s *State) SubmitTransaction(sender string, receiver string, amount ledger.Amount) (ledger.Tran, error) {
	tx, err := ledger.NewTran(sender, receiver, amount, uint64(s.clock.Now().UTC().Unix()))
	if err != nil {
		return ledger.Tran{}, err
	}

	if err := s.storage.SaveTransaction(tx); err != nil {
		return ledger.Tran{}, err
	}

	s.evHandler("state: SubmitTransaction: tx[%s]", tx)

	return tx, nil
}

// MinePending seals all pending transactions into a new mined block. The
// transactions are settled referencing the new block, a single pending
// reward transaction is minted for the beneficiary, and when autoAdjust is
// set the difficulty retarget is evaluated afterwards.
//
// The whole read-pending/mine/commit sequence holds the engine mutex so
// two concurrent mining rounds can never absorb the same transaction or
// produce two blocks at the same number.
func (s *State) MinePending(ctx context.Context, beneficiary string, autoAdjust bool) (ledger.Block, difficulty.Outcome, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.evHandler("state: MinePending: MINING: check pending transactions")

	pending, err := s.storage.Transactions(store.PendingTran)
	if err != nil {
		return ledger.Block{}, difficulty.Outcome{}, err
	}
	if len(pending) == 0 {
		return ledger.Block{}, difficulty.Outcome{}, ErrNoTransactions
	}

	// Snapshot the pending set into the block payload.
	summaries := make([]ledger.TranSummary, len(pending))
	ids := make([]uuid.UUID, len(pending))
	for i, tx := range pending {
		summaries[i] = tx.Summary()
		ids[i] = tx.ID
	}

	block, err := s.appendBlock(ctx, ledger.BlockData{Trans: summaries})
	if err != nil {
		return ledger.Block{}, difficulty.Outcome{}, err
	}

	// Flip exactly the snapshotted transactions to settled, referencing
	// the block that absorbed them.
	if err := s.storage.SettleTransactions(ids, block.Number); err != nil {
		return ledger.Block{}, difficulty.Outcome{}, err
	}

	// Mint the reward for the miner. The reward stays pending until a
	// future mining round settles it.
	reward := ledger.NewRewardTran(beneficiary, s.genesis.MiningReward, uint64(s.clock.Now().UTC().Unix()))
	if err := s.storage.SaveTransaction(reward); err != nil {
		return ledger.Block{}, difficulty.Outcome{}, err
	}

	s.evHandler("state: MinePending: MINING: block[%d] sealed %d transactions, reward tx[%s]", block.Number, len(pending), reward)

	var outcome difficulty.Outcome
	if autoAdjust {
		outcome, err = s.evaluateRetarget()
		if err != nil {
			return ledger.Block{}, difficulty.Outcome{}, err
		}
	}

	return block, outcome, nil
}

// appendBlock builds the candidate that follows the latest block, mines it
// at the current difficulty and persists it. The chain is initialized with
// a genesis block first if it is empty. Must be called with the mutex held.
func (s *State) appendBlock(ctx context.Context, data ledger.BlockData) (ledger.Block, error) {
	latest, err := s.storage.LatestBlock()
	if err != nil {
		if !errors.Is(err, store.ErrEmptyChain) {
			return ledger.Block{}, err
		}

		latest, err = s.createGenesis()
		if err != nil {
			return ledger.Block{}, err
		}
	}

	block := ledger.NewBlock(latest, uint64(s.clock.Now().UTC().Unix()), data)

	if err := block.PerformPOW(ctx, s.diff.Difficulty(), s.miningBudget, s.evHandler); err != nil {
		return ledger.Block{}, fmt.Errorf("mining block %d: %w", block.Number, err)
	}

	if err := s.storage.AppendBlock(block); err != nil {
		return ledger.Block{}, err
	}

	return block, nil
}
