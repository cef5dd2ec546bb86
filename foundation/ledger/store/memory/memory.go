// Package memory implements the storage contract with in-memory slices
// and maps. This is the store the tests run against and the default when
// no database path is configured.
package memory

import (
	"errors"
	"sync"

	"github.com/chainforge/ledger/foundation/ledger"
	"github.com/chainforge/ledger/foundation/ledger/store"
	"github.com/google/uuid"
)

// Memory represents the in-memory storage implementation. It implements
// the store.Storage interface.
type Memory struct {
	mu     sync.RWMutex
	blocks []ledger.Block
	trans  map[uuid.UUID]ledger.Tran
	order  []uuid.UUID
}

// New constructs a Memory store for use.
func New() *Memory {
	return &Memory{
		trans: make(map[uuid.UUID]ledger.Tran),
	}
}

// AppendBlock stores the block as the next link of the chain.
func (m *Memory) AppendBlock(block ledger.Block) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	if block.Number < uint64(len(m.blocks)) {
		return store.ErrDuplicateBlock
	}
	if block.Number != uint64(len(m.blocks)) {
		return errors.New("block is out of order")
	}

	m.blocks = append(m.blocks, block)
	return nil
}

// LatestBlock returns the most recent block.
func (m *Memory) LatestBlock() (ledger.Block, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	if len(m.blocks) == 0 {
		return ledger.Block{}, store.ErrEmptyChain
	}

	return m.blocks[len(m.blocks)-1], nil
}

// AllBlocks returns every block in index order.
func (m *Memory) AllBlocks() ([]ledger.Block, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	blocks := make([]ledger.Block, len(m.blocks))
	copy(blocks, m.blocks)

	return blocks, nil
}

// BlocksRange returns the blocks with numbers in [from, to] in index
// order.
func (m *Memory) BlocksRange(from uint64, to uint64) ([]ledger.Block, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	var blocks []ledger.Block
	for _, block := range m.blocks {
		if block.Number >= from && block.Number <= to {
			blocks = append(blocks, block)
		}
	}

	return blocks, nil
}

// SaveTransaction stores a new transaction.
func (m *Memory) SaveTransaction(tx ledger.Tran) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	if _, exists := m.trans[tx.ID]; !exists {
		m.order = append(m.order, tx.ID)
	}
	m.trans[tx.ID] = tx

	return nil
}

// Transactions returns the transactions matching the filter in insertion
// order.
func (m *Memory) Transactions(filter store.TranFilter) ([]ledger.Tran, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	var trans []ledger.Tran
	for _, id := range m.order {
		tx := m.trans[id]
		switch filter {
		case store.PendingTran:
			if tx.Settled {
				continue
			}
		case store.SettledTran:
			if !tx.Settled {
				continue
			}
		}
		trans = append(trans, tx)
	}

	return trans, nil
}

// SettleTransactions flips the specified transactions to settled with a
// reference to the owning block. The flip is atomic with respect to the
// other store operations.
func (m *Memory) SettleTransactions(ids []uuid.UUID, blockNumber uint64) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	for _, id := range ids {
		tx, exists := m.trans[id]
		if !exists {
			continue
		}

		tx.Settled = true
		tx.BlockNumber = blockNumber
		m.trans[id] = tx
	}

	return nil
}

// Reset wipes all blocks and transactions.
func (m *Memory) Reset() error {
	m.mu.Lock()
	defer m.mu.Unlock()

	m.blocks = nil
	m.trans = make(map[uuid.UUID]ledger.Tran)
	m.order = nil

	return nil
}

// Close in this implementation has nothing to do since everything is in
// memory.
func (m *Memory) Close() error {
	return nil
}
