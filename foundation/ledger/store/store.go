// Package store declares the persistence contract the ledger engine
// requires. Implementations must make the individual operations
// linearizable with respect to each other; the engine serializes the
// read-pending/mine/commit sequence on top of that.
package store

import (
	"errors"

	"github.com/chainforge/ledger/foundation/ledger"
	"github.com/google/uuid"
)

// ErrEmptyChain is returned by LatestBlock when no blocks exist yet.
var ErrEmptyChain = errors.New("chain is empty")

// ErrDuplicateBlock is returned by AppendBlock when a block with the same
// number already exists.
var ErrDuplicateBlock = errors.New("block number already exists")

// ErrBlockNotFound is returned when the requested block does not exist.
var ErrBlockNotFound = errors.New("block does not exist")

// =============================================================================

// TranFilter selects transactions by settlement state.
type TranFilter int

// The set of supported transaction filters.
const (
	AnyTran TranFilter = iota
	PendingTran
	SettledTran
)

// Storage interface represents the behavior required to be implemented by
// any package providing persistence for blocks and transactions.
type Storage interface {
	AppendBlock(block ledger.Block) error
	LatestBlock() (ledger.Block, error)
	AllBlocks() ([]ledger.Block, error)
	BlocksRange(from uint64, to uint64) ([]ledger.Block, error)
	SaveTransaction(tx ledger.Tran) error
	Transactions(filter TranFilter) ([]ledger.Tran, error)
	SettleTransactions(ids []uuid.UUID, blockNumber uint64) error
	Reset() error
	Close() error
}
