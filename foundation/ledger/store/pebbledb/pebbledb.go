// Package pebbledb implements the storage contract on top of a pebble
// key/value database so the chain survives restarts.
package pebbledb

import (
	"encoding/binary"
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"sort"

	"github.com/chainforge/ledger/foundation/ledger"
	"github.com/chainforge/ledger/foundation/ledger/store"
	"github.com/cockroachdb/pebble"
	"github.com/google/uuid"
)

// Key prefixes simulating column families. Blocks are keyed by their
// big-endian number so iteration order is chain order.
const (
	prefixBlocks = "blk:"
	prefixTrans  = "txn:"
)

// PebbleDB represents the durable storage implementation. It implements
// the store.Storage interface.
type PebbleDB struct {
	db *pebble.DB
}

// New opens or creates the database at the specified path.
func New(path string) (*PebbleDB, error) {
	if err := os.MkdirAll(path, 0755); err != nil {
		return nil, fmt.Errorf("creating database directory: %w", err)
	}

	db, err := pebble.Open(path, &pebble.Options{})
	if err != nil {
		return nil, fmt.Errorf("opening database: %w", err)
	}

	return &PebbleDB{db: db}, nil
}

// Close closes the underlying database.
func (p *PebbleDB) Close() error {
	return p.db.Close()
}

// AppendBlock stores the block keyed by its number. A block that already
// exists at that number is rejected.
func (p *PebbleDB) AppendBlock(block ledger.Block) error {
	key := blockKey(block.Number)

	_, closer, err := p.db.Get(key)
	if err == nil {
		closer.Close()
		return store.ErrDuplicateBlock
	}
	if !errors.Is(err, pebble.ErrNotFound) {
		return err
	}

	data, err := json.Marshal(block)
	if err != nil {
		return err
	}

	return p.db.Set(key, data, pebble.Sync)
}

// LatestBlock returns the block with the highest number.
func (p *PebbleDB) LatestBlock() (ledger.Block, error) {
	iter, err := p.newPrefixIter(prefixBlocks)
	if err != nil {
		return ledger.Block{}, err
	}
	defer iter.Close()

	if !iter.Last() {
		return ledger.Block{}, store.ErrEmptyChain
	}

	var block ledger.Block
	if err := json.Unmarshal(iter.Value(), &block); err != nil {
		return ledger.Block{}, err
	}

	return block, nil
}

// AllBlocks returns every block in index order.
func (p *PebbleDB) AllBlocks() ([]ledger.Block, error) {
	iter, err := p.newPrefixIter(prefixBlocks)
	if err != nil {
		return nil, err
	}
	defer iter.Close()

	var blocks []ledger.Block
	for valid := iter.First(); valid; valid = iter.Next() {
		var block ledger.Block
		if err := json.Unmarshal(iter.Value(), &block); err != nil {
			return nil, err
		}
		blocks = append(blocks, block)
	}

	return blocks, nil
}

// BlocksRange returns the blocks with numbers in [from, to] in index
// order.
func (p *PebbleDB) BlocksRange(from uint64, to uint64) ([]ledger.Block, error) {
	if to < from {
		return nil, nil
	}

	iter, err := p.db.NewIter(&pebble.IterOptions{
		LowerBound: blockKey(from),
		UpperBound: blockKey(to + 1),
	})
	if err != nil {
		return nil, err
	}
	defer iter.Close()

	var blocks []ledger.Block
	for valid := iter.First(); valid; valid = iter.Next() {
		var block ledger.Block
		if err := json.Unmarshal(iter.Value(), &block); err != nil {
			return nil, err
		}
		blocks = append(blocks, block)
	}

	return blocks, nil
}

// SaveTransaction stores a new transaction keyed by its id.
func (p *PebbleDB) SaveTransaction(tx ledger.Tran) error {
	data, err := json.Marshal(tx)
	if err != nil {
		return err
	}

	return p.db.Set(tranKey(tx.ID), data, pebble.Sync)
}

// Transactions returns the transactions matching the filter. The order is
// by timestamp then id so reads are deterministic across restarts.
func (p *PebbleDB) Transactions(filter store.TranFilter) ([]ledger.Tran, error) {
	iter, err := p.newPrefixIter(prefixTrans)
	if err != nil {
		return nil, err
	}
	defer iter.Close()

	var trans []ledger.Tran
	for valid := iter.First(); valid; valid = iter.Next() {
		var tx ledger.Tran
		if err := json.Unmarshal(iter.Value(), &tx); err != nil {
			return nil, err
		}

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

	sortTrans(trans)

	return trans, nil
}

// SettleTransactions flips the specified transactions to settled in a
// single batch commit.
func (p *PebbleDB) SettleTransactions(ids []uuid.UUID, blockNumber uint64) error {
	batch := p.db.NewBatch()
	defer batch.Close()

	for _, id := range ids {
		key := tranKey(id)

		value, closer, err := p.db.Get(key)
		if errors.Is(err, pebble.ErrNotFound) {
			continue
		}
		if err != nil {
			return err
		}

		var tx ledger.Tran
		err = json.Unmarshal(value, &tx)
		closer.Close()
		if err != nil {
			return err
		}

		tx.Settled = true
		tx.BlockNumber = blockNumber

		data, err := json.Marshal(tx)
		if err != nil {
			return err
		}

		if err := batch.Set(key, data, nil); err != nil {
			return err
		}
	}

	return batch.Commit(pebble.Sync)
}

// Reset wipes all blocks and transactions.
func (p *PebbleDB) Reset() error {
	if err := p.deletePrefix(prefixBlocks); err != nil {
		return err
	}

	return p.deletePrefix(prefixTrans)
}

// =============================================================================

func blockKey(num uint64) []byte {
	key := make([]byte, len(prefixBlocks)+8)
	copy(key, prefixBlocks)
	binary.BigEndian.PutUint64(key[len(prefixBlocks):], num)
	return key
}

func tranKey(id uuid.UUID) []byte {
	return append([]byte(prefixTrans), id[:]...)
}

func (p *PebbleDB) newPrefixIter(prefix string) (*pebble.Iterator, error) {
	return p.db.NewIter(&pebble.IterOptions{
		LowerBound: []byte(prefix),
		UpperBound: prefixUpperBound([]byte(prefix)),
	})
}

func (p *PebbleDB) deletePrefix(prefix string) error {
	return p.db.DeleteRange([]byte(prefix), prefixUpperBound([]byte(prefix)), pebble.Sync)
}

// prefixUpperBound returns the exclusive upper bound for prefix iteration.
func prefixUpperBound(prefix []byte) []byte {
	upper := make([]byte, len(prefix))
	copy(upper, prefix)
	for i := len(upper) - 1; i >= 0; i-- {
		if upper[i] < 0xff {
			upper[i]++
			return upper[:i+1]
		}
	}
	return nil
}

// sortTrans orders transactions by timestamp, breaking ties by id so the
// order is stable across restarts.
func sortTrans(trans []ledger.Tran) {
	sort.SliceStable(trans, func(i, j int) bool {
		if trans[i].TimeStamp != trans[j].TimeStamp {
			return trans[i].TimeStamp < trans[j].TimeStamp
		}
		return trans[i].ID.String() < trans[j].ID.String()
	})
}
