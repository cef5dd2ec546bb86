package pebbledb_test

import (
	"errors"
	"testing"

	"github.com/chainforge/ledger/foundation/ledger"
	"github.com/chainforge/ledger/foundation/ledger/store"
	"github.com/chainforge/ledger/foundation/ledger/store/pebbledb"
	"github.com/google/uuid"
)

// Success and failure markers.
const (
	success = "✓"
	failed  = "✗"
)

func TestPersistence(t *testing.T) {
	t.Log("Given the need to validate the chain survives a restart.")
	{
		t.Log("\tTest 0:\tWhen writing, closing and reopening the database.")
		{
			path := t.TempDir()

			db, err := pebbledb.New(path)
			if err != nil {
				t.Fatalf("\t%s\tTest 0:\tShould be able to open the database: %s", failed, err)
			}

			genesis := ledger.NewGenesisBlock(1700000000, "marker")
			if err := db.AppendBlock(genesis); err != nil {
				t.Fatalf("\t%s\tTest 0:\tShould be able to append genesis: %s", failed, err)
			}
			block := ledger.NewBlock(genesis, 1700000010, ledger.BlockData{
				Trans: []ledger.TranSummary{{Sender: "alice", Receiver: "bob", Amount: "10.00", TimeStamp: 1700000005}},
			})
			if err := db.AppendBlock(block); err != nil {
				t.Fatalf("\t%s\tTest 0:\tShould be able to append block 1: %s", failed, err)
			}

			tx, err := ledger.NewTran("alice", "bob", 10_00, 1700000005)
			if err != nil {
				t.Fatalf("\t%s\tTest 0:\tShould be able to create a transaction: %s", failed, err)
			}
			if err := db.SaveTransaction(tx); err != nil {
				t.Fatalf("\t%s\tTest 0:\tShould be able to save a transaction: %s", failed, err)
			}
			if err := db.SettleTransactions([]uuid.UUID{tx.ID}, block.Number); err != nil {
				t.Fatalf("\t%s\tTest 0:\tShould be able to settle the transaction: %s", failed, err)
			}

			if err := db.Close(); err != nil {
				t.Fatalf("\t%s\tTest 0:\tShould be able to close the database: %s", failed, err)
			}
			t.Logf("\t%s\tTest 0:\tShould be able to write and close the database.", success)

			db, err = pebbledb.New(path)
			if err != nil {
				t.Fatalf("\t%s\tTest 0:\tShould be able to reopen the database: %s", failed, err)
			}
			defer db.Close()
			t.Logf("\t%s\tTest 0:\tShould be able to reopen the database.", success)

			blocks, err := db.AllBlocks()
			if err != nil || len(blocks) != 2 {
				t.Fatalf("\t%s\tTest 0:\tShould read back 2 blocks: got %d, %v.", failed, len(blocks), err)
			}
			if blocks[1].Hash != block.Hash {
				t.Fatalf("\t%s\tTest 0:\tShould read back identical block content.", failed)
			}
			t.Logf("\t%s\tTest 0:\tShould read back identical block content.", success)

			latest, err := db.LatestBlock()
			if err != nil || latest.Number != 1 {
				t.Fatalf("\t%s\tTest 0:\tShould read back block 1 as latest: got %d, %v.", failed, latest.Number, err)
			}
			t.Logf("\t%s\tTest 0:\tShould read back block 1 as latest.", success)

			settled, err := db.Transactions(store.SettledTran)
			if err != nil || len(settled) != 1 || settled[0].BlockNumber != 1 {
				t.Fatalf("\t%s\tTest 0:\tShould read back the settled transaction: got %d, %v.", failed, len(settled), err)
			}
			t.Logf("\t%s\tTest 0:\tShould read back the settled transaction.", success)
		}
	}
}

func TestBlockOrdering(t *testing.T) {
	t.Log("Given the need to validate block iteration order.")
	{
		t.Log("\tTest 0:\tWhen storing more blocks than a single key byte holds.")
		{
			db, err := pebbledb.New(t.TempDir())
			if err != nil {
				t.Fatalf("\t%s\tTest 0:\tShould be able to open the database: %s", failed, err)
			}
			defer db.Close()

			// Big-endian keys must keep numeric order past one byte.
			prev := ledger.NewGenesisBlock(1700000000, "marker")
			if err := db.AppendBlock(prev); err != nil {
				t.Fatalf("\t%s\tTest 0:\tShould be able to append genesis: %s", failed, err)
			}
			for i := 1; i <= 300; i++ {
				block := ledger.NewBlock(prev, prev.TimeStamp+1, ledger.BlockData{})
				if err := db.AppendBlock(block); err != nil {
					t.Fatalf("\t%s\tTest 0:\tShould be able to append block %d: %s", failed, i, err)
				}
				prev = block
			}

			blocks, err := db.AllBlocks()
			if err != nil || len(blocks) != 301 {
				t.Fatalf("\t%s\tTest 0:\tShould read back 301 blocks: got %d, %v.", failed, len(blocks), err)
			}
			for i, block := range blocks {
				if block.Number != uint64(i) {
					t.Fatalf("\t%s\tTest 0:\tShould iterate in numeric order: got %d at position %d.", failed, block.Number, i)
				}
			}
			t.Logf("\t%s\tTest 0:\tShould iterate in numeric order.", success)

			ranged, err := db.BlocksRange(250, 260)
			if err != nil || len(ranged) != 11 || ranged[0].Number != 250 {
				t.Fatalf("\t%s\tTest 0:\tShould read back the range [250,260]: got %d, %v.", failed, len(ranged), err)
			}
			t.Logf("\t%s\tTest 0:\tShould read back the range [250,260].", success)

			if err := db.AppendBlock(blocks[100]); !errors.Is(err, store.ErrDuplicateBlock) {
				t.Fatalf("\t%s\tTest 0:\tShould reject a duplicate block: got %v.", failed, err)
			}
			t.Logf("\t%s\tTest 0:\tShould reject a duplicate block.", success)
		}
	}
}

func TestReset(t *testing.T) {
	t.Log("Given the need to validate the destructive reset.")
	{
		t.Log("\tTest 0:\tWhen resetting a populated database.")
		{
			db, err := pebbledb.New(t.TempDir())
			if err != nil {
				t.Fatalf("\t%s\tTest 0:\tShould be able to open the database: %s", failed, err)
			}
			defer db.Close()

			if err := db.AppendBlock(ledger.NewGenesisBlock(1700000000, "marker")); err != nil {
				t.Fatalf("\t%s\tTest 0:\tShould be able to append genesis: %s", failed, err)
			}
			tx, err := ledger.NewTran("alice", "bob", 10_00, 1700000000)
			if err != nil {
				t.Fatalf("\t%s\tTest 0:\tShould be able to create a transaction: %s", failed, err)
			}
			if err := db.SaveTransaction(tx); err != nil {
				t.Fatalf("\t%s\tTest 0:\tShould be able to save a transaction: %s", failed, err)
			}

			if err := db.Reset(); err != nil {
				t.Fatalf("\t%s\tTest 0:\tShould be able to reset: %s", failed, err)
			}
			t.Logf("\t%s\tTest 0:\tShould be able to reset.", success)

			if _, err := db.LatestBlock(); !errors.Is(err, store.ErrEmptyChain) {
				t.Fatalf("\t%s\tTest 0:\tShould leave the chain empty: got %v.", failed, err)
			}
			trans, _ := db.Transactions(store.AnyTran)
			if len(trans) != 0 {
				t.Fatalf("\t%s\tTest 0:\tShould leave no transactions: got %d.", failed, len(trans))
			}
			t.Logf("\t%s\tTest 0:\tShould leave the store empty.", success)
		}
	}
}
