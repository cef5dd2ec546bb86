package memory_test

import (
	"errors"
	"testing"

	"github.com/chainforge/ledger/foundation/ledger"
	"github.com/chainforge/ledger/foundation/ledger/store"
	"github.com/chainforge/ledger/foundation/ledger/store/memory"
	"github.com/google/uuid"
)

// Success and failure markers.
const (
	success = "✓"
	failed  = "✗"
)

func TestBlocks(t *testing.T) {
	t.Log("Given the need to validate block storage.")
	{
		t.Log("\tTest 0:\tWhen appending blocks in chain order.")
		{
			db := memory.New()

			if _, err := db.LatestBlock(); !errors.Is(err, store.ErrEmptyChain) {
				t.Fatalf("\t%s\tTest 0:\tShould get ErrEmptyChain on an empty store: got %v.", failed, err)
			}
			t.Logf("\t%s\tTest 0:\tShould get ErrEmptyChain on an empty store.", success)

			genesis := ledger.NewGenesisBlock(1700000000, "marker")
			if err := db.AppendBlock(genesis); err != nil {
				t.Fatalf("\t%s\tTest 0:\tShould be able to append genesis: %s", failed, err)
			}

			prev := genesis
			for i := 0; i < 4; i++ {
				block := ledger.NewBlock(prev, prev.TimeStamp+10, ledger.BlockData{})
				if err := db.AppendBlock(block); err != nil {
					t.Fatalf("\t%s\tTest 0:\tShould be able to append block %d: %s", failed, block.Number, err)
				}
				prev = block
			}
			t.Logf("\t%s\tTest 0:\tShould be able to append blocks.", success)

			latest, err := db.LatestBlock()
			if err != nil || latest.Number != 4 {
				t.Fatalf("\t%s\tTest 0:\tShould read back block 4 as latest: got %d, %v.", failed, latest.Number, err)
			}
			t.Logf("\t%s\tTest 0:\tShould read back block 4 as latest.", success)

			blocks, err := db.AllBlocks()
			if err != nil || len(blocks) != 5 {
				t.Fatalf("\t%s\tTest 0:\tShould read back 5 blocks: got %d, %v.", failed, len(blocks), err)
			}
			for i, block := range blocks {
				if block.Number != uint64(i) {
					t.Fatalf("\t%s\tTest 0:\tShould read the chain in index order.", failed)
				}
			}
			t.Logf("\t%s\tTest 0:\tShould read the chain in index order.", success)

			ranged, err := db.BlocksRange(1, 3)
			if err != nil || len(ranged) != 3 || ranged[0].Number != 1 || ranged[2].Number != 3 {
				t.Fatalf("\t%s\tTest 0:\tShould read back the range [1,3]: got %d, %v.", failed, len(ranged), err)
			}
			t.Logf("\t%s\tTest 0:\tShould read back the range [1,3].", success)
		}

		t.Log("\tTest 1:\tWhen appending blocks out of order.")
		{
			db := memory.New()

			genesis := ledger.NewGenesisBlock(1700000000, "marker")
			if err := db.AppendBlock(genesis); err != nil {
				t.Fatalf("\t%s\tTest 1:\tShould be able to append genesis: %s", failed, err)
			}

			if err := db.AppendBlock(genesis); !errors.Is(err, store.ErrDuplicateBlock) {
				t.Fatalf("\t%s\tTest 1:\tShould reject a duplicate block: got %v.", failed, err)
			}
			t.Logf("\t%s\tTest 1:\tShould reject a duplicate block.", success)

			gap := ledger.Block{Number: 5, PrevBlockHash: genesis.Hash}
			if err := db.AppendBlock(gap); err == nil {
				t.Fatalf("\t%s\tTest 1:\tShould reject a block that skips numbers.", failed)
			}
			t.Logf("\t%s\tTest 1:\tShould reject a block that skips numbers.", success)
		}
	}
}

func TestTransactions(t *testing.T) {
	t.Log("Given the need to validate transaction storage.")
	{
		t.Log("\tTest 0:\tWhen saving and settling transactions.")
		{
			db := memory.New()

			tx1, err := ledger.NewTran("alice", "bob", 10_00, 1700000000)
			if err != nil {
				t.Fatalf("\t%s\tTest 0:\tShould be able to create a transaction: %s", failed, err)
			}
			tx2, err := ledger.NewTran("bob", "carol", 5_00, 1700000001)
			if err != nil {
				t.Fatalf("\t%s\tTest 0:\tShould be able to create a transaction: %s", failed, err)
			}

			if err := db.SaveTransaction(tx1); err != nil {
				t.Fatalf("\t%s\tTest 0:\tShould be able to save a transaction: %s", failed, err)
			}
			if err := db.SaveTransaction(tx2); err != nil {
				t.Fatalf("\t%s\tTest 0:\tShould be able to save a transaction: %s", failed, err)
			}
			t.Logf("\t%s\tTest 0:\tShould be able to save transactions.", success)

			pending, err := db.Transactions(store.PendingTran)
			if err != nil || len(pending) != 2 {
				t.Fatalf("\t%s\tTest 0:\tShould read back 2 pending transactions: got %d, %v.", failed, len(pending), err)
			}
			if pending[0].ID != tx1.ID || pending[1].ID != tx2.ID {
				t.Fatalf("\t%s\tTest 0:\tShould keep insertion order.", failed)
			}
			t.Logf("\t%s\tTest 0:\tShould read back 2 pending transactions in insertion order.", success)

			if err := db.SettleTransactions([]uuid.UUID{tx1.ID}, 7); err != nil {
				t.Fatalf("\t%s\tTest 0:\tShould be able to settle a transaction: %s", failed, err)
			}
			t.Logf("\t%s\tTest 0:\tShould be able to settle a transaction.", success)

			settled, err := db.Transactions(store.SettledTran)
			if err != nil || len(settled) != 1 {
				t.Fatalf("\t%s\tTest 0:\tShould read back 1 settled transaction: got %d, %v.", failed, len(settled), err)
			}
			if settled[0].ID != tx1.ID || settled[0].BlockNumber != 7 {
				t.Fatalf("\t%s\tTest 0:\tShould record the owning block number: got %d.", failed, settled[0].BlockNumber)
			}
			t.Logf("\t%s\tTest 0:\tShould record the owning block number.", success)

			all, err := db.Transactions(store.AnyTran)
			if err != nil || len(all) != 2 {
				t.Fatalf("\t%s\tTest 0:\tShould read back all transactions: got %d, %v.", failed, len(all), err)
			}
			t.Logf("\t%s\tTest 0:\tShould read back all transactions.", success)
		}

		t.Log("\tTest 1:\tWhen resetting the store.")
		{
			db := memory.New()

			if err := db.AppendBlock(ledger.NewGenesisBlock(1700000000, "marker")); err != nil {
				t.Fatalf("\t%s\tTest 1:\tShould be able to append genesis: %s", failed, err)
			}
			tx, err := ledger.NewTran("alice", "bob", 10_00, 1700000000)
			if err != nil {
				t.Fatalf("\t%s\tTest 1:\tShould be able to create a transaction: %s", failed, err)
			}
			if err := db.SaveTransaction(tx); err != nil {
				t.Fatalf("\t%s\tTest 1:\tShould be able to save a transaction: %s", failed, err)
			}

			if err := db.Reset(); err != nil {
				t.Fatalf("\t%s\tTest 1:\tShould be able to reset: %s", failed, err)
			}
			t.Logf("\t%s\tTest 1:\tShould be able to reset.", success)

			if _, err := db.LatestBlock(); !errors.Is(err, store.ErrEmptyChain) {
				t.Fatalf("\t%s\tTest 1:\tShould leave the chain empty: got %v.", failed, err)
			}
			trans, _ := db.Transactions(store.AnyTran)
			if len(trans) != 0 {
				t.Fatalf("\t%s\tTest 1:\tShould leave no transactions: got %d.", failed, len(trans))
			}
			t.Logf("\t%s\tTest 1:\tShould leave the store empty.", success)
		}
	}
}
