package ledger_test

import (
	"context"
	"errors"
	"strings"
	"testing"

	"github.com/chainforge/ledger/foundation/ledger"
)

// Success and failure markers.
const (
	success = "✓"
	failed  = "✗"
)

func noopEv(v string, args ...any) {}

func TestHashValue(t *testing.T) {
	t.Log("Given the need to validate the canonical block digest.")
	{
		t.Log("\tTest 0:\tWhen hashing the same block twice.")
		{
			genesis := ledger.NewGenesisBlock(1700000000, "Genesis Block - ChainForge Initialized")

			if genesis.HashValue() != genesis.HashValue() {
				t.Fatalf("\t%s\tTest 0:\tShould produce the same digest for identical content.", failed)
			}
			t.Logf("\t%s\tTest 0:\tShould produce the same digest for identical content.", success)

			if genesis.Hash != genesis.HashValue() {
				t.Fatalf("\t%s\tTest 0:\tShould store the digest on construction.", failed)
			}
			t.Logf("\t%s\tTest 0:\tShould store the digest on construction.", success)

			if len(genesis.Hash) != 64 {
				t.Fatalf("\t%s\tTest 0:\tShould produce a 64 character hex digest: got %d.", failed, len(genesis.Hash))
			}
			t.Logf("\t%s\tTest 0:\tShould produce a 64 character hex digest.", success)
		}

		t.Log("\tTest 1:\tWhen changing any hashed field.")
		{
			genesis := ledger.NewGenesisBlock(1700000000, "Genesis Block - ChainForge Initialized")

			tampered := genesis
			tampered.Nonce++
			if tampered.HashValue() == genesis.HashValue() {
				t.Fatalf("\t%s\tTest 1:\tShould produce a different digest when the nonce changes.", failed)
			}
			t.Logf("\t%s\tTest 1:\tShould produce a different digest when the nonce changes.", success)

			tampered = genesis
			tampered.Data.Message = "changed"
			if tampered.HashValue() == genesis.HashValue() {
				t.Fatalf("\t%s\tTest 1:\tShould produce a different digest when the payload changes.", failed)
			}
			t.Logf("\t%s\tTest 1:\tShould produce a different digest when the payload changes.", success)

			tampered = genesis
			tampered.PrevBlockHash = "deadbeef"
			if tampered.HashValue() == genesis.HashValue() {
				t.Fatalf("\t%s\tTest 1:\tShould produce a different digest when the linkage changes.", failed)
			}
			t.Logf("\t%s\tTest 1:\tShould produce a different digest when the linkage changes.", success)
		}
	}
}

func TestGenesisBlock(t *testing.T) {
	t.Log("Given the need to validate genesis block construction.")
	{
		t.Log("\tTest 0:\tWhen constructing the first block of a chain.")
		{
			genesis := ledger.NewGenesisBlock(1700000000, "Genesis Block - ChainForge Initialized")

			if genesis.Number != 0 {
				t.Fatalf("\t%s\tTest 0:\tShould carry block number 0: got %d.", failed, genesis.Number)
			}
			t.Logf("\t%s\tTest 0:\tShould carry block number 0.", success)

			if genesis.PrevBlockHash != ledger.ZeroHash {
				t.Fatalf("\t%s\tTest 0:\tShould carry the zero hash sentinel: got %q.", failed, genesis.PrevBlockHash)
			}
			t.Logf("\t%s\tTest 0:\tShould carry the zero hash sentinel.", success)

			if genesis.Data.Message != "Genesis Block - ChainForge Initialized" {
				t.Fatalf("\t%s\tTest 0:\tShould carry the marker message: got %q.", failed, genesis.Data.Message)
			}
			t.Logf("\t%s\tTest 0:\tShould carry the marker message.", success)
		}
	}
}

func TestPerformPOW(t *testing.T) {
	t.Log("Given the need to validate the proof of work search.")
	{
		t.Log("\tTest 0:\tWhen mining a block at difficulty 1.")
		{
			genesis := ledger.NewGenesisBlock(1700000000, "marker")
			block := ledger.NewBlock(genesis, 1700000010, ledger.BlockData{
				Trans: []ledger.TranSummary{{Sender: "alice", Receiver: "bob", Amount: "25.50", TimeStamp: 1700000005}},
			})

			if err := block.PerformPOW(context.Background(), 1, 0, noopEv); err != nil {
				t.Fatalf("\t%s\tTest 0:\tShould be able to solve the work problem: %s", failed, err)
			}
			t.Logf("\t%s\tTest 0:\tShould be able to solve the work problem.", success)

			if !strings.HasPrefix(block.Hash, "0") {
				t.Fatalf("\t%s\tTest 0:\tShould produce a hash with the difficulty prefix: got %q.", failed, block.Hash)
			}
			t.Logf("\t%s\tTest 0:\tShould produce a hash with the difficulty prefix.", success)

			if block.Hash != block.HashValue() {
				t.Fatalf("\t%s\tTest 0:\tShould leave the hash consistent with the content.", failed)
			}
			t.Logf("\t%s\tTest 0:\tShould leave the hash consistent with the content.", success)
		}

		t.Log("\tTest 1:\tWhen the context is already cancelled.")
		{
			ctx, cancel := context.WithCancel(context.Background())
			cancel()

			genesis := ledger.NewGenesisBlock(1700000000, "marker")
			block := ledger.NewBlock(genesis, 1700000010, ledger.BlockData{})

			err := block.PerformPOW(ctx, 1, 0, noopEv)
			if !errors.Is(err, ledger.ErrMiningCancelled) {
				t.Fatalf("\t%s\tTest 1:\tShould get ErrMiningCancelled: got %v.", failed, err)
			}
			t.Logf("\t%s\tTest 1:\tShould get ErrMiningCancelled.", success)
		}

		t.Log("\tTest 2:\tWhen the attempt budget is exhausted.")
		{
			genesis := ledger.NewGenesisBlock(1700000000, "marker")
			block := ledger.NewBlock(genesis, 1700000010, ledger.BlockData{})

			err := block.PerformPOW(context.Background(), 10, 5, noopEv)
			if !errors.Is(err, ledger.ErrMiningTimedOut) {
				t.Fatalf("\t%s\tTest 2:\tShould get ErrMiningTimedOut: got %v.", failed, err)
			}
			t.Logf("\t%s\tTest 2:\tShould get ErrMiningTimedOut.", success)
		}
	}
}
