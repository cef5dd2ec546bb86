package genesis_test

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/chainforge/ledger/foundation/ledger/genesis"
)

// Success and failure markers.
const (
	success = "✓"
	failed  = "✗"
)

func TestLoad(t *testing.T) {
	t.Log("Given the need to validate genesis settings loading.")
	{
		t.Log("\tTest 0:\tWhen loading a settings file.")
		{
			doc := `{
	"date": "2024-01-01T00:00:00Z",
	"chain_name": "TestChain",
	"difficulty": 3,
	"mining_reward": "25.00",
	"target_block_time": 15,
	"adjustment_interval": 8
}`

			path := filepath.Join(t.TempDir(), "genesis.json")
			if err := os.WriteFile(path, []byte(doc), 0644); err != nil {
				t.Fatalf("\t%s\tTest 0:\tShould be able to write the file: %s", failed, err)
			}

			gen, err := genesis.Load(path)
			if err != nil {
				t.Fatalf("\t%s\tTest 0:\tShould be able to load the file: %s", failed, err)
			}
			t.Logf("\t%s\tTest 0:\tShould be able to load the file.", success)

			if gen.Difficulty != 3 || gen.TargetBlockTime != 15 || gen.AdjustmentInterval != 8 {
				t.Fatalf("\t%s\tTest 0:\tShould carry the difficulty settings.", failed)
			}
			t.Logf("\t%s\tTest 0:\tShould carry the difficulty settings.", success)

			if gen.MiningReward != 25_00 {
				t.Fatalf("\t%s\tTest 0:\tShould parse the reward amount: got %s.", failed, gen.MiningReward)
			}
			t.Logf("\t%s\tTest 0:\tShould parse the reward amount.", success)

			if gen.MarkerMessage() != "Genesis Block - TestChain Initialized" {
				t.Fatalf("\t%s\tTest 0:\tShould derive the marker message: got %q.", failed, gen.MarkerMessage())
			}
			t.Logf("\t%s\tTest 0:\tShould derive the marker message.", success)
		}

		t.Log("\tTest 1:\tWhen no settings file is configured.")
		{
			gen := genesis.Default()

			if gen.Difficulty != 4 || gen.MiningReward != 10_00 || gen.TargetBlockTime != 10 || gen.AdjustmentInterval != 5 {
				t.Fatalf("\t%s\tTest 1:\tShould carry the stock settings.", failed)
			}
			t.Logf("\t%s\tTest 1:\tShould carry the stock settings.", success)
		}

		t.Log("\tTest 2:\tWhen the settings file carries zero timing values.")
		{
			doc := `{
	"chain_name": "TestChain",
	"difficulty": 3,
	"mining_reward": "10.00",
	"target_block_time": 0,
	"adjustment_interval": 0
}`

			path := filepath.Join(t.TempDir(), "genesis.json")
			if err := os.WriteFile(path, []byte(doc), 0644); err != nil {
				t.Fatalf("\t%s\tTest 2:\tShould be able to write the file: %s", failed, err)
			}

			gen, err := genesis.Load(path)
			if err != nil {
				t.Fatalf("\t%s\tTest 2:\tShould be able to load the file: %s", failed, err)
			}

			if gen.AdjustmentInterval != 1 || gen.TargetBlockTime != 1 {
				t.Fatalf("\t%s\tTest 2:\tShould clamp the timing values to 1: got %d, %d.", failed, gen.AdjustmentInterval, gen.TargetBlockTime)
			}
			t.Logf("\t%s\tTest 2:\tShould clamp the timing values to 1.", success)
		}
	}
}
