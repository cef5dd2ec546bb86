// Package genesis maintains access to the genesis settings file.
package genesis

import (
	"encoding/json"
	"os"
	"time"

	"github.com/chainforge/ledger/foundation/ledger"
)

// Genesis represents the chain settings the node boots with. The
// difficulty related values are starting points, the running values are
// owned by the difficulty controller afterwards.
type Genesis struct {
	Date               time.Time     `json:"date"`
	ChainName          string        `json:"chain_name"`          // Recorded in the genesis block marker payload.
	Difficulty         int           `json:"difficulty"`          // Leading zero characters required to solve the work problem.
	MiningReward       ledger.Amount `json:"mining_reward"`       // Reward credited to the miner for sealing a block.
	TargetBlockTime    int           `json:"target_block_time"`   // Desired seconds between blocks.
	AdjustmentInterval int           `json:"adjustment_interval"` // Blocks between difficulty retarget evaluations.
}

// =============================================================================

// Load opens and consumes the genesis settings file.
func Load(path string) (Genesis, error) {
	content, err := os.ReadFile(path)
	if err != nil {
		return Genesis{}, err
	}

	var genesis Genesis
	if err := json.Unmarshal(content, &genesis); err != nil {
		return Genesis{}, err
	}

	// These come from configuration, not a caller, so clamp rather than
	// reject. The difficulty itself is clamped by the controller.
	if genesis.AdjustmentInterval < 1 {
		genesis.AdjustmentInterval = 1
	}
	if genesis.TargetBlockTime < 1 {
		genesis.TargetBlockTime = 1
	}

	return genesis, nil
}

// Default returns the settings the original chain shipped with. Used when
// no genesis file is configured.
func Default() Genesis {
	return Genesis{
		Date:               time.Date(2024, time.January, 1, 0, 0, 0, 0, time.UTC),
		ChainName:          "ChainForge",
		Difficulty:         4,
		MiningReward:       10_00,
		TargetBlockTime:    10,
		AdjustmentInterval: 5,
	}
}

// MarkerMessage returns the payload message recorded in the genesis block.
func (g Genesis) MarkerMessage() string {
	return "Genesis Block - " + g.ChainName + " Initialized"
}
