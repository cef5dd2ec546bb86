package state

import (
	"math"

	"github.com/chainforge/ledger/foundation/ledger"
	"github.com/chainforge/ledger/foundation/ledger/store"
)

// statsWindow is the number of recent blocks inspected for mining
// statistics and the summary view.
const statsWindow = 10

// MiningStats reports mining performance over the most recent blocks.
type MiningStats struct {
	TotalBlocks        int       `json:"total_blocks"`
	CurrentDifficulty  int       `json:"current_difficulty"`
	TargetBlockTime    float64   `json:"target_block_time"`
	AverageBlockTime   float64   `json:"average_block_time"`
	RecentBlockTimes   []float64 `json:"recent_block_times"`
	AdjustmentInterval int       `json:"adjustment_interval"`
	NextAdjustmentAt   uint64    `json:"next_adjustment_at_block"`
}

// Summary is the read-only reporting view over the whole ledger.
type Summary struct {
	TotalBlocks           int            `json:"total_blocks"`
	TotalTransactions     int            `json:"total_transactions"`
	PendingTransactions   int            `json:"pending_transactions"`
	SettledTransactions   int            `json:"settled_transactions"`
	TotalValueTransferred ledger.Amount  `json:"total_value_transferred"`
	CurrentDifficulty     int            `json:"current_difficulty"`
	RecentBlocks          []ledger.Block `json:"recent_blocks"`
}

// =============================================================================

// Blocks returns the full chain in index order.
func (s *State) Blocks() ([]ledger.Block, error) {
	return s.storage.AllBlocks()
}

// BlocksRange returns the blocks with numbers in [from, to].
func (s *State) BlocksRange(from uint64, to uint64) ([]ledger.Block, error) {
	return s.storage.BlocksRange(from, to)
}

// PendingTransactions returns the transactions not yet absorbed into a
// block.
func (s *State) PendingTransactions() ([]ledger.Tran, error) {
	return s.storage.Transactions(store.PendingTran)
}

// BalanceOf sums the settled transactions for the address: credits for
// amounts received, debits for amounts sent. Pending transactions never
// affect a balance.
func (s *State) BalanceOf(address string) (ledger.Amount, error) {
	settled, err := s.storage.Transactions(store.SettledTran)
	if err != nil {
		return 0, err
	}

	var balance ledger.Amount
	for _, tx := range settled {
		if tx.Receiver == address {
			balance += tx.Amount
		}
		if tx.Sender == address {
			balance -= tx.Amount
		}
	}

	return balance, nil
}

// MiningStats derives the average inter-block time over the most recent
// window and the next retarget boundary. Pure read.
func (s *State) MiningStats() (MiningStats, error) {
	blocks, err := s.storage.AllBlocks()
	if err != nil {
		return MiningStats{}, err
	}

	s.mu.Lock()
	stats := MiningStats{
		TotalBlocks:        len(blocks),
		CurrentDifficulty:  s.diff.Difficulty(),
		TargetBlockTime:    s.diff.TargetBlockTime().Seconds(),
		AdjustmentInterval: s.diff.AdjustmentInterval(),
	}
	interval := uint64(s.diff.AdjustmentInterval())
	s.mu.Unlock()

	// A zero interval would fault the boundary arithmetic.
	if interval == 0 {
		interval = 1
	}

	stats.NextAdjustmentAt = (uint64(len(blocks))/interval + 1) * interval

	if len(blocks) < 2 {
		return stats, nil
	}

	window := blocks
	if len(window) > statsWindow {
		window = window[len(window)-statsWindow:]
	}

	var total float64
	for i := 1; i < len(window); i++ {
		gap := float64(window[i].TimeStamp) - float64(window[i-1].TimeStamp)
		gap = math.Round(gap*100) / 100
		stats.RecentBlockTimes = append(stats.RecentBlockTimes, gap)
		total += gap
	}

	stats.AverageBlockTime = math.Round(total/float64(len(stats.RecentBlockTimes))*100) / 100

	return stats, nil
}

// Summary reports totals over the whole ledger plus the most recent
// blocks. System minted rewards are excluded from the transferred value.
func (s *State) Summary() (Summary, error) {
	blocks, err := s.storage.AllBlocks()
	if err != nil {
		return Summary{}, err
	}

	trans, err := s.storage.Transactions(store.AnyTran)
	if err != nil {
		return Summary{}, err
	}

	summary := Summary{
		TotalBlocks:       len(blocks),
		TotalTransactions: len(trans),
		CurrentDifficulty: s.Difficulty(),
	}

	for _, tx := range trans {
		switch {
		case tx.Settled:
			summary.SettledTransactions++
			if tx.Sender != ledger.SystemAccount {
				summary.TotalValueTransferred += tx.Amount
			}
		default:
			summary.PendingTransactions++
		}
	}

	recent := blocks
	if len(recent) > statsWindow {
		recent = recent[len(recent)-statsWindow:]
	}
	summary.RecentBlocks = recent

	return summary, nil
}
