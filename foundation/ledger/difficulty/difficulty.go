// Package difficulty maintains the proof of work difficulty state and the
// Bitcoin style retarget algorithm that adjusts it toward a target block
// interval.
package difficulty

import (
	"errors"
	"math"
	"time"

	"github.com/chainforge/ledger/foundation/ledger"
)

// Difficulty bounds. The retarget algorithm and the manual override both
// clamp to this range so proof of work search times stay bounded.
const (
	MinDifficulty = 1
	MaxDifficulty = 10
)

// Retarget thresholds. Mining faster than half the expected window raises
// the difficulty, slower than double lowers it.
const (
	fastRatio = 0.5
	slowRatio = 2.0
)

// ErrInvalidDifficulty is returned when a manual override is outside the
// supported range.
var ErrInvalidDifficulty = errors.New("difficulty must be between 1 and 10")

// =============================================================================

// State identifies the result of a retarget evaluation.
type State int

// The set of retarget evaluation results.
const (
	NotEnoughBlocks State = iota // The chain is shorter than the adjustment interval.
	NotAtBoundary                // The latest block is not at an interval boundary.
	WithinTolerance              // Mining speed is acceptable, difficulty unchanged.
	Adjusted                     // The difficulty was changed.
)

// String implements the fmt.Stringer interface.
func (s State) String() string {
	switch s {
	case NotEnoughBlocks:
		return "not enough blocks to adjust difficulty"
	case NotAtBoundary:
		return "not at adjustment interval"
	case WithinTolerance:
		return "difficulty unchanged (mining time acceptable)"
	case Adjusted:
		return "difficulty adjusted"
	}
	return "unknown"
}

// Stats carries the measurements behind a retarget decision.
type Stats struct {
	BlocksAnalyzed int     `json:"blocks_analyzed"`
	ActualTime     float64 `json:"actual_time"`
	ExpectedTime   float64 `json:"expected_time"`
	Ratio          float64 `json:"ratio"`
}

// Outcome represents the result of a retarget evaluation.
type Outcome struct {
	State  State  `json:"-"`
	Old    int    `json:"old_difficulty"`
	New    int    `json:"new_difficulty"`
	Reason string `json:"reason,omitempty"`
	Stats  Stats  `json:"stats"`
}

// =============================================================================

// Controller tracks the current difficulty, the target block interval and
// the retarget cadence. The controller is not safe for concurrent use by
// itself, serialization is owned by the state aggregate that holds it.
type Controller struct {
	difficulty         int
	targetBlockTime    time.Duration
	adjustmentInterval int
}

// New constructs a controller with the specified starting values. Out of
// range starting difficulty is clamped rather than rejected since it comes
// from configuration, not a caller.
func New(diff int, targetBlockTime time.Duration, adjustmentInterval int) *Controller {
	if diff < MinDifficulty {
		diff = MinDifficulty
	}
	if diff > MaxDifficulty {
		diff = MaxDifficulty
	}

	return &Controller{
		difficulty:         diff,
		targetBlockTime:    targetBlockTime,
		adjustmentInterval: adjustmentInterval,
	}
}

// Difficulty returns the current difficulty.
func (c *Controller) Difficulty() int {
	return c.difficulty
}

// TargetBlockTime returns the desired interval between blocks.
func (c *Controller) TargetBlockTime() time.Duration {
	return c.targetBlockTime
}

// AdjustmentInterval returns the number of blocks between retarget
// evaluations.
func (c *Controller) AdjustmentInterval() int {
	return c.adjustmentInterval
}

// SetDifficulty replaces the difficulty. Values outside [1,10] are
// rejected with ErrInvalidDifficulty.
func (c *Controller) SetDifficulty(diff int) error {
	if diff < MinDifficulty || diff > MaxDifficulty {
		return ErrInvalidDifficulty
	}

	c.difficulty = diff
	return nil
}

// SetTargetBlockTime replaces the desired interval between blocks. Bounds
// are enforced by the caller facing validation layer.
func (c *Controller) SetTargetBlockTime(d time.Duration) {
	c.targetBlockTime = d
}

// SetAdjustmentInterval replaces the retarget cadence. Bounds are enforced
// by the caller facing validation layer.
func (c *Controller) SetAdjustmentInterval(n int) {
	c.adjustmentInterval = n
}

// Evaluate runs the retarget algorithm against the chain. Retargets only
// occur at fixed block count boundaries, never mid window. The chain must
// be in index order.
func (c *Controller) Evaluate(blocks []ledger.Block) Outcome {
	unchanged := Outcome{Old: c.difficulty, New: c.difficulty}

	if len(blocks) == 0 {
		unchanged.State = NotEnoughBlocks
		return unchanged
	}

	latest := blocks[len(blocks)-1]
	interval := c.adjustmentInterval

	if latest.Number < uint64(interval) {
		unchanged.State = NotEnoughBlocks
		return unchanged
	}

	if (latest.Number+1)%uint64(interval) != 0 {
		unchanged.State = NotAtBoundary
		return unchanged
	}

	if len(blocks) < interval {
		unchanged.State = NotEnoughBlocks
		return unchanged
	}

	window := blocks[len(blocks)-interval:]
	actual := float64(window[len(window)-1].TimeStamp) - float64(window[0].TimeStamp)
	expected := c.targetBlockTime.Seconds() * float64(interval-1)

	// A zero expected window is an engine misconfiguration. Report the
	// difficulty as unchanged rather than dividing by zero.
	if expected == 0 {
		unchanged.State = WithinTolerance
		return unchanged
	}

	ratio := actual / expected

	stats := Stats{
		BlocksAnalyzed: interval,
		ActualTime:     round2(actual),
		ExpectedTime:   round2(expected),
		Ratio:          round2(ratio),
	}

	old := c.difficulty

	switch {
	case ratio < fastRatio:
		c.difficulty = min(MaxDifficulty, c.difficulty+1)
		return Outcome{
			State:  Adjusted,
			Old:    old,
			New:    c.difficulty,
			Reason: "increased (blocks mined too fast)",
			Stats:  stats,
		}

	case ratio > slowRatio:
		c.difficulty = max(MinDifficulty, c.difficulty-1)
		return Outcome{
			State:  Adjusted,
			Old:    old,
			New:    c.difficulty,
			Reason: "decreased (blocks mined too slow)",
			Stats:  stats,
		}
	}

	unchanged.State = WithinTolerance
	unchanged.Stats = stats
	return unchanged
}

// round2 rounds to two decimal places for reporting.
func round2(v float64) float64 {
	return math.Round(v*100) / 100
}
