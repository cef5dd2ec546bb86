// Package private maintains the group of handlers for node administration.
package private

import (
	"context"
	"errors"
	"fmt"
	"math/rand"
	"net/http"
	"time"

	"github.com/chainforge/ledger/business/sys/metrics"
	"github.com/chainforge/ledger/business/sys/validate"
	v1 "github.com/chainforge/ledger/business/web/v1"
	"github.com/chainforge/ledger/foundation/ledger"
	"github.com/chainforge/ledger/foundation/ledger/difficulty"
	"github.com/chainforge/ledger/foundation/ledger/state"
	"github.com/chainforge/ledger/foundation/web"
	"go.uber.org/zap"
)

// fixtureAccounts are the account names used when generating test
// transactions.
var fixtureAccounts = []string{"alice", "bob", "carol", "dave", "erin", "frank", "grace", "heidi"}

// Handlers manages the set of node administration endpoints.
type Handlers struct {
	Log   *zap.SugaredLogger
	State *state.State
}

// Genesis initializes the chain with its first block.
func (h Handlers) Genesis(ctx context.Context, w http.ResponseWriter, r *http.Request) error {
	block, err := h.State.CreateGenesis()
	if err != nil {
		if errors.Is(err, state.ErrAlreadyInitialized) {
			return v1.NewRequestError(err, http.StatusBadRequest)
		}
		return err
	}

	resp := struct {
		Message string       `json:"message"`
		Block   ledger.Block `json:"block"`
	}{
		Message: "chain initialized",
		Block:   block,
	}

	return web.Respond(ctx, w, resp, http.StatusOK)
}

// SetDifficulty replaces the mining difficulty.
func (h Handlers) SetDifficulty(ctx context.Context, w http.ResponseWriter, r *http.Request) error {
	var sd setDifficulty
	if err := web.Decode(r, &sd); err != nil {
		return v1.NewRequestError(err, http.StatusBadRequest)
	}
	if err := validate.Check(sd); err != nil {
		return err
	}

	if err := h.State.SetDifficulty(sd.Difficulty); err != nil {
		if errors.Is(err, difficulty.ErrInvalidDifficulty) {
			return v1.NewRequestError(err, http.StatusBadRequest)
		}
		return err
	}

	resp := struct {
		Message    string `json:"message"`
		Difficulty int    `json:"difficulty"`
	}{
		Message:    fmt.Sprintf("difficulty set to %d", sd.Difficulty),
		Difficulty: sd.Difficulty,
	}

	return web.Respond(ctx, w, resp, http.StatusOK)
}

// SetTargetTime replaces the desired interval between blocks.
func (h Handlers) SetTargetTime(ctx context.Context, w http.ResponseWriter, r *http.Request) error {
	var st setTargetTime
	if err := web.Decode(r, &st); err != nil {
		return v1.NewRequestError(err, http.StatusBadRequest)
	}
	if err := validate.Check(st); err != nil {
		return err
	}

	h.State.SetTargetBlockTime(time.Duration(st.TargetBlockTime) * time.Second)

	resp := struct {
		Message         string `json:"message"`
		TargetBlockTime int    `json:"target_block_time"`
	}{
		Message:         fmt.Sprintf("target block time set to %ds", st.TargetBlockTime),
		TargetBlockTime: st.TargetBlockTime,
	}

	return web.Respond(ctx, w, resp, http.StatusOK)
}

// SetInterval replaces the retarget cadence.
func (h Handlers) SetInterval(ctx context.Context, w http.ResponseWriter, r *http.Request) error {
	var si setInterval
	if err := web.Decode(r, &si); err != nil {
		return v1.NewRequestError(err, http.StatusBadRequest)
	}
	if err := validate.Check(si); err != nil {
		return err
	}

	h.State.SetAdjustmentInterval(si.AdjustmentInterval)

	resp := struct {
		Message            string `json:"message"`
		AdjustmentInterval int    `json:"adjustment_interval"`
	}{
		Message:            fmt.Sprintf("adjustment interval set to %d", si.AdjustmentInterval),
		AdjustmentInterval: si.AdjustmentInterval,
	}

	return web.Respond(ctx, w, resp, http.StatusOK)
}

// Retarget runs the difficulty retarget evaluation on demand.
func (h Handlers) Retarget(ctx context.Context, w http.ResponseWriter, r *http.Request) error {
	outcome, err := h.State.EvaluateRetarget()
	if err != nil {
		return err
	}

	return web.Respond(ctx, w, outcome, http.StatusOK)
}

// BatchTrans generates a batch of fixture transactions between random
// accounts with amounts in [10, 500].
func (h Handlers) BatchTrans(ctx context.Context, w http.ResponseWriter, r *http.Request) error {
	var bt batchTrans
	if err := web.Decode(r, &bt); err != nil {
		return v1.NewRequestError(err, http.StatusBadRequest)
	}
	if err := validate.Check(bt); err != nil {
		return err
	}

	created := make([]string, 0, bt.Count)
	for i := 0; i < bt.Count; i++ {
		tx, err := h.submitFixtureTran()
		if err != nil {
			return err
		}
		created = append(created, tx.ID.String())
	}

	resp := struct {
		Message string   `json:"message"`
		Count   int      `json:"count"`
		Created []string `json:"created"`
	}{
		Message: fmt.Sprintf("created %d transactions", bt.Count),
		Count:   bt.Count,
		Created: created,
	}

	return web.Respond(ctx, w, resp, http.StatusOK)
}

// BatchMine mines a run of blocks back to back. When the pending pool is
// empty before a round, a handful of fixture transactions are seeded so the
// round has work to seal.
func (h Handlers) BatchMine(ctx context.Context, w http.ResponseWriter, r *http.Request) error {
	v, err := web.GetValues(ctx)
	if err != nil {
		return web.NewShutdownError("web value missing from context")
	}

	var bm batchMine
	if err := web.Decode(r, &bm); err != nil {
		return v1.NewRequestError(err, http.StatusBadRequest)
	}
	if err := validate.Check(bm); err != nil {
		return err
	}

	type minedBlock struct {
		Number     uint64 `json:"number"`
		Hash       string `json:"hash"`
		Trans      int    `json:"transactions"`
		Difficulty int    `json:"difficulty"`
	}

	mined := make([]minedBlock, 0, bm.Count)
	var adjustments []difficulty.Outcome

	for i := 0; i < bm.Count; i++ {
		pending, err := h.State.PendingTransactions()
		if err != nil {
			return err
		}

		if len(pending) == 0 {
			seed := 3 + rand.Intn(6)
			for j := 0; j < seed; j++ {
				if _, err := h.submitFixtureTran(); err != nil {
					return err
				}
			}
		}

		diff := h.State.Difficulty()

		blk, outcome, err := h.State.MinePending(ctx, bm.MinerAddress, bm.AutoAdjust)
		if err != nil {
			if errors.Is(err, ledger.ErrMiningTimedOut) {
				return v1.NewRequestError(err, http.StatusServiceUnavailable)
			}
			return err
		}

		metrics.AddBlocksMined(ctx)
		h.Log.Infow("batch mine", "traceid", v.TraceID, "round", i+1, "block", blk.Number)

		mined = append(mined, minedBlock{
			Number:     blk.Number,
			Hash:       blk.Hash,
			Trans:      len(blk.Data.Trans),
			Difficulty: diff,
		})

		if outcome.State == difficulty.Adjusted {
			adjustments = append(adjustments, outcome)
		}
	}

	resp := struct {
		Message     string               `json:"message"`
		Blocks      []minedBlock         `json:"blocks"`
		Adjustments []difficulty.Outcome `json:"difficulty_adjustments,omitempty"`
	}{
		Message:     fmt.Sprintf("mined %d blocks", len(mined)),
		Blocks:      mined,
		Adjustments: adjustments,
	}

	return web.Respond(ctx, w, resp, http.StatusOK)
}

// Reset wipes the chain and all transactions. The caller must explicitly
// confirm the operation.
func (h Handlers) Reset(ctx context.Context, w http.ResponseWriter, r *http.Request) error {
	var rr resetRequest
	if err := web.Decode(r, &rr); err != nil {
		return v1.NewRequestError(err, http.StatusBadRequest)
	}
	if err := validate.Check(rr); err != nil {
		return err
	}

	if err := h.State.Reset(); err != nil {
		return err
	}

	h.Log.Infow("ledger reset")

	resp := struct {
		Message string `json:"message"`
	}{
		Message: "ledger reset to genesis settings",
	}

	return web.Respond(ctx, w, resp, http.StatusOK)
}

// submitFixtureTran records one random transaction between two distinct
// fixture accounts.
func (h Handlers) submitFixtureTran() (ledger.Tran, error) {
	si := rand.Intn(len(fixtureAccounts))
	ri := rand.Intn(len(fixtureAccounts) - 1)
	if ri >= si {
		ri++
	}

	amount := ledger.Amount((10 + rand.Intn(491)) * 100)

	return h.State.SubmitTransaction(fixtureAccounts[si], fixtureAccounts[ri], amount)
}
