// Package public maintains the group of handlers for public access.
package public

import (
	"context"
	"errors"
	"net/http"
	"time"

	"github.com/chainforge/ledger/business/sys/metrics"
	"github.com/chainforge/ledger/business/sys/validate"
	v1 "github.com/chainforge/ledger/business/web/v1"
	"github.com/chainforge/ledger/foundation/events"
	"github.com/chainforge/ledger/foundation/ledger"
	"github.com/chainforge/ledger/foundation/ledger/difficulty"
	"github.com/chainforge/ledger/foundation/ledger/state"
	"github.com/chainforge/ledger/foundation/web"
	"github.com/gorilla/websocket"
	"go.uber.org/zap"
)

// Handlers manages the set of public ledger endpoints.
type Handlers struct {
	Log   *zap.SugaredLogger
	State *state.State
	WS    websocket.Upgrader
	Evts  *events.Events
}

// Events handles a web socket to provide engine events to a client.
func (h Handlers) Events(ctx context.Context, w http.ResponseWriter, r *http.Request) error {
	v, err := web.GetValues(ctx)
	if err != nil {
		return web.NewShutdownError("web value missing from context")
	}

	h.WS.CheckOrigin = func(r *http.Request) bool { return true }

	c, err := h.WS.Upgrade(w, r, nil)
	if err != nil {
		return err
	}
	defer c.Close()

	ch := h.Evts.Acquire(v.TraceID)
	defer h.Evts.Release(v.TraceID)

	ticker := time.NewTicker(time.Second)
	defer ticker.Stop()

	for {
		select {
		case event, wd := <-ch:
			if !wd {
				return nil
			}

			if err := c.WriteJSON(event); err != nil {
				return err
			}

		case <-ticker.C:
			if err := c.WriteMessage(websocket.PingMessage, []byte("ping")); err != nil {
				return nil
			}
		}
	}
}

// Chain returns the entire chain in index order.
func (h Handlers) Chain(ctx context.Context, w http.ResponseWriter, r *http.Request) error {
	blocks, err := h.State.Blocks()
	if err != nil {
		return err
	}

	resp := struct {
		Chain  []block `json:"chain"`
		Length int     `json:"length"`
	}{
		Chain:  toBlocks(blocks),
		Length: len(blocks),
	}

	return web.Respond(ctx, w, resp, http.StatusOK)
}

// Validate audits the chain for hash integrity and linkage.
func (h Handlers) Validate(ctx context.Context, w http.ResponseWriter, r *http.Request) error {
	resp := struct {
		Valid   bool   `json:"valid"`
		Message string `json:"message"`
	}{
		Valid:   true,
		Message: "chain is valid",
	}

	if err := h.State.ValidateChain(); err != nil {
		var ie *state.IntegrityError
		if !errors.As(err, &ie) {
			return err
		}

		resp.Valid = false
		resp.Message = ie.Error()
	}

	return web.Respond(ctx, w, resp, http.StatusOK)
}

// SubmitTran records a new pending transaction.
func (h Handlers) SubmitTran(ctx context.Context, w http.ResponseWriter, r *http.Request) error {
	v, err := web.GetValues(ctx)
	if err != nil {
		return web.NewShutdownError("web value missing from context")
	}

	var st submitTran
	if err := web.Decode(r, &st); err != nil {
		return v1.NewRequestError(err, http.StatusBadRequest)
	}
	if err := validate.Check(st); err != nil {
		return err
	}

	amount, err := ledger.ParseAmount(st.Amount)
	if err != nil {
		return v1.NewRequestError(err, http.StatusBadRequest)
	}

	tx, err := h.State.SubmitTransaction(st.Sender, st.Receiver, amount)
	if err != nil {
		if errors.Is(err, ledger.ErrInvalidAmount) {
			return v1.NewRequestError(err, http.StatusBadRequest)
		}
		return err
	}

	h.Log.Infow("transaction created", "traceid", v.TraceID, "tx", tx.ID)

	resp := struct {
		Message string `json:"message"`
		Tran    tran   `json:"transaction"`
	}{
		Message: "transaction created successfully",
		Tran:    toTran(tx),
	}

	return web.Respond(ctx, w, resp, http.StatusOK)
}

// Mine seals all pending transactions into a new mined block.
func (h Handlers) Mine(ctx context.Context, w http.ResponseWriter, r *http.Request) error {
	v, err := web.GetValues(ctx)
	if err != nil {
		return web.NewShutdownError("web value missing from context")
	}

	var mr mineRequest
	if err := web.Decode(r, &mr); err != nil {
		return v1.NewRequestError(err, http.StatusBadRequest)
	}
	if err := validate.Check(mr); err != nil {
		return err
	}

	blk, outcome, err := h.State.MinePending(ctx, mr.MinerAddress, true)
	if err != nil {
		switch {
		case errors.Is(err, state.ErrNoTransactions):
			resp := struct {
				Message string `json:"message"`
			}{
				Message: "no pending transactions to mine",
			}
			return web.Respond(ctx, w, resp, http.StatusOK)

		case errors.Is(err, ledger.ErrMiningTimedOut):
			return v1.NewRequestError(err, http.StatusServiceUnavailable)
		}
		return err
	}

	metrics.AddBlocksMined(ctx)
	h.Log.Infow("block mined", "traceid", v.TraceID, "block", blk.Number, "hash", blk.Hash)

	resp := struct {
		Message  string `json:"message"`
		Block    block  `json:"block"`
		Retarget any    `json:"difficulty_adjustment,omitempty"`
	}{
		Message: "block mined successfully",
		Block:   toBlock(blk),
	}
	if outcome.State == difficulty.Adjusted {
		resp.Retarget = outcome
	}

	return web.Respond(ctx, w, resp, http.StatusOK)
}

// Pending returns all pending transactions.
func (h Handlers) Pending(ctx context.Context, w http.ResponseWriter, r *http.Request) error {
	pending, err := h.State.PendingTransactions()
	if err != nil {
		return err
	}

	resp := struct {
		Pending []tran `json:"pending_transactions"`
	}{
		Pending: toTrans(pending),
	}

	return web.Respond(ctx, w, resp, http.StatusOK)
}

// Balance returns the settled balance for the specified address.
func (h Handlers) Balance(ctx context.Context, w http.ResponseWriter, r *http.Request) error {
	address := web.Param(r, "address")

	balance, err := h.State.BalanceOf(address)
	if err != nil {
		return err
	}

	resp := struct {
		Address string `json:"address"`
		Balance string `json:"balance"`
	}{
		Address: address,
		Balance: balance.String(),
	}

	return web.Respond(ctx, w, resp, http.StatusOK)
}

// Summary returns totals over the whole ledger plus the recent blocks.
func (h Handlers) Summary(ctx context.Context, w http.ResponseWriter, r *http.Request) error {
	summary, err := h.State.Summary()
	if err != nil {
		return err
	}

	stats, err := h.State.MiningStats()
	if err != nil {
		return err
	}

	resp := struct {
		Summary      summaryInfo       `json:"summary"`
		RecentBlocks []block           `json:"recent_blocks"`
		MiningStats  state.MiningStats `json:"mining_stats"`
	}{
		Summary: summaryInfo{
			TotalBlocks:           summary.TotalBlocks,
			TotalTransactions:     summary.TotalTransactions,
			PendingTransactions:   summary.PendingTransactions,
			SettledTransactions:   summary.SettledTransactions,
			TotalValueTransferred: summary.TotalValueTransferred.String(),
			CurrentDifficulty:     summary.CurrentDifficulty,
		},
		RecentBlocks: toBlocks(summary.RecentBlocks),
		MiningStats:  stats,
	}

	return web.Respond(ctx, w, resp, http.StatusOK)
}

// MiningStats returns mining performance statistics.
func (h Handlers) MiningStats(ctx context.Context, w http.ResponseWriter, r *http.Request) error {
	stats, err := h.State.MiningStats()
	if err != nil {
		return err
	}

	return web.Respond(ctx, w, stats, http.StatusOK)
}

// Difficulty returns the current difficulty settings.
func (h Handlers) Difficulty(ctx context.Context, w http.ResponseWriter, r *http.Request) error {
	resp := struct {
		Difficulty         int     `json:"difficulty"`
		TargetBlockTime    float64 `json:"target_block_time"`
		AdjustmentInterval int     `json:"adjustment_interval"`
	}{
		Difficulty:         h.State.Difficulty(),
		TargetBlockTime:    h.State.TargetBlockTime().Seconds(),
		AdjustmentInterval: h.State.AdjustmentInterval(),
	}

	return web.Respond(ctx, w, resp, http.StatusOK)
}
