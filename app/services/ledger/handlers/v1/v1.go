// Package v1 contains the full set of handler functions and routes
// supported by the v1 web api.
package v1

import (
	"net/http"

	"github.com/chainforge/ledger/app/services/ledger/handlers/v1/private"
	"github.com/chainforge/ledger/app/services/ledger/handlers/v1/public"
	"github.com/chainforge/ledger/foundation/events"
	"github.com/chainforge/ledger/foundation/ledger/state"
	"github.com/chainforge/ledger/foundation/web"
	"go.uber.org/zap"
)

const version = "v1"

// Config contains all the mandatory systems required by handlers.
type Config struct {
	Log   *zap.SugaredLogger
	State *state.State
	Evts  *events.Events
}

// PublicRoutes binds all the version 1 public routes.
func PublicRoutes(app *web.App, cfg Config) {
	pbl := public.Handlers{
		Log:   cfg.Log,
		State: cfg.State,
		Evts:  cfg.Evts,
	}

	app.Handle(http.MethodGet, version, "/chain", pbl.Chain)
	app.Handle(http.MethodGet, version, "/chain/validate", pbl.Validate)
	app.Handle(http.MethodPost, version, "/tx", pbl.SubmitTran)
	app.Handle(http.MethodGet, version, "/tx/pending", pbl.Pending)
	app.Handle(http.MethodPost, version, "/mine", pbl.Mine)
	app.Handle(http.MethodGet, version, "/balance/:address", pbl.Balance)
	app.Handle(http.MethodGet, version, "/summary", pbl.Summary)
	app.Handle(http.MethodGet, version, "/mining/stats", pbl.MiningStats)
	app.Handle(http.MethodGet, version, "/difficulty", pbl.Difficulty)
	app.Handle(http.MethodGet, version, "/events", pbl.Events)
}

// PrivateRoutes binds all the version 1 private routes.
func PrivateRoutes(app *web.App, cfg Config) {
	prv := private.Handlers{
		Log:   cfg.Log,
		State: cfg.State,
	}

	app.Handle(http.MethodPost, version, "/node/genesis", prv.Genesis)
	app.Handle(http.MethodPost, version, "/node/tx/batch", prv.BatchTrans)
	app.Handle(http.MethodPost, version, "/node/mine/batch", prv.BatchMine)
	app.Handle(http.MethodPost, version, "/node/difficulty", prv.SetDifficulty)
	app.Handle(http.MethodPost, version, "/node/difficulty/target", prv.SetTargetTime)
	app.Handle(http.MethodPost, version, "/node/difficulty/interval", prv.SetInterval)
	app.Handle(http.MethodPost, version, "/node/difficulty/retarget", prv.Retarget)
	app.Handle(http.MethodPost, version, "/node/reset", prv.Reset)
}
