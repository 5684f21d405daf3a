// Package v1 contains the full set of handler functions and routes
// supported by the v1 web api.
package v1

import (
	"net/http"

	"github.com/abcchain/abc/app/services/node/handlers/v1/private"
	"github.com/abcchain/abc/app/services/node/handlers/v1/public"
	"github.com/abcchain/abc/foundation/events"
	"github.com/abcchain/abc/foundation/nodestate"
	"github.com/abcchain/abc/foundation/web"
	"go.uber.org/zap"
)

const version = "v1"

// Config contains all the mandatory systems required by handlers.
type Config struct {
	Log   *zap.SugaredLogger
	Store *nodestate.Store
	Evts  *events.Events
}

// PublicRoutes binds all the version 1 public routes.
func PublicRoutes(app *web.App, cfg Config) {
	pbl := public.Handlers{
		Log:   cfg.Log,
		Store: cfg.Store,
		Evts:  cfg.Evts,
	}

	app.Handle(http.MethodGet, version, "/events", pbl.Events)
	app.Handle(http.MethodGet, version, "/node/state", pbl.State)
	app.Handle(http.MethodGet, version, "/node/state/:field", pbl.Field)
	app.Handle(http.MethodGet, version, "/node/balance", pbl.Balance)
	app.Handle(http.MethodGet, version, "/node/peers", pbl.Peers)
}

// PrivateRoutes binds all the version 1 private routes.
func PrivateRoutes(app *web.App, cfg Config) {
	prv := private.Handlers{
		Log:   cfg.Log,
		Store: cfg.Store,
	}

	app.Handle(http.MethodPost, version, "/node/height/increment", prv.IncrementHeight)
	app.Handle(http.MethodPost, version, "/node/hash", prv.UpdatePreviousHash)
	app.Handle(http.MethodPost, version, "/node/block", prv.CommitBlock)
	app.Handle(http.MethodPost, version, "/node/balance/add", prv.AddBalance)
	app.Handle(http.MethodPost, version, "/node/balance/subtract", prv.SubtractBalance)
	app.Handle(http.MethodPut, version, "/node/peers", prv.UpdatePeers)
	app.Handle(http.MethodPost, version, "/node/peers/:id", prv.AddPeer)
	app.Handle(http.MethodDelete, version, "/node/peers/:id", prv.RemovePeer)
	app.Handle(http.MethodPost, version, "/node/save", prv.Save)
}
