// Package v1 contains the full set of handler functions and routes
// supported by the web api.
package v1

import (
	"net/http"

	"github.com/ardanlabs/powchain/app/services/node/handlers/v1/public"
	"github.com/ardanlabs/powchain/foundation/blockchain/state"
	"github.com/ardanlabs/powchain/foundation/events"
	"github.com/ardanlabs/powchain/foundation/web"
	"github.com/gorilla/websocket"
	"go.uber.org/zap"
)

const version = "v1"

// Config contains all the mandatory systems required by handlers.
type Config struct {
	Log   *zap.SugaredLogger
	State *state.State
	Evts  *events.Events
}

// PublicRoutes binds all the public routes. The ledger routes are served
// without a version prefix so existing clients keep working.
func PublicRoutes(app *web.App, cfg Config) {
	pbl := public.Handlers{
		Log:   cfg.Log,
		State: cfg.State,
		WS:    websocket.Upgrader{},
		Evts:  cfg.Evts,
	}

	app.Handle(http.MethodGet, "", "/mine", pbl.Mine)
	app.Handle(http.MethodPost, "", "/transactions/new", pbl.NewTransaction)
	app.Handle(http.MethodGet, "", "/transactions/pending", pbl.Pending)
	app.Handle(http.MethodGet, "", "/chain", pbl.Chain)
	app.Handle(http.MethodPost, "", "/nodes/register", pbl.RegisterNodes)
	app.Handle(http.MethodGet, "", "/nodes/resolve", pbl.ResolveNodes)
	app.Handle(http.MethodGet, "", "/nodes/list", pbl.ListNodes)

	app.Handle(http.MethodGet, version, "/events", pbl.Events)
}
