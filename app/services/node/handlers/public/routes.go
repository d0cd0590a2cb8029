package public

import (
	"net/http"
	"time"

	"github.com/ardanlabs/ledger/foundation/blockchain/peer"
	"github.com/ardanlabs/ledger/foundation/blockchain/state"
	"github.com/ardanlabs/ledger/foundation/blockchain/worker"
	"github.com/ardanlabs/ledger/foundation/events"
	"github.com/ardanlabs/ledger/foundation/web"
	"github.com/gorilla/websocket"
	"go.uber.org/zap"
)

// Config contains all the mandatory systems required by handlers.
type Config struct {
	Log          *zap.SugaredLogger
	State        *state.State
	Worker       *worker.Worker
	Fetcher      peer.Fetcher
	Evts         *events.Events
	PollInterval time.Duration
}

// Routes binds all the public routes.
func Routes(app *web.App, cfg Config) {
	pbl := Handlers{
		Log:          cfg.Log,
		State:        cfg.State,
		Worker:       cfg.Worker,
		Fetcher:      cfg.Fetcher,
		Evts:         cfg.Evts,
		WS:           websocket.Upgrader{},
		PollInterval: cfg.PollInterval,
	}

	const version = "v1"

	app.Handle(http.MethodGet, version, "/events", pbl.Events)
	app.Handle(http.MethodPost, version, "/accounts", pbl.CreateAccount)
	app.Handle(http.MethodGet, version, "/accounts", pbl.Account)
	app.Handle(http.MethodPost, version, "/genesis", pbl.Emit)
	app.Handle(http.MethodPost, version, "/tx/transfer", pbl.Transfer)
	app.Handle(http.MethodGet, version, "/tx/uncommitted/list", pbl.Mempool)
	app.Handle(http.MethodGet, version, "/blocks/list", pbl.Blocks)
	app.Handle(http.MethodGet, version, "/balances", pbl.Balance)
	app.Handle(http.MethodGet, version, "/balances/:address", pbl.Balance)
	app.Handle(http.MethodPost, version, "/mining/start", pbl.StartMining)
	app.Handle(http.MethodGet, version, "/mining/stream", pbl.StreamMining)
	app.Handle(http.MethodPost, version, "/mining/stop", pbl.StopMining)
	app.Handle(http.MethodGet, version, "/mining/status", pbl.MiningStatus)
	app.Handle(http.MethodPost, version, "/consensus", pbl.Consensus)
}
