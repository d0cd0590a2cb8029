// Package public maintains the group of handlers for public access.
package public

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"strings"
	"time"

	"github.com/ardanlabs/ledger/business/sys/validate"
	"github.com/ardanlabs/ledger/business/web/errs"
	"github.com/ardanlabs/ledger/foundation/blockchain/database"
	"github.com/ardanlabs/ledger/foundation/blockchain/peer"
	"github.com/ardanlabs/ledger/foundation/blockchain/state"
	"github.com/ardanlabs/ledger/foundation/blockchain/worker"
	"github.com/ardanlabs/ledger/foundation/events"
	"github.com/ardanlabs/ledger/foundation/web"
	"github.com/gorilla/websocket"
	"go.uber.org/zap"
)

// Handlers manages the set of ledger endpoints.
type Handlers struct {
	Log          *zap.SugaredLogger
	State        *state.State
	Worker       *worker.Worker
	Fetcher      peer.Fetcher
	Evts         *events.Events
	WS           websocket.Upgrader
	PollInterval time.Duration
}

// Events handles a web socket to provide events to a client.
func (h Handlers) Events(ctx context.Context, w http.ResponseWriter, r *http.Request) error {
	h.WS.CheckOrigin = func(r *http.Request) bool { return true }

	c, err := h.WS.Upgrade(w, r, nil)
	if err != nil {
		return err
	}
	defer c.Close()

	id, ch := h.Evts.Subscribe()
	defer h.Evts.Unsubscribe(id)

	ticker := time.NewTicker(time.Second)
	defer ticker.Stop()

	for {
		select {
		case msg, wd := <-ch:
			if !wd {
				return nil
			}

			if err := c.WriteMessage(websocket.TextMessage, []byte(msg)); err != nil {
				return nil
			}

		case <-ticker.C:
			if err := c.WriteMessage(websocket.PingMessage, []byte("ping")); err != nil {
				return nil
			}
		}
	}
}

// CreateAccount creates the node's account.
func (h Handlers) CreateAccount(ctx context.Context, w http.ResponseWriter, r *http.Request) error {
	var na newAccount
	if err := decode(r, &na); err != nil {
		return err
	}

	addr, err := h.State.CreateAccount(na.Password)
	if err != nil {
		return errs.FromLedger(err)
	}

	return web.Respond(ctx, w, account{Address: addr}, http.StatusCreated)
}

// Account returns the address of the node's account.
func (h Handlers) Account(ctx context.Context, w http.ResponseWriter, r *http.Request) error {
	addr, err := h.State.RetrieveAddress()
	if err != nil {
		return errs.FromLedger(err)
	}

	return web.Respond(ctx, w, account{Address: addr}, http.StatusOK)
}

// Emit issues value to the node's account by writing the genesis block.
func (h Handlers) Emit(ctx context.Context, w http.ResponseWriter, r *http.Request) error {
	var em emission
	if err := decode(r, &em); err != nil {
		return err
	}

	tx, err := h.State.Emit(em.Password, em.Amount)
	if err != nil {
		return errs.FromLedger(err)
	}

	return web.Respond(ctx, w, tx, http.StatusCreated)
}

// Transfer moves value from the node's account to the receiver.
func (h Handlers) Transfer(ctx context.Context, w http.ResponseWriter, r *http.Request) error {
	v, err := web.GetValues(ctx)
	if err != nil {
		return web.NewShutdownError("web value missing from context")
	}

	var tr transfer
	if err := decode(r, &tr); err != nil {
		return err
	}

	h.Log.Infow("transfer", "traceid", v.TraceID, "to", tr.To, "amount", tr.Amount)

	tx, err := h.State.Transfer(tr.Password, tr.To, tr.Amount)
	if err != nil {
		return errs.FromLedger(err)
	}

	return web.Respond(ctx, w, tx, http.StatusCreated)
}

// Mempool returns the set of uncommitted transactions.
func (h Handlers) Mempool(ctx context.Context, w http.ResponseWriter, r *http.Request) error {
	return web.Respond(ctx, w, h.State.RetrieveMempool(), http.StatusOK)
}

// Blocks returns the blocks of the chain.
func (h Handlers) Blocks(ctx context.Context, w http.ResponseWriter, r *http.Request) error {
	return web.Respond(ctx, w, h.State.ListBlocks(), http.StatusOK)
}

// Balance returns the balance of the specified address or of the node's
// account when no address is provided.
func (h Handlers) Balance(ctx context.Context, w http.ResponseWriter, r *http.Request) error {
	address := web.Param(r, "address")
	if address == "" {
		addr, err := h.State.RetrieveAddress()
		if err != nil {
			return errs.FromLedger(err)
		}
		address = string(addr)
	}

	bal, err := h.State.Balance(address)
	if err != nil {
		return errs.FromLedger(err)
	}

	return web.Respond(ctx, w, balance{Address: address, Balance: bal}, http.StatusOK)
}

// StartMining starts the mining loop and streams its progress as lines of
// text until mining stops. Mining is stopped when the client goes away.
func (h Handlers) StartMining(ctx context.Context, w http.ResponseWriter, r *http.Request) error {
	poll, err := h.pollInterval(r)
	if err != nil {
		return err
	}

	events, err := h.Worker.StartMining(poll)
	if err != nil {
		return errs.FromLedger(err)
	}

	// The stream outlives the server's write timeout.
	rc := http.NewResponseController(w)
	if err := rc.SetWriteDeadline(time.Time{}); err != nil {
		h.Log.Infow("mining stream", "traceid", web.GetTraceID(ctx), "WARNING", err)
	}

	if err := web.SetStatusCode(ctx, http.StatusOK); err != nil {
		h.Worker.StopMining()
		return err
	}

	w.Header().Set("Content-Type", "text/plain; charset=utf-8")
	w.Header().Set("X-Content-Type-Options", "nosniff")
	w.WriteHeader(http.StatusOK)

	for {
		select {
		case e, open := <-events:
			if !open {
				return nil
			}

			if _, err := fmt.Fprintln(w, e); err != nil {
				h.Worker.StopMining()
				return nil
			}
			rc.Flush()

		case <-r.Context().Done():
			h.Worker.StopMining()
			return nil
		}
	}
}

// StreamMining starts the mining loop and streams its events over a web
// socket. Mining is stopped when the socket closes.
func (h Handlers) StreamMining(ctx context.Context, w http.ResponseWriter, r *http.Request) error {
	poll, err := h.pollInterval(r)
	if err != nil {
		return err
	}

	events, err := h.Worker.StartMining(poll)
	if err != nil {
		return errs.FromLedger(err)
	}
	defer h.Worker.StopMining()

	h.WS.CheckOrigin = func(r *http.Request) bool { return true }

	c, err := h.WS.Upgrade(w, r, nil)
	if err != nil {
		return err
	}
	defer c.Close()

	for e := range events {
		if err := c.WriteJSON(e); err != nil {
			return nil
		}
	}

	return nil
}

// StopMining stops the mining loop.
func (h Handlers) StopMining(ctx context.Context, w http.ResponseWriter, r *http.Request) error {
	h.Worker.StopMining()
	return web.Respond(ctx, w, mining{State: string(h.Worker.State())}, http.StatusOK)
}

// MiningStatus reports the state of the mining loop.
func (h Handlers) MiningStatus(ctx context.Context, w http.ResponseWriter, r *http.Request) error {
	return web.Respond(ctx, w, mining{State: string(h.Worker.State())}, http.StatusOK)
}

// Consensus reconciles the chain with the known peers.
func (h Handlers) Consensus(ctx context.Context, w http.ResponseWriter, r *http.Request) error {
	replaced, err := h.State.Reconcile(ctx, h.Fetcher)

	resp := consensus{
		Replaced:    replaced,
		ChainLength: h.State.ChainLength(),
	}

	if err != nil {
		if !errors.Is(err, database.ErrPeerFetchFailure) {
			return errs.FromLedger(err)
		}
		resp.PeerErrors = strings.Split(err.Error(), "\n")
	}

	return web.Respond(ctx, w, resp, http.StatusOK)
}

// =============================================================================

// decode leaves validation failures for the error middleware and marks
// malformed bodies as bad requests.
func decode(r *http.Request, val any) error {
	if err := web.Decode(r, val); err != nil {
		if validate.IsFieldErrors(err) {
			return err
		}
		return errs.NewTrusted(err, http.StatusBadRequest)
	}

	return nil
}

func (h Handlers) pollInterval(r *http.Request) (time.Duration, error) {
	s := r.URL.Query().Get("poll")
	if s == "" {
		return h.PollInterval, nil
	}

	poll, err := time.ParseDuration(s)
	if err != nil {
		return 0, errs.NewTrusted(fmt.Errorf("poll %q: %w", s, database.ErrInvalidInput), http.StatusBadRequest)
	}

	return poll, nil
}
