// Package public maintains the group of handlers for public access.
package public

import (
	"context"
	"fmt"
	"net/http"
	"time"

	"github.com/abcchain/abc/business/web/errs"
	"github.com/abcchain/abc/foundation/events"
	"github.com/abcchain/abc/foundation/nodestate"
	"github.com/abcchain/abc/foundation/web"
	"github.com/gorilla/websocket"
	"go.uber.org/zap"
)

// Handlers manages the set of node state read endpoints.
type Handlers struct {
	Log   *zap.SugaredLogger
	Store *nodestate.Store
	WS    websocket.Upgrader
	Evts  *events.Events
}

// Events handles a web socket to provide events to a client.
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
		case evt, wd := <-ch:
			if !wd {
				return nil
			}

			if err := c.WriteJSON(evt); err != nil {
				return err
			}

		case <-ticker.C:
			if err := c.WriteMessage(websocket.PingMessage, []byte("ping")); err != nil {
				return nil
			}
		}
	}
}

// State returns the full node state.
func (h Handlers) State(ctx context.Context, w http.ResponseWriter, r *http.Request) error {
	return web.Respond(ctx, w, h.Store.All(), http.StatusOK)
}

// Field returns a single field of the node state.
func (h Handlers) Field(ctx context.Context, w http.ResponseWriter, r *http.Request) error {
	name := web.Param(r, "field")

	value, exists := h.Store.Field(name)
	if !exists {
		return errs.NewTrusted(fmt.Errorf("field %q not found", name), http.StatusNotFound)
	}

	resp := field{
		Name:  name,
		Value: value,
	}

	return web.Respond(ctx, w, resp, http.StatusOK)
}

// Balance returns the wallet address and balance.
func (h Handlers) Balance(ctx context.Context, w http.ResponseWriter, r *http.Request) error {
	return web.Respond(ctx, w, toBalance(h.Store.Wallet()), http.StatusOK)
}

// Peers returns the registered peers keyed by id.
func (h Handlers) Peers(ctx context.Context, w http.ResponseWriter, r *http.Request) error {
	return web.Respond(ctx, w, h.Store.Peers().Map(), http.StatusOK)
}
