// Package private maintains the group of handlers that change the node
// state. These are bound to the private host only.
package private

import (
	"context"
	"errors"
	"net/http"

	"github.com/abcchain/abc/business/web/errs"
	"github.com/abcchain/abc/foundation/nodestate"
	"github.com/abcchain/abc/foundation/peer"
	"github.com/abcchain/abc/foundation/web"
	"go.uber.org/zap"
)

// Handlers manages the set of node state write endpoints.
type Handlers struct {
	Log   *zap.SugaredLogger
	Store *nodestate.Store
}

// IncrementHeight adds one to the chain height.
func (h Handlers) IncrementHeight(ctx context.Context, w http.ResponseWriter, r *http.Request) error {
	height, err := h.Store.IncrementHeight()
	if err != nil {
		return toTrusted(err)
	}

	return web.Respond(ctx, w, heightResponse{Height: height}, http.StatusOK)
}

// UpdatePreviousHash records the hash of the latest accepted block.
func (h Handlers) UpdatePreviousHash(ctx context.Context, w http.ResponseWriter, r *http.Request) error {
	var req hashRequest
	if err := decode(r, &req); err != nil {
		return err
	}

	state, err := h.Store.UpdatePreviousHash(req.Hash)
	if err != nil {
		return toTrusted(err)
	}

	return web.Respond(ctx, w, state, http.StatusOK)
}

// CommitBlock records an accepted block, moving the height and the last
// block hash together.
func (h Handlers) CommitBlock(ctx context.Context, w http.ResponseWriter, r *http.Request) error {
	var req hashRequest
	if err := decode(r, &req); err != nil {
		return err
	}

	h.Log.Infow("commit block", "traceid", web.GetTraceID(ctx), "hash", req.Hash)

	state, err := h.Store.CommitBlock(req.Hash)
	if err != nil {
		return toTrusted(err)
	}

	return web.Respond(ctx, w, state, http.StatusOK)
}

// AddBalance adds to the wallet balance.
func (h Handlers) AddBalance(ctx context.Context, w http.ResponseWriter, r *http.Request) error {
	var req amountRequest
	if err := decode(r, &req); err != nil {
		return err
	}

	amount, err := h.Store.AddBalance(*req.Amount)
	if err != nil {
		return toTrusted(err)
	}

	return web.Respond(ctx, w, balanceResponse{Amount: amount}, http.StatusOK)
}

// SubtractBalance takes from the wallet balance.
func (h Handlers) SubtractBalance(ctx context.Context, w http.ResponseWriter, r *http.Request) error {
	var req amountRequest
	if err := decode(r, &req); err != nil {
		return err
	}

	amount, err := h.Store.SubtractBalance(*req.Amount)
	if err != nil {
		return toTrusted(err)
	}

	return web.Respond(ctx, w, balanceResponse{Amount: amount}, http.StatusOK)
}

// UpdatePeers replaces the peer registry.
func (h Handlers) UpdatePeers(ctx context.Context, w http.ResponseWriter, r *http.Request) error {
	var peers map[string]peer.Peer
	if err := decode(r, &peers); err != nil {
		return err
	}

	state, err := h.Store.UpdatePeers(peers)
	if err != nil {
		return toTrusted(err)
	}

	return web.Respond(ctx, w, state.Peers, http.StatusOK)
}

// AddPeer registers a single peer under the id in the path.
func (h Handlers) AddPeer(ctx context.Context, w http.ResponseWriter, r *http.Request) error {
	var req peerRequest
	if err := decode(r, &req); err != nil {
		return err
	}

	state, err := h.Store.AddPeer(web.Param(r, "id"), peer.New(req.IP, req.Port))
	if err != nil {
		return toTrusted(err)
	}

	return web.Respond(ctx, w, state.Peers, http.StatusOK)
}

// RemovePeer drops the peer with the id in the path.
func (h Handlers) RemovePeer(ctx context.Context, w http.ResponseWriter, r *http.Request) error {
	state, err := h.Store.RemovePeer(web.Param(r, "id"))
	if err != nil {
		return toTrusted(err)
	}

	return web.Respond(ctx, w, state.Peers, http.StatusOK)
}

// Save forces the in memory state to storage.
func (h Handlers) Save(ctx context.Context, w http.ResponseWriter, r *http.Request) error {
	if err := h.Store.Save(); err != nil {
		return toTrusted(err)
	}

	return web.Respond(ctx, w, statusResponse{Status: "saved"}, http.StatusOK)
}

// decode reads the request payload. Field validation errors pass through
// as is, anything else is the client's fault.
func decode(r *http.Request, val any) error {
	err := web.Decode(r, val)
	if err == nil || web.IsFieldErrors(err) {
		return err
	}

	return errs.NewTrusted(err, http.StatusBadRequest)
}

// toTrusted maps store errors to the status the client should see. A
// persist failure is reported with its message so the caller knows memory
// and disk disagree.
func toTrusted(err error) error {
	switch {
	case errors.Is(err, nodestate.ErrPersist):
		return errs.NewTrusted(err, http.StatusInternalServerError)
	case errors.Is(err, nodestate.ErrUnknownPeer):
		return errs.NewTrusted(err, http.StatusNotFound)
	case errors.Is(err, nodestate.ErrBalanceOverflow):
		return errs.NewTrusted(err, http.StatusBadRequest)
	default:
		return errs.NewTrusted(err, http.StatusBadRequest)
	}
}
