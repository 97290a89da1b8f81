package handler

import (
	"context"
	"io"
	"net/http"

	"github.com/iho/settleup/internal/adapter/rpc"
)

// Dispatcher executes RPC envelopes.
type Dispatcher interface {
	DispatchJSON(ctx context.Context, body []byte) rpc.Response
}

// RPCHandler serves the method + params envelope over HTTP.
type RPCHandler struct {
	dispatcher Dispatcher
}

// NewRPCHandler creates a new RPCHandler.
func NewRPCHandler(dispatcher Dispatcher) *RPCHandler {
	return &RPCHandler{dispatcher: dispatcher}
}

// Handle dispatches the request body. Failures are reported in the
// envelope with status 200; only unreadable bodies yield 400.
func (h *RPCHandler) Handle(w http.ResponseWriter, r *http.Request) {
	body, err := io.ReadAll(http.MaxBytesReader(w, r.Body, maxBodyBytes))
	if err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body", err.Error())
		return
	}

	writeJSON(w, http.StatusOK, h.dispatcher.DispatchJSON(r.Context(), body))
}
