package test

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"sync/atomic"
	"testing"
)

// RPCServer is a minimal JSON-RPC endpoint answering fixed results per method,
// a nil result is sent as null. Unknown methods get a JSON-RPC error. Every
// request is counted.
type RPCServer struct {
	*httptest.Server

	hits atomic.Int64
}

type rpcRequest struct {
	ID     json.RawMessage `json:"id"`
	Method string          `json:"method"`
}

type rpcError struct {
	Code    int    `json:"code"`
	Message string `json:"message"`
}

type rpcResponse struct {
	JSONRPC string           `json:"jsonrpc"`
	ID      json.RawMessage  `json:"id"`
	Result  *json.RawMessage `json:"result,omitempty"`
	Error   *rpcError        `json:"error,omitempty"`
}

// NewRPCServer starts a JSON-RPC test server closed when the test finishes.
func NewRPCServer(t *testing.T, results map[string]any) *RPCServer {
	t.Helper()

	s := &RPCServer{}
	s.Server = httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		s.hits.Add(1)

		var req rpcRequest
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			http.Error(w, err.Error(), http.StatusBadRequest)
			return
		}

		resp := rpcResponse{JSONRPC: "2.0", ID: req.ID}
		if result, ok := results[req.Method]; ok {
			raw, err := json.Marshal(result)
			if err != nil {
				http.Error(w, err.Error(), http.StatusInternalServerError)
				return
			}
			resp.Result = (*json.RawMessage)(&raw)
		} else {
			resp.Error = &rpcError{Code: -32601, Message: "method not found: " + req.Method}
		}

		w.Header().Set("Content-Type", "application/json")
		_ = json.NewEncoder(w).Encode(resp)
	}))
	t.Cleanup(s.Close)

	return s
}

// Hits returns the number of requests received.
func (s *RPCServer) Hits() int64 {
	return s.hits.Load()
}
