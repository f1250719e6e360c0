package sui

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"sync"
	"testing"
)

// fakeNode is a minimal JSON-RPC fullnode returning canned results per method.
type fakeNode struct {
	mu      sync.Mutex
	results map[string]any
	errors  map[string]*RPCError
	calls   []rpcRequest
}

func newFakeNode(t *testing.T) (*fakeNode, *httptest.Server) {
	t.Helper()
	n := &fakeNode{results: map[string]any{}, errors: map[string]*RPCError{}}
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		var req rpcRequest
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			http.Error(w, err.Error(), http.StatusBadRequest)
			return
		}
		n.mu.Lock()
		n.calls = append(n.calls, req)
		result, hasResult := n.results[req.Method]
		rpcErr := n.errors[req.Method]
		n.mu.Unlock()

		resp := map[string]any{"jsonrpc": "2.0", "id": req.ID}
		switch {
		case rpcErr != nil:
			resp["error"] = rpcErr
		case hasResult:
			resp["result"] = result
		default:
			resp["error"] = &RPCError{Code: -32601, Message: "method not found"}
		}
		w.Header().Set("Content-Type", "application/json")
		_ = json.NewEncoder(w).Encode(resp)
	}))
	t.Cleanup(srv.Close)
	return n, srv
}

func (n *fakeNode) set(method string, result any) {
	n.mu.Lock()
	defer n.mu.Unlock()
	n.results[method] = result
}

func (n *fakeNode) fail(method string, err *RPCError) {
	n.mu.Lock()
	defer n.mu.Unlock()
	n.errors[method] = err
}

func (n *fakeNode) requests(method string) []rpcRequest {
	n.mu.Lock()
	defer n.mu.Unlock()
	var out []rpcRequest
	for _, c := range n.calls {
		if c.Method == method {
			out = append(out, c)
		}
	}
	return out
}

func sharedObjectResult(id string, initialVersion uint64, fields map[string]any) map[string]any {
	return map[string]any{
		"data": map[string]any{
			"objectId": id,
			"version":  "42",
			"digest":   "11111111111111111111111111111111",
			"owner":    map[string]any{"Shared": map[string]any{"initial_shared_version": initialVersion}},
			"content": map[string]any{
				"dataType": "moveObject",
				"type":     "0x1::research_dao::Project",
				"fields":   fields,
			},
		},
	}
}

func u64ReturnResult(v uint64) map[string]any {
	b := EncodeU64(v)
	ints := make([]int, len(b))
	for i, x := range b {
		ints[i] = int(x)
	}
	return map[string]any{
		"effects": map[string]any{"status": map[string]any{"status": "success"}},
		"results": []any{
			map[string]any{"returnValues": []any{[]any{ints, "u64"}}},
		},
	}
}
