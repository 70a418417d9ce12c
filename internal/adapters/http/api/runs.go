package api

import (
	"context"
	"net/http"

	"github.com/okian/draftboard/internal/domain/types"
)

// RunsDependencies defines the interface for triggering pipeline runs.
type RunsDependencies interface {
	Rebuild(ctx context.Context) (types.Stats, error)
}

// RunsHandler handles run requests.
type RunsHandler struct {
	deps RunsDependencies
}

// NewRunsHandler creates a new runs handler.
func NewRunsHandler(deps RunsDependencies) *RunsHandler {
	return &RunsHandler{deps: deps}
}

// HandlePostRun handles POST /runs requests. The pipeline runs synchronously;
// a request that arrives while another run is in progress gets 429.
func (h *RunsHandler) HandlePostRun(w http.ResponseWriter, r *http.Request) {
	const op = "api.post_run"
	if r.Method != http.MethodPost {
		http.NotFound(w, r)
		return
	}
	st, err := h.deps.Rebuild(r.Context())
	if err != nil {
		writeUpstreamError(w, op, err)
		return
	}
	writeJSON(w, http.StatusCreated, st)
}
