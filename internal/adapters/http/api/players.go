package api

import (
	"context"
	"net/http"
	"strconv"
	"strings"

	"github.com/okian/draftboard/internal/domain/model"
)

// PlayersDependencies defines the interface for player lookups.
type PlayersDependencies interface {
	Player(ctx context.Context, id int64) (model.Table, error)
}

// PlayersHandler handles player requests.
type PlayersHandler struct {
	deps PlayersDependencies
}

// NewPlayersHandler creates a new players handler.
func NewPlayersHandler(deps PlayersDependencies) *PlayersHandler {
	return &PlayersHandler{deps: deps}
}

// HandleGetPlayer handles GET /players/{id} requests and returns every
// enriched season row of the player.
func (h *PlayersHandler) HandleGetPlayer(w http.ResponseWriter, r *http.Request) {
	const op = "api.get_player"
	if r.Method != http.MethodGet {
		http.NotFound(w, r)
		return
	}
	path := strings.TrimPrefix(r.URL.Path, "/players/")
	if path == "" || strings.Contains(path, "/") {
		writeError(w, http.StatusBadRequest, "bad_request", NewKind(op, ErrBadRequest))
		return
	}
	id, err := strconv.ParseInt(path, 10, 64)
	if err != nil {
		writeError(w, http.StatusBadRequest, "bad_request", WrapKind(op, ErrBadRequest, err))
		return
	}
	rows, err := h.deps.Player(r.Context(), id)
	if err != nil {
		writeUpstreamError(w, op, err)
		return
	}
	writeJSON(w, http.StatusOK, rowsJSON(rows))
}

// rowsJSON flattens records into column-name keyed objects; nulls stay null.
func rowsJSON(t model.Table) []map[string]any {
	out := make([]map[string]any, len(t))
	for i := range t {
		row := make(map[string]any, len(model.Columns))
		for _, c := range model.Columns {
			row[c.Name] = c.Get(&t[i])
		}
		out[i] = row
	}
	return out
}
