package api

import (
	"context"
	"net/http"

	"github.com/okian/draftboard/internal/domain/model"
	"github.com/okian/draftboard/internal/domain/tiering"
)

// TiersDependencies defines the interface for tier evaluation.
type TiersDependencies interface {
	Tiers(ctx context.Context, season string) (tiering.Partition, error)
}

// TiersHandler handles tier requests.
type TiersHandler struct {
	deps TiersDependencies
}

// NewTiersHandler creates a new tiers handler.
func NewTiersHandler(deps TiersDependencies) *TiersHandler {
	return &TiersHandler{deps: deps}
}

type tierMember struct {
	ID       int64    `json:"id"`
	Name     string   `json:"name"`
	Position string   `json:"position"`
	PPG      *float64 `json:"ppg"`
}

type tierView struct {
	Name    string       `json:"name"`
	Rules   []string     `json:"rules"`
	Players []tierMember `json:"players"`
}

type tiersResponse struct {
	Tiers      []tierView `json:"tiers"`
	Unassigned int        `json:"unassigned"`
}

func members(t model.Table) []tierMember {
	out := make([]tierMember, 0, len(t))
	for _, r := range t {
		out = append(out, tierMember{
			ID:       r.EntityID.Int64,
			Name:     r.Name,
			Position: r.Role.String(),
			PPG:      r.PointsPerGame,
		})
	}
	return out
}

// HandleGetTiers handles GET /tiers?season=S requests.
func (h *TiersHandler) HandleGetTiers(w http.ResponseWriter, r *http.Request) {
	const op = "api.get_tiers"
	if r.Method != http.MethodGet {
		http.NotFound(w, r)
		return
	}
	p, err := h.deps.Tiers(r.Context(), r.URL.Query().Get("season"))
	if err != nil {
		writeUpstreamError(w, op, err)
		return
	}
	resp := tiersResponse{Tiers: make([]tierView, 0, len(p.Tiers)), Unassigned: len(p.Unassigned)}
	for _, t := range p.Tiers {
		resp.Tiers = append(resp.Tiers, tierView{Name: t.Name, Rules: t.Rules, Players: members(t.Records)})
	}
	writeJSON(w, http.StatusOK, resp)
}
