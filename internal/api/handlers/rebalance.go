package handlers

import (
	"fmt"
	"net/http"

	"github.com/wonny/rebalancer/internal/assetconfig"
	"github.com/wonny/rebalancer/internal/rebalance"
	"github.com/wonny/rebalancer/pkg/logger"
)

// RebalanceHandler runs one stateless computation pass per request
type RebalanceHandler struct {
	catalog *assetconfig.Catalog
	logger  *logger.Logger
}

// NewRebalanceHandler creates a new rebalance handler
func NewRebalanceHandler(catalog *assetconfig.Catalog, log *logger.Logger) *RebalanceHandler {
	return &RebalanceHandler{catalog: catalog, logger: log}
}

// RebalanceRequest carries raw inputs. Assets fixes the order and the asset
// set; when omitted the catalog's assets are used.
type RebalanceRequest struct {
	Assets     []string         `json:"assets,omitempty"`
	Values     map[string]Input `json:"values"`
	Allocation map[string]Input `json:"allocation"`
}

// Calculate computes targets and deltas
// POST /api/rebalance
func (h *RebalanceHandler) Calculate(w http.ResponseWriter, r *http.Request) {
	var req RebalanceRequest
	if err := decodeJSON(r, &req); err != nil {
		respondError(w, http.StatusBadRequest, "Invalid request body: "+err.Error())
		return
	}

	assets := h.catalog.AssetList()
	if len(req.Assets) > 0 {
		assets = make([]rebalance.Asset, len(req.Assets))
		for i, a := range req.Assets {
			assets[i] = rebalance.Asset(a)
		}
	}

	values, err := toInputs(assets, req.Values)
	if err != nil {
		respondError(w, http.StatusBadRequest, "values: "+err.Error())
		return
	}
	percents, err := toInputs(assets, req.Allocation)
	if err != nil {
		respondError(w, http.StatusBadRequest, "allocation: "+err.Error())
		return
	}

	plan := h.catalog.Parser().Evaluate(assets, values, percents)
	if !plan.Skipped() {
		if err := plan.Result.Verify(); err != nil {
			h.logger.WithError(err).Error("Rebalance result failed verification")
			respondError(w, http.StatusInternalServerError, "Calculation error")
			return
		}
	}

	h.logger.WithWarnings(plan.Warnings).WithField("assets", len(assets)).Debug("Rebalance computed")
	respondJSON(w, http.StatusOK, NewPlanResponse(plan, h.catalog.Meta.Currency))
}

// toInputs rejects keys outside assets.
func toInputs(assets []rebalance.Asset, in map[string]Input) (map[rebalance.Asset]string, error) {
	known := make(map[rebalance.Asset]bool, len(assets))
	for _, a := range assets {
		known[a] = true
	}

	out := make(map[rebalance.Asset]string, len(in))
	for k, v := range in {
		a := rebalance.Asset(k)
		if !known[a] {
			return nil, fmt.Errorf("unknown asset %q", k)
		}
		out[a] = string(v)
	}
	return out, nil
}
