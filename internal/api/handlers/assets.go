package handlers

import (
	"net/http"

	"github.com/wonny/rebalancer/internal/assetconfig"
	"github.com/wonny/rebalancer/pkg/logger"
)

// AssetsHandler exposes the active asset catalog
type AssetsHandler struct {
	catalog *assetconfig.Catalog
	logger  *logger.Logger
}

// NewAssetsHandler creates a new assets handler
func NewAssetsHandler(catalog *assetconfig.Catalog, log *logger.Logger) *AssetsHandler {
	return &AssetsHandler{catalog: catalog, logger: log}
}

// GetCatalog returns the catalog, its hash and non-fatal warnings
// GET /api/assets
func (h *AssetsHandler) GetCatalog(w http.ResponseWriter, r *http.Request) {
	hash, err := assetconfig.Hash(h.catalog)
	if err != nil {
		h.logger.WithError(err).Error("Failed to hash asset catalog")
		respondError(w, http.StatusInternalServerError, "Failed to hash asset catalog")
		return
	}

	respondJSON(w, http.StatusOK, map[string]interface{}{
		"catalog":  h.catalog,
		"hash":     hash,
		"warnings": assetconfig.Warn(h.catalog),
	})
}
