package handlers

import (
	"net/http"
	"os"
	"path/filepath"

	"github.com/conserv-tt/conserv-backend/config"
	"github.com/conserv-tt/conserv-backend/pricing"
	"github.com/gin-gonic/gin"
)

type HealthHandler struct {
	catalog *pricing.Catalog
	cfg     *config.Config
}

func NewHealthHandler(catalog *pricing.Catalog, cfg *config.Config) *HealthHandler {
	return &HealthHandler{catalog: catalog, cfg: cfg}
}

// Health reports catalog file presence, loaded price key count, and whether
// the AI adviser is configured. Always 200; degraded state shows in the body.
func (h *HealthHandler) Health(c *gin.Context) {
	dataDir := h.cfg.Pricing.DataDir
	files := map[string]string{
		"aggregates": filepath.Join(dataDir, h.cfg.Pricing.AggregatesCSV),
		"building":   filepath.Join(dataDir, h.cfg.Pricing.BuildingCSV),
		"steel":      filepath.Join(dataDir, h.cfg.Pricing.SteelCSV),
	}
	exists := make(map[string]bool, len(files))
	for name, path := range files {
		_, err := os.Stat(path)
		exists[name] = err == nil
	}

	pricesError := ""
	if h.catalog.Err != nil {
		pricesError = h.catalog.Err.Error()
	}

	c.JSON(http.StatusOK, gin.H{
		"ok":           true,
		"has_ai":       h.cfg.AI.APIKey != "",
		"data_files":   files,
		"exists":       exists,
		"price_keys":   len(h.catalog.Prices),
		"prices_error": pricesError,
		"currency":     h.cfg.Currency,
	})
}
