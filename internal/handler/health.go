package handler

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
)

type CachedPriceStatus struct {
	Price     float64   `json:"price"`
	FetchedAt time.Time `json:"fetched_at"`
	Stale     bool      `json:"stale"`
}

type HealthResponse struct {
	Status       string                       `json:"status" example:"healthy"`
	CachedPrices map[string]CachedPriceStatus `json:"cached_prices"`
}

// Health godoc
// @Summary      Health check
// @Description  Reports liveness and the price cached for each asset. Assets never fetched are omitted.
// @Tags         health
// @Produce      json
// @Success      200  {object}  HealthResponse
// @Router       /health [get]
func (h *Handler) Health(c *gin.Context) {
	resp := HealthResponse{
		Status:       "healthy",
		CachedPrices: make(map[string]CachedPriceStatus),
	}
	for _, p := range h.inference.CachedPrices() {
		resp.CachedPrices[p.Symbol] = CachedPriceStatus{
			Price:     p.Price,
			FetchedAt: p.FetchedAt,
			Stale:     p.Stale,
		}
	}
	c.JSON(http.StatusOK, resp)
}
