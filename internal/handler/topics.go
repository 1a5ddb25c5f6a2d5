package handler

import (
	"net/http"

	"github.com/gin-gonic/gin"
)

type TopicResponse struct {
	ID            int    `json:"id" example:"1"`
	Symbol        string `json:"symbol" example:"ETH"`
	Timeframe     string `json:"timeframe" example:"10m"`
	Window        int    `json:"window" example:"12"`
	MinInterval   int    `json:"min_interval_secs" example:"15"`
	MaxInterval   int    `json:"max_interval_secs" example:"25"`
	WeightPercent int    `json:"weight_percent" example:"12"`
}

// ListTopics godoc
// @Summary      List topics
// @Description  Returns every registered topic with its asset, timeframe and scheduling parameters
// @Tags         topics
// @Produce      json
// @Success      200  {object}  map[string][]TopicResponse
// @Router       /topics [get]
func (h *Handler) ListTopics(c *gin.Context) {
	topics := h.inference.Topics()
	out := make([]TopicResponse, 0, len(topics))
	for _, t := range topics {
		out = append(out, TopicResponse{
			ID:            t.ID,
			Symbol:        t.Symbol,
			Timeframe:     t.Timeframe,
			Window:        t.Window,
			MinInterval:   t.MinInterval,
			MaxInterval:   t.MaxInterval,
			WeightPercent: t.WeightPercent,
		})
	}
	c.JSON(http.StatusOK, gin.H{"topics": out})
}
