package handler

import (
	"context"

	"worker-fleet/internal/catalog"
	"worker-fleet/internal/domain"

	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog"
	"go.opentelemetry.io/otel/trace"
)

// Inferrer is the part of the inference service the HTTP layer needs.
type Inferrer interface {
	ResolveTopic(topicID int) (catalog.Topic, error)
	Infer(ctx context.Context, topicID, workerID int) (domain.Prediction, error)
	CachedPrices() []domain.CachedPrice
	Topics() []catalog.Topic
}

type Handler struct {
	tracer    trace.Tracer
	inference Inferrer
	log       zerolog.Logger
}

func New(tracer trace.Tracer, inference Inferrer, log zerolog.Logger) *Handler {
	return &Handler{
		tracer:    tracer,
		inference: inference,
		log:       log,
	}
}

func (h *Handler) RegisterRoutes(r *gin.Engine) {
	r.GET("/health", h.Health)
	r.GET("/topics", h.ListTopics)
	r.GET("/inference/:topicId", h.Inference)
}

// ErrorResponse is the body of every non-success response.
type ErrorResponse struct {
	Error string `json:"error" example:"unsupported topic id 999"`
	Code  string `json:"code" example:"INVALID_TOPIC"`
}

// Error codes.
const (
	CodeInvalidTopic     = "INVALID_TOPIC"
	CodeInvalidWorkerID  = "INVALID_WORKER_ID"
	CodePriceUnavailable = "PRICE_UNAVAILABLE"
	CodeInternal         = "INTERNAL_ERROR"
)

func abortWithError(c *gin.Context, status int, code string, err error) {
	c.AbortWithStatusJSON(status, ErrorResponse{Error: err.Error(), Code: code})
}
