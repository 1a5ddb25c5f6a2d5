package handler

import (
	"errors"
	"fmt"
	"net/http"
	"strconv"

	"worker-fleet/internal/domain"

	"github.com/gin-gonic/gin"
	"go.opentelemetry.io/otel/attribute"
)

// Inference godoc
// @Summary      Forecast for a topic
// @Description  Returns the predicted price for the topic's asset as a plain decimal number
// @Tags         inference
// @Produce      plain
// @Param        topicId    path   int  true   "Topic id"
// @Param        worker_id  query  int  false  "Requesting worker id"  default(0)
// @Success      200  {string}  string  "3001.2345"
// @Failure      400  {object}  ErrorResponse
// @Failure      500  {object}  ErrorResponse
// @Router       /inference/{topicId} [get]
func (h *Handler) Inference(c *gin.Context) {
	ctx, span := h.tracer.Start(c.Request.Context(), "handler.inference")
	defer span.End()

	topicID, err := strconv.Atoi(c.Param("topicId"))
	if err != nil {
		abortWithError(c, http.StatusBadRequest, CodeInvalidTopic,
			fmt.Errorf("invalid topic id %q", c.Param("topicId")))
		return
	}
	if _, err := h.inference.ResolveTopic(topicID); err != nil {
		abortWithError(c, http.StatusBadRequest, CodeInvalidTopic, err)
		return
	}

	workerID := 0
	if raw, ok := c.GetQuery("worker_id"); ok {
		workerID, err = strconv.Atoi(raw)
		if err != nil {
			abortWithError(c, http.StatusBadRequest, CodeInvalidWorkerID,
				fmt.Errorf("invalid worker_id %q", raw))
			return
		}
	}
	span.SetAttributes(attribute.Int("topic.id", topicID), attribute.Int("worker.id", workerID))

	pred, err := h.inference.Infer(ctx, topicID, workerID)
	if err != nil {
		h.log.Error().Err(err).Int("topic_id", topicID).Int("worker_id", workerID).Msg("inference failed")
		code := CodeInternal
		if errors.Is(err, domain.ErrFatalUnavailable) {
			code = CodePriceUnavailable
		}
		abortWithError(c, http.StatusInternalServerError, code, err)
		return
	}

	c.String(http.StatusOK, strconv.FormatFloat(pred.Value, 'f', -1, 64))
}
