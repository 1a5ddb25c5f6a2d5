package service

import (
	"context"
	"fmt"
	"strconv"
	"time"

	"worker-fleet/internal/catalog"
	"worker-fleet/internal/domain"

	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"
)

// PriceSource returns the current price of an asset.
type PriceSource interface {
	GetPrice(ctx context.Context, symbol string) (float64, error)
	Snapshot() []domain.CachedPrice
}

type Predictor interface {
	Predict(currentPrice float64, timeframe string, workerID int, now time.Time) (domain.Prediction, error)
}

type InferenceRecorder interface {
	ObserveInference(topic, outcome string, seconds float64)
}

// InferenceService answers a worker's request for one topic.
type InferenceService struct {
	tracer    trace.Tracer
	catalog   *catalog.Catalog
	prices    PriceSource
	predictor Predictor
	metrics   InferenceRecorder
	now       func() time.Time
}

func NewInferenceService(
	tracer trace.Tracer,
	cat *catalog.Catalog,
	prices PriceSource,
	predictor Predictor,
	metrics InferenceRecorder,
) *InferenceService {
	if metrics == nil {
		metrics = nopInferenceRecorder{}
	}
	return &InferenceService{
		tracer:    tracer,
		catalog:   cat,
		prices:    prices,
		predictor: predictor,
		metrics:   metrics,
		now:       time.Now,
	}
}

// ResolveTopic returns the topic with the given id or an error wrapping
// domain.ErrConfiguration.
func (s *InferenceService) ResolveTopic(topicID int) (catalog.Topic, error) {
	return s.catalog.Topic(topicID)
}

// Infer resolves the topic, reads the asset price and runs the prediction
// engine for the current minute.
func (s *InferenceService) Infer(ctx context.Context, topicID, workerID int) (domain.Prediction, error) {
	ctx, span := s.tracer.Start(ctx, "inference-service.infer")
	defer span.End()

	start := s.now()
	topicLabel := strconv.Itoa(topicID)
	outcome := "ok"
	defer func() {
		s.metrics.ObserveInference(topicLabel, outcome, s.now().Sub(start).Seconds())
	}()

	topic, err := s.catalog.Topic(topicID)
	if err != nil {
		outcome = "bad_topic"
		span.RecordError(err)
		span.SetStatus(codes.Error, err.Error())
		return domain.Prediction{}, err
	}
	span.SetAttributes(
		attribute.Int("topic.id", topic.ID),
		attribute.Int("worker.id", workerID),
		attribute.String("asset.symbol", topic.Symbol),
		attribute.String("timeframe", topic.Timeframe),
	)

	price, err := s.prices.GetPrice(ctx, topic.Symbol)
	if err != nil {
		outcome = "price_unavailable"
		span.RecordError(err)
		span.SetStatus(codes.Error, err.Error())
		return domain.Prediction{}, fmt.Errorf("topic %d: %w", topicID, err)
	}

	in := domain.PredictionInput{
		TopicID:   topic.ID,
		WorkerID:  workerID,
		Symbol:    topic.Symbol,
		Timeframe: topic.Timeframe,
		Price:     price,
		Minute:    start.Truncate(time.Minute),
	}
	pred, err := s.predictor.Predict(in.Price, in.Timeframe, in.WorkerID, in.Minute)
	if err != nil {
		outcome = "predict_failed"
		span.RecordError(err)
		span.SetStatus(codes.Error, err.Error())
		return domain.Prediction{}, fmt.Errorf("predict topic %d: %w", topicID, err)
	}
	span.SetAttributes(attribute.Float64("prediction.value", pred.Value))
	return pred, nil
}

// CachedPrices lists every asset that holds a cached value.
func (s *InferenceService) CachedPrices() []domain.CachedPrice {
	return s.prices.Snapshot()
}

// Topics lists the catalog in id order.
func (s *InferenceService) Topics() []catalog.Topic {
	return s.catalog.Topics()
}

type nopInferenceRecorder struct{}

func (nopInferenceRecorder) ObserveInference(string, string, float64) {}
