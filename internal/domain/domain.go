package domain

import "time"

// WorkerTask is a single polling assignment for one worker.
type WorkerTask struct {
	TopicID           int    `json:"topicId" yaml:"topicId"`
	LoopSeconds       int    `json:"loopSeconds" yaml:"loopSeconds"`
	Offset            int    `json:"offset" yaml:"offset"`
	InferenceEndpoint string `json:"inferenceEndpoint" yaml:"inferenceEndpoint"`
}

// WorkerPlan holds the tasks of one worker, one per topic group, in group order.
type WorkerPlan struct {
	WorkerID int          `json:"workerId" yaml:"workerId"`
	Tasks    []WorkerTask `json:"tasks" yaml:"tasks"`
}

// Plan is the static output of provisioning.
type Plan struct {
	TotalWorkers int          `json:"totalWorkers" yaml:"totalWorkers"`
	Allocation   map[int]int  `json:"allocation" yaml:"allocation"`
	Distribution map[int]int  `json:"distribution" yaml:"distribution"`
	Workers      []WorkerPlan `json:"workers" yaml:"workers"`
	GeneratedAt  time.Time    `json:"generatedAt" yaml:"generatedAt"`
}

// PredictionInput is the per-request input to the prediction engine.
type PredictionInput struct {
	TopicID   int
	WorkerID  int
	Symbol    string
	Timeframe string
	Price     float64
	Minute    time.Time
}

// Prediction is a synthetic forecast and the change that produced it.
type Prediction struct {
	BasePrice     float64 `json:"base_price"`
	ChangePercent float64 `json:"change_percent"`
	Value         float64 `json:"value"`
}

// CachedPrice is a read-only view of a price cache slot.
type CachedPrice struct {
	Symbol    string    `json:"symbol"`
	Price     float64   `json:"price"`
	FetchedAt time.Time `json:"fetched_at"`
	Stale     bool      `json:"stale"`
}
