package provision

import (
	"fmt"
	"math/rand/v2"
	"strings"
	"time"

	"worker-fleet/internal/catalog"
	"worker-fleet/internal/domain"

	"github.com/rs/zerolog"
)

const DefaultEndpointBase = "http://inference:8000"

// Planner builds the static per-worker task plan.
type Planner struct {
	catalog      *catalog.Catalog
	rng          *rand.Rand
	endpointBase string
	now          func() time.Time
	log          zerolog.Logger
}

type Option func(*Planner)

// WithRand replaces the unseeded random source, for tests.
func WithRand(rng *rand.Rand) Option {
	return func(p *Planner) { p.rng = rng }
}

// WithEndpointBase sets the inference service base URL written into tasks.
func WithEndpointBase(base string) Option {
	return func(p *Planner) {
		if base != "" {
			p.endpointBase = strings.TrimRight(base, "/")
		}
	}
}

func WithLogger(l zerolog.Logger) Option {
	return func(p *Planner) { p.log = l }
}

func NewPlanner(cat *catalog.Catalog, opts ...Option) *Planner {
	p := &Planner{
		catalog:      cat,
		endpointBase: DefaultEndpointBase,
		now:          time.Now,
		log:          zerolog.Nop(),
	}
	for _, opt := range opts {
		opt(p)
	}
	if p.rng == nil {
		p.rng = newUnseededRand()
	}
	return p
}

type taskRef struct {
	worker int
	task   int
}

// Build allocates, selects topics, draws polling intervals and assigns
// staggered offsets for total workers.
func (p *Planner) Build(total int) (*domain.Plan, error) {
	allocation, err := Allocate(total, p.catalog)
	if err != nil {
		return nil, err
	}

	groups := p.catalog.Groups()
	workers := make([]domain.WorkerPlan, total)
	members := make(map[int][]taskRef)

	for w := range workers {
		workerID := w + 1
		topics := SelectTopics(p.rng, groups)
		tasks := make([]domain.WorkerTask, 0, len(topics))
		for _, id := range topics {
			topic, err := p.catalog.Topic(id)
			if err != nil {
				return nil, err
			}
			members[id] = append(members[id], taskRef{worker: w, task: len(tasks)})
			tasks = append(tasks, domain.WorkerTask{
				TopicID:           id,
				LoopSeconds:       topic.MinInterval + p.rng.IntN(topic.MaxInterval-topic.MinInterval+1),
				InferenceEndpoint: p.endpoint(id, workerID),
			})
		}
		workers[w] = domain.WorkerPlan{WorkerID: workerID, Tasks: tasks}
	}

	distribution := make(map[int]int)
	for _, topic := range p.catalog.Topics() {
		refs := members[topic.ID]
		distribution[topic.ID] = len(refs)
		offsets, err := ScheduleOffsets(p.rng, len(refs), topic.Window)
		if err != nil {
			return nil, fmt.Errorf("schedule offsets for topic %d: %w", topic.ID, err)
		}
		for i, ref := range refs {
			workers[ref.worker].Tasks[ref.task].Offset = offsets[i]
		}
	}

	p.log.Info().
		Int("workers", total).
		Int("groups", len(groups)).
		Msg("provisioning plan built")

	return &domain.Plan{
		TotalWorkers: total,
		Allocation:   allocation,
		Distribution: distribution,
		Workers:      workers,
		GeneratedAt:  p.now().UTC(),
	}, nil
}

func (p *Planner) endpoint(topicID, workerID int) string {
	return fmt.Sprintf("%s/inference/%d?worker_id=%d", p.endpointBase, topicID, workerID)
}

// SummaryRow compares the weighted target with what random selection produced.
type SummaryRow struct {
	TopicID   int
	Symbol    string
	Timeframe string
	Target    int
	Actual    int
	Percent   float64
}

// Summarize returns one row per topic, ordered by topic id.
func Summarize(plan *domain.Plan, cat *catalog.Catalog) []SummaryRow {
	rows := make([]SummaryRow, 0, len(plan.Distribution))
	for _, t := range cat.Topics() {
		row := SummaryRow{
			TopicID:   t.ID,
			Symbol:    t.Symbol,
			Timeframe: t.Timeframe,
			Target:    plan.Allocation[t.ID],
			Actual:    plan.Distribution[t.ID],
		}
		if plan.TotalWorkers > 0 {
			row.Percent = float64(row.Actual) / float64(plan.TotalWorkers) * 100
		}
		rows = append(rows, row)
	}
	return rows
}
