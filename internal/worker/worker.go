// Package worker composes insights asynchronously from the EventBus.
package worker

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"sync"
	"sync/atomic"
	"time"

	"github.com/agrichain/agrichain/internal/domain"
)

// Composer builds an insight from a request.
type Composer interface {
	Compose(ctx context.Context, req domain.InsightRequest) (*domain.Insight, error)
}

// InsightStore persists composed insights.
type InsightStore interface {
	SaveInsight(ctx context.Context, insight *domain.Insight) error
}

// Job is the payload published on TopicInsightRequested.
type Job struct {
	ID      string                `json:"id"`
	TraceID string                `json:"trace_id,omitempty"`
	Request domain.InsightRequest `json:"request"`
}

// Failure is the payload published on TopicInsightFailed.
type Failure struct {
	ID    string `json:"id"`
	Error string `json:"error"`
}

// Alert is the payload published on TopicSpoilageAlert.
type Alert struct {
	InsightID string          `json:"insight_id"`
	Crop      string          `json:"crop"`
	State     string          `json:"state"`
	District  string          `json:"district"`
	RiskScore int             `json:"risk_score"`
	RiskTier  domain.RiskTier `json:"risk_tier"`
	DaysSafe  int             `json:"days_safe"`
	Summary   string          `json:"summary"`
}

// Worker consumes insight requests, composes and stores them, and
// publishes the outcome.
type Worker struct {
	bus      domain.EventBus
	store    InsightStore
	composer Composer
	logger   *slog.Logger

	mu            sync.Mutex
	subscriptions []domain.Subscription
	wg            sync.WaitGroup
	ctx           context.Context
	cancel        context.CancelFunc

	processed atomic.Int64
	failed    atomic.Int64
}

// NewWorker creates a new async worker. store may be nil.
func NewWorker(bus domain.EventBus, store InsightStore, composer Composer, logger *slog.Logger) *Worker {
	if logger == nil {
		logger = slog.Default()
	}
	ctx, cancel := context.WithCancel(context.Background())
	return &Worker{
		bus:      bus,
		store:    store,
		composer: composer,
		logger:   logger,
		ctx:      ctx,
		cancel:   cancel,
	}
}

// Start subscribes to insight requests.
func (w *Worker) Start() error {
	sub, err := w.bus.Subscribe(w.ctx, domain.TopicInsightRequested, w.handleMessage)
	if err != nil {
		return fmt.Errorf("failed to subscribe to %s: %w", domain.TopicInsightRequested, err)
	}

	w.mu.Lock()
	w.subscriptions = append(w.subscriptions, sub)
	w.mu.Unlock()

	w.logger.Info("insight worker started", "topic", domain.TopicInsightRequested)
	return nil
}

func (w *Worker) handleMessage(ctx context.Context, msg *domain.Message) error {
	w.wg.Add(1)
	defer w.wg.Done()
	return w.Process(ctx, msg)
}

// Process composes the insight for one request message.
func (w *Worker) Process(ctx context.Context, msg *domain.Message) error {
	start := time.Now()

	var job Job
	if err := json.Unmarshal(msg.Payload, &job); err != nil {
		w.failed.Add(1)
		w.logger.Error("failed to parse insight job", "message_id", msg.ID, "error", err)
		w.publishFailure(ctx, msg.ID, err)
		return err
	}
	if job.ID == "" {
		job.ID = msg.ID
	}

	w.logger.Debug("processing insight job",
		"job_id", job.ID,
		"trace_id", job.TraceID,
		"crop", job.Request.Crop,
	)

	insight, err := w.composer.Compose(ctx, job.Request)
	if err != nil {
		w.failed.Add(1)
		w.logger.Error("insight composition failed", "job_id", job.ID, "error", err)
		w.publishFailure(ctx, job.ID, err)
		return err
	}
	insight.ID = job.ID

	if w.store != nil {
		if err := w.store.SaveInsight(ctx, insight); err != nil {
			w.failed.Add(1)
			w.logger.Error("failed to save insight", "job_id", job.ID, "error", err)
			w.publishFailure(ctx, job.ID, err)
			return err
		}
	}

	payload, err := json.Marshal(insight)
	if err != nil {
		return fmt.Errorf("failed to marshal insight: %w", err)
	}
	if err := w.bus.Publish(ctx, domain.TopicInsightComposed, payload); err != nil {
		w.logger.Error("failed to publish insight", "job_id", job.ID, "error", err)
	}

	if insight.Spoilage.RiskTier == domain.TierHigh {
		alert, _ := json.Marshal(Alert{
			InsightID: insight.ID,
			Crop:      insight.Crop,
			State:     insight.State,
			District:  insight.District,
			RiskScore: insight.Spoilage.RiskScore,
			RiskTier:  insight.Spoilage.RiskTier,
			DaysSafe:  insight.Spoilage.DaysSafe,
			Summary:   insight.Spoilage.Summary,
		})
		if err := w.bus.Publish(ctx, domain.TopicSpoilageAlert, alert); err != nil {
			w.logger.Error("failed to publish spoilage alert", "job_id", job.ID, "error", err)
		}
	}

	w.processed.Add(1)
	w.logger.Info("insight processed",
		"job_id", job.ID,
		"crop", insight.Crop,
		"spoilage_tier", insight.Spoilage.RiskTier,
		"duration_ms", time.Since(start).Milliseconds(),
	)
	return nil
}

func (w *Worker) publishFailure(ctx context.Context, id string, cause error) {
	payload, _ := json.Marshal(Failure{ID: id, Error: cause.Error()})
	if err := w.bus.Publish(ctx, domain.TopicInsightFailed, payload); err != nil {
		w.logger.Error("failed to publish failure", "job_id", id, "error", err)
	}
}

// Stop gracefully stops the worker and waits for in-flight jobs.
func (w *Worker) Stop() error {
	w.cancel()

	w.mu.Lock()
	for _, sub := range w.subscriptions {
		if err := sub.Unsubscribe(); err != nil {
			w.logger.Error("failed to unsubscribe", "topic", sub.Topic(), "error", err)
		}
	}
	w.subscriptions = nil
	w.mu.Unlock()

	w.wg.Wait()

	w.logger.Info("insight worker stopped")
	return nil
}

// Stats returns worker statistics.
type Stats struct {
	SubscriptionCount int      `json:"subscription_count"`
	Topics            []string `json:"topics"`
	Processed         int64    `json:"processed"`
	Failed            int64    `json:"failed"`
}

// GetStats returns current worker statistics.
func (w *Worker) GetStats() Stats {
	w.mu.Lock()
	defer w.mu.Unlock()

	topics := make([]string, len(w.subscriptions))
	for i, sub := range w.subscriptions {
		topics[i] = sub.Topic()
	}
	return Stats{
		SubscriptionCount: len(w.subscriptions),
		Topics:            topics,
		Processed:         w.processed.Load(),
		Failed:            w.failed.Load(),
	}
}
