package worker

import (
	"context"
	"encoding/json"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/agrichain/agrichain/internal/bus"
	"github.com/agrichain/agrichain/internal/domain"
)

type stubComposer struct {
	tier domain.RiskTier
	err  error
}

func (s stubComposer) Compose(_ context.Context, req domain.InsightRequest) (*domain.Insight, error) {
	if s.err != nil {
		return nil, s.err
	}
	return &domain.Insight{
		ID:    "generated",
		Crop:  req.Crop,
		State: req.State,
		Spoilage: domain.SpoilageAssessment{
			Crop:      req.Crop,
			RiskScore: 80,
			RiskTier:  s.tier,
			DaysSafe:  1,
			Summary:   "Sell immediately.",
		},
	}, nil
}

type memStore struct {
	mu       sync.Mutex
	insights map[string]*domain.Insight
	err      error
}

func (m *memStore) SaveInsight(_ context.Context, insight *domain.Insight) error {
	if m.err != nil {
		return m.err
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.insights == nil {
		m.insights = make(map[string]*domain.Insight)
	}
	m.insights[insight.ID] = insight
	return nil
}

func (m *memStore) get(id string) *domain.Insight {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.insights[id]
}

// collect subscribes to topic and forwards every payload to the returned channel.
func collect(t *testing.T, b domain.EventBus, topic string) <-chan []byte {
	t.Helper()
	ch := make(chan []byte, 10)
	_, err := b.Subscribe(context.Background(), topic, func(_ context.Context, msg *domain.Message) error {
		ch <- msg.Payload
		return nil
	})
	if err != nil {
		t.Fatalf("subscribe %s failed: %v", topic, err)
	}
	return ch
}

func receive(t *testing.T, ch <-chan []byte) []byte {
	t.Helper()
	select {
	case p := <-ch:
		return p
	case <-time.After(2 * time.Second):
		t.Fatal("timeout waiting for message")
		return nil
	}
}

func publishJob(t *testing.T, b domain.EventBus, job Job) {
	t.Helper()
	payload, _ := json.Marshal(job)
	if err := b.Publish(context.Background(), domain.TopicInsightRequested, payload); err != nil {
		t.Fatalf("publish failed: %v", err)
	}
}

func TestWorker(t *testing.T) {
	eventBus := bus.NewChannelBus(100)
	defer eventBus.Close()

	store := &memStore{}
	worker := NewWorker(eventBus, store, stubComposer{tier: domain.TierLow}, nil)

	composed := collect(t, eventBus, domain.TopicInsightComposed)
	alerts := collect(t, eventBus, domain.TopicSpoilageAlert)

	t.Run("StartAndStats", func(t *testing.T) {
		if err := worker.Start(); err != nil {
			t.Fatalf("Start failed: %v", err)
		}
		stats := worker.GetStats()
		if stats.SubscriptionCount != 1 {
			t.Errorf("expected 1 subscription, got %d", stats.SubscriptionCount)
		}
		if stats.Topics[0] != domain.TopicInsightRequested {
			t.Errorf("expected topic %s, got %s", domain.TopicInsightRequested, stats.Topics[0])
		}

		data, err := json.Marshal(stats)
		if err != nil {
			t.Fatalf("failed to marshal stats: %v", err)
		}
		var fields map[string]any
		if err := json.Unmarshal(data, &fields); err != nil {
			t.Fatalf("failed to decode stats: %v", err)
		}
		for _, key := range []string{"subscription_count", "topics", "processed", "failed"} {
			if _, ok := fields[key]; !ok {
				t.Errorf("expected stats field %q, got %s", key, data)
			}
		}
	})

	t.Run("ComposesAndStores", func(t *testing.T) {
		publishJob(t, eventBus, Job{
			ID:      "job-001",
			Request: domain.InsightRequest{Crop: "onion", State: "maharashtra", Quantity: 10},
		})

		var insight domain.Insight
		if err := json.Unmarshal(receive(t, composed), &insight); err != nil {
			t.Fatalf("bad composed payload: %v", err)
		}
		if insight.ID != "job-001" {
			t.Errorf("expected insight ID job-001, got %s", insight.ID)
		}
		if insight.Crop != "onion" {
			t.Errorf("expected crop onion, got %s", insight.Crop)
		}
		if stored := store.get("job-001"); stored == nil {
			t.Error("expected insight to be stored")
		}

		select {
		case <-alerts:
			t.Error("expected no spoilage alert for a Low tier insight")
		case <-time.After(50 * time.Millisecond):
		}

		if got := worker.GetStats().Processed; got != 1 {
			t.Errorf("expected 1 processed, got %d", got)
		}
	})

	t.Run("Stop", func(t *testing.T) {
		if err := worker.Stop(); err != nil {
			t.Fatalf("Stop failed: %v", err)
		}
		if worker.GetStats().SubscriptionCount != 0 {
			t.Error("expected no subscriptions after stop")
		}
	})
}

func TestWorkerSpoilageAlert(t *testing.T) {
	eventBus := bus.NewChannelBus(100)
	defer eventBus.Close()

	worker := NewWorker(eventBus, nil, stubComposer{tier: domain.TierHigh}, nil)
	alerts := collect(t, eventBus, domain.TopicSpoilageAlert)
	if err := worker.Start(); err != nil {
		t.Fatalf("Start failed: %v", err)
	}
	defer worker.Stop()

	publishJob(t, eventBus, Job{
		ID:      "job-hot",
		Request: domain.InsightRequest{Crop: "tomato", State: "karnataka", District: "kolar"},
	})

	var alert Alert
	if err := json.Unmarshal(receive(t, alerts), &alert); err != nil {
		t.Fatalf("bad alert payload: %v", err)
	}
	if alert.InsightID != "job-hot" {
		t.Errorf("expected insight id job-hot, got %s", alert.InsightID)
	}
	if alert.RiskTier != domain.TierHigh {
		t.Errorf("expected High tier, got %s", alert.RiskTier)
	}
	if alert.DaysSafe != 1 {
		t.Errorf("expected 1 day safe, got %d", alert.DaysSafe)
	}
}

func TestWorkerFailures(t *testing.T) {
	tests := []struct {
		name     string
		composer Composer
		store    InsightStore
		payload  []byte
		wantID   string
	}{
		{
			name:     "compose error",
			composer: stubComposer{err: errors.New("crop is required")},
			payload:  mustJSON(Job{ID: "job-bad"}),
			wantID:   "job-bad",
		},
		{
			name:     "store error",
			composer: stubComposer{tier: domain.TierLow},
			store:    &memStore{err: errors.New("disk full")},
			payload:  mustJSON(Job{ID: "job-disk", Request: domain.InsightRequest{Crop: "onion", State: "goa"}}),
			wantID:   "job-disk",
		},
		{
			name:     "malformed payload",
			composer: stubComposer{tier: domain.TierLow},
			payload:  []byte("{not json"),
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			eventBus := bus.NewChannelBus(100)
			defer eventBus.Close()

			worker := NewWorker(eventBus, tt.store, tt.composer, nil)
			failures := collect(t, eventBus, domain.TopicInsightFailed)

			msg := &domain.Message{ID: "msg-1", Topic: domain.TopicInsightRequested, Payload: tt.payload}
			if err := worker.Process(context.Background(), msg); err == nil {
				t.Fatal("expected processing error")
			}

			var failure Failure
			if err := json.Unmarshal(receive(t, failures), &failure); err != nil {
				t.Fatalf("bad failure payload: %v", err)
			}
			want := tt.wantID
			if want == "" {
				want = "msg-1"
			}
			if failure.ID != want {
				t.Errorf("expected failure id %s, got %s", want, failure.ID)
			}
			if failure.Error == "" {
				t.Error("expected failure reason")
			}
			if got := worker.GetStats().Failed; got != 1 {
				t.Errorf("expected 1 failed, got %d", got)
			}
		})
	}
}

func mustJSON(v any) []byte {
	b, err := json.Marshal(v)
	if err != nil {
		panic(err)
	}
	return b
}
