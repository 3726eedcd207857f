package repository

import (
	"context"
	"errors"
	"os"
	"testing"
	"time"

	"github.com/agrichain/agrichain/internal/domain"
)

func newTestRepo(t *testing.T) domain.Repository {
	t.Helper()

	tmpFile, err := os.CreateTemp("", "agrichain-test-*.db")
	if err != nil {
		t.Fatalf("failed to create temp file: %v", err)
	}
	tmpPath := tmpFile.Name()
	tmpFile.Close()
	t.Cleanup(func() { os.Remove(tmpPath) })

	repo, err := New(domain.RepositoryConfig{
		Driver:     "sqlite",
		SQLitePath: tmpPath,
	})
	if err != nil {
		t.Fatalf("failed to create repository: %v", err)
	}
	t.Cleanup(func() { repo.Close() })
	return repo
}

func TestSQLiteRepository(t *testing.T) {
	repo := newTestRepo(t)
	ctx := context.Background()

	t.Run("Ping", func(t *testing.T) {
		if err := repo.Ping(ctx); err != nil {
			t.Errorf("Ping failed: %v", err)
		}
	})

	t.Run("SaveAndListArrivals", func(t *testing.T) {
		day := time.Date(2024, 3, 4, 0, 0, 0, 0, time.UTC)
		records := []domain.ArrivalRecord{
			{Commodity: "tomato", State: "maharashtra", Market: "Pune", ArrivalDate: day.AddDate(0, 0, 7), ModalPrice: 1500},
			{Commodity: "Tomato", State: "Maharashtra", District: "Nashik", Market: "Lasalgaon", ArrivalDate: day, ModalPrice: 1200},
			{Commodity: "Onion", State: "Maharashtra", Market: "Pune", ArrivalDate: day, ModalPrice: 900},
		}

		n, err := repo.SaveArrivals(ctx, records)
		if err != nil {
			t.Fatalf("SaveArrivals failed: %v", err)
		}
		if n != 3 {
			t.Errorf("expected 3 saved, got %d", n)
		}

		got, err := repo.ListArrivals(ctx, "TOMATO", "Maharashtra")
		if err != nil {
			t.Fatalf("ListArrivals failed: %v", err)
		}
		if len(got) != 2 {
			t.Fatalf("expected 2 tomato arrivals, got %d", len(got))
		}
		if !got[0].ArrivalDate.Equal(day) || got[0].Market != "Lasalgaon" {
			t.Errorf("expected oldest arrival first, got %+v", got[0])
		}
		if got[1].Commodity != "Tomato" || got[1].State != "Maharashtra" {
			t.Errorf("expected normalized names, got %s/%s", got[1].Commodity, got[1].State)
		}
	})

	t.Run("ArrivalsUpsert", func(t *testing.T) {
		day := time.Date(2024, 5, 1, 0, 0, 0, 0, time.UTC)
		rec := domain.ArrivalRecord{Commodity: "Potato", State: "Punjab", Market: "Jalandhar", ArrivalDate: day, ModalPrice: 800}
		if _, err := repo.SaveArrivals(ctx, []domain.ArrivalRecord{rec}); err != nil {
			t.Fatalf("SaveArrivals failed: %v", err)
		}
		rec.ModalPrice = 850
		if _, err := repo.SaveArrivals(ctx, []domain.ArrivalRecord{rec}); err != nil {
			t.Fatalf("SaveArrivals failed: %v", err)
		}

		got, _ := repo.ListArrivals(ctx, "Potato", "Punjab")
		if len(got) != 1 {
			t.Fatalf("expected 1 arrival after re-import, got %d", len(got))
		}
		if got[0].ModalPrice != 850 {
			t.Errorf("expected price 850, got %v", got[0].ModalPrice)
		}
	})

	t.Run("ArrivalsValidation", func(t *testing.T) {
		bad := []domain.ArrivalRecord{
			{Commodity: "Rice", State: "Kerala", Market: "Kochi", ArrivalDate: time.Now(), ModalPrice: 2000},
			{Commodity: "Rice", State: "Kerala", ArrivalDate: time.Now(), ModalPrice: 2000},
		}
		_, err := repo.SaveArrivals(ctx, bad)
		if !errors.Is(err, ErrInvalidInput) {
			t.Errorf("expected ErrInvalidInput, got %v", err)
		}

		got, _ := repo.ListArrivals(ctx, "Rice", "Kerala")
		if len(got) != 0 {
			t.Errorf("expected batch to be rejected whole, got %d rows", len(got))
		}
	})

	t.Run("ListArrivalsEmpty", func(t *testing.T) {
		got, err := repo.ListArrivals(ctx, "Saffron", "Goa")
		if err != nil {
			t.Fatalf("ListArrivals failed: %v", err)
		}
		if got == nil || len(got) != 0 {
			t.Errorf("expected empty non-nil slice, got %v", got)
		}
	})

	t.Run("SaveAndGetInsight", func(t *testing.T) {
		insight := &domain.Insight{
			ID:        "ins-001",
			Crop:      "Tomato",
			State:     "Maharashtra",
			Timestamp: time.Now().UTC(),
			Spoilage:  domain.SpoilageAssessment{Crop: "Tomato", RiskScore: 49, RiskTier: domain.TierMedium, DaysSafe: 3},
			Explanation: domain.ExplainablePayload{
				Recommendation:  "Sell within 3 days at Pune.",
				Confidence:      domain.ConfidenceMedium,
				ConfidenceScore: 0.62,
			},
		}

		if err := repo.SaveInsight(ctx, insight); err != nil {
			t.Fatalf("SaveInsight failed: %v", err)
		}

		got, err := repo.GetInsight(ctx, "ins-001")
		if err != nil {
			t.Fatalf("GetInsight failed: %v", err)
		}
		if got.Spoilage.RiskScore != 49 {
			t.Errorf("expected risk score 49, got %d", got.Spoilage.RiskScore)
		}
		if got.Explanation.Recommendation != insight.Explanation.Recommendation {
			t.Errorf("expected recommendation %q, got %q", insight.Explanation.Recommendation, got.Explanation.Recommendation)
		}
	})

	t.Run("InsightRequiresID", func(t *testing.T) {
		err := repo.SaveInsight(ctx, &domain.Insight{Crop: "Tomato"})
		if !errors.Is(err, ErrInvalidInput) {
			t.Errorf("expected ErrInvalidInput, got %v", err)
		}
	})

	t.Run("AdvisoryRuleLifecycle", func(t *testing.T) {
		rule := &domain.AdvisoryRule{
			ID:         "heat-glut",
			Name:       "Heat during glut",
			Expression: `temperature > 35.0 && surge_advice == "SellNowOrDelay"`,
			Message:    "Hot weather during a market glut",
			Severity:   domain.TierHigh,
			Enabled:    true,
		}
		if err := repo.SaveAdvisoryRule(ctx, rule); err != nil {
			t.Fatalf("SaveAdvisoryRule failed: %v", err)
		}

		got, err := repo.GetAdvisoryRule(ctx, "heat-glut")
		if err != nil {
			t.Fatalf("GetAdvisoryRule failed: %v", err)
		}
		if got.Expression != rule.Expression || got.Severity != domain.TierHigh || !got.Enabled {
			t.Errorf("unexpected rule: %+v", got)
		}

		rule.Enabled = false
		rule.Message = "Updated"
		if err := repo.SaveAdvisoryRule(ctx, rule); err != nil {
			t.Fatalf("update failed: %v", err)
		}

		rules, err := repo.ListAdvisoryRules(ctx)
		if err != nil {
			t.Fatalf("ListAdvisoryRules failed: %v", err)
		}
		if len(rules) != 1 || rules[0].Enabled || rules[0].Message != "Updated" {
			t.Errorf("expected one disabled updated rule, got %+v", rules)
		}

		if err := repo.DeleteAdvisoryRule(ctx, "heat-glut"); err != nil {
			t.Fatalf("DeleteAdvisoryRule failed: %v", err)
		}
		if _, err := repo.GetAdvisoryRule(ctx, "heat-glut"); !errors.Is(err, ErrNotFound) {
			t.Errorf("expected ErrNotFound after delete, got %v", err)
		}
		if err := repo.DeleteAdvisoryRule(ctx, "heat-glut"); !errors.Is(err, ErrNotFound) {
			t.Errorf("expected ErrNotFound on second delete, got %v", err)
		}

		rules, _ = repo.ListAdvisoryRules(ctx)
		if len(rules) != 0 {
			t.Errorf("expected deleted rule to be hidden, got %d", len(rules))
		}

		rule.Enabled = true
		if err := repo.SaveAdvisoryRule(ctx, rule); err != nil {
			t.Fatalf("restore failed: %v", err)
		}
		if _, err := repo.GetAdvisoryRule(ctx, "heat-glut"); err != nil {
			t.Errorf("expected restored rule, got %v", err)
		}
	})

	t.Run("AdvisoryRuleValidation", func(t *testing.T) {
		err := repo.SaveAdvisoryRule(ctx, &domain.AdvisoryRule{ID: "empty"})
		if !errors.Is(err, ErrInvalidInput) {
			t.Errorf("expected ErrInvalidInput, got %v", err)
		}
	})

	t.Run("NotFound", func(t *testing.T) {
		if _, err := repo.GetInsight(ctx, "nonexistent"); !errors.Is(err, ErrNotFound) {
			t.Errorf("expected ErrNotFound, got %v", err)
		}
		if _, err := repo.GetAdvisoryRule(ctx, "nonexistent"); !errors.Is(err, ErrNotFound) {
			t.Errorf("expected ErrNotFound, got %v", err)
		}
	})
}

func TestUnsupportedDriver(t *testing.T) {
	cfg := domain.RepositoryConfig{
		Driver: "mysql",
	}

	_, err := New(cfg)
	if err == nil {
		t.Error("expected error for unsupported driver")
	}
}

func TestRebind(t *testing.T) {
	repo := &SQLRepository{driver: "postgres"}

	tests := []struct {
		input    string
		expected string
	}{
		{"SELECT * FROM t WHERE id = ?", "SELECT * FROM t WHERE id = $1"},
		{"INSERT INTO t (a, b) VALUES (?, ?)", "INSERT INTO t (a, b) VALUES ($1, $2)"},
		{"SELECT * FROM t", "SELECT * FROM t"},
	}

	for _, tt := range tests {
		result := repo.rebind(tt.input)
		if result != tt.expected {
			t.Errorf("rebind(%q) = %q, want %q", tt.input, result, tt.expected)
		}
	}
}
