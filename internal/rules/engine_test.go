package rules

import (
	"context"
	"errors"
	"fmt"
	"testing"

	"github.com/agrichain/agrichain/internal/domain"
)

func hotTomato() domain.AdvisoryFacts {
	return domain.AdvisoryFacts{
		Crop:          "tomato",
		State:         "maharashtra",
		SpoilageScore: 72,
		SpoilageTier:  domain.TierHigh,
		DaysSafe:      2,
		BypassScore:   7,
		SurgeAdvice:   domain.AdviceSellBeforeSurge,
		Trend:         domain.TrendFalling,
		Temperature:   36.5,
		Humidity:      82,
		Quantity:      40,
	}
}

func TestEngineCreation(t *testing.T) {
	engine, err := NewEngine(5)
	if err != nil {
		t.Fatalf("failed to create engine: %v", err)
	}
	defer engine.Close()

	if engine.RulesCount() != 0 {
		t.Errorf("expected 0 rules, got %d", engine.RulesCount())
	}
	if results := engine.EvaluateAll(context.Background(), hotTomato()); results != nil {
		t.Errorf("expected no results without rules, got %v", results)
	}
}

func TestLoadRule(t *testing.T) {
	engine, _ := NewEngine(5)
	defer engine.Close()

	rule := &domain.AdvisoryRule{
		ID:         "heat-001",
		Name:       "Heat Check",
		Expression: "temperature > 35.0",
		Message:    "Heat stress: harvest early morning.",
		Severity:   domain.TierMedium,
		Enabled:    true,
	}
	if err := engine.LoadRule(rule); err != nil {
		t.Fatalf("failed to load rule: %v", err)
	}
	if engine.RulesCount() != 1 {
		t.Errorf("expected 1 rule, got %d", engine.RulesCount())
	}
}

func TestLoadInvalidRule(t *testing.T) {
	engine, _ := NewEngine(5)
	defer engine.Close()

	tests := []struct {
		name string
		rule *domain.AdvisoryRule
	}{
		{"syntax", &domain.AdvisoryRule{ID: "bad", Expression: "this is not valid CEL !!!", Enabled: true}},
		{"unknown variable", &domain.AdvisoryRule{ID: "bad", Expression: "amount > 100.0", Enabled: true}},
		{"string result", &domain.AdvisoryRule{ID: "bad", Expression: "crop", Enabled: true}},
		{"missing id", &domain.AdvisoryRule{Expression: "days_safe < 3", Enabled: true}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if err := engine.LoadRule(tt.rule); err == nil {
				t.Error("expected compile error")
			}
			if err := engine.ValidateRule(tt.rule); err == nil {
				t.Error("expected validation error")
			}
		})
	}
	if err := engine.ValidateRule(nil); err == nil {
		t.Error("expected error for nil rule")
	}
	if engine.RulesCount() != 0 {
		t.Errorf("expected invalid rules not to load, got %d", engine.RulesCount())
	}
}

func TestEvaluateTriggers(t *testing.T) {
	engine, _ := NewEngine(5)
	defer engine.Close()

	_ = engine.LoadRules([]*domain.AdvisoryRule{
		{ID: "a-bool", Expression: "spoilage_tier == 'High' && days_safe <= 2", Message: "Sell within two days.", Severity: domain.TierHigh, Enabled: true},
		{ID: "b-int", Expression: "bypass_score - 5", Message: "Direct buyer worth contacting.", Severity: domain.TierLow, Enabled: true},
		{ID: "c-double", Expression: "humidity - 90.0", Message: "Very humid.", Severity: domain.TierMedium, Enabled: true},
		{ID: "d-surge", Expression: "surge_advice == 'SellBeforeSurge' && trend == 'falling'", Message: "Prices under pressure.", Severity: domain.TierMedium, Enabled: true},
		{ID: "e-disabled", Expression: "true", Message: "never", Enabled: false},
	})

	if engine.RulesCount() != 4 {
		t.Fatalf("expected 4 enabled rules, got %d", engine.RulesCount())
	}

	results := engine.EvaluateAll(context.Background(), hotTomato())
	if len(results) != 4 {
		t.Fatalf("expected 4 results, got %d", len(results))
	}

	byID := make(map[string]domain.AdvisoryResult)
	for _, r := range results {
		byID[r.RuleID] = r
	}
	if !byID["a-bool"].Triggered || byID["a-bool"].Value != 1 {
		t.Errorf("expected bool rule to trigger, got %+v", byID["a-bool"])
	}
	if !byID["b-int"].Triggered || byID["b-int"].Value != 2 {
		t.Errorf("expected int rule to trigger with 2, got %+v", byID["b-int"])
	}
	if byID["c-double"].Triggered || byID["c-double"].Message != "" {
		t.Errorf("expected negative double not to trigger, got %+v", byID["c-double"])
	}
	if !byID["d-surge"].Triggered {
		t.Errorf("expected surge rule to trigger, got %+v", byID["d-surge"])
	}
}

func TestResultOrder(t *testing.T) {
	engine, _ := NewEngine(3)
	defer engine.Close()

	_ = engine.LoadRules([]*domain.AdvisoryRule{
		{ID: "z-low", Expression: "true", Message: "low", Severity: domain.TierLow, Enabled: true},
		{ID: "b-high", Expression: "true", Message: "high b", Severity: domain.TierHigh, Enabled: true},
		{ID: "m-medium", Expression: "true", Message: "medium", Severity: domain.TierMedium, Enabled: true},
		{ID: "a-high", Expression: "true", Message: "high a", Severity: domain.TierHigh, Enabled: true},
	})

	want := []string{"a-high", "b-high", "m-medium", "z-low"}
	for run := 0; run < 10; run++ {
		results := engine.EvaluateAll(context.Background(), hotTomato())
		for i, r := range results {
			if r.RuleID != want[i] {
				t.Fatalf("run %d: expected %v at %d, got %s", run, want[i], i, r.RuleID)
			}
		}
	}

	msgs := Triggered(engine.EvaluateAll(context.Background(), hotTomato()))
	if fmt.Sprint(msgs) != "[high a high b medium low]" {
		t.Errorf("unexpected triggered messages: %v", msgs)
	}
}

func TestParallelExecution(t *testing.T) {
	engine, _ := NewEngine(3)
	defer engine.Close()

	for i := 0; i < 10; i++ {
		_ = engine.LoadRule(&domain.AdvisoryRule{
			ID:         fmt.Sprintf("rule-%02d", i),
			Expression: "quantity > 0.0",
			Message:    "ok",
			Enabled:    true,
		})
	}

	results := engine.EvaluateAll(context.Background(), hotTomato())
	if len(results) != 10 {
		t.Fatalf("expected 10 results, got %d", len(results))
	}
	for i, r := range results {
		if !r.Triggered {
			t.Errorf("rule %d: expected trigger, got %+v", i, r)
		}
		if r.ProcessUs < 0 {
			t.Error("ProcessUs should be non-negative")
		}
	}
}

func TestEvaluationError(t *testing.T) {
	engine, _ := NewEngine(2)
	defer engine.Close()

	_ = engine.LoadRule(&domain.AdvisoryRule{ID: "div", Expression: "100 / (days_safe - 2) > 1", Message: "x", Enabled: true})

	results := engine.EvaluateAll(context.Background(), hotTomato())
	if results[0].Error == "" || results[0].Triggered {
		t.Errorf("expected evaluation error without trigger, got %+v", results[0])
	}
}

func TestReloadRules(t *testing.T) {
	engine, _ := NewEngine(2)
	defer engine.Close()

	_ = engine.LoadRule(&domain.AdvisoryRule{ID: "old", Expression: "true", Enabled: true})

	err := engine.ReloadRules([]*domain.AdvisoryRule{
		{ID: "new-1", Expression: "days_safe < 3", Enabled: true},
		{ID: "broken", Expression: "nope(", Enabled: true},
	})
	if err == nil {
		t.Fatal("expected compile error")
	}
	if got := engine.GetLoadedRules(); len(got) != 1 || got[0].ID != "old" {
		t.Errorf("expected previous rules kept after failed reload, got %v", got)
	}

	if err := engine.ReloadRules([]*domain.AdvisoryRule{
		{ID: "new-2", Expression: "days_safe < 3", Enabled: true},
		{ID: "new-1", Expression: "humidity > 80.0", Enabled: true},
	}); err != nil {
		t.Fatalf("reload failed: %v", err)
	}
	got := engine.GetLoadedRules()
	if len(got) != 2 || got[0].ID != "new-1" || got[1].ID != "new-2" {
		t.Errorf("unexpected loaded rules: %v", got)
	}
}

type stubSource struct {
	rules []*domain.AdvisoryRule
	err   error
}

func (s stubSource) ListAdvisoryRules(context.Context) ([]*domain.AdvisoryRule, error) {
	return s.rules, s.err
}

func TestReloadFromSource(t *testing.T) {
	engine, _ := NewEngine(2)
	defer engine.Close()
	ctx := context.Background()

	n, err := engine.Reload(ctx, stubSource{rules: []*domain.AdvisoryRule{
		{ID: "r1", Expression: "true", Enabled: true},
		{ID: "r2", Expression: "true", Enabled: false},
	}})
	if err != nil {
		t.Fatalf("Reload failed: %v", err)
	}
	if n != 1 {
		t.Errorf("expected 1 loaded rule, got %d", n)
	}

	if _, err := engine.Reload(ctx, stubSource{err: errors.New("db down")}); err == nil {
		t.Error("expected error from failing source")
	}
	if engine.RulesCount() != 1 {
		t.Errorf("expected rules unchanged after failed reload, got %d", engine.RulesCount())
	}
}

func TestCancelledContext(t *testing.T) {
	engine, _ := NewEngine(2)
	defer engine.Close()
	_ = engine.LoadRule(&domain.AdvisoryRule{ID: "r", Expression: "true", Message: "m", Enabled: true})

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	results := engine.EvaluateAll(ctx, hotTomato())
	if results[0].Triggered || results[0].Error == "" {
		t.Errorf("expected cancelled evaluation, got %+v", results[0])
	}
}
