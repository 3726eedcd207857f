// Package rules provides the CEL-Go based advisory rule engine.
package rules

import (
	"context"
	"errors"
	"fmt"
	"sort"
	"sync"
	"time"

	"github.com/google/cel-go/cel"
	"github.com/google/cel-go/common/types"
	"github.com/google/cel-go/common/types/ref"

	"github.com/agrichain/agrichain/internal/domain"
)

// Engine is the CEL-based advisory rule engine.
type Engine struct {
	mu            sync.RWMutex
	env           *cel.Env
	compiledRules map[string]*CompiledRule
	maxWorkers    int
}

// CompiledRule holds a pre-compiled CEL program.
type CompiledRule struct {
	Rule    *domain.AdvisoryRule
	Program cel.Program
}

// RuleSource lists stored advisory rules.
type RuleSource interface {
	ListAdvisoryRules(ctx context.Context) ([]*domain.AdvisoryRule, error)
}

// NewEngine creates a new advisory rule engine.
func NewEngine(maxWorkers int) (*Engine, error) {
	if maxWorkers <= 0 {
		maxWorkers = 10
	}

	// Variables exposed to advisory expressions
	env, err := cel.NewEnv(
		cel.Variable("crop", cel.StringType),
		cel.Variable("state", cel.StringType),
		cel.Variable("spoilage_score", cel.IntType),
		cel.Variable("spoilage_tier", cel.StringType),
		cel.Variable("days_safe", cel.IntType),
		cel.Variable("bypass_score", cel.IntType),
		cel.Variable("surge_advice", cel.StringType),
		cel.Variable("trend", cel.StringType),
		cel.Variable("temperature", cel.DoubleType),
		cel.Variable("humidity", cel.DoubleType),
		cel.Variable("quantity", cel.DoubleType),
	)
	if err != nil {
		return nil, fmt.Errorf("failed to create CEL environment: %w", err)
	}

	return &Engine{
		env:           env,
		compiledRules: make(map[string]*CompiledRule),
		maxWorkers:    maxWorkers,
	}, nil
}

// ValidateRule compiles and validates a rule without mutating loaded engine rules.
func (e *Engine) ValidateRule(rule *domain.AdvisoryRule) error {
	if rule == nil {
		return errors.New("advisory rule is required")
	}

	e.mu.RLock()
	defer e.mu.RUnlock()

	_, err := e.compileRule(rule)
	return err
}

// LoadRule compiles and loads a rule into the engine.
func (e *Engine) LoadRule(rule *domain.AdvisoryRule) error {
	e.mu.Lock()
	defer e.mu.Unlock()

	compiled, err := e.compileRule(rule)
	if err != nil {
		return err
	}

	e.compiledRules[rule.ID] = compiled
	return nil
}

// LoadRules compiles and loads multiple rules, skipping disabled ones.
func (e *Engine) LoadRules(rules []*domain.AdvisoryRule) error {
	for _, rule := range rules {
		if rule.Enabled {
			if err := e.LoadRule(rule); err != nil {
				return err
			}
		}
	}
	return nil
}

// ReloadRules clears all existing rules and loads new ones.
// On a compile error the previously loaded set stays in place.
func (e *Engine) ReloadRules(rules []*domain.AdvisoryRule) error {
	e.mu.Lock()
	defer e.mu.Unlock()

	newRules := make(map[string]*CompiledRule)
	for _, rule := range rules {
		if !rule.Enabled {
			continue
		}
		compiled, err := e.compileRule(rule)
		if err != nil {
			return err
		}
		newRules[rule.ID] = compiled
	}

	e.compiledRules = newRules
	return nil
}

// Reload replaces the loaded rules with those stored in src.
func (e *Engine) Reload(ctx context.Context, src RuleSource) (int, error) {
	stored, err := src.ListAdvisoryRules(ctx)
	if err != nil {
		return 0, fmt.Errorf("failed to list advisory rules: %w", err)
	}
	if err := e.ReloadRules(stored); err != nil {
		return 0, err
	}
	return e.RulesCount(), nil
}

// Activation converts facts to CEL variables.
func Activation(f domain.AdvisoryFacts) map[string]any {
	return map[string]any{
		"crop":           f.Crop,
		"state":          f.State,
		"spoilage_score": int64(f.SpoilageScore),
		"spoilage_tier":  string(f.SpoilageTier),
		"days_safe":      int64(f.DaysSafe),
		"bypass_score":   int64(f.BypassScore),
		"surge_advice":   string(f.SurgeAdvice),
		"trend":          string(f.Trend),
		"temperature":    f.Temperature,
		"humidity":       f.Humidity,
		"quantity":       f.Quantity,
	}
}

// EvaluateAll evaluates all loaded rules in parallel. Results are ordered
// by severity (High first) and then by rule ID.
func (e *Engine) EvaluateAll(ctx context.Context, facts domain.AdvisoryFacts) []domain.AdvisoryResult {
	e.mu.RLock()
	rules := make([]*CompiledRule, 0, len(e.compiledRules))
	for _, rule := range e.compiledRules {
		rules = append(rules, rule)
	}
	e.mu.RUnlock()

	if len(rules) == 0 {
		return nil
	}

	activation := Activation(facts)

	results := make([]domain.AdvisoryResult, len(rules))
	var wg sync.WaitGroup

	// Limit concurrency with semaphore
	sem := make(chan struct{}, e.maxWorkers)

	for i, rule := range rules {
		wg.Add(1)
		go func(idx int, r *CompiledRule) {
			defer wg.Done()

			sem <- struct{}{}        // Acquire
			defer func() { <-sem }() // Release

			results[idx] = evaluateRule(ctx, r, activation)
		}(i, rule)
	}

	wg.Wait()

	sort.Slice(results, func(i, j int) bool {
		ri, rj := results[i].Severity.Rank(), results[j].Severity.Rank()
		if ri != rj {
			return ri > rj
		}
		return results[i].RuleID < results[j].RuleID
	})
	return results
}

// Triggered returns the messages of triggered results, in order.
func Triggered(results []domain.AdvisoryResult) []string {
	var out []string
	for _, r := range results {
		if r.Triggered && r.Message != "" {
			out = append(out, r.Message)
		}
	}
	return out
}

// evaluateRule evaluates a single rule and returns the result.
func evaluateRule(ctx context.Context, rule *CompiledRule, activation map[string]any) domain.AdvisoryResult {
	start := time.Now()

	result := domain.AdvisoryResult{
		RuleID:   rule.Rule.ID,
		Severity: rule.Rule.Severity,
	}

	if err := ctx.Err(); err != nil {
		result.Error = err.Error()
		return result
	}

	out, _, err := rule.Program.Eval(activation)
	if err != nil {
		result.Error = fmt.Sprintf("evaluation error: %v", err)
		result.ProcessUs = time.Since(start).Microseconds()
		return result
	}

	result.Value = toValue(out)
	result.Triggered = result.Value > 0
	if result.Triggered {
		result.Message = rule.Rule.Message
	}
	result.ProcessUs = time.Since(start).Microseconds()
	return result
}

// toValue converts a CEL value to a number; true is 1.
func toValue(val ref.Val) float64 {
	switch v := val.(type) {
	case types.Bool:
		if v {
			return 1.0
		}
		return 0.0
	case types.Double:
		return float64(v)
	case types.Int:
		return float64(v)
	default:
		return 0.0
	}
}

// RulesCount returns the number of loaded rules.
func (e *Engine) RulesCount() int {
	e.mu.RLock()
	defer e.mu.RUnlock()
	return len(e.compiledRules)
}

// GetLoadedRules returns the currently loaded rules ordered by ID.
func (e *Engine) GetLoadedRules() []*domain.AdvisoryRule {
	e.mu.RLock()
	defer e.mu.RUnlock()

	rules := make([]*domain.AdvisoryRule, 0, len(e.compiledRules))
	for _, compiled := range e.compiledRules {
		rules = append(rules, compiled.Rule)
	}
	sort.Slice(rules, func(i, j int) bool { return rules[i].ID < rules[j].ID })
	return rules
}

// Close cleans up the engine.
func (e *Engine) Close() error {
	e.mu.Lock()
	defer e.mu.Unlock()
	e.compiledRules = make(map[string]*CompiledRule)
	return nil
}

func (e *Engine) compileRule(rule *domain.AdvisoryRule) (*CompiledRule, error) {
	if rule.ID == "" {
		return nil, errors.New("advisory rule id is required")
	}
	ast, issues := e.env.Compile(rule.Expression)
	if issues != nil && issues.Err() != nil {
		return nil, fmt.Errorf("failed to compile rule %s: %w", rule.ID, issues.Err())
	}

	outputType := ast.OutputType()
	if outputType != cel.BoolType && outputType != cel.DoubleType && outputType != cel.IntType {
		return nil, fmt.Errorf("rule %s: expression must return bool, int, or double, got %s", rule.ID, outputType)
	}

	program, err := e.env.Program(ast)
	if err != nil {
		return nil, fmt.Errorf("failed to create program for rule %s: %w", rule.ID, err)
	}

	return &CompiledRule{
		Rule:    rule,
		Program: program,
	}, nil
}
