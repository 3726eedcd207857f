// Package narrator turns composed insight facts into a short plain-language
// recommendation, either through an OpenAI-compatible chat endpoint or a
// deterministic rule-based sentence.
package narrator

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/agrichain/agrichain/internal/domain"
)

const (
	DefaultBaseURL     = "https://api.groq.com/openai/v1"
	DefaultModel       = "llama-3.3-70b-versatile"
	DefaultTemperature = 0.3
	DefaultMaxTokens   = 300

	defaultTimeout = 15 * time.Second
)

// SystemPrompt frames the assistant for farmers.
const SystemPrompt = "You are AgriChain, an AI assistant helping Indian farmers make better harvest and selling decisions. " +
	"Always respond in simple, clear English. Be direct, specific, and trustworthy. " +
	"Always explain WHY you made each recommendation. Keep responses under 150 words."

// ErrNotConfigured is returned when no API key is set.
var ErrNotConfigured = errors.New("narrator not configured")

// Config configures the chat-completions client.
type Config struct {
	BaseURL     string
	APIKey      string
	Model       string
	Temperature float64
	MaxTokens   int
	Timeout     time.Duration
}

// Client calls an OpenAI-compatible chat-completions endpoint.
type Client struct {
	baseURL     string
	apiKey      string
	model       string
	temperature float64
	maxTokens   int
	httpClient  *http.Client
	logger      *slog.Logger
}

// NewClient creates a narrator client. Zero fields take the Groq defaults.
func NewClient(cfg Config, logger *slog.Logger) *Client {
	if cfg.BaseURL == "" {
		cfg.BaseURL = DefaultBaseURL
	}
	if cfg.Model == "" {
		cfg.Model = DefaultModel
	}
	if cfg.Temperature <= 0 {
		cfg.Temperature = DefaultTemperature
	}
	if cfg.MaxTokens <= 0 {
		cfg.MaxTokens = DefaultMaxTokens
	}
	if cfg.Timeout <= 0 {
		cfg.Timeout = defaultTimeout
	}
	if logger == nil {
		logger = slog.Default()
	}
	return &Client{
		baseURL:     strings.TrimRight(cfg.BaseURL, "/"),
		apiKey:      cfg.APIKey,
		model:       cfg.Model,
		temperature: cfg.Temperature,
		maxTokens:   cfg.MaxTokens,
		httpClient:  &http.Client{Timeout: cfg.Timeout},
		logger:      logger,
	}
}

type chatMessage struct {
	Role    string `json:"role"`
	Content string `json:"content"`
}

type chatRequest struct {
	Model       string        `json:"model"`
	Messages    []chatMessage `json:"messages"`
	Temperature float64       `json:"temperature"`
	MaxTokens   int           `json:"max_tokens"`
}

type chatResponse struct {
	Choices []struct {
		Message chatMessage `json:"message"`
	} `json:"choices"`
}

// Recommend asks the model for a recommendation built from facts.
func (c *Client) Recommend(ctx context.Context, facts domain.NarrationFacts) (string, error) {
	if c.apiKey == "" {
		return "", ErrNotConfigured
	}

	body, err := json.Marshal(chatRequest{
		Model: c.model,
		Messages: []chatMessage{
			{Role: "system", Content: SystemPrompt},
			{Role: "user", Content: Prompt(facts)},
		},
		Temperature: c.temperature,
		MaxTokens:   c.maxTokens,
	})
	if err != nil {
		return "", fmt.Errorf("encode chat request: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+"/chat/completions", bytes.NewReader(body))
	if err != nil {
		return "", fmt.Errorf("create chat request: %w", err)
	}
	req.Header.Set("Authorization", "Bearer "+c.apiKey)
	req.Header.Set("Content-Type", "application/json")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return "", fmt.Errorf("chat request: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		msg, _ := io.ReadAll(io.LimitReader(resp.Body, 512))
		return "", fmt.Errorf("chat API error %d: %s", resp.StatusCode, string(msg))
	}

	var out chatResponse
	if err := json.NewDecoder(resp.Body).Decode(&out); err != nil {
		return "", fmt.Errorf("decode chat response: %w", err)
	}
	if len(out.Choices) == 0 {
		return "", errors.New("chat response has no choices")
	}
	text := strings.TrimSpace(out.Choices[0].Message.Content)
	if text == "" {
		return "", errors.New("chat response is empty")
	}

	c.logger.Debug("narration generated", "crop", facts.Crop, "model", c.model, "chars", len(text))
	return text, nil
}

// Prompt renders the user message sent to the model.
func Prompt(f domain.NarrationFacts) string {
	var b strings.Builder
	fmt.Fprintf(&b, "Crop: %s\n", f.Crop)
	fmt.Fprintf(&b, "Location: %s, %s\n", f.District, f.State)
	fmt.Fprintf(&b, "Predicted price: ₹%s/quintal\n", money(f.PredictedPrice))
	fmt.Fprintf(&b, "Price trend: %s\n", orNA(f.PriceTrend))
	if f.BestMarketPrice > 0 {
		fmt.Fprintf(&b, "Best market: %s (₹%s/quintal)\n", orNA(f.BestMarket), money(f.BestMarketPrice))
	} else {
		fmt.Fprintf(&b, "Best market: %s\n", orNA(f.BestMarket))
	}
	fmt.Fprintf(&b, "Harvest window: %s\n", orNA(f.HarvestWindow))
	fmt.Fprintf(&b, "Weather: %s (harvest risk %s)\n", orNA(f.Weather), orNA(string(f.HarvestRisk)))
	fmt.Fprintf(&b, "Spoilage risk: %s, safe for %d day(s)\n", f.SpoilageRisk, f.DaysSafe)
	fmt.Fprintf(&b, "Preservation actions: %s\n", orNA(strings.Join(f.PreservationActions, ", ")))
	if f.SurgeAdvice != "" {
		fmt.Fprintf(&b, "Arrival outlook: %s\n", f.SurgeAdvice)
	}
	if f.BypassVerdict != "" {
		fmt.Fprintf(&b, "Direct selling: %s\n", f.BypassVerdict)
	}
	if !f.IsCropSuitable && f.RecommendedCrop != "" {
		fmt.Fprintf(&b, "Soil suits %s better than %s\n", f.RecommendedCrop, f.Crop)
	}
	b.WriteString("\nGive the farmer a clear recommendation. Tell them WHEN to harvest, WHERE to sell, and WHY. ")
	b.WriteString("Mention spoilage risk if Medium or High.")
	return b.String()
}

// Fallback is the deterministic recommendation used without a model.
func Fallback(f domain.NarrationFacts) string {
	var parts []string

	switch f.SpoilageRisk {
	case domain.TierHigh:
		parts = append(parts, fmt.Sprintf("Sell your %s within %d day(s); spoilage risk is High.", f.Crop, f.DaysSafe))
	case domain.TierMedium:
		parts = append(parts, fmt.Sprintf("Plan to sell your %s within %d day(s) and improve storage.", f.Crop, f.DaysSafe))
	default:
		parts = append(parts, fmt.Sprintf("Your %s can be stored safely for %d day(s).", f.Crop, f.DaysSafe))
	}

	if f.BestMarket != "" && f.BestMarketPrice > 0 {
		parts = append(parts, fmt.Sprintf("%s pays the best average price at ₹%s/quintal.", f.BestMarket, money(f.BestMarketPrice)))
	} else if f.PredictedPrice > 0 {
		parts = append(parts, fmt.Sprintf("Expected price is about ₹%s/quintal.", money(f.PredictedPrice)))
	}

	if f.SurgeAdvice != "" {
		parts = append(parts, f.SurgeAdvice)
	}
	if f.BypassVerdict != "" {
		parts = append(parts, f.BypassVerdict)
	}
	return strings.Join(parts, " ")
}

// Resolve asks n for a recommendation, falling back to the rule-based
// sentence without a narrator or on any failure.
func Resolve(ctx context.Context, n domain.Narrator, facts domain.NarrationFacts, logger *slog.Logger) domain.Sourced[string] {
	if n == nil {
		return domain.Default(Fallback(facts))
	}
	text, err := n.Recommend(ctx, facts)
	switch {
	case err == nil:
		return domain.Live(text)
	case errors.Is(err, ErrNotConfigured):
		return domain.Default(Fallback(facts))
	default:
		if logger != nil {
			logger.Warn("narrator unavailable, using rule-based recommendation", "crop", facts.Crop, "error", err)
		}
		return domain.Fallback(Fallback(facts), err)
	}
}

func money(v float64) string {
	return strconv.FormatFloat(v, 'f', 0, 64)
}

func orNA(s string) string {
	if strings.TrimSpace(s) == "" {
		return "N/A"
	}
	return s
}
