package weather

import (
	"context"
	"errors"
	"log/slog"

	"github.com/agrichain/agrichain/internal/domain"
)

// Resolve fetches current weather and tags it with its provenance.
// An unconfigured or nil provider gives the mock reading as a default;
// any other failure gives the mock reading as a fallback.
func Resolve(ctx context.Context, p domain.WeatherProvider, city, state string, logger *slog.Logger) domain.Sourced[domain.WeatherReading] {
	if p == nil {
		return domain.Default(Mock(city, state))
	}
	reading, err := p.Current(ctx, city, state)
	switch {
	case err == nil && reading != nil:
		return domain.Live(*reading)
	case errors.Is(err, ErrNotConfigured):
		return domain.Default(Mock(city, state))
	default:
		if logger != nil {
			logger.Warn("weather unavailable, using neutral reading", "city", city, "state", state, "error", err)
		}
		return domain.Fallback(Mock(city, state), err)
	}
}
