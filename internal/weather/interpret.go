// Package weather interprets current conditions into farming signals and
// fetches them from OpenWeather.
package weather

import (
	"fmt"
	"math"
	"strings"

	"github.com/agrichain/agrichain/internal/domain"
	"github.com/agrichain/agrichain/internal/profiles"
)

// Signals are the farming-relevant reading of raw weather numbers.
type Signals struct {
	HarvestRisk    domain.RiskTier
	TransitRisk    domain.RiskTier
	SpoilageFactor float64
	Summary        string
	Issues         []string
}

// Interpret converts temperature (°C), humidity (%), rainfall (mm) and
// wind (m/s) into harvest and transit risk plus a spoilage multiplier.
// Wind is reported as an issue but does not move the risk average.
func Interpret(temp, humidity, rain, wind float64) Signals {
	issues := []string{}

	tempRisk := domain.TierLow
	switch {
	case temp > 38:
		tempRisk = domain.TierHigh
		issues = append(issues, "extreme heat")
	case temp > 32:
		tempRisk = domain.TierMedium
		issues = append(issues, "high temperature")
	}

	humidityRisk := domain.TierLow
	switch {
	case humidity > 85:
		humidityRisk = domain.TierHigh
		issues = append(issues, "very high humidity")
	case humidity > 70:
		humidityRisk = domain.TierMedium
		issues = append(issues, "moderate humidity")
	}

	rainRisk := domain.TierLow
	switch {
	case rain > 10:
		rainRisk = domain.TierHigh
		issues = append(issues, "heavy rainfall")
	case rain > 2:
		rainRisk = domain.TierMedium
		issues = append(issues, "moderate rainfall")
	}

	if wind > 10 {
		issues = append(issues, "strong winds")
	}

	avg := float64(tempRisk.Rank()+humidityRisk.Rank()+rainRisk.Rank()) / 3

	overall := domain.TierLow
	switch {
	case avg >= 2.5:
		overall = domain.TierHigh
	case avg >= 1.5:
		overall = domain.TierMedium
	}

	summary := "Weather conditions are favorable. Good time to harvest and transport."
	if len(issues) > 0 {
		summary = fmt.Sprintf("Weather concern: %s. Harvest risk is %s.",
			strings.Join(issues, ", "), strings.ToLower(string(overall)))
	}

	return Signals{
		HarvestRisk:    overall,
		TransitRisk:    overall,
		SpoilageFactor: round(1+(avg-1)*0.3, 2),
		Summary:        summary,
		Issues:         issues,
	}
}

// Reading builds an interpreted reading from raw measurements.
func Reading(city, state string, temp, humidity, rain, wind float64, description, source string) domain.WeatherReading {
	sig := Interpret(temp, humidity, rain, wind)
	return domain.WeatherReading{
		City:           profiles.Normalize(city),
		State:          profiles.Normalize(state),
		Temperature:    round(temp, 1),
		Humidity:       humidity,
		Rainfall:       rain,
		WindSpeed:      round(wind, 1),
		Description:    description,
		HarvestRisk:    sig.HarvestRisk,
		TransitRisk:    sig.TransitRisk,
		SpoilageFactor: sig.SpoilageFactor,
		Summary:        sig.Summary,
		Issues:         sig.Issues,
		Source:         source,
	}
}

// Mock is the neutral reading used when no live weather is available.
func Mock(city, state string) domain.WeatherReading {
	return domain.WeatherReading{
		City:           profiles.Normalize(city),
		State:          profiles.Normalize(state),
		Temperature:    28.5,
		Humidity:       65,
		WindSpeed:      3.2,
		Description:    "partly cloudy",
		HarvestRisk:    domain.TierLow,
		TransitRisk:    domain.TierLow,
		SpoilageFactor: 1.0,
		Summary:        "Weather conditions are favorable. Good time to harvest and transport.",
		Issues:         []string{},
		Source:         SourceMock,
	}
}

func round(v float64, places int) float64 {
	p := math.Pow(10, float64(places))
	return math.Round(v*p) / p
}
