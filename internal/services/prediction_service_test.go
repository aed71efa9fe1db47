package services

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// sundayClock makes "tomorrow" a Monday for every test.
func sundayClock() time.Time {
	return time.Date(2026, time.January, 4, 12, 0, 0, 0, time.UTC)
}

func testPredictor(models map[string]ModelEntry) *PredictionService {
	return &PredictionService{models: models, now: sundayClock}
}

func TestPredict_NoDataWhenModelMissing(t *testing.T) {
	svc := NewPredictionService("testdata/does-not-exist.json")
	p := svc.Predict("Sourdough", "clear", 20)
	assert.Equal(t, "No Data", p.Status)
	assert.Equal(t, 0, p.Recommended)
}

func TestPredict_CanonicalNameIgnoresSpaces(t *testing.T) {
	svc := testPredictor(map[string]ModelEntry{
		canonicalName("Plain Bagel"): {BaseBias: 10, Weights: map[string]float64{}},
	})
	p := svc.Predict("  Plain   Bagel ", "clear", 0)
	require.NotEqual(t, "No Data", p.Status)
	assert.Equal(t, 10, p.Recommended)
}

func TestPredict_StatusPrecedence(t *testing.T) {
	tests := []struct {
		name    string
		weights map[string]float64
		weather string
		temp    float64
		want    string
	}{
		{
			name:    "day boost",
			weights: map[string]float64{"day_Monday": 2.0},
			weather: "clear",
			temp:    10,
			want:    "Monday Boost",
		},
		{
			name:    "day drop",
			weights: map[string]float64{"day_Monday": -1.2},
			weather: "clear",
			temp:    10,
			want:    "Monday Drop",
		},
		{
			name:    "rain overrides day",
			weights: map[string]float64{"day_Monday": 2.0, "is_rain": -2.0},
			weather: "light rain",
			temp:    10,
			want:    "Rain Drop",
		},
		{
			name:    "snow counts as rain",
			weights: map[string]float64{"is_rain": -1.5},
			weather: "Snow showers",
			temp:    -2,
			want:    "Rain Drop",
		},
		{
			name:    "heat overrides rain",
			weights: map[string]float64{"is_rain": -2.0, "temp": 0.1},
			weather: "rain",
			temp:    30,
			want:    "Heat Spike",
		},
		{
			name:    "heat needs temperature above 25",
			weights: map[string]float64{"temp": 0.2},
			weather: "clear",
			temp:    20,
			want:    "Stable",
		},
		{
			name:    "heat needs a real temperature effect",
			weights: map[string]float64{"temp": 0.01},
			weather: "clear",
			temp:    30,
			want:    "Stable",
		},
		{
			name:    "small effects stay stable",
			weights: map[string]float64{"day_Monday": 0.5, "is_rain": -0.5},
			weather: "rain",
			temp:    15,
			want:    "Stable",
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			svc := testPredictor(map[string]ModelEntry{
				canonicalName("Croissant"): {BaseBias: 20, Weights: tt.weights},
			})
			p := svc.Predict("Croissant", tt.weather, tt.temp)
			assert.Equal(t, tt.want, p.Status)
		})
	}
}

func TestPredict_RecommendedRoundsAndClamps(t *testing.T) {
	svc := testPredictor(map[string]ModelEntry{
		canonicalName("A"): {BaseBias: 4.5, Weights: map[string]float64{}},
		canonicalName("B"): {BaseBias: -5, Weights: map[string]float64{}},
		canonicalName("C"): {BaseBias: 10, Weights: map[string]float64{"is_rain": -30}},
	})

	assert.Equal(t, 5, svc.Predict("A", "clear", 0).Recommended)
	assert.Equal(t, 0, svc.Predict("B", "clear", 0).Recommended)
	assert.Equal(t, 0, svc.Predict("C", "heavy rain", 0).Recommended)
}

func TestPredict_EffectBreakdown(t *testing.T) {
	svc := testPredictor(map[string]ModelEntry{
		canonicalName("Baguette"): {
			BaseBias:  15,
			Weights:   map[string]float64{"day_Monday": 1.5, "is_rain": -2.0, "temp": 0.1},
			WasteRisk: 0.08,
			AvgMade:   18,
		},
	})

	p := svc.Predict("Baguette", "rain", 10)
	assert.InDelta(t, 1.5, p.DayEffect, 1e-9)
	assert.InDelta(t, -2.0, p.RainEffect, 1e-9)
	assert.InDelta(t, 1.0, p.TempEffect, 1e-9)
	assert.InDelta(t, 15.0, p.BaseScore, 1e-9)
	assert.InDelta(t, 0.08, p.WasteRisk, 1e-9)
	assert.InDelta(t, 18.0, p.AvgMade, 1e-9)
	// 15 + 1.5 - 2.0 + 1.0 = 15.5, rounds to 16
	assert.Equal(t, 16, p.Recommended)

	// no rain effect applied in clear weather
	clear := svc.Predict("Baguette", "clear", 10)
	assert.InDelta(t, 0.0, clear.RainEffect, 1e-9)
}
