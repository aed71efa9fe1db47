package services

import (
	"encoding/json"
	"log"
	"math"
	"os"
	"strings"
	"time"
)

// ModelEntry is one product's row in the static demand model: a linear model
// over day-of-week, rain and temperature, plus display-only reference
// figures.
type ModelEntry struct {
	BaseBias  float64            `json:"base_bias"`
	Weights   map[string]float64 `json:"weights"`
	WasteRisk float64            `json:"waste_risk"`
	AvgMade   float64            `json:"avg_made"`
}

type Prediction struct {
	ProductName string  `json:"productName"`
	BaseScore   float64 `json:"baseScore"`
	Recommended int     `json:"recommended"`
	Status      string  `json:"status"`
	DayEffect   float64 `json:"dayEffect"`
	RainEffect  float64 `json:"rainEffect"`
	TempEffect  float64 `json:"tempEffect"`
	WasteRisk   float64 `json:"wasteRisk"`
	AvgMade     float64 `json:"avgMade"`
}

// PredictionService scores tomorrow's demand from a model table loaded once
// at startup. It is read-only after load and safe to share across handlers.
type PredictionService struct {
	models map[string]ModelEntry
	now    func() time.Time
}

// NewPredictionService loads the model file. A load failure does not kill
// the process: the scorer degrades to "No Data" for every product.
func NewPredictionService(path string) *PredictionService {
	s := &PredictionService{models: map[string]ModelEntry{}, now: time.Now}
	raw, err := os.ReadFile(path)
	if err != nil {
		log.Printf("[model] load failed (%v), predictions disabled", err)
		return s
	}
	var table map[string]ModelEntry
	if err := json.Unmarshal(raw, &table); err != nil {
		log.Printf("[model] parse failed (%v), predictions disabled", err)
		return s
	}
	for name, entry := range table {
		s.models[canonicalName(name)] = entry
	}
	log.Printf("[model] loaded %d product models from %s", len(s.models), path)
	return s
}

// canonicalName strips spaces so lookups survive inconsistent spacing
// between the model file and the catalog.
func canonicalName(name string) string {
	return strings.TrimSpace(strings.ReplaceAll(name, " ", ""))
}

// Predict scores one product for tomorrow's baking. weather is free text
// from the forecast; rain or snow anywhere in it counts as rain.
func (s *PredictionService) Predict(productName, weather string, temp float64) Prediction {
	model, ok := s.models[canonicalName(productName)]
	if !ok {
		return Prediction{ProductName: productName, Status: "No Data"}
	}

	dayName := s.now().AddDate(0, 0, 1).Weekday().String()
	wtext := strings.ToLower(weather)
	isRain := strings.Contains(wtext, "rain") || strings.Contains(wtext, "snow")

	dayEffect := model.Weights["day_"+dayName]
	rainEffect := 0.0
	if isRain {
		rainEffect = model.Weights["is_rain"]
	}
	tempEffect := temp * model.Weights["temp"]

	score := model.BaseBias + dayEffect + rainEffect + tempEffect
	recommended := int(math.Max(0, math.Round(score)))

	// Later rules overwrite earlier ones: day < rain < heat.
	status := ""
	if dayEffect >= 1.0 {
		status = dayName + " Boost"
	} else if dayEffect <= -1.0 {
		status = dayName + " Drop"
	}
	if rainEffect <= -1.0 {
		status = "Rain Drop"
	}
	if temp > 25 && tempEffect >= 1.0 {
		status = "Heat Spike"
	}
	if status == "" {
		status = "Stable"
	}

	return Prediction{
		ProductName: productName,
		BaseScore:   model.BaseBias,
		Recommended: recommended,
		Status:      status,
		DayEffect:   dayEffect,
		RainEffect:  rainEffect,
		TempEffect:  tempEffect,
		WasteRisk:   model.WasteRisk,
		AvgMade:     model.AvgMade,
	}
}
