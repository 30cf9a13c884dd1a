package assistant

import (
	"context"
	"math/rand"
	"strings"
	"time"
)

// Delayer models the artificial latency of a simulated analysis. The real
// implementation honors context cancellation even though the current UI
// never cancels; tests use an immediate one.
type Delayer interface {
	Wait(ctx context.Context, d time.Duration) error
}

// TimerDelay waits on a real timer.
type TimerDelay struct{}

func (TimerDelay) Wait(ctx context.Context, d time.Duration) error {
	timer := time.NewTimer(d)
	defer timer.Stop()

	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-timer.C:
		return nil
	}
}

// NoDelay completes immediately. For tests.
type NoDelay struct{}

func (NoDelay) Wait(ctx context.Context, d time.Duration) error {
	return ctx.Err()
}

const (
	predictionDelay = 1200 * time.Millisecond
	analysisDelay   = 2 * time.Second

	// Yield multiplier range drawn for each prediction.
	multiplierMin  = 0.85
	multiplierSpan = 0.30
)

// baseYieldTonsPerHa is the assumed typical yield per crop. Unknown crops
// use defaultYieldTonsPerHa.
var baseYieldTonsPerHa = map[string]float64{
	"tomato": 35.0,
	"corn":   9.5,
	"wheat":  3.2,
	"rice":   4.5,
}

const defaultYieldTonsPerHa = 4.0

// Simulator produces the randomized yield predictions and disease diagnoses.
// The RNG is injected so tests can fix the seed and assert exact outputs;
// there is no package-level generator.
type Simulator struct {
	rng   *rand.Rand
	delay Delayer
}

// NewSimulator creates a Simulator. A nil delay uses the real timer.
func NewSimulator(rng *rand.Rand, delay Delayer) *Simulator {
	if delay == nil {
		delay = TimerDelay{}
	}
	return &Simulator{rng: rng, delay: delay}
}

// YieldPrediction is the simulated outcome of a yield forecast.
type YieldPrediction struct {
	Crop          string
	AreaHectares  float64
	Multiplier    float64
	EstimatedTons float64
}

// PredictYield simulates a yield forecast: base yield for the crop times
// area times a multiplier drawn from [0.85, 1.15).
func (s *Simulator) PredictYield(ctx context.Context, crop string, areaHectares float64) (YieldPrediction, error) {
	if err := s.delay.Wait(ctx, predictionDelay); err != nil {
		return YieldPrediction{}, err
	}

	base, ok := baseYieldTonsPerHa[strings.ToLower(crop)]
	if !ok {
		base = defaultYieldTonsPerHa
	}

	multiplier := multiplierMin + s.rng.Float64()*multiplierSpan

	return YieldPrediction{
		Crop:          crop,
		AreaHectares:  areaHectares,
		Multiplier:    multiplier,
		EstimatedTons: base * areaHectares * multiplier,
	}, nil
}

// Diagnosis is the simulated outcome of a crop image analysis.
type Diagnosis struct {
	Condition  string
	Confidence int
	Advice     string
}

var diagnoses = []Diagnosis{
	{Condition: "Early blight", Advice: "Remove affected leaves and apply an organic copper-based fungicide. Avoid overhead watering."},
	{Condition: "Nitrogen deficiency", Advice: "Apply a nitrogen-rich fertilizer or composted manure and retest the soil in two weeks."},
	{Condition: "Pest damage", Advice: "Inspect the underside of leaves for insects and introduce beneficial predators before using targeted pesticides."},
	{Condition: "Healthy crop", Advice: "No disease indicators found. Maintain the current watering and nutrition schedule."},
}

// AnalyzeCrop simulates a disease analysis of the named image. The image is
// never uploaded anywhere; the result is drawn from a fixed diagnosis set
// with a confidence between 70 and 95.
func (s *Simulator) AnalyzeCrop(ctx context.Context, imageName string) (Diagnosis, error) {
	if err := s.delay.Wait(ctx, analysisDelay); err != nil {
		return Diagnosis{}, err
	}

	d := diagnoses[s.rng.Intn(len(diagnoses))]
	d.Confidence = 70 + s.rng.Intn(26)
	return d, nil
}
