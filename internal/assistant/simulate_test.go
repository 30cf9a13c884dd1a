package assistant

import (
	"context"
	"math/rand"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestPredictYieldKnownCrop(t *testing.T) {
	sim := NewSimulator(rand.New(rand.NewSource(1)), NoDelay{})

	p, err := sim.PredictYield(context.Background(), "Tomato", 2)
	require.NoError(t, err)

	assert.Equal(t, "Tomato", p.Crop)
	assert.Equal(t, 2.0, p.AreaHectares)
	assert.GreaterOrEqual(t, p.Multiplier, 0.85)
	assert.Less(t, p.Multiplier, 1.15)
	assert.InDelta(t, 35.0*2*p.Multiplier, p.EstimatedTons, 1e-9)
}

func TestPredictYieldUnknownCrop(t *testing.T) {
	sim := NewSimulator(rand.New(rand.NewSource(1)), NoDelay{})

	p, err := sim.PredictYield(context.Background(), "dragonfruit", 1)
	require.NoError(t, err)
	assert.InDelta(t, 4.0*p.Multiplier, p.EstimatedTons, 1e-9)
}

func TestPredictYieldDeterministicWithSeed(t *testing.T) {
	a, err := NewSimulator(rand.New(rand.NewSource(9)), NoDelay{}).
		PredictYield(context.Background(), "corn", 3)
	require.NoError(t, err)

	b, err := NewSimulator(rand.New(rand.NewSource(9)), NoDelay{}).
		PredictYield(context.Background(), "corn", 3)
	require.NoError(t, err)

	assert.Equal(t, a, b)
}

func TestPredictYieldMultiplierRange(t *testing.T) {
	sim := NewSimulator(rand.New(rand.NewSource(3)), NoDelay{})

	for i := 0; i < 100; i++ {
		p, err := sim.PredictYield(context.Background(), "rice", 1)
		require.NoError(t, err)
		assert.GreaterOrEqual(t, p.Multiplier, 0.85)
		assert.Less(t, p.Multiplier, 1.15)
	}
}

func TestPredictYieldCancelled(t *testing.T) {
	sim := NewSimulator(rand.New(rand.NewSource(1)), TimerDelay{})

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err := sim.PredictYield(ctx, "corn", 1)
	assert.ErrorIs(t, err, context.Canceled)
}

func TestAnalyzeCrop(t *testing.T) {
	sim := NewSimulator(rand.New(rand.NewSource(5)), NoDelay{})

	for i := 0; i < 50; i++ {
		d, err := sim.AnalyzeCrop(context.Background(), "leaf.jpg")
		require.NoError(t, err)

		assert.NotEmpty(t, d.Condition)
		assert.NotEmpty(t, d.Advice)
		assert.GreaterOrEqual(t, d.Confidence, 70)
		assert.LessOrEqual(t, d.Confidence, 95)
	}
}

func TestAnalyzeCropCancelled(t *testing.T) {
	sim := NewSimulator(rand.New(rand.NewSource(1)), TimerDelay{})

	ctx, cancel := context.WithTimeout(context.Background(), time.Millisecond)
	defer cancel()

	_, err := sim.AnalyzeCrop(ctx, "leaf.jpg")
	assert.ErrorIs(t, err, context.DeadlineExceeded)
}
