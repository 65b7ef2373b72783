package aggregate_test

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/pbanos/canopy/aggregate"
)

func TestVector(t *testing.T) {
	v := aggregate.NewVector(4)
	assert.Equal(t, 0, v.Len())
	assert.Equal(t, 0.0, v.Sum())
	assert.Equal(t, 0.0, v.Max())
	assert.Equal(t, 0.0, v.Mean())
	assert.Equal(t, 0.0, v.Median())

	for _, value := range []float64{3, 1, 2} {
		v.Add(value)
	}
	assert.Equal(t, 3, v.Len())
	assert.Equal(t, []float64{3, 1, 2}, v.Values())
	assert.InDelta(t, 6.0, v.Sum(), 1e-9)
	assert.InDelta(t, 3.0, v.Max(), 1e-9)
	assert.InDelta(t, 2.0, v.Mean(), 1e-9)
	assert.InDelta(t, 2.0, v.Median(), 1e-9)

	// Median leaves the insertion order untouched.
	assert.Equal(t, []float64{3, 1, 2}, v.Values())

	v.Add(10)
	assert.InDelta(t, 2.5, v.Median(), 1e-9)
}

func TestVectorWeightedMean(t *testing.T) {
	v := aggregate.NewVector(2)
	v.Add(1)
	v.Add(4)
	assert.InDelta(t, 3.0, v.WeightedMean([]float64{1, 2}), 1e-9)
	assert.Equal(t, 0.0, v.WeightedMean([]float64{1}))
	assert.Equal(t, 0.0, v.WeightedMean([]float64{0, 0}))
}

func TestAggregator(t *testing.T) {
	a := aggregate.NewAggregator[string](3)
	assert.Equal(t, 0, a.Size())

	a.Add("A", 0.8)
	a.Add("B", 0.2)
	a.Add("A", 0.4)
	assert.Equal(t, 2, a.Size())

	sums := a.Transform((*aggregate.Vector).Sum)
	assert.InDelta(t, 1.2, sums["A"], 1e-9)
	assert.InDelta(t, 0.2, sums["B"], 1e-9)

	// Transform does not consume the accumulated state.
	means := a.Transform((*aggregate.Vector).Mean)
	assert.InDelta(t, 0.6, means["A"], 1e-9)
	assert.InDelta(t, 0.2, means["B"], 1e-9)

	a.Clear()
	assert.Equal(t, 0, a.Size())
	assert.Empty(t, a.Transform((*aggregate.Vector).Sum))
}

func TestAggregatorIntKeys(t *testing.T) {
	a := aggregate.NewAggregator[int](2)
	a.Add(7, 1.5)
	a.Add(7, 2.5)
	a.Add(9, 3.0)

	maxima := a.Transform((*aggregate.Vector).Max)
	assert.InDelta(t, 2.5, maxima[7], 1e-9)
	assert.InDelta(t, 3.0, maxima[9], 1e-9)
}
