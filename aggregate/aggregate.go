/*
Package aggregate provides a generic multi-key numeric accumulator used
to combine scores across repeated evaluations, such as the per-class
scores produced by the trees of an ensemble.

An Aggregator collects per-key contributions into ordered buffers and
reduces each buffer with a caller-supplied combination function. It is
not tree-specific: any caller merging repeated numeric contributions per
key can use it.
*/
package aggregate

import "sort"

/*
Vector is an append-only buffer of float64 values preserving insertion
order, so that order-sensitive combiners (a weighted sum aligned with an
external weight sequence, for instance) see contributions in the order
they were added.
*/
type Vector struct {
	values []float64
}

/*
NewVector returns a Vector with capacity for the given number of values
pre-allocated.
*/
func NewVector(capacity int) *Vector {
	return &Vector{values: make([]float64, 0, capacity)}
}

/*
Add appends a value to the vector.
*/
func (v *Vector) Add(value float64) {
	v.values = append(v.values, value)
}

/*
Len returns the number of values in the vector.
*/
func (v *Vector) Len() int {
	return len(v.values)
}

/*
Values returns the vector's values in insertion order. The returned slice
is the vector's backing storage and must not be modified.
*/
func (v *Vector) Values() []float64 {
	return v.values
}

/*
Sum returns the sum of the vector's values.
*/
func (v *Vector) Sum() float64 {
	var sum float64
	for _, value := range v.values {
		sum += value
	}
	return sum
}

/*
Max returns the highest value in the vector, or 0 for an empty vector.
*/
func (v *Vector) Max() float64 {
	if len(v.values) == 0 {
		return 0
	}
	max := v.values[0]
	for _, value := range v.values[1:] {
		if value > max {
			max = value
		}
	}
	return max
}

/*
Mean returns the arithmetic mean of the vector's values, or 0 for an
empty vector.
*/
func (v *Vector) Mean() float64 {
	if len(v.values) == 0 {
		return 0
	}
	return v.Sum() / float64(len(v.values))
}

/*
Median returns the median of the vector's values, or 0 for an empty
vector. The vector itself is left untouched.
*/
func (v *Vector) Median() float64 {
	if len(v.values) == 0 {
		return 0
	}
	sorted := make([]float64, len(v.values))
	copy(sorted, v.values)
	sort.Float64s(sorted)
	mid := len(sorted) / 2
	if len(sorted)%2 == 0 {
		return (sorted[mid-1] + sorted[mid]) / 2
	}
	return sorted[mid]
}

/*
WeightedMean returns the mean of the vector's values weighted by the
given weights, which must align with the insertion order of the values.
It returns 0 when the weights sum to 0 or do not cover the vector.
*/
func (v *Vector) WeightedMean(weights []float64) float64 {
	if len(weights) < len(v.values) {
		return 0
	}
	var sum, weightSum float64
	for i, value := range v.values {
		sum += value * weights[i]
		weightSum += weights[i]
	}
	if weightSum == 0 {
		return 0
	}
	return sum / weightSum
}

/*
Aggregator accumulates numeric contributions under arbitrary keys.

Its lifecycle is: create with a per-key capacity hint, Add contributions
repeatedly, then Transform once to obtain the combined mapping. Clear
resets the aggregator for reuse. An Aggregator is not safe for
concurrent use; each concurrent aggregation owns its own instance.
*/
type Aggregator[K comparable] struct {
	entries  map[K]*Vector
	capacity int
}

/*
NewAggregator returns an Aggregator whose per-key buffers are created
with capacity for the given number of contributions.
*/
func NewAggregator[K comparable](capacity int) *Aggregator[K] {
	return &Aggregator[K]{
		entries:  make(map[K]*Vector),
		capacity: capacity,
	}
}

/*
Add appends a contribution to the buffer for the given key, creating the
buffer on the key's first use.
*/
func (a *Aggregator[K]) Add(key K, value float64) {
	vector := a.entries[key]
	if vector == nil {
		vector = NewVector(a.capacity)
		a.entries[key] = vector
	}
	vector.Add(value)
}

/*
Size returns the number of distinct keys contributions were added under.
*/
func (a *Aggregator[K]) Size() int {
	return len(a.entries)
}

/*
Transform applies the given combination function to every key's buffer
and returns the resulting mapping. The aggregator itself is not mutated:
Transform can be called again, with a different combiner, on the same
accumulated state.
*/
func (a *Aggregator[K]) Transform(combiner func(*Vector) float64) map[K]float64 {
	result := make(map[K]float64, len(a.entries))
	for key, vector := range a.entries {
		result[key] = combiner(vector)
	}
	return result
}

/*
Clear discards all accumulated contributions.
*/
func (a *Aggregator[K]) Clear() {
	a.entries = make(map[K]*Vector)
}
