package alias

import (
	"errors"
	"math"
)

var (
	// ErrEmpty is returned when no weights are given.
	ErrEmpty = errors.New("alias: weights must not be empty")
	// ErrNegativeWeight is returned for a negative, NaN or infinite weight.
	ErrNegativeWeight = errors.New("alias: weights must be finite and non-negative")
	// ErrZeroSum is returned when all weights are zero.
	ErrZeroSum = errors.New("alias: sum of weights must be positive")
	// ErrSumOverflow is returned when the sum of weights is not finite.
	ErrSumOverflow = errors.New("alias: sum of weights overflows float64")
	// ErrLengthMismatch is returned when items and weights differ in length.
	ErrLengthMismatch = errors.New("alias: items and weights must have the same length")
)

// Source is the randomness a Table draws from. *rng.Stream and
// *math/rand/v2.Rand both satisfy it.
type Source interface {
	IntN(n int) int
	Float64() float64
}

// Table is an immutable alias table. It holds no sampling state, so any number
// of goroutines may call Sample concurrently as long as each passes its own Source.
type Table struct {
	prob  []float64
	alias []int32
	item  []int32
}

// Build constructs a table over items with the given weights. If items is nil,
// bucket i maps to item i.
func Build(weights []float64, items []int32) (*Table, error) {
	n := len(weights)
	if n == 0 {
		return nil, ErrEmpty
	}
	if items != nil && len(items) != n {
		return nil, ErrLengthMismatch
	}

	var sum float64
	for _, w := range weights {
		if w < 0 || math.IsNaN(w) || math.IsInf(w, 0) {
			return nil, ErrNegativeWeight
		}
		sum += w
	}
	if math.IsInf(sum, 0) {
		return nil, ErrSumOverflow
	}
	if sum <= 0 {
		return nil, ErrZeroSum
	}

	if items == nil {
		items = make([]int32, n)
		for i := range items {
			items[i] = int32(i)
		}
	} else {
		items = append([]int32(nil), items...)
	}

	t := &Table{
		prob:  make([]float64, n),
		alias: make([]int32, n),
		item:  items,
	}

	scaled := make([]float64, n)
	light := make([]int32, 0, n)
	heavy := make([]int32, 0, n)

	// Divide first: n/sum is +Inf for a subnormal sum.
	for i, w := range weights {
		scaled[i] = w / sum * float64(n)
		if scaled[i] < 1 {
			light = append(light, int32(i))
		} else {
			heavy = append(heavy, int32(i))
		}
	}

	// Every iteration retires one light index, so the loop runs at most n times
	// regardless of rounding in the donated mass.
	for len(light) > 0 && len(heavy) > 0 {
		s := light[len(light)-1]
		light = light[:len(light)-1]
		b := heavy[len(heavy)-1]
		heavy = heavy[:len(heavy)-1]

		t.prob[s] = scaled[s]
		t.alias[s] = b

		scaled[b] -= 1 - scaled[s]
		if scaled[b] < 1 {
			light = append(light, b)
		} else {
			heavy = append(heavy, b)
		}
	}

	// Leftovers are full buckets; anything still light is off by rounding only.
	for _, i := range heavy {
		t.prob[i] = 1
		t.alias[i] = i
	}
	for _, i := range light {
		t.prob[i] = 1
		t.alias[i] = i
	}

	return t, nil
}

// MustBuild is like Build but panics on error.
func MustBuild(weights []float64, items []int32) *Table {
	t, err := Build(weights, items)
	if err != nil {
		panic(err)
	}
	return t
}

// Sample draws one item.
func (t *Table) Sample(r Source) int32 {
	v := r.IntN(len(t.prob))
	if r.Float64() < t.prob[v] {
		return t.item[v]
	}
	return t.item[t.alias[v]]
}

// Len returns the number of buckets.
func (t *Table) Len() int {
	return len(t.prob)
}

// Item returns the item stored in bucket i.
func (t *Table) Item(i int) int32 {
	return t.item[i]
}

// Probability returns the exact probability with which Sample returns the
// item of bucket i, reconstructed from the table. Used to verify construction.
func (t *Table) Probability(i int) float64 {
	n := float64(len(t.prob))
	p := t.prob[i] / n
	for j, a := range t.alias {
		if int(a) == i && j != i {
			p += (1 - t.prob[j]) / n
		}
	}
	return p
}

// SizeBytes estimates the heap footprint of the table.
func (t *Table) SizeBytes() int64 {
	return EstimateBytes(len(t.prob))
}

// EstimateBytes estimates the footprint of a table with n buckets.
func EstimateBytes(n int) int64 {
	const header = 3 * 24
	return header + int64(n)*(8+4+4)
}
