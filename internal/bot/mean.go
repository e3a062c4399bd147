package bot

import (
	"fmt"
	"math"
)

// Mean is a finite average score. Unlike a bare float64 it has a total order.
type Mean struct {
	value float64
}

// NewMean averages sum over n samples, rejecting empty or non-finite results.
func NewMean(sum int64, n int) (Mean, error) {
	if n <= 0 {
		return Mean{}, fmt.Errorf("mean of %d samples", n)
	}
	v := float64(sum) / float64(n)
	if math.IsNaN(v) || math.IsInf(v, 0) {
		return Mean{}, fmt.Errorf("non-finite mean %v", v)
	}
	return Mean{value: v}, nil
}

// Value returns the average.
func (m Mean) Value() float64 {
	return m.value
}

// Compare returns -1, 0 or 1 as m is less than, equal to or greater than o.
func (m Mean) Compare(o Mean) int {
	switch {
	case m.value < o.value:
		return -1
	case m.value > o.value:
		return 1
	}
	return 0
}
