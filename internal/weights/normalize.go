package weights

import (
	"errors"
	"fmt"
	"math"
)

// Total is the sum every weighted question must reach.
const Total = 100

// ErrWeightSum is returned by Validate when a vector breaks the sum rule.
var ErrWeightSum = errors.New("weights do not sum to 100")

// Sum adds up a weight vector.
func Sum(ws []int) int {
	total := 0
	for _, w := range ws {
		total += w
	}
	return total
}

// Validate checks that a non-empty vector sums to 100 with every entry
// in [0,100].
func Validate(ws []int) error {
	if len(ws) == 0 {
		return nil
	}
	for i, w := range ws {
		if w < 0 || w > Total {
			return fmt.Errorf("weight %d at index %d out of range [0,100]", w, i)
		}
	}
	if s := Sum(ws); s != Total {
		return fmt.Errorf("%w: got %d", ErrWeightSum, s)
	}
	return nil
}

// Uniform splits 100 as evenly as possible; the last entry takes the
// remainder.
func Uniform(n int) []int {
	if n <= 0 {
		return []int{}
	}
	chunk := Total / n
	out := make([]int, n)
	for i := range out {
		out[i] = chunk
	}
	out[n-1] += Total - chunk*n
	return out
}

// BalanceEvenly splits 100 evenly; the first entry takes the remainder.
// This is the "reset" a user reaches for after manual edits.
func BalanceEvenly(n int) []int {
	if n <= 0 {
		return []int{}
	}
	equal := Total / n
	out := make([]int, n)
	for i := range out {
		out[i] = equal
	}
	out[0] += Total - equal*n
	return out
}

// Normalize scales a vector proportionally to 100 with a floor of 1 per
// entry, then puts the rounding residual on the largest entry. An
// all-zero vector becomes an even split.
func Normalize(ws []int) []int {
	n := len(ws)
	if n == 0 {
		return []int{}
	}
	sum := Sum(ws)
	if sum <= 0 {
		equal := Total / n
		remainder := Total - equal*n
		out := make([]int, n)
		for i := range out {
			out[i] = equal
			if i < remainder {
				out[i]++
			}
		}
		return out
	}
	return scaleInto(ws, nil, sum, Total)
}

// NormalizeKeeping is Normalize for a vector where some entries are
// fixed: entries with keep[i] set stay as they are and the others are
// scaled to fill what is left of 100. When the kept entries leave no room
// (less than 1 per free entry) it falls back to Normalize.
func NormalizeKeeping(ws []int, keep []bool) []int {
	kept := 0
	var free []int
	for i, w := range ws {
		if i < len(keep) && keep[i] {
			kept += w
			continue
		}
		free = append(free, i)
	}

	budget := Total - kept
	if len(free) == 0 || len(free) == len(ws) || budget < len(free) {
		return Normalize(ws)
	}

	freeSum := 0
	for _, i := range free {
		freeSum += ws[i]
	}

	out := clone(ws)
	if freeSum <= 0 {
		equal := budget / len(free)
		remainder := budget - equal*len(free)
		for j, i := range free {
			out[i] = equal
			if j < remainder {
				out[i]++
			}
		}
		return out
	}

	out = scaleInto(ws, free, freeSum, budget)
	for _, w := range out {
		if w < 1 {
			return Normalize(ws)
		}
	}
	return out
}

// scaleInto scales the entries at idx (all entries when idx is nil) from
// sum to budget with a floor of 1 and settles the residual on the largest
// scaled entry.
func scaleInto(ws []int, idx []int, sum, budget int) []int {
	out := clone(ws)
	if idx == nil {
		idx = make([]int, len(ws))
		for i := range idx {
			idx[i] = i
		}
	}

	scaled := 0
	for _, i := range idx {
		v := int(math.Round(float64(ws[i]) / float64(sum) * float64(budget)))
		if v < 1 {
			v = 1
		}
		out[i] = v
		scaled += v
	}

	if diff := budget - scaled; diff != 0 {
		largest := idx[0]
		for _, i := range idx[1:] {
			if out[i] > out[largest] {
				largest = i
			}
		}
		out[largest] += diff
	}
	return out
}
