// Package redistribute applies manual weight overrides to a question.
//
// Setting one option's weight moves the rest of the vector so the total
// stays at 100: the other options share what is left in proportion to
// their current weights, or evenly when they are all zero.
package redistribute

import (
	"errors"
	"fmt"
	"math"

	"github.com/HendryAvila/formweight/internal/form"
	"github.com/HendryAvila/formweight/internal/weights"
)

// ErrIndexOutOfRange is returned when the edited option does not exist.
var ErrIndexOutOfRange = errors.New("option index out of range")

// Apply sets option k to v (clamped to [0,100]) and rescales the others
// to 100-v. The rounding difference goes to the lowest-index other
// option. The input slice is not modified.
//
// Apply is idempotent: Apply(Apply(opts, k, v), k, v) equals
// Apply(opts, k, v).
func Apply(opts []form.Option, k, v int) ([]form.Option, error) {
	if k < 0 || k >= len(opts) {
		return nil, fmt.Errorf("%w: %d (question has %d options)", ErrIndexOutOfRange, k, len(opts))
	}
	v = clamp(v)

	out := form.CloneOptions(opts)
	if len(out) == 1 {
		out[0].Weight = form.IntPtr(weights.Total)
		return out, nil
	}

	ws := make([]int, len(out))
	for i, o := range out {
		ws[i] = o.WeightOf()
	}
	ws[k] = v

	others := make([]int, 0, len(ws)-1)
	sumOthers := 0
	for i := range ws {
		if i == k {
			continue
		}
		others = append(others, i)
		sumOthers += ws[i]
	}

	remaining := weights.Total - v
	if sumOthers > 0 {
		for _, i := range others {
			ws[i] = int(math.Round(float64(ws[i]) / float64(sumOthers) * float64(remaining)))
		}
	} else {
		share := remaining / len(others)
		for _, i := range others {
			ws[i] = share
		}
	}

	settle(ws, others, weights.Total-weights.Sum(ws))

	for i := range out {
		out[i].Weight = form.IntPtr(ws[i])
	}
	return out, nil
}

// settle adds diff to the first other option. A negative diff larger than
// that option's weight carries over to the next others in index order so
// no weight goes below zero.
func settle(ws, others []int, diff int) {
	if diff >= 0 {
		ws[others[0]] += diff
		return
	}
	for _, i := range others {
		if diff == 0 {
			return
		}
		take := min(ws[i], -diff)
		ws[i] -= take
		diff += take
	}
}

// Balance resets every option to an even split, the first option taking
// the remainder.
func Balance(opts []form.Option) []form.Option {
	out := form.CloneOptions(opts)
	for i, w := range weights.BalanceEvenly(len(out)) {
		out[i].Weight = form.IntPtr(w)
	}
	return out
}

func clamp(v int) int {
	return max(0, min(weights.Total, v))
}
