// Package turnover models how microsegment stock turns over: the split between
// new-construction and existing stock, and the share of stock that comes up
// for replacement in a given year.
package turnover

import (
	"fmt"
	"math"

	"github.com/kilianp07/ecmprep/core/model"
)

// Partition is the per-year split of total stock.
type Partition struct {
	New      model.Series
	Existing model.Series
}

// Split divides total stock into cumulative new-construction stock and the
// remaining existing stock, floored at zero.
func Split(nc model.NewConstruction, total model.Series, h model.Horizon) (Partition, error) {
	if missing := total.MissingYears(h); len(missing) > 0 {
		return Partition{}, fmt.Errorf("total stock missing years %v", missing)
	}
	if missing := nc.Total.MissingYears(h); len(missing) > 0 {
		return Partition{}, fmt.Errorf("cumulative new stock missing years %v", missing)
	}
	p := Partition{New: make(model.Series, len(h)), Existing: make(model.Series, len(h))}
	for _, y := range h {
		n := nc.Total[y]
		p.New[y] = n
		p.Existing[y] = math.Max(total[y]-n, 0)
	}
	return p, nil
}

// Replacement returns the share of existing stock due for replacement: the
// straight-line turnover of the baseline and already captured portions plus
// the retrofit rate, clamped at one. captured is the captured stock share.
func Replacement(lifeBase, lifeMeasure, captured, retroRate float64) float64 {
	frac := (1-captured)/lifeBase + retroRate
	if captured != 0 {
		frac += captured / lifeMeasure
	}
	return clamp01(frac)
}

// Additions returns, per year, the share of a new-vintage microsegment's
// stock that was added that year. The first horizon year counts all stock as
// added; years with no stock read as zero.
func Additions(stock model.Series, h model.Horizon) model.Series {
	out := make(model.Series, len(h))
	for i, y := range h {
		cur := stock[y]
		if cur <= 0 {
			out[y] = 0
			continue
		}
		if i == 0 {
			out[y] = 1
			continue
		}
		out[y] = clamp01(math.Max(cur-stock[h[i-1]], 0) / cur)
	}
	return out
}

func clamp01(v float64) float64 {
	switch {
	case v < 0:
		return 0
	case v > 1:
		return 1
	default:
		return v
	}
}
