package model

import (
	"fmt"
	"sort"
	"strconv"
)

// Horizon is the ordered list of year labels covered by a run.
type Horizon []string

// NewHorizon returns the contiguous horizon [start, end].
func NewHorizon(start, end int) Horizon {
	if end < start {
		return Horizon{}
	}
	h := make(Horizon, 0, end-start+1)
	for y := start; y <= end; y++ {
		h = append(h, strconv.Itoa(y))
	}
	return h
}

// Years returns a copy of the year labels.
func (h Horizon) Years() []string {
	out := make([]string, len(h))
	copy(out, h)
	return out
}

// Index returns the position of year in the horizon or -1.
func (h Horizon) Index(year string) int {
	for i, y := range h {
		if y == year {
			return i
		}
	}
	return -1
}

// First returns the first year as an integer. ok is false for an empty or
// non-numeric horizon.
func (h Horizon) First() (int, bool) {
	if len(h) == 0 {
		return 0, false
	}
	y, err := strconv.Atoi(h[0])
	return y, err == nil
}

// Last returns the last year as an integer.
func (h Horizon) Last() (int, bool) {
	if len(h) == 0 {
		return 0, false
	}
	y, err := strconv.Atoi(h[len(h)-1])
	return y, err == nil
}

// Series maps a year label to a value.
type Series map[string]float64

// NewSeries returns a series covering h with every year set to fill.
func NewSeries(h Horizon, fill float64) Series {
	s := make(Series, len(h))
	for _, y := range h {
		s[y] = fill
	}
	return s
}

// Keys returns the year labels in ascending order.
func (s Series) Keys() []string {
	keys := make([]string, 0, len(s))
	for k := range s {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}

// Clone returns an independent copy.
func (s Series) Clone() Series {
	out := make(Series, len(s))
	for k, v := range s {
		out[k] = v
	}
	return out
}

// Values returns the values ordered by h. Missing years read as zero.
func (s Series) Values(h Horizon) []float64 {
	out := make([]float64, len(h))
	for i, y := range h {
		out[i] = s[y]
	}
	return out
}

// FromValues builds a series from values ordered by h.
func FromValues(h Horizon, vals []float64) Series {
	s := make(Series, len(h))
	for i, y := range h {
		if i < len(vals) {
			s[y] = vals[i]
		}
	}
	return s
}

// Covers reports whether every horizon year is present in s.
func (s Series) Covers(h Horizon) bool {
	for _, y := range h {
		if _, ok := s[y]; !ok {
			return false
		}
	}
	return true
}

// SameYears reports whether s has exactly the horizon key set.
func (s Series) SameYears(h Horizon) bool {
	return len(s) == len(h) && s.Covers(h)
}

// MissingYears lists horizon years absent from s.
func (s Series) MissingYears(h Horizon) []string {
	var out []string
	for _, y := range h {
		if _, ok := s[y]; !ok {
			out = append(out, y)
		}
	}
	return out
}

// FuelRecord is a per-year record tagged with a category label, such as a
// fuel price table or a site-source conversion table.
type FuelRecord struct {
	Category string `json:"category" yaml:"category"`
	Values   Series `json:"values" yaml:"values"`
}

// At returns the record value for year.
func (r FuelRecord) At(year string) (float64, error) {
	v, ok := r.Values[year]
	if !ok {
		return 0, fmt.Errorf("%s: no value for year %s", r.Category, year)
	}
	return v, nil
}

// Cost is a unit cost given either as a scalar or per year. PerYear wins
// when set.
type Cost struct {
	Scalar  float64 `json:"scalar" yaml:"scalar"`
	PerYear Series  `json:"per_year,omitempty" yaml:"per_year,omitempty"`
}

// At returns the unit cost applying in year.
func (c Cost) At(year string) (float64, bool) {
	if c.PerYear == nil {
		return c.Scalar, true
	}
	v, ok := c.PerYear[year]
	return v, ok
}
