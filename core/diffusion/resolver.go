package diffusion

import (
	"fmt"
	"math"
	"sort"
	"strconv"
	"strings"

	"github.com/kilianp07/ecmprep/core/model"
)

// Policy decides how numeric coefficients outside [0, 1] are treated.
type Policy string

const (
	// PolicyFallback replaces out-of-range coefficients with the schedule of
	// ones, matching the reference pipeline outputs.
	PolicyFallback Policy = "fallback"
	// PolicyLiteral propagates out-of-range coefficients unchanged; negative
	// values negate the adopted share of competed stock.
	PolicyLiteral Policy = "literal"
)

// ParsePolicy validates a configured policy name. Empty selects fallback.
func ParsePolicy(s string) (Policy, error) {
	switch Policy(strings.ToLower(strings.TrimSpace(s))) {
	case "", PolicyFallback:
		return PolicyFallback, nil
	case PolicyLiteral:
		return PolicyLiteral, nil
	default:
		return "", fmt.Errorf("unknown diffusion out-of-range policy %q", s)
	}
}

// Reason classifies a resolver warning.
type Reason string

const (
	ReasonMissing     Reason = "missing"
	ReasonUnparseable Reason = "unparseable"
	ReasonOutOfRange  Reason = "out_of_range"
	ReasonEmpty       Reason = "empty_schedule"
)

// Warning describes a recoverable problem found while resolving.
type Warning struct {
	Reason Reason
	Detail string
}

func (w Warning) String() string { return string(w.Reason) + ": " + w.Detail }

// Resolved is a total year-indexed adoption fraction.
type Resolved struct {
	Fractions model.Series
	// Fallback is true when the schedule came from the default path.
	Fallback bool
}

// At returns the fraction for year; years outside the resolved horizon read
// as one.
func (r Resolved) At(year string) float64 {
	if v, ok := r.Fractions[year]; ok {
		return v
	}
	return 1
}

// Resolver turns Specs into Resolved schedules.
type Resolver struct {
	Policy Policy
}

// NewResolver returns a resolver using p for out-of-range values.
func NewResolver(p Policy) Resolver {
	if p == "" {
		p = PolicyFallback
	}
	return Resolver{Policy: p}
}

// Resolve maps spec onto every year of h.
func (r Resolver) Resolve(spec Spec, h model.Horizon) (Resolved, []Warning) {
	switch spec.Kind {
	case KindConstant:
		return r.constant(spec.Constant, h)
	case KindRaw:
		v, err := strconv.ParseFloat(strings.TrimSpace(spec.Raw), 64)
		if err != nil || math.IsNaN(v) || math.IsInf(v, 0) {
			return fallback(h), []Warning{{Reason: ReasonUnparseable, Detail: fmt.Sprintf("cannot parse %q", spec.Raw)}}
		}
		return r.constant(v, h)
	case KindSchedule:
		return r.schedule(spec.Schedule, h)
	default:
		return fallback(h), []Warning{{Reason: ReasonMissing, Detail: "no diffusion coefficient given"}}
	}
}

func (r Resolver) constant(v float64, h model.Horizon) (Resolved, []Warning) {
	var warns []Warning
	if outOfRange(v) {
		w := Warning{Reason: ReasonOutOfRange, Detail: fmt.Sprintf("coefficient %g outside [0,1]", v)}
		if r.Policy != PolicyLiteral {
			return fallback(h), []Warning{w}
		}
		warns = append(warns, w)
	}
	return Resolved{Fractions: model.NewSeries(h, v)}, warns
}

// schedule fills horizon years from the nearest prior specified year, or
// the nearest subsequent one when no prior year exists.
func (r Resolver) schedule(s model.Series, h model.Horizon) (Resolved, []Warning) {
	type point struct {
		year int
		val  float64
	}
	pts := make([]point, 0, len(s))
	var warns []Warning
	rejected := false
	for _, k := range s.Keys() {
		v := s[k]
		y, err := strconv.Atoi(strings.TrimSpace(k))
		if err != nil {
			warns = append(warns, Warning{Reason: ReasonUnparseable, Detail: fmt.Sprintf("year key %q ignored", k)})
			continue
		}
		if outOfRange(v) {
			warns = append(warns, Warning{Reason: ReasonOutOfRange, Detail: fmt.Sprintf("coefficient %g for %s outside [0,1]", v, k)})
			rejected = r.Policy != PolicyLiteral
		}
		pts = append(pts, point{year: y, val: v})
	}
	// a rejected year voids the whole schedule; every warning is still reported
	if rejected {
		return fallback(h), warns
	}
	if len(pts) == 0 {
		return fallback(h), append(warns, Warning{Reason: ReasonEmpty, Detail: "schedule has no usable years"})
	}
	sort.Slice(pts, func(i, j int) bool { return pts[i].year < pts[j].year })

	out := make(model.Series, len(h))
	for _, label := range h {
		y, err := strconv.Atoi(label)
		if err != nil {
			out[label] = pts[0].val
			continue
		}
		i := sort.Search(len(pts), func(i int) bool { return pts[i].year > y })
		if i == 0 {
			out[label] = pts[0].val
		} else {
			out[label] = pts[i-1].val
		}
	}
	return Resolved{Fractions: out}, warns
}

func fallback(h model.Horizon) Resolved {
	return Resolved{Fractions: model.NewSeries(h, 1), Fallback: true}
}

func outOfRange(v float64) bool { return v < 0 || v > 1 }
