// Package valuation holds the unit conversions and valuation adjustments
// applied by the partitioning engine: site-source and carbon-intensity ratios
// for fuel switching, time-sensitive valuation scaling, secondary end-use
// energy and hourly load shapes.
package valuation

import (
	"fmt"

	"gonum.org/v1/gonum/floats"

	"github.com/kilianp07/ecmprep/core/model"
)

// Conversions are the site-source and carbon intensity records for the
// baseline fuel and the measure fuel.
type Conversions struct {
	SiteSourceBase    model.FuelRecord
	SiteSourceMeasure model.FuelRecord
	CarbonIntBase     model.FuelRecord
	CarbonIntMeasure  model.FuelRecord
}

// Ratios are the per-year multipliers applied to the relative performance of
// captured stock.
type Ratios struct {
	Energy float64
	Carbon float64
}

// RatiosFor returns the energy and carbon multipliers for year. Without fuel
// switching both are one. With site energy accounting the energy multiplier
// ignores the site-source conversion, while carbon always uses it.
func (c Conversions) RatiosFor(year string, switching, siteEnergy bool) (Ratios, error) {
	if !switching {
		return Ratios{Energy: 1, Carbon: 1}, nil
	}
	ss, err := ratio(c.SiteSourceMeasure, c.SiteSourceBase, year)
	if err != nil {
		return Ratios{}, fmt.Errorf("site-source: %w", err)
	}
	ci, err := ratio(c.CarbonIntMeasure, c.CarbonIntBase, year)
	if err != nil {
		return Ratios{}, fmt.Errorf("carbon intensity: %w", err)
	}
	r := Ratios{Energy: ss, Carbon: ss * ci}
	if siteEnergy {
		r.Energy = 1
	}
	return r, nil
}

func ratio(num, den model.FuelRecord, year string) (float64, error) {
	n, err := num.At(year)
	if err != nil {
		return 0, err
	}
	d, err := den.At(year)
	if err != nil {
		return 0, err
	}
	if d == 0 {
		return 0, fmt.Errorf("%s: zero baseline value in %s", den.Category, year)
	}
	return n / d, nil
}

// ApplyTSV scales a bundle by the time-sensitive valuation fractions:
// energy fractions scale physical energy, cost fractions scale energy cost and
// carbon fractions scale carbon and carbon cost. Stock is unchanged.
func ApplyTSV(b *model.Bundle, tsv model.TSVScaleFractions) {
	scale := func(f float64, outs ...model.Output) {
		if f == 1 {
			return
		}
		for _, o := range outs {
			s := b[o]
			for y := range s {
				s[y] *= f
			}
		}
	}
	scale(tsv.Energy.Baseline, model.EnergyTotal, model.EnergyCompeted)
	scale(tsv.Energy.Efficient, model.EnergyTotalEfficient, model.EnergyCompetedEfficient)
	scale(tsv.Cost.Baseline, model.EnergyCostTotal, model.EnergyCostCompeted)
	scale(tsv.Cost.Efficient, model.EnergyCostTotalEfficient, model.EnergyCostCompetedEfficient)
	scale(tsv.Carbon.Baseline, model.CarbonTotal, model.CarbonCompeted, model.CarbonCostTotal, model.CarbonCostCompeted)
	scale(tsv.Carbon.Efficient, model.CarbonTotalEfficient, model.CarbonCompetedEfficient,
		model.CarbonCostTotalEfficient, model.CarbonCostCompetedEfficient)
}

// Secondary is the energy and carbon contributed by a secondary end use.
type Secondary struct {
	Energy model.Series
	Carbon model.Series
}

// SecondaryContribution converts secondary energy into energy and carbon
// additions using the baseline carbon intensity. It reports an error when
// the inputs do not cover h; callers treat that as "no contribution".
func SecondaryContribution(energy model.Series, carbInt model.FuelRecord, h model.Horizon) (Secondary, error) {
	if missing := energy.MissingYears(h); len(missing) > 0 {
		return Secondary{}, fmt.Errorf("secondary energy missing years %v", missing)
	}
	out := Secondary{Energy: make(model.Series, len(h)), Carbon: make(model.Series, len(h))}
	for _, y := range h {
		ci, err := carbInt.At(y)
		if err != nil {
			return Secondary{}, err
		}
		out.Energy[y] = energy[y]
		out.Carbon[y] = energy[y] * ci
	}
	return out, nil
}

// HourlyProfile is the hourly energy of one year under both scenarios.
type HourlyProfile struct {
	Baseline  []float64 `json:"baseline"`
	Efficient []float64 `json:"efficient"`
}

// LoadShapes spreads annual baseline and efficient energy over the hourly
// shapes. Shapes are normalized to sum to one; an empty or all-zero shape
// yields no profiles.
func LoadShapes(shapes model.TSVShapes, baseline, efficient model.Series, h model.Horizon) (map[string]HourlyProfile, error) {
	base, err := normalize(shapes.Baseline)
	if err != nil {
		return nil, fmt.Errorf("baseline shape: %w", err)
	}
	eff := base
	if len(shapes.Efficient) > 0 {
		if eff, err = normalize(shapes.Efficient); err != nil {
			return nil, fmt.Errorf("efficient shape: %w", err)
		}
	}
	if len(eff) != len(base) {
		return nil, fmt.Errorf("shape lengths differ: %d vs %d", len(base), len(eff))
	}
	out := make(map[string]HourlyProfile, len(h))
	for _, y := range h {
		p := HourlyProfile{Baseline: make([]float64, len(base)), Efficient: make([]float64, len(eff))}
		floats.ScaleTo(p.Baseline, baseline[y], base)
		floats.ScaleTo(p.Efficient, efficient[y], eff)
		out[y] = p
	}
	return out, nil
}

func normalize(shape []float64) ([]float64, error) {
	if len(shape) == 0 {
		return nil, fmt.Errorf("empty shape")
	}
	total := floats.Sum(shape)
	if total == 0 {
		return nil, fmt.Errorf("shape sums to zero")
	}
	out := make([]float64, len(shape))
	floats.ScaleTo(out, 1/total, shape)
	return out, nil
}
