package partition

import (
	"fmt"
	"strconv"

	"github.com/kilianp07/ecmprep/core/competition"
	"github.com/kilianp07/ecmprep/core/measure"
	"github.com/kilianp07/ecmprep/core/model"
	"github.com/kilianp07/ecmprep/core/valuation"
)

// Inputs are the per-call parameters of Engine.Partition.
type Inputs struct {
	Scheme competition.Scheme
	// DiffusionParams is reserved for parametric diffusion models and is
	// currently ignored.
	DiffusionParams map[string]any
	KeyChain        model.KeyChain
	Measure         *measure.Profile
	// MarketScale multiplies all 24 outputs as the last step.
	MarketScale     float64
	NewConstruction model.NewConstruction

	Stock  model.Series
	Energy model.Series
	Carbon model.Series

	BaseCost    model.Series
	MeasureCost model.Cost
	// BaseFuelCost prices baseline energy. MeasureFuelCost prices the share
	// of efficient energy attributable to the measure; when it has no values
	// the baseline record is used.
	BaseFuelCost    model.FuelRecord
	MeasureFuelCost model.FuelRecord

	RelativePerformance model.Series
	BaseLifetime        model.Series
	MeasureLifetime     float64

	// Conversions are consulted only under fuel switching, except the
	// baseline carbon intensity which also converts secondary energy.
	Conversions valuation.Conversions

	// Optional inputs. Problems with them degrade to defaults.
	SecondaryEnergy model.Series
	TSVScale        *model.TSVScaleFractions
	TSVShapes       *model.TSVShapes

	Options model.UserOptions
}

// prepared holds validated per-year inputs.
type prepared struct {
	years     []int
	baseCost  []float64
	measCost  []float64
	priceBase []float64
	priceMeas []float64
	carbPrice []float64
	relPerf   []float64
	lifeBase  []float64
	ratios    []valuation.Ratios
}

func (e *Engine) validate(in Inputs) (*prepared, error) {
	h := e.cfg.Horizon
	fail := func(field string, err error) error {
		name := ""
		if in.Measure != nil {
			name = in.Measure.Name
		}
		return &ConfigError{KeyChain: in.KeyChain.String(), Measure: name, Field: field, Err: err}
	}
	if in.Measure == nil {
		return nil, fail("measure", fmt.Errorf("no measure profile"))
	}
	if in.Scheme.Name == "" {
		return nil, fail("adoption_scheme", fmt.Errorf("no adoption scheme"))
	}
	for _, s := range []struct {
		field string
		s     model.Series
	}{{"stock", in.Stock}, {"energy", in.Energy}, {"carbon", in.Carbon}} {
		if !s.s.SameYears(h) {
			return nil, fail(s.field, fmt.Errorf("years %v do not match horizon %v", s.s.Keys(), h.Years()))
		}
	}
	for _, s := range []struct {
		field string
		s     model.Series
	}{{"base_cost", in.BaseCost}, {"relative_performance", in.RelativePerformance}, {"base_lifetime", in.BaseLifetime}} {
		if missing := s.s.MissingYears(h); len(missing) > 0 {
			return nil, fail(s.field, fmt.Errorf("missing years %v", missing))
		}
	}
	if in.MeasureLifetime <= 0 {
		return nil, fail("measure_lifetime", fmt.Errorf("lifetime must be positive, got %g", in.MeasureLifetime))
	}

	switching := in.Measure.FuelSwitching(in.KeyChain)
	measPrices := in.MeasureFuelCost
	if len(measPrices.Values) == 0 {
		measPrices = in.BaseFuelCost
	}
	p := &prepared{
		years:     make([]int, len(h)),
		baseCost:  make([]float64, len(h)),
		measCost:  make([]float64, len(h)),
		priceBase: make([]float64, len(h)),
		priceMeas: make([]float64, len(h)),
		carbPrice: make([]float64, len(h)),
		relPerf:   make([]float64, len(h)),
		lifeBase:  make([]float64, len(h)),
		ratios:    make([]valuation.Ratios, len(h)),
	}
	for i, y := range h {
		yr, err := strconv.Atoi(y)
		if err != nil {
			return nil, fail("horizon", fmt.Errorf("year label %q is not numeric", y))
		}
		p.years[i] = yr
		if p.lifeBase[i] = in.BaseLifetime[y]; p.lifeBase[i] <= 0 {
			return nil, fail("base_lifetime", fmt.Errorf("lifetime must be positive, got %g in %s", p.lifeBase[i], y))
		}
		p.baseCost[i] = in.BaseCost[y]
		p.relPerf[i] = in.RelativePerformance[y]
		mc, ok := in.MeasureCost.At(y)
		if !ok {
			return nil, fail("measure_cost", fmt.Errorf("no value for year %s", y))
		}
		p.measCost[i] = mc
		if p.priceBase[i], err = in.BaseFuelCost.At(y); err != nil {
			return nil, fail("base_fuel_cost", err)
		}
		if p.priceMeas[i], err = measPrices.At(y); err != nil {
			return nil, fail("measure_fuel_cost", err)
		}
		if p.carbPrice[i], err = e.cfg.CarbonCost.At(y); err != nil {
			return nil, fail("carbon_cost", err)
		}
		if p.ratios[i], err = in.Conversions.RatiosFor(y, switching, in.Options.SiteEnergy); err != nil {
			return nil, fail("conversions", err)
		}
	}
	if in.NewConstruction.Total != nil && !in.NewConstruction.Total.Covers(h) {
		return nil, fail("new_construction", fmt.Errorf("missing years %v", in.NewConstruction.Total.MissingYears(h)))
	}
	return p, nil
}
