package partition

import (
	"fmt"
	"math"

	"github.com/kilianp07/ecmprep/core/competition"
	"github.com/kilianp07/ecmprep/core/diffusion"
	"github.com/kilianp07/ecmprep/core/logger"
	"github.com/kilianp07/ecmprep/core/model"
	"github.com/kilianp07/ecmprep/core/turnover"
	"github.com/kilianp07/ecmprep/core/valuation"
)

// Config is shared by every call of an Engine and never modified by it.
type Config struct {
	Horizon model.Horizon
	// CarbonCost is the carbon price per unit of carbon, by year.
	CarbonCost model.FuelRecord
	Resolver   diffusion.Resolver
	Logger     logger.Logger
}

// Result is the outcome of one partition.
type Result struct {
	Bundle model.Bundle
	// Turnover is the new/existing split of the input stock, nil when no
	// new-construction data was supplied.
	Turnover *turnover.Partition
	// Shapes holds hourly energy per year when sector shapes are requested.
	Shapes map[string]valuation.HourlyProfile
	// Diffusion lists the warnings of the measure's schedule resolution.
	Diffusion []diffusion.Warning
	// Warnings lists other recoverable input problems.
	Warnings []string
}

// Engine partitions microsegments.
type Engine struct {
	cfg      Config
	selector competition.Selector
	log      logger.Logger
}

// NewEngine returns an engine for cfg. A nil logger discards output and an
// unset resolver policy means fallback.
func NewEngine(cfg Config) *Engine {
	if cfg.Logger == nil {
		cfg.Logger = logger.Nop{}
	}
	cfg.Resolver = diffusion.NewResolver(cfg.Resolver.Policy)
	return &Engine{cfg: cfg, log: cfg.Logger}
}

// Horizon returns the engine's modeling horizon.
func (e *Engine) Horizon() model.Horizon { return e.cfg.Horizon }

// Resolver returns the diffusion resolver applied to every measure.
func (e *Engine) Resolver() diffusion.Resolver { return e.cfg.Resolver }

// Partition computes the 24 output series for in. Required inputs that are
// missing or do not match the horizon yield a *ConfigError; optional inputs
// never fail the call.
func (e *Engine) Partition(in Inputs) (*Result, error) {
	h := e.cfg.Horizon
	if len(h) == 0 {
		var b model.Bundle
		for i := range b {
			b[i] = model.Series{}
		}
		return &Result{Bundle: b}, nil
	}
	p, err := e.validate(in)
	if err != nil {
		return nil, err
	}

	res := &Result{}
	sched, warns, _ := in.Measure.Schedule(e.cfg.Resolver, h)
	res.Diffusion = warns
	if in.Options.Verbose {
		for _, w := range warns {
			e.log.Warnw("diffusion coefficient fallback", map[string]any{
				"measure": in.Measure.Name, "reason": string(w.Reason), "detail": w.Detail,
			})
		}
	}

	if in.NewConstruction.Total != nil {
		res.Warnings = append(res.Warnings, in.NewConstruction.Validate(h)...)
		split, err := turnover.Split(in.NewConstruction, in.Stock, h)
		if err != nil {
			return nil, &ConfigError{KeyChain: in.KeyChain.String(), Measure: in.Measure.Name, Field: "new_construction", Err: err}
		}
		res.Turnover = &split
	}

	energy, carbon := in.Energy, in.Carbon
	if in.KeyChain.Kind == model.SegmentSecondary && in.SecondaryEnergy != nil {
		sec, err := valuation.SecondaryContribution(in.SecondaryEnergy, in.Conversions.CarbonIntBase, h)
		if err != nil {
			res.Warnings = append(res.Warnings, fmt.Sprintf("secondary energy ignored: %v", err))
		} else {
			energy, carbon = energy.Clone(), carbon.Clone()
			for _, y := range h {
				energy[y] += sec.Energy[y]
				carbon[y] += sec.Carbon[y]
			}
		}
	}

	res.Bundle = e.compute(in, p, sched, energy, carbon)

	tsv := model.UnitTSV()
	if in.TSVScale != nil {
		tsv = *in.TSVScale
	}
	valuation.ApplyTSV(&res.Bundle, tsv)
	if in.MarketScale != 1 {
		res.Bundle.Scale(in.MarketScale)
	}

	if in.Options.SectorShapes && in.TSVShapes != nil {
		shapes, err := valuation.LoadShapes(*in.TSVShapes, res.Bundle.Get(model.EnergyTotal), res.Bundle.Get(model.EnergyTotalEfficient), h)
		if err != nil {
			res.Warnings = append(res.Warnings, fmt.Sprintf("hourly shapes ignored: %v", err))
		} else {
			res.Shapes = shapes
		}
	}
	if in.Options.Verbose {
		for _, w := range res.Warnings {
			e.log.Warnw(w, map[string]any{"measure": in.Measure.Name, "key_chain": in.KeyChain.String()})
		}
	}
	return res, nil
}

// compute runs the year loop. cf is the captured share of stock, carried
// from one year to the next.
func (e *Engine) compute(in Inputs, p *prepared, sched diffusion.Resolved, energy, carbon model.Series) model.Bundle {
	h := e.cfg.Horizon
	b := model.NewBundle(h)
	window := in.Measure.Window(h)
	newVintage := in.KeyChain.Vintage == model.VintageNew
	var additions model.Series
	if newVintage {
		additions = turnover.Additions(in.Stock, h)
	}

	var cf float64
	for i, y := range h {
		d := sched.At(y)
		var t float64
		if newVintage {
			t = additions[y]
		} else {
			t = turnover.Replacement(p.lifeBase[i], in.MeasureLifetime, cf, in.Measure.RetroRate)
		}
		comp := e.selector.Compete(in.Scheme, window, t, d, p.years[i])
		t, c := comp.Turnover, comp.Competed

		rpE := p.relPerf[i] * p.ratios[i].Energy
		rpC := p.relPerf[i] * p.ratios[i].Carbon

		// Efficient factors: the competed share at the adopted mix, the
		// turning-over share that is not competed at baseline and the rest at
		// last year's captured mix.
		facE := c*(d*rpE+1-d) + (t - c) + (1-t)*(cf*rpE+1-cf)
		facC := c*(d*rpC+1-d) + (t - c) + (1-t)*(cf*rpC+1-cf)
		// Share of efficient energy supplied by the measure.
		measE := c*d*rpE + (1-t)*cf*rpE

		if newVintage && !in.Scheme.CompeteEntireStock {
			cf = cf*(1-t) + comp.Adopted
		} else {
			cf = math.Min(1, cf+comp.Adopted)
		}

		s, en, ca := in.Stock[y], energy[y], carbon[y]
		pB, pM, cc := p.priceBase[i], p.priceMeas[i], p.carbPrice[i]

		set := func(o model.Output, v float64) { b[o][y] = v }
		set(model.StockTotal, s)
		set(model.EnergyTotal, en)
		set(model.CarbonTotal, ca)
		set(model.StockTotalEfficient, s*cf)
		set(model.EnergyTotalEfficient, en*facE)
		set(model.CarbonTotalEfficient, ca*facC)
		set(model.StockCompeted, s*c)
		set(model.EnergyCompeted, en*c)
		set(model.CarbonCompeted, ca*c)
		set(model.StockCompetedEfficient, s*c*d)
		set(model.EnergyCompetedEfficient, en*c*(d*rpE+1-d))
		set(model.CarbonCompetedEfficient, ca*c*(d*rpC+1-d))

		set(model.StockCostTotal, s*p.baseCost[i])
		set(model.EnergyCostTotal, en*pB)
		set(model.CarbonCostTotal, ca*cc)
		set(model.StockCostTotalEfficient, s*cf*p.measCost[i]+s*(1-cf)*p.baseCost[i])
		set(model.EnergyCostTotalEfficient, en*((facE-measE)*pB+measE*pM))
		set(model.CarbonCostTotalEfficient, ca*facC*cc)
		set(model.StockCostCompeted, s*c*p.baseCost[i])
		set(model.EnergyCostCompeted, en*c*pB)
		set(model.CarbonCostCompeted, ca*c*cc)
		set(model.StockCostCompetedEfficient, s*c*d*p.measCost[i]+s*c*(1-d)*p.baseCost[i])
		set(model.EnergyCostCompetedEfficient, en*(c*(1-d)*pB+c*d*rpE*pM))
		set(model.CarbonCostCompetedEfficient, ca*c*(d*rpC+1-d)*cc)
	}
	return b
}
