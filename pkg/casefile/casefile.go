// Package casefile decodes partition cases: the measures and microsegments a
// CLI run partitions. YAML and JSON documents share one schema.
package casefile

import (
	"bytes"
	"errors"
	"fmt"
	"io"
	"os"

	"gopkg.in/yaml.v3"

	"github.com/kilianp07/ecmprep/core/diffusion"
	"github.com/kilianp07/ecmprep/core/measure"
	"github.com/kilianp07/ecmprep/core/model"
	"github.com/kilianp07/ecmprep/core/partition"
	"github.com/kilianp07/ecmprep/core/valuation"
)

// ErrUnknownMeasure is returned when a segment references an undeclared measure.
var ErrUnknownMeasure = errors.New("unknown measure")

// Document is the on-disk layout of a case.
type Document struct {
	Measures []MeasureDoc `yaml:"measures"`
	Segments []SegmentDoc `yaml:"segments"`
}

// MeasureDoc declares a measure. DiffusionCoefficients accepts a number, a
// numeric string or a year mapping; any other value falls back to full
// diffusion.
type MeasureDoc struct {
	Name                  string   `yaml:"name"`
	Active                bool     `yaml:"active"`
	MarketEntryYear       *int     `yaml:"market_entry_year"`
	MarketExitYear        *int     `yaml:"market_exit_year"`
	StructureType         []string `yaml:"structure_type"`
	FuelType              []string `yaml:"fuel_type"`
	FuelSwitchTo          string   `yaml:"fuel_switch_to"`
	EndUse                []string `yaml:"end_use"`
	Technology            []string `yaml:"technology"`
	DiffusionCoefficients any      `yaml:"diffusion_coefficients"`
	RetroRate             float64  `yaml:"retro_rate"`
}

// PairDoc holds the baseline and measure variants of a record.
type PairDoc struct {
	Base    model.FuelRecord `yaml:"base"`
	Measure model.FuelRecord `yaml:"measure"`
}

// PerformanceDoc carries the measure technology parameters for a segment.
type PerformanceDoc struct {
	Measure             string       `yaml:"measure"`
	UnitCost            any          `yaml:"unit_cost"`
	RelativePerformance model.Series `yaml:"relative_performance"`
	Lifetime            float64      `yaml:"lifetime"`
}

// SegmentDoc is one microsegment with its baseline data and the measures
// competing for it.
type SegmentDoc struct {
	KeyChain        []string                 `yaml:"key_chain"`
	MarketScale     *float64                 `yaml:"market_scale"`
	NewConstruction model.NewConstruction    `yaml:"new_construction"`
	Stock           model.Series             `yaml:"stock"`
	Energy          model.Series             `yaml:"energy"`
	Carbon          model.Series             `yaml:"carbon"`
	BaseCost        model.Series             `yaml:"base_cost"`
	BaseLifetime    model.Series             `yaml:"base_lifetime"`
	FuelCost        PairDoc                  `yaml:"fuel_cost"`
	SiteSource      PairDoc                  `yaml:"site_source"`
	CarbonIntensity PairDoc                  `yaml:"carbon_intensity"`
	SecondaryEnergy model.Series             `yaml:"secondary_energy"`
	TSVScale        *model.TSVScaleFractions `yaml:"tsv_scale_fractions"`
	TSVShapes       *model.TSVShapes         `yaml:"tsv_shapes"`
	Measures        []PerformanceDoc         `yaml:"measures"`
}

// Case is a decoded document ready for the batch runner.
type Case struct {
	Measures []*measure.Profile
	Tasks    []partition.Inputs
}

// Load reads a case file.
func Load(path string, opts model.UserOptions) (*Case, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	c, err := Decode(bytes.NewReader(data), opts)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	return c, nil
}

// Decode parses a YAML or JSON case.
func Decode(r io.Reader, opts model.UserOptions) (*Case, error) {
	var doc Document
	if err := yaml.NewDecoder(r).Decode(&doc); err != nil && !errors.Is(err, io.EOF) {
		return nil, fmt.Errorf("decode case: %w", err)
	}
	return doc.Build(opts)
}

// Build converts the document into measure profiles and engine inputs.
func (d Document) Build(opts model.UserOptions) (*Case, error) {
	c := &Case{}
	byName := make(map[string]*measure.Profile, len(d.Measures))
	for _, m := range d.Measures {
		if m.Name == "" {
			return nil, fmt.Errorf("measure without name")
		}
		if _, dup := byName[m.Name]; dup {
			return nil, fmt.Errorf("duplicate measure %q", m.Name)
		}
		p := m.profile()
		byName[m.Name] = p
		c.Measures = append(c.Measures, p)
	}
	for i, s := range d.Segments {
		kc, err := model.ParseKeyChain(s.KeyChain)
		if err != nil {
			return nil, fmt.Errorf("segment %d: %w", i, err)
		}
		scale := 1.0
		if s.MarketScale != nil {
			scale = *s.MarketScale
		}
		for _, perf := range s.Measures {
			p, ok := byName[perf.Measure]
			if !ok {
				return nil, fmt.Errorf("segment %d: %w %q", i, ErrUnknownMeasure, perf.Measure)
			}
			cost, err := costFrom(perf.UnitCost)
			if err != nil {
				return nil, fmt.Errorf("segment %d, measure %q: unit_cost: %w", i, perf.Measure, err)
			}
			c.Tasks = append(c.Tasks, partition.Inputs{
				KeyChain:            kc,
				Measure:             p,
				MarketScale:         scale,
				NewConstruction:     s.NewConstruction,
				Stock:               s.Stock,
				Energy:              s.Energy,
				Carbon:              s.Carbon,
				BaseCost:            s.BaseCost,
				MeasureCost:         cost,
				BaseFuelCost:        s.FuelCost.Base,
				MeasureFuelCost:     s.FuelCost.Measure,
				RelativePerformance: perf.RelativePerformance,
				BaseLifetime:        s.BaseLifetime,
				MeasureLifetime:     perf.Lifetime,
				Conversions: valuation.Conversions{
					SiteSourceBase:    s.SiteSource.Base,
					SiteSourceMeasure: s.SiteSource.Measure,
					CarbonIntBase:     s.CarbonIntensity.Base,
					CarbonIntMeasure:  s.CarbonIntensity.Measure,
				},
				SecondaryEnergy: s.SecondaryEnergy,
				TSVScale:        s.TSVScale,
				TSVShapes:       s.TSVShapes,
				Options:         opts,
			})
		}
	}
	return c, nil
}

func (m MeasureDoc) profile() *measure.Profile {
	p := &measure.Profile{
		Name:            m.Name,
		Active:          m.Active,
		MarketEntryYear: m.MarketEntryYear,
		MarketExitYear:  m.MarketExitYear,
		Fuels:           m.FuelType,
		FuelSwitchTo:    m.FuelSwitchTo,
		EndUses:         m.EndUse,
		Technologies:    m.Technology,
		Diffusion:       diffusion.FromAny(normalize(m.DiffusionCoefficients)),
		RetroRate:       m.RetroRate,
	}
	for _, v := range m.StructureType {
		p.Vintages = append(p.Vintages, model.Vintage(v))
	}
	return p
}

// normalize turns mappings with non-string keys, as produced for unquoted
// YAML years, into string-keyed mappings.
func normalize(v any) any {
	mp, ok := v.(map[any]any)
	if !ok {
		return v
	}
	out := make(map[string]any, len(mp))
	for k, val := range mp {
		out[fmt.Sprint(k)] = val
	}
	return out
}

// costFrom accepts a scalar cost or a year mapping.
func costFrom(v any) (model.Cost, error) {
	switch t := normalize(v).(type) {
	case int:
		return model.Cost{Scalar: float64(t)}, nil
	case float64:
		return model.Cost{Scalar: t}, nil
	case map[string]any:
		s := make(model.Series, len(t))
		for y, raw := range t {
			switch n := raw.(type) {
			case int:
				s[y] = float64(n)
			case float64:
				s[y] = n
			default:
				return model.Cost{}, fmt.Errorf("year %s: %v is not a number", y, raw)
			}
		}
		return model.Cost{PerYear: s}, nil
	default:
		return model.Cost{}, fmt.Errorf("unsupported value %v", v)
	}
}
