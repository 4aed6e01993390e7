package model

import (
	"encoding/json"
	"fmt"

	"gopkg.in/yaml.v3"
)

// NewConstruction holds annual additions of new-construction stock and the
// cumulative new stock through each year.
type NewConstruction struct {
	Annual Series `json:"annual_new" yaml:"annual_new"`
	Total  Series `json:"total_new" yaml:"total_new"`
}

// Validate checks that Total is non-decreasing and equals the running sum of
// Annual over h. The returned messages are advisory.
func (nc NewConstruction) Validate(h Horizon) []string {
	var issues []string
	var run, prev float64
	for i, y := range h {
		a, okA := nc.Annual[y]
		t, okT := nc.Total[y]
		if !okA || !okT {
			issues = append(issues, fmt.Sprintf("new construction missing year %s", y))
			continue
		}
		run += a
		if i > 0 && t < prev {
			issues = append(issues, fmt.Sprintf("cumulative new stock decreases in %s", y))
		}
		if diff := t - run; diff > 1e-9 || diff < -1e-9 {
			issues = append(issues, fmt.Sprintf("cumulative new stock %g differs from running sum %g in %s", t, run, y))
		}
		prev = t
	}
	return issues
}

// ScenarioPair carries one multiplier per scenario.
type ScenarioPair struct {
	Baseline  float64 `json:"baseline" yaml:"baseline"`
	Efficient float64 `json:"efficient" yaml:"efficient"`
}

// TSVScaleFractions are the annual time-sensitive valuation multipliers.
type TSVScaleFractions struct {
	Energy ScenarioPair `json:"energy" yaml:"energy"`
	Cost   ScenarioPair `json:"cost" yaml:"cost"`
	Carbon ScenarioPair `json:"carbon" yaml:"carbon"`
}

// UnitTSV leaves every series unchanged.
func UnitTSV() TSVScaleFractions {
	one := ScenarioPair{Baseline: 1, Efficient: 1}
	return TSVScaleFractions{Energy: one, Cost: one, Carbon: one}
}

// UnmarshalYAML decodes p, leaving absent multipliers at 1.
func (p *ScenarioPair) UnmarshalYAML(n *yaml.Node) error {
	type plain ScenarioPair
	v := plain{Baseline: 1, Efficient: 1}
	if err := n.Decode(&v); err != nil {
		return err
	}
	*p = ScenarioPair(v)
	return nil
}

// UnmarshalJSON decodes p, leaving absent multipliers at 1.
func (p *ScenarioPair) UnmarshalJSON(data []byte) error {
	type plain ScenarioPair
	v := plain{Baseline: 1, Efficient: 1}
	if err := json.Unmarshal(data, &v); err != nil {
		return err
	}
	*p = ScenarioPair(v)
	return nil
}

// UnmarshalYAML decodes t starting from UnitTSV, so omitted pairs keep
// unit multipliers.
func (t *TSVScaleFractions) UnmarshalYAML(n *yaml.Node) error {
	type plain TSVScaleFractions
	v := plain(UnitTSV())
	if err := n.Decode(&v); err != nil {
		return err
	}
	*t = TSVScaleFractions(v)
	return nil
}

func (t *TSVScaleFractions) UnmarshalJSON(data []byte) error {
	type plain TSVScaleFractions
	v := plain(UnitTSV())
	if err := json.Unmarshal(data, &v); err != nil {
		return err
	}
	*t = TSVScaleFractions(v)
	return nil
}

// TSVShapes are precomputed hourly fractions of annual energy, one slice per
// scenario. Each slice should sum to one.
type TSVShapes struct {
	Baseline  []float64 `json:"baseline" yaml:"baseline"`
	Efficient []float64 `json:"efficient" yaml:"efficient"`
}

// UserOptions are caller-level toggles. They select conversion tables but do
// not change the algorithm.
type UserOptions struct {
	SiteEnergy     bool     `json:"site_energy" yaml:"site_energy"`
	CapturedEnergy bool     `json:"captured_energy" yaml:"captured_energy"`
	Regions        string   `json:"regions" yaml:"regions"`
	TSVMetrics     []string `json:"tsv_metrics" yaml:"tsv_metrics"`
	SectorShapes   bool     `json:"sector_shapes" yaml:"sector_shapes"`
	Verbose        bool     `json:"verbose" yaml:"verbose"`
}
