package valuation

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gonum.org/v1/gonum/floats"

	"github.com/kilianp07/ecmprep/core/model"
)

var horizon = model.NewHorizon(2009, 2010)

func record(cat string, a, b float64) model.FuelRecord {
	return model.FuelRecord{Category: cat, Values: model.Series{"2009": a, "2010": b}}
}

func TestRatiosFor(t *testing.T) {
	c := Conversions{
		SiteSourceBase:    record("gas", 1, 1),
		SiteSourceMeasure: record("electricity", 3, 2.5),
		CarbonIntBase:     record("gas", 0.05, 0.05),
		CarbonIntMeasure:  record("electricity", 0.06, 0.05),
	}
	r, err := c.RatiosFor("2009", false, false)
	require.NoError(t, err)
	assert.Equal(t, Ratios{Energy: 1, Carbon: 1}, r)

	r, err = c.RatiosFor("2009", true, false)
	require.NoError(t, err)
	assert.InDelta(t, 3, r.Energy, 1e-12)
	assert.InDelta(t, 3.6, r.Carbon, 1e-12)

	r, err = c.RatiosFor("2010", true, true)
	require.NoError(t, err)
	assert.Equal(t, 1.0, r.Energy)
	assert.InDelta(t, 2.5, r.Carbon, 1e-12)

	_, err = c.RatiosFor("2011", true, false)
	assert.Error(t, err)

	c.SiteSourceBase = record("gas", 0, 1)
	_, err = c.RatiosFor("2009", true, false)
	assert.Error(t, err)
}

func TestApplyTSV(t *testing.T) {
	b := model.NewBundle(horizon)
	for _, o := range model.Outputs() {
		b[o]["2009"] = 1
	}
	ApplyTSV(&b, model.TSVScaleFractions{
		Energy: model.ScenarioPair{Baseline: 2, Efficient: 3},
		Cost:   model.ScenarioPair{Baseline: 4, Efficient: 5},
		Carbon: model.ScenarioPair{Baseline: 6, Efficient: 7},
	})
	assert.Equal(t, 1.0, b[model.StockTotal]["2009"])
	assert.Equal(t, 1.0, b[model.StockCostCompetedEfficient]["2009"])
	assert.Equal(t, 2.0, b[model.EnergyCompeted]["2009"])
	assert.Equal(t, 3.0, b[model.EnergyTotalEfficient]["2009"])
	assert.Equal(t, 4.0, b[model.EnergyCostTotal]["2009"])
	assert.Equal(t, 5.0, b[model.EnergyCostCompetedEfficient]["2009"])
	assert.Equal(t, 6.0, b[model.CarbonCostCompeted]["2009"])
	assert.Equal(t, 7.0, b[model.CarbonTotalEfficient]["2009"])

	unit := model.NewBundle(horizon)
	unit[model.EnergyTotal]["2010"] = 9
	ApplyTSV(&unit, model.UnitTSV())
	assert.Equal(t, 9.0, unit[model.EnergyTotal]["2010"])
}

func TestSecondaryContribution(t *testing.T) {
	sec, err := SecondaryContribution(model.Series{"2009": 10, "2010": 20}, record("Test", 2, 3), horizon)
	require.NoError(t, err)
	assert.Equal(t, model.Series{"2009": 10, "2010": 20}, sec.Energy)
	assert.Equal(t, model.Series{"2009": 20, "2010": 60}, sec.Carbon)

	_, err = SecondaryContribution(model.Series{"2009": 10}, record("Test", 2, 3), horizon)
	assert.Error(t, err)
}

func TestLoadShapes(t *testing.T) {
	shapes := model.TSVShapes{Baseline: []float64{1, 1, 2}, Efficient: []float64{0, 1, 1}}
	got, err := LoadShapes(shapes, model.Series{"2009": 8, "2010": 4}, model.Series{"2009": 2, "2010": 1}, horizon)
	require.NoError(t, err)
	require.Len(t, got, 2)
	assert.InDeltaSlice(t, []float64{2, 2, 4}, got["2009"].Baseline, 1e-12)
	assert.InDeltaSlice(t, []float64{0, 1, 1}, got["2009"].Efficient, 1e-12)
	assert.InDelta(t, 4, floats.Sum(got["2010"].Baseline), 1e-12)

	same, err := LoadShapes(model.TSVShapes{Baseline: []float64{1, 3}}, model.Series{"2009": 4, "2010": 4}, model.Series{"2009": 2, "2010": 2}, horizon)
	require.NoError(t, err)
	assert.InDeltaSlice(t, []float64{0.5, 1.5}, same["2009"].Efficient, 1e-12)

	_, err = LoadShapes(model.TSVShapes{}, nil, nil, horizon)
	assert.Error(t, err)
	_, err = LoadShapes(model.TSVShapes{Baseline: []float64{1}, Efficient: []float64{1, 1}}, nil, nil, horizon)
	assert.Error(t, err)
	_, err = LoadShapes(model.TSVShapes{Baseline: []float64{0, 0}}, nil, nil, horizon)
	assert.Error(t, err)
}
