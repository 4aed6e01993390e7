package batch

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/kilianp07/ecmprep/core/competition"
	"github.com/kilianp07/ecmprep/core/diffusion"
	"github.com/kilianp07/ecmprep/core/events"
	"github.com/kilianp07/ecmprep/core/measure"
	"github.com/kilianp07/ecmprep/core/model"
	"github.com/kilianp07/ecmprep/core/partition"
	"github.com/kilianp07/ecmprep/internal/eventbus"
)

var horizon = model.NewHorizon(2009, 2011)

func series(a, b, c float64) model.Series {
	return model.Series{"2009": a, "2010": b, "2011": c}
}

func engine() *partition.Engine {
	return partition.NewEngine(partition.Config{
		Horizon:    horizon,
		CarbonCost: model.FuelRecord{Category: "carbon", Values: series(1, 4, 1)},
	})
}

func schemes(t *testing.T) []competition.Scheme {
	t.Helper()
	var out []competition.Scheme
	for _, n := range []string{competition.TechnicalPotential, competition.MaxAdoptionPotential} {
		s, err := competition.Lookup(n)
		require.NoError(t, err)
		out = append(out, s)
	}
	return out
}

func task(p *measure.Profile, v model.Vintage) partition.Inputs {
	return partition.Inputs{
		KeyChain: model.KeyChain{Kind: model.SegmentPrimary, Region: "AIA_CZ1", Building: "single family home",
			Fuel: "electricity", EndUse: "heating", Technology: "resistance heat", Vintage: v},
		Measure:             p,
		MarketScale:         1,
		Stock:               series(100, 200, 300),
		Energy:              series(10, 20, 30),
		Carbon:              series(30, 60, 90),
		BaseCost:            series(10, 10, 10),
		MeasureCost:         model.Cost{Scalar: 20},
		BaseFuelCost:        model.FuelRecord{Category: "Test", Values: series(1, 2, 2)},
		RelativePerformance: series(0.3, 0.3, 0.3),
		BaseLifetime:        series(10, 10, 10),
		MeasureLifetime:     10,
	}
}

func TestRunOuterProduct(t *testing.T) {
	p := &measure.Profile{Name: "m", Active: true, Diffusion: diffusion.Raw("a"), RetroRate: 0.02}
	inactive := &measure.Profile{Name: "off", Diffusion: diffusion.Constant(1)}
	gas := &measure.Profile{Name: "gas only", Active: true, Fuels: []string{"natural gas"}}

	bus := eventbus.NewWithBuffer[events.Event](64)
	sub := bus.Subscribe()
	r := NewRunner(engine(), Config{Schemes: schemes(t), Workers: 2, Bus: bus})
	run, err := r.Run(context.Background(), []partition.Inputs{
		task(p, model.VintageNew), task(inactive, model.VintageNew), task(p, model.VintageExisting), task(gas, model.VintageNew),
	})
	require.NoError(t, err)
	assert.NotEmpty(t, run.ID)
	assert.Len(t, run.Skipped, 2)
	require.Len(t, run.Outputs, 4)

	// scheme-major order
	assert.Equal(t, competition.TechnicalPotential, run.Outputs[0].Scheme)
	assert.Equal(t, 0, run.Outputs[0].Task)
	assert.Equal(t, 2, run.Outputs[1].Task)
	assert.Equal(t, competition.MaxAdoptionPotential, run.Outputs[3].Scheme)
	for _, o := range run.Outputs {
		require.NotNil(t, o.Result)
		assert.Equal(t, o.Scheme, o.Inputs.Scheme.Name)
	}
	// technical potential competes the entire stock
	assert.Equal(t, 100.0, run.Outputs[1].Result.Bundle[model.StockCompeted]["2009"])

	bus.Close()
	var done, fallbacks, finished int
	for ev := range sub {
		switch e := ev.(type) {
		case events.PartitionDone:
			assert.Equal(t, run.ID, e.RunID)
			assert.NoError(t, e.Err)
			done++
		case events.FallbackWarned:
			assert.Equal(t, string(diffusion.ReasonUnparseable), e.Reason)
			fallbacks++
		case events.RunFinished:
			assert.Equal(t, 4, e.Jobs)
			assert.Zero(t, e.Failed)
			finished++
		}
	}
	assert.Equal(t, 4, done)
	assert.Equal(t, 4, fallbacks)
	assert.Equal(t, 1, finished)
}

func TestRunStopsOnConfigError(t *testing.T) {
	p := &measure.Profile{Name: "m", Active: true}
	bad := task(p, model.VintageExisting)
	delete(bad.Energy, "2010")
	r := NewRunner(engine(), Config{Schemes: schemes(t), Workers: 1})
	run, err := r.Run(context.Background(), []partition.Inputs{task(p, model.VintageNew), bad})
	require.Error(t, err)
	assert.Nil(t, run)
	assert.True(t, errors.Is(err, partition.ErrConfig))
}

func TestRunRequiresSchemes(t *testing.T) {
	_, err := NewRunner(engine(), Config{}).Run(context.Background(), nil)
	assert.ErrorIs(t, err, ErrNoSchemes)
}

func TestRunCanceled(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	p := &measure.Profile{Name: "m", Active: true}
	_, err := NewRunner(engine(), Config{Schemes: schemes(t)}).Run(ctx, []partition.Inputs{task(p, model.VintageNew)})
	assert.ErrorIs(t, err, context.Canceled)
}

func TestEventCountFitsRun(t *testing.T) {
	noisy := &measure.Profile{Name: "noisy", Active: true,
		Diffusion: diffusion.Schedule(model.Series{"a": 0.5, "b": 0.5, "c": 0.5, "2009": 0.5})}
	inactive := &measure.Profile{Name: "off"}
	tasks := []partition.Inputs{task(noisy, model.VintageNew), task(noisy, model.VintageExisting), task(inactive, model.VintageNew)}

	eng := engine()
	n := EventCount(eng, tasks, 2)
	assert.Equal(t, 1+2*(1+3)*2, n)

	// nobody reads until the run is over
	bus := eventbus.NewWithBuffer[events.Event](n)
	sub := bus.Subscribe()
	_, err := NewRunner(eng, Config{Schemes: schemes(t), Workers: 3, Bus: bus}).Run(context.Background(), tasks)
	require.NoError(t, err)
	bus.Close()
	got := 0
	for range sub {
		got++
	}
	assert.Equal(t, n, got)
}
