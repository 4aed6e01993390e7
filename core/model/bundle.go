package model

// Output indexes the 24 series of a Bundle. The order is a public contract:
// stock, energy and carbon for baseline total, efficient total, baseline
// competed and efficient competed, first in physical units then in cost.
type Output int

const (
	StockTotal Output = iota
	EnergyTotal
	CarbonTotal
	StockTotalEfficient
	EnergyTotalEfficient
	CarbonTotalEfficient
	StockCompeted
	EnergyCompeted
	CarbonCompeted
	StockCompetedEfficient
	EnergyCompetedEfficient
	CarbonCompetedEfficient
	StockCostTotal
	EnergyCostTotal
	CarbonCostTotal
	StockCostTotalEfficient
	EnergyCostTotalEfficient
	CarbonCostTotalEfficient
	StockCostCompeted
	EnergyCostCompeted
	CarbonCostCompeted
	StockCostCompetedEfficient
	EnergyCostCompetedEfficient
	CarbonCostCompetedEfficient

	NumOutputs = 24
)

var outputNames = [NumOutputs]string{
	"stock_total", "energy_total", "carbon_total",
	"stock_total_efficient", "energy_total_efficient", "carbon_total_efficient",
	"stock_competed", "energy_competed", "carbon_competed",
	"stock_competed_efficient", "energy_competed_efficient", "carbon_competed_efficient",
	"stock_cost_total", "energy_cost_total", "carbon_cost_total",
	"stock_cost_total_efficient", "energy_cost_total_efficient", "carbon_cost_total_efficient",
	"stock_cost_competed", "energy_cost_competed", "carbon_cost_competed",
	"stock_cost_competed_efficient", "energy_cost_competed_efficient", "carbon_cost_competed_efficient",
}

func (o Output) String() string {
	if o < 0 || int(o) >= NumOutputs {
		return "unknown"
	}
	return outputNames[o]
}

// Outputs lists every output in contract order.
func Outputs() []Output {
	out := make([]Output, NumOutputs)
	for i := range out {
		out[i] = Output(i)
	}
	return out
}

// Bundle is the ordered set of 24 year-indexed series for one partition.
type Bundle [NumOutputs]Series

// NewBundle returns a bundle whose series all cover h with zeros.
func NewBundle(h Horizon) Bundle {
	var b Bundle
	for i := range b {
		b[i] = NewSeries(h, 0)
	}
	return b
}

// Get returns the series for o.
func (b *Bundle) Get(o Output) Series { return b[o] }

// List returns the series in contract order.
func (b *Bundle) List() []Series {
	out := make([]Series, NumOutputs)
	copy(out, b[:])
	return out
}

// Scale multiplies every value of every series by f.
func (b *Bundle) Scale(f float64) {
	for _, s := range b {
		for y := range s {
			s[y] *= f
		}
	}
}
