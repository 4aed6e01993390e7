// Package competition selects the share of a microsegment that an efficiency
// measure competes for in a given year.
package competition

import (
	"github.com/kilianp07/ecmprep/core/factory"
	"github.com/kilianp07/ecmprep/core/measure"
)

const (
	TechnicalPotential   = "Technical potential"
	MaxAdoptionPotential = "Max adoption potential"
)

// Scheme is an adoption scheme. Schemes differ only in whether the entire
// stock, rather than the turning-over share, is competed every year.
type Scheme struct {
	Name               string `json:"name"`
	CompeteEntireStock bool   `json:"compete_entire_stock"`
}

var schemes = factory.NewRegistry[Scheme]()

func init() {
	_ = Register(Scheme{Name: TechnicalPotential, CompeteEntireStock: true})
	_ = Register(Scheme{Name: MaxAdoptionPotential})
}

// Register makes s available by name.
func Register(s Scheme) error {
	return schemes.Register(s.Name, func(map[string]any) (Scheme, error) { return s, nil })
}

// Lookup returns the registered scheme called name.
func Lookup(name string) (Scheme, error) {
	return schemes.Create(factory.ModuleConfig{Type: name})
}

// Names lists the registered scheme names.
func Names() []string { return schemes.Names() }

// Competition is the outcome of selecting for one year.
type Competition struct {
	// Turnover is the share of stock turning over, whether or not the
	// measure is on the market.
	Turnover float64
	// Competed is the share of stock the measure competes for.
	Competed float64
	// Adopted is the share of stock that adopts the measure.
	Adopted float64
	// Diffusion is the adoption fraction of competed stock.
	Diffusion float64
}

// Selector applies market windows and diffusion to turnover.
type Selector struct{}

// Compete returns the competed and adopted shares for year. turnover is the
// replacement-due fraction for existing stock or the addition fraction for
// new stock; diffusion is the resolved adoption fraction for year.
func (Selector) Compete(s Scheme, w measure.Window, turnover, diffusion float64, year int) Competition {
	c := Competition{Turnover: turnover, Diffusion: diffusion}
	if s.CompeteEntireStock {
		c.Turnover = 1
	}
	if !w.Contains(year) {
		return c
	}
	c.Competed = c.Turnover
	c.Adopted = c.Competed * diffusion
	return c
}
