// Package measure describes an efficiency measure as seen by the
// partitioning engine.
package measure

import (
	"strings"
	"sync"

	"github.com/kilianp07/ecmprep/core/diffusion"
	"github.com/kilianp07/ecmprep/core/model"
)

// Profile is a measure definition. It is owned by the caller; the engine only
// reads it, apart from the memoized diffusion schedule.
type Profile struct {
	Name            string
	Active          bool
	MarketEntryYear *int
	MarketExitYear  *int
	Vintages        []model.Vintage
	Fuels           []string
	EndUses         []string
	Technologies    []string
	FuelSwitchTo    string
	Diffusion       diffusion.Spec
	RetroRate       float64

	mu    sync.Mutex
	cache *cachedSchedule
}

type cachedSchedule struct {
	key      string
	policy   diffusion.Policy
	resolved diffusion.Resolved
	warnings []diffusion.Warning
}

// Window is the half-open range of years in which a measure competes.
type Window struct {
	Entry int
	Exit  int
}

// Contains reports whether year lies in [Entry, Exit).
func (w Window) Contains(year int) bool { return year >= w.Entry && year < w.Exit }

// Window resolves the market entry and exit years against h. A missing entry
// year means the start of the horizon; a missing exit year means the measure
// never exits within h.
func (p *Profile) Window(h model.Horizon) Window {
	first, _ := h.First()
	last, _ := h.Last()
	w := Window{Entry: first, Exit: last + 1}
	if p.MarketEntryYear != nil {
		w.Entry = *p.MarketEntryYear
	}
	if p.MarketExitYear != nil {
		w.Exit = *p.MarketExitYear
	}
	return w
}

// FuelSwitching reports whether the measure changes the microsegment fuel.
func (p *Profile) FuelSwitching(k model.KeyChain) bool {
	return p.FuelSwitchTo != "" && p.FuelSwitchTo != k.Fuel
}

// Schedule returns the resolved diffusion schedule for h, resolving it on
// first use. The warnings are those produced by the first resolution; fresh
// reports that the call performed the resolution.
func (p *Profile) Schedule(r diffusion.Resolver, h model.Horizon) (res diffusion.Resolved, warns []diffusion.Warning, fresh bool) {
	key := strings.Join(h, ",")
	p.mu.Lock()
	defer p.mu.Unlock()
	if p.cache != nil && p.cache.key == key && p.cache.policy == r.Policy {
		return p.cache.resolved, p.cache.warnings, false
	}
	res, warns = r.Resolve(p.Diffusion, h)
	p.cache = &cachedSchedule{key: key, policy: r.Policy, resolved: res, warnings: warns}
	return res, warns, true
}

// Applies reports whether the measure targets the microsegment. Empty
// applicability lists match everything.
func (p *Profile) Applies(k model.KeyChain) bool {
	return matchVintage(p.Vintages, k.Vintage) &&
		match(p.Fuels, k.Fuel) &&
		match(p.EndUses, k.EndUse) &&
		match(p.Technologies, k.Technology)
}

func match(list []string, v string) bool {
	if len(list) == 0 {
		return true
	}
	for _, s := range list {
		if s == v {
			return true
		}
	}
	return false
}

func matchVintage(list []model.Vintage, v model.Vintage) bool {
	if len(list) == 0 {
		return true
	}
	for _, s := range list {
		if s == v {
			return true
		}
	}
	return false
}
