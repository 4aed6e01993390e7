// Package partition computes the 24 year-indexed stock, energy, carbon and
// cost series of one measure applied to one microsegment.
//
// An Engine is built once per run from an immutable Config (modeling
// horizon, carbon price record, diffusion policy, logger) and then invoked
// once per (adoption scheme, key chain) pair:
//
//	eng := partition.NewEngine(partition.Config{Horizon: model.NewHorizon(2009, 2011), ...})
//	res, err := eng.Partition(inputs)
//	if errors.Is(err, partition.ErrConfig) {
//		// a required series is missing or does not match the horizon
//	}
//	energy := res.Bundle.Get(model.EnergyTotalEfficient)
//
// Partition is safe for concurrent use. Calls sharing a measure.Profile
// share its memoized diffusion schedule.
package partition
