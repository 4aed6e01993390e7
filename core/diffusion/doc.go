// Package diffusion normalizes a measure's technology diffusion coefficient
// into a year-indexed adoption fraction covering the modeling horizon.
//
// A coefficient may be given as a constant, a per-year mapping, a raw string
// or not at all. Resolution never fails: malformed input yields the
// "no differential diffusion" schedule of ones together with a Warning.
package diffusion
