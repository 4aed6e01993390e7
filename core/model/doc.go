// Package model holds the value types shared by the partitioning engine:
// year-indexed series over a modeling horizon, microsegment key chains,
// fuel-keyed records and the 24-series output bundle.
package model
