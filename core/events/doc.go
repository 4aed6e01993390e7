// Package events defines the batch runner events emitted on the event bus.
//
// Available event types:
//   - PartitionDone: one measure/scheme/key chain job finished
//   - FallbackWarned: a diffusion coefficient fell back to the default schedule
//   - RunFinished: every job of a run completed
package events
