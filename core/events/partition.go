package events

import "time"

// Event is any value published by the batch runner.
type Event interface{}

// PartitionDone is published after each partition job. Err is nil on success.
type PartitionDone struct {
	RunID    string
	Measure  string
	Scheme   string
	KeyChain string
	Vintage  string
	Years    int
	Duration time.Duration
	Err      error
}

// FallbackWarned is published for every diffusion warning of a job.
type FallbackWarned struct {
	RunID   string
	Measure string
	Reason  string
	Detail  string
}

// RunFinished closes a run.
type RunFinished struct {
	RunID    string
	Jobs     int
	Failed   int
	Duration time.Duration
}
