// Package metrics defines the sinks that observe partitioning runs. A sink
// records one PartitionEvent per engine invocation and, when it implements
// FallbackRecorder, every diffusion fallback warning. Sinks are created by
// name through the factory registry and combined with NewMultiSink when more
// than one is configured.
package metrics
