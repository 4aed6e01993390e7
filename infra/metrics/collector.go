package metrics

import (
	"context"
	"time"

	"github.com/kilianp07/ecmprep/core/events"
	coremetrics "github.com/kilianp07/ecmprep/core/metrics"
	"github.com/kilianp07/ecmprep/internal/eventbus"
)

// StartEventCollector subscribes to the event bus and records metrics for events.
// It stops when the context is canceled or the bus is closed; the returned
// channel is closed once the collector has exited.
func StartEventCollector(ctx context.Context, bus *eventbus.Bus[events.Event], sink coremetrics.MetricsSink) <-chan struct{} {
	done := make(chan struct{})
	if bus == nil || sink == nil {
		close(done)
		return done
	}
	sub := bus.Subscribe()
	go func() {
		defer close(done)
		defer bus.Unsubscribe(sub)
		for {
			select {
			case <-ctx.Done():
				return
			case ev, ok := <-sub:
				if !ok {
					return
				}
				record(sink, ev)
			}
		}
	}()
	return done
}

func record(sink coremetrics.MetricsSink, ev events.Event) {
	switch e := ev.(type) {
	case events.PartitionDone:
		status := coremetrics.StatusOK
		if e.Err != nil {
			status = coremetrics.StatusError
		}
		_ = sink.RecordPartition(coremetrics.PartitionEvent{
			RunID:    e.RunID,
			Measure:  e.Measure,
			Scheme:   e.Scheme,
			KeyChain: e.KeyChain,
			Vintage:  e.Vintage,
			Years:    e.Years,
			Status:   status,
			Duration: e.Duration,
			Time:     time.Now(),
		})
	case events.FallbackWarned:
		if r, ok := sink.(coremetrics.FallbackRecorder); ok {
			_ = r.RecordFallback(coremetrics.FallbackEvent{
				RunID:   e.RunID,
				Measure: e.Measure,
				Reason:  e.Reason,
				Detail:  e.Detail,
				Time:    time.Now(),
			})
		}
	}
}
