// Package batch runs the partitioning engine over the outer product of
// adoption schemes and microsegment tasks.
package batch

import (
	"context"
	"errors"
	"fmt"
	"runtime"
	"sync/atomic"
	"time"

	"github.com/google/uuid"
	"golang.org/x/sync/errgroup"

	"github.com/kilianp07/ecmprep/core/competition"
	"github.com/kilianp07/ecmprep/core/events"
	"github.com/kilianp07/ecmprep/core/logger"
	"github.com/kilianp07/ecmprep/core/partition"
	"github.com/kilianp07/ecmprep/internal/eventbus"
)

// ErrNoSchemes is returned when a runner has no adoption scheme to apply.
var ErrNoSchemes = errors.New("no adoption schemes configured")

// Config configures a Runner.
type Config struct {
	Schemes []competition.Scheme
	// Workers bounds concurrent partitions. Zero means GOMAXPROCS.
	Workers int
	// Bus receives progress events when set.
	Bus    *eventbus.Bus[events.Event]
	Logger logger.Logger
}

// Output is the result of one scheme/task pair.
type Output struct {
	Scheme string
	Task   int
	Inputs partition.Inputs
	Result *partition.Result
}

// Run gathers the outputs of one batch in scheme-major, task order.
type Run struct {
	ID      string
	Outputs []Output
	// Skipped lists tasks whose measure is inactive or does not apply to
	// the key chain.
	Skipped []string
}

// Runner partitions tasks concurrently.
type Runner struct {
	engine *partition.Engine
	cfg    Config
	log    logger.Logger
}

// NewRunner returns a runner backed by eng.
func NewRunner(eng *partition.Engine, cfg Config) *Runner {
	if cfg.Workers <= 0 {
		cfg.Workers = runtime.GOMAXPROCS(0)
	}
	if cfg.Logger == nil {
		cfg.Logger = logger.Nop{}
	}
	return &Runner{engine: eng, cfg: cfg, log: cfg.Logger}
}

// Run partitions every task under every configured scheme. The task's own
// Scheme field is overwritten. The first fatal error cancels the remaining
// jobs and is returned.
func (r *Runner) Run(ctx context.Context, tasks []partition.Inputs) (*Run, error) {
	if len(r.cfg.Schemes) == 0 {
		return nil, ErrNoSchemes
	}
	run := &Run{ID: uuid.NewString()}
	start := time.Now()
	r.log.Infof("run %s: %d tasks x %d schemes, %d workers", run.ID, len(tasks), len(r.cfg.Schemes), r.cfg.Workers)

	var eligible []int
	for ti, task := range tasks {
		if task.Measure != nil && (!task.Measure.Active || !task.Measure.Applies(task.KeyChain)) {
			run.Skipped = append(run.Skipped, fmt.Sprintf("%s @ %s", task.Measure.Name, task.KeyChain))
			continue
		}
		eligible = append(eligible, ti)
	}
	jobs := make([]Output, 0, len(eligible)*len(r.cfg.Schemes))
	for _, s := range r.cfg.Schemes {
		for _, ti := range eligible {
			in := tasks[ti]
			in.Scheme = s
			jobs = append(jobs, Output{Scheme: s.Name, Task: ti, Inputs: in})
		}
	}

	var failed atomic.Int64
	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(r.cfg.Workers)
	for i := range jobs {
		if gctx.Err() != nil {
			break
		}
		i := i
		g.Go(func() error {
			if err := gctx.Err(); err != nil {
				return err
			}
			job := &jobs[i]
			t0 := time.Now()
			res, err := r.engine.Partition(job.Inputs)
			r.publish(run.ID, job, res, time.Since(t0), err)
			if err != nil {
				failed.Add(1)
				return fmt.Errorf("scheme %s: %w", job.Scheme, err)
			}
			job.Result = res
			return nil
		})
	}
	err := g.Wait()
	if err == nil {
		err = ctx.Err()
	}
	r.cfg.publish(events.RunFinished{RunID: run.ID, Jobs: len(jobs), Failed: int(failed.Load()), Duration: time.Since(start)})
	if err != nil {
		r.log.Errorf("run %s failed: %v", run.ID, err)
		return nil, err
	}
	run.Outputs = jobs
	r.log.Infof("run %s: %d partitions in %s", run.ID, len(jobs), time.Since(start))
	return run, nil
}

// EventCount returns the number of events a run of tasks over schemes
// publishes: one PartitionDone per job, one FallbackWarned per diffusion
// warning of the job's measure and the final RunFinished. A bus buffered
// with that many slots never drops an event of the run.
func EventCount(eng *partition.Engine, tasks []partition.Inputs, schemes int) int {
	n := 1
	for _, task := range tasks {
		perJob := 1
		if p := task.Measure; p != nil {
			if !p.Active || !p.Applies(task.KeyChain) {
				continue
			}
			_, warns, _ := p.Schedule(eng.Resolver(), eng.Horizon())
			perJob += len(warns)
		}
		n += perJob * schemes
	}
	return n
}

func (r *Runner) publish(runID string, job *Output, res *partition.Result, d time.Duration, err error) {
	in := job.Inputs
	name := ""
	if in.Measure != nil {
		name = in.Measure.Name
	}
	r.cfg.publish(events.PartitionDone{
		RunID:    runID,
		Measure:  name,
		Scheme:   job.Scheme,
		KeyChain: in.KeyChain.String(),
		Vintage:  string(in.KeyChain.Vintage),
		Years:    len(r.engine.Horizon()),
		Duration: d,
		Err:      err,
	})
	if res == nil {
		return
	}
	for _, w := range res.Diffusion {
		r.cfg.publish(events.FallbackWarned{RunID: runID, Measure: name, Reason: string(w.Reason), Detail: w.Detail})
	}
}

func (c Config) publish(ev events.Event) {
	if c.Bus != nil {
		c.Bus.Publish(ev)
	}
}
