package cmd

import (
	"context"
	"fmt"
	"io"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/kilianp07/ecmprep/config"
	"github.com/kilianp07/ecmprep/core/batch"
	"github.com/kilianp07/ecmprep/core/events"
	coremetrics "github.com/kilianp07/ecmprep/core/metrics"
	"github.com/kilianp07/ecmprep/core/partition"
	"github.com/kilianp07/ecmprep/infra/logger"
	"github.com/kilianp07/ecmprep/infra/metrics"
	"github.com/kilianp07/ecmprep/internal/eventbus"
	"github.com/kilianp07/ecmprep/pkg/casefile"
	"github.com/kilianp07/ecmprep/pkg/export"
)

var (
	casePath  string
	outFormat string
	outPath   string
)

var partitionCmd = &cobra.Command{
	Use:   "partition",
	Short: "Partition every microsegment of a case file under the configured schemes",
	RunE:  runPartition,
}

func init() {
	partitionCmd.Flags().StringVar(&casePath, "case", "", "case file (yaml or json)")
	partitionCmd.Flags().StringVar(&outFormat, "format", "json", "output format: json or csv")
	partitionCmd.Flags().StringVarP(&outPath, "out", "o", "-", "output file, - for stdout")
	_ = partitionCmd.MarkFlagRequired("case")
	rootCmd.AddCommand(partitionCmd)
}

func runPartition(cmd *cobra.Command, args []string) error {
	if outFormat != "json" && outFormat != "csv" {
		return fmt.Errorf("unsupported format %q", outFormat)
	}
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	cfg, err := config.Load(cfgPath)
	if err != nil {
		return fmt.Errorf("load config: %w", err)
	}
	logger.SetLevel(cfg.Log.Level)
	logg := logger.New("partition-command")

	schemes, err := cfg.SchemeList()
	if err != nil {
		return err
	}
	engCfg, err := cfg.Engine(logger.New("engine"))
	if err != nil {
		return err
	}
	c, err := casefile.Load(casePath, cfg.Options)
	if err != nil {
		return fmt.Errorf("load case: %w", err)
	}

	sink, err := coremetrics.NewMetricsSink(cfg.Metrics.Sinks)
	if err != nil {
		return fmt.Errorf("metrics sink: %w", err)
	}
	if cfg.Metrics.PrometheusPort != "" {
		go func() {
			if err := metrics.StartPromServer(ctx, ":"+cfg.Metrics.PrometheusPort); err != nil {
				logg.Errorf("prom server: %v", err)
			}
		}()
	}
	eng := partition.NewEngine(engCfg)
	bus := eventbus.NewWithBuffer[events.Event](batch.EventCount(eng, c.Tasks, len(schemes)))
	collected := metrics.StartEventCollector(ctx, bus, sink)

	runner := batch.NewRunner(eng, batch.Config{
		Schemes: schemes,
		Workers: cfg.Runner.Workers,
		Bus:     bus,
		Logger:  logger.New("batch"),
	})
	run, err := runner.Run(ctx, c.Tasks)
	bus.Close()
	<-collected
	if err != nil {
		return err
	}
	for _, s := range run.Skipped {
		logg.Debugf("skipped %s", s)
	}

	recs := make([]export.Record, 0, len(run.Outputs))
	for _, o := range run.Outputs {
		recs = append(recs, export.NewRecord(run.ID, o.Scheme, o.Inputs.Measure.Name, o.Inputs.KeyChain, o.Result))
	}

	var w io.Writer = cmd.OutOrStdout()
	if outPath != "-" {
		f, err := os.Create(outPath)
		if err != nil {
			return err
		}
		defer f.Close()
		w = f
	}
	if outFormat == "csv" {
		return export.WriteCSV(w, engCfg.Horizon, recs)
	}
	return export.WriteJSON(w, recs)
}
