//go:build integration

package e2e

import (
	"context"
	"fmt"
	"os"
	"testing"
	"time"

	tc "github.com/testcontainers/testcontainers-go"
	"github.com/testcontainers/testcontainers-go/wait"

	"github.com/kilianp07/ecmprep/core/batch"
	"github.com/kilianp07/ecmprep/core/competition"
	"github.com/kilianp07/ecmprep/core/diffusion"
	"github.com/kilianp07/ecmprep/core/events"
	"github.com/kilianp07/ecmprep/core/model"
	"github.com/kilianp07/ecmprep/core/partition"
	"github.com/kilianp07/ecmprep/infra/metrics"
	"github.com/kilianp07/ecmprep/internal/eventbus"
	"github.com/kilianp07/ecmprep/pkg/casefile"
)

const (
	influxOrg    = "ecm"
	influxBucket = "partitions"
	influxToken  = "ecm-token"
)

// startInflux starts an InfluxDB 2.7 container and returns it along with the
// base URL.
func startInflux(ctx context.Context, t *testing.T) (tc.Container, string) {
	t.Helper()
	req := tc.ContainerRequest{
		Image:        "influxdb:2.7",
		ExposedPorts: []string{"8086/tcp"},
		Env: map[string]string{
			"DOCKER_INFLUXDB_INIT_MODE":        "setup",
			"DOCKER_INFLUXDB_INIT_USERNAME":    "ecm",
			"DOCKER_INFLUXDB_INIT_PASSWORD":    "ecmprep-secret",
			"DOCKER_INFLUXDB_INIT_ORG":         influxOrg,
			"DOCKER_INFLUXDB_INIT_BUCKET":      influxBucket,
			"DOCKER_INFLUXDB_INIT_ADMIN_TOKEN": influxToken,
		},
		WaitingFor: wait.ForHTTP("/health").WithPort("8086/tcp").WithStartupTimeout(60 * time.Second),
	}
	cont, err := tc.GenericContainer(ctx, tc.GenericContainerRequest{ContainerRequest: req, Started: true})
	if err != nil {
		t.Skipf("unable to start influx container: %v", err)
	}
	host, _ := cont.Host(ctx)
	port, _ := cont.MappedPort(ctx, "8086")
	return cont, fmt.Sprintf("http://%s:%s", host, port.Port())
}

// TestPipelineRecordsToInflux partitions the reference case and checks that
// every job and fallback reaches InfluxDB through the event collector.
func TestPipelineRecordsToInflux(t *testing.T) {
	if os.Getenv("DOCKER_AVAILABLE") != "true" && os.Getenv("DOCKER_AVAILABLE") != "1" {
		t.Skip("docker not available")
	}
	ctx := context.Background()
	cont, url := startInflux(ctx, t)
	defer func() {
		if err := cont.Terminate(ctx); err != nil {
			t.Fatalf("failed to terminate container: %v", err)
		}
	}()

	client := NewInfluxClient(url, influxOrg, influxBucket, influxToken)
	defer client.Close()
	if err := client.SetupBucket(ctx); err != nil {
		t.Fatalf("setup bucket: %v", err)
	}

	sink := metrics.NewInfluxSinkWithFallback(metrics.InfluxConfig{URL: url, Token: influxToken, Org: influxOrg, Bucket: influxBucket})
	if _, ok := sink.(*metrics.InfluxSink); !ok {
		t.Fatalf("expected influx sink, got %T", sink)
	}

	c, err := casefile.Load("../pkg/casefile/testdata/reference_case.yaml", model.UserOptions{})
	if err != nil {
		t.Fatalf("load case: %v", err)
	}
	eng := partition.NewEngine(partition.Config{
		Horizon:    model.NewHorizon(2009, 2011),
		CarbonCost: model.FuelRecord{Category: "carbon", Values: model.Series{"2009": 1, "2010": 4, "2011": 1}},
		Resolver:   diffusion.NewResolver(diffusion.PolicyFallback),
	})
	var schemes []competition.Scheme
	for _, n := range competition.Names() {
		s, err := competition.Lookup(n)
		if err != nil {
			t.Fatalf("lookup scheme: %v", err)
		}
		schemes = append(schemes, s)
	}

	bus := eventbus.NewWithBuffer[events.Event](64)
	done := metrics.StartEventCollector(ctx, bus, sink)
	run, err := batch.NewRunner(eng, batch.Config{Schemes: schemes, Workers: 2, Bus: bus}).Run(ctx, c.Tasks)
	bus.Close()
	<-done
	if err != nil {
		t.Fatalf("run: %v", err)
	}

	got, err := client.CountPoints(ctx, "partition_run", run.ID)
	if err != nil {
		t.Fatalf("count partitions: %v", err)
	}
	if got != len(run.Outputs) {
		t.Fatalf("expected %d partition_run points, got %d", len(run.Outputs), got)
	}
	// the "wrong name" measure falls back once per scheme
	got, err = client.CountPoints(ctx, "diffusion_fallback", run.ID)
	if err != nil {
		t.Fatalf("count fallbacks: %v", err)
	}
	if got != len(schemes) {
		t.Fatalf("expected %d diffusion_fallback points, got %d", len(schemes), got)
	}
}
