package config

import (
	"fmt"
	"path/filepath"
	"strings"

	"github.com/knadh/koanf/parsers/json"
	"github.com/knadh/koanf/parsers/yaml"
	"github.com/knadh/koanf/providers/env"
	"github.com/knadh/koanf/providers/file"
	"github.com/knadh/koanf/v2"

	"github.com/kilianp07/ecmprep/core/competition"
	"github.com/kilianp07/ecmprep/core/diffusion"
	"github.com/kilianp07/ecmprep/core/logger"
	"github.com/kilianp07/ecmprep/core/metrics"
	"github.com/kilianp07/ecmprep/core/model"
	"github.com/kilianp07/ecmprep/core/partition"
)

// EnvPrefix marks environment overrides. ECM_RUNNER__WORKERS=4 sets
// runner.workers.
const EnvPrefix = "ECM_"

type Config struct {
	Horizon    HorizonConfig      `json:"horizon"`
	Schemes    []string           `json:"schemes"`
	CarbonCost map[string]float64 `json:"carbon_cost"`
	Diffusion  DiffusionConfig    `json:"diffusion"`
	Options    model.UserOptions  `json:"options"`
	Runner     RunnerConfig       `json:"runner"`
	Metrics    metrics.Config     `json:"metrics"`
	Log        LogConfig          `json:"log"`
}

// DiffusionConfig selects the treatment of out-of-range coefficients.
type DiffusionConfig struct {
	OutOfRange string `json:"out_of_range"`
}

// RunnerConfig sizes the batch runner.
type RunnerConfig struct {
	Workers int `json:"workers"`
}

func Load(path string) (*Config, error) {
	k := koanf.New(".")
	ext := strings.ToLower(filepath.Ext(path))
	var parser koanf.Parser
	switch ext {
	case ".yaml", ".yml":
		parser = yaml.Parser()
	case ".json":
		parser = json.Parser()
	default:
		return nil, fmt.Errorf("unsupported config format: %s", ext)
	}
	if err := k.Load(file.Provider(path), parser); err != nil {
		return nil, err
	}
	// Optional environment overrides
	if err := k.Load(env.Provider(EnvPrefix, ".", func(s string) string {
		s = strings.TrimPrefix(strings.ToLower(s), strings.ToLower(EnvPrefix))
		return strings.ReplaceAll(s, "__", ".")
	}), nil); err != nil {
		return nil, err
	}
	var cfg Config
	if err := k.UnmarshalWithConf("", &cfg, koanf.UnmarshalConf{Tag: "json"}); err != nil {
		return nil, err
	}
	cfg.SetDefaults()
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

// SetDefaults fills unset sections.
func (c *Config) SetDefaults() {
	if len(c.Schemes) == 0 {
		c.Schemes = []string{competition.TechnicalPotential, competition.MaxAdoptionPotential}
	}
	if c.Diffusion.OutOfRange == "" {
		c.Diffusion.OutOfRange = string(diffusion.PolicyFallback)
	}
	c.Log.SetDefaults()
}

// Validate checks every section.
func (c Config) Validate() error {
	if err := c.Horizon.Validate(); err != nil {
		return fmt.Errorf("horizon: %w", err)
	}
	if _, err := c.SchemeList(); err != nil {
		return fmt.Errorf("schemes: %w", err)
	}
	if _, err := diffusion.ParsePolicy(c.Diffusion.OutOfRange); err != nil {
		return fmt.Errorf("diffusion: %w", err)
	}
	if c.Runner.Workers < 0 {
		return fmt.Errorf("runner: workers must not be negative")
	}
	h := c.Horizon.Horizon()
	if missing := model.Series(c.CarbonCost).MissingYears(h); len(missing) > 0 {
		return fmt.Errorf("carbon_cost: missing years %v", missing)
	}
	return c.Log.Validate()
}

// SchemeList resolves the configured scheme names.
func (c Config) SchemeList() ([]competition.Scheme, error) {
	out := make([]competition.Scheme, 0, len(c.Schemes))
	for _, name := range c.Schemes {
		s, err := competition.Lookup(name)
		if err != nil {
			return nil, err
		}
		out = append(out, s)
	}
	return out, nil
}

// Engine returns the engine configuration described by c.
func (c Config) Engine(log logger.Logger) (partition.Config, error) {
	policy, err := diffusion.ParsePolicy(c.Diffusion.OutOfRange)
	if err != nil {
		return partition.Config{}, err
	}
	return partition.Config{
		Horizon:    c.Horizon.Horizon(),
		CarbonCost: model.FuelRecord{Category: "carbon", Values: model.Series(c.CarbonCost)},
		Resolver:   diffusion.NewResolver(policy),
		Logger:     log,
	}, nil
}
