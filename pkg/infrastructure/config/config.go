// Package config loads and validates the three FlowLens configuration
// documents: workflow-state taxonomy, work-item-type profiles and
// calculation parameters.
//
// Configuration is an explicitly constructed object injected into
// components; there is no cached global. Reload means calling Load
// again and rebuilding the registries.
package config

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/xeipuuv/gojsonschema"
	"gopkg.in/yaml.v3"

	"github.com/mwaldron/flowlens/pkg/domain/itemtype"
	"github.com/mwaldron/flowlens/pkg/domain/workflow"
)

const (
	workflowFile    = "workflow.yaml"
	typesFile       = "types.yaml"
	calculationFile = "calculation.yaml"
)

// WorkflowDoc is the workflow-state taxonomy document.
type WorkflowDoc struct {
	Categories []workflow.Category `yaml:"categories"`
}

// TypesDoc is the work-item-type profile document.
type TypesDoc struct {
	FibonacciPoints []float64          `yaml:"fibonacci_points"`
	Profiles        []itemtype.Profile `yaml:"profiles"`
}

// Threshold carries per-type alert thresholds. Exposed via lookup only;
// nothing in the engine computes against them.
type Threshold struct {
	LeadTimeDays  float64 `yaml:"lead_time_days"`
	CycleTimeDays float64 `yaml:"cycle_time_days"`
}

// CalculationDoc is the calculation-parameters document.
type CalculationDoc struct {
	Percentiles          []float64            `yaml:"percentiles"`
	ThroughputPeriodDays int                  `yaml:"throughput_period_days"`
	Thresholds           map[string]Threshold `yaml:"thresholds"`
}

// ThresholdFor returns the alert thresholds configured for a type.
func (d *CalculationDoc) ThresholdFor(itemType string) (Threshold, bool) {
	t, ok := d.Thresholds[itemType]
	return t, ok
}

// Config is the fully loaded and schema-validated configuration.
type Config struct {
	Workflow    WorkflowDoc
	Types       TypesDoc
	Calculation CalculationDoc
}

// defaultFibonacci is used when types.yaml does not configure a scale.
var defaultFibonacci = []float64{0.5, 1, 2, 3, 5, 8, 13, 21}

// Load reads the three documents from dir. Any malformed document is a
// fatal configuration error; nothing should compute against a partially
// valid configuration.
func Load(dir string) (*Config, error) {
	cfg := &Config{}

	if err := loadDocument(filepath.Join(dir, workflowFile), workflowSchemaLoader, &cfg.Workflow); err != nil {
		return nil, err
	}
	if err := loadDocument(filepath.Join(dir, typesFile), typesSchemaLoader, &cfg.Types); err != nil {
		return nil, err
	}

	// calculation.yaml is optional; defaults cover its absence.
	calcPath := filepath.Join(dir, calculationFile)
	if _, err := os.Stat(calcPath); err == nil {
		if err := loadDocument(calcPath, calculationSchemaLoader, &cfg.Calculation); err != nil {
			return nil, err
		}
	} else if !os.IsNotExist(err) {
		return nil, fmt.Errorf("read %s: %w", calcPath, err)
	}

	if len(cfg.Types.FibonacciPoints) == 0 {
		cfg.Types.FibonacciPoints = defaultFibonacci
	}
	if len(cfg.Calculation.Percentiles) == 0 {
		cfg.Calculation.Percentiles = []float64{0.85, 0.95}
	}

	return cfg, nil
}

// BuildRegistries constructs the state and type registries from the
// loaded documents, running their semantic validation.
func (c *Config) BuildRegistries() (*workflow.StateRegistry, *itemtype.BehaviorRegistry, error) {
	states, err := workflow.NewStateRegistry(c.Workflow.Categories)
	if err != nil {
		return nil, nil, err
	}
	types, err := itemtype.NewBehaviorRegistry(c.Types.Profiles, c.Types.FibonacciPoints)
	if err != nil {
		return nil, nil, err
	}
	return states, types, nil
}

// loadDocument reads one YAML file, checks it against its schema, then
// unmarshals it into the typed document.
func loadDocument(path string, schema gojsonschema.JSONLoader, out interface{}) error {
	data, err := os.ReadFile(path)
	if err != nil {
		return fmt.Errorf("read %s: %w", path, err)
	}

	var raw interface{}
	if err := yaml.Unmarshal(data, &raw); err != nil {
		return fmt.Errorf("parse %s: %w", path, err)
	}
	if err := validateDocument(schema, raw, filepath.Base(path)); err != nil {
		return err
	}

	if err := yaml.Unmarshal(data, out); err != nil {
		return fmt.Errorf("parse %s: %w", path, err)
	}
	return nil
}
