// CUE schema validation and semantic parameter checks
package config

import (
	"fmt"
	"os"

	"cuelang.org/go/cue"
	"cuelang.org/go/cue/cuecontext"
	cueyaml "cuelang.org/go/encoding/yaml"
)

// ConfigError reports an invalid generation parameter.
type ConfigError struct {
	Field  string
	Reason string
}

func (e *ConfigError) Error() string {
	return fmt.Sprintf("invalid generation config: %s: %s", e.Field, e.Reason)
}

// Validate checks the semantic parameter rules that must hold before
// any sampling happens. It returns a *ConfigError describing the first
// violated rule.
func (c *GenerationConfig) Validate() error {
	if c.Samples <= 0 {
		return &ConfigError{Field: "samples", Reason: "must be positive"}
	}
	if c.RTT.SigmaLog <= 0 {
		return &ConfigError{Field: "rtt.sigma_log", Reason: "must be positive"}
	}
	if c.ServerDelay.SigmaLog <= 0 {
		return &ConfigError{Field: "server_delay.sigma_log", Reason: "must be positive"}
	}
	if c.Loss.Probability < 0 || c.Loss.Probability > 1 {
		return &ConfigError{Field: "loss.probability", Reason: "must be within [0, 1]"}
	}
	if c.Loss.Min < 0 {
		return &ConfigError{Field: "loss.min", Reason: "must not be negative"}
	}
	if c.Loss.Max < 0 {
		return &ConfigError{Field: "loss.max", Reason: "must not be negative"}
	}
	if c.Loss.Min > c.Loss.Max {
		return &ConfigError{Field: "loss.min", Reason: "exceeds loss.max"}
	}
	if c.Loss.ImpactWeight <= 0 {
		return &ConfigError{Field: "loss.impact_weight", Reason: "must be positive"}
	}
	if c.Throughput.Constant <= 0 {
		return &ConfigError{Field: "throughput.constant", Reason: "must be positive"}
	}
	if c.Throughput.NoiseLow <= 0 || c.Throughput.NoiseLow >= 1 {
		return &ConfigError{Field: "throughput.noise_low", Reason: "must be within (0, 1)"}
	}
	if c.Throughput.NoiseHigh <= 1 {
		return &ConfigError{Field: "throughput.noise_high", Reason: "must be greater than 1"}
	}
	return nil
}

// ValidateWithCue validates a YAML configuration file against a CUE
// schema file before it is unmarshalled.
func ValidateWithCue(configFile, cueFile string) error {
	ctx := cuecontext.New()

	schemaBytes, err := os.ReadFile(cueFile)
	if err != nil {
		return fmt.Errorf("cannot read CUE schema: %w", err)
	}
	schemaVal := ctx.CompileBytes(schemaBytes)
	if err := schemaVal.Err(); err != nil {
		return fmt.Errorf("invalid CUE schema: %w", err)
	}

	yamlBytes, err := os.ReadFile(configFile)
	if err != nil {
		return fmt.Errorf("cannot read YAML config: %w", err)
	}
	file, err := cueyaml.Extract(configFile, yamlBytes)
	if err != nil {
		return fmt.Errorf("cannot parse YAML config: %w", err)
	}
	configVal := ctx.BuildFile(file)
	if err := configVal.Err(); err != nil {
		return fmt.Errorf("cannot build YAML config: %w", err)
	}

	unified := schemaVal.Unify(configVal)
	if err := unified.Validate(cue.Concrete(true)); err != nil {
		return fmt.Errorf("schema validation failed: %w", err)
	}
	return nil
}
