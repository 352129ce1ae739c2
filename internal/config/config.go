// YAML profile loader with CUE validation integration
package config

import (
	"fmt"
	"math"
	"os"
	"sort"
	"strings"

	"gopkg.in/yaml.v3"
)

// LatencyParams are the log-normal parameters for a latency component.
type LatencyParams struct {
	MeanLog  float64 `yaml:"mean_log"`
	SigmaLog float64 `yaml:"sigma_log"`
}

// LossParams govern lossy-sample selection and loss magnitudes.
type LossParams struct {
	Probability  float64 `yaml:"probability"`
	Min          float64 `yaml:"min"`
	Max          float64 `yaml:"max"`
	ImpactWeight float64 `yaml:"impact_weight"`
}

// ThroughputParams govern the derived throughput relationship.
type ThroughputParams struct {
	Constant  float64 `yaml:"constant"`
	NoiseLow  float64 `yaml:"noise_low"`
	NoiseHigh float64 `yaml:"noise_high"`
}

// GenerationConfig is one complete parameter set for a generation run.
// It is immutable for the duration of a run.
type GenerationConfig struct {
	Samples     int              `yaml:"samples"`
	RTT         LatencyParams    `yaml:"rtt"`
	ServerDelay LatencyParams    `yaml:"server_delay"`
	Loss        LossParams       `yaml:"loss"`
	Throughput  ThroughputParams `yaml:"throughput"`
}

// ProfileConfig is the root of the configuration file: named parameter
// sets plus the profile used when none is requested explicitly.
type ProfileConfig struct {
	DefaultProfile string                      `yaml:"default_profile"`
	Profiles       map[string]GenerationConfig `yaml:"profiles"`
}

// Default returns the canonical parameter set: 500 samples, RTT around
// 30ms, server delay around 20ms, 15% lossy samples on [0.001, 0.02],
// and ±10% throughput noise.
func Default() GenerationConfig {
	return GenerationConfig{
		Samples:     500,
		RTT:         LatencyParams{MeanLog: math.Log(30), SigmaLog: 0.5},
		ServerDelay: LatencyParams{MeanLog: math.Log(20), SigmaLog: 0.8},
		Loss:        LossParams{Probability: 0.15, Min: 0.001, Max: 0.02, ImpactWeight: 5000},
		Throughput:  ThroughputParams{Constant: 10000, NoiseLow: 0.9, NoiseHigh: 1.1},
	}
}

// Load reads the YAML profile file and validates it against a CUE schema.
func Load(configPath, cueSchemaPath string) (*ProfileConfig, error) {
	if err := ValidateWithCue(configPath, cueSchemaPath); err != nil {
		return nil, err
	}

	data, err := os.ReadFile(configPath)
	if err != nil {
		return nil, err
	}
	var cfg ProfileConfig
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return nil, err
	}
	if len(cfg.Profiles) == 0 {
		return nil, fmt.Errorf("%s: no profiles defined", configPath)
	}
	if cfg.DefaultProfile != "" {
		if _, ok := cfg.Profiles[cfg.DefaultProfile]; !ok {
			return nil, fmt.Errorf("%s: default_profile %q not defined", configPath, cfg.DefaultProfile)
		}
	}
	return &cfg, nil
}

// Select resolves a named profile. An empty name picks the file's
// default profile, or the single defined profile if no default is set.
func (pc *ProfileConfig) Select(name string) (GenerationConfig, error) {
	name = pc.ResolveName(name)
	cfg, ok := pc.Profiles[name]
	if !ok {
		return GenerationConfig{}, fmt.Errorf("unknown profile %q (available: %s)", name, strings.Join(pc.ProfileNames(), ", "))
	}
	return cfg, nil
}

// ResolveName returns the profile name Select would use for the given
// request. It does not check that the profile exists.
func (pc *ProfileConfig) ResolveName(name string) string {
	if name == "" {
		name = pc.DefaultProfile
	}
	if name == "" && len(pc.Profiles) == 1 {
		for n := range pc.Profiles {
			name = n
		}
	}
	return name
}

// ProfileNames lists the defined profiles in sorted order.
func (pc *ProfileConfig) ProfileNames() []string {
	names := make([]string, 0, len(pc.Profiles))
	for n := range pc.Profiles {
		names = append(names, n)
	}
	sort.Strings(names)
	return names
}
