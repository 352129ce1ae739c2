package config

import (
	"os"
	"path/filepath"
	"testing"
)

const testSchema = `
default_profile?: string

profiles: [string]: {
	samples: int & >0
	rtt: {
		mean_log:  number
		sigma_log: number & >0
	}
	server_delay: {
		mean_log:  number
		sigma_log: number & >0
	}
	loss: {
		probability:   number & >=0 & <=1
		min:           number & >=0
		max:           number & >=0
		impact_weight: number & >0
	}
	throughput: {
		constant:   number & >0
		noise_low:  number & >0 & <1
		noise_high: number & >1
	}
}
`

const testConfig = `
default_profile: baseline
profiles:
  baseline:
    samples: 500
    rtt:
      mean_log: 3.4012
      sigma_log: 0.5
    server_delay:
      mean_log: 2.9957
      sigma_log: 0.8
    loss:
      probability: 0.15
      min: 0.001
      max: 0.02
      impact_weight: 5000
    throughput:
      constant: 10000
      noise_low: 0.9
      noise_high: 1.1
  lossy:
    samples: 200
    rtt:
      mean_log: 3.9120
      sigma_log: 0.6
    server_delay:
      mean_log: 3.4012
      sigma_log: 0.9
    loss:
      probability: 0.35
      min: 0.005
      max: 0.05
      impact_weight: 5000
    throughput:
      constant: 10000
      noise_low: 0.85
      noise_high: 1.15
`

func writeFixtures(t *testing.T, yaml, schema string) (string, string) {
	t.Helper()
	dir := t.TempDir()
	yamlPath := filepath.Join(dir, "generation.yaml")
	cuePath := filepath.Join(dir, "generation.cue")
	if err := os.WriteFile(yamlPath, []byte(yaml), 0o644); err != nil {
		t.Fatalf("write yaml fixture: %v", err)
	}
	if err := os.WriteFile(cuePath, []byte(schema), 0o644); err != nil {
		t.Fatalf("write cue fixture: %v", err)
	}
	return yamlPath, cuePath
}

func TestLoadValid(t *testing.T) {
	yamlPath, cuePath := writeFixtures(t, testConfig, testSchema)

	pc, err := Load(yamlPath, cuePath)
	if err != nil {
		t.Fatalf("Load() returned error: %v", err)
	}
	if pc.DefaultProfile != "baseline" {
		t.Errorf("default profile = %q, want baseline", pc.DefaultProfile)
	}
	if len(pc.Profiles) != 2 {
		t.Fatalf("expected 2 profiles, got %+v", pc.ProfileNames())
	}
	base := pc.Profiles["baseline"]
	if base.Samples != 500 || base.Loss.Probability != 0.15 || base.Throughput.Constant != 10000 {
		t.Errorf("unexpected baseline profile: %+v", base)
	}
}

func TestLoadRejectsSchemaViolation(t *testing.T) {
	bad := `
profiles:
  broken:
    samples: -10
    rtt:
      mean_log: 3.4
      sigma_log: 0.5
    server_delay:
      mean_log: 2.9
      sigma_log: 0.8
    loss:
      probability: 0.15
      min: 0.001
      max: 0.02
      impact_weight: 5000
    throughput:
      constant: 10000
      noise_low: 0.9
      noise_high: 1.1
`
	yamlPath, cuePath := writeFixtures(t, bad, testSchema)
	if _, err := Load(yamlPath, cuePath); err == nil {
		t.Fatalf("expected schema violation for negative samples")
	}
}

func TestLoadRejectsMissingField(t *testing.T) {
	bad := `
profiles:
  partial:
    samples: 100
    rtt:
      mean_log: 3.4
      sigma_log: 0.5
`
	yamlPath, cuePath := writeFixtures(t, bad, testSchema)
	if _, err := Load(yamlPath, cuePath); err == nil {
		t.Fatalf("expected schema violation for missing fields")
	}
}

func TestLoadRejectsUnknownDefaultProfile(t *testing.T) {
	bad := `
default_profile: nope
profiles:
  baseline:
    samples: 500
    rtt:
      mean_log: 3.4012
      sigma_log: 0.5
    server_delay:
      mean_log: 2.9957
      sigma_log: 0.8
    loss:
      probability: 0.15
      min: 0.001
      max: 0.02
      impact_weight: 5000
    throughput:
      constant: 10000
      noise_low: 0.9
      noise_high: 1.1
`
	yamlPath, cuePath := writeFixtures(t, bad, testSchema)
	if _, err := Load(yamlPath, cuePath); err == nil {
		t.Fatalf("expected error for undefined default profile")
	}
}

func TestSelect(t *testing.T) {
	yamlPath, cuePath := writeFixtures(t, testConfig, testSchema)
	pc, err := Load(yamlPath, cuePath)
	if err != nil {
		t.Fatalf("Load: %v", err)
	}

	cfg, err := pc.Select("")
	if err != nil {
		t.Fatalf("Select(\"\"): %v", err)
	}
	if cfg.Samples != 500 {
		t.Errorf("default selection picked wrong profile: %+v", cfg)
	}
	if got := pc.ResolveName(""); got != "baseline" {
		t.Errorf("ResolveName(\"\") = %q, want baseline", got)
	}

	cfg, err = pc.Select("lossy")
	if err != nil {
		t.Fatalf("Select(lossy): %v", err)
	}
	if cfg.Samples != 200 || cfg.Loss.Probability != 0.35 {
		t.Errorf("unexpected lossy profile: %+v", cfg)
	}

	if _, err := pc.Select("absent"); err == nil {
		t.Fatalf("expected error for unknown profile")
	}
}

func TestDefaultIsValid(t *testing.T) {
	cfg := Default()
	if err := cfg.Validate(); err != nil {
		t.Fatalf("Default() does not validate: %v", err)
	}
	if cfg.Samples != 500 {
		t.Errorf("default samples = %d, want 500", cfg.Samples)
	}
	if got := int(float64(cfg.Samples) * cfg.Loss.Probability); got != 75 {
		t.Errorf("default lossy count = %d, want 75", got)
	}
}
