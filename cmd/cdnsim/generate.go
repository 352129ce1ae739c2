package main

import (
	"fmt"
	"os"
	"time"

	"github.com/google/uuid"
	"github.com/spf13/cobra"

	"cdnsim/internal/config"
	"cdnsim/internal/export"
	"cdnsim/internal/logging"
	"cdnsim/internal/report"
	"cdnsim/internal/synth"
)

var (
	genConfigPath string
	genSchemaPath string
	genProfile    string
	genSeed       int64
	genSamples    int
	genOut        string
	genFormat     string
	genPrint      bool
	genNoSummary  bool
	genGreptimeDB string
)

var generateCmd = &cobra.Command{
	Use:   "generate",
	Short: "Generate a synthetic CDN measurement dataset",
	Long:  "generate draws a reproducible dataset of synthetic CDN performance samples and exports it.",
	RunE: func(cmd *cobra.Command, args []string) error {
		log := logging.FromContext(cmd.Context())

		gcfg, profile, err := resolveProfile(cmd, genConfigPath, genSchemaPath, genProfile)
		if err != nil {
			return err
		}
		if genSamples > 0 {
			gcfg.Samples = genSamples
		}

		gen, err := synth.NewGenerator(gcfg, genSeed)
		if err != nil {
			return err
		}

		run := synth.RunInfo{
			ID:          uuid.New().String(),
			Profile:     profile,
			Seed:        genSeed,
			Samples:     gcfg.Samples,
			GeneratedAt: time.Now().UTC(),
		}

		log.Info("generating dataset", "run_id", run.ID, "profile", run.Profile, "seed", run.Seed, "samples", run.Samples)
		ds := gen.Generate()

		out := genOut
		if genFormat == "jsonl" && !cmd.Flags().Changed("out") {
			out = "synthetic_cdn_data.jsonl"
		}

		ws, err := newWriters(gcfg, run, genPrint, out, genFormat, genGreptimeDB)
		if err != nil {
			return err
		}
		writer := export.NewMultiWriter(ws...)
		if err := writer.WriteRunInfo(run); err != nil {
			_ = writer.Close()
			return err
		}
		if err := writer.WriteBatch(ds.Samples); err != nil {
			_ = writer.Close()
			return err
		}
		if err := writer.Close(); err != nil {
			return err
		}
		if out != "" {
			log.Info("dataset written", "path", out, "format", genFormat, "samples", ds.Len())
		}

		if genNoSummary {
			return nil
		}
		return report.WriteText(os.Stdout, report.Summarize(ds))
	},
}

// resolveProfile loads the requested generation profile. When the
// config flag is untouched and the default file does not exist, the
// built-in defaults are used so the tool works outside a checkout.
func resolveProfile(cmd *cobra.Command, configPath, schemaPath, profile string) (config.GenerationConfig, string, error) {
	if !cmd.Flags().Changed("config") {
		if _, err := os.Stat(configPath); os.IsNotExist(err) {
			if profile != "" {
				return config.GenerationConfig{}, "", fmt.Errorf("profile %q requires a config file at %s", profile, configPath)
			}
			return config.Default(), "default", nil
		}
	}
	pc, err := config.Load(configPath, schemaPath)
	if err != nil {
		return config.GenerationConfig{}, "", err
	}
	gcfg, err := pc.Select(profile)
	if err != nil {
		return config.GenerationConfig{}, "", err
	}
	return gcfg, pc.ResolveName(profile), nil
}

func init() {
	generateCmd.Flags().StringVar(&genConfigPath, "config", "config/generation.yaml", "Path to generation profile YAML")
	generateCmd.Flags().StringVar(&genSchemaPath, "schema", "schemas/generation.cue", "Path to CUE schema file")
	generateCmd.Flags().StringVar(&genProfile, "profile", "", "Profile name (defaults to the file's default_profile)")
	generateCmd.Flags().Int64Var(&genSeed, "seed", synth.DefaultSeed, "Random seed for reproducible output")
	generateCmd.Flags().IntVar(&genSamples, "samples", 0, "Override the profile's sample count (0 keeps it)")
	generateCmd.Flags().StringVar(&genOut, "out", "synthetic_cdn_data.csv", "Output dataset path (empty disables file export)")
	generateCmd.Flags().StringVar(&genFormat, "format", "csv", "Output format: csv or jsonl")
	generateCmd.Flags().BoolVar(&genPrint, "print", false, "Print samples to STDOUT while exporting")
	generateCmd.Flags().BoolVar(&genNoSummary, "no-summary", false, "Skip the summary statistics table")
	generateCmd.Flags().StringVar(&genGreptimeDB, "greptime-db", "public", "GreptimeDB database for the GREPTIMEDB_ENDPOINT sink")
}
