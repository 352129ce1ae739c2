package main

import (
	"time"

	"github.com/google/uuid"
	"github.com/spf13/cobra"

	"cdnsim/internal/export"
	"cdnsim/internal/synth"
)

var (
	viewInput      string
	viewConfigPath string
	viewSchemaPath string
	viewProfile    string
	viewSeed       int64
	viewSamples    int
)

var viewCmd = &cobra.Command{
	Use:   "view",
	Short: "Browse a dataset in an interactive terminal UI",
	Long:  "view renders generated or imported samples in a scrollable terminal UI with a braille scatter mode.",
	RunE: func(cmd *cobra.Command, args []string) error {
		gcfg, profile, err := resolveProfile(cmd, viewConfigPath, viewSchemaPath, viewProfile)
		if err != nil {
			return err
		}
		if viewSamples > 0 {
			gcfg.Samples = viewSamples
		}

		var (
			ds  synth.Dataset
			run synth.RunInfo
		)
		if viewInput != "" {
			ds, err = export.ReadDataset(viewInput)
			if err != nil {
				return err
			}
			run = runInfoFromFile(viewInput, ds.Len())
		} else {
			gen, err := synth.NewGenerator(gcfg, viewSeed)
			if err != nil {
				return err
			}
			ds = gen.Generate()
			run = synth.RunInfo{
				ID:          uuid.New().String(),
				Profile:     profile,
				Seed:        viewSeed,
				Samples:     ds.Len(),
				GeneratedAt: time.Now().UTC(),
			}
		}

		w := export.NewTUIWriter(gcfg)
		if err := w.WriteRunInfo(run); err != nil {
			return err
		}
		if err := w.WriteBatch(ds.Samples); err != nil {
			return err
		}
		w.Wait()
		return nil
	},
}

func init() {
	viewCmd.Flags().StringVar(&viewInput, "input", "", "Browse an exported dataset instead of generating one")
	viewCmd.Flags().StringVar(&viewConfigPath, "config", "config/generation.yaml", "Path to generation profile YAML")
	viewCmd.Flags().StringVar(&viewSchemaPath, "schema", "schemas/generation.cue", "Path to CUE schema file")
	viewCmd.Flags().StringVar(&viewProfile, "profile", "", "Profile name (defaults to the file's default_profile)")
	viewCmd.Flags().Int64Var(&viewSeed, "seed", synth.DefaultSeed, "Random seed for reproducible output")
	viewCmd.Flags().IntVar(&viewSamples, "samples", 0, "Override the profile's sample count (0 keeps it)")
}
