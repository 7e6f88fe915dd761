package cmd

import (
	"fmt"

	"game-warehouse/core/config"
	"game-warehouse/core/logger"
	"game-warehouse/feature/importer"

	"github.com/spf13/cobra"
	"go.uber.org/zap"
)

var (
	verifyEngines    []string
	verifySampleSize int
)

// verifyCmd represents the verify command
var verifyCmd = &cobra.Command{
	Use:   "verify",
	Short: "Compare dimension IDs across engines",
	Long: `Fetches the first developer rows ordered by ID from each selected
engine and compares them. Engines loaded from the same snapshot must
agree exactly, because the surrogate IDs are a pure function of the
input names.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, err := config.LoadConfig(".")
		if err != nil {
			return fmt.Errorf("failed to load configuration: %w", err)
		}

		logg, err := logger.New(&cfg.Log)
		if err != nil {
			return fmt.Errorf("failed to initialize logger: %w", err)
		}
		defer logg.Sync()
		zap.ReplaceGlobals(logg)

		ctx := cmd.Context()
		importers, cleanup, err := connectImporters(ctx, cfg, logg, verifyEngines)
		if err != nil {
			return err
		}
		defer cleanup()

		sources := make([]importer.DimensionSource, 0, len(importers))
		for _, imp := range importers {
			src, ok := imp.(importer.DimensionSource)
			if !ok {
				return fmt.Errorf("engine %s cannot serve dimension rows", imp.Engine())
			}
			sources = append(sources, src)
		}

		res, err := importer.VerifyDimensionIDs(ctx, logg, sources, verifySampleSize)
		if err != nil {
			return err
		}
		if !res.OK() {
			for _, m := range res.Mismatches {
				logg.Error("mismatch",
					zap.String("engine", m.Engine),
					zap.String("reference", m.Reference),
					zap.String("detail", m.Detail))
			}
			return fmt.Errorf("dimension ids differ across engines (%d mismatches)", len(res.Mismatches))
		}
		return nil
	},
}

func init() {
	verifyCmd.Flags().StringSliceVar(&verifyEngines, "engines",
		[]string{"mysql", "postgres", "mongo"}, "engines to compare (mysql, postgres, mongo)")
	verifyCmd.Flags().IntVar(&verifySampleSize, "sample-size", 10, "number of developer rows to compare")
	RootCmd.AddCommand(verifyCmd)
}
