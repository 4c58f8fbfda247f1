package main

import (
	"fmt"
	"os"

	"alboran/server/config"
	"alboran/server/internal/analysis"
	"alboran/server/internal/estimator"
	"alboran/server/internal/generator"
	"alboran/server/internal/models"

	"github.com/sirupsen/logrus"
	"github.com/spf13/cobra"
)

var (
	cfg    *config.Config
	logger = logrus.New()

	seed          int64
	district      string
	districtsFile string
)

var rootCmd = &cobra.Command{
	Use:   "report",
	Short: "Print the rental market KPIs and the hedonic regression summary",
	Long:  "Generates the synthetic rental dataset for a seed, prints the tourist saturation cards and fits the OLS hedonic price model.",
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		c, err := config.LoadConfig()
		if err != nil {
			return fmt.Errorf("load config: %w", err)
		}
		cfg = c

		logger.SetFormatter(&logrus.TextFormatter{DisableTimestamp: true})
		logger.SetOutput(os.Stderr)
		level, err := logrus.ParseLevel(cfg.LogLevel)
		if err != nil {
			return fmt.Errorf("parse log level: %w", err)
		}
		logger.SetLevel(level)
		return nil
	},
	RunE: func(cmd *cobra.Command, args []string) error {
		if !cmd.Flags().Changed("seed") {
			seed = cfg.Dataset.Seed
		}
		return runReport(cmd, seed, district)
	},
}

func init() {
	rootCmd.Flags().Int64Var(&seed, "seed", 42, "dataset seed (defaults to DATASET_SEED)")
	rootCmd.Flags().StringVar(&district, "district", "", "fit the model on a single district")
	rootCmd.Flags().StringVar(&districtsFile, "districts-file", "", "JSON district table overriding the built-in one")
}

func runReport(cmd *cobra.Command, seed int64, district string) error {
	city := config.GetCityByName(cfg.City)
	if city == nil {
		return fmt.Errorf("unsupported city %q", cfg.City)
	}

	path := districtsFile
	if path == "" {
		path = cfg.DistrictsFile
	}
	if path != "" {
		if err := config.LoadDistrictFile(city, path); err != nil {
			return err
		}
	}

	gen, err := generator.NewGenerator(*city, generator.WithSize(cfg.Dataset.Size))
	if err != nil {
		return err
	}
	ds := generator.NewCache(gen, logger).Get(seed)

	out := cmd.OutOrStdout()
	summary := analysis.Summarize(ds.Records())
	fmt.Fprintf(out, "Seed %d, %d records\n", seed, summary.TotalRecords)
	fmt.Fprintf(out, "  Saturación Turística: %.1f%%\n", summary.SaturationRatio)
	fmt.Fprintf(out, "  Alquiler Medio:       %.0f €\n\n", summary.AverageResidentPrice)

	records := ds.Filter(func(r models.HousingRecord) bool {
		return district == "" || r.District == district
	})

	res, err := estimator.FitHedonicModel(records)
	if err != nil {
		return fmt.Errorf("fit hedonic model: %w", err)
	}

	for _, card := range analysis.ModelCards(res) {
		fmt.Fprintf(out, "  %s: %s\n", card.Label, card.Value)
	}
	fmt.Fprintln(out)
	fmt.Fprint(out, res.Summary)
	return nil
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}
