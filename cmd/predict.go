package cmd

import (
	"encoding/json"
	"fmt"
	"os"
	"time"

	"github.com/spf13/cobra"

	"github.com/chargeway/chargeway/config"
	"github.com/chargeway/chargeway/core/demand"
	infralogger "github.com/chargeway/chargeway/infra/logger"
)

var (
	predictStation string
	predictAt      string
	predictCatalog string
)

var predictCmd = &cobra.Command{
	Use:   "predict",
	Short: "Print the demand prediction for one station",
	RunE:  predictDemand,
}

func init() {
	predictCmd.Flags().StringVar(&predictStation, "station", "", "station id")
	predictCmd.Flags().StringVar(&predictAt, "at", "", "prediction time, RFC3339 (default now)")
	predictCmd.Flags().StringVar(&predictCatalog, "stations", "", "station catalog JSON file")
	rootCmd.AddCommand(predictCmd)
}

func predictDemand(cmd *cobra.Command, args []string) error {
	if predictStation == "" {
		return fmt.Errorf("--station is required")
	}
	if predictCatalog == "" {
		return fmt.Errorf("--stations is required")
	}
	at := time.Now()
	if predictAt != "" {
		parsed, err := time.Parse(time.RFC3339, predictAt)
		if err != nil {
			return fmt.Errorf("--at must be RFC3339: %w", err)
		}
		at = parsed
	}

	stations, err := config.LoadCatalog(predictCatalog)
	if err != nil {
		return err
	}
	dcfg := demand.Config{}
	dcfg.SetDefaults()
	pred := demand.NewBlendingPredictor(stations, dcfg, demand.NopEstimator{}, infralogger.New("predict-command"))

	p, err := pred.Predict(predictStation, at)
	if err != nil {
		return err
	}
	enc := json.NewEncoder(os.Stdout)
	enc.SetIndent("", "  ")
	return enc.Encode(p)
}
