package cmd

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/chargeway/chargeway/app"
	"github.com/chargeway/chargeway/config"
	"github.com/chargeway/chargeway/infra/logger"
)

var (
	cfgPath  string
	logLevel string
)

var rootCmd = &cobra.Command{
	Use:   "chargeway",
	Short: "Demand-aware EV trip planner",
	Long: `chargeway plans battery-feasible EV trips with charging stops picked
by predicted station demand. Without a subcommand it serves the HTTP
planning API; use "plan" or "predict" for one-shot offline queries.`,
	Example: `  chargeway --config /etc/chargeway/config.yaml
  chargeway plan --from 12.9716,77.5946 --to 15.8545,77.5946 --battery 40 --range 312 --stations stations.json
  chargeway predict --station blr-001 --stations stations.json`,
	SilenceUsage: true,
	RunE:         run,
}

func init() {
	rootCmd.PersistentFlags().StringVarP(&cfgPath, "config", "c", "config.yaml", "configuration file")
	rootCmd.PersistentFlags().StringVar(&logLevel, "log-level", "", "override the configured log level (debug, info, warn, error)")
}

// Execute runs the CLI.
func Execute() error { return rootCmd.Execute() }

func run(cmd *cobra.Command, args []string) error {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	cfg, err := config.Load(cfgPath)
	if err != nil {
		return fmt.Errorf("load config: %w", err)
	}
	if logLevel != "" {
		cfg.Logging.Level = logLevel
		if err := cfg.Logging.Validate(); err != nil {
			return err
		}
	}
	svc, err := app.New(cfg)
	if err != nil {
		return err
	}
	defer func() {
		if err := svc.Close(); err != nil {
			logger.New("main").Errorf("service close: %v", err)
		}
	}()
	return svc.Run(ctx)
}
