package cmd

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/spf13/cobra"

	"github.com/chargeway/chargeway/config"
	"github.com/chargeway/chargeway/core/demand"
	"github.com/chargeway/chargeway/core/logger"
	"github.com/chargeway/chargeway/core/model"
	"github.com/chargeway/chargeway/core/planner"
	"github.com/chargeway/chargeway/core/routing"
	infralogger "github.com/chargeway/chargeway/infra/logger"
	"github.com/chargeway/chargeway/pkg/export"
)

var (
	planOrigin   []float64
	planDest     []float64
	planBattery  float64
	planRangeKm  float64
	planStrategy string
	planCatalog  string
	planFormat   string
)

var planCmd = &cobra.Command{
	Use:   "plan",
	Short: "Plan one trip offline and print the route",
	RunE:  planTrip,
}

func init() {
	planCmd.Flags().Float64SliceVar(&planOrigin, "from", nil, "origin as lat,lon")
	planCmd.Flags().Float64SliceVar(&planDest, "to", nil, "destination as lat,lon")
	planCmd.Flags().Float64Var(&planBattery, "battery", 80, "battery percent")
	planCmd.Flags().Float64Var(&planRangeKm, "range", 400, "total rated range in km")
	planCmd.Flags().StringVar(&planStrategy, "strategy", "fastest", "fastest, shortest or least-traffic")
	planCmd.Flags().StringVar(&planCatalog, "stations", "", "station catalog JSON file")
	planCmd.Flags().StringVar(&planFormat, "format", "json", "output format: json or csv")
	rootCmd.AddCommand(planCmd)
}

func planTrip(cmd *cobra.Command, args []string) error {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if len(planOrigin) != 2 || len(planDest) != 2 {
		return fmt.Errorf("--from and --to must each be lat,lon")
	}
	strategy, err := model.ParseStrategy(planStrategy)
	if err != nil {
		return err
	}

	var stations []model.ChargingStation
	if planCatalog != "" {
		stations, err = config.LoadCatalog(planCatalog)
		if err != nil {
			return err
		}
	}

	logg := infralogger.New("plan-command")
	pl, err := offlinePlanner(stations, logg)
	if err != nil {
		return err
	}

	route, err := pl.Plan(ctx, planner.PlanRequest{
		Origin:      model.Coordinate{Lat: planOrigin[0], Lon: planOrigin[1]},
		Destination: model.Coordinate{Lat: planDest[0], Lon: planDest[1]},
		Vehicle:     model.VehicleState{BatteryPercent: planBattery, TotalRangeKm: planRangeKm},
		Strategy:    strategy,
		Stations:    stations,
		DepartAt:    time.Now(),
	})
	if err != nil {
		if ie, ok := planner.AsInfeasible(err); ok {
			return fmt.Errorf("%s (%s)", ie.Error(), ie.Remediation())
		}
		return err
	}

	switch planFormat {
	case "json":
		return export.WriteJSON(os.Stdout, route)
	case "csv":
		return export.WriteCSV(os.Stdout, route)
	default:
		return fmt.Errorf("unknown format %q", planFormat)
	}
}

// offlinePlanner builds a planner on straight-line estimates only; the plan
// command never talks to a routing provider.
func offlinePlanner(stations []model.ChargingStation, logg logger.Logger) (*planner.Planner, error) {
	dcfg := demand.Config{}
	dcfg.SetDefaults()
	pred := demand.NewCachedPredictor(
		demand.NewBlendingPredictor(stations, dcfg, demand.NopEstimator{}, logg),
		time.Duration(dcfg.CacheTTLSeconds)*time.Second,
	)
	pcfg := planner.Config{}
	pcfg.SetDefaults()
	return planner.NewPlanner(routing.NewFallbackRouter(nil, logg), pred, pcfg, logg)
}
