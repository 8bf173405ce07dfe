// Command warehousesim runs the warehouse robot coordination simulation:
// a tick-driven fleet of robots shuttling loads between storage and cargo
// cells under a prioritized, time-expanded space-time planner.
//
// Adapted from the teacher's flag-parsed main.go into a cobra-driven CLI,
// the way acdtunes-spacetraders/gobot/internal/adapters/cli structures its
// commands.
package main

import (
	"fmt"
	"log/slog"
	"os"
	"time"

	"github.com/spf13/cobra"

	"warehouse-sim/internal/config"
	simcore "warehouse-sim/internal/core"
	"warehouse-sim/internal/planner"
	"warehouse-sim/internal/render"
	"warehouse-sim/internal/sim"
	"warehouse-sim/internal/telemetry"
)

func main() {
	if err := newRootCommand().Execute(); err != nil {
		slog.Error("warehousesim exited with error", "error", err)
		os.Exit(1)
	}
}

func newRootCommand() *cobra.Command {
	root := &cobra.Command{
		Use:   "warehousesim",
		Short: "Simulate a fleet of warehouse robots coordinated by a space-time reservation planner",
	}
	root.AddCommand(newRunCommand())
	return root
}

func newRunCommand() *cobra.Command {
	var configPath string

	cmd := &cobra.Command{
		Use:   "run",
		Short: "Run the simulation",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := config.Load(configPath, config.PFlags{Set: cmd.Flags()})
			if err != nil {
				return err
			}
			return runSimulation(cfg)
		},
	}

	flags := cmd.Flags()
	flags.Int("grid-width", 0, "grid width (unset = config file/env/default value)")
	flags.Int("grid-height", 0, "grid height (unset = config file/env/default value)")
	flags.Int("tick-rate-hz", 0, "logical tick frequency")
	flags.Int("robot-count", 0, "total agents the spawner will admit")
	flags.Bool("gui", false, "show the ebiten GUI window")
	flags.String("telemetry-addr", "", "telemetry HTTP/websocket bind address")
	cmd.Flags().StringVar(&configPath, "config", "", "path to an optional YAML config file")

	// Flags default to their Go zero value above; only flags the user
	// actually set should override file/env/defaults, so unset ones must
	// not shadow a lower-priority value once bound into viper. Cobra/pflag
	// tracks "changed" per flag and viper.BindPFlag only takes a flag's
	// value when Changed is true, so the zero defaults above are safe.
	return cmd
}

func runSimulation(cfg *config.Config) error {
	log := slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: slog.LevelInfo}))

	grid := simcore.NewGrid(cfg.GridWidth, cfg.GridHeight)
	zones := simcore.NewZones(grid, simcore.ZoneLayout{
		Width:          cfg.GridWidth,
		Height:         cfg.GridHeight,
		SpawnZoneWidth: cfg.SpawnZoneWidth,
		CargoZoneWidth: cfg.CargoZoneWidth,
		StorageMargin:  cfg.StorageMargin,
		RackLength:     cfg.RackLength,
		AisleWidth:     cfg.AisleWidth,
	})

	plannerCfg := planner.Config{
		Horizon:         cfg.PBSHorizonTicks,
		HeuristicWeight: cfg.HeuristicWeight,
		MaxIterations:   15000,
	}

	world := sim.NewWorld(grid, zones, sim.Config{
		ReplanInterval: cfg.PBSReplanInterval,
		SpawnCooldown:  cfg.SpawnCooldownMinTicks,
		RobotCount:     cfg.RobotCount,
	}, plannerCfg, log)

	telemetrySrv := telemetry.NewServer(cfg.TelemetryAddr, world, log)
	go func() {
		if err := telemetrySrv.ListenAndServe(); err != nil {
			log.Error("telemetry server stopped", "error", err)
		}
	}()

	log.Info("starting simulation",
		"grid", fmt.Sprintf("%dx%d", cfg.GridWidth, cfg.GridHeight),
		"robot_count", cfg.RobotCount,
		"tick_rate_hz", cfg.TickRateHz,
		"gui", cfg.GUI,
		"telemetry_addr", cfg.TelemetryAddr,
	)

	if cfg.GUI {
		game := render.NewGame(world, grid, zones, cfg.TickRateHz, func() {
			telemetrySrv.NotifyTick()
		})
		return render.Run(game, "Warehouse Robot Coordination Simulator")
	}

	return runHeadless(world, telemetrySrv, cfg, log)
}

// runHeadless drives the tick loop without a GUI, the same fixed-step shape
// as the teacher's terminal mode loop in main.go.
func runHeadless(world *sim.World, telemetrySrv *telemetry.Server, cfg *config.Config, log *slog.Logger) error {
	delta := 1.0 / float64(cfg.TickRateHz)
	ticker := time.NewTicker(time.Duration(delta * float64(time.Second)))
	defer ticker.Stop()

	for range ticker.C {
		world.Step(delta)
		telemetrySrv.NotifyTick()
	}
	return nil
}
