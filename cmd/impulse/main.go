package main

import (
	"fmt"
	"os"
	"text/tabwriter"
	"time"

	"github.com/akmonengine/impulse"
	"github.com/akmonengine/impulse/config"
	"github.com/akmonengine/impulse/internal/logging"
	"github.com/akmonengine/impulse/internal/scenario"
	"github.com/charmbracelet/lipgloss"
	"github.com/guptarohit/asciigraph"
	"github.com/pkg/errors"
	"github.com/spf13/cobra"
	"go.uber.org/zap"
)

var (
	steps      int
	dt         float64
	configFile string
	logLevel   string
	workers    int
	plot       bool
)

var (
	titleStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("86")).Bold(true).MarginBottom(1)
	labelStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("245")).Width(14)
	valueStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("252"))
	graphStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("49")).Padding(1, 0)
)

func main() {
	rootCmd := &cobra.Command{
		Use:           "impulse",
		Short:         "rigid body physics scenarios",
		SilenceUsage:  true,
		SilenceErrors: true,
	}

	runCmd := &cobra.Command{
		Use:   "run [scenario]",
		Short: "simulate a scenario",
		Args:  cobra.ExactArgs(1),
		RunE:  runScenario,
	}
	runCmd.Flags().IntVar(&steps, "steps", 300, "number of steps")
	runCmd.Flags().Float64Var(&dt, "dt", 0, "timestep, defaults to the config timestep")
	runCmd.Flags().StringVar(&configFile, "config", "", "config file path (yaml)")
	runCmd.Flags().StringVar(&logLevel, "log-level", "", "log level, overrides the config")
	runCmd.Flags().IntVar(&workers, "workers", 0, "narrow phase workers, overrides the config")
	runCmd.Flags().BoolVar(&plot, "plot", false, "plot the height of the followed body")

	scenariosCmd := &cobra.Command{
		Use:   "scenarios",
		Short: "list scenarios",
		RunE:  listScenarios,
	}

	configCmd := &cobra.Command{
		Use:   "config",
		Short: "manage config files",
	}
	configCmd.AddCommand(&cobra.Command{
		Use:   "init [file]",
		Short: "write the default config",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			if err := config.Save(args[0], config.DefaultConfig()); err != nil {
				return err
			}
			fmt.Printf("config written to %s\n", args[0])
			return nil
		},
	})

	rootCmd.AddCommand(runCmd, scenariosCmd, configCmd)

	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, "error:", err)
		os.Exit(1)
	}
}

func loadConfig() (*config.Config, error) {
	cfg := config.DefaultConfig()
	if configFile != "" {
		loaded, err := config.Load(configFile)
		if err != nil {
			return nil, err
		}
		cfg = loaded
	}

	if logLevel != "" {
		cfg.LogLevel = logLevel
	}
	if workers > 0 {
		cfg.Workers = workers
	}
	if dt > 0 {
		cfg.Timestep = dt
	}

	if err := cfg.Validate(); err != nil {
		return nil, errors.Wrap(err, "invalid flags")
	}
	return cfg, nil
}

func runScenario(cmd *cobra.Command, args []string) error {
	if steps <= 0 {
		return errors.Errorf("steps must be positive, got %d", steps)
	}

	cfg, err := loadConfig()
	if err != nil {
		return err
	}

	logger, err := logging.New(cfg.LogLevel)
	if err != nil {
		return err
	}
	defer func() { _ = logger.Sync() }()

	w, tracked, err := scenario.Build(args[0], impulse.WithConfig(cfg), impulse.WithLogger(logger))
	if err != nil {
		return err
	}

	var enters, exits int
	w.Events.Subscribe(impulse.COLLISION_ENTER, func(event impulse.Event) { enters++ })
	w.Events.Subscribe(impulse.COLLISION_EXIT, func(event impulse.Event) { exits++ })

	logger.Info("scenario started",
		zap.String("scenario", args[0]),
		zap.Int("bodies", len(w.Bodies())),
		zap.Int("steps", steps),
		zap.Float64("dt", cfg.Timestep),
	)

	heights := make([]float64, 0, steps)
	start := time.Now()
	for i := 0; i < steps; i++ {
		w.Simulate(cfg.Timestep)
		heights = append(heights, tracked.Frame().Position.Z())
	}
	elapsed := time.Since(start)

	logger.Info("scenario finished", zap.String("scenario", args[0]), zap.Duration("elapsed", elapsed))

	frame := tracked.Frame()
	rows := [][2]string{
		{"scenario", args[0]},
		{"bodies", fmt.Sprintf("%d", len(w.Bodies()))},
		{"simulated", fmt.Sprintf("%.2fs", float64(steps)*cfg.Timestep)},
		{"wall time", elapsed.Round(time.Microsecond).String()},
		{"position", fmt.Sprintf("(%.3f, %.3f, %.3f)", frame.Position.X(), frame.Position.Y(), frame.Position.Z())},
		{"velocity", fmt.Sprintf("%.3f m/s", tracked.Velocity.Len())},
		{"contacts", fmt.Sprintf("%d enter, %d exit", enters, exits)},
	}

	fmt.Println(titleStyle.Render(fmt.Sprintf("impulse · %s", args[0])))
	for _, row := range rows {
		fmt.Println(labelStyle.Render(row[0]) + valueStyle.Render(row[1]))
	}

	if plot {
		graph := asciigraph.Plot(heights,
			asciigraph.Height(10),
			asciigraph.Width(80),
			asciigraph.Caption(fmt.Sprintf("height of %v", tracked.Data)),
		)
		fmt.Println(graphStyle.Render(graph))
	}

	return nil
}

func listScenarios(cmd *cobra.Command, args []string) error {
	tw := tabwriter.NewWriter(os.Stdout, 0, 0, 2, ' ', 0)
	fmt.Fprintln(tw, "NAME\tDESCRIPTION")
	for _, name := range scenario.Names() {
		s, err := scenario.Get(name)
		if err != nil {
			return err
		}
		fmt.Fprintf(tw, "%s\t%s\n", s.Name, s.Description)
	}
	return tw.Flush()
}
