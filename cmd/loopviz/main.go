package main

import (
	"fmt"
	"io"
	"os"
	"time"

	"github.com/charmbracelet/lipgloss"
	"github.com/muesli/termenv"
	"github.com/rs/zerolog"
	"github.com/spf13/cobra"

	"github.com/san-kum/loopviz/internal/config"
	"github.com/san-kum/loopviz/internal/logging"
	"github.com/san-kum/loopviz/internal/scenario"
)

var (
	configFile    string
	dataDir       string
	scenariosFile string
	logFile       string
	logLevel      string
	noColor       bool

	// play and run
	interval  time.Duration
	theme     string
	autostart bool
	preset    string

	// verify and trace
	saveRuns bool
	maxTasks int

	cfg      = config.DefaultConfig()
	log      = zerolog.Nop()
	closeLog = func() error { return nil }
)

// main registers the loopviz commands. With no subcommand the interactive
// visualizer starts. It exits with status 1 when a command fails.
func main() {
	rootCmd := &cobra.Command{
		Use:               "loopviz",
		Short:             "step through the JavaScript event loop",
		SilenceUsage:      true,
		PersistentPreRunE: setup,
		PersistentPostRun: func(*cobra.Command, []string) { _ = closeLog() },
		RunE: func(cmd *cobra.Command, args []string) error {
			return runTUI(cmd, "")
		},
	}

	pf := rootCmd.PersistentFlags()
	pf.StringVar(&configFile, "config", "", "config file path (yaml)")
	pf.StringVar(&dataDir, "data", config.DefaultDataDir, "data directory for saved trace runs")
	pf.StringVar(&scenariosFile, "scenarios", "", "load scenarios from a yaml file instead of the built-in set")
	pf.StringVar(&logFile, "log-file", "", "write logs to this file")
	pf.StringVar(&logLevel, "log-level", config.DefaultLogLevel, "log level (debug, info, warn, error)")
	pf.BoolVar(&noColor, "no-color", false, "disable colors")

	addPlaybackFlags := func(cmd *cobra.Command) {
		cmd.Flags().DurationVar(&interval, "interval", config.DefaultInterval, "time between steps")
		cmd.Flags().StringVar(&theme, "theme", config.DefaultTheme, fmt.Sprintf("color theme %v", config.Themes))
		cmd.Flags().BoolVar(&autostart, "autostart", false, "start playback immediately")
		cmd.Flags().StringVar(&preset, "preset", "", "playback speed preset")
	}
	addPlaybackFlags(rootCmd)

	playCmd := &cobra.Command{
		Use:   "play [scenario]",
		Short: "open the visualizer on a scenario",
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			ref := ""
			if len(args) == 1 {
				ref = args[0]
			}
			return runTUI(cmd, ref)
		},
	}
	addPlaybackFlags(playCmd)

	listCmd := &cobra.Command{
		Use:   "list",
		Short: "list scenarios",
		Args:  cobra.NoArgs,
		RunE:  listScenarios,
	}

	showCmd := &cobra.Command{
		Use:   "show [scenario] [step]",
		Short: "print one step, or every step, as text",
		Args:  cobra.RangeArgs(1, 2),
		RunE:  showScenario,
	}

	runCmd := &cobra.Command{
		Use:   "run [scenario]",
		Short: "play a scenario on a timer, printing each step",
		Args:  cobra.ExactArgs(1),
		RunE:  runScenario,
	}
	runCmd.Flags().DurationVar(&interval, "interval", config.DefaultInterval, "time between steps")
	runCmd.Flags().StringVar(&preset, "preset", "", "playback speed preset")

	verifyCmd := &cobra.Command{
		Use:   "verify [scenario...]",
		Short: "check authored output against a traced run",
		RunE:  verifyScenarios,
	}
	verifyCmd.Flags().BoolVar(&saveRuns, "save", false, "store each trace run in the data directory")
	verifyCmd.Flags().IntVar(&maxTasks, "max-tasks", 0, "macrotask budget per run (0 = default)")

	traceCmd := &cobra.Command{
		Use:   "trace [scenario]",
		Short: "print the event log of a traced run",
		Args:  cobra.ExactArgs(1),
		RunE:  traceScenario,
	}
	traceCmd.Flags().IntVar(&maxTasks, "max-tasks", 0, "macrotask budget (0 = default)")

	runsCmd := &cobra.Command{
		Use:   "runs",
		Short: "list saved trace runs",
		Args:  cobra.NoArgs,
		RunE:  listRuns,
	}

	statsCmd := &cobra.Command{
		Use:   "stats [scenario]",
		Short: "scenario metrics",
		Args:  cobra.ExactArgs(1),
		RunE:  showStats,
	}

	chartCmd := &cobra.Command{
		Use:   "chart [scenario]",
		Short: "plot region depths per step",
		Args:  cobra.ExactArgs(1),
		RunE:  chartScenario,
	}

	exportJSONCmd := &cobra.Command{
		Use:   "export-json [scenario]",
		Short: "export a scenario as json",
		Args:  cobra.ExactArgs(1),
		RunE:  exportJSON,
	}

	exportCSVCmd := &cobra.Command{
		Use:   "export-csv [scenario]",
		Short: "export per-step region depths as csv",
		Args:  cobra.ExactArgs(1),
		RunE:  exportCSV,
	}

	presetsCmd := &cobra.Command{
		Use:   "presets",
		Short: "list playback speed presets",
		Args:  cobra.NoArgs,
		RunE:  listPresets,
	}

	rootCmd.AddCommand(playCmd, listCmd, showCmd, runCmd, verifyCmd, traceCmd, runsCmd, statsCmd, chartCmd, exportJSONCmd, exportCSVCmd, presetsCmd)

	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}

// setup resolves configuration in order: defaults, config file, preset,
// then explicitly set flags.
func setup(cmd *cobra.Command, args []string) error {
	if configFile != "" {
		loaded, err := config.Load(configFile)
		if err != nil {
			return fmt.Errorf("failed to load config: %w", err)
		}
		cfg = loaded
	}

	flags := cmd.Flags()
	if preset != "" {
		p, ok := config.GetPreset(preset)
		if !ok {
			return fmt.Errorf("unknown preset: %s (available: %v)", preset, config.ListPresets())
		}
		p.Apply(cfg)
	}
	if flags.Changed("interval") {
		cfg.Interval = interval
	}
	if flags.Changed("theme") {
		cfg.Theme = theme
	}
	if flags.Changed("autostart") {
		cfg.Autostart = autostart
	}
	if flags.Changed("data") {
		cfg.DataDir = dataDir
	}
	if flags.Changed("scenarios") {
		cfg.ScenariosFile = scenariosFile
	}
	if flags.Changed("log-level") {
		cfg.Log.Level = logLevel
	}
	if flags.Changed("log-file") {
		cfg.Log.File = logFile
	}
	if err := cfg.Validate(); err != nil {
		return err
	}

	if noColor {
		lipgloss.SetColorProfile(termenv.Ascii)
	}

	// The TUI owns the terminal, so it only logs to a file.
	var console io.Writer = os.Stderr
	if isTUI(cmd) {
		console = nil
	}
	l, closer, err := logging.New(logging.Options{
		Level:   cfg.Log.Level,
		File:    cfg.Log.File,
		Console: console,
		NoColor: noColor,
	})
	if err != nil {
		return err
	}
	log, closeLog = l.With().Str("cmd", cmd.Name()).Logger(), closer
	return nil
}

func isTUI(cmd *cobra.Command) bool {
	return cmd.Name() == "play" || !cmd.HasParent()
}

func loadStore() (*scenario.Store, error) {
	if cfg.ScenariosFile != "" {
		return scenario.LoadFile(cfg.ScenariosFile)
	}
	return scenario.Default()
}

func lookup(ref string) (*scenario.Store, int, scenario.Scenario, error) {
	store, err := loadStore()
	if err != nil {
		return nil, 0, scenario.Scenario{}, err
	}
	idx, sc, err := store.Lookup(ref)
	if err != nil {
		return nil, 0, scenario.Scenario{}, fmt.Errorf("%w (available: %v)", err, store.Names())
	}
	return store, idx, sc, nil
}
