package main

import (
	"fmt"
	"os"
	"strconv"

	"github.com/sirupsen/logrus"
	"github.com/spf13/cobra"

	"github.com/ensigniasec/countdown/internal/config"
	"github.com/ensigniasec/countdown/internal/engine"
	"github.com/ensigniasec/countdown/internal/storage"
)

//nolint:gochecknoglobals // Cobra requires package-level vars for flag bindings in current structure.
var (
	// Version metadata populated at build time via -ldflags.
	releaseVersion = "dev"
	commit         = "none"
	date           = "unknown"

	// Used for flags.
	configFile  string
	stateFile   string
	verbose     bool
	historySize int

	rootCmd = &cobra.Command{
		Use:   "countdown",
		Short: "A terminal countdown timer with a configurable on-zero policy.",
		Long:  `Counts down from a configured duration, plays a tick every second and an alarm at zero, then stops, restarts, or keeps counting up as a stopwatch depending on the on-zero policy.`,
		PersistentPreRun: func(cmd *cobra.Command, args []string) {
			if verbose {
				logrus.SetLevel(logrus.DebugLevel)
			}
		},
	}
)

//nolint:gochecknoinits // Cobra command wiring performed in init in current structure.
func init() {
	// Route logs to stderr to avoid polluting stdout, especially for --plain output.
	logrus.SetOutput(os.Stderr)

	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "Enable detailed logging output")
	rootCmd.PersistentFlags().
		StringVar(&configFile, "config", config.DefaultPath, "Path to the settings file")
	rootCmd.PersistentFlags().
		StringVar(&stateFile, "state-file", storage.DefaultPath, "Path to the state and history file")

	registerRunFlags()
	rootCmd.AddCommand(runCmd)

	configCmd.AddCommand(configShowCmd)
	configCmd.AddCommand(configPathCmd)
	configCmd.AddCommand(configResetCmd)
	configCmd.AddCommand(configSetCmd)
	rootCmd.AddCommand(configCmd)

	historyCmd.Flags().IntVarP(&historySize, "number", "n", 10, "Number of completions to show (0 for all)")
	rootCmd.AddCommand(historyCmd)

	rootCmd.AddCommand(formatCmd)

	// Built-in version flag: set version string and a custom template.
	rootCmd.Version = releaseVersion
	rootCmd.Annotations = map[string]string{"commit": commit, "date": date}
	rootCmd.SetVersionTemplate("{{printf \"%s %s\\ncommit: %s\\ndate: %s\\n\" .DisplayName .Version (index .Annotations \"commit\") (index .Annotations \"date\")}}")
}

func Execute() {
	if err := rootCmd.Execute(); err != nil {
		logrus.Fatal(err)
	}
}

func main() {
	Execute()
}

// resolvedConfigPath expands --config or exits.
func resolvedConfigPath() string {
	path, err := config.ResolvePath(configFile)
	if err != nil {
		logrus.Fatal(err)
	}
	return path
}

// loadConfig reads the settings file or exits.
func loadConfig() (*config.Config, string) {
	path := resolvedConfigPath()
	cfg, err := config.Load(path)
	if err != nil {
		logrus.Fatalf("Unable to load config %s: %v", path, err)
	}
	return cfg, path
}

//nolint:gochecknoglobals // Cobra command is defined at package scope in current structure.
var configCmd = &cobra.Command{
	Use:   "config",
	Short: "Show or change the timer settings",
	Long:  "Show, locate, reset, or edit the YAML settings file used as the default for new timers.",
}

//nolint:gochecknoglobals // Cobra command is defined at package scope in current structure.
var configShowCmd = &cobra.Command{
	Use:   "show",
	Short: "Print the effective settings as YAML",
	Run: func(cmd *cobra.Command, args []string) {
		cfg, _ := loadConfig()
		out, err := cfg.YAML()
		if err != nil {
			logrus.Fatal(err)
		}
		fmt.Fprint(os.Stdout, out)
	},
}

//nolint:gochecknoglobals // Cobra command is defined at package scope in current structure.
var configPathCmd = &cobra.Command{
	Use:   "path",
	Short: "Print the settings file location",
	Run: func(cmd *cobra.Command, args []string) {
		path := resolvedConfigPath()
		if config.Exists(path) {
			fmt.Fprintln(os.Stdout, path)
			return
		}
		fmt.Fprintf(os.Stdout, "%s (not created yet)\n", path)
	},
}

//nolint:gochecknoglobals // Cobra command is defined at package scope in current structure.
var configResetCmd = &cobra.Command{
	Use:   "reset",
	Short: "Overwrite the settings file with the defaults",
	Run: func(cmd *cobra.Command, args []string) {
		path := resolvedConfigPath()
		if err := config.Save(path, config.Default()); err != nil {
			logrus.Fatal(err)
		}
		fmt.Fprintf(os.Stdout, "Settings reset in %s\n", path)
	},
}

//nolint:gochecknoglobals // Cobra command is defined at package scope in current structure.
var configSetCmd = &cobra.Command{
	Use:   "set [KEY] [VALUE]",
	Short: "Change one setting",
	Long:  "Change one setting by key: duration, duration.hours, duration.minutes, duration.seconds, onZero, sound.tick, sound.completion, sound.volume, notifications, buzzerDuration.",
	Args:  cobra.ExactArgs(2), //nolint:mnd // 'set' takes a key and a value by CLI contract
	Run: func(cmd *cobra.Command, args []string) {
		cfg, path := loadConfig()
		if err := cfg.Set(args[0], args[1]); err != nil {
			logrus.Fatal(err)
		}
		if err := config.Save(path, cfg); err != nil {
			logrus.Fatal(err)
		}
		fmt.Fprintf(os.Stdout, "%s set to %s\n", args[0], args[1])
	},
}

//nolint:gochecknoglobals // Cobra command is defined at package scope in current structure.
var historyCmd = &cobra.Command{
	Use:   "history",
	Short: "List recently completed timers",
	Run: func(cmd *cobra.Command, args []string) {
		st, err := storage.NewOrExistingStorage(stateFile)
		if err != nil {
			logrus.Fatalf("Unable to open or create state file: %v", err)
		}
		recent := st.Recent(historySize)
		if len(recent) == 0 {
			fmt.Fprintln(os.Stdout, "No completed timers yet")
			return
		}
		for _, c := range recent {
			fmt.Fprintf(os.Stdout, "%s  %8s  %s\n",
				c.FinishedAt.Local().Format("2006-01-02 15:04:05"),
				engine.FormatClock(c.TotalSeconds),
				c.Policy,
			)
		}
	},
}

//nolint:gochecknoglobals // Cobra command is defined at package scope in current structure.
var formatCmd = &cobra.Command{
	Use:   "format SECONDS...",
	Short: "Print seconds the way the timer displays them",
	Args:  cobra.MinimumNArgs(1),
	Run: func(cmd *cobra.Command, args []string) {
		for _, a := range args {
			n, err := strconv.Atoi(a)
			if err != nil {
				logrus.Fatalf("Invalid seconds value %q: expected an integer", a)
			}
			fmt.Fprintln(os.Stdout, engine.FormatClock(n))
		}
	},
}
