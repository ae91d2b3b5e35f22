package main

import (
	"fmt"
	"os"
	"runtime/debug"
	"strings"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"

	"github.com/rendago/fixedincome/internal/calculation"
	"github.com/rendago/fixedincome/internal/config"
	"github.com/rendago/fixedincome/internal/output"
)

var (
	version = "dev"
	commit  = "none"
	date    = "unknown"
)

var rootCmd = &cobra.Command{
	Use:   "fisim",
	Short: "Fixed-income scenario simulator",
	Long:  "Projects fixed-income savings products under alternative policy-rate and inflation trajectories and ranks them by after-cost, after-tax final value.",
}

var simulateCmd = &cobra.Command{
	Use:   "simulate",
	Short: "Run every product against every scenario and report ranked results",
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, err := loadConfig(viper.GetString("config"))
		if err != nil {
			return err
		}
		applyOverrides(cfg)

		parser := config.NewInputParser()
		if err := parser.ValidateConfiguration(cfg); err != nil {
			return fmt.Errorf("configuration validation failed: %w", err)
		}

		logger, err := initializeLogger(cfg.Logging, viper.GetString("log-level"))
		if err != nil {
			return err
		}
		defer func() { _ = logger.Sync() }()

		params, err := cfg.Parameters()
		if err != nil {
			return err
		}
		defs, err := cfg.Definitions()
		if err != nil {
			return err
		}
		rules, err := cfg.ProductRules()
		if err != nil {
			return err
		}
		granularity, err := cfg.Granularity()
		if err != nil {
			return err
		}
		taxPolicy, err := cfg.TaxPolicy()
		if err != nil {
			return err
		}

		engine := calculation.NewEngine()
		engine.SetLogger(logger.Sugar())

		report, err := engine.RunAll(defs, rules, params, granularity, taxPolicy)
		if err != nil {
			return fmt.Errorf("simulation failed: %w", err)
		}

		formatName := viper.GetString("format")
		formatter := output.GetFormatterByName(formatName)
		if formatter == nil {
			return fmt.Errorf("unknown output format %q (available: %s)", formatName, strings.Join(output.FormatterNames(), ", "))
		}

		if formatter.Name() == "console" {
			data, err := formatter.Format(report)
			if err != nil {
				return err
			}
			fmt.Fprintln(os.Stdout, string(data))
			return nil
		}

		filename, err := output.WriteFormatted(formatter, report, viper.GetString("output-dir"))
		if err != nil {
			return fmt.Errorf("writing %s report: %w", formatter.Name(), err)
		}
		logger.Sugar().Infof("report written to %s", filename)
		fmt.Fprintf(os.Stdout, "Report written to %s\n", filename)
		return nil
	},
}

var validateCmd = &cobra.Command{
	Use:   "validate [input-file]",
	Short: "Validate a configuration file without running the simulation",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		parser := config.NewInputParser()
		if _, err := parser.LoadFromFile(args[0]); err != nil {
			return err
		}
		fmt.Fprintf(os.Stdout, "Configuration %s is valid.\n", args[0])
		return nil
	},
}

func versionCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "version",
		Short: "Print version information",
		Run: func(cmd *cobra.Command, args []string) {
			fmt.Fprintf(os.Stdout, "fisim %s (commit %s, built %s)\n", version, commit, date)
			if bi, ok := debug.ReadBuildInfo(); ok && bi != nil {
				fmt.Fprintln(os.Stdout, bi.Main.Path)
			}
		},
	}
}

// loadConfig reads the YAML file when given, otherwise falls back to the
// built-in default configuration.
func loadConfig(path string) (*config.SimulationConfig, error) {
	if path == "" {
		return config.DefaultConfig(), nil
	}
	return config.NewInputParser().LoadFromFile(path)
}

// applyOverrides folds flag/env overrides (bound through viper) into the
// loaded configuration before re-validation.
func applyOverrides(cfg *config.SimulationConfig) {
	if v := viper.GetFloat64("initial"); v > 0 {
		cfg.Simulation.InitialCapital = v
	}
	if v := viper.GetString("granularity"); v != "" {
		cfg.Simulation.Granularity = v
	}
	if v := viper.GetString("tax-policy"); v != "" {
		cfg.Simulation.TaxPolicy = v
	}
}

// initializeLogger creates a zap logger from configuration plus a CLI
// override for the level.
func initializeLogger(loggingConfig config.LoggingConfig, logLevelOverride string) (*zap.Logger, error) {
	level := loggingConfig.Level
	if logLevelOverride != "" {
		level = logLevelOverride
	}
	if level == "" {
		level = "info"
	}

	var zapLevel zapcore.Level
	switch level {
	case "debug":
		zapLevel = zapcore.DebugLevel
	case "info":
		zapLevel = zapcore.InfoLevel
	case "warn", "warning":
		zapLevel = zapcore.WarnLevel
	case "error":
		zapLevel = zapcore.ErrorLevel
	default:
		return nil, fmt.Errorf("invalid log level: %s", level)
	}

	format := loggingConfig.Format
	if format == "" {
		format = "console"
	}

	var zapCfg zap.Config
	switch format {
	case "console":
		zapCfg = zap.NewDevelopmentConfig()
	case "json":
		zapCfg = zap.NewProductionConfig()
	default:
		return nil, fmt.Errorf("invalid log format: %s", format)
	}
	zapCfg.Level = zap.NewAtomicLevelAt(zapLevel)

	return zapCfg.Build()
}

func init() {
	simulateCmd.Flags().String("config", "", "path to the YAML configuration file (built-in defaults when omitted)")
	simulateCmd.Flags().String("format", "console", "output format: "+strings.Join(output.FormatterNames(), ", "))
	simulateCmd.Flags().String("output-dir", "", "directory for file-based reports")
	simulateCmd.Flags().Float64("initial", 0, "override the initial capital")
	simulateCmd.Flags().String("granularity", "", "override the simulation granularity (monthly or daily)")
	simulateCmd.Flags().String("tax-policy", "", "override the tax policy (flat or regressive)")
	simulateCmd.Flags().String("log-level", "", "log level override (debug, info, warn, error)")

	viper.SetEnvPrefix("FISIM")
	viper.SetEnvKeyReplacer(strings.NewReplacer("-", "_"))
	viper.AutomaticEnv()
	if err := viper.BindPFlags(simulateCmd.Flags()); err != nil {
		fmt.Fprintf(os.Stderr, "Error binding flags: %v\n", err)
		os.Exit(1)
	}

	rootCmd.AddCommand(simulateCmd)
	rootCmd.AddCommand(validateCmd)
	rootCmd.AddCommand(versionCmd())
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}
