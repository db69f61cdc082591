package main

import (
	"errors"
	"fmt"
	"os"

	"github.com/spf13/cobra"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"

	"scenevalidator/internal/config"
	"scenevalidator/internal/logging"
)

const version = "1.0.0"

var (
	// Global flags
	cfgFile   string
	verbose   bool
	apiKey    string
	rulesFile string

	// Loaded configuration, available to all commands after PersistentPreRunE
	cfg *config.Config

	// Logger
	logger *zap.Logger
)

// errValidationFailed marks a run whose scene(s) failed validation, as
// opposed to a usage or input error. main translates it into exit code 1.
var errValidationFailed = errors.New("validation failed")

// rootCmd represents the base command
var rootCmd = &cobra.Command{
	Use:   "scenevalidator",
	Short: "Validate scene structure and composition in media production",
	Long: `SceneValidator checks media-production scene descriptions for
technical compliance, required metadata, composition guidelines, and
cross-scene continuity.

Scenes are JSON documents read from local disk or Google Cloud Storage.
Continuity between a scene and its predecessors is analyzed with the
Gemini API; rule sets for technical fields are supplied as JSON files.

Exit codes: 0 = scene valid (warnings allowed), 1 = scene invalid,
2 = usage or input error.`,
	SilenceUsage:  true,
	SilenceErrors: true,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		// Initialize logger
		zapCfg := zap.NewProductionConfig()
		if verbose {
			zapCfg.Level = zap.NewAtomicLevelAt(zapcore.DebugLevel)
		}
		var err error
		logger, err = zapCfg.Build()
		if err != nil {
			return fmt.Errorf("failed to initialize logger: %w", err)
		}

		cfg, err = config.Load(cfgFile)
		if err != nil {
			return err
		}
		if apiKey != "" {
			cfg.LLM.APIKey = apiKey
		}
		if rulesFile != "" {
			cfg.Rules.Path = rulesFile
		}

		if err := logging.Initialize(".", logging.Config{
			DebugMode:  cfg.Logging.DebugMode,
			Level:      cfg.Logging.Level,
			Categories: cfg.Logging.Categories,
		}); err != nil {
			logger.Warn("file logging disabled", zap.Error(err))
		}
		return nil
	},
	PersistentPostRun: func(cmd *cobra.Command, args []string) {
		logging.CloseAll()
		if logger != nil {
			_ = logger.Sync()
		}
	},
}

// versionCmd prints the tool version
var versionCmd = &cobra.Command{
	Use:   "version",
	Short: "Print the SceneValidator version",
	Run: func(cmd *cobra.Command, args []string) {
		fmt.Printf("scenevalidator %s\n", version)
	},
}

func init() {
	rootCmd.PersistentFlags().StringVar(&cfgFile, "config", "", "config file (default ~/.scenevalidator.yaml)")
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "enable debug logging")
	rootCmd.PersistentFlags().StringVar(&apiKey, "api-key", "", "Gemini API key (or set GEMINI_API_KEY)")
	rootCmd.PersistentFlags().StringVar(&rulesFile, "rules-file", "", "path to validation rules JSON file")

	rootCmd.AddCommand(validateCmd)
	rootCmd.AddCommand(batchCmd)
	rootCmd.AddCommand(watchCmd)
	rootCmd.AddCommand(rulesCmd)
	rootCmd.AddCommand(historyCmd)
	rootCmd.AddCommand(versionCmd)
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		if errors.Is(err, errValidationFailed) {
			os.Exit(1)
		}
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(2)
	}
}
