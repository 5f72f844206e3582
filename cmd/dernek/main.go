// -----------------------------------------------------------------------
// Last Modified: Monday, 19th October 2026 10:40:00 am
// Modified By: Bob McAllan
// -----------------------------------------------------------------------

package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
	"github.com/ternarybob/arbor"
	"github.com/ternarybob/dernek/internal/app"
	"github.com/ternarybob/dernek/internal/common"
)

var (
	// Persistent flags
	configFiles []string // Multiple --config flags supported
	storageType string
	logLevel    string
	contentFile string

	// Global state
	config *common.Config
	logger arbor.ILogger
)

var rootCmd = &cobra.Command{
	Use:   "dernek",
	Short: "Manage the settings and content of the association website",
	Long: `Dernek stores site settings and page content as dotted keys.
It seeds the default content, validates edits against the page schemas
and keeps hidden identifiers intact when structured values are edited.`,
	SilenceUsage:      true,
	PersistentPreRunE: loadConfiguration,
}

// loadConfiguration runs the startup sequence (REQUIRED ORDER):
// 1. Load .env files into the environment
// 2. Load config (defaults -> file1 -> file2 -> ... -> env)
// 3. Apply CLI overrides (highest priority)
// 4. Initialize logger
func loadConfiguration(cmd *cobra.Command, args []string) error {
	if err := common.LoadEnvFiles(); err != nil {
		return err
	}

	// Auto-discover config file if not specified
	if len(configFiles) == 0 {
		if _, err := os.Stat("dernek.toml"); err == nil {
			configFiles = append(configFiles, "dernek.toml")
		} else if _, err := os.Stat("deployments/local/dernek.toml"); err == nil {
			configFiles = append(configFiles, "deployments/local/dernek.toml")
		}
	}

	var err error
	config, err = common.LoadFromFiles(configFiles...)
	if err != nil {
		return fmt.Errorf("failed to load configuration %v: %w", configFiles, err)
	}

	common.ApplyFlagOverrides(config, storageType, logLevel, contentFile)
	if err := config.Validate(); err != nil {
		return fmt.Errorf("invalid configuration: %w", err)
	}

	common.InstallCrashHandler(config.Logging.Dir)
	logger = common.SetupLogger(config)

	logger.Debug().
		Strs("config_files", configFiles).
		Str("storage_type", config.Storage.Type).
		Str("content_file", config.Content.File).
		Str("log_level", config.Logging.Level).
		Msg("Resolved configuration")

	return nil
}

// openApp initializes the application for one command
func openApp() (*app.App, error) {
	application, err := app.New(config, logger)
	if err != nil {
		return nil, fmt.Errorf("failed to initialize application: %w", err)
	}
	return application, nil
}

func init() {
	rootCmd.PersistentFlags().StringArrayVarP(&configFiles, "config", "c", nil, "Configuration file path (can be specified multiple times, later files override earlier ones)")
	rootCmd.PersistentFlags().StringVar(&storageType, "storage", "", "Storage backend: badger or postgres (overrides config)")
	rootCmd.PersistentFlags().StringVar(&logLevel, "log-level", "", "Log level (overrides config)")
	rootCmd.PersistentFlags().StringVar(&contentFile, "content", "", "Default content document (overrides config)")

	rootCmd.AddCommand(
		seedCmd,
		getCmd,
		listCmd,
		resolveCmd,
		schemaCmd,
		editCmd,
		exportCmd,
		renderCmd,
		daemonCmd,
		versionCmd,
	)
}

func main() {
	// Write a crash report for any panic that reaches main
	defer common.RecoverWithCrashFile()

	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}
