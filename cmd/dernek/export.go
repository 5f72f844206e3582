package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
	"github.com/ternarybob/dernek/internal/services/content"
)

var exportCmd = &cobra.Command{
	Use:   "export [prefix]",
	Short: "Export stored keys as a nested content document",
	Long: `Rebuilds a nested document from the stored keys. The output can be
used as a content file for a later seed.`,
	Args: cobra.MaximumNArgs(1),
	RunE: runExport,
}

var (
	exportFormat string
	exportOutput string
)

func init() {
	exportCmd.Flags().StringVar(&exportFormat, "format", "toml", "Output format: toml, yaml or json")
	exportCmd.Flags().StringVarP(&exportOutput, "output", "o", "", "Write to a file instead of stdout")
}

func runExport(cmd *cobra.Command, args []string) error {
	format, err := content.ParseFormat(exportFormat)
	if err != nil {
		return err
	}

	application, err := openApp()
	if err != nil {
		return err
	}
	defer application.Close()

	prefix := ""
	if len(args) == 1 {
		prefix = args[0]
	}

	document, err := content.Export(cmd.Context(), application.Settings, prefix)
	if err != nil {
		return err
	}

	data, err := content.Encode(document, format)
	if err != nil {
		return err
	}

	if exportOutput == "" {
		_, err = cmd.OutOrStdout().Write(data)
		return err
	}
	if err := os.WriteFile(exportOutput, data, 0o644); err != nil {
		return fmt.Errorf("failed to write %s: %w", exportOutput, err)
	}
	logger.Info().Str("path", exportOutput).Str("format", string(format)).Msg("Content exported")
	return nil
}
