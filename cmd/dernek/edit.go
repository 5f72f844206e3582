package main

import (
	"errors"
	"fmt"
	"io"
	"os"

	"github.com/spf13/cobra"
	"github.com/ternarybob/dernek/internal/services/editor"
)

var editCmd = &cobra.Command{
	Use:   "edit <page> <field>",
	Short: "Edit a field as structured text",
	Long: `Reads the edited value as JSON or YAML from --file or stdin, validates it
against the field schema and commits it. Identifiers and other hidden
sub-fields of list items are restored from the stored value, so the text
only needs the visible fields. --show prints the editable text instead,
--reset commits the field default.`,
	Args: cobra.ExactArgs(2),
	RunE: runEdit,
}

var (
	editFile   string
	editFormat string
	editReset  bool
	editShow   bool
	editDryRun bool
)

func init() {
	editCmd.Flags().StringVarP(&editFile, "file", "f", "", "Read the edited value from a file instead of stdin")
	editCmd.Flags().StringVar(&editFormat, "format", "", "Edit format: json or yaml (overrides config)")
	editCmd.Flags().BoolVar(&editReset, "reset", false, "Replace the value with the field default")
	editCmd.Flags().BoolVar(&editShow, "show", false, "Print the editable text of the current value")
	editCmd.Flags().BoolVar(&editDryRun, "dry-run", false, "Validate and print the merged value without storing it")
}

func runEdit(cmd *cobra.Command, args []string) error {
	if editFormat != "" {
		config.Editor.Format = editFormat
	}

	application, err := openApp()
	if err != nil {
		return err
	}
	defer application.Close()

	ctx := cmd.Context()
	pageID, fieldKey := args[0], args[1]
	out := cmd.OutOrStdout()

	if editShow {
		session, err := application.Editor.Open(ctx, pageID, fieldKey)
		if err != nil {
			return err
		}
		fmt.Fprintln(out, session.Result().DisplayText)
		return nil
	}

	var result editor.Result
	if editReset {
		result, err = application.Editor.ResetToDefault(ctx, pageID, fieldKey, editDryRun)
	} else {
		text, readErr := readEditText(cmd.InOrStdin())
		if readErr != nil {
			return readErr
		}
		result, err = application.Editor.Apply(ctx, pageID, fieldKey, text, editDryRun)
	}
	if err != nil {
		return err
	}

	if !result.Valid {
		for _, msg := range result.Errors {
			fmt.Fprintln(cmd.ErrOrStderr(), "- "+msg)
		}
		return errors.New("value was not saved")
	}

	format, err := editor.ParseFormat(config.Editor.Format)
	if err != nil {
		return err
	}
	text, err := editor.Render(*result.Committed, format)
	if err != nil {
		return err
	}
	fmt.Fprintln(out, text)

	if editDryRun {
		fmt.Fprintln(cmd.ErrOrStderr(), "dry run: nothing stored")
	}
	return nil
}

func readEditText(stdin io.Reader) (string, error) {
	if editFile != "" {
		data, err := os.ReadFile(editFile)
		if err != nil {
			return "", fmt.Errorf("failed to read %s: %w", editFile, err)
		}
		return string(data), nil
	}
	data, err := io.ReadAll(stdin)
	if err != nil {
		return "", fmt.Errorf("failed to read stdin: %w", err)
	}
	return string(data), nil
}
