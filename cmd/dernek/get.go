package main

import (
	"errors"
	"fmt"
	"time"

	"github.com/spf13/cobra"
	"github.com/ternarybob/dernek/internal/interfaces"
	"github.com/ternarybob/dernek/internal/services/editor"
)

var getCmd = &cobra.Command{
	Use:   "get <key>",
	Short: "Print the value stored at a key",
	Args:  cobra.ExactArgs(1),
	RunE:  runGet,
}

var getMeta bool

func init() {
	getCmd.Flags().BoolVar(&getMeta, "meta", false, "Also print when and by whom the value was last modified")
}

func runGet(cmd *cobra.Command, args []string) error {
	application, err := openApp()
	if err != nil {
		return err
	}
	defer application.Close()

	setting, err := application.Settings.Setting(cmd.Context(), args[0])
	if errors.Is(err, interfaces.ErrKeyNotFound) {
		return fmt.Errorf("%s: not set", args[0])
	}
	if err != nil {
		return err
	}

	text, err := editor.Render(setting.Value, editor.FormatJSON)
	if err != nil {
		return err
	}
	fmt.Fprintln(cmd.OutOrStdout(), text)

	if getMeta {
		by := setting.Actor()
		if by == "" {
			by = "system"
		}
		fmt.Fprintf(cmd.OutOrStdout(), "# modified %s by %s\n", setting.LastModifiedAt.Format(time.RFC3339), by)
	}
	return nil
}
