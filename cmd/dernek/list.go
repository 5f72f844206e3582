package main

import (
	"fmt"

	"github.com/spf13/cobra"
	"github.com/ternarybob/dernek/internal/models"
)

var listCmd = &cobra.Command{
	Use:   "list [prefix]",
	Short: "List stored keys under a prefix",
	Long: `Lists every stored key under prefix + "." with its compact value.
Without a prefix all keys are listed. --match filters keys with a glob
where each "*" stays within one segment and "**" spans segments,
for example "content.*.heroTitle".`,
	Args: cobra.MaximumNArgs(1),
	RunE: runList,
}

var listMatch string

func init() {
	listCmd.Flags().StringVar(&listMatch, "match", "", "Glob over dotted keys")
}

func runList(cmd *cobra.Command, args []string) error {
	application, err := openApp()
	if err != nil {
		return err
	}
	defer application.Close()

	ctx := cmd.Context()

	var values models.Values
	switch {
	case listMatch != "":
		values, err = application.Settings.Match(ctx, listMatch)
		if err != nil {
			return err
		}
	case len(args) == 1:
		values = application.Settings.GetByPrefix(ctx, args[0])
	default:
		values = application.Settings.All(ctx)
	}

	for _, key := range values.Keys() {
		fmt.Fprintf(cmd.OutOrStdout(), "%s = %s\n", key, values[key])
	}
	return nil
}
