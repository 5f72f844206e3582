package main

import (
	"fmt"
	"text/tabwriter"

	"github.com/spf13/cobra"
	"github.com/ternarybob/dernek/internal/services/settings"
)

var resolveCmd = &cobra.Command{
	Use:   "resolve <page>",
	Short: "Print the effective value of every field on a page",
	Long: `Reads a page's keys in one prefix query and resolves each field,
falling back to the field default when nothing is stored.`,
	Args: cobra.ExactArgs(1),
	RunE: runResolve,
}

func runResolve(cmd *cobra.Command, args []string) error {
	application, err := openApp()
	if err != nil {
		return err
	}
	defer application.Close()

	page, err := application.Registry.Page(args[0])
	if err != nil {
		return err
	}

	values := application.Settings.GetByPrefix(cmd.Context(), page.Prefix)

	w := tabwriter.NewWriter(cmd.OutOrStdout(), 0, 2, 2, ' ', 0)
	fmt.Fprintln(w, "FIELD\tSOURCE\tVALUE")
	for _, field := range page.Fields {
		key := page.SettingKey(field.Key)
		value := settings.Resolve(values, key, field.Default)
		source := "default"
		if stored, ok := values[key]; ok && stored.Equal(value) {
			source = "stored"
		}
		fmt.Fprintf(w, "%s\t%s\t%s\n", field.Key, source, value)
	}
	return w.Flush()
}
