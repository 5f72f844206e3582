package main

import (
	"fmt"

	"github.com/spf13/cobra"
	"github.com/ternarybob/dernek/internal/models"
	"github.com/ternarybob/dernek/internal/services/render"
)

var renderCmd = &cobra.Command{
	Use:   "render <key>",
	Short: "Render a text value as HTML",
	Long: `Renders the markdown of a text value, or a bullet list for a string list.
The field default is used when nothing is stored at the key.
References such as {site.name} are replaced with the stored or default value.`,
	Args: cobra.ExactArgs(1),
	RunE: runRender,
}

func runRender(cmd *cobra.Command, args []string) error {
	application, err := openApp()
	if err != nil {
		return err
	}
	defer application.Close()

	key := args[0]
	value, ok := application.Settings.Get(cmd.Context(), key)
	if !ok {
		_, field, known := application.Registry.Lookup(key)
		if !known {
			return fmt.Errorf("%s: not set", key)
		}
		value = field.Default
	}

	refs := make(models.Values, len(application.Defaults))
	for k, v := range application.Defaults {
		refs[k] = v
	}
	for k, v := range application.Settings.All(cmd.Context()) {
		refs[k] = v
	}

	html, err := application.Renderer.ValueWithReferences(value, render.TextValues(refs))
	if err != nil {
		return fmt.Errorf("%s: %w", key, err)
	}
	fmt.Fprintln(cmd.OutOrStdout(), html)
	return nil
}
