package main

import (
	"fmt"
	"strings"
	"text/tabwriter"

	"github.com/spf13/cobra"
	"github.com/ternarybob/dernek/internal/models"
)

var schemaCmd = &cobra.Command{
	Use:   "schema [page]",
	Short: "Describe the editable pages and their fields",
	Args:  cobra.MaximumNArgs(1),
	RunE:  runSchema,
}

func runSchema(cmd *cobra.Command, args []string) error {
	application, err := openApp()
	if err != nil {
		return err
	}
	defer application.Close()

	w := tabwriter.NewWriter(cmd.OutOrStdout(), 0, 2, 2, ' ', 0)

	if len(args) == 0 {
		fmt.Fprintln(w, "PAGE\tPREFIX\tFIELDS\tTITLE")
		for _, page := range application.Registry.Pages() {
			fmt.Fprintf(w, "%s\t%s\t%d\t%s\n", page.ID, page.Prefix, len(page.Fields), page.Title)
		}
		return w.Flush()
	}

	page, err := application.Registry.Page(args[0])
	if err != nil {
		return err
	}

	fmt.Fprintf(cmd.OutOrStdout(), "%s (%s)\n\n", page.Title, page.Prefix)
	fmt.Fprintln(w, "FIELD\tTYPE\tREQUIRED\tRULES\tLABEL")
	for _, field := range page.Fields {
		fmt.Fprintf(w, "%s\t%s\t%t\t%s\t%s\n", field.Key, field.Type, field.Required, describeRules(field), field.Label)
	}
	if err := w.Flush(); err != nil {
		return err
	}

	for _, field := range page.Fields {
		if field.ExampleFormat == "" {
			continue
		}
		fmt.Fprintf(cmd.OutOrStdout(), "\n%s example:\n  %s\n", field.Key, field.ExampleFormat)
		if sub := field.RequiredSubFields(); len(sub) > 0 {
			fmt.Fprintf(cmd.OutOrStdout(), "  required per item: %s\n", strings.Join(sub, ", "))
		}
	}
	return nil
}

func describeRules(field models.FieldSchema) string {
	if len(field.Rules) == 0 {
		return "-"
	}
	parts := make([]string, 0, len(field.Rules))
	for _, rule := range field.Rules {
		switch rule.Kind {
		case models.RuleMinLength, models.RuleMaxLength:
			parts = append(parts, fmt.Sprintf("%s=%d", rule.Kind, rule.Length))
		case models.RulePattern:
			parts = append(parts, fmt.Sprintf("pattern=%s", rule.Pattern))
		case models.RuleCustom:
			if rule.Expr != "" {
				parts = append(parts, fmt.Sprintf("custom=%q", rule.Expr))
			} else {
				parts = append(parts, "custom")
			}
		default:
			parts = append(parts, string(rule.Kind))
		}
	}
	return strings.Join(parts, ", ")
}
