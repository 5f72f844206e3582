package main

import (
	"fmt"
	"text/tabwriter"

	"github.com/spf13/cobra"
)

var seedCmd = &cobra.Command{
	Use:   "seed [group...]",
	Short: "Write the default content into the store",
	Long: `Seeds the default content document into the settings store.
Missing keys are created. Existing keys are kept unless --overwrite is given.
Groups are the top-level sections (site, contact, social, seo) and the
content pages (content.home, content.about, ...). No groups seeds everything.`,
	RunE: runSeed,
}

var (
	seedOverwrite bool
	seedActor     string
)

func init() {
	seedCmd.Flags().BoolVar(&seedOverwrite, "overwrite", false, "Replace values that already exist")
	seedCmd.Flags().StringVar(&seedActor, "actor", "", "Actor recorded on written keys (overrides config)")
}

func runSeed(cmd *cobra.Command, args []string) error {
	if seedActor != "" {
		config.Content.Actor = seedActor
	}

	application, err := openApp()
	if err != nil {
		return err
	}
	defer application.Close()

	report, err := application.Seeder.SeedAll(cmd.Context(), seedOverwrite, args...)
	if err != nil {
		return err
	}

	w := tabwriter.NewWriter(cmd.OutOrStdout(), 0, 2, 2, ' ', 0)
	fmt.Fprintln(w, "GROUP\tCREATED\tUPDATED\tSKIPPED\tFAILED")
	for _, group := range report.Groups {
		fmt.Fprintf(w, "%s\t%d\t%d\t%d\t%d\n", group.Group, group.Created, group.Updated, group.Skipped, group.Failed)
	}
	fmt.Fprintf(w, "total\t%d\t%d\t%d\t%d\n", report.Total.Created, report.Total.Updated, report.Total.Skipped, report.Total.Failed)
	if err := w.Flush(); err != nil {
		return err
	}

	if report.Total.Failed > 0 {
		return fmt.Errorf("%d keys failed to seed", report.Total.Failed)
	}
	return nil
}
