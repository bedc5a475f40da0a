package main

import (
	"context"
	"errors"
	"fmt"
	"sort"

	"github.com/schollz/progressbar/v3"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/sortd/sortd/internal/model"
	"github.com/sortd/sortd/internal/organizer"
)

func organizeCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "organize",
		Short: "Organize a directory into category folders",
		Long: `Scan a directory, classify every file, and move each into a category
subfolder of the destination. Use --dry-run to preview the plan without
touching any files. Live runs are recorded as sessions and can be undone
with "sortd undo".`,
		RunE: runOrganize,
	}

	cmd.Flags().StringP("source", "s", "", "source directory to organize (required)")
	cmd.Flags().StringP("dest", "d", "", "destination root (defaults to the source directory)")
	cmd.Flags().Bool("dry-run", false, "preview the plan without moving anything")
	cmd.Flags().Bool("ai", false, "enable AI classification via a local model server")
	_ = cmd.MarkFlagRequired("source")

	_ = viper.BindPFlag("organize.ai", cmd.Flags().Lookup("ai"))

	return cmd
}

func runOrganize(cmd *cobra.Command, _ []string) error {
	source, _ := cmd.Flags().GetString("source")
	dest, _ := cmd.Flags().GetString("dest")
	dryRun, _ := cmd.Flags().GetBool("dry-run")
	aiEnabled := viper.GetBool("organize.ai")

	if dest == "" {
		dest = source
	}

	ctx := cmd.Context()

	orch, store, err := initOrchestrator(ctx, aiEnabled)
	if err != nil {
		return err
	}
	defer func() { _ = store.Close() }()

	var bar *progressbar.ProgressBar
	opts := organizer.RunOptions{
		SourceDir: source,
		DestDir:   dest,
		DryRun:    dryRun,
		AIEnabled: aiEnabled,
	}
	if !dryRun {
		bar = progressbar.Default(-1, "organizing")
		opts.OnFile = func(model.FileEntry) { _ = bar.Add(1) }
	}

	report, err := orch.Run(ctx, opts)
	if bar != nil {
		_ = bar.Finish()
	}
	if err != nil && !errors.Is(err, context.Canceled) {
		return err
	}
	if report == nil {
		return err
	}

	printOrganizeReport(report)

	if errors.Is(err, context.Canceled) {
		fmt.Println("Run interrupted; moves completed so far were committed.")
	}
	return nil
}

func printOrganizeReport(report *model.OrganizeReport) {
	if report.DryRun {
		fmt.Printf("Dry run: %d file(s) would move\n", len(report.Planned))
		for _, planned := range report.Planned {
			fmt.Printf("  %-40s -> %s  [%s]\n",
				planned.Entry.Name, planned.Destination, planned.Result.Source)
		}
	} else {
		fmt.Printf("Moved %d file(s)\n", report.Moved)
	}

	if len(report.CategoryCounts) > 0 {
		categories := make([]string, 0, len(report.CategoryCounts))
		for category := range report.CategoryCounts {
			categories = append(categories, category)
		}
		sort.Strings(categories)

		fmt.Println("By category:")
		for _, category := range categories {
			fmt.Printf("  %-14s %d\n", category, report.CategoryCounts[category])
		}
	}

	if len(report.Skipped) > 0 {
		fmt.Printf("Skipped %d file(s):\n", len(report.Skipped))
		for _, skipped := range report.Skipped {
			fmt.Printf("  %s: %s\n", skipped.Path, skipped.Reason)
		}
	}

	if report.SessionID != 0 {
		fmt.Printf("Session %d committed; undo with: sortd undo %d\n",
			report.SessionID, report.SessionID)
	}
}
