package main

import (
	"fmt"

	"github.com/spf13/cobra"
)

func learningCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "learning",
		Short: "Show learned classification patterns",
		Long:  `Show the filename patterns the organizer has learned from confirmed runs.`,
		RunE: func(cmd *cobra.Command, _ []string) error {
			ctx := cmd.Context()

			orch, store, err := initOrchestrator(ctx, false)
			if err != nil {
				return err
			}
			defer func() { _ = store.Close() }()

			stats, err := orch.LearningStats(ctx)
			if err != nil {
				return err
			}

			if stats.TotalPatterns == 0 {
				fmt.Println("No patterns learned yet.")
				return nil
			}

			fmt.Printf("%d pattern(s), %d observation(s)\n", stats.TotalPatterns, stats.TotalObserved)
			fmt.Printf("%-24s %-14s %-10s %s\n", "PATTERN", "CATEGORY", "CONFIDENCE", "SEEN")
			for _, entry := range stats.Entries {
				fmt.Printf("%-24s %-14s %-10.2f %d\n",
					entry.Pattern, entry.Category, entry.Confidence, entry.Count)
			}

			return nil
		},
	}
}
