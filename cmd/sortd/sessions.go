package main

import (
	"fmt"
	"sort"

	"github.com/spf13/cobra"
)

func sessionsCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "sessions",
		Short: "List recorded organize sessions",
		Long:  `List every recorded organize session, most recent first, with per-category counts.`,
		RunE: func(cmd *cobra.Command, _ []string) error {
			ctx := cmd.Context()

			orch, store, err := initOrchestrator(ctx, false)
			if err != nil {
				return err
			}
			defer func() { _ = store.Close() }()

			sessions, err := orch.ListSessions(ctx)
			if err != nil {
				return err
			}

			if len(sessions) == 0 {
				fmt.Println("No sessions recorded yet.")
				return nil
			}

			for _, session := range sessions {
				fmt.Printf("#%d  %s  %s -> %s  %d move(s)  [%s]\n",
					session.ID,
					session.CreatedAt.Format("2006-01-02 15:04"),
					session.SourceDir,
					session.DestDir,
					len(session.Moves),
					session.Status)

				counts := session.CategoryCounts()
				categories := make([]string, 0, len(counts))
				for category := range counts {
					categories = append(categories, category)
				}
				sort.Strings(categories)
				for _, category := range categories {
					fmt.Printf("    %-14s %d\n", category, counts[category])
				}
			}

			return nil
		},
	}
}
