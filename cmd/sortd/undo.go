package main

import (
	"fmt"
	"strconv"

	"github.com/spf13/cobra"
)

func undoCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "undo <session-id>",
		Short: "Reverse a recorded organize session",
		Long: `Move every file from a recorded session back to its original location.
Files that were deleted or replaced since the run are reported and skipped;
the session is marked partially reversed in that case.`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			sessionID, err := strconv.ParseInt(args[0], 10, 64)
			if err != nil {
				return fmt.Errorf("invalid session id %q: %w", args[0], err)
			}

			ctx := cmd.Context()

			orch, store, err := initOrchestrator(ctx, false)
			if err != nil {
				return err
			}
			defer func() { _ = store.Close() }()

			report, err := orch.Undo(ctx, sessionID)
			if err != nil {
				return err
			}

			fmt.Printf("Session %d: restored %d file(s), %d failure(s) [%s]\n",
				report.SessionID, report.Restored, report.Failed, report.Status)

			for _, result := range report.Results {
				if !result.OK {
					fmt.Printf("  failed: %s (%s)\n", result.Record.NewPath, result.Reason)
				}
			}

			return nil
		},
	}
}
