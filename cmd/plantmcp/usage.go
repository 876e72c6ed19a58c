package main

import (
	"fmt"
	"io"

	"github.com/spf13/cobra"

	"github.com/nwater/plantmcp/internal/journal"
)

func newUsageCmd(opts *rootOptions) *cobra.Command {
	var sessionID string
	var recent int
	cmd := &cobra.Command{
		Use:   "usage",
		Short: "Report recorded tool calls from the journal",
		Long: `Read the tool-call journal written by serve.

Without --session it prints totals over every session, per-tool usage and
the most recent calls. With --session it reports that one session.

Examples:
  plantmcp usage
  plantmcp usage --recent 50
  plantmcp usage --session 6f1c...`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := opts.config()
			if err != nil {
				return err
			}
			jr, err := journal.New(cfg.JournalConfig())
			if err != nil {
				return err
			}
			defer func() { _ = jr.Close() }()

			ctx := cmd.Context()
			out := cmd.OutOrStdout()

			if sessionID != "" {
				sess, err := jr.GetSession(ctx, sessionID)
				if err != nil {
					return err
				}
				ended := "running"
				if sess.EndedAt != nil {
					ended = *sess.EndedAt
				}
				fmt.Fprintf(out, "Session %s (%s)\nStarted: %s\nEnded:   %s\n\n", sess.ID, sess.Label, sess.StartedAt, ended)
				usage, err := jr.Usage(ctx, sess.ID)
				if err != nil {
					return err
				}
				writeUsage(out, usage)
				return nil
			}

			stats, err := jr.Stats(ctx)
			if err != nil {
				return err
			}
			fmt.Fprintf(out, "Sessions: %d\nCalls:    %d\nFailed:   %d\n\n", stats.TotalSessions, stats.TotalCalls, stats.FailedCalls)

			usage, err := jr.Usage(ctx, "")
			if err != nil {
				return err
			}
			writeUsage(out, usage)

			calls, err := jr.Recent(ctx, recent)
			if err != nil {
				return err
			}
			if len(calls) == 0 {
				return nil
			}
			fmt.Fprintf(out, "\nRecent calls:\n")
			for _, c := range calls {
				line := fmt.Sprintf("  %s  %-40s %-5s %8.2fms", c.StartedAt.Format("2006-01-02 15:04:05"), c.Tool, c.Status,
					float64(c.Duration.Microseconds())/1000)
				if c.Message != "" {
					line += "  " + c.Message
				}
				fmt.Fprintln(out, line)
			}
			return nil
		},
	}
	cmd.Flags().StringVar(&sessionID, "session", "", "report a single session by id")
	cmd.Flags().IntVar(&recent, "recent", 20, "number of recent calls to list")
	return cmd
}

func writeUsage(out io.Writer, usage []journal.ToolUsage) {
	if len(usage) == 0 {
		fmt.Fprintln(out, "No tool calls recorded.")
		return
	}
	fmt.Fprintf(out, "%-40s %6s %8s %9s %9s\n", "TOOL", "CALLS", "FAILURES", "MEAN MS", "MAX MS")
	for _, u := range usage {
		fmt.Fprintf(out, "%-40s %6d %8d %9.2f %9.2f\n", u.Tool, u.Calls, u.Failures, u.MeanMillis, u.MaxMillis)
	}
}
