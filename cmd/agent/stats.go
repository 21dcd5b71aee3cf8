package main

import (
	"errors"
	"fmt"
	"os"
	"text/tabwriter"
	"time"

	"github.com/dustin/go-humanize"
	"github.com/spf13/cobra"

	"skirmish.ai/internal/persistence/indexdb"
)

var statsSession string

var statsCmd = &cobra.Command{
	Use:   "stats",
	Short: "Summarize recorded sessions from the sqlite index",
	Args:  cobra.NoArgs,
	RunE:  runStats,
}

func init() {
	statsCmd.Flags().StringVar(&statsSession, "session", "", "restrict rule counts to one session")
}

func runStats(cmd *cobra.Command, args []string) error {
	if cfg.DB == "" {
		return errors.New("missing --db")
	}
	if _, err := os.Stat(cfg.DB); err != nil {
		return err
	}
	idx, err := indexdb.OpenSQLite(cfg.DB)
	if err != nil {
		return err
	}
	defer idx.Close()
	ctx := cmd.Context()

	sessions, err := idx.Sessions(ctx)
	if err != nil {
		return fmt.Errorf("query sessions: %w", err)
	}
	out := cmd.OutOrStdout()
	tw := tabwriter.NewWriter(out, 0, 4, 2, ' ', 0)
	fmt.Fprintln(tw, "SESSION\tAGENT\tSTARTED\tREASON\tWINNER\tTURNS")
	for _, s := range sessions {
		if statsSession != "" && s.SessionID != statsSession {
			continue
		}
		started := s.StartedAt
		if t, err := time.Parse(time.RFC3339Nano, s.StartedAt); err == nil {
			started = humanize.Time(t)
		}
		fmt.Fprintf(tw, "%s\t%s\t%s\t%s\t%s\t%s\n", s.SessionID, s.AgentID, started, s.Reason, s.Winner, humanize.Comma(int64(s.Turns)))
	}
	if err := tw.Flush(); err != nil {
		return err
	}

	counts, err := idx.RuleCounts(ctx, statsSession)
	if err != nil {
		return fmt.Errorf("query rules: %w", err)
	}
	fmt.Fprintln(out)
	tw = tabwriter.NewWriter(out, 0, 4, 2, ' ', 0)
	fmt.Fprintln(tw, "RULE\tTURNS")
	for _, c := range counts {
		fmt.Fprintf(tw, "%s\t%s\n", c.Rule, humanize.Comma(int64(c.Count)))
	}
	return tw.Flush()
}
