// Command replay re-runs the decision engine over a turn journal and reports every turn
// whose action no longer matches the recorded one.
package main

import (
	"errors"
	"fmt"
	"os"

	"github.com/dustin/go-humanize"
	"github.com/spf13/cobra"

	"skirmish.ai/internal/persistence/journal"
	"skirmish.ai/internal/replay"
)

var (
	journalDir string
	agentID    string
)

var errMismatch = errors.New("replay mismatch")

var rootCmd = &cobra.Command{
	Use:          "replay",
	Short:        "Verify journaled turns against the current engine",
	SilenceUsage: true,
	Args:         cobra.NoArgs,
	RunE:         run,
}

func init() {
	rootCmd.Flags().StringVar(&journalDir, "journal", "", "journal directory containing turns-*.jsonl.zst")
	rootCmd.Flags().StringVar(&agentID, "agent", "", "only verify this agent")
	_ = rootCmd.MarkFlagRequired("journal")
}

func run(cmd *cobra.Command, args []string) error {
	files, err := journal.Files(journalDir)
	if err != nil {
		return err
	}
	if len(files) == 0 {
		return fmt.Errorf("no journal files in %s", journalDir)
	}

	out := cmd.OutOrStdout()
	v := replay.NewVerifier(agentID)
	var total uint64
	for _, p := range files {
		if fi, err := os.Stat(p); err == nil {
			total += uint64(fi.Size())
		}
		if err := journal.ReadFile(p, v.Check); err != nil {
			return fmt.Errorf("read %s: %w", p, err)
		}
	}

	rep := v.Report()
	fmt.Fprintf(out, "files=%d size=%s sessions=%d turns=%s\n",
		len(files), humanize.Bytes(total), rep.Sessions, humanize.Comma(int64(rep.Turns)))
	for _, m := range rep.Mismatches {
		fmt.Fprintf(out, "MISMATCH session=%s agent=%s turn=%d recorded=%s replayed=%s rule=%s\n",
			m.SessionID, m.AgentID, m.Turn, m.Recorded, m.Replayed, m.Rule)
	}
	if !rep.OK() {
		return fmt.Errorf("%w: %d of %d turns", errMismatch, len(rep.Mismatches), rep.Turns)
	}
	fmt.Fprintln(out, "OK")
	return nil
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}
