package cmd

import (
	"errors"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/sarchlab/oslab/lab"
	"github.com/sarchlab/oslab/progress"
)

var errNoUser = errors.New("no user given, use --user or OSLAB_USER")

var progressCmd = &cobra.Command{
	Use:   "progress",
	Short: "Print the lab mastery of the configured user.",
	RunE:  runProgress,
}

func init() {
	rootCmd.AddCommand(progressCmd)
}

func runProgress(cmd *cobra.Command, _ []string) error {
	if cfg.UserID == "" {
		return errNoUser
	}

	s, err := buildSimulation(false, 0, 1)
	if err != nil {
		return err
	}
	defer s.Terminate()

	stats, err := s.Stats(cmd.Context())
	if err != nil {
		return err
	}

	if jsonOutput {
		return printJSON(cmd.OutOrStdout(), stats)
	}

	renderStats(cmd, stats)

	return nil
}

func renderStats(cmd *cobra.Command, stats progress.Stats) {
	out := cmd.OutOrStdout()
	fmt.Fprintf(out, "User %s, %d tasks completed\n", stats.UserID, stats.Tasks)

	t := newTable(out)
	for _, k := range lab.Kinds() {
		m := stats.Mastery[k]
		fmt.Fprintf(t, "%s\t%3d%%\t%s\n", k, m, bar(m))
	}

	t.Flush()

	if !stats.LastSync.IsZero() {
		fmt.Fprintf(out, "Last sync %s\n", stats.LastSync.Format("2006-01-02 15:04:05"))
	}
}

func bar(percent int) string {
	const width = 20

	filled := percent * width / progress.MaxMastery
	b := make([]byte, width)

	for i := range b {
		b[i] = '.'
		if i < filled {
			b[i] = '#'
		}
	}

	return string(b)
}
