package cmd

import (
	"github.com/spf13/cobra"

	"github.com/sarchlab/oslab/lab"
	"github.com/sarchlab/oslab/paging"
)

var memoryCmd = &cobra.Command{
	Use:   "memory",
	Short: "Replay a page reference string against a page replacement policy.",
	RunE:  runMemory,
}

func init() {
	rootCmd.AddCommand(memoryCmd)
	memoryCmd.Flags().String("refs", "7,0,1,2,0,3,0,4,2,3",
		"Comma-separated page references")
	memoryCmd.Flags().Int("frames", 3, "Number of frames")
	memoryCmd.Flags().String("policy", "FIFO", "FIFO, LRU, MRU or OPTIMAL")
	memoryCmd.Flags().Bool("compare", false,
		"Print the fault count of every policy instead of one trace")
}

func runMemory(cmd *cobra.Command, _ []string) error {
	refsArg, _ := cmd.Flags().GetString("refs")
	frames, _ := cmd.Flags().GetInt("frames")
	policyName, _ := cmd.Flags().GetString("policy")
	compare, _ := cmd.Flags().GetBool("compare")

	refs, err := paging.ParseReferences(refsArg)
	if err != nil {
		return err
	}

	if compare {
		summaries, err := paging.Compare(refs, frames)
		if err != nil {
			return err
		}

		if jsonOutput {
			byName := make(map[string]paging.Summary, len(summaries))
			for p, s := range summaries {
				byName[p.String()] = s
			}

			return printJSON(cmd.OutOrStdout(), byName)
		}

		renderComparison(cmd.OutOrStdout(), summaries)

		return nil
	}

	policy, err := paging.ParsePolicy(policyName)
	if err != nil {
		return err
	}

	s, err := buildSimulation(false, 0, 1)
	if err != nil {
		return err
	}
	defer s.Terminate()

	r, err := s.Bench().Memory.Recompute(s.Context(cmd.Context()),
		lab.MemoryState{References: refs, Frames: frames, Policy: policy})
	if err != nil {
		return err
	}

	if jsonOutput {
		return printJSON(cmd.OutOrStdout(), r)
	}

	renderMemory(cmd.OutOrStdout(), r)

	return nil
}
