package cmd

import (
	"errors"
	"fmt"

	"github.com/spf13/cobra"
)

var errUnknownModule = errors.New("unknown concurrency module")

var concurrencyCmd = &cobra.Command{
	Use:   "concurrency",
	Short: "Run the producer/consumer or dining philosophers auto-pilot.",
	RunE:  runConcurrency,
}

func init() {
	rootCmd.AddCommand(concurrencyCmd)
	concurrencyCmd.Flags().String("module", "buffer", "buffer or philosophers")
	concurrencyCmd.Flags().Int("steps", 10, "Number of auto-pilot steps")
	concurrencyCmd.Flags().Uint64("seed", 1, "Random seed")
}

func runConcurrency(cmd *cobra.Command, _ []string) error {
	module, _ := cmd.Flags().GetString("module")
	steps, _ := cmd.Flags().GetInt("steps")
	seed, _ := cmd.Flags().GetUint64("seed")

	if module != "buffer" && module != "philosophers" {
		return fmt.Errorf("%w: %q", errUnknownModule, module)
	}

	s, err := buildSimulation(false, 0, seed)
	if err != nil {
		return err
	}
	defer s.Terminate()

	l := s.Bench().Concurrency
	out := cmd.OutOrStdout()

	for i := 0; i < steps; i++ {
		if module == "buffer" {
			snap := l.StepBuffer()
			if jsonOutput {
				if err := printJSON(out, snap); err != nil {
					return err
				}

				continue
			}

			renderBuffer(out, snap)

			continue
		}

		transitions, snap := l.StepPhilosophers()
		if jsonOutput {
			if err := printJSON(out, snap); err != nil {
				return err
			}

			continue
		}

		renderPhilosophers(out, transitions, snap)
	}

	return nil
}
