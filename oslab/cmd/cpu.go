package cmd

import (
	"github.com/spf13/cobra"

	"github.com/sarchlab/oslab/cpu"
	"github.com/sarchlab/oslab/lab"
)

var cpuCmd = &cobra.Command{
	Use:   "cpu",
	Short: "Schedule processes and print the timeline and metrics.",
	Long: "`cpu --policy RR --quantum 2 --process 1:0:5 --process 2:2:3` " +
		"schedules the processes. Each process is id:arrival:burst[:priority]; " +
		"a lower priority value runs first.",
	RunE: runCPU,
}

func init() {
	rootCmd.AddCommand(cpuCmd)
	cpuCmd.Flags().String("policy", "FCFS", "FCFS, SJF, SRTF, Priority or RR")
	cpuCmd.Flags().Int("quantum", 2, "Round-robin time quantum")
	cpuCmd.Flags().StringArray("process", []string{"1:0:5:1", "2:2:3:2"},
		"A process as id:arrival:burst[:priority] (repeatable)")
}

func runCPU(cmd *cobra.Command, _ []string) error {
	policyName, _ := cmd.Flags().GetString("policy")
	quantum, _ := cmd.Flags().GetInt("quantum")
	specs, _ := cmd.Flags().GetStringArray("process")

	policy, err := cpu.ParsePolicy(policyName, quantum)
	if err != nil {
		return err
	}

	processes := make([]cpu.Process, 0, len(specs))
	for _, spec := range specs {
		p, err := parseProcess(spec)
		if err != nil {
			return err
		}

		processes = append(processes, p)
	}

	s, err := buildSimulation(false, 0, 1)
	if err != nil {
		return err
	}
	defer s.Terminate()

	r, err := s.Bench().CPU.Recompute(s.Context(cmd.Context()), lab.CPUState{
		Processes: processes,
		Policy:    policy,
	})
	if err != nil {
		return err
	}

	if jsonOutput {
		return printJSON(cmd.OutOrStdout(), r)
	}

	renderCPU(cmd.OutOrStdout(), r)

	return nil
}
