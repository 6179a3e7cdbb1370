package cmd

import (
	"bufio"
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/sarchlab/oslab/shell"
)

var shellCmd = &cobra.Command{
	Use:   "shell",
	Short: "Start the toy system-call shell. Type exit to leave.",
	RunE:  runShell,
}

func init() {
	rootCmd.AddCommand(shellCmd)
}

func runShell(cmd *cobra.Command, _ []string) error {
	s, err := buildSimulation(false, 0, 1)
	if err != nil {
		return err
	}
	defer s.Terminate()

	l := s.Bench().Shell
	out := cmd.OutOrStdout()

	renderLines(out, l.History())

	scanner := bufio.NewScanner(cmd.InOrStdin())

	for {
		fmt.Fprint(out, shell.Prompt)

		if !scanner.Scan() {
			fmt.Fprintln(out)
			return scanner.Err()
		}

		input := scanner.Text()
		if strings.TrimSpace(input) == "exit" {
			return nil
		}

		renderLines(out, l.Execute(input))
	}
}
