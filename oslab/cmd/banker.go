package cmd

import (
	"github.com/spf13/cobra"

	"github.com/sarchlab/oslab/banker"
	"github.com/sarchlab/oslab/lab"
)

var bankerCmd = &cobra.Command{
	Use:   "banker",
	Short: "Check a resource allocation state with the Banker's Algorithm.",
	Long: "`banker --total 10,5,7 --claim 0:0,1,0:7,5,3 ...` checks whether the " +
		"state is safe. Each claim is id:allocation:maximum. With " +
		"`--request id:a,b,c` the request is evaluated instead.",
	RunE: runBanker,
}

func init() {
	rootCmd.AddCommand(bankerCmd)
	bankerCmd.Flags().String("total", "10,5,7", "Total instances per resource class")
	bankerCmd.Flags().StringArray("claim",
		[]string{"0:0,1,0:7,5,3", "1:2,0,0:3,2,2", "2:3,0,2:9,0,2"},
		"A process as id:allocation:maximum (repeatable)")
	bankerCmd.Flags().String("request", "", "Evaluate a request id:a,b,c")
}

func runBanker(cmd *cobra.Command, _ []string) error {
	totalArg, _ := cmd.Flags().GetString("total")
	claimArgs, _ := cmd.Flags().GetStringArray("claim")
	requestArg, _ := cmd.Flags().GetString("request")

	total, err := parseVector(totalArg)
	if err != nil {
		return err
	}

	claims := make([]banker.Claim, 0, len(claimArgs))
	for _, arg := range claimArgs {
		c, err := parseClaim(arg)
		if err != nil {
			return err
		}

		claims = append(claims, c)
	}

	s, err := buildSimulation(false, 0, 1)
	if err != nil {
		return err
	}
	defer s.Terminate()

	ctx := s.Context(cmd.Context())
	state := lab.DeadlockState{Total: total, Claims: claims}
	out := cmd.OutOrStdout()

	if requestArg != "" {
		id, request, err := parseRequest(requestArg)
		if err != nil {
			return err
		}

		d, err := s.Bench().Deadlock.Request(ctx, state, id, request)
		if err != nil {
			return err
		}

		if jsonOutput {
			return printJSON(out, d)
		}

		renderClaims(out, d.Claims)
		renderDecision(out, id, request, d)

		return nil
	}

	r, err := s.Bench().Deadlock.Recompute(ctx, state)
	if err != nil {
		return err
	}

	if jsonOutput {
		return printJSON(out, r)
	}

	renderClaims(out, claims)
	renderSafety(out, r)

	return nil
}
