package cmd

import (
	"os"
	"os/signal"
	"syscall"

	"github.com/pkg/browser"
	"github.com/spf13/cobra"
)

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Serve the labs over HTTP until interrupted.",
	RunE:  runServe,
}

func init() {
	rootCmd.AddCommand(serveCmd)
	serveCmd.Flags().Int("port", 0, "Port to listen on (0 picks a free port)")
	serveCmd.Flags().Bool("open", false, "Open the lab page in a browser")
	serveCmd.Flags().Uint64("seed", 1, "Random seed of the interactive labs")
}

func runServe(cmd *cobra.Command, _ []string) error {
	port := cfg.Port
	if cmd.Flags().Changed("port") {
		port, _ = cmd.Flags().GetInt("port")
	}

	open := cfg.OpenBrowser
	if cmd.Flags().Changed("open") {
		open, _ = cmd.Flags().GetBool("open")
	}

	seed, _ := cmd.Flags().GetUint64("seed")

	s, err := buildSimulation(true, port, seed)
	if err != nil {
		return err
	}
	defer s.Terminate()

	logger.Info("serving labs", "url", s.MonitorURL(), "user", cfg.UserID)

	if open {
		if err := browser.OpenURL(s.MonitorURL()); err != nil {
			warnf("Failed to open a browser: %v\n", err)
		}
	}

	ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	<-ctx.Done()

	logger.Info("shutting down")

	return nil
}
