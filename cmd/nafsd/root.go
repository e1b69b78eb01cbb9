package main

import (
	"os"

	"github.com/spf13/cobra"
)

var rootCmd = &cobra.Command{
	Use:   "nafsd",
	Short: "Agent task orchestrator daemon",
	Long: `nafsd runs a fleet of specialized agents over a shared task queue.

Tasks are submitted over the HTTP API, assigned to registered agents by
type, and executed by a background dispatch loop. Managers decompose
objectives into subtasks; researchers, analysts, coders, and ingestors
work against the document index and the knowledge graph.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		return runServe(cmd, args)
	},
}

// Execute runs the root command
func Execute() {
	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}

func init() {
	rootCmd.AddCommand(serveCmd)
	rootCmd.AddCommand(statusCmd)
	rootCmd.AddCommand(versionCmd)
}
