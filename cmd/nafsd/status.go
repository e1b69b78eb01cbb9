package main

import (
	"encoding/json"
	"fmt"
	"net/http"
	"time"

	"github.com/fatih/color"
	"github.com/spf13/cobra"
)

var statusAddr string

var statusCmd = &cobra.Command{
	Use:   "status",
	Short: "Show daemon task and agent counts",
	RunE:  runStatus,
}

func init() {
	statusCmd.Flags().StringVar(&statusAddr, "addr", "http://localhost:8080", "Daemon base URL")
}

func runStatus(cmd *cobra.Command, args []string) error {
	client := &http.Client{Timeout: 5 * time.Second}

	resp, err := client.Get(statusAddr + "/api/agents/stats")
	if err != nil {
		return fmt.Errorf("daemon not reachable at %s: %w", statusAddr, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return fmt.Errorf("daemon returned status %d", resp.StatusCode)
	}

	var stats struct {
		Tasks  int `json:"tasks"`
		Agents int `json:"agents"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&stats); err != nil {
		return fmt.Errorf("decode stats: %w", err)
	}

	color.Green("nafsd is running at %s", statusAddr)
	fmt.Printf("  agents: %d\n", stats.Agents)
	fmt.Printf("  tasks:  %d\n", stats.Tasks)
	return nil
}
