// Package main provides the entry point for the team interview CLI.
package main

import (
	"fmt"
	"os"

	"github.com/joho/godotenv"
	"github.com/spf13/cobra"
)

var rootCmd = &cobra.Command{
	Use:   "team_interview",
	Short: "Multi-persona team interview simulator",
	Long:  "team_interview runs simulated team interviews where several interviewer personas take turns asking level-calibrated questions, score answers and hand off to each other.",
}

func main() {
	// Load .env file if it exists
	_ = godotenv.Load()

	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}
