// Package main provides the entry point for the Stack Ranker pipeline API server.
package main

import (
	"fmt"
	"os"

	"github.com/joho/godotenv"
	"github.com/spf13/cobra"
)

var rootCmd = &cobra.Command{
	Use:   "stack_ranker",
	Short: "Sales pipeline analytics API server",
	Long:  "Stack Ranker serves opportunity, rep metrics, and pipeline configuration data for the sales analytics dashboard via REST API.",
}

func main() {
	// Load .env file if it exists
	_ = godotenv.Load()

	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}
