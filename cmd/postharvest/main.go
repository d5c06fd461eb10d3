// Package main provides the entry point for the postharvest CLI.
package main

import (
	"fmt"
	"os"

	"github.com/joho/godotenv"
	"github.com/spf13/cobra"
)

var rootCmd = &cobra.Command{
	Use:   "postharvest",
	Short: "LinkedIn original-post extractor",
	Long:  "postharvest authenticates a browser session, walks a list of LinkedIn profiles, extracts their original posts and maintains a deduplicated CSV dataset across runs.",
}

func main() {
	// Load .env file if it exists
	_ = godotenv.Load()

	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}
