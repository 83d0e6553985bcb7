// Package main provides the entry point for the listing optimizer CLI and server.
package main

import (
	"fmt"
	"os"

	"github.com/joho/godotenv"
	"github.com/spf13/cobra"
)

var rootCmd = &cobra.Command{
	Use:   "listing_agent",
	Short: "Product listing optimizer",
	Long:  "Listing Agent retrieves product listings by identifier, rewrites them with a generative-AI provider, and optionally stores the before/after pair.",
}

func main() {
	// Load .env file if it exists
	_ = godotenv.Load()

	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}
