package main

import (
	"encoding/json"
	"fmt"
	"os"

	"github.com/google/uuid"
	"github.com/spf13/cobra"

	"github.com/marcus/listing-optimizer/internal/acquire"
	"github.com/marcus/listing-optimizer/internal/config"
	"github.com/marcus/listing-optimizer/internal/db"
	"github.com/marcus/listing-optimizer/internal/optimize"
	"github.com/marcus/listing-optimizer/internal/pipeline"
)

var (
	optimizeSave     bool
	optimizeStrategy string
	optimizeStrict   bool
	optimizeVerbose  bool
	optimizeConfig   string
	optimizeJSON     bool
)

var optimizeCmd = &cobra.Command{
	Use:   "optimize <identifier> [identifier...]",
	Short: "Optimize one or more product listings",
	Long: `Fetch each product listing by identifier, rewrite it with the AI provider,
and print the original and optimized versions. With --save and DATABASE_URL
set, each pair is also persisted.`,
	Args: cobra.MinimumNArgs(1),
	RunE: runOptimize,
}

func init() {
	optimizeCmd.Flags().BoolVar(&optimizeSave, "save", false, "Persist the before/after pair (requires DATABASE_URL)")
	optimizeCmd.Flags().StringVar(&optimizeStrategy, "strategy", "", "Acquisition strategy: browser or static")
	optimizeCmd.Flags().BoolVar(&optimizeStrict, "strict", false, "Reject AI payloads that fail schema validation")
	optimizeCmd.Flags().BoolVar(&optimizeVerbose, "verbose", false, "Print detailed progress information")
	optimizeCmd.Flags().StringVar(&optimizeConfig, "config", "", "Path to JSON config file")
	optimizeCmd.Flags().BoolVar(&optimizeJSON, "json", false, "Print results as JSON")
	rootCmd.AddCommand(optimizeCmd)
}

func runOptimize(cmd *cobra.Command, args []string) error {
	cfg := config.FromEnv()
	if optimizeConfig != "" {
		if err := cfg.LoadFile(optimizeConfig); err != nil {
			return err
		}
	}
	if optimizeStrategy != "" {
		cfg.Strategy = optimizeStrategy
	}
	if optimizeStrict {
		cfg.StrictSchema = true
	}
	if optimizeVerbose {
		cfg.Verbose = true
	}
	if err := cfg.Validate(); err != nil {
		return err
	}

	ctx := cmd.Context()

	client, err := optimize.NewGeminiClient(ctx, cfg.APIKey, cfg.Model)
	if err != nil {
		return fmt.Errorf("failed to create AI client: %w", err)
	}
	defer func() { _ = client.Close() }()

	p := &pipeline.Pipeline{
		Source:     newSource(cfg),
		Client:     client,
		Normalizer: optimize.Normalizer{StrictSchema: cfg.StrictSchema},
		Verbose:    cfg.Verbose,
	}

	if optimizeSave {
		if cfg.DatabaseURL == "" {
			return fmt.Errorf("--save requires DATABASE_URL")
		}
		database, err := db.Connect(ctx, cfg.DatabaseURL)
		if err != nil {
			return fmt.Errorf("failed to connect to database: %w", err)
		}
		defer database.Close()
		if err := database.EnsureSchema(ctx); err != nil {
			return err
		}
		p.Recorder = database
	}

	results, err := p.RunAll(ctx, args)
	if err != nil {
		return err
	}

	if optimizeJSON {
		return json.NewEncoder(os.Stdout).Encode(results)
	}

	for _, result := range results {
		printResult(result)
	}
	return nil
}

func newSource(cfg *config.Config) acquire.Source {
	if cfg.Strategy == config.StrategyStatic {
		return &acquire.Static{Timeout: cfg.AcquireTimeout, UserAgent: acquire.DefaultUserAgent}
	}
	return &acquire.Browser{Timeout: cfg.AcquireTimeout, UserAgent: acquire.DefaultUserAgent}
}

func printResult(result *pipeline.Result) {
	fmt.Printf("=== %s (provider: %s) ===\n", result.Identifier, result.Provider)
	fmt.Printf("--- Original ---\n")
	fmt.Printf("Title: %s\n", result.Raw.Title)
	for _, b := range result.Raw.Bullets {
		fmt.Printf("  - %s\n", b)
	}
	if result.Raw.Description != "" {
		fmt.Printf("Description: %s\n", result.Raw.Description)
	}
	fmt.Printf("--- Optimized ---\n")
	fmt.Printf("Title: %s\n", result.Optimized.Title)
	for _, b := range result.Optimized.Bullets {
		fmt.Printf("  - %s\n", b)
	}
	fmt.Printf("Description: %s\n", result.Optimized.Description)
	fmt.Printf("Keywords: %v\n", result.Optimized.Keywords)
	if result.RecordID != uuid.Nil {
		fmt.Printf("Saved as: %s\n", result.RecordID)
	}
	fmt.Println()
}
