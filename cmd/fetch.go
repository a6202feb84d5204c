package cmd

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"

	colorize "github.com/fatih/color"
	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/arcanaland/holocron/internal/swuapi"
)

var fetchCmd = &cobra.Command{
	Use:   "fetch",
	Short: "Fetch card data from the card API",
	Long: `Fetch downloads every card of the configured full sets, and the configured
card numbers of partial sets, and writes them to all_cards.json in the data
directory. A full set that cannot be fetched aborts the command; missing
cards of partial sets are skipped.`,
	Args: cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, logger, err := setup()
		if err != nil {
			return err
		}
		defer logger.Sync() //nolint:errcheck

		partial := make(map[string][]int, len(cfg.PartialSets))
		for id, r := range cfg.PartialSets {
			partial[id] = r.Numbers()
		}

		client := swuapi.NewClient(cfg.APIURL, swuapi.WithLogger(logger))
		cards, err := client.FetchAll(cmd.Context(), cfg.FullSets, partial, cfg.FetchConcurrency)
		if err != nil {
			return err
		}

		path := cfg.AllCardsPath()
		if err := writeJSON(path, cards); err != nil {
			return err
		}
		logger.Info("wrote card data", zap.String("path", path), zap.Int("cards", len(cards)))

		fmt.Printf("%s %d cards from %d sets to %s\n",
			colorize.GreenString("Fetched"), len(cards), countSets(cards), path)
		return nil
	},
}

func init() {
	RootCmd.AddCommand(fetchCmd)
}

func writeJSON(path string, v any) error {
	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		return fmt.Errorf("error creating data directory: %w", err)
	}
	data, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		return err
	}
	return os.WriteFile(path, data, 0644)
}

func countSets(cards []swuapi.Card) int {
	seen := map[string]bool{}
	for _, c := range cards {
		seen[c.Set] = true
	}
	return len(seen)
}
