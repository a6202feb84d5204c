package cmd

import (
	"fmt"

	colorize "github.com/fatih/color"
	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/arcanaland/holocron/internal/catalog"
	"github.com/arcanaland/holocron/internal/ingest"
	"github.com/arcanaland/holocron/internal/store"
)

var buildCmd = &cobra.Command{
	Use:   "build",
	Short: "Build the card database",
	Long: `Build reads all_cards.json and the optional corrections.json from the data
directory, extracts keywords from the rules text and writes the SQLite card
database, replacing any previous content.`,
	Args: cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, logger, err := setup()
		if err != nil {
			return err
		}
		defer logger.Sync() //nolint:errcheck

		sets, err := catalog.LoadOrDefault(cfg.SetsPath())
		if err != nil {
			return err
		}
		src, err := ingest.Load(cfg.AllCardsPath(), cfg.CorrectionsPath())
		if err != nil {
			return err
		}
		corpus, err := ingest.BuildCorpus(src, sets, logger)
		if err != nil {
			return err
		}

		st, err := store.Open(cfg.Database)
		if err != nil {
			return err
		}
		defer st.Close()

		if err := st.Rebuild(cmd.Context(), corpus); err != nil {
			return fmt.Errorf("error building database: %w", err)
		}
		logger.Info("database built", zap.String("path", cfg.Database))

		fmt.Printf("%s %d cards in %d sets to %s\n",
			colorize.GreenString("Built"), len(corpus.Records), len(corpus.Sets), cfg.Database)
		return nil
	},
}

func init() {
	RootCmd.AddCommand(buildCmd)
}
