package cmd

import (
	"fmt"

	colorize "github.com/fatih/color"
	"github.com/spf13/cobra"

	"github.com/arcanaland/holocron/internal/ingest"
	"github.com/arcanaland/holocron/internal/swuapi"
)

var imagesCmd = &cobra.Command{
	Use:   "images",
	Short: "Download card images",
	Long: `Images downloads the front image of every card in all_cards.json, plus the
back of double sided cards, into the image directory. Files already on disk
are kept unless --overwrite is given.

Examples:
  holocron images
  holocron images --set SOR --set SHD
  holocron images --overwrite`,
	Args: cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, logger, err := setup()
		if err != nil {
			return err
		}
		defer logger.Sync() //nolint:errcheck

		overwrite, _ := cmd.Flags().GetBool("overwrite")
		sets, _ := cmd.Flags().GetStringSlice("set")

		src, err := ingest.Load(cfg.AllCardsPath(), "")
		if err != nil {
			return err
		}

		client := swuapi.NewClient(cfg.APIURL, swuapi.WithLogger(logger))
		n, err := client.FetchImages(cmd.Context(), src.Cards, swuapi.ImageOptions{
			BaseURL:     cfg.ImageURL,
			Dir:         cfg.ImageDir,
			Overwrite:   overwrite,
			Sets:        sets,
			Concurrency: cfg.FetchConcurrency,
		})
		if err != nil {
			return err
		}

		fmt.Printf("%s %d images to %s\n", colorize.GreenString("Downloaded"), n, cfg.ImageDir)
		return nil
	},
}

func init() {
	RootCmd.AddCommand(imagesCmd)

	imagesCmd.Flags().Bool("overwrite", false, "Replace images already downloaded")
	imagesCmd.Flags().StringSlice("set", nil, "Only download images of these sets")
}
