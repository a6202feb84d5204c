package cmd

import (
	"fmt"

	colorize "github.com/fatih/color"
	"github.com/spf13/cobra"

	"github.com/arcanaland/holocron/internal/catalog"
	"github.com/arcanaland/holocron/internal/validator"
)

// validateCmd represents the validate command
var validateCmd = &cobra.Command{
	Use:   "validate [path]",
	Short: "Validate fetched card data",
	Long: `Validate checks a card data file (all_cards.json in the data directory by
default) before it is built into the database. Missing required fields,
duplicate card ids and unknown aspects are errors; sets missing from the set
catalog and unbalanced brackets in rules text are warnings.`,
	Args: cobra.MaximumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, err := loadConfig()
		if err != nil {
			return err
		}

		cardsPath := cfg.AllCardsPath()
		if len(args) == 1 {
			cardsPath = args[0]
		}

		sets, err := catalog.LoadOrDefault(cfg.SetsPath())
		if err != nil {
			return err
		}

		v := validator.NewValidator(cardsPath, sets)
		if checkImages, _ := cmd.Flags().GetBool("images"); checkImages {
			v.ImageDir = cfg.ImageDir
		}
		results, err := v.Validate()
		if err != nil {
			return fmt.Errorf("validation error: %w", err)
		}

		// Display validation results
		fmt.Println("Validation Results:")
		fmt.Println("-------------------")

		if len(results.Errors) == 0 {
			fmt.Printf("%s '%s' is valid.\n", colorize.GreenString("✅"), cardsPath)
		} else {
			fmt.Printf("%s '%s' has %d validation errors:\n", colorize.RedString("❌"), cardsPath, len(results.Errors))
			for i, err := range results.Errors {
				fmt.Printf("%d. %s\n", i+1, err)
			}
		}

		if len(results.Warnings) > 0 {
			fmt.Println(colorize.YellowString("\nWarnings:"))
			for i, warn := range results.Warnings {
				fmt.Printf("%d. %s\n", i+1, warn)
			}
		}

		if !results.OK() {
			return fmt.Errorf("validation failed")
		}
		return nil
	},
}

func init() {
	RootCmd.AddCommand(validateCmd)

	validateCmd.Flags().Bool("images", false, "Also check that every card has a downloaded image")
}
