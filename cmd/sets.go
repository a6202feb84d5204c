package cmd

import (
	"fmt"
	"os"

	colorize "github.com/fatih/color"
	"github.com/spf13/cobra"

	"github.com/arcanaland/holocron/internal/card"
	"github.com/arcanaland/holocron/internal/catalog"
	"github.com/arcanaland/holocron/internal/store"
)

// setsCmd represents the sets command group
var setsCmd = &cobra.Command{
	Use:   "sets",
	Short: "Manage the set catalog",
	Long:  `Commands for listing card sets and managing the sets.toml catalog.`,
}

// setsListCmd represents the sets ls command
var setsListCmd = &cobra.Command{
	Use:   "ls",
	Short: "List the sets in the card database",
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, err := loadConfig()
		if err != nil {
			return err
		}

		var sets []card.Set
		source := cfg.Database
		if _, err := os.Stat(cfg.Database); os.IsNotExist(err) {
			// No database yet, show the catalog it would be built from
			c, err := catalog.LoadOrDefault(cfg.SetsPath())
			if err != nil {
				return err
			}
			sets = c.Sets
			source = "set catalog"
			fmt.Println("Card database not built yet. Run 'holocron build' to create it.")
		} else {
			st, err := store.Open(cfg.Database)
			if err != nil {
				return err
			}
			defer st.Close()
			if sets, err = st.ListSets(cmd.Context()); err != nil {
				return err
			}
		}

		if len(sets) == 0 {
			fmt.Println("No sets found in", source)
			return nil
		}
		for _, s := range sets {
			rotation := ""
			if s.Rotation != "" {
				rotation = colorize.HiBlackString(" [rotation %s]", s.Rotation)
			}
			fmt.Printf("  %s  %s%s\n", colorize.CyanString("%-4s", s.ID), s.Name, rotation)
		}
		return nil
	},
}

// setsInitCmd represents the sets init command
var setsInitCmd = &cobra.Command{
	Use:   "init",
	Short: "Write the built-in set catalog to sets.toml",
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, err := loadConfig()
		if err != nil {
			return err
		}

		path := cfg.SetsPath()
		if _, err := os.Stat(path); err == nil {
			fmt.Println("Set catalog already exists at:", path)
			return nil
		}
		if err := os.MkdirAll(cfg.DataDir, 0755); err != nil {
			return fmt.Errorf("error creating data directory: %w", err)
		}
		if err := catalog.WriteDefault(path); err != nil {
			return fmt.Errorf("error writing set catalog: %w", err)
		}

		fmt.Println("Set catalog initialized at:", path)
		fmt.Println("Edit it to add new sets, then run 'holocron build'.")
		return nil
	},
}

func init() {
	RootCmd.AddCommand(setsCmd)
	setsCmd.AddCommand(setsListCmd)
	setsCmd.AddCommand(setsInitCmd)
}
