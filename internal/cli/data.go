package cli

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/spf13/cobra"
)

// dataCommand creates the data directory management command.
func (c *CLI) dataCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "data",
		Short: "Manage the local data directory",
	}

	cmd.AddCommand(c.dataClearCommand())
	cmd.AddCommand(c.dataPathCommand())

	return cmd
}

// dataClearCommand creates the "data clear" subcommand.
func (c *CLI) dataClearCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "clear",
		Short: "Delete all locally stored board state",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := c.loadConfig()
			if err != nil {
				return err
			}
			dir := cfg.DataDir()

			if _, err := os.Stat(dir); os.IsNotExist(err) {
				printInfo("No local data")
				return nil
			}

			count := 0
			err = filepath.Walk(dir, func(path string, info os.FileInfo, err error) error {
				if err != nil {
					return nil // Skip errors, continue walking
				}
				if path == dir || info.IsDir() {
					return nil
				}
				if err := os.Remove(path); err == nil {
					count++
				}
				return nil
			})
			if err != nil {
				return err
			}

			printSuccess("Removed %d stored entries", count)
			printDetail("Directory: %s", dir)
			return nil
		},
	}
}

// dataPathCommand creates the "data path" subcommand.
func (c *CLI) dataPathCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "path",
		Short: "Print the data directory path",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := c.loadConfig()
			if err != nil {
				return err
			}
			fmt.Println(cfg.DataDir())
			return nil
		},
	}
}
