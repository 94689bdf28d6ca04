package cli

import (
	"fmt"
	"strconv"

	"github.com/charmbracelet/lipgloss"
	"github.com/spf13/cobra"

	"github.com/tilemarks/tilemarks/pkg/groups"
)

// groupsCommand creates the group management command.
func (c *CLI) groupsCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "groups",
		Short: "Manage bookmark groups",
	}

	cmd.AddCommand(c.groupsListCommand())
	cmd.AddCommand(c.groupsAddCommand())
	cmd.AddCommand(c.groupsRemoveCommand())
	cmd.AddCommand(c.groupsResizeCommand())

	return cmd
}

// groupsListCommand creates the "groups list" subcommand.
func (c *CLI) groupsListCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "list",
		Short: "List all bookmark groups",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := c.loadConfig()
			if err != nil {
				return err
			}
			store, kv, err := c.openStore(cmd.Context(), cfg)
			if err != nil {
				return err
			}
			defer kv.Close()

			all := store.Groups()
			if len(all) == 0 {
				printInfo("No groups yet")
				printNextStep("Create one", "tilemarks groups add <name>")
				return nil
			}

			for _, g := range all {
				swatch := lipgloss.NewStyle().Foreground(lipglossColor(g.Color)).Render("■")
				fmt.Printf("%s %s  %s\n",
					swatch,
					StyleTitle.Render(g.Name),
					StyleDim.Render(fmt.Sprintf("id=%s size=%d links=%d", g.ID, g.Size, len(g.Links))))
				for _, link := range g.Links {
					printDetail("%s %s", link.Title, link.URL)
				}
			}
			return nil
		},
	}
}

// groupsAddCommand creates the "groups add" subcommand.
func (c *CLI) groupsAddCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "add <name>",
		Short: "Create a new bookmark group",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := c.loadConfig()
			if err != nil {
				return err
			}
			store, kv, err := c.openStore(cmd.Context(), cfg)
			if err != nil {
				return err
			}
			defer kv.Close()

			g, err := store.CreateGroup(cmd.Context(), args[0])
			if err != nil {
				return err
			}

			printSuccess("Created group %s", StyleHighlight.Render(g.Name))
			printDetail("id=%s color=%s size=%d", g.ID, g.Color, g.Size)
			return nil
		},
	}
}

// groupsRemoveCommand creates the "groups rm" subcommand.
func (c *CLI) groupsRemoveCommand() *cobra.Command {
	return &cobra.Command{
		Use:     "rm <id>",
		Aliases: []string{"remove"},
		Short:   "Remove a bookmark group",
		Args:    cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := c.loadConfig()
			if err != nil {
				return err
			}
			store, kv, err := c.openStore(cmd.Context(), cfg)
			if err != nil {
				return err
			}
			defer kv.Close()

			if _, ok := store.Group(args[0]); !ok {
				printWarning("No group with id %s", args[0])
				return nil
			}
			store.RemoveGroup(cmd.Context(), args[0])
			printSuccess("Removed group %s", args[0])
			return nil
		},
	}
}

// groupsResizeCommand creates the "groups resize" subcommand.
func (c *CLI) groupsResizeCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "resize <id> <size>",
		Short: "Set a group's relative tile size",
		Long: fmt.Sprintf(`Set a group's relative tile size.

Sizes are clamped to the range %d..%d. The override sticks until links are
added or removed outside edit mode, at which point the size is derived from
the link count again.`, groups.MinGroupSize, groups.MaxGroupSize),
		Args: cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			size, err := strconv.Atoi(args[1])
			if err != nil {
				return fmt.Errorf("size must be an integer: %q", args[1])
			}

			cfg, err := c.loadConfig()
			if err != nil {
				return err
			}
			store, kv, err := c.openStore(cmd.Context(), cfg)
			if err != nil {
				return err
			}
			defer kv.Close()

			if _, ok := store.Group(args[0]); !ok {
				printWarning("No group with id %s", args[0])
				return nil
			}

			store.SetGroupSize(cmd.Context(), args[0], size)
			g, _ := store.Group(args[0])
			if g.Size != size {
				printWarning("Size %d clamped to %d", size, g.Size)
			} else {
				printSuccess("Resized %s to %d", g.Name, g.Size)
			}
			return nil
		},
	}
}
