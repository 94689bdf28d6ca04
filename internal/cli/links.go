package cli

import (
	"github.com/google/uuid"
	"github.com/spf13/cobra"
)

// linksCommand creates the link management command.
func (c *CLI) linksCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "links",
		Short: "Manage links inside a group",
	}

	cmd.AddCommand(c.linksAddCommand())
	cmd.AddCommand(c.linksRemoveCommand())

	return cmd
}

// linksAddCommand creates the "links add" subcommand.
func (c *CLI) linksAddCommand() *cobra.Command {
	var title string

	cmd := &cobra.Command{
		Use:   "add <group-id> <url>",
		Short: "Attach a link to a group",
		Long: `Attach a link to a group.

The link is enriched before it is stored: a favicon URL is resolved from
the page hostname and the metadata service is asked for title, description,
and preview image. Enrichment failures degrade to an empty record; the link
is attached either way.`,
		Args: cobra.ExactArgs(2),
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

			groupID, rawURL := args[0], args[1]

			sp := newSpinnerWithContext(cmd.Context(), "Fetching metadata...")
			sp.Start()
			link := c.newEnricher(cfg).Enrich(cmd.Context(), uuid.NewString(), title, rawURL)
			sp.Stop()

			before, _ := store.Group(groupID)
			if err := store.AddLink(cmd.Context(), groupID, link); err != nil {
				return err
			}

			after, _ := store.Group(groupID)
			if len(after.Links) == len(before.Links) {
				printInfo("Link already present, nothing to do")
				return nil
			}

			name := link.Title
			if name == "" && link.Meta != nil {
				name = link.Meta.Title
			}
			if name == "" {
				name = rawURL
			}
			printSuccess("Attached %s", StyleHighlight.Render(name))
			printDetail("group=%s size=%d links=%d", after.Name, after.Size, len(after.Links))
			return nil
		},
	}

	cmd.Flags().StringVarP(&title, "title", "t", "", "link title (default: from page metadata)")
	return cmd
}

// linksRemoveCommand creates the "links rm" subcommand.
func (c *CLI) linksRemoveCommand() *cobra.Command {
	return &cobra.Command{
		Use:     "rm <group-id> <link-id>",
		Aliases: []string{"remove"},
		Short:   "Detach a link from a group",
		Args:    cobra.ExactArgs(2),
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

			store.RemoveLink(cmd.Context(), args[0], args[1])
			printSuccess("Detached %s", args[1])
			return nil
		},
	}
}
