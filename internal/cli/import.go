package cli

import (
	"context"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/tilemarks/tilemarks/pkg/bookmarks"
	"github.com/tilemarks/tilemarks/pkg/groups"
)

// importCommand creates the import command building groups from a bookmarks
// export.
func (c *CLI) importCommand() *cobra.Command {
	var noEnrich bool

	cmd := &cobra.Command{
		Use:   "import <bookmarks.json>",
		Short: "Build groups from a bookmarks JSON export",
		Long: `Build groups from a bookmarks JSON export.

Each folder that directly contains links becomes one group named after the
folder; links outside any folder land in a group named after the root.
Duplicate links within a group are skipped. Group sizes are derived from
the final link counts.`,
		Args: cobra.ExactArgs(1),
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

			root, err := bookmarks.NewFileSource(args[0]).Tree(cmd.Context())
			if err != nil {
				return err
			}

			enricher := c.newEnricher(cfg)
			prog := newProgress(c.Logger)
			created, attached := 0, 0

			err = importTree(cmd.Context(), root, func(folder string, links []*bookmarks.Node) error {
				g, err := store.CreateGroup(cmd.Context(), folder)
				if err != nil {
					printWarning("Skipping folder %q: %v", folder, err)
					return nil
				}
				created++

				for _, node := range links {
					link := groups.QuickLink{ID: node.ID, Title: node.Title, URL: node.URL}
					if !noEnrich {
						link = enricher.Enrich(cmd.Context(), node.ID, node.Title, node.URL)
					}
					if err := store.AddLink(cmd.Context(), g.ID, link); err != nil {
						printWarning("Skipping %s: %v", node.URL, err)
						continue
					}
					attached++
				}
				return nil
			})
			if err != nil {
				return err
			}

			prog.done(fmt.Sprintf("Imported %d groups, %d links", created, attached))
			printNextStep("View the board", "tilemarks layout")
			return nil
		},
	}

	cmd.Flags().BoolVar(&noEnrich, "no-enrich", false, "skip favicon and metadata enrichment")
	return cmd
}

// importTree walks the export and calls fn once per group-to-be: each folder
// with direct links, plus the root itself when it holds loose links.
func importTree(ctx context.Context, root *bookmarks.Node, fn func(folder string, links []*bookmarks.Node) error) error {
	if root == nil {
		return nil
	}

	var walkErr error
	root.Walk(func(n *bookmarks.Node) bool {
		if n.IsLink() {
			return true
		}

		var direct []*bookmarks.Node
		for _, child := range n.Children {
			if child.IsLink() {
				direct = append(direct, child)
			}
		}
		if len(direct) == 0 {
			return true
		}

		name := n.Title
		if name == "" {
			name = "Imported"
		}
		if err := fn(name, direct); err != nil {
			walkErr = err
			return false
		}
		return ctx.Err() == nil
	})
	if walkErr != nil {
		return walkErr
	}
	return ctx.Err()
}
