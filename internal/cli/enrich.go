package cli

import (
	"github.com/spf13/cobra"

	"github.com/tilemarks/tilemarks/pkg/errors"
)

// enrichCommand creates the enrich command for inspecting link enrichment.
func (c *CLI) enrichCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "enrich <url>",
		Short: "Resolve favicon and page metadata for a URL",
		Long: `Resolve favicon and page metadata for a URL.

Shows what would be attached to a link: the favicon URL derived from the
hostname and the title, description, and preview image reported by the
metadata service. A failing metadata fetch prints empty fields rather than
an error; that is also how link attachment behaves.`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			target := args[0]
			if err := errors.ValidateURL(target); err != nil {
				return err
			}

			cfg, err := c.loadConfig()
			if err != nil {
				return err
			}
			client := c.newEnricher(cfg)

			favicon := client.ResolveFavicon(target)

			sp := newSpinnerWithContext(cmd.Context(), "Fetching metadata...")
			sp.Start()
			meta := client.FetchMetaData(cmd.Context(), target)
			sp.Stop()

			printKeyValue("url", target)
			printKeyValue("favicon", favicon)
			printKeyValue("title", meta.Title)
			printKeyValue("description", meta.Description)
			printKeyValue("image", meta.Image)

			if meta.Title == "" {
				printWarning("Metadata service returned nothing usable")
			}
			return nil
		},
	}
}
