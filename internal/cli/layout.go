package cli

import (
	"encoding/json"
	"fmt"
	"io"
	"os"
	"time"

	"github.com/spf13/cobra"
	"golang.org/x/term"

	"github.com/tilemarks/tilemarks/pkg/observability"
	"github.com/tilemarks/tilemarks/pkg/treemap"
)

// layoutCommand creates the layout command rendering the board as tiles.
func (c *CLI) layoutCommand() *cobra.Command {
	var (
		width  int
		height int
		asJSON bool
	)

	cmd := &cobra.Command{
		Use:   "layout",
		Short: "Render the board's tile layout",
		Long: `Render the board's tile layout in the terminal.

Tiles are sliced along the longer canvas axis, each spanning the full
cross axis, with spans proportional to group size. The default canvas is
the current terminal; --width and --height override it (in cells), and
--json emits tile geometry instead of drawing boxes.`,
		Args: cobra.NoArgs,
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

			if width == 0 || height == 0 {
				w, h := terminalCanvas()
				if width == 0 {
					width = w
				}
				if height == 0 {
					height = h
				}
			}

			start := time.Now()
			tiles := treemap.Layout(store.Groups(), width, height)
			observability.Layout().OnLayout(cmd.Context(), len(tiles), width, height, time.Since(start))

			if asJSON {
				return writeTilesJSON(cmd.OutOrStdout(), tiles)
			}

			fmt.Println(renderBoard(tiles, width, height))
			return nil
		},
	}

	cmd.Flags().IntVarP(&width, "width", "W", 0, "canvas width in cells (default: terminal width)")
	cmd.Flags().IntVarP(&height, "height", "H", 0, "canvas height in cells (default: terminal height)")
	cmd.Flags().BoolVar(&asJSON, "json", false, "print tile geometry as JSON")
	return cmd
}

// writeTilesJSON emits tile geometry as indented JSON.
func writeTilesJSON(w io.Writer, tiles []treemap.Tile) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(map[string]any{"tiles": tiles})
}

// terminalCanvas returns the terminal dimensions, with a sane fallback when
// stdout is not a terminal.
func terminalCanvas() (int, int) {
	w, h, err := term.GetSize(int(os.Stdout.Fd()))
	if err != nil || w < 10 || h < 4 {
		return 120, 30
	}
	// Leave a row for the prompt.
	return w, h - 1
}
