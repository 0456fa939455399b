package cli

import (
	"encoding/json"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/rcliao/baby-bitcoin/internal/catalog"
	"github.com/rcliao/baby-bitcoin/internal/view"
)

func init() {
	cmd := &cobra.Command{
		Use:       "catalog [animals|places|objects|fruits]",
		Short:     "List the story items",
		Args:      cobra.MaximumNArgs(1),
		ValidArgs: []string{"animals", "places", "objects", "fruits"},
		Run:       runCatalog,
	}

	RootCmd.AddCommand(cmd)
}

func runCatalog(cmd *cobra.Command, args []string) {
	cats := catalog.All()
	if len(args) == 1 {
		c, ok := catalog.ByName(args[0])
		if !ok {
			exitErr("catalog", fmt.Errorf("unknown catalog %q", args[0]))
		}
		cats = []catalog.Catalog{c}
	}

	if formatFlag == "json" {
		out := map[string]any{}
		for _, c := range cats {
			out[c.Name()] = c.Items()
		}
		b, _ := json.MarshalIndent(out, "", "  ")
		fmt.Fprintln(cmd.OutOrStdout(), string(b))
		return
	}

	for i, c := range cats {
		if i > 0 {
			fmt.Fprintln(cmd.OutOrStdout())
		}
		view.Catalog(cmd.OutOrStdout(), c)
	}
}
