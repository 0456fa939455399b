package cli

import (
	"fmt"

	"github.com/spf13/cobra"
)

func init() {
	cmd := &cobra.Command{
		Use:   "export",
		Short: "Export the ledger as JSON",
		Long:  "Print the stored transaction array exactly as persisted, oldest first.",
		Run:   runExport,
	}

	RootCmd.AddCommand(cmd)
}

func runExport(cmd *cobra.Command, args []string) {
	a := mustOpenApp(cmd)
	defer a.Close()

	b, err := a.ledger.Export(cmd.Context())
	if err != nil {
		exitErr("export", err)
	}
	fmt.Fprintln(cmd.OutOrStdout(), string(b))
}
