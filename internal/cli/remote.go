package cli

import (
	"encoding/json"
	"fmt"
	"log/slog"

	"github.com/spf13/cobra"

	"github.com/rcliao/baby-bitcoin/internal/backend"
	"github.com/rcliao/baby-bitcoin/internal/config"
	"github.com/rcliao/baby-bitcoin/internal/flow"
	"github.com/rcliao/baby-bitcoin/internal/model"
)

func init() {
	remoteCmd := &cobra.Command{
		Use:   "remote",
		Short: "Work with the optional remote transactions table",
	}

	listCmd := &cobra.Command{
		Use:   "list",
		Short: "List remote transactions",
		Run:   runRemoteList,
	}

	pushCmd := &cobra.Command{
		Use:   "push",
		Short: "Upload local transactions missing from the remote table",
		Run:   runRemotePush,
	}
	pushCmd.Flags().Bool("dry-run", false, "Only report what would be pushed")

	remoteCmd.AddCommand(listCmd, pushCmd)
	RootCmd.AddCommand(remoteCmd)
}

func newBackend() *backend.Client {
	c := backend.New(cfg.Backend.URL, cfg.Backend.Key, backend.WithLogger(slog.Default()))
	if !c.Configured() {
		exitErr("remote", fmt.Errorf("%w: set backend.url and backend.key or $%s", backend.ErrNotConfigured, config.EnvBackendURL))
	}
	return c
}

func runRemoteList(cmd *cobra.Command, args []string) {
	c := newBackend()
	txs, err := c.FetchAllTransactions(cmd.Context())
	if err != nil {
		exitErr("remote list", err)
	}

	w := cmd.OutOrStdout()
	if formatFlag == "json" {
		b, _ := json.MarshalIndent(txs, "", "  ")
		fmt.Fprintln(w, string(b))
		return
	}
	if len(txs) == 0 {
		fmt.Fprintln(w, "No remote transactions.")
		return
	}
	for _, tx := range txs {
		fmt.Fprintf(w, "%s  %s -> %s  %s 🍌  %s\n",
			tx.ID, tx.FromAddress.Glyphs(), tx.ToAddress.Glyphs(), flow.FormatAmount(tx.Amount), tx.Timestamp)
	}
}

// missing returns the local transactions whose ids the remote table lacks,
// in local order.
func missing(local, remote []model.Transaction) []model.Transaction {
	seen := make(map[string]bool, len(remote))
	for _, tx := range remote {
		seen[tx.ID] = true
	}
	var out []model.Transaction
	for _, tx := range local {
		if !seen[tx.ID] {
			out = append(out, tx)
		}
	}
	return out
}

func runRemotePush(cmd *cobra.Command, args []string) {
	dryRun, _ := cmd.Flags().GetBool("dry-run")

	c := newBackend()
	a := mustOpenApp(cmd)
	defer a.Close()

	remote, err := c.FetchAllTransactions(cmd.Context())
	if err != nil {
		exitErr("remote push", err)
	}
	todo := missing(a.ledger.All(), remote)

	pushed := 0
	for _, tx := range todo {
		if dryRun {
			fmt.Fprintf(cmd.OutOrStdout(), "would push %s\n", tx.ID)
			continue
		}
		if _, err := c.InsertTransaction(cmd.Context(), tx); err != nil {
			// Already logged by the client; keep going with the rest.
			continue
		}
		pushed++
	}
	fmt.Fprintf(cmd.OutOrStdout(), `{"pending":%d,"pushed":%d}`+"\n", len(todo), pushed)
}
