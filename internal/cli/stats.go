package cli

import (
	"encoding/json"
	"fmt"
	"log/slog"

	"github.com/dustin/go-humanize"
	"github.com/spf13/cobra"

	"github.com/rcliao/baby-bitcoin/internal/store"
)

func init() {
	cmd := &cobra.Command{
		Use:   "stats",
		Short: "Show database statistics",
		Run:   runStats,
	}
	cmd.Flags().Bool("purge", false, "Delete expired records first")

	RootCmd.AddCommand(cmd)
}

type walletStats struct {
	*store.Stats
	LoggedIn     bool `json:"logged_in"`
	Transactions int  `json:"transactions"`
}

func runStats(cmd *cobra.Command, args []string) {
	purge, _ := cmd.Flags().GetBool("purge")

	a := mustOpenApp(cmd)
	defer a.Close()

	if purge {
		n, err := a.records.Purge(cmd.Context())
		if err != nil {
			exitErr("purge", err)
		}
		slog.Info("purged expired records", "count", n)
	}

	st, err := a.records.Stats(cmd.Context(), cfg.DB)
	if err != nil {
		exitErr("stats", err)
	}
	ws := walletStats{Stats: st, LoggedIn: a.ctrl.Snapshot().LoggedIn, Transactions: a.ledger.Len()}

	w := cmd.OutOrStdout()
	if formatFlag == "json" {
		b, _ := json.MarshalIndent(ws, "", "  ")
		fmt.Fprintln(w, string(b))
		return
	}

	fmt.Fprintf(w, "Database:     %s (%s)\n", ws.DBPath, humanize.Bytes(uint64(ws.DBSizeBytes)))
	fmt.Fprintf(w, "Records:      %d (%d expired)\n", ws.TotalRecords, ws.ExpiredRecords)
	fmt.Fprintf(w, "Logged in:    %t\n", ws.LoggedIn)
	fmt.Fprintf(w, "Transactions: %d\n", ws.Transactions)
	for _, k := range ws.Keys {
		line := fmt.Sprintf("  %-20s %s, updated %s", k.Key, humanize.Bytes(uint64(k.ValueBytes)), k.UpdatedAt)
		if k.ExpiresAt != "" {
			line += ", expires " + k.ExpiresAt
		}
		fmt.Fprintln(w, line)
	}
}
