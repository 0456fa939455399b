// Package cli implements the baby-bitcoin CLI commands.
package cli

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"os"

	"github.com/spf13/cobra"

	"github.com/rcliao/baby-bitcoin/internal/catalog"
	"github.com/rcliao/baby-bitcoin/internal/config"
	"github.com/rcliao/baby-bitcoin/internal/flow"
	"github.com/rcliao/baby-bitcoin/internal/ledger"
	"github.com/rcliao/baby-bitcoin/internal/session"
	"github.com/rcliao/baby-bitcoin/internal/store"
	"github.com/rcliao/baby-bitcoin/internal/view"
)

var (
	dbPath     string
	configPath string
	formatFlag string
	verbose    bool
	instant    bool

	cfg config.Config
)

// RootCmd is the top-level command.
var RootCmd = &cobra.Command{
	Use:   "baby-bitcoin",
	Short: "Tell a secret story, get a fruit wallet",
	Long: "A story toy: pick an animal, a home and a favorite thing to derive a secret " +
		"value and a three-fruit public address, then send pretend bananas. SQLite-backed, single binary.",
	SilenceUsage: true,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		if formatFlag != "json" && formatFlag != "text" {
			return fmt.Errorf("invalid format %q: must be json or text", formatFlag)
		}
		loaded, err := config.Load(config.Path(configPath))
		if err != nil {
			return err
		}
		if dbPath != "" {
			loaded.DB = dbPath
		}
		cfg = loaded

		level, _ := cfg.Level()
		if verbose {
			level = slog.LevelDebug
		}
		handler := slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: level})
		slog.SetDefault(slog.New(handler))
		return nil
	},
}

func init() {
	RootCmd.PersistentFlags().StringVarP(&dbPath, "db", "d", "", "Database path (default: $BABY_BITCOIN_DB or ~/.baby-bitcoin/wallet.db)")
	RootCmd.PersistentFlags().StringVarP(&configPath, "config", "c", "", "Config file (default: $BABY_BITCOIN_CONFIG or ~/.baby-bitcoin/config.yaml)")
	RootCmd.PersistentFlags().StringVarP(&formatFlag, "format", "f", "text", "Output format: json or text")
	RootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "Debug logging")
	RootCmd.PersistentFlags().BoolVar(&instant, "instant", false, "Skip the settle pauses between steps")
}

// app is one opened wallet: storage, stores and a started controller.
type app struct {
	records *store.SQLiteStore
	ledger  *ledger.Ledger
	ctrl    *flow.Controller
}

func openApp(ctx context.Context) (*app, error) {
	records, err := store.NewSQLiteStore(cfg.DB)
	if err != nil {
		return nil, err
	}

	logger := slog.Default()
	catalogs := catalog.Default()
	l, err := ledger.Open(ctx, records, ledger.WithLogger(logger))
	if err != nil {
		records.Close()
		return nil, err
	}

	var delayer flow.Delayer = flow.Sleep{}
	if instant {
		delayer = flow.NoDelay{}
	}

	ctrl := flow.New(flow.Config{
		Sessions: session.NewStore(records, catalogs, cfg.TTL(), logger),
		Ledger:   l,
		Catalogs: catalogs,
		Delayer:  delayer,
		Delays:   cfg.FlowDelays(),
		Logger:   logger,
	})
	ctrl.Start(ctx)

	return &app{records: records, ledger: l, ctrl: ctrl}, nil
}

func (a *app) Close() error {
	return a.records.Close()
}

func (a *app) viewOptions() view.Options {
	return view.Options{Catalogs: a.ctrl.Catalogs(), BalanceCap: a.ctrl.BalanceCap()}
}

// render writes the controller's current page in the selected format.
func (a *app) render(w io.Writer) {
	st := a.ctrl.Snapshot()
	txs := a.ctrl.Transactions()
	if formatFlag == "json" {
		if err := view.JSON(w, st, txs); err != nil {
			exitErr("render", err)
		}
		return
	}
	view.Render(w, st, txs, a.viewOptions())
}

func mustOpenApp(cmd *cobra.Command) *app {
	a, err := openApp(cmd.Context())
	if err != nil {
		exitErr("open wallet", err)
	}
	return a
}

func exitErr(msg string, err error) {
	fmt.Fprintf(os.Stderr, "error: %s: %v\n", msg, err)
	os.Exit(1)
}
