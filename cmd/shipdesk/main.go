// Command shipdesk runs the order-email extraction and stock pipeline from
// the command line. Messages are ingested from JSON dumps (envelope + part
// tree), orders and the stock ledger live in a local SQLite file.
package main

import (
	"encoding/json"
	"fmt"
	"io"
	"os"
	"strconv"

	"github.com/spf13/cobra"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"

	"github.com/shipdesk/shipdesk/internal/config"
	"github.com/shipdesk/shipdesk/internal/store"
	"github.com/shipdesk/shipdesk/pkg/pipeline"
	"github.com/shipdesk/shipdesk/pkg/stores"
)

func main() {
	if err := newRootCmd().Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

// app carries the wired dependencies for all subcommands.
type app struct {
	cfg *config.Config
	log *zap.Logger
	db  *store.SQLiteStore
	pl  *pipeline.Pipeline
}

func (a *app) setup() error {
	cfg, err := config.Load()
	if err != nil {
		return err
	}
	a.cfg = cfg

	a.log, err = newLogger(cfg.Log)
	if err != nil {
		return err
	}

	a.db, err = store.NewSQLiteStoreWithDSN(cfg.Database.Path)
	if err != nil {
		return err
	}

	if cfg.Stores.SeedPath != "" {
		cfgs, err := stores.LoadSeed(cfg.Stores.SeedPath)
		if err != nil {
			return err
		}
		if err := a.db.SetStoreConfigs(cfgs); err != nil {
			return err
		}
	}
	storeCfgs, err := a.db.StoreConfigs()
	if err != nil {
		return err
	}

	reg := stores.NewRegistry(storeCfgs)
	reg.SetFallback(cfg.Stores.DefaultStore)

	a.pl = pipeline.New(a.db, reg, a.log)
	return nil
}

func (a *app) teardown() {
	if a.db != nil {
		_ = a.db.Close()
	}
	if a.log != nil {
		_ = a.log.Sync()
	}
}

func newLogger(cfg config.LogConfig) (*zap.Logger, error) {
	var level zapcore.Level
	if err := level.Set(cfg.Level); err != nil {
		return nil, fmt.Errorf("log level: %w", err)
	}
	zc := zap.NewProductionConfig()
	if cfg.Format == "console" {
		zc = zap.NewDevelopmentConfig()
	}
	zc.Level = zap.NewAtomicLevelAt(level)
	return zc.Build()
}

func newRootCmd() *cobra.Command {
	a := &app{}

	root := &cobra.Command{
		Use:           "shipdesk",
		Short:         "Extract orders from store emails and reconcile stock",
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			return a.setup()
		},
		PersistentPostRun: func(cmd *cobra.Command, args []string) {
			a.teardown()
		},
	}

	root.AddCommand(
		newIngestCmd(a),
		newManualCmd(a),
		newOrdersCmd(a),
		newCommitCmd(a),
		newCancelCmd(a),
		newConvertCmd(a),
		newResolveCmd(a),
		newHistoryCmd(a),
	)
	return root
}

func newIngestCmd(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "ingest <message.json>...",
		Short: "Extract orders from message dumps and merge them into the store",
		Args:  cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			var msgs []pipeline.Message
			for _, path := range args {
				raw, err := os.ReadFile(path)
				if err != nil {
					return err
				}
				var msg pipeline.Message
				if err := json.Unmarshal(raw, &msg); err != nil {
					return fmt.Errorf("decode %s: %w", path, err)
				}
				msgs = append(msgs, msg)
			}

			n, err := a.pl.IngestBatch(msgs)
			if err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "extracted %d orders from %d messages\n", n, len(msgs))
			return nil
		},
	}
}

func newManualCmd(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "manual [file]",
		Short: "Create a manual order from pasted text (file or stdin)",
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			var raw []byte
			var err error
			if len(args) == 1 {
				raw, err = os.ReadFile(args[0])
			} else {
				raw, err = io.ReadAll(cmd.InOrStdin())
			}
			if err != nil {
				return err
			}
			return a.pl.IngestSelection(string(raw))
		},
	}
}

func newOrdersCmd(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "orders",
		Short: "List stored orders",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			orders, err := a.pl.Orders()
			if err != nil {
				return err
			}
			for _, o := range orders {
				status := ""
				if o.Cancelled() {
					status = " [cancelled]"
				}
				fmt.Fprintf(cmd.OutOrStdout(), "%s  %s  %d item(s)%s\n",
					o.ID, o.Date.Format("2006-01-02"), len(o.Items), status)
				for _, it := range o.Items {
					fmt.Fprintf(cmd.OutOrStdout(), "    %dx %s\n", it.Qty, it.Name)
				}
			}
			return nil
		},
	}
}

func newCommitCmd(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "commit",
		Short: "Decrement stock for all active orders and record ledger entries",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			unresolved, err := a.pl.CommitOrders()
			if err != nil {
				return err
			}
			for _, u := range unresolved {
				fmt.Fprintf(cmd.OutOrStdout(), "unresolved: %q (order %s, qty %d)\n", u.Item, u.OrderID, u.Qty)
			}
			if len(unresolved) > 0 {
				fmt.Fprintln(cmd.OutOrStdout(), "resolve these with `shipdesk resolve` and commit again")
			}
			return nil
		},
	}
}

func newCancelCmd(a *app) *cobra.Command {
	var restock bool
	cmd := &cobra.Command{
		Use:   "cancel <order-id>",
		Short: "Soft-cancel an order, optionally returning its items to stock",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return a.pl.CancelOrder(args[0], restock)
		},
	}
	cmd.Flags().BoolVar(&restock, "restock", false, "return matched items to stock")
	return cmd
}

func newConvertCmd(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "convert <family-id> <source-variant> <target-variant> <take> <add>",
		Short: "Move stock between two variants of a family",
		Args:  cobra.ExactArgs(5),
		RunE: func(cmd *cobra.Command, args []string) error {
			take, err := strconv.Atoi(args[3])
			if err != nil {
				return fmt.Errorf("take: %w", err)
			}
			add, err := strconv.Atoi(args[4])
			if err != nil {
				return fmt.Errorf("add: %w", err)
			}
			return a.pl.ConvertStock(args[0], args[1], args[2], take, add)
		},
	}
}

func newResolveCmd(a *app) *cobra.Command {
	var createVariant bool
	cmd := &cobra.Command{
		Use:   "resolve <item-name> <family-id> <variant>",
		Short: "Teach inventory that an item name belongs to a family variant",
		Args:  cobra.ExactArgs(3),
		RunE: func(cmd *cobra.Command, args []string) error {
			return a.pl.ResolveItem(args[0], args[1], args[2], createVariant)
		},
	}
	cmd.Flags().BoolVar(&createVariant, "create-variant", false, "create the variant at zero stock if missing")
	return cmd
}

func newHistoryCmd(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "history",
		Short: "Show the stock ledger",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			entries, err := a.pl.History()
			if err != nil {
				return err
			}
			for _, e := range entries {
				fmt.Fprintf(cmd.OutOrStdout(), "%s  %s/%s  %+d  %s\n",
					e.Date.Format("2006-01-02 15:04"), e.FamilyID, e.Variant, e.Delta, e.Reason)
			}
			return nil
		},
	}
}
