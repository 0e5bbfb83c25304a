package cli

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"sort"
	"strings"
	"syscall"
	"time"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"MarketAdvisor/internal/collector"
	"MarketAdvisor/internal/store"
	"MarketAdvisor/internal/symbols"
)

const watchlistCategory = "Watchlist"

func addDataCommands(rootCmd *cobra.Command, app *App) {
	rootCmd.AddCommand(newSymbolsCmd(app))
	rootCmd.AddCommand(newCollectCmd(app))
	rootCmd.AddCommand(newImportCmd(app))
}

func newSymbolsCmd(app *App) *cobra.Command {
	return &cobra.Command{
		Use:   "symbols",
		Short: "List the stored series by category",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			refs, err := app.Store.Symbols()
			if err != nil {
				return err
			}
			out := cmd.OutOrStdout()
			if len(refs) == 0 {
				fmt.Fprintln(out, "no symbols stored")
				return nil
			}
			for _, r := range refs {
				fmt.Fprintf(out, "%s\t%s\n", r.Category, r.Symbol)
			}
			return nil
		},
	}
}

// universeFor resolves the --universe flag.
func universeFor(name string, st store.Lister, watchlist []string) (symbols.Universe, error) {
	switch name {
	case "default":
		return symbols.DefaultUniverse(), nil
	case "watchlist":
		if len(watchlist) == 0 {
			return nil, fmt.Errorf("watchlist.symbols is empty")
		}
		return watchlistUniverse(st, watchlist)
	default:
		return nil, fmt.Errorf("unknown universe %q (default or watchlist)", name)
	}
}

// watchlistUniverse files each watched ticker under the category it is
// already stored in, so a refresh replaces the series the loader resolves.
// New equities go to the Watchlist category.
func watchlistUniverse(st store.Lister, watchlist []string) (symbols.Universe, error) {
	refs, err := st.Symbols()
	if err != nil {
		return nil, fmt.Errorf("list stored symbols: %w", err)
	}
	known := make(map[string]string, len(refs))
	for _, r := range refs {
		key := strings.ToUpper(store.NormalizeSymbol(r.Symbol))
		if _, ok := known[key]; !ok {
			known[key] = r.Category
		}
	}

	u := symbols.Universe{}
	for cat, tickers := range symbols.FromWatchlist(watchlist, watchlistCategory) {
		for _, t := range tickers {
			target := cat
			if existing, ok := known[strings.ToUpper(store.NormalizeSymbol(t))]; ok {
				target = existing
			}
			u[target] = append(u[target], t)
		}
	}
	return u, nil
}

func signalContext() (context.Context, context.CancelFunc) {
	return signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
}

func newCollectCmd(app *App) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "collect",
		Short: "Download daily history from Yahoo Finance into the store",
		Example: `  advisor collect
  advisor collect --universe watchlist --days 730`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			name, _ := cmd.Flags().GetString("universe")
			days, _ := cmd.Flags().GetInt("days")
			manifestPath, _ := cmd.Flags().GetString("manifest")
			maxAge, _ := cmd.Flags().GetDuration("max-age")
			if days <= 0 {
				days = app.Config.Collector.Days
			}

			u, err := universeFor(name, app.Store, app.Config.Watchlist.Symbols)
			if err != nil {
				return err
			}

			c := collector.NewCollector(collector.NewYahooFetcher(app.Config.Proxy), app.Store, days)
			c.MaxAge = maxAge
			if manifestPath != "" {
				m, err := collector.LoadManifest(manifestPath)
				if err != nil {
					return fmt.Errorf("load manifest: %w", err)
				}
				c.Manifest = m
			}

			ctx, cancel := signalContext()
			defer cancel()
			report, runErr := c.Run(ctx, u)
			if manifestPath != "" {
				if err := collector.SaveManifest(manifestPath, c.Manifest); err != nil {
					zap.L().Error("save manifest", zap.String("path", manifestPath), zap.Error(err))
				}
			}
			if report != nil {
				printReport(cmd, report)
			}
			return runErr
		},
	}
	cmd.Flags().String("universe", "default", "default (all sectors and crypto) or watchlist")
	cmd.Flags().Int("days", 0, "bars to download per ticker (0 uses collector.days)")
	cmd.Flags().String("manifest", "", "JSON file recording per-ticker fetch state")
	cmd.Flags().Duration("max-age", 0, "skip tickers fetched successfully within this duration")
	return cmd
}

func printReport(cmd *cobra.Command, r *collector.Report) {
	out := cmd.OutOrStdout()
	fmt.Fprintf(out, "written %d, skipped %d, failed %d\n", r.Written, r.Skipped, len(r.Failed))
	tickers := make([]string, 0, len(r.Failed))
	for t := range r.Failed {
		tickers = append(tickers, t)
	}
	sort.Strings(tickers)
	for _, t := range tickers {
		fmt.Fprintf(out, "  %s: %v\n", t, r.Failed[t])
	}
}

func newImportCmd(app *App) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "import",
		Short: "Copy the CSV store into the SQLite store",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			from, _ := cmd.Flags().GetString("from")
			to, _ := cmd.Flags().GetString("to")
			if from == "" {
				from = app.Config.Store.DataDir
			}
			if to == "" {
				to = app.Config.Store.SQLitePath
			}

			db, err := store.NewSQLiteStore(to)
			if err != nil {
				return fmt.Errorf("open sqlite store: %w", err)
			}
			defer db.Close()

			start := time.Now()
			n, err := db.Import(store.NewCSVStore(from))
			if err != nil {
				return fmt.Errorf("import: %w", err)
			}
			fmt.Fprintf(cmd.OutOrStdout(), "imported %d series from %s into %s in %s\n",
				n, from, to, time.Since(start).Round(time.Millisecond))
			return nil
		},
	}
	cmd.Flags().String("from", "", "CSV store root (default store.data_dir)")
	cmd.Flags().String("to", "", "SQLite file (default store.sqlite_path)")
	return cmd
}
