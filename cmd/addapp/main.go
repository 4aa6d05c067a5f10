// Command addapp adds one app to the directory: it looks the app up in the
// catalog, gathers its screenshots and icon, and appends a record to the store.
package main

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"time"

	"github.com/lmittmann/tint"
	"github.com/spf13/cobra"

	"appshelf/internal/catalog"
	"appshelf/internal/config"
	"appshelf/internal/contextutil"
	"appshelf/internal/ingest"
	"appshelf/internal/storage"
	"appshelf/internal/store"
)

const httpTimeout = 60 * time.Second

type options struct {
	dir     string
	search  string
	color   string
	excerpt bool
}

func main() {
	initLogger(os.Stderr, slog.LevelInfo)

	cfg, err := config.Load()
	if err != nil {
		slog.Error("could not load configuration", "error", err)
		os.Exit(1)
	}
	initLogger(os.Stderr, cfg.LogLevel)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()

	if err := newRootCommand(cfg, os.Stdout).ExecuteContext(ctx); err != nil {
		slog.Error("could not add app", "error", err)
		stop()
		os.Exit(1)
	}
}

// initLogger installs a tint handler on w as the default logger.
func initLogger(w io.Writer, level slog.Level) {
	slog.SetDefault(slog.New(
		tint.NewHandler(w, &tint.Options{
			Level:      level,
			TimeFormat: time.Kitchen,
		}),
	))
}

func newRootCommand(cfg *config.Config, out io.Writer) *cobra.Command {
	var opts options

	cmd := &cobra.Command{
		Use:   "addapp --dir <folder> --search <query> [--color <hex>] [--excerpt]",
		Short: "Add an app to the directory",
		Long: `Looks up an app in the public catalog, uses the screenshots staged in
<assets>/<dir>/ (or downloads the catalog's screenshots when none are staged),
downloads the icon and appends a record to the store.`,
		Args:          cobra.NoArgs,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			// cobra already printed usage for flag errors; only usage errors repeat it.
			cmd.SilenceUsage = true
			err := run(cmd.Context(), cfg, opts, out)
			var usage *ingest.UsageError
			if errors.As(err, &usage) {
				cmd.PrintErrln(cmd.UsageString())
			}
			return err
		},
	}

	cmd.Flags().StringVar(&opts.dir, "dir", "", "folder name inside the assets directory; becomes the record id")
	cmd.Flags().StringVar(&opts.search, "search", "", "catalog search query (app name)")
	cmd.Flags().StringVar(&opts.color, "color", "", "accent color hex (default: picked from the category)")
	cmd.Flags().BoolVar(&opts.excerpt, "excerpt", false, "store a short excerpt instead of the full description")
	for _, name := range []string{"dir", "search"} {
		if err := cmd.MarkFlagRequired(name); err != nil {
			panic(err)
		}
	}
	return cmd
}

func run(ctx context.Context, cfg *config.Config, opts options, out io.Writer) error {
	var appender store.Appender
	switch cfg.StoreFormat {
	case "ts":
		appender = store.NewSourceStore(cfg.StorePath)
	default:
		appender = store.NewJSONStore(cfg.StorePath)
	}

	var ledger storage.RunStore
	db, err := storage.New(cfg.LedgerDBPath)
	if err == nil {
		err = storage.Migrate(db)
	}
	if err != nil {
		slog.Warn("ingestion ledger unavailable, continuing without it", "path", cfg.LedgerDBPath, "error", err)
	} else {
		defer func() {
			_ = db.Close()
		}()
		ledger = storage.NewRunRepo(db)
	}

	client := &http.Client{Timeout: httpTimeout}
	pipeline := ingest.NewPipeline(
		catalog.NewClient(cfg.CatalogBaseURL, cfg.CatalogCountry, client),
		ingest.NewDownloader(client, ingest.WithProgress(os.Stderr), ingest.WithInterval(cfg.DownloadInterval)),
		appender,
		ledger,
		cfg.AssetsDir,
		cfg.AssetsURLPrefix,
	)

	ctx = contextutil.WithLogger(ctx, slog.Default())
	summary, err := pipeline.Run(ctx, ingest.Request{
		Dir:     opts.dir,
		Search:  opts.search,
		Color:   opts.color,
		Excerpt: opts.excerpt,
	})
	if err != nil {
		return err
	}

	printSummary(out, summary, cfg.StorePath)
	return nil
}

func printSummary(w io.Writer, s ingest.Summary, storePath string) {
	source := "staged"
	if s.Downloaded {
		source = "downloaded from the catalog"
	}
	_, _ = fmt.Fprintf(w, "Added %q to %s\n", s.Name, storePath)
	_, _ = fmt.Fprintf(w, "   Category: %s\n", s.Category)
	_, _ = fmt.Fprintf(w, "   Screenshots: %d (%s)\n", s.Screenshots, source)
	_, _ = fmt.Fprintf(w, "   Accent: %s\n", s.AccentColor)
	_, _ = fmt.Fprintf(w, "   App Store ID: %d\n", s.AppStoreID)
}
