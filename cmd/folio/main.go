package main

import (
	"context"
	"encoding/json"
	"fmt"
	"log"
	"os"
	"os/signal"
	"strings"
	"syscall"
	"time"

	"folio/internal/config"
	"folio/internal/content"
	"folio/internal/listing"
	"folio/internal/pages"
	"folio/internal/render"
	"folio/internal/site"
	"folio/internal/storage"
	"folio/internal/theme"
	"folio/internal/watch"
	"folio/internal/web"

	"github.com/spf13/cobra"
)

var (
	rootCmd = &cobra.Command{
		Use:   "folio",
		Short: "Personal content site: posts, portfolio and pages",
	}
	configPath string
	dbPath     string
)

func main() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Println(err)
		os.Exit(1)
	}
}

func init() {
	rootCmd.PersistentFlags().StringVarP(&configPath, "config", "c", "config.yaml", "Path to the site configuration")
	rootCmd.PersistentFlags().StringVarP(&dbPath, "db", "d", "", "Path to the preference database (SQLite), overrides the config")

	serveCmd.Flags().String("addr", "", "Address to listen on, overrides the config")
	serveCmd.Flags().Bool("watch", false, "Reload the dataset when files in the data directory change")
	buildCmd.Flags().StringP("out", "o", "", "Output directory, overrides the config")
	renderCmd.Flags().StringP("format", "f", "html", "Output format: html or json")
	themeSetCmd.Flags().String("visitor", "", "Visitor id")
	themeGetCmd.Flags().String("visitor", "", "Visitor id")
	themePruneCmd.Flags().Int("days", 365, "Remove preferences untouched for this many days")

	themeCmd.AddCommand(themeGetCmd, themeSetCmd, themePruneCmd)
	rootCmd.AddCommand(serveCmd, buildCmd, renderCmd, tocCmd, searchCmd, themeCmd)
}

func loadConfig() *config.Config {
	cfg, err := config.LoadConfig(configPath)
	if err != nil {
		log.Fatalf("Failed to load config: %v", err)
	}
	if dbPath != "" {
		cfg.Storage.DBPath = dbPath
	}
	return cfg
}

// initStore opens the preference database.
func initStore(cfg *config.Config) *storage.SQLiteStore {
	store, err := storage.NewSQLiteStore(cfg.Storage.DBPath)
	if err != nil {
		log.Fatalf("Failed to initialize database: %v", err)
	}
	return store
}

func loadCatalog(cfg *config.Config) (*content.Catalog, error) {
	return content.LoadCatalog(cfg.Content.DataDir, cfg.Content.PostsFile, cfg.Content.PortfolioFile)
}

func loadPages(cfg *config.Config) *pages.Set {
	if cfg.Content.PagesDir == "" {
		return nil
	}
	set, err := pages.Load(os.DirFS(cfg.Content.PagesDir))
	if err != nil {
		log.Fatalf("Failed to load pages from %s: %v", cfg.Content.PagesDir, err)
	}
	return set
}

func serverOptions(cfg *config.Config, static bool) web.Options {
	return web.Options{
		SiteTitle:     cfg.Site.Title,
		Author:        cfg.Site.Author,
		BasePath:      cfg.Site.BasePath,
		IntroVideo:    cfg.Site.IntroID,
		BrowsePerPage: cfg.Listing.BrowsePerPage,
		SearchPerPage: cfg.Listing.SearchPerPage,
		Render:        cfg.RenderOptions(),
		Static:        static,
	}
}

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Serve the site",
	Run: func(cmd *cobra.Command, args []string) {
		cfg := loadConfig()
		if addr, _ := cmd.Flags().GetString("addr"); addr != "" {
			cfg.Server.Addr = addr
		}

		ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
		defer stop()

		// 1. Dataset
		fmt.Printf("📂 Loading dataset from %s\n", cfg.Content.DataDir)
		catalog, err := loadCatalog(cfg)
		if err != nil {
			log.Fatalf("Failed to load dataset: %v", err)
		}
		fmt.Printf("✅ Loaded %d posts and %d portfolio items.\n", len(catalog.Posts()), len(catalog.Portfolios()))

		// 2. Preferences
		store := initStore(cfg)
		defer store.Close()

		srv, err := web.New(serverOptions(cfg, false), catalog, loadPages(cfg), theme.NewService(store))
		if err != nil {
			log.Fatalf("Failed to create server: %v", err)
		}

		// 3. Watcher
		if watchData, _ := cmd.Flags().GetBool("watch"); watchData {
			w := watch.New(func() error {
				c, err := loadCatalog(cfg)
				if err != nil {
					return err
				}
				srv.SetCatalog(c)
				return nil
			}, cfg.Content.DataDir)
			if err := w.Start(ctx); err != nil {
				log.Fatalf("Failed to create file watcher: %v", err)
			}
			fmt.Printf("👀 Watching %s for changes\n", cfg.Content.DataDir)
		}

		if err := srv.Run(ctx, cfg.Server.Addr); err != nil {
			log.Fatalf("Server error: %v", err)
		}
	},
}

var buildCmd = &cobra.Command{
	Use:   "build",
	Short: "Export the site as static files",
	Run: func(cmd *cobra.Command, args []string) {
		cfg := loadConfig()
		if out, _ := cmd.Flags().GetString("out"); out != "" {
			cfg.Build.OutputDir = out
		}

		catalog, err := loadCatalog(cfg)
		if err != nil {
			log.Fatalf("Failed to load dataset: %v", err)
		}
		srv, err := web.New(serverOptions(cfg, true), catalog, loadPages(cfg), nil)
		if err != nil {
			log.Fatalf("Failed to create server: %v", err)
		}

		fmt.Printf("🚀 Exporting site to %s\n", cfg.Build.OutputDir)
		start := time.Now()
		report, err := site.Build(cmd.Context(), srv, cfg.Build.OutputDir)
		if err != nil {
			log.Fatalf("Build failed: %v", err)
		}
		for _, s := range report.Signals {
			fmt.Printf("  ⚠️  [%s] %s %s: %s\n", s.Severity, s.Code, s.Subject, s.Message)
		}
		fmt.Printf("🎉 Exported %d files in %v. Report: %s\n", report.Summary.PageCount, time.Since(start).Round(time.Millisecond), site.ReportFile)
	},
}

var renderCmd = &cobra.Command{
	Use:   "render <post-id|portfolio-slug>",
	Short: "Render one document to stdout",
	Args:  cobra.ExactArgs(1),
	Run: func(cmd *cobra.Command, args []string) {
		cfg := loadConfig()
		doc, rendered := lookup(cfg, args[0])

		format, _ := cmd.Flags().GetString("format")
		switch strings.ToLower(format) {
		case "json":
			enc := json.NewEncoder(os.Stdout)
			enc.SetIndent("", "  ")
			if err := enc.Encode(web.DocumentResponse{Document: doc, Rendered: rendered}); err != nil {
				log.Fatalf("Failed to encode document: %v", err)
			}
		case "html":
			for _, s := range rendered.Sections {
				fmt.Printf("<h2 id=%q>%s</h2>\n", s.Entry.Anchor, s.Entry.Title)
				if err := render.WriteHTML(os.Stdout, s.Nodes); err != nil {
					log.Fatalf("Failed to render section %q: %v", s.Entry.Title, err)
				}
				fmt.Println()
			}
		default:
			log.Fatalf("Unknown format %q (want html or json)", format)
		}
	},
}

var tocCmd = &cobra.Command{
	Use:   "toc <post-id|portfolio-slug>",
	Short: "Print a document's table of contents",
	Args:  cobra.ExactArgs(1),
	Run: func(cmd *cobra.Command, args []string) {
		cfg := loadConfig()
		_, rendered := lookup(cfg, args[0])
		for _, e := range rendered.TOC {
			fmt.Printf("%s%s) %s  #%s\n", strings.Repeat("  ", e.Depth), e.Number, e.Title, e.Anchor)
		}
	},
}

func lookup(cfg *config.Config, key string) (content.Document, render.Rendered) {
	catalog, err := loadCatalog(cfg)
	if err != nil {
		log.Fatalf("Failed to load dataset: %v", err)
	}
	doc, err := catalog.Lookup(key)
	if err != nil {
		log.Fatalf("Document %q: %v", key, err)
	}
	return doc, doc.Render(render.New(cfg.RenderOptions()))
}

var searchCmd = &cobra.Command{
	Use:   "search <query>",
	Short: "Search posts by title, subcategory and subject",
	Args:  cobra.MinimumNArgs(1),
	Run: func(cmd *cobra.Command, args []string) {
		cfg := loadConfig()
		catalog, err := loadCatalog(cfg)
		if err != nil {
			log.Fatalf("Failed to load dataset: %v", err)
		}
		query := strings.Join(args, " ")
		hits := listing.Search(catalog.Posts(), query)
		if len(hits) == 0 {
			fmt.Println("No results found.")
			return
		}
		for _, p := range hits {
			fmt.Printf("%4d  %-40s %s / %s\n", p.ID, p.Title, p.Subcategory, p.Subject)
		}
	},
}

var themeCmd = &cobra.Command{
	Use:   "theme",
	Short: "Inspect and manage stored theme preferences",
}

func visitorFlag(cmd *cobra.Command) string {
	v, _ := cmd.Flags().GetString("visitor")
	if v == "" {
		log.Fatalf("--visitor is required")
	}
	return v
}

var themeGetCmd = &cobra.Command{
	Use:   "get",
	Short: "Print a visitor's theme",
	Run: func(cmd *cobra.Command, args []string) {
		cfg := loadConfig()
		store := initStore(cfg)
		defer store.Close()

		t, err := theme.NewService(store).Current(cmd.Context(), visitorFlag(cmd))
		if err != nil {
			log.Fatalf("Failed to read theme: %v", err)
		}
		fmt.Println(t)
	},
}

var themeSetCmd = &cobra.Command{
	Use:   "set <light|dark>",
	Short: "Store a visitor's theme",
	Args:  cobra.ExactArgs(1),
	Run: func(cmd *cobra.Command, args []string) {
		t, err := theme.Parse(args[0])
		if err != nil {
			log.Fatalf("%v", err)
		}
		cfg := loadConfig()
		store := initStore(cfg)
		defer store.Close()

		if err := theme.NewService(store).Set(cmd.Context(), visitorFlag(cmd), t); err != nil {
			log.Fatalf("Failed to save theme: %v", err)
		}
		fmt.Printf("✅ Theme set to %s\n", t)
	},
}

var themePruneCmd = &cobra.Command{
	Use:   "prune",
	Short: "Delete preferences of visitors not seen recently",
	Run: func(cmd *cobra.Command, args []string) {
		days, _ := cmd.Flags().GetInt("days")
		cfg := loadConfig()
		store := initStore(cfg)
		defer store.Close()

		n, err := store.PruneBefore(cmd.Context(), time.Now().AddDate(0, 0, -days))
		if err != nil {
			log.Fatalf("Failed to prune preferences: %v", err)
		}
		fmt.Printf("🧹 Removed %d preference rows.\n", n)
	},
}
