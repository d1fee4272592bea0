package main

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"os/signal"
	"strings"
	"syscall"
	"time"

	"github.com/spf13/cobra"

	"github.com/IshaanNene/newsbot/internal/browser"
	"github.com/IshaanNene/newsbot/internal/config"
	"github.com/IshaanNene/newsbot/internal/logging"
	"github.com/IshaanNene/newsbot/internal/media"
	"github.com/IshaanNene/newsbot/internal/observability"
	"github.com/IshaanNene/newsbot/internal/scraper"
	"github.com/IshaanNene/newsbot/internal/storage"
)

var (
	cfgFile    string
	verbose    bool
	siteName   string
	phrase     string
	driverName string
	outputPath string
	format     string
)

func main() {
	rootCmd := &cobra.Command{
		Use:   "newsbot",
		Short: "newsbot scrapes news articles into a spreadsheet",
		Long: `newsbot opens a news site in a browser, searches for a phrase, moves to a
category listing and exports every article's title, date, description and
lead image to a spreadsheet.

Sites are described by selector sets. Run "newsbot sites" for the built-in presets.`,
		SilenceUsage: true,
	}

	rootCmd.PersistentFlags().StringVarP(&cfgFile, "config", "c", "", "config file path")
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "enable debug logging on the console")

	rootCmd.AddCommand(runCmd())
	rootCmd.AddCommand(sitesCmd())
	rootCmd.AddCommand(configCmd())
	rootCmd.AddCommand(versionCmd())

	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}

// runCmd creates the "run" subcommand.
func runCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "run",
		Short: "Run the scraper once",
		Args:  cobra.NoArgs,
		RunE:  runScrape,
	}

	cmd.Flags().StringVarP(&siteName, "site", "s", "", "site preset to scrape")
	cmd.Flags().StringVarP(&phrase, "phrase", "p", "", "search phrase")
	cmd.Flags().StringVarP(&driverName, "driver", "d", "", "browser driver: rod, static")
	cmd.Flags().StringVarP(&outputPath, "output", "o", "", "output file path")
	cmd.Flags().StringVarP(&format, "format", "f", "", "output format: xlsx, csv")

	return cmd
}

// runScrape executes the run command.
func runScrape(cmd *cobra.Command, args []string) error {
	cfg, err := loadConfig()
	if err != nil {
		return err
	}

	logger, closeLog, err := logging.New(cfg.Logging, os.Stdout)
	if err != nil {
		return fmt.Errorf("setup logging: %w", err)
	}
	defer func() {
		if err := closeLog(); err != nil {
			fmt.Fprintf(os.Stderr, "close log file: %v\n", err)
		}
	}()

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()
	if cfg.Browser.RunDeadline > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, cfg.Browser.RunDeadline)
		defer cancel()
	}

	stats := observability.NewRunStats(logger)

	driver, err := browser.New(cfg, logger)
	if err != nil {
		logger.Error("failed to start browser", "driver", cfg.Browser.Driver, "error", err)
		return fmt.Errorf("create driver: %w", err)
	}

	// Closing a file store writes it, so on failure only the driver is released.
	store, err := buildStorage(ctx, cfg, logger)
	if err != nil {
		logger.Error("failed to create storage", "error", err)
		_ = driver.Close()
		return err
	}

	images := media.NewDownloader(cfg.Output.ImageDir, cfg.Output.ImageTimeout, logger, media.WithStats(stats))

	s := scraper.New(cfg.Site, driver, images, store, logger)
	s.SetStats(stats)

	start := time.Now()
	runErr := s.Run(ctx)
	elapsed := time.Since(start)

	stats.Log()
	fmt.Println()
	stats.Render(os.Stdout)

	if runErr != nil {
		fmt.Printf("\n❌ Run failed after %s: %v\n", elapsed.Round(time.Millisecond), runErr)
		return runErr
	}

	fmt.Printf("\n✅ Run complete in %s\n", elapsed.Round(time.Millisecond))
	fmt.Printf("   Output:    %s\n", cfg.Output.Path)
	fmt.Printf("   Images:    %s\n", cfg.Output.ImageDir)
	return nil
}

// loadConfig loads the configuration and applies command-line overrides.
func loadConfig() (*config.Config, error) {
	cfg, err := config.Load(cfgFile)
	if err != nil {
		return nil, fmt.Errorf("load config: %w", err)
	}

	applyCLIOverrides(cfg)

	if err := config.Finalize(cfg); err != nil {
		return nil, fmt.Errorf("invalid config: %w", err)
	}
	if err := config.Validate(cfg); err != nil {
		return nil, fmt.Errorf("invalid config: %w", err)
	}
	return cfg, nil
}

// applyCLIOverrides applies command-line flag values to the config.
func applyCLIOverrides(cfg *config.Config) {
	// Load already merged the configured preset; switching sites starts
	// from the new preset alone.
	if siteName != "" && siteName != cfg.Site.Preset {
		cfg.Site = config.SiteConfig{Preset: siteName}
	}
	if phrase != "" {
		cfg.Site.SearchPhrase = phrase
	}
	if driverName != "" {
		cfg.Browser.Driver = strings.ToLower(driverName)
	}
	if outputPath != "" {
		cfg.Output.Path = outputPath
	}
	if format != "" {
		cfg.Output.Format = strings.ToLower(format)
	}
	if verbose {
		cfg.Logging.ConsoleLevel = "debug"
	}
}

// buildStorage creates the file sink and, when a Mongo URI is configured,
// mirrors records to MongoDB as well.
func buildStorage(ctx context.Context, cfg *config.Config, logger *slog.Logger) (storage.Storage, error) {
	file, err := storage.NewFileStorage(cfg.Output.Format, cfg.Output.Path, logger)
	if err != nil {
		return nil, fmt.Errorf("create storage: %w", err)
	}
	if cfg.Output.MongoURI == "" {
		return file, nil
	}

	mongo, err := storage.NewMongoStorage(ctx, cfg.Output.MongoURI, cfg.Output.MongoDatabase, cfg.Output.MongoCollection, logger)
	if err != nil {
		return nil, fmt.Errorf("create mongo mirror: %w", err)
	}
	return storage.NewMultiStorage([]storage.Storage{file, mongo}, logger), nil
}

// versionCmd creates the "version" subcommand.
func versionCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "version",
		Short: "Print version information",
		Run: func(cmd *cobra.Command, args []string) {
			fmt.Printf("newsbot %s\n", config.Version)
		},
	}
}
