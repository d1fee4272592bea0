package main

import (
	"fmt"
	"io"

	"github.com/jedib0t/go-pretty/v6/table"
	"github.com/spf13/cobra"

	"github.com/IshaanNene/newsbot/internal/config"
)

// sitesCmd creates the "sites" subcommand listing the built-in presets.
func sitesCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "sites",
		Short: "List built-in site presets",
		Run: func(cmd *cobra.Command, args []string) {
			renderSites(cmd.OutOrStdout())
		},
	}
}

func renderSites(w io.Writer) {
	t := table.NewWriter()
	t.SetOutputMirror(w)
	t.AppendHeader(table.Row{"Preset", "Base URL", "Search phrase", "Category", "Articles"})
	for _, name := range config.PresetNames() {
		p, _ := config.Preset(name)
		category := p.CategoryURL
		if category == "" {
			category = p.Selectors.CategoryLink
		}
		articles := p.Selectors.Article
		if articles == "" {
			articles = "(single page) " + p.ArticleURL
		}
		t.AppendRow(table.Row{name, p.BaseURL, p.SearchPhrase, category, articles})
	}
	t.SetStyle(table.StyleRounded)
	t.Render()
}

// configCmd creates the "config" subcommand for inspecting configuration.
func configCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "config",
		Short: "Show current configuration",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := config.Load(cfgFile)
			if err != nil {
				return err
			}
			printConfig(cmd.OutOrStdout(), cfg)
			return nil
		},
	}
}

func printConfig(w io.Writer, cfg *config.Config) {
	s := cfg.Site
	fmt.Fprintf(w, "Site:\n")
	fmt.Fprintf(w, "  Preset:            %s\n", s.Preset)
	fmt.Fprintf(w, "  Base URL:          %s\n", s.BaseURL)
	fmt.Fprintf(w, "  Category URL:      %s\n", s.CategoryURL)
	fmt.Fprintf(w, "  Article URL:       %s\n", s.ArticleURL)
	fmt.Fprintf(w, "  Search Phrase:     %s\n", s.SearchPhrase)
	fmt.Fprintf(w, "  Search Wait:       %s\n", s.SearchWait)
	fmt.Fprintf(w, "\nSelectors:\n")
	fmt.Fprintf(w, "  Search Input:      %s\n", s.Selectors.SearchInput)
	fmt.Fprintf(w, "  Category Link:     %s\n", s.Selectors.CategoryLink)
	fmt.Fprintf(w, "  Article:           %s\n", s.Selectors.Article)
	fmt.Fprintf(w, "  Title:             %s\n", s.Selectors.Title)
	fmt.Fprintf(w, "  Date:              %s\n", s.Selectors.Date)
	fmt.Fprintf(w, "  Description:       %s\n", s.Selectors.Description)
	fmt.Fprintf(w, "  Image:             %s [%s]\n", s.Selectors.Image, s.Selectors.ImageAttribute)
	fmt.Fprintf(w, "\nBrowser:\n")
	fmt.Fprintf(w, "  Driver:            %s\n", cfg.Browser.Driver)
	fmt.Fprintf(w, "  Headless:          %v\n", cfg.Browser.Headless)
	fmt.Fprintf(w, "  Stealth:           %v\n", cfg.Browser.Stealth)
	fmt.Fprintf(w, "  Step Timeout:      %s\n", cfg.Browser.StepTimeout)
	fmt.Fprintf(w, "  Page Load Timeout: %s\n", cfg.Browser.PageLoadTimeout)
	fmt.Fprintf(w, "  Run Deadline:      %s\n", cfg.Browser.RunDeadline)
	fmt.Fprintf(w, "\nOutput:\n")
	fmt.Fprintf(w, "  Format:            %s\n", cfg.Output.Format)
	fmt.Fprintf(w, "  Path:              %s\n", cfg.Output.Path)
	fmt.Fprintf(w, "  Image Dir:         %s\n", cfg.Output.ImageDir)
	fmt.Fprintf(w, "  Mongo Mirror:      %v\n", cfg.Output.MongoURI != "")
	fmt.Fprintf(w, "\nLogging:\n")
	fmt.Fprintf(w, "  File:              %s (%s)\n", cfg.Logging.File, cfg.Logging.Level)
	fmt.Fprintf(w, "  Console Level:     %s\n", cfg.Logging.ConsoleLevel)
}
