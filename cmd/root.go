// Package cmd holds the orgpress command-line interface.
package cmd

import (
	"os"

	"github.com/spf13/cobra"
)

var (
	cfgFile string
	force   bool
	workers int
	toc     bool
)

var rootCmd = &cobra.Command{
	Use:   "orgpress",
	Short: "orgpress publishes a directory of documents as a static site",
	Long: `orgpress walks a directory of markdown documents with YAML front
matter and emits a deployable website: one HTML page per document, a
chronological sitemap index, a full-content feed, static asset copies,
and redirect pages for legacy URLs.

Run without a subcommand to publish everything once.`,
	SilenceUsage: true,
}

// Execute runs the CLI. The process exits non-zero if any project in the
// publish run reports a failure.
func Execute() {
	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}

func init() {
	rootCmd.PersistentFlags().StringVar(&cfgFile, "config", "site.yaml", "path to the site configuration file")
	rootCmd.PersistentFlags().BoolVar(&force, "force", false, "re-render documents even when output is newer than source")
	rootCmd.PersistentFlags().IntVar(&workers, "workers", 0, "per-document worker count (0 = number of CPUs)")
	rootCmd.PersistentFlags().BoolVar(&toc, "toc", false, "emit a table of contents on rendered pages")
}
