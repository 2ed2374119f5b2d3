package cmd

import (
	"context"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/orgpress/orgpress/internal/config"
	"github.com/orgpress/orgpress/internal/site"
)

var publishCmd = &cobra.Command{
	Use:   "publish",
	Short: "Publish the whole site once",
	RunE:  runPublish,
}

func runPublish(cmd *cobra.Command, args []string) error {
	conf, err := config.Load(cfgFile)
	if err != nil {
		return err
	}
	return publishOnce(cmd.Context(), conf)
}

func publishOnce(ctx context.Context, conf *config.SiteConf) error {
	s, err := site.New(conf, site.GlobalOptions{
		Force:       force,
		TOC:         toc,
		SmartQuotes: true,
		Workers:     workers,
	})
	if err != nil {
		return err
	}

	report := s.PublishAll(ctx)
	fmt.Print(report.Summary())
	if !report.Ok() {
		return fmt.Errorf("publish finished with %d failure(s)", report.FailureCount())
	}
	return nil
}

func init() {
	rootCmd.AddCommand(publishCmd)
	rootCmd.RunE = runPublish
}
