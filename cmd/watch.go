package cmd

import (
	"time"

	"github.com/radovskyb/watcher"
	"github.com/spf13/cobra"

	"github.com/orgpress/orgpress/internal/config"
	"github.com/orgpress/orgpress/internal/logging"
)

var watchCmd = &cobra.Command{
	Use:   "watch",
	Short: "Publish the site and re-publish on source changes",
	RunE: func(cmd *cobra.Command, args []string) error {
		conf, err := config.Load(cfgFile)
		if err != nil {
			return err
		}

		log := logging.New("watch")
		if err := publishOnce(cmd.Context(), conf); err != nil {
			// Keep watching; the next change may fix the failure.
			log.Error("publish failed", "err", err)
		}

		log.Info("watching for changes", "dir", conf.WritingDir)

		w := watcher.New()
		w.SetMaxEvents(1)

		go func() {
			for {
				select {
				case <-w.Event:
					if err := publishOnce(cmd.Context(), conf); err != nil {
						log.Error("publish failed", "err", err)
					}
				case err := <-w.Error:
					log.Error("watcher error", "err", err)
				case <-w.Closed:
					return
				case <-cmd.Context().Done():
					w.Close()
					return
				}
			}
		}()

		if err := w.AddRecursive(conf.WritingDir); err != nil {
			return err
		}
		return w.Start(200 * time.Millisecond)
	},
}

func init() {
	rootCmd.AddCommand(watchCmd)
}
