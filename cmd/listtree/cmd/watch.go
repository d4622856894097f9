package cmd

import (
	"fmt"
	"time"

	"github.com/dgallion1/listtree/internal/render"
	"github.com/dgallion1/listtree/internal/watch"
	"github.com/spf13/cobra"
)

func newWatchCmd() *cobra.Command {
	var in inputFlags
	var out outputFlags
	var debounce time.Duration

	cmd := &cobra.Command{
		Use:   "watch <file>",
		Short: "Re-print a file's tree every time it changes",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			format, err := render.ParseFormat(out.format)
			if err != nil {
				return err
			}
			if _, err := in.options(); err != nil {
				return err
			}
			path := args[0]
			log := loggerFrom(cmd.Context()).With("file", path)

			show := func() {
				tree, opts, err := in.load(cmd, path)
				if err != nil {
					log.Warn("reload failed", "error", err)
					return
				}
				w := cmd.OutOrStdout()
				fmt.Fprintf(w, "--- %s %s\n", path, time.Now().Format(time.TimeOnly))
				if err := render.Render(w, tree, format, render.Options{Outline: opts, ShowTitle: out.showTitle}); err != nil {
					log.Error("render failed", "error", err)
				}
			}
			show()

			wt, err := watch.New(log)
			if err != nil {
				return fmt.Errorf("start watcher: %w", err)
			}
			defer wt.Stop()
			wt.Debounce = debounce

			changes := make(chan struct{}, 1)
			if err := wt.Watch(path, func(string) {
				select {
				case changes <- struct{}{}:
				default:
				}
			}); err != nil {
				return fmt.Errorf("watch %s: %w", path, err)
			}
			log.Info("watching for changes")

			for {
				select {
				case <-cmd.Context().Done():
					return nil
				case <-changes:
					show()
				}
			}
		},
	}
	in.register(cmd)
	out.register(cmd, render.FormatStyled)
	cmd.Flags().DurationVar(&debounce, "debounce", watch.DefaultDebounce, "Quiet period before re-rendering")
	return cmd
}
