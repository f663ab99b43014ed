/*
Copyright © 2025 Joseph Goksu josephgoksu@gmail.com
*/
package cmd

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"os/signal"
	"path/filepath"
	"syscall"
	"time"

	"github.com/fsnotify/fsnotify"
	"github.com/josephgoksu/flowkit/internal/ui"
	"github.com/spf13/cobra"
	"go.uber.org/zap"
)

// watchDebounce coalesces the bursts of events an atomic save produces.
const watchDebounce = 150 * time.Millisecond

func newStatusCmd(c *cli) *cobra.Command {
	var (
		asJSON bool
		watch  bool
	)
	cmd := &cobra.Command{
		Use:   "status",
		Short: "Show workflow progress",
		Long: `Show overall progress, every phase with its task and gate counts, and
the tasks and quality gates of the current phase. Percentages are
recomputed from the tracking file on every call.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			out := cmd.OutOrStdout()
			svc, err := c.service()
			if err != nil {
				return err
			}
			render := func() error {
				view, err := svc.Status(cmd.Context())
				if err != nil {
					return err
				}
				if asJSON {
					enc := json.NewEncoder(out)
					enc.SetIndent("", "  ")
					return enc.Encode(view)
				}
				if c.interactive() {
					ui.RenderPageHeader(out, "Workflow status", svc.TrackingPath())
				}
				ui.RenderStatus(out, view)
				return nil
			}

			if err := render(); err != nil {
				return c.report(out, err)
			}
			if !watch {
				return nil
			}

			ctx, stop := signal.NotifyContext(cmd.Context(), syscall.SIGINT, syscall.SIGTERM)
			defer stop()
			clearScreen := c.interactive() && !asJSON
			return c.watchStatus(ctx, out, svc.TrackingPath(), func() {
				if clearScreen {
					fmt.Fprint(out, "\033[H\033[2J")
				}
				if err := render(); err != nil {
					LogError(cmd.ErrOrStderr(), c.v, "render status", err)
				}
			})
		},
	}
	cmd.Flags().BoolVar(&asJSON, "json", false, "print the status as JSON")
	cmd.Flags().BoolVarP(&watch, "watch", "w", false, "re-render whenever the tracking file changes")
	return cmd
}

// watchStatus calls render after each change to path until ctx is done.
// The directory is watched because saves replace the file by rename.
func (c *cli) watchStatus(ctx context.Context, out io.Writer, path string, render func()) error {
	watcher, err := fsnotify.NewWatcher()
	if err != nil {
		return fmt.Errorf("start file watcher: %w", err)
	}
	defer watcher.Close()

	dir := filepath.Dir(path)
	if err := watcher.Add(dir); err != nil {
		return fmt.Errorf("watch %s: %w", dir, err)
	}
	ui.Hint(out, "Watching %s (Ctrl+C to stop)", path)
	c.log.Debug("watching tracking file", zap.String("path", path))

	var (
		timer  *time.Timer
		timerC <-chan time.Time
	)
	for {
		select {
		case <-ctx.Done():
			if timer != nil {
				timer.Stop()
			}
			return nil
		case ev, ok := <-watcher.Events:
			if !ok {
				return nil
			}
			if filepath.Clean(ev.Name) != filepath.Clean(path) {
				continue
			}
			if !ev.Has(fsnotify.Write) && !ev.Has(fsnotify.Create) && !ev.Has(fsnotify.Rename) {
				continue
			}
			if timer == nil {
				timer = time.NewTimer(watchDebounce)
			} else {
				timer.Reset(watchDebounce)
			}
			timerC = timer.C
		case <-timerC:
			timerC = nil
			render()
		case err, ok := <-watcher.Errors:
			if !ok {
				return nil
			}
			c.log.Warn("file watcher error", zap.Error(err))
		}
	}
}
