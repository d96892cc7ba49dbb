package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"path/filepath"
	"syscall"

	"github.com/fsnotify/fsnotify"
	"github.com/spf13/cobra"

	ierr "github.com/flexprice/invoicer/internal/errors"
	"github.com/flexprice/invoicer/internal/liveupdate"
)

type watchOptions struct {
	out        string
	templateID string
	scale      float64
}

func newWatchCmd() *cobra.Command {
	opts := watchOptions{}

	cmd := &cobra.Command{
		Use:   "watch <fixture.json>",
		Short: "Rewrite an HTML preview whenever a fixture changes",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			a, err := newApp(loadConfig())
			if err != nil {
				return err
			}

			ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
			defer stop()
			return a.watch(ctx, args[0], opts)
		},
	}

	cmd.Flags().StringVarP(&opts.out, "out", "o", "preview.html", "HTML file to keep up to date")
	cmd.Flags().StringVarP(&opts.templateID, "template", "t", "", "template id, overrides the fixture")
	cmd.Flags().Float64Var(&opts.scale, "scale", 1, "preview scale")
	return cmd
}

// watch feeds every saved version of the fixture to a live-update
// coordinator, which debounces bursts of writes into one rebuild. Branding
// and logo are read once at start.
func (a *app) watch(ctx context.Context, path string, opts watchOptions) error {
	fx, err := loadFixture(path)
	if err != nil {
		return err
	}
	req, err := a.fixtureRequest(ctx, fx)
	if err != nil {
		return err
	}

	templateID := fx.TemplateID
	if opts.templateID != "" {
		templateID = opts.templateID
	}

	coord := liveupdate.New(liveupdate.Options{
		Window:     a.cfg.Render.LiveUpdateWindow,
		TemplateID: templateID,
		OnUpdate: func(s liveupdate.State) {
			if err := os.WriteFile(opts.out, []byte(s.Preview.HTML), 0o644); err != nil {
				a.log.Errorw("failed to write preview", "path", opts.out, "error", err)
				return
			}
			a.log.Infow("preview updated", "path", opts.out, "updates", s.Updates, "template_id", s.TemplateID)
		},
		OnError: func(err error) {
			a.log.Warnw("preview rebuild failed", "error", err)
		},
	}, liveupdate.PreviewBuilder(a.mapper, a.render, liveupdate.PreviewOptions{
		Branding: req.Branding,
		Logo:     req.Logo,
		Scale:    opts.scale,
	}), a.log)
	defer coord.Close()

	watcher, err := fsnotify.NewWatcher()
	if err != nil {
		return ierr.WithError(err).Mark(ierr.ErrSystem)
	}
	defer watcher.Close()

	// editors often replace the file, so watch its directory
	if err := watcher.Add(filepath.Dir(path)); err != nil {
		return ierr.WithError(err).
			WithHintf("Could not watch %s", path).
			Mark(ierr.ErrSystem)
	}

	push := func() {
		fx, err := loadFixture(path)
		if err != nil {
			a.log.Warnw("skipping unreadable fixture", "path", path, "error", err)
			return
		}
		form := fx.Form
		form.Profile = fx.Profile
		coord.Push(form)
	}
	push()

	target := filepath.Clean(path)
	fmt.Printf("watching %s, writing %s\n", path, opts.out)
	for {
		select {
		case <-ctx.Done():
			return nil
		case event, ok := <-watcher.Events:
			if !ok {
				return nil
			}
			if filepath.Clean(event.Name) != target {
				continue
			}
			if event.Has(fsnotify.Write) || event.Has(fsnotify.Create) {
				push()
			}
		case err, ok := <-watcher.Errors:
			if !ok {
				return nil
			}
			a.log.Warnw("watcher error", "error", err)
		}
	}
}
