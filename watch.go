package main

import (
	"context"
	"fmt"
	"io"
	"os/signal"
	"path/filepath"
	"sync"
	"syscall"
	"time"

	"github.com/fsnotify/fsnotify"
	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/seo-optimizer/contentscore/analyzer"
	"github.com/seo-optimizer/contentscore/config"
	"github.com/seo-optimizer/contentscore/editor"
)

func newWatchCmd(loadConfig func() (*config.Config, error)) *cobra.Command {
	return &cobra.Command{
		Use:   "watch <draft.yaml>",
		Short: "Re-analyze a draft every time it is saved",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := loadConfig()
			if err != nil {
				return err
			}
			logger, err := newLogger(cfg)
			if err != nil {
				return err
			}
			defer func() { _ = logger.Sync() }()

			ctx, stop := signal.NotifyContext(cmd.Context(), syscall.SIGINT, syscall.SIGTERM)
			defer stop()

			return runWatch(ctx, cmd.OutOrStdout(), args[0], cfg, logger)
		},
	}
}

// syncWriter serializes writes from the session callback and the event loop
type syncWriter struct {
	mu sync.Mutex
	w  io.Writer
}

func (s *syncWriter) Write(p []byte) (int, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.w.Write(p)
}

// draftWatcher reloads a draft into an editor session whenever one of its
// source files changes
type draftWatcher struct {
	path    string
	session *editor.Session
	watcher *fsnotify.Watcher
	sources map[string]bool
	dirs    map[string]bool
	logger  *zap.Logger
}

// reload reads the draft and hands it to the session. Editors often save by
// renaming a temp file over the original, so directories are watched rather
// than files.
func (d *draftWatcher) reload() error {
	in, sources, err := loadDraft(d.path)
	if err != nil {
		return err
	}

	d.sources = make(map[string]bool, len(sources))
	for _, src := range sources {
		abs, err := filepath.Abs(src)
		if err != nil {
			return fmt.Errorf("resolve %s: %w", src, err)
		}
		d.sources[abs] = true

		dir := filepath.Dir(abs)
		if !d.dirs[dir] {
			if err := d.watcher.Add(dir); err != nil {
				return fmt.Errorf("watch %s: %w", dir, err)
			}
			d.dirs[dir] = true
		}
	}

	d.session.Load(in)
	return nil
}

func (d *draftWatcher) relevant(event fsnotify.Event) bool {
	if !event.Op.Has(fsnotify.Write) && !event.Op.Has(fsnotify.Create) && !event.Op.Has(fsnotify.Rename) {
		return false
	}
	abs, err := filepath.Abs(event.Name)
	if err != nil {
		return false
	}
	return d.sources[abs]
}

func runWatch(ctx context.Context, out io.Writer, path string, cfg *config.Config, logger *zap.Logger) error {
	out = &syncWriter{w: out}

	a := analyzer.New(analyzerOptions(cfg, logger))
	defer a.Shutdown()

	session, err := editor.NewSession(a, editor.Options{
		Debounce: cfg.Editor.Debounce,
		Logger:   logger,
		OnReport: func(r *analyzer.Report) {
			fmt.Fprintf(out, "\n%s\n", mutedStyle.Render("Updated "+time.Now().Format("15:04:05")))
			if err := renderReport(out, r); err != nil {
				logger.Warn("could not write report", zap.Error(err))
			}
		},
	})
	if err != nil {
		return err
	}
	defer session.Close()

	watcher, err := fsnotify.NewWatcher()
	if err != nil {
		return fmt.Errorf("create fsnotify watcher: %w", err)
	}
	defer watcher.Close()

	d := &draftWatcher{
		path:    path,
		session: session,
		watcher: watcher,
		dirs:    make(map[string]bool),
		logger:  logger,
	}
	if err := d.reload(); err != nil {
		return err
	}
	session.Flush()

	fmt.Fprintf(out, "\n%s\n", mutedStyle.Render("Watching "+path+" for changes. Press Ctrl+C to stop."))

	for {
		select {
		case <-ctx.Done():
			return nil
		case event, ok := <-watcher.Events:
			if !ok {
				return nil
			}
			if !d.relevant(event) {
				continue
			}
			if err := d.reload(); err != nil {
				// Keep watching; the next save may fix the draft.
				logger.Warn("draft reload failed", zap.String("path", event.Name), zap.Error(err))
				fmt.Fprintf(out, "%s %v\n", statusError.Render("✗"), err)
			}
		case err, ok := <-watcher.Errors:
			if !ok {
				return nil
			}
			return fmt.Errorf("watcher error: %w", err)
		}
	}
}
