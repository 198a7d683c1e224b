package indexer

import (
	"context"
	"fmt"

	"github.com/fsnotify/fsnotify"

	"github.com/choplin/cerebro/internal/category"
	"github.com/choplin/cerebro/internal/filesystem"
)

// Watcher re-indexes report files as they are created or written.
// Removals are ignored; deleting a report is an explicit operation.
type Watcher struct {
	ix  *Indexer
	fsw *fsnotify.Watcher
}

// NewWatcher watches every content-type directory under the indexer root,
// creating the directories if needed.
func NewWatcher(ix *Indexer) (*Watcher, error) {
	if err := filesystem.EnsureLayout(ix.root); err != nil {
		return nil, fmt.Errorf("failed to create reports layout: %w", err)
	}

	fsw, err := fsnotify.NewWatcher()
	if err != nil {
		return nil, fmt.Errorf("failed to create watcher: %w", err)
	}

	for _, contentType := range category.All() {
		dir := filesystem.TypeDir(ix.root, contentType)
		if err := fsw.Add(dir); err != nil {
			_ = fsw.Close()
			return nil, fmt.Errorf("failed to watch %s: %w", dir, err)
		}
	}

	return &Watcher{ix: ix, fsw: fsw}, nil
}

// Run dispatches events until ctx is cancelled, then closes the watcher.
func (w *Watcher) Run(ctx context.Context) error {
	defer w.fsw.Close()
	w.ix.logger.Info("watching reports", "root", w.ix.root)

	for {
		select {
		case <-ctx.Done():
			return nil
		case event, ok := <-w.fsw.Events:
			if !ok {
				return nil
			}
			w.handle(ctx, event)
		case err, ok := <-w.fsw.Errors:
			if !ok {
				return nil
			}
			w.ix.logger.Warn("watch error", "err", err)
		}
	}
}

// Close stops the watcher without waiting for Run.
func (w *Watcher) Close() error {
	return w.fsw.Close()
}

func (w *Watcher) handle(ctx context.Context, event fsnotify.Event) {
	if !event.Has(fsnotify.Create) && !event.Has(fsnotify.Write) {
		return
	}
	if !filesystem.IsReportFile(event.Name) {
		return
	}

	contentType, ok := w.ix.ContentTypeForPath(event.Name)
	if !ok {
		return
	}

	// Errors are logged by IndexFile. A partially written file is picked up
	// again by the Write events that follow.
	_, _ = w.ix.IndexFile(ctx, event.Name, contentType)
}
