// Package docwatch loads a policy document from disk and reloads it when the file changes.
package docwatch

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/fsnotify/fsnotify"

	"policyqa/internal/contextutil"
	"policyqa/internal/rag"
	"policyqa/internal/service"
)

// settleDelay coalesces the burst of events an editor or copy produces into one reload.
const settleDelay = 250 * time.Millisecond

// Loader accepts documents. service.QAService satisfies it.
type Loader interface {
	LoadDocument(ctx context.Context, req service.LoadDocumentRequest) (rag.SessionInfo, error)
}

// LoadFile reads the PDF at path and loads it.
func LoadFile(ctx context.Context, loader Loader, path string) (rag.SessionInfo, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return rag.SessionInfo{}, fmt.Errorf("failed to read document: %w", err)
	}
	info, err := loader.LoadDocument(ctx, service.LoadDocumentRequest{Name: filepath.Base(path), Data: data})
	if err != nil {
		return rag.SessionInfo{}, fmt.Errorf("failed to load %s: %w", path, err)
	}
	return info, nil
}

// Watch reloads path whenever it is written or replaced, until ctx is done.
// The parent directory is watched so atomic renames are seen. Reload failures are logged.
func Watch(ctx context.Context, loader Loader, path string) error {
	watcher, err := fsnotify.NewWatcher()
	if err != nil {
		return fmt.Errorf("failed to create watcher: %w", err)
	}
	defer func() {
		_ = watcher.Close()
	}()

	target, err := filepath.Abs(path)
	if err != nil {
		return fmt.Errorf("failed to resolve %s: %w", path, err)
	}
	if err := watcher.Add(filepath.Dir(target)); err != nil {
		return fmt.Errorf("failed to watch %s: %w", filepath.Dir(target), err)
	}
	ctx = contextutil.WithAttrs(ctx, "path", target)
	logger := contextutil.LoggerFromContext(ctx)
	logger.InfoContext(ctx, "watching document")

	var settle <-chan time.Time
	for {
		select {
		case <-ctx.Done():
			return nil
		case event, ok := <-watcher.Events:
			if !ok {
				return nil
			}
			if !sameFile(event.Name, target) {
				continue
			}
			if event.Has(fsnotify.Write) || event.Has(fsnotify.Create) || event.Has(fsnotify.Rename) {
				settle = time.After(settleDelay)
			}
		case err, ok := <-watcher.Errors:
			if !ok {
				return nil
			}
			logger.WarnContext(ctx, "watcher error", "error", err)
		case <-settle:
			settle = nil
			info, err := LoadFile(ctx, loader, target)
			if err != nil {
				logger.WarnContext(ctx, "document reload failed", "error", err)
				continue
			}
			logger.InfoContext(ctx, "document reloaded", "document_id", info.DocumentID, "reused", info.Reused)
		}
	}
}

func sameFile(name, target string) bool {
	abs, err := filepath.Abs(name)
	if err != nil {
		return false
	}
	return abs == target
}
