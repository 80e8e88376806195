// backend/src/services/inbox.go
package services

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"time"

	"github.com/fsnotify/fsnotify"

	"github.com/username/pricedash/backend/src/logger"
	"github.com/username/pricedash/backend/src/models"
	"github.com/username/pricedash/backend/src/parsers"
)

const (
	inboxProcessedDir = "processed"
	inboxFailedDir    = "failed"
	inboxSettleDelay  = 500 * time.Millisecond
	inboxTickInterval = 100 * time.Millisecond
)

// InboxStats counts the files the watcher has handled.
type InboxStats struct {
	Processed int
	Failed    int
}

// InboxWatcher runs every spreadsheet dropped into <root>/<data_type>/
// through the analysis service. Handled files are moved into the
// processed/ or failed/ subdirectory of their type directory.
type InboxWatcher struct {
	mu      sync.Mutex
	watcher *fsnotify.Watcher
	service AnalysisService
	root    string
	settle  time.Duration
	pending map[string]time.Time
	stopCh  chan struct{}
	doneCh  chan struct{}
	running bool
	closed  bool
	stats   InboxStats
}

// NewInboxWatcher creates the per-type directories under root.
func NewInboxWatcher(root string, service AnalysisService) (*InboxWatcher, error) {
	for _, dt := range models.DataTypes {
		for _, sub := range []string{"", inboxProcessedDir, inboxFailedDir} {
			if err := os.MkdirAll(filepath.Join(root, string(dt), sub), 0o755); err != nil {
				return nil, fmt.Errorf("failed to create inbox directory: %w", err)
			}
		}
	}

	watcher, err := fsnotify.NewWatcher()
	if err != nil {
		return nil, err
	}

	return &InboxWatcher{
		watcher: watcher,
		service: service,
		root:    root,
		settle:  inboxSettleDelay,
		pending: make(map[string]time.Time),
		stopCh:  make(chan struct{}),
		doneCh:  make(chan struct{}),
	}, nil
}

// Start watches the type directories and queues any files already waiting.
// It does not block.
func (iw *InboxWatcher) Start(ctx context.Context) error {
	iw.mu.Lock()
	if iw.closed {
		iw.mu.Unlock()
		return errors.New("inbox watcher is stopped")
	}
	if iw.running {
		iw.mu.Unlock()
		return nil
	}
	iw.running = true
	iw.mu.Unlock()

	if err := iw.watchTypeDirs(); err != nil {
		iw.mu.Lock()
		iw.running = false
		iw.mu.Unlock()
		return err
	}
	logger.L.Info("Inbox watcher started", "root", iw.root)

	go iw.run(ctx)
	return nil
}

// watchTypeDirs adds every type directory to the watch and queues the
// files already waiting in it.
func (iw *InboxWatcher) watchTypeDirs() error {
	for _, dt := range models.DataTypes {
		dir := filepath.Join(iw.root, string(dt))
		if err := iw.watcher.Add(dir); err != nil {
			return fmt.Errorf("failed to watch %s: %w", dir, err)
		}
		entries, err := os.ReadDir(dir)
		if err != nil {
			return fmt.Errorf("failed to list %s: %w", dir, err)
		}
		for _, e := range entries {
			if !e.IsDir() {
				iw.enqueue(filepath.Join(dir, e.Name()))
			}
		}
	}
	return nil
}

// Stop ends the event loop and releases the OS watch. It is safe to call
// after a failed Start and more than once.
func (iw *InboxWatcher) Stop() {
	iw.mu.Lock()
	if iw.closed {
		iw.mu.Unlock()
		return
	}
	wasRunning := iw.running
	iw.running = false
	iw.closed = true
	iw.mu.Unlock()

	if wasRunning {
		close(iw.stopCh)
		<-iw.doneCh
	}

	if err := iw.watcher.Close(); err != nil {
		logger.L.Error("Error closing inbox watcher", "error", err)
	}
	logger.L.Info("Inbox watcher stopped")
}

// Stats returns a snapshot of the handled file counts.
func (iw *InboxWatcher) Stats() InboxStats {
	iw.mu.Lock()
	defer iw.mu.Unlock()
	return iw.stats
}

func (iw *InboxWatcher) run(ctx context.Context) {
	defer close(iw.doneCh)

	ticker := time.NewTicker(inboxTickInterval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-iw.stopCh:
			return
		case event, ok := <-iw.watcher.Events:
			if !ok {
				return
			}
			if event.Op&(fsnotify.Create|fsnotify.Write) != 0 {
				iw.enqueue(event.Name)
			}
		case err, ok := <-iw.watcher.Errors:
			if !ok {
				return
			}
			logger.L.Error("Inbox watcher error", "error", err)
		case <-ticker.C:
			for _, path := range iw.settled() {
				iw.processFile(ctx, path)
			}
		}
	}
}

// enqueue records a write to path. The file is handled once it has been
// quiet for the settle delay, so partially copied files are not parsed.
func (iw *InboxWatcher) enqueue(path string) {
	ext := strings.ToLower(filepath.Ext(path))
	if ext != ".csv" && ext != ".xlsx" {
		return
	}
	iw.mu.Lock()
	iw.pending[path] = time.Now()
	iw.mu.Unlock()
}

func (iw *InboxWatcher) settled() []string {
	iw.mu.Lock()
	defer iw.mu.Unlock()

	var ready []string
	for path, last := range iw.pending {
		if time.Since(last) >= iw.settle {
			ready = append(ready, path)
			delete(iw.pending, path)
		}
	}
	return ready
}

func (iw *InboxWatcher) processFile(ctx context.Context, path string) {
	dir, name := filepath.Split(path)
	dataType := models.DataType(filepath.Base(dir))
	log := logger.L.With("file", path, "dataType", dataType)

	runID, err := iw.analyzeFile(ctx, path, dataType, name)
	dest := inboxProcessedDir
	if err != nil {
		dest = inboxFailedDir
		log.Warn("Inbox file rejected", "error", err)
	} else {
		log.Info("Inbox file analyzed", "runID", runID)
	}

	if err := os.Rename(path, filepath.Join(dir, dest, name)); err != nil && !errors.Is(err, os.ErrNotExist) {
		log.Error("Failed to move inbox file", "error", err)
	}

	iw.mu.Lock()
	if dest == inboxFailedDir {
		iw.stats.Failed++
	} else {
		iw.stats.Processed++
	}
	iw.mu.Unlock()
}

func (iw *InboxWatcher) analyzeFile(ctx context.Context, path string, dataType models.DataType, name string) (string, error) {
	f, err := os.Open(path)
	if err != nil {
		return "", err
	}
	defer f.Close()

	run, err := iw.service.ProcessUpload(ctx, f, parsers.FormatFromFilename(name), dataType, name)
	if err != nil {
		return "", err
	}
	return run.ID, nil
}
