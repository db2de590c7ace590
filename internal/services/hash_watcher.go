package services

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	"io"
	"os"
	"path/filepath"
	"sync"
	"time"

	"github.com/fsnotify/fsnotify"
	"github.com/sirupsen/logrus"

	"threatlens/pkg/logger"
)

// HashWatcher watches a drop directory, hashes every new file and submits
// the hash for a reputation lookup owned by a configured service account.
type HashWatcher struct {
	dir    string
	owner  string
	scans  ScanServiceMethods
	logger *logger.Logger

	mu        sync.Mutex
	processed map[string]struct{}
}

func NewHashWatcher(dir, owner string, scans ScanServiceMethods) *HashWatcher {
	return &HashWatcher{
		dir:       dir,
		owner:     owner,
		scans:     scans,
		logger:    logger.NewLogger(logrus.InfoLevel),
		processed: make(map[string]struct{}),
	}
}

// Run blocks until ctx is cancelled. Files already present at startup are
// scanned first; writes are throttled through a ticker so a file being
// copied in is only hashed once it stops changing.
func (w *HashWatcher) Run(ctx context.Context) error {
	watcher, err := fsnotify.NewWatcher()
	if err != nil {
		return err
	}
	defer watcher.Close()

	if err := watcher.Add(w.dir); err != nil {
		return err
	}

	w.sweep(ctx)

	pending := make(map[string]struct{})
	var mu sync.Mutex

	ticker := time.NewTicker(2 * time.Second)
	defer ticker.Stop()

	for {
		select {
		case event, ok := <-watcher.Events:
			if !ok {
				return nil
			}
			if event.Op&(fsnotify.Create|fsnotify.Write) != 0 {
				mu.Lock()
				pending[event.Name] = struct{}{}
				mu.Unlock()
			}

		case <-ticker.C:
			mu.Lock()
			paths := make([]string, 0, len(pending))
			for path := range pending {
				paths = append(paths, path)
			}
			pending = make(map[string]struct{})
			mu.Unlock()

			for _, path := range paths {
				w.processFile(ctx, path)
			}

		case werr, ok := <-watcher.Errors:
			if !ok {
				return nil
			}
			w.logger.WithFields(logger.Fields{"dir": w.dir, "error": werr}).Error("Drop folder watcher error")

		case <-ctx.Done():
			w.logger.WithFields(logger.Fields{"dir": w.dir}).Info("Stopping drop folder watcher")
			return nil
		}
	}
}

// sweep hashes the files already sitting in the drop directory.
func (w *HashWatcher) sweep(ctx context.Context) {
	entries, err := os.ReadDir(w.dir)
	if err != nil {
		w.logger.WithFields(logger.Fields{"dir": w.dir, "error": err}).Error("Failed to read drop folder")
		return
	}
	for _, entry := range entries {
		if entry.IsDir() {
			continue
		}
		w.processFile(ctx, filepath.Join(w.dir, entry.Name()))
	}
}

func (w *HashWatcher) processFile(ctx context.Context, path string) {
	info, err := os.Stat(path)
	if err != nil || info.IsDir() {
		return
	}

	hash, err := hashFile(path)
	if err != nil {
		w.logger.WithFields(logger.Fields{"file": path, "error": err}).Error("Failed to hash dropped file")
		return
	}

	w.mu.Lock()
	if _, seen := w.processed[hash]; seen {
		w.mu.Unlock()
		return
	}
	w.processed[hash] = struct{}{}
	w.mu.Unlock()

	record, err := w.scans.ScanFileHash(ctx, hash, w.owner)
	if err != nil {
		w.logger.WithFields(logger.Fields{"file": path, "hash": hash, "error": err}).Error("Drop folder scan failed")
		return
	}

	w.logger.WithFields(logger.Fields{
		"file":      path,
		"hash":      hash,
		"status":    record.Status,
		"malicious": record.MaliciousCount(),
	}).Info("Dropped file scanned")
}

func hashFile(path string) (string, error) {
	f, err := os.Open(path)
	if err != nil {
		return "", err
	}
	defer f.Close()

	h := sha256.New()
	if _, err := io.Copy(h, f); err != nil {
		return "", err
	}
	return hex.EncodeToString(h.Sum(nil)), nil
}
