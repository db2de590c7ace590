package services

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"threatlens/internal/models"
)

type capturingScanService struct {
	hashes []string
	owners []string
}

func (s *capturingScanService) ExecuteScan(ctx context.Context, target, owner string) (*models.ScanRecord, error) {
	return nil, nil
}

func (s *capturingScanService) ScanFileHash(ctx context.Context, hash, owner string) (*models.ScanRecord, error) {
	s.hashes = append(s.hashes, hash)
	s.owners = append(s.owners, owner)
	return &models.ScanRecord{ID: "rec-1", Target: hash, Kind: models.ScanKindFile, Status: "completed"}, nil
}

func (s *capturingScanService) History(owner string) ([]models.ScanRecord, error) {
	return nil, nil
}

func (s *capturingScanService) Report(id string) (*models.ScanRecord, error) {
	return nil, nil
}

func sha256Hex(data []byte) string {
	sum := sha256.Sum256(data)
	return hex.EncodeToString(sum[:])
}

func TestSweepHashesExistingFiles(t *testing.T) {
	dir := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(dir, "sample.bin"), []byte("malware sample"), 0644))
	require.NoError(t, os.Mkdir(filepath.Join(dir, "nested"), 0755))

	svc := &capturingScanService{}
	watcher := NewHashWatcher(dir, "drop-folder", svc)
	watcher.sweep(context.Background())

	require.Len(t, svc.hashes, 1)
	assert.Equal(t, sha256Hex([]byte("malware sample")), svc.hashes[0])
	assert.Equal(t, "drop-folder", svc.owners[0])
}

func TestProcessFileDeduplicatesByHash(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "sample.bin")
	require.NoError(t, os.WriteFile(path, []byte("same content"), 0644))
	copyPath := filepath.Join(dir, "copy.bin")
	require.NoError(t, os.WriteFile(copyPath, []byte("same content"), 0644))

	svc := &capturingScanService{}
	watcher := NewHashWatcher(dir, "drop-folder", svc)

	watcher.processFile(context.Background(), path)
	watcher.processFile(context.Background(), path)
	watcher.processFile(context.Background(), copyPath)

	assert.Len(t, svc.hashes, 1)
}

func TestProcessFileIgnoresMissingPath(t *testing.T) {
	svc := &capturingScanService{}
	watcher := NewHashWatcher(t.TempDir(), "drop-folder", svc)

	watcher.processFile(context.Background(), filepath.Join(t.TempDir(), "gone.bin"))

	assert.Empty(t, svc.hashes)
}
