package storage

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"sync"
	"trd/internal/ingestion/interfaces"
	"trd/internal/models"
	"trd/internal/providers"
)

// LocalStore keeps compressed snapshots under <dataDir>/news/<date>/ and a
// copy of the most recent one in <dataDir>/news/latest.json.zst.
type LocalStore struct {
	mu         sync.Mutex
	root       string
	compressor interfaces.CompressorInterface
	logger     providers.Logger
}

func NewLocalStore(dataDir string, compressor interfaces.CompressorInterface, logger providers.Logger) *LocalStore {
	return &LocalStore{
		root:       filepath.Join(dataDir, "news"),
		compressor: compressor,
		logger:     logger,
	}
}

func (s *LocalStore) Save(_ context.Context, snapshot *models.Snapshot) error {
	data, err := encodeSnapshot(s.compressor, snapshot)
	if err != nil {
		return err
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	path := filepath.Join(s.root, filepath.FromSlash(snapshotName(snapshot)))
	if err := writeFileAtomic(path, data); err != nil {
		return err
	}
	if err := writeFileAtomic(filepath.Join(s.root, latestName), data); err != nil {
		return err
	}

	s.logger.Debugf(providers.TypeFetch, "Snapshot saved to %s (%d bytes)", path, len(data))
	return nil
}

// Latest returns nil without error when nothing has been saved yet.
func (s *LocalStore) Latest(_ context.Context) (*models.Snapshot, error) {
	data, err := os.ReadFile(filepath.Join(s.root, latestName))
	if err != nil {
		if os.IsNotExist(err) {
			return nil, nil
		}
		return nil, err
	}
	return decodeSnapshot(s.compressor, data)
}

func writeFileAtomic(fileName string, data []byte) error {
	if err := os.MkdirAll(filepath.Dir(fileName), 0o755); err != nil {
		return fmt.Errorf("create snapshot dir: %w", err)
	}

	tmpFile := fileName + ".tmp"
	file, err := os.Create(tmpFile)
	if err != nil {
		return err
	}

	if _, err = file.Write(data); err != nil {
		file.Close()
		os.Remove(tmpFile)
		return err
	}

	if err = file.Sync(); err != nil {
		file.Close()
		os.Remove(tmpFile)
		return err
	}

	if err = file.Close(); err != nil {
		os.Remove(tmpFile)
		return err
	}

	return os.Rename(tmpFile, fileName)
}
