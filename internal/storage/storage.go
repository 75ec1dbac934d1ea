package storage

import (
	"fmt"
	"trd/internal/ingestion/interfaces"
	"trd/internal/providers"
	"trd/internal/structures"
)

const (
	BackendLocal = "local"
	BackendS3    = "s3"
)

// NewSnapshotStorage picks the snapshot backend named by storage.backend.
func NewSnapshotStorage(conf *structures.Config, compressor interfaces.CompressorInterface, logger providers.Logger) (interfaces.SnapshotStorageInterface, error) {
	switch conf.Storage.Backend {
	case BackendLocal, "":
		logger.Infof(providers.TypeApp, "Snapshot storage: local (%s)", conf.Storage.Local.DataDir)
		return NewLocalStore(conf.Storage.Local.DataDir, compressor, logger), nil
	case BackendS3:
		logger.Infof(providers.TypeApp, "Snapshot storage: s3 (%s)", conf.Storage.S3.Bucket)
		return NewS3Store(conf.Storage.S3, compressor, logger)
	default:
		return nil, fmt.Errorf("unknown storage backend %q", conf.Storage.Backend)
	}
}
