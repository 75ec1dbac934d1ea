package storage

import (
	"testing"
	"trd/internal/structures"
	"trd/internal/testutil"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewSnapshotStorage(t *testing.T) {
	logger := &testutil.MockLogger{}
	c := &testutil.MockCompressor{}

	local, err := NewSnapshotStorage(&structures.Config{Storage: structures.StorageConfig{
		Backend: BackendLocal,
		Local:   structures.LocalStorageConfig{DataDir: t.TempDir()},
	}}, c, logger)
	require.NoError(t, err)
	assert.IsType(t, &LocalStore{}, local)

	remote, err := NewSnapshotStorage(&structures.Config{Storage: structures.StorageConfig{
		Backend: BackendS3,
		S3:      structures.S3StorageConfig{Bucket: "b", Region: "us-east-1", Endpoint: "http://127.0.0.1:9000"},
	}}, c, logger)
	require.NoError(t, err)
	assert.IsType(t, &S3Store{}, remote)

	_, err = NewSnapshotStorage(&structures.Config{Storage: structures.StorageConfig{Backend: "ftp"}}, c, logger)
	assert.Error(t, err)
}
