package storage

import (
	"fmt"
	"trd/internal/ingestion/interfaces"
	"trd/internal/models"

	json "github.com/goccy/go-json"
)

const (
	snapshotExt      = ".json.zst"
	latestName       = "latest" + snapshotExt
	snapshotFileTime = "150405"
)

func encodeSnapshot(compressor interfaces.CompressorInterface, snapshot *models.Snapshot) ([]byte, error) {
	raw, err := json.Marshal(snapshot)
	if err != nil {
		return nil, fmt.Errorf("marshal snapshot: %w", err)
	}
	return compressor.Compress(raw)
}

func decodeSnapshot(compressor interfaces.CompressorInterface, data []byte) (*models.Snapshot, error) {
	raw, err := compressor.Decompress(data)
	if err != nil {
		return nil, fmt.Errorf("decompress snapshot: %w", err)
	}
	var snapshot models.Snapshot
	if err := json.Unmarshal(raw, &snapshot); err != nil {
		return nil, fmt.Errorf("unmarshal snapshot: %w", err)
	}
	return &snapshot, nil
}

// snapshotName is the date-partitioned object name of a snapshot, relative
// to the backend root.
func snapshotName(snapshot *models.Snapshot) string {
	return snapshot.Date + "/" + snapshot.CrawledAt.Format(snapshotFileTime) + snapshotExt
}
