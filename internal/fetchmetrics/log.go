package fetchmetrics

import (
	"bufio"
	"bytes"
	"fmt"
	"os"
	"path/filepath"
	"sync"
	"trd/internal/models"

	json "github.com/goccy/go-json"
)

// Log is the durable mirror of the ring: one JSON record per line, newest
// last. After an append that takes the file above capacity, the whole file
// is rewritten with only the most recent capacity lines.
type Log struct {
	mu       sync.Mutex
	path     string
	capacity int
}

func NewLog(path string, capacity int) *Log {
	if capacity <= 0 {
		capacity = DefaultCapacity
	}
	return &Log{path: path, capacity: capacity}
}

func (l *Log) Path() string {
	return l.path
}

func (l *Log) Append(records []models.FetchMetricRecord) error {
	if len(records) == 0 {
		return nil
	}

	var buf bytes.Buffer
	for i := range records {
		line, err := json.Marshal(&records[i])
		if err != nil {
			return fmt.Errorf("encode fetch metric: %w", err)
		}
		buf.Write(line)
		buf.WriteByte('\n')
	}

	l.mu.Lock()
	defer l.mu.Unlock()

	if err := os.MkdirAll(filepath.Dir(l.path), 0755); err != nil {
		return err
	}
	file, err := os.OpenFile(l.path, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0644)
	if err != nil {
		return err
	}
	if _, err = file.Write(buf.Bytes()); err != nil {
		file.Close()
		return err
	}
	if err = file.Close(); err != nil {
		return err
	}

	return l.truncate()
}

// truncate must be called with l.mu held.
func (l *Log) truncate() error {
	lines, err := l.readLines()
	if err != nil {
		return err
	}
	if len(lines) <= l.capacity {
		return nil
	}
	return l.rewrite(lines[len(lines)-l.capacity:])
}

func (l *Log) rewrite(lines [][]byte) error {
	tmpFile := l.path + ".tmp"
	file, err := os.Create(tmpFile)
	if err != nil {
		return err
	}

	w := bufio.NewWriter(file)
	for _, line := range lines {
		w.Write(line)
		w.WriteByte('\n')
	}
	if err = w.Flush(); err != nil {
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

	return os.Rename(tmpFile, l.path)
}

func (l *Log) readLines() ([][]byte, error) {
	data, err := os.ReadFile(l.path)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, nil
		}
		return nil, err
	}
	var lines [][]byte
	for _, line := range bytes.Split(data, []byte{'\n'}) {
		if len(bytes.TrimSpace(line)) == 0 {
			continue
		}
		lines = append(lines, line)
	}
	return lines, nil
}

// Load returns the most recent records in the log, oldest first. Lines that
// cannot be decoded are skipped and counted.
func (l *Log) Load() ([]models.FetchMetricRecord, int, error) {
	l.mu.Lock()
	lines, err := l.readLines()
	l.mu.Unlock()
	if err != nil {
		return nil, 0, err
	}
	if len(lines) > l.capacity {
		lines = lines[len(lines)-l.capacity:]
	}

	records := make([]models.FetchMetricRecord, 0, len(lines))
	skipped := 0
	for _, line := range lines {
		var rec models.FetchMetricRecord
		if err := json.Unmarshal(line, &rec); err != nil {
			skipped++
			continue
		}
		records = append(records, rec)
	}
	return records, skipped, nil
}
