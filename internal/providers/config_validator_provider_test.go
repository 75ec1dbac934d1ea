package providers

import (
	"testing"
	"time"
	"trd/internal/structures"

	"github.com/stretchr/testify/assert"
)

func validConfig() *structures.Config {
	return &structures.Config{
		WebServer: structures.Server{
			Host: "0.0.0.0",
			Port: 8080,
		},
		Logger: structures.LoggerConfig{
			Level: "info",
			Mode:  0644,
			Dir:   "/tmp/logs",
		},
		Scheduler: structures.SchedulerConfig{
			IntervalMinutes: 30,
		},
		FetchMetrics: structures.FetchMetricsConfig{
			Capacity: 5000,
			LogPath:  "/tmp/metrics/fetch_metrics.jsonl",
		},
		Presence: structures.PresenceConfig{
			DBPath: "/tmp/online.db",
		},
		Crawler: structures.CrawlerConfig{
			ApiUrl:  "https://newsnow.busiyi.world/api/s",
			Timeout: 10 * time.Second,
		},
		Storage: structures.StorageConfig{
			Backend: "local",
			Local:   structures.LocalStorageConfig{DataDir: "/tmp/output"},
		},
	}
}

func TestConfigValidator_ValidConfig(t *testing.T) {
	v := NewCnfValidator(validConfig())
	assert.NoError(t, v.Validate())
}

func TestConfigValidator_EmptyHost(t *testing.T) {
	c := validConfig()
	c.WebServer.Host = ""
	assert.Error(t, NewCnfValidator(c).Validate())
}

func TestConfigValidator_ZeroPort(t *testing.T) {
	c := validConfig()
	c.WebServer.Port = 0
	assert.Error(t, NewCnfValidator(c).Validate())
}

func TestConfigValidator_InvalidLogLevel(t *testing.T) {
	c := validConfig()
	c.Logger.Level = "verbose"
	assert.Error(t, NewCnfValidator(c).Validate())
}

func TestConfigValidator_IntervalBounds(t *testing.T) {
	for _, interval := range []int{4, 1441} {
		c := validConfig()
		c.Scheduler.IntervalMinutes = interval
		assert.Error(t, NewCnfValidator(c).Validate(), "interval %d", interval)
	}
	for _, interval := range []int{5, 1440} {
		c := validConfig()
		c.Scheduler.IntervalMinutes = interval
		assert.NoError(t, NewCnfValidator(c).Validate(), "interval %d", interval)
	}
}

func TestConfigValidator_UnknownStorageBackend(t *testing.T) {
	c := validConfig()
	c.Storage.Backend = "ftp"
	assert.Error(t, NewCnfValidator(c).Validate())
}

func TestConfigValidator_S3RequiresBucket(t *testing.T) {
	c := validConfig()
	c.Storage.Backend = "s3"
	assert.Error(t, NewCnfValidator(c).Validate())

	c.Storage.S3.Bucket = "snapshots"
	assert.NoError(t, NewCnfValidator(c).Validate())
}
