package structures

import "time"

type Server struct {
	Host string `yaml:"host" validate:"required"`
	Port int    `yaml:"port" validate:"required|uint|min:1"`
}

type LoggerConfig struct {
	Level string `yaml:"level" validate:"required|in:trace,debug,info,warn,error,fatal,panic"`
	Mode  uint32 `yaml:"mode" validate:"required|uint"`
	Dir   string `yaml:"dir" validate:"required|unixPath"`
}

type CacheConfig struct {
	Enabled bool          `yaml:"enabled"`
	Size    int           `yaml:"size"`
	TTL     time.Duration `yaml:"ttl"`
}

type MetricsConfig struct {
	Enabled bool `yaml:"enabled"`
}

// SchedulerConfig controls the periodic ingestion loop started at boot.
type SchedulerConfig struct {
	AutoFetch       bool `yaml:"autoFetch"`
	IntervalMinutes int  `yaml:"intervalMinutes" validate:"required|int|min:5|max:1440"`
}

type FetchMetricsConfig struct {
	Capacity int    `yaml:"capacity" validate:"required|int|min:1"`
	LogPath  string `yaml:"logPath" validate:"required|unixPath"`
}

type PresenceConfig struct {
	DBPath string `yaml:"dbPath" validate:"required"`
}

type CrawlerConfig struct {
	ApiUrl   string        `yaml:"apiUrl" validate:"required|url"`
	ProxyUrl string        `yaml:"proxyUrl"`
	UseProxy bool          `yaml:"useProxy"`
	Timeout  time.Duration `yaml:"timeout"`
	Retries  int           `yaml:"retries"`
}

type LocalStorageConfig struct {
	DataDir string `yaml:"dataDir"`
}

type S3StorageConfig struct {
	Bucket   string `yaml:"bucket"`
	Region   string `yaml:"region"`
	Endpoint string `yaml:"endpoint"`
	Prefix   string `yaml:"prefix"`
}

type StorageConfig struct {
	Backend string             `yaml:"backend" validate:"required|in:local,s3"`
	Local   LocalStorageConfig `yaml:"local"`
	S3      S3StorageConfig    `yaml:"s3"`
}

type Config struct {
	AppName      string
	Debug        bool
	Path         string
	WebServer    Server             `yaml:"webServer"`
	Logger       LoggerConfig       `yaml:"logger"`
	Cache        CacheConfig        `yaml:"cache"`
	Metrics      MetricsConfig      `yaml:"metrics"`
	Scheduler    SchedulerConfig    `yaml:"scheduler"`
	FetchMetrics FetchMetricsConfig `yaml:"fetchMetrics"`
	Presence     PresenceConfig     `yaml:"presence"`
	Crawler      CrawlerConfig      `yaml:"crawler"`
	Storage      StorageConfig      `yaml:"storage"`
}
