package providers

import (
	"fmt"
	"github.com/spf13/viper"
	"path/filepath"
	"strings"
	"time"
	"trd/internal/structures"
)

const AppName = "TrendRadarDaemon"

func setConfigDefaults() {
	viper.SetDefault("webServer.host", "0.0.0.0")
	viper.SetDefault("webServer.port", 8080)
	viper.SetDefault("scheduler.intervalMinutes", 30)
	viper.SetDefault("fetchMetrics.capacity", 5000)
	viper.SetDefault("fetchMetrics.logPath", "output/metrics/fetch_metrics.jsonl")
	viper.SetDefault("presence.dbPath", "output/online.db")
	viper.SetDefault("crawler.timeout", 10*time.Second)
	viper.SetDefault("crawler.retries", 2)
	viper.SetDefault("storage.backend", "local")
	viper.SetDefault("storage.local.dataDir", "output")
	viper.SetDefault("cache.ttl", 10*time.Minute)
}

func NewConfigProvider(flags *structures.CliFlags) (*structures.Config, error) {
	var conf structures.Config

	filename := filepath.Base(flags.ConfigPath)
	viper.AddConfigPath(filepath.Dir(flags.ConfigPath))
	viper.SetConfigName(strings.TrimSuffix(filename, filepath.Ext(filename)))
	viper.SetConfigType("yaml")
	setConfigDefaults()

	viper.BindEnv("logger.level", "TRD_LOG_LEVEL")
	viper.BindEnv("scheduler.intervalMinutes", "TRD_FETCH_INTERVAL")
	viper.BindEnv("scheduler.autoFetch", "TRD_AUTO_FETCH")
	viper.BindEnv("cache.enabled", "TRD_CACHE_ENABLED")
	viper.BindEnv("cache.size", "TRD_CACHE_SIZE")
	viper.BindEnv("fetchMetrics.logPath", "TRD_METRICS_LOG")
	viper.BindEnv("presence.dbPath", "TRD_ONLINE_DB")

	err := viper.ReadInConfig()
	if err != nil {
		return nil, err
	}

	err = viper.Unmarshal(&conf)
	if err != nil {
		return nil, fmt.Errorf("unable to decode into config struct: %w", err)
	}

	cnfValidator := NewCnfValidator(&conf)
	err = cnfValidator.Validate()
	if err != nil {
		return nil, err
	}

	conf.AppName = AppName
	conf.Path = flags.ConfigPath
	conf.Debug = flags.DebugMode

	return &conf, nil
}
