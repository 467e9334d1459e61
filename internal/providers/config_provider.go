package providers

import (
	"fmt"
	"path/filepath"
	"statcache/internal/structures"
	"strings"
	"time"

	"github.com/spf13/viper"
)

func NewConfigProvider(flags *structures.CliFlags) (*structures.Config, error) {
	var conf structures.Config

	v := viper.New()
	filename := filepath.Base(flags.ConfigPath)
	v.AddConfigPath(filepath.Dir(flags.ConfigPath))
	v.SetConfigName(strings.TrimSuffix(filename, filepath.Ext(filename)))
	v.SetConfigType("yaml")

	v.SetDefault("store.keyPrefix", "statcache")
	v.SetDefault("monitor.enabled", true)
	v.SetDefault("monitor.interval", 30*time.Second)
	v.SetDefault("freshness.practiceTTL", 3600)
	v.SetDefault("freshness.hostingTTL", 86400)
	v.SetDefault("freshness.blogTTL", 3600)
	v.SetDefault("cache.ttl", 5)

	// an empty STATCACHE_STORE_URI must switch the store off
	v.AllowEmptyEnv(true)
	v.BindEnv("logger.level", "STATCACHE_LOG_LEVEL")
	v.BindEnv("store.uri", "STATCACHE_STORE_URI")
	v.BindEnv("store.compress", "STATCACHE_STORE_COMPRESS")
	v.BindEnv("cache.enabled", "STATCACHE_CACHE_ENABLED")
	v.BindEnv("cache.size", "STATCACHE_CACHE_SIZE")
	v.BindEnv("metrics.enabled", "STATCACHE_METRICS_ENABLED")

	err := v.ReadInConfig()
	if err != nil {
		return nil, err
	}

	err = v.Unmarshal(&conf)
	if err != nil {
		return nil, fmt.Errorf("unable to decode into config struct: %w", err)
	}

	cnfValidator := NewCnfValidator(&conf)
	err = cnfValidator.Validate()
	if err != nil {
		return nil, err
	}

	conf.AppName = "StatCache"
	conf.Path = flags.ConfigPath
	conf.Debug = flags.DebugMode

	return &conf, nil
}
