package config

import "match-ledger-service/internal/ingest"

// Config holds runtime configuration for the server.
type Config struct {
	Port            string
	DBPath          string
	IngestThreshold float64
	Directory       DirectoryConfig
	Metrics         MetricsConfig
}

// DirectoryConfig controls the write-behind copy to the game directory.
type DirectoryConfig struct {
	Enabled        bool
	RedisAddr      string
	RedisDB        int
	OutboxInterval Duration
}

// Load reads configuration from environment variables with sensible defaults.
func Load() Config {
	return Config{
		Port:            envOrDefault(envPort, defaultPort),
		DBPath:          envOrDefault(envDBPath, defaultDBPath),
		IngestThreshold: floatEnvOrDefault(envIngestThreshold, ingest.DefaultThreshold),
		Directory:       loadDirectory(),
		Metrics:         loadMetrics(),
	}
}

func loadDirectory() DirectoryConfig {
	return DirectoryConfig{
		Enabled:        boolEnvOrDefault(envDirectoryOn, false),
		RedisAddr:      envOrDefault(envRedisAddr, defaultRedisAddr),
		RedisDB:        intEnvOrDefault(envRedisDB, defaultRedisDB),
		OutboxInterval: durationEnvOrDefault(envOutboxInterval, defaultOutboxInterval),
	}
}
