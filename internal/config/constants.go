package config

import "time"

const (
	envPort            = "PORT"
	envDBPath          = "DB_PATH"
	envRedisAddr       = "REDIS_ADDR"
	envRedisDB         = "REDIS_DB"
	envDirectoryOn     = "DIRECTORY_ENABLED"
	envOutboxInterval  = "OUTBOX_INTERVAL"
	envIngestThreshold = "INGEST_CONFIDENCE_THRESHOLD"
	envMetricsPort     = "METRICS_PORT"
	envMetricsOn       = "METRICS_ENABLED"
	envOtelEndpoint    = "OTEL_EXPORTER_OTLP_ENDPOINT"
	envOtelService     = "OTEL_SERVICE_NAME"
	envOtelInsecure    = "OTEL_EXPORTER_OTLP_INSECURE"

	defaultPort        = "4000"
	defaultDBPath      = "data/games.db"
	defaultRedisAddr   = "localhost:6379"
	defaultRedisDB     = 0
	defaultMetricsPort = "9090"
	// Drain cadence for the directory outbox.
	defaultOutboxInterval = 5 * time.Second
)
