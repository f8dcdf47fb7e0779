package config

import (
	"errors"
	"fmt"
	"os"
	"strconv"
	"time"

	sharedcfg "github.com/couchcryptid/storm-data-shared/config"
)

// Config holds all service settings, populated from environment variables.
type Config struct {
	KafkaBrokers     []string
	KafkaSourceTopic string
	KafkaSinkTopic   string
	KafkaGroupID     string
	HTTPAddr         string
	LogLevel         string
	LogFormat        string
	ShutdownTimeout  time.Duration

	BatchSize          int
	BatchFlushInterval time.Duration
	AssessWorkers      int

	// Mapbox surface classification configuration.
	MapboxToken     string
	MapboxEnabled   bool
	MapboxTimeout   time.Duration
	MapboxCacheSize int

	// Damage-zone geometry attached to each assessment.
	ZonesEnabled bool
	ZoneSegments int
	ZonesCRS     int

	// OpenTelemetry trace export.
	TracesExporter string
	OTLPEndpoint   string
	ServiceName    string
}

// Zone segment bounds and supported output CRS codes.
const (
	minZoneSegments = 8
	maxZoneSegments = 720
	crsGeographic   = 4326
	crsWebMercator  = 3857
)

// Trace exporters accepted in OTEL_TRACES_EXPORTER.
const (
	TracesNone   = "none"
	TracesStdout = "stdout"
	TracesOTLP   = "otlp"
)

// Load reads configuration from environment variables, applying defaults where unset.
func Load() (*Config, error) {
	shutdownTimeout, err := sharedcfg.ParseShutdownTimeout()
	if err != nil {
		return nil, err
	}

	mapboxTimeoutStr := sharedcfg.EnvOrDefault("MAPBOX_TIMEOUT", "5s")
	mapboxTimeout, err2 := time.ParseDuration(mapboxTimeoutStr)
	if err2 != nil || mapboxTimeout <= 0 {
		return nil, errors.New("invalid MAPBOX_TIMEOUT")
	}

	batchSize, err := sharedcfg.ParseBatchSize()
	if err != nil {
		return nil, err
	}

	flushInterval, err := sharedcfg.ParseBatchFlushInterval()
	if err != nil {
		return nil, err
	}

	mapboxCacheSize := parseMapboxCacheSize()

	workers, err := parseIntInRange("ASSESS_WORKERS", 4, 1, 64)
	if err != nil {
		return nil, err
	}

	zoneSegments, err := parseIntInRange("ZONE_SEGMENTS", 64, minZoneSegments, maxZoneSegments)
	if err != nil {
		return nil, err
	}

	zonesCRS, err := parseZonesCRS()
	if err != nil {
		return nil, err
	}

	mapboxToken := os.Getenv("MAPBOX_TOKEN")
	mapboxEnabled := mapboxToken != ""
	if v := os.Getenv("MAPBOX_ENABLED"); v != "" {
		mapboxEnabled = v == "true"
	}

	cfg := &Config{
		KafkaBrokers:       sharedcfg.ParseBrokers(sharedcfg.EnvOrDefault("KAFKA_BROKERS", "localhost:9092")),
		KafkaSourceTopic:   sharedcfg.EnvOrDefault("KAFKA_SOURCE_TOPIC", "impact-requests"),
		KafkaSinkTopic:     sharedcfg.EnvOrDefault("KAFKA_SINK_TOPIC", "impact-assessments"),
		KafkaGroupID:       sharedcfg.EnvOrDefault("KAFKA_GROUP_ID", "impact-effects"),
		HTTPAddr:           sharedcfg.EnvOrDefault("HTTP_ADDR", ":8080"),
		LogLevel:           sharedcfg.EnvOrDefault("LOG_LEVEL", "info"),
		LogFormat:          sharedcfg.EnvOrDefault("LOG_FORMAT", "json"),
		ShutdownTimeout:    shutdownTimeout,
		BatchSize:          batchSize,
		BatchFlushInterval: flushInterval,
		AssessWorkers:      workers,

		MapboxToken:     mapboxToken,
		MapboxEnabled:   mapboxEnabled,
		MapboxTimeout:   mapboxTimeout,
		MapboxCacheSize: mapboxCacheSize,

		ZonesEnabled: sharedcfg.EnvOrDefault("ZONES_ENABLED", "true") != "false",
		ZoneSegments: zoneSegments,
		ZonesCRS:     zonesCRS,

		TracesExporter: sharedcfg.EnvOrDefault("OTEL_TRACES_EXPORTER", TracesNone),
		OTLPEndpoint:   sharedcfg.EnvOrDefault("OTEL_EXPORTER_OTLP_ENDPOINT", "localhost:4318"),
		ServiceName:    sharedcfg.EnvOrDefault("OTEL_SERVICE_NAME", "impact-effects-service"),
	}

	if len(cfg.KafkaBrokers) == 0 {
		return nil, errors.New("KAFKA_BROKERS is required")
	}
	if cfg.KafkaSourceTopic == "" {
		return nil, errors.New("KAFKA_SOURCE_TOPIC is required")
	}
	if cfg.KafkaSinkTopic == "" {
		return nil, errors.New("KAFKA_SINK_TOPIC is required")
	}
	if cfg.MapboxEnabled && cfg.MapboxToken == "" {
		return nil, errors.New("MAPBOX_ENABLED is true but MAPBOX_TOKEN is not set")
	}
	switch cfg.TracesExporter {
	case TracesNone, TracesStdout, TracesOTLP:
	default:
		return nil, fmt.Errorf("invalid OTEL_TRACES_EXPORTER %q: want none, stdout or otlp", cfg.TracesExporter)
	}

	return cfg, nil
}

func parseMapboxCacheSize() int {
	if s := os.Getenv("MAPBOX_CACHE_SIZE"); s != "" {
		if n, err := strconv.Atoi(s); err == nil && n > 0 {
			return n
		}
	}
	return 1000
}

func parseIntInRange(name string, def, lo, hi int) (int, error) {
	s := os.Getenv(name)
	if s == "" {
		return def, nil
	}
	n, err := strconv.Atoi(s)
	if err != nil || n < lo || n > hi {
		return 0, fmt.Errorf("invalid %s: must be an integer between %d and %d", name, lo, hi)
	}
	return n, nil
}

func parseZonesCRS() (int, error) {
	n, err := strconv.Atoi(sharedcfg.EnvOrDefault("ZONES_CRS", strconv.Itoa(crsGeographic)))
	if err != nil || (n != crsGeographic && n != crsWebMercator) {
		return 0, fmt.Errorf("invalid ZONES_CRS: must be %d or %d", crsGeographic, crsWebMercator)
	}
	return n, nil
}
