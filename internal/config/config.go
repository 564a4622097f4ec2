package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"
)

const (
	ReportIndexMemory = "memory"
	ReportIndexSQLite = "sqlite"

	EnricherAuto      = "auto"
	EnricherRegex     = "regex"
	EnricherAnthropic = "anthropic"
)

// Config holds everything the server and CLI need at startup.
type Config struct {
	Server    ServerConfig
	Knowledge KnowledgeConfig
	Reports   ReportConfig
	Engine    EngineConfig
	Enricher  EnricherConfig
	Telemetry TelemetryConfig
	LogMode   string
}

type ServerConfig struct {
	Addr            string
	ProcessingDelay time.Duration
}

type KnowledgeConfig struct {
	// Dir overrides the embedded knowledge tables when set.
	Dir string
}

type ReportConfig struct {
	Dir           string
	Index         string
	SQLiteDSN     string
	ChromePath    string
	RenderTimeout time.Duration
}

type EngineConfig struct {
	// Seed pins the random source; 0 means seed from entropy.
	Seed int64
}

type EnricherConfig struct {
	Mode            string
	AnthropicAPIKey string
	AnthropicModel  string
}

type TelemetryConfig struct {
	OTLPEndpoint string
	ServiceName  string
}

// Load reads configuration from the environment and validates it.
func Load() (*Config, error) {
	cfg := &Config{
		Server: ServerConfig{
			Addr:            listenAddr(),
			ProcessingDelay: getEnvDurationOrDefault("PROCESSING_DELAY", 0),
		},
		Knowledge: KnowledgeConfig{
			Dir: getEnvOrDefault("KNOWLEDGE_DIR", ""),
		},
		Reports: ReportConfig{
			Dir:           getEnvOrDefault("REPORT_DIR", os.TempDir()),
			Index:         strings.ToLower(getEnvOrDefault("REPORT_INDEX", ReportIndexMemory)),
			SQLiteDSN:     getEnvOrDefault("REPORT_SQLITE_DSN", "file:ideasim_reports?mode=memory&cache=shared"),
			ChromePath:    getEnvOrDefault("CHROME_PATH", ""),
			RenderTimeout: getEnvDurationOrDefault("RENDER_TIMEOUT", 30*time.Second),
		},
		Engine: EngineConfig{
			Seed: getEnvInt64OrDefault("SIM_SEED", 0),
		},
		Enricher: EnricherConfig{
			Mode:            strings.ToLower(getEnvOrDefault("ENRICHER", EnricherAuto)),
			AnthropicAPIKey: getEnvOrDefault("ANTHROPIC_API_KEY", ""),
			AnthropicModel:  getEnvOrDefault("ANTHROPIC_MODEL", ""),
		},
		Telemetry: TelemetryConfig{
			OTLPEndpoint: getEnvOrDefault("OTEL_EXPORTER_OTLP_ENDPOINT", ""),
			ServiceName:  getEnvOrDefault("OTEL_SERVICE_NAME", "idea-sim"),
		},
		LogMode: getEnvOrDefault("LOG_MODE", "development"),
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

func (c *Config) Validate() error {
	switch c.Reports.Index {
	case ReportIndexMemory, ReportIndexSQLite:
	default:
		return fmt.Errorf("invalid REPORT_INDEX %q (want %s or %s)", c.Reports.Index, ReportIndexMemory, ReportIndexSQLite)
	}
	switch c.Enricher.Mode {
	case EnricherAuto, EnricherRegex:
	case EnricherAnthropic:
		if c.Enricher.AnthropicAPIKey == "" {
			return fmt.Errorf("ENRICHER=anthropic requires ANTHROPIC_API_KEY")
		}
	default:
		return fmt.Errorf("invalid ENRICHER %q", c.Enricher.Mode)
	}
	if strings.TrimSpace(c.Reports.Dir) == "" {
		return fmt.Errorf("REPORT_DIR must not be empty")
	}
	if c.Reports.RenderTimeout <= 0 {
		return fmt.Errorf("RENDER_TIMEOUT must be positive")
	}
	if c.Server.ProcessingDelay < 0 {
		return fmt.Errorf("PROCESSING_DELAY must not be negative")
	}
	return nil
}

func listenAddr() string {
	if addr := getEnvOrDefault("ADDR", ""); addr != "" {
		return addr
	}
	return ":" + getEnvOrDefault("PORT", "5000")
}

func getEnvOrDefault(key, def string) string {
	if v := strings.TrimSpace(os.Getenv(key)); v != "" {
		return v
	}
	return def
}

func getEnvInt64OrDefault(key string, def int64) int64 {
	v := strings.TrimSpace(os.Getenv(key))
	if v == "" {
		return def
	}
	n, err := strconv.ParseInt(v, 10, 64)
	if err != nil {
		return def
	}
	return n
}

func getEnvDurationOrDefault(key string, def time.Duration) time.Duration {
	v := strings.TrimSpace(os.Getenv(key))
	if v == "" {
		return def
	}
	if d, err := time.ParseDuration(v); err == nil {
		return d
	}
	// bare integers are milliseconds
	if ms, err := strconv.Atoi(v); err == nil {
		return time.Duration(ms) * time.Millisecond
	}
	return def
}
