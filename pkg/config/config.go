// Package config loads and validates application configuration from YAML files
// with environment-variable overrides. It provides typed structs for every
// subsystem (Inputs, Compare, Report, the result sinks, Logging, Metrics).
package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"gopkg.in/yaml.v3"

	apperrors "github.com/Adithya-Monish-Kumar-K/ontocompare/pkg/errors"
)

// Config is the top-level application configuration.
type Config struct {
	Inputs   InputsConfig   `yaml:"inputs"`
	Compare  CompareConfig  `yaml:"compare"`
	Report   ReportConfig   `yaml:"report"`
	Postgres PostgresConfig `yaml:"postgres"`
	Kafka    KafkaConfig    `yaml:"kafka"`
	Redis    RedisConfig    `yaml:"redis"`
	SQLite   SQLiteConfig   `yaml:"sqlite"`
	Sink     SinkConfig     `yaml:"sink"`
	Logging  LoggingConfig  `yaml:"logging"`
	Metrics  MetricsConfig  `yaml:"metrics"`
}

// InputsConfig points at the ontology CSV exports and the WN-LMF XML file.
type InputsConfig struct {
	ConceptsPath  string `yaml:"conceptsPath"`
	RelationsPath string `yaml:"relationsPath"`
	WordNetPath   string `yaml:"wordnetPath"`
}

// CompareConfig controls matching and the hypernym search.
type CompareConfig struct {
	MaxHops        int    `yaml:"maxHops"`
	LemmaDelimiter string `yaml:"lemmaDelimiter"`
	Workers        int    `yaml:"workers"`
}

// ReportConfig controls where reports are written and how much they sample.
type ReportConfig struct {
	OutputDir               string `yaml:"outputDir"`
	ReportFile              string `yaml:"reportFile"`
	SummaryFile             string `yaml:"summaryFile"`
	AgreeDumpFile           string `yaml:"agreeDumpFile"`
	DisagreeDumpFile        string `yaml:"disagreeDumpFile"`
	MatchesFile             string `yaml:"matchesFile"`
	SamplePerCategory       int    `yaml:"samplePerCategory"`
	ValidationDisagreeLimit int    `yaml:"validationDisagreeLimit"`
	MatchesSample           int    `yaml:"matchesSample"`
	MatchesSeed             int64  `yaml:"matchesSeed"`
	PolysemyThreshold       int    `yaml:"polysemyThreshold"`
	// Render is "auto", "always" or "never"; auto renders the markdown
	// summary with glamour only when stdout is a terminal.
	Render string `yaml:"render"`
}

// PostgresConfig holds PostgreSQL connection parameters.
type PostgresConfig struct {
	Enabled         bool          `yaml:"enabled"`
	Host            string        `yaml:"host"`
	Port            int           `yaml:"port"`
	Database        string        `yaml:"database"`
	User            string        `yaml:"user"`
	Password        string        `yaml:"password"`
	SSLMode         string        `yaml:"sslMode"`
	MaxOpenConns    int           `yaml:"maxOpenConns"`
	MaxIdleConns    int           `yaml:"maxIdleConns"`
	ConnMaxLifetime time.Duration `yaml:"connMaxLifetime"`
}

// DSN returns a lib/pq-compatible data source name.
func (p PostgresConfig) DSN() string {
	return fmt.Sprintf(
		"host=%s port=%d user=%s password=%s dbname=%s sslmode=%s",
		p.Host, p.Port, p.User, p.Password, p.Database, p.SSLMode,
	)
}

// KafkaConfig holds Kafka broker and topic settings.
type KafkaConfig struct {
	Enabled bool        `yaml:"enabled"`
	Brokers []string    `yaml:"brokers"`
	Topics  KafkaTopics `yaml:"topics"`
}

// KafkaTopics maps logical topic names to their Kafka topic strings.
type KafkaTopics struct {
	PairResults string `yaml:"pairResults"`
	RunSummary  string `yaml:"runSummary"`
}

// RedisConfig holds Redis connection parameters for the summary cache.
type RedisConfig struct {
	Enabled   bool          `yaml:"enabled"`
	Addr      string        `yaml:"addr"`
	Password  string        `yaml:"password"`
	DB        int           `yaml:"db"`
	PoolSize  int           `yaml:"poolSize"`
	KeyPrefix string        `yaml:"keyPrefix"`
	TTL       time.Duration `yaml:"ttl"`
}

// SQLiteConfig points at a local result store file.
type SQLiteConfig struct {
	Enabled bool   `yaml:"enabled"`
	Path    string `yaml:"path"`
}

// SinkConfig bounds each publish to an external result sink.
type SinkConfig struct {
	Timeout          time.Duration `yaml:"timeout"`
	RetryAttempts    int           `yaml:"retryAttempts"`
	RetryBaseDelay   time.Duration `yaml:"retryBaseDelay"`
	BatchSize        int           `yaml:"batchSize"`
	BreakerThreshold int           `yaml:"breakerThreshold"`
	BreakerReset     time.Duration `yaml:"breakerReset"`
}

// LoggingConfig controls structured logging level and output format.
type LoggingConfig struct {
	Level  string `yaml:"level"`
	Format string `yaml:"format"`
}

// MetricsConfig controls the Prometheus scrape server and Pushgateway push.
type MetricsConfig struct {
	Enabled        bool   `yaml:"enabled"`
	Port           int    `yaml:"port"`
	PushgatewayURL string `yaml:"pushgatewayUrl"`
	Job            string `yaml:"job"`
}

// Load reads a YAML config file (if provided) and applies environment-variable
// overrides. It returns a Config populated with defaults for any missing
// values.
func Load(path string) (*Config, error) {
	cfg := defaultConfig()
	if path != "" {
		data, err := os.ReadFile(path)
		if err != nil {
			return nil, fmt.Errorf("reading config file %s: %w", path, err)
		}
		if err := yaml.Unmarshal(data, cfg); err != nil {
			return nil, fmt.Errorf("parsing config file %s: %w", path, err)
		}
	}
	applyEnvOverrides(cfg)
	return cfg, nil
}

// Validate checks the settings the comparison cannot run without.
func (c *Config) Validate() error {
	switch {
	case c.Inputs.ConceptsPath == "":
		return apperrors.New(apperrors.ErrInvalidConfig, "inputs.conceptsPath is required")
	case c.Inputs.RelationsPath == "":
		return apperrors.New(apperrors.ErrInvalidConfig, "inputs.relationsPath is required")
	case c.Inputs.WordNetPath == "":
		return apperrors.New(apperrors.ErrInvalidConfig, "inputs.wordnetPath is required")
	case c.Compare.MaxHops < 0:
		return apperrors.Newf(apperrors.ErrInvalidConfig, "compare.maxHops must be >= 0, got %d", c.Compare.MaxHops)
	case c.Compare.LemmaDelimiter == "":
		return apperrors.New(apperrors.ErrInvalidConfig, "compare.lemmaDelimiter must not be empty")
	case c.Compare.Workers < 0:
		return apperrors.Newf(apperrors.ErrInvalidConfig, "compare.workers must be >= 0, got %d", c.Compare.Workers)
	case c.Report.SamplePerCategory < 0:
		return apperrors.Newf(apperrors.ErrInvalidConfig, "report.samplePerCategory must be >= 0, got %d", c.Report.SamplePerCategory)
	case c.Report.ValidationDisagreeLimit < 0:
		return apperrors.Newf(apperrors.ErrInvalidConfig, "report.validationDisagreeLimit must be >= 0, got %d", c.Report.ValidationDisagreeLimit)
	case c.Report.MatchesSample < 0:
		return apperrors.Newf(apperrors.ErrInvalidConfig, "report.matchesSample must be >= 0, got %d", c.Report.MatchesSample)
	case c.Report.Render != "auto" && c.Report.Render != "always" && c.Report.Render != "never":
		return apperrors.Newf(apperrors.ErrInvalidConfig, "report.render must be auto, always or never, got %q", c.Report.Render)
	case c.SQLite.Enabled && c.SQLite.Path == "":
		return apperrors.New(apperrors.ErrInvalidConfig, "sqlite.path is required when sqlite is enabled")
	case c.Sink.BatchSize <= 0:
		return apperrors.Newf(apperrors.ErrInvalidConfig, "sink.batchSize must be > 0, got %d", c.Sink.BatchSize)
	case c.Sink.RetryAttempts < 1:
		return apperrors.Newf(apperrors.ErrInvalidConfig, "sink.retryAttempts must be >= 1, got %d", c.Sink.RetryAttempts)
	}
	return nil
}

func defaultConfig() *Config {
	return &Config{
		Inputs: InputsConfig{
			ConceptsPath:  "data/arabic-ontology/Concepts.csv",
			RelationsPath: "data/arabic-ontology/Relations.csv",
			WordNetPath:   "data/awn4.xml",
		},
		Compare: CompareConfig{
			MaxHops:        8,
			LemmaDelimiter: "|",
			Workers:        0,
		},
		Report: ReportConfig{
			OutputDir:               "out",
			ReportFile:              "hierarchy_comparison_report.txt",
			SummaryFile:             "hierarchy_comparison_summary.md",
			AgreeDumpFile:           "validation_all_agree.txt",
			DisagreeDumpFile:        "validation_disagree_sample.txt",
			MatchesFile:             "ontology_vs_awn4_comparison.txt",
			SamplePerCategory:       15,
			ValidationDisagreeLimit: 100,
			MatchesSample:           35,
			MatchesSeed:             42,
			PolysemyThreshold:       10,
			Render:                  "auto",
		},
		Postgres: PostgresConfig{
			Host:            "localhost",
			Port:            5432,
			Database:        "ontocompare",
			User:            "ontocompare",
			Password:        "localdev",
			SSLMode:         "disable",
			MaxOpenConns:    10,
			MaxIdleConns:    2,
			ConnMaxLifetime: 5 * time.Minute,
		},
		Kafka: KafkaConfig{
			Brokers: []string{"localhost:9092"},
			Topics: KafkaTopics{
				PairResults: "ontocompare.pair-results",
				RunSummary:  "ontocompare.run-summary",
			},
		},
		Redis: RedisConfig{
			Addr:      "localhost:6379",
			PoolSize:  4,
			KeyPrefix: "ontocompare:",
			TTL:       7 * 24 * time.Hour,
		},
		SQLite: SQLiteConfig{
			Path: "out/ontocompare.db",
		},
		Sink: SinkConfig{
			Timeout:          30 * time.Second,
			RetryAttempts:    3,
			RetryBaseDelay:   200 * time.Millisecond,
			BatchSize:        500,
			BreakerThreshold: 2,
			BreakerReset:     time.Minute,
		},
		Logging: LoggingConfig{
			Level:  "info",
			Format: "text",
		},
		Metrics: MetricsConfig{
			Port: 9090,
			Job:  "ontocompare",
		},
	}
}

// applyEnvOverrides reads OC_* environment variables and overrides the
// corresponding config fields.
func applyEnvOverrides(cfg *Config) {
	if v := os.Getenv("OC_CONCEPTS_PATH"); v != "" {
		cfg.Inputs.ConceptsPath = v
	}
	if v := os.Getenv("OC_RELATIONS_PATH"); v != "" {
		cfg.Inputs.RelationsPath = v
	}
	if v := os.Getenv("OC_WORDNET_PATH"); v != "" {
		cfg.Inputs.WordNetPath = v
	}
	if v := os.Getenv("OC_MAX_HOPS"); v != "" {
		if hops, err := strconv.Atoi(v); err == nil {
			cfg.Compare.MaxHops = hops
		}
	}
	if v := os.Getenv("OC_WORKERS"); v != "" {
		if n, err := strconv.Atoi(v); err == nil {
			cfg.Compare.Workers = n
		}
	}
	if v := os.Getenv("OC_OUTPUT_DIR"); v != "" {
		cfg.Report.OutputDir = v
	}
	if v := os.Getenv("OC_POSTGRES_ENABLED"); v != "" {
		cfg.Postgres.Enabled = parseBool(v, cfg.Postgres.Enabled)
	}
	if v := os.Getenv("OC_POSTGRES_HOST"); v != "" {
		cfg.Postgres.Host = v
	}
	if v := os.Getenv("OC_POSTGRES_PORT"); v != "" {
		if port, err := strconv.Atoi(v); err == nil {
			cfg.Postgres.Port = port
		}
	}
	if v := os.Getenv("OC_POSTGRES_DATABASE"); v != "" {
		cfg.Postgres.Database = v
	}
	if v := os.Getenv("OC_POSTGRES_USER"); v != "" {
		cfg.Postgres.User = v
	}
	if v := os.Getenv("OC_POSTGRES_PASSWORD"); v != "" {
		cfg.Postgres.Password = v
	}
	if v := os.Getenv("OC_POSTGRES_SSLMODE"); v != "" {
		cfg.Postgres.SSLMode = v
	}
	if v := os.Getenv("OC_KAFKA_ENABLED"); v != "" {
		cfg.Kafka.Enabled = parseBool(v, cfg.Kafka.Enabled)
	}
	if v := os.Getenv("OC_KAFKA_BROKERS"); v != "" {
		cfg.Kafka.Brokers = strings.Split(v, ",")
	}
	if v := os.Getenv("OC_REDIS_ENABLED"); v != "" {
		cfg.Redis.Enabled = parseBool(v, cfg.Redis.Enabled)
	}
	if v := os.Getenv("OC_REDIS_ADDR"); v != "" {
		cfg.Redis.Addr = v
	}
	if v := os.Getenv("OC_REDIS_PASSWORD"); v != "" {
		cfg.Redis.Password = v
	}
	if v := os.Getenv("OC_SQLITE_ENABLED"); v != "" {
		cfg.SQLite.Enabled = parseBool(v, cfg.SQLite.Enabled)
	}
	if v := os.Getenv("OC_SQLITE_PATH"); v != "" {
		cfg.SQLite.Path = v
	}
	if v := os.Getenv("OC_REPORT_RENDER"); v != "" {
		cfg.Report.Render = v
	}
	if v := os.Getenv("OC_LOGGING_LEVEL"); v != "" {
		cfg.Logging.Level = v
	}
	if v := os.Getenv("OC_LOGGING_FORMAT"); v != "" {
		cfg.Logging.Format = v
	}
	if v := os.Getenv("OC_METRICS_PUSHGATEWAY_URL"); v != "" {
		cfg.Metrics.PushgatewayURL = v
	}
}

func parseBool(v string, fallback bool) bool {
	b, err := strconv.ParseBool(v)
	if err != nil {
		return fallback
	}
	return b
}
