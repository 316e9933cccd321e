package config

import (
	"bytes"
	"errors"
	"fmt"
	"io"
	"os"
	"strconv"
	"strings"
	"time"

	"gopkg.in/yaml.v3"

	integrityconfig "triad/internal/integrity/config"
	threatconfig "triad/internal/threat/config"
	platformstrings "triad/pkg/platform/strings"
)

// Server captures process level configuration.
type Server struct {
	Addr string
	// OperatorSigningKey verifies HS256 operator bearer tokens.
	OperatorSigningKey string
	OperatorIssuer     string
	OperatorAudience   string
	// AdminToken guards the admin routes. Empty disables them.
	AdminToken string

	SentinelName     string
	SnapshotInterval time.Duration
	ShutdownTimeout  time.Duration
	// TuningFile is an optional YAML file overriding engine tuning.
	TuningFile string

	Log      LogConfig
	Redis    RedisConfig
	Postgres PostgresConfig
	Kafka    KafkaConfig
}

type LogConfig struct {
	Level  string
	Format string
}

// RedisConfig configures the snapshot store connection. An empty URL keeps
// snapshots in memory.
type RedisConfig struct {
	URL          string
	PoolSize     int
	MinIdleConns int
	DialTimeout  time.Duration
	ReadTimeout  time.Duration
	WriteTimeout time.Duration
	SnapshotTTL  time.Duration
}

// PostgresConfig configures the quarantine and audit stores. An empty DSN
// keeps both in memory.
type PostgresConfig struct {
	DSN             string
	MaxOpenConns    int
	MaxIdleConns    int
	ConnMaxLifetime time.Duration
}

// KafkaConfig configures the sentinel event publisher. No brokers disables it.
type KafkaConfig struct {
	Brokers           []string
	ClientID          string
	Topic             string
	Partitions        int32
	ReplicationFactor int16
}

const devSigningKey = "dev-operator-key-change-in-production"

// FromEnv builds a Server config from TRIAD_* environment variables so main
// stays lean.
func FromEnv() (Server, error) {
	var errs []error
	env := envReader{errs: &errs}

	cfg := Server{
		Addr:               env.str("TRIAD_ADDR", ":8080"),
		OperatorSigningKey: env.str("TRIAD_OPERATOR_SIGNING_KEY", devSigningKey),
		OperatorIssuer:     env.str("TRIAD_OPERATOR_ISSUER", "triad"),
		OperatorAudience:   env.str("TRIAD_OPERATOR_AUDIENCE", "triad-operators"),
		AdminToken:         env.str("TRIAD_ADMIN_TOKEN", ""),
		SentinelName:       env.str("TRIAD_SENTINEL_NAME", "primary"),
		SnapshotInterval:   env.duration("TRIAD_SNAPSHOT_INTERVAL", 30*time.Second),
		ShutdownTimeout:    env.duration("TRIAD_SHUTDOWN_TIMEOUT", 10*time.Second),
		TuningFile:         env.str("TRIAD_TUNING_FILE", ""),
		Log: LogConfig{
			Level:  env.str("TRIAD_LOG_LEVEL", "info"),
			Format: env.str("TRIAD_LOG_FORMAT", "json"),
		},
		Redis: RedisConfig{
			URL:          env.str("TRIAD_REDIS_URL", ""),
			PoolSize:     env.integer("TRIAD_REDIS_POOL_SIZE", 10),
			MinIdleConns: env.integer("TRIAD_REDIS_MIN_IDLE_CONNS", 2),
			DialTimeout:  env.duration("TRIAD_REDIS_DIAL_TIMEOUT", 5*time.Second),
			ReadTimeout:  env.duration("TRIAD_REDIS_READ_TIMEOUT", 3*time.Second),
			WriteTimeout: env.duration("TRIAD_REDIS_WRITE_TIMEOUT", 3*time.Second),
			SnapshotTTL:  env.duration("TRIAD_SNAPSHOT_TTL", 0),
		},
		Postgres: PostgresConfig{
			DSN:             env.str("TRIAD_POSTGRES_DSN", ""),
			MaxOpenConns:    env.integer("TRIAD_POSTGRES_MAX_OPEN_CONNS", 10),
			MaxIdleConns:    env.integer("TRIAD_POSTGRES_MAX_IDLE_CONNS", 5),
			ConnMaxLifetime: env.duration("TRIAD_POSTGRES_CONN_MAX_LIFETIME", 30*time.Minute),
		},
		Kafka: KafkaConfig{
			Brokers:           env.list("TRIAD_KAFKA_BROKERS"),
			ClientID:          env.str("TRIAD_KAFKA_CLIENT_ID", "triad"),
			Topic:             env.str("TRIAD_KAFKA_TOPIC", "triad.sentinel.events"),
			Partitions:        int32(env.integer("TRIAD_KAFKA_PARTITIONS", 3)),
			ReplicationFactor: int16(env.integer("TRIAD_KAFKA_REPLICATION_FACTOR", 1)),
		},
	}
	if cfg.SnapshotInterval <= 0 {
		errs = append(errs, errors.New("TRIAD_SNAPSHOT_INTERVAL must be positive"))
	}
	if err := errors.Join(errs...); err != nil {
		return Server{}, err
	}
	return cfg, nil
}

// UsesDevSigningKey reports whether operator tokens are verified with the
// built-in development key.
func (s Server) UsesDevSigningKey() bool {
	return s.OperatorSigningKey == devSigningKey
}

type envReader struct {
	errs *[]error
}

func (e envReader) str(key, fallback string) string {
	if v := strings.TrimSpace(os.Getenv(key)); v != "" {
		return v
	}
	return fallback
}

func (e envReader) integer(key string, fallback int) int {
	raw := strings.TrimSpace(os.Getenv(key))
	if raw == "" {
		return fallback
	}
	n, err := strconv.Atoi(raw)
	if err != nil {
		*e.errs = append(*e.errs, fmt.Errorf("%s: %w", key, err))
		return fallback
	}
	return n
}

func (e envReader) duration(key string, fallback time.Duration) time.Duration {
	raw := strings.TrimSpace(os.Getenv(key))
	if raw == "" {
		return fallback
	}
	d, err := time.ParseDuration(raw)
	if err != nil {
		*e.errs = append(*e.errs, fmt.Errorf("%s: %w", key, err))
		return fallback
	}
	return d
}

func (e envReader) list(key string) []string {
	return platformstrings.SplitList(os.Getenv(key), ",")
}

// Tuning holds engine parameters that may be overridden from YAML. Fields
// missing from the file keep their defaults; lexicon categories named in the
// file replace the default category of the same name.
type Tuning struct {
	Threat    threatconfig.Config    `yaml:"threat"`
	Integrity integrityconfig.Config `yaml:"integrity"`
}

// DefaultTuning returns the built-in engine parameters.
func DefaultTuning() Tuning {
	return Tuning{
		Threat:    threatconfig.DefaultConfig(),
		Integrity: integrityconfig.DefaultConfig(),
	}
}

// LoadTuning reads path over the defaults. An empty path returns the
// defaults.
func LoadTuning(path string) (Tuning, error) {
	tuning := DefaultTuning()
	if path == "" {
		return tuning, nil
	}
	data, err := os.ReadFile(path)
	if err != nil {
		return Tuning{}, fmt.Errorf("read tuning file: %w", err)
	}
	return ParseTuning(data)
}

// ParseTuning decodes YAML over the defaults and validates the result.
// Unknown keys are rejected so typos do not silently keep a default.
func ParseTuning(data []byte) (Tuning, error) {
	tuning := DefaultTuning()
	dec := yaml.NewDecoder(bytes.NewReader(data))
	dec.KnownFields(true)
	if err := dec.Decode(&tuning); err != nil && !errors.Is(err, io.EOF) {
		return Tuning{}, fmt.Errorf("parse tuning file: %w", err)
	}
	if err := tuning.Threat.Validate(); err != nil {
		return Tuning{}, fmt.Errorf("threat tuning: %w", err)
	}
	if err := tuning.Integrity.Validate(); err != nil {
		return Tuning{}, fmt.Errorf("integrity tuning: %w", err)
	}
	return tuning, nil
}
