package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestFromEnv_Defaults(t *testing.T) {
	cfg, err := FromEnv()
	require.NoError(t, err)

	assert.Equal(t, ":8080", cfg.Addr)
	assert.True(t, cfg.UsesDevSigningKey())
	assert.Equal(t, "primary", cfg.SentinelName)
	assert.Equal(t, "triad-operators", cfg.OperatorAudience)
	assert.Equal(t, 30*time.Second, cfg.SnapshotInterval)
	assert.Empty(t, cfg.Redis.URL)
	assert.Empty(t, cfg.Postgres.DSN)
	assert.Empty(t, cfg.Kafka.Brokers)
	assert.Equal(t, "json", cfg.Log.Format)
}

func TestFromEnv_Overrides(t *testing.T) {
	t.Setenv("TRIAD_ADDR", ":9090")
	t.Setenv("TRIAD_OPERATOR_SIGNING_KEY", "s3cret")
	t.Setenv("TRIAD_KAFKA_BROKERS", "kafka-1:9092, kafka-2:9092,kafka-1:9092,")
	t.Setenv("TRIAD_KAFKA_PARTITIONS", "6")
	t.Setenv("TRIAD_SNAPSHOT_INTERVAL", "1m")
	t.Setenv("TRIAD_REDIS_URL", "redis://cache:6379/0")
	t.Setenv("TRIAD_LOG_LEVEL", "debug")

	cfg, err := FromEnv()
	require.NoError(t, err)

	assert.Equal(t, ":9090", cfg.Addr)
	assert.False(t, cfg.UsesDevSigningKey())
	assert.Equal(t, []string{"kafka-1:9092", "kafka-2:9092"}, cfg.Kafka.Brokers)
	assert.Equal(t, int32(6), cfg.Kafka.Partitions)
	assert.Equal(t, time.Minute, cfg.SnapshotInterval)
	assert.Equal(t, "redis://cache:6379/0", cfg.Redis.URL)
	assert.Equal(t, "debug", cfg.Log.Level)
}

func TestFromEnv_InvalidValues(t *testing.T) {
	t.Setenv("TRIAD_REDIS_POOL_SIZE", "many")
	t.Setenv("TRIAD_SHUTDOWN_TIMEOUT", "soon")

	_, err := FromEnv()
	require.Error(t, err)
	assert.ErrorContains(t, err, "TRIAD_REDIS_POOL_SIZE")
	assert.ErrorContains(t, err, "TRIAD_SHUTDOWN_TIMEOUT")
}

func TestFromEnv_RejectsNonPositiveSnapshotInterval(t *testing.T) {
	t.Setenv("TRIAD_SNAPSHOT_INTERVAL", "0s")
	_, err := FromEnv()
	assert.ErrorContains(t, err, "TRIAD_SNAPSHOT_INTERVAL")
}

func TestParseTuning(t *testing.T) {
	t.Run("empty document keeps defaults", func(t *testing.T) {
		tuning, err := ParseTuning(nil)
		require.NoError(t, err)
		assert.Equal(t, DefaultTuning(), tuning)
	})

	t.Run("overrides are applied", func(t *testing.T) {
		tuning, err := ParseTuning([]byte(`
threat:
  spike_threshold: 250
  cascade_window: 10s
  lexicons:
    manipulation:
      urgency: ['\bhurry\b']
integrity:
  batch_concurrency: 2
`))
		require.NoError(t, err)

		assert.Equal(t, 250.0, tuning.Threat.SpikeThreshold)
		assert.Equal(t, 10*time.Second, tuning.Threat.CascadeWindow)
		assert.Equal(t, []string{`\bhurry\b`}, tuning.Threat.Lexicons.Manipulation["urgency"])
		assert.NotEmpty(t, tuning.Threat.Lexicons.Manipulation["secrecy"], "unnamed categories keep their defaults")
		assert.Equal(t, 50, tuning.Threat.MemoryCapacity)
		assert.Equal(t, 2, tuning.Integrity.BatchConcurrency)
		assert.Equal(t, 500, tuning.Integrity.LogCapacity)
	})

	t.Run("unknown keys are rejected", func(t *testing.T) {
		_, err := ParseTuning([]byte("threat:\n  spike_treshold: 250\n"))
		assert.Error(t, err)
	})

	t.Run("invalid values are rejected", func(t *testing.T) {
		_, err := ParseTuning([]byte("integrity:\n  major_confidence: 1.5\n"))
		assert.ErrorContains(t, err, "major_confidence")
	})

	t.Run("invalid lexicon is rejected", func(t *testing.T) {
		_, err := ParseTuning([]byte("threat:\n  lexicons:\n    sovereignty:\n      broken: ['(unclosed']\n"))
		assert.Error(t, err)
	})
}

func TestLoadTuning(t *testing.T) {
	tuning, err := LoadTuning("")
	require.NoError(t, err)
	assert.Equal(t, DefaultTuning(), tuning)

	path := filepath.Join(t.TempDir(), "tuning.yaml")
	require.NoError(t, os.WriteFile(path, []byte("threat:\n  repetition_limit: 5\n"), 0o600))
	tuning, err = LoadTuning(path)
	require.NoError(t, err)
	assert.Equal(t, 5, tuning.Threat.RepetitionLimit)

	_, err = LoadTuning(filepath.Join(t.TempDir(), "missing.yaml"))
	assert.Error(t, err)
}
