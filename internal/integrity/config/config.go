package config

import "fmt"

// Config tunes the integrity corrector.
type Config struct {
	// MajorConfidence is reported when two dimensions diverge. Empirical;
	// one trustworthy payload cannot say which of the other two was edited.
	MajorConfidence float64 `yaml:"major_confidence"`
	// CriticalConfidence is reported when all three dimensions diverge.
	CriticalConfidence float64 `yaml:"critical_confidence"`
	// BatchConcurrency bounds ProcessBatch parallelism.
	BatchConcurrency int `yaml:"batch_concurrency"`
	// LogCapacity bounds the correction log.
	LogCapacity int `yaml:"log_capacity"`
}

func DefaultConfig() Config {
	return Config{
		MajorConfidence:    0.33,
		CriticalConfidence: 0.0,
		BatchConcurrency:   8,
		LogCapacity:        500,
	}
}

// Validate rejects values outside their meaningful range.
func (c Config) Validate() error {
	if c.MajorConfidence < 0 || c.MajorConfidence > 1 {
		return fmt.Errorf("major_confidence must be within [0,1], got %g", c.MajorConfidence)
	}
	if c.CriticalConfidence < 0 || c.CriticalConfidence > 1 {
		return fmt.Errorf("critical_confidence must be within [0,1], got %g", c.CriticalConfidence)
	}
	if c.BatchConcurrency < 1 {
		return fmt.Errorf("batch_concurrency must be positive, got %d", c.BatchConcurrency)
	}
	if c.LogCapacity < 1 {
		return fmt.Errorf("log_capacity must be positive, got %d", c.LogCapacity)
	}
	return nil
}
