// Package config holds sentinel tuning and its screening lexicons.
package config

import (
	"fmt"
	"regexp"
	"sort"
	"time"
)

// Config tunes the sentinel. Zero values are not meaningful; start from
// DefaultConfig and override.
type Config struct {
	// MemoryCapacity bounds the recent-signal ring.
	MemoryCapacity int `yaml:"memory_capacity"`
	// RepetitionWindow is how many recent inputs, the current one included,
	// the repetition check looks back over.
	RepetitionWindow int `yaml:"repetition_window"`
	// RepetitionLimit is how many identical inputs the window tolerates.
	RepetitionLimit int `yaml:"repetition_limit"`
	// SpikeThreshold is the largest tolerated jump from the baseline frequency.
	SpikeThreshold float64 `yaml:"spike_threshold"`
	// CascadeWindow and CascadeDistinct define a cascade: that many distinct
	// signal types within the window.
	CascadeWindow   time.Duration `yaml:"cascade_window"`
	CascadeDistinct int           `yaml:"cascade_distinct"`
	// ScoreFactor scales severity*sensitivity into score points.
	ScoreFactor float64 `yaml:"score_factor"`

	InitialSensitivity float64 `yaml:"initial_sensitivity"`
	MinSensitivity     float64 `yaml:"min_sensitivity"`
	// AdaptiveThreshold is the per-type count above which each further
	// signal of that type raises sensitivity by AdaptiveStep, up to
	// MaxAdaptiveSensitivity.
	AdaptiveThreshold      int     `yaml:"adaptive_threshold"`
	AdaptiveStep           float64 `yaml:"adaptive_step"`
	MaxAdaptiveSensitivity float64 `yaml:"max_adaptive_sensitivity"`

	Lexicons Lexicons `yaml:"lexicons"`
}

// Lexicons maps a category name to its patterns. Patterns are regular
// expressions matched case-insensitively.
type Lexicons struct {
	Manipulation map[string][]string `yaml:"manipulation"`
	Sovereignty  map[string][]string `yaml:"sovereignty"`
}

func DefaultConfig() Config {
	return Config{
		MemoryCapacity:         50,
		RepetitionWindow:       20,
		RepetitionLimit:        3,
		SpikeThreshold:         300,
		CascadeWindow:          5 * time.Second,
		CascadeDistinct:        3,
		ScoreFactor:            0.4,
		InitialSensitivity:     1.0,
		MinSensitivity:         0.1,
		AdaptiveThreshold:      3,
		AdaptiveStep:           0.1,
		MaxAdaptiveSensitivity: 2.0,
		Lexicons:               DefaultLexicons(),
	}
}

func DefaultLexicons() Lexicons {
	return Lexicons{
		Manipulation: map[string][]string{
			"urgency": {
				`\bact now\b`, `\bimmediately\b`, `\blimited time\b`, `\blast chance\b`,
				`\bbefore it'?s too late\b`, `\bexpires? (today|soon)\b`, `\burgent\b`,
			},
			"secrecy": {
				`\bdon'?t tell\b`, `\bkeep (this|it) (secret|between us)\b`, `\bno one (needs to|must) know\b`,
				`\bconfidential\b`, `\boff the record\b`,
			},
			"fear": {
				`\byou will lose\b`, `\bor else\b`, `\bterrible consequences\b`, `\bdanger(ous)?\b`,
				`\bthreat(en)?\b`, `\byou'?ll regret\b`,
			},
			"divisive": {
				`\bus (vs\.?|versus|against) them\b`, `\bthose people\b`, `\bthe enemy\b`,
				`\bthey are all\b`, `\btraitors?\b`,
			},
		},
		Sovereignty: map[string][]string{
			"forced_retention": {
				`\bcannot (leave|cancel|unsubscribe)\b`, `\bmust stay\b`, `\block(ed)? in\b`,
				`\bno way out\b`, `\bmandatory (subscription|membership)\b`,
			},
			"blocked_exit": {
				`\b(exit|withdrawal|cancellation) (is )?(blocked|disabled|denied)\b`,
				`\bpenalty for leaving\b`, `\bprevent(s|ed)? (you )?from leaving\b`,
			},
			"blocked_portability": {
				`\b(data|export) (is )?(not exportable|locked)\b`, `\bcannot export\b`,
				`\bno (data )?portability\b`, `\bdata stays with us\b`,
			},
		},
	}
}

// Validate rejects values outside their meaningful range and patterns that
// do not compile.
func (c Config) Validate() error {
	switch {
	case c.MemoryCapacity < 1:
		return fmt.Errorf("memory_capacity must be positive, got %d", c.MemoryCapacity)
	case c.RepetitionWindow < 1:
		return fmt.Errorf("repetition_window must be positive, got %d", c.RepetitionWindow)
	case c.RepetitionLimit < 1:
		return fmt.Errorf("repetition_limit must be positive, got %d", c.RepetitionLimit)
	case c.SpikeThreshold <= 0:
		return fmt.Errorf("spike_threshold must be positive, got %g", c.SpikeThreshold)
	case c.CascadeWindow <= 0:
		return fmt.Errorf("cascade_window must be positive, got %s", c.CascadeWindow)
	case c.CascadeDistinct < 2:
		return fmt.Errorf("cascade_distinct must be at least 2, got %d", c.CascadeDistinct)
	case c.ScoreFactor <= 0:
		return fmt.Errorf("score_factor must be positive, got %g", c.ScoreFactor)
	case c.MinSensitivity <= 0:
		return fmt.Errorf("min_sensitivity must be positive, got %g", c.MinSensitivity)
	case c.InitialSensitivity < c.MinSensitivity:
		return fmt.Errorf("initial_sensitivity %g is below min_sensitivity %g", c.InitialSensitivity, c.MinSensitivity)
	case c.AdaptiveThreshold < 0:
		return fmt.Errorf("adaptive_threshold must not be negative, got %d", c.AdaptiveThreshold)
	case c.AdaptiveStep < 0:
		return fmt.Errorf("adaptive_step must not be negative, got %g", c.AdaptiveStep)
	case c.MaxAdaptiveSensitivity < c.InitialSensitivity:
		return fmt.Errorf("max_adaptive_sensitivity %g is below initial_sensitivity %g", c.MaxAdaptiveSensitivity, c.InitialSensitivity)
	}
	if _, err := Compile(c.Lexicons.Manipulation); err != nil {
		return fmt.Errorf("manipulation lexicon: %w", err)
	}
	if _, err := Compile(c.Lexicons.Sovereignty); err != nil {
		return fmt.Errorf("sovereignty lexicon: %w", err)
	}
	return nil
}

// Pattern is one compiled lexicon entry.
type Pattern struct {
	Category string
	Regexp   *regexp.Regexp
}

// Compile turns a lexicon into case-insensitive patterns ordered by
// category name, so matching is deterministic.
func Compile(lexicon map[string][]string) ([]Pattern, error) {
	categories := make([]string, 0, len(lexicon))
	for category := range lexicon {
		categories = append(categories, category)
	}
	sort.Strings(categories)

	var out []Pattern
	for _, category := range categories {
		for _, expr := range lexicon[category] {
			re, err := regexp.Compile("(?i)" + expr)
			if err != nil {
				return nil, fmt.Errorf("category %s: %w", category, err)
			}
			out = append(out, Pattern{Category: category, Regexp: re})
		}
	}
	return out, nil
}

// Match returns one evidence line per matching pattern.
func Match(patterns []Pattern, text string) []string {
	if text == "" {
		return nil
	}
	var evidence []string
	for _, p := range patterns {
		if m := p.Regexp.FindString(text); m != "" {
			evidence = append(evidence, fmt.Sprintf("%s: %q", p.Category, m))
		}
	}
	return evidence
}
