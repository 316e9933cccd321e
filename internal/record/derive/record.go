package derive

import (
	"fmt"
	"time"

	"github.com/google/uuid"

	"triad/internal/record/hashing"
	"triad/internal/record/models"
)

type recordOptions struct {
	id        string
	nodeID    string
	createdAt time.Time
}

type Option func(*recordOptions)

// WithID fixes the record ID instead of generating one.
func WithID(id string) Option {
	return func(o *recordOptions) {
		o.id = id
	}
}

func WithNodeID(nodeID string) Option {
	return func(o *recordOptions) {
		o.nodeID = nodeID
	}
}

// WithCreatedAt pins the creation time.
func WithCreatedAt(t time.Time) Option {
	return func(o *recordOptions) {
		o.createdAt = t.UTC()
	}
}

func buildOptions(opts []Option) recordOptions {
	o := recordOptions{}
	for _, opt := range opts {
		opt(&o)
	}
	if o.id == "" {
		o.id = uuid.NewString()
	}
	if o.createdAt.IsZero() {
		o.createdAt = time.Now().UTC()
	}
	return o
}

// Translate builds a sealed record whose people and spirit views are derived
// from tech.
func Translate(tech models.TechPayload, opts ...Option) (models.EncodingRecord, error) {
	o := buildOptions(opts)
	tech = tech.Clone()
	if tech.SchemaVersion == "" {
		tech.SchemaVersion = models.CurrentSchemaVersion
	}
	if tech.Timestamp.IsZero() {
		tech.Timestamp = o.createdAt
	}
	spirit := SpiritFor(tech)
	return seal(models.EncodingRecord{
		ID:        o.id,
		NodeID:    o.nodeID,
		CreatedAt: o.createdAt,
		Source:    models.DimensionTech,
		Tech:      tech,
		People:    PeopleFor(tech, spirit),
		Spirit:    spirit,
	})
}

// NewRecord seals caller-provided payloads as they are.
func NewRecord(tech models.TechPayload, people models.PeoplePayload, spirit models.SpiritPayload, source models.Dimension, opts ...Option) (models.EncodingRecord, error) {
	if !source.IsValid() {
		return models.EncodingRecord{}, fmt.Errorf("unknown source dimension %q", source)
	}
	o := buildOptions(opts)
	return seal(models.EncodingRecord{
		ID:        o.id,
		NodeID:    o.nodeID,
		CreatedAt: o.createdAt,
		Source:    source,
		Tech:      tech.Clone(),
		People:    people.Clone(),
		Spirit:    spirit,
	})
}

func seal(r models.EncodingRecord) (models.EncodingRecord, error) {
	sealed, err := hashing.Seal(r)
	if err != nil {
		return models.EncodingRecord{}, fmt.Errorf("seal record: %w", err)
	}
	return sealed, nil
}

// Rebuild returns a copy of r with dimension d regenerated from the other
// two. The copy is not resealed.
func Rebuild(r models.EncodingRecord, d models.Dimension) (models.EncodingRecord, error) {
	out := r.Clone()
	switch d {
	case models.DimensionTech:
		out.Tech = TechFor(r.People, r.Spirit, r.CreatedAt)
	case models.DimensionPeople:
		out.People = PeopleFor(r.Tech, r.Spirit)
	case models.DimensionSpirit:
		out.Spirit = SpiritFor(r.Tech)
	default:
		return models.EncodingRecord{}, fmt.Errorf("unknown dimension %q", d)
	}
	return out, nil
}
