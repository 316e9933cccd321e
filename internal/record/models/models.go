package models

import (
	"time"
)

// Dimension names one of the three redundant encodings of a record.
type Dimension string

const (
	DimensionTech   Dimension = "tech"
	DimensionPeople Dimension = "people"
	DimensionSpirit Dimension = "spirit"
)

// Dimensions lists every dimension in canonical order.
var Dimensions = [3]Dimension{DimensionTech, DimensionPeople, DimensionSpirit}

// IsValid checks if the dimension is one of the supported enum values.
func (d Dimension) IsValid() bool {
	switch d {
	case DimensionTech, DimensionPeople, DimensionSpirit:
		return true
	}
	return false
}

func (d Dimension) String() string {
	return string(d)
}

// EmotionalTone is the register of a people payload.
type EmotionalTone string

const (
	ToneNeutral     EmotionalTone = "neutral"
	ToneEncouraging EmotionalTone = "encouraging"
	ToneAlert       EmotionalTone = "alert"
	ToneCelebratory EmotionalTone = "celebratory"
	ToneSacred      EmotionalTone = "sacred"
)

// IsValid checks if the tone is one of the supported enum values.
func (t EmotionalTone) IsValid() bool {
	switch t {
	case ToneNeutral, ToneEncouraging, ToneAlert, ToneCelebratory, ToneSacred:
		return true
	}
	return false
}

// Geometry is the named shape tag of a spirit payload.
type Geometry string

const (
	GeometryVesicaPiscis Geometry = "vesica_piscis"
	GeometryTriangle     Geometry = "triangle"
	GeometrySquare       Geometry = "square"
	GeometryPentagon     Geometry = "pentagon"
	GeometryHexagon      Geometry = "hexagon"
	GeometryFlowerOfLife Geometry = "flower_of_life"
)

// Spirit payload bounds.
const (
	MinFrequency = 44.4
	MaxFrequency = 1728.0
	MinResonance = 1
	MaxResonance = 9

	// GoldenRatio is the fixed ratio constant carried by every spirit payload.
	GoldenRatio = 1.618033988749895
)

// CurrentSchemaVersion is stamped on tech payloads built by this package.
const CurrentSchemaVersion = "1.0"

// EncodingRecord is one unit of domain knowledge in three parallel views,
// bound together by IntegrityHash. Mutating a payload without resealing
// breaks the binding; that mismatch is the corruption signal.
type EncodingRecord struct {
	ID            string        `json:"id" cbor:"id" validate:"required,uuid"`
	NodeID        string        `json:"node_id,omitempty" cbor:"node_id,omitempty"`
	CreatedAt     time.Time     `json:"created_at" cbor:"created_at" validate:"required"`
	Source        Dimension     `json:"source" cbor:"source" validate:"required,oneof=tech people spirit"`
	Tech          TechPayload   `json:"tech" cbor:"tech"`
	People        PeoplePayload `json:"people" cbor:"people"`
	Spirit        SpiritPayload `json:"spirit" cbor:"spirit"`
	IntegrityHash string        `json:"integrity_hash" cbor:"integrity_hash" validate:"required,len=64,hexadecimal"`
}

// PeoplePayload is the human-oriented view.
type PeoplePayload struct {
	Narrative   string        `json:"narrative" cbor:"narrative"`
	Explanation string        `json:"explanation,omitempty" cbor:"explanation,omitempty"`
	Guidance    []string      `json:"guidance" cbor:"guidance"`
	Tone        EmotionalTone `json:"tone" cbor:"tone" validate:"omitempty,oneof=neutral encouraging alert celebratory sacred"`
	Language    string        `json:"language" cbor:"language"`
}

// SpiritPayload is the symbolic/numeric view.
type SpiritPayload struct {
	Frequency float64    `json:"frequency" cbor:"frequency"`
	Resonance int        `json:"resonance" cbor:"resonance" validate:"gte=0,lte=9"`
	Color     string     `json:"color" cbor:"color"`
	Geometry  Geometry   `json:"geometry" cbor:"geometry"`
	Vibration [4]float64 `json:"vibration" cbor:"vibration"`
	Ratio     float64    `json:"ratio" cbor:"ratio"`
}

// Clone returns a deep copy so pipeline stages never share mutable slices.
func (r EncodingRecord) Clone() EncodingRecord {
	out := r
	out.Tech = r.Tech.Clone()
	out.People = r.People.Clone()
	return out
}

// Clone returns a deep copy of the payload.
func (p PeoplePayload) Clone() PeoplePayload {
	out := p
	if p.Guidance != nil {
		out.Guidance = append([]string(nil), p.Guidance...)
	}
	return out
}

// Payload returns the named dimension's payload for hashing or display.
func (r EncodingRecord) Payload(d Dimension) any {
	switch d {
	case DimensionTech:
		return r.Tech
	case DimensionPeople:
		return r.People
	case DimensionSpirit:
		return r.Spirit
	}
	return nil
}

// DimensionHashes holds the per-dimension digests captured at enrichment
// time, plus the combined digest over all three.
type DimensionHashes struct {
	Tech     string `json:"tech_hash" cbor:"tech_hash"`
	People   string `json:"people_hash" cbor:"people_hash"`
	Spirit   string `json:"spirit_hash" cbor:"spirit_hash"`
	Combined string `json:"combined_hash" cbor:"combined_hash"`
}

// For returns the stored hash of dimension d.
func (h DimensionHashes) For(d Dimension) string {
	switch d {
	case DimensionTech:
		return h.Tech
	case DimensionPeople:
		return h.People
	case DimensionSpirit:
		return h.Spirit
	}
	return ""
}

// IsZero reports whether no hashes were captured.
func (h DimensionHashes) IsZero() bool {
	return h == DimensionHashes{}
}

// EnrichedRecord is a record plus the hashes that localize corruption.
type EnrichedRecord struct {
	EncodingRecord
	Hashes DimensionHashes `json:"dimension_hashes" cbor:"dimension_hashes"`
}
