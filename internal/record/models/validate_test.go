package models

import (
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	dErrors "triad/pkg/domain-errors"
)

func validRecord() *EncodingRecord {
	return &EncodingRecord{
		ID:        "7f1f2c1e-8b55-4d0e-9d6b-0a4a3a0b6c11",
		CreatedAt: time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC),
		Source:    DimensionTech,
		Tech: TechPayload{
			SchemaVersion: CurrentSchemaVersion,
			DataType:      DataTypeMetric,
			Values:        MetricValues{Name: "cpu", Value: 12},
		},
		People:        PeoplePayload{Narrative: "cpu is 12", Tone: ToneNeutral, Language: "en"},
		Spirit:        SpiritPayload{Frequency: 396, Resonance: 3, Geometry: GeometrySquare, Ratio: GoldenRatio},
		IntegrityHash: strings.Repeat("ab", 32),
	}
}

func TestValidate(t *testing.T) {
	t.Run("valid record passes", func(t *testing.T) {
		require.NoError(t, Validate(validRecord()))
	})

	t.Run("nil record", func(t *testing.T) {
		err := Validate(nil)
		require.Error(t, err)
		assert.True(t, dErrors.HasCode(err, dErrors.CodeInvalidInput))
	})

	t.Run("rejects malformed fields", func(t *testing.T) {
		cases := map[string]func(r *EncodingRecord){
			"missing id":       func(r *EncodingRecord) { r.ID = "" },
			"non uuid id":      func(r *EncodingRecord) { r.ID = "record-1" },
			"unknown source":   func(r *EncodingRecord) { r.Source = "soul" },
			"short hash":       func(r *EncodingRecord) { r.IntegrityHash = "abc" },
			"zero created_at":  func(r *EncodingRecord) { r.CreatedAt = time.Time{} },
			"resonance range":  func(r *EncodingRecord) { r.Spirit.Resonance = 12 },
			"unknown tone":     func(r *EncodingRecord) { r.People.Tone = "angry" },
			"non hex checksum": func(r *EncodingRecord) { r.IntegrityHash = strings.Repeat("zz", 32) },
		}
		for name, mutate := range cases {
			t.Run(name, func(t *testing.T) {
				r := validRecord()
				mutate(r)
				err := Validate(r)
				require.Error(t, err)
				assert.True(t, dErrors.HasCode(err, dErrors.CodeInvalidInput))
			})
		}
	})
}

func TestEncodingRecord_CloneIsDeep(t *testing.T) {
	r := validRecord()
	r.People.Guidance = []string{"step one"}
	clone := r.Clone()
	clone.People.Guidance[0] = "changed"

	assert.Equal(t, "step one", r.People.Guidance[0])
}

func TestDimensionHashes_For(t *testing.T) {
	h := DimensionHashes{Tech: "t", People: "p", Spirit: "s", Combined: "c"}
	assert.Equal(t, "t", h.For(DimensionTech))
	assert.Equal(t, "p", h.For(DimensionPeople))
	assert.Equal(t, "s", h.For(DimensionSpirit))
	assert.Empty(t, h.For("other"))
	assert.False(t, h.IsZero())
	assert.True(t, DimensionHashes{}.IsZero())
}
