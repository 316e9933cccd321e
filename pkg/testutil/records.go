package testutil

import (
	"fmt"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
	"pgregory.net/rapid"

	"triad/internal/record/derive"
	"triad/internal/record/hashing"
	"triad/internal/record/models"
)

// FixedTime is the creation time used by record fixtures.
var FixedTime = time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC)

// MetricTech returns a tech payload for a metric reading.
func MetricTech(name string, value float64) models.TechPayload {
	return models.TechPayload{
		SchemaVersion: models.CurrentSchemaVersion,
		DataType:      models.DataTypeMetric,
		Values:        models.MetricValues{Name: name, Value: value, Unit: "count"},
		Timestamp:     FixedTime,
	}
}

// SealedRecord translates tech into a sealed record, failing the test on error.
func SealedRecord(t testing.TB, tech models.TechPayload) models.EncodingRecord {
	t.Helper()
	r, err := derive.Translate(tech,
		derive.WithID("0b9b5f0e-2f43-4a4e-9a59-3c1d8c7e2a10"),
		derive.WithCreatedAt(FixedTime),
	)
	require.NoError(t, err)
	return r
}

// EnrichedRecord returns an enriched metric record.
func EnrichedRecord(t testing.TB) models.EnrichedRecord {
	t.Helper()
	enriched, err := hashing.Enrich(SealedRecord(t, MetricTech("requests", 1200)))
	require.NoError(t, err)
	return enriched
}

// Corrupt mutates dimension d of r in place so its hash changes. The
// integrity hash is left untouched.
func Corrupt(r *models.EncodingRecord, d models.Dimension) {
	switch d {
	case models.DimensionTech:
		r.Tech.DataType = "corrupted"
	case models.DimensionPeople:
		r.People.Narrative += " [tampered]"
	case models.DimensionSpirit:
		r.Spirit.Frequency++
		r.Spirit.Geometry = "corrupted"
	}
}

// CorruptedEnriched enriches a fresh record, then corrupts the given
// dimensions so diagnosis sees them against the captured hashes.
func CorruptedEnriched(t testing.TB, dims ...models.Dimension) models.EnrichedRecord {
	t.Helper()
	enriched := EnrichedRecord(t)
	for _, d := range dims {
		Corrupt(&enriched.EncodingRecord, d)
	}
	return enriched
}

var nameGen = rapid.StringMatching(`[a-z]{1,12}`)

func magnitudeGen() *rapid.Generator[float64] {
	return rapid.Float64Range(-1e6, 1e6)
}

// TechGen draws a tech payload of any known data type.
func TechGen() *rapid.Generator[models.TechPayload] {
	return rapid.Custom(func(t *rapid.T) models.TechPayload {
		dataType := rapid.SampledFrom(models.KnownDataTypes).Draw(t, "data_type")
		var values models.TechValues
		switch dataType {
		case models.DataTypeMetric:
			values = models.MetricValues{Name: nameGen.Draw(t, "name"), Value: magnitudeGen().Draw(t, "value")}
		case models.DataTypeTransaction:
			values = models.TransactionValues{
				Amount:       magnitudeGen().Draw(t, "amount"),
				Currency:     rapid.SampledFrom([]string{"EUR", "USD", "GBP"}).Draw(t, "currency"),
				Counterparty: nameGen.Draw(t, "counterparty"),
			}
		case models.DataTypeMilestone:
			values = models.MilestoneValues{Name: nameGen.Draw(t, "name"), Progress: rapid.Float64Range(0, 100).Draw(t, "progress")}
		case models.DataTypeAlert:
			values = models.AlertValues{Code: nameGen.Draw(t, "code"), Level: rapid.Float64Range(0, 10).Draw(t, "level")}
		case models.DataTypeInsight:
			values = models.InsightValues{Topic: nameGen.Draw(t, "topic"), Confidence: rapid.Float64Range(0, 1).Draw(t, "confidence")}
		default:
			n := rapid.IntRange(0, 4).Draw(t, "field_count")
			fields := make(map[string]float64, n)
			for i := range n {
				fields[fmt.Sprintf("f%d", i)] = magnitudeGen().Draw(t, fmt.Sprintf("field_%d", i))
			}
			values = models.GenericValues{Fields: fields}
		}
		offset := rapid.IntRange(0, 365*24*3600).Draw(t, "offset_seconds")
		return models.TechPayload{
			SchemaVersion: models.CurrentSchemaVersion,
			DataType:      dataType,
			Values:        values,
			Timestamp:     FixedTime.Add(time.Duration(offset) * time.Second),
		}
	})
}

// RecordGen draws sealed records translated from TechGen payloads.
func RecordGen() *rapid.Generator[models.EncodingRecord] {
	return rapid.Custom(func(t *rapid.T) models.EncodingRecord {
		tech := TechGen().Draw(t, "tech")
		r, err := derive.Translate(tech, derive.WithCreatedAt(tech.Timestamp))
		if err != nil {
			t.Fatalf("translate: %v", err)
		}
		return r
	})
}

// DimensionGen draws one dimension.
func DimensionGen() *rapid.Generator[models.Dimension] {
	return rapid.SampledFrom(models.Dimensions[:])
}
