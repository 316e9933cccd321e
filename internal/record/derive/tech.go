package derive

import (
	"strings"
	"time"

	"triad/internal/record/models"
)

// reconstructedName labels values rebuilt without their original names.
const reconstructedName = "reconstructed"

// TechFor rebuilds a tech payload from the human and symbolic views. The data
// type comes from the spirit geometry, then from keywords in the narrative,
// then falls back to generic. Values carry a representative magnitude for the
// spirit resonance, so only the magnitude band survives reconstruction.
func TechFor(people models.PeoplePayload, spirit models.SpiritPayload, createdAt time.Time) models.TechPayload {
	dataType := inferType(people, spirit)
	return models.TechPayload{
		SchemaVersion: models.CurrentSchemaVersion,
		DataType:      dataType,
		Values:        valuesFor(dataType, RepresentativeMagnitude(spirit.Resonance)),
		Timestamp:     createdAt,
	}
}

func inferType(people models.PeoplePayload, spirit models.SpiritPayload) models.DataType {
	if t, ok := TypeForGeometry(spirit.Geometry); ok {
		return t
	}
	narrative := strings.ToLower(people.Narrative)
	for _, t := range models.KnownDataTypes {
		if t == models.DataTypeGeneric {
			continue
		}
		if strings.Contains(narrative, string(t)) {
			return t
		}
	}
	return models.DataTypeGeneric
}

func valuesFor(t models.DataType, magnitude float64) models.TechValues {
	switch t {
	case models.DataTypeMetric:
		return models.MetricValues{Name: reconstructedName, Value: magnitude}
	case models.DataTypeTransaction:
		return models.TransactionValues{Amount: magnitude, Currency: "XXX"}
	case models.DataTypeMilestone:
		return models.MilestoneValues{Name: reconstructedName, Progress: magnitude}
	case models.DataTypeAlert:
		return models.AlertValues{Code: reconstructedName, Level: magnitude}
	case models.DataTypeInsight:
		return models.InsightValues{Topic: reconstructedName, Confidence: magnitude}
	default:
		return models.GenericValues{Fields: map[string]float64{"magnitude": magnitude}}
	}
}
