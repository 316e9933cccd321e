package derive

import (
	"fmt"
	"strings"

	"triad/internal/record/models"
)

var guidanceByType = map[models.DataType][]string{
	models.DataTypeMetric: {
		"Compare the value with its recent trend",
		"Check whether the unit matches expectations",
	},
	models.DataTypeTransaction: {
		"Confirm the counterparty",
		"Reconcile the amount against the ledger",
	},
	models.DataTypeMilestone: {
		"Acknowledge the progress made",
		"Plan the next step toward completion",
	},
	models.DataTypeAlert: {
		"Review the alert source",
		"Decide whether human approval is needed",
		"Record the resolution",
	},
	models.DataTypeInsight: {
		"Weigh the insight against its confidence",
		"Share it with the people it affects",
	},
	models.DataTypeGeneric: {
		"Review the recorded values",
	},
}

var toneByType = map[models.DataType]models.EmotionalTone{
	models.DataTypeMetric:      models.ToneNeutral,
	models.DataTypeTransaction: models.ToneNeutral,
	models.DataTypeMilestone:   models.ToneCelebratory,
	models.DataTypeAlert:       models.ToneAlert,
	models.DataTypeInsight:     models.ToneEncouraging,
	models.DataTypeGeneric:     models.ToneNeutral,
}

// PeopleFor renders the human view from tech values and spirit descriptors.
func PeopleFor(tech models.TechPayload, spirit models.SpiritPayload) models.PeoplePayload {
	guidance, ok := guidanceByType[tech.DataType]
	if !ok {
		guidance = guidanceByType[models.DataTypeGeneric]
	}
	return models.PeoplePayload{
		Narrative: narrative(tech),
		Explanation: fmt.Sprintf("Resonance %d of %d, color %s, %s geometry at %g Hz.",
			spirit.Resonance, models.MaxResonance, spirit.Color, spirit.Geometry, spirit.Frequency),
		Guidance: append([]string(nil), guidance...),
		Tone:     toneFor(tech.DataType, spirit.Resonance),
		Language: "en",
	}
}

func toneFor(t models.DataType, resonance int) models.EmotionalTone {
	if resonance >= models.MaxResonance {
		return models.ToneSacred
	}
	if tone, ok := toneByType[t]; ok {
		return tone
	}
	return models.ToneNeutral
}

func narrative(tech models.TechPayload) string {
	switch v := tech.Values.(type) {
	case models.MetricValues:
		return strings.TrimSpace(fmt.Sprintf("Metric %q measured %g %s", v.Name, v.Value, v.Unit)) + "."
	case models.TransactionValues:
		party := v.Counterparty
		if party == "" {
			party = "an unnamed counterparty"
		}
		return fmt.Sprintf("Transaction of %.2f %s with %s.", v.Amount, v.Currency, party)
	case models.MilestoneValues:
		return fmt.Sprintf("Milestone %q reached %g%% progress.", v.Name, v.Progress)
	case models.AlertValues:
		return fmt.Sprintf("Alert %q raised at level %g.", v.Code, v.Level)
	case models.InsightValues:
		return fmt.Sprintf("Insight on %q with confidence %g.", v.Topic, v.Confidence)
	case models.GenericValues:
		return fmt.Sprintf("Record of type %q carrying %d values.", tech.DataType, len(v.Fields))
	default:
		return fmt.Sprintf("Record of type %q without values.", tech.DataType)
	}
}
