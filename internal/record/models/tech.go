package models

import (
	"encoding/json"
	"fmt"
	"math"
	"time"
)

// DataType tags the schema of a tech payload's values.
type DataType string

const (
	DataTypeMetric      DataType = "metric"
	DataTypeTransaction DataType = "transaction"
	DataTypeMilestone   DataType = "milestone"
	DataTypeAlert       DataType = "alert"
	DataTypeInsight     DataType = "insight"
	DataTypeGeneric     DataType = "generic"
)

// KnownDataTypes lists every typed schema, generic last.
var KnownDataTypes = []DataType{
	DataTypeMetric,
	DataTypeTransaction,
	DataTypeMilestone,
	DataTypeAlert,
	DataTypeInsight,
	DataTypeGeneric,
}

// IsKnown reports whether t has a dedicated values variant.
func (t DataType) IsKnown() bool {
	switch t {
	case DataTypeMetric, DataTypeTransaction, DataTypeMilestone, DataTypeAlert, DataTypeInsight, DataTypeGeneric:
		return true
	}
	return false
}

// TechValues is the typed body of a tech payload. Each known DataType has
// exactly one implementation; GenericValues covers open-ended domains.
type TechValues interface {
	// Kind is the data type this variant belongs to.
	Kind() DataType
	// Magnitude is the scalar intensity used to derive spirit resonance.
	Magnitude() float64
}

type MetricValues struct {
	Name  string  `json:"name" cbor:"name"`
	Value float64 `json:"value" cbor:"value"`
	Unit  string  `json:"unit,omitempty" cbor:"unit,omitempty"`
}

func (MetricValues) Kind() DataType       { return DataTypeMetric }
func (v MetricValues) Magnitude() float64 { return v.Value }

type TransactionValues struct {
	Amount       float64 `json:"amount" cbor:"amount"`
	Currency     string  `json:"currency" cbor:"currency"`
	Counterparty string  `json:"counterparty,omitempty" cbor:"counterparty,omitempty"`
}

func (TransactionValues) Kind() DataType       { return DataTypeTransaction }
func (v TransactionValues) Magnitude() float64 { return v.Amount }

type MilestoneValues struct {
	Name     string  `json:"name" cbor:"name"`
	Progress float64 `json:"progress" cbor:"progress"`
}

func (MilestoneValues) Kind() DataType       { return DataTypeMilestone }
func (v MilestoneValues) Magnitude() float64 { return v.Progress }

type AlertValues struct {
	Code  string  `json:"code" cbor:"code"`
	Level float64 `json:"level" cbor:"level"`
}

func (AlertValues) Kind() DataType       { return DataTypeAlert }
func (v AlertValues) Magnitude() float64 { return v.Level }

type InsightValues struct {
	Topic      string  `json:"topic" cbor:"topic"`
	Confidence float64 `json:"confidence" cbor:"confidence"`
}

func (InsightValues) Kind() DataType       { return DataTypeInsight }
func (v InsightValues) Magnitude() float64 { return v.Confidence }

// GenericValues is the explicit open-ended fallback.
type GenericValues struct {
	Fields map[string]float64 `json:"fields" cbor:"fields"`
}

func (GenericValues) Kind() DataType { return DataTypeGeneric }

func (v GenericValues) Magnitude() float64 {
	var sum float64
	for _, f := range v.Fields {
		sum += math.Abs(f)
	}
	return sum
}

// TechPayload is the machine-oriented view.
type TechPayload struct {
	SchemaVersion string     `json:"schema_version" cbor:"schema_version"`
	DataType      DataType   `json:"data_type" cbor:"data_type"`
	Values        TechValues `json:"values" cbor:"values"`
	Timestamp     time.Time  `json:"timestamp" cbor:"timestamp"`
}

// Clone returns a deep copy of the payload.
func (p TechPayload) Clone() TechPayload {
	out := p
	if g, ok := p.Values.(GenericValues); ok && g.Fields != nil {
		fields := make(map[string]float64, len(g.Fields))
		for k, v := range g.Fields {
			fields[k] = v
		}
		out.Values = GenericValues{Fields: fields}
	}
	return out
}

// Magnitude returns the values' magnitude, or 0 when no values are set.
func (p TechPayload) Magnitude() float64 {
	if p.Values == nil {
		return 0
	}
	m := p.Values.Magnitude()
	if math.IsNaN(m) || math.IsInf(m, 0) {
		return 0
	}
	return m
}

type techPayloadJSON struct {
	SchemaVersion string          `json:"schema_version"`
	DataType      DataType        `json:"data_type"`
	Values        json.RawMessage `json:"values"`
	Timestamp     time.Time       `json:"timestamp"`
}

// UnmarshalJSON decodes values into the variant selected by data_type.
// Unknown data types decode into GenericValues.
func (p *TechPayload) UnmarshalJSON(data []byte) error {
	var raw techPayloadJSON
	if err := json.Unmarshal(data, &raw); err != nil {
		return err
	}
	values, err := decodeValues(raw.DataType, raw.Values)
	if err != nil {
		return fmt.Errorf("tech values for %q: %w", raw.DataType, err)
	}
	*p = TechPayload{
		SchemaVersion: raw.SchemaVersion,
		DataType:      raw.DataType,
		Values:        values,
		Timestamp:     raw.Timestamp,
	}
	return nil
}

func decodeValues(t DataType, data json.RawMessage) (TechValues, error) {
	if len(data) == 0 || string(data) == "null" {
		return nil, nil
	}
	switch t {
	case DataTypeMetric:
		return decodeInto[MetricValues](data)
	case DataTypeTransaction:
		return decodeInto[TransactionValues](data)
	case DataTypeMilestone:
		return decodeInto[MilestoneValues](data)
	case DataTypeAlert:
		return decodeInto[AlertValues](data)
	case DataTypeInsight:
		return decodeInto[InsightValues](data)
	default:
		return decodeInto[GenericValues](data)
	}
}

func decodeInto[T TechValues](data json.RawMessage) (TechValues, error) {
	var v T
	if err := json.Unmarshal(data, &v); err != nil {
		return nil, err
	}
	return v, nil
}
