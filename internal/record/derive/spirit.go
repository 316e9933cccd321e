// Package derive holds the deterministic mappings between dimensions. The
// same rules build a record at creation time and rebuild a corrupted
// dimension from the two healthy ones.
package derive

import (
	"math"

	"triad/internal/record/models"
)

// solfeggio maps resonance (index) to frequency in Hz.
var solfeggio = [models.MaxResonance + 1]float64{0, 174, 285, 396, 417, 528, 639, 741, 852, 963}

// spectrum maps resonance (index) to display color.
var spectrum = [models.MaxResonance + 1]string{
	"", "#C0392B", "#E67E22", "#F1C40F", "#27AE60", "#2980B9", "#3F51B5", "#8E44AD", "#D81B60", "#FFFFFF",
}

// geometryOrder fixes the index used in the vibration signature.
var geometryOrder = []models.Geometry{
	models.GeometryVesicaPiscis,
	models.GeometryTriangle,
	models.GeometrySquare,
	models.GeometryPentagon,
	models.GeometryHexagon,
	models.GeometryFlowerOfLife,
}

var geometryByType = map[models.DataType]models.Geometry{
	models.DataTypeMetric:      models.GeometrySquare,
	models.DataTypeTransaction: models.GeometryTriangle,
	models.DataTypeMilestone:   models.GeometryPentagon,
	models.DataTypeAlert:       models.GeometryVesicaPiscis,
	models.DataTypeInsight:     models.GeometryHexagon,
	models.DataTypeGeneric:     models.GeometryFlowerOfLife,
}

// GeometryFor returns the shape assigned to a data type. Unknown types share
// the generic shape.
func GeometryFor(t models.DataType) models.Geometry {
	if g, ok := geometryByType[t]; ok {
		return g
	}
	return models.GeometryFlowerOfLife
}

// TypeForGeometry inverts GeometryFor over the known data types.
func TypeForGeometry(g models.Geometry) (models.DataType, bool) {
	for t, candidate := range geometryByType {
		if candidate == g {
			return t, true
		}
	}
	return "", false
}

func geometryIndex(g models.Geometry) int {
	for i, candidate := range geometryOrder {
		if candidate == g {
			return i
		}
	}
	return len(geometryOrder) - 1
}

// Resonance buckets a magnitude into 1..9 on a half-decade log scale.
func Resonance(magnitude float64) int {
	m := math.Abs(magnitude)
	if math.IsNaN(m) || math.IsInf(m, 0) {
		return models.MinResonance
	}
	level := math.Floor(2 * math.Log10(1+m))
	return models.MinResonance + int(math.Min(models.MaxResonance-models.MinResonance, level))
}

// RepresentativeMagnitude returns a magnitude that Resonance maps back to
// level. Out-of-range levels are clamped.
func RepresentativeMagnitude(level int) float64 {
	level = clampResonance(level)
	return math.Pow(10, float64(level-1)/2+0.01) - 1
}

// FrequencyFor returns the solfeggio frequency of a resonance level.
func FrequencyFor(level int) float64 {
	return solfeggio[clampResonance(level)]
}

func clampResonance(level int) int {
	return max(models.MinResonance, min(models.MaxResonance, level))
}

// SpiritFor derives the symbolic view from a tech payload.
func SpiritFor(tech models.TechPayload) models.SpiritPayload {
	level := Resonance(tech.Magnitude())
	freq := solfeggio[level]
	geometry := GeometryFor(tech.DataType)
	return models.SpiritPayload{
		Frequency: freq,
		Resonance: level,
		Color:     spectrum[level],
		Geometry:  geometry,
		Vibration: [4]float64{
			freq / models.MaxFrequency,
			float64(level) / models.MaxResonance,
			float64(geometryIndex(geometry)) / float64(len(geometryOrder)-1),
			models.GoldenRatio - 1,
		},
		Ratio: models.GoldenRatio,
	}
}
