package derive_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"pgregory.net/rapid"

	"triad/internal/record/derive"
	"triad/internal/record/hashing"
	"triad/internal/record/models"
	"triad/pkg/testutil"
)

func TestResonance(t *testing.T) {
	cases := []struct {
		magnitude float64
		want      int
	}{
		{0, 1},
		{1, 1},
		{2.2, 2},
		{9, 3},
		{42, 4},
		{1200, 7},
		{-1200, 7},
		{1e12, 9},
	}
	for _, tc := range cases {
		assert.Equal(t, tc.want, derive.Resonance(tc.magnitude), "magnitude %g", tc.magnitude)
	}
}

func TestRepresentativeMagnitude_RoundTrips(t *testing.T) {
	for level := models.MinResonance; level <= models.MaxResonance; level++ {
		assert.Equal(t, level, derive.Resonance(derive.RepresentativeMagnitude(level)), "level %d", level)
	}
	assert.Equal(t, derive.RepresentativeMagnitude(1), derive.RepresentativeMagnitude(-4))
	assert.Equal(t, derive.RepresentativeMagnitude(9), derive.RepresentativeMagnitude(40))
}

func TestSpiritFor(t *testing.T) {
	spirit := derive.SpiritFor(testutil.MetricTech("requests", 42))

	assert.Equal(t, 4, spirit.Resonance)
	assert.Equal(t, 417.0, spirit.Frequency)
	assert.Equal(t, models.GeometrySquare, spirit.Geometry)
	assert.Equal(t, models.GoldenRatio, spirit.Ratio)
	assert.InDelta(t, 417.0/1728, spirit.Vibration[0], 1e-12)
	assert.InDelta(t, 4.0/9, spirit.Vibration[1], 1e-12)
	assert.InDelta(t, 2.0/5, spirit.Vibration[2], 1e-12)
	assert.InDelta(t, models.GoldenRatio-1, spirit.Vibration[3], 1e-12)
	assert.NotEmpty(t, spirit.Color)
}

func TestSpiritFor_FrequencyWithinBounds(t *testing.T) {
	rapid.Check(t, func(rt *rapid.T) {
		spirit := derive.SpiritFor(testutil.TechGen().Draw(rt, "tech"))
		assert.GreaterOrEqual(rt, spirit.Frequency, models.MinFrequency)
		assert.LessOrEqual(rt, spirit.Frequency, models.MaxFrequency)
		assert.GreaterOrEqual(rt, spirit.Resonance, models.MinResonance)
		assert.LessOrEqual(rt, spirit.Resonance, models.MaxResonance)
	})
}

func TestGeometryInverse(t *testing.T) {
	for _, dt := range models.KnownDataTypes {
		got, ok := derive.TypeForGeometry(derive.GeometryFor(dt))
		require.True(t, ok)
		assert.Equal(t, dt, got)
	}
	assert.Equal(t, models.GeometryFlowerOfLife, derive.GeometryFor("weather"))
	_, ok := derive.TypeForGeometry("corrupted")
	assert.False(t, ok)
}

func TestPeopleFor(t *testing.T) {
	t.Run("alert tone and guidance", func(t *testing.T) {
		tech := models.TechPayload{DataType: models.DataTypeAlert, Values: models.AlertValues{Code: "disk", Level: 3}}
		people := derive.PeopleFor(tech, derive.SpiritFor(tech))
		assert.Contains(t, people.Narrative, "Alert")
		assert.Contains(t, people.Narrative, "disk")
		assert.Equal(t, models.ToneAlert, people.Tone)
		assert.Len(t, people.Guidance, 3)
		assert.Equal(t, "en", people.Language)
	})

	t.Run("top resonance is sacred", func(t *testing.T) {
		tech := testutil.MetricTech("galaxies", 1e9)
		people := derive.PeopleFor(tech, derive.SpiritFor(tech))
		assert.Equal(t, models.ToneSacred, people.Tone)
	})

	t.Run("guidance is not shared between calls", func(t *testing.T) {
		tech := testutil.MetricTech("requests", 1)
		first := derive.PeopleFor(tech, derive.SpiritFor(tech))
		first.Guidance[0] = "changed"
		second := derive.PeopleFor(tech, derive.SpiritFor(tech))
		assert.NotEqual(t, "changed", second.Guidance[0])
	})
}

func TestTechFor(t *testing.T) {
	t.Run("type from geometry", func(t *testing.T) {
		spirit := derive.SpiritFor(testutil.MetricTech("requests", 1200))
		tech := derive.TechFor(models.PeoplePayload{}, spirit, testutil.FixedTime)

		assert.Equal(t, models.DataTypeMetric, tech.DataType)
		assert.Equal(t, models.CurrentSchemaVersion, tech.SchemaVersion)
		assert.Equal(t, testutil.FixedTime, tech.Timestamp)
		assert.Equal(t, spirit.Resonance, derive.Resonance(tech.Magnitude()))
	})

	t.Run("type from narrative when geometry is unknown", func(t *testing.T) {
		people := models.PeoplePayload{Narrative: "Transaction of 12.00 EUR with acme."}
		tech := derive.TechFor(people, models.SpiritPayload{Resonance: 2}, testutil.FixedTime)
		assert.Equal(t, models.DataTypeTransaction, tech.DataType)
		assert.IsType(t, models.TransactionValues{}, tech.Values)
	})

	t.Run("generic fallback", func(t *testing.T) {
		tech := derive.TechFor(models.PeoplePayload{Narrative: "nothing useful"}, models.SpiritPayload{}, testutil.FixedTime)
		assert.Equal(t, models.DataTypeGeneric, tech.DataType)
		assert.IsType(t, models.GenericValues{}, tech.Values)
	})
}

func TestTranslate(t *testing.T) {
	r, err := derive.Translate(models.TechPayload{
		DataType: models.DataTypeMilestone,
		Values:   models.MilestoneValues{Name: "beta", Progress: 80},
	}, derive.WithCreatedAt(testutil.FixedTime), derive.WithNodeID("node-7"))
	require.NoError(t, err)

	assert.NotEmpty(t, r.ID)
	assert.Equal(t, "node-7", r.NodeID)
	assert.Equal(t, models.DimensionTech, r.Source)
	assert.Equal(t, models.CurrentSchemaVersion, r.Tech.SchemaVersion)
	assert.Equal(t, testutil.FixedTime, r.Tech.Timestamp)
	assert.Equal(t, models.GeometryPentagon, r.Spirit.Geometry)
	assert.Equal(t, models.ToneCelebratory, r.People.Tone)
	require.NoError(t, models.Validate(&r))

	corrupted, err := hashing.Detect(r)
	require.NoError(t, err)
	assert.False(t, corrupted)
}

func TestNewRecord(t *testing.T) {
	tech := testutil.MetricTech("requests", 5)
	spirit := derive.SpiritFor(tech)
	people := models.PeoplePayload{Narrative: "hand written", Tone: models.ToneNeutral, Language: "en"}

	r, err := derive.NewRecord(tech, people, spirit, models.DimensionPeople, derive.WithCreatedAt(testutil.FixedTime))
	require.NoError(t, err)
	assert.Equal(t, "hand written", r.People.Narrative)
	assert.Equal(t, models.DimensionPeople, r.Source)

	corrupted, err := hashing.Detect(r)
	require.NoError(t, err)
	assert.False(t, corrupted)

	_, err = derive.NewRecord(tech, people, spirit, "soul")
	assert.Error(t, err)
}

func TestRebuild(t *testing.T) {
	r := testutil.SealedRecord(t, testutil.MetricTech("requests", 1200))

	t.Run("spirit rebuild is exact", func(t *testing.T) {
		broken := r.Clone()
		testutil.Corrupt(&broken, models.DimensionSpirit)
		rebuilt, err := derive.Rebuild(broken, models.DimensionSpirit)
		require.NoError(t, err)
		assert.Equal(t, r.Spirit, rebuilt.Spirit)
	})

	t.Run("people rebuild is exact", func(t *testing.T) {
		broken := r.Clone()
		testutil.Corrupt(&broken, models.DimensionPeople)
		rebuilt, err := derive.Rebuild(broken, models.DimensionPeople)
		require.NoError(t, err)
		assert.Equal(t, r.People, rebuilt.People)
	})

	t.Run("tech rebuild recovers type and magnitude band", func(t *testing.T) {
		broken := r.Clone()
		testutil.Corrupt(&broken, models.DimensionTech)
		rebuilt, err := derive.Rebuild(broken, models.DimensionTech)
		require.NoError(t, err)
		assert.Equal(t, models.DataTypeMetric, rebuilt.Tech.DataType)
		assert.Equal(t, r.Spirit.Resonance, derive.Resonance(rebuilt.Tech.Magnitude()))
	})

	t.Run("unknown dimension", func(t *testing.T) {
		_, err := derive.Rebuild(r, "soul")
		assert.Error(t, err)
	})
}
