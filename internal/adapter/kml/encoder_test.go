package kml

import (
	"bytes"
	"strings"
	"testing"
	"time"

	"github.com/couchcryptid/scent-plan-service/internal/domain"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func sampleResult(t *testing.T) domain.PlanResult {
	t.Helper()
	env := domain.ComputeScentEnvelope(domain.EnvelopeRequest{
		LKP:         domain.GeoPoint{Lat: 27.49, Lon: -82.45},
		LKPTime:     time.Date(2026, 3, 14, 9, 0, 0, 0, time.UTC),
		EvaluatedAt: time.Date(2026, 3, 14, 10, 0, 0, 0, time.UTC),
		Wind:        domain.WindObservation{SpeedMPS: 4.47, FromDeg: 270},
		Conditions: domain.Conditions{
			TemperatureF:   75,
			RelHumidityPct: 50,
			Cloud:          domain.CloudPartly,
			Precip:         domain.PrecipNone,
			Terrain:        domain.TerrainMixed,
			Stability:      domain.StabilityNeutral,
		},
	})
	return domain.PlanResult{
		PlanID:   "sar-42",
		LKP:      domain.GeoPoint{Lat: 27.49, Lon: -82.45},
		Envelope: env,
	}
}

func TestEncode(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, Encode(&buf, sampleResult(t)))
	out := buf.String()

	assert.Contains(t, out, "<kml")
	assert.Contains(t, out, "Scent Plan sar-42")
	for _, name := range []string{"Core Zone", "Fringe Zone", "Residual Zone", "Downwind Axis"} {
		assert.Contains(t, out, "<name>"+name+"</name>")
	}
	for _, label := range []string{"Immediate", "Core Midline", "Core Far"} {
		assert.Contains(t, out, "<name>"+label+"</name>")
	}
	assert.Contains(t, out, "<styleUrl>#core</styleUrl>")
	assert.Contains(t, out, "<Polygon>")
	assert.Contains(t, out, "<LineString>")
}

func TestEncode_ZonesOrderedOutermostFirst(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, Encode(&buf, sampleResult(t)))
	out := buf.String()

	residual := strings.Index(out, "Residual Zone")
	fringe := strings.Index(out, "Fringe Zone")
	core := strings.Index(out, "Core Zone")
	require.NotEqual(t, -1, residual)
	assert.Less(t, residual, fringe)
	assert.Less(t, fringe, core)
}

func TestEncode_DeploymentNotesHidden(t *testing.T) {
	result := sampleResult(t)
	require.NotEmpty(t, result.Envelope.DeploymentNotes)

	var buf bytes.Buffer
	require.NoError(t, Encode(&buf, result))
	out := buf.String()

	assert.Contains(t, out, "<visibility>0</visibility>")
	assert.Contains(t, out, result.Envelope.DeploymentNotes[0])
}
