package geo

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestKmToMeters(t *testing.T) {
	assert.Equal(t, 1000.0, KmToMeters(1))
	assert.Equal(t, 2500.0, KmToMeters(2.5))
	assert.Equal(t, 0.0, KmToMeters(0))
}

func TestDefaultRadiusKm(t *testing.T) {
	t.Setenv("DEFAULT_RADIUS_KM", "")
	assert.Equal(t, 10.0, DefaultRadiusKm())

	t.Setenv("DEFAULT_RADIUS_KM", "25")
	assert.Equal(t, 25.0, DefaultRadiusKm())

	t.Setenv("DEFAULT_RADIUS_KM", "bogus")
	assert.Equal(t, 10.0, DefaultRadiusKm())

	t.Setenv("DEFAULT_RADIUS_KM", "-3")
	assert.Equal(t, 10.0, DefaultRadiusKm())
}

func TestParseQueryNoCoordinates(t *testing.T) {
	_, _, ok, err := ParseQuery("", "", "")
	require.NoError(t, err)
	assert.False(t, ok)
}

func TestParseQueryDefaultsRadius(t *testing.T) {
	t.Setenv("DEFAULT_RADIUS_KM", "")
	p, meters, ok, err := ParseQuery("19.0760", "72.8777", "")
	require.NoError(t, err)
	require.True(t, ok)
	assert.InDelta(t, 19.0760, p.Lat, 1e-9)
	assert.InDelta(t, 72.8777, p.Lng, 1e-9)
	assert.Equal(t, 10000.0, meters)
}

func TestParseQueryExplicitRadius(t *testing.T) {
	_, meters, ok, err := ParseQuery("28.7", "77.1", "3")
	require.NoError(t, err)
	require.True(t, ok)
	assert.Equal(t, 3000.0, meters)
}

func TestParseQueryRejectsBadInput(t *testing.T) {
	_, _, _, err := ParseQuery("abc", "77.1", "")
	assert.Error(t, err)

	_, _, _, err = ParseQuery("28.7", "xyz", "")
	assert.Error(t, err)

	_, _, _, err = ParseQuery("28.7", "77.1", "-5")
	assert.Error(t, err)
}

func TestHaversinePlaceholders(t *testing.T) {
	sql := Haversine("l", 1, 2, 3)
	assert.Contains(t, sql, "l.lat")
	assert.Contains(t, sql, "l.lng")
	assert.Contains(t, sql, "$1")
	assert.Contains(t, sql, "$2")
	assert.Contains(t, sql, "<= $3")
	assert.True(t, strings.HasPrefix(sql, "6371000 * acos(LEAST(1.0,"))
}
