package geo

import (
	"fmt"
	"os"
	"strconv"
)

// Point is a WGS84 coordinate in decimal degrees
type Point struct {
	Lat float64
	Lng float64
}

// KmToMeters converts a radius given in kilometers to meters, the unit the
// distance filter compares against.
func KmToMeters(km float64) float64 {
	return km * 1000
}

// DefaultRadiusKm reads DEFAULT_RADIUS_KM, falling back to 10km
func DefaultRadiusKm() float64 {
	if v := os.Getenv("DEFAULT_RADIUS_KM"); v != "" {
		if km, err := strconv.ParseFloat(v, 64); err == nil && km > 0 {
			return km
		}
	}
	return 10
}

// ParseQuery reads lat/lng/radius query values. ok is false when no
// coordinates were supplied (the search then skips the proximity filter).
// radius falls back to DefaultRadiusKm and is returned in meters.
func ParseQuery(latStr, lngStr, radiusStr string) (p Point, radiusMeters float64, ok bool, err error) {
	if latStr == "" || lngStr == "" {
		return Point{}, 0, false, nil
	}
	p.Lat, err = strconv.ParseFloat(latStr, 64)
	if err != nil {
		return Point{}, 0, false, fmt.Errorf("invalid lat: %q", latStr)
	}
	p.Lng, err = strconv.ParseFloat(lngStr, 64)
	if err != nil {
		return Point{}, 0, false, fmt.Errorf("invalid lng: %q", lngStr)
	}
	radiusKm := DefaultRadiusKm()
	if radiusStr != "" {
		radiusKm, err = strconv.ParseFloat(radiusStr, 64)
		if err != nil || radiusKm <= 0 {
			return Point{}, 0, false, fmt.Errorf("invalid radius: %q", radiusStr)
		}
	}
	return p, KmToMeters(radiusKm), true, nil
}

// Haversine renders a SQL great-circle distance filter for the given table
// alias, with placeholder positions for the caller's lat, lng and the radius
// in meters. LEAST clamps rounding drift before acos.
func Haversine(alias string, latArg, lngArg, radiusArg int) string {
	return fmt.Sprintf(
		"6371000 * acos(LEAST(1.0, cos(radians($%d)) * cos(radians(%s.lat)) * cos(radians(%s.lng) - radians($%d)) + sin(radians($%d)) * sin(radians(%s.lat)))) <= $%d",
		latArg, alias, alias, lngArg, latArg, alias, radiusArg,
	)
}
