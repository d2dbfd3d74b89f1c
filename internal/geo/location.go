package geo

import (
	"math"
	"strconv"
	"strings"

	"github.com/UnknownOlympus/trajmap/internal/models"
)

// ParseLocation parses "<lat>,<lon>" as typed into a location bar.
// Anything that does not yield two finite numbers gives an absent point.
func ParseLocation(text string) models.GeoPoint {
	latText, lonText, found := strings.Cut(text, ",")
	if !found {
		return models.GeoPoint{}
	}

	lat, ok := parseFinite(latText)
	if !ok {
		return models.GeoPoint{}
	}
	lon, ok := parseFinite(lonText)
	if !ok {
		return models.GeoPoint{}
	}

	return models.NewGeoPoint(lat, lon)
}

// FormatLocation is the inverse of ParseLocation; absent points format as "".
func FormatLocation(p models.GeoPoint) string {
	if !p.Valid {
		return ""
	}
	return strconv.FormatFloat(p.Latitude, 'f', -1, 64) + "," + strconv.FormatFloat(p.Longitude, 'f', -1, 64)
}

func parseFinite(s string) (float64, bool) {
	v, err := strconv.ParseFloat(strings.TrimSpace(s), 64)
	if err != nil || math.IsNaN(v) || math.IsInf(v, 0) {
		return 0, false
	}
	return v, true
}
