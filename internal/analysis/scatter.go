// Package analysis summarises a strike point scatter.
package analysis

import (
	"math"
	"sort"

	"github.com/UnknownOlympus/trajmap/internal/geo"
	"github.com/UnknownOlympus/trajmap/internal/models"
	"gonum.org/v1/gonum/stat"
)

// MissDistances projects each strike onto the local east/north plane at the aim point
// and returns the planar miss distance in metres, in strike order.
func MissDistances(aim models.CartesianPoint, strikes []models.CartesianPoint) []float64 {
	_, lon, lat := geo.CartesianToGeographic(aim.X, aim.Y, aim.Z)
	sinLon, cosLon := math.Sincos(lon)
	sinLat, cosLat := math.Sincos(lat)

	out := make([]float64, len(strikes))
	for i, s := range strikes {
		dx, dy, dz := s.X-aim.X, s.Y-aim.Y, s.Z-aim.Z
		east := -sinLon*dx + cosLon*dy
		north := -sinLat*cosLon*dx - sinLat*sinLon*dy + cosLat*dz
		out[i] = math.Hypot(east, north)
	}
	return out
}

// CEP is the circular error probable: the 50th percentile of planar miss distance around aim.
// An empty scatter has a CEP of zero.
func CEP(aim models.CartesianPoint, strikes []models.CartesianPoint) float64 {
	if len(strikes) == 0 {
		return 0
	}
	misses := MissDistances(aim, strikes)
	sort.Float64s(misses)

	return Percentile(misses, 0.5)
}

// Percentile interpolates linearly between the closest ranks of an ascending sample,
// so the median of an even sample is the mean of its two middle values.
// p is clamped to [0, 1]; an empty sample yields zero.
func Percentile(sorted []float64, p float64) float64 {
	if len(sorted) == 0 {
		return 0
	}
	p = math.Max(0, math.Min(1, p))

	rank := p * float64(len(sorted)-1)
	lo := int(math.Floor(rank))
	hi := int(math.Ceil(rank))
	frac := rank - float64(lo)

	return sorted[lo] + frac*(sorted[hi]-sorted[lo])
}

// HaversineMeters is the great-circle distance between two present points on the engine's sphere.
func HaversineMeters(a, b models.GeoPoint) float64 {
	lat1, lat2 := geo.DegreesToRadians(a.Latitude), geo.DegreesToRadians(b.Latitude)
	dLat := lat2 - lat1
	dLon := geo.DegreesToRadians(b.Longitude - a.Longitude)

	h := math.Sin(dLat/2)*math.Sin(dLat/2) + math.Cos(lat1)*math.Cos(lat2)*math.Sin(dLon/2)*math.Sin(dLon/2)
	return 2 * geo.EarthRadius * math.Asin(math.Min(1, math.Sqrt(h)))
}

// MeanMiss is the mean great-circle distance from aim to each strike point.
func MeanMiss(aim models.GeoPoint, strikes []models.GeoPoint) float64 {
	if len(strikes) == 0 {
		return 0
	}
	d := make([]float64, len(strikes))
	for i, s := range strikes {
		d[i] = HaversineMeters(aim, s)
	}
	return stat.Mean(d, nil)
}
