// Package geo converts between Earth-centred Cartesian coordinates and
// geographic coordinates. All functions are total over finite inputs.
package geo

import (
	"math"

	"github.com/UnknownOlympus/trajmap/internal/models"
)

// EarthRadius is the mean spherical Earth radius used by the simulation engine, in metres.
const EarthRadius = 6371e3

// CartesianToGeographic returns the radius, longitude and latitude (radians) of (x, y, z).
// The origin maps to (0, 0, 0).
func CartesianToGeographic(x, y, z float64) (float64, float64, float64) {
	horizontal := math.Hypot(x, y)
	radius := math.Sqrt(x*x + y*y + z*z)
	longitude := math.Atan2(y, x)
	latitude := math.Atan2(z, horizontal)

	return radius, longitude, latitude
}

// GeographicToCartesian is the inverse of CartesianToGeographic.
func GeographicToCartesian(radius, longitude, latitude float64) models.CartesianPoint {
	return models.CartesianPoint{
		X: radius * math.Cos(latitude) * math.Cos(longitude),
		Y: radius * math.Cos(latitude) * math.Sin(longitude),
		Z: radius * math.Sin(latitude),
	}
}

// DegreesToRadians converts an angle in degrees to radians.
func DegreesToRadians(d float64) float64 {
	return d * math.Pi / 180
}

// RadiansToDegrees converts an angle in radians to degrees.
func RadiansToDegrees(r float64) float64 {
	return r * 180 / math.Pi
}

// ToGeoPoint projects a Cartesian position onto the globe, dropping the radius.
func ToGeoPoint(p models.CartesianPoint) models.GeoPoint {
	_, lon, lat := CartesianToGeographic(p.X, p.Y, p.Z)
	return models.NewGeoPoint(RadiansToDegrees(lat), RadiansToDegrees(lon))
}

// FromGeoPoint places a present geographic point at the given radius.
func FromGeoPoint(p models.GeoPoint, radius float64) models.CartesianPoint {
	return GeographicToCartesian(radius, DegreesToRadians(p.Longitude), DegreesToRadians(p.Latitude))
}
