package models

import (
	"encoding/json"
	"fmt"
)

// GeoPoint represents a point on the Earth's surface in degrees.
// Latitude and Longitude are only meaningful when Valid is true; a point is
// either fully set or fully absent.
type GeoPoint struct {
	Latitude  float64 // Latitude of the point in degrees.
	Longitude float64 // Longitude of the point in degrees.
	Valid     bool    // Valid reports whether both fields are present.
}

// NewGeoPoint returns a present point.
func NewGeoPoint(lat, lon float64) GeoPoint {
	return GeoPoint{Latitude: lat, Longitude: lon, Valid: true}
}

// CartesianPoint is an Earth-centred position in metres, as exchanged with the simulation engine.
type CartesianPoint struct {
	X float64
	Y float64
	Z float64
}

type geoPointJSON struct {
	Lat *float64 `json:"lat"`
	Lon *float64 `json:"lon"`
}

// LatPtr returns the latitude or nil when the point is absent.
func (p GeoPoint) LatPtr() *float64 {
	if !p.Valid {
		return nil
	}
	lat := p.Latitude
	return &lat
}

// LonPtr returns the longitude or nil when the point is absent.
func (p GeoPoint) LonPtr() *float64 {
	if !p.Valid {
		return nil
	}
	lon := p.Longitude
	return &lon
}

// GeoPointFromPtrs builds a point from nullable columns. A half-set pair is treated as absent.
func GeoPointFromPtrs(lat, lon *float64) GeoPoint {
	if lat == nil || lon == nil {
		return GeoPoint{}
	}
	return NewGeoPoint(*lat, *lon)
}

// MarshalJSON encodes an absent point as {"lat":null,"lon":null}.
func (p GeoPoint) MarshalJSON() ([]byte, error) {
	return json.Marshal(geoPointJSON{Lat: p.LatPtr(), Lon: p.LonPtr()})
}

// UnmarshalJSON rejects points with only one of lat/lon set.
func (p *GeoPoint) UnmarshalJSON(data []byte) error {
	var raw geoPointJSON
	if err := json.Unmarshal(data, &raw); err != nil {
		return err
	}
	if (raw.Lat == nil) != (raw.Lon == nil) {
		return fmt.Errorf("geo point must set both lat and lon or neither: %s", string(data))
	}
	*p = GeoPointFromPtrs(raw.Lat, raw.Lon)
	return nil
}

func (p GeoPoint) String() string {
	if !p.Valid {
		return "(absent)"
	}
	return fmt.Sprintf("%g,%g", p.Latitude, p.Longitude)
}
