package geo_test

import (
	"testing"

	"github.com/UnknownOlympus/trajmap/internal/geo"
	"github.com/UnknownOlympus/trajmap/internal/models"
	"github.com/stretchr/testify/assert"
)

func TestParseLocation(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name string
		text string
		want models.GeoPoint
	}{
		{name: "with space", text: "34.05, -118.25", want: models.NewGeoPoint(34.05, -118.25)},
		{name: "no space", text: "51.5,-0.12", want: models.NewGeoPoint(51.5, -0.12)},
		{name: "padded", text: "  -33.9 ,  151.2  ", want: models.NewGeoPoint(-33.9, 151.2)},
		{name: "latitude is text", text: "abc,123", want: models.GeoPoint{}},
		{name: "longitude is text", text: "12,abc", want: models.GeoPoint{}},
		{name: "missing comma", text: "34.05 -118.25", want: models.GeoPoint{}},
		{name: "empty", text: "", want: models.GeoPoint{}},
		{name: "half filled", text: "34.05,", want: models.GeoPoint{}},
		{name: "three fields", text: "1,2,3", want: models.GeoPoint{}},
		{name: "not finite", text: "NaN,1", want: models.GeoPoint{}},
		{name: "infinite", text: "1,+Inf", want: models.GeoPoint{}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			assert.Equal(t, tt.want, geo.ParseLocation(tt.text))
		})
	}
}

func TestFormatLocation(t *testing.T) {
	t.Parallel()

	assert.Equal(t, "34.05,-118.25", geo.FormatLocation(models.NewGeoPoint(34.05, -118.25)))
	assert.Empty(t, geo.FormatLocation(models.GeoPoint{}))
	assert.Equal(t, models.NewGeoPoint(1.5, 2), geo.ParseLocation(geo.FormatLocation(models.NewGeoPoint(1.5, 2))))
}
