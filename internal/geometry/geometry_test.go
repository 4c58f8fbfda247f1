package geometry

import (
	"testing"

	"alboran/server/internal/models"

	"github.com/paulmach/orb"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDistanceToCenter(t *testing.T) {
	assert.InDelta(t, 0, DistanceToCenter(36.7213, -4.4214, 36.7213, -4.4214), 1e-12)
	// 3-4-5 triangle of 0.03 and 0.04 degrees
	assert.InDelta(t, 5, DistanceToCenter(36.7513, -4.3814, 36.7213, -4.4214), 1e-9)
}

func TestConvexHull(t *testing.T) {
	points := []orb.Point{
		{0, 0}, {2, 0}, {2, 2}, {0, 2},
		{1, 1}, {0.5, 1.5}, {2, 1},
	}
	original := append([]orb.Point(nil), points...)

	hull := ConvexHull(points)
	require.NotNil(t, hull)
	assert.True(t, hull.Closed())
	assert.Len(t, hull, 5)
	assert.Equal(t, orb.CCW, hull.Orientation())
	assert.Equal(t, original, points)

	assert.Nil(t, ConvexHull([]orb.Point{{0, 0}, {1, 1}}))
	assert.Nil(t, ConvexHull([]orb.Point{{0, 0}, {1, 1}, {2, 2}}))
	assert.Nil(t, ConvexHull([]orb.Point{{1, 1}, {1, 1}, {1, 1}}))
}

func sampleRecords() []models.HousingRecord {
	return []models.HousingRecord{
		{ID: 1, District: "a", Latitude: 36.70, Longitude: -4.40, IsShortTermRental: true, MonthlyPrice: 2000},
		{ID: 2, District: "a", Latitude: 36.71, Longitude: -4.40, MonthlyPrice: 1100},
		{ID: 3, District: "a", Latitude: 36.70, Longitude: -4.41, MonthlyPrice: 1500},
		{ID: 4, District: "b", Latitude: 36.75, Longitude: -4.45, IsShortTermRental: true, MonthlyPrice: 900},
		{ID: 5, District: "b", Latitude: 36.76, Longitude: -4.45, MonthlyPrice: 1900},
	}
}

func TestHeatLayer(t *testing.T) {
	fc := HeatLayer(sampleRecords())
	assert.Len(t, fc.Features, 2)
	assert.Equal(t, "heat", fc.ExtraMembers["layer"])

	p, ok := fc.Features[0].Geometry.(orb.Point)
	require.True(t, ok)
	assert.Equal(t, orb.Point{-4.40, 36.70}, p)
}

func TestResidentialMarkers(t *testing.T) {
	fc := ResidentialMarkers(sampleRecords()[1:3])
	require.Len(t, fc.Features, 2)

	props := fc.Features[0].Properties
	assert.Equal(t, "low", props["price_band"])
	assert.Equal(t, "#00E676", props["color"])
	assert.Equal(t, "Alquiler: 1100€", props["popup"])
	assert.Equal(t, "mid", fc.Features[1].Properties["price_band"])
}

func TestDistrictHulls(t *testing.T) {
	fc := DistrictHulls(sampleRecords())
	// district b has only two points
	require.Len(t, fc.Features, 1)

	props := fc.Features[0].Properties
	assert.Equal(t, "a", props["district"])
	assert.Equal(t, 3, props["point_count"])
	assert.InDelta(t, 100.0/3, props["saturation"], 1e-9)

	_, ok := fc.Features[0].Geometry.(orb.Polygon)
	assert.True(t, ok)
}

func TestBounds(t *testing.T) {
	b := Bounds(sampleRecords())
	assert.Equal(t, orb.Point{-4.45, 36.70}, b.Min)
	assert.Equal(t, orb.Point{-4.40, 36.76}, b.Max)
}
