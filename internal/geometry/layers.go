package geometry

import (
	"fmt"
	"sort"

	"alboran/server/internal/analysis"
	"alboran/server/internal/models"

	"github.com/paulmach/orb"
	"github.com/paulmach/orb/geojson"
)

// HeatOptions mirrors the options of the front-end heat layer
type HeatOptions struct {
	Radius   int               `json:"radius"`
	Blur     int               `json:"blur"`
	Gradient map[string]string `json:"gradient"`
	Name     string            `json:"name"`
}

// DefaultHeatOptions are the settings of the tourist density layer
var DefaultHeatOptions = HeatOptions{
	Radius: 14,
	Blur:   8,
	Gradient: map[string]string{
		"0.4": "#2962FF",
		"0.7": "#FFEB3B",
		"1":   "#FF1744",
	},
	Name: "Densidad Turística",
}

func point(r models.HousingRecord) orb.Point {
	return orb.Point{r.Longitude, r.Latitude}
}

// HeatLayer returns the short-term rental coordinates as a point collection
// carrying the heat options as a foreign member.
func HeatLayer(records []models.HousingRecord) *geojson.FeatureCollection {
	fc := geojson.NewFeatureCollection()
	for _, r := range records {
		if !r.IsShortTermRental {
			continue
		}
		f := geojson.NewFeature(point(r))
		f.Properties = geojson.Properties{
			"district": r.District,
		}
		fc.Append(f)
	}

	fc.ExtraMembers = geojson.Properties{
		"layer":   "heat",
		"options": DefaultHeatOptions,
	}
	return fc
}

// ResidentialMarkers builds one colored marker per record. Callers pass the
// already-sampled residential records.
func ResidentialMarkers(records []models.HousingRecord) *geojson.FeatureCollection {
	fc := geojson.NewFeatureCollection()
	for _, r := range records {
		band := analysis.ClassifyPrice(r.MonthlyPrice)
		f := geojson.NewFeature(point(r))
		f.Properties = geojson.Properties{
			"id":            r.ID,
			"district":      r.District,
			"monthly_price": r.MonthlyPrice,
			"price_band":    band.Name,
			"color":         band.Color,
			"popup":         fmt.Sprintf("Alquiler: %d€", r.MonthlyPrice),
		}
		fc.Append(f)
	}

	fc.ExtraMembers = geojson.Properties{
		"layer": "markers",
		"name":  "Viviendas Vecinos",
	}
	return fc
}

// Bounds returns the bounding box of the records
func Bounds(records []models.HousingRecord) orb.Bound {
	mp := make(orb.MultiPoint, len(records))
	for i, r := range records {
		mp[i] = point(r)
	}
	return mp.Bound()
}

// DistrictHulls returns the convex hull of every district with at least three
// distinct points, sorted by district name.
func DistrictHulls(records []models.HousingRecord) *geojson.FeatureCollection {
	type districtPoints struct {
		points    []orb.Point
		shortTerm int
	}

	byDistrict := make(map[string]*districtPoints)
	for _, r := range records {
		dp, ok := byDistrict[r.District]
		if !ok {
			dp = &districtPoints{}
			byDistrict[r.District] = dp
		}
		dp.points = append(dp.points, point(r))
		if r.IsShortTermRental {
			dp.shortTerm++
		}
	}

	names := make([]string, 0, len(byDistrict))
	for name := range byDistrict {
		names = append(names, name)
	}
	sort.Strings(names)

	fc := geojson.NewFeatureCollection()
	for _, name := range names {
		dp := byDistrict[name]
		hull := ConvexHull(dp.points)
		if hull == nil {
			continue
		}

		f := geojson.NewFeature(orb.Polygon{hull})
		f.Properties = geojson.Properties{
			"district":    name,
			"point_count": len(dp.points),
			"saturation":  float64(dp.shortTerm) / float64(len(dp.points)) * 100,
			"hull_type":   "convex",
		}
		fc.Append(f)
	}

	fc.ExtraMembers = geojson.Properties{
		"layer": "district_hulls",
	}
	return fc
}

func cross(o, a, b orb.Point) float64 {
	return (a[0]-o[0])*(b[1]-o[1]) - (a[1]-o[1])*(b[0]-o[0])
}

// ConvexHull returns the closed counter-clockwise hull ring of the points, or
// nil when they do not span an area. The input slice is not modified.
func ConvexHull(points []orb.Point) orb.Ring {
	if len(points) < 3 {
		return nil
	}

	sorted := make([]orb.Point, len(points))
	copy(sorted, points)
	sort.Slice(sorted, func(i, j int) bool {
		if sorted[i][0] != sorted[j][0] {
			return sorted[i][0] < sorted[j][0]
		}
		return sorted[i][1] < sorted[j][1]
	})

	// Andrew's monotone chain
	hull := make([]orb.Point, 0, 2*len(sorted))
	for _, p := range sorted {
		for len(hull) >= 2 && cross(hull[len(hull)-2], hull[len(hull)-1], p) <= 0 {
			hull = hull[:len(hull)-1]
		}
		hull = append(hull, p)
	}
	lower := len(hull) + 1
	for i := len(sorted) - 2; i >= 0; i-- {
		p := sorted[i]
		for len(hull) >= lower && cross(hull[len(hull)-2], hull[len(hull)-1], p) <= 0 {
			hull = hull[:len(hull)-1]
		}
		hull = append(hull, p)
	}

	// hull now ends with its first point
	if len(hull) < 4 {
		return nil
	}
	return orb.Ring(hull)
}
