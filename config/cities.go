package config

import "alboran/server/internal/models"

// City represents a city configuration
type City struct {
	Name      string            `json:"name"`
	Center    []float64         `json:"center"`
	ZoomLevel int               `json:"zoom_level"`
	Tiles     string            `json:"tiles"`
	Districts []models.District `json:"districts"`
}

// Malaga is the reference city of the synthetic market
var Malaga = City{
	Name:      "malaga",
	Center:    []float64{36.7213, -4.4214},
	ZoomLevel: 13,
	Tiles:     "CartoDB dark_matter",
	Districts: []models.District{
		{Name: "Centro Histórico", CenterLatitude: 36.7213, CenterLongitude: -4.4214, BasePrice: 1400, ShortTermRentalProbability: 0.80, Weight: 0.15},
		{Name: "La Malagueta", CenterLatitude: 36.7196, CenterLongitude: -4.4100, BasePrice: 1800, ShortTermRentalProbability: 0.65, Weight: 0.10},
		{Name: "Soho / Puerto", CenterLatitude: 36.7160, CenterLongitude: -4.4230, BasePrice: 1600, ShortTermRentalProbability: 0.70, Weight: 0.10},
		{Name: "Teatinos (Univ)", CenterLatitude: 36.7170, CenterLongitude: -4.4750, BasePrice: 900, ShortTermRentalProbability: 0.10, Weight: 0.20},
		{Name: "Huelin / Oeste", CenterLatitude: 36.7050, CenterLongitude: -4.4450, BasePrice: 850, ShortTermRentalProbability: 0.30, Weight: 0.20},
		{Name: "Pedregalejo", CenterLatitude: 36.7220, CenterLongitude: -4.3800, BasePrice: 1500, ShortTermRentalProbability: 0.55, Weight: 0.10},
		{Name: "Ciudad Jardín", CenterLatitude: 36.7450, CenterLongitude: -4.4250, BasePrice: 700, ShortTermRentalProbability: 0.05, Weight: 0.15},
	},
}

// SupportedCities is a list of cities supported by the application
var SupportedCities = []City{
	Malaga,
	// Add more cities here as needed
}

// GetCityNames returns a list of supported city names
func GetCityNames() []string {
	names := make([]string, len(SupportedCities))
	for i, city := range SupportedCities {
		names[i] = city.Name
	}
	return names
}

// GetCityByName returns a copy of a city configuration by name
func GetCityByName(name string) *City {
	for _, city := range SupportedCities {
		if city.Name == name {
			c := city.Clone()
			return &c
		}
	}
	return nil
}

// Clone returns a copy that shares no slices with c
func (c City) Clone() City {
	c.Center = append([]float64(nil), c.Center...)
	c.Districts = append([]models.District(nil), c.Districts...)
	return c
}

// CenterPoint returns the city center as latitude, longitude
func (c *City) CenterPoint() (float64, float64) {
	return c.Center[0], c.Center[1]
}
