package models

import "time"

// District is one named region of the city reference table
type District struct {
	Name                       string  `json:"name"`
	CenterLatitude             float64 `json:"center_latitude"`
	CenterLongitude            float64 `json:"center_longitude"`
	BasePrice                  float64 `json:"base_price"`
	ShortTermRentalProbability float64 `json:"short_term_rental_probability"`
	Weight                     float64 `json:"weight"`
}

// HousingRecord is one synthetic rental unit
type HousingRecord struct {
	Seed              int64   `json:"seed" gorm:"primaryKey;autoIncrement:false"`
	ID                int     `json:"id" gorm:"primaryKey;autoIncrement:false"`
	Latitude          float64 `json:"latitude"`
	Longitude         float64 `json:"longitude"`
	District          string  `json:"district" gorm:"index"`
	DistanceToCenter  float64 `json:"distance_to_center"`
	IsShortTermRental bool    `json:"is_short_term_rental"`
	FloorAreaSqm      int     `json:"floor_area_sqm"`
	MonthlyPrice      int     `json:"monthly_price"`
}

func (HousingRecord) TableName() string { return "housing_records" }

// ListingType returns "tourist" for short-term rentals and "residential" otherwise
func (r HousingRecord) ListingType() string {
	if r.IsShortTermRental {
		return "tourist"
	}
	return "residential"
}

type DistrictStats struct {
	District             string  `json:"district"`
	RecordCount          int     `json:"record_count"`
	ShortTermCount       int     `json:"short_term_count"`
	Saturation           float64 `json:"saturation"`
	AveragePrice         float64 `json:"average_price"`
	AverageResidentPrice float64 `json:"average_resident_price"`
	AverageSqm           float64 `json:"average_sqm"`
	AverageDistance      float64 `json:"average_distance"`
}

// ModelRun logs one execution of the hedonic regression
type ModelRun struct {
	ID             int64     `json:"id" gorm:"primaryKey"`
	Seed           int64     `json:"seed"`
	District       string    `json:"district"`
	Observations   int       `json:"observations"`
	TourismPremium float64   `json:"tourism_premium"`
	LocationDecay  float64   `json:"location_decay"`
	SqmCoefficient float64   `json:"sqm_coefficient"`
	RSquared       float64   `json:"r_squared"`
	CreatedAt      time.Time `json:"created_at"`
}

func (ModelRun) TableName() string { return "model_runs" }
