package estimator

import "alboran/server/internal/models"

// Predictor and response names of the hedonic model
const (
	PredictorShortTerm = "is_short_term_rental"
	PredictorDistance  = "distance_to_center"
	PredictorSqm       = "floor_area_sqm"
	ResponsePrice      = "monthly_price"
)

// FitHedonicModel regresses monthly price on short-term rental status,
// distance to the city center and floor area. It is a pure function of the
// records.
func FitHedonicModel(records []models.HousingRecord) (*Result, error) {
	if len(records) == 0 {
		return nil, ErrEmptyInput
	}

	n := len(records)
	y := make([]float64, n)
	shortTerm := make([]float64, n)
	distance := make([]float64, n)
	sqm := make([]float64, n)
	for i, r := range records {
		y[i] = float64(r.MonthlyPrice)
		if r.IsShortTermRental {
			shortTerm[i] = 1
		}
		distance[i] = r.DistanceToCenter
		sqm[i] = float64(r.FloorAreaSqm)
	}

	return OLS(ResponsePrice, y,
		[][]float64{shortTerm, distance, sqm},
		[]string{PredictorShortTerm, PredictorDistance, PredictorSqm},
	)
}

// TourismPremium is the expected price delta of short-term rental use,
// holding distance and floor area fixed.
func (r *Result) TourismPremium() float64 {
	return r.Coefficients[PredictorShortTerm]
}

// LocationDecay is the price change per unit of distance to the center
func (r *Result) LocationDecay() float64 {
	return r.Coefficients[PredictorDistance]
}
