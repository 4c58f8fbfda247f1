package analysis

import (
	"math/rand/v2"

	"alboran/server/internal/models"
)

// DefaultSampleSize is the number of residential records shown as markers
const DefaultSampleSize = 300

// Summary holds the aggregate KPI cards of a dataset
type Summary struct {
	TotalRecords         int     `json:"total_records"`
	ShortTermRentals     int     `json:"short_term_rentals"`
	SaturationRatio      float64 `json:"saturation_ratio"`
	AverageResidentPrice float64 `json:"average_resident_price"`
}

// Summarize computes the tourist saturation ratio (percent of records used as
// short-term rentals) and the mean price paid by residents.
func Summarize(records []models.HousingRecord) Summary {
	var s Summary
	s.TotalRecords = len(records)

	residentTotal := 0
	residents := 0
	for _, r := range records {
		if r.IsShortTermRental {
			s.ShortTermRentals++
			continue
		}
		residents++
		residentTotal += r.MonthlyPrice
	}

	if s.TotalRecords > 0 {
		s.SaturationRatio = float64(s.ShortTermRentals) / float64(s.TotalRecords) * 100
	}
	if residents > 0 {
		s.AverageResidentPrice = float64(residentTotal) / float64(residents)
	}
	return s
}

// Residential returns the records not used as short-term rentals
func Residential(records []models.HousingRecord) []models.HousingRecord {
	out := make([]models.HousingRecord, 0, len(records))
	for _, r := range records {
		if !r.IsShortTermRental {
			out = append(out, r)
		}
	}
	return out
}

// SampleResidential draws up to n residential records without replacement.
// The draw depends only on the records and the seed.
func SampleResidential(records []models.HousingRecord, n int, seed int64) []models.HousingRecord {
	residential := Residential(records)
	if n <= 0 {
		return []models.HousingRecord{}
	}
	if n >= len(residential) {
		return residential
	}

	rng := rand.New(rand.NewPCG(uint64(seed), uint64(seed)^0x5deece66d))
	// Partial Fisher-Yates: the first n slots end up holding the sample
	for i := 0; i < n; i++ {
		j := i + rng.IntN(len(residential)-i)
		residential[i], residential[j] = residential[j], residential[i]
	}
	return residential[:n:n]
}
