package analysis

import (
	"alboran/server/internal/models"

	"gonum.org/v1/gonum/stat"
	"gonum.org/v1/gonum/stat/distuv"
)

// DistrictShare compares the observed and configured share of one district
type DistrictShare struct {
	District string  `json:"district"`
	Observed int     `json:"observed"`
	Expected float64 `json:"expected"`
	Weight   float64 `json:"weight"`
}

// GoodnessOfFit is a chi-square test of observed district counts against the
// configured sampling weights.
type GoodnessOfFit struct {
	Shares           []DistrictShare `json:"shares"`
	ChiSquare        float64         `json:"chi_square"`
	DegreesOfFreedom int             `json:"degrees_of_freedom"`
	PValue           float64         `json:"p_value"`
}

// DistrictGoodnessOfFit tests whether records were drawn from the district
// weights. Records of unknown districts are ignored.
func DistrictGoodnessOfFit(records []models.HousingRecord, districts []models.District) GoodnessOfFit {
	index := make(map[string]int, len(districts))
	for i, d := range districts {
		index[d.Name] = i
	}

	counts := make([]float64, len(districts))
	total := 0
	for _, r := range records {
		if i, ok := index[r.District]; ok {
			counts[i]++
			total++
		}
	}

	gof := GoodnessOfFit{
		Shares:           make([]DistrictShare, len(districts)),
		DegreesOfFreedom: len(districts) - 1,
	}

	var observed, expected []float64
	for i, d := range districts {
		exp := d.Weight * float64(total)
		gof.Shares[i] = DistrictShare{
			District: d.Name,
			Observed: int(counts[i]),
			Expected: exp,
			Weight:   d.Weight,
		}
		// zero-weight districts carry no information
		if exp > 0 {
			observed = append(observed, counts[i])
			expected = append(expected, exp)
		}
	}

	if total == 0 || len(expected) < 2 {
		gof.PValue = 1
		return gof
	}

	gof.DegreesOfFreedom = len(expected) - 1
	gof.ChiSquare = stat.ChiSquare(observed, expected)
	gof.PValue = distuv.ChiSquared{K: float64(gof.DegreesOfFreedom)}.Survival(gof.ChiSquare)
	return gof
}
