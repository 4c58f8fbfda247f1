package estimator_test

import (
	"errors"
	"math"
	"testing"

	"alboran/server/config"
	"alboran/server/internal/estimator"
	"alboran/server/internal/generator"
	"alboran/server/internal/models"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// exactPremiumSample builds records priced 1000 + 450*STR with no noise.
// Distance and floor area vary independently of rental status.
func exactPremiumSample(n int) []models.HousingRecord {
	records := make([]models.HousingRecord, n)
	for i := range records {
		shortTerm := i%2 == 0
		price := 1000
		if shortTerm {
			price += 450
		}
		records[i] = models.HousingRecord{
			ID:                i + 1,
			District:          "Centro Histórico",
			IsShortTermRental: shortTerm,
			DistanceToCenter:  float64(i%7) * 0.5,
			FloorAreaSqm:      50 + (i*13)%61,
			MonthlyPrice:      price,
		}
	}
	return records
}

func TestFitHedonicModel_RecoversExactPremium(t *testing.T) {
	res, err := estimator.FitHedonicModel(exactPremiumSample(200))
	require.NoError(t, err)

	assert.InDelta(t, 450, res.TourismPremium(), 1e-6)
	assert.InDelta(t, 0, res.LocationDecay(), 1e-6)
	assert.InDelta(t, 0, res.Coefficients[estimator.PredictorSqm], 1e-6)
	assert.InDelta(t, 1000, res.Coefficients[estimator.Intercept], 1e-6)
	assert.InDelta(t, 1.0, res.RSquared, 1e-9)
	assert.Equal(t, 200, res.Observations)
	assert.Equal(t, 3, res.DFModel)
	assert.Equal(t, 196, res.DFResid)
}

func TestFitHedonicModel_KnownLinearModel(t *testing.T) {
	records := exactPremiumSample(120)
	for i := range records {
		r := &records[i]
		r.MonthlyPrice = 1400 - int(80*r.DistanceToCenter) + 3*r.FloorAreaSqm
		if r.IsShortTermRental {
			r.MonthlyPrice += 450
		}
		// deterministic +/-10 wiggle so the fit is not exact
		if i%3 == 0 {
			r.MonthlyPrice += 10
		} else if i%3 == 1 {
			r.MonthlyPrice -= 10
		}
	}

	res, err := estimator.FitHedonicModel(records)
	require.NoError(t, err)

	assert.InDelta(t, 450, res.TourismPremium(), 5)
	assert.InDelta(t, -80, res.LocationDecay(), 5)
	assert.InDelta(t, 3, res.Coefficients[estimator.PredictorSqm], 0.5)
	assert.Greater(t, res.RSquared, 0.95)
	assert.LessOrEqual(t, res.RSquared, 1.0)

	premium, ok := res.Coefficient(estimator.PredictorShortTerm)
	require.True(t, ok)
	assert.Greater(t, premium.StdError, 0.0)
	assert.Less(t, premium.PValue, 0.001)
	assert.Less(t, premium.Lower, premium.Estimate)
	assert.Greater(t, premium.Upper, premium.Estimate)
	assert.Less(t, res.FPValue, 0.001)

	_, ok = res.Coefficient("missing")
	assert.False(t, ok)
}

func TestFitHedonicModel_GeneratedDataset(t *testing.T) {
	g, err := generator.NewGenerator(*config.GetCityByName("malaga"))
	require.NoError(t, err)

	res, err := estimator.FitHedonicModel(g.Generate(42))
	require.NoError(t, err)

	assert.Equal(t, 4000, res.Observations)
	assert.Greater(t, res.TourismPremium(), 0.0)
	assert.Less(t, res.LocationDecay(), 0.0)
	assert.GreaterOrEqual(t, res.RSquared, 0.0)
	assert.LessOrEqual(t, res.RSquared, 1.0)
	assert.Contains(t, res.Summary, "OLS Regression Results")
	assert.Contains(t, res.Summary, estimator.PredictorShortTerm)
	assert.Contains(t, res.Summary, "Durbin-Watson")

	again, err := estimator.FitHedonicModel(g.Generate(42))
	require.NoError(t, err)
	assert.Equal(t, res.Coefficients, again.Coefficients)
}

func TestFitHedonicModel_EmptyInput(t *testing.T) {
	res, err := estimator.FitHedonicModel(nil)
	assert.Nil(t, res)
	assert.True(t, errors.Is(err, estimator.ErrEmptyInput))

	_, err = estimator.FitHedonicModel([]models.HousingRecord{})
	assert.True(t, errors.Is(err, estimator.ErrEmptyInput))
}

func TestFitHedonicModel_DegenerateInput(t *testing.T) {
	tests := []struct {
		name    string
		records func() []models.HousingRecord
		reason  string
	}{
		{
			name: "No short-term rentals",
			records: func() []models.HousingRecord {
				r := exactPremiumSample(50)
				for i := range r {
					r[i].IsShortTermRental = false
				}
				return r
			},
			reason: estimator.PredictorShortTerm,
		},
		{
			name: "Constant floor area",
			records: func() []models.HousingRecord {
				r := exactPremiumSample(50)
				for i := range r {
					r[i].FloorAreaSqm = 80
				}
				return r
			},
			reason: estimator.PredictorSqm,
		},
		{
			name: "Too few distinct observations",
			records: func() []models.HousingRecord {
				base := exactPremiumSample(3)
				return append(base, base...)
			},
			reason: "distinct observations",
		},
		{
			name: "Collinear predictors",
			records: func() []models.HousingRecord {
				r := exactPremiumSample(50)
				for i := range r {
					r[i].DistanceToCenter = float64(r[i].FloorAreaSqm) / 10
				}
				return r
			},
			reason: "rank deficient",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			res, err := estimator.FitHedonicModel(tt.records())
			assert.Nil(t, res)
			require.Error(t, err)
			assert.True(t, errors.Is(err, estimator.ErrDegenerateInput), "got %v", err)
			assert.Contains(t, err.Error(), tt.reason)
		})
	}
}

func TestOLS_InputValidation(t *testing.T) {
	_, err := estimator.OLS("y", []float64{1, 2}, [][]float64{{1, 2}}, []string{"a", "b"})
	assert.Error(t, err)

	_, err = estimator.OLS("y", []float64{1, 2}, [][]float64{{1}}, []string{"a"})
	assert.Error(t, err)
}

func TestOLS_SimpleLine(t *testing.T) {
	x := []float64{1, 2, 3, 4, 5, 6}
	y := []float64{3.1, 4.9, 7.2, 8.8, 11.1, 12.9}

	res, err := estimator.OLS("y", y, [][]float64{x}, []string{"x"})
	require.NoError(t, err)

	// closed form: slope = cov(x,y)/var(x)
	mx, my := 3.5, 0.0
	for _, v := range y {
		my += v
	}
	my /= float64(len(y))
	var sxy, sxx float64
	for i := range x {
		sxy += (x[i] - mx) * (y[i] - my)
		sxx += (x[i] - mx) * (x[i] - mx)
	}
	slope := sxy / sxx

	assert.InDelta(t, slope, res.Coefficients["x"], 1e-9)
	assert.InDelta(t, my-slope*mx, res.Coefficients[estimator.Intercept], 1e-9)
	assert.False(t, math.IsNaN(res.Params[1].StdError))
	assert.Len(t, res.Residuals, len(y))
}

func TestFormatSummary(t *testing.T) {
	res, err := estimator.FitHedonicModel(exactPremiumSample(40))
	require.NoError(t, err)

	summary := estimator.FormatSummary(res)
	for _, want := range []string{
		"Dep. Variable:", estimator.ResponsePrice, "R-squared:", "No. Observations:",
		estimator.Intercept, estimator.PredictorShortTerm, estimator.PredictorDistance, estimator.PredictorSqm,
		"coef", "std err", "P>|t|", "Cond. No.",
	} {
		assert.Contains(t, summary, want)
	}
}
