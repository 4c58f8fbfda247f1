package estimator

import (
	"encoding/binary"
	"fmt"
	"math"

	"gonum.org/v1/gonum/mat"
	"gonum.org/v1/gonum/stat"
	"gonum.org/v1/gonum/stat/distuv"
)

// Intercept is the name of the constant term
const Intercept = "const"

// MaxConditionNumber bounds the condition number of an identifiable design
const MaxConditionNumber = 1e10

// Coefficient is one row of the fitted parameter table
type Coefficient struct {
	Name     string  `json:"name"`
	Estimate float64 `json:"estimate"`
	StdError float64 `json:"std_error"`
	TValue   float64 `json:"t_value"`
	PValue   float64 `json:"p_value"`
	Lower    float64 `json:"ci_lower"`
	Upper    float64 `json:"ci_upper"`
}

// Result holds an ordinary least squares fit
type Result struct {
	Response     string             `json:"response"`
	Params       []Coefficient      `json:"params"`
	Coefficients map[string]float64 `json:"coefficients"`
	Observations int                `json:"observations"`
	DFModel      int                `json:"df_model"`
	DFResid      int                `json:"df_resid"`

	RSquared      float64 `json:"r_squared"`
	AdjRSquared   float64 `json:"adj_r_squared"`
	FStatistic    float64 `json:"f_statistic"`
	FPValue       float64 `json:"f_p_value"`
	LogLikelihood float64 `json:"log_likelihood"`
	AIC           float64 `json:"aic"`
	BIC           float64 `json:"bic"`

	DurbinWatson float64 `json:"durbin_watson"`
	JarqueBera   float64 `json:"jarque_bera"`
	JBPValue     float64 `json:"jb_p_value"`
	Skew         float64 `json:"skew"`
	Kurtosis     float64 `json:"kurtosis"`
	CondNo       float64 `json:"cond_no"`

	Residuals []float64 `json:"-"`
	Summary   string    `json:"summary"`
}

// Coefficient looks up a parameter row by name
func (r *Result) Coefficient(name string) (Coefficient, bool) {
	for _, c := range r.Params {
		if c.Name == name {
			return c, true
		}
	}
	return Coefficient{}, false
}

// OLS regresses y on the given predictor columns plus an intercept. Columns
// must all have len(y) entries; names label them in the result.
func OLS(response string, y []float64, columns [][]float64, names []string) (*Result, error) {
	n := len(y)
	if n == 0 {
		return nil, ErrEmptyInput
	}
	if len(columns) != len(names) {
		return nil, fmt.Errorf("got %d predictor columns but %d names", len(columns), len(names))
	}
	for i, col := range columns {
		if len(col) != n {
			return nil, fmt.Errorf("predictor %s has %d values, want %d", names[i], len(col), n)
		}
	}

	p := len(columns) + 1
	for i, col := range columns {
		if constant(col) {
			return nil, fmt.Errorf("%w: predictor %s has zero variance", ErrDegenerateInput, names[i])
		}
	}
	if d := distinctRows(columns, n, p); d < p {
		return nil, fmt.Errorf("%w: %d distinct observations for %d parameters", ErrDegenerateInput, d, p)
	}

	x := mat.NewDense(n, p, nil)
	for i := 0; i < n; i++ {
		x.Set(i, 0, 1)
		for j, col := range columns {
			x.Set(i, j+1, col[i])
		}
	}

	var qr mat.QR
	qr.Factorize(x)
	cond := qr.Cond()
	if math.IsNaN(cond) || cond > MaxConditionNumber {
		return nil, fmt.Errorf("%w: design matrix is rank deficient (condition number %g)", ErrDegenerateInput, cond)
	}

	var beta mat.Dense
	if err := qr.SolveTo(&beta, false, mat.NewDense(n, 1, append([]float64(nil), y...))); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrDegenerateInput, err)
	}

	// (XᵀX)⁻¹ = R⁻¹R⁻ᵀ
	var r mat.Dense
	qr.RTo(&r)
	var rinv mat.Dense
	if err := rinv.Inverse(r.Slice(0, p, 0, p)); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrDegenerateInput, err)
	}
	var xtxInv mat.Dense
	xtxInv.Mul(&rinv, rinv.T())

	res := &Result{
		Response:     response,
		Coefficients: make(map[string]float64, p),
		Observations: n,
		DFModel:      p - 1,
		DFResid:      n - p,
		CondNo:       cond,
		Residuals:    make([]float64, n),
	}

	coef := mat.Col(nil, 0, &beta)
	ssr := 0.0
	for i := 0; i < n; i++ {
		fitted := 0.0
		for j := 0; j < p; j++ {
			fitted += x.At(i, j) * coef[j]
		}
		e := y[i] - fitted
		res.Residuals[i] = e
		ssr += e * e
	}

	mean := stat.Mean(y, nil)
	sst := 0.0
	for _, v := range y {
		sst += (v - mean) * (v - mean)
	}

	if sst > 0 {
		res.RSquared = math.Max(0, 1-ssr/sst)
	}
	res.AdjRSquared = math.NaN()
	if res.DFResid > 0 {
		res.AdjRSquared = 1 - (1-res.RSquared)*float64(n-1)/float64(res.DFResid)
	}

	df := float64(res.DFResid)
	sigma2 := math.NaN()
	if res.DFResid > 0 {
		sigma2 = ssr / df
	}

	tcrit := math.NaN()
	if res.DFResid > 0 {
		tcrit = distuv.StudentsT{Mu: 0, Sigma: 1, Nu: df}.Quantile(0.975)
	}

	allNames := append([]string{Intercept}, names...)
	res.Params = make([]Coefficient, p)
	for j := 0; j < p; j++ {
		se := math.Sqrt(sigma2 * xtxInv.At(j, j))
		t := coef[j] / se
		pv := math.NaN()
		if res.DFResid > 0 && !math.IsNaN(t) {
			pv = 2 * (1 - distuv.StudentsT{Mu: 0, Sigma: 1, Nu: df}.CDF(math.Abs(t)))
		}
		res.Params[j] = Coefficient{
			Name:     allNames[j],
			Estimate: coef[j],
			StdError: se,
			TValue:   t,
			PValue:   pv,
			Lower:    coef[j] - tcrit*se,
			Upper:    coef[j] + tcrit*se,
		}
		res.Coefficients[allNames[j]] = coef[j]
	}

	res.FStatistic = math.NaN()
	res.FPValue = math.NaN()
	if res.DFResid > 0 && res.DFModel > 0 {
		res.FStatistic = ((sst - ssr) / float64(res.DFModel)) / (ssr / df)
		if !math.IsNaN(res.FStatistic) && !math.IsInf(res.FStatistic, 0) {
			res.FPValue = 1 - distuv.F{D1: float64(res.DFModel), D2: df}.CDF(res.FStatistic)
		} else if math.IsInf(res.FStatistic, 1) {
			res.FPValue = 0
		}
	}

	nf := float64(n)
	res.LogLikelihood = -nf / 2 * (math.Log(2*math.Pi) + math.Log(ssr/nf) + 1)
	res.AIC = -2*res.LogLikelihood + 2*float64(p)
	res.BIC = -2*res.LogLikelihood + float64(p)*math.Log(nf)

	residualDiagnostics(res, ssr)
	res.Summary = FormatSummary(res)
	return res, nil
}

func residualDiagnostics(res *Result, ssr float64) {
	e := res.Residuals
	n := float64(len(e))

	dw := 0.0
	for i := 1; i < len(e); i++ {
		d := e[i] - e[i-1]
		dw += d * d
	}
	res.DurbinWatson = dw / ssr

	res.Skew = math.NaN()
	res.Kurtosis = math.NaN()
	res.JarqueBera = math.NaN()
	res.JBPValue = math.NaN()
	if len(e) < 4 || ssr == 0 {
		return
	}

	res.Skew = stat.Skew(e, nil)
	res.Kurtosis = stat.ExKurtosis(e, nil) + 3
	res.JarqueBera = n / 6 * (res.Skew*res.Skew + (res.Kurtosis-3)*(res.Kurtosis-3)/4)
	res.JBPValue = 1 - distuv.ChiSquared{K: 2}.CDF(res.JarqueBera)
}

func constant(col []float64) bool {
	for _, v := range col[1:] {
		if v != col[0] {
			return false
		}
	}
	return true
}

// distinctRows counts distinct predictor rows, stopping once limit is reached
func distinctRows(columns [][]float64, n, limit int) int {
	seen := make(map[string]struct{}, limit)
	buf := make([]byte, 8*len(columns))
	for i := 0; i < n; i++ {
		for j, col := range columns {
			binary.LittleEndian.PutUint64(buf[8*j:], math.Float64bits(col[i]))
		}
		seen[string(buf)] = struct{}{}
		if len(seen) >= limit {
			break
		}
	}
	return len(seen)
}
