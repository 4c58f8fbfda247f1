package estimator

import (
	"fmt"
	"math"
	"strings"
)

const summaryWidth = 78

// FormatSummary renders the fit as a fixed-width text report with model
// statistics, the coefficient table and residual diagnostics.
func FormatSummary(r *Result) string {
	var b strings.Builder
	heavy := strings.Repeat("=", summaryWidth)
	light := strings.Repeat("-", summaryWidth)

	title := "OLS Regression Results"
	pad := (summaryWidth - len(title)) / 2
	b.WriteString(strings.Repeat(" ", pad) + title + "\n")
	b.WriteString(heavy + "\n")

	left := [][2]string{
		{"Dep. Variable:", r.Response},
		{"Model:", "OLS"},
		{"Method:", "Least Squares"},
		{"No. Observations:", fmt.Sprintf("%d", r.Observations)},
		{"Df Residuals:", fmt.Sprintf("%d", r.DFResid)},
		{"Df Model:", fmt.Sprintf("%d", r.DFModel)},
		{"Covariance Type:", "nonrobust"},
	}
	right := [][2]string{
		{"R-squared:", num(r.RSquared, 3)},
		{"Adj. R-squared:", num(r.AdjRSquared, 3)},
		{"F-statistic:", num(r.FStatistic, 2)},
		{"Prob (F-statistic):", pvalue(r.FPValue)},
		{"Log-Likelihood:", num(r.LogLikelihood, 1)},
		{"AIC:", num(r.AIC, 1)},
		{"BIC:", num(r.BIC, 1)},
	}
	writePairs(&b, left, right)
	b.WriteString(heavy + "\n")

	fmt.Fprintf(&b, "%-22s%10s%10s%9s%9s%9s%9s\n", "", "coef", "std err", "t", "P>|t|", "[0.025", "0.975]")
	b.WriteString(light + "\n")
	for _, c := range r.Params {
		fmt.Fprintf(&b, "%-22s%10s%10s%9s%9s%9s%9s\n",
			truncate(c.Name, 21),
			num(c.Estimate, 4),
			num(c.StdError, 3),
			num(c.TValue, 3),
			pvalue(c.PValue),
			num(c.Lower, 2),
			num(c.Upper, 2),
		)
	}
	b.WriteString(heavy + "\n")

	diagLeft := [][2]string{
		{"Skew:", num(r.Skew, 3)},
		{"Kurtosis:", num(r.Kurtosis, 3)},
	}
	diagRight := [][2]string{
		{"Durbin-Watson:", num(r.DurbinWatson, 3)},
		{"Jarque-Bera (JB):", num(r.JarqueBera, 3)},
		{"Prob(JB):", pvalue(r.JBPValue)},
		{"Cond. No.", num(r.CondNo, 0)},
	}
	writePairs(&b, diagLeft, diagRight)
	b.WriteString(heavy + "\n")
	return b.String()
}

func writePairs(b *strings.Builder, left, right [][2]string) {
	rows := len(left)
	if len(right) > rows {
		rows = len(right)
	}
	for i := 0; i < rows; i++ {
		var l, r [2]string
		if i < len(left) {
			l = left[i]
		}
		if i < len(right) {
			r = right[i]
		}
		fmt.Fprintf(b, "%-20s%18s   %-20s%17s\n", l[0], l[1], r[0], r[1])
	}
}

func num(v float64, prec int) string {
	switch {
	case math.IsNaN(v):
		return "nan"
	case math.IsInf(v, 1):
		return "inf"
	case math.IsInf(v, -1):
		return "-inf"
	case math.Abs(v) >= 1e7:
		return fmt.Sprintf("%.3e", v)
	}
	return fmt.Sprintf("%.*f", prec, v)
}

func pvalue(v float64) string {
	if math.IsNaN(v) {
		return "nan"
	}
	return fmt.Sprintf("%.3f", v)
}

func truncate(s string, n int) string {
	r := []rune(s)
	if len(r) <= n {
		return s
	}
	return string(r[:n])
}
