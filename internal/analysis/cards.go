package analysis

import (
	"fmt"

	"alboran/server/internal/estimator"
)

// Card is one KPI tile of the dashboard
type Card struct {
	Label       string `json:"label"`
	Value       string `json:"value"`
	Description string `json:"description"`
}

// MarketCards renders the saturation and resident rent figures
func MarketCards(s Summary) []Card {
	return []Card{
		{
			Label:       "Saturación Turística",
			Value:       fmt.Sprintf("%.1f%%", s.SaturationRatio),
			Description: "Porcentaje del parque de viviendas dedicado a uso turístico.",
		},
		{
			Label:       "Alquiler Medio",
			Value:       fmt.Sprintf("%.0f €", s.AverageResidentPrice),
			Description: "Precio medio soportado por los residentes locales.",
		},
	}
}

// ModelCards renders the headline regression figures
func ModelCards(res *estimator.Result) []Card {
	return []Card{
		{
			Label:       "Premium Turístico",
			Value:       fmt.Sprintf("%+.0f €", res.TourismPremium()),
			Description: "Incremento de precio puro por convertir a uso turístico.",
		},
		{
			Label:       "Factor Ubicación",
			Value:       fmt.Sprintf("%.0f €", res.LocationDecay()),
			Description: "Variación de precio por cada unidad de distancia al centro.",
		},
		{
			Label:       "R² (Fiabilidad)",
			Value:       fmt.Sprintf("%.2f", res.RSquared),
			Description: fmt.Sprintf("El modelo explica el %.0f%% de la varianza de precios.", res.RSquared*100),
		},
	}
}
