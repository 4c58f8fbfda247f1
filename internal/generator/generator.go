package generator

import (
	"math"
	"math/rand/v2"

	"alboran/server/config"
	"alboran/server/internal/geometry"
	"alboran/server/internal/models"
)

// Defaults of the synthetic market
const (
	DefaultSize             = 4000
	DefaultCoordinateSpread = 0.007

	MeanFloorArea   = 80
	StdDevFloorArea = 25
	PriceNoiseSD    = 100

	ShortTermPremium   = 450
	DistancePenalty    = 80
	PricePerSqm        = 3
	MinimumMonthlyRent = 400
)

// Generator builds deterministic synthetic datasets for one city
type Generator struct {
	city       config.City
	cumulative []float64
	size       int
	spread     float64
}

// Option configures a Generator
type Option func(*Generator)

// WithSize overrides the number of records per dataset
func WithSize(size int) Option {
	return func(g *Generator) {
		g.size = size
	}
}

// WithCoordinateSpread overrides the standard deviation, in degrees, of record
// coordinates around their district center.
func WithCoordinateSpread(sd float64) Option {
	return func(g *Generator) {
		g.spread = sd
	}
}

// NewGenerator validates the city district table and prepares the
// cumulative distribution used for district draws. A malformed table yields
// a *config.ConfigurationError.
func NewGenerator(city config.City, opts ...Option) (*Generator, error) {
	if err := city.Validate(); err != nil {
		return nil, err
	}

	g := &Generator{
		city:   city.Clone(),
		size:   DefaultSize,
		spread: DefaultCoordinateSpread,
	}
	for _, opt := range opts {
		opt(g)
	}
	if g.size < 0 {
		return nil, &config.ConfigurationError{Reason: "dataset size must not be negative"}
	}

	g.cumulative = make([]float64, len(g.city.Districts))
	acc := 0.0
	for i, d := range g.city.Districts {
		acc += d.Weight
		g.cumulative[i] = acc
	}
	return g, nil
}

// Size returns the number of records per dataset
func (g *Generator) Size() int {
	return g.size
}

// City returns a copy of the city the generator samples from
func (g *Generator) City() config.City {
	return g.city.Clone()
}

func (g *Generator) pickDistrict(u float64) *models.District {
	for i, c := range g.cumulative {
		if u < c {
			return &g.city.Districts[i]
		}
	}
	// u beyond the last bucket through rounding, or a trailing zero weight
	for i := len(g.city.Districts) - 1; i >= 0; i-- {
		if g.city.Districts[i].Weight > 0 {
			return &g.city.Districts[i]
		}
	}
	return &g.city.Districts[len(g.city.Districts)-1]
}

// Generate returns the dataset for seed in generation order. All draws come
// from a single PCG stream, so equal seeds yield identical datasets.
func (g *Generator) Generate(seed int64) []models.HousingRecord {
	rng := rand.New(rand.NewPCG(uint64(seed), uint64(seed)))
	centerLat, centerLon := g.city.CenterPoint()

	records := make([]models.HousingRecord, g.size)
	for i := range records {
		d := g.pickDistrict(rng.Float64())

		lat := d.CenterLatitude + rng.NormFloat64()*g.spread
		lon := d.CenterLongitude + rng.NormFloat64()*g.spread
		dist := geometry.DistanceToCenter(lat, lon, centerLat, centerLon)

		shortTerm := rng.Float64() < d.ShortTermRentalProbability
		sqm := int(math.Round(MeanFloorArea + rng.NormFloat64()*StdDevFloorArea))
		noise := rng.NormFloat64() * PriceNoiseSD

		records[i] = models.HousingRecord{
			Seed:              seed,
			ID:                i + 1,
			Latitude:          lat,
			Longitude:         lon,
			District:          d.Name,
			DistanceToCenter:  dist,
			IsShortTermRental: shortTerm,
			FloorAreaSqm:      sqm,
			MonthlyPrice:      MonthlyPrice(d.BasePrice, shortTerm, dist, sqm, noise),
		}
	}
	return records
}

// MonthlyPrice applies the hedonic price formula and clamps the result to
// MinimumMonthlyRent before truncating to whole currency units.
func MonthlyPrice(basePrice float64, shortTerm bool, distance float64, sqm int, noise float64) int {
	price := basePrice - DistancePenalty*distance + PricePerSqm*float64(sqm) + noise
	if shortTerm {
		price += ShortTermPremium
	}
	return int(math.Max(price, MinimumMonthlyRent))
}
