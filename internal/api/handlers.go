package api

import (
	"errors"
	"fmt"
	"io"
	"math"
	"net/http"
	"os"
	"strconv"

	"alboran/server/config"
	"alboran/server/internal/analysis"
	"alboran/server/internal/database"
	"alboran/server/internal/estimator"
	"alboran/server/internal/generator"
	"alboran/server/internal/geometry"
	"alboran/server/internal/models"

	"github.com/gin-gonic/gin"
	"github.com/paulmach/orb/geojson"
	"github.com/sirupsen/logrus"
)

const (
	defaultRunsLimit = 10
	maxRunsLimit     = 100
)

type Handler struct {
	db     *database.Database
	cache  *generator.Cache
	logger *logrus.Logger

	city        config.City
	defaultSeed int64
	sampleSize  int
	batchSize   int
}

type Options struct {
	DefaultSeed int64
	SampleSize  int
	BatchSize   int
}

// ModelRequest selects the records the hedonic model is fitted on
type ModelRequest struct {
	Seed     *int64 `json:"seed"`
	District string `json:"district"`
}

type StatsResponse struct {
	Seed    int64            `json:"seed"`
	Summary analysis.Summary `json:"summary"`
	Cards   []analysis.Card  `json:"cards"`
}

type DistrictsResponse struct {
	Seed          int64                  `json:"seed"`
	Districts     []models.DistrictStats `json:"districts"`
	GoodnessOfFit analysis.GoodnessOfFit `json:"goodness_of_fit"`
}

// CoefficientResponse is a parameter row; non-finite statistics become null
type CoefficientResponse struct {
	Name     string   `json:"name"`
	Estimate *float64 `json:"estimate"`
	StdError *float64 `json:"std_error"`
	TValue   *float64 `json:"t_value"`
	PValue   *float64 `json:"p_value"`
	Lower    *float64 `json:"ci_lower"`
	Upper    *float64 `json:"ci_upper"`
}

type ModelResponse struct {
	Seed           int64                 `json:"seed"`
	District       string                `json:"district,omitempty"`
	Observations   int                   `json:"observations"`
	Coefficients   map[string]float64    `json:"coefficients"`
	Params         []CoefficientResponse `json:"params"`
	TourismPremium float64               `json:"tourism_premium"`
	LocationDecay  float64               `json:"location_decay"`
	RSquared       float64               `json:"r_squared"`
	AdjRSquared    *float64              `json:"adj_r_squared"`
	FStatistic     *float64              `json:"f_statistic"`
	Cards          []analysis.Card       `json:"cards"`
	Summary        string                `json:"summary"`
}

func NewHandler(db *database.Database, cache *generator.Cache, logger *logrus.Logger, opts Options) *Handler {
	if logger == nil {
		logger = logrus.New()
		logger.SetFormatter(&logrus.JSONFormatter{})
		logger.SetOutput(os.Stdout)
	}
	if opts.SampleSize <= 0 {
		opts.SampleSize = analysis.DefaultSampleSize
	}

	return &Handler{
		db:          db,
		cache:       cache,
		logger:      logger,
		city:        cache.Generator().City(),
		defaultSeed: opts.DefaultSeed,
		sampleSize:  opts.SampleSize,
		batchSize:   opts.BatchSize,
	}
}

func finite(v float64) *float64 {
	if math.IsNaN(v) || math.IsInf(v, 0) {
		return nil
	}
	return &v
}

func (h *Handler) seedParam(c *gin.Context) (int64, error) {
	raw := c.Query("seed")
	if raw == "" {
		return h.defaultSeed, nil
	}
	seed, err := strconv.ParseInt(raw, 10, 64)
	if err != nil {
		return 0, fmt.Errorf("invalid seed %q", raw)
	}
	return seed, nil
}

// dataset returns the cached dataset of seed, loading it into the store on
// first use.
func (h *Handler) dataset(seed int64) (*generator.Dataset, error) {
	ds := h.cache.Get(seed)

	stored, err := h.db.HasDataset(seed)
	if err != nil {
		return nil, fmt.Errorf("failed to check store: %w", err)
	}
	if !stored && ds.Len() > 0 {
		if err := h.db.LoadDataset(seed, ds.Records(), h.batchSize); err != nil {
			return nil, err
		}
	}
	return ds, nil
}

func (h *Handler) resolveDataset(c *gin.Context) (*generator.Dataset, bool) {
	seed, err := h.seedParam(c)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return nil, false
	}

	ds, err := h.dataset(seed)
	if err != nil {
		h.logger.WithError(err).WithField("seed", seed).Error("Failed to prepare dataset")
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to prepare dataset"})
		return nil, false
	}
	return ds, true
}

func (h *Handler) Health(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{
		"status": "ok",
		"city":   h.city.Name,
		"seed":   h.defaultSeed,
		"cached": h.cache.Contains(h.defaultSeed),
	})
}

func (h *Handler) GetCity(c *gin.Context) {
	c.JSON(http.StatusOK, h.city)
}

func (h *Handler) GetRecords(c *gin.Context) {
	ds, ok := h.resolveDataset(c)
	if !ok {
		return
	}

	district := c.Query("district")
	var shortTerm *bool
	if raw := c.Query("short_term"); raw != "" {
		v, err := strconv.ParseBool(raw)
		if err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": fmt.Sprintf("invalid short_term %q", raw)})
			return
		}
		shortTerm = &v
	}

	records := ds.Filter(func(r models.HousingRecord) bool {
		if district != "" && r.District != district {
			return false
		}
		if shortTerm != nil && r.IsShortTermRental != *shortTerm {
			return false
		}
		return true
	})

	c.JSON(http.StatusOK, records)
}

func (h *Handler) GetStats(c *gin.Context) {
	ds, ok := h.resolveDataset(c)
	if !ok {
		return
	}

	summary := analysis.Summarize(ds.Records())
	c.JSON(http.StatusOK, StatsResponse{
		Seed:    ds.Seed(),
		Summary: summary,
		Cards:   analysis.MarketCards(summary),
	})
}

func (h *Handler) GetDistricts(c *gin.Context) {
	ds, ok := h.resolveDataset(c)
	if !ok {
		return
	}

	stats, err := h.db.GetDistrictStats(ds.Seed())
	if err != nil {
		h.logger.WithError(err).Error("Failed to get district stats")
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to get district stats"})
		return
	}

	c.JSON(http.StatusOK, DistrictsResponse{
		Seed:          ds.Seed(),
		Districts:     stats,
		GoodnessOfFit: analysis.DistrictGoodnessOfFit(ds.Records(), h.city.Districts),
	})
}

func (h *Handler) GetHeatLayer(c *gin.Context) {
	ds, ok := h.resolveDataset(c)
	if !ok {
		return
	}
	c.JSON(http.StatusOK, geometry.HeatLayer(ds.Records()))
}

func (h *Handler) GetMarkers(c *gin.Context) {
	ds, ok := h.resolveDataset(c)
	if !ok {
		return
	}

	size := h.sampleSize
	if raw := c.Query("sample"); raw != "" {
		n, err := strconv.Atoi(raw)
		if err != nil || n < 0 {
			c.JSON(http.StatusBadRequest, gin.H{"error": fmt.Sprintf("invalid sample %q", raw)})
			return
		}
		size = n
	}

	sample := analysis.SampleResidential(ds.Records(), size, ds.Seed())
	c.JSON(http.StatusOK, geometry.ResidentialMarkers(sample))
}

func (h *Handler) GetDistrictHulls(c *gin.Context) {
	ds, ok := h.resolveDataset(c)
	if !ok {
		return
	}

	records := ds.Records()
	fc := geometry.DistrictHulls(records)
	if len(records) > 0 {
		fc.BBox = geojson.NewBBox(geometry.Bounds(records))
	}
	c.JSON(http.StatusOK, fc)
}

// RunModel fits the hedonic regression on the selected records
func (h *Handler) RunModel(c *gin.Context) {
	var req ModelRequest
	if err := c.ShouldBindJSON(&req); err != nil && !errors.Is(err, io.EOF) {
		h.logger.WithError(err).Error("Failed to parse model request")
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request body"})
		return
	}

	seed := h.defaultSeed
	if req.Seed != nil {
		seed = *req.Seed
	}

	ds, err := h.dataset(seed)
	if err != nil {
		h.logger.WithError(err).WithField("seed", seed).Error("Failed to prepare dataset")
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to prepare dataset"})
		return
	}

	records := ds.Filter(func(r models.HousingRecord) bool {
		return req.District == "" || r.District == req.District
	})

	res, err := estimator.FitHedonicModel(records)
	if err != nil {
		if errors.Is(err, estimator.ErrEmptyInput) || errors.Is(err, estimator.ErrDegenerateInput) {
			h.logger.WithError(err).WithFields(logrus.Fields{
				"seed":     seed,
				"district": req.District,
			}).Warn("Model could not be fitted")
			c.JSON(http.StatusUnprocessableEntity, gin.H{"error": err.Error()})
			return
		}
		h.logger.WithError(err).Error("Failed to fit model")
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to fit model"})
		return
	}

	run := &models.ModelRun{
		Seed:           seed,
		District:       req.District,
		Observations:   res.Observations,
		TourismPremium: res.TourismPremium(),
		LocationDecay:  res.LocationDecay(),
		SqmCoefficient: res.Coefficients[estimator.PredictorSqm],
		RSquared:       res.RSquared,
	}
	if err := h.db.SaveModelRun(run); err != nil {
		h.logger.WithError(err).Error("Failed to log model run")
	}

	h.logger.WithFields(logrus.Fields{
		"seed":            seed,
		"district":        req.District,
		"observations":    res.Observations,
		"tourism_premium": res.TourismPremium(),
		"r_squared":       res.RSquared,
	}).Info("Fitted hedonic model")

	c.JSON(http.StatusOK, newModelResponse(seed, req.District, res))
}

func newModelResponse(seed int64, district string, res *estimator.Result) ModelResponse {
	params := make([]CoefficientResponse, len(res.Params))
	for i, p := range res.Params {
		params[i] = CoefficientResponse{
			Name:     p.Name,
			Estimate: finite(p.Estimate),
			StdError: finite(p.StdError),
			TValue:   finite(p.TValue),
			PValue:   finite(p.PValue),
			Lower:    finite(p.Lower),
			Upper:    finite(p.Upper),
		}
	}

	return ModelResponse{
		Seed:           seed,
		District:       district,
		Observations:   res.Observations,
		Coefficients:   res.Coefficients,
		Params:         params,
		TourismPremium: res.TourismPremium(),
		LocationDecay:  res.LocationDecay(),
		RSquared:       res.RSquared,
		AdjRSquared:    finite(res.AdjRSquared),
		FStatistic:     finite(res.FStatistic),
		Cards:          analysis.ModelCards(res),
		Summary:        res.Summary,
	}
}

func (h *Handler) GetModelRuns(c *gin.Context) {
	limit, err := strconv.Atoi(c.DefaultQuery("limit", strconv.Itoa(defaultRunsLimit)))
	if err != nil || limit <= 0 {
		limit = defaultRunsLimit
	}
	limit = min(limit, maxRunsLimit)

	runs, err := h.db.GetRecentModelRuns(limit)
	if err != nil {
		h.logger.WithError(err).Error("Failed to get model runs")
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to get model runs"})
		return
	}

	c.JSON(http.StatusOK, runs)
}
