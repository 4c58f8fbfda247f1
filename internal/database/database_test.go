package database

import (
	"fmt"
	"strings"
	"testing"

	"alboran/server/config"
	"alboran/server/internal/analysis"
	"alboran/server/internal/generator"
	"alboran/server/internal/models"

	"github.com/sirupsen/logrus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestDatabase(t *testing.T) *Database {
	t.Helper()
	name := strings.NewReplacer("/", "_", " ", "_").Replace(t.Name())
	db, err := NewDatabase(fmt.Sprintf("file:%s?mode=memory&cache=shared", name), logrus.New())
	require.NoError(t, err)
	require.NoError(t, db.RunMigrations())
	t.Cleanup(func() { db.Close() })
	return db
}

func generate(t *testing.T, seed int64, size int) []models.HousingRecord {
	t.Helper()
	g, err := generator.NewGenerator(*config.GetCityByName("malaga"), generator.WithSize(size))
	require.NoError(t, err)
	return g.Generate(seed)
}

func TestLoadDataset(t *testing.T) {
	db := newTestDatabase(t)
	records := generate(t, 42, 1200)

	require.NoError(t, db.LoadDataset(42, records, 250))
	count, err := db.CountRecords(42)
	require.NoError(t, err)
	assert.Equal(t, int64(1200), count)

	has, err := db.HasDataset(42)
	require.NoError(t, err)
	assert.True(t, has)

	has, err = db.HasDataset(7)
	require.NoError(t, err)
	assert.False(t, has)

	// Reloading replaces rather than duplicates
	require.NoError(t, db.LoadDataset(42, records[:100], 0))
	count, err = db.CountRecords(42)
	require.NoError(t, err)
	assert.Equal(t, int64(100), count)
}

func TestGetDistrictStats(t *testing.T) {
	db := newTestDatabase(t)
	records := generate(t, 42, 2000)
	require.NoError(t, db.LoadDataset(42, records, 500))
	require.NoError(t, db.LoadDataset(7, generate(t, 7, 300), 500))

	stats, err := db.GetDistrictStats(42)
	require.NoError(t, err)
	require.NotEmpty(t, stats)

	byDistrict := make(map[string][]models.HousingRecord)
	for _, r := range records {
		byDistrict[r.District] = append(byDistrict[r.District], r)
	}
	assert.Len(t, stats, len(byDistrict))

	total := 0
	for _, s := range stats {
		want := analysis.Summarize(byDistrict[s.District])
		assert.Equal(t, want.TotalRecords, s.RecordCount, s.District)
		assert.Equal(t, want.ShortTermRentals, s.ShortTermCount, s.District)
		assert.InDelta(t, want.SaturationRatio, s.Saturation, 1e-9, s.District)
		assert.InDelta(t, want.AverageResidentPrice, s.AverageResidentPrice, 1e-6, s.District)
		total += s.RecordCount
	}
	assert.Equal(t, 2000, total)
}

func TestModelRuns(t *testing.T) {
	db := newTestDatabase(t)

	for i := 0; i < 3; i++ {
		run := &models.ModelRun{
			Seed:           42,
			Observations:   4000,
			TourismPremium: 440 + float64(i),
			RSquared:       0.8,
		}
		require.NoError(t, db.SaveModelRun(run))
		assert.NotZero(t, run.ID)
		assert.False(t, run.CreatedAt.IsZero())
	}

	runs, err := db.GetRecentModelRuns(2)
	require.NoError(t, err)
	require.Len(t, runs, 2)
	assert.InDelta(t, 442, runs[0].TourismPremium, 1e-9)
	assert.InDelta(t, 441, runs[1].TourismPremium, 1e-9)

	runs, err = db.GetRecentModelRuns(1 << 40)
	require.NoError(t, err)
	assert.Len(t, runs, 3)
}
