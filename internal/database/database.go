package database

import (
	"fmt"
	"os"
	"time"

	"alboran/server/internal/models"

	"github.com/sirupsen/logrus"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

// DefaultBatchSize is used when LoadDataset receives a non-positive batch size
const DefaultBatchSize = 500

type Database struct {
	db     *gorm.DB
	logger *logrus.Logger
}

func NewDatabase(dsn string, log *logrus.Logger) (*Database, error) {
	if log == nil {
		log = logrus.New()
		log.SetFormatter(&logrus.JSONFormatter{})
		log.SetOutput(os.Stdout)
	}

	db, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Silent),
	})
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}

	sqlDB, err := db.DB()
	if err != nil {
		return nil, fmt.Errorf("failed to get database handle: %w", err)
	}
	// An in-memory database lives as long as its connection
	sqlDB.SetMaxOpenConns(1)

	return &Database{db: db, logger: log}, nil
}

func (d *Database) GetDB() *gorm.DB {
	return d.db
}

func (d *Database) Close() error {
	sqlDB, err := d.db.DB()
	if err != nil {
		return err
	}
	return sqlDB.Close()
}

// LoadDataset replaces the stored records of seed with records, inserting in
// batches inside one transaction.
func (d *Database) LoadDataset(seed int64, records []models.HousingRecord, batchSize int) error {
	if batchSize <= 0 {
		batchSize = DefaultBatchSize
	}

	start := time.Now()
	err := d.db.Transaction(func(tx *gorm.DB) error {
		if err := tx.Where("seed = ?", seed).Delete(&models.HousingRecord{}).Error; err != nil {
			return fmt.Errorf("failed to clear records of seed %d: %w", seed, err)
		}
		if len(records) == 0 {
			return nil
		}
		if err := tx.CreateInBatches(records, batchSize).Error; err != nil {
			return fmt.Errorf("failed to insert records batch: %w", err)
		}
		return nil
	})
	if err != nil {
		return err
	}

	d.logger.WithFields(logrus.Fields{
		"seed":       seed,
		"records":    len(records),
		"batch_size": batchSize,
		"duration":   time.Since(start).String(),
	}).Info("Loaded dataset into store")
	return nil
}

// HasDataset reports whether records of seed are stored
func (d *Database) HasDataset(seed int64) (bool, error) {
	var count int64
	if err := d.db.Model(&models.HousingRecord{}).Where("seed = ?", seed).Count(&count).Error; err != nil {
		return false, err
	}
	return count > 0, nil
}

// CountRecords returns the number of stored records of seed
func (d *Database) CountRecords(seed int64) (int64, error) {
	var count int64
	err := d.db.Model(&models.HousingRecord{}).Where("seed = ?", seed).Count(&count).Error
	return count, err
}

// GetDistrictStats aggregates the stored records of seed per district
func (d *Database) GetDistrictStats(seed int64) ([]models.DistrictStats, error) {
	query := `
        SELECT
            district,
            COUNT(*) as record_count,
            SUM(CASE WHEN is_short_term_rental THEN 1 ELSE 0 END) as short_term_count,
            AVG(monthly_price) as average_price,
            COALESCE(AVG(CASE WHEN NOT is_short_term_rental THEN monthly_price END), 0) as average_resident_price,
            AVG(floor_area_sqm) as average_sqm,
            AVG(distance_to_center) as average_distance
        FROM housing_records
        WHERE seed = ?
        GROUP BY district
        ORDER BY district
    `

	var stats []models.DistrictStats
	if err := d.db.Raw(query, seed).Scan(&stats).Error; err != nil {
		return nil, fmt.Errorf("failed to query district stats: %w", err)
	}

	for i := range stats {
		if stats[i].RecordCount > 0 {
			stats[i].Saturation = float64(stats[i].ShortTermCount) / float64(stats[i].RecordCount) * 100
		}
	}
	return stats, nil
}

// SaveModelRun logs one regression run
func (d *Database) SaveModelRun(run *models.ModelRun) error {
	if run.CreatedAt.IsZero() {
		run.CreatedAt = time.Now().UTC()
	}
	if err := d.db.Create(run).Error; err != nil {
		return fmt.Errorf("failed to save model run: %w", err)
	}
	return nil
}

// GetRecentModelRuns returns the latest regression runs, newest first
func (d *Database) GetRecentModelRuns(limit int) ([]models.ModelRun, error) {
	runs := []models.ModelRun{}
	err := d.db.Order("id DESC").Limit(limit).Find(&runs).Error
	if err != nil {
		return nil, fmt.Errorf("failed to query model runs: %w", err)
	}
	return runs, nil
}
