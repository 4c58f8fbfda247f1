package config

import (
	"encoding/json"
	"fmt"
	"math"
	"os"
	"path/filepath"

	"alboran/server/internal/models"
)

// WeightTolerance bounds the allowed drift of the district weight sum from 1
const WeightTolerance = 1e-9

// ConfigurationError reports a malformed district table
type ConfigurationError struct {
	Reason string
}

func (e *ConfigurationError) Error() string {
	return "invalid district configuration: " + e.Reason
}

// DistrictFile is the on-disk layout of a district table override
type DistrictFile struct {
	Center    []float64         `json:"center"`
	Districts []models.District `json:"districts"`
}

// ValidateDistricts checks that the table can drive the generator.
// Weights are never renormalized.
func ValidateDistricts(districts []models.District) error {
	if len(districts) == 0 {
		return &ConfigurationError{Reason: "no districts configured"}
	}

	seen := make(map[string]bool, len(districts))
	sum := 0.0
	for _, d := range districts {
		if d.Name == "" {
			return &ConfigurationError{Reason: "district without a name"}
		}
		if seen[d.Name] {
			return &ConfigurationError{Reason: fmt.Sprintf("duplicate district %q", d.Name)}
		}
		seen[d.Name] = true

		if d.Weight < 0 || math.IsNaN(d.Weight) {
			return &ConfigurationError{Reason: fmt.Sprintf("district %q has invalid weight %v", d.Name, d.Weight)}
		}
		p := d.ShortTermRentalProbability
		if p < 0 || p > 1 || math.IsNaN(p) {
			return &ConfigurationError{Reason: fmt.Sprintf("district %q has short-term rental probability %v outside [0, 1]", d.Name, p)}
		}
		sum += d.Weight
	}

	if math.Abs(sum-1) > WeightTolerance {
		return &ConfigurationError{Reason: fmt.Sprintf("district weights sum to %v, want 1", sum)}
	}
	return nil
}

// Validate checks the city center and its district table
func (c *City) Validate() error {
	if len(c.Center) != 2 {
		return &ConfigurationError{Reason: fmt.Sprintf("city %q center needs latitude and longitude", c.Name)}
	}
	return ValidateDistricts(c.Districts)
}

// LoadDistrictFile reads a district table override and applies it to the city
func LoadDistrictFile(city *City, path string) error {
	absPath, err := filepath.Abs(path)
	if err != nil {
		return fmt.Errorf("failed to get absolute path: %w", err)
	}

	data, err := os.ReadFile(absPath)
	if err != nil {
		return fmt.Errorf("failed to read districts file: %w", err)
	}

	var file DistrictFile
	if err := json.Unmarshal(data, &file); err != nil {
		return fmt.Errorf("failed to parse districts file: %w", err)
	}

	if err := ValidateDistricts(file.Districts); err != nil {
		return err
	}

	city.Districts = file.Districts
	if len(file.Center) > 0 {
		city.Center = file.Center
	}
	return city.Validate()
}
