package main

import (
	"bytes"
	"testing"

	"alboran/server/config"

	"github.com/spf13/cobra"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func testCommand(out *bytes.Buffer) *cobra.Command {
	cmd := &cobra.Command{}
	cmd.SetOut(out)
	return cmd
}

func TestRunReport(t *testing.T) {
	cfg = &config.Config{City: "malaga"}
	cfg.Dataset.Size = 1000

	var out bytes.Buffer
	require.NoError(t, runReport(testCommand(&out), 42, ""))

	report := out.String()
	assert.Contains(t, report, "Seed 42, 1000 records")
	assert.Contains(t, report, "Saturación Turística")
	assert.Contains(t, report, "Premium Turístico")
	assert.Contains(t, report, "OLS Regression Results")
}

func TestRunReport_UnknownDistrict(t *testing.T) {
	cfg = &config.Config{City: "malaga"}
	cfg.Dataset.Size = 200

	var out bytes.Buffer
	err := runReport(testCommand(&out), 42, "Atlantis")
	assert.ErrorContains(t, err, "empty input")
}

func TestRunReport_UnknownCity(t *testing.T) {
	cfg = &config.Config{City: "atlantis"}

	err := runReport(testCommand(&bytes.Buffer{}), 42, "")
	assert.ErrorContains(t, err, "unsupported city")
}
