package config_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/breadworks/swpe/internal/infrastructure/config"
)

func TestSetDefaults_FillsEverything(t *testing.T) {
	cfg := &config.Config{}
	config.SetDefaults(cfg)

	assert.Equal(t, "lp_solve", cfg.Solver.Name)
	assert.Equal(t, 120.0, cfg.Solver.TimeLimitSeconds)
	assert.Equal(t, 0.01, cfg.Solver.MIPGap)
	assert.Equal(t, 2, cfg.Admission.MaxConcurrentSolves)
	assert.Equal(t, 1.0, cfg.Admission.RequestsPerSecond)
	assert.Equal(t, 2, cfg.Admission.Burst)
	assert.Equal(t, "swpe_artifacts.db", cfg.Artifacts.DSN)
	assert.Equal(t, "info", cfg.Logging.Level)
}

func TestValidateConfig_RejectsBadLoggingLevel(t *testing.T) {
	cfg := &config.Config{}
	config.SetDefaults(cfg)
	cfg.Logging.Level = "very-loud"

	err := config.ValidateConfig(cfg)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "Level")
}

func TestValidateConfig_RejectsZeroAdmissionCapacity(t *testing.T) {
	cfg := &config.Config{}
	config.SetDefaults(cfg)
	cfg.Admission.MaxConcurrentSolves = 0

	err := config.ValidateConfig(cfg)
	require.Error(t, err)
}

func TestLoadConfigOrDefault_FallsBackCleanly(t *testing.T) {
	cfg := config.LoadConfigOrDefault("/nonexistent/path/config.yaml")
	require.NotNil(t, cfg)
	assert.Equal(t, "lp_solve", cfg.Solver.Name)
}
