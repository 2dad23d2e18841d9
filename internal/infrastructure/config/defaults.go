package config

// SetDefaults fills in every unset configuration field with a
// conservative operational default.
func SetDefaults(cfg *Config) {
	if cfg.Solver.Name == "" {
		cfg.Solver.Name = "lp_solve"
	}
	if cfg.Solver.TimeLimitSeconds == 0 {
		cfg.Solver.TimeLimitSeconds = 120
	}
	if cfg.Solver.MIPGap == 0 {
		cfg.Solver.MIPGap = 0.01
	}

	if cfg.Admission.MaxConcurrentSolves == 0 {
		cfg.Admission.MaxConcurrentSolves = 2
	}
	if cfg.Admission.RequestsPerSecond == 0 {
		cfg.Admission.RequestsPerSecond = 1
	}
	if cfg.Admission.Burst == 0 {
		cfg.Admission.Burst = cfg.Admission.MaxConcurrentSolves
	}

	if cfg.Artifacts.DSN == "" {
		cfg.Artifacts.DSN = "swpe_artifacts.db"
	}

	if cfg.Logging.Level == "" {
		cfg.Logging.Level = "info"
	}
	if cfg.Logging.Format == "" {
		cfg.Logging.Format = "text"
	}
	if cfg.Logging.Output == "" {
		cfg.Logging.Output = "stdout"
	}
}
