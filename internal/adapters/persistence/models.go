package persistence

import "time"

// SolveRunModel is the audit row: one per Solve invocation, persisted
// only when config.ArtifactConfig.Enabled is true. It never stores the
// full Bundle/Solution — those can be megabytes for a real horizon —
// only the summary fields needed for reproducibility audits (inputs
// digest, solver name, objective, wall time, termination status).
type SolveRunModel struct {
	ID               int       `gorm:"column:id;primaryKey;autoIncrement"`
	StartedAt        time.Time `gorm:"column:started_at;not null;index"`
	InputsDigest     string    `gorm:"column:inputs_digest;not null;index"`
	SolverName       string    `gorm:"column:solver_name;not null"`
	TimeLimitSeconds float64   `gorm:"column:time_limit_seconds;not null"`
	MIPGap           float64   `gorm:"column:mip_gap;not null"`
	ObjectiveValue   float64   `gorm:"column:objective_value"`
	Termination      string    `gorm:"column:termination"`
	WallClockMS      int64     `gorm:"column:wall_clock_ms"`
	Succeeded        bool      `gorm:"column:succeeded;not null"`
	ErrorMessage     string    `gorm:"column:error_message;type:text"`
}

func (SolveRunModel) TableName() string {
	return "solve_runs"
}
