package persistence

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
	"time"

	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"

	"github.com/breadworks/swpe/internal/application/planning/ingress"
	"github.com/breadworks/swpe/internal/application/planning/observability"
	"github.com/breadworks/swpe/internal/domain/planning"
)

// SolveRecord is the in-memory shape of one audit entry, built by the
// caller (service.Service) and handed to an ArtifactStore. Keeping this
// a plain struct (not *gorm.DB-aware) lets callers build it without
// importing gorm.
type SolveRecord struct {
	StartedAt        time.Time
	InputsDigest     string
	SolverName       string
	TimeLimitSeconds float64
	MIPGap           float64
	ObjectiveValue   float64
	Termination      string
	WallClockMS      int64
	Succeeded        bool
	ErrorMessage     string
}

// NewSolveRecord summarizes one solve invocation for the audit log: the
// inputs digest, solver name, objective, wall time, and termination
// status. The digest is a content hash of the raw input, so two runs
// against identical data are recognizable as repeats without storing
// the data itself.
func NewSolveRecord(in ingress.Input, opts planning.RunOptions, sol *planning.Solution, err error) SolveRecord {
	rec := SolveRecord{
		StartedAt:        time.Now(),
		InputsDigest:     digestInput(in),
		SolverName:       opts.SolverName,
		TimeLimitSeconds: opts.TimeLimitSeconds,
		MIPGap:           opts.MIPGap,
		Succeeded:        err == nil,
	}
	if err != nil {
		rec.ErrorMessage = err.Error()
		return rec
	}
	rec.ObjectiveValue = sol.Costs.RoundedTotal()
	rec.Termination = string(sol.Termination)
	return rec
}

func digestInput(in ingress.Input) string {
	data, marshalErr := json.Marshal(in)
	if marshalErr != nil {
		return ""
	}
	sum := sha256.Sum256(data)
	return hex.EncodeToString(sum[:])
}

// GormArtifactStore persists SolveRecords with gorm.io/gorm +
// gorm.io/driver/sqlite. It never fails a solve: RecordSolve logs and
// returns on any error instead of propagating one, mirroring the
// nil-safe metrics-collector pattern used elsewhere in this codebase.
type GormArtifactStore struct {
	db *gorm.DB
}

// NewGormArtifactStore opens (and migrates) a sqlite database at dsn.
// dsn may be ":memory:" for tests.
func NewGormArtifactStore(dsn string) (*GormArtifactStore, error) {
	db, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Silent),
	})
	if err != nil {
		return nil, err
	}
	if err := db.AutoMigrate(&SolveRunModel{}); err != nil {
		return nil, err
	}
	return &GormArtifactStore{db: db}, nil
}

// RecordSolve writes one audit row. Failures are logged only: a broken
// or unreachable artifact store must never turn a successful solve into
// a failed one. Debug artifacts are optional and off by default.
func (s *GormArtifactStore) RecordSolve(ctx context.Context, rec SolveRecord) {
	model := SolveRunModel{
		StartedAt:        rec.StartedAt,
		InputsDigest:     rec.InputsDigest,
		SolverName:       rec.SolverName,
		TimeLimitSeconds: rec.TimeLimitSeconds,
		MIPGap:           rec.MIPGap,
		ObjectiveValue:   rec.ObjectiveValue,
		Termination:      rec.Termination,
		WallClockMS:      rec.WallClockMS,
		Succeeded:        rec.Succeeded,
		ErrorMessage:     rec.ErrorMessage,
	}
	if err := s.db.WithContext(ctx).Create(&model).Error; err != nil {
		observability.Log().Printf("swpe: failed to record solve artifact: %v", err)
	}
}

// Close releases the underlying database connection.
func (s *GormArtifactStore) Close() error {
	sqlDB, err := s.db.DB()
	if err != nil {
		return err
	}
	return sqlDB.Close()
}
