package storage

import (
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/glebarez/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

// SessionRun records one engine run from login to termination.
type SessionRun struct {
	ID              uint `gorm:"primaryKey"`
	StartedAt       time.Time
	EndedAt         *time.Time
	TerminalError   string
	OrdersSubmitted uint64
}

// RetirementRecord records one retirement pass.
type RetirementRecord struct {
	ID         uint `gorm:"primaryKey"`
	RunID      uint `gorm:"index"`
	Sampled    int  // indices drawn (with replacement)
	Cancelled  int  // distinct orders actually cancelled
	DurationMs int64
	CreatedAt  time.Time
}

// SnapshotRecord is a periodic progress snapshot of the session.
type SnapshotRecord struct {
	ID              uint `gorm:"primaryKey"`
	RunID           uint `gorm:"index"`
	OrdersSubmitted uint64
	Outstanding     int
	CreatedAt       time.Time
}

// Journal persists session history to SQLite for post-run analysis.
// All writes happen at low frequency (per retirement pass or per snapshot
// interval), never per order.
type Journal struct {
	db    *gorm.DB
	runID uint
}

// NewJournal opens (or creates) the journal database at path.
func NewJournal(path string) (*Journal, error) {
	if dir := filepath.Dir(path); dir != "." {
		if err := os.MkdirAll(dir, 0755); err != nil {
			return nil, fmt.Errorf("failed to create journal directory: %w", err)
		}
	}

	// Connect to SQLite (Pure Go)
	db, err := gorm.Open(sqlite.Open(path), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Warn),
	})
	if err != nil {
		return nil, fmt.Errorf("failed to open journal database: %w", err)
	}

	if err := db.AutoMigrate(&SessionRun{}, &RetirementRecord{}, &SnapshotRecord{}); err != nil {
		return nil, fmt.Errorf("failed to migrate journal schema: %w", err)
	}

	return &Journal{db: db}, nil
}

// StartRun opens a new session-run row. Subsequent records attach to it.
func (j *Journal) StartRun() error {
	run := SessionRun{StartedAt: time.Now()}
	if err := j.db.Create(&run).Error; err != nil {
		return err
	}
	j.runID = run.ID
	return nil
}

// EndRun closes the current run with its terminal error (empty for a clean
// shutdown) and the final submitted-order count.
func (j *Journal) EndRun(terminalError string, ordersSubmitted uint64) error {
	now := time.Now()
	return j.db.Model(&SessionRun{}).Where("id = ?", j.runID).Updates(SessionRun{
		EndedAt:         &now,
		TerminalError:   terminalError,
		OrdersSubmitted: ordersSubmitted,
	}).Error
}

// RecordRetirement stores the outcome of one retirement pass.
func (j *Journal) RecordRetirement(sampled, cancelled int, d time.Duration) error {
	return j.db.Create(&RetirementRecord{
		RunID:      j.runID,
		Sampled:    sampled,
		Cancelled:  cancelled,
		DurationMs: d.Milliseconds(),
		CreatedAt:  time.Now(),
	}).Error
}

// RecordSnapshot stores a periodic progress snapshot.
func (j *Journal) RecordSnapshot(ordersSubmitted uint64, outstanding int) error {
	return j.db.Create(&SnapshotRecord{
		RunID:           j.runID,
		OrdersSubmitted: ordersSubmitted,
		Outstanding:     outstanding,
		CreatedAt:       time.Now(),
	}).Error
}

// Retirements returns all retirement records of the current run.
func (j *Journal) Retirements() ([]RetirementRecord, error) {
	var records []RetirementRecord
	err := j.db.Where("run_id = ?", j.runID).Order("id").Find(&records).Error
	return records, err
}
