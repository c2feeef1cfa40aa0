// Package journal persists an emission log: one row per displayed second
// with the exact sample that was on screen, so camera footage can be
// correlated with the markers after the shoot.
package journal

import (
	"fmt"
	"time"

	"github.com/glebarez/sqlite"
	"github.com/rs/zerolog"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"

	"camsync/clock"
)

// Entry is one journaled render.
type Entry struct {
	ID          uint  `gorm:"primarykey"`
	EpochMillis int64 `gorm:"index"`
	DayOfYear   int
	Hour        int
	Minute      int
	Second      int
	CreatedAt   time.Time
}

// Journal appends board samples to a local SQLite file.
type Journal struct {
	db  *gorm.DB
	log zerolog.Logger
}

// Open opens (or creates) the journal database at path and migrates the
// schema. Use ":memory:" for an ephemeral journal.
func Open(path string, log zerolog.Logger) (*Journal, error) {
	db, err := gorm.Open(sqlite.Open(path), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Silent),
	})
	if err != nil {
		return nil, fmt.Errorf("open journal db %q: %w", path, err)
	}
	if err := db.AutoMigrate(&Entry{}); err != nil {
		return nil, fmt.Errorf("migrate journal db: %w", err)
	}

	log.Info().Str("path", path).Msg("tick journal open")
	return &Journal{db: db, log: log}, nil
}

// Append records one rendered sample.
func (j *Journal) Append(s clock.TimeSample) error {
	e := Entry{
		EpochMillis: s.EpochMillis,
		DayOfYear:   s.DayOfYear,
		Hour:        s.Hour,
		Minute:      s.Minute,
		Second:      s.Second,
	}
	if err := j.db.Create(&e).Error; err != nil {
		return fmt.Errorf("append journal entry: %w", err)
	}
	return nil
}

// Count returns the number of journaled renders.
func (j *Journal) Count() (int64, error) {
	var n int64
	if err := j.db.Model(&Entry{}).Count(&n).Error; err != nil {
		return 0, fmt.Errorf("count journal entries: %w", err)
	}
	return n, nil
}

// Close releases the underlying database handle.
func (j *Journal) Close() error {
	sqlDB, err := j.db.DB()
	if err != nil {
		return err
	}
	return sqlDB.Close()
}
