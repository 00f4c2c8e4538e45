package telemetry

import (
	"errors"
	"fmt"
	"time"

	"github.com/glebarez/sqlite"
	"github.com/rs/zerolog"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

// Run is one recorded drive.
type Run struct {
	ID        uint `gorm:"primaryKey"`
	Name      string
	Preset    string
	StartedAt time.Time
	Ticks     uint64
}

// SampleRow is a Sample persisted against its run.
type SampleRow struct {
	ID           uint   `gorm:"primaryKey"`
	RunID        uint   `gorm:"index"`
	Tick         uint64 `gorm:"index"`
	T            float64
	Speed        float64
	ForwardSpeed float64
	LateralSpeed float64
	Throttle     float64
	Steer        float64
	Mode         string
	Skidding     bool
	Handbrake    bool
	X            float64
	Z            float64
	Yaw          float64
	EnginePitch  float64
}

func (SampleRow) TableName() string { return "samples" }

// OpenSQLite opens (or creates) the database at path. An empty path gives a
// private in-memory database.
func OpenSQLite(path string, log zerolog.Logger) (*gorm.DB, error) {
	dsn := path
	if dsn == "" {
		dsn = ":memory:"
	}
	db, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{
		SkipDefaultTransaction: true,
		CreateBatchSize:        2000,
		Logger:                 logger.Default.LogMode(logger.Silent),
	})
	if err != nil {
		return nil, fmt.Errorf("open sqlite %q: %w", path, err)
	}
	sqlDB, err := db.DB()
	if err != nil {
		return nil, fmt.Errorf("access sql interface: %w", err)
	}
	// Each connection to :memory: is its own database.
	sqlDB.SetMaxOpenConns(1)

	pragmas := []string{
		"PRAGMA journal_mode = MEMORY;",
		"PRAGMA synchronous = OFF;",
		"PRAGMA temp_store = MEMORY;",
	}
	for _, pragma := range pragmas {
		if err := db.Exec(pragma).Error; err != nil {
			return nil, fmt.Errorf("error setting PRAGMA: %w", err)
		}
	}
	if path == "" {
		log.Info().Msg("Using in-memory SQLite telemetry DB")
	} else {
		log.Info().Str("path", path).Msg("Using SQLite telemetry DB")
	}
	return db, nil
}

// SQLiteSink buffers samples and inserts them in batches.
type SQLiteSink struct {
	DB        *gorm.DB
	Run       Run
	BatchSize int

	batch  []SampleRow
	ownsDB bool
}

func NewSQLiteSink(db *gorm.DB, name, preset string) (*SQLiteSink, error) {
	if err := db.AutoMigrate(&Run{}, &SampleRow{}); err != nil {
		return nil, fmt.Errorf("migrate telemetry schema: %w", err)
	}
	run := Run{Name: name, Preset: preset, StartedAt: time.Now().UTC()}
	if err := db.Create(&run).Error; err != nil {
		return nil, fmt.Errorf("create run: %w", err)
	}
	return &SQLiteSink{DB: db, Run: run, BatchSize: 500}, nil
}

// OpenSQLiteSink opens the database at path for a single run. Closing the sink
// closes the database.
func OpenSQLiteSink(path, name, preset string, log zerolog.Logger) (*SQLiteSink, error) {
	db, err := OpenSQLite(path, log)
	if err != nil {
		return nil, err
	}
	s, err := NewSQLiteSink(db, name, preset)
	if err != nil {
		_ = closeDB(db)
		return nil, err
	}
	s.ownsDB = true
	return s, nil
}

func (s *SQLiteSink) Write(x Sample) error {
	s.batch = append(s.batch, SampleRow{
		RunID:        s.Run.ID,
		Tick:         x.Tick,
		T:            x.T,
		Speed:        x.Speed,
		ForwardSpeed: x.ForwardSpeed,
		LateralSpeed: x.LateralSpeed,
		Throttle:     x.Throttle,
		Steer:        x.Steer,
		Mode:         x.Mode,
		Skidding:     x.Skidding,
		Handbrake:    x.Handbrake,
		X:            x.X,
		Z:            x.Z,
		Yaw:          x.Yaw,
		EnginePitch:  x.EnginePitch,
	})
	s.Run.Ticks++
	if len(s.batch) >= s.BatchSize {
		return s.Flush()
	}
	return nil
}

func (s *SQLiteSink) Flush() error {
	if len(s.batch) == 0 {
		return nil
	}
	if err := s.DB.CreateInBatches(s.batch, s.BatchSize).Error; err != nil {
		return fmt.Errorf("insert %d samples: %w", len(s.batch), err)
	}
	s.batch = s.batch[:0]
	return nil
}

// Close flushes pending rows and stamps the run with its tick count. A sink from
// OpenSQLiteSink also closes its database.
func (s *SQLiteSink) Close() error {
	err := s.Flush()
	if err == nil {
		err = s.DB.Model(&Run{}).Where("id = ?", s.Run.ID).Update("ticks", s.Run.Ticks).Error
	}
	if s.ownsDB {
		return errors.Join(err, closeDB(s.DB))
	}
	return err
}

func closeDB(db *gorm.DB) error {
	sqlDB, err := db.DB()
	if err != nil {
		return err
	}
	return sqlDB.Close()
}
