// Package storage keeps snapshots and run results in a SQL database
// through gorm. SQLite (pure Go) and Postgres are supported.
package storage

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/glebarez/sqlite"
	"github.com/rs/zerolog"
	"github.com/vmihailenco/msgpack/v5"
	"gorm.io/datatypes"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
	"gorm.io/gorm/logger"

	"github.com/san-kum/spacecore/internal/config"
	"github.com/san-kum/spacecore/internal/scenario"
	"github.com/san-kum/spacecore/internal/space"
)

var ErrNotFound = errors.New("not found")

// SnapshotRecord is one named world snapshot. Data holds the msgpack
// stream written by space.Serialize.
type SnapshotRecord struct {
	ID        uint      `gorm:"primarykey" json:"id"`
	Name      string    `gorm:"uniqueIndex;size:128" json:"name"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
	System    string    `json:"system"`
	Path      string    `json:"path"`
	SimTime   float64   `json:"sim_time"`
	Tick      uint64    `json:"tick"`
	Bodies    int       `json:"bodies"`
	Data      []byte    `json:"-"`
}

type RunRecord struct {
	ID         uint              `gorm:"primarykey" json:"id"`
	CreatedAt  time.Time         `json:"created_at"`
	Preset     string            `gorm:"index" json:"preset"`
	Seed       int64             `json:"seed"`
	Dt         float64           `json:"dt"`
	Duration   float64           `json:"duration"`
	Integrator string            `json:"integrator"`
	System     string            `json:"system"`
	Ticks      uint64            `json:"ticks"`
	SimTime    float64           `json:"sim_time"`
	Destroyed  bool              `json:"destroyed"`
	Jumped     bool              `json:"jumped"`
	WallMillis int64             `json:"wall_ms"`
	Metrics    datatypes.JSONMap `json:"metrics"`
	Samples    datatypes.JSON    `json:"-"`
}

type Store struct {
	db  *gorm.DB
	log zerolog.Logger
}

// Open connects to driver ("sqlite" or "postgres") at dsn.
func Open(driver, dsn string, log zerolog.Logger) (*Store, error) {
	var dialector gorm.Dialector
	switch driver {
	case "sqlite":
		dialector = sqlite.Open(dsn)
	case "postgres":
		dialector = postgres.New(postgres.Config{
			DSN:                  dsn,
			PreferSimpleProtocol: true,
		})
	default:
		return nil, fmt.Errorf("unknown database driver %q", driver)
	}

	db, err := gorm.Open(dialector, &gorm.Config{
		SkipDefaultTransaction: true,
		Logger:                 logger.Default.LogMode(logger.Silent),
	})
	if err != nil {
		return nil, fmt.Errorf("open %s: %w", driver, err)
	}
	log.Debug().Str("driver", driver).Msg("database opened")
	return &Store{db: db, log: log}, nil
}

// Init creates or migrates the schema.
func (s *Store) Init() error {
	if err := s.db.AutoMigrate(&SnapshotRecord{}, &RunRecord{}); err != nil {
		return fmt.Errorf("migrate schema: %w", err)
	}
	return nil
}

func (s *Store) Close() error {
	sqlDB, err := s.db.DB()
	if err != nil {
		return err
	}
	return sqlDB.Close()
}

// SaveSnapshot serializes sp under name, replacing any earlier snapshot
// with the same name.
func (s *Store) SaveSnapshot(name string, sp *space.Space) (*SnapshotRecord, error) {
	var buf bytes.Buffer
	if err := sp.Serialize(msgpack.NewEncoder(&buf)); err != nil {
		return nil, err
	}

	rec := &SnapshotRecord{
		Name:    name,
		System:  "hyperspace",
		SimTime: sp.Time(),
		Tick:    sp.TickCount(),
		Bodies:  sp.NumBodies(),
		Data:    buf.Bytes(),
	}
	if sys := sp.System(); sys != nil {
		rec.System = sys.Name
		rec.Path = fmt.Sprintf("%d,%d,%d", sys.SectorX, sys.SectorY, sys.Index)
	}

	err := s.db.Clauses(clause.OnConflict{
		Columns:   []clause.Column{{Name: "name"}},
		DoUpdates: clause.AssignmentColumns([]string{"updated_at", "system", "path", "sim_time", "tick", "bodies", "data"}),
	}).Create(rec).Error
	if err != nil {
		return nil, fmt.Errorf("save snapshot %s: %w", name, err)
	}
	s.log.Info().Str("name", name).Int("bytes", len(rec.Data)).Msg("snapshot saved")
	return rec, nil
}

// LoadSnapshot replaces the world in sp with the named snapshot. Loaders
// for custom body kinds must already be registered on sp.
func (s *Store) LoadSnapshot(name string, sp *space.Space) (*SnapshotRecord, error) {
	var rec SnapshotRecord
	err := s.db.Where("name = ?", name).First(&rec).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, fmt.Errorf("snapshot %s: %w", name, ErrNotFound)
	}
	if err != nil {
		return nil, err
	}
	if err := sp.Unserialize(msgpack.NewDecoder(bytes.NewReader(rec.Data))); err != nil {
		return nil, err
	}
	return &rec, nil
}

// ListSnapshots returns snapshot metadata, newest first, without data.
func (s *Store) ListSnapshots() ([]SnapshotRecord, error) {
	var recs []SnapshotRecord
	err := s.db.Omit("data").Order("updated_at desc").Find(&recs).Error
	return recs, err
}

func (s *Store) DeleteSnapshot(name string) error {
	res := s.db.Where("name = ?", name).Delete(&SnapshotRecord{})
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return fmt.Errorf("snapshot %s: %w", name, ErrNotFound)
	}
	return nil
}

// SaveRun records a finished scenario run.
func (s *Store) SaveRun(preset string, cfg *config.Config, res *scenario.Result) (*RunRecord, error) {
	samples, err := json.Marshal(res.Samples)
	if err != nil {
		return nil, err
	}
	metrics := datatypes.JSONMap{}
	for k, v := range res.Metrics {
		metrics[k] = v
	}

	rec := &RunRecord{
		Preset:     preset,
		Seed:       res.Seed,
		Dt:         cfg.Dt,
		Duration:   cfg.Duration,
		Integrator: cfg.Integrator,
		System:     res.System,
		Ticks:      res.Ticks,
		SimTime:    res.SimTime,
		Destroyed:  res.Destroyed,
		Jumped:     res.Jumped,
		WallMillis: res.Wall.Milliseconds(),
		Metrics:    metrics,
		Samples:    datatypes.JSON(samples),
	}
	if err := s.db.Create(rec).Error; err != nil {
		return nil, fmt.Errorf("save run: %w", err)
	}
	return rec, nil
}

// ListRuns returns up to limit runs, newest first. A limit of zero or
// less returns them all.
func (s *Store) ListRuns(limit int) ([]RunRecord, error) {
	q := s.db.Omit("samples").Order("id desc")
	if limit > 0 {
		q = q.Limit(limit)
	}
	var recs []RunRecord
	err := q.Find(&recs).Error
	return recs, err
}

// LoadRun returns a run and its decoded samples.
func (s *Store) LoadRun(id uint) (*RunRecord, []scenario.Sample, error) {
	var rec RunRecord
	err := s.db.First(&rec, id).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil, fmt.Errorf("run %d: %w", id, ErrNotFound)
	}
	if err != nil {
		return nil, nil, err
	}
	var samples []scenario.Sample
	if len(rec.Samples) > 0 {
		if err := json.Unmarshal(rec.Samples, &samples); err != nil {
			return nil, nil, fmt.Errorf("run %d samples: %w", id, err)
		}
	}
	return &rec, samples, nil
}

// Result rebuilds the scenario result a run was saved from.
func (r *RunRecord) Result(samples []scenario.Sample) *scenario.Result {
	res := &scenario.Result{
		Seed:      r.Seed,
		System:    r.System,
		Ticks:     r.Ticks,
		SimTime:   r.SimTime,
		Destroyed: r.Destroyed,
		Jumped:    r.Jumped,
		Samples:   samples,
		Metrics:   make(map[string]float64, len(r.Metrics)),
		Wall:      time.Duration(r.WallMillis) * time.Millisecond,
	}
	for k, v := range r.Metrics {
		if f, ok := metricValue(v); ok {
			res.Metrics[k] = f
		}
	}
	return res
}

// metricValue reads a number back out of a JSONMap. Values scanned from
// the database arrive as json.Number.
func metricValue(v any) (float64, bool) {
	switch n := v.(type) {
	case float64:
		return n, true
	case json.Number:
		f, err := n.Float64()
		return f, err == nil
	case int:
		return float64(n), true
	case int64:
		return float64(n), true
	}
	return 0, false
}
