// Package checkpoint persists session states in SQLite so a thread can be
// resumed by a later process.
package checkpoint

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/hashicorp/go-hclog"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
	"gorm.io/gorm/logger"

	"github.com/priyank1574q/agent-vinod/agent"
)

// Config holds DB configuration.
type Config struct {
	Path     string
	LogLevel logger.LogLevel
	Logger   hclog.Logger
}

// Store saves and loads thread states. Implements agent.Persister.
type Store struct {
	db     *gorm.DB
	logger hclog.Logger
}

var _ agent.Persister = (*Store)(nil)

// Open opens (creating if needed) the SQLite database at cfg.Path and runs
// migrations.
func Open(cfg Config) (*Store, error) {
	if cfg.Path == "" {
		return nil, errors.New("checkpoint: database path is required")
	}
	if cfg.LogLevel == 0 {
		cfg.LogLevel = logger.Warn
	}
	log := cfg.Logger
	if log == nil {
		log = hclog.NewNullLogger()
	}
	log = log.Named("checkpoint")

	if dir := filepath.Dir(cfg.Path); dir != "" {
		if err := os.MkdirAll(dir, 0755); err != nil {
			return nil, fmt.Errorf("create checkpoint dir: %w", err)
		}
	}
	dsn := fmt.Sprintf("%s?_journal_mode=WAL&_busy_timeout=5000", cfg.Path)

	gormLogger := logger.New(
		log.StandardLogger(&hclog.StandardLoggerOptions{InferLevels: true}),
		logger.Config{
			SlowThreshold:             200 * time.Millisecond,
			LogLevel:                  cfg.LogLevel,
			IgnoreRecordNotFoundError: true,
		},
	)
	db, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{Logger: gormLogger})
	if err != nil {
		return nil, fmt.Errorf("open sqlite: %w", err)
	}

	// SQLite allows one writer; a single connection avoids "database is locked".
	sqlDB, err := db.DB()
	if err != nil {
		return nil, fmt.Errorf("get sql db: %w", err)
	}
	sqlDB.SetMaxOpenConns(1)
	sqlDB.SetMaxIdleConns(1)

	if err := db.AutoMigrate(&Thread{}); err != nil {
		return nil, fmt.Errorf("auto migrate: %w", err)
	}
	return &Store{db: db, logger: log}, nil
}

// Close closes the database.
func (s *Store) Close() error {
	sqlDB, err := s.db.DB()
	if err != nil {
		return err
	}
	return sqlDB.Close()
}

// Load returns the saved state for threadID, or nil if none was saved.
func (s *Store) Load(ctx context.Context, threadID string) (*agent.State, error) {
	var row Thread
	res := s.db.WithContext(ctx).Where("thread_id = ?", threadID).Take(&row)
	if res.Error != nil {
		if errors.Is(res.Error, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, fmt.Errorf("load thread %s: %w", threadID, res.Error)
	}
	state, err := decodeThread(&row)
	if err != nil {
		return nil, fmt.Errorf("decode thread %s: %w", threadID, err)
	}
	s.logger.Debug("loaded thread", "thread", threadID, "files", len(state.Files))
	return state, nil
}

// Save writes state, replacing any earlier snapshot of the same thread.
func (s *Store) Save(ctx context.Context, state *agent.State) error {
	if state.ThreadID == "" {
		return errors.New("checkpoint: thread id is required")
	}
	row, err := encodeThread(state)
	if err != nil {
		return fmt.Errorf("encode thread %s: %w", state.ThreadID, err)
	}
	err = s.db.WithContext(ctx).Clauses(clause.OnConflict{
		Columns: []clause.Column{{Name: "thread_id"}},
		DoUpdates: clause.AssignmentColumns([]string{
			"messages_json", "files_json", "backups_json", "images_json", "todos_json", "updated_at",
		}),
	}).Create(row).Error
	if err != nil {
		return fmt.Errorf("save thread %s: %w", state.ThreadID, err)
	}
	s.logger.Debug("saved thread", "thread", state.ThreadID, "files", len(state.Files))
	return nil
}

// Delete removes the snapshot of threadID.
func (s *Store) Delete(ctx context.Context, threadID string) error {
	return s.db.WithContext(ctx).Where("thread_id = ?", threadID).Delete(&Thread{}).Error
}

// List returns saved thread IDs, most recently updated first.
func (s *Store) List(ctx context.Context) ([]string, error) {
	var ids []string
	res := s.db.WithContext(ctx).Model(&Thread{}).Order("updated_at desc").Pluck("thread_id", &ids)
	if res.Error != nil {
		return nil, res.Error
	}
	return ids, nil
}

func encodeThread(state *agent.State) (*Thread, error) {
	row := &Thread{ThreadID: state.ThreadID}
	fields := []struct {
		dst *string
		v   any
	}{
		{&row.MessagesJSON, state.Messages},
		{&row.FilesJSON, state.Files},
		{&row.BackupsJSON, state.FilesBackup},
		{&row.ImagesJSON, state.Images},
		{&row.TodosJSON, state.Todos},
	}
	for _, f := range fields {
		data, err := json.Marshal(f.v)
		if err != nil {
			return nil, err
		}
		*f.dst = string(data)
	}
	return row, nil
}

func decodeThread(row *Thread) (*agent.State, error) {
	state := agent.NewState(row.ThreadID)
	fields := []struct {
		src string
		v   any
	}{
		{row.MessagesJSON, &state.Messages},
		{row.FilesJSON, &state.Files},
		{row.BackupsJSON, &state.FilesBackup},
		{row.ImagesJSON, &state.Images},
		{row.TodosJSON, &state.Todos},
	}
	for _, f := range fields {
		if f.src == "" || f.src == "null" {
			continue
		}
		if err := json.Unmarshal([]byte(f.src), f.v); err != nil {
			return nil, err
		}
	}
	return state, nil
}
