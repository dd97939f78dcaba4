// Package cache persists check results in a sqlite database so that
// unchanged files are not parsed again.
package cache

import (
	"crypto/sha256"
	"encoding/hex"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/google/uuid"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
	"gorm.io/gorm/logger"
)

// Entry is the stored outcome of checking one file.
type Entry struct {
	ID          uint   `gorm:"primaryKey"`
	Path        string `gorm:"uniqueIndex;not null"`
	Hash        string `gorm:"size:64;not null"`
	Robot       string
	Decls       int
	Diagnostics string // rendered diagnostics, one per line
	OK          bool
	RunID       string `gorm:"size:36;index"`
	CheckedAt   time.Time
}

// Messages splits the stored diagnostics back into lines.
func (e *Entry) Messages() []string {
	if e.Diagnostics == "" {
		return nil
	}
	return strings.Split(e.Diagnostics, "\n")
}

// Cache wraps the database of one run. Every entry stored through it carries
// the run's ID.
type Cache struct {
	db     *gorm.DB
	runID  string
	logger *slog.Logger
}

// Hash returns the hex sha256 of a source text.
func Hash(src string) string {
	sum := sha256.Sum256([]byte(src))
	return hex.EncodeToString(sum[:])
}

// Open opens or creates the database at path and migrates the schema.
func Open(path string, log *slog.Logger) (*Cache, error) {
	if log == nil {
		log = slog.New(slog.NewTextHandler(io.Discard, nil))
	}

	if path != ":memory:" {
		if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
			return nil, fmt.Errorf("create cache dir: %w", err)
		}
	}

	db, err := gorm.Open(sqlite.Open(path), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Silent),
	})
	if err != nil {
		return nil, fmt.Errorf("open cache %s: %w", path, err)
	}
	if err := db.AutoMigrate(&Entry{}); err != nil {
		if sqlDB, derr := db.DB(); derr == nil {
			sqlDB.Close()
		}
		return nil, fmt.Errorf("migrate cache %s: %w", path, err)
	}

	c := &Cache{db: db, runID: uuid.NewString(), logger: log}
	log.Debug("opened cache", "path", path, "run", c.runID)
	return c, nil
}

// RunID identifies the entries written by this Cache.
func (c *Cache) RunID() string {
	return c.runID
}

// Lookup returns the entry for path when its hash still matches.
func (c *Cache) Lookup(path, hash string) (*Entry, bool, error) {
	var e Entry
	err := c.db.Where("path = ?", path).First(&e).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		c.logger.Debug("cache miss", "file", path, "reason", "absent")
		return nil, false, nil
	}
	if err != nil {
		return nil, false, fmt.Errorf("lookup %s: %w", path, err)
	}
	if e.Hash != hash {
		c.logger.Debug("cache miss", "file", path, "reason", "changed")
		return nil, false, nil
	}
	c.logger.Debug("cache hit", "file", path, "run", e.RunID)
	return &e, true, nil
}

// Store inserts e or replaces the entry with the same path. RunID and
// CheckedAt are filled in when empty.
func (c *Cache) Store(e *Entry) error {
	if e.RunID == "" {
		e.RunID = c.runID
	}
	if e.CheckedAt.IsZero() {
		e.CheckedAt = time.Now()
	}

	err := c.db.Clauses(clause.OnConflict{
		Columns:   []clause.Column{{Name: "path"}},
		DoUpdates: clause.AssignmentColumns([]string{"hash", "robot", "decls", "diagnostics", "ok", "run_id", "checked_at"}),
	}).Create(e).Error
	if err != nil {
		return fmt.Errorf("store %s: %w", e.Path, err)
	}
	return nil
}

// Prune deletes the entries of every file not in live and returns how many
// were removed.
func (c *Cache) Prune(live []string) (int64, error) {
	q := c.db.Where("1 = 1")
	if len(live) > 0 {
		q = c.db.Where("path NOT IN ?", live)
	}
	res := q.Delete(&Entry{})
	if res.Error != nil {
		return 0, fmt.Errorf("prune cache: %w", res.Error)
	}
	if res.RowsAffected > 0 {
		c.logger.Info("pruned cache", "removed", res.RowsAffected)
	}
	return res.RowsAffected, nil
}

// Len returns the number of stored entries.
func (c *Cache) Len() (int64, error) {
	var n int64
	if err := c.db.Model(&Entry{}).Count(&n).Error; err != nil {
		return 0, fmt.Errorf("count cache: %w", err)
	}
	return n, nil
}

func (c *Cache) Close() error {
	sqlDB, err := c.db.DB()
	if err != nil {
		return err
	}
	return sqlDB.Close()
}
