package service

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"sync"

	"github.com/Rob-Kornblum/legal-ease/internal/model"

	"gorm.io/gorm"
)

// HistoryStore keeps evaluation runs, oldest first.
type HistoryStore interface {
	Append(ctx context.Context, run *model.EvalRun) error
	List(ctx context.Context) ([]model.EvalRun, error)
}

// FileHistory stores runs as an indented JSON array in one file.
type FileHistory struct {
	path string
	mu   sync.Mutex
}

func NewFileHistory(path string) *FileHistory { return &FileHistory{path: path} }

func (h *FileHistory) List(ctx context.Context) ([]model.EvalRun, error) {
	h.mu.Lock()
	defer h.mu.Unlock()
	return h.read()
}

func (h *FileHistory) Append(ctx context.Context, run *model.EvalRun) error {
	h.mu.Lock()
	defer h.mu.Unlock()

	runs, err := h.read()
	if err != nil {
		return err
	}
	runs = append(runs, *run)
	data, err := json.MarshalIndent(runs, "", "  ")
	if err != nil {
		return fmt.Errorf("encode history: %w", err)
	}
	if dir := filepath.Dir(h.path); dir != "." {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return fmt.Errorf("create history dir: %w", err)
		}
	}
	tmp := h.path + ".tmp"
	if err := os.WriteFile(tmp, data, 0o644); err != nil {
		return fmt.Errorf("write history: %w", err)
	}
	return os.Rename(tmp, h.path)
}

func (h *FileHistory) read() ([]model.EvalRun, error) {
	data, err := os.ReadFile(h.path)
	if errors.Is(err, fs.ErrNotExist) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("read history: %w", err)
	}
	var runs []model.EvalRun
	if err := json.Unmarshal(data, &runs); err != nil {
		return nil, fmt.Errorf("decode history %s: %w", h.path, err)
	}
	return runs, nil
}

// GormHistory stores runs in the eval_runs table.
type GormHistory struct{ db *gorm.DB }

func NewGormHistory(db *gorm.DB) *GormHistory { return &GormHistory{db: db} }

func (h *GormHistory) Migrate(ctx context.Context) error {
	if err := h.db.WithContext(ctx).AutoMigrate(&model.EvalRun{}); err != nil {
		return fmt.Errorf("migrate eval_runs: %w", err)
	}
	return nil
}

func (h *GormHistory) Append(ctx context.Context, run *model.EvalRun) error {
	if err := h.db.WithContext(ctx).Create(run).Error; err != nil {
		return fmt.Errorf("insert eval run: %w", err)
	}
	return nil
}

func (h *GormHistory) List(ctx context.Context) ([]model.EvalRun, error) {
	var runs []model.EvalRun
	if err := h.db.WithContext(ctx).Order("timestamp, id").Find(&runs).Error; err != nil {
		return nil, fmt.Errorf("query eval runs: %w", err)
	}
	return runs, nil
}
