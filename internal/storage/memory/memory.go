// Package memory is an in-memory result cache, used with --no-cache and in tests.
package memory

import (
	"context"
	"fmt"
	"sort"
	"sync"
	"time"

	"vidscribe/internal/log"
	"vidscribe/internal/model"
)

// RepositoryConfig is the configuration for the memory repository.
type RepositoryConfig struct {
	Logger log.Logger
	Now    func() time.Time
}

func (c *RepositoryConfig) defaults() error {
	if c.Logger == nil {
		c.Logger = log.Noop
	}
	if c.Now == nil {
		c.Now = time.Now
	}
	c.Logger = c.Logger.WithValues(log.Kv{"svc": "storage.Memory"})
	return nil
}

type entry struct {
	detail  model.HistoryDetail
	savedAt time.Time
}

// Repository is an in-memory implementation of storage.Repository.
type Repository struct {
	results map[string]entry
	mu      sync.RWMutex
	logger  log.Logger
	now     func() time.Time
}

// NewRepository creates a new memory repository.
func NewRepository(cfg RepositoryConfig) (*Repository, error) {
	if err := cfg.defaults(); err != nil {
		return nil, fmt.Errorf("invalid config: %w", err)
	}
	return &Repository{
		results: make(map[string]entry),
		logger:  cfg.Logger,
		now:     cfg.Now,
	}, nil
}

func (r *Repository) SaveResult(_ context.Context, d model.HistoryDetail) error {
	if d.TaskID == "" {
		return fmt.Errorf("task id is required: %w", model.ErrNotValid)
	}
	r.mu.Lock()
	defer r.mu.Unlock()

	r.results[d.TaskID] = entry{detail: d, savedAt: r.now()}
	r.logger.Debugf("Saved result of task %s", d.TaskID)
	return nil
}

func (r *Repository) GetResult(_ context.Context, taskID string) (*model.HistoryDetail, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	e, ok := r.results[taskID]
	if !ok {
		return nil, fmt.Errorf("result %s: %w", taskID, model.ErrNotFound)
	}
	d := e.detail
	return &d, nil
}

func (r *Repository) ListResults(_ context.Context, page, limit int) (*model.HistoryPage, error) {
	if page < 1 || limit < 1 {
		return nil, fmt.Errorf("page and limit must be positive: %w", model.ErrNotValid)
	}
	r.mu.RLock()
	defer r.mu.RUnlock()

	entries := make([]entry, 0, len(r.results))
	for _, e := range r.results {
		entries = append(entries, e)
	}
	sort.Slice(entries, func(i, j int) bool {
		return sortKey(entries[i]).After(sortKey(entries[j]))
	})

	items := []model.HistoryItem{}
	start := (page - 1) * limit
	for i := start; i < len(entries) && i < start+limit; i++ {
		items = append(items, entries[i].detail.HistoryItem)
	}

	return &model.HistoryPage{Page: page, Limit: limit, Total: len(entries), Items: items}, nil
}

func (r *Repository) DeleteResult(_ context.Context, taskID string) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if _, ok := r.results[taskID]; !ok {
		return fmt.Errorf("result %s: %w", taskID, model.ErrNotFound)
	}
	delete(r.results, taskID)
	return nil
}

func sortKey(e entry) time.Time {
	if e.detail.FinishedAt != nil {
		return *e.detail.FinishedAt
	}
	return e.savedAt
}
