// Package history combines the backend's task history with the local result
// cache.
package history

import (
	"context"
	"errors"
	"fmt"

	"vidscribe/internal/log"
	"vidscribe/internal/model"
	"vidscribe/internal/storage"
)

// Remote is the history API of the backend.
type Remote interface {
	ListHistory(ctx context.Context, page, limit int) (*model.HistoryPage, error)
	GetHistory(ctx context.Context, taskID string) (*model.HistoryDetail, error)
	DeleteHistory(ctx context.Context, taskID string) error
}

// Origin tells where a listing came from.
type Origin string

const (
	OriginServer Origin = "server"
	OriginLocal  Origin = "local"
	// OriginFallback is a local listing served because the server failed.
	OriginFallback Origin = "fallback"
)

// ServiceConfig is the configuration of the history service.
type ServiceConfig struct {
	Remote Remote
	Store  storage.Repository
	Logger log.Logger
}

func (c *ServiceConfig) defaults() error {
	if c.Store == nil {
		return fmt.Errorf("store is required: %w", model.ErrNotValid)
	}
	if c.Logger == nil {
		c.Logger = log.Noop
	}
	c.Logger = c.Logger.WithValues(log.Kv{"svc": "history.Service"})
	return nil
}

// Service lists, shows and deletes completed tasks.
type Service struct {
	remote Remote
	store  storage.Repository
	logger log.Logger
}

// NewService returns a history service. A nil Remote makes it local only.
func NewService(cfg ServiceConfig) (*Service, error) {
	if err := cfg.defaults(); err != nil {
		return nil, fmt.Errorf("invalid configuration: %w", err)
	}
	return &Service{remote: cfg.Remote, store: cfg.Store, logger: cfg.Logger}, nil
}

// List returns a history page. With local set, or when the server cannot be
// reached, the page comes from the local cache.
func (s *Service) List(ctx context.Context, page, limit int, local bool) (*model.HistoryPage, Origin, error) {
	if local || s.remote == nil {
		p, err := s.store.ListResults(ctx, page, limit)
		return p, OriginLocal, err
	}

	p, err := s.remote.ListHistory(ctx, page, limit)
	if err == nil {
		return p, OriginServer, nil
	}
	if errors.Is(err, model.ErrNotValid) || ctx.Err() != nil {
		return nil, OriginServer, err
	}

	s.logger.Warningf("could not list server history, using local cache: %s", err)
	p, lerr := s.store.ListResults(ctx, page, limit)
	if lerr != nil {
		return nil, OriginFallback, fmt.Errorf("server: %w; local cache: %w", err, lerr)
	}
	return p, OriginFallback, nil
}

// Get returns the full result of a task, from the local cache when present,
// otherwise from the server, caching it on the way.
func (s *Service) Get(ctx context.Context, taskID string) (*model.HistoryDetail, error) {
	d, err := s.store.GetResult(ctx, taskID)
	if err == nil {
		return d, nil
	}
	if !errors.Is(err, model.ErrNotFound) {
		s.logger.Warningf("local cache lookup failed: %s", err)
	}
	if s.remote == nil {
		return nil, err
	}

	d, err = s.remote.GetHistory(ctx, taskID)
	if err != nil {
		return nil, err
	}
	if err := s.store.SaveResult(ctx, *d); err != nil {
		s.logger.Warningf("could not cache result of %s: %s", taskID, err)
	}
	return d, nil
}

// Delete removes a task from the server and from the local cache. A task only
// known locally is still removed; it is an error only when neither side had it.
func (s *Service) Delete(ctx context.Context, taskID string) error {
	remoteFound := false
	if s.remote != nil {
		err := s.remote.DeleteHistory(ctx, taskID)
		switch {
		case err == nil:
			remoteFound = true
		case errors.Is(err, model.ErrNotFound):
		default:
			return fmt.Errorf("could not delete %s on the server: %w", taskID, err)
		}
	}

	err := s.store.DeleteResult(ctx, taskID)
	switch {
	case err == nil:
		return nil
	case errors.Is(err, model.ErrNotFound):
		if remoteFound {
			return nil
		}
		return fmt.Errorf("history record %s: %w", taskID, model.ErrNotFound)
	default:
		return fmt.Errorf("could not delete %s from the local cache: %w", taskID, err)
	}
}
