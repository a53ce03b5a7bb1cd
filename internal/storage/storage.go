// Package storage defines the local cache of completed task results.
package storage

import (
	"context"

	"vidscribe/internal/model"
)

// Repository is the interface for result persistence.
type Repository interface {
	// SaveResult stores a result, replacing any previous one of the same task.
	SaveResult(ctx context.Context, d model.HistoryDetail) error
	GetResult(ctx context.Context, taskID string) (*model.HistoryDetail, error)
	// ListResults returns a page of results, newest first. Pages start at 1.
	ListResults(ctx context.Context, page, limit int) (*model.HistoryPage, error)
	DeleteResult(ctx context.Context, taskID string) error
}
