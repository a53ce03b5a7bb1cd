// Package sqlite is the SQLite backed result cache.
package sqlite

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"time"

	_ "modernc.org/sqlite"

	"vidscribe/internal/log"
	"vidscribe/internal/model"
	"vidscribe/internal/storage/sqlite/migrations"
)

// RepositoryConfig is the configuration for the SQLite repository.
type RepositoryConfig struct {
	DBPath string
	Logger log.Logger
	// Now is used to stamp saved results, defaults to time.Now.
	Now func() time.Time
}

func (c *RepositoryConfig) defaults() error {
	if c.DBPath == "" {
		return fmt.Errorf("db path is required")
	}
	if c.Logger == nil {
		c.Logger = log.Noop
	}
	if c.Now == nil {
		c.Now = time.Now
	}
	c.Logger = c.Logger.WithValues(log.Kv{"svc": "storage.SQLite"})
	return nil
}

// Repository is a SQLite implementation of storage.Repository.
type Repository struct {
	db     *sql.DB
	logger log.Logger
	now    func() time.Time
}

// NewRepository opens (creating if needed) the database and migrates it.
func NewRepository(ctx context.Context, cfg RepositoryConfig) (*Repository, error) {
	if err := cfg.defaults(); err != nil {
		return nil, fmt.Errorf("invalid config: %w", err)
	}

	if err := os.MkdirAll(filepath.Dir(cfg.DBPath), 0o755); err != nil {
		return nil, fmt.Errorf("could not create db directory: %w", err)
	}

	dsn := fmt.Sprintf("%s?_pragma=journal_mode(WAL)&_pragma=busy_timeout(5000)", cfg.DBPath)
	db, err := sql.Open("sqlite", dsn)
	if err != nil {
		return nil, fmt.Errorf("could not open database: %w", err)
	}

	migrator, err := migrations.NewMigrator(db, cfg.Logger)
	if err != nil {
		db.Close()
		return nil, fmt.Errorf("could not create migrator: %w", err)
	}
	if err := migrator.Up(ctx); err != nil {
		db.Close()
		return nil, fmt.Errorf("could not run migrations: %w", err)
	}

	cfg.Logger.Debugf("SQLite result cache initialized at %s", cfg.DBPath)

	return &Repository{db: db, logger: cfg.Logger, now: cfg.Now}, nil
}

// Close closes the database connection.
func (r *Repository) Close() error { return r.db.Close() }

// SaveResult inserts or replaces the result of a task.
func (r *Repository) SaveResult(ctx context.Context, d model.HistoryDetail) error {
	if d.TaskID == "" {
		return fmt.Errorf("task id is required: %w", model.ErrNotValid)
	}

	query := `
		INSERT INTO results (
			task_id, url, video_title,
			created_at, finished_at,
			detected_language, summary_language, has_translation,
			script, summary, translation,
			raw_script_file, script_filename, summary_filename, translation_filename,
			saved_at
		)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
		ON CONFLICT(task_id) DO UPDATE SET
			url = excluded.url,
			video_title = excluded.video_title,
			created_at = excluded.created_at,
			finished_at = excluded.finished_at,
			detected_language = excluded.detected_language,
			summary_language = excluded.summary_language,
			has_translation = excluded.has_translation,
			script = excluded.script,
			summary = excluded.summary,
			translation = excluded.translation,
			raw_script_file = excluded.raw_script_file,
			script_filename = excluded.script_filename,
			summary_filename = excluded.summary_filename,
			translation_filename = excluded.translation_filename,
			saved_at = excluded.saved_at
	`

	_, err := r.db.ExecContext(ctx, query,
		d.TaskID, d.URL, d.VideoTitle,
		toUnix(d.CreatedAt), toUnix(d.FinishedAt),
		d.DetectedLanguage, d.SummaryLanguage, d.HasTranslation,
		d.Script, d.Summary, d.Translation,
		d.RawScriptFile, d.ScriptFilename, d.SummaryFilename, d.TranslationFilename,
		r.now().Unix(),
	)
	if err != nil {
		return fmt.Errorf("could not save result: %w", err)
	}

	r.logger.WithCtxValues(ctx).Debugf("Saved result of task %s", d.TaskID)
	return nil
}

// GetResult returns the stored result of a task.
func (r *Repository) GetResult(ctx context.Context, taskID string) (*model.HistoryDetail, error) {
	query := `
		SELECT
			task_id, url, video_title,
			created_at, finished_at,
			detected_language, summary_language, has_translation,
			script, summary, translation,
			raw_script_file, script_filename, summary_filename, translation_filename
		FROM results
		WHERE task_id = ?
	`

	var (
		d                   model.HistoryDetail
		createdAt, finished sql.NullInt64
	)
	err := r.db.QueryRowContext(ctx, query, taskID).Scan(
		&d.TaskID, &d.URL, &d.VideoTitle,
		&createdAt, &finished,
		&d.DetectedLanguage, &d.SummaryLanguage, &d.HasTranslation,
		&d.Script, &d.Summary, &d.Translation,
		&d.RawScriptFile, &d.ScriptFilename, &d.SummaryFilename, &d.TranslationFilename,
	)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, fmt.Errorf("result %s: %w", taskID, model.ErrNotFound)
		}
		return nil, fmt.Errorf("could not query result: %w", err)
	}
	d.CreatedAt = fromUnix(createdAt)
	d.FinishedAt = fromUnix(finished)

	return &d, nil
}

// ListResults returns a page of results ordered by completion, newest first.
func (r *Repository) ListResults(ctx context.Context, page, limit int) (*model.HistoryPage, error) {
	if page < 1 || limit < 1 {
		return nil, fmt.Errorf("page and limit must be positive: %w", model.ErrNotValid)
	}

	var total int
	if err := r.db.QueryRowContext(ctx, `SELECT COUNT(*) FROM results`).Scan(&total); err != nil {
		return nil, fmt.Errorf("could not count results: %w", err)
	}

	query := `
		SELECT
			task_id, url, video_title,
			created_at, finished_at,
			detected_language, summary_language, has_translation
		FROM results
		ORDER BY COALESCE(finished_at, saved_at) DESC, saved_at DESC
		LIMIT ? OFFSET ?
	`

	rows, err := r.db.QueryContext(ctx, query, limit, (page-1)*limit)
	if err != nil {
		return nil, fmt.Errorf("could not query results: %w", err)
	}
	defer rows.Close()

	items := []model.HistoryItem{}
	for rows.Next() {
		var (
			it                  model.HistoryItem
			createdAt, finished sql.NullInt64
		)
		if err := rows.Scan(
			&it.TaskID, &it.URL, &it.VideoTitle,
			&createdAt, &finished,
			&it.DetectedLanguage, &it.SummaryLanguage, &it.HasTranslation,
		); err != nil {
			return nil, fmt.Errorf("could not scan result: %w", err)
		}
		it.CreatedAt = fromUnix(createdAt)
		it.FinishedAt = fromUnix(finished)
		items = append(items, it)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating results: %w", err)
	}

	return &model.HistoryPage{Page: page, Limit: limit, Total: total, Items: items}, nil
}

// DeleteResult removes the stored result of a task.
func (r *Repository) DeleteResult(ctx context.Context, taskID string) error {
	res, err := r.db.ExecContext(ctx, `DELETE FROM results WHERE task_id = ?`, taskID)
	if err != nil {
		return fmt.Errorf("could not delete result: %w", err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("could not get rows affected: %w", err)
	}
	if n == 0 {
		return fmt.Errorf("result %s: %w", taskID, model.ErrNotFound)
	}

	r.logger.Debugf("Deleted result of task %s", taskID)
	return nil
}

func toUnix(t *time.Time) *int64 {
	if t == nil {
		return nil
	}
	u := t.Unix()
	return &u
}

func fromUnix(v sql.NullInt64) *time.Time {
	if !v.Valid {
		return nil
	}
	t := time.Unix(v.Int64, 0).UTC()
	return &t
}
