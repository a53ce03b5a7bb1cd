package storage_test

import (
	"context"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"vidscribe/internal/log"
	"vidscribe/internal/model"
	"vidscribe/internal/storage"
	"vidscribe/internal/storage/memory"
	"vidscribe/internal/storage/sqlite"
)

var base = time.Date(2024, 5, 1, 10, 0, 0, 0, time.UTC)

func resultFixture(id string, finishedMinutes int) model.HistoryDetail {
	created := base
	finished := base.Add(time.Duration(finishedMinutes) * time.Minute)
	return model.HistoryDetail{
		HistoryItem: model.HistoryItem{
			TaskID:           id,
			URL:              "https://www.youtube.com/watch?v=" + id,
			VideoTitle:       "Title " + id,
			CreatedAt:        &created,
			FinishedAt:       &finished,
			DetectedLanguage: "en",
			SummaryLanguage:  "zh",
			HasTranslation:   true,
		},
		Script:              "# script",
		Summary:             "# summary",
		Translation:         "# translation",
		ScriptFilename:      "transcript_" + id + ".md",
		SummaryFilename:     "summary_" + id + ".md",
		TranslationFilename: "translation_" + id + ".md",
	}
}

func repositories(t *testing.T) map[string]storage.Repository {
	t.Helper()
	now := func() time.Time { return base }

	sq, err := sqlite.NewRepository(context.Background(), sqlite.RepositoryConfig{
		DBPath: filepath.Join(t.TempDir(), "nested", "history.db"),
		Logger: log.Noop,
		Now:    now,
	})
	require.NoError(t, err)
	t.Cleanup(func() { _ = sq.Close() })

	mem, err := memory.NewRepository(memory.RepositoryConfig{Now: now})
	require.NoError(t, err)

	return map[string]storage.Repository{"sqlite": sq, "memory": mem}
}

func TestRepositorySaveGet(t *testing.T) {
	for name, repo := range repositories(t) {
		t.Run(name, func(t *testing.T) {
			ctx := context.Background()
			r := resultFixture("t1", 5)

			require.NoError(t, repo.SaveResult(ctx, r))
			got, err := repo.GetResult(ctx, "t1")
			require.NoError(t, err)
			assert.Equal(t, r, *got)

			r.Summary = "# updated"
			r.FinishedAt = nil
			require.NoError(t, repo.SaveResult(ctx, r))
			got, err = repo.GetResult(ctx, "t1")
			require.NoError(t, err)
			assert.Equal(t, "# updated", got.Summary)
			assert.Nil(t, got.FinishedAt)

			_, err = repo.GetResult(ctx, "missing")
			assert.ErrorIs(t, err, model.ErrNotFound)

			err = repo.SaveResult(ctx, model.HistoryDetail{})
			assert.ErrorIs(t, err, model.ErrNotValid)
		})
	}
}

func TestRepositoryList(t *testing.T) {
	for name, repo := range repositories(t) {
		t.Run(name, func(t *testing.T) {
			ctx := context.Background()
			for i, id := range []string{"a", "b", "c", "d", "e"} {
				require.NoError(t, repo.SaveResult(ctx, resultFixture(id, i)))
			}

			page, err := repo.ListResults(ctx, 1, 2)
			require.NoError(t, err)
			assert.Equal(t, 5, page.Total)
			assert.Equal(t, []string{"e", "d"}, ids(page))

			page, err = repo.ListResults(ctx, 3, 2)
			require.NoError(t, err)
			assert.Equal(t, []string{"a"}, ids(page))

			page, err = repo.ListResults(ctx, 4, 2)
			require.NoError(t, err)
			assert.Empty(t, page.Items)
			assert.NotNil(t, page.Items)

			_, err = repo.ListResults(ctx, 0, 2)
			assert.ErrorIs(t, err, model.ErrNotValid)
		})
	}
}

func TestRepositoryDelete(t *testing.T) {
	for name, repo := range repositories(t) {
		t.Run(name, func(t *testing.T) {
			ctx := context.Background()
			require.NoError(t, repo.SaveResult(ctx, resultFixture("t1", 0)))

			require.NoError(t, repo.DeleteResult(ctx, "t1"))
			_, err := repo.GetResult(ctx, "t1")
			assert.ErrorIs(t, err, model.ErrNotFound)

			err = repo.DeleteResult(ctx, "t1")
			assert.ErrorIs(t, err, model.ErrNotFound)
		})
	}
}

func ids(p *model.HistoryPage) []string {
	var out []string
	for _, it := range p.Items {
		out = append(out, it.TaskID)
	}
	return out
}
