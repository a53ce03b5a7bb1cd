package api_test

import (
	"bytes"
	"context"
	"io"
	"net/http"
	"net/http/httptest"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"vidscribe/internal/api"
	"vidscribe/internal/model"
)

func newTestClient(t *testing.T, h http.HandlerFunc) *api.Client {
	t.Helper()
	srv := httptest.NewServer(h)
	t.Cleanup(srv.Close)

	c, err := api.NewClient(api.ClientConfig{BaseURL: srv.URL + "/"})
	require.NoError(t, err)
	return c
}

func TestSubmit(t *testing.T) {
	tests := map[string]struct {
		handler   http.HandlerFunc
		expResult *model.SubmitResult
		expErr    bool
		expDetail string
	}{
		"Job is created": {
			handler: func(w http.ResponseWriter, r *http.Request) {
				_ = r.ParseForm()
				if r.Method != http.MethodPost || r.URL.Path != "/api/process-video" ||
					r.PostForm.Get("url") != "https://youtu.be/x" || r.PostForm.Get("summary_language") != "en" ||
					r.Header.Get("X-Request-ID") == "" {
					w.WriteHeader(http.StatusTeapot)
					return
				}
				_, _ = io.WriteString(w, `{"task_id":"abc","message":"任务已创建，正在处理中..."}`)
			},
			expResult: &model.SubmitResult{TaskID: "abc", Message: "任务已创建，正在处理中..."},
		},
		"Server detail is kept": {
			handler: func(w http.ResponseWriter, r *http.Request) {
				w.WriteHeader(http.StatusBadRequest)
				_, _ = io.WriteString(w, `{"detail":"不支持的链接"}`)
			},
			expErr:    true,
			expDetail: "不支持的链接",
		},
		"Non JSON error body is kept": {
			handler: func(w http.ResponseWriter, r *http.Request) {
				http.Error(w, "bad gateway", http.StatusBadGateway)
			},
			expErr:    true,
			expDetail: "bad gateway",
		},
		"Missing task id is an error": {
			handler: func(w http.ResponseWriter, r *http.Request) {
				_, _ = io.WriteString(w, `{"message":"ok"}`)
			},
			expErr: true,
		},
	}

	for name, test := range tests {
		t.Run(name, func(t *testing.T) {
			c := newTestClient(t, test.handler)

			res, err := c.Submit(context.Background(), "https://youtu.be/x", "en")
			if test.expErr {
				require.Error(t, err)
				assert.Equal(t, test.expDetail, api.DetailOf(err))
				return
			}
			require.NoError(t, err)
			assert.Equal(t, test.expResult, res)
		})
	}
}

func TestTaskStatusNotFound(t *testing.T) {
	c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusNotFound)
		_, _ = io.WriteString(w, `{"detail":"任务不存在"}`)
	})

	_, err := c.TaskStatus(context.Background(), "nope")
	assert.ErrorIs(t, err, model.ErrNotFound)
	assert.Equal(t, "任务不存在", api.DetailOf(err))
}

func TestOpenStream(t *testing.T) {
	c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/api/task-stream/abc" || r.Header.Get("Accept") != "text/event-stream" {
			w.WriteHeader(http.StatusNotFound)
			return
		}
		w.Header().Set("Content-Type", "text/event-stream")
		_, _ = io.WriteString(w, "data: {\"status\":\"completed\",\"progress\":100}\n\n")
	})

	body, err := c.OpenStream(context.Background(), "abc")
	require.NoError(t, err)
	defer body.Close()

	data, err := io.ReadAll(body)
	require.NoError(t, err)
	assert.Equal(t, "data: {\"status\":\"completed\",\"progress\":100}\n\n", string(data))

	_, err = c.OpenStream(context.Background(), "missing")
	assert.ErrorIs(t, err, model.ErrNotFound)
}

func TestListHistory(t *testing.T) {
	c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "2", r.URL.Query().Get("page"))
		assert.Equal(t, "5", r.URL.Query().Get("limit"))
		_, _ = io.WriteString(w, `{"page":2,"limit":5,"total":6,"items":[{"task_id":"t6","video_title":"Six","has_translation":true}]}`)
	})

	page, err := c.ListHistory(context.Background(), 2, 5)
	require.NoError(t, err)
	assert.Equal(t, 6, page.Total)
	require.Len(t, page.Items, 1)
	assert.Equal(t, "t6", page.Items[0].TaskID)
	assert.True(t, page.Items[0].HasTranslation)

	_, err = c.ListHistory(context.Background(), 1, 101)
	assert.ErrorIs(t, err, model.ErrNotValid)
	_, err = c.ListHistory(context.Background(), 0, 10)
	assert.ErrorIs(t, err, model.ErrNotValid)
}

func TestDeleteAndCancel(t *testing.T) {
	var (
		mu    sync.Mutex
		calls []string
	)
	c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		mu.Lock()
		calls = append(calls, r.Method+" "+r.URL.Path)
		mu.Unlock()
		_, _ = io.WriteString(w, `{"message":"ok"}`)
	})

	require.NoError(t, c.DeleteHistory(context.Background(), "t1"))
	require.NoError(t, c.CancelTask(context.Background(), "t2"))
	mu.Lock()
	defer mu.Unlock()
	assert.Equal(t, []string{"DELETE /api/history/t1", "DELETE /api/task/t2"}, calls)
}

func TestDownload(t *testing.T) {
	c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/api/download/summary_title_abc.md" {
			w.WriteHeader(http.StatusNotFound)
			_, _ = io.WriteString(w, `{"detail":"文件不存在"}`)
			return
		}
		_, _ = io.WriteString(w, "# Summary\n")
	})

	tests := map[string]struct {
		filename string
		expBody  string
		expErr   error
	}{
		"Markdown file is downloaded": {
			filename: "summary_title_abc.md",
			expBody:  "# Summary\n",
		},
		"Missing file": {
			filename: "summary_other.md",
			expErr:   model.ErrNotFound,
		},
		"Non markdown is rejected locally": {
			filename: "notes.txt",
			expErr:   model.ErrNotValid,
		},
		"Path traversal is rejected locally": {
			filename: "..secret.md",
			expErr:   model.ErrNotValid,
		},
		"Separators are rejected locally": {
			filename: `a\b.md`,
			expErr:   model.ErrNotValid,
		},
	}

	for name, test := range tests {
		t.Run(name, func(t *testing.T) {
			var buf bytes.Buffer
			n, err := c.Download(context.Background(), test.filename, &buf)
			if test.expErr != nil {
				assert.ErrorIs(t, err, test.expErr)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, int64(len(test.expBody)), n)
			assert.Equal(t, test.expBody, buf.String())
		})
	}
}

func TestActiveTasks(t *testing.T) {
	c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		_, _ = io.WriteString(w, `{"active_tasks":2,"processing_urls":1,"task_ids":["a","b"]}`)
	})

	res, err := c.ActiveTasks(context.Background())
	require.NoError(t, err)
	assert.Equal(t, &model.ActiveTasks{ActiveTasks: 2, ProcessingURLs: 1, TaskIDs: []string{"a", "b"}}, res)
}

func TestNewClientInvalidURL(t *testing.T) {
	_, err := api.NewClient(api.ClientConfig{BaseURL: "localhost"})
	assert.ErrorIs(t, err, model.ErrNotValid)
}
