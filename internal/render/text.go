// Package render prints session progress as plain text lines, for pipes,
// logs and terminals started with --no-ui.
package render

import (
	"errors"
	"fmt"
	"io"
	"math"
	"path/filepath"
	"sync"
	"time"

	"vidscribe/internal/i18n"
	"vidscribe/internal/model"
	"vidscribe/internal/progress"
	"vidscribe/internal/util/format"
)

// TextReporter is a progress.Reporter writing one line per visible change:
// a new stage or a new whole percent.
type TextReporter struct {
	mu      sync.Mutex
	w       io.Writer
	cat     *i18n.Catalog
	now     func() time.Time
	started time.Time

	lastStage   progress.Stage
	lastPercent int
}

// NewTextReporter returns a reporter writing to w in the catalog language.
func NewTextReporter(w io.Writer, cat *i18n.Catalog) *TextReporter {
	return &TextReporter{w: w, cat: cat, now: time.Now, lastPercent: -1}
}

func (r *TextReporter) Update(u progress.Update) {
	r.mu.Lock()
	defer r.mu.Unlock()

	if r.started.IsZero() {
		r.started = r.now()
	}
	pct := int(math.Floor(u.Percent))
	if u.Stage == r.lastStage && pct == r.lastPercent {
		return
	}
	r.lastStage, r.lastPercent = u.Stage, pct

	fmt.Fprintf(r.w, "[%3d%%] %s\n", pct, r.cat.Stage(u.Stage))
}

func (r *TextReporter) Result(res progress.Result) {
	r.mu.Lock()
	defer r.mu.Unlock()

	elapsed := ""
	if !r.started.IsZero() {
		elapsed = " (" + format.Elapsed(r.now().Sub(r.started)) + ")"
	}

	switch {
	case res.Err == nil:
		title := res.TaskID
		if res.Record != nil && res.Record.VideoTitle != "" {
			title = res.Record.VideoTitle
		}
		fmt.Fprintf(r.w, "[100%%] %s%s\n", r.cat.T(i18n.KeyCompleted, title), elapsed)
		for _, f := range res.Files {
			fmt.Fprintf(r.w, "       %s\n", r.cat.T(i18n.KeySavedFile, filepath.Base(f)))
		}
	case errors.Is(res.Err, model.ErrTask):
		fmt.Fprintf(r.w, "[%3d%%] %s\n", int(res.Percent), r.cat.T(i18n.KeyFailed, taskMessage(res)))
	case errors.Is(res.Err, model.ErrStream):
		fmt.Fprintf(r.w, "[%3d%%] %s\n", int(res.Percent), r.cat.T(i18n.KeyStreamLost, format.Percent(res.Percent), res.TaskID))
	default:
		fmt.Fprintf(r.w, "[%3d%%] %s\n", int(res.Percent), r.cat.T(i18n.KeyCancelled))
	}

	r.started = time.Time{}
	r.lastStage, r.lastPercent = "", -1
}

// taskMessage is the server's failure text, verbatim.
func taskMessage(res progress.Result) string {
	if res.Record != nil {
		if msg := res.Record.ErrorText(); msg != "" {
			return msg
		}
	}
	return res.Err.Error()
}
