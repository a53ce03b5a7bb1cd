package ui

import (
	bubblesprogress "github.com/charmbracelet/bubbles/progress"

	"vidscribe/internal/progress"
	"vidscribe/internal/session"
)

// taskState is what the model knows about one submitted URL.
type taskState struct {
	url    string
	taskID string
	title  string
	stage  progress.Stage
	err    error
	done   bool

	files   []string
	percent float64

	bar bubblesprogress.Model
}

func newTaskState(url string) *taskState {
	return &taskState{
		url:   url,
		stage: progress.StagePreparing,
		bar: bubblesprogress.New(
			bubblesprogress.WithDefaultGradient(),
			bubblesprogress.WithWidth(40),
		),
	}
}

func (t *taskState) apply(u progress.Update) {
	if u.TaskID != "" {
		t.taskID = u.TaskID
	}
	t.stage = u.Stage
	t.percent = u.Percent
}

func (t *taskState) finish(r progress.Result) {
	t.done = true
	t.err = r.Err
	t.files = r.Files
	t.percent = r.Percent
	if r.TaskID != "" {
		t.taskID = r.TaskID
	}
	if r.Record != nil {
		t.title = r.Record.VideoTitle
	}

	switch {
	case r.Err == nil:
		t.stage = progress.StageCompleted
		t.percent = 100
	case session.IsTransient(r.Err):
		// The task may still be running; keep the last known stage.
	default:
		t.stage = progress.StageError
	}
}

func (t *taskState) name() string {
	if t.title != "" {
		return t.title
	}
	return t.url
}

// Outcome is the end state of one URL processed in the TUI.
type Outcome struct {
	URL    string
	TaskID string
	Title  string
	Files  []string
	Err    error
}

func (t *taskState) outcome() Outcome {
	return Outcome{URL: t.url, TaskID: t.taskID, Title: t.title, Files: t.files, Err: t.err}
}
