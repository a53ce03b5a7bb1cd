// Package printer renders task and history data for the non-interactive
// commands.
package printer

import (
	"fmt"
	"io"

	"vidscribe/internal/model"
)

// Printer knows how to print task information in different formats.
type Printer interface {
	PrintTask(taskID string, rec model.TaskRecord) error
	PrintHistory(page model.HistoryPage) error
	PrintDetail(d model.HistoryDetail) error
	PrintActive(a model.ActiveTasks) error
	PrintMessage(msg string) error
}

// New returns the printer of the requested format.
func New(f model.OutputFormat, w io.Writer) (Printer, error) {
	switch f {
	case model.OutputTable, "":
		return NewTablePrinter(w), nil
	case model.OutputJSON:
		return NewJSONPrinter(w), nil
	case model.OutputYAML:
		return NewYAMLPrinter(w), nil
	default:
		return nil, fmt.Errorf("unknown output format %q: %w", f, model.ErrNotValid)
	}
}

// taskOutput is the structured view of a status snapshot.
type taskOutput struct {
	TaskID     string  `json:"task_id" yaml:"task_id"`
	Status     string  `json:"status" yaml:"status"`
	Progress   float64 `json:"progress" yaml:"progress"`
	Message    string  `json:"message,omitempty" yaml:"message,omitempty"`
	Error      string  `json:"error,omitempty" yaml:"error,omitempty"`
	URL        string  `json:"url,omitempty" yaml:"url,omitempty"`
	VideoTitle string  `json:"video_title,omitempty" yaml:"video_title,omitempty"`
}

func newTaskOutput(taskID string, rec model.TaskRecord) taskOutput {
	return taskOutput{
		TaskID:     taskID,
		Status:     string(model.NormalizeStatus(rec.Status)),
		Progress:   rec.Progress,
		Message:    rec.Message,
		Error:      rec.Error,
		URL:        rec.URL,
		VideoTitle: rec.VideoTitle,
	}
}

type messageOutput struct {
	Message string `json:"message" yaml:"message"`
}
