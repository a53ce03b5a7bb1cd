package printer

import (
	"encoding/json"
	"io"

	"vidscribe/internal/model"
)

// JSONPrinter prints task information in JSON format.
type JSONPrinter struct {
	writer io.Writer
}

// NewJSONPrinter creates a new JSON printer.
func NewJSONPrinter(w io.Writer) *JSONPrinter {
	return &JSONPrinter{writer: w}
}

func (j *JSONPrinter) PrintTask(taskID string, rec model.TaskRecord) error {
	return j.encode(newTaskOutput(taskID, rec))
}

func (j *JSONPrinter) PrintHistory(page model.HistoryPage) error {
	if page.Items == nil {
		page.Items = []model.HistoryItem{}
	}
	return j.encode(page)
}

func (j *JSONPrinter) PrintDetail(d model.HistoryDetail) error { return j.encode(d) }

func (j *JSONPrinter) PrintActive(a model.ActiveTasks) error { return j.encode(a) }

func (j *JSONPrinter) PrintMessage(msg string) error {
	return j.encode(messageOutput{Message: msg})
}

func (j *JSONPrinter) encode(v any) error {
	enc := json.NewEncoder(j.writer)
	enc.SetIndent("", "  ")
	enc.SetEscapeHTML(false)
	return enc.Encode(v)
}
