package printer

import (
	"io"

	"gopkg.in/yaml.v3"

	"vidscribe/internal/model"
)

// YAMLPrinter prints task information in YAML format.
type YAMLPrinter struct {
	writer io.Writer
}

// NewYAMLPrinter creates a new YAML printer.
func NewYAMLPrinter(w io.Writer) *YAMLPrinter {
	return &YAMLPrinter{writer: w}
}

func (y *YAMLPrinter) PrintTask(taskID string, rec model.TaskRecord) error {
	return y.encode(newTaskOutput(taskID, rec))
}

func (y *YAMLPrinter) PrintHistory(page model.HistoryPage) error { return y.encode(page) }

func (y *YAMLPrinter) PrintDetail(d model.HistoryDetail) error { return y.encode(d) }

func (y *YAMLPrinter) PrintActive(a model.ActiveTasks) error {
	return y.encode(struct {
		ActiveTasks    int      `yaml:"active_tasks"`
		ProcessingURLs int      `yaml:"processing_urls"`
		TaskIDs        []string `yaml:"task_ids"`
	}{a.ActiveTasks, a.ProcessingURLs, a.TaskIDs})
}

func (y *YAMLPrinter) PrintMessage(msg string) error {
	return y.encode(messageOutput{Message: msg})
}

func (y *YAMLPrinter) encode(v any) error {
	enc := yaml.NewEncoder(y.writer)
	enc.SetIndent(2)
	if err := enc.Encode(v); err != nil {
		return err
	}
	return enc.Close()
}
