package model

import (
	"strings"
	"time"
)

// TaskStatus is the normalized server-side state of a transcription task.
type TaskStatus string

const (
	TaskStatusRunning   TaskStatus = "running"
	TaskStatusCompleted TaskStatus = "completed"
	TaskStatusError     TaskStatus = "error"
)

// NormalizeStatus maps the raw status strings used by the backend
// (processing, pending, ...) onto the three client-side states.
func NormalizeStatus(raw TaskStatus) TaskStatus {
	switch TaskStatus(strings.ToLower(strings.TrimSpace(string(raw)))) {
	case TaskStatusCompleted:
		return TaskStatusCompleted
	case TaskStatusError, "failed":
		return TaskStatusError
	default:
		return TaskStatusRunning
	}
}

// Terminal reports whether no further updates follow this status.
func (s TaskStatus) Terminal() bool {
	return s == TaskStatusCompleted || s == TaskStatusError
}

// TaskRecord is a single status record as exchanged over the status stream
// and the snapshot endpoint. Result fields are only set on terminal records.
type TaskRecord struct {
	Type     string     `json:"type,omitempty"` // "heartbeat" for keepalive frames
	Status   TaskStatus `json:"status,omitempty"`
	Progress float64    `json:"progress"`
	Message  string     `json:"message,omitempty"`
	Error    string     `json:"error,omitempty"`
	URL      string     `json:"url,omitempty"`

	VideoTitle       string `json:"video_title,omitempty"`
	Script           string `json:"script,omitempty"`
	Translation      string `json:"translation,omitempty"`
	Summary          string `json:"summary,omitempty"`
	DetectedLanguage string `json:"detected_language,omitempty"`
	SummaryLanguage  string `json:"summary_language,omitempty"`
	HasTranslation   bool   `json:"has_translation,omitempty"`

	ScriptFilename      string `json:"script_filename,omitempty"`
	SummaryFilename     string `json:"summary_filename,omitempty"`
	TranslationFilename string `json:"translation_filename,omitempty"`
	RawScriptFile       string `json:"raw_script_file,omitempty"`

	CreatedAt  *time.Time `json:"created_at,omitempty"`
	FinishedAt *time.Time `json:"finished_at,omitempty"`
}

// Heartbeat reports whether the record is a keepalive frame without
// progress information.
func (r TaskRecord) Heartbeat() bool {
	return r.Type == "heartbeat" || (r.Status == "" && r.Message == "" && r.Progress == 0)
}

// ErrorText returns the most specific failure description carried by the
// record, empty when there is none.
func (r TaskRecord) ErrorText() string {
	if s := strings.TrimSpace(r.Error); s != "" {
		return s
	}
	return strings.TrimSpace(r.Message)
}

// Detail converts a completed record into a history detail for taskID.
func (r TaskRecord) Detail(taskID string) HistoryDetail {
	return HistoryDetail{
		HistoryItem: HistoryItem{
			TaskID:           taskID,
			URL:              r.URL,
			VideoTitle:       r.VideoTitle,
			CreatedAt:        r.CreatedAt,
			FinishedAt:       r.FinishedAt,
			DetectedLanguage: r.DetectedLanguage,
			SummaryLanguage:  r.SummaryLanguage,
			HasTranslation:   r.HasTranslation || r.Translation != "",
		},
		Script:              r.Script,
		Summary:             r.Summary,
		Translation:         r.Translation,
		RawScriptFile:       r.RawScriptFile,
		ScriptFilename:      r.ScriptFilename,
		SummaryFilename:     r.SummaryFilename,
		TranslationFilename: r.TranslationFilename,
	}
}

// SubmitResult is returned by the job submission endpoint.
type SubmitResult struct {
	TaskID  string `json:"task_id"`
	Message string `json:"message"`
}

// HistoryItem is the summary of a completed task.
type HistoryItem struct {
	TaskID           string     `json:"task_id" yaml:"task_id"`
	URL              string     `json:"url,omitempty" yaml:"url,omitempty"`
	VideoTitle       string     `json:"video_title,omitempty" yaml:"video_title,omitempty"`
	CreatedAt        *time.Time `json:"created_at,omitempty" yaml:"created_at,omitempty"`
	FinishedAt       *time.Time `json:"finished_at,omitempty" yaml:"finished_at,omitempty"`
	DetectedLanguage string     `json:"detected_language,omitempty" yaml:"detected_language,omitempty"`
	SummaryLanguage  string     `json:"summary_language,omitempty" yaml:"summary_language,omitempty"`
	HasTranslation   bool       `json:"has_translation" yaml:"has_translation"`
}

// HistoryPage is one page of the history list, newest first.
type HistoryPage struct {
	Page  int           `json:"page" yaml:"page"`
	Limit int           `json:"limit" yaml:"limit"`
	Total int           `json:"total" yaml:"total"`
	Items []HistoryItem `json:"items" yaml:"items"`
}

// HistoryDetail is the full result of a completed task.
type HistoryDetail struct {
	HistoryItem `yaml:",inline"`

	Script      string `json:"script,omitempty" yaml:"script,omitempty"`
	Summary     string `json:"summary,omitempty" yaml:"summary,omitempty"`
	Translation string `json:"translation,omitempty" yaml:"translation,omitempty"`

	RawScriptFile       string `json:"raw_script_file,omitempty" yaml:"raw_script_file,omitempty"`
	ScriptFilename      string `json:"script_filename,omitempty" yaml:"script_filename,omitempty"`
	SummaryFilename     string `json:"summary_filename,omitempty" yaml:"summary_filename,omitempty"`
	TranslationFilename string `json:"translation_filename,omitempty" yaml:"translation_filename,omitempty"`
}

// ActiveTasks is the backend's view of in-flight work.
type ActiveTasks struct {
	ActiveTasks    int      `json:"active_tasks"`
	ProcessingURLs int      `json:"processing_urls"`
	TaskIDs        []string `json:"task_ids"`
}

// OutputFormat selects how status and history data is printed.
type OutputFormat string

const (
	OutputTable OutputFormat = "table"
	OutputJSON  OutputFormat = "json"
	OutputYAML  OutputFormat = "yaml"
)

// CLIOptions holds user-configurable runtime options as resolved from flags,
// environment and config file.
type CLIOptions struct {
	ServerURL       string
	SummaryLanguage string // Target language for summary/translation, e.g. "zh", "en".
	OutDir          string // Where result markdown files are written; empty disables writing.
	Timeout         time.Duration
	Output          OutputFormat
	NoUI            bool
	NoCache         bool
	DBPath          string
	Verbose         bool
	Debug           bool
	LogFormat       string // text or json
}
