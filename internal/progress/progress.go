package progress

import "vidscribe/internal/model"

// Stage identifies a coarse phase of backend processing.
type Stage string

const (
	StagePreparing    Stage = "preparing"
	StageParsing      Stage = "parsing"
	StageDownloading  Stage = "downloading"
	StageTranscribing Stage = "transcribing"
	StageOptimizing   Stage = "optimizing"
	StageSummarizing  Stage = "summarizing"
	StageCompleted    Stage = "completed"
	// StageError is only used by renderers to flag a failed task.
	StageError Stage = "error"
)

// Update conveys the displayed progress of a task.
// Percent is the simulator-smoothed value, already rounded to one decimal.
type Update struct {
	TaskID  string
	Stage   Stage
	Percent float64
	Target  float64
	Message string // raw server message of the last authoritative event
	// Authoritative is true when the update was caused by a server event
	// rather than a simulator tick.
	Authoritative bool
}

// Result is emitted once per task when it completes, fails or the status
// stream is lost.
type Result struct {
	TaskID  string
	Percent float64
	Record  *model.TaskRecord // last known full record, nil if none arrived
	Files   []string          // result documents written locally
	Err     error             // nil on success
}

// Reporter is implemented by UI or any observer interested in progress events.
type Reporter interface {
	Update(u Update)
	Result(r Result)
}

// NoopReporter discards all events.
type NoopReporter struct{}

func (NoopReporter) Update(Update) {}
func (NoopReporter) Result(Result) {}
