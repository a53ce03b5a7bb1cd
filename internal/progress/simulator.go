package progress

import (
	"math"
	"time"
)

// TickInterval is the fixed cadence of the simulator.
const TickInterval = 500 * time.Millisecond

const (
	syntheticTargetInit = 15.0
	nearCeilingDistance = 5.0
	nearCeilingFactor   = 0.3
	slowStageFactor     = 1.5
)

type stageSpeed struct {
	perTick     float64
	expectedMax time.Duration
}

// stageSpeeds holds the per-tick increment and the expected duration of
// each stage.
var stageSpeeds = map[Stage]stageSpeed{
	StagePreparing:    {perTick: 0.5, expectedMax: 10 * time.Second},
	StageParsing:      {perTick: 0.4, expectedMax: 30 * time.Second},
	StageDownloading:  {perTick: 0.2, expectedMax: 120 * time.Second},
	StageTranscribing: {perTick: 0.1, expectedMax: 180 * time.Second},
	StageOptimizing:   {perTick: 0.15, expectedMax: 90 * time.Second},
	StageSummarizing:  {perTick: 0.2, expectedMax: 60 * time.Second},
	StageCompleted:    {perTick: 0, expectedMax: 0},
}

// State is the progress state of one task.
type State struct {
	Displayed         float64
	Target            float64
	LastAuthoritative float64
	Stage             Stage
	StartedAt         time.Time
	SimulationActive  bool
}

// Simulator advances a displayed progress value toward a target ceiling
// between sparse authoritative updates.
//
// A Simulator is not safe for concurrent use: it is owned by a single event
// loop which selects on Ticks() and calls Advance for every tick.
type Simulator struct {
	clock    Clock
	interval time.Duration
	state    State
	ticker   Ticker
}

// NewSimulator returns a stopped simulator. A nil clock uses SystemClock.
func NewSimulator(clock Clock) *Simulator {
	if clock == nil {
		clock = SystemClock
	}
	s := &Simulator{clock: clock, interval: TickInterval}
	s.state.Stage = StagePreparing
	return s
}

// Initialize resets the state for a new task and records its start time.
func (s *Simulator) Initialize() {
	s.Stop()
	s.state = State{
		Displayed: 0,
		Target:    syntheticTargetInit,
		Stage:     StagePreparing,
		StartedAt: s.clock.Now(),
	}
}

// OnAuthoritative applies a server-confirmed progress value and message.
// It is the only path by which the displayed value can jump.
func (s *Simulator) OnAuthoritative(value float64, message string) {
	s.Stop()

	value = clamp(value, 0, 100)
	s.state.LastAuthoritative = value
	if value > s.state.Displayed {
		s.state.Displayed = value
	}
	if stage, ok := Classify(message); ok {
		s.state.Stage = stage
	}

	target := TargetFor(s.state.Stage, value)
	if target < s.state.Displayed {
		target = s.state.Displayed
	}
	s.state.Target = clamp(target, 0, 100)

	s.Start()
}

// Start begins periodic ticking. Calling Start on a running simulator is a no-op.
func (s *Simulator) Start() {
	if s.state.SimulationActive {
		return
	}
	s.ticker = s.clock.NewTicker(s.interval)
	s.state.SimulationActive = true
}

// Stop cancels periodic ticking. Calling Stop on a stopped simulator is a no-op.
func (s *Simulator) Stop() {
	if s.ticker != nil {
		s.ticker.Stop()
		s.ticker = nil
	}
	s.state.SimulationActive = false
}

// Ticks returns the channel of the live ticker, or nil when stopped.
func (s *Simulator) Ticks() <-chan time.Time {
	if s.ticker == nil {
		return nil
	}
	return s.ticker.C()
}

// Advance runs one simulation step and reports whether the rounded displayed
// value changed. A simulator parked at its target does not move until the
// next authoritative update.
func (s *Simulator) Advance() bool {
	if s.state.Displayed >= s.state.Target {
		return false
	}

	speed, ok := stageSpeeds[s.state.Stage]
	if !ok || speed.perTick <= 0 {
		return false
	}

	inc := speed.perTick
	if s.clock.Now().Sub(s.state.StartedAt) > speed.expectedMax {
		inc *= slowStageFactor
	}
	if s.state.Target-s.state.Displayed < nearCeilingDistance {
		inc *= nearCeilingFactor
	}

	before := Round(s.state.Displayed)
	s.state.Displayed = math.Min(s.state.Displayed+inc, s.state.Target)
	return Round(s.state.Displayed) != before
}

// Displayed returns the displayed value rounded to one decimal place.
func (s *Simulator) Displayed() float64 {
	return Round(s.state.Displayed)
}

// State returns a copy of the current state.
func (s *Simulator) State() State {
	return s.state
}

// Round rounds a progress value to one decimal place.
func Round(v float64) float64 {
	return math.Round(v*10) / 10
}

func clamp(v, lo, hi float64) float64 {
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}
