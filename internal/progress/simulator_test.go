package progress_test

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"vidscribe/internal/progress"
	"vidscribe/internal/progress/progresstest"
)

var t0 = time.Date(2024, 5, 1, 10, 0, 0, 0, time.UTC)

func newSim() (*progress.Simulator, *progresstest.ManualClock) {
	clock := progresstest.NewManualClock(t0)
	sim := progress.NewSimulator(clock)
	sim.Initialize()
	return sim, clock
}

func TestSimulatorInitialize(t *testing.T) {
	sim, _ := newSim()

	st := sim.State()
	assert.Equal(t, 0.0, st.Displayed)
	assert.Equal(t, 15.0, st.Target)
	assert.Equal(t, progress.StagePreparing, st.Stage)
	assert.Equal(t, t0, st.StartedAt)
	assert.False(t, st.SimulationActive)
	assert.Nil(t, sim.Ticks())
}

func TestSimulatorOnAuthoritative(t *testing.T) {
	type update struct {
		value   float64
		message string
	}

	tests := map[string]struct {
		updates      []update
		expDisplayed float64
		expTarget    float64
		expStage     progress.Stage
	}{
		"Parsing jumps to the value and targets the stage ceiling": {
			updates:      []update{{10, "parsing video"}},
			expDisplayed: 10,
			expTarget:    60,
			expStage:     progress.StageParsing,
		},
		"Transcribing after parsing": {
			updates:      []update{{10, "parsing video"}, {55, "transcribing audio"}},
			expDisplayed: 55,
			expTarget:    80,
			expStage:     progress.StageTranscribing,
		},
		"No stale low ceiling after a later stage": {
			updates:      []update{{60, "downloading"}, {90, "optimizing"}},
			expDisplayed: 90,
			expTarget:    100,
			expStage:     progress.StageOptimizing,
		},
		"Unmatched message keeps the previous stage": {
			updates:      []update{{40, "transcribing audio"}, {45, "still working"}},
			expDisplayed: 45,
			expTarget:    80,
			expStage:     progress.StageTranscribing,
		},
		"Lower value does not move displayed backwards": {
			updates:      []update{{20, "downloading"}, {0, "downloading"}},
			expDisplayed: 20,
			expTarget:    60,
			expStage:     progress.StageDownloading,
		},
		"Out of range value is clamped": {
			updates:      []update{{140, "处理完成！"}},
			expDisplayed: 100,
			expTarget:    100,
			expStage:     progress.StageCompleted,
		},
	}

	for name, test := range tests {
		t.Run(name, func(t *testing.T) {
			assert := assert.New(t)
			sim, _ := newSim()

			for _, u := range test.updates {
				sim.OnAuthoritative(u.value, u.message)
			}

			st := sim.State()
			assert.Equal(test.expDisplayed, sim.Displayed())
			assert.Equal(test.expTarget, st.Target)
			assert.Equal(test.expStage, st.Stage)
			assert.True(st.SimulationActive)
		})
	}
}

func TestSimulatorApproachesCeilingWithoutExceedingIt(t *testing.T) {
	sim, clock := newSim()
	sim.OnAuthoritative(20, "downloading...")

	prev := sim.State().Displayed
	for i := 0; i < 2000; i++ {
		clock.Tick()
		sim.Advance()
		st := sim.State()
		require.GreaterOrEqual(t, st.Displayed, prev)
		require.LessOrEqual(t, st.Displayed, 60.0)
		prev = st.Displayed
	}

	assert.Equal(t, 60.0, sim.Displayed())
	assert.False(t, sim.Advance(), "a parked simulator should not move")
	assert.Equal(t, 60.0, sim.Displayed())
}

func TestSimulatorMonotonicUnderNonDecreasingUpdates(t *testing.T) {
	sim, clock := newSim()
	updates := []struct {
		value   float64
		message string
	}{
		{5, "preparing"},
		{10, "正在下载视频..."},
		{15, "正在解析媒体信息..."},
		{35, "音频准备完成，进入转录"},
		{40, "正在转录音频..."},
		{40, "heartbeat-less status"},
		{55, "正在优化转录文本..."},
		{80, "正在生成摘要..."},
		{100, "处理完成！"},
	}

	prev := 0.0
	for _, u := range updates {
		sim.OnAuthoritative(u.value, u.message)
		require.GreaterOrEqual(t, sim.Displayed(), prev)
		prev = sim.Displayed()

		for i := 0; i < 150; i++ {
			clock.Tick()
			sim.Advance()
			st := sim.State()
			require.GreaterOrEqual(t, sim.Displayed(), prev)
			require.LessOrEqual(t, st.Displayed, st.Target)
			require.LessOrEqual(t, st.Target, 100.0)
			prev = sim.Displayed()
		}
	}
	assert.Equal(t, 100.0, sim.Displayed())
}

func TestSimulatorAdvanceSpeed(t *testing.T) {
	tests := map[string]struct {
		setup        func(sim *progress.Simulator, clock *progresstest.ManualClock)
		expDisplayed float64
	}{
		"Preparing base speed": {
			setup:        func(*progress.Simulator, *progresstest.ManualClock) {},
			expDisplayed: 0.5,
		},
		"Slow stage catches up after its expected duration": {
			setup: func(_ *progress.Simulator, clock *progresstest.ManualClock) {
				clock.Advance(11 * time.Second)
			},
			expDisplayed: 0.75,
		},
		"Near the target the speed drops": {
			setup: func(sim *progress.Simulator, _ *progresstest.ManualClock) {
				sim.OnAuthoritative(57, "downloading")
			},
			expDisplayed: 57.06,
		},
		"Completed stage does not move": {
			setup: func(sim *progress.Simulator, _ *progresstest.ManualClock) {
				sim.OnAuthoritative(100, "completed")
			},
			expDisplayed: 100,
		},
	}

	for name, test := range tests {
		t.Run(name, func(t *testing.T) {
			sim, clock := newSim()
			test.setup(sim, clock)

			sim.Advance()
			assert.InDelta(t, test.expDisplayed, sim.State().Displayed, 0.0001)
		})
	}
}

func TestSimulatorStartStopIdempotent(t *testing.T) {
	assert := assert.New(t)
	sim, clock := newSim()

	sim.Start()
	sim.Start()
	assert.Equal(1, clock.Created())
	assert.Equal(1, clock.Live())
	assert.NotNil(sim.Ticks())

	sim.Stop()
	sim.Stop()
	assert.Equal(0, clock.Live())
	assert.Nil(sim.Ticks())
	assert.False(sim.State().SimulationActive)

	// An authoritative update replaces the ticker instead of stacking one.
	sim.OnAuthoritative(10, "parsing")
	sim.OnAuthoritative(20, "downloading")
	assert.Equal(1, clock.Live())
}

func TestDisplayedIsRounded(t *testing.T) {
	sim, _ := newSim()
	sim.OnAuthoritative(57, "downloading")
	sim.Advance()

	assert.Equal(t, 57.1, sim.Displayed())
}
