package progress_test

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"vidscribe/internal/progress"
)

func TestClassify(t *testing.T) {
	tests := map[string]struct {
		message  string
		expStage progress.Stage
		expOK    bool
	}{
		"Empty message is unmatched": {
			message: "   ",
		},
		"Unknown message is unmatched": {
			message: "waiting in queue",
		},
		"English parsing": {
			message:  "Parsing video",
			expStage: progress.StageParsing,
			expOK:    true,
		},
		"English downloading is case insensitive": {
			message:  "DOWNLOADING audio",
			expStage: progress.StageDownloading,
			expOK:    true,
		},
		"English transcribing": {
			message:  "transcribing audio",
			expStage: progress.StageTranscribing,
			expOK:    true,
		},
		"English optimizing": {
			message:  "Optimizing transcript",
			expStage: progress.StageOptimizing,
			expOK:    true,
		},
		"English summary": {
			message:  "generating summary",
			expStage: progress.StageSummarizing,
			expOK:    true,
		},
		"English completed": {
			message:  "Completed!",
			expStage: progress.StageCompleted,
			expOK:    true,
		},
		"Chinese parsing": {
			message:  "正在解析媒体信息...",
			expStage: progress.StageParsing,
			expOK:    true,
		},
		"Chinese downloading": {
			message:  "正在下载视频...",
			expStage: progress.StageDownloading,
			expOK:    true,
		},
		"Chinese audio ready enters transcription": {
			message:  "音频准备完成，进入转录",
			expStage: progress.StageTranscribing,
			expOK:    true,
		},
		"Chinese transcribing": {
			message:  "正在转录音频...",
			expStage: progress.StageTranscribing,
			expOK:    true,
		},
		"Chinese optimizing transcript is not transcribing": {
			message:  "正在优化转录文本...",
			expStage: progress.StageOptimizing,
			expOK:    true,
		},
		"Chinese summarizing": {
			message:  "正在生成摘要...",
			expStage: progress.StageSummarizing,
			expOK:    true,
		},
		"Chinese completed": {
			message:  "处理完成！",
			expStage: progress.StageCompleted,
			expOK:    true,
		},
		"Earlier stage wins when several match": {
			message:  "download complete",
			expStage: progress.StageDownloading,
			expOK:    true,
		},
	}

	for name, test := range tests {
		t.Run(name, func(t *testing.T) {
			assert := assert.New(t)

			stage, ok := progress.Classify(test.message)
			assert.Equal(test.expOK, ok)
			assert.Equal(test.expStage, stage)
		})
	}
}

func TestTargetFor(t *testing.T) {
	tests := map[string]struct {
		stage         progress.Stage
		authoritative float64
		expTarget     float64
	}{
		"Below ceiling uses the ceiling": {
			stage:         progress.StageDownloading,
			authoritative: 20,
			expTarget:     60,
		},
		"At ceiling adds headroom": {
			stage:         progress.StageDownloading,
			authoritative: 60,
			expTarget:     70,
		},
		"Above ceiling adds headroom": {
			stage:         progress.StageTranscribing,
			authoritative: 85,
			expTarget:     95,
		},
		"Headroom is capped at 100": {
			stage:         progress.StageSummarizing,
			authoritative: 97,
			expTarget:     100,
		},
		"Unknown stage falls back to preparing ceiling": {
			stage:         progress.Stage("unknown"),
			authoritative: 5,
			expTarget:     15,
		},
	}

	for name, test := range tests {
		t.Run(name, func(t *testing.T) {
			assert.Equal(t, test.expTarget, progress.TargetFor(test.stage, test.authoritative))
		})
	}
}
