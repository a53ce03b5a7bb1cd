package progress

import (
	"math"
	"strings"
)

type stageRule struct {
	stage    Stage
	keywords []string
}

// stageRules is evaluated in order; the first rule with a matching keyword
// wins. More specific stages come first so that a later general keyword
// cannot override them.
//
// The Chinese transcribing keywords are narrower than "转录" because the
// backend's optimizing message ("正在优化转录文本") also contains it.
var stageRules = []stageRule{
	{stage: StageParsing, keywords: []string{"parse", "parsing", "解析"}},
	{stage: StageDownloading, keywords: []string{"download", "下载"}},
	{stage: StageTranscribing, keywords: []string{"transcrib", "转录音频", "进入转录"}},
	{stage: StageOptimizing, keywords: []string{"optimiz", "优化"}},
	{stage: StageSummarizing, keywords: []string{"summary", "summariz", "摘要", "总结"}},
	{stage: StageCompleted, keywords: []string{"complete", "完成"}},
}

var stageCeilings = map[Stage]float64{
	StagePreparing:    15,
	StageParsing:      60,
	StageDownloading:  60,
	StageTranscribing: 80,
	StageOptimizing:   90,
	StageSummarizing:  95,
	StageCompleted:    100,
}

// Classify maps a raw server status message to a stage. It returns false
// when no keyword matches; callers keep their current stage in that case.
func Classify(message string) (Stage, bool) {
	msg := strings.ToLower(message)
	if strings.TrimSpace(msg) == "" {
		return "", false
	}
	for _, r := range stageRules {
		for _, kw := range r.keywords {
			if strings.Contains(msg, kw) {
				return r.stage, true
			}
		}
	}
	return "", false
}

// Ceiling returns the target progress ceiling of a stage.
func Ceiling(s Stage) float64 {
	if c, ok := stageCeilings[s]; ok {
		return c
	}
	return stageCeilings[StagePreparing]
}

// TargetFor returns the simulator target for a stage given the last
// authoritative value. The target always leaves headroom above the last
// known truth.
func TargetFor(s Stage, authoritative float64) float64 {
	target := Ceiling(s)
	if authoritative >= target {
		target = math.Min(authoritative+10, 100)
	}
	return target
}
