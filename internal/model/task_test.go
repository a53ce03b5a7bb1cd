package model_test

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"vidscribe/internal/model"
)

func TestNormalizeStatus(t *testing.T) {
	tests := map[string]struct {
		raw    model.TaskStatus
		exp    model.TaskStatus
		expEnd bool
	}{
		"processing is running":  {raw: "processing", exp: model.TaskStatusRunning},
		"pending is running":     {raw: "pending", exp: model.TaskStatusRunning},
		"empty is running":       {raw: "", exp: model.TaskStatusRunning},
		"completed is terminal":  {raw: "completed", exp: model.TaskStatusCompleted, expEnd: true},
		"upper case is accepted": {raw: " Completed ", exp: model.TaskStatusCompleted, expEnd: true},
		"error is terminal":      {raw: "error", exp: model.TaskStatusError, expEnd: true},
		"failed maps to error":   {raw: "failed", exp: model.TaskStatusError, expEnd: true},
	}

	for name, test := range tests {
		t.Run(name, func(t *testing.T) {
			got := model.NormalizeStatus(test.raw)
			assert.Equal(t, test.exp, got)
			assert.Equal(t, test.expEnd, got.Terminal())
		})
	}
}

func TestTaskRecordHeartbeat(t *testing.T) {
	assert.True(t, model.TaskRecord{Type: "heartbeat"}.Heartbeat())
	assert.True(t, model.TaskRecord{}.Heartbeat())
	assert.False(t, model.TaskRecord{Status: "processing", Progress: 0, Message: "开始处理视频..."}.Heartbeat())
}

func TestTaskRecordErrorText(t *testing.T) {
	assert.Equal(t, "boom", model.TaskRecord{Error: " boom ", Message: "处理失败: boom"}.ErrorText())
	assert.Equal(t, "处理失败", model.TaskRecord{Message: "处理失败"}.ErrorText())
	assert.Equal(t, "", model.TaskRecord{}.ErrorText())
}

func TestTaskRecordDetail(t *testing.T) {
	r := model.TaskRecord{
		Status:      model.TaskStatusCompleted,
		VideoTitle:  "Talk",
		Script:      "# Talk",
		Translation: "# 演讲",
		Summary:     "sum",
	}

	d := r.Detail("t1")
	assert.Equal(t, "t1", d.TaskID)
	assert.Equal(t, "Talk", d.VideoTitle)
	assert.True(t, d.HasTranslation)
	assert.Equal(t, "sum", d.Summary)
}
