package printer_test

import (
	"bytes"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"vidscribe/internal/model"
	"vidscribe/internal/printer"
)

func detailFixture() model.HistoryDetail {
	finished := time.Date(2024, 5, 1, 10, 30, 0, 0, time.UTC)
	return model.HistoryDetail{
		HistoryItem: model.HistoryItem{
			TaskID:           "3f2a9c1e",
			URL:              "https://youtu.be/abc",
			VideoTitle:       "Go Concurrency Patterns",
			FinishedAt:       &finished,
			DetectedLanguage: "en",
			SummaryLanguage:  "zh",
			HasTranslation:   true,
		},
		Summary:         "# 摘要\n\n并发不是并行。",
		SummaryFilename: "summary_Go_Concurrency_Patterns_3f2a9c.md",
	}
}

func TestNew(t *testing.T) {
	for _, f := range []model.OutputFormat{"", model.OutputTable, model.OutputJSON, model.OutputYAML} {
		_, err := printer.New(f, &bytes.Buffer{})
		assert.NoError(t, err, "format %q", f)
	}
	_, err := printer.New("xml", &bytes.Buffer{})
	assert.ErrorIs(t, err, model.ErrNotValid)
}

func TestPrintTask(t *testing.T) {
	rec := model.TaskRecord{Status: "processing", Progress: 42.5, Message: "正在转录音频..."}

	tests := map[string]struct {
		format      model.OutputFormat
		expContains []string
	}{
		"Table": {
			format:      model.OutputTable,
			expContains: []string{"Task:       t1", "Status:     running", "Progress:   42.5%", "Message:    正在转录音频..."},
		},
		"JSON": {
			format:      model.OutputJSON,
			expContains: []string{`"task_id": "t1"`, `"status": "running"`, `"progress": 42.5`},
		},
		"YAML": {
			format:      model.OutputYAML,
			expContains: []string{"task_id: t1", "status: running", "progress: 42.5"},
		},
	}

	for name, test := range tests {
		t.Run(name, func(t *testing.T) {
			var buf bytes.Buffer
			p, err := printer.New(test.format, &buf)
			require.NoError(t, err)

			require.NoError(t, p.PrintTask("t1", rec))
			for _, s := range test.expContains {
				assert.Contains(t, buf.String(), s)
			}
		})
	}
}

func TestTablePrinterPrintHistory(t *testing.T) {
	var buf bytes.Buffer
	p := printer.NewTablePrinter(&buf)

	d := detailFixture()
	err := p.PrintHistory(model.HistoryPage{Page: 1, Limit: 2, Total: 3, Items: []model.HistoryItem{d.HistoryItem}})
	require.NoError(t, err)

	out := buf.String()
	assert.Contains(t, out, "TASK ID")
	assert.Contains(t, out, "Go Concurrency Patterns")
	assert.Contains(t, out, "en→zh")
	assert.Contains(t, out, "Page 1/2 (3 total)")
}

func TestTablePrinterPrintHistoryEmpty(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, printer.NewTablePrinter(&buf).PrintHistory(model.HistoryPage{Page: 1, Limit: 20}))
	assert.Empty(t, buf.String())
}

func TestJSONPrinterPrintHistoryEmpty(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, printer.NewJSONPrinter(&buf).PrintHistory(model.HistoryPage{Page: 1, Limit: 20}))
	assert.Contains(t, buf.String(), `"items": []`)
}

func TestPrintDetail(t *testing.T) {
	var table, js, ym bytes.Buffer
	d := detailFixture()

	require.NoError(t, printer.NewTablePrinter(&table).PrintDetail(d))
	require.NoError(t, printer.NewJSONPrinter(&js).PrintDetail(d))
	require.NoError(t, printer.NewYAMLPrinter(&ym).PrintDetail(d))

	assert.Contains(t, table.String(), "Files:      summary_Go_Concurrency_Patterns_3f2a9c.md")
	assert.True(t, strings.HasSuffix(table.String(), "并发不是并行。\n"))
	assert.Contains(t, js.String(), `"video_title": "Go Concurrency Patterns"`)
	assert.Contains(t, ym.String(), "video_title: Go Concurrency Patterns")
	assert.Contains(t, ym.String(), "has_translation: true")
}

func TestPrintMessage(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, printer.NewTablePrinter(&buf).PrintMessage("ok"))
	assert.Equal(t, "ok", strings.TrimSpace(buf.String()))
}
