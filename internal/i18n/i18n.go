// Package i18n holds the user facing texts of the renderers. Texts are keyed
// by semantic identifiers, never by raw server messages.
package i18n

import (
	"golang.org/x/text/language"
	"golang.org/x/text/message"
	"golang.org/x/text/message/catalog"

	"vidscribe/internal/progress"
)

// Keys of the catalog.
const (
	KeySubmitting     = "ui.submitting"
	KeySubmitted      = "ui.submitted"
	KeyCompleted      = "ui.completed"
	KeyFailed         = "ui.failed"
	KeyStreamLost     = "ui.stream_lost"
	KeyCancelled      = "ui.cancelled"
	KeySavedFile      = "ui.saved_file"
	KeyPromptURL      = "ui.prompt_url"
	KeyPromptHelp     = "ui.prompt_help"
	KeyRunningHelp    = "ui.running_help"
	KeyDoneHelp       = "ui.done_help"
	KeyNoTranslation  = "ui.no_translation"
	KeyHistoryLocal   = "ui.history_local"
	KeyHistoryOffline = "ui.history_offline"
	KeyQueued         = "ui.queued"
	KeyQuitHelp       = "ui.quit_help"
	KeyError          = "ui.error"
)

var supported = []language.Tag{language.English, language.Chinese}

var texts = map[language.Tag]map[string]string{
	language.English: {
		"stage.preparing":    "Preparing",
		"stage.parsing":      "Parsing media info",
		"stage.downloading":  "Downloading",
		"stage.transcribing": "Transcribing audio",
		"stage.optimizing":   "Optimizing transcript",
		"stage.summarizing":  "Generating summary",
		"stage.completed":    "Completed",
		"stage.error":        "Failed",

		"status.running":   "running",
		"status.completed": "completed",
		"status.error":     "error",

		KeySubmitting:     "Submitting %s",
		KeySubmitted:      "Task %s created",
		KeyCompleted:      "Done: %s",
		KeyFailed:         "Task failed: %s",
		KeyStreamLost:     "Lost the status stream at %s, the task may still be running on the server (task %s)",
		KeyCancelled:      "Cancelled",
		KeySavedFile:      "Saved %s",
		KeyPromptURL:      "Video or podcast URL",
		KeyPromptHelp:     "enter: submit • esc: quit",
		KeyRunningHelp:    "ctrl+n: new URL • q: quit",
		KeyDoneHelp:       "enter: new URL • q: quit",
		KeyNoTranslation:  "no translation",
		KeyHistoryLocal:   "Showing the local cache",
		KeyHistoryOffline: "Server unreachable, showing the local cache",
		KeyQueued:         "%d queued",
		KeyQuitHelp:       "q: quit",
		KeyError:          "Error: %s",
	},
	language.Chinese: {
		"stage.preparing":    "准备中",
		"stage.parsing":      "解析媒体信息",
		"stage.downloading":  "下载中",
		"stage.transcribing": "转录音频",
		"stage.optimizing":   "优化转录文本",
		"stage.summarizing":  "生成摘要",
		"stage.completed":    "处理完成",
		"stage.error":        "处理失败",

		"status.running":   "处理中",
		"status.completed": "已完成",
		"status.error":     "失败",

		KeySubmitting:     "正在提交 %s",
		KeySubmitted:      "任务 %s 已创建",
		KeyCompleted:      "完成：%s",
		KeyFailed:         "任务失败：%s",
		KeyStreamLost:     "状态连接在 %s 时中断，任务可能仍在服务器上运行（任务 %s）",
		KeyCancelled:      "已取消",
		KeySavedFile:      "已保存 %s",
		KeyPromptURL:      "视频或播客链接",
		KeyPromptHelp:     "enter：提交 • esc：退出",
		KeyRunningHelp:    "ctrl+n：新链接 • q：退出",
		KeyDoneHelp:       "enter：新链接 • q：退出",
		KeyNoTranslation:  "无翻译",
		KeyHistoryLocal:   "显示本地缓存",
		KeyHistoryOffline: "无法连接服务器，显示本地缓存",
		KeyQueued:         "排队 %d 个",
		KeyQuitHelp:       "q：退出",
		KeyError:          "错误：%s",
	},
}

// Catalog resolves texts in one language.
type Catalog struct {
	tag     language.Tag
	printer *message.Printer
}

// New returns the catalog best matching lang (e.g. "zh", "zh-CN", "en-US").
// Unknown or empty languages fall back to English.
func New(lang string) *Catalog {
	b := catalog.NewBuilder(catalog.Fallback(language.English))
	for tag, msgs := range texts {
		for key, msg := range msgs {
			_ = b.SetString(tag, key, msg)
		}
	}

	tag := language.English
	if t, err := language.Parse(lang); err == nil {
		matcher := language.NewMatcher(supported)
		_, idx, conf := matcher.Match(t)
		if conf != language.No {
			tag = supported[idx]
		}
	}

	return &Catalog{tag: tag, printer: message.NewPrinter(tag, message.Catalog(b))}
}

// Language returns the resolved language.
func (c *Catalog) Language() language.Tag { return c.tag }

// T returns the text of key formatted with args. Unknown keys are returned as is.
func (c *Catalog) T(key string, args ...any) string {
	return c.printer.Sprintf(key, args...)
}

// Stage returns the display text of a processing stage.
func (c *Catalog) Stage(s progress.Stage) string {
	return c.T("stage." + string(s))
}

// Status returns the display text of a task status.
func (c *Catalog) Status(s string) string {
	return c.T("status." + s)
}
