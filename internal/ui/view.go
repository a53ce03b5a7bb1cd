package ui

import (
	"context"
	"errors"
	"fmt"
	"path/filepath"
	"strings"

	"vidscribe/internal/i18n"
	"vidscribe/internal/model"
	"vidscribe/internal/session"
	"vidscribe/internal/util/format"
)

func (m Model) viewHeader() string {
	title := m.styles.Title.Render("vidscribe")
	if n := len(m.queue); n > 0 {
		title += "  " + m.styles.Subtitle.Render(m.cat.T(i18n.KeyQueued, n))
	}
	return title
}

func (m Model) viewTask(t *taskState) string {
	stageStyle := m.styles.stage(t.stage)

	line1 := m.styles.JobTitle.Render(truncate(t.name(), 64))
	stage := stageStyle.Render(m.cat.Stage(t.stage))
	if !t.done {
		stage = m.spinner.View() + " " + stage
	}
	bar := fmt.Sprintf("%s %5.1f%%", t.bar.ViewAs(t.percent/100.0), t.percent)

	lines := []string{line1, stage, bar}
	lines = append(lines, m.taskInfo(t)...)
	return m.styles.Box.Render(strings.Join(lines, "\n"))
}

func (m Model) taskInfo(t *taskState) []string {
	switch {
	case !t.done && t.taskID == "":
		return []string{m.styles.Faint.Render(m.cat.T(i18n.KeySubmitting, truncate(t.url, 64)))}
	case !t.done:
		return []string{m.styles.Faint.Render(m.cat.T(i18n.KeySubmitted, t.taskID))}
	case t.err == nil:
		out := []string{m.styles.Success.Render(m.cat.T(i18n.KeyCompleted, t.name()))}
		for _, f := range t.files {
			out = append(out, m.styles.Success.Render("  • "+m.cat.T(i18n.KeySavedFile, filepath.Base(f))))
		}
		return out
	case session.IsTransient(t.err):
		return []string{m.styles.Warning.Render(m.cat.T(i18n.KeyStreamLost, format.Percent(t.percent), t.taskID))}
	case errors.Is(t.err, context.Canceled):
		return []string{m.styles.Warning.Render(m.cat.T(i18n.KeyCancelled))}
	case errors.Is(t.err, model.ErrTask):
		return []string{m.styles.Error.Render(m.cat.T(i18n.KeyFailed, strings.TrimPrefix(t.err.Error(), model.ErrTask.Error()+": ")))}
	}
	return []string{m.styles.Error.Render(m.cat.T(i18n.KeyError, t.err))}
}

func (m Model) viewPrompt() string {
	s := m.styles.Box.Render(m.input.View())
	if m.inputErr != nil {
		s += "\n" + m.styles.Box.Render(m.styles.Error.Render(m.inputErr.Error()))
	}
	return s
}

func (m Model) viewFinished() string {
	if len(m.finished) == 0 {
		return ""
	}
	var b strings.Builder
	for _, t := range m.finished {
		switch {
		case t.err == nil:
			b.WriteString(m.styles.Success.Render("✓ " + truncate(t.name(), 64)))
		case errors.Is(t.err, context.Canceled):
			b.WriteString(m.styles.Faint.Render("– " + truncate(t.name(), 64)))
		default:
			b.WriteString(m.styles.Error.Render("✗ " + truncate(t.name(), 64)))
		}
		b.WriteString("\n")
	}
	return b.String()
}

func (m Model) help() string {
	switch {
	case m.mode == modePrompt:
		return m.cat.T(i18n.KeyPromptHelp)
	case m.mode == modeDone:
		return m.cat.T(i18n.KeyDoneHelp)
	case m.interactive:
		return m.cat.T(i18n.KeyRunningHelp)
	}
	return m.cat.T(i18n.KeyQuitHelp)
}

func truncate(s string, n int) string {
	rs := []rune(s)
	if n <= 0 || len(rs) <= n {
		return s
	}
	return string(rs[:n-1]) + "…"
}
