package ui

import (
	"github.com/charmbracelet/lipgloss"

	"vidscribe/internal/progress"
)

type Styles struct {
	Title       lipgloss.Style
	Subtitle    lipgloss.Style
	JobTitle    lipgloss.Style
	JobInfo     lipgloss.Style
	Success     lipgloss.Style
	Error       lipgloss.Style
	Warning     lipgloss.Style
	Faint       lipgloss.Style
	Box         lipgloss.Style
	Spinner     lipgloss.Style
	Prompt      lipgloss.Style
	StagePrep   lipgloss.Style
	StageDL     lipgloss.Style
	StageScribe lipgloss.Style
	StageSum    lipgloss.Style
}

func defaultStyles() Styles {
	base := lipgloss.NewStyle()
	return Styles{
		Title:       base.Bold(true).Foreground(lipgloss.Color("#7D56F4")),
		Subtitle:    base.Faint(true),
		JobTitle:    base.Foreground(lipgloss.Color("#A3A3A3")),
		JobInfo:     base.Foreground(lipgloss.Color("#D1D5DB")),
		Success:     base.Foreground(lipgloss.Color("#22C55E")),
		Error:       base.Foreground(lipgloss.Color("#EF4444")),
		Warning:     base.Foreground(lipgloss.Color("#F59E0B")),
		Faint:       base.Faint(true),
		Box:         base.Padding(0, 1),
		Spinner:     base.Foreground(lipgloss.Color("#22D3EE")),
		Prompt:      base.Bold(true).Foreground(lipgloss.Color("#7D56F4")),
		StagePrep:   base.Foreground(lipgloss.Color("#60A5FA")),
		StageDL:     base.Foreground(lipgloss.Color("#06B6D4")),
		StageScribe: base.Foreground(lipgloss.Color("#D946EF")),
		StageSum:    base.Foreground(lipgloss.Color("#FBBF24")),
	}
}

func (s Styles) stage(st progress.Stage) lipgloss.Style {
	switch st {
	case progress.StagePreparing, progress.StageParsing:
		return s.StagePrep
	case progress.StageDownloading:
		return s.StageDL
	case progress.StageTranscribing, progress.StageOptimizing:
		return s.StageScribe
	case progress.StageSummarizing:
		return s.StageSum
	case progress.StageCompleted:
		return s.Success
	case progress.StageError:
		return s.Error
	}
	return s.JobInfo
}
