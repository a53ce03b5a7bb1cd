// Package media names and collects the markdown results of a task.
package media

import (
	"fmt"
	"strings"

	"vidscribe/internal/model"
	"vidscribe/internal/util"
)

// ResultKind is the kind of a result document.
type ResultKind string

const (
	KindTranscript  ResultKind = "transcript"
	KindTranslation ResultKind = "translation"
	KindSummary     ResultKind = "summary"
)

// ResultFile is one markdown document of a completed task.
type ResultFile struct {
	Kind    ResultKind
	Name    string
	Content string
}

// ShortID returns the task id fragment used in result file names.
func ShortID(taskID string) string {
	id := strings.ReplaceAll(taskID, "-", "")
	if len(id) > 6 {
		id = id[:6]
	}
	return id
}

// ResultBasename builds the file name of a result document:
// <kind>_<safe title>_<short id>.md
func ResultBasename(kind ResultKind, title, taskID string) string {
	return fmt.Sprintf("%s_%s_%s.md", kind, util.SanitizeTitle(title), ShortID(taskID))
}

// ResultFiles lists the documents present in a result, in transcript,
// translation, summary order. Missing documents are skipped. Server provided
// file names are kept when they are safe to use locally.
func ResultFiles(d model.HistoryDetail) []ResultFile {
	candidates := []struct {
		kind    ResultKind
		name    string
		content string
	}{
		{KindTranscript, d.ScriptFilename, d.Script},
		{KindTranslation, d.TranslationFilename, d.Translation},
		{KindSummary, d.SummaryFilename, d.Summary},
	}

	var files []ResultFile
	for _, c := range candidates {
		if strings.TrimSpace(c.content) == "" {
			continue
		}
		name := c.name
		if !safeName(name) {
			name = ResultBasename(c.kind, d.VideoTitle, d.TaskID)
		}
		files = append(files, ResultFile{Kind: c.kind, Name: name, Content: c.content})
	}
	return files
}

func safeName(name string) bool {
	return strings.HasSuffix(name, ".md") &&
		!strings.Contains(name, "..") &&
		!strings.ContainsAny(name, `/\`)
}
