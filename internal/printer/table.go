package printer

import (
	"fmt"
	"io"
	"strings"
	"text/tabwriter"
	"time"

	"vidscribe/internal/model"
	"vidscribe/internal/util/format"
)

// TablePrinter prints task information in a human readable layout.
type TablePrinter struct {
	writer io.Writer
	now    func() time.Time
}

// NewTablePrinter creates a new table printer.
func NewTablePrinter(w io.Writer) *TablePrinter {
	return &TablePrinter{writer: w, now: time.Now}
}

// PrintTask prints a status snapshot.
func (t *TablePrinter) PrintTask(taskID string, rec model.TaskRecord) error {
	o := newTaskOutput(taskID, rec)
	fmt.Fprintf(t.writer, "Task:       %s\n", o.TaskID)
	fmt.Fprintf(t.writer, "Status:     %s\n", o.Status)
	fmt.Fprintf(t.writer, "Progress:   %s\n", format.Percent(o.Progress))
	if o.Message != "" {
		fmt.Fprintf(t.writer, "Message:    %s\n", o.Message)
	}
	if o.Error != "" {
		fmt.Fprintf(t.writer, "Error:      %s\n", o.Error)
	}
	if o.VideoTitle != "" {
		fmt.Fprintf(t.writer, "Title:      %s\n", o.VideoTitle)
	}
	if o.URL != "" {
		fmt.Fprintf(t.writer, "URL:        %s\n", o.URL)
	}
	return nil
}

// PrintHistory prints a history page as a table.
func (t *TablePrinter) PrintHistory(page model.HistoryPage) error {
	if len(page.Items) == 0 {
		return nil
	}

	tw := tabwriter.NewWriter(t.writer, 0, 0, 2, ' ', 0)

	fmt.Fprintln(tw, "TASK ID\tTITLE\tLANG\tTRANSLATED\tFINISHED")
	for _, it := range page.Items {
		fmt.Fprintf(tw, "%s\t%s\t%s\t%t\t%s\n",
			it.TaskID,
			truncate(it.VideoTitle, 48),
			langPair(it),
			it.HasTranslation,
			t.timeAgo(it.FinishedAt),
		)
	}
	if err := tw.Flush(); err != nil {
		return err
	}

	pages := 1
	if page.Limit > 0 {
		pages = (page.Total + page.Limit - 1) / page.Limit
	}
	fmt.Fprintf(t.writer, "\nPage %d/%d (%d total)\n", page.Page, max(pages, 1), page.Total)
	return nil
}

// PrintDetail prints the metadata and the summary of a completed task.
func (t *TablePrinter) PrintDetail(d model.HistoryDetail) error {
	fmt.Fprintf(t.writer, "Task:       %s\n", d.TaskID)
	fmt.Fprintf(t.writer, "Title:      %s\n", d.VideoTitle)
	fmt.Fprintf(t.writer, "URL:        %s\n", d.URL)
	fmt.Fprintf(t.writer, "Language:   %s\n", langPair(d.HistoryItem))
	if d.FinishedAt != nil {
		fmt.Fprintf(t.writer, "Finished:   %s\n", d.FinishedAt.UTC().Format(time.RFC3339))
	}

	files := []string{d.ScriptFilename, d.TranslationFilename, d.SummaryFilename}
	var present []string
	for _, f := range files {
		if f != "" {
			present = append(present, f)
		}
	}
	if len(present) > 0 {
		fmt.Fprintf(t.writer, "Files:      %s\n", strings.Join(present, ", "))
	}

	if s := strings.TrimSpace(d.Summary); s != "" {
		fmt.Fprintf(t.writer, "\n%s\n", s)
	}
	return nil
}

// PrintActive prints the backend's in-flight tasks.
func (t *TablePrinter) PrintActive(a model.ActiveTasks) error {
	fmt.Fprintf(t.writer, "Active tasks:     %d\n", a.ActiveTasks)
	fmt.Fprintf(t.writer, "Processing URLs:  %d\n", a.ProcessingURLs)
	for _, id := range a.TaskIDs {
		fmt.Fprintf(t.writer, "  %s\n", id)
	}
	return nil
}

// PrintMessage prints a simple message.
func (t *TablePrinter) PrintMessage(msg string) error {
	_, err := fmt.Fprintln(t.writer, msg)
	return err
}

func (t *TablePrinter) timeAgo(ts *time.Time) string {
	if ts == nil {
		return "-"
	}
	return format.TimeAgo(*ts, t.now())
}

func langPair(it model.HistoryItem) string {
	from := it.DetectedLanguage
	if from == "" {
		from = "?"
	}
	if it.SummaryLanguage == "" {
		return from
	}
	return from + "→" + it.SummaryLanguage
}

func truncate(s string, n int) string {
	r := []rune(s)
	if len(r) <= n {
		return s
	}
	return string(r[:n-1]) + "…"
}
