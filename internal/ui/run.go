package ui

import (
	"context"
	"errors"

	tea "github.com/charmbracelet/bubbletea"
)

// Run launches the TUI and returns the outcome of every URL it processed,
// in submission order.
func Run(ctx context.Context, cfg Config) ([]Outcome, error) {
	if cfg.NewSession == nil {
		return nil, errors.New("ui: session factory is required")
	}

	m := NewModel(ctx, cfg)
	prog := tea.NewProgram(m, tea.WithContext(ctx))
	final, err := prog.Run()

	// Tear down whatever is still in flight before reading the outcome.
	m.cancel()
	_, _ = m.ctrl.Wait()

	if err != nil && !errors.Is(err, tea.ErrProgramKilled) {
		return nil, err
	}
	fm, ok := final.(Model)
	if !ok {
		return nil, err
	}

	var out []Outcome
	for _, t := range fm.finished {
		out = append(out, t.outcome())
	}
	if t := fm.current; t != nil {
		if !t.done {
			t.err = context.Canceled
		}
		out = append(out, t.outcome())
	}
	return out, nil
}
