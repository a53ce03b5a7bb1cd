package ui

import (
	"context"

	tea "github.com/charmbracelet/bubbletea"

	"vidscribe/internal/progress"
	"vidscribe/internal/session"
)

type genKey struct{}

// teaReporter feeds session events into the program's event channel.
type teaReporter struct {
	ctx  context.Context
	ch   chan tea.Msg
	gen  int
	sent bool
}

func (r *teaReporter) Update(u progress.Update) {
	msg := jobUpdateMsg{Gen: r.gen, U: u}
	// Ticks may be dropped when the UI lags, server events may not.
	if !u.Authoritative {
		select {
		case r.ch <- msg:
		default:
		}
		return
	}
	select {
	case r.ch <- msg:
	case <-r.ctx.Done():
	}
}

func (r *teaReporter) Result(res progress.Result) {
	r.sent = true
	select {
	case r.ch <- jobResultMsg{Gen: r.gen, R: res}:
	case <-r.ctx.Done():
	}
}

// SessionFactory builds a session reporting to rep.
type SessionFactory func(rep progress.Reporter) (*session.Service, error)

// genRunner builds a fresh session per run, tagged with the generation
// carried by the run context.
type genRunner struct {
	ctx        context.Context
	ch         chan tea.Msg
	newSession SessionFactory
}

func withGen(ctx context.Context, gen int) context.Context {
	return context.WithValue(ctx, genKey{}, gen)
}

func (g genRunner) Run(ctx context.Context, videoURL string) (session.Result, error) {
	gen, _ := ctx.Value(genKey{}).(int)
	rep := &teaReporter{ctx: g.ctx, ch: g.ch, gen: gen}

	res := session.Result{URL: videoURL}
	svc, err := g.newSession(rep)
	if err == nil {
		res, err = svc.Run(ctx, videoURL)
	}
	// Validation and submission failures end the run before any result
	// is reported.
	if !rep.sent {
		rep.Result(progress.Result{TaskID: res.TaskID, Percent: res.Percent, Err: err})
	}
	return res, err
}
