// Package session runs one transcription task end to end: submission, the
// status channel and the progress simulator that smooths its updates.
package session

import (
	"context"
	"errors"
	"fmt"

	"vidscribe/internal/log"
	"vidscribe/internal/model"
	"vidscribe/internal/progress"
	"vidscribe/internal/status"
	"vidscribe/internal/storage"
	"vidscribe/internal/util"
	"vidscribe/internal/util/media"
)

// syntheticStart is reported right after submission so the bar moves before
// the first server event arrives.
const syntheticStart = 5

// Submitter creates backend jobs.
type Submitter interface {
	Submit(ctx context.Context, videoURL, summaryLanguage string) (*model.SubmitResult, error)
}

// Channel delivers the status events of one task.
type Channel interface {
	Open(ctx context.Context) <-chan status.Event
	Close()
}

// ChannelFactory opens a status channel for a task.
type ChannelFactory func(taskID string) (Channel, error)

// Service orchestrates the submit → follow → persist workflow.
type Service struct {
	submitter       Submitter
	newChannel      ChannelFactory
	reporter        progress.Reporter
	clock           progress.Clock
	logger          log.Logger
	store           storage.Repository
	summaryLanguage string
	outDir          string
}

// Option configures a Service.
type Option func(*Service)

// WithSubmitter sets the job submitter (the backend client).
func WithSubmitter(sub Submitter) Option {
	return func(s *Service) {
		s.submitter = sub
	}
}

// WithChannelFactory sets how status channels are opened.
func WithChannelFactory(f ChannelFactory) Option {
	return func(s *Service) {
		s.newChannel = f
	}
}

// WithReporter attaches a progress reporter (TUI or text renderer).
func WithReporter(rp progress.Reporter) Option {
	return func(s *Service) {
		s.reporter = rp
	}
}

// WithClock injects the clock driving the simulator.
func WithClock(c progress.Clock) Option {
	return func(s *Service) {
		s.clock = c
	}
}

func WithLogger(l log.Logger) Option {
	return func(s *Service) {
		s.logger = l
	}
}

// WithStore sets the local result cache completed tasks are saved to.
func WithStore(r storage.Repository) Option {
	return func(s *Service) {
		s.store = r
	}
}

// WithSummaryLanguage sets the language requested for summary and translation.
func WithSummaryLanguage(lang string) Option {
	return func(s *Service) {
		s.summaryLanguage = lang
	}
}

// WithOutDir makes completed tasks write their markdown results into dir.
func WithOutDir(dir string) Option {
	return func(s *Service) {
		s.outDir = dir
	}
}

// NewService constructs a new Service with the provided options.
func NewService(opts ...Option) (*Service, error) {
	s := &Service{}
	for _, o := range opts {
		o(s)
	}

	if s.newChannel == nil {
		return nil, fmt.Errorf("channel factory is required: %w", model.ErrNotValid)
	}
	if s.reporter == nil {
		s.reporter = progress.NoopReporter{}
	}
	if s.clock == nil {
		s.clock = progress.SystemClock
	}
	if s.logger == nil {
		s.logger = log.Noop
	}
	s.logger = s.logger.WithValues(log.Kv{"svc": "session.Service"})
	return s, nil
}

// Result is the outcome of a session.
type Result struct {
	TaskID string
	URL    string
	// Percent is the last displayed progress, kept when the stream is lost.
	Percent float64
	// Record is the last record received, the full result on success.
	Record *model.TaskRecord
	// Synthesized is true when completion was recovered from the snapshot query.
	Synthesized bool
	// Files are the result documents written to the output directory.
	Files []string
}

// Run validates and submits videoURL, then follows the task until it
// reaches a terminal state, the status stream is lost or ctx is cancelled.
//
// The returned error wraps model.ErrValidation, model.ErrSubmission,
// model.ErrTask or model.ErrStream, or is the context error.
func (s *Service) Run(ctx context.Context, videoURL string) (Result, error) {
	res := Result{URL: videoURL}

	src, err := util.DetectSource(videoURL)
	if err != nil {
		return res, err
	}
	res.URL = src.URL.String()

	if s.submitter == nil {
		return res, fmt.Errorf("%w: no submitter configured", model.ErrSubmission)
	}
	s.logger.Debugf("submitting %s (%s)", res.URL, src.Provider)
	sub, err := s.submitter.Submit(ctx, res.URL, s.summaryLanguage)
	if err != nil {
		if ctx.Err() != nil {
			return res, ctx.Err()
		}
		return res, fmt.Errorf("%w: %w", model.ErrSubmission, err)
	}

	return s.follow(ctx, sub.TaskID, res.URL)
}

// Follow tracks an already submitted task.
func (s *Service) Follow(ctx context.Context, taskID string) (Result, error) {
	if taskID == "" {
		return Result{}, fmt.Errorf("empty task id: %w", model.ErrValidation)
	}
	return s.follow(ctx, taskID, "")
}

func (s *Service) follow(ctx context.Context, taskID, videoURL string) (Result, error) {
	res := Result{TaskID: taskID, URL: videoURL}
	ctx = s.logger.SetValuesOnCtx(ctx, log.Kv{"task-id": taskID})
	logger := s.logger.WithCtxValues(ctx)

	sim := progress.NewSimulator(s.clock)
	sim.Initialize()
	defer sim.Stop()

	sim.OnAuthoritative(syntheticStart, "")
	s.update(taskID, sim, "", true)

	ch, err := s.newChannel(taskID)
	if err != nil {
		res.Percent = sim.Displayed()
		err = fmt.Errorf("%w: %w", model.ErrStream, err)
		s.reporter.Result(progress.Result{TaskID: taskID, Percent: res.Percent, Err: err})
		return res, err
	}
	defer ch.Close()

	events := ch.Open(ctx)
	for {
		select {
		case <-ctx.Done():
			return s.finish(ch, sim, res, ctx.Err())

		case <-sim.Ticks():
			if sim.Advance() {
				s.update(taskID, sim, "", false)
			}

		case ev, ok := <-events:
			if !ok {
				if ctx.Err() != nil {
					return s.finish(ch, sim, res, ctx.Err())
				}
				return s.finish(ch, sim, res, fmt.Errorf("%w: channel closed before a terminal status", model.ErrStream))
			}

			if ev.Err != nil {
				logger.Warningf("status stream lost at %.1f%%: %s", sim.Displayed(), ev.Err)
				return s.finish(ch, sim, res, fmt.Errorf("task %s: %w", taskID, ev.Err))
			}

			rec := ev.Record
			res.Record = rec
			res.Synthesized = ev.Synthesized
			if res.URL == "" {
				res.URL = rec.URL
			}
			sim.OnAuthoritative(rec.Progress, rec.Message)
			s.update(taskID, sim, rec.Message, true)

			switch rec.Status {
			case model.TaskStatusCompleted:
				logger.Infof("task completed")
				res = s.complete(ctx, logger, res)
				return s.finish(ch, sim, res, nil)
			case model.TaskStatusError:
				msg := rec.ErrorText()
				if msg == "" {
					msg = "the server reported a failure without details"
				}
				logger.Errorf("task failed: %s", msg)
				return s.finish(ch, sim, res, fmt.Errorf("%w: %s", model.ErrTask, msg))
			}
		}
	}
}

// complete persists and writes the results of a completed task. Failures
// here never fail the session.
func (s *Service) complete(ctx context.Context, logger log.Logger, res Result) Result {
	rec := *res.Record
	if rec.URL == "" {
		rec.URL = res.URL
	}
	if rec.SummaryLanguage == "" {
		rec.SummaryLanguage = s.summaryLanguage
	}
	detail := rec.Detail(res.TaskID)

	if s.store != nil {
		if err := s.store.SaveResult(ctx, detail); err != nil {
			logger.Warningf("could not cache result: %s", err)
		}
	}

	if s.outDir != "" {
		for _, f := range media.ResultFiles(detail) {
			path, err := util.WriteFileAtomic(s.outDir, f.Name, []byte(f.Content))
			if err != nil {
				logger.Warningf("could not write %s: %s", f.Name, err)
				continue
			}
			res.Files = append(res.Files, path)
		}
	}
	return res
}

// finish tears the session down and emits the final result.
func (s *Service) finish(ch Channel, sim *progress.Simulator, res Result, err error) (Result, error) {
	sim.Stop()
	ch.Close()

	res.Percent = sim.Displayed()
	s.reporter.Result(progress.Result{
		TaskID:  res.TaskID,
		Percent: res.Percent,
		Record:  res.Record,
		Files:   res.Files,
		Err:     err,
	})
	return res, err
}

func (s *Service) update(taskID string, sim *progress.Simulator, message string, authoritative bool) {
	st := sim.State()
	s.reporter.Update(progress.Update{
		TaskID:        taskID,
		Stage:         st.Stage,
		Percent:       sim.Displayed(),
		Target:        st.Target,
		Message:       message,
		Authoritative: authoritative,
	})
}

// IsTransient reports whether err leaves the task possibly still running on
// the server.
func IsTransient(err error) bool {
	return errors.Is(err, model.ErrStream)
}
