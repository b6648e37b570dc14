// Package recovery drives one search at a time and tracks its lifecycle:
// Idle, Working, then Success, Failure or Cancelled. A finished session can
// be started again.
package recovery

import (
	"context"
	"errors"
	"log/slog"
	"sync"

	"github.com/Amr-9/b58finder/pkg/format"
	"github.com/Amr-9/b58finder/pkg/search"
)

// ErrBusy is returned by Start while a search is running.
var ErrBusy = errors.New("a search is already running")

// Status is the lifecycle state of a session.
type Status int

const (
	Idle Status = iota
	Working
	Success
	Failure
	Cancelled
)

// String returns the status name.
func (s Status) String() string {
	switch s {
	case Idle:
		return "Idle"
	case Working:
		return "Working"
	case Success:
		return "Success"
	case Failure:
		return "Failure"
	case Cancelled:
		return "Cancelled"
	default:
		return "Unknown"
	}
}

// Terminal reports whether s ends a search.
func (s Status) Terminal() bool {
	return s == Success || s == Failure || s == Cancelled
}

// Result is the outcome of a finished search.
type Result struct {
	Status  Status
	Results []string // sorted; empty unless Success
	Tested  uint64
	Err     error // set when a complete input failed validation
}

// Option configures a Session.
type Option func(*Session)

// WithFilter drops valid candidates the filter returns false for.
func WithFilter(f func(string) bool) Option {
	return func(s *Session) { s.filter = f }
}

// WithLogger sets the structured logger.
func WithLogger(l *slog.Logger) Option {
	return func(s *Session) {
		if l != nil {
			s.logger = l
		}
	}
}

// Session runs searches on an engine. All methods are safe for concurrent
// use.
type Session struct {
	engine *search.Engine
	filter func(string) bool
	logger *slog.Logger

	mu        sync.Mutex
	status    Status
	state     *search.State
	cancel    context.CancelFunc
	cancelled bool
	done      chan struct{}
	updates   chan search.Progress
	result    Result
}

// NewSession returns an idle session.
func NewSession(engine *search.Engine, opts ...Option) *Session {
	s := &Session{
		engine: engine,
		logger: slog.New(slog.DiscardHandler),
		state:  new(search.State),
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Start validates the request and launches the search in the background.
// Problems detectable without the missing characters are returned here and
// no search is started. A session in a terminal state is re-armed.
func (s *Session) Start(input string, placeholder rune, t format.EncodingType) error {
	if err := format.CheckIncomplete(input, placeholder, t); err != nil {
		return err
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	if s.status == Working {
		return ErrBusy
	}
	if s.status.Terminal() {
		s.logger.Debug("session re-armed", "previous", s.status.String())
		s.status = Idle
	}

	ctx, cancel := context.WithCancel(context.Background())
	s.status = Working
	s.state = new(search.State)
	s.cancel = cancel
	s.cancelled = false
	s.done = make(chan struct{})
	s.updates = make(chan search.Progress, 16)
	s.result = Result{}

	job := search.Job{Input: input, Placeholder: placeholder, Type: t, Filter: s.filter}
	s.logger.Info("search started", "type", t.String(), "missing", format.CountMissing(input, placeholder))
	go s.run(ctx, job, s.state, s.updates, s.done)
	return nil
}

func (s *Session) run(ctx context.Context, job search.Job, state *search.State, updates chan search.Progress, done chan struct{}) {
	// A lagging reader loses the oldest update, never the final one.
	push := func(p search.Progress) {
		for {
			select {
			case updates <- p:
				return
			default:
			}
			select {
			case <-updates:
			default:
			}
		}
	}
	err := s.engine.Run(ctx, job, state, push)

	s.mu.Lock()
	defer s.mu.Unlock()
	s.cancel()

	r := Result{Tested: state.Tested()}
	switch {
	case s.cancelled || errors.Is(err, context.Canceled):
		r.Status = Cancelled
	case err != nil:
		r.Status = Failure
		r.Err = err
	default:
		r.Results = state.Results()
		r.Status = Failure
		if len(r.Results) > 0 {
			r.Status = Success
		}
	}
	s.result = r
	s.status = r.Status
	s.logger.Info("search ended", "status", r.Status.String(), "tested", r.Tested, "found", len(r.Results))

	close(updates)
	close(done)
}

// Cancel stops a running search. It does not wait; use Wait or Done.
func (s *Session) Cancel() {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.status != Working {
		return
	}
	s.cancelled = true
	s.cancel()
}

// Status returns the lifecycle state.
func (s *Session) Status() Status {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.status
}

// Progress returns the latest progress of the current or last search.
func (s *Session) Progress() search.Progress {
	s.mu.Lock()
	state := s.state
	s.mu.Unlock()
	return state.Progress()
}

// Result returns the outcome of the last finished search. While a search is
// running it reports the current status with no results.
func (s *Session) Result() Result {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.status != s.result.Status {
		return Result{Status: s.status}
	}
	r := s.result
	r.Results = append([]string(nil), r.Results...)
	return r
}

// Updates returns the progress stream of the current search. The channel is
// closed when that search ends; slow readers miss intermediate updates.
func (s *Session) Updates() <-chan search.Progress {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.updates
}

// Done returns a channel closed when the current search ends, or nil when
// no search was started.
func (s *Session) Done() <-chan struct{} {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.done
}

// Wait blocks until the current search ends.
func (s *Session) Wait() {
	if done := s.Done(); done != nil {
		<-done
	}
}
