// Package search enumerates the replacements of the missing characters of a
// base-58 string and collects every candidate that passes the structural and
// checksum checks of its encoding type.
//
// The search space is split into 58 tasks on the first missing position and
// fed to a bounded pool of goroutines. Each worker walks its subtree depth
// first, keeping per-depth partial values as fixed-width limb arrays, and
// skips every subtree whose value interval cannot reach a valid version
// prefix. With many missing characters the trailing positions are joined
// through a sorted table instead of being enumerated per prefix.
package search

import (
	"context"
	"log/slog"
	"runtime"
	"sync"
	"time"

	"github.com/Amr-9/b58finder/pkg/base58"
	"github.com/Amr-9/b58finder/pkg/format"
)

// Defaults for the engine options.
const (
	DefaultProgressInterval = 250 * time.Millisecond
	DefaultCheckEvery       = 1 << 16
	DefaultMITMThreshold    = 6
	DefaultMITMDigits       = 4

	maxMITMDigits = 5 // 58^5 still fits the uint32 table index
)

// Engine runs searches. It holds configuration only and is safe for
// concurrent use.
type Engine struct {
	workers       int
	logger        *slog.Logger
	interval      time.Duration
	checkEvery    uint64
	mitmThreshold int
	mitmDigits    int
}

// Option configures an Engine.
type Option func(*Engine)

// WithWorkers sets the pool size. Zero or less means runtime.NumCPU().
func WithWorkers(n int) Option {
	return func(e *Engine) {
		if n <= 0 {
			n = runtime.NumCPU()
		}
		e.workers = n
	}
}

// WithLogger sets the structured logger.
func WithLogger(l *slog.Logger) Option {
	return func(e *Engine) {
		if l != nil {
			e.logger = l
		}
	}
}

// WithProgressInterval sets how often progress is pushed. Zero disables
// periodic pushes; the final one is still sent.
func WithProgressInterval(d time.Duration) Option {
	return func(e *Engine) { e.interval = d }
}

// WithCheckEvery sets how many candidates a worker evaluates between
// cancellation checks.
func WithCheckEvery(n uint64) Option {
	return func(e *Engine) {
		if n > 0 {
			e.checkEvery = n
		}
	}
}

// WithMeetInTheMiddle enables the suffix table join for searches with at
// least threshold missing characters, tabulating at most maxDigits trailing
// positions. A threshold of zero disables it.
func WithMeetInTheMiddle(threshold, maxDigits int) Option {
	return func(e *Engine) {
		e.mitmThreshold = threshold
		e.mitmDigits = min(max(maxDigits, 1), maxMITMDigits)
	}
}

// New returns an Engine with the given options applied over the defaults.
func New(opts ...Option) *Engine {
	e := &Engine{
		workers:       runtime.NumCPU(),
		logger:        slog.New(slog.DiscardHandler),
		interval:      DefaultProgressInterval,
		checkEvery:    DefaultCheckEvery,
		mitmThreshold: DefaultMITMThreshold,
		mitmDigits:    DefaultMITMDigits,
	}
	for _, opt := range opts {
		opt(e)
	}
	return e
}

// Workers returns the pool size.
func (e *Engine) Workers() int {
	return e.workers
}

// Job describes one search.
type Job struct {
	Input       string
	Placeholder rune
	Type        format.EncodingType

	// Filter, when set, drops valid candidates it returns false for.
	Filter func(string) bool
}

// Run searches every replacement of the placeholders in job.Input and
// appends the valid candidates to state. It blocks until the search space is
// exhausted or ctx is done, in which case it returns ctx.Err().
//
// With no placeholder the input is validated directly: it becomes the only
// result, or the validation error is returned.
func (e *Engine) Run(ctx context.Context, job Job, state *State, progress ProgressFunc) error {
	if err := format.CheckIncomplete(job.Input, job.Placeholder, job.Type); err != nil {
		return err
	}
	state.Reset()

	if format.CountMissing(job.Input, job.Placeholder) == 0 {
		return e.runComplete(job, state, progress)
	}

	p := newPlan(job, format.MustLookup(job.Type))
	state.total.Store(p.total())

	log := e.logger.With("type", job.Type.String(), "missing", p.k)
	start := time.Now()

	root := make(number, p.width)
	if p.prune(0, p.zeroStart, p.base, root) {
		log.Debug("search space is empty")
		return e.finish(state, p, progress)
	}

	if e.mitmThreshold > 0 && p.k >= e.mitmThreshold && p.constrained {
		digits := min(e.mitmDigits, p.k/2)
		if digits >= 1 {
			p.split = p.k - digits
			p.mitm = buildSuffixTable(p, p.split)
			log.Debug("suffix table built", "digits", digits, "entries", len(p.mitm.keys),
				"elapsed", time.Since(start))
		}
	}

	workers := min(e.workers, base58.Radix)
	log.Debug("search started", "workers", workers, "split", p.split)

	stopReporter := e.report(state, progress)

	tasks := make(chan int, base58.Radix)
	for digit := 0; digit < base58.Radix; digit++ {
		tasks <- digit
	}
	close(tasks)

	var wg sync.WaitGroup
	for i := 0; i < workers; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			w := newWalker(ctx, p, state, e.checkEvery)
			for digit := range tasks {
				if ctx.Err() != nil {
					return
				}
				w.task(digit)
				if w.stopped {
					return
				}
			}
		}()
	}
	wg.Wait()
	stopReporter()

	if err := ctx.Err(); err != nil {
		log.Info("search cancelled", "tested", state.Tested(), "elapsed", time.Since(start))
		return err
	}
	log.Info("search finished", "tested", state.Tested(),
		"found", len(state.Results()), "elapsed", time.Since(start))
	return e.finish(state, p, progress)
}

// runComplete handles input without placeholders.
func (e *Engine) runComplete(job Job, state *State, progress ProgressFunc) error {
	state.total.Store(1)
	state.tested.Store(1)
	if err := format.Validate(job.Input, job.Type); err != nil {
		e.logger.Debug("input is not valid", "type", job.Type.String(), "err", err)
		return err
	}
	if job.Filter == nil || job.Filter(job.Input) {
		state.addResult(job.Input)
	}
	state.explored.Store(1)
	if progress != nil {
		progress(state.Progress())
	}
	return nil
}

// finish marks the whole space explored and sends the final push.
func (e *Engine) finish(state *State, p *plan, progress ProgressFunc) error {
	state.explored.Store(p.total())
	if progress != nil {
		progress(Progress{Fraction: 1, Tested: state.Tested()})
	}
	return nil
}

// report starts the periodic progress goroutine and returns its stop func.
func (e *Engine) report(state *State, progress ProgressFunc) func() {
	if progress == nil || e.interval <= 0 {
		return func() {}
	}
	done := make(chan struct{})
	var wg sync.WaitGroup
	wg.Add(1)
	go func() {
		defer wg.Done()
		ticker := time.NewTicker(e.interval)
		defer ticker.Stop()
		for {
			select {
			case <-done:
				return
			case <-ticker.C:
				progress(state.Progress())
			}
		}
	}()
	return func() {
		close(done)
		wg.Wait()
	}
}
