package editor

import (
	"errors"
	"fmt"
	"sync"
	"time"

	"go.uber.org/zap"

	"github.com/seo-optimizer/contentscore/analyzer"
)

// DefaultDebounce is the quiet period before an edit is re-analyzed
const DefaultDebounce = 500 * time.Millisecond

// Options configures a Session
type Options struct {
	Debounce time.Duration
	// OnReport is called with every published report, outside the session lock.
	OnReport func(*analyzer.Report)
	Logger   *zap.Logger
}

// Session holds the article being edited and keeps its report current.
//
// Every edit restarts the debounce window and bumps the generation number.
// A run only publishes its report if no newer edit arrived while it was
// computing. While the preview override is being edited, runs are skipped
// and the report is marked stale until the edit is saved or cancelled.
type Session struct {
	mu         sync.Mutex
	analyzer   *analyzer.Analyzer
	input      analyzer.Input
	keywords   *analyzer.KeywordSet
	override   *analyzer.Preview
	draft      *analyzer.Preview
	machine    *OverrideMachine
	debouncer  *Debouncer
	generation uint64
	published  uint64
	report     *analyzer.Report
	closed     bool
	onReport   func(*analyzer.Report)
	logger     *zap.Logger
}

// NewSession creates an empty editing session backed by the given analyzer
func NewSession(a *analyzer.Analyzer, opts Options) (*Session, error) {
	if a == nil {
		return nil, errors.New("editor session requires an analyzer")
	}
	if opts.Debounce <= 0 {
		opts.Debounce = DefaultDebounce
	}
	if opts.Logger == nil {
		opts.Logger = zap.NewNop()
	}

	machine, err := NewOverrideMachine()
	if err != nil {
		return nil, err
	}

	s := &Session{
		analyzer: a,
		keywords: analyzer.NewKeywordSet(),
		machine:  machine,
		onReport: opts.OnReport,
		logger:   opts.Logger,
	}
	s.debouncer = NewDebouncer(opts.Debounce, s.run)
	return s, nil
}

// Load replaces the whole input at once, for example when a draft is reopened.
// A saved override in the input becomes the session's override.
func (s *Session) Load(in analyzer.Input) {
	s.mutate(func() {
		s.input = analyzer.Input{
			Title:          in.Title,
			Content:        in.Content,
			PrimaryKeyword: in.PrimaryKeyword,
		}
		s.keywords = analyzer.NewKeywordSet(in.SecondaryKeywords...)
		s.override = nil
		if in.Override != nil {
			o := *in.Override
			s.override = &o
		}
	})
}

func (s *Session) SetTitle(title string) {
	s.mutate(func() { s.input.Title = title })
}

func (s *Session) SetContent(content string) {
	s.mutate(func() { s.input.Content = content })
}

func (s *Session) SetPrimaryKeyword(keyword string) {
	s.mutate(func() { s.input.PrimaryKeyword = keyword })
}

// AddSecondaryKeyword adds a keyword, returning the set's rejection error if any.
// A rejected keyword does not schedule a recompute.
func (s *Session) AddSecondaryKeyword(keyword string) error {
	s.mu.Lock()
	if err := s.keywords.Add(keyword); err != nil {
		s.mu.Unlock()
		return fmt.Errorf("add secondary keyword: %w", err)
	}
	s.generation++
	s.mu.Unlock()

	s.debouncer.Trigger()
	return nil
}

// RemoveSecondaryKeyword removes a keyword, reporting whether it was present
func (s *Session) RemoveSecondaryKeyword(keyword string) bool {
	s.mu.Lock()
	removed := s.keywords.Remove(keyword)
	if removed {
		s.generation++
	}
	s.mu.Unlock()

	if removed {
		s.debouncer.Trigger()
	}
	return removed
}

// SecondaryKeywords returns the current secondary keywords in order
func (s *Session) SecondaryKeywords() []string {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.keywords.List()
}

// BeginEdit enters override editing and returns the preview to start from:
// the saved override if there is one, otherwise the latest generated preview.
func (s *Session) BeginEdit() (analyzer.Preview, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if err := s.machine.Send(EventEdit); err != nil {
		return analyzer.Preview{}, err
	}

	var start analyzer.Preview
	switch {
	case s.override != nil:
		start = *s.override
	case s.report != nil:
		start = s.report.Preview
	}
	s.draft = &start
	s.logger.Debug("override editing started")
	return start, nil
}

// EditDraft records the in-progress override without publishing it
func (s *Session) EditDraft(p analyzer.Preview) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if !s.machine.Editing() {
		return fmt.Errorf("no override edit in progress (state %q)", s.machine.Current())
	}
	s.draft = &p
	return nil
}

// SaveOverride makes p the authoritative preview and schedules a recompute.
// It stays in effect until ClearOverride or a later save.
func (s *Session) SaveOverride(p analyzer.Preview) error {
	s.mu.Lock()
	if err := s.machine.Send(EventSave); err != nil {
		s.mu.Unlock()
		return err
	}
	s.override = &analyzer.Preview{Title: p.Title, Description: p.Description, URL: p.URL}
	s.draft = nil
	s.generation++
	s.mu.Unlock()

	s.logger.Debug("override saved", zap.String("title", p.Title), zap.String("url", p.URL))
	s.debouncer.Trigger()
	return nil
}

// CancelEdit discards the in-progress draft. A previously saved override is kept.
func (s *Session) CancelEdit() error {
	s.mu.Lock()
	if err := s.machine.Send(EventCancel); err != nil {
		s.mu.Unlock()
		return err
	}
	s.draft = nil
	s.generation++
	s.mu.Unlock()

	s.logger.Debug("override editing cancelled")
	s.debouncer.Trigger()
	return nil
}

// ClearOverride drops the saved override so the preview is generated again
func (s *Session) ClearOverride() {
	s.mutate(func() { s.override = nil })
}

// Draft returns the in-progress override, if an edit is underway
func (s *Session) Draft() (analyzer.Preview, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.draft == nil {
		return analyzer.Preview{}, false
	}
	return *s.draft, true
}

// Override returns the saved override, if any
func (s *Session) Override() (analyzer.Preview, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.override == nil {
		return analyzer.Preview{}, false
	}
	return *s.override, true
}

// Input returns a snapshot of what the next run will analyze
func (s *Session) Input() analyzer.Input {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.snapshot()
}

// Report returns the latest published report, or nil before the first run
func (s *Session) Report() *analyzer.Report {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.report
}

// Stale reports whether edits arrived that the published report does not reflect
func (s *Session) Stale() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.report == nil || s.published != s.generation
}

func (s *Session) State() string {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.machine.Current()
}

// Flush cancels any pending run and recomputes immediately. While the
// override is being edited nothing is recomputed and the latest published
// report is returned.
func (s *Session) Flush() *analyzer.Report {
	s.debouncer.Stop()
	s.run()
	return s.Report()
}

// Close cancels pending runs. Later edits are accepted but never analyzed.
func (s *Session) Close() {
	s.mu.Lock()
	s.closed = true
	s.mu.Unlock()
	s.debouncer.Stop()
}

// mutate applies an input change and restarts the debounce window
func (s *Session) mutate(change func()) {
	s.mu.Lock()
	change()
	s.generation++
	s.mu.Unlock()

	s.debouncer.Trigger()
}

// snapshot must be called with mu held
func (s *Session) snapshot() analyzer.Input {
	in := s.input
	in.SecondaryKeywords = s.keywords.List()
	if s.override != nil {
		o := *s.override
		in.Override = &o
	}
	return in
}

func (s *Session) run() {
	s.mu.Lock()
	if s.closed {
		s.mu.Unlock()
		return
	}
	if s.machine.Editing() {
		s.mu.Unlock()
		s.logger.Debug("recompute skipped while editing override")
		return
	}
	generation := s.generation
	in := s.snapshot()
	s.mu.Unlock()

	report := s.analyzer.Analyze(in)

	s.mu.Lock()
	if generation != s.generation || s.machine.Editing() || s.closed {
		s.mu.Unlock()
		s.logger.Debug("superseded report discarded", zap.Uint64("generation", generation))
		return
	}
	s.report = report
	s.published = generation
	onReport := s.onReport
	s.mu.Unlock()

	s.logger.Debug("report published",
		zap.Uint64("generation", generation),
		zap.Int("score", report.Score))

	if onReport != nil {
		onReport(report)
	}
}
