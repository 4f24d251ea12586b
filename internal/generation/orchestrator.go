// Package generation drives one storefront generation run: a time-based
// progress estimate raised by checkpoints from the preview and final calls.
package generation

import (
	"context"
	"errors"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/oklog/ulid/v2"
	"go.uber.org/zap"

	"storefront-wizard/internal/model"
	"storefront-wizard/internal/timer"
)

const (
	DefaultSampleInterval = 100 * time.Millisecond
	DefaultSettleDelay    = 1500 * time.Millisecond
)

// ErrCancelled is reported for runs abandoned before the final call resolved.
var ErrCancelled = errors.New("generation cancelled")

// Previewer is the fast, best-effort call. Its failures never reach the user.
type Previewer interface {
	FetchPreview(ctx context.Context, url string) (model.Preview, error)
}

// Generator is the authoritative call; its failure fails the run.
type Generator interface {
	Generate(ctx context.Context, url, language string) (model.Storefront, error)
}

// Archiver persists runs that reached a terminal status.
type Archiver interface {
	Archive(run model.GenerationRun, storefront *model.Storefront) error
}

type PreviewMsg struct {
	Token   uint64
	Preview model.Preview
	Err     error
}

type FinalMsg struct {
	Token      uint64
	Storefront model.Storefront
	Err        error
}

type CompletedMsg struct {
	Run        model.GenerationRun
	Storefront model.Storefront
	ArchiveErr error
}

type FailedMsg struct {
	Run        model.GenerationRun
	Err        error
	ArchiveErr error
}

type CancelledMsg struct {
	Run        model.GenerationRun
	ArchiveErr error
}

type Option func(*Orchestrator)

func WithLogger(log *zap.Logger) Option {
	return func(o *Orchestrator) {
		if log != nil {
			o.log = log
		}
	}
}

func WithArchiver(a Archiver) Option {
	return func(o *Orchestrator) { o.archiver = a }
}

func WithClock(now func() time.Time) Option {
	return func(o *Orchestrator) {
		if now != nil {
			o.now = now
		}
	}
}

func WithSampleInterval(d time.Duration) Option {
	return func(o *Orchestrator) {
		if d > 0 {
			o.sampleEvery = d
		}
	}
}

func WithSettleDelay(d time.Duration) Option {
	return func(o *Orchestrator) {
		if d > 0 {
			o.settleDelay = d
		}
	}
}

func WithRunIDs(next func() string) Option {
	return func(o *Orchestrator) {
		if next != nil {
			o.newID = next
		}
	}
}

// Orchestrator owns the current GenerationRun. All methods must be called
// from the event loop; the collaborator calls run in commands and report
// back through PreviewMsg and FinalMsg tagged with the run token.
type Orchestrator struct {
	previewer Previewer
	generator Generator
	archiver  Archiver

	sampler     *timer.Slot
	settle      *timer.Slot
	sampleEvery time.Duration
	settleDelay time.Duration
	now         func() time.Time
	newID       func() string
	log         *zap.Logger

	token      uint64
	run        *model.GenerationRun
	cancel     context.CancelFunc
	storefront *model.Storefront
}

func New(previewer Previewer, generator Generator, opts ...Option) *Orchestrator {
	o := &Orchestrator{
		previewer:   previewer,
		generator:   generator,
		sampler:     timer.NewSlot("progress"),
		settle:      timer.NewSlot("settle"),
		sampleEvery: DefaultSampleInterval,
		settleDelay: DefaultSettleDelay,
		now:         time.Now,
		newID:       func() string { return ulid.Make().String() },
		log:         zap.NewNop(),
	}
	for _, opt := range opts {
		opt(o)
	}
	return o
}

// Snapshot returns a copy of the current run, if any.
func (o *Orchestrator) Snapshot() (model.GenerationRun, bool) {
	if o.run == nil {
		return model.GenerationRun{}, false
	}
	return *o.run, true
}

// Progress is what the display surface shows: stage 1..4 and percent.
func (o *Orchestrator) Progress() (int, float64) {
	if o.run == nil {
		return model.MinStage, 0
	}
	return o.run.Stage, o.run.Percent
}

func (o *Orchestrator) Active() bool {
	return o.run != nil && o.run.Status == model.RunRunning
}

// Start abandons any run still in progress and begins a new one.
func (o *Orchestrator) Start(ctx context.Context, url, language string) tea.Cmd {
	var abandon tea.Cmd
	if o.Active() {
		abandon = o.Cancel()
	}

	o.token++
	run := &model.GenerationRun{
		ID:        o.newID(),
		Token:     o.token,
		URL:       url,
		Language:  language,
		StartedAt: o.now(),
		Stage:     model.MinStage,
	}
	if err := model.TransitionRun(run, model.RunRunning); err != nil {
		o.log.Error("start run", zap.Error(err))
		return abandon
	}
	o.run = run
	o.storefront = nil

	runCtx, cancel := context.WithCancel(ctx)
	o.cancel = cancel

	o.log.Info("generation started",
		zap.String("run_id", run.ID),
		zap.String("url", url),
		zap.String("language", language),
	)
	return tea.Batch(
		abandon,
		o.sampler.Start(o.sampleEvery),
		o.fetchPreview(runCtx, run.Token, url),
		o.fetchFinal(runCtx, run.Token, url, language),
	)
}

// Cancel abandons the current run. Messages still in flight from it are
// dropped by the token check.
func (o *Orchestrator) Cancel() tea.Cmd {
	if !o.Active() {
		o.stopTimers()
		return nil
	}
	o.stopTimers()
	o.abort()
	o.token++
	if err := model.TransitionRun(o.run, model.RunCancelled); err != nil {
		o.log.Error("cancel run", zap.Error(err))
		return nil
	}
	o.run.FinishedAt = o.now()
	o.run.Error = ErrCancelled.Error()
	o.log.Info("generation cancelled", zap.String("run_id", o.run.ID))

	run := *o.run
	return o.archive(run, nil, func(archiveErr error) tea.Msg {
		return CancelledMsg{Run: run, ArchiveErr: archiveErr}
	})
}

func (o *Orchestrator) Update(msg tea.Msg) tea.Cmd {
	switch msg := msg.(type) {
	case timer.FiredMsg:
		if o.sampler.Accept(msg) {
			return o.sample()
		}
		if o.settle.Accept(msg) {
			return o.succeed()
		}
		if o.sampler.Owns(msg) || o.settle.Owns(msg) {
			o.log.Debug("stale timer dropped", zap.String("purpose", msg.Purpose))
		}
	case PreviewMsg:
		o.onPreview(msg)
	case FinalMsg:
		return o.onFinal(msg)
	}
	return nil
}

func (o *Orchestrator) sample() tea.Cmd {
	if !o.Active() || o.run.FinalCheckpointApplied {
		return nil
	}
	stage, pct := Interpolate(o.now().Sub(o.run.StartedAt))
	o.run.Raise(stage, pct)
	return o.sampler.Start(o.sampleEvery)
}

func (o *Orchestrator) onPreview(msg PreviewMsg) {
	if !o.current(msg.Token) || o.run.FinalCheckpointApplied {
		o.log.Debug("stale preview dropped", zap.Uint64("token", msg.Token))
		return
	}
	if msg.Err != nil {
		o.log.Warn("preview failed", zap.String("run_id", o.run.ID), zap.Error(msg.Err))
		return
	}
	if !msg.Preview.Success {
		return
	}
	p := msg.Preview
	o.run.Preview = &p
	if o.run.Apply(model.PreviewCheckpoint) {
		o.log.Debug("preview checkpoint applied",
			zap.String("run_id", o.run.ID),
			zap.Int("stage", o.run.Stage),
			zap.Float64("percent", o.run.Percent),
		)
	}
}

func (o *Orchestrator) onFinal(msg FinalMsg) tea.Cmd {
	if !o.current(msg.Token) || o.run.FinalCheckpointApplied {
		o.log.Debug("stale final result dropped", zap.Uint64("token", msg.Token))
		return nil
	}
	o.sampler.Stop()

	if msg.Err != nil {
		o.abort()
		o.run.Reset()
		if err := model.TransitionRun(o.run, model.RunFailed); err != nil {
			o.log.Error("fail run", zap.Error(err))
			return nil
		}
		o.run.FinishedAt = o.now()
		o.run.Error = msg.Err.Error()
		o.log.Info("generation failed", zap.String("run_id", o.run.ID), zap.Error(msg.Err))

		run, cause := *o.run, msg.Err
		return o.archive(run, nil, func(archiveErr error) tea.Msg {
			return FailedMsg{Run: run, Err: cause, ArchiveErr: archiveErr}
		})
	}

	o.run.Apply(model.FinalCheckpoint)
	sf := msg.Storefront
	o.storefront = &sf
	// The preview call is irrelevant from here on.
	o.abort()
	return o.settle.Start(o.settleDelay)
}

func (o *Orchestrator) succeed() tea.Cmd {
	if !o.Active() || o.storefront == nil {
		return nil
	}
	if err := model.TransitionRun(o.run, model.RunSucceeded); err != nil {
		o.log.Error("complete run", zap.Error(err))
		return nil
	}
	o.run.FinishedAt = o.now()
	o.log.Info("generation succeeded",
		zap.String("run_id", o.run.ID),
		zap.String("product_id", o.storefront.ProductID),
		zap.Duration("elapsed", o.run.FinishedAt.Sub(o.run.StartedAt)),
	)

	run, sf := *o.run, *o.storefront
	return o.archive(run, &sf, func(archiveErr error) tea.Msg {
		return CompletedMsg{Run: run, Storefront: sf, ArchiveErr: archiveErr}
	})
}

func (o *Orchestrator) current(token uint64) bool {
	return o.run != nil && token == o.token && o.run.Status == model.RunRunning
}

func (o *Orchestrator) stopTimers() {
	o.sampler.Stop()
	o.settle.Stop()
}

func (o *Orchestrator) abort() {
	if o.cancel != nil {
		o.cancel()
		o.cancel = nil
	}
}

func (o *Orchestrator) archive(run model.GenerationRun, sf *model.Storefront, done func(error) tea.Msg) tea.Cmd {
	archiver, log := o.archiver, o.log
	return func() tea.Msg {
		if archiver == nil {
			return done(nil)
		}
		err := archiver.Archive(run, sf)
		if err != nil {
			log.Warn("archive run", zap.String("run_id", run.ID), zap.Error(err))
		}
		return done(err)
	}
}

func (o *Orchestrator) fetchPreview(ctx context.Context, token uint64, url string) tea.Cmd {
	if o.previewer == nil {
		return nil
	}
	previewer := o.previewer
	return func() tea.Msg {
		p, err := previewer.FetchPreview(ctx, url)
		return PreviewMsg{Token: token, Preview: p, Err: err}
	}
}

func (o *Orchestrator) fetchFinal(ctx context.Context, token uint64, url, language string) tea.Cmd {
	generator := o.generator
	return func() tea.Msg {
		if generator == nil {
			return FinalMsg{Token: token, Err: errors.New("no generator configured")}
		}
		sf, err := generator.Generate(ctx, url, language)
		return FinalMsg{Token: token, Storefront: sf, Err: err}
	}
}
