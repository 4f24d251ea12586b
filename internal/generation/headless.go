package generation

import (
	"context"
	"errors"
	"io"

	tea "github.com/charmbracelet/bubbletea"

	"storefront-wizard/internal/model"
)

// Run drives one generation to a terminal status without a terminal UI.
// onProgress, when set, sees the run after every event that may move it.
func (o *Orchestrator) Run(ctx context.Context, url, language string, onProgress func(model.GenerationRun)) (model.GenerationRun, model.Storefront, error) {
	h := &headless{ctx: ctx, o: o, url: url, language: language, onProgress: onProgress}
	p := tea.NewProgram(h,
		tea.WithContext(ctx),
		tea.WithInput(nil),
		tea.WithOutput(io.Discard),
		tea.WithoutRenderer(),
		tea.WithoutSignalHandler(),
	)
	if _, err := p.Run(); err != nil {
		if ctx.Err() == nil {
			return model.GenerationRun{}, model.Storefront{}, err
		}
		if cmd := o.Cancel(); cmd != nil {
			cmd()
		}
		run, _ := o.Snapshot()
		return run, model.Storefront{}, ctx.Err()
	}
	run, _ := o.Snapshot()
	if h.err != nil {
		return run, model.Storefront{}, h.err
	}
	if h.storefront == nil {
		return run, model.Storefront{}, errors.New("generation ended without a result")
	}
	return run, *h.storefront, nil
}

type headless struct {
	ctx        context.Context
	o          *Orchestrator
	url        string
	language   string
	onProgress func(model.GenerationRun)

	storefront *model.Storefront
	err        error
}

func (h *headless) Init() tea.Cmd {
	cmd := h.o.Start(h.ctx, h.url, h.language)
	h.report()
	return cmd
}

func (h *headless) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg.(type) {
	case CompletedMsg, FailedMsg, CancelledMsg:
		h.report()
	}
	switch msg := msg.(type) {
	case CompletedMsg:
		sf := msg.Storefront
		h.storefront = &sf
		return h, tea.Quit
	case FailedMsg:
		h.err = msg.Err
		return h, tea.Quit
	case CancelledMsg:
		h.err = ErrCancelled
		return h, tea.Quit
	}
	cmd := h.o.Update(msg)
	h.report()
	return h, cmd
}

func (h *headless) View() string { return "" }

func (h *headless) report() {
	if h.onProgress == nil {
		return
	}
	if run, ok := h.o.Snapshot(); ok {
		h.onProgress(run)
	}
}
