package cli

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/progress"
	"github.com/charmbracelet/bubbles/spinner"
	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/spf13/cobra"

	"storefront-wizard/internal/generation"
	"storefront-wizard/internal/model"
	"storefront-wizard/internal/storegen"
	"storefront-wizard/internal/validate"
)

type wizardStep int

const (
	wizardStepInput wizardStep = iota
	wizardStepGenerating
	wizardStepDone
	wizardStepFailed
)

type wizardFocus int

const (
	wizardFocusURL wizardFocus = iota
	wizardFocusLanguage
)

type wizardFlags struct {
	url      string
	language string
}

type wizardLanguage struct {
	code string
	name string
}

type wizardModel struct {
	ctx   context.Context
	field *validate.Field
	orch  *generation.Orchestrator

	input textinput.Model
	spin  spinner.Model
	bar   progress.Model

	languages []wizardLanguage
	langIndex int
	focus     wizardFocus
	step      wizardStep

	runURL     string
	runLang    string
	lastRun    model.GenerationRun
	storefront model.Storefront
	err        error
	notice     string
	initCmd    tea.Cmd

	// Set by the paste key until the clipboard read lands in the input.
	clipboardPending bool

	width  int
	height int
}

func newWizardCommand(opts *globalOptions) *cobra.Command {
	var flags wizardFlags
	cmd := &cobra.Command{
		Use:   "wizard [url]",
		Short: "Open the interactive storefront wizard",
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			if len(args) == 1 {
				flags.url = args[0]
			}
			return runWizard(cmd, opts, flags)
		},
	}
	cmd.Flags().StringVar(&flags.language, "language", "", "preselected storefront language (default from settings)")
	return cmd
}

func runWizard(cmd *cobra.Command, opts *globalOptions, flags wizardFlags) error {
	if !stdinIsTTY() {
		return errors.New("wizard requires an interactive terminal (TTY)")
	}
	env, err := loadEnvironment(opts, true)
	if err != nil {
		return err
	}
	defer env.close()

	tag, err := storegen.NormalizeLanguage(defaultIfEmpty(flags.language, env.settings.Language))
	if err != nil {
		return err
	}
	ctx := cmd.Context()
	orch, err := env.orchestrator(ctx)
	if err != nil {
		return err
	}
	field := validate.NewField(env.fieldConfig(), validate.WithLogger(env.log))

	m := newWizardModel(ctx, field, orch, tag.String(), flags.url)
	p := tea.NewProgram(m, tea.WithAltScreen(), tea.WithReportFocus(), tea.WithContext(ctx))
	finalModel, err := p.Run()
	if err != nil {
		if strings.Contains(strings.ToLower(err.Error()), "tty") {
			return errors.New("wizard requires an interactive terminal (TTY)")
		}
		return err
	}
	if fm, ok := finalModel.(wizardModel); ok && fm.step == wizardStepDone {
		fmt.Fprintf(cmd.OutOrStdout(), "storefront %q saved as run %s\n", fm.storefront.Title, fm.lastRun.ID)
	}
	return nil
}

func newWizardModel(ctx context.Context, field *validate.Field, orch *generation.Orchestrator, lang, url string) wizardModel {
	input := textinput.New()
	input.Placeholder = "https://www.aliexpress.com/item/1005001234567890.html"
	input.Prompt = "> "
	input.CharLimit = 2048
	input.Width = 72
	input.Focus()

	m := wizardModel{
		ctx:   ctx,
		field: field,
		orch:  orch,
		input: input,
		spin:  spinner.New(spinner.WithSpinner(spinner.Dot)),
		bar:   progress.New(progress.WithDefaultGradient(), progress.WithWidth(72)),
	}
	for i, code := range storegen.SupportedLanguages() {
		name := code
		if tag, err := storegen.NormalizeLanguage(code); err == nil {
			name = storegen.LanguageName(tag)
		}
		m.languages = append(m.languages, wizardLanguage{code: code, name: name})
		if code == lang {
			m.langIndex = i
		}
	}
	if strings.TrimSpace(url) != "" {
		m.input.SetValue(url)
		m.initCmd = field.Paste(url)
		m.syncInput()
	}
	return m
}

func (m wizardModel) Init() tea.Cmd {
	return tea.Batch(textinput.Blink, m.spin.Tick, m.initCmd)
}

func (m wizardModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		m.input.Width = maxInt(msg.Width-8, 20)
		m.bar.Width = maxInt(msg.Width-8, 20)
		return m, nil
	case spinner.TickMsg:
		var cmd tea.Cmd
		m.spin, cmd = m.spin.Update(msg)
		return m, cmd
	case tea.BlurMsg:
		return m, m.blurURL()
	case tea.KeyMsg:
		return m.updateKey(msg)
	case generation.CompletedMsg:
		m.step = wizardStepDone
		m.lastRun = msg.Run
		m.storefront = msg.Storefront
		m.notice = archiveNotice(msg.ArchiveErr)
		return m, nil
	case generation.FailedMsg:
		m.step = wizardStepFailed
		m.lastRun = msg.Run
		m.err = msg.Err
		m.notice = archiveNotice(msg.ArchiveErr)
		return m, nil
	case generation.CancelledMsg:
		if msg.ArchiveErr != nil {
			m.notice = archiveNotice(msg.ArchiveErr)
		}
		return m, nil
	}

	var cmds []tea.Cmd
	if m.step == wizardStepInput {
		// Cursor blinks and clipboard reads land in the input first.
		var cmd tea.Cmd
		m.input, cmd = m.input.Update(msg)
		cmds = append(cmds, cmd)
		if v := m.input.Value(); v != m.field.Value() {
			if m.clipboardPending {
				cmds = append(cmds, m.field.Paste(v))
			} else {
				cmds = append(cmds, m.field.SetValue(v))
			}
			m.clipboardPending = false
		}
	}
	cmds = append(cmds, m.field.Update(msg), m.orch.Update(msg))
	m.syncInput()
	return m, tea.Batch(cmds...)
}

func (m wizardModel) updateKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	if msg.String() == "ctrl+c" {
		return m, m.quit()
	}

	switch m.step {
	case wizardStepGenerating:
		if msg.String() == "esc" {
			m.step = wizardStepInput
			m.notice = "generation cancelled"
			return m, tea.Batch(m.orch.Cancel(), m.input.Focus())
		}
		return m, nil
	case wizardStepDone:
		switch msg.String() {
		case "n":
			return m.restart()
		case "q", "esc", "enter":
			return m, m.quit()
		}
		return m, nil
	case wizardStepFailed:
		switch msg.String() {
		case "r":
			return m.startGeneration(m.runURL, m.runLang)
		case "e", "esc":
			m.step = wizardStepInput
			m.err = nil
			return m, m.input.Focus()
		case "q":
			return m, m.quit()
		}
		return m, nil
	}

	switch msg.String() {
	case "esc":
		return m, m.quit()
	case "tab", "shift+tab":
		return m.toggleFocus()
	case "enter":
		if !m.field.Ready() {
			m.notice = "enter a supported product link first"
			return m, nil
		}
		return m.startGeneration(m.field.Canonical(), m.languages[m.langIndex].code)
	}

	if m.focus == wizardFocusLanguage {
		n := len(m.languages)
		switch msg.String() {
		case "left", "h", "up", "k":
			m.langIndex = (m.langIndex + n - 1) % n
		case "right", "l", "down", "j", " ":
			m.langIndex = (m.langIndex + 1) % n
		}
		return m, nil
	}

	m.notice = ""
	m.clipboardPending = key.Matches(msg, m.input.KeyMap.Paste)
	var inputCmd tea.Cmd
	m.input, inputCmd = m.input.Update(msg)
	var fieldCmd tea.Cmd
	if msg.Paste {
		fieldCmd = m.field.Paste(m.input.Value())
	} else {
		fieldCmd = m.field.SetValue(m.input.Value())
	}
	m.syncInput()
	return m, tea.Batch(inputCmd, fieldCmd)
}

func (m wizardModel) toggleFocus() (tea.Model, tea.Cmd) {
	if m.focus == wizardFocusURL {
		m.focus = wizardFocusLanguage
		m.input.Blur()
		return m, m.blurURL()
	}
	m.focus = wizardFocusURL
	return m, m.input.Focus()
}

// blurURL applies the immediate auto-correction that leaving the field gets.
func (m *wizardModel) blurURL() tea.Cmd {
	if m.step != wizardStepInput {
		return nil
	}
	cmd := m.field.Blur()
	m.syncInput()
	return cmd
}

func (m wizardModel) startGeneration(url, lang string) (tea.Model, tea.Cmd) {
	m.runURL = url
	m.runLang = lang
	m.step = wizardStepGenerating
	m.err = nil
	m.notice = ""
	m.input.Blur()
	return m, m.orch.Start(m.ctx, url, lang)
}

func (m wizardModel) restart() (tea.Model, tea.Cmd) {
	m.step = wizardStepInput
	m.focus = wizardFocusURL
	m.storefront = model.Storefront{}
	m.err = nil
	m.notice = ""
	m.input.SetValue("")
	return m, tea.Batch(m.field.SetValue(""), m.input.Focus())
}

func (m wizardModel) quit() tea.Cmd {
	m.field.Teardown()
	return tea.Sequence(m.orch.Cancel(), tea.Quit)
}

// syncInput mirrors corrections made by the field back into the text input.
func (m *wizardModel) syncInput() {
	if m.input.Value() == m.field.Value() {
		return
	}
	m.input.SetValue(m.field.Value())
	m.input.CursorEnd()
}

func archiveNotice(err error) string {
	if err == nil {
		return ""
	}
	return "run was not saved: " + err.Error()
}

func (m wizardModel) View() string {
	width := maxInt(m.width, 60)
	header := wizardTitleStyle.Render("storefront-wizard") + "\n" + wizardMutedStyle.Render(m.hints())

	var body string
	switch m.step {
	case wizardStepGenerating:
		body = m.viewGenerating(width)
	case wizardStepDone:
		body = m.viewDone(width)
	case wizardStepFailed:
		body = m.viewFailed(width)
	default:
		body = m.viewInput(width)
	}

	parts := []string{header, body}
	if m.notice != "" {
		parts = append(parts, wizardMutedStyle.Render(m.notice))
	}
	return lipgloss.JoinVertical(lipgloss.Left, parts...)
}

func (m wizardModel) hints() string {
	switch m.step {
	case wizardStepGenerating:
		return "esc: cancel | ctrl+c: quit"
	case wizardStepDone:
		return "n: new storefront | enter/q: quit"
	case wizardStepFailed:
		return "r: retry | e: edit link | q: quit"
	default:
		return "tab: switch field | left/right: language | enter: generate | esc: quit"
	}
}

func (m wizardModel) viewInput(width int) string {
	lines := []string{"Product link", m.input.View(), m.statusLine(width - 4), ""}

	langs := make([]string, 0, len(m.languages))
	for i, l := range m.languages {
		label := " " + l.name + " "
		if i == m.langIndex {
			if m.focus == wizardFocusLanguage {
				label = wizardSelStyle.Render(label)
			} else {
				label = wizardOKStyle.Render(label)
			}
		} else {
			label = wizardMutedStyle.Render(label)
		}
		langs = append(langs, label)
	}
	lines = append(lines, "Language", strings.Join(langs, " "))
	return wizardPanelStyle.Width(width).Render(strings.Join(lines, "\n"))
}

func (m wizardModel) statusLine(width int) string {
	state := m.field.State()
	switch state.Status {
	case model.ValidationValidating:
		return m.spin.View() + " " + wizardMutedStyle.Render(wrapOrTrim(defaultIfEmpty(state.Message, validate.MsgChecking), width-2))
	case model.ValidationValid:
		return wizardOKStyle.Render(wrapOrTrim("✓ "+state.Message, width))
	case model.ValidationInvalid:
		return wizardErrorStyle.Render(wrapOrTrim("✗ "+state.Message, width))
	default:
		return wizardMutedStyle.Render(wrapOrTrim("Paste an AliExpress, Amazon or Shopify product link", width))
	}
}

func (m wizardModel) viewGenerating(width int) string {
	run, _ := m.orch.Snapshot()
	lines := []string{
		m.spin.View() + " " + fmt.Sprintf("Step %d/%d · %s", run.Stage, model.MaxStage, generation.StageText(run.Stage)),
		m.bar.ViewAs(run.Percent / model.MaxPercent),
		wizardMutedStyle.Render(wrapOrTrim(m.runURL, width-4)),
	}
	if p := run.Preview; p != nil {
		lines = append(lines, "")
		if p.Title != "" {
			lines = append(lines, kv("Found", wrapOrTrim(p.Title, width-11)))
		}
		if p.Price != "" {
			lines = append(lines, kv("Price", formatPrice(p.Price, p.Currency)))
		}
	}
	return wizardPanelStyle.Width(width).Render(strings.Join(lines, "\n"))
}

func (m wizardModel) viewDone(width int) string {
	sf := m.storefront
	lines := []string{
		wizardOKStyle.Render("✓ Storefront ready"),
		"",
		wizardTitleStyle.Render(wrapOrTrim(sf.Title, width-4)),
	}
	if sf.Tagline != "" {
		lines = append(lines, wrapOrTrim(sf.Tagline, width-4))
	}
	lines = append(lines, "", kv("Price", formatPrice(sf.Price, sf.Currency)), kv("Language", sf.Language))
	if len(sf.Features) > 0 {
		lines = append(lines, "Features:")
		for i, f := range sf.Features {
			if i == 6 {
				lines = append(lines, wizardMutedStyle.Render(fmt.Sprintf("  ... %d more", len(sf.Features)-i)))
				break
			}
			lines = append(lines, "  • "+wrapOrTrim(f, width-8))
		}
	}
	lines = append(lines, "", wizardMutedStyle.Render(kv("Saved as run", defaultIfEmpty(m.lastRun.ID, "-"))))
	return wizardPanelStyle.Width(width).Render(strings.Join(lines, "\n"))
}

func (m wizardModel) viewFailed(width int) string {
	msg := "generation failed"
	if m.err != nil {
		msg = m.err.Error()
	}
	lines := []string{
		wizardErrorStyle.Render("Generation failed"),
		wrapOrTrim(msg, width-4),
		"",
		wizardMutedStyle.Render(wrapOrTrim(m.runURL, width-4)),
	}
	return wizardPanelStyle.Width(width).Render(strings.Join(lines, "\n"))
}
