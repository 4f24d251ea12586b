package cli

import (
	"errors"
	"fmt"
	"io"
	"os"
	"os/signal"
	"strings"

	"github.com/spf13/cobra"

	"storefront-wizard/internal/generation"
	"storefront-wizard/internal/model"
	"storefront-wizard/internal/producturl"
	"storefront-wizard/internal/storegen"
	"storefront-wizard/internal/validate"
)

type generateResult struct {
	Run        model.GenerationRun `json:"run"`
	Storefront *model.Storefront   `json:"storefront,omitempty"`
}

func newGenerateCommand(opts *globalOptions) *cobra.Command {
	var lang string
	cmd := &cobra.Command{
		Use:   "generate <url>",
		Short: "Generate a storefront for a product link without the wizard",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			env, err := loadEnvironment(opts, false)
			if err != nil {
				return err
			}
			defer env.close()

			url, err := usableLink(args[0])
			if err != nil {
				return err
			}
			tag, err := storegen.NormalizeLanguage(defaultIfEmpty(lang, env.settings.Language))
			if err != nil {
				return err
			}

			ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt)
			defer stop()

			orch, err := env.orchestrator(ctx)
			if err != nil {
				return err
			}

			out := cmd.OutOrStdout()
			var line *progressLine
			if !opts.jsonOut {
				line = newProgressLine(out, stdoutIsTTY())
			}
			run, storefront, err := orch.Run(ctx, url, tag.String(), line.update)
			line.finish()

			if opts.jsonOut {
				res := generateResult{Run: run}
				if err == nil {
					res.Storefront = &storefront
				}
				if perr := printJSON(out, res); perr != nil {
					return perr
				}
				return err
			}
			if err != nil {
				if errors.Is(err, generation.ErrCancelled) || ctx.Err() != nil {
					return fmt.Errorf("generation cancelled (run %s)", run.ID)
				}
				return fmt.Errorf("generation failed (run %s): %w", run.ID, err)
			}
			printStorefront(out, run, storefront)
			return nil
		},
	}
	cmd.Flags().StringVar(&lang, "language", "", "storefront language (default from settings)")
	return cmd
}

// usableLink canonicalizes raw and refuses links the wizard would not let
// through to generation.
func usableLink(raw string) (string, error) {
	url := producturl.Canonicalize(raw)
	state := validate.Evaluate(url, true)
	if state.Status != model.ValidationValid {
		return "", fmt.Errorf("link is not usable: %s", defaultIfEmpty(state.Message, string(state.Status)))
	}
	return url, nil
}

func printStorefront(w io.Writer, run model.GenerationRun, sf model.Storefront) {
	fmt.Fprintln(w, kv("run_id", run.ID))
	fmt.Fprintln(w, kv("status", string(run.Status)))
	fmt.Fprintln(w, kv("elapsed", formatElapsed(run.StartedAt, run.FinishedAt)))
	fmt.Fprintln(w, kv("source", sf.SourceURL))
	fmt.Fprintln(w, kv("kind", sf.Kind.Label()))
	fmt.Fprintln(w, kv("language", sf.Language))
	fmt.Fprintln(w, kv("title", sf.Title))
	if sf.Tagline != "" {
		fmt.Fprintln(w, kv("tagline", sf.Tagline))
	}
	fmt.Fprintln(w, kv("price", formatPrice(sf.Price, sf.Currency)))
	if len(sf.Features) > 0 {
		fmt.Fprintln(w, "features:")
		for _, f := range sf.Features {
			fmt.Fprintf(w, "  - %s\n", f)
		}
	}
	if sf.SEOTitle != "" {
		fmt.Fprintln(w, kv("seo_title", sf.SEOTitle))
	}
	fmt.Fprintln(w, "description:")
	fmt.Fprintln(w, strings.TrimSpace(sf.Description))
}

// progressLine redraws a single status line on a terminal, or prints one line
// per stage when output is not a terminal.
type progressLine struct {
	w     io.Writer
	live  bool
	last  string
	stage int
}

func newProgressLine(w io.Writer, live bool) *progressLine {
	return &progressLine{w: w, live: live}
}

func (p *progressLine) update(run model.GenerationRun) {
	if p == nil {
		return
	}
	if !p.live {
		if run.Stage != p.stage {
			p.stage = run.Stage
			fmt.Fprintln(p.w, renderStage(run))
		}
		return
	}
	line := renderProgress(run)
	if line == p.last {
		return
	}
	p.last = line
	fmt.Fprintf(p.w, "\r\033[2K%s", line)
}

func (p *progressLine) finish() {
	if p == nil || !p.live || p.last == "" {
		return
	}
	fmt.Fprintln(p.w)
}

func renderStage(run model.GenerationRun) string {
	return fmt.Sprintf("[%d/%d] %s", run.Stage, model.MaxStage, generation.StageText(run.Stage))
}

func renderProgress(run model.GenerationRun) string {
	parts := []string{renderStage(run), fmt.Sprintf("%3.0f%%", run.Percent)}
	if run.Preview != nil && run.Preview.Title != "" {
		parts = append(parts, "| "+truncateRunes(run.Preview.Title, 52))
	}
	return strings.Join(parts, "  ")
}
