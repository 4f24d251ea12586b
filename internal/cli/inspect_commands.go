package cli

import (
	"fmt"
	"io"
	"strings"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/spf13/cobra"

	"storefront-wizard/internal/model"
	"storefront-wizard/internal/producturl"
	"storefront-wizard/internal/validate"
)

type classifyResult struct {
	Input string `json:"input"`
	model.ClassificationResult
	Canonical string `json:"canonical"`
}

func newClassifyCommand(opts *globalOptions) *cobra.Command {
	return &cobra.Command{
		Use:   "classify <url>...",
		Short: "Recognize product links and print their canonical form",
		Args:  cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			results := make([]classifyResult, 0, len(args))
			for _, raw := range args {
				res := producturl.Classify(raw)
				results = append(results, classifyResult{
					Input:                raw,
					ClassificationResult: res,
					Canonical:            producturl.CanonicalizeWith(raw, res),
				})
			}
			out := cmd.OutOrStdout()
			if opts.jsonOut {
				return printJSON(out, results)
			}
			for i, r := range results {
				if i > 0 {
					fmt.Fprintln(out)
				}
				fmt.Fprintln(out, kv("input", r.Input))
				fmt.Fprintln(out, kv("kind", string(r.Kind)))
				fmt.Fprintln(out, kv("pattern", defaultIfEmpty(r.MatchedPattern, "-")))
				fmt.Fprintln(out, kv("id", defaultIfEmpty(r.CapturedID, "-")))
				fmt.Fprintln(out, kv("canonical", r.Canonical))
			}
			return nil
		},
	}
}

type validateResult struct {
	Input     string                `json:"input"`
	Value     string                `json:"value"`
	Corrected bool                  `json:"corrected"`
	State     model.ValidationState `json:"state"`
}

func newValidateCommand(opts *globalOptions) *cobra.Command {
	var paste bool
	cmd := &cobra.Command{
		Use:   "validate <url>",
		Short: "Run a link through the same debounced checks the wizard uses",
		Long: `validate feeds the link to the wizard's input field as if it had been typed
(or pasted, with --paste), waits for the debounce and auto-correct timers, and
prints the settled validation state. It exits non-zero for links that cannot
be used for generation.`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			env, err := loadEnvironment(opts, false)
			if err != nil {
				return err
			}
			defer env.close()

			raw := args[0]
			field := validate.NewField(env.fieldConfig(), validate.WithLogger(env.log))
			defer field.Teardown()
			if paste {
				settleField(field, field.Paste(raw))
			} else {
				settleField(field, field.SetValue(raw))
			}

			res := validateResult{
				Input:     raw,
				Value:     field.Value(),
				Corrected: field.Value() != raw,
				State:     field.State(),
			}
			if opts.jsonOut {
				if err := printJSON(cmd.OutOrStdout(), res); err != nil {
					return err
				}
			} else {
				printValidateResult(cmd.OutOrStdout(), res)
			}
			if res.State.Status != model.ValidationValid {
				return fmt.Errorf("link is not usable: %s", defaultIfEmpty(res.State.Message, string(res.State.Status)))
			}
			return nil
		},
	}
	cmd.Flags().BoolVar(&paste, "paste", false, "treat the link as pasted (correct immediately)")
	return cmd
}

func printValidateResult(w io.Writer, res validateResult) {
	fmt.Fprintln(w, kv("value", res.Value))
	if res.Corrected {
		fmt.Fprintln(w, kv("corrected_from", res.Input))
	}
	fmt.Fprintln(w, kv("status", string(res.State.Status)))
	fmt.Fprintln(w, kv("kind", string(res.State.Kind)))
	if strings.TrimSpace(res.State.Message) != "" {
		fmt.Fprintln(w, kv("message", res.State.Message))
	}
}

// settleField runs a field's timer commands one at a time and feeds their
// messages back until nothing is pending.
func settleField(f *validate.Field, cmd tea.Cmd) {
	queue := []tea.Cmd{cmd}
	for len(queue) > 0 {
		next := queue[0]
		queue = queue[1:]
		if next == nil {
			continue
		}
		switch msg := next().(type) {
		case nil:
		case tea.BatchMsg:
			queue = append(queue, msg...)
		default:
			queue = append(queue, f.Update(msg))
		}
	}
}
