package cli

import (
	"errors"
	"fmt"
	"io"
	"os"
	"strings"
	"time"

	"github.com/spf13/cobra"

	"storefront-wizard/internal/model"
	"storefront-wizard/internal/runstore"
)

func newRunsCommand(opts *globalOptions) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "runs",
		Short: "Inspect archived generation runs",
	}
	cmd.AddCommand(newRunsListCommand(opts), newRunsShowCommand(opts))
	return cmd
}

func newRunsListCommand(opts *globalOptions) *cobra.Command {
	var limit int
	cmd := &cobra.Command{
		Use:   "list",
		Short: "List archived runs, newest first",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			env, err := loadEnvironment(opts, false)
			if err != nil {
				return err
			}
			defer env.close()

			runs, err := runstore.ListRuns(env.settings.RunsDir)
			if err != nil {
				return err
			}
			newest := make([]runstore.RunMeta, 0, len(runs))
			for i := len(runs) - 1; i >= 0; i-- {
				newest = append(newest, runs[i])
				if limit > 0 && len(newest) == limit {
					break
				}
			}

			out := cmd.OutOrStdout()
			if opts.jsonOut {
				return printJSON(out, newest)
			}
			if len(newest) == 0 {
				fmt.Fprintf(out, "no runs in %s\n", env.settings.RunsDir)
				return nil
			}
			fmt.Fprintf(out, "%-26s  %-9s  %-20s  %-8s  %s\n", "RUN ID", "STATUS", "STARTED", "ELAPSED", "URL")
			for _, r := range newest {
				fmt.Fprintf(out, "%-26s  %-9s  %-20s  %-8s  %s\n",
					r.ID,
					r.Status,
					formatStarted(r.StartedAt),
					formatElapsed(r.StartedAt, r.FinishedAt),
					truncateRunes(r.URL, 72),
				)
			}
			return nil
		},
	}
	cmd.Flags().IntVar(&limit, "limit", 20, "maximum runs to list (0 = all)")
	return cmd
}

func newRunsShowCommand(opts *globalOptions) *cobra.Command {
	var latest bool
	var html bool
	cmd := &cobra.Command{
		Use:   "show [run-id]",
		Short: "Show one archived run and its storefront",
		Long:  "show prints a run by id (or unique id prefix). Without an id, or with --latest, it shows the newest run.",
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			env, err := loadEnvironment(opts, false)
			if err != nil {
				return err
			}
			defer env.close()

			var runDir string
			if latest || len(args) == 0 {
				runDir, err = runstore.LatestRunDir(env.settings.RunsDir)
			} else {
				runDir, err = runstore.FindRunDir(env.settings.RunsDir, args[0])
			}
			if err != nil {
				return err
			}
			meta, err := runstore.LoadRunMeta(runDir)
			if err != nil {
				return err
			}

			var storefront *model.Storefront
			if meta.StorefrontPath != "" {
				sf, err := runstore.LoadStorefront(runDir)
				if err != nil && !errors.Is(err, os.ErrNotExist) {
					return err
				}
				if err == nil {
					storefront = &sf
				}
			}

			out := cmd.OutOrStdout()
			if opts.jsonOut {
				return printJSON(out, generateResult{Run: meta.GenerationRun, Storefront: storefront})
			}
			if storefront == nil {
				printRunMeta(out, meta)
				return nil
			}
			printStorefront(out, meta.GenerationRun, *storefront)
			if html {
				fmt.Fprintln(out, "description_html:")
				fmt.Fprintln(out, strings.TrimSpace(storefront.DescriptionHTML))
			}
			return nil
		},
	}
	cmd.Flags().BoolVar(&latest, "latest", false, "show the newest run")
	cmd.Flags().BoolVar(&html, "html", false, "also print the rendered description HTML")
	return cmd
}

func printRunMeta(w io.Writer, meta runstore.RunMeta) {
	fmt.Fprintln(w, kv("run_id", meta.ID))
	fmt.Fprintln(w, kv("status", string(meta.Status)))
	fmt.Fprintln(w, kv("url", meta.URL))
	fmt.Fprintln(w, kv("language", meta.Language))
	fmt.Fprintln(w, kv("started", formatStarted(meta.StartedAt)))
	fmt.Fprintln(w, kv("elapsed", formatElapsed(meta.StartedAt, meta.FinishedAt)))
	fmt.Fprintln(w, kv("progress", fmt.Sprintf("stage %d/%d, %.0f%%", meta.Stage, model.MaxStage, meta.Percent)))
	if meta.Error != "" {
		fmt.Fprintln(w, kv("error", meta.Error))
	}
}

func formatStarted(t time.Time) string {
	if t.IsZero() {
		return "-"
	}
	return t.Local().Format("2006-01-02 15:04:05")
}
