package cli

import (
	"errors"
	"fmt"
	"io"
	"strings"

	"github.com/spf13/cobra"

	"storefront-wizard/internal/settings"
)

func newInitCommand(opts *globalOptions) *cobra.Command {
	var runsDir string
	cmd := &cobra.Command{
		Use:   "init",
		Short: "Create the settings file and runs directory",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			res, err := settings.InitWorkspace(settings.InitWorkspaceOptions{
				ConfigPath: strings.TrimSpace(opts.configPath),
				RunsDir:    strings.TrimSpace(runsDir),
			})
			if err != nil {
				return err
			}
			out := cmd.OutOrStdout()
			if opts.jsonOut {
				return printJSON(out, res)
			}

			fmt.Fprintln(out, "workspace initialized")
			fmt.Fprintf(out, "runs_dir: %s\n", res.RunsDir)
			fmt.Fprintf(out, "config: %s\n", res.ConfigPath)
			fmt.Fprintf(out, "created_runs_dir: %t\n", res.CreatedRunsDir)
			fmt.Fprintf(out, "created_config: %t\n", res.CreatedConfig)
			fmt.Fprintln(out, "checks:")
			printChecks(out, "  ", res.DoctorResult.Checks)
			if !res.DoctorResult.OK {
				return errors.New("doctor checks failed")
			}
			fmt.Fprintln(out, "next: storefront-wizard (or storefront-wizard generate <url>)")
			return nil
		},
	}
	cmd.Flags().StringVar(&runsDir, "runs-dir", "", "runs directory (default from settings)")
	return cmd
}

func newDoctorCommand(opts *globalOptions) *cobra.Command {
	return &cobra.Command{
		Use:   "doctor",
		Short: "Check directories and generator credentials",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			env, err := loadEnvironment(opts, false)
			if err != nil {
				return err
			}
			defer env.close()

			res, err := settings.Doctor(settings.DoctorOptions{
				ConfigPath: env.configPath,
				Settings:   env.settings,
			})
			if err != nil {
				return err
			}
			out := cmd.OutOrStdout()
			if opts.jsonOut {
				if err := printJSON(out, res); err != nil {
					return err
				}
			} else {
				printChecks(out, "", res.Checks)
			}
			if !res.OK {
				return errors.New("doctor checks failed")
			}
			if !opts.jsonOut {
				fmt.Fprintln(out, "doctor: all checks passed")
			}
			return nil
		},
	}
}

func printChecks(w io.Writer, indent string, checks []settings.DoctorCheck) {
	for _, c := range checks {
		status := "ok"
		if !c.OK {
			status = "fail"
		}
		fmt.Fprintf(w, "%s%s: %s (%s)\n", indent, c.Name, status, c.Message)
	}
}
