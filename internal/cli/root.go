// Package cli wires the storefront-wizard commands.
package cli

import (
	"github.com/spf13/cobra"
)

type globalOptions struct {
	configPath string
	jsonOut    bool
	logLevel   string
}

// Run executes the command line given by args (without the program name).
func Run(args []string) error {
	root := newRootCommand()
	root.SetArgs(args)
	return root.Execute()
}

func newRootCommand() *cobra.Command {
	opts := &globalOptions{}
	root := &cobra.Command{
		Use:   "storefront-wizard",
		Short: "Turn a product link into a ready-to-publish storefront",
		Long: `storefront-wizard takes an AliExpress, Amazon or Shopify product link,
validates and cleans it up, then generates storefront copy for it.

Run without a subcommand in a terminal to open the interactive wizard.`,
		Args:          cobra.NoArgs,
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			if !stdinIsTTY() {
				return cmd.Help()
			}
			return runWizard(cmd, opts, wizardFlags{})
		},
	}

	pf := root.PersistentFlags()
	pf.StringVar(&opts.configPath, "config", "", "settings file path (default config/settings.yaml)")
	pf.BoolVar(&opts.jsonOut, "json", false, "print JSON output")
	pf.StringVar(&opts.logLevel, "log-level", "", "log level: debug|info|warn|error")

	root.AddCommand(
		newWizardCommand(opts),
		newClassifyCommand(opts),
		newValidateCommand(opts),
		newGenerateCommand(opts),
		newRunsCommand(opts),
		newInitCommand(opts),
		newDoctorCommand(opts),
	)
	return root
}
