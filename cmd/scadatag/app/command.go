package app

import (
	"github.com/spf13/cobra"
	"github.com/spf13/pflag"
	utilserrors "k8s.io/apimachinery/pkg/util/errors"
	"k8s.io/klog/v2"
	"os"
	baseoptions "scadatag/pkg/generic/options"
	"scadatag/pkg/version"
	"scadatag/pkg/version/verflag"
)

const (
	ComponentScadatag = "scadatag"
)

type commandOptions interface {
	baseoptions.Optioner
	AddBaseFlags(cmd *cobra.Command, fs *pflag.FlagSet)
	Validate() []error
}

func NewScadatagCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   ComponentScadatag,
		Short: "Generate SCADA point tables from device inventories and addressing templates",
		Long: `scadatag cross-joins a device inventory with an addressing template and writes the
point table a SCADA system imports (KingSCADA or BEWGSED), GBK encoded.`,
		SilenceUsage: true,
	}
	cmd.AddCommand(
		newGenerateCmd(),
		newListCmd(),
		newServeCmd(),
	)
	return cmd
}

// newCommand builds a subcommand that parses its own flags, so that a config file
// can be applied below the command line.
func newCommand(use, long string, o commandOptions, defaults func() interface{}, run func(cmd *cobra.Command) error) *cobra.Command {
	cleanFlagSet := pflag.NewFlagSet(use, pflag.ContinueOnError)
	cmd := &cobra.Command{
		Use:                use,
		Long:               long,
		DisableFlagParsing: true,
		SilenceUsage:       true,
		RunE: func(cmd *cobra.Command, args []string) error {
			// initial flag parse, since we disable cobra's flag parsing
			if err := cleanFlagSet.Parse(args); err != nil {
				klog.ErrorS(err, "Failed to parse flag")
				_ = cmd.Usage()
				os.Exit(1)
			}

			// check if there are non-flag arguments in the command line
			cmds := cleanFlagSet.Args()
			if len(cmds) > 0 {
				klog.ErrorS(nil, "Unknown command", "command", cmds[0])
				_ = cmd.Usage()
				os.Exit(1)
			}

			// short-circuit on help
			baseoptions.PrintHelpAndExitIfRequested(cmd, cleanFlagSet)

			// short-circuit on defaultconfig
			baseoptions.PrintDefaultConfigAndExitIfRequested(defaults(), cleanFlagSet)

			// short-circuit on verflag
			verflag.PrintAndExitIfRequested()

			if err := baseoptions.ParseAndApplyConfigFile(o, args); err != nil {
				return err
			}

			if errs := o.Validate(); len(errs) != 0 {
				return utilserrors.NewAggregate(errs)
			}

			klog.V(2).InfoS("Starting", "command", use, "version", version.Get())
			return run(cmd)
		},
	}

	verflag.AddFlags(cleanFlagSet)
	o.AddFlags(cleanFlagSet)
	o.AddBaseFlags(cmd, cleanFlagSet)

	return cmd
}
