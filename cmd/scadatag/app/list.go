package app

import (
	"fmt"
	"github.com/spf13/cobra"
	"scadatag/cmd/scadatag/options"
	"scadatag/pkg/pointtable"
	"scadatag/pkg/storage"
	"scadatag/pkg/template"
)

func newListCmd() *cobra.Command {
	o := options.NewDefaultListOptions()
	return newCommand("list",
		`List the device families of a dialect, or the templates of one family with --family.`,
		o,
		func() interface{} { return options.NewDefaultListOptions() },
		func(cmd *cobra.Command) error {
			return runList(cmd, o)
		})
}

func runList(cmd *cobra.Command, o *options.ListOptions) error {
	d, err := pointtable.Lookup(o.Dialect)
	if err != nil {
		return err
	}
	store := template.NewStore(storage.NewFsClient(o.BaseDir), d.ConfigDir)

	var names []string
	if len(o.Family) == 0 {
		names, err = store.ListDeviceFamilies()
	} else {
		names, err = store.ListTemplates(o.Family)
	}
	if err != nil {
		return err
	}
	for _, name := range names {
		_, _ = fmt.Fprintln(cmd.OutOrStdout(), name)
	}
	return nil
}
