package app

import (
	"context"
	"fmt"
	"github.com/spf13/cobra"
	"scadatag/cmd/scadatag/options"
)

func newGenerateCmd() *cobra.Command {
	o := options.NewDefaultGenerateOptions()
	return newCommand("generate",
		`Generate one point table: every device of the inventory (or the single device given by
--code) is combined with every point of the template, and the table is written to
<base-dir>/output_<dialect>/<family>_<template>_<YYYYMMDDHHMMSS>.csv.`,
		o,
		func() interface{} { return options.NewDefaultGenerateOptions() },
		func(cmd *cobra.Command) error {
			return runGenerate(cmd, o)
		})
}

func runGenerate(cmd *cobra.Command, o *options.GenerateOptions) error {
	c, err := o.Config()
	if err != nil {
		return err
	}
	defer c.Notifier.Close()

	ctx := cmd.Context()
	if ctx == nil {
		ctx = context.Background()
	}
	res, err := c.Generator.Generate(ctx, o.Request())
	if err != nil {
		return err
	}
	_, _ = fmt.Fprintln(cmd.OutOrStdout(), res.Message)
	return nil
}
