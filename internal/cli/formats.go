package cli

import (
	"fmt"

	"github.com/bjaus/tabler"
	"github.com/spf13/cobra"
)

func newFormatsCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "formats",
		Short: "List output formats",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			out := cmd.OutOrStdout()
			for _, f := range tabler.Formats() {
				if _, err := fmt.Fprintln(out, f); err != nil {
					return err
				}
			}
			_, err := fmt.Fprintln(out, "go-template=<template>")
			return err
		},
	}
}
