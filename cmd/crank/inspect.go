package main

import (
	"os"

	"github.com/spf13/cobra"

	"github.com/aretw0/crank/internal/presentation/tui"
)

func newInspectCmd(opts *rootOptions) *cobra.Command {
	return &cobra.Command{
		Use:   "inspect file",
		Short: "Describe the states, events, transitions and functions of a diagram",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			s, err := opts.session(cmd, nil)
			if err != nil {
				return err
			}
			eng, err := s.Engine()
			if err != nil {
				return err
			}
			parsed, err := eng.Parse(cmd.Context(), args[0])
			if err != nil {
				return err
			}

			out := cmd.OutOrStdout()
			pretty := false
			if f, ok := out.(*os.File); ok {
				pretty = tui.IsTerminal(f)
			}
			return tui.WriteMarkdown(out, tui.Report(args[0], parsed.Model), pretty)
		},
	}
}
