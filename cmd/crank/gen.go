package main

import (
	"errors"
	"time"

	"github.com/spf13/cobra"

	"github.com/aretw0/crank"
	"github.com/aretw0/crank/internal/cli"
	"github.com/aretw0/crank/internal/presentation/tui"
)

type genOptions struct {
	root     *rootOptions
	watch    bool
	debounce time.Duration
}

func newGenCmd(opts *genOptions) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "gen [files...]",
		Short: "Regenerate the state machine code of each file",
		RunE:  opts.run,
	}
	cmd.Flags().BoolVarP(&opts.watch, "watch", "w", false, "Regenerate whenever a file changes")
	cmd.Flags().DurationVar(&opts.debounce, "debounce", 100*time.Millisecond, "Quiet period before regenerating with --watch")
	return cmd
}

func (o *genOptions) run(cmd *cobra.Command, args []string) error {
	s, err := o.root.session(cmd, args)
	if err != nil {
		return err
	}
	if len(s.Settings.Files) == 0 {
		return errors.New("no files given and none listed in the config file")
	}
	eng, err := s.Engine()
	if err != nil {
		return err
	}

	printer := tui.NewStatusPrinter(cmd.OutOrStdout())
	if o.watch {
		s.Logger.Info("watching files", "files", s.Settings.Files, "debounce", o.debounce)
		return cli.Watch(cmd.Context(), eng, s.Settings.Files, o.debounce, s.Logger, func(results []crank.Result) {
			for _, r := range results {
				printer.Print(r)
			}
		})
	}

	results := eng.CrankAll(cmd.Context(), s.Settings.Files)
	for _, r := range results {
		printer.Print(r)
	}
	printer.Summary(results)
	if crank.Failed(results) {
		return errors.New("one or more files failed")
	}
	return nil
}
