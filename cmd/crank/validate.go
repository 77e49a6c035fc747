package main

import (
	"errors"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/aretw0/crank/internal/codegen"
	"github.com/aretw0/crank/internal/validator"
	"github.com/aretw0/crank/pkg/domain"
)

func newValidateCmd(opts *rootOptions) *cobra.Command {
	var strict bool
	cmd := &cobra.Command{
		Use:   "validate [files...]",
		Short: "Parse each diagram and check that it renders, without writing",
		Long: `Parses the diagram of each file, renders it in the style the file uses and
reports unreachable states, dead ends and shadowed transitions. Nothing is written.`,
		RunE: func(cmd *cobra.Command, args []string) error {
			s, err := opts.session(cmd, args)
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
			fallback, err := codegen.ByName(s.Settings.Style)
			if err != nil {
				return err
			}

			out := cmd.OutOrStdout()
			failed := 0
			for _, path := range s.Settings.Files {
				parsed, err := eng.Parse(cmd.Context(), path)
				if errors.Is(err, domain.ErrNoDSL) {
					fmt.Fprintf(out, "SKIP %s (no dsl block)\n", path)
					continue
				}
				if err == nil {
					em := codegen.Detect(parsed.Doc, fallback)
					if _, err = em.Render(parsed.Model); err == nil {
						m := parsed.Model
						fmt.Fprintf(out, " OK  %s (%s, %d states, %d events, %d transitions)\n",
							path, em.Name(), len(m.States), len(m.Events), len(m.Transitions))
						findings := validator.Lint(m)
						for _, f := range findings {
							fmt.Fprintf(out, "     warning: %s\n", f)
						}
						if !strict || len(findings) == 0 {
							continue
						}
						err = validator.Error(findings)
					}
				}
				failed++
				fmt.Fprintf(out, "FAIL %s (%v)\n", path, err)
			}
			if failed > 0 {
				return fmt.Errorf("%d file(s) invalid", failed)
			}
			return nil
		},
	}
	cmd.Flags().BoolVar(&strict, "strict", false, "Treat lint warnings as failures")
	return cmd
}
