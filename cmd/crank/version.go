package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/aretw0/crank"
	"github.com/aretw0/crank/internal/presentation/tui"
)

func newVersionCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "version",
		Short: "Print the version number of crank",
		Run: func(cmd *cobra.Command, args []string) {
			out := cmd.OutOrStdout()
			if f, ok := out.(*os.File); ok && tui.IsTerminal(f) {
				tui.PrintBanner(out)
			}
			fmt.Fprintf(out, "crank version %s\n", crank.Version)
		},
	}
}
