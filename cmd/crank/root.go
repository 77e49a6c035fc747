package main

import (
	"context"
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/aretw0/crank/internal/cli"
	"github.com/aretw0/crank/internal/config"
)

// rootOptions holds the persistent flags shared by every command.
type rootOptions struct {
	configPath string
	flags      config.Flags
}

// session resolves config file and flags for one invocation. Positional
// files are placed ahead of the ones listed in the config file.
func (o *rootOptions) session(cmd *cobra.Command, files []string) (*cli.Session, error) {
	flags := o.flags
	flags.Files = files
	return cli.Load(o.configPath, flags, cmd.ErrOrStderr())
}

func newRootCmd() *cobra.Command {
	opts := &rootOptions{}
	gen := &genOptions{root: opts}

	rootCmd := &cobra.Command{
		Use:   "crank [files...]",
		Short: "Crank generates state machine code from diagrams embedded in Go files",
		Long: `Crank reads the state diagram between @startuml and @enduml in each Go file,
regenerates the state and event tables between its signature markers and
appends stubs for every function the diagram references but the file lacks.

Running crank without a subcommand is the same as "crank gen".`,
		Args:          cobra.ArbitraryArgs,
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return gen.run(cmd, args)
		},
	}

	pf := rootCmd.PersistentFlags()
	pf.StringVarP(&opts.configPath, "config", "c", "", "Config file (default "+config.DefaultPath+" when present)")
	pf.BoolVarP(&opts.flags.Quiet, "quiet", "q", false, "Only log errors")
	pf.BoolVarP(&opts.flags.Verbose, "verbose", "v", false, "Log every step")
	pf.BoolVarP(&opts.flags.Debug, "debug", "d", false, "Log parser and dispatcher internals")
	pf.StringVar(&opts.flags.Style, "style", "", "Style for files without signatures: tabular or switch")
	pf.BoolVar(&opts.flags.NoBackup, "no-backup", false, "Do not keep a .NNN copy of rewritten files")
	rootCmd.MarkFlagsMutuallyExclusive("quiet", "verbose")

	rootCmd.AddCommand(
		newGenCmd(gen),
		newValidateCmd(opts),
		newGraphCmd(opts),
		newInspectCmd(opts),
		newRunCmd(opts),
		newServeCmd(opts),
		newVersionCmd(),
	)
	return rootCmd
}

// Execute runs the root command and exits non-zero on failure.
func Execute() {
	sc := cli.NewSignalContext(context.Background())
	defer sc.Cancel()

	err := newRootCmd().ExecuteContext(sc)
	if sig := sc.Signal(); sig != nil {
		fmt.Fprintf(os.Stderr, "stopped by signal: %v\n", sig)
	}
	if err != nil {
		fmt.Fprintln(os.Stderr, "Error:", err)
		sc.Cancel()
		os.Exit(1)
	}
}
