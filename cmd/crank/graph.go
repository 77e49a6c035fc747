package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/aretw0/crank/internal/presentation/graph"
)

func newGraphCmd(opts *rootOptions) *cobra.Command {
	var format string
	cmd := &cobra.Command{
		Use:   "graph file",
		Short: "Export the state diagram",
		Long:  `Parses the diagram of a file and prints it as a Mermaid stateDiagram-v2 or as normalized PlantUML.`,
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

			var output string
			switch format {
			case "mermaid":
				output = graph.GenerateMermaid(parsed.Model, nil)
			case "plantuml":
				output = graph.GeneratePlantUML(parsed.Model)
			default:
				return fmt.Errorf("unknown format %q, want mermaid or plantuml", format)
			}
			fmt.Fprint(cmd.OutOrStdout(), output)
			return nil
		},
	}
	cmd.Flags().StringVarP(&format, "format", "f", "mermaid", "Output format: mermaid or plantuml")
	return cmd
}
