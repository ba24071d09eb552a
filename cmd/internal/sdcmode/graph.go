package sdcmode

import (
	"github.com/go-kit/log"
	"github.com/spf13/cobra"
)

// graphCommand compiles a fixture and dumps its dependency graph as
// Graphviz DOT, mirroring the teacher's GraphHandler debug endpoint.
func graphCommand() *cobra.Command {
	var output, report string

	cmd := &cobra.Command{
		Use:   "graph [fixture]",
		Short: "Compile a fixture and dump its variable dependency graph as DOT",
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			path := ""
			if len(args) == 1 {
				path = args[0]
			}

			c, _, err := compileFixture(path, log.NewNopLogger())
			if err != nil {
				if rerr := writeReport(report, err); rerr != nil {
					return rerr
				}
				return err
			}

			return writeOutput(output, c.DependencyGraph().MarshalDOT())
		},
	}

	cmd.Flags().StringVarP(&output, "output", "o", "", "write the DOT graph to this file instead of stdout")
	cmd.Flags().StringVarP(&report, "report", "r", "", "write a diagnostics report to this file on failure")
	return cmd
}
