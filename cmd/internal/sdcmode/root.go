// Package sdcmode implements the sdc CLI's subcommands, mirroring the
// shape of the teacher's cmd/internal/flowmode package: each subcommand is
// a small cobra.Command factory function, wired together by the root
// command in cmd/sdc/main.go.
package sdcmode

import (
	"github.com/spf13/cobra"
)

// Root constructs the sdc root command with every subcommand attached.
func Root() *cobra.Command {
	root := &cobra.Command{
		Use:           "sdc",
		Short:         "Compile a visual system-dynamics model fixture into an EvalOp plan",
		SilenceUsage:  true,
		SilenceErrors: false,
	}

	root.AddCommand(compileCommand())
	root.AddCommand(renderCommand())
	root.AddCommand(graphCommand())
	return root
}
