package sdcmode

import (
	"bytes"
	"fmt"

	"github.com/go-kit/log"
	"github.com/spf13/cobra"
)

// compileCommand mirrors the teacher's convertCommand shape: an input
// fixture argument, an "-o" output flag, and an "-r" report flag written
// only on failure.
func compileCommand() *cobra.Command {
	var output, report string

	cmd := &cobra.Command{
		Use:   "compile [fixture]",
		Short: "Compile a fixture into an EvalOp plan and print it",
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			path := ""
			if len(args) == 1 {
				path = args[0]
			}

			_, plan, err := compileFixture(path, log.NewNopLogger())
			if err != nil {
				if rerr := writeReport(report, err); rerr != nil {
					return rerr
				}
				return err
			}

			var buf bytes.Buffer
			for i, op := range plan.Ops {
				fmt.Fprintf(&buf, "%04d %-14s dst=%d src1=%d src2=%d", i, op.Kind, op.Dst, op.Src1, op.Src2)
				if op.Kind.String() == "constant" {
					fmt.Fprintf(&buf, " value=%g", op.Value)
				}
				if op.State.ItemID != "" {
					fmt.Fprintf(&buf, " item=%s", op.State.ItemID)
				}
				buf.WriteByte('\n')
			}
			for _, in := range plan.Integrals {
				fmt.Fprintf(&buf, "integral stock=%d input=%d integrator=%s\n", in.StockSlot, in.InputSlot, in.IntegratorID)
			}

			return writeOutput(output, buf.Bytes())
		},
	}

	cmd.Flags().StringVarP(&output, "output", "o", "", "write the plan dump to this file instead of stdout")
	cmd.Flags().StringVarP(&report, "report", "r", "", "write a diagnostics report to this file on failure")
	return cmd
}
