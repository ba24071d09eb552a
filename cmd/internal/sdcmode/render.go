package sdcmode

import (
	"bytes"
	"fmt"

	"github.com/go-kit/log"
	"github.com/spf13/cobra"

	"github.com/sysdyn/sdcompile/pkg/render"
)

// renderCommand compiles a fixture and hands the result to a pkg/render
// renderer selected by --format.
func renderCommand() *cobra.Command {
	var output, report, format string

	cmd := &cobra.Command{
		Use:   "render [fixture]",
		Short: "Compile a fixture and render its equations as typeset math or procedural code",
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			path := ""
			if len(args) == 1 {
				path = args[0]
			}

			var f render.Format
			switch format {
			case "typeset":
				f = render.Typeset
			case "procedural":
				f = render.Procedural
			default:
				return fmt.Errorf("unknown --format %q: want \"typeset\" or \"procedural\"", format)
			}

			c, _, err := compileFixture(path, log.NewNopLogger())
			if err != nil {
				if rerr := writeReport(report, err); rerr != nil {
					return rerr
				}
				return err
			}

			var buf bytes.Buffer
			if err := render.New(f).Render(&buf, c); err != nil {
				return err
			}
			return writeOutput(output, buf.Bytes())
		},
	}

	cmd.Flags().StringVarP(&output, "output", "o", "", "write the rendered equations to this file instead of stdout")
	cmd.Flags().StringVarP(&report, "report", "r", "", "write a diagnostics report to this file on failure")
	cmd.Flags().StringVar(&format, "format", "typeset", `rendering format: "typeset" or "procedural"`)
	return cmd
}
