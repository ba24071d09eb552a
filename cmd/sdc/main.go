// Command sdc compiles a visual system-dynamics model fixture into an
// EvalOp plan, or renders its equation system, from the command line.
package main

import (
	"fmt"
	"os"

	"github.com/sysdyn/sdcompile/cmd/internal/sdcmode"
)

func main() {
	if err := sdcmode.Root().Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}
