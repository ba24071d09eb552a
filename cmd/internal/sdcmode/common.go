package sdcmode

import (
	"errors"
	"fmt"
	"io"
	"os"

	"github.com/go-kit/log"

	"github.com/sysdyn/sdcompile/pkg/compiler"
	"github.com/sysdyn/sdcompile/pkg/diag"
	"github.com/sysdyn/sdcompile/pkg/evalop"
	"github.com/sysdyn/sdcompile/pkg/fixture"
	"github.com/sysdyn/sdcompile/pkg/model"
	"github.com/sysdyn/sdcompile/pkg/ravel"
	"github.com/sysdyn/sdcompile/pkg/registry"
)

// loadFixture reads path (or stdin when path is "-" or empty) into a
// pkg/model.Group tree, the same "read from stdin when no file is given"
// convention the teacher's convertCommand uses.
func loadFixture(path string) (*model.Group, error) {
	if path == "" || path == "-" {
		b, err := io.ReadAll(os.Stdin)
		if err != nil {
			return nil, fmt.Errorf("reading stdin: %w", err)
		}
		return fixture.Load("-", b)
	}
	return fixture.LoadFile(path)
}

// compileFixture loads path and runs it through a fresh Compiler, logging
// through l (nil defaults to a no-op logger, matching compiler.New).
func compileFixture(path string, l log.Logger) (*compiler.Compiler, *evalop.Plan, error) {
	root, err := loadFixture(path)
	if err != nil {
		return nil, nil, err
	}

	reg := registry.New()
	c := compiler.New(reg, ravel.NoOp{}, l)
	plan, err := c.Compile(root)
	if err != nil {
		return nil, nil, err
	}
	return c, plan, nil
}

// writeOutput writes data to path, or stdout when path is empty, matching
// the teacher's "-o" flag convention in cmd_convert.go.
func writeOutput(path string, data []byte) error {
	if path == "" {
		_, err := os.Stdout.Write(data)
		return err
	}
	return os.WriteFile(path, data, 0o644)
}

// writeReport writes a one-diagnostic-per-line report to path, if path is
// non-empty, mirroring generateConvertReport.
func writeReport(path string, err error) error {
	if path == "" {
		return nil
	}
	var diags diag.Diagnostics
	if errors.As(err, &diags) {
		f, ferr := os.Create(path)
		if ferr != nil {
			return ferr
		}
		defer f.Close()
		for _, d := range diags {
			fmt.Fprintln(f, d.String())
		}
		return nil
	}
	if err == nil {
		return nil
	}
	f, ferr := os.Create(path)
	if ferr != nil {
		return ferr
	}
	defer f.Close()
	fmt.Fprintln(f, err.Error())
	return nil
}
