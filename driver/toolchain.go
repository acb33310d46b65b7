package driver

import (
	"fmt"
	"os"
	"os/exec"
	"runtime"
)

// CompileOptions carries the fixed argument shape §4.7 requires every
// Toolchain to honor: the c99/O2/Wall/fPIC flags, whether the target is a
// shared object or a linked executable, the host runtime's object files
// (linked into every module unconditionally), and any -I directories.
type CompileOptions struct {
	Shared         bool // link a loadable module (-shared/-bundle)
	ObjectOnly     bool // compile only (-c), for a program build's per-module .o
	IncludeDirs    []string
	RuntimeObjects []string
	ExtraArgs      []string
}

// Toolchain is the external C compiler collaborator. The driver never
// shells out directly outside this interface (§5: "external C-toolchain
// invocation blocks the process until completion; its exit status is the
// only signal consumed"), so tests substitute a fake and never touch a
// real compiler.
type Toolchain interface {
	Compile(sourcePath, outputPath string, opts CompileOptions) error
}

// ExecToolchain shells out to a real C compiler, grounded on
// pontaoski-tawago/main.go's clang invocation: build the argument list,
// wire stdio straight through, and surface the exit status unmodified
// (§7: "Toolchain errors: non-zero exit from the external compiler,
// captured as-is").
type ExecToolchain struct {
	CC string // defaults to "cc"
}

func (t *ExecToolchain) Compile(sourcePath, outputPath string, opts CompileOptions) error {
	cc := t.CC
	if cc == "" {
		cc = "cc"
	}

	args := []string{"--std=c99", "-O2", "-Wall", "-fPIC"}
	if opts.Shared {
		args = append(args, sharedFlag())
	}
	if opts.ObjectOnly {
		args = append(args, "-c")
	}
	for _, dir := range opts.IncludeDirs {
		args = append(args, "-I", dir)
	}
	args = append(args, "-o", outputPath, sourcePath)
	args = append(args, opts.RuntimeObjects...)
	args = append(args, opts.ExtraArgs...)

	cmd := exec.Command(cc, args...)
	cmd.Stdout = os.Stdout
	cmd.Stderr = os.Stderr
	if err := cmd.Run(); err != nil {
		return fmt.Errorf("toolchain invocation failed: %w", err)
	}
	return nil
}

// sharedFlag names the per-platform flag that produces a loadable module
// rather than a linked executable; darwin's linker spells it differently
// from every other Unix cc.
func sharedFlag() string {
	if runtime.GOOS == "darwin" {
		return "-bundle"
	}
	return "-shared"
}
