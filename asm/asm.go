// Package asm runs an external RISC-V assembler and loads its output.
package asm

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"os"
	"os/exec"
	"strings"

	"github.com/calyxir/calyx-riscv/loader"
)

// Assembler invokes an external assembler as "<Path> <src> -o <obj>".
type Assembler struct {
	Path string
}

// New creates an Assembler for the program at path. A bare name is looked
// up in PATH when Assemble runs.
func New(path string) *Assembler {
	return &Assembler{Path: path}
}

// Error is returned when the assembler exits unsuccessfully.
type Error struct {
	// Stderr is the assembler's diagnostic output with surrounding
	// whitespace removed.
	Stderr string
	// Err is the underlying exit error.
	Err error
}

func (e *Error) Error() string {
	if e.Stderr == "" {
		return fmt.Sprintf("assembler failed: %v", e.Err)
	}
	return e.Stderr
}

func (e *Error) Unwrap() error {
	return e.Err
}

// Assemble assembles srcPath into a temporary object file and loads its
// .text section. The temporary file is removed before returning.
func (a *Assembler) Assemble(ctx context.Context, srcPath string) (*loader.Program, error) {
	tmp, err := os.CreateTemp("", "riscv-calyx-*.o")
	if err != nil {
		return nil, fmt.Errorf("failed to create object file: %w", err)
	}
	objPath := tmp.Name()
	defer func() { _ = os.Remove(objPath) }()
	if err := tmp.Close(); err != nil {
		return nil, fmt.Errorf("failed to create object file: %w", err)
	}

	cmd := exec.CommandContext(ctx, a.Path, srcPath, "-o", objPath)
	stderr := new(bytes.Buffer)
	cmd.Stderr = stderr
	if err := cmd.Run(); err != nil {
		var exitErr *exec.ExitError
		if errors.As(err, &exitErr) {
			return nil, &Error{Stderr: strings.TrimSpace(stderr.String()), Err: err}
		}
		return nil, fmt.Errorf("failed to run %s: %w", a.Path, err)
	}

	prog, err := loader.Load(objPath)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", srcPath, err)
	}
	return prog, nil
}

// String returns the command line Assemble would run for srcPath.
func (a *Assembler) String() string {
	return a.Path + " <src> -o <obj>"
}
