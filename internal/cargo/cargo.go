// Package cargo invokes the Rust compiler with type-size diagnostics
// enabled and captures the output for parsing.
package cargo

import (
	"bytes"
	"context"
	"fmt"
	"os"
	"os/exec"
	"strings"
	"time"

	"github.com/rs/zerolog/log"
)

// Options control the compiler invocation.
type Options struct {
	Toolchain string   // rustup toolchain, "nightly" when empty
	Args      []string // passed through to `cargo rustc` before the `--`
	Dir       string   // working directory, current when empty
}

// Touch updates the modification time of path so cargo re-links the crate.
// An up-to-date build skips compilation entirely and emits no diagnostics.
// Refuses to create the file.
func Touch(path string) error {
	info, err := os.Stat(path)
	if err != nil {
		return fmt.Errorf("refusing to touch non-existing file %q: %w", path, err)
	}
	if info.IsDir() {
		return fmt.Errorf("refusing to touch directory %q", path)
	}
	now := time.Now()
	return os.Chtimes(path, now, now)
}

// Run compiles the crate with -Zprint-type-sizes and returns the captured
// stdout, which carries the type-size diagnostic lines mixed with regular
// build output.
func Run(ctx context.Context, opts Options) (string, error) {
	args := commandArgs(opts)

	cmd := exec.CommandContext(ctx, "cargo", args...)
	cmd.Dir = opts.Dir
	var stdout, stderr bytes.Buffer
	cmd.Stdout = &stdout
	cmd.Stderr = &stderr

	log.Debug().Str("cmd", "cargo "+strings.Join(args, " ")).Msg("compiling")

	if err := cmd.Run(); err != nil {
		msg := strings.TrimSpace(stderr.String())
		if msg != "" {
			return "", fmt.Errorf("cargo rustc: %w: %s", err, msg)
		}
		return "", fmt.Errorf("cargo rustc: %w", err)
	}
	return stdout.String(), nil
}

// commandArgs assembles the cargo argument list for Options.
func commandArgs(opts Options) []string {
	toolchain := opts.Toolchain
	if toolchain == "" {
		toolchain = "nightly"
	}

	args := append([]string{"+" + toolchain, "rustc"}, opts.Args...)
	return append(args, "--", "-Zprint-type-sizes")
}
