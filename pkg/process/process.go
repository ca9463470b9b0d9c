// Copyright 2025 walteh LLC
//
// Licensed under the Apache License, Version 2.0 (the "License");
// you may not use this file except in compliance with the License.
// You may obtain a copy of the License at
//
//     http://www.apache.org/licenses/LICENSE-2.0
//
// Unless required by applicable law or agreed to in writing, software
// distributed under the License is distributed on an "AS IS" BASIS,
// WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
// See the License for the specific language governing permissions and
// limitations under the License.

// Package process runs the external obfuscator.
package process

import (
	"bytes"
	"context"
	"os/exec"
	"strings"
	"unicode/utf8"

	"github.com/rs/zerolog"
	"github.com/walteh/obfrc/pkg/invocation"
	"gitlab.com/tozd/go/errors"
)

// maxStderr caps how much tool output is attached to an error.
const maxStderr = 4096

// 🏃 Runner executes the external tool for one invocation
type Runner interface {
	Run(ctx context.Context, inv invocation.Invocation) error
}

// 🚀 ExecRunner starts the tool as a child process with a plain argument vector
type ExecRunner struct {
	entrypoint []string
}

// 🏭 NewExecRunner creates a runner for the given entrypoint, e.g. ["php", "/opt/yakpro-po/yakpro-po.php"]
func NewExecRunner(entrypoint []string) (*ExecRunner, error) {
	if len(entrypoint) == 0 || entrypoint[0] == "" {
		return nil, errors.New("entrypoint is required")
	}
	return &ExecRunner{entrypoint: append([]string(nil), entrypoint...)}, nil
}

// Entrypoint returns the command prefix every invocation starts with.
func (r *ExecRunner) Entrypoint() []string {
	return append([]string(nil), r.entrypoint...)
}

// 🏃 Run launches the tool and waits for it. A launch failure and a non-zero exit are both errors.
func (r *ExecRunner) Run(ctx context.Context, inv invocation.Invocation) error {
	logger := zerolog.Ctx(ctx)
	argv := inv.Argv(r.entrypoint)

	cmd := exec.CommandContext(ctx, argv[0], argv[1:]...)

	var stdout, stderr bytes.Buffer
	cmd.Stdout = &stdout
	cmd.Stderr = &stderr

	logger.Debug().Strs("argv", argv).Msg("running obfuscator")

	if err := cmd.Start(); err != nil {
		return errors.Errorf("starting %s: %w", argv[0], err)
	}

	err := cmd.Wait()

	if out := strings.TrimSpace(stdout.String()); out != "" {
		logger.Debug().Str("source", inv.Source).Str("stdout", out).Msg("obfuscator output")
	}

	if err != nil {
		if ctx.Err() != nil {
			return errors.Errorf("obfuscator cancelled: %w", ctx.Err())
		}
		var exitErr *exec.ExitError
		if errors.As(err, &exitErr) {
			return errors.Errorf("obfuscator exited with code %d: %s: %w", exitErr.ExitCode(), tail(stderr.String()), exitErr)
		}
		return errors.Errorf("waiting for obfuscator: %w", err)
	}

	return nil
}

func tail(s string) string {
	s = strings.TrimSpace(s)
	if s == "" {
		return "no output"
	}
	if len(s) > maxStderr {
		cut := len(s) - maxStderr
		for cut < len(s) && !utf8.RuneStart(s[cut]) {
			cut++
		}
		s = "..." + s[cut:]
	}
	return s
}
