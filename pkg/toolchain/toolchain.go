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

// Package toolchain locates the external obfuscator and checks that its
// interpreter is recent enough.
package toolchain

import (
	"context"
	"os"
	"os/exec"
	"path/filepath"
	"strings"

	"github.com/rs/zerolog"
	"gitlab.com/tozd/go/errors"
	"golang.org/x/mod/semver"
)

const (
	// DefaultInterpreter runs the obfuscator script.
	DefaultInterpreter = "php"
	// DefaultScript is where the obfuscator lives relative to the working directory.
	DefaultScript = "yakpro-po/yakpro-po.php"
	// MinimumVersion is the oldest interpreter the obfuscator supports.
	MinimumVersion = "v7.0.0"
)

// 🔧 Tool is the interpreter plus the script it runs
type Tool struct {
	Interpreter string
	Script      string
}

// 🏭 Default returns the tool with default locations
func Default() Tool {
	return Tool{Interpreter: DefaultInterpreter, Script: DefaultScript}
}

// 🔍 Locate resolves the interpreter on PATH and checks that the script is a readable file
func (t Tool) Locate() (Tool, error) {
	if t.Interpreter == "" {
		t.Interpreter = DefaultInterpreter
	}
	if t.Script == "" {
		t.Script = DefaultScript
	}

	interp, err := exec.LookPath(t.Interpreter)
	if err != nil {
		return Tool{}, errors.Errorf("locating interpreter %q: %w", t.Interpreter, err)
	}

	script, err := filepath.Abs(t.Script)
	if err != nil {
		return Tool{}, errors.Errorf("resolving script path: %w", err)
	}
	f, err := os.Open(script)
	if err != nil {
		return Tool{}, errors.Errorf("opening obfuscator script: %w", err)
	}
	defer f.Close()
	info, err := f.Stat()
	if err != nil {
		return Tool{}, errors.Errorf("stat obfuscator script: %w", err)
	}
	if info.IsDir() {
		return Tool{}, errors.Errorf("obfuscator script %s is a directory", script)
	}

	return Tool{Interpreter: interp, Script: script}, nil
}

// 📋 Entrypoint returns the argv prefix of every invocation
func (t Tool) Entrypoint() []string {
	return []string{t.Interpreter, t.Script}
}

// ✅ Checker verifies the host environment before any file is processed
type Checker interface {
	Check(ctx context.Context) error
}

// 🔢 VersionChecker asks the interpreter for its version and compares it to a minimum
type VersionChecker struct {
	Interpreter string
	Minimum     string
}

// 🏭 NewVersionChecker checks tool's interpreter against MinimumVersion
func NewVersionChecker(tool Tool) *VersionChecker {
	return &VersionChecker{Interpreter: tool.Interpreter, Minimum: MinimumVersion}
}

// ✅ Check runs the interpreter and fails if it is older than the minimum
func (c *VersionChecker) Check(ctx context.Context) error {
	out, err := exec.CommandContext(ctx, c.Interpreter, "-r", "echo PHP_VERSION;").Output()
	if err != nil {
		return errors.Errorf("querying %s version: %w", c.Interpreter, err)
	}

	version, err := ParseVersion(string(out))
	if err != nil {
		return err
	}

	zerolog.Ctx(ctx).Debug().Str("interpreter", c.Interpreter).Str("version", version).Msg("interpreter version")

	return CompareMinimum(version, c.Minimum)
}

// ParseVersion turns interpreter output such as "8.2.7-1ubuntu1" into "v8.2.7-1ubuntu1".
func ParseVersion(out string) (string, error) {
	fields := strings.Fields(out)
	if len(fields) == 0 {
		return "", errors.New("interpreter reported no version")
	}
	v := fields[0]
	if !strings.HasPrefix(v, "v") {
		v = "v" + v
	}
	if !semver.IsValid(v) {
		return "", errors.Errorf("unrecognized interpreter version %q", fields[0])
	}
	return v, nil
}

// CompareMinimum fails when version is older than minimum. Pre-release
// suffixes are ignored so distribution builds compare by their release.
func CompareMinimum(version, minimum string) error {
	release := semver.Canonical(version)
	if i := strings.IndexAny(release, "-+"); i >= 0 {
		release = release[:i]
	}
	if semver.Compare(release, minimum) < 0 {
		return errors.Errorf("interpreter version %s is below the supported minimum %s", version, minimum)
	}
	return nil
}
