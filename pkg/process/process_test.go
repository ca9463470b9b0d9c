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

package process

import (
	"context"
	"os"
	"os/exec"
	"path/filepath"
	"runtime"
	"strings"
	"testing"
	"unicode/utf8"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/walteh/obfrc/pkg/invocation"
	"gitlab.com/tozd/go/errors"
)

// writeTool writes a shell script standing in for the obfuscator
func writeTool(t *testing.T, body string) string {
	t.Helper()
	if runtime.GOOS == "windows" {
		t.Skip("shell script tool stand-in needs a POSIX shell")
	}
	path := filepath.Join(t.TempDir(), "tool.sh")
	require.NoError(t, os.WriteFile(path, []byte("#!/bin/sh\n"+body), 0755))
	return path
}

func testContext(t *testing.T) context.Context {
	logger := zerolog.New(zerolog.NewTestWriter(t)).Level(zerolog.DebugLevel)
	return logger.WithContext(context.Background())
}

func TestNewExecRunnerRequiresEntrypoint(t *testing.T) {
	_, err := NewExecRunner(nil)
	require.Error(t, err)
	_, err = NewExecRunner([]string{""})
	require.Error(t, err)

	r, err := NewExecRunner([]string{"php", "yakpro-po.php"})
	require.NoError(t, err)
	ep := r.Entrypoint()
	ep[0] = "changed"
	assert.Equal(t, []string{"php", "yakpro-po.php"}, r.Entrypoint(), "entrypoint is returned as a copy")
}

// 🧪 TestExecRunner tests argv passing and exit handling
func TestExecRunner(t *testing.T) {
	tests := []struct {
		name        string
		body        string
		wantErr     bool
		errContains string
		check       func(t *testing.T, dir string)
	}{
		{
			name: "passes_argv_without_shell",
			body: `printf '%s\n' "$@" > "$(dirname "$0")/args.txt"` + "\n",
			check: func(t *testing.T, dir string) {
				data, err := os.ReadFile(filepath.Join(dir, "args.txt"))
				require.NoError(t, err)
				assert.Equal(t, []string{
					"/src/a b;rm -rf x.php", "-o", "/dst/$(whoami).php", "--debug", "--shuffle-statements",
				}, strings.Split(strings.TrimSpace(string(data)), "\n"))
			},
		},
		{
			name:        "non_zero_exit_is_failure",
			body:        "echo 'syntax error in file' >&2\nexit 3\n",
			wantErr:     true,
			errContains: "obfuscator exited with code 3: syntax error in file",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			tool := writeTool(t, tt.body)
			r, err := NewExecRunner([]string{tool})
			require.NoError(t, err)

			inv := invocation.New("/src/a b;rm -rf x.php", "/dst/$(whoami).php", []string{"shuffle-statements"}, true)
			err = r.Run(testContext(t), inv)
			if tt.wantErr {
				require.Error(t, err)
				assert.Contains(t, err.Error(), tt.errContains)
				return
			}
			require.NoError(t, err)
			tt.check(t, filepath.Dir(tool))
		})
	}
}

func TestExecRunnerLaunchFailure(t *testing.T) {
	r, err := NewExecRunner([]string{filepath.Join(t.TempDir(), "does-not-exist")})
	require.NoError(t, err)

	err = r.Run(testContext(t), invocation.New("a.php", "b.php", nil, false))
	require.Error(t, err)
	assert.Contains(t, err.Error(), "starting")
}

func TestExecRunnerCancelled(t *testing.T) {
	tool := writeTool(t, "sleep 5\n")
	r, err := NewExecRunner([]string{tool})
	require.NoError(t, err)

	ctx, cancel := context.WithCancel(testContext(t))
	cancel()

	err = r.Run(ctx, invocation.New("a.php", "b.php", nil, false))
	require.Error(t, err)
}

func TestTail(t *testing.T) {
	assert.Equal(t, "no output", tail("  \n"))
	long := strings.Repeat("x", maxStderr+10)
	got := tail(long)
	assert.True(t, strings.HasPrefix(got, "..."))
	assert.Len(t, got, maxStderr+3)

	// a cut inside a multi-byte rune moves forward to the next rune
	wide := strings.Repeat("é", maxStderr) + "x"
	got = tail(wide)
	assert.True(t, utf8.ValidString(got))
	assert.Equal(t, "..."+strings.Repeat("é", maxStderr/2-1)+"x", got)
}

func TestExecRunnerExitErrorUnwraps(t *testing.T) {
	tool := writeTool(t, "exit 7\n")
	r, err := NewExecRunner([]string{tool})
	require.NoError(t, err)

	err = r.Run(testContext(t), invocation.New("a.php", "b.php", nil, false))
	require.Error(t, err)

	var exitErr *exec.ExitError
	require.True(t, errors.As(err, &exitErr), "exit error should be reachable through the chain")
	assert.Equal(t, 7, exitErr.ExitCode())
	assert.Contains(t, err.Error(), "obfuscator exited with code 7: no output")
}
