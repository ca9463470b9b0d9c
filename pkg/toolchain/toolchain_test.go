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

package toolchain

import (
	"context"
	"os"
	"path/filepath"
	"runtime"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseVersion(t *testing.T) {
	tests := []struct {
		out     string
		want    string
		wantErr bool
	}{
		{out: "8.2.7\n", want: "v8.2.7"},
		{out: "7.4.33-1ubuntu1", want: "v7.4.33-1ubuntu1"},
		{out: "", wantErr: true},
		{out: "not-a-version", wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.out, func(t *testing.T) {
			got, err := ParseVersion(tt.out)
			if tt.wantErr {
				require.Error(t, err)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestCompareMinimum(t *testing.T) {
	assert.NoError(t, CompareMinimum("v8.2.7", MinimumVersion))
	assert.NoError(t, CompareMinimum("v7.0.0", MinimumVersion))
	assert.NoError(t, CompareMinimum("v7.0.0-1ubuntu1", MinimumVersion), "distribution suffix should not count as pre-release")

	err := CompareMinimum("v5.6.40", MinimumVersion)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "below the supported minimum")
}

// fakeInterpreter writes a script that prints version for any arguments
func fakeInterpreter(t *testing.T, version string) string {
	t.Helper()
	if runtime.GOOS == "windows" {
		t.Skip("needs a POSIX shell")
	}
	path := filepath.Join(t.TempDir(), "php")
	require.NoError(t, os.WriteFile(path, []byte("#!/bin/sh\necho '"+version+"'\n"), 0755))
	return path
}

func TestVersionChecker(t *testing.T) {
	ok := &VersionChecker{Interpreter: fakeInterpreter(t, "8.3.1"), Minimum: MinimumVersion}
	assert.NoError(t, ok.Check(context.Background()))

	old := &VersionChecker{Interpreter: fakeInterpreter(t, "5.6.40"), Minimum: MinimumVersion}
	require.Error(t, old.Check(context.Background()))

	missing := &VersionChecker{Interpreter: filepath.Join(t.TempDir(), "nope"), Minimum: MinimumVersion}
	require.Error(t, missing.Check(context.Background()))
}

func TestLocate(t *testing.T) {
	interp := fakeInterpreter(t, "8.3.1")
	script := filepath.Join(t.TempDir(), "yakpro-po.php")
	require.NoError(t, os.WriteFile(script, []byte("<?php"), 0644))

	tool, err := Tool{Interpreter: interp, Script: script}.Locate()
	require.NoError(t, err)
	assert.Equal(t, []string{interp, script}, tool.Entrypoint())

	_, err = Tool{Interpreter: interp, Script: filepath.Dir(script)}.Locate()
	require.Error(t, err)
	assert.Contains(t, err.Error(), "is a directory")

	_, err = Tool{Interpreter: interp, Script: script + ".missing"}.Locate()
	require.Error(t, err)
}
