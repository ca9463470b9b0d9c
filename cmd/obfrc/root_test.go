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

package main

import (
	"bytes"
	"context"
	"encoding/json"
	"os"
	"path/filepath"
	"runtime"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/walteh/obfrc/pkg/config"
)

// fakePHP writes an interpreter stand-in: it reports a version for -r and
// otherwise copies the source ($2) to the target ($4), recording its flags
func fakePHP(t *testing.T, version string) (php string, script string) {
	t.Helper()
	if runtime.GOOS == "windows" {
		t.Skip("needs a POSIX shell")
	}
	dir := t.TempDir()
	php = filepath.Join(dir, "php")
	body := `#!/bin/sh
if [ "$1" = "-r" ]; then
  echo '` + version + `'
  exit 0
fi
src="$2"
dst="$4"
shift 4
cp "$src" "$dst" && echo "$@" >> "$(dirname "$0")/flags.log"
`
	require.NoError(t, os.WriteFile(php, []byte(body), 0755))

	script = filepath.Join(dir, "yakpro-po.php")
	require.NoError(t, os.WriteFile(script, []byte("<?php // stand-in"), 0644))
	return php, script
}

func writeFile(t *testing.T, path, content string) {
	t.Helper()
	require.NoError(t, os.MkdirAll(filepath.Dir(path), 0755))
	require.NoError(t, os.WriteFile(path, []byte(content), 0644))
}

func runCmd(t *testing.T, args ...string) (string, error) {
	t.Helper()
	cmd := newRootCmd()
	out := &bytes.Buffer{}
	cmd.SetOut(out)
	cmd.SetErr(out)
	cmd.SetArgs(args)
	err := cmd.ExecuteContext(context.Background())
	return out.String(), err
}

func TestDirCommand(t *testing.T) {
	php, script := fakePHP(t, "8.2.0")
	src := filepath.Join(t.TempDir(), "src")
	dst := filepath.Join(t.TempDir(), "dst")
	writeFile(t, filepath.Join(src, "index.php"), "<?php echo 'hi';\n")
	writeFile(t, filepath.Join(src, "lib", "util.php"), "<?php function util() {}\n")
	writeFile(t, filepath.Join(src, "README.txt"), "plain text\n")

	_, err := runCmd(t, "dir", src, dst,
		"--php", php, "--script", script,
		"--config", filepath.Join(t.TempDir(), "none.yaml"),
		"--option", "shuffle-statements", "--option", "bogus")
	require.Error(t, err, "an explicit config path that does not exist is an error")
	assert.Contains(t, err.Error(), "loading config")

	out, err := runCmd(t, "dir", src, dst,
		"--php", php, "--script", script,
		"--option", "shuffle-statements", "--option", "bogus")
	require.NoError(t, err, out)

	assert.FileExists(t, filepath.Join(dst, "index.php"))
	assert.FileExists(t, filepath.Join(dst, "lib", "util.php"))
	assert.NoFileExists(t, filepath.Join(dst, "README.txt"))

	flags, err := os.ReadFile(filepath.Join(filepath.Dir(php), "flags.log"))
	require.NoError(t, err)
	assert.Equal(t, "--silent --shuffle-statements\n--silent --shuffle-statements\n", string(flags))
	assert.Contains(t, out, "processed")
	assert.Contains(t, out, "obfuscated 2 file(s)")
	assert.Contains(t, out, "1 file(s) left untouched")
}

func TestFileCommandWithConfigFile(t *testing.T) {
	php, script := fakePHP(t, "8.2.0")
	dir := t.TempDir()
	src := filepath.Join(dir, "notes.txt")
	dst := filepath.Join(dir, "out.txt")
	writeFile(t, src, "not php")

	cfgPath := filepath.Join(dir, "obfrc.yaml")
	writeFile(t, cfgPath, "debug: true\nobfuscation_options: [no-strip-indentation]\ntool:\n  interpreter: "+php+"\n  script: "+script+"\n")

	out, err := runCmd(t, "file", src, dst, "--config", cfgPath)
	require.NoError(t, err, out)
	assert.FileExists(t, dst)

	flags, err := os.ReadFile(filepath.Join(filepath.Dir(php), "flags.log"))
	require.NoError(t, err)
	assert.Equal(t, "--debug --no-strip-indentation\n", string(flags))
}

func TestOldInterpreterRejected(t *testing.T) {
	php, script := fakePHP(t, "5.6.40")
	dir := t.TempDir()
	writeFile(t, filepath.Join(dir, "a.php"), "<?php")

	_, err := runCmd(t, "file", filepath.Join(dir, "a.php"), filepath.Join(dir, "b.php"), "--php", php, "--script", script)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "invalid environment")
}

func TestFileCommandMissingSource(t *testing.T) {
	php, script := fakePHP(t, "8.2.0")
	dir := t.TempDir()

	_, err := runCmd(t, "file", filepath.Join(dir, "missing.php"), filepath.Join(dir, "b.php"), "--php", php, "--script", script)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "does not exist or is not readable")
}

func TestResolveTool(t *testing.T) {
	t.Setenv("OBFRC_PHP", "php-from-env")
	t.Setenv("OBFRC_SCRIPT", "")

	tool := resolveTool(&config.ToolArgs{Interpreter: "php-from-file", Script: "file.php"}, &rootFlags{})
	assert.Equal(t, "php-from-env", tool.Interpreter)
	assert.Equal(t, "file.php", tool.Script)

	tool = resolveTool(nil, &rootFlags{php: "php-from-flag"})
	assert.Equal(t, "php-from-flag", tool.Interpreter)
}

func TestVersionCommand(t *testing.T) {
	out, err := runCmd(t, "version")
	require.NoError(t, err)
	assert.Contains(t, out, "obfrc version info")
	assert.Contains(t, out, "Interpreter:  php (>= 7.0.0)")

	out, err = runCmd(t, "version", "--json")
	require.NoError(t, err)
	var info VersionInfo
	require.NoError(t, json.Unmarshal([]byte(out), &info))
	assert.Equal(t, "php", info.Interpreter)
	assert.Equal(t, "7.0.0", info.MinimumVersion)
	assert.Positive(t, info.Options)
}
