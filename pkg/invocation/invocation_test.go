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

package invocation

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

// 🧪 TestBuildFlags tests flag construction
func TestBuildFlags(t *testing.T) {
	tests := []struct {
		name    string
		options []string
		debug   bool
		want    []string
	}{
		{
			name:    "debug_with_options",
			options: []string{"opt1", "opt2"},
			debug:   true,
			want:    []string{"--debug", "--opt1", "--opt2"},
		},
		{
			name:    "silent_with_options",
			options: []string{" opt1 ", "opt2"},
			debug:   false,
			want:    []string{"--silent", "--opt1", "--opt2"},
		},
		{
			name:    "no_options",
			options: nil,
			debug:   false,
			want:    []string{"--silent"},
		},
		{
			name:    "blank_options_dropped",
			options: []string{"", "  "},
			debug:   true,
			want:    []string{"--debug"},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, BuildFlags(tt.options, tt.debug))
		})
	}
}

func TestArgv(t *testing.T) {
	inv := New("/src/a.php", "/dst/a.php", []string{"shuffle-statements"}, false)

	got := inv.Argv([]string{"php", "/opt/yakpro-po/yakpro-po.php"})
	assert.Equal(t, []string{
		"php", "/opt/yakpro-po/yakpro-po.php",
		"/src/a.php", "-o", "/dst/a.php",
		"--silent", "--shuffle-statements",
	}, got)

	// the invocation itself must not be modified
	assert.Equal(t, []string{"--silent", "--shuffle-statements"}, inv.Flags)
}

func TestString(t *testing.T) {
	inv := New("/src/my file.php", "/dst/it's.php", nil, true)
	assert.Equal(t, `'/src/my file.php' -o '/dst/it'"'"'s.php' --debug`, inv.String())

	inv = New("/src/a.php", "", []string{"shuffle-statements"}, false)
	assert.Equal(t, `/src/a.php -o '' --silent --shuffle-statements`, inv.String())
}
