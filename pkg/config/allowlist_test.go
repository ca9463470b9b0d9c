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

package config

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

// 🧪 TestFilter tests option filtering against an allow-list
func TestFilter(t *testing.T) {
	allow := NewAllowList("line-endings", "preserve-line-number")

	tests := []struct {
		name  string
		input []string
		want  []string
	}{
		{
			name:  "drops_unknown_and_trims",
			input: []string{"line-endings", "bogus", " preserve-line-number "},
			want:  []string{"line-endings", "preserve-line-number"},
		},
		{
			name:  "keeps_order_and_duplicates",
			input: []string{"preserve-line-number", "line-endings", "preserve-line-number"},
			want:  []string{"preserve-line-number", "line-endings", "preserve-line-number"},
		},
		{
			name:  "drops_blank_and_prefixed",
			input: []string{"", "   ", "--line-endings"},
			want:  []string{},
		},
		{
			name:  "nil_input",
			input: nil,
			want:  []string{},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := Filter(allow, tt.input)
			assert.Equal(t, tt.want, got)
		})
	}
}

// 🧪 TestFilterIsSubsequence checks that filtering never adds or reorders names
func TestFilterIsSubsequence(t *testing.T) {
	input := []string{"no-strip-indentation", "x", "shuffle-statements", "y", "no-strip-indentation"}
	got := Filter(DefaultAllowList, input)

	i := 0
	for _, name := range got {
		for i < len(input) && input[i] != name {
			i++
		}
		if !assert.Less(t, i, len(input), "output name %q not found in order", name) {
			return
		}
		assert.True(t, DefaultAllowList.Contains(name))
		i++
	}
	assert.Len(t, got, 3)
}

func TestAllowListNames(t *testing.T) {
	allow := NewAllowList("b", " a ", "c")
	assert.Equal(t, []string{"a", "b", "c"}, allow.Names())
	assert.True(t, allow.Contains("a"))
	assert.False(t, allow.Contains(" a "))
}
