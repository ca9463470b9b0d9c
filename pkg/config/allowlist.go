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
	"sort"
	"strings"
)

// 🛡️ AllowList is the set of option names the obfuscator accepts
type AllowList map[string]struct{}

// 🏭 NewAllowList builds an allow-list from option names (without the leading "--")
func NewAllowList(names ...string) AllowList {
	a := make(AllowList, len(names))
	for _, n := range names {
		a[strings.TrimSpace(n)] = struct{}{}
	}
	return a
}

// 🔍 Contains reports whether name is an allowed option
func (a AllowList) Contains(name string) bool {
	_, ok := a[name]
	return ok
}

// 📋 Names returns the allowed names, sorted
func (a AllowList) Names() []string {
	names := make([]string, 0, len(a))
	for n := range a {
		names = append(names, n)
	}
	sort.Strings(names)
	return names
}

// 📚 DefaultAllowList holds the boolean switches understood by yakpro-po.
// Switches that take a value (scramble-mode, scramble-length, ...) are not
// representable as bare flags and are left out.
var DefaultAllowList = NewAllowList(
	"no-strip-indentation",
	"strip-indentation",
	"no-shuffle-statements",
	"shuffle-statements",
	"no-obfuscate-string-literal",
	"obfuscate-string-literal",
	"no-obfuscate-loop-statement",
	"obfuscate-loop-statement",
	"no-obfuscate-if-statement",
	"obfuscate-if-statement",
	"no-obfuscate-constant-name",
	"obfuscate-constant-name",
	"no-obfuscate-variable-name",
	"obfuscate-variable-name",
	"no-obfuscate-function-name",
	"obfuscate-function-name",
	"no-obfuscate-class_constant-name",
	"obfuscate-class_constant-name",
	"no-obfuscate-class-name",
	"obfuscate-class-name",
	"no-obfuscate-interface-name",
	"obfuscate-interface-name",
	"no-obfuscate-trait-name",
	"obfuscate-trait-name",
	"no-obfuscate-property-name",
	"obfuscate-property-name",
	"no-obfuscate-method-name",
	"obfuscate-method-name",
	"no-obfuscate-namespace-name",
	"obfuscate-namespace-name",
	"no-obfuscate-label-name",
	"obfuscate-label-name",
)

// 🧹 Filter trims every requested name and keeps the ones present in allow.
// Order and duplicates are preserved; unknown or blank names are dropped.
func Filter(allow AllowList, names []string) []string {
	out := make([]string, 0, len(names))
	for _, n := range names {
		n = strings.TrimSpace(n)
		if n == "" || !allow.Contains(n) {
			continue
		}
		out = append(out, n)
	}
	return out
}
