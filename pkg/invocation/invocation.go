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

// Package invocation turns a run configuration into the argument list of the
// external obfuscator.
package invocation

import (
	"strings"

	"github.com/alessio/shellescape"
)

const (
	// DebugFlag is the mode flag passed when debug output is enabled.
	DebugFlag = "--debug"
	// SilentFlag is the mode flag passed otherwise.
	SilentFlag = "--silent"
	// OutputFlag precedes the target path.
	OutputFlag = "-o"
)

// 📦 Invocation describes one run of the external tool for a single file
type Invocation struct {
	Source string   // File to obfuscate
	Target string   // Where the tool writes its output
	Flags  []string // Mode flag first, then option flags
}

// 🏗️ New builds the invocation for one file
func New(source, target string, options []string, debug bool) Invocation {
	return Invocation{
		Source: source,
		Target: target,
		Flags:  BuildFlags(options, debug),
	}
}

// 🔧 BuildFlags prefixes every option with "--" and prepends the mode flag.
// Blank options produce no flag.
func BuildFlags(options []string, debug bool) []string {
	flags := make([]string, 0, len(options)+1)
	if debug {
		flags = append(flags, DebugFlag)
	} else {
		flags = append(flags, SilentFlag)
	}
	for _, opt := range options {
		opt = strings.TrimSpace(opt)
		if opt == "" {
			continue
		}
		flags = append(flags, "--"+opt)
	}
	return flags
}

// 📋 Argv returns the full argument vector: entrypoint, source, -o, target, flags
func (inv Invocation) Argv(entrypoint []string) []string {
	argv := make([]string, 0, len(entrypoint)+3+len(inv.Flags))
	argv = append(argv, entrypoint...)
	argv = append(argv, inv.Source, OutputFlag, inv.Target)
	argv = append(argv, inv.Flags...)
	return argv
}

// 📝 String renders a shell-quoted preview, for logs only. Nothing is ever run through a shell.
func (inv Invocation) String() string {
	return shellescape.QuoteCommand(inv.Argv(nil))
}
