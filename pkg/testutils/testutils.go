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

// Package testutils holds test doubles for the obfuscator's collaborators.
package testutils

import (
	"context"
	"path"
	"sort"
	"sync"

	"github.com/go-git/go-billy/v5"
	"github.com/go-git/go-billy/v5/util"
	"github.com/walteh/obfrc/pkg/invocation"
	"gitlab.com/tozd/go/errors"
)

// 🎭 RecordingRunner records every invocation instead of running a process.
// When FS is set, it writes a marker file at each target, like the real tool would.
type RecordingRunner struct {
	FS   billy.Filesystem
	Fail func(inv invocation.Invocation) error

	mu    sync.Mutex
	calls []invocation.Invocation
}

// Run records inv and returns Fail's result.
func (r *RecordingRunner) Run(ctx context.Context, inv invocation.Invocation) error {
	r.mu.Lock()
	r.calls = append(r.calls, inv)
	r.mu.Unlock()

	if r.Fail != nil {
		if err := r.Fail(inv); err != nil {
			return err
		}
	}
	if r.FS != nil {
		if err := util.WriteFile(r.FS, inv.Target, []byte("obfuscated:"+inv.Source), 0644); err != nil {
			return errors.Errorf("writing target: %w", err)
		}
	}
	return nil
}

// Calls returns the recorded invocations in call order.
func (r *RecordingRunner) Calls() []invocation.Invocation {
	r.mu.Lock()
	defer r.mu.Unlock()
	return append([]invocation.Invocation(nil), r.calls...)
}

// Sources returns the sorted source paths of all recorded invocations.
func (r *RecordingRunner) Sources() []string {
	calls := r.Calls()
	out := make([]string, 0, len(calls))
	for _, c := range calls {
		out = append(out, c.Source)
	}
	sort.Strings(out)
	return out
}

// 🏷️ StaticClassifier classifies by file extension
type StaticClassifier struct {
	ByExt   map[string]string
	Default string
}

// Classify returns the type registered for the extension of p.
func (c *StaticClassifier) Classify(ctx context.Context, p string) (string, error) {
	if ct, ok := c.ByExt[path.Ext(p)]; ok {
		return ct, nil
	}
	return c.Default, nil
}

// 🌲 WriteTree creates files with their content in fs
func WriteTree(fs billy.Filesystem, files map[string]string) error {
	for name, content := range files {
		if err := util.WriteFile(fs, name, []byte(content), 0644); err != nil {
			return errors.Errorf("writing %s: %w", name, err)
		}
	}
	return nil
}

// PHPClassifier returns the classifier most tests use: .php is PHP, everything else plain text.
func PHPClassifier() *StaticClassifier {
	return &StaticClassifier{
		ByExt:   map[string]string{".php": "text/x-php"},
		Default: "text/plain",
	}
}
