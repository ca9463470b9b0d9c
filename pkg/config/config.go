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
	"fmt"
	"slices"
	"strings"

	"github.com/bmatcuk/doublestar/v4"
	"gitlab.com/tozd/go/errors"
)

// DefaultContentType is the content type a directory walk processes unless configured otherwise.
const DefaultContentType = "text/x-php"

// 📚 RunConfiguration is the effective configuration of an obfuscation run
type RunConfiguration struct {
	Debug               bool     // Pass --debug instead of --silent
	AllowedContentTypes []string // Content types processed during a directory walk, never empty
	Options             []string // Filtered option names, each present in the allow-list
	IgnorePatterns      []string // Doublestar patterns, relative to the walk root
	Workers             int      // Concurrent invocations per directory level
	ContinueOnError     bool     // Keep walking after a failure and report all of them
}

// 🏭 Default returns the configuration a new obfuscator starts from
func Default() RunConfiguration {
	return RunConfiguration{
		AllowedContentTypes: []string{DefaultContentType},
		Options:             []string{},
		Workers:             1,
	}
}

// 🔧 ToolArgs locates the external obfuscator
type ToolArgs struct {
	Interpreter string `json:"interpreter" yaml:"interpreter"`
	Script      string `json:"script" yaml:"script"`
}

// 📝 Update is a partial configuration, as read from a file or assembled from flags.
// Nil fields are absent and leave the current value untouched.
type Update struct {
	Debug              *bool     `json:"debug,omitempty" yaml:"debug,omitempty"`
	ObfuscationOptions *[]string `json:"obfuscation_options,omitempty" yaml:"obfuscation_options,omitempty"`
	AllowedMimeTypes   []string  `json:"allowed_mime_types,omitempty" yaml:"allowed_mime_types,omitempty"`
	IgnorePatterns     *[]string `json:"ignore_patterns,omitempty" yaml:"ignore_patterns,omitempty"`
	Workers            int       `json:"workers,omitempty" yaml:"workers,omitempty"`
	ContinueOnError    *bool     `json:"continue_on_error,omitempty" yaml:"continue_on_error,omitempty"`
	Tool               *ToolArgs `json:"tool,omitempty" yaml:"tool,omitempty"`
}

// 🔍 Validate checks the values an update carries
func (u *Update) Validate() error {
	if u.Workers < 0 {
		return errors.Errorf("workers must not be negative, got %d", u.Workers)
	}
	if u.IgnorePatterns != nil {
		for _, p := range *u.IgnorePatterns {
			if !doublestar.ValidatePattern(p) {
				return errors.Errorf("invalid ignore pattern %q", p)
			}
		}
	}
	for _, m := range u.AllowedMimeTypes {
		if strings.TrimSpace(m) == "" {
			return errors.Errorf("allowed_mime_types must not contain blank entries")
		}
	}
	if u.Tool != nil && u.Tool.Script == "" && u.Tool.Interpreter == "" {
		return errors.Errorf("tool block needs an interpreter or a script")
	}
	return nil
}

// 🔄 Merge returns cfg with u applied; cfg itself is not modified.
//
// Debug and ContinueOnError only ever switch on. A present option list is
// filtered through allow and replaces the previous one.
func Merge(allow AllowList, cfg RunConfiguration, u Update) RunConfiguration {
	next := cfg.Clone()

	if u.Debug != nil && *u.Debug {
		next.Debug = true
	}
	if u.ContinueOnError != nil && *u.ContinueOnError {
		next.ContinueOnError = true
	}
	if u.ObfuscationOptions != nil {
		next.Options = Filter(allow, *u.ObfuscationOptions)
	}
	if len(u.AllowedMimeTypes) > 0 {
		next.AllowedContentTypes = slices.Clone(u.AllowedMimeTypes)
	}
	if u.IgnorePatterns != nil {
		next.IgnorePatterns = slices.Clone(*u.IgnorePatterns)
	}
	if u.Workers > 0 {
		next.Workers = u.Workers
	}

	return next
}

// 📋 Clone returns a deep copy
func (cfg RunConfiguration) Clone() RunConfiguration {
	out := cfg
	out.AllowedContentTypes = slices.Clone(cfg.AllowedContentTypes)
	out.Options = slices.Clone(cfg.Options)
	out.IgnorePatterns = slices.Clone(cfg.IgnorePatterns)
	return out
}

// 🔍 AllowsContentType reports whether files of contentType are processed during a walk
func (cfg RunConfiguration) AllowsContentType(contentType string) bool {
	return slices.Contains(cfg.AllowedContentTypes, contentType)
}

// 📝 String returns a short representation for logs
func (cfg RunConfiguration) String() string {
	return fmt.Sprintf("debug=%t types=%v options=%v workers=%d continue_on_error=%t",
		cfg.Debug, cfg.AllowedContentTypes, cfg.Options, cfg.Workers, cfg.ContinueOnError)
}

// Bool returns a pointer to b, for building updates in code.
func Bool(b bool) *bool { return &b }

// Strings returns a pointer to s, for building updates in code.
func Strings(s ...string) *[]string { return &s }
