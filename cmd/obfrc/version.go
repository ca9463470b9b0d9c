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
	"encoding/json"
	"fmt"
	"io"
	"runtime"
	"runtime/debug"
	"strings"

	"github.com/spf13/cobra"
	"github.com/walteh/obfrc/pkg/config"
	"github.com/walteh/obfrc/pkg/toolchain"
)

// VersionInfo describes the binary and the obfuscator it drives by default
type VersionInfo struct {
	Version        string `json:"version"`
	Revision       string `json:"revision,omitempty"`
	Modified       bool   `json:"modified"`
	BuildTime      string `json:"build_time,omitempty"`
	GoVersion      string `json:"go_version"`
	Platform       string `json:"platform"`
	Interpreter    string `json:"interpreter"`
	Script         string `json:"script"`
	MinimumVersion string `json:"minimum_interpreter_version"`
	Options        int    `json:"known_options"`
}

// GetVersionInfo collects build settings and obfuscator defaults
func GetVersionInfo() VersionInfo {
	tool := toolchain.Default()
	info := VersionInfo{
		Version:        "dev",
		GoVersion:      runtime.Version(),
		Platform:       runtime.GOOS + "/" + runtime.GOARCH,
		Interpreter:    tool.Interpreter,
		Script:         tool.Script,
		MinimumVersion: strings.TrimPrefix(toolchain.MinimumVersion, "v"),
		Options:        len(config.DefaultAllowList),
	}

	buildInfo, ok := debug.ReadBuildInfo()
	if !ok {
		return info
	}
	if v := buildInfo.Main.Version; v != "" && v != "(devel)" {
		info.Version = v
	}
	for _, s := range buildInfo.Settings {
		switch s.Key {
		case "vcs.revision":
			info.Revision = s.Value
		case "vcs.time":
			info.BuildTime = s.Value
		case "vcs.modified":
			info.Modified = s.Value == "true"
		}
	}
	return info
}

// writeVersion prints info as text or, with asJSON, as an indented JSON object
func writeVersion(w io.Writer, info VersionInfo, asJSON bool) error {
	if asJSON {
		enc := json.NewEncoder(w)
		enc.SetIndent("", "  ")
		return enc.Encode(info)
	}

	revision := info.Revision
	if revision == "" {
		revision = "unknown"
	}
	if info.Modified {
		revision += " (modified)"
	}

	_, err := fmt.Fprintf(w, `🚀 obfrc version info:
Version:      %s
Revision:     %s
Go:           %s
Platform:     %s
Interpreter:  %s (>= %s)
Script:       %s
Options:      %d known
`, info.Version, revision, info.GoVersion, info.Platform, info.Interpreter, info.MinimumVersion, info.Script, info.Options)
	return err
}

func newVersionCmd() *cobra.Command {
	var asJSON bool

	cmd := &cobra.Command{
		Use:   "version",
		Short: "Print version information",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return writeVersion(cmd.OutOrStdout(), GetVersionInfo(), asJSON)
		},
	}

	cmd.Flags().BoolVar(&asJSON, "json", false, "print as JSON")

	return cmd
}
