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

package commands

import (
	"github.com/spf13/cobra"
	"github.com/walteh/obfrc/cmd/obfrc/opts"
	"github.com/walteh/obfrc/pkg/log"
	"gitlab.com/tozd/go/errors"
)

// NewFileCmd creates the command obfuscating a single file
func NewFileCmd(opts *opts.RootOpts) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "file <source> <target>",
		Short: "Obfuscate a single file",
		Long: `File runs the obfuscator on one file and writes the result to target.
The content type of the source is not checked.`,
		Args: cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			op := log.RunOperation{Source: args[0], Target: args[1]}

			err := runRequest(ctx, cmd.OutOrStdout(), opts.Obfuscator, op, func() error {
				return opts.Obfuscator.ObfuscateFile(ctx, args[0], args[1])
			})
			if err != nil {
				return errors.Errorf("obfuscating file: %w", err)
			}
			return nil
		},
	}

	return cmd
}
