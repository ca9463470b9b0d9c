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

// NewDirCmd creates the command obfuscating a directory tree
func NewDirCmd(opts *opts.RootOpts) *cobra.Command {
	var recursive bool

	cmd := &cobra.Command{
		Use:   "dir <source> <target>",
		Short: "Obfuscate every PHP file of a directory tree",
		Long: `Dir mirrors source into target and runs the obfuscator on every file whose
content type is allowed. It will:
1. Create target if it does not exist, reusing it otherwise
2. Recreate each subdirectory of source under target (unless --recursive=false)
3. Obfuscate allowed files, silently skipping the others`,
		Args: cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			op := log.RunOperation{Source: args[0], Target: args[1], Recursive: recursive, IsDir: true}

			err := runRequest(ctx, cmd.OutOrStdout(), opts.Obfuscator, op, func() error {
				return opts.Obfuscator.ObfuscateDirectory(ctx, args[0], args[1], recursive)
			})
			if err != nil {
				return errors.Errorf("obfuscating directory: %w", err)
			}
			return nil
		},
	}

	cmd.Flags().BoolVarP(&recursive, "recursive", "r", true, "descend into subdirectories")

	return cmd
}
