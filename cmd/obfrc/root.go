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
	"context"
	"os"

	"github.com/joho/godotenv"
	"github.com/rs/zerolog"
	"github.com/spf13/cobra"
	"github.com/walteh/obfrc/cmd/obfrc/commands"
	"github.com/walteh/obfrc/cmd/obfrc/opts"
	"github.com/walteh/obfrc/pkg/config"
	"github.com/walteh/obfrc/pkg/log"
	"github.com/walteh/obfrc/pkg/operation"
	"github.com/walteh/obfrc/pkg/process"
	"github.com/walteh/obfrc/pkg/toolchain"
	"gitlab.com/tozd/go/errors"
)

const defaultConfigFile = ".obfrc.yaml"

// rootFlags holds the persistent flags shared by all commands
type rootFlags struct {
	configFile      string
	debug           bool
	options         []string
	ignore          []string
	workers         int
	continueOnError bool
	php             string
	script          string
}

// newRootCmd creates the command tree
func newRootCmd() *cobra.Command {
	flags := &rootFlags{}
	rootOpts := &opts.RootOpts{}

	cmd := &cobra.Command{
		Use:   "obfrc",
		Short: "Obfuscate PHP sources with yakpro-po",
		Long: `obfrc runs the yakpro-po obfuscator over single files or whole directory trees,
mirroring the source tree into a target tree and skipping files that are not PHP.`,
		SilenceUsage: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			switch cmd.Name() {
			case "version", "help", "completion":
				return nil
			}
			ctx := setupLogging(cmd.Context(), flags.debug)
			console, err := newRootOpts(ctx, cmd, flags, rootOpts)
			if err != nil {
				return err
			}
			cmd.SetContext(log.NewContext(ctx, console))
			return nil
		},
	}

	addRootFlags(cmd, flags)

	cmd.AddCommand(
		commands.NewFileCmd(rootOpts),
		commands.NewDirCmd(rootOpts),
		newVersionCmd(),
	)

	return cmd
}

// addRootFlags adds shared flags to the root command
func addRootFlags(cmd *cobra.Command, f *rootFlags) {
	pf := cmd.PersistentFlags()
	pf.StringVarP(&f.configFile, "config", "c", defaultConfigFile, "config file path (.yaml, .json or .hcl)")
	pf.BoolVarP(&f.debug, "debug", "d", false, "enable debug logging and pass --debug to the obfuscator")
	pf.StringSliceVarP(&f.options, "option", "o", nil, "obfuscation option without the leading --, repeatable")
	pf.StringSliceVar(&f.ignore, "ignore", nil, "doublestar pattern of files to leave alone, repeatable")
	pf.IntVarP(&f.workers, "workers", "w", 0, "files obfuscated concurrently per directory")
	pf.BoolVar(&f.continueOnError, "continue-on-error", false, "keep going after a failure and report all of them")
	pf.StringVar(&f.php, "php", "", "php interpreter (env OBFRC_PHP)")
	pf.StringVar(&f.script, "script", "", "path to yakpro-po.php (env OBFRC_SCRIPT)")
}

// setupLogging configures zerolog based on flags
func setupLogging(ctx context.Context, debug bool) context.Context {
	level := zerolog.InfoLevel
	if debug {
		level = zerolog.DebugLevel
	}
	logger := zerolog.Ctx(ctx).Level(level)
	return logger.WithContext(ctx)
}

// newRootOpts loads configuration and wires the obfuscator
func newRootOpts(ctx context.Context, cmd *cobra.Command, f *rootFlags, out *opts.RootOpts) (*log.Logger, error) {
	logger := zerolog.Ctx(ctx)

	if err := godotenv.Load(); err != nil && !errors.Is(err, os.ErrNotExist) {
		logger.Debug().Err(err).Msg("ignoring unreadable .env")
	}

	fileCfg := &config.Update{}
	if _, err := os.Stat(f.configFile); err == nil || cmd.Flags().Changed("config") {
		loaded, err := config.Load(ctx, f.configFile)
		if err != nil {
			return nil, errors.Errorf("loading config: %w", err)
		}
		fileCfg = loaded
	}

	tool := resolveTool(fileCfg.Tool, f)
	located, err := tool.Locate()
	if err != nil {
		return nil, errors.Errorf("locating obfuscator: %w", err)
	}

	runner, err := process.NewExecRunner(located.Entrypoint())
	if err != nil {
		return nil, errors.Errorf("creating runner: %w", err)
	}
	logger.Debug().Strs("entrypoint", runner.Entrypoint()).Msg("obfuscator located")

	level := zerolog.InfoLevel
	if f.debug {
		level = zerolog.DebugLevel
	}
	console := log.New(cmd.OutOrStdout(), level)

	obf, err := operation.New(ctx, operation.Options{
		Runner:      runner,
		Environment: toolchain.NewVersionChecker(located),
		Reporter:    console,
		Config:      *fileCfg,
	})
	if err != nil {
		return nil, errors.Errorf("creating obfuscator: %w", err)
	}

	upd := flagUpdate(cmd, f)
	if err := upd.Validate(); err != nil {
		return nil, errors.Errorf("invalid flags: %w", err)
	}
	obf.Configure(ctx, upd)

	out.Obfuscator = obf
	return console, nil
}

// resolveTool layers defaults, the config file, the environment and flags
func resolveTool(fromFile *config.ToolArgs, f *rootFlags) toolchain.Tool {
	tool := toolchain.Default()
	if fromFile != nil {
		if fromFile.Interpreter != "" {
			tool.Interpreter = fromFile.Interpreter
		}
		if fromFile.Script != "" {
			tool.Script = fromFile.Script
		}
	}
	if v := os.Getenv("OBFRC_PHP"); v != "" {
		tool.Interpreter = v
	}
	if v := os.Getenv("OBFRC_SCRIPT"); v != "" {
		tool.Script = v
	}
	if f.php != "" {
		tool.Interpreter = f.php
	}
	if f.script != "" {
		tool.Script = f.script
	}
	return tool
}

// flagUpdate turns explicitly set flags into a config update
func flagUpdate(cmd *cobra.Command, f *rootFlags) config.Update {
	upd := config.Update{Workers: f.workers}
	flags := cmd.Flags()
	if flags.Changed("debug") {
		upd.Debug = config.Bool(f.debug)
	}
	if flags.Changed("option") {
		upd.ObfuscationOptions = config.Strings(f.options...)
	}
	if flags.Changed("ignore") {
		upd.IgnorePatterns = config.Strings(f.ignore...)
	}
	if flags.Changed("continue-on-error") {
		upd.ContinueOnError = config.Bool(f.continueOnError)
	}
	return upd
}
