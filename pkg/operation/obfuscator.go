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

package operation

import (
	"context"
	"path/filepath"
	"sync"

	"github.com/go-git/go-billy/v5"
	"github.com/go-git/go-billy/v5/osfs"
	"github.com/rs/zerolog"
	"github.com/walteh/obfrc/pkg/classify"
	"github.com/walteh/obfrc/pkg/config"
	"github.com/walteh/obfrc/pkg/process"
	"github.com/walteh/obfrc/pkg/toolchain"
	"gitlab.com/tozd/go/errors"
)

// 🔧 Options contains the collaborators of an Obfuscator
type Options struct {
	// Runner executes the external tool. Required.
	Runner process.Runner
	// FS is where sources are read and targets created. Defaults to the host
	// filesystem, in which case relative paths are made absolute first.
	FS billy.Filesystem
	// Classifier decides the content type of files found by a walk.
	// Defaults to content sniffing on FS.
	Classifier classify.Classifier
	// Environment is checked once by New. Optional.
	Environment toolchain.Checker
	// AllowList filters requested options. Defaults to config.DefaultAllowList.
	AllowList config.AllowList
	// Reporter is told about every file. Optional.
	Reporter Reporter
	// Config is merged into config.Default() at construction.
	Config config.Update
}

// 🎯 Obfuscator runs the external obfuscator over single files and directory trees
type Obfuscator struct {
	runner     process.Runner
	fs         billy.Filesystem
	hostFS     bool
	classifier classify.Classifier
	allow      config.AllowList
	reporter   Reporter

	mu  sync.RWMutex
	cfg config.RunConfiguration

	lastMu sync.Mutex
	last   Report
}

// 🏭 New checks the environment and creates an obfuscator
func New(ctx context.Context, opts Options) (*Obfuscator, error) {
	if opts.Runner == nil {
		return nil, errors.Errorf("runner is required")
	}

	if opts.Environment != nil {
		if err := opts.Environment.Check(ctx); err != nil {
			return nil, pathError(ErrInvalidEnvironment, "environment", err)
		}
	}

	o := &Obfuscator{
		runner:     opts.Runner,
		fs:         opts.FS,
		classifier: opts.Classifier,
		allow:      opts.AllowList,
		reporter:   opts.Reporter,
		cfg:        config.Default(),
	}

	if o.fs == nil {
		o.fs = osfs.New("/")
		o.hostFS = true
	}
	if o.allow == nil {
		o.allow = config.DefaultAllowList
	}
	if o.reporter == nil {
		o.reporter = nopReporter{}
	}
	if o.classifier == nil {
		cached, err := classify.NewCachedClassifier(o.fs, classify.NewMimeClassifier(o.fs), classify.DefaultCacheSize)
		if err != nil {
			return nil, errors.Errorf("creating classifier: %w", err)
		}
		o.classifier = cached
	}

	o.Configure(ctx, opts.Config)

	return o, nil
}

// 🔄 Configure merges update into the current configuration.
// Callers must not configure while a run is in flight; a run keeps the snapshot it started with.
func (o *Obfuscator) Configure(ctx context.Context, update config.Update) {
	o.mu.Lock()
	defer o.mu.Unlock()

	if update.ObfuscationOptions != nil {
		kept := config.Filter(o.allow, *update.ObfuscationOptions)
		if dropped := len(*update.ObfuscationOptions) - len(kept); dropped > 0 {
			zerolog.Ctx(ctx).Debug().Int("dropped", dropped).Strs("requested", *update.ObfuscationOptions).Msg("ignoring unknown obfuscation options")
		}
	}

	o.cfg = config.Merge(o.allow, o.cfg, update)
	zerolog.Ctx(ctx).Debug().Stringer("config", o.cfg).Msg("configuration updated")
}

// 📋 Config returns a copy of the current configuration
func (o *Obfuscator) Config() config.RunConfiguration {
	o.mu.RLock()
	defer o.mu.RUnlock()
	return o.cfg.Clone()
}

// 📈 LastReport returns the summary of the last ObfuscateFile or ObfuscateDirectory call
func (o *Obfuscator) LastReport() Report {
	o.lastMu.Lock()
	defer o.lastMu.Unlock()
	return o.last
}

// 📄 ObfuscateFile runs the obfuscator on one file. The content type is not checked.
func (o *Obfuscator) ObfuscateFile(ctx context.Context, source, target string) error {
	source, target, err := o.resolve(source, target)
	if err != nil {
		return err
	}

	if err := o.checkReadable(source); err != nil {
		return err
	}

	w := o.newWalker()
	defer o.finish(w)

	return w.process(ctx, source, target, "")
}

// 📁 ObfuscateDirectory mirrors source into target, running the obfuscator on every
// file with an allowed content type. Subdirectories are only visited when recursive is set.
func (o *Obfuscator) ObfuscateDirectory(ctx context.Context, source, target string, recursive bool) error {
	source, target, err := o.resolve(source, target)
	if err != nil {
		return err
	}

	info, err := o.fs.Stat(source)
	if err != nil {
		return pathError(ErrNotFoundOrUnreadable, source, err)
	}
	if !info.IsDir() {
		return pathError(ErrNotFoundOrUnreadable, source, errors.New("not a directory"))
	}

	w := o.newWalker()
	w.targetRoot = target
	defer o.finish(w)

	zerolog.Ctx(ctx).Info().Str("source", source).Str("target", target).Bool("recursive", recursive).Msg("obfuscating directory")

	if err := w.walk(ctx, TraversalTask{SourceDir: source, TargetDir: target, Recursive: recursive}); err != nil {
		return err
	}
	return w.result()
}

func (o *Obfuscator) newWalker() *walker {
	return &walker{
		fs:         o.fs,
		cfg:        o.Config(),
		classifier: o.classifier,
		runner:     o.runner,
		reporter:   o.reporter,
		counters:   newCounters(),
	}
}

func (o *Obfuscator) finish(w *walker) {
	o.lastMu.Lock()
	defer o.lastMu.Unlock()
	o.last = w.counters.report()
}

// resolve makes host paths absolute; billy's host filesystem is rooted at "/"
func (o *Obfuscator) resolve(source, target string) (string, string, error) {
	if !o.hostFS {
		return filepath.Clean(source), filepath.Clean(target), nil
	}
	src, err := filepath.Abs(source)
	if err != nil {
		return "", "", pathError(ErrNotFoundOrUnreadable, source, err)
	}
	dst, err := filepath.Abs(target)
	if err != nil {
		return "", "", pathError(ErrIOFailure, target, err)
	}
	return src, dst, nil
}

// checkReadable opens path for reading
func (o *Obfuscator) checkReadable(path string) error {
	info, err := o.fs.Stat(path)
	if err != nil {
		return pathError(ErrNotFoundOrUnreadable, path, err)
	}
	if info.IsDir() {
		return pathError(ErrNotFoundOrUnreadable, path, errors.New("is a directory"))
	}
	f, err := o.fs.Open(path)
	if err != nil {
		return pathError(ErrNotFoundOrUnreadable, path, err)
	}
	return f.Close()
}
