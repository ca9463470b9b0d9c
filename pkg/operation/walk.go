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
	"os"
	"path"
	"slices"
	"sync"
	"time"

	"github.com/bmatcuk/doublestar/v4"
	"github.com/go-git/go-billy/v5"
	"github.com/rs/zerolog"
	"github.com/walteh/obfrc/pkg/classify"
	"github.com/walteh/obfrc/pkg/config"
	"github.com/walteh/obfrc/pkg/invocation"
	"github.com/walteh/obfrc/pkg/process"
	"gitlab.com/tozd/go/errors"
	"golang.org/x/sync/errgroup"
)

// 📁 TraversalTask is one directory level of a walk
type TraversalTask struct {
	SourceDir string
	TargetDir string
	Recursive bool
	Rel       string // Slash path of SourceDir relative to the walk root, "" at the root

	ancestors []os.FileInfo // source directories above this level, for cycle detection
}

// 🚶 walker runs one top-level call with a fixed configuration snapshot
type walker struct {
	fs         billy.Filesystem
	cfg        config.RunConfiguration
	classifier classify.Classifier
	runner     process.Runner
	reporter   Reporter
	counters   *counters

	targetRoot string      // never walked as a source, even when it lies inside one
	targetInfo os.FileInfo // target root as created by the top-level walk

	mu   sync.Mutex
	errs []error // collected when cfg.ContinueOnError is set
}

// 🌳 walk mirrors task.SourceDir into task.TargetDir.
//
// The target directory is created before any entry is dispatched. With one
// worker every file completes before the next entry is looked at; with more,
// the files of a directory fan out while subdirectories are walked in order.
func (w *walker) walk(ctx context.Context, task TraversalTask) error {
	logger := zerolog.Ctx(ctx)

	if err := ctx.Err(); err != nil {
		return errors.Errorf("walk of %s cancelled: %w", task.SourceDir, err)
	}

	info, err := w.fs.Stat(task.SourceDir)
	if err != nil {
		return pathError(ErrIOFailure, task.SourceDir, err)
	}
	if w.revisits(info, task.ancestors) {
		logger.Debug().Str("source", task.SourceDir).Msg("skipping directory already on the walk path")
		return nil
	}

	if err := w.ensureDir(ctx, task.TargetDir); err != nil {
		return err
	}
	if task.Rel == "" {
		if ti, err := w.fs.Stat(task.TargetDir); err == nil {
			w.targetInfo = ti
		}
	}

	entries, err := w.fs.ReadDir(task.SourceDir)
	if err != nil {
		return pathError(ErrIOFailure, task.SourceDir, err)
	}

	logger.Debug().Str("source", task.SourceDir).Str("target", task.TargetDir).Int("entries", len(entries)).Msg("walking directory")

	parallel := w.cfg.Workers > 1
	g, gctx := errgroup.WithContext(ctx)
	if parallel {
		g.SetLimit(w.cfg.Workers)
	}

	var loopErr error
	for _, entry := range entries {
		if err := gctx.Err(); err != nil {
			loopErr = errors.Errorf("walk of %s cancelled: %w", task.SourceDir, err)
			break
		}

		name := entry.Name()
		if name == "." || name == ".." {
			continue
		}

		rel := path.Join(task.Rel, name)
		src := w.fs.Join(task.SourceDir, name)
		dst := w.fs.Join(task.TargetDir, name)

		// symlinks are followed
		mode := entry.Mode()
		if mode&os.ModeSymlink != 0 {
			target, err := w.fs.Stat(src)
			if err != nil {
				logger.Debug().Err(err).Str("path", src).Msg("skipping dangling symlink")
				continue
			}
			mode = target.Mode()
		}

		if w.ignored(rel) {
			logger.Debug().Str("path", rel).Msg("ignored by pattern")
			if !mode.IsDir() {
				w.done(ctx, FileEvent{Source: src, Target: dst, Status: StatusIgnored})
			}
			continue
		}

		if mode.IsDir() {
			if !task.Recursive {
				continue
			}
			if src == w.targetRoot {
				logger.Debug().Str("path", src).Msg("skipping target directory inside source")
				continue
			}
			child := TraversalTask{
				SourceDir: src,
				TargetDir: dst,
				Recursive: true,
				Rel:       rel,
				ancestors: append(slices.Clip(task.ancestors), info),
			}
			if err := w.collect(w.walk(gctx, child)); err != nil {
				loopErr = err
				break
			}
			continue
		}

		if !mode.IsRegular() {
			logger.Debug().Str("path", src).Str("mode", mode.String()).Msg("skipping non-regular file")
			continue
		}

		if !parallel {
			if err := w.collect(w.dispatch(gctx, src, dst)); err != nil {
				loopErr = err
				break
			}
			continue
		}

		g.Go(func() error {
			return w.collect(w.dispatch(gctx, src, dst))
		})
	}

	// a worker failure is the root cause of any cancellation seen by the loop
	if err := g.Wait(); err != nil {
		return err
	}
	return loopErr
}

// 📂 ensureDir reuses an existing directory or creates it, parents included
func (w *walker) ensureDir(ctx context.Context, dir string) error {
	info, err := w.fs.Stat(dir)
	switch {
	case err == nil && info.IsDir():
		return nil
	case err == nil:
		return pathError(ErrIOFailure, dir, errors.New("target exists and is not a directory"))
	case !errors.Is(err, os.ErrNotExist):
		return pathError(ErrIOFailure, dir, err)
	}

	if err := w.fs.MkdirAll(dir, 0755); err != nil {
		return pathError(ErrIOFailure, dir, err)
	}
	zerolog.Ctx(ctx).Debug().Str("target", dir).Msg("created target directory")
	return nil
}

// 🔍 dispatch classifies a file found by the walk and runs it when its type is allowed
func (w *walker) dispatch(ctx context.Context, src, dst string) error {
	if err := ctx.Err(); err != nil {
		return errors.Errorf("dispatch of %s cancelled: %w", src, err)
	}

	ct, err := w.classifier.Classify(ctx, src)
	if err != nil {
		w.done(ctx, FileEvent{Source: src, Target: dst, Status: StatusFailed, Err: err})
		return pathError(ErrIOFailure, src, err)
	}

	if !w.cfg.AllowsContentType(ct) {
		zerolog.Ctx(ctx).Debug().Str("source", src).Str("content_type", ct).Msg("content type not allowed")
		w.done(ctx, FileEvent{Source: src, Target: dst, ContentType: ct, Status: StatusSkipped})
		return nil
	}

	return w.process(ctx, src, dst, ct)
}

// 🏃 process builds the invocation for one file and runs it
func (w *walker) process(ctx context.Context, src, dst, contentType string) error {
	inv := invocation.New(src, dst, w.cfg.Options, w.cfg.Debug)
	zerolog.Ctx(ctx).Debug().Str("invocation", inv.String()).Msg("dispatching file")

	start := time.Now()
	err := w.runner.Run(ctx, inv)
	ev := FileEvent{Source: src, Target: dst, ContentType: contentType, Duration: time.Since(start)}
	if err != nil {
		ev.Status = StatusFailed
		ev.Err = err
		w.done(ctx, ev)
		return pathError(ErrToolInvocation, src, err)
	}

	ev.Status = StatusProcessed
	w.done(ctx, ev)
	return nil
}

func (w *walker) done(ctx context.Context, ev FileEvent) {
	w.counters.add(ev.Status)
	w.reporter.FileDone(ctx, ev)
}

// revisits reports whether info is the target root or one of the directories being walked above it
func (w *walker) revisits(info os.FileInfo, ancestors []os.FileInfo) bool {
	if w.targetInfo != nil && os.SameFile(info, w.targetInfo) {
		return true
	}
	for _, a := range ancestors {
		if os.SameFile(info, a) {
			return true
		}
	}
	return false
}

// 🔍 ignored checks rel against the ignore patterns
func (w *walker) ignored(rel string) bool {
	for _, pattern := range w.cfg.IgnorePatterns {
		if ok, err := doublestar.Match(pattern, rel); err == nil && ok {
			return true
		}
	}
	return false
}

// collect keeps err aside when the run continues on error. Cancellation is never kept aside.
func (w *walker) collect(err error) error {
	if err == nil || !w.cfg.ContinueOnError {
		return err
	}
	if errors.Is(err, context.Canceled) || errors.Is(err, context.DeadlineExceeded) {
		return err
	}
	w.mu.Lock()
	defer w.mu.Unlock()
	w.errs = append(w.errs, err)
	return nil
}

// result joins the collected errors, if any
func (w *walker) result() error {
	w.mu.Lock()
	defer w.mu.Unlock()
	if len(w.errs) == 0 {
		return nil
	}
	return errors.Join(w.errs...)
}
