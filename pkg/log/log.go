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

package log

import (
	"context"
	"fmt"
	"io"
	"path/filepath"
	"strings"
	"sync"

	"github.com/fatih/color"
	"github.com/rs/zerolog"
	"github.com/walteh/obfrc/pkg/operation"
)

// 🎨 Display configuration
const (
	fileIndent  = 4  // spaces to indent file entries
	nameWidth   = 35 // Base width for filename
	typeWidth   = 15 // Width for content type
	statusWidth = 10 // Width for status text
)

// 📦 RunOperation describes a top-level obfuscation request
type RunOperation struct {
	Source    string // Source file or directory
	Target    string // Target file or directory
	Recursive bool   // Whether subdirectories are visited
	IsDir     bool   // Directory request
}

// 🎯 Logger prints one line per file and mirrors everything to zerolog
type Logger struct {
	zlog        zerolog.Logger
	console     io.Writer
	mu          sync.Mutex
	currentOp   *RunOperation
	showSkipped bool
	files       int
}

// 🏭 New creates a new logger
func New(console io.Writer, level zerolog.Level) *Logger {
	zlog := zerolog.New(zerolog.NewConsoleWriter()).With().Timestamp().Logger().Level(level)
	return &Logger{
		zlog:        zlog,
		console:     console,
		mu:          sync.Mutex{},
		showSkipped: level <= zerolog.DebugLevel,
	}
}

// ShowSkipped toggles console lines for skipped and ignored files.
func (l *Logger) ShowSkipped(show bool) *Logger {
	l.mu.Lock()
	defer l.mu.Unlock()
	l.showSkipped = show
	return l
}

// 🔑 contextKey is the type for context values
type contextKey struct{}

// 🎯 FromContext gets the logger from context
func FromContext(ctx context.Context) *Logger {
	logger, ok := ctx.Value(contextKey{}).(*Logger)
	if !ok {
		panic("logger not found in context")
	}
	return logger
}

// 🎯 NewContext adds the logger to context
func NewContext(ctx context.Context, l *Logger) context.Context {
	return context.WithValue(ctx, contextKey{}, l)
}

// 📝 displayPath shortens p relative to the current source when possible
func (l *Logger) displayPath(p string) string {
	if l.currentOp == nil || !l.currentOp.IsDir {
		return p
	}
	rel, err := filepath.Rel(l.currentOp.Source, p)
	if err != nil || strings.HasPrefix(rel, "..") {
		return p
	}
	return rel
}

// 📝 formatFileEvent formats a file event for display
func (l *Logger) formatFileEvent(ev operation.FileEvent) string {
	var symbol rune
	var symbolColor color.Attribute
	switch ev.Status {
	case operation.StatusProcessed:
		symbol = '✓'
		symbolColor = color.FgGreen
	case operation.StatusFailed:
		symbol = '✗'
		symbolColor = color.FgRed
	case operation.StatusIgnored:
		symbol = '•'
		symbolColor = color.FgCyan
	default:
		symbol = '-'
		symbolColor = color.FgYellow
	}

	contentType := ev.ContentType
	if contentType == "" {
		contentType = "-"
	}

	return fmt.Sprintf("%s%s %s %s %s",
		fmt.Sprintf("%*s", fileIndent, ""),
		color.New(symbolColor).Sprint(string(symbol)),
		fmt.Sprintf("%-*s", nameWidth, l.displayPath(ev.Source)),
		color.New(color.FgBlue).Sprint(fmt.Sprintf("%-*s", typeWidth, contentType)),
		fmt.Sprintf("%-*s", statusWidth, strings.ToUpper(ev.Status.String())))
}

// 📝 FileDone logs a file event; it satisfies operation.Reporter
func (l *Logger) FileDone(ctx context.Context, ev operation.FileEvent) {
	l.mu.Lock()
	defer l.mu.Unlock()

	l.files++

	quiet := ev.Status == operation.StatusSkipped || ev.Status == operation.StatusIgnored
	if !quiet || l.showSkipped {
		fmt.Fprintln(l.console, l.formatFileEvent(ev))
	}

	e := l.zlog.Info()
	if ev.Status == operation.StatusFailed {
		e = l.zlog.Error().Err(ev.Err)
	} else if quiet {
		e = l.zlog.Debug()
	}
	e.Str("source", ev.Source).
		Str("target", ev.Target).
		Str("content_type", ev.ContentType).
		Str("status", ev.Status.String()).
		Dur("duration", ev.Duration).
		Msg("file operation")
}

// 📝 StartRun starts a new run
func (l *Logger) StartRun(ctx context.Context, op RunOperation) {
	l.mu.Lock()
	defer l.mu.Unlock()

	l.currentOp = &op
	l.files = 0

	fmt.Fprintf(l.console, "[obfuscating %s]\n",
		color.New(color.FgCyan).Sprint(op.Source))

	mode := "file"
	if op.IsDir {
		mode = "recursive"
		if !op.Recursive {
			mode = "flat"
		}
	}
	fmt.Fprintf(l.console, "%s %s %s %s\n",
		color.New(color.FgMagenta).Sprint("◆"),
		color.New(color.Bold).Sprint(op.Target),
		color.New(color.Faint).Sprint("•"),
		color.New(color.FgYellow).Sprint(mode))

	l.zlog.Info().
		Str("source", op.Source).
		Str("target", op.Target).
		Bool("recursive", op.Recursive).
		Bool("is_dir", op.IsDir).
		Msg("starting run")
}

// 📝 EndRun ends the current run
func (l *Logger) EndRun(ctx context.Context, report operation.Report) {
	l.mu.Lock()
	defer l.mu.Unlock()

	if l.currentOp == nil {
		return
	}

	l.zlog.Info().
		Str("source", l.currentOp.Source).
		Int("files", l.files).
		Int("processed", report.Processed).
		Int("skipped", report.Skipped).
		Int("ignored", report.Ignored).
		Int("failed", report.Failed).
		Dur("duration", report.Duration).
		Msg("run complete")

	l.currentOp = nil
	l.files = 0
}

// 📝 LogNewline logs a newline
func (l *Logger) LogNewline() {
	l.mu.Lock()
	defer l.mu.Unlock()
	fmt.Fprintln(l.console)
}

// 📝 Header logs a header
func (l *Logger) Header(msg string) {
	l.mu.Lock()
	defer l.mu.Unlock()
	name := color.New(color.Bold, color.FgCyan).Sprint("obfrc")
	fmt.Fprintf(l.console, "\n%s %s\n\n", name, color.New(color.Faint).Sprint("• "+msg))
	l.zlog.Info().Msg(msg)
}

// 📝 Success logs a success message
func (l *Logger) Success(msg string) {
	l.mu.Lock()
	defer l.mu.Unlock()
	fmt.Fprintf(l.console, "✅ %s\n", color.New(color.FgGreen).Sprint(msg))
	l.zlog.Info().Msg(msg)
}

// 📝 Warning logs a warning message
func (l *Logger) Warning(msg string) {
	l.mu.Lock()
	defer l.mu.Unlock()
	fmt.Fprintf(l.console, "⚠️  %s\n", color.New(color.FgYellow).Sprint(msg))
	l.zlog.Warn().Msg(msg)
}

// 📝 Error logs an error message
func (l *Logger) Error(msg string) {
	l.mu.Lock()
	defer l.mu.Unlock()
	fmt.Fprintf(l.console, "❌ %s\n", color.New(color.FgRed).Sprint(msg))
	l.zlog.Error().Msg(msg)
}

// 📝 Info logs an info message
func (l *Logger) Info(msg string) {
	l.mu.Lock()
	defer l.mu.Unlock()
	fmt.Fprintf(l.console, "ℹ️  %s\n", color.New(color.FgCyan).Sprint(msg))
	l.zlog.Info().Msg(msg)
}

// 📝 Infof logs a formatted info message
func (l *Logger) Infof(format string, args ...interface{}) {
	l.Info(fmt.Sprintf(format, args...))
}

// 📝 Warningf logs a formatted warning message
func (l *Logger) Warningf(format string, args ...interface{}) {
	l.Warning(fmt.Sprintf(format, args...))
}

// 📝 Errorf logs a formatted error message
func (l *Logger) Errorf(format string, args ...interface{}) {
	l.Error(fmt.Sprintf(format, args...))
}

// 📝 Successf logs a formatted success message
func (l *Logger) Successf(format string, args ...interface{}) {
	l.Success(fmt.Sprintf(format, args...))
}

var _ operation.Reporter = (*Logger)(nil)
