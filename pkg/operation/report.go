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
	"sync/atomic"
	"time"
)

// 📊 FileStatus is the outcome for one file
type FileStatus int

const (
	StatusProcessed FileStatus = iota // Obfuscator ran successfully
	StatusSkipped                     // Content type not allowed
	StatusIgnored                     // Matched an ignore pattern
	StatusFailed                      // Obfuscator failed
)

// String returns a string representation of FileStatus
func (s FileStatus) String() string {
	switch s {
	case StatusProcessed:
		return "processed"
	case StatusSkipped:
		return "skipped"
	case StatusIgnored:
		return "ignored"
	case StatusFailed:
		return "failed"
	default:
		return "unknown"
	}
}

// 📄 FileEvent describes what happened to one file
type FileEvent struct {
	Source      string
	Target      string
	ContentType string // Empty for single-file requests and ignored files
	Status      FileStatus
	Duration    time.Duration
	Err         error
}

// 📣 Reporter receives an event for every file a run looks at.
// Implementations must be safe for concurrent use.
type Reporter interface {
	FileDone(ctx context.Context, ev FileEvent)
}

type nopReporter struct{}

func (nopReporter) FileDone(context.Context, FileEvent) {}

// 📈 Report summarizes the last top-level call
type Report struct {
	Processed int
	Skipped   int
	Ignored   int
	Failed    int
	Started   time.Time
	Duration  time.Duration
}

// counters are shared by the workers of one run
type counters struct {
	processed atomic.Int64
	skipped   atomic.Int64
	ignored   atomic.Int64
	failed    atomic.Int64
	started   time.Time
}

func newCounters() *counters {
	return &counters{started: time.Now()}
}

func (c *counters) add(s FileStatus) {
	switch s {
	case StatusProcessed:
		c.processed.Add(1)
	case StatusSkipped:
		c.skipped.Add(1)
	case StatusIgnored:
		c.ignored.Add(1)
	case StatusFailed:
		c.failed.Add(1)
	}
}

func (c *counters) report() Report {
	return Report{
		Processed: int(c.processed.Load()),
		Skipped:   int(c.skipped.Load()),
		Ignored:   int(c.ignored.Load()),
		Failed:    int(c.failed.Load()),
		Started:   c.started,
		Duration:  time.Since(c.started),
	}
}
