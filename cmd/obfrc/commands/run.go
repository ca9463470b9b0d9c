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
	"context"
	"fmt"
	"io"

	"github.com/walteh/obfrc/pkg/log"
	"github.com/walteh/obfrc/pkg/operation"
)

// runRequest wraps one obfuscation request with console output and a summary table
func runRequest(ctx context.Context, w io.Writer, obf *operation.Obfuscator, op log.RunOperation, run func() error) error {
	console := log.FromContext(ctx)
	cfg := obf.Config()

	console.Header(fmt.Sprintf("%d option(s), %d worker(s)", len(cfg.Options), cfg.Workers))
	console.StartRun(ctx, op)
	err := run()
	report := obf.LastReport()
	console.EndRun(ctx, report)

	console.LogNewline()
	if rerr := renderSummary(w, report); rerr != nil {
		return rerr
	}

	switch {
	case err != nil:
		console.Errorf("stopped after %d obfuscated file(s)", report.Processed)
	case report.Processed == 0:
		console.Warning("no file was obfuscated")
	default:
		console.Successf("obfuscated %d file(s)", report.Processed)
	}
	if untouched := report.Skipped + report.Ignored; untouched > 0 {
		console.Infof("%d file(s) left untouched", untouched)
	}

	return err
}
