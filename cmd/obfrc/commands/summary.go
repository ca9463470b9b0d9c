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
	"fmt"
	"io"
	"strconv"
	"time"

	"github.com/pterm/pterm"
	"github.com/walteh/obfrc/pkg/operation"
	"gitlab.com/tozd/go/errors"
)

// renderSummary prints the report as a table
func renderSummary(w io.Writer, report operation.Report) error {
	table, err := pterm.DefaultTable.WithHasHeader().WithData(pterm.TableData{
		{"processed", "skipped", "ignored", "failed", "duration"},
		{
			strconv.Itoa(report.Processed),
			strconv.Itoa(report.Skipped),
			strconv.Itoa(report.Ignored),
			strconv.Itoa(report.Failed),
			report.Duration.Round(time.Millisecond).String(),
		},
	}).Srender()
	if err != nil {
		return errors.Errorf("rendering summary: %w", err)
	}

	_, err = fmt.Fprintln(w, table)
	return err
}
