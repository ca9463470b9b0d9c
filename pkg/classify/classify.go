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

// Package classify maps files to content types used to decide which files a
// directory walk processes.
package classify

import (
	"context"
	"strings"

	"github.com/gabriel-vasile/mimetype"
	"github.com/go-git/go-billy/v5"
	"gitlab.com/tozd/go/errors"
)

// 🔍 Classifier returns the content type of a file, without parameters (e.g. "text/x-php")
type Classifier interface {
	Classify(ctx context.Context, path string) (string, error)
}

// 🔬 MimeClassifier sniffs file contents
type MimeClassifier struct {
	fs billy.Filesystem
}

// 🏭 NewMimeClassifier creates a classifier reading files from fs
func NewMimeClassifier(fs billy.Filesystem) *MimeClassifier {
	return &MimeClassifier{fs: fs}
}

// 🔍 Classify reads the head of the file and detects its content type
func (c *MimeClassifier) Classify(ctx context.Context, path string) (string, error) {
	f, err := c.fs.Open(path)
	if err != nil {
		return "", errors.Errorf("opening %s: %w", path, err)
	}
	defer f.Close()

	m, err := mimetype.DetectReader(f)
	if err != nil {
		return "", errors.Errorf("detecting content type of %s: %w", path, err)
	}

	return BaseType(m.String()), nil
}

// BaseType strips parameters such as charset from a media type.
func BaseType(contentType string) string {
	base, _, _ := strings.Cut(contentType, ";")
	return strings.ToLower(strings.TrimSpace(base))
}
