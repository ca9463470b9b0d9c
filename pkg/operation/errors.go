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
	"fmt"

	"gitlab.com/tozd/go/errors"
)

// Error kinds. Match them with errors.Is; apart from cancellation, every
// error returned by the Obfuscator wraps one of them inside a *PathError.
var (
	// ErrInvalidEnvironment means the host cannot run the obfuscator.
	ErrInvalidEnvironment = errors.New("invalid environment")
	// ErrNotFoundOrUnreadable means a requested source does not exist or cannot be read.
	ErrNotFoundOrUnreadable = errors.New("does not exist or is not readable")
	// ErrIOFailure means a filesystem operation failed during a walk.
	ErrIOFailure = errors.New("i/o failure")
	// ErrToolInvocation means the obfuscator could not be started or reported failure.
	ErrToolInvocation = errors.New("obfuscator invocation failed")
)

// 🚨 PathError ties an error kind to the path that caused it
type PathError struct {
	Kind error  // One of the Err* kinds
	Path string // Offending source or target path
	Err  error  // Underlying cause, may be nil
}

func (e *PathError) Error() string {
	if e.Err == nil {
		return fmt.Sprintf("%s: %s", e.Path, e.Kind)
	}
	return fmt.Sprintf("%s: %s: %s", e.Path, e.Kind, e.Err)
}

// Unwrap exposes both the kind and the cause to errors.Is and errors.As.
func (e *PathError) Unwrap() []error {
	if e.Err == nil {
		return []error{e.Kind}
	}
	return []error{e.Kind, e.Err}
}

func pathError(kind error, path string, err error) error {
	return &PathError{Kind: kind, Path: path, Err: err}
}
