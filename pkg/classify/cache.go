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

package classify

import (
	"context"
	"fmt"

	"github.com/go-git/go-billy/v5"
	lru "github.com/hashicorp/golang-lru/v2"
	"gitlab.com/tozd/go/errors"
)

// DefaultCacheSize is the number of classifications a CachedClassifier keeps.
const DefaultCacheSize = 4096

// 💾 CachedClassifier remembers results keyed by path, size and modification time,
// so repeated runs over the same tree only sniff changed files
type CachedClassifier struct {
	next  Classifier
	fs    billy.Filesystem
	cache *lru.Cache[string, string]
}

// 🏭 NewCachedClassifier wraps next with an LRU cache of the given size
func NewCachedClassifier(fs billy.Filesystem, next Classifier, size int) (*CachedClassifier, error) {
	if size <= 0 {
		size = DefaultCacheSize
	}
	cache, err := lru.New[string, string](size)
	if err != nil {
		return nil, errors.Errorf("creating classification cache: %w", err)
	}
	return &CachedClassifier{next: next, fs: fs, cache: cache}, nil
}

// 🔍 Classify returns the cached type when the file is unchanged
func (c *CachedClassifier) Classify(ctx context.Context, path string) (string, error) {
	info, err := c.fs.Stat(path)
	if err != nil {
		return "", errors.Errorf("stat %s: %w", path, err)
	}
	key := fmt.Sprintf("%s|%d|%d", path, info.Size(), info.ModTime().UnixNano())

	if ct, ok := c.cache.Get(key); ok {
		return ct, nil
	}

	ct, err := c.next.Classify(ctx, path)
	if err != nil {
		return "", err
	}
	c.cache.Add(key, ct)
	return ct, nil
}

// Len returns the number of cached entries.
func (c *CachedClassifier) Len() int {
	return c.cache.Len()
}
