//                           _       _
// __      _____  __ ___   ___  __ _| |_ ___
// \ \ /\ / / _ \/ _` \ \ / / |/ _` | __/ _ \
//  \ V  V /  __/ (_| |\ V /| | (_| | ||  __/
//   \_/\_/ \___|\__,_| \_/ |_|\__,_|\__\___|
//
//  Copyright © 2016 - 2026 Weaviate B.V. All rights reserved.
//
//  CONTACT: hello@weaviate.io
//

package migration

import (
	"context"

	"github.com/bmatcuk/doublestar"
	"github.com/pkg/errors"
	"github.com/weaviate/appendlog-migrator/entities/migration"
)

// Lister enumerates candidate keys of one bucket/prefix. Directory markers
// are dropped, optional include/exclude globs narrow the result.
type Lister struct {
	store   SourceStore
	bucket  string
	prefix  string
	include []string
	exclude []string
}

func NewLister(store SourceStore, bucket, prefix string, include, exclude []string) *Lister {
	return &Lister{
		store:   store,
		bucket:  bucket,
		prefix:  prefix,
		include: include,
		exclude: exclude,
	}
}

func (l *Lister) Bucket() string {
	return l.bucket
}

// List enumerates the whole bucket/prefix as it is at call time, in the
// order the store returns the keys.
func (l *Lister) List(ctx context.Context) ([]string, error) {
	var (
		keys       []string
		patternErr error
	)

	err := l.store.ListKeys(ctx, l.bucket, l.prefix, func(key string) error {
		if migration.IsDirectoryMarker(key) {
			return nil
		}

		ok, err := l.matches(key)
		if err != nil {
			patternErr = err
			return err
		}
		if ok {
			keys = append(keys, key)
		}
		return nil
	})
	if patternErr != nil {
		return nil, patternErr
	}
	if err != nil {
		return nil, migration.NewErrStorageUnavailable(
			errors.Wrapf(err, "list bucket %q prefix %q", l.bucket, l.prefix))
	}

	return keys, nil
}

func (l *Lister) matches(key string) (bool, error) {
	included := len(l.include) == 0
	for _, pattern := range l.include {
		ok, err := doublestar.Match(pattern, key)
		if err != nil {
			return false, errors.Wrapf(err, "include pattern %q", pattern)
		}
		if ok {
			included = true
			break
		}
	}
	if !included {
		return false, nil
	}

	for _, pattern := range l.exclude {
		ok, err := doublestar.Match(pattern, key)
		if err != nil {
			return false, errors.Wrapf(err, "exclude pattern %q", pattern)
		}
		if ok {
			return false, nil
		}
	}

	return true, nil
}
