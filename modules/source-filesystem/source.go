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

package modsrcfs

import (
	"context"
	"io/fs"
	"os"
	"path/filepath"
	"strings"

	"github.com/pkg/errors"
	"github.com/sirupsen/logrus"
	"github.com/weaviate/appendlog-migrator/entities/migration"
)

// Source serves a local directory tree as a source store. Each top level
// directory of root is a bucket, file paths relative to it are keys.
type Source struct {
	root   string
	logger logrus.FieldLogger
}

func New(root string, logger logrus.FieldLogger) *Source {
	return &Source{root: root, logger: logger}
}

func (s *Source) ListKeys(ctx context.Context, bucket, prefix string, fn func(key string) error) error {
	bucketPath := filepath.Join(s.root, bucket)
	if _, err := os.Stat(bucketPath); err != nil {
		return errors.Wrapf(err, "find bucket '%s'", bucket)
	}

	listed := 0
	err := filepath.WalkDir(bucketPath, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if err := ctx.Err(); err != nil {
			return errors.Wrap(err, "list objects aborted")
		}
		if d.IsDir() {
			return nil
		}

		rel, err := filepath.Rel(bucketPath, path)
		if err != nil {
			return err
		}
		key := filepath.ToSlash(rel)
		if !strings.HasPrefix(key, prefix) {
			return nil
		}

		listed++
		return fn(key)
	})
	if err != nil {
		return errors.Wrapf(err, "list objects in '%s'", bucket)
	}

	s.logger.WithFields(logrus.Fields{
		"action": "fs_list_objects",
		"bucket": bucket,
		"prefix": prefix,
		"listed": listed,
	}).Debug("listed source objects")
	return nil
}

func (s *Source) GetObject(ctx context.Context, bucket, key string) ([]byte, error) {
	if err := ctx.Err(); err != nil {
		return nil, errors.Wrapf(err, "get object '%s'", key)
	}

	rel := filepath.FromSlash(key)
	if !filepath.IsLocal(rel) {
		return nil, errors.Errorf("get object '%s': key escapes bucket", key)
	}

	objectPath := filepath.Join(s.root, bucket, rel)
	contents, err := os.ReadFile(objectPath)
	if errors.Is(err, os.ErrNotExist) {
		return nil, errors.Wrapf(migration.ErrObjectNotFound, "get object '%s'", objectPath)
	} else if err != nil {
		return nil, errors.Wrapf(err, "get object '%s'", objectPath)
	}

	return contents, nil
}
