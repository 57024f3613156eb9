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

package moddstfs

import (
	"context"
	"os"
	"path/filepath"

	"github.com/pkg/errors"
	"github.com/sirupsen/logrus"
	"github.com/weaviate/appendlog-migrator/entities/migration"
)

// Destination stores append-only objects as files below root, one directory
// per container. Every append is a single write to a file opened O_APPEND.
type Destination struct {
	root   string
	logger logrus.FieldLogger
}

func New(root string, logger logrus.FieldLogger) *Destination {
	return &Destination{root: root, logger: logger}
}

func (d *Destination) objectPath(container, name string) (string, error) {
	rel := filepath.FromSlash(name)
	if !filepath.IsLocal(rel) {
		return "", errors.Errorf("object '%s' escapes container '%s'", name, container)
	}
	return filepath.Join(d.root, container, rel), nil
}

func (d *Destination) CreateAppendOnlyObject(ctx context.Context, container, name string) error {
	path, err := d.objectPath(container, name)
	if err != nil {
		return err
	}

	dir := filepath.Dir(path)
	if err := os.MkdirAll(dir, os.ModePerm); err != nil {
		return errors.Wrapf(err, "make dir '%s'", dir)
	}

	f, err := os.OpenFile(path, os.O_CREATE|os.O_WRONLY, 0o644)
	if err != nil {
		return errors.Wrapf(err, "create file '%s'", path)
	}
	return f.Close()
}

func (d *Destination) AppendText(ctx context.Context, container, name, text string) error {
	if err := ctx.Err(); err != nil {
		return errors.Wrapf(err, "append to '%s'", name)
	}

	path, err := d.objectPath(container, name)
	if err != nil {
		return err
	}

	f, err := os.OpenFile(path, os.O_APPEND|os.O_WRONLY, 0o644)
	if errors.Is(err, os.ErrNotExist) {
		return errors.Wrapf(migration.ErrObjectNotFound, "append to '%s'", path)
	} else if err != nil {
		return errors.Wrapf(err, "open file '%s'", path)
	}
	defer f.Close()

	if _, err := f.WriteString(text); err != nil {
		return errors.Wrapf(err, "write file '%s'", path)
	}
	if err := f.Sync(); err != nil {
		return errors.Wrapf(err, "sync file '%s'", path)
	}
	return nil
}

func (d *Destination) ReadAll(ctx context.Context, container, name string) (string, error) {
	path, err := d.objectPath(container, name)
	if err != nil {
		return "", err
	}

	contents, err := os.ReadFile(path)
	if errors.Is(err, os.ErrNotExist) {
		return "", errors.Wrapf(migration.ErrObjectNotFound, "read file '%s'", path)
	} else if err != nil {
		return "", errors.Wrapf(err, "read file '%s'", path)
	}
	return string(contents), nil
}
