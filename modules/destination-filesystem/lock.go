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
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/pkg/errors"
	"github.com/sirupsen/logrus"
)

// Locker guards a destination with a lock file that is created exclusively.
// A lock left behind by a crashed process has to be removed by hand.
type Locker struct {
	path   string
	logger logrus.FieldLogger
}

func NewLocker(d *Destination, container, name string) (*Locker, error) {
	path, err := d.objectPath(container, name)
	if err != nil {
		return nil, err
	}
	return &Locker{path: path, logger: d.logger}, nil
}

func (l *Locker) Lock(ctx context.Context) (func(context.Context) error, error) {
	if err := os.MkdirAll(filepath.Dir(l.path), os.ModePerm); err != nil {
		return nil, errors.Wrapf(err, "make dir '%s'", filepath.Dir(l.path))
	}

	f, err := os.OpenFile(l.path, os.O_CREATE|os.O_EXCL|os.O_WRONLY, 0o644)
	if errors.Is(err, os.ErrExist) {
		holder, _ := os.ReadFile(l.path)
		return nil, errors.Errorf("destination is locked by '%s', remove '%s' if that process is gone",
			string(holder), l.path)
	} else if err != nil {
		return nil, errors.Wrapf(err, "create lock file '%s'", l.path)
	}

	host, _ := os.Hostname()
	_, err = fmt.Fprintf(f, "%s:%d@%s", host, os.Getpid(), time.Now().UTC().Format(time.RFC3339))
	if closeErr := f.Close(); err == nil {
		err = closeErr
	}
	if err != nil {
		os.Remove(l.path)
		return nil, errors.Wrapf(err, "write lock file '%s'", l.path)
	}

	l.logger.WithFields(logrus.Fields{
		"action": "lock_destination",
		"path":   l.path,
	}).Debug("acquired lock file")

	return func(context.Context) error {
		if err := os.Remove(l.path); err != nil {
			return errors.Wrapf(err, "remove lock file '%s'", l.path)
		}
		return nil
	}, nil
}
