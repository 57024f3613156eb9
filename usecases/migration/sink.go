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
	"bytes"
	"context"
	"encoding/json"
	"strings"
	"time"

	"github.com/pkg/errors"
	"github.com/sirupsen/logrus"
	"github.com/weaviate/appendlog-migrator/entities/migration"
	"github.com/weaviate/appendlog-migrator/usecases/monitoring"
)

// AppendSink writes newline delimited JSON to append-only objects of one
// destination container. Appends are issued in call order and never
// concurrently. A crash in the middle of an append may leave a partial last
// line, readers have to tolerate that.
type AppendSink struct {
	store     DestinationStore
	container string
	logger    logrus.FieldLogger
	metrics   *monitoring.MigrationMetrics
}

func NewAppendSink(store DestinationStore, container string,
	logger logrus.FieldLogger, metrics *monitoring.MigrationMetrics,
) *AppendSink {
	return &AppendSink{
		store:     store,
		container: container,
		logger:    logger,
		metrics:   metrics,
	}
}

// AppendLine writes payload as a single JSON line terminated by exactly one
// newline.
func (s *AppendSink) AppendLine(ctx context.Context, object string, payload interface{}) error {
	line, err := EncodeLine(payload)
	if err != nil {
		return errors.Wrapf(err, "encode line for %q", object)
	}

	before := time.Now()
	err = s.store.AppendText(ctx, s.container, object, line)
	took := time.Since(before)
	s.metrics.ObserveAppend(object, took, err)
	if err != nil {
		// the store refused the payload itself, nothing was written
		if migration.IsSerialization(err) {
			return errors.Wrapf(err, "append to %q", object)
		}
		return migration.NewErrAppendFailed(errors.Wrapf(err, "append to %q", object))
	}

	s.logger.WithFields(logrus.Fields{
		"action": "append_line",
		"object": object,
		"bytes":  len(line),
		"took":   took,
	}).Trace("appended line")

	return nil
}

// ReadLines returns all lines of object without their terminators. A final
// line without terminator, e.g. from an interrupted append, is included.
func (s *AppendSink) ReadLines(ctx context.Context, object string) ([]string, error) {
	text, err := s.readText(ctx, object)
	if err != nil {
		return nil, err
	}
	return splitLines(text), nil
}

func (s *AppendSink) readText(ctx context.Context, object string) (string, error) {
	text, err := s.store.ReadAll(ctx, s.container, object)
	if err != nil {
		return "", errors.Wrapf(err, "read %q", object)
	}
	return text, nil
}

func splitLines(text string) []string {
	if text == "" {
		return nil
	}

	lines := strings.Split(text, "\n")
	if lines[len(lines)-1] == "" {
		lines = lines[:len(lines)-1]
	}
	return lines
}

// isTorn is true if text ends in a line without terminator.
func isTorn(text string) bool {
	return text != "" && !strings.HasSuffix(text, "\n")
}

// Terminate ends a partial last line of object with a newline, so that the
// next append starts a line of its own. The fragment stays behind as one
// corrupt line. It reports whether a newline was written.
func (s *AppendSink) Terminate(ctx context.Context, object string) (bool, error) {
	text, err := s.readText(ctx, object)
	if err != nil {
		return false, migration.NewErrStorageUnavailable(err)
	}
	if !isTorn(text) {
		return false, nil
	}
	if err := s.terminate(ctx, object); err != nil {
		return false, err
	}
	return true, nil
}

func (s *AppendSink) terminate(ctx context.Context, object string) error {
	if err := s.store.AppendText(ctx, s.container, object, "\n"); err != nil {
		return migration.NewErrAppendFailed(errors.Wrapf(err, "terminate last line of %q", object))
	}

	s.logger.WithFields(logrus.Fields{
		"action": "terminate_line",
		"object": object,
	}).Warn("terminated partial last line left by an interrupted append")
	return nil
}

// Provision creates the given append-only objects if they do not exist yet.
func (s *AppendSink) Provision(ctx context.Context, objects ...string) error {
	for _, object := range objects {
		if err := s.store.CreateAppendOnlyObject(ctx, s.container, object); err != nil {
			return migration.NewErrStorageUnavailable(errors.Wrapf(err, "provision %q", object))
		}
		s.logger.WithFields(logrus.Fields{
			"action":    "provision_object",
			"container": s.container,
			"object":    object,
		}).Debug("append-only object ready")
	}
	return nil
}

// EncodeLine serializes payload to one line of JSON plus "\n". HTML
// characters are not escaped.
func EncodeLine(payload interface{}) (string, error) {
	var buf bytes.Buffer
	enc := json.NewEncoder(&buf)
	enc.SetEscapeHTML(false)
	if err := enc.Encode(payload); err != nil {
		return "", migration.NewErrSerialization(err)
	}

	// Encode terminates with a single '\n', nothing before it may break the line
	b := buf.Bytes()
	if bytes.ContainsAny(b[:len(b)-1], "\r\n") {
		return "", migration.NewErrSerialization(errors.New("payload does not fit on a single line"))
	}

	return string(b), nil
}
