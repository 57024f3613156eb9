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
	"fmt"
	"strings"
	"sync"

	"github.com/pkg/errors"
	"github.com/stretchr/testify/mock"
	"github.com/weaviate/appendlog-migrator/entities/migration"
)

type fakeSource struct {
	sync.Mutex
	keys    []string
	objects map[string][]byte
	// getErrs are returned by GetObject for a key, one per call, before the
	// object itself is served
	getErrs  map[string][]error
	listErr  error
	getCalls map[string]int
}

func newFakeSource() *fakeSource {
	return &fakeSource{
		objects:  map[string][]byte{},
		getErrs:  map[string][]error{},
		getCalls: map[string]int{},
	}
}

func (s *fakeSource) put(key, content string) {
	s.keys = append(s.keys, key)
	s.objects[key] = []byte(content)
}

func (s *fakeSource) ListKeys(ctx context.Context, bucket, prefix string, fn func(key string) error) error {
	if s.listErr != nil {
		return s.listErr
	}
	for _, key := range s.keys {
		if !strings.HasPrefix(key, prefix) {
			continue
		}
		if err := fn(key); err != nil {
			return err
		}
	}
	return nil
}

func (s *fakeSource) GetObject(ctx context.Context, bucket, key string) ([]byte, error) {
	s.Lock()
	defer s.Unlock()

	s.getCalls[key]++
	if errs := s.getErrs[key]; len(errs) > 0 {
		s.getErrs[key] = errs[1:]
		return nil, errs[0]
	}
	content, ok := s.objects[key]
	if !ok {
		return nil, errors.Wrapf(migration.ErrObjectNotFound, "key %q", key)
	}
	return content, nil
}

type fakeDestination struct {
	sync.Mutex
	objects map[string]*strings.Builder
	// appendErrs makes the n-th append (1-based, counted per object) fail
	appendErrs map[string]map[int]error
	appends    map[string]int
	readErr    error
	// afterAppend runs after every successful append
	afterAppend func(name string)
}

func newFakeDestination() *fakeDestination {
	return &fakeDestination{
		objects:    map[string]*strings.Builder{},
		appendErrs: map[string]map[int]error{},
		appends:    map[string]int{},
	}
}

func (d *fakeDestination) failAppend(name string, n int, err error) {
	if d.appendErrs[name] == nil {
		d.appendErrs[name] = map[int]error{}
	}
	d.appendErrs[name][n] = err
}

func objectID(container, name string) string {
	return container + "/" + name
}

func (d *fakeDestination) CreateAppendOnlyObject(ctx context.Context, container, name string) error {
	d.Lock()
	defer d.Unlock()

	if _, ok := d.objects[objectID(container, name)]; !ok {
		d.objects[objectID(container, name)] = &strings.Builder{}
	}
	return nil
}

func (d *fakeDestination) AppendText(ctx context.Context, container, name, text string) error {
	d.Lock()
	defer d.Unlock()

	if err := ctx.Err(); err != nil {
		return err
	}
	d.appends[name]++
	if err, ok := d.appendErrs[name][d.appends[name]]; ok {
		return err
	}
	obj, ok := d.objects[objectID(container, name)]
	if !ok {
		return errors.Wrapf(migration.ErrObjectNotFound, "append blob %q", name)
	}
	obj.WriteString(text)
	if d.afterAppend != nil {
		d.afterAppend(name)
	}
	return nil
}

func (d *fakeDestination) ReadAll(ctx context.Context, container, name string) (string, error) {
	d.Lock()
	defer d.Unlock()

	if d.readErr != nil {
		return "", d.readErr
	}
	obj, ok := d.objects[objectID(container, name)]
	if !ok {
		return "", errors.Wrapf(migration.ErrObjectNotFound, "blob %q", name)
	}
	return obj.String(), nil
}

// raw overwrites the content of an object, e.g. to simulate a torn append
func (d *fakeDestination) raw(container, name, content string) {
	b := &strings.Builder{}
	b.WriteString(content)
	d.objects[objectID(container, name)] = b
}

func (d *fakeDestination) content(container, name string) string {
	obj, ok := d.objects[objectID(container, name)]
	if !ok {
		return ""
	}
	return obj.String()
}

func (d *fakeDestination) lines(container, name string) []string {
	content := strings.TrimSuffix(d.content(container, name), "\n")
	if content == "" {
		return nil
	}
	return strings.Split(content, "\n")
}

type fakeLocker struct {
	mock.Mock
}

func (l *fakeLocker) Lock(ctx context.Context) (func(context.Context) error, error) {
	args := l.Called(ctx)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(func(context.Context) error), args.Error(1)
}

func ledgerLine(key, ts string) string {
	return fmt.Sprintf(`{"timestamp":%q,"key":%q}`, ts, key) + "\n"
}
