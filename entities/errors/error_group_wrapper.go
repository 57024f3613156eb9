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

package errors

import (
	"context"
	"fmt"
	"runtime/debug"

	"github.com/sirupsen/logrus"
	"golang.org/x/sync/errgroup"
)

// ErrorGroupWrapper is an errgroup.Group whose goroutines recover from
// panics and report them as the group's error.
type ErrorGroupWrapper struct {
	*errgroup.Group
	logger logrus.FieldLogger
}

// NewErrorGroupWrapper returns a group and a context that is cancelled as
// soon as one goroutine returns an error.
func NewErrorGroupWrapper(ctx context.Context, logger logrus.FieldLogger) (*ErrorGroupWrapper, context.Context) {
	g, gctx := errgroup.WithContext(ctx)
	return &ErrorGroupWrapper{Group: g, logger: logger}, gctx
}

// Go overrides the Go method to add panic recovery logic.
func (egw *ErrorGroupWrapper) Go(f func() error) {
	egw.Group.Go(func() (err error) {
		defer func() {
			if r := recover(); r != nil {
				egw.logger.WithField("action", "goroutine_panic").
					Errorf("Recovered from panic: %v", r)
				debug.PrintStack()
				err = fmt.Errorf("panic occurred: %v", r)
			}
		}()
		return f()
	})
}
