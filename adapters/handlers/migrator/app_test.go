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

package migrator

import (
	"testing"

	"github.com/hashicorp/go-multierror"
	"github.com/pkg/errors"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestAppClose(t *testing.T) {
	t.Run("all closers run and all errors are reported", func(t *testing.T) {
		calls := 0
		app := &App{closers: []func() error{
			func() error { calls++; return errors.New("close source") },
			func() error { calls++; return nil },
			func() error { calls++; return errors.New("release lease") },
		}}

		err := app.Close()
		require.Error(t, err)
		assert.Equal(t, 3, calls)

		var merr *multierror.Error
		require.True(t, errors.As(err, &merr))
		assert.Len(t, merr.Errors, 2)
		assert.Contains(t, err.Error(), "close source")
		assert.Contains(t, err.Error(), "release lease")
	})

	t.Run("no errors", func(t *testing.T) {
		app := &App{closers: []func() error{func() error { return nil }}}
		assert.NoError(t, app.Close())
	})
}
