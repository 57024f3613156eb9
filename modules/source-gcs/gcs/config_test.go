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
package gcs

import (
	"context"
	"testing"

	"github.com/sirupsen/logrus/hooks/test"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestConfig(t *testing.T) {
	assert.True(t, NewConfig(true).UseAuth())
	assert.False(t, NewConfig(false).UseAuth())
}

func TestNewWithoutAuth(t *testing.T) {
	logger, _ := test.NewNullLogger()

	source, err := New(context.Background(), NewConfig(false), logger)
	require.NoError(t, err)
	require.NotNil(t, source)
	assert.NoError(t, source.Close())
}
