//go:build integrationTest

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

package test

import (
	"context"
	"os"
	"testing"
	"time"

	"github.com/sirupsen/logrus/hooks/test"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/weaviate/appendlog-migrator/entities/migration"
	"github.com/weaviate/appendlog-migrator/modules/destination-azure/azure"
)

func newAzureDestination(t *testing.T) *azure.Destination {
	logger, _ := test.NewNullLogger()
	dest, err := azure.New(os.Getenv(azure.AZURE_STORAGE_CONNECTION_STRING), logger)
	require.NoError(t, err)
	return dest
}

func TestDestinationAzure(t *testing.T) {
	ctx := context.Background()
	dest := newAzureDestination(t)
	container := "append-tests"

	t.Run("create keeps existing content", func(t *testing.T) {
		require.NoError(t, dest.CreateAppendOnlyObject(ctx, container, "keep.jsonl"))
		require.NoError(t, dest.AppendText(ctx, container, "keep.jsonl", "{\"n\":1}\n"))
		require.NoError(t, dest.CreateAppendOnlyObject(ctx, container, "keep.jsonl"))

		text, err := dest.ReadAll(ctx, container, "keep.jsonl")
		require.NoError(t, err)
		assert.Equal(t, "{\"n\":1}\n", text)
	})

	t.Run("appends in order", func(t *testing.T) {
		require.NoError(t, dest.CreateAppendOnlyObject(ctx, container, "order.jsonl"))
		for _, line := range []string{"{\"n\":1}\n", "{\"n\":2}\n", "{\"n\":3}\n"} {
			require.NoError(t, dest.AppendText(ctx, container, "order.jsonl", line))
		}

		text, err := dest.ReadAll(ctx, container, "order.jsonl")
		require.NoError(t, err)
		assert.Equal(t, "{\"n\":1}\n{\"n\":2}\n{\"n\":3}\n", text)
	})

	t.Run("missing blob", func(t *testing.T) {
		err := dest.AppendText(ctx, container, "missing.jsonl", "{}\n")
		assert.ErrorIs(t, err, migration.ErrObjectNotFound)

		_, err = dest.ReadAll(ctx, container, "missing.jsonl")
		assert.ErrorIs(t, err, migration.ErrObjectNotFound)
	})
}

func TestLeaseLocker(t *testing.T) {
	ctx := context.Background()
	dest := newAzureDestination(t)
	container := "lock-tests"
	require.NoError(t, dest.CreateAppendOnlyObject(ctx, container, "all.jsonl"))

	first := dest.NewLeaseLocker(container, "all.jsonl.lock", 15*time.Second)
	second := dest.NewLeaseLocker(container, "all.jsonl.lock", 15*time.Second)

	unlock, err := first.Lock(ctx)
	require.NoError(t, err)

	_, err = second.Lock(ctx)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "locked by another run")

	require.NoError(t, unlock(ctx))

	unlock, err = second.Lock(ctx)
	require.NoError(t, err)
	require.NoError(t, unlock(ctx))
}
