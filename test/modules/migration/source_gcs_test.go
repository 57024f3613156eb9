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
	"testing"

	"cloud.google.com/go/storage"
	"github.com/sirupsen/logrus/hooks/test"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/weaviate/appendlog-migrator/entities/migration"
	"github.com/weaviate/appendlog-migrator/modules/source-gcs/gcs"
	"google.golang.org/api/option"
)

func putGCSObjects(t *testing.T, bucket string, objects map[string]string) {
	ctx := context.Background()
	client, err := storage.NewClient(ctx, option.WithoutAuthentication())
	require.NoError(t, err)
	defer client.Close()

	require.NoError(t, client.Bucket(bucket).Create(ctx, "test-project", nil))
	for key, content := range objects {
		writer := client.Bucket(bucket).Object(key).NewWriter(ctx)
		writer.ContentType = "application/json"
		_, err := writer.Write([]byte(content))
		require.NoError(t, err)
		require.NoError(t, writer.Close())
	}
}

func TestSourceGCS(t *testing.T) {
	ctx := context.Background()
	logger, _ := test.NewNullLogger()
	bucket := "gcs-listings"

	putGCSObjects(t, bucket, map[string]string{
		"housing/2021-06-01": `{"price":500}`,
		"jobs/2021-06-01":    `{"title":"cook"}`,
	})

	source, err := gcs.New(ctx, gcs.NewConfig(false), logger)
	require.NoError(t, err)
	defer source.Close()

	var keys []string
	require.NoError(t, source.ListKeys(ctx, bucket, "", func(key string) error {
		keys = append(keys, key)
		return nil
	}))
	assert.Equal(t, []string{"housing/2021-06-01", "jobs/2021-06-01"}, keys)

	data, err := source.GetObject(ctx, bucket, "jobs/2021-06-01")
	require.NoError(t, err)
	assert.Equal(t, `{"title":"cook"}`, string(data))

	_, err = source.GetObject(ctx, bucket, "jobs/1999-01-01")
	assert.ErrorIs(t, err, migration.ErrObjectNotFound)
}
