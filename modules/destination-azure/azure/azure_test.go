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

package azure

import (
	"context"
	"strings"
	"testing"

	"github.com/Azure/azure-sdk-for-go/sdk/azcore"
	"github.com/pkg/errors"
	"github.com/sirupsen/logrus/hooks/test"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/weaviate/appendlog-migrator/entities/migration"
)

const devConnectionString = "DefaultEndpointsProtocol=http;AccountName=devstoreaccount1;" +
	"AccountKey=Eby8vdM02xNOcqFlqUwJPLlmEtlCDXJ1OUzFT50uSRZ6IFsuFq2UVErCz4I6tq/K1SZFPTOtr/KBHBeksoGMGw==;" +
	"BlobEndpoint=http://127.0.0.1:1/devstoreaccount1;"

func TestMapErr(t *testing.T) {
	for _, code := range []string{"BlobNotFound", "ContainerNotFound"} {
		t.Run(code, func(t *testing.T) {
			err := mapErr(&azcore.ResponseError{ErrorCode: code, StatusCode: 404}, "read '%s'", "all.jsonl")
			assert.ErrorIs(t, err, migration.ErrObjectNotFound)
			assert.Contains(t, err.Error(), "read 'all.jsonl'")
		})
	}

	t.Run("other errors are kept", func(t *testing.T) {
		cause := &azcore.ResponseError{ErrorCode: "ServerBusy", StatusCode: 503}
		err := mapErr(cause, "append to '%s'", "all.jsonl")
		assert.NotErrorIs(t, err, migration.ErrObjectNotFound)

		var respErr *azcore.ResponseError
		require.True(t, errors.As(err, &respErr))
		assert.Equal(t, "ServerBusy", respErr.ErrorCode)
	})
}

func TestAppendTextBlockLimit(t *testing.T) {
	logger, _ := test.NewNullLogger()
	dest, err := New(devConnectionString, logger)
	require.NoError(t, err)

	err = dest.AppendText(context.Background(), "exports", "all.jsonl",
		strings.Repeat("x", MaxAppendBlockBytes+1))
	require.Error(t, err)
	assert.Contains(t, err.Error(), "exceed the block limit")
	assert.True(t, migration.IsSerialization(err))
}
