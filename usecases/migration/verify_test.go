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
	"testing"

	"github.com/pkg/errors"
	"github.com/sirupsen/logrus/hooks/test"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/weaviate/appendlog-migrator/entities/migration"
)

func TestVerifier(t *testing.T) {
	ctx := context.Background()
	logger, _ := test.NewNullLogger()

	t.Run("empty destination is consistent", func(t *testing.T) {
		dest := newFakeDestination()
		report, err := NewVerifier(newTestSink(t, dest), dataObject, ledgerObject, logger).Verify(ctx)
		require.NoError(t, err)
		assert.True(t, report.Consistent())
	})

	t.Run("deviations", func(t *testing.T) {
		dest := newFakeDestination()
		sink := newTestSink(t, dest)
		dest.raw(testContainer, dataObject,
			`{"date":"2020-01-01","type":"a"}`+"\n"+
				`{"date":"2020-01-02","type":"b"}`+"\n"+
				`{"date":"2020-01-02","type":"b"}`+"\n"+
				`{"date":"2020-01-04","type":"d"}`+"\n"+
				`{"n":1}`+"\n"+
				`{"date":"2020-01-05","ty`)
		dest.raw(testContainer, ledgerObject,
			ledgerLine("a/2020-01-01", "2024-01-01T00:00:00Z")+
				ledgerLine("b/2020-01-02", "2024-01-01T00:00:00Z")+
				ledgerLine("c/2020-01-03", "2024-01-01T00:00:00Z")+
				ledgerLine("c/2020-01-03", "2024-01-01T00:00:01Z")+
				"garbage\n")

		report, err := NewVerifier(sink, dataObject, ledgerObject, logger).Verify(ctx)
		require.NoError(t, err)
		assert.False(t, report.Consistent())
		assert.Equal(t, &VerifyReport{
			LedgerEntries:       4,
			DataRows:            4,
			CorruptLedgerLines:  []int{5},
			CorruptDataLines:    []int{5, 6},
			DuplicateLedgerKeys: []string{"c/2020-01-03"},
			DuplicateDataKeys:   []string{"b/2020-01-02"},
			MissingData:         []string{"c/2020-01-03"},
			Unrecorded:          []string{"d/2020-01-04"},
		}, report)
	})

	t.Run("unreadable destination", func(t *testing.T) {
		dest := newFakeDestination()
		sink := newTestSink(t, dest)
		dest.readErr = errors.New("access denied")

		_, err := NewVerifier(sink, dataObject, ledgerObject, logger).Verify(ctx)
		require.Error(t, err)
		assert.True(t, migration.IsStorageUnavailable(err))
	})
}
