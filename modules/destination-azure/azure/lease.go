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
	"bytes"
	"context"
	"time"

	"github.com/Azure/azure-sdk-for-go/sdk/azcore"
	"github.com/Azure/azure-sdk-for-go/sdk/azcore/streaming"
	"github.com/Azure/azure-sdk-for-go/sdk/azcore/to"
	"github.com/Azure/azure-sdk-for-go/sdk/storage/azblob/blob"
	"github.com/Azure/azure-sdk-for-go/sdk/storage/azblob/bloberror"
	"github.com/Azure/azure-sdk-for-go/sdk/storage/azblob/blockblob"
	"github.com/Azure/azure-sdk-for-go/sdk/storage/azblob/lease"
	"github.com/pkg/errors"
	"github.com/sirupsen/logrus"
	enterrors "github.com/weaviate/appendlog-migrator/entities/errors"
)

// LeaseLocker holds a blob lease on a dedicated lock blob for the duration
// of a run. The lease is renewed in the background at half its duration.
type LeaseLocker struct {
	blob   *blockblob.Client
	ttl    time.Duration
	logger logrus.FieldLogger
}

// NewLeaseLocker returns a locker on blob name in containerName. ttl has to
// be within the 15s to 60s the service accepts.
func (d *Destination) NewLeaseLocker(containerName, name string, ttl time.Duration) *LeaseLocker {
	return &LeaseLocker{
		blob:   d.container(containerName).NewBlockBlobClient(name),
		ttl:    ttl,
		logger: d.logger,
	}
}

func (l *LeaseLocker) Lock(ctx context.Context) (func(context.Context) error, error) {
	_, err := l.blob.Upload(ctx, streaming.NopCloser(bytes.NewReader(nil)), &blockblob.UploadOptions{
		AccessConditions: &blob.AccessConditions{
			ModifiedAccessConditions: &blob.ModifiedAccessConditions{IfNoneMatch: to.Ptr(azcore.ETagAny)},
		},
	})
	if err != nil && !bloberror.HasCode(err, bloberror.BlobAlreadyExists,
		bloberror.ConditionNotMet, bloberror.LeaseIDMissing) {
		return nil, errors.Wrapf(err, "create lock blob '%s'", l.blob.URL())
	}

	leaseClient, err := lease.NewBlobClient(l.blob, nil)
	if err != nil {
		return nil, errors.Wrap(err, "create lease client")
	}

	if _, err := leaseClient.AcquireLease(ctx, int32(l.ttl/time.Second), nil); err != nil {
		if bloberror.HasCode(err, bloberror.LeaseAlreadyPresent) {
			return nil, errors.Errorf("destination is locked by another run, lease on '%s' is held", l.blob.URL())
		}
		return nil, errors.Wrapf(err, "acquire lease on '%s'", l.blob.URL())
	}

	logger := l.logger.WithFields(logrus.Fields{
		"action":   "lock_destination",
		"blob":     l.blob.URL(),
		"lease_id": *leaseClient.LeaseID(),
	})
	logger.Debug("acquired blob lease")

	stop := make(chan struct{})
	done := make(chan struct{})
	enterrors.GoWrapper(func() {
		defer close(done)
		l.renew(leaseClient, stop, logger)
	}, logger)

	return func(ctx context.Context) error {
		close(stop)
		<-done
		if _, err := leaseClient.ReleaseLease(ctx, nil); err != nil {
			return errors.Wrapf(err, "release lease on '%s'", l.blob.URL())
		}
		logger.Debug("released blob lease")
		return nil
	}, nil
}

func (l *LeaseLocker) renew(leaseClient *lease.BlobClient, stop <-chan struct{}, logger logrus.FieldLogger) {
	ticker := time.NewTicker(l.ttl / 2)
	defer ticker.Stop()

	for {
		select {
		case <-stop:
			return
		case <-ticker.C:
			ctx, cancel := context.WithTimeout(context.Background(), l.ttl/2)
			_, err := leaseClient.RenewLease(ctx, nil)
			cancel()
			if err != nil {
				logger.WithError(err).Warn("could not renew blob lease")
			}
		}
	}
}
