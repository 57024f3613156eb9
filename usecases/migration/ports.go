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

import "context"

// SourceStore is the read side, e.g. an S3 or GCS bucket.
type SourceStore interface {
	// ListKeys calls fn for every key below prefix. Implementations page
	// lazily and stop at the first error returned by fn.
	ListKeys(ctx context.Context, bucket, prefix string, fn func(key string) error) error
	// GetObject returns the object content. Missing keys wrap
	// migration.ErrObjectNotFound.
	GetObject(ctx context.Context, bucket, key string) ([]byte, error)
}

// DestinationStore is the write side and has to support append-only objects.
type DestinationStore interface {
	// CreateAppendOnlyObject is idempotent, an existing object is left as is.
	CreateAppendOnlyObject(ctx context.Context, container, name string) error
	AppendText(ctx context.Context, container, name, text string) error
	// ReadAll wraps migration.ErrObjectNotFound if the object does not exist.
	ReadAll(ctx context.Context, container, name string) (string, error)
}

// Locker guards a destination against a second concurrent writer. The core
// relies on a single writer per destination; a Locker only makes a violation
// fail fast instead of interleaving appends.
type Locker interface {
	Lock(ctx context.Context) (unlock func(context.Context) error, err error)
}
