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
	"io"
	"os"

	"cloud.google.com/go/storage"
	"github.com/pkg/errors"
	"github.com/sirupsen/logrus"
	"github.com/weaviate/appendlog-migrator/entities/migration"
	"golang.org/x/oauth2/google"
	"google.golang.org/api/iterator"
	"google.golang.org/api/option"
)

const (
	GOOGLE_APPLICATION_CREDENTIALS = "GOOGLE_APPLICATION_CREDENTIALS"
	STORAGE_EMULATOR_HOST          = "STORAGE_EMULATOR_HOST"
)

// Source reads JSON objects from a Google Cloud Storage bucket.
type Source struct {
	client *storage.Client
	config Config
	logger logrus.FieldLogger
}

func New(ctx context.Context, config Config, logger logrus.FieldLogger) (*Source, error) {
	options := []option.ClientOption{}
	if config.UseAuth() && len(os.Getenv(STORAGE_EMULATOR_HOST)) == 0 {
		scopes := []string{
			"https://www.googleapis.com/auth/devstorage.read_only",
		}
		creds, err := google.FindDefaultCredentials(ctx, scopes...)
		if err != nil {
			return nil, errors.Wrap(err, "find default credentials")
		}
		options = append(options, option.WithCredentials(creds))
	} else {
		options = append(options, option.WithoutAuthentication())
	}
	client, err := storage.NewClient(ctx, options...)
	if err != nil {
		return nil, errors.Wrap(err, "create client")
	}
	return &Source{client, config, logger}, nil
}

func (g *Source) ListKeys(ctx context.Context, bucket, prefix string, fn func(key string) error) error {
	listed := 0
	it := g.client.Bucket(bucket).Objects(ctx, &storage.Query{Prefix: prefix})
	for {
		attrs, err := it.Next()
		if err == iterator.Done {
			break
		}
		if err != nil {
			return errors.Wrapf(err, "list objects in '%s'", bucket)
		}
		listed++
		if err := fn(attrs.Name); err != nil {
			return err
		}
	}

	g.logger.WithFields(logrus.Fields{
		"action": "gcs_list_objects",
		"bucket": bucket,
		"prefix": prefix,
		"listed": listed,
	}).Debug("listed source objects")
	return nil
}

func (g *Source) GetObject(ctx context.Context, bucket, key string) ([]byte, error) {
	reader, err := g.client.Bucket(bucket).Object(key).NewReader(ctx)
	if err != nil {
		if errors.Is(err, storage.ErrObjectNotExist) {
			return nil, errors.Wrapf(migration.ErrObjectNotFound, "new reader: %v", key)
		}
		return nil, errors.Wrapf(err, "new reader: %v", key)
	}
	defer reader.Close()

	content, err := io.ReadAll(reader)
	if err != nil {
		return nil, errors.Wrapf(err, "read object: %v", key)
	}
	return content, nil
}

func (g *Source) Close() error {
	return g.client.Close()
}
