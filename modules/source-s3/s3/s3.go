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

package s3

import (
	"context"
	"io"
	"net/http"
	"os"

	"github.com/minio/minio-go/v7"
	"github.com/minio/minio-go/v7/pkg/credentials"
	"github.com/pkg/errors"
	"github.com/sirupsen/logrus"
	"github.com/weaviate/appendlog-migrator/entities/migration"
)

const (
	AWS_ROLE_ARN                = "AWS_ROLE_ARN"
	AWS_WEB_IDENTITY_TOKEN_FILE = "AWS_WEB_IDENTITY_TOKEN_FILE"
	AWS_REGION                  = "AWS_REGION"
	AWS_DEFAULT_REGION          = "AWS_DEFAULT_REGION"
)

// Source reads JSON objects from an S3 compatible bucket.
type Source struct {
	client *minio.Client
	config Config
	logger logrus.FieldLogger
}

func New(config Config, logger logrus.FieldLogger) (*Source, error) {
	region := os.Getenv(AWS_REGION)
	if len(region) == 0 {
		region = os.Getenv(AWS_DEFAULT_REGION)
	}
	creds := credentials.NewEnvAWS()
	if len(os.Getenv(AWS_WEB_IDENTITY_TOKEN_FILE)) > 0 && len(os.Getenv(AWS_ROLE_ARN)) > 0 {
		creds = credentials.NewIAM("")
	}
	client, err := minio.New(config.Endpoint(), &minio.Options{
		Creds:  creds,
		Region: region,
		Secure: config.UseSSL(),
	})
	if err != nil {
		return nil, errors.Wrap(err, "create client")
	}
	return &Source{client, config, logger}, nil
}

// ListKeys walks all objects below prefix, following continuation tokens
// until the listing is exhausted.
func (s *Source) ListKeys(ctx context.Context, bucket, prefix string, fn func(key string) error) error {
	if err := s.findBucket(ctx, bucket); err != nil {
		return err
	}

	ctx, cancel := context.WithCancel(ctx)
	defer cancel()

	listed := 0
	objects := s.client.ListObjects(ctx, bucket, minio.ListObjectsOptions{
		Prefix:    prefix,
		Recursive: true,
	})
	for object := range objects {
		if object.Err != nil {
			return errors.Wrapf(object.Err, "list objects in '%s'", bucket)
		}
		listed++
		if err := fn(object.Key); err != nil {
			return err
		}
	}

	if err := ctx.Err(); err != nil {
		return errors.Wrap(err, "list objects aborted")
	}

	s.logger.WithFields(logrus.Fields{
		"action": "s3_list_objects",
		"bucket": bucket,
		"prefix": prefix,
		"listed": listed,
	}).Debug("listed source objects")
	return nil
}

func (s *Source) GetObject(ctx context.Context, bucket, key string) ([]byte, error) {
	obj, err := s.client.GetObject(ctx, bucket, key, minio.GetObjectOptions{})
	if err != nil {
		return nil, s.mapErr(err, bucket, key)
	}
	defer obj.Close()

	data, err := io.ReadAll(obj)
	if err != nil {
		return nil, s.mapErr(err, bucket, key)
	}
	return data, nil
}

func (s *Source) mapErr(err error, bucket, key string) error {
	s3Err := minio.ToErrorResponse(err)
	if s3Err.StatusCode == http.StatusNotFound || s3Err.Code == "NoSuchKey" {
		return errors.Wrapf(migration.ErrObjectNotFound, "get '%s/%s': %s", bucket, key, err)
	}
	return errors.Wrapf(err, "get '%s/%s'", bucket, key)
}

func (s *Source) findBucket(ctx context.Context, bucket string) error {
	bucketExists, err := s.client.BucketExists(ctx, bucket)
	if err != nil {
		return errors.Wrap(err, "find bucket")
	}

	if !bucketExists {
		return errors.Errorf("find bucket: bucket '%s' does not exist", bucket)
	}

	return nil
}
