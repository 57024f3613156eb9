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
	"io"
	"strings"

	"github.com/Azure/azure-sdk-for-go/sdk/azcore"
	"github.com/Azure/azure-sdk-for-go/sdk/azcore/streaming"
	"github.com/Azure/azure-sdk-for-go/sdk/azcore/to"
	"github.com/Azure/azure-sdk-for-go/sdk/storage/azblob"
	"github.com/Azure/azure-sdk-for-go/sdk/storage/azblob/appendblob"
	"github.com/Azure/azure-sdk-for-go/sdk/storage/azblob/blob"
	"github.com/Azure/azure-sdk-for-go/sdk/storage/azblob/bloberror"
	"github.com/Azure/azure-sdk-for-go/sdk/storage/azblob/container"
	"github.com/pkg/errors"
	"github.com/sirupsen/logrus"
	"github.com/weaviate/appendlog-migrator/entities/migration"
)

const AZURE_STORAGE_CONNECTION_STRING = "AZURE_STORAGE_CONNECTION_STRING"

// MaxAppendBlockBytes is the largest block a single append may carry.
const MaxAppendBlockBytes = 4 * 1024 * 1024

// Destination writes to Azure append blobs. Each append is one AppendBlock
// call, which the service applies atomically.
type Destination struct {
	client *azblob.Client
	logger logrus.FieldLogger
}

func New(connectionString string, logger logrus.FieldLogger) (*Destination, error) {
	client, err := azblob.NewClientFromConnectionString(connectionString, nil)
	if err != nil {
		return nil, errors.Wrap(err, "create client")
	}
	return &Destination{client: client, logger: logger}, nil
}

func (d *Destination) container(name string) *container.Client {
	return d.client.ServiceClient().NewContainerClient(name)
}

// CreateAppendOnlyObject creates the container and the append blob unless
// they exist. Existing content is never touched.
func (d *Destination) CreateAppendOnlyObject(ctx context.Context, containerName, name string) error {
	if err := d.ensureContainer(ctx, containerName); err != nil {
		return err
	}

	_, err := d.container(containerName).NewAppendBlobClient(name).Create(ctx, &appendblob.CreateOptions{
		AccessConditions: &blob.AccessConditions{
			ModifiedAccessConditions: &blob.ModifiedAccessConditions{IfNoneMatch: to.Ptr(azcore.ETagAny)},
		},
	})
	if err != nil && !bloberror.HasCode(err, bloberror.BlobAlreadyExists) {
		return errors.Wrapf(err, "create append blob '%s/%s'", containerName, name)
	}

	d.logger.WithFields(logrus.Fields{
		"action":    "azure_create_append_blob",
		"container": containerName,
		"blob":      name,
		"existed":   err != nil,
	}).Debug("append blob ready")
	return nil
}

func (d *Destination) ensureContainer(ctx context.Context, containerName string) error {
	_, err := d.container(containerName).Create(ctx, nil)
	if err != nil && !bloberror.HasCode(err, bloberror.ContainerAlreadyExists) {
		return errors.Wrapf(err, "create container '%s'", containerName)
	}
	return nil
}

func (d *Destination) AppendText(ctx context.Context, containerName, name, text string) error {
	if len(text) > MaxAppendBlockBytes {
		return migration.NewErrSerialization(errors.Errorf("append to '%s/%s': %d bytes exceed the block limit of %d",
			containerName, name, len(text), MaxAppendBlockBytes))
	}

	body := streaming.NopCloser(strings.NewReader(text))
	_, err := d.container(containerName).NewAppendBlobClient(name).AppendBlock(ctx, body, nil)
	if err != nil {
		return mapErr(err, "append to '%s/%s'", containerName, name)
	}
	return nil
}

func (d *Destination) ReadAll(ctx context.Context, containerName, name string) (string, error) {
	resp, err := d.client.DownloadStream(ctx, containerName, name, nil)
	if err != nil {
		return "", mapErr(err, "download '%s/%s'", containerName, name)
	}
	defer resp.Body.Close()

	content, err := io.ReadAll(resp.Body)
	if err != nil {
		return "", errors.Wrapf(err, "read '%s/%s'", containerName, name)
	}
	return string(content), nil
}

func mapErr(err error, format string, args ...interface{}) error {
	if bloberror.HasCode(err, bloberror.BlobNotFound, bloberror.ContainerNotFound) {
		return errors.Wrapf(migration.ErrObjectNotFound, format+": %s", append(args, err)...)
	}
	return errors.Wrapf(err, format, args...)
}
