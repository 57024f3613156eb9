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

package docker

import (
	"context"
	"time"

	"github.com/docker/go-connections/nat"
	"github.com/testcontainers/testcontainers-go"
	"github.com/testcontainers/testcontainers-go/wait"
)

const (
	MinIO = "test-minio"

	minioImage    = "minio/minio:RELEASE.2024-05-28T17-19-04Z"
	MinIOUser     = "aws_access_key"
	MinIOPassword = "aws_secret_password"
)

func startMinIO(ctx context.Context, networkName string) (*DockerContainer, error) {
	port := nat.Port("9000/tcp")
	container, err := genericContainer(ctx, testcontainers.ContainerRequest{
		Image:        minioImage,
		Hostname:     MinIO,
		Networks:     []string{networkName},
		ExposedPorts: []string{string(port)},
		Env: map[string]string{
			"MINIO_ROOT_USER":     MinIOUser,
			"MINIO_ROOT_PASSWORD": MinIOPassword,
		},
		Cmd: []string{"server", "/data"},
		WaitingFor: wait.ForHTTP("/minio/health/ready").
			WithPort(port).
			WithStartupTimeout(60 * time.Second),
	})
	if err != nil {
		return nil, err
	}
	uri, err := container.PortEndpoint(ctx, port, "")
	if err != nil {
		return nil, err
	}
	envSettings := map[string]string{
		"SOURCE_ENDPOINT":       uri,
		"AWS_ACCESS_KEY_ID":     MinIOUser,
		"AWS_SECRET_ACCESS_KEY": MinIOPassword,
		"AWS_REGION":            "eu-west-1",
	}
	endpoints := map[EndpointName]endpoint{HTTP: {port, uri}}
	return &DockerContainer{MinIO, endpoints, container, envSettings}, nil
}
