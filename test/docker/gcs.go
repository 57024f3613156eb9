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
	GCS = "test-gcs"

	gcsImage = "fsouza/fake-gcs-server:1.49.0"
)

func startGCS(ctx context.Context, networkName string) (*DockerContainer, error) {
	port := nat.Port("9090/tcp")
	container, err := genericContainer(ctx, testcontainers.ContainerRequest{
		Image:        gcsImage,
		Hostname:     GCS,
		Networks:     []string{networkName},
		ExposedPorts: []string{string(port)},
		Cmd:          []string{"-scheme", "http", "-port", "9090", "-backend", "memory"},
		WaitingFor: wait.ForHTTP("/storage/v1/b").
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
		"STORAGE_EMULATOR_HOST": uri,
	}
	endpoints := map[EndpointName]endpoint{HTTP: {port, uri}}
	return &DockerContainer{GCS, endpoints, container, envSettings}, nil
}
