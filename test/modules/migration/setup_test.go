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
	"os"
	"testing"
	"time"

	"github.com/pkg/errors"
	"github.com/weaviate/appendlog-migrator/test/docker"
)

// sharedCompose holds the storage emulators for all tests in this package.
var sharedCompose *docker.DockerCompose

func TestMain(m *testing.M) {
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Minute)

	var err error
	sharedCompose, err = docker.New().
		WithMinIO().
		WithGCS().
		WithAzurite().
		Start(ctx)
	if err != nil {
		cancel()
		panic(errors.Wrap(err, "failed to start storage emulators"))
	}

	for _, c := range sharedCompose.Containers() {
		for k, v := range c.EnvSettings() {
			os.Setenv(k, v)
		}
	}

	code := m.Run()

	if err := sharedCompose.Terminate(ctx); err != nil {
		panic(errors.Wrap(err, "failed to terminate storage emulators"))
	}
	cancel()
	os.Exit(code)
}
