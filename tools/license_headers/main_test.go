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

package main

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestReplaceHeader(t *testing.T) {
	targetHeader = []byte("// header")

	t.Run("outdated header", func(t *testing.T) {
		content := []byte("// old\n// header\n\npackage main\n")
		assert.True(t, headerNeedsUpdate(content))
		assert.Equal(t, "// header\n\npackage main\n", string(replaceHeader(content)))
	})

	t.Run("missing header", func(t *testing.T) {
		content := []byte("package main\n")
		assert.True(t, headerNeedsUpdate(content))
		assert.Equal(t, "// header\n\npackage main\n", string(replaceHeader(content)))
	})

	t.Run("current header", func(t *testing.T) {
		assert.False(t, headerNeedsUpdate([]byte("// header\n\npackage main\n")))
	})
}

func TestSkipped(t *testing.T) {
	assert.True(t, isSkipped("_examples/repo/main.go"))
	assert.True(t, isSkipped("vendor/github.com/x/y.go"))
	assert.False(t, isSkipped("usecases/migration/ledger.go"))
}
