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

type Config interface {
	// UseAuth is false for public buckets and emulators, requests are then
	// sent without credentials.
	UseAuth() bool
}

type config struct {
	useAuth bool
}

func NewConfig(useAuth bool) Config {
	return &config{useAuth}
}

func (c *config) UseAuth() bool {
	return c.useAuth
}
