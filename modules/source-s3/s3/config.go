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

const (
	DEFAULT_ENDPOINT = "s3.amazonaws.com"
)

type Config interface {
	Endpoint() string
	UseSSL() bool
}

type config struct {
	endpoint string
	useSSL   bool
}

func NewConfig(endpoint string, useSSL bool) Config {
	return &config{endpoint, useSSL}
}

func (c *config) Endpoint() string {
	if len(c.endpoint) > 0 {
		return c.endpoint
	}
	return DEFAULT_ENDPOINT
}

func (c *config) UseSSL() bool {
	return c.useSSL
}
