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

import (
	"fmt"
	"strings"
)

// Separator splits a source key into its category and date partitions.
const Separator = "/"

// Identifier is a parsed source key of the form <category>/<date>.
type Identifier struct {
	Key      string
	Category string
	Date     string
}

// ParseIdentifier splits key on the first separator. Both segments must be
// non-empty, anything after the first separator belongs to the date.
func ParseIdentifier(key string) (Identifier, error) {
	category, date, found := strings.Cut(key, Separator)
	if !found {
		return Identifier{}, NewErrMalformedIdentifier(
			fmt.Errorf("key %q has no %q separator", key, Separator))
	}
	if category == "" || date == "" {
		return Identifier{}, NewErrMalformedIdentifier(
			fmt.Errorf("key %q does not split into category and date", key))
	}

	return Identifier{Key: key, Category: category, Date: date}, nil
}

// IsDirectoryMarker reports whether key is a placeholder object some stores
// create for "folders", e.g. "housing/".
func IsDirectoryMarker(key string) bool {
	return strings.HasSuffix(key, Separator)
}

func (id Identifier) String() string {
	return id.Key
}
