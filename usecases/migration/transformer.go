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
	"bytes"
	"encoding/json"
	"fmt"
	"io"

	"github.com/pkg/errors"
	"github.com/weaviate/appendlog-migrator/entities/migration"
)

// Decode parses the raw content of a source object into a generic JSON value.
// Numbers are kept as json.Number so they are written back unchanged.
func Decode(data []byte) (interface{}, error) {
	dec := json.NewDecoder(bytes.NewReader(data))
	dec.UseNumber()

	var value interface{}
	if err := dec.Decode(&value); err != nil {
		return nil, migration.NewErrMalformedRecord(errors.Wrap(err, "decode json"))
	}

	if _, err := dec.Token(); err != io.EOF {
		return nil, migration.NewErrMalformedRecord(fmt.Errorf("unexpected data after the json value"))
	}

	return value, nil
}

// Transform adds the provenance fields derived from id to a copy of raw. raw
// has to be a JSON object, the input is never modified.
func Transform(id string, raw interface{}) (migration.Record, error) {
	ident, err := migration.ParseIdentifier(id)
	if err != nil {
		return nil, err
	}

	var fields map[string]interface{}
	switch v := raw.(type) {
	case migration.Record:
		fields = v
	case map[string]interface{}:
		fields = v
	default:
		return nil, migration.NewErrMalformedRecord(
			fmt.Errorf("expected a json object for %q, got %s", id, describe(raw)))
	}
	if fields == nil {
		return nil, migration.NewErrMalformedRecord(
			fmt.Errorf("expected a json object for %q, got null", id))
	}

	enriched := make(migration.Record, len(fields)+2)
	for k, v := range fields {
		enriched[k] = v
	}
	enriched[migration.FieldType] = ident.Category
	enriched[migration.FieldDate] = ident.Date

	return enriched, nil
}

func describe(v interface{}) string {
	switch v.(type) {
	case nil:
		return "null"
	case []interface{}:
		return "array"
	case string:
		return "string"
	case bool:
		return "boolean"
	case json.Number, float64, int, int64:
		return "number"
	default:
		return fmt.Sprintf("%T", v)
	}
}
