// Copyright (C) 2021-2025 Intel Corporation
// SPDX-License-Identifier: BSD-3-Clause

package dashboard

import (
	"strings"

	"github.com/pkg/errors"
	"github.com/xeipuuv/gojsonschema"
)

// snapshotSchema checks the shape of a snapshot. Row lengths are not checked,
// rows with no data are legal and are skipped when rendering.
const snapshotSchema = `{
  "type": "object",
  "required": ["requestsSummary", "apdex", "statistics"],
  "properties": {
    "requestsSummary": {
      "type": "object",
      "required": ["OkPercent", "KoPercent"],
      "properties": {
        "OkPercent": {"type": "number"},
        "KoPercent": {"type": "number"}
      }
    },
    "apdex": {"$ref": "#/definitions/table"},
    "statistics": {"$ref": "#/definitions/table"},
    "errors": {"$ref": "#/definitions/table"},
    "top5ErrorsBySampler": {"$ref": "#/definitions/table"}
  },
  "definitions": {
    "row": {
      "type": "object",
      "required": ["data"],
      "properties": {
        "data": {"type": "array", "items": {"type": ["string", "number"]}},
        "isController": {"type": "boolean"}
      }
    },
    "table": {
      "type": "object",
      "required": ["titles", "items"],
      "properties": {
        "titles": {"type": "array", "items": {"type": "string"}},
        "overall": {"$ref": "#/definitions/row"},
        "items": {"type": "array", "items": {"$ref": "#/definitions/row"}},
        "supportsControllersDiscrimination": {"type": "boolean"}
      }
    }
  }
}`

var schemaLoader = gojsonschema.NewStringLoader(snapshotSchema)

func validateSnapshot(data []byte) error {
	result, err := gojsonschema.Validate(schemaLoader, gojsonschema.NewBytesLoader(data))
	if err != nil {
		return errors.Wrap(err, "snapshot schema validation error")
	}
	if result.Valid() {
		return nil
	}
	var details []string
	for _, desc := range result.Errors() {
		details = append(details, desc.String())
	}
	return errors.Errorf("snapshot failed validation: %s", strings.Join(details, "; "))
}
