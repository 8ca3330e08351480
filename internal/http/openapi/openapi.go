// Package openapi embeds the API description served at /api/openapi.yaml.
package openapi

import _ "embed"

// YAML is the raw OpenAPI document.
//
//go:embed openapi.yaml
var YAML []byte
