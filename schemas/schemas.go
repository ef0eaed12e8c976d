// Package schemas embeds the JSON schemas of the benchmark file formats.
package schemas

import _ "embed"

//go:embed benchmark.schema.json
var BenchmarkSchemaJSON string
