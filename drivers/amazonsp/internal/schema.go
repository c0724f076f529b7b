package driver

import (
	"embed"
	"fmt"

	"github.com/goccy/go-json"
	"github.com/singer-io/tap-amazon-sp/types"
)

//go:embed schemas/*.json
var schemaFiles embed.FS

// loadSchema reads the embedded JSON schema of a stream; schemas ship with the binary
// so a broken one is a programming error
func loadSchema(stream string) *types.TypeSchema {
	data, err := schemaFiles.ReadFile(fmt.Sprintf("schemas/%s.json", stream))
	if err != nil {
		panic(fmt.Sprintf("missing schema of stream[%s]: %s", stream, err))
	}

	schema := types.NewTypeSchema()
	if err := json.Unmarshal(data, schema); err != nil {
		panic(fmt.Sprintf("invalid schema of stream[%s]: %s", stream, err))
	}

	return schema
}
