package protocol

import (
	"bytes"
	"fmt"
	"reflect"
	"strings"

	"github.com/goccy/go-json"
	"github.com/singer-io/tap-amazon-sp/constants"
	"github.com/singer-io/tap-amazon-sp/utils/logger"
	"github.com/spf13/cobra"
)

// OrderedProperties marshals schema properties in the declaration order of the config fields
type OrderedProperties struct {
	Properties map[string]any
	Order      []string
}

func (op OrderedProperties) MarshalJSON() ([]byte, error) {
	var b bytes.Buffer
	b.WriteString("{")
	for idx, key := range op.Order {
		if idx > 0 {
			b.WriteString(",")
		}

		keyBytes, err := json.Marshal(key)
		if err != nil {
			return nil, fmt.Errorf("failed to marshal property key %s: %w", key, err)
		}
		b.Write(keyBytes)
		b.WriteString(":")

		valBytes, err := json.Marshal(op.Properties[key])
		if err != nil {
			return nil, fmt.Errorf("failed to marshal property value for key %s: %w", key, err)
		}
		b.Write(valBytes)
	}
	b.WriteString("}")
	return b.Bytes(), nil
}

// specSchema reflects the JSON schema of a config struct from its json and validate tags
func specSchema(config any) (map[string]any, error) {
	typ := reflect.TypeOf(config)
	for typ.Kind() == reflect.Pointer {
		typ = typ.Elem()
	}
	if typ.Kind() != reflect.Struct {
		return nil, fmt.Errorf("config of type %s is not a struct", typ)
	}

	properties := OrderedProperties{Properties: map[string]any{}}
	required := []string{}
	for i := 0; i < typ.NumField(); i++ {
		field := typ.Field(i)
		name, _, _ := strings.Cut(field.Tag.Get("json"), ",")
		if name == "" || name == "-" || !field.IsExported() {
			continue
		}

		fieldType := field.Type
		for fieldType.Kind() == reflect.Pointer {
			fieldType = fieldType.Elem()
		}

		property := map[string]any{"type": jsonType(fieldType.Kind())}
		if strings.Contains(field.Tag.Get("validate"), "required") {
			required = append(required, name)
		}

		properties.Properties[name] = property
		properties.Order = append(properties.Order, name)
	}

	return map[string]any{
		"type":       "object",
		"required":   required,
		"properties": properties,
	}, nil
}

func jsonType(kind reflect.Kind) string {
	switch kind {
	case reflect.Bool:
		return "boolean"
	case reflect.Int, reflect.Int8, reflect.Int16, reflect.Int32, reflect.Int64,
		reflect.Uint, reflect.Uint8, reflect.Uint16, reflect.Uint32, reflect.Uint64:
		return "integer"
	case reflect.Float32, reflect.Float64:
		return "number"
	case reflect.Slice, reflect.Array:
		return "array"
	case reflect.Map, reflect.Struct:
		return "object"
	default:
		return "string"
	}
}

// specCmd prints the JSON schema of the connector config
var specCmd = &cobra.Command{
	Use:   "spec",
	Short: "spec command",
	RunE: func(_ *cobra.Command, _ []string) error {
		schema, err := specSchema(connector.Spec())
		if err != nil {
			return fmt.Errorf("failed to reflect config: %s", err)
		}

		specification := map[string]any{"spec": schema}
		if err := logger.FileLogger(specification, constants.SpecFile, constants.JSONExtension); err != nil {
			logger.Warnf("failed to persist spec: %s", err)
		}

		return printJSON(specification)
	},
}
