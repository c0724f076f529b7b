package typeutils

import (
	"fmt"
	"math"
	"strconv"
	"strings"

	"github.com/goccy/go-json"
	"github.com/singer-io/tap-amazon-sp/types"
)

// Transform completes a record against the stream schema and coerces every declared
// field to its declared type. Undeclared and excluded fields are dropped. Values that
// cannot be coerced are kept as received, so a schema drift never aborts a sync.
func Transform(record types.Record, schema *types.TypeSchema, exclude ...string) types.Record {
	excluded := types.NewSet(exclude...)
	completed := schema.Complete(record)
	if schema == nil {
		for _, field := range exclude {
			delete(completed, field)
		}
		return completed
	}

	output := make(types.Record, len(schema.Properties))
	for field, property := range schema.Properties {
		if excluded.Exists(field) {
			continue
		}
		output[field] = ReformatValue(property, completed[field])
	}

	return output
}

// ReformatValue coerces a single value to the property type
func ReformatValue(property *types.Property, value any) any {
	if value == nil {
		return nil
	}

	reformatted, err := reformat(property, value)
	if err != nil {
		return value
	}

	return reformatted
}

func reformat(property *types.Property, value any) (any, error) {
	switch property.DataType() {
	case types.String:
		return reformatString(property, value)
	case types.Int64:
		return ReformatInt64(value)
	case types.Float64:
		return ReformatFloat64(value)
	case types.Bool:
		return ReformatBool(value)
	case types.Object:
		object, ok := value.(map[string]any)
		if !ok {
			return nil, fmt.Errorf("found %T for object", value)
		}
		if len(property.Properties) == 0 {
			return object, nil
		}
		nested := &types.TypeSchema{Properties: property.Properties}
		return map[string]any(Transform(object, nested)), nil
	case types.Array:
		items, ok := value.([]any)
		if !ok {
			return nil, fmt.Errorf("found %T for array", value)
		}
		if property.Items == nil {
			return items, nil
		}
		output := make([]any, 0, len(items))
		for _, item := range items {
			output = append(output, ReformatValue(property.Items, item))
		}
		return output, nil
	default:
		return value, nil
	}
}

func reformatString(property *types.Property, value any) (any, error) {
	var str string
	switch v := value.(type) {
	case string:
		str = v
	case map[string]any, []any:
		encoded, err := json.Marshal(v)
		if err != nil {
			return nil, err
		}
		str = string(encoded)
	default:
		str = fmt.Sprintf("%v", v)
	}

	if property.Format == types.FormatDateTime && str != "" {
		return NormalizeTimestamp(str)
	}

	return str, nil
}

func ReformatInt64(v any) (int64, error) {
	switch value := v.(type) {
	case int:
		return int64(value), nil
	case int32:
		return int64(value), nil
	case int64:
		return value, nil
	case float32:
		return ReformatInt64(float64(value))
	case float64:
		if value != math.Trunc(value) {
			return 0, fmt.Errorf("found fractional value %v for integer", value)
		}
		return int64(value), nil
	case json.Number:
		return value.Int64()
	case string:
		return strconv.ParseInt(strings.TrimSpace(value), 10, 64)
	case bool:
		if value {
			return 1, nil
		}
		return 0, nil
	}

	return 0, fmt.Errorf("failed to change %v (type:%T) to int64", v, v)
}

func ReformatFloat64(v any) (float64, error) {
	switch value := v.(type) {
	case int:
		return float64(value), nil
	case int32:
		return float64(value), nil
	case int64:
		return float64(value), nil
	case float32:
		return float64(value), nil
	case float64:
		return value, nil
	case json.Number:
		return value.Float64()
	case string:
		return strconv.ParseFloat(strings.TrimSpace(value), 64)
	}

	return 0, fmt.Errorf("failed to change %v (type:%T) to float64", v, v)
}

func ReformatBool(v any) (bool, error) {
	switch value := v.(type) {
	case bool:
		return value, nil
	case string:
		return strconv.ParseBool(strings.TrimSpace(value))
	case int64:
		return value != 0, nil
	case int:
		return value != 0, nil
	case float64:
		return value != 0, nil
	}

	return false, fmt.Errorf("failed to change %v (type:%T) to bool", v, v)
}
