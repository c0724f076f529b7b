package typeutils

import (
	"testing"

	"github.com/goccy/go-json"
	"github.com/singer-io/tap-amazon-sp/types"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func schemaFromJSON(t *testing.T, raw string) *types.TypeSchema {
	t.Helper()
	schema := &types.TypeSchema{}
	require.NoError(t, json.Unmarshal([]byte(raw), schema))
	return schema
}

func TestTransform_CompletesMissingFields(t *testing.T) {
	schema := schemaFromJSON(t, `{"properties": {"a": {"type": ["string", "null"]}, "b": {"type": ["integer"]}}}`)

	output := Transform(types.Record{"a": "x"}, schema)
	assert.Equal(t, types.Record{"a": "x", "b": int64(0)}, output)
}

func TestTransform_ZeroValues(t *testing.T) {
	schema := schemaFromJSON(t, `{"properties": {
		"s": {"type": ["null", "string"]},
		"b": {"type": "boolean"},
		"n": {"type": ["null", "number"]},
		"l": {"type": ["null", "array"], "items": {"type": "string"}},
		"o": {"type": ["null", "object"]},
		"z": {"type": "null"}
	}}`)

	output := Transform(types.Record{}, schema)
	assert.Equal(t, "", output["s"])
	assert.Equal(t, false, output["b"])
	assert.Equal(t, float64(0), output["n"])
	assert.Equal(t, []any{}, output["l"])
	assert.Equal(t, map[string]any{}, output["o"])
	assert.Nil(t, output["z"])
}

func TestTransform_Coercion(t *testing.T) {
	schema := schemaFromJSON(t, `{"properties": {
		"LastUpdateDate": {"type": ["null", "string"], "format": "date-time"},
		"NumberOfItemsShipped": {"type": ["null", "integer"]},
		"IsPrime": {"type": ["null", "boolean"]},
		"OrderTotal": {"type": ["null", "object"], "properties": {"Amount": {"type": ["null", "number"]}}},
		"Tags": {"type": ["null", "array"], "items": {"type": ["null", "integer"]}}
	}}`)

	output := Transform(types.Record{
		"LastUpdateDate":       "2021-08-03T18:41:14+02:00",
		"NumberOfItemsShipped": float64(3),
		"IsPrime":              "true",
		"OrderTotal":           map[string]any{"Amount": "12.50", "CurrencyCode": "USD"},
		"Tags":                 []any{float64(1), "2"},
		"Undeclared":           "dropped",
	}, schema)

	assert.Equal(t, "2021-08-03T16:41:14Z", output["LastUpdateDate"])
	assert.Equal(t, int64(3), output["NumberOfItemsShipped"])
	assert.Equal(t, true, output["IsPrime"])
	assert.Equal(t, map[string]any{"Amount": 12.5}, output["OrderTotal"])
	assert.Equal(t, []any{int64(1), int64(2)}, output["Tags"])
	assert.NotContains(t, output, "Undeclared")
}

func TestTransform_DateTimePrecision(t *testing.T) {
	schema := schemaFromJSON(t, `{"properties": {"PurchaseDate": {"type": ["null", "string"], "format": "date-time"}}}`)

	tests := []struct {
		name     string
		value    string
		expected string
	}{
		{name: "milliseconds", value: "2021-08-03T16:41:14.123Z", expected: "2021-08-03T16:41:14.123Z"},
		{name: "nanoseconds with offset", value: "2021-08-03T18:41:14.123456789+02:00", expected: "2021-08-03T16:41:14.123456789Z"},
		{name: "whole seconds", value: "2021-08-03T16:41:14.000Z", expected: "2021-08-03T16:41:14Z"},
		{name: "without zone", value: "2021-08-03T16:41:14.5", expected: "2021-08-03T16:41:14.5Z"},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			output := Transform(types.Record{"PurchaseDate": tc.value}, schema)
			assert.Equal(t, tc.expected, output["PurchaseDate"])
		})
	}
}

func TestTransform_NilSchema(t *testing.T) {
	output := Transform(types.Record{"id": "A", "secret": "s"}, nil, "secret")
	assert.Equal(t, types.Record{"id": "A"}, output)
}

func TestTransform_KeepsUncoercibleValues(t *testing.T) {
	schema := schemaFromJSON(t, `{"properties": {"qty": {"type": ["null", "integer"]}}}`)

	output := Transform(types.Record{"qty": "many"}, schema)
	assert.Equal(t, "many", output["qty"])
}

func TestTransform_ExcludedColumns(t *testing.T) {
	schema := schemaFromJSON(t, `{"properties": {"id": {"type": "string"}, "secret": {"type": ["null", "string"]}}}`)

	output := Transform(types.Record{"id": "1", "secret": "x"}, schema, "secret")
	assert.Equal(t, types.Record{"id": "1"}, output)
}
