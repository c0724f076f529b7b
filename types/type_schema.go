package types

import (
	"fmt"
	"sort"
)

// TypeSchema is the JSON schema of a stream; only the subset of keywords used by
// the catalog is modelled
type TypeSchema struct {
	Type                 *Set[DataType]       `json:"type,omitempty"`
	Properties           map[string]*Property `json:"properties"`
	AdditionalProperties *bool                `json:"additionalProperties,omitempty"`
}

func NewTypeSchema() *TypeSchema {
	return &TypeSchema{
		Type:       NewSet(Null, Object),
		Properties: make(map[string]*Property),
	}
}

// Property is a dto for catalog properties representation
type Property struct {
	Type       *Set[DataType]       `json:"type,omitempty"`
	Format     string               `json:"format,omitempty"`
	Properties map[string]*Property `json:"properties,omitempty"`
	Items      *Property            `json:"items,omitempty"`
}

// DataType returns the first declared non-null type of the property
func (p *Property) DataType() DataType {
	if p == nil {
		return Null
	}
	for _, typ := range p.Type.Array() {
		if typ != Null {
			return typ
		}
	}

	return Null
}

func (p *Property) Nullable() bool {
	return p != nil && p.Type.Exists(Null)
}

func (t *TypeSchema) AddTypes(column string, types ...DataType) {
	property, found := t.Properties[column]
	if !found {
		t.Properties[column] = &Property{Type: NewSet(types...)}
		return
	}

	property.Type.Insert(types...)
}

func (t *TypeSchema) GetProperty(column string) (*Property, error) {
	property, found := t.Properties[column]
	if !found {
		return nil, fmt.Errorf("column [%s] missing from type schema", column)
	}

	return property, nil
}

func (t *TypeSchema) GetType(column string) (DataType, error) {
	property, err := t.GetProperty(column)
	if err != nil {
		return "", err
	}

	return property.DataType(), nil
}

// Fields returns the declared property names in a stable order
func (t *TypeSchema) Fields() []string {
	fields := make([]string, 0, len(t.Properties))
	for field := range t.Properties {
		fields = append(fields, field)
	}
	sort.Strings(fields)

	return fields
}

// Complete fills every declared field missing from the record with the zero value
// of its type. Records are completed in place and returned for chaining. A nil
// schema leaves the record untouched.
func (t *TypeSchema) Complete(record Record) Record {
	if record == nil {
		record = make(Record)
	}
	if t == nil {
		return record
	}

	for field, property := range t.Properties {
		if _, found := record[field]; found {
			continue
		}
		record[field] = property.DataType().ZeroValue()
	}

	return record
}
