package abstract

import (
	"context"
	"time"

	"github.com/goccy/go-json"
	"github.com/singer-io/tap-amazon-sp/types"
)

type MockConfig struct{}

func (c *MockConfig) Validate() error {
	return nil
}

type MockDriver struct {
	setupFunc        func(ctx context.Context) error
	checkFunc        func(ctx context.Context) error
	streamsFunc      func() []*StreamDefinition
	marketplacesFunc func() []string
	startDate        time.Time
	endDate          time.Time
}

func (m *MockDriver) GetConfigRef() Config {
	return &MockConfig{}
}

func (m *MockDriver) Spec() any {
	return map[string]any{}
}

func (m *MockDriver) Type() string {
	return "mock"
}

func (m *MockDriver) Setup(ctx context.Context) error {
	if m.setupFunc != nil {
		return m.setupFunc(ctx)
	}
	return nil
}

func (m *MockDriver) Check(ctx context.Context) error {
	if m.checkFunc != nil {
		return m.checkFunc(ctx)
	}
	return nil
}

func (m *MockDriver) Streams() []*StreamDefinition {
	if m.streamsFunc != nil {
		return m.streamsFunc()
	}
	return nil
}

func (m *MockDriver) Marketplaces() []string {
	if m.marketplacesFunc != nil {
		return m.marketplacesFunc()
	}
	return []string{"US"}
}

func (m *MockDriver) StartDate() time.Time {
	return m.startDate
}

func (m *MockDriver) EndDate() time.Time {
	return m.endDate
}

// MockSource serves records through a function field and records its requests
type MockSource struct {
	readFunc func(ctx context.Context, req *Request, emit EmitFn) error
	requests []*Request
}

func (m *MockSource) Read(ctx context.Context, req *Request, emit EmitFn) error {
	m.requests = append(m.requests, req)
	if m.readFunc != nil {
		return m.readFunc(ctx, req, emit)
	}
	return nil
}

// staticSource emits the same records for every marketplace
func staticSource(records ...types.Record) *MockSource {
	return &MockSource{
		readFunc: func(ctx context.Context, _ *Request, emit EmitFn) error {
			for _, record := range records {
				if err := emit(ctx, copyRecord(record)); err != nil {
					return err
				}
			}
			return nil
		},
	}
}

func copyRecord(record types.Record) types.Record {
	output := make(types.Record, len(record))
	for key, value := range record {
		output[key] = value
	}
	return output
}

type writtenMessage struct {
	Type   types.MessageType
	Stream string
	Record types.Record
	State  *types.State
}

// MockWriter keeps every message in memory
type MockWriter struct {
	messages       []writtenMessage
	writeRecordErr error
}

func (m *MockWriter) WriteSchema(stream string, _ *types.TypeSchema, _ []string, _ string) error {
	m.messages = append(m.messages, writtenMessage{Type: types.SchemaMessage, Stream: stream})
	return nil
}

func (m *MockWriter) WriteRecord(stream string, record types.Record) error {
	if m.writeRecordErr != nil {
		return m.writeRecordErr
	}
	m.messages = append(m.messages, writtenMessage{Type: types.RecordMessage, Stream: stream, Record: record})
	return nil
}

func (m *MockWriter) WriteState(state *types.State) error {
	m.messages = append(m.messages, writtenMessage{Type: types.StateMessage, State: snapshot(state)})
	return nil
}

func (m *MockWriter) records(stream string) []types.Record {
	var records []types.Record
	for _, message := range m.messages {
		if message.Type == types.RecordMessage && message.Stream == stream {
			records = append(records, message.Record)
		}
	}
	return records
}

// MockStore keeps a snapshot of every saved state
type MockStore struct {
	saved []*types.State
}

func (m *MockStore) Load() (*types.State, error) {
	if len(m.saved) == 0 {
		return types.NewState(), nil
	}
	return snapshot(m.saved[len(m.saved)-1]), nil
}

func (m *MockStore) Save(state *types.State) error {
	m.saved = append(m.saved, snapshot(state))
	return nil
}

func (m *MockStore) Close() error {
	return nil
}

func (m *MockStore) last() *types.State {
	return m.saved[len(m.saved)-1]
}

func snapshot(state *types.State) *types.State {
	data, err := json.Marshal(state)
	if err != nil {
		panic(err)
	}
	copied := types.NewState()
	if err := json.Unmarshal(data, copied); err != nil {
		panic(err)
	}
	return copied
}

func ordersSchema() *types.TypeSchema {
	schema := types.NewTypeSchema()
	schema.Properties["AmazonOrderId"] = &types.Property{Type: types.NewSet(types.String)}
	schema.Properties["LastUpdateDate"] = &types.Property{Type: types.NewSet(types.Null, types.String), Format: types.FormatDateTime}
	schema.Properties["OrderStatus"] = &types.Property{Type: types.NewSet(types.Null, types.String)}
	return schema
}

func itemsSchema() *types.TypeSchema {
	schema := types.NewTypeSchema()
	schema.Properties["OrderItemId"] = &types.Property{Type: types.NewSet(types.String)}
	schema.Properties["AmazonOrderId"] = &types.Property{Type: types.NewSet(types.String)}
	schema.Properties["OrderLastUpdateDate"] = &types.Property{Type: types.NewSet(types.Null, types.String), Format: types.FormatDateTime}
	schema.Properties["QuantityOrdered"] = &types.Property{Type: types.NewSet(types.Null, types.Int64)}
	return schema
}

func salesSchema() *types.TypeSchema {
	schema := types.NewTypeSchema()
	schema.Properties["interval"] = &types.Property{Type: types.NewSet(types.String)}
	schema.Properties["unitCount"] = &types.Property{Type: types.NewSet(types.Null, types.Int64)}
	return schema
}

func ordersDefinition(source RecordSource) *StreamDefinition {
	return &StreamDefinition{
		ID:             "orders",
		Mode:           types.INCREMENTAL,
		KeyFields:      []string{"AmazonOrderId"},
		ReplicationKey: "LastUpdateDate",
		Source:         source,
		Schema:         ordersSchema(),
		Priority:       true,
	}
}

func salesDefinition(source RecordSource) *StreamDefinition {
	return &StreamDefinition{
		ID:        "sales",
		Mode:      types.FULLTABLE,
		KeyFields: []string{"interval"},
		Source:    source,
		Schema:    salesSchema(),
	}
}

func catalogOf(definitions ...*StreamDefinition) *types.Catalog {
	streams := []*types.Stream{}
	for _, definition := range definitions {
		streams = append(streams, definition.Stream())
	}
	return types.GetWrappedCatalog(streams)
}
