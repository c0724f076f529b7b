package types

import "fmt"

type SyncMode string

const (
	INCREMENTAL SyncMode = "INCREMENTAL"
	FULLTABLE   SyncMode = "FULL_TABLE"
)

// Stream is the discoverable description of one entity exposed by the source
type Stream struct {
	// Name of the stream; it is also its identifier
	Name string `json:"tap_stream_id"`
	// Natural key of the records, in declaration order
	KeyProperties []string `json:"key_properties"`
	// Field used as watermark; set only for incremental streams
	ReplicationKey string `json:"replication_key,omitempty"`
	// Replication method used when syncing
	SyncMode SyncMode `json:"replication_method"`
	// Supported sync modes from the source
	SupportedSyncModes *Set[SyncMode] `json:"supported_sync_modes,omitempty"`
	// Name of the stream driving this one, if any
	Parent string `json:"parent,omitempty"`
	// JSON schema of the records
	Schema *TypeSchema `json:"schema"`
}

func NewStream(name string) *Stream {
	return &Stream{
		Name:               name,
		KeyProperties:      []string{},
		SupportedSyncModes: NewSet[SyncMode](),
		Schema:             NewTypeSchema(),
	}
}

func (s *Stream) ID() string {
	return s.Name
}

func (s *Stream) WithSyncMode(modes ...SyncMode) *Stream {
	for _, mode := range modes {
		s.SupportedSyncModes.Insert(mode)
	}
	if s.SyncMode == "" && len(modes) > 0 {
		s.SyncMode = modes[0]
	}

	return s
}

func (s *Stream) WithPrimaryKey(keys ...string) *Stream {
	for _, key := range keys {
		if !NewSet(s.KeyProperties...).Exists(key) {
			s.KeyProperties = append(s.KeyProperties, key)
		}
	}

	return s
}

func (s *Stream) WithReplicationKey(key string) *Stream {
	s.ReplicationKey = key
	return s
}

func (s *Stream) WithParent(parent string) *Stream {
	s.Parent = parent
	return s
}

func (s *Stream) WithSchema(schema *TypeSchema) *Stream {
	s.Schema = schema
	return s
}

// Wrap returns a configured (selected) stream for catalogs
func (s *Stream) Wrap() *ConfiguredStream {
	return &ConfiguredStream{
		Stream:   s,
		Selected: true,
	}
}

func (s *Stream) Validate() error {
	if s.Name == "" {
		return fmt.Errorf("stream name is empty")
	}
	if s.SyncMode == INCREMENTAL && s.ReplicationKey == "" {
		return fmt.Errorf("stream[%s]: replication key is required for %s streams", s.Name, INCREMENTAL)
	}
	if s.SyncMode == INCREMENTAL {
		if _, found := s.Schema.Properties[s.ReplicationKey]; !found {
			return fmt.Errorf("stream[%s]: replication key [%s] not present in schema", s.Name, s.ReplicationKey)
		}
	}

	return nil
}

func StreamsToMap(streams ...*Stream) map[string]*Stream {
	output := make(map[string]*Stream)
	for _, stream := range streams {
		output[stream.ID()] = stream
	}

	return output
}
