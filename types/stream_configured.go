package types

import "fmt"

// Input/Processed object for Stream
type ConfiguredStream struct {
	Stream   *Stream `json:"stream"`
	Selected bool    `json:"selected"`
	// Fields dropped from records before they are written
	ExcludeColumns []string `json:"exclude_columns,omitempty"`
}

func (s *ConfiguredStream) ID() string {
	return s.Stream.ID()
}

func (s *ConfiguredStream) Name() string {
	return s.Stream.Name
}

func (s *ConfiguredStream) Schema() *TypeSchema {
	return s.Stream.Schema
}

func (s *ConfiguredStream) GetSyncMode() SyncMode {
	return s.Stream.SyncMode
}

func (s *ConfiguredStream) Cursor() string {
	return s.Stream.ReplicationKey
}

// Validate Configured Stream with Source Stream
func (s *ConfiguredStream) Validate(source *Stream) error {
	if !source.SupportedSyncModes.Exists(s.Stream.SyncMode) {
		return fmt.Errorf("invalid sync mode[%s]; valid are %v", s.Stream.SyncMode, source.SupportedSyncModes)
	}

	if s.Stream.SyncMode == INCREMENTAL && s.Stream.ReplicationKey != source.ReplicationKey {
		return fmt.Errorf("invalid replication key [%s]; valid is %s", s.Stream.ReplicationKey, source.ReplicationKey)
	}

	for _, column := range s.ExcludeColumns {
		if NewSet(source.KeyProperties...).Exists(column) || column == source.ReplicationKey {
			return fmt.Errorf("column [%s] is a key or replication field and cannot be excluded", column)
		}
	}

	return nil
}
