package abstract

import (
	"fmt"
	"time"

	"github.com/singer-io/tap-amazon-sp/types"
	"github.com/singer-io/tap-amazon-sp/utils/typeutils"
)

// StreamDefinition binds a record source to its replication metadata. The
// replication mode selects the sync state machine; there is one struct for
// every kind of stream.
type StreamDefinition struct {
	ID             string
	Mode           types.SyncMode
	KeyFields      []string
	ReplicationKey string
	// Parent is fixed at configuration time
	Parent *StreamDefinition
	Source RecordSource
	Schema *types.TypeSchema
	// Priority streams are synced before the rest of the catalog
	Priority bool
	// Marketplaces overrides the configured marketplaces when set
	Marketplaces []string
}

func (d *StreamDefinition) Validate() error {
	if d.ID == "" {
		return fmt.Errorf("stream id is empty")
	}
	if d.Source == nil {
		return fmt.Errorf("stream[%s]: record source not set", d.ID)
	}

	switch d.Mode {
	case types.INCREMENTAL:
		if d.ReplicationKey == "" {
			return fmt.Errorf("stream[%s]: replication key is required for %s streams", d.ID, d.Mode)
		}
	case types.FULLTABLE:
		if d.ReplicationKey != "" {
			return fmt.Errorf("stream[%s]: replication key not allowed for %s streams", d.ID, d.Mode)
		}
	default:
		return fmt.Errorf("stream[%s]: unsupported replication mode[%s]", d.ID, d.Mode)
	}

	if d.Parent != nil {
		if len(d.Parent.KeyFields) == 0 {
			return fmt.Errorf("stream[%s]: parent %s has no key fields", d.ID, d.Parent.ID)
		}
		if err := d.Parent.Validate(); err != nil {
			return fmt.Errorf("stream[%s]: invalid parent: %s", d.ID, err)
		}
	}

	return nil
}

func (d *StreamDefinition) IsChild() bool {
	return d.Parent != nil
}

// Stream returns the discoverable description of the definition
func (d *StreamDefinition) Stream() *types.Stream {
	stream := types.NewStream(d.ID).
		WithSyncMode(d.Mode).
		WithPrimaryKey(d.KeyFields...).
		WithReplicationKey(d.ReplicationKey)

	if d.Schema != nil {
		stream.WithSchema(d.Schema)
	}
	if d.Parent != nil {
		stream.WithParent(d.Parent.ID)
	}

	return stream
}

// Watermark serializes the replication key value of a record
func (d *StreamDefinition) Watermark(record types.Record) string {
	return FormatWatermark(record[d.ReplicationKey])
}

// Key serializes the first key field of a record
func (d *StreamDefinition) Key(record types.Record) string {
	if len(d.KeyFields) == 0 {
		return ""
	}
	value := record[d.KeyFields[0]]
	if value == nil {
		return ""
	}
	return fmt.Sprintf("%v", value)
}

// FormatWatermark renders timestamps in RFC3339 UTC and anything else as is
func FormatWatermark(value any) string {
	switch v := value.(type) {
	case nil:
		return ""
	case time.Time:
		return typeutils.FormatTimestamp(v)
	case string:
		if parsed, err := typeutils.ParseTimestamp(v); err == nil {
			return typeutils.FormatTimestamp(parsed)
		}
		return v
	default:
		return fmt.Sprintf("%v", v)
	}
}
