package destination

import (
	"github.com/singer-io/tap-amazon-sp/types"
)

// Writer emits the change stream of a sync
type Writer interface {
	WriteSchema(stream string, schema *types.TypeSchema, keyProperties []string, replicationKey string) error
	WriteRecord(stream string, record types.Record) error
	WriteState(state *types.State) error
}

// StateStore persists the checkpoint document between runs
type StateStore interface {
	Load() (*types.State, error)
	// Save is called after every state change
	Save(state *types.State) error
	Close() error
}
