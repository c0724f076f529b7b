package abstract

import (
	"context"
	"time"

	"github.com/singer-io/tap-amazon-sp/types"
)

// EmitFn receives the raw records of a source, one at a time
type EmitFn func(ctx context.Context, record types.Record) error

// ParentRef is the projection of a parent record needed to drive a child call
type ParentRef struct {
	Key       string
	Watermark string
}

// ParentIterator calls fn once per parent record of the window
type ParentIterator func(ctx context.Context, fn func(ctx context.Context, parent ParentRef) error) error

// Request scopes one read of a record source
type Request struct {
	Window      types.Window
	Marketplace string
	// Parents is set for child streams only
	Parents ParentIterator
}

// RecordSource pages through one remote endpoint. Reads are lazy and not
// restartable: every call to Read issues its remote calls again.
type RecordSource interface {
	Read(ctx context.Context, req *Request, emit EmitFn) error
}

type Config interface {
	Validate() error
}

type DriverInterface interface {
	GetConfigRef() Config
	Spec() any
	Type() string
	// Setup validates the configuration and builds clients without remote calls
	Setup(ctx context.Context) error
	// Check verifies the credentials against the remote source
	Check(ctx context.Context) error
	// Streams returns every stream the source can sync
	Streams() []*StreamDefinition
	// Marketplaces returns the configured marketplace codes
	Marketplaces() []string
	StartDate() time.Time
	// EndDate returns the zero time when syncing up to now
	EndDate() time.Time
}
