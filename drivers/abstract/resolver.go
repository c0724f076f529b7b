package abstract

import (
	"context"

	"github.com/singer-io/tap-amazon-sp/types"
	"github.com/singer-io/tap-amazon-sp/utils/logger"
)

// DependencyResolver drives child streams from the records of their parent
type DependencyResolver struct{}

func NewDependencyResolver() *DependencyResolver {
	return &DependencyResolver{}
}

// Resolve returns the parent projection of a child stream for the window and
// marketplace, or nil for root streams. Each iteration runs the parent source again;
// parent records are neither transformed, written nor checkpointed.
func (r *DependencyResolver) Resolve(child *StreamDefinition, window types.Window, marketplace string) ParentIterator {
	if child == nil || child.Parent == nil {
		return nil
	}

	parent := child.Parent
	return func(ctx context.Context, fn func(ctx context.Context, ref ParentRef) error) error {
		logger.Debugf("Resolving parent[%s] of stream[%s] for marketplace[%s] in %s", parent.ID, child.ID, marketplace, window)

		request := &Request{
			Window:      window,
			Marketplace: marketplace,
			Parents:     r.Resolve(parent, window, marketplace),
		}

		return parent.Source.Read(ctx, request, func(ctx context.Context, record types.Record) error {
			ref := ParentRef{Key: parent.Key(record)}
			if parent.ReplicationKey != "" {
				ref.Watermark = parent.Watermark(record)
			}
			if ref.Key == "" {
				logger.Warnf("Skipping %s record without %v for stream[%s]", parent.ID, parent.KeyFields, child.ID)
				return nil
			}

			return fn(ctx, ref)
		})
	}
}
