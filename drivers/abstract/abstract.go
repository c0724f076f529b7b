package abstract

import (
	"context"
	"fmt"
	"time"

	"github.com/singer-io/tap-amazon-sp/destination"
	"github.com/singer-io/tap-amazon-sp/telemetry"
	"github.com/singer-io/tap-amazon-sp/types"
	"github.com/singer-io/tap-amazon-sp/utils"
	"github.com/singer-io/tap-amazon-sp/utils/logger"
)

// AbstractDriver runs the sync passes of a driver: stream selection and ordering,
// the replication mode state machines and checkpointing
type AbstractDriver struct { //nolint:revive
	driver   DriverInterface
	resolver *DependencyResolver
	state    *types.State
	writer   destination.Writer
	store    destination.StateStore
	now      func() time.Time
}

func NewAbstractDriver(_ context.Context, driver DriverInterface) *AbstractDriver {
	return &AbstractDriver{
		driver:   driver,
		resolver: NewDependencyResolver(),
		now:      time.Now,
	}
}

// WithClock replaces the clock bounding open sync windows
func (a *AbstractDriver) WithClock(now func() time.Time) *AbstractDriver {
	a.now = now
	return a
}

func (a *AbstractDriver) GetConfigRef() Config {
	return a.driver.GetConfigRef()
}

func (a *AbstractDriver) Spec() any {
	return a.driver.Spec()
}

func (a *AbstractDriver) Type() string {
	return a.driver.Type()
}

func (a *AbstractDriver) Setup(ctx context.Context) error {
	return a.driver.Setup(ctx)
}

func (a *AbstractDriver) Check(ctx context.Context) error {
	if err := a.driver.Setup(ctx); err != nil {
		return err
	}
	return a.driver.Check(ctx)
}

// Discover validates every stream definition and returns their descriptions
func (a *AbstractDriver) Discover(_ context.Context) ([]*types.Stream, error) {
	var streams []*types.Stream
	err := utils.ForEach(a.driver.Streams(), func(definition *StreamDefinition) error {
		if err := definition.Validate(); err != nil {
			return err
		}

		stream := definition.Stream()
		if err := stream.Validate(); err != nil {
			return err
		}
		streams = append(streams, stream)
		return nil
	})
	if err != nil {
		return nil, fmt.Errorf("failed to discover streams: %s", err)
	}

	return streams, nil
}

// Sync runs one pass over the selected streams of the catalog. The state is updated
// in place; it is written and saved after every change. Any error aborts the pass.
func (a *AbstractDriver) Sync(ctx context.Context, catalog *types.Catalog, state *types.State, writer destination.Writer, store destination.StateStore) error {
	if state == nil {
		state = types.NewState()
	}
	a.state, a.writer, a.store = state, writer, store

	streams, err := a.Discover(ctx)
	if err != nil {
		return err
	}

	selected, err := types.IdentifySelectedStreams(catalog, streams)
	if err != nil {
		return err
	}

	definitions := map[string]*StreamDefinition{}
	for _, definition := range a.driver.Streams() {
		definitions[definition.ID] = definition
	}

	for _, stream := range ReorderStreams(selected, PriorityOrder(a.driver.Streams())...) {
		if err := ctx.Err(); err != nil {
			return err
		}

		if err := a.syncStream(ctx, stream, definitions[stream.ID()]); err != nil {
			return fmt.Errorf("failed to sync stream[%s]: %w", stream.ID(), err)
		}
	}

	a.state.SetCurrentlySyncing("")
	return a.saveState()
}

func (a *AbstractDriver) syncStream(ctx context.Context, stream *types.ConfiguredStream, definition *StreamDefinition) error {
	startTime := time.Now()
	logger.Infof("Starting sync of stream[%s] with mode %s", stream.ID(), stream.GetSyncMode())

	a.state.SetCurrentlySyncing(stream.ID())
	if err := a.saveState(); err != nil {
		return err
	}

	if err := a.writer.WriteSchema(stream.ID(), stream.Schema(), stream.Stream.KeyProperties, stream.Cursor()); err != nil {
		return err
	}

	var err error
	switch stream.GetSyncMode() {
	case types.INCREMENTAL:
		err = a.Incremental(ctx, stream, definition)
	case types.FULLTABLE:
		err = a.FullTable(ctx, stream, definition)
	default:
		err = fmt.Errorf("unsupported sync mode[%s]", stream.GetSyncMode())
	}
	if err != nil {
		return err
	}

	telemetry.ObserveStream(stream.ID(), time.Since(startTime))
	logger.Infof("Finished sync of stream[%s] in %s", stream.ID(), time.Since(startTime).Round(time.Millisecond))
	return a.saveState()
}

// saveState emits the state and flushes it to the store
func (a *AbstractDriver) saveState() error {
	if err := a.writer.WriteState(a.state); err != nil {
		return err
	}

	if a.store != nil {
		if err := a.store.Save(a.state); err != nil {
			return fmt.Errorf("failed to save state: %s", err)
		}
	}

	return nil
}

func (a *AbstractDriver) marketplaces(definition *StreamDefinition) []string {
	if len(definition.Marketplaces) > 0 {
		return definition.Marketplaces
	}
	return a.driver.Marketplaces()
}

// endDate bounds every window of the pass
func (a *AbstractDriver) endDate() time.Time {
	if end := a.driver.EndDate(); !end.IsZero() {
		return end
	}
	return a.now()
}
