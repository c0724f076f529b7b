package abstract

import (
	"context"
	"fmt"

	"github.com/singer-io/tap-amazon-sp/telemetry"
	"github.com/singer-io/tap-amazon-sp/types"
	"github.com/singer-io/tap-amazon-sp/utils/logger"
	"github.com/singer-io/tap-amazon-sp/utils/typeutils"
)

// FullTable reads the whole configured window of every marketplace and writes
// every record. The stream is marked completed once after the last marketplace.
func (a *AbstractDriver) FullTable(ctx context.Context, stream *types.ConfiguredStream, definition *StreamDefinition) error {
	window := types.NewWindow(a.driver.StartDate(), a.endDate())

	for _, marketplace := range a.marketplaces(definition) {
		logger.Infof("Stream[%s] marketplace[%s]: syncing %s", stream.ID(), marketplace, window)
		emitted := 0

		request := &Request{
			Window:      window,
			Marketplace: marketplace,
			Parents:     a.resolver.Resolve(definition, window, marketplace),
		}
		err := definition.Source.Read(ctx, request, func(_ context.Context, record types.Record) error {
			transformed := typeutils.Transform(record, stream.Schema(), stream.ExcludeColumns...)
			if err := a.writer.WriteRecord(stream.ID(), transformed); err != nil {
				return err
			}
			emitted++
			telemetry.RecordEmitted(stream.ID(), marketplace)
			return nil
		})
		if err != nil {
			return fmt.Errorf("marketplace[%s]: %w", marketplace, err)
		}

		logger.Infof("Stream[%s] marketplace[%s]: emitted %d records", stream.ID(), marketplace, emitted)
	}

	a.state.MarkCompleted(stream.ID(), a.now())
	return a.saveState()
}
