package abstract

import (
	"context"
	"fmt"

	"github.com/singer-io/tap-amazon-sp/telemetry"
	"github.com/singer-io/tap-amazon-sp/types"
	"github.com/singer-io/tap-amazon-sp/utils/logger"
	"github.com/singer-io/tap-amazon-sp/utils/typeutils"
)

// Incremental syncs each marketplace from its bookmark. Records older than the
// bookmark loaded at the start of the marketplace pass are dropped; a record equal
// to it is emitted again. The bookmark only moves forward and is saved after
// every emitted record.
func (a *AbstractDriver) Incremental(ctx context.Context, stream *types.ConfiguredStream, definition *StreamDefinition) error {
	replicationKey := stream.Cursor()
	end := a.endDate()

	for _, marketplace := range a.marketplaces(definition) {
		bookmark, found := a.state.GetBookmark(stream.ID(), marketplace)
		if !found {
			bookmark = typeutils.FormatTimestamp(a.driver.StartDate())
		}

		start, err := typeutils.ParseTimestamp(bookmark)
		if err != nil {
			return fmt.Errorf("invalid bookmark for marketplace[%s]: %s", marketplace, err)
		}

		window := types.NewWindow(start, end)
		if window.IsEmpty() {
			logger.Infof("Stream[%s] marketplace[%s]: bookmark %s is past the end of the window, skipping", stream.ID(), marketplace, bookmark)
			continue
		}

		logger.Infof("Stream[%s] marketplace[%s]: syncing %s", stream.ID(), marketplace, window)
		maxWatermark := bookmark
		emitted, skipped := 0, 0

		request := &Request{
			Window:      window,
			Marketplace: marketplace,
			Parents:     a.resolver.Resolve(definition, window, marketplace),
		}
		err = definition.Source.Read(ctx, request, func(_ context.Context, record types.Record) error {
			transformed := typeutils.Transform(record, stream.Schema(), stream.ExcludeColumns...)
			watermark := FormatWatermark(transformed[replicationKey])
			if watermark == "" {
				logger.Warnf("Stream[%s] marketplace[%s]: skipping record without %s", stream.ID(), marketplace, replicationKey)
				skipped++
				return nil
			}
			if typeutils.CompareWatermarks(watermark, bookmark) < 0 {
				skipped++
				return nil
			}

			if err := a.writer.WriteRecord(stream.ID(), transformed); err != nil {
				return err
			}
			emitted++
			telemetry.RecordEmitted(stream.ID(), marketplace)

			if typeutils.CompareWatermarks(watermark, maxWatermark) > 0 {
				maxWatermark = watermark
			}
			a.state.SetBookmark(stream.ID(), replicationKey, marketplace, maxWatermark)
			return a.saveState()
		})
		if err != nil {
			return fmt.Errorf("marketplace[%s]: %w", marketplace, err)
		}

		a.state.SetBookmark(stream.ID(), replicationKey, marketplace, maxWatermark)
		if err := a.saveState(); err != nil {
			return err
		}

		logger.Infof("Stream[%s] marketplace[%s]: emitted %d records, skipped %d older than %s, bookmark at %s",
			stream.ID(), marketplace, emitted, skipped, bookmark, maxWatermark)
	}

	return nil
}
