package destination

import (
	"bytes"
	"strings"
	"testing"
	"time"

	"github.com/singer-io/tap-amazon-sp/types"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSingerWriter(t *testing.T) {
	buf := &bytes.Buffer{}
	extractedAt := time.Date(2021, 8, 4, 10, 0, 0, 0, time.UTC)
	writer := NewSingerWriter(buf).WithClock(func() time.Time { return extractedAt })

	schema := types.NewTypeSchema()
	schema.AddTypes("AmazonOrderId", types.String)

	state := types.NewState()
	state.SetBookmark("orders", "LastUpdateDate", "US", "2021-08-03T16:41:14Z")

	require.NoError(t, writer.WriteSchema("orders", schema, []string{"AmazonOrderId"}, "LastUpdateDate"))
	require.NoError(t, writer.WriteRecord("orders", types.Record{"AmazonOrderId": "111-1"}))
	require.NoError(t, writer.WriteState(state))

	lines := strings.Split(strings.TrimSpace(buf.String()), "\n")
	require.Len(t, lines, 3)

	assert.JSONEq(t, `{
		"type": "SCHEMA",
		"stream": "orders",
		"schema": {"type": ["null", "object"], "properties": {"AmazonOrderId": {"type": ["string"]}}},
		"key_properties": ["AmazonOrderId"],
		"bookmark_properties": ["LastUpdateDate"]
	}`, lines[0])
	assert.JSONEq(t, `{
		"type": "RECORD",
		"stream": "orders",
		"record": {"AmazonOrderId": "111-1"},
		"time_extracted": "2021-08-04T10:00:00Z"
	}`, lines[1])
	assert.JSONEq(t, `{
		"type": "STATE",
		"value": {
			"currently_syncing": null,
			"bookmarks": {"orders": {"replication_key": "LastUpdateDate", "marketplaces": {"US": "2021-08-03T16:41:14Z"}}}
		}
	}`, lines[2])
}
