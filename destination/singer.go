package destination

import (
	"fmt"
	"io"
	"sync"
	"time"

	"github.com/goccy/go-json"
	"github.com/singer-io/tap-amazon-sp/types"
)

// SingerWriter writes one JSON message per line
type SingerWriter struct {
	mu      sync.Mutex
	encoder *json.Encoder
	now     func() time.Time
}

func NewSingerWriter(out io.Writer) *SingerWriter {
	return &SingerWriter{
		encoder: json.NewEncoder(out),
		now:     time.Now,
	}
}

func (w *SingerWriter) WithClock(now func() time.Time) *SingerWriter {
	w.now = now
	return w
}

func (w *SingerWriter) WriteSchema(stream string, schema *types.TypeSchema, keyProperties []string, replicationKey string) error {
	message := &types.Message{
		Type:          types.SchemaMessage,
		Stream:        stream,
		Schema:        schema,
		KeyProperties: keyProperties,
	}
	if replicationKey != "" {
		message.BookmarkProperties = []string{replicationKey}
	}

	return w.write(message)
}

func (w *SingerWriter) WriteRecord(stream string, record types.Record) error {
	return w.write(&types.Message{
		Type:          types.RecordMessage,
		Stream:        stream,
		Record:        record,
		TimeExtracted: w.now().UTC().Format(time.RFC3339Nano),
	})
}

func (w *SingerWriter) WriteState(state *types.State) error {
	return w.write(&types.Message{
		Type:  types.StateMessage,
		Value: state,
	})
}

func (w *SingerWriter) write(message *types.Message) error {
	w.mu.Lock()
	defer w.mu.Unlock()

	if err := w.encoder.Encode(message); err != nil {
		return fmt.Errorf("failed to write %s message: %s", message.Type, err)
	}

	return nil
}
