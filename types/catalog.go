package types

import (
	"github.com/singer-io/tap-amazon-sp/constants"
	"github.com/singer-io/tap-amazon-sp/utils/logger"
)

// Catalog is a dto for formatted singer catalog serialization
type Catalog struct {
	Streams []*ConfiguredStream `json:"streams"`
}

func GetWrappedCatalog(streams []*Stream) *Catalog {
	catalog := &Catalog{
		Streams: []*ConfiguredStream{},
	}

	for _, stream := range streams {
		catalog.Streams = append(catalog.Streams, stream.Wrap())
	}

	return catalog
}

// Get returns the configured stream with the given id
func (c *Catalog) Get(id string) (*ConfiguredStream, bool) {
	for _, stream := range c.Streams {
		if stream.ID() == id {
			return stream, true
		}
	}

	return nil, false
}

// LogCatalog writes the catalog of the discovered streams to the streams file and the console
func LogCatalog(streams []*Stream) {
	catalog := GetWrappedCatalog(streams)
	if err := logger.FileLogger(catalog, constants.StreamsFile, constants.JSONExtension); err != nil {
		logger.Warnf("failed to persist catalog: %s", err)
	}

	logger.Infof("Discovered %d streams", len(catalog.Streams))
}
