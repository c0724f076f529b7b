package types

import (
	"fmt"
	"strings"

	"github.com/singer-io/tap-amazon-sp/utils"
	"github.com/singer-io/tap-amazon-sp/utils/logger"
)

// IdentifySelectedStreams returns the selected catalog streams that are valid against the
// discovered source streams, in catalog order
func IdentifySelectedStreams(catalog *Catalog, streams []*Stream) ([]*ConfiguredStream, error) {
	sourceStreams := StreamsToMap(streams...)
	selected := []*ConfiguredStream{}
	selectedIDs := []string{}

	_, _ = utils.ArrayContains(catalog.Streams, func(elem *ConfiguredStream) bool {
		if elem.Stream == nil {
			logger.Warnf("Skipping; Configured Stream without a stream description")
			return false
		}

		if !elem.Selected {
			logger.Debugf("Skipping stream %s; not selected.", elem.ID())
			return false
		}

		source, found := sourceStreams[elem.ID()]
		if !found {
			logger.Warnf("Skipping; Configured Stream %s not found in source", elem.ID())
			return false
		}

		if elem.Stream.Schema == nil {
			logger.Warnf("Configured Stream %s has no schema; using the discovered one", elem.ID())
			elem.Stream.Schema = source.Schema
		}

		if err := elem.Validate(source); err != nil {
			logger.Warnf("Skipping; Configured Stream %s found invalid due to reason: %s", elem.ID(), err)
			return false
		}

		selected = append(selected, elem)
		selectedIDs = append(selectedIDs, elem.ID())
		return false
	})

	if len(selected) == 0 {
		return nil, fmt.Errorf("no valid streams found in catalog")
	}

	logger.Infof("Valid selected streams are %s", strings.Join(selectedIDs, ", "))
	return selected, nil
}
