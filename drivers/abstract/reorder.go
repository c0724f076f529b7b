package abstract

import (
	"github.com/singer-io/tap-amazon-sp/types"
)

// ReorderStreams moves the priority streams to the front, in the given order, and
// keeps the remaining streams in catalog order
func ReorderStreams(streams []*types.ConfiguredStream, priority ...string) []*types.ConfiguredStream {
	byID := make(map[string]*types.ConfiguredStream, len(streams))
	for _, stream := range streams {
		byID[stream.ID()] = stream
	}

	ordered := make([]*types.ConfiguredStream, 0, len(streams))
	placed := types.NewSet[string]()
	for _, id := range priority {
		if stream, found := byID[id]; found && !placed.Exists(id) {
			ordered = append(ordered, stream)
			placed.Insert(id)
		}
	}

	for _, stream := range streams {
		if !placed.Exists(stream.ID()) {
			ordered = append(ordered, stream)
			placed.Insert(stream.ID())
		}
	}

	return ordered
}

// PriorityOrder lists the flagged streams and the parents of every child stream.
// A parent always comes ahead of its dependents.
func PriorityOrder(definitions []*StreamDefinition) []string {
	order := []string{}
	placed := types.NewSet[string]()

	var add func(definition *StreamDefinition)
	add = func(definition *StreamDefinition) {
		if definition.Parent != nil {
			add(definition.Parent)
		}
		if !placed.Exists(definition.ID) {
			order = append(order, definition.ID)
			placed.Insert(definition.ID)
		}
	}

	for _, definition := range definitions {
		switch {
		case definition.Priority:
			add(definition)
		case definition.Parent != nil:
			add(definition.Parent)
		}
	}

	return order
}
