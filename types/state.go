package types

import "time"

// State is the checkpoint document of a sync. It is owned by the sync engine and
// threaded through it explicitly; writers only serialize it.
type State struct {
	CurrentlySyncing *string                 `json:"currently_syncing"`
	Bookmarks        map[string]*StreamState `json:"bookmarks"`
}

// StreamState holds the bookmarks of one stream, one watermark per marketplace
type StreamState struct {
	ReplicationKey string            `json:"replication_key,omitempty"`
	Marketplaces   map[string]string `json:"marketplaces,omitempty"`
	// Set when a full table stream went through every marketplace
	CompletedAt string `json:"completed_at,omitempty"`
}

func NewState() *State {
	return &State{Bookmarks: make(map[string]*StreamState)}
}

func (s *State) stream(streamID string) *StreamState {
	if s.Bookmarks == nil {
		s.Bookmarks = make(map[string]*StreamState)
	}

	streamState, found := s.Bookmarks[streamID]
	if !found {
		streamState = &StreamState{Marketplaces: make(map[string]string)}
		s.Bookmarks[streamID] = streamState
	}
	if streamState.Marketplaces == nil {
		streamState.Marketplaces = make(map[string]string)
	}

	return streamState
}

// SetCurrentlySyncing marks the stream being synced; an empty id clears the marker
func (s *State) SetCurrentlySyncing(streamID string) {
	if streamID == "" {
		s.CurrentlySyncing = nil
		return
	}
	s.CurrentlySyncing = &streamID
}

func (s *State) GetCurrentlySyncing() string {
	if s.CurrentlySyncing == nil {
		return ""
	}
	return *s.CurrentlySyncing
}

// GetBookmark returns the stored watermark of a stream for a marketplace
func (s *State) GetBookmark(streamID, marketplace string) (string, bool) {
	streamState, found := s.Bookmarks[streamID]
	if !found || streamState == nil {
		return "", false
	}

	value, found := streamState.Marketplaces[marketplace]
	return value, found && value != ""
}

// SetBookmark stores the watermark as is. Callers are responsible for keeping it monotonic.
func (s *State) SetBookmark(streamID, replicationKey, marketplace, value string) {
	streamState := s.stream(streamID)
	streamState.ReplicationKey = replicationKey
	streamState.Marketplaces[marketplace] = value
}

// MarkCompleted records a finished full table pass
func (s *State) MarkCompleted(streamID string, at time.Time) {
	s.stream(streamID).CompletedAt = at.UTC().Format(time.RFC3339)
}

func (s *State) IsZero() bool {
	return s.CurrentlySyncing == nil && len(s.Bookmarks) == 0
}
