package types

type MessageType string

const (
	SchemaMessage MessageType = "SCHEMA"
	RecordMessage MessageType = "RECORD"
	StateMessage  MessageType = "STATE"
)

// Message is a dto for the singer output row representation
type Message struct {
	Type               MessageType `json:"type"`
	Stream             string      `json:"stream,omitempty"`
	Record             Record      `json:"record,omitempty"`
	TimeExtracted      string      `json:"time_extracted,omitempty"`
	Schema             *TypeSchema `json:"schema,omitempty"`
	KeyProperties      []string    `json:"key_properties,omitempty"`
	BookmarkProperties []string    `json:"bookmark_properties,omitempty"`
	Value              *State      `json:"value,omitempty"`
}

type ConnectionStatus string

const (
	ConnectionSucceed ConnectionStatus = "SUCCEEDED"
	ConnectionFailed  ConnectionStatus = "FAILED"
)

// StatusRow is a dto for the check command result
type StatusRow struct {
	Status  ConnectionStatus `json:"status,omitempty"`
	Message string           `json:"message,omitempty"`
}
