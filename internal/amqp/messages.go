package amqp

import (
	"encoding/json"
	"fmt"
	"time"
)

// Kinds of schedule sync messages. The worker mirrors the whole schedule
// table on every message, so the kind is informational.
const (
	KindUpsert = "upsert"
	KindDelete = "delete"
)

// ScheduleSyncMessage tells the backup worker that a schedule item changed.
// It carries only the ID and the kind of change; the worker reads the
// current state from the database.
type ScheduleSyncMessage struct {
	ID        string    `json:"id"`
	Kind      string    `json:"kind"`
	Timestamp time.Time `json:"timestamp"`
}

// NewScheduleSyncMessage creates a sync message for one changed item.
func NewScheduleSyncMessage(id, kind string) *ScheduleSyncMessage {
	return &ScheduleSyncMessage{
		ID:        id,
		Kind:      kind,
		Timestamp: time.Now(),
	}
}

// ToJSON converts the message to JSON bytes
func (m *ScheduleSyncMessage) ToJSON() ([]byte, error) {
	return json.Marshal(m)
}

// ScheduleSyncMessageFromJSON creates a message from JSON bytes
func ScheduleSyncMessageFromJSON(data []byte) (*ScheduleSyncMessage, error) {
	var msg ScheduleSyncMessage
	if err := json.Unmarshal(data, &msg); err != nil {
		return nil, err
	}
	if msg.ID == "" {
		return nil, fmt.Errorf("sync message missing id")
	}
	return &msg, nil
}
