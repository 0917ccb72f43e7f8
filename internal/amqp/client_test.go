package amqp

import (
	"testing"
	"time"
)

func TestNewScheduleSyncMessage(t *testing.T) {
	msg := NewScheduleSyncMessage("abc-123", KindUpsert)

	if msg.ID != "abc-123" {
		t.Errorf("NewScheduleSyncMessage() ID = %v, want abc-123", msg.ID)
	}
	if msg.Kind != KindUpsert {
		t.Errorf("NewScheduleSyncMessage() Kind = %v, want %v", msg.Kind, KindUpsert)
	}
	if msg.Timestamp.IsZero() {
		t.Error("NewScheduleSyncMessage() Timestamp should not be zero")
	}
	if time.Since(msg.Timestamp) > time.Second {
		t.Error("NewScheduleSyncMessage() Timestamp should be recent")
	}
}

func TestScheduleSyncMessage_JSON(t *testing.T) {
	timestamp := time.Date(2024, 1, 1, 12, 0, 0, 0, time.UTC)
	msg := &ScheduleSyncMessage{
		ID:        "abc-123",
		Kind:      KindDelete,
		Timestamp: timestamp,
	}

	jsonBytes, err := msg.ToJSON()
	if err != nil {
		t.Fatalf("ToJSON() error = %v", err)
	}

	parsedMsg, err := ScheduleSyncMessageFromJSON(jsonBytes)
	if err != nil {
		t.Fatalf("ScheduleSyncMessageFromJSON() error = %v", err)
	}

	if parsedMsg.ID != msg.ID {
		t.Errorf("Parsed ID = %v, want %v", parsedMsg.ID, msg.ID)
	}
	if parsedMsg.Kind != msg.Kind {
		t.Errorf("Parsed Kind = %v, want %v", parsedMsg.Kind, msg.Kind)
	}
	if !parsedMsg.Timestamp.Equal(msg.Timestamp) {
		t.Errorf("Parsed Timestamp = %v, want %v", parsedMsg.Timestamp, msg.Timestamp)
	}
}

func TestScheduleSyncMessage_Invalid(t *testing.T) {
	tests := []struct {
		name string
		data string
	}{
		{"malformed JSON", `{"id": `},
		{"wrong types", `{"id": 42, "kind": "upsert"}`},
		{"missing id", `{"kind": "upsert"}`},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if _, err := ScheduleSyncMessageFromJSON([]byte(tt.data)); err == nil {
				t.Errorf("ScheduleSyncMessageFromJSON(%q) should fail", tt.data)
			}
		})
	}
}
