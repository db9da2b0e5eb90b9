package amqp

import (
	"encoding/json"
	"time"

	"courtsplit/internal/core"
)

// DuesSyncMessage asks the worker to recompute and export one month's dues.
// It carries only the month key; the worker reads the current state from the
// store, so stale or duplicate deliveries are harmless.
type DuesSyncMessage struct {
	MonthKey  string    `json:"month_key"`
	Timestamp time.Time `json:"timestamp"`
}

func NewDuesSyncMessage(key core.MonthKey) *DuesSyncMessage {
	return &DuesSyncMessage{
		MonthKey:  string(key),
		Timestamp: time.Now(),
	}
}

func (m *DuesSyncMessage) ToJSON() ([]byte, error) {
	return json.Marshal(m)
}

func DuesSyncMessageFromJSON(data []byte) (*DuesSyncMessage, error) {
	var msg DuesSyncMessage
	if err := json.Unmarshal(data, &msg); err != nil {
		return nil, err
	}
	return &msg, nil
}
