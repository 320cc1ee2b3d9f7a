package amqp

import (
	"encoding/json"
	"fmt"
	"time"
)

const (
	TypeRecordSync     = "record.sync"
	TypeForecastExport = "forecast.export"
)

// Envelope wraps every message on the queue with its type so one consumer
// can dispatch both kinds.
type Envelope struct {
	Type    string          `json:"type"`
	Payload json.RawMessage `json:"payload"`
}

// RecordSyncMessage announces a change to one record collection. The
// consumer refreshes derived views; it fetches current data from the
// repository rather than trusting the message body.
type RecordSyncMessage struct {
	Collection string    `json:"collection"` // incomes, bills, categories, goals, debts
	ID         int64     `json:"id"`
	Action     string    `json:"action"` // upsert or delete
	Timestamp  time.Time `json:"timestamp"`
}

// ForecastExportMessage asks the worker to export the forecast for one
// month to the configured spreadsheet.
type ForecastExportMessage struct {
	Year      int       `json:"year"`
	Month     int       `json:"month"`
	Timestamp time.Time `json:"timestamp"`
}

func NewRecordSyncMessage(collection string, id int64, action string) *RecordSyncMessage {
	return &RecordSyncMessage{
		Collection: collection,
		ID:         id,
		Action:     action,
		Timestamp:  time.Now(),
	}
}

func NewForecastExportMessage(year, month int) *ForecastExportMessage {
	return &ForecastExportMessage{
		Year:      year,
		Month:     month,
		Timestamp: time.Now(),
	}
}

func (m *RecordSyncMessage) Envelope() ([]byte, error) {
	return wrap(TypeRecordSync, m)
}

func (m *ForecastExportMessage) Envelope() ([]byte, error) {
	return wrap(TypeForecastExport, m)
}

func wrap(msgType string, payload any) ([]byte, error) {
	body, err := json.Marshal(payload)
	if err != nil {
		return nil, fmt.Errorf("marshal %s payload: %w", msgType, err)
	}
	return json.Marshal(Envelope{Type: msgType, Payload: body})
}

// OpenEnvelope parses the envelope and returns the typed payload, which is
// either *RecordSyncMessage or *ForecastExportMessage.
func OpenEnvelope(data []byte) (any, error) {
	var env Envelope
	if err := json.Unmarshal(data, &env); err != nil {
		return nil, fmt.Errorf("unmarshal envelope: %w", err)
	}
	switch env.Type {
	case TypeRecordSync:
		var msg RecordSyncMessage
		if err := json.Unmarshal(env.Payload, &msg); err != nil {
			return nil, fmt.Errorf("unmarshal record sync payload: %w", err)
		}
		return &msg, nil
	case TypeForecastExport:
		var msg ForecastExportMessage
		if err := json.Unmarshal(env.Payload, &msg); err != nil {
			return nil, fmt.Errorf("unmarshal forecast export payload: %w", err)
		}
		return &msg, nil
	default:
		return nil, fmt.Errorf("unknown message type: %s", env.Type)
	}
}
