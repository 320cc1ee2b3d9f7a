package amqp

import (
	"errors"
	"testing"
	"time"
)

func TestExponentialBackoff(t *testing.T) {
	tests := []struct {
		attempt int
		want    time.Duration
	}{
		{0, time.Second},
		{1, 2 * time.Second},
		{2, 4 * time.Second},
		{3, 8 * time.Second},
		{4, 16 * time.Second},
		{5, 30 * time.Second},
		{10, 30 * time.Second},
		{100, 30 * time.Second},
	}

	for _, tt := range tests {
		got := exponentialBackoff(tt.attempt)
		if got != tt.want {
			t.Errorf("exponentialBackoff(%d) = %v, want %v", tt.attempt, got, tt.want)
		}
	}
}

func TestIsConnectionError(t *testing.T) {
	tests := []struct {
		name string
		err  error
		want bool
	}{
		{"nil", nil, false},
		{"refused", errors.New("dial tcp 127.0.0.1:5672: connection refused"), true},
		{"closed", errors.New("Exception (504) Reason: \"channel/connection is not open\": connection closed"), true},
		{"reset", errors.New("read tcp: connection reset by peer"), true},
		{"eof", errors.New("unexpected EOF"), true},
		{"broken pipe", errors.New("write: broken pipe"), true},
		{"closed network", errors.New("use of closed network connection"), true},
		{"unrelated", errors.New("invalid message payload"), false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := isConnectionError(tt.err); got != tt.want {
				t.Errorf("isConnectionError(%v) = %v, want %v", tt.err, got, tt.want)
			}
		})
	}
}

func TestEnvelopeRoundTrip(t *testing.T) {
	body, err := NewRecordSyncMessage("bills", 42, "update").Envelope()
	if err != nil {
		t.Fatalf("envelope: %v", err)
	}

	msg, err := OpenEnvelope(body)
	if err != nil {
		t.Fatalf("open envelope: %v", err)
	}

	sync, ok := msg.(*RecordSyncMessage)
	if !ok {
		t.Fatalf("expected *RecordSyncMessage, got %T", msg)
	}
	if sync.Collection != "bills" || sync.ID != 42 || sync.Action != "update" {
		t.Errorf("unexpected message: %+v", sync)
	}
}

func TestOpenEnvelopeUnknownType(t *testing.T) {
	if _, err := OpenEnvelope([]byte(`{"type":"bogus","payload":{}}`)); err == nil {
		t.Fatal("expected error for unknown message type")
	}
}
