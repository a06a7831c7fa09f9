package services

import (
	"context"
	"encoding/json"
	"log/slog"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/userhub/services/internal/mq"
)

type publishedMessage struct {
	channel string
	data    []byte
	attrs   map[string]string
}

type fakeBackend struct {
	published []publishedMessage
}

func (f *fakeBackend) Publish(ctx context.Context, channel string, data []byte, attrs map[string]string) (string, error) {
	f.published = append(f.published, publishedMessage{channel: channel, data: data, attrs: attrs})
	return "msg-1", nil
}

func (f *fakeBackend) Subscribe(ctx context.Context, channel string, handler mq.Handler) error {
	return nil
}

func (f *fakeBackend) Close() error { return nil }

func TestAuditPublish(t *testing.T) {
	backend := &fakeBackend{}
	publisher := NewAuditPublisher(mq.New(backend), "auth-audit", slog.Default())

	publisher.Publish(context.Background(), AuditLoginFailed, "alice")

	require.Len(t, backend.published, 1)
	msg := backend.published[0]
	assert.Equal(t, "auth-audit", msg.channel)
	assert.Equal(t, AuditLoginFailed, msg.attrs["outcome"])

	var event AuditEvent
	require.NoError(t, json.Unmarshal(msg.data, &event))
	assert.Equal(t, AuditLoginFailed, event.Outcome)
	assert.Equal(t, "alice", event.Login)
	assert.False(t, event.OccurredAt.IsZero())
}

func TestAuditPublishWithoutBroker(t *testing.T) {
	publisher := NewAuditPublisher(nil, "auth-audit", slog.Default())

	// Must not panic when no broker is configured.
	publisher.Publish(context.Background(), AuditLoginSucceeded, "alice")
}
