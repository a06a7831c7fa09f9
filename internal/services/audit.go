package services

import (
	"context"
	"encoding/json"
	"log/slog"
	"time"

	"github.com/userhub/services/internal/mq"
)

// Audit event outcomes published per authentication attempt.
const (
	AuditLoginSucceeded    = "login_succeeded"
	AuditLoginFailed       = "login_failed"
	AuditAccountRegistered = "account_registered"
	AuditAccountDeleted    = "account_deleted"
)

// AuditEvent is the payload published to the audit topic.
type AuditEvent struct {
	Outcome    string    `json:"outcome"`
	Login      string    `json:"login"`
	OccurredAt time.Time `json:"occurred_at"`
}

// AuditPublisher emits authentication audit events to the message
// queue. A nil MQ disables publishing; auth flows never fail because
// the broker is down.
type AuditPublisher struct {
	mq     *mq.MQ
	topic  string
	logger *slog.Logger
}

func NewAuditPublisher(queue *mq.MQ, topic string, logger *slog.Logger) *AuditPublisher {
	if logger == nil {
		logger = slog.Default()
	}
	return &AuditPublisher{
		mq:     queue,
		topic:  topic,
		logger: logger,
	}
}

// Publish sends one audit event, best effort.
func (p *AuditPublisher) Publish(ctx context.Context, outcome, login string) {
	event := AuditEvent{
		Outcome:    outcome,
		Login:      login,
		OccurredAt: time.Now().UTC(),
	}
	p.logger.Info("auth audit", "outcome", outcome, "login", login)

	if p.mq == nil {
		return
	}
	data, err := json.Marshal(event)
	if err != nil {
		p.logger.Error("marshal audit event", "error", err)
		return
	}
	if _, err := p.mq.Publish(ctx, p.topic, data, map[string]string{"outcome": outcome}); err != nil {
		p.logger.Error("publish audit event", "error", err)
	}
}
