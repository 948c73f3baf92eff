package eventbroker

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"time"

	"github.com/jupiterclapton/cenackle/services/social-service/internal/core/domain"
	"github.com/nats-io/nats.go"
	"github.com/nats-io/nats.go/jetstream"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/propagation"
)

const (
	StreamName     = "SOCIAL"
	SubjectPattern = "social.>"

	SubjectNotificationCreated = "social.notification.created"
	SubjectFollowed            = "social.graph.followed"
	SubjectUnfollowed          = "social.graph.unfollowed"
)

// --- EVENTS (contrat implicite avec le consumer du graphe) ---

type NotificationCreatedEvent struct {
	ID        string    `json:"id"`
	From      string    `json:"from"`
	To        string    `json:"to"`
	Type      string    `json:"type"`
	CreatedAt time.Time `json:"created_at"`
}

type FollowChangedEvent struct {
	ActorID  string    `json:"actor_id"`
	TargetID string    `json:"target_id"`
	At       time.Time `json:"at"`
}

type NatsBroker struct {
	js jetstream.JetStream
}

// NewNatsBroker s'assure que le Stream existe (idempotent).
func NewNatsBroker(ctx context.Context, nc *nats.Conn) (*NatsBroker, error) {
	js, err := jetstream.New(nc)
	if err != nil {
		return nil, fmt.Errorf("jetstream init: %w", err)
	}

	ctx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()

	_, err = js.CreateOrUpdateStream(ctx, jetstream.StreamConfig{
		Name:     StreamName,
		Subjects: []string{SubjectPattern},
		Storage:  jetstream.FileStorage, // Persistance sur disque
		Replicas: 1,
	})
	if err != nil {
		return nil, fmt.Errorf("create stream: %w", err)
	}

	return &NatsBroker{js: js}, nil
}

func (n *NatsBroker) PublishNotificationCreated(ctx context.Context, notif *domain.Notification) error {
	return n.publish(ctx, SubjectNotificationCreated, NotificationCreatedEvent{
		ID:        notif.ID,
		From:      notif.From,
		To:        notif.To,
		Type:      string(notif.Type),
		CreatedAt: notif.CreatedAt,
	})
}

func (n *NatsBroker) PublishFollowChanged(ctx context.Context, actorID, targetID string, following bool) error {
	subject := SubjectUnfollowed
	if following {
		subject = SubjectFollowed
	}
	return n.publish(ctx, subject, FollowChangedEvent{
		ActorID:  actorID,
		TargetID: targetID,
		At:       time.Now().UTC(),
	})
}

func (n *NatsBroker) publish(ctx context.Context, subject string, event any) error {
	data, err := json.Marshal(event)
	if err != nil {
		return fmt.Errorf("marshal event: %w", err)
	}

	msg := &nats.Msg{
		Subject: subject,
		Data:    data,
		Header:  nats.Header{},
	}
	// 👇 Injection du trace context dans les headers NATS
	otel.GetTextMapPropagator().Inject(ctx, propagation.HeaderCarrier(msg.Header))

	ack, err := n.js.PublishMsg(ctx, msg)
	if err != nil {
		return fmt.Errorf("nats publish %s: %w", subject, err)
	}

	slog.Debug("📢 Event published", "subject", subject, "seq", ack.Sequence)
	return nil
}
