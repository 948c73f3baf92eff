package events

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/nats-io/nats.go"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/propagation"
	"go.opentelemetry.io/otel/trace"

	"github.com/jupiterclapton/cenackle/services/social-service/internal/adapters/secondary/eventbroker"
	"github.com/jupiterclapton/cenackle/services/social-service/internal/core/ports"
)

// FollowSubject matches both social.graph.followed and social.graph.unfollowed.
const FollowSubject = "social.graph.*"

const handleTimeout = 30 * time.Second

// EventHandler keeps the graph projection in step with the follow events.
type EventHandler struct {
	projection ports.GraphProjection
}

func NewEventHandler(projection ports.GraphProjection) *EventHandler {
	return &EventHandler{projection: projection}
}

// HandleFollowChanged runs inline: NATS delivers a subscription's messages one
// at a time, which keeps follow/unfollow of the same pair in order.
func (h *EventHandler) HandleFollowChanged(msg *nats.Msg) {
	// 1. Extraction du trace context posé par le publisher
	ctx := otel.GetTextMapPropagator().Extract(context.Background(), propagation.HeaderCarrier(msg.Header))

	// 2. Span consumer
	ctx, span := otel.Tracer("social-service").Start(ctx, "process_"+msg.Subject, trace.WithSpanKind(trace.SpanKindConsumer))
	defer span.End()

	ctx, cancel := context.WithTimeout(ctx, handleTimeout)
	defer cancel()

	if err := h.apply(ctx, msg.Subject, msg.Data); err != nil {
		span.RecordError(err)
		slog.Error("❌ Graph projection update failed", "subject", msg.Subject, "error", err)
		return
	}
	slog.Debug("✅ Graph projection updated", "subject", msg.Subject)
}

func (h *EventHandler) apply(ctx context.Context, subject string, data []byte) error {
	var event eventbroker.FollowChangedEvent
	if err := json.Unmarshal(data, &event); err != nil {
		return fmt.Errorf("invalid event format: %w", err)
	}
	if event.ActorID == "" || event.TargetID == "" {
		return errors.New("incomplete follow event")
	}

	switch subject {
	case eventbroker.SubjectFollowed:
		return h.projection.CreateRelation(ctx, event.ActorID, event.TargetID)
	case eventbroker.SubjectUnfollowed:
		return h.projection.DeleteRelation(ctx, event.ActorID, event.TargetID)
	default:
		return fmt.Errorf("unexpected subject %q", subject)
	}
}
