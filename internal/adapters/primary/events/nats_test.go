package events

import (
	"context"
	"encoding/json"
	"errors"
	"testing"

	"github.com/nats-io/nats.go"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jupiterclapton/cenackle/services/social-service/internal/adapters/secondary/eventbroker"
)

type edge struct{ from, to string }

type fakeProjection struct {
	edges map[edge]bool
	err   error
}

func newFakeProjection() *fakeProjection {
	return &fakeProjection{edges: map[edge]bool{}}
}

func (f *fakeProjection) CreateRelation(_ context.Context, a, b string) error {
	if f.err != nil {
		return f.err
	}
	f.edges[edge{a, b}] = true
	return nil
}

func (f *fakeProjection) DeleteRelation(_ context.Context, a, b string) error {
	if f.err != nil {
		return f.err
	}
	delete(f.edges, edge{a, b})
	return nil
}

func followMsg(t *testing.T, subject, actor, target string) *nats.Msg {
	t.Helper()
	data, err := json.Marshal(eventbroker.FollowChangedEvent{ActorID: actor, TargetID: target})
	require.NoError(t, err)
	return &nats.Msg{Subject: subject, Data: data, Header: nats.Header{}}
}

func TestHandleFollowChanged(t *testing.T) {
	proj := newFakeProjection()
	h := NewEventHandler(proj)

	h.HandleFollowChanged(followMsg(t, eventbroker.SubjectFollowed, "a", "b"))
	assert.True(t, proj.edges[edge{"a", "b"}])

	h.HandleFollowChanged(followMsg(t, eventbroker.SubjectUnfollowed, "a", "b"))
	assert.Empty(t, proj.edges)
}

func TestApply_Rejects(t *testing.T) {
	ctx := context.Background()
	h := NewEventHandler(newFakeProjection())

	assert.Error(t, h.apply(ctx, eventbroker.SubjectFollowed, []byte("{")))
	assert.Error(t, h.apply(ctx, eventbroker.SubjectFollowed, []byte(`{"actor_id":"a"}`)))
	assert.Error(t, h.apply(ctx, "social.graph.blocked", []byte(`{"actor_id":"a","target_id":"b"}`)))
}

func TestApply_PropagatesProjectionError(t *testing.T) {
	proj := newFakeProjection()
	proj.err = errors.New("neo4j down")
	h := NewEventHandler(proj)

	err := h.apply(context.Background(), eventbroker.SubjectFollowed, []byte(`{"actor_id":"a","target_id":"b"}`))
	assert.ErrorIs(t, err, proj.err)
}
