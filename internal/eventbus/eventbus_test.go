package eventbus

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestSubscribeReceivesMatchingEventType(t *testing.T) {
	b := New()
	var got []Envelope
	b.Subscribe(NodeCreated, func(e Envelope) { got = append(got, e) })
	b.Subscribe(NodeDeleted, func(e Envelope) { t.Fatal("should not fire for NodeDeleted subscriber") })

	b.Publish(Envelope{Type: NodeCreated, UUID: "u1"})

	assert.Len(t, got, 1)
	assert.Equal(t, "u1", got[0].UUID)
}

func TestWildcardSubscriberReceivesEverything(t *testing.T) {
	b := New()
	var count int
	b.Subscribe("", func(Envelope) { count++ })

	b.Publish(Envelope{Type: NodeCreated})
	b.Publish(Envelope{Type: NodeDeleted})
	b.Publish(Envelope{Type: WorkflowTransitioned})

	assert.Equal(t, 3, count)
}

func TestMultipleHandlersForSameTypeAllFire(t *testing.T) {
	b := New()
	var a, c int
	b.Subscribe(NodeUpdated, func(Envelope) { a++ })
	b.Subscribe(NodeUpdated, func(Envelope) { c++ })

	b.Publish(Envelope{Type: NodeUpdated})

	assert.Equal(t, 1, a)
	assert.Equal(t, 1, c)
}

func TestSubscribeStringPayloadBridgesToStorageShape(t *testing.T) {
	b := New()
	var got map[string]any
	b.SubscribeStringPayload("NodeMoved", func(payload map[string]any) { got = payload })

	b.Publish(Envelope{Type: NodeMoved, Payload: map[string]any{"parent": "p1"}})

	assert.Equal(t, "p1", got["parent"])
}
