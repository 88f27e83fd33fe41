package service

import (
	"context"
	"encoding/json"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/spec-kit/catalog-service/internal/config"
	"github.com/spec-kit/catalog-service/internal/events"
)

type fakePublisher struct {
	channel  string
	messages [][]byte
	err      error
}

func (p *fakePublisher) Publish(_ context.Context, channel string, payload []byte) (int64, error) {
	if p.err != nil {
		return 0, p.err
	}
	p.channel = channel
	p.messages = append(p.messages, payload)
	return 1, nil
}

func TestNotificationService_ForwardsEvents(t *testing.T) {
	dispatcher := events.NewInMemoryDispatcher()
	publisher := &fakePublisher{}
	NewNotificationService(dispatcher, publisher, zap.NewNop(), config.EventsConfig{Channel: "catalog.events"}).RegisterHandlers()

	event := events.NewEvent(events.EventProductDeleted, events.Actor{UserID: "u-1", Method: "jwt"}, "3f2a9c1e-8b7d-4e2f-9a1b-0c3d5e7f9a11",
		events.ProductDeletedPayload{Name: "Spoiler", ImageRemoved: true})
	require.NoError(t, dispatcher.Publish(context.Background(), event))

	assert.Equal(t, "catalog.events", publisher.channel)
	require.Len(t, publisher.messages, 1)

	var decoded map[string]any
	require.NoError(t, json.Unmarshal(publisher.messages[0], &decoded))
	assert.Equal(t, "product_deleted", decoded["type"])
	assert.Equal(t, "3f2a9c1e-8b7d-4e2f-9a1b-0c3d5e7f9a11", decoded["product_id"])
	assert.Equal(t, "Spoiler", decoded["payload"].(map[string]any)["name"])
}

func TestNotificationService_PublishFailureSurfaces(t *testing.T) {
	dispatcher := events.NewInMemoryDispatcher()
	publisher := &fakePublisher{err: errors.New("redis down")}
	NewNotificationService(dispatcher, publisher, zap.NewNop(), config.EventsConfig{Channel: "catalog.events"}).RegisterHandlers()

	err := dispatcher.Publish(context.Background(), events.NewEvent(events.EventImageDeleted, events.Actor{}, "", events.ImagePayload{Filename: "a.png"}))
	assert.ErrorContains(t, err, "redis down")
}

func TestNotificationService_NoPublisherOnlyLogs(t *testing.T) {
	dispatcher := events.NewInMemoryDispatcher()
	NewNotificationService(dispatcher, nil, zap.NewNop(), config.EventsConfig{Channel: "catalog.events"}).RegisterHandlers()

	err := dispatcher.Publish(context.Background(), events.NewEvent(events.EventImageUploaded, events.Actor{}, "", nil))
	assert.NoError(t, err)
}

func TestNotificationService_EmptyChannelSkipsPublish(t *testing.T) {
	dispatcher := events.NewInMemoryDispatcher()
	publisher := &fakePublisher{}
	NewNotificationService(dispatcher, publisher, zap.NewNop(), config.EventsConfig{}).RegisterHandlers()

	require.NoError(t, dispatcher.Publish(context.Background(), events.NewEvent(events.EventProductUpdated, events.Actor{}, "", nil)))
	assert.Empty(t, publisher.messages)
}
