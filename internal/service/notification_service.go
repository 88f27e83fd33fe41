package service

import (
	"context"
	"encoding/json"
	"fmt"

	"go.uber.org/zap"

	"github.com/spec-kit/catalog-service/internal/config"
	"github.com/spec-kit/catalog-service/internal/events"
)

// Publisher fans serialized events out to other processes.
type Publisher interface {
	Publish(ctx context.Context, channel string, payload []byte) (int64, error)
}

// NotificationService logs catalog events and forwards them to a publisher so
// storefront caches can react to product changes.
type NotificationService struct {
	dispatcher events.Dispatcher
	publisher  Publisher
	logger     *zap.Logger
	cfg        config.EventsConfig
}

// NewNotificationService creates the service. publisher may be nil.
func NewNotificationService(dispatcher events.Dispatcher, publisher Publisher, logger *zap.Logger, cfg config.EventsConfig) *NotificationService {
	return &NotificationService{
		dispatcher: dispatcher,
		publisher:  publisher,
		logger:     logger,
		cfg:        cfg,
	}
}

// RegisterHandlers subscribes to events.
func (n *NotificationService) RegisterHandlers() {
	if n.dispatcher == nil {
		return
	}
	for _, eventType := range []events.EventType{
		events.EventProductUpdated,
		events.EventProductDeleted,
		events.EventImageUploaded,
		events.EventImageDeleted,
	} {
		n.dispatcher.Subscribe(eventType, n.handle)
	}
}

func (n *NotificationService) handle(ctx context.Context, event events.Event) error {
	fields := []zap.Field{
		zap.String("event_id", event.ID),
		zap.String("type", string(event.Type)),
		zap.String("actor", event.Actor.UserID),
		zap.Any("payload", event.Payload),
	}
	if event.ProductID != "" {
		fields = append(fields, zap.String("product_id", event.ProductID))
	}
	n.logger.Info("catalog event", fields...)

	if n.publisher == nil || n.cfg.Channel == "" {
		return nil
	}
	body, err := json.Marshal(event)
	if err != nil {
		return fmt.Errorf("encode event %s: %w", event.ID, err)
	}
	receivers, err := n.publisher.Publish(ctx, n.cfg.Channel, body)
	if err != nil {
		return fmt.Errorf("publish event %s: %w", event.ID, err)
	}
	n.logger.Debug("catalog event published",
		zap.String("channel", n.cfg.Channel),
		zap.String("event_id", event.ID),
		zap.Int64("receivers", receivers))
	return nil
}
