package events

import (
	"context"

	"github.com/gearbox-rentals/service-rental/internal/cache"
	"github.com/gearbox-rentals/service-rental/internal/kafka"
	"github.com/google/uuid"
	kafkago "github.com/segmentio/kafka-go"
	"go.uber.org/zap"
)

// DashboardCacheKey returns the cache key for an owner's dashboard aggregate.
func DashboardCacheKey(ownerID uuid.UUID) string {
	return "dashboard:owner:" + ownerID.String()
}

// DashboardCacheConsumer listens to booking events and drops the affected
// owner's cached dashboard, so the next read re-aggregates fresh data.
type DashboardCacheConsumer struct {
	consumer *kafka.Consumer
	cache    cache.Cache
	logger   *zap.Logger
}

// NewDashboardCacheConsumer creates a new DashboardCacheConsumer.
func NewDashboardCacheConsumer(
	brokers []string,
	groupID string,
	c cache.Cache,
	logger *zap.Logger,
) *DashboardCacheConsumer {
	consumer := kafka.NewConsumer(brokers, groupID, TopicBookingEvents, logger)
	return &DashboardCacheConsumer{
		consumer: consumer,
		cache:    c,
		logger:   logger,
	}
}

// Start begins consuming booking events. This blocks until the context is cancelled.
func (c *DashboardCacheConsumer) Start(ctx context.Context) error {
	return c.consumer.Consume(ctx, c.handleMessage)
}

// Close closes the underlying Kafka consumer.
func (c *DashboardCacheConsumer) Close() error {
	return c.consumer.Close()
}

func (c *DashboardCacheConsumer) handleMessage(ctx context.Context, msg kafkago.Message) error {
	cloudEvent, err := kafka.ParseCloudEvent(msg.Value)
	if err != nil {
		c.logger.Error("failed to parse cloud event from booking topic",
			zap.Error(err),
			zap.String("raw", string(msg.Value)),
		)
		return nil // Don't retry malformed messages
	}

	ownerID, ok := c.ownerIDFor(cloudEvent)
	if !ok {
		c.logger.Debug("ignoring unhandled booking event type",
			zap.String("type", cloudEvent.Type),
		)
		return nil
	}

	if err := c.cache.Delete(ctx, DashboardCacheKey(ownerID)); err != nil {
		c.logger.Error("failed to invalidate dashboard cache",
			zap.String("owner_id", ownerID.String()),
			zap.Error(err),
		)
		return err
	}

	c.logger.Debug("dashboard cache invalidated",
		zap.String("owner_id", ownerID.String()),
		zap.String("event_type", cloudEvent.Type),
	)
	return nil
}

func (c *DashboardCacheConsumer) ownerIDFor(cloudEvent kafka.CloudEvent) (uuid.UUID, bool) {
	switch cloudEvent.Type {
	case BookingCreated:
		var evt BookingCreatedEvent
		if err := cloudEvent.ParseData(&evt); err != nil {
			c.logger.Error("failed to parse BookingCreatedEvent data", zap.Error(err))
			return uuid.Nil, false
		}
		return evt.OwnerID, true
	case BookingStatusChanged:
		var evt BookingStatusChangedEvent
		if err := cloudEvent.ParseData(&evt); err != nil {
			c.logger.Error("failed to parse BookingStatusChangedEvent data", zap.Error(err))
			return uuid.Nil, false
		}
		return evt.OwnerID, true
	default:
		return uuid.Nil, false
	}
}
