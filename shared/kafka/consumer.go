package kafka

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strings"
	"time"

	"artexport/config"
	"artexport/types"

	"github.com/IBM/sarama"
	"github.com/sirupsen/logrus"
)

// retryDelay is how long Run waits before rejoining the group after a failed session
const retryDelay = 2 * time.Second

// EventHandler receives each decoded upload event
type EventHandler func(ctx context.Context, event *types.UploadEvent) error

// EventConsumer reads upload events from the uploads topic as a consumer group member
type EventConsumer struct {
	group   sarama.ConsumerGroup
	topic   string
	groupID string
	handle  EventHandler
}

// NewEventConsumer joins the configured consumer group. New members start at the newest offset.
func NewEventConsumer(cfg config.KafkaConfig, handle EventHandler) (*EventConsumer, error) {
	if !cfg.Enabled() {
		return nil, fmt.Errorf("no Kafka brokers configured")
	}

	saramaConfig := sarama.NewConfig()
	saramaConfig.Version = sarama.V3_6_0_0
	saramaConfig.Consumer.Group.Rebalance.GroupStrategies = []sarama.BalanceStrategy{sarama.NewBalanceStrategyRoundRobin()}
	saramaConfig.Consumer.Offsets.Initial = sarama.OffsetNewest
	saramaConfig.Consumer.Return.Errors = true

	group, err := sarama.NewConsumerGroup(cfg.Brokers, cfg.GroupID, saramaConfig)
	if err != nil {
		return nil, fmt.Errorf("failed to join consumer group %q: %w", cfg.GroupID, err)
	}
	return NewEventConsumerFrom(group, cfg.Topic, cfg.GroupID, handle), nil
}

// NewEventConsumerFrom wraps an existing consumer group
func NewEventConsumerFrom(group sarama.ConsumerGroup, topic, groupID string, handle EventHandler) *EventConsumer {
	return &EventConsumer{group: group, topic: topic, groupID: groupID, handle: handle}
}

// Run consumes until ctx is cancelled, rejoining the group after session errors
func (c *EventConsumer) Run(ctx context.Context) error {
	go func() {
		for err := range c.group.Errors() {
			logrus.WithError(err).Error("Kafka consumer error")
		}
	}()

	logrus.WithFields(logrus.Fields{
		"group": c.groupID,
		"topic": c.topic,
	}).Info("Watching upload events")

	for {
		err := c.group.Consume(ctx, []string{c.topic}, c)
		if ctx.Err() != nil {
			return nil
		}
		if errors.Is(err, sarama.ErrClosedConsumerGroup) {
			return err
		}
		if err != nil {
			logrus.WithError(err).Warn("Kafka session ended, rejoining")
			select {
			case <-time.After(retryDelay):
			case <-ctx.Done():
				return nil
			}
		}
	}
}

// Close leaves the consumer group
func (c *EventConsumer) Close() error {
	return c.group.Close()
}

// Setup implements sarama.ConsumerGroupHandler
func (c *EventConsumer) Setup(session sarama.ConsumerGroupSession) error {
	logrus.WithField("claims", session.Claims()).Debug("Kafka session started")
	return nil
}

// Cleanup implements sarama.ConsumerGroupHandler
func (c *EventConsumer) Cleanup(sarama.ConsumerGroupSession) error {
	return nil
}

// ConsumeClaim hands every message of the claim to the event handler.
// A message is marked unless the handler failed on a well-formed event.
func (c *EventConsumer) ConsumeClaim(session sarama.ConsumerGroupSession, claim sarama.ConsumerGroupClaim) error {
	for {
		select {
		case message, ok := <-claim.Messages():
			if !ok {
				return nil
			}

			log := logrus.WithFields(logrus.Fields{
				"partition": message.Partition,
				"offset":    message.Offset,
			})
			mark, err := c.handleMessage(session.Context(), message.Value)
			if err != nil {
				log.WithError(err).Error("Failed to handle upload event")
			}
			if mark {
				session.MarkMessage(message, "")
			}

		case <-session.Context().Done():
			return nil
		}
	}
}

// handleMessage decodes one upload event. Undecodable or untitled events are skipped
// but still marked so they are not redelivered.
func (c *EventConsumer) handleMessage(ctx context.Context, value []byte) (bool, error) {
	var event types.UploadEvent
	if err := json.Unmarshal(value, &event); err != nil {
		logrus.WithError(err).Warn("Skipping malformed upload event")
		return true, nil
	}
	if strings.TrimSpace(event.Title) == "" {
		logrus.WithField("id", event.ID).Warn("Skipping upload event without title")
		return true, nil
	}

	if err := c.handle(ctx, &event); err != nil {
		return false, err
	}
	return true, nil
}
