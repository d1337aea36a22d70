package realtime

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/rs/zerolog"
	"github.com/segmentio/kafka-go"
)

// MessageWriter is the part of kafka.Writer the publisher uses.
type MessageWriter interface {
	WriteMessages(ctx context.Context, msgs ...kafka.Message) error
}

// MessageReader is the part of kafka.Reader the consumer uses.
type MessageReader interface {
	ReadMessage(ctx context.Context) (kafka.Message, error)
}

// KafkaPublisher writes change events to a Kafka topic, keyed by
// restaurant so one restaurant's events stay ordered.
type KafkaPublisher struct {
	writer MessageWriter
	logger zerolog.Logger
}

// NewKafkaPublisher creates a publisher over writer.
func NewKafkaPublisher(writer MessageWriter, logger zerolog.Logger) *KafkaPublisher {
	return &KafkaPublisher{
		writer: writer,
		logger: logger.With().Str("component", "kafka-publisher").Logger(),
	}
}

// Publish writes one event.
func (p *KafkaPublisher) Publish(ctx context.Context, e Event) error {
	payload, err := json.Marshal(e)
	if err != nil {
		return fmt.Errorf("failed to marshal event: %w", err)
	}

	err = p.writer.WriteMessages(ctx, kafka.Message{
		Key:   []byte(e.RestaurantID.String()),
		Value: payload,
	})
	if err != nil {
		p.logger.Error().Err(err).Str("type", e.Type).Msg("failed to publish event")
		return fmt.Errorf("failed to publish event: %w", err)
	}
	return nil
}

// DefaultReadBackoff is the pause after a failed read before the consumer
// reads again.
const DefaultReadBackoff = 2 * time.Second

// Consumer forwards events read from Kafka into a hub.
type Consumer struct {
	reader  MessageReader
	hub     *Hub
	backoff time.Duration
	logger  zerolog.Logger
}

// NewConsumer creates a consumer feeding hub.
func NewConsumer(reader MessageReader, hub *Hub, logger zerolog.Logger) *Consumer {
	return &Consumer{
		reader:  reader,
		hub:     hub,
		backoff: DefaultReadBackoff,
		logger:  logger.With().Str("component", "kafka-consumer").Logger(),
	}
}

// Run reads until ctx is cancelled. Undecodable messages are skipped and
// read errors are logged, then reading resumes after the backoff.
func (c *Consumer) Run(ctx context.Context) error {
	c.logger.Info().Msg("starting change event consumer")
	for {
		msg, err := c.reader.ReadMessage(ctx)
		if err != nil {
			if ctx.Err() != nil || errors.Is(err, context.Canceled) {
				c.logger.Info().Msg("change event consumer stopped")
				return nil
			}
			c.logger.Error().Err(err).Dur("backoff", c.backoff).Msg("error reading message")
			select {
			case <-ctx.Done():
				c.logger.Info().Msg("change event consumer stopped")
				return nil
			case <-time.After(c.backoff):
			}
			continue
		}

		var e Event
		if err := json.Unmarshal(msg.Value, &e); err != nil {
			c.logger.Warn().Err(err).Int64("offset", msg.Offset).Msg("skipping undecodable message")
			continue
		}

		_ = c.hub.Publish(ctx, e)
	}
}
