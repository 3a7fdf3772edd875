package notifications

import (
	"context"
	"encoding/json"
	"fmt"
	"log"
	"time"

	"github.com/IBM/sarama"
)

// Consumer drains booking events for downstream delivery (email, push)
type Consumer interface {
	Start(ctx context.Context) error
	Stop() error
}

type ConsumerConfig struct {
	Brokers          []string
	GroupID          string
	Topics           []string
	SessionTimeoutMs int
	HeartbeatMs      int
	OffsetOldest     bool
}

func DefaultConsumerConfig() *ConsumerConfig {
	return &ConsumerConfig{
		Brokers:          []string{"localhost:9092"},
		GroupID:          "cinebook-notification-workers",
		Topics:           []string{"booking-events"},
		SessionTimeoutMs: 30000,
		HeartbeatMs:      3000,
		OffsetOldest:     false,
	}
}

type KafkaConsumer struct {
	consumerGroup sarama.ConsumerGroup
	config        *ConsumerConfig
	cancel        context.CancelFunc
}

func NewKafkaConsumer(config *ConsumerConfig) (Consumer, error) {
	saramaConfig := sarama.NewConfig()

	saramaConfig.Consumer.Group.Session.Timeout = time.Duration(config.SessionTimeoutMs) * time.Millisecond
	saramaConfig.Consumer.Group.Heartbeat.Interval = time.Duration(config.HeartbeatMs) * time.Millisecond
	saramaConfig.Consumer.Return.Errors = true
	saramaConfig.Consumer.Offsets.AutoCommit.Enable = true
	saramaConfig.Consumer.Offsets.AutoCommit.Interval = 1 * time.Second

	if config.OffsetOldest {
		saramaConfig.Consumer.Offsets.Initial = sarama.OffsetOldest
	} else {
		saramaConfig.Consumer.Offsets.Initial = sarama.OffsetNewest
	}

	consumerGroup, err := sarama.NewConsumerGroup(config.Brokers, config.GroupID, saramaConfig)
	if err != nil {
		return nil, fmt.Errorf("failed to create consumer group: %w", err)
	}

	return &KafkaConsumer{
		consumerGroup: consumerGroup,
		config:        config,
	}, nil
}

func (kc *KafkaConsumer) Start(ctx context.Context) error {
	ctx, kc.cancel = context.WithCancel(ctx)

	go kc.handleErrors()

	go func() {
		handler := &eventHandler{}
		for {
			select {
			case <-ctx.Done():
				log.Printf("📥 Booking-event consumer shutting down")
				return
			default:
				if err := kc.consumerGroup.Consume(ctx, kc.config.Topics, handler); err != nil {
					log.Printf("📥 Error consuming booking events: %v", err)
					time.Sleep(time.Second)
				}
			}
		}
	}()

	log.Printf("📥 Booking-event consumer started for topics: %v", kc.config.Topics)
	return nil
}

func (kc *KafkaConsumer) handleErrors() {
	for err := range kc.consumerGroup.Errors() {
		log.Printf("📥 Consumer group error: %v", err)
	}
}

func (kc *KafkaConsumer) Stop() error {
	if kc.cancel != nil {
		kc.cancel()
	}
	if err := kc.consumerGroup.Close(); err != nil {
		return fmt.Errorf("failed to close consumer group: %w", err)
	}
	log.Printf("📥 Booking-event consumer stopped")
	return nil
}

// eventHandler implements sarama.ConsumerGroupHandler
type eventHandler struct{}

func (h *eventHandler) Setup(sarama.ConsumerGroupSession) error   { return nil }
func (h *eventHandler) Cleanup(sarama.ConsumerGroupSession) error { return nil }

func (h *eventHandler) ConsumeClaim(session sarama.ConsumerGroupSession, claim sarama.ConsumerGroupClaim) error {
	for message := range claim.Messages() {
		var event BookingEvent
		if err := json.Unmarshal(message.Value, &event); err != nil {
			log.Printf("📥 Skipping malformed booking event at offset %d: %v", message.Offset, err)
			session.MarkMessage(message, "")
			continue
		}

		h.dispatch(&event)
		session.MarkMessage(message, "")
	}
	return nil
}

// dispatch routes the event to its delivery channel. Email/push delivery
// plugs in here; for now the consumer records the event.
func (h *eventHandler) dispatch(event *BookingEvent) {
	switch event.Type {
	case EventBookingCreated:
		log.Printf("📧 Booking %s created for user %s (%d seats)", event.BookingID, event.UserID, len(event.Seats))
	case EventBookingConfirmed:
		log.Printf("📧 Booking %s confirmed, amount %.2f", event.BookingID, event.Amount)
	case EventSeatsReleased:
		log.Printf("📧 Booking %s expired, seats released: %v", event.BookingID, event.Seats)
	default:
		log.Printf("📧 Unknown booking event type %q", event.Type)
	}
}
