package events

import (
	"context"

	"github.com/rs/zerolog/log"
	kafkaGo "github.com/segmentio/kafka-go"

	"courtside/config"
	"courtside/infras/kafka"
	bookingModel "courtside/internal/domains/booking/model"
	notificationModel "courtside/internal/domains/notification/model"
	notificationService "courtside/internal/domains/notification/service"
	refundModel "courtside/internal/domains/refund/model"
)

// Consumer turns booking and refund events into in-app notifications. It is
// the only subscriber inside this service; schedule.changed exists for
// external consumers and is not read here.
type Consumer interface {
	Start(ctx context.Context)
}

type consumerImpl struct {
	client        kafka.Client
	notifications notificationService.Notification
	cfg           *config.Config
}

func NewConsumer(client kafka.Client, notifications notificationService.Notification, cfg *config.Config) Consumer {
	return &consumerImpl{
		client:        client,
		notifications: notifications,
		cfg:           cfg,
	}
}

func (c *consumerImpl) Start(ctx context.Context) {
	if !c.cfg.Kafka.Enable {
		log.Info().Msg("Kafka disabled, event consumer not started")

		return
	}

	group := c.cfg.Kafka.ConsumerGroup

	go c.client.Consume(ctx, group, TopicBookingConfirmed, c.handleBooking)
	go c.client.Consume(ctx, group, TopicBookingCancelled, c.handleBooking)
	go c.client.Consume(ctx, group, TopicBookingFinished, c.handleBooking)
	go c.client.Consume(ctx, group, TopicRefundUpdated, c.handleRefund)

	log.Info().Str("group", group).Msg("event consumer started")
}

func (c *consumerImpl) handleBooking(msg kafkaGo.Message) {
	decoded, err := kafka.DecodeKafkaMessage[BookingEvent](msg)
	if err != nil {
		return
	}

	event, ok := decoded.Value.(BookingEvent)
	if !ok {
		return
	}

	message := bookingMessage(event)
	if message == "" {
		return
	}

	if err := c.notifications.Append(context.Background(), event.UserID, notificationModel.TypeBooking, message); err != nil {
		log.Error().Err(err).Str("bookingID", event.BookingID).Msg("failed to notify booking event")
	}
}

func (c *consumerImpl) handleRefund(msg kafkaGo.Message) {
	decoded, err := kafka.DecodeKafkaMessage[RefundEvent](msg)
	if err != nil {
		return
	}

	event, ok := decoded.Value.(RefundEvent)
	if !ok {
		return
	}

	message := refundMessage(event)
	if message == "" {
		return
	}

	if err := c.notifications.Append(context.Background(), event.UserID, notificationModel.TypeRefund, message); err != nil {
		log.Error().Err(err).Str("refundID", event.RefundID).Msg("failed to notify refund event")
	}
}

func bookingMessage(event BookingEvent) string {
	switch event.Status {
	case bookingModel.StatusConfirmed:
		return notificationService.MessageBookingConfirmed
	case bookingModel.StatusFinished:
		return notificationService.MessageBookingFinished
	case bookingModel.StatusCancelled:
		if event.Reason == ReasonHoldExpired {
			return notificationService.MessageBookingExpired
		}

		return notificationService.MessageBookingCancelled
	default:
		return ""
	}
}

func refundMessage(event RefundEvent) string {
	switch event.Status {
	case refundModel.StatusCompleted:
		return notificationService.MessageRefundCompleted
	case refundModel.StatusRejected:
		return notificationService.MessageRefundRejected
	default:
		return ""
	}
}
