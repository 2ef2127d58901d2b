package events

import (
	"encoding/json"
	"testing"

	kafkaGo "github.com/segmentio/kafka-go"
	"github.com/stretchr/testify/assert"
	"go.uber.org/mock/gomock"

	"courtside/config"
	bookingModel "courtside/internal/domains/booking/model"
	notificationModel "courtside/internal/domains/notification/model"
	notificationService "courtside/internal/domains/notification/service"
	notificationMocks "courtside/internal/domains/notification/service/mocks"
	refundModel "courtside/internal/domains/refund/model"
)

func kafkaMessage(t *testing.T, key string, value any) kafkaGo.Message {
	t.Helper()

	payload, err := json.Marshal(value)
	if err != nil {
		t.Fatalf("failed to marshal event: %v", err)
	}

	return kafkaGo.Message{Key: []byte(key), Value: payload}
}

func newConsumer(t *testing.T) (*consumerImpl, *notificationMocks.MockNotification) {
	t.Helper()

	ctrl := gomock.NewController(t)
	notifications := notificationMocks.NewMockNotification(ctrl)

	consumer, ok := NewConsumer(nil, notifications, &config.Config{}).(*consumerImpl)
	assert.True(t, ok)

	return consumer, notifications
}

func TestConsumer_HandleBooking(t *testing.T) {
	tests := []struct {
		name    string
		event   BookingEvent
		message string
	}{
		{
			name:    "confirmed",
			event:   BookingEvent{BookingID: "b-1", UserID: "user-1", Status: bookingModel.StatusConfirmed},
			message: notificationService.MessageBookingConfirmed,
		},
		{
			name:    "finished",
			event:   BookingEvent{BookingID: "b-1", UserID: "user-1", Status: bookingModel.StatusFinished},
			message: notificationService.MessageBookingFinished,
		},
		{
			name:    "cancelled by user",
			event:   BookingEvent{BookingID: "b-1", UserID: "user-1", Status: bookingModel.StatusCancelled, Reason: ReasonUserCancelled},
			message: notificationService.MessageBookingCancelled,
		},
		{
			name:    "expired hold",
			event:   BookingEvent{BookingID: "b-1", UserID: "user-1", Status: bookingModel.StatusCancelled, Reason: ReasonHoldExpired},
			message: notificationService.MessageBookingExpired,
		},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			consumer, notifications := newConsumer(t)

			notifications.EXPECT().
				Append(gomock.Any(), "user-1", notificationModel.TypeBooking, tc.message).
				Return(nil)

			consumer.handleBooking(kafkaMessage(t, tc.event.BookingID, tc.event))
		})
	}

	t.Run("pending status is ignored", func(t *testing.T) {
		consumer, _ := newConsumer(t)

		event := BookingEvent{BookingID: "b-1", UserID: "user-1", Status: bookingModel.StatusPending}

		consumer.handleBooking(kafkaMessage(t, event.BookingID, event))
	})

	t.Run("malformed payload is dropped", func(t *testing.T) {
		consumer, _ := newConsumer(t)

		consumer.handleBooking(kafkaGo.Message{Key: []byte("b-1"), Value: []byte("{not json")})
	})
}

func TestConsumer_HandleRefund(t *testing.T) {
	t.Run("completed refund notifies success", func(t *testing.T) {
		consumer, notifications := newConsumer(t)

		event := RefundEvent{RefundID: "r-1", UserID: "user-1", Status: refundModel.StatusCompleted}

		notifications.EXPECT().
			Append(gomock.Any(), "user-1", notificationModel.TypeRefund, notificationService.MessageRefundCompleted).
			Return(nil)

		consumer.handleRefund(kafkaMessage(t, event.RefundID, event))
	})

	t.Run("rejected refund notifies rejection", func(t *testing.T) {
		consumer, notifications := newConsumer(t)

		event := RefundEvent{RefundID: "r-1", UserID: "user-1", Status: refundModel.StatusRejected}

		notifications.EXPECT().
			Append(gomock.Any(), "user-1", notificationModel.TypeRefund, notificationService.MessageRefundRejected).
			Return(nil)

		consumer.handleRefund(kafkaMessage(t, event.RefundID, event))
	})

	t.Run("pending refund is ignored", func(t *testing.T) {
		consumer, _ := newConsumer(t)

		event := RefundEvent{RefundID: "r-1", UserID: "user-1", Status: refundModel.StatusPending}

		consumer.handleRefund(kafkaMessage(t, event.RefundID, event))
	})
}
