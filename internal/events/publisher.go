package events

//go:generate go run go.uber.org/mock/mockgen -source=./publisher.go -destination=./mocks/publisher_mock.go -package=mocks

import (
	"context"

	"github.com/rs/zerolog/log"

	"courtside/config"
	"courtside/infras/kafka"
)

// Publisher emits domain events. Publishing is best effort: a broker outage
// must never fail the booking transaction that triggered the event, so
// Publish only logs delivery errors.
type Publisher interface {
	Publish(ctx context.Context, topic, key string, value any)
}

type publisherImpl struct {
	client kafka.Client
	cfg    *config.Config
}

func NewPublisher(client kafka.Client, cfg *config.Config) Publisher {
	return &publisherImpl{
		client: client,
		cfg:    cfg,
	}
}

func (p *publisherImpl) Publish(ctx context.Context, topic, key string, value any) {
	if !p.cfg.Kafka.Enable {
		return
	}

	go func() {
		c := context.WithoutCancel(ctx)

		err := p.client.SendMessages(c, topic, kafka.Message{Key: key, Value: value})
		if err != nil {
			log.Error().Err(err).Str("topic", topic).Str("key", key).Msg("failed to publish event")

			return
		}

		log.Info().Str("topic", topic).Str("key", key).Msg("event published")
	}()
}
