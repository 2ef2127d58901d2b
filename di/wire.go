//go:build wireinject
// +build wireinject

package di

import (
	"github.com/google/wire"

	"courtside/config"
	"courtside/infras/jwt"
	"courtside/infras/kafka"
	"courtside/infras/otel"
	"courtside/infras/postgres"
	"courtside/infras/redis"
	"courtside/infras/s3"
	"courtside/infras/scheduler"
	"courtside/internal/events"
	"courtside/permissions"
	"courtside/shared/cache"
	"courtside/transport/http"
	"courtside/transport/http/middleware"
	"courtside/transport/http/router"

	bookingRepository "courtside/internal/domains/booking/repository"
	bookingService "courtside/internal/domains/booking/service"
	courtRepository "courtside/internal/domains/court/repository"
	courtService "courtside/internal/domains/court/service"
	notificationRepository "courtside/internal/domains/notification/repository"
	notificationService "courtside/internal/domains/notification/service"
	refundRepository "courtside/internal/domains/refund/repository"
	refundService "courtside/internal/domains/refund/service"
	scheduleRepository "courtside/internal/domains/schedule/repository"
	scheduleService "courtside/internal/domains/schedule/service"

	bookingHandler "courtside/internal/handlers/booking"
	courtHandler "courtside/internal/handlers/court"
	notificationHandler "courtside/internal/handlers/notification"
	refundHandler "courtside/internal/handlers/refund"
	scheduleHandler "courtside/internal/handlers/schedule"
)

var configurations = wire.NewSet(
	config.Get,
	permissions.Get,
)

var infrastructures = wire.NewSet(
	postgres.New,
	otel.New,
	redis.New,
	jwt.New,
	s3.New,
	kafka.New,
	scheduler.New,
)

var middlewares = wire.NewSet(
	middleware.NewAppMiddleware,
	middleware.NewAuthRoleMiddleware,
)

var sharedHelpers = wire.NewSet(
	cache.NewRedisCache,
)

var eventing = wire.NewSet(
	events.NewPublisher,
	events.NewConsumer,
)

var courtDomain = wire.NewSet(
	courtRepository.New,
	courtService.New,
)

var scheduleDomain = wire.NewSet(
	scheduleRepository.New,
	scheduleService.New,
)

var bookingDomain = wire.NewSet(
	bookingRepository.New,
	bookingService.New,
)

var refundDomain = wire.NewSet(
	refundRepository.New,
	refundService.New,
)

var notificationDomain = wire.NewSet(
	notificationRepository.New,
	notificationService.New,
)

var domains = wire.NewSet(
	courtDomain,
	scheduleDomain,
	bookingDomain,
	refundDomain,
	notificationDomain,
)

var routing = wire.NewSet(
	wire.Struct(new(router.DomainHandlers), "*"),
	courtHandler.New,
	scheduleHandler.New,
	bookingHandler.New,
	refundHandler.New,
	notificationHandler.New,
	router.New,
)

func InitializeService() (*Service, error) {
	wire.Build(
		configurations,
		infrastructures,
		middlewares,
		sharedHelpers,
		eventing,
		domains,
		routing,
		http.New,
		wire.Struct(new(Service), "*"),
	)

	return &Service{}, nil
}
