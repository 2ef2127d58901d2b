package main

import (
	"context"

	"github.com/rs/zerolog/log"

	"courtside/config"
	"courtside/di"
	"courtside/shared/logger"
)

func main() {
	cfg := config.Get()

	logger.InitLogger()

	logger.SetLogLevel(cfg)

	svc, err := di.InitializeService()
	if err != nil {
		log.Fatal().Err(err).Msg("[main] failed to initialize service")
	}

	if err := svc.Scheduler.RegisterSweep(svc.Bookings.ExpireStaleHolds); err != nil {
		log.Fatal().Err(err).Msg("[main] failed to register expiry sweep")
	}
	svc.Scheduler.Start()
	defer func() {
		if err := svc.Scheduler.Stop(); err != nil {
			log.Error().Err(err).Msg("[main] failed to stop scheduler")
		}
	}()

	svc.Consumer.Start(context.Background())

	svc.HTTP.Serve()
}
