package handler

import (
	"net/http"

	"github.com/rs/zerolog/log"

	"courtside/config"
	"courtside/di"
	"courtside/shared/logger"
)

func Handler(w http.ResponseWriter, r *http.Request) {
	r.RequestURI = r.URL.String()

	cfg := config.Get()

	logger.InitLogger()

	logger.SetLogLevel(cfg)

	svc, err := di.InitializeService()
	if err != nil {
		log.Error().Err(err).Msg("[api] failed to initialize service")
		http.Error(w, "service unavailable", http.StatusServiceUnavailable)
		return
	}

	svc.HTTP.Handler().ServeHTTP(w, r)
}
