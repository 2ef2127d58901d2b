package router

import (
	"github.com/go-chi/chi/v5"

	"courtside/internal/handlers/booking"
	"courtside/internal/handlers/court"
	"courtside/internal/handlers/notification"
	"courtside/internal/handlers/refund"
	"courtside/internal/handlers/schedule"
)

type DomainHandlers struct {
	Court        court.Handler
	Schedule     schedule.Handler
	Booking      booking.Handler
	Refund       refund.Handler
	Notification notification.Handler
}

type Router struct {
	DomainHandlers DomainHandlers
}

func (r *Router) SetupRoutes(router chi.Router) {
	router.Route("/v1", func(routerGroup chi.Router) {
		r.DomainHandlers.Court.Router(routerGroup)
		r.DomainHandlers.Schedule.Router(routerGroup)
		r.DomainHandlers.Booking.Router(routerGroup)
		r.DomainHandlers.Refund.Router(routerGroup)
		r.DomainHandlers.Notification.Router(routerGroup)
	})
}

func New(domainHandlers DomainHandlers) Router {
	return Router{
		DomainHandlers: domainHandlers,
	}
}
