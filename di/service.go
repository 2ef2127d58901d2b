package di

import (
	"courtside/infras/scheduler"
	bookingService "courtside/internal/domains/booking/service"
	"courtside/internal/events"
	"courtside/transport/http"
)

// Service bundles everything main has to start: the HTTP server, the cron
// scheduler, the event consumer, and the booking service whose sweep the
// scheduler runs.
type Service struct {
	HTTP      *http.HTTP
	Scheduler scheduler.Scheduler
	Consumer  events.Consumer
	Bookings  bookingService.Booking
}
