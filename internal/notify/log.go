package notify

import (
	"context"
	"log"
)

// LogSink writes events to the process log. It stands in for the broker in
// local runs and tests.
type LogSink struct {
	logger *log.Logger
}

func NewLogSink(logger *log.Logger) *LogSink {
	if logger == nil {
		logger = log.Default()
	}
	return &LogSink{logger: logger}
}

func (s *LogSink) Notify(_ context.Context, ev Event) {
	s.logger.Printf(
		"event type=%s reservation=%s code=%s venue=%s status=%s",
		ev.Type, ev.ReservationID, ev.Code, ev.VenueID, ev.Status,
	)
}
