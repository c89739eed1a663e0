package service

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/rs/zerolog"

	"github.com/leshachaplin/convgate/internal/domain"
	"github.com/leshachaplin/convgate/internal/metrics"
	"github.com/leshachaplin/convgate/internal/registry"
)

// Dispatcher is the sink for canonical events. One attempt per call; any
// failure comes back opaque and is not retried here.
type Dispatcher interface {
	Send(ctx context.Context, event domain.CanonicalEvent) error
}

// Processor is what the HTTP layer consumes.
type Processor interface {
	Process(
		ctx context.Context,
		override string,
		extracted domain.ExtractedVariables,
		conn domain.ConnectionContext,
	) (domain.CanonicalEvent, error)
}

type Service struct {
	registry   *registry.Registry
	dispatcher Dispatcher
	builder    *Builder
	logger     zerolog.Logger
}

func New(reg *registry.Registry, dispatcher Dispatcher, builder *Builder, logger zerolog.Logger) *Service {
	return &Service{
		registry:   reg,
		dispatcher: dispatcher,
		builder:    builder,
		logger:     logger,
	}
}

// Process runs one conversion attempt end to end: resolve the event key,
// look it up, build the canonical event, dispatch it. Exactly one extraction
// has already happened at the boundary; exactly one dispatch happens here.
func (s *Service) Process(
	ctx context.Context,
	override string,
	extracted domain.ExtractedVariables,
	conn domain.ConnectionContext,
) (domain.CanonicalEvent, error) {
	metrics.EventsReceived.WithLabelValues(string(extracted.Source)).Inc()

	key := ResolveKey(override, extracted)
	def, ok := s.registry.Lookup(key)
	if key == "" || !ok {
		metrics.EventsRejected.WithLabelValues("unmapped_key").Inc()
		return domain.CanonicalEvent{}, fmt.Errorf("%w: %q", domain.ErrUnmappedEventKey, key)
	}

	event := s.builder.Build(def, extracted, conn)

	started := time.Now()
	err := s.dispatcher.Send(ctx, event)
	metrics.DispatchDuration.Observe(time.Since(started).Seconds())
	if err != nil {
		metrics.EventsRejected.WithLabelValues(rejectReason(err)).Inc()
		return domain.CanonicalEvent{}, err
	}

	metrics.EventsDispatched.WithLabelValues(event.Name).Inc()
	s.logger.Info().
		Str("event_name", event.Name).
		Str("event_id", event.EventID).
		Bool("has_ip", event.Identity.ClientIP != "").
		Bool("has_ua", event.Identity.ClientUserAgent != "").
		Bool("has_lead_id", event.Identity.LeadID != "").
		Msg("event dispatched")

	return event, nil
}

func rejectReason(err error) string {
	switch {
	case errors.Is(err, domain.ErrMissingCredentials):
		return "missing_credentials"
	case errors.Is(err, domain.ErrSink):
		return "sink_error"
	default:
		return "internal"
	}
}
