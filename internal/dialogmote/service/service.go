package service

import (
	"context"
	"errors"
	"log/slog"

	"github.com/google/uuid"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/trace"

	"isdialogmote/internal/dialogmote/metrics"
	"isdialogmote/internal/dialogmote/models"
	"isdialogmote/internal/dialogmote/ports"
	id "isdialogmote/pkg/domain"
	dErrors "isdialogmote/pkg/domain-errors"
	"isdialogmote/pkg/platform/sentinel"
)

// Service runs the dialogmøte lifecycle. Every transition persists the new
// state, its status-log row and its notices in one transaction; delivery
// happens later through the outbox publishers.
type Service struct {
	store    Store
	renderer ports.Renderer
	persons  ports.PersonRegistry
	inApp    ports.InAppNotifier
	logger   *slog.Logger
	metrics  *metrics.Metrics
	tracer   trace.Tracer
	devMode  bool
}

type Option func(*Service)

func WithLogger(logger *slog.Logger) Option {
	return func(s *Service) {
		s.logger = logger
	}
}

func WithMetrics(m *metrics.Metrics) Option {
	return func(s *Service) {
		s.metrics = m
	}
}

// WithDevMode enables ResetTestdata.
func WithDevMode(enabled bool) Option {
	return func(s *Service) {
		s.devMode = enabled
	}
}

// New constructs a Service.
func New(store Store, renderer ports.Renderer, persons ports.PersonRegistry, inApp ports.InAppNotifier, opts ...Option) *Service {
	s := &Service{
		store:    store,
		renderer: renderer,
		persons:  persons,
		inApp:    inApp,
		logger:   slog.Default(),
		tracer:   otel.Tracer("isdialogmote/dialogmote"),
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Get returns one meeting.
func (s *Service) Get(ctx context.Context, moteUUID uuid.UUID) (*models.Dialogmote, error) {
	m, err := s.store.Get(ctx, moteUUID)
	if err != nil {
		return nil, translate(err, "failed to load dialogmote")
	}
	return m, nil
}

// ListByPerson returns every meeting for the employee, newest first.
func (s *Service) ListByPerson(ctx context.Context, ident id.PersonIdent) ([]*models.Dialogmote, error) {
	motes, err := s.store.ListByPerson(ctx, ident)
	if err != nil {
		return nil, translate(err, "failed to list dialogmoter for person")
	}
	return motes, nil
}

// ListByEnhet returns the meetings assigned to a NAV office, newest first.
func (s *Service) ListByEnhet(ctx context.Context, enhet id.EnhetNr) ([]*models.Dialogmote, error) {
	motes, err := s.store.ListByEnhet(ctx, enhet)
	if err != nil {
		return nil, translate(err, "failed to list dialogmoter for enhet")
	}
	return motes, nil
}

// notifyInApp sends the synchronous best-effort employee notifications. It
// runs after commit; a failure is logged and never undoes the transition.
func (s *Service) notifyInApp(ctx context.Context, m *models.Dialogmote, created []models.Varsel) {
	if s.inApp == nil {
		return
	}
	for _, v := range created {
		if !v.Intent.InApp {
			continue
		}
		err := s.inApp.Notify(ctx, ports.InAppNotification{
			VarselUUID:  v.UUID,
			MoteUUID:    m.UUID,
			PersonIdent: m.Arbeidstaker.PersonIdent,
			Type:        v.Type,
			CreatedAt:   v.CreatedAt,
		})
		if err != nil {
			s.metrics.IncrementInAppFailure()
			s.logger.WarnContext(ctx, "in-app notification failed",
				"mote_uuid", m.UUID,
				"varsel_uuid", v.UUID,
				"error", err,
			)
		}
	}
}

// translate keeps coded errors and maps store sentinels to codes.
func translate(err error, msg string) error {
	var de *dErrors.Error
	switch {
	case errors.As(err, &de):
		return err
	case errors.Is(err, sentinel.ErrNotFound):
		return dErrors.Wrap(err, dErrors.CodeNotFound, "dialogmote not found")
	case errors.Is(err, sentinel.ErrConflict):
		return dErrors.Wrap(err, dErrors.CodeConflict, msg)
	default:
		return dErrors.Wrap(err, dErrors.CodeInternal, msg)
	}
}
