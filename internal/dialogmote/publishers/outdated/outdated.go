// Package outdated closes open meetings whose time passed long ago without
// being finalized or cancelled.
package outdated

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/google/uuid"

	"isdialogmote/internal/cronjob"
	"isdialogmote/internal/dialogmote/models"
	"isdialogmote/internal/dialogmote/publishers"
	id "isdialogmote/pkg/domain"
	"isdialogmote/pkg/requestcontext"
)

const (
	JobName           = "outdated-dialogmoter"
	DefaultCutoffDays = 180
)

type Store interface {
	ListOutdated(ctx context.Context, cutoff time.Time, include []uuid.UUID, limit int) ([]uuid.UUID, error)
}

// Closer drives the LUKKET transition. service.Service implements it.
type Closer interface {
	Lukk(ctx context.Context, moteUUID uuid.UUID) (*models.Dialogmote, error)
}

type Sweeper struct {
	store      Store
	closer     Closer
	cutoffDays int
	include    []uuid.UUID
	batchSize  int
	logger     *slog.Logger
	now        func() time.Time
}

type Option func(*Sweeper)

func WithLogger(logger *slog.Logger) Option {
	return func(s *Sweeper) {
		s.logger = logger
	}
}

func WithBatchSize(n int) Option {
	return func(s *Sweeper) {
		if n > 0 {
			s.batchSize = n
		}
	}
}

// WithCutoffDays sets how many days after the latest scheduled time an open
// meeting is considered outdated.
func WithCutoffDays(days int) Option {
	return func(s *Sweeper) {
		if days > 0 {
			s.cutoffDays = days
		}
	}
}

// WithInclude adds meetings to close regardless of their time.
func WithInclude(moteUUIDs ...uuid.UUID) Option {
	return func(s *Sweeper) {
		s.include = append(s.include, moteUUIDs...)
	}
}

func WithClock(now func() time.Time) Option {
	return func(s *Sweeper) {
		s.now = now
	}
}

func New(store Store, closer Closer, opts ...Option) *Sweeper {
	s := &Sweeper{
		store:      store,
		closer:     closer,
		cutoffDays: DefaultCutoffDays,
		batchSize:  publishers.DefaultBatchSize,
		logger:     slog.Default(),
		now:        time.Now,
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

func (s *Sweeper) Name() string { return JobName }

func (s *Sweeper) Run(ctx context.Context) (cronjob.Result, error) {
	now := s.now()
	moteUUIDs, err := s.store.ListOutdated(ctx, now.AddDate(0, 0, -s.cutoffDays), s.include, s.batchSize)
	if err != nil {
		return cronjob.Result{}, fmt.Errorf("list outdated dialogmoter: %w", err)
	}
	ctx = requestcontext.WithTime(requestcontext.WithNavIdent(ctx, id.SystemIdent), now)
	return publishers.Process(ctx, moteUUIDs, s.lukk, func(moteUUID uuid.UUID, err error) {
		s.logger.ErrorContext(ctx, "closing outdated dialogmote failed",
			"mote_uuid", moteUUID,
			"error", err,
		)
	}), nil
}

func (s *Sweeper) lukk(ctx context.Context, moteUUID uuid.UUID) error {
	if _, err := s.closer.Lukk(ctx, moteUUID); err != nil {
		return err
	}
	s.logger.InfoContext(ctx, "closed outdated dialogmote", "mote_uuid", moteUUID)
	return nil
}
