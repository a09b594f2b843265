package service

import (
	"context"
	"time"

	"github.com/google/uuid"

	"isdialogmote/internal/dialogmote/models"
	id "isdialogmote/pkg/domain"
)

// Store is the read side plus the transaction entry point. Reads outside
// RunInTx never lock.
type Store interface {
	RunInTx(ctx context.Context, fn func(ctx context.Context, tx TxStore) error) error
	Get(ctx context.Context, moteUUID uuid.UUID) (*models.Dialogmote, error)
	GetByVarselUUID(ctx context.Context, varselUUID uuid.UUID) (*models.Dialogmote, error)
	ListByPerson(ctx context.Context, ident id.PersonIdent) ([]*models.Dialogmote, error)
	ListByEnhet(ctx context.Context, enhet id.EnhetNr) ([]*models.Dialogmote, error)
}

// TxStore writes inside one transaction. Every method must be called with the
// ctx handed to the RunInTx callback.
type TxStore interface {
	Create(ctx context.Context, m *models.Dialogmote) error
	GetForUpdate(ctx context.Context, moteUUID uuid.UUID) (*models.Dialogmote, error)
	AddTidSted(ctx context.Context, ts *models.TidSted) error
	UpdateStatus(ctx context.Context, moteID int64, status models.Status, now time.Time) error
	UpdateVeileder(ctx context.Context, moteID int64, veileder id.NavIdent, now time.Time) error
	UpdateBehandler(ctx context.Context, b *models.Behandler) error
	AddStatusEndring(ctx context.Context, se *models.StatusEndring) error
	AddPdf(ctx context.Context, pdf []byte, now time.Time) (int64, error)
	AddVarsel(ctx context.Context, v *models.Varsel) error
	SaveReferat(ctx context.Context, r *models.Referat) error
	AddSvar(ctx context.Context, s *models.Dialogmotesvar) error
	CountSvar(ctx context.Context, varselUUID uuid.UUID) (int, error)
	MarkVarselLest(ctx context.Context, varselUUID uuid.UUID, at time.Time) (bool, error)
	UpdatePersonIdent(ctx context.Context, from, to id.PersonIdent) (int, error)
	DeleteByPerson(ctx context.Context, ident id.PersonIdent) (int, error)
}
