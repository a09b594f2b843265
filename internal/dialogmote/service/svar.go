package service

import (
	"context"
	"strings"

	"github.com/google/uuid"

	"isdialogmote/internal/dialogmote/models"
	dErrors "isdialogmote/pkg/domain-errors"
	"isdialogmote/pkg/requestcontext"
)

// RegisterSvar records a participant's reply to the invitation or the latest
// reschedule. Each notice accepts one reply.
func (s *Service) RegisterSvar(ctx context.Context, varselUUID uuid.UUID, svarType models.SvarType, tekst string) (*models.Dialogmotesvar, error) {
	if !svarType.IsValid() {
		return nil, dErrors.New(dErrors.CodeValidation, "unknown svar type")
	}
	now := requestcontext.Now(ctx)

	current, err := s.store.GetByVarselUUID(ctx, varselUUID)
	if err != nil {
		return nil, translate(err, "failed to load varsel")
	}

	var svar *models.Dialogmotesvar
	err = s.store.RunInTx(ctx, func(ctx context.Context, tx TxStore) error {
		m, err := tx.GetForUpdate(ctx, current.UUID)
		if err != nil {
			return err
		}
		v, ok := m.FindVarsel(varselUUID)
		if !ok {
			return dErrors.New(dErrors.CodeNotFound, "varsel not found")
		}
		if !v.Answerable() || !m.Status.IsOpen() {
			return dErrors.New(dErrors.CodeConflict, "varsel can no longer be answered")
		}
		if latest, ok := m.LatestVarsel(v.ParticipantType); ok && latest.UUID != v.UUID {
			return dErrors.New(dErrors.CodeConflict, "varsel has been replaced by a newer one")
		}
		count, err := tx.CountSvar(ctx, varselUUID)
		if err != nil {
			return err
		}
		if count > 0 {
			return dErrors.New(dErrors.CodeConflict, "varsel is already answered")
		}

		svar = &models.Dialogmotesvar{
			UUID:            uuid.New(),
			CreatedAt:       now,
			MoteID:          m.ID,
			VarselUUID:      varselUUID,
			ParticipantType: v.ParticipantType,
			SvarType:        svarType,
		}
		if t := strings.TrimSpace(tekst); t != "" {
			svar.SvarTekst = &t
		}
		return tx.AddSvar(ctx, svar)
	})
	if err != nil {
		return nil, translate(err, "failed to register svar")
	}
	s.logger.InfoContext(ctx, "dialogmotesvar registered",
		"mote_uuid", current.UUID,
		"varsel_uuid", varselUUID,
		"svar_type", svarType,
	)
	return svar, nil
}

// MarkVarselRead records when the participant opened the notice. Only the
// first read is kept.
func (s *Service) MarkVarselRead(ctx context.Context, varselUUID uuid.UUID) error {
	now := requestcontext.Now(ctx)
	err := s.store.RunInTx(ctx, func(ctx context.Context, tx TxStore) error {
		_, err := tx.MarkVarselLest(ctx, varselUUID, now)
		return err
	})
	if err != nil {
		return translate(err, "failed to mark varsel read")
	}
	return nil
}
