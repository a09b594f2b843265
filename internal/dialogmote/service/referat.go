package service

import (
	"context"

	"github.com/google/uuid"

	"isdialogmote/internal/dialogmote/models"
	dErrors "isdialogmote/pkg/domain-errors"
	"isdialogmote/pkg/requestcontext"
)

// SaveReferatDraft stores unfinished minutes on an open meeting. The status
// does not change and nobody is notified.
func (s *Service) SaveReferatDraft(ctx context.Context, moteUUID uuid.UUID, req ReferatInput) (*models.Referat, error) {
	now := requestcontext.Now(ctx)
	var saved *models.Referat
	err := s.store.RunInTx(ctx, func(ctx context.Context, tx TxStore) error {
		m, err := tx.GetForUpdate(ctx, moteUUID)
		if err != nil {
			return err
		}
		if !m.Status.IsOpen() {
			return dErrors.New(dErrors.CodeConflict, "referat can only be drafted while the dialogmote is open")
		}
		referat := req.toReferat(m.ID, now)
		if m.Referat != nil {
			referat.ID = m.Referat.ID
			referat.UUID = m.Referat.UUID
			referat.CreatedAt = m.Referat.CreatedAt
		} else {
			referat.UUID = uuid.New()
		}
		if m.Behandler != nil {
			m.Behandler.Deltatt = req.BehandlerDeltatt
			m.Behandler.MottarReferat = req.BehandlerMottarReferat
			if err := tx.UpdateBehandler(ctx, m.Behandler); err != nil {
				return err
			}
		}
		if err := tx.SaveReferat(ctx, &referat); err != nil {
			return err
		}
		saved = &referat
		return nil
	})
	if err != nil {
		return nil, translate(err, "failed to save referat draft")
	}
	return saved, nil
}
