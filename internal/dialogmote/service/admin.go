package service

import (
	"context"
	"slices"

	"github.com/google/uuid"

	id "isdialogmote/pkg/domain"
	dErrors "isdialogmote/pkg/domain-errors"
	"isdialogmote/pkg/requestcontext"
)

// ChangeIdent moves every meeting from an old employee ident to a new one
// after an identity merge. The person registry must already list the old
// ident as belonging to the new one.
func (s *Service) ChangeIdent(ctx context.Context, from, to id.PersonIdent) (int, error) {
	if from == to {
		return 0, dErrors.New(dErrors.CodeValidation, "idents are equal")
	}
	known, err := s.persons.Identities(ctx, to)
	if err != nil {
		return 0, dErrors.Wrap(err, dErrors.CodeExternal, "failed to look up identities")
	}
	if !slices.Contains(known, from) {
		return 0, dErrors.New(dErrors.CodeConflict, "person registry has not confirmed the identity merge")
	}

	var updated int
	err = s.store.RunInTx(ctx, func(ctx context.Context, tx TxStore) error {
		n, err := tx.UpdatePersonIdent(ctx, from, to)
		updated = n
		return err
	})
	if err != nil {
		return 0, translate(err, "failed to change ident")
	}
	s.logger.InfoContext(ctx, "arbeidstaker ident changed",
		"from", from.Masked(),
		"to", to.Masked(),
		"updated", updated,
	)
	return updated, nil
}

// TildelVeileder assigns a case officer to the given meetings.
func (s *Service) TildelVeileder(ctx context.Context, moteUUIDs []uuid.UUID, veileder id.NavIdent) error {
	if len(moteUUIDs) == 0 {
		return dErrors.New(dErrors.CodeValidation, "at least one dialogmote is required")
	}
	now := requestcontext.Now(ctx)
	err := s.store.RunInTx(ctx, func(ctx context.Context, tx TxStore) error {
		for _, u := range moteUUIDs {
			m, err := tx.GetForUpdate(ctx, u)
			if err != nil {
				return err
			}
			if err := tx.UpdateVeileder(ctx, m.ID, veileder, now); err != nil {
				return err
			}
		}
		return nil
	})
	if err != nil {
		return translate(err, "failed to assign veileder")
	}
	return nil
}

// ResetTestdata deletes every meeting of a person. Only available in dev.
func (s *Service) ResetTestdata(ctx context.Context, ident id.PersonIdent) (int, error) {
	if !s.devMode {
		return 0, dErrors.New(dErrors.CodeForbidden, "test data reset is disabled")
	}
	var deleted int
	err := s.store.RunInTx(ctx, func(ctx context.Context, tx TxStore) error {
		n, err := tx.DeleteByPerson(ctx, ident)
		deleted = n
		return err
	})
	if err != nil {
		return 0, translate(err, "failed to reset test data")
	}
	return deleted, nil
}
