package service

import (
	"context"
	"time"

	"github.com/google/uuid"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"

	"isdialogmote/internal/dialogmote/dispatch"
	"isdialogmote/internal/dialogmote/models"
	"isdialogmote/internal/dialogmote/ports"
	dErrors "isdialogmote/pkg/domain-errors"
	"isdialogmote/pkg/requestcontext"
)

// Create books a new meeting. It starts INNKALT and every present participant
// gets an invitation.
func (s *Service) Create(ctx context.Context, req CreateRequest) (*models.Dialogmote, error) {
	ctx, span := s.tracer.Start(ctx, "dialogmote.create")
	defer span.End()
	start := time.Now()
	now := requestcontext.Now(ctx)
	actor := requestcontext.NavIdent(ctx)

	if err := req.validate(); err != nil {
		return nil, err
	}
	tidSted, err := models.NewTidSted(req.TidSted.Sted, req.TidSted.Tid, req.TidSted.VideoLink, now)
	if err != nil {
		return nil, asValidation(err)
	}
	var behandler *models.Behandler
	if req.Behandler != nil {
		behandler = &models.Behandler{
			BehandlerRef: req.Behandler.BehandlerRef,
			Navn:         req.Behandler.Navn,
			Kontor:       req.Behandler.Kontor,
			PersonIdent:  req.Behandler.PersonIdent,
		}
	}
	mote, err := models.NewDialogmote(
		actor,
		req.Enhet,
		models.Arbeidstaker{PersonIdent: req.Arbeidstaker.PersonIdent},
		models.Arbeidsgiver{
			Virksomhetsnummer: req.Arbeidsgiver.Virksomhetsnummer,
			LederNavn:         req.Arbeidsgiver.LederNavn,
			LederEpost:        req.Arbeidsgiver.LederEpost,
		},
		behandler,
		tidSted,
		now,
	)
	if err != nil {
		return nil, asValidation(err)
	}

	letters := req.letters()
	pdfs, err := s.render(ctx, mote, models.VarselTypeInnkalt, letters, now)
	if err != nil {
		span.SetStatus(codes.Error, err.Error())
		return nil, err
	}

	var created []models.Varsel
	err = s.store.RunInTx(ctx, func(ctx context.Context, tx TxStore) error {
		if err := tx.Create(ctx, mote); err != nil {
			return err
		}
		if err := s.logStatus(ctx, tx, mote, models.StatusInnkalt, now); err != nil {
			return err
		}
		var txErr error
		created, txErr = s.createVarsler(ctx, tx, mote, models.VarselTypeInnkalt, letters, pdfs, now)
		return txErr
	})
	if err != nil {
		span.SetStatus(codes.Error, err.Error())
		return nil, translate(err, "failed to create dialogmote")
	}

	span.SetAttributes(attribute.String("mote_uuid", mote.UUID.String()))
	s.completed(ctx, mote, models.StatusInnkalt, created, start)
	return mote, nil
}

// NyttTidSted reschedules an open meeting. Only arbeidstaker and arbeidsgiver
// are notified.
func (s *Service) NyttTidSted(ctx context.Context, moteUUID uuid.UUID, req NyttTidStedRequest) (*models.Dialogmote, error) {
	now := requestcontext.Now(ctx)
	tidSted, err := models.NewTidSted(req.TidSted.Sted, req.TidSted.Tid, req.TidSted.VideoLink, now)
	if err != nil {
		return nil, asValidation(err)
	}
	return s.transition(ctx, moteUUID, transition{
		next:    models.StatusNyttTidSted,
		letters: req.letters(),
		apply: func(ctx context.Context, tx TxStore, m *models.Dialogmote) error {
			m.ApplyTidSted(tidSted, now)
			return tx.AddTidSted(ctx, &m.TidSted[len(m.TidSted)-1])
		},
	})
}

// Avlys cancels an open meeting and notifies every present participant.
func (s *Service) Avlys(ctx context.Context, moteUUID uuid.UUID, req AvlysRequest) (*models.Dialogmote, error) {
	return s.transition(ctx, moteUUID, transition{
		next:    models.StatusAvlyst,
		letters: req.letters(),
		precheck: func(m *models.Dialogmote) error {
			if m.Behandler == nil && req.Behandler != nil {
				return dErrors.New(dErrors.CodeValidation, "dialogmote has no behandler to notify")
			}
			return nil
		},
	})
}

// Ferdigstill finalizes the minutes and closes the meeting.
func (s *Service) Ferdigstill(ctx context.Context, moteUUID uuid.UUID, req ReferatInput) (*models.Dialogmote, error) {
	if err := req.validateFinal(); err != nil {
		return nil, err
	}
	now := requestcontext.Now(ctx)
	return s.transition(ctx, moteUUID, transition{
		next:    models.StatusFerdigstilt,
		letters: req.letters(),
		prepare: func(m *models.Dialogmote) {
			if m.Behandler != nil {
				m.Behandler.Deltatt = req.BehandlerDeltatt
				m.Behandler.MottarReferat = req.BehandlerMottarReferat
			}
		},
		apply: func(ctx context.Context, tx TxStore, m *models.Dialogmote) error {
			if m.Behandler != nil {
				m.Behandler.Deltatt = req.BehandlerDeltatt
				m.Behandler.MottarReferat = req.BehandlerMottarReferat
				if err := tx.UpdateBehandler(ctx, m.Behandler); err != nil {
					return err
				}
			}
			referat := req.toReferat(m.ID, now)
			referat.Ferdigstilt = true
			if m.Referat != nil {
				referat.ID = m.Referat.ID
				referat.UUID = m.Referat.UUID
				referat.CreatedAt = m.Referat.CreatedAt
			} else {
				referat.UUID = uuid.New()
			}
			m.Referat = &referat
			return nil
		},
		afterVarsler: func(ctx context.Context, tx TxStore, m *models.Dialogmote, created []models.Varsel) error {
			for _, v := range created {
				if v.ParticipantType == models.ParticipantArbeidstaker {
					pdfID := v.PdfID
					m.Referat.PdfID = &pdfID
				}
			}
			return tx.SaveReferat(ctx, m.Referat)
		},
	})
}

// Lukk closes an open meeting administratively. Nobody is notified.
func (s *Service) Lukk(ctx context.Context, moteUUID uuid.UUID) (*models.Dialogmote, error) {
	return s.transition(ctx, moteUUID, transition{next: models.StatusLukket})
}

type transition struct {
	next    models.Status
	letters map[models.ParticipantType]Letter
	// precheck validates the request against the current meeting.
	precheck func(m *models.Dialogmote) error
	// prepare adjusts the pre-transaction copy so rendering sees the same
	// recipients the transaction will.
	prepare func(m *models.Dialogmote)
	apply   func(ctx context.Context, tx TxStore, m *models.Dialogmote) error
	// afterVarsler runs inside the transaction once the notices exist.
	afterVarsler func(ctx context.Context, tx TxStore, m *models.Dialogmote, created []models.Varsel) error
}

func (s *Service) transition(ctx context.Context, moteUUID uuid.UUID, tr transition) (*models.Dialogmote, error) {
	ctx, span := s.tracer.Start(ctx, "dialogmote.transition")
	defer span.End()
	span.SetAttributes(
		attribute.String("mote_uuid", moteUUID.String()),
		attribute.String("status", string(tr.next)),
	)
	start := time.Now()
	now := requestcontext.Now(ctx)

	current, err := s.store.Get(ctx, moteUUID)
	if err != nil {
		return nil, translate(err, "failed to load dialogmote")
	}
	// fail fast before rendering; the transaction checks again under lock
	if err := current.CanTransitionTo(tr.next); err != nil {
		return nil, err
	}
	if tr.precheck != nil {
		if err := tr.precheck(current); err != nil {
			return nil, err
		}
	}
	if tr.prepare != nil {
		tr.prepare(current)
	}

	vt, notifies := models.VarselTypeFor(tr.next)
	var pdfs map[models.ParticipantType][]byte
	if notifies {
		pdfs, err = s.render(ctx, current, vt, tr.letters, now)
		if err != nil {
			span.SetStatus(codes.Error, err.Error())
			return nil, err
		}
	}

	var (
		result  *models.Dialogmote
		created []models.Varsel
	)
	err = s.store.RunInTx(ctx, func(ctx context.Context, tx TxStore) error {
		m, err := tx.GetForUpdate(ctx, moteUUID)
		if err != nil {
			return err
		}
		if err := m.CanTransitionTo(tr.next); err != nil {
			return err
		}
		if tr.apply != nil {
			if err := tr.apply(ctx, tx, m); err != nil {
				return err
			}
		}
		m.ApplyStatus(tr.next, now)
		if err := tx.UpdateStatus(ctx, m.ID, tr.next, now); err != nil {
			return err
		}
		if err := s.logStatus(ctx, tx, m, tr.next, now); err != nil {
			return err
		}
		if notifies {
			created, err = s.createVarsler(ctx, tx, m, vt, tr.letters, pdfs, now)
			if err != nil {
				return err
			}
		}
		if tr.afterVarsler != nil {
			if err := tr.afterVarsler(ctx, tx, m, created); err != nil {
				return err
			}
		}
		result = m
		return nil
	})
	if err != nil {
		span.SetStatus(codes.Error, err.Error())
		return nil, translate(err, "failed to update dialogmote")
	}

	s.completed(ctx, result, tr.next, created, start)
	return result, nil
}

// render produces one PDF per recipient before the transaction starts. Any
// failure aborts the transition.
func (s *Service) render(
	ctx context.Context,
	m *models.Dialogmote,
	vt models.VarselType,
	letters map[models.ParticipantType]Letter,
	now time.Time,
) (map[models.ParticipantType][]byte, error) {
	recipients := dispatch.Recipients(m, vt)
	for _, pt := range recipients {
		letter, ok := letters[pt]
		if !ok {
			return nil, dErrors.New(dErrors.CodeValidation, "missing document for "+string(pt))
		}
		if err := letter.validate(pt); err != nil {
			return nil, err
		}
	}
	pdfs := make(map[models.ParticipantType][]byte)
	for _, pt := range recipients {
		pdf, err := s.renderer.Render(ctx, ports.RenderRequest{
			Mottaker:  pt,
			Type:      vt,
			Document:  letters[pt].Document,
			CreatedAt: now,
		})
		if err != nil {
			return nil, dErrors.Wrap(err, dErrors.CodeExternal, "failed to render document")
		}
		pdfs[pt] = pdf
	}
	return pdfs, nil
}

func (s *Service) createVarsler(
	ctx context.Context,
	tx TxStore,
	m *models.Dialogmote,
	vt models.VarselType,
	letters map[models.ParticipantType]Letter,
	pdfs map[models.ParticipantType][]byte,
	now time.Time,
) ([]models.Varsel, error) {
	var created []models.Varsel
	for _, pt := range dispatch.Recipients(m, vt) {
		participant := m.Participant(pt)
		pdfID, err := tx.AddPdf(ctx, pdfs[pt], now)
		if err != nil {
			return nil, err
		}
		v := models.Varsel{
			UUID:            uuid.New(),
			CreatedAt:       now,
			UpdatedAt:       now,
			MoteID:          m.ID,
			ParticipantType: pt,
			ParticipantID:   participant.ParticipantID(),
			Type:            vt,
			Fritekst:        letters[pt].Fritekst,
			Document:        letters[pt].Document,
			PdfID:           pdfID,
			Intent:          dispatch.Select(pt, vt),
		}
		if err := tx.AddVarsel(ctx, &v); err != nil {
			return nil, err
		}
		appendVarsel(m, v)
		created = append(created, v)
	}
	return created, nil
}

func appendVarsel(m *models.Dialogmote, v models.Varsel) {
	switch v.ParticipantType {
	case models.ParticipantArbeidstaker:
		m.Arbeidstaker.Varsler = append(m.Arbeidstaker.Varsler, v)
	case models.ParticipantArbeidsgiver:
		m.Arbeidsgiver.Varsler = append(m.Arbeidsgiver.Varsler, v)
	case models.ParticipantBehandler:
		m.Behandler.Varsler = append(m.Behandler.Varsler, v)
	}
}

func (s *Service) logStatus(ctx context.Context, tx TxStore, m *models.Dialogmote, status models.Status, now time.Time) error {
	return tx.AddStatusEndring(ctx, &models.StatusEndring{
		UUID:          uuid.New(),
		CreatedAt:     now,
		MoteID:        m.ID,
		Status:        status,
		OpprettetAv:   requestcontext.NavIdent(ctx),
		Motetidspunkt: m.LatestTidSted().Tid,
	})
}

func (s *Service) completed(ctx context.Context, m *models.Dialogmote, status models.Status, created []models.Varsel, start time.Time) {
	s.metrics.IncrementTransition(string(status))
	s.metrics.ObserveTransition(string(status), time.Since(start))
	for _, v := range created {
		s.metrics.IncrementVarselCreated(string(v.Type), string(v.ParticipantType))
	}
	s.logger.InfoContext(ctx, "dialogmote status changed",
		"mote_uuid", m.UUID,
		"status", status,
		"varsler", len(created),
	)
	s.notifyInApp(ctx, m, created)
}

// asValidation turns model invariant violations into request validation
// errors for callers.
func asValidation(err error) error {
	if dErrors.HasCode(err, dErrors.CodeInvariantViolation) {
		return dErrors.New(dErrors.CodeValidation, err.Error())
	}
	return err
}
