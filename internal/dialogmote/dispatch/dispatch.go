// Package dispatch decides who is notified of a lifecycle event and over
// which channels. Creation-time decisions are pure (Recipients, Select);
// send-time decisions that depend on registries go through Router.
package dispatch

import (
	"context"
	"fmt"

	"isdialogmote/internal/dialogmote/models"
	"isdialogmote/internal/dialogmote/ports"
)

// Recipients returns the participants that receive a notice of type vt.
// Behandler is never told about a reschedule and only gets the minutes when
// flagged to receive them.
func Recipients(m *models.Dialogmote, vt models.VarselType) []models.ParticipantType {
	recipients := []models.ParticipantType{models.ParticipantArbeidstaker, models.ParticipantArbeidsgiver}
	if m.Behandler == nil {
		return recipients
	}
	switch vt {
	case models.VarselTypeInnkalt, models.VarselTypeAvlyst:
		recipients = append(recipients, models.ParticipantBehandler)
	case models.VarselTypeReferat:
		if m.Behandler.MottarReferat {
			recipients = append(recipients, models.ParticipantBehandler)
		}
	}
	return recipients
}

// Select returns the delivery intent for a notice to one participant.
func Select(pt models.ParticipantType, vt models.VarselType) models.Intent {
	switch pt {
	case models.ParticipantArbeidstaker:
		return models.Intent{
			InApp:        true,
			Journalfor:   true,
			Distribution: models.DistributionArbeidstaker,
		}
	case models.ParticipantArbeidsgiver:
		return models.Intent{
			Journalfor:   true,
			Distribution: models.DistributionArbeidsgiver,
		}
	case models.ParticipantBehandler:
		// the provider's copy of the minutes has its own archival lifecycle
		return models.Intent{
			Journalfor:       vt == models.VarselTypeReferat,
			BehandlerMelding: true,
		}
	}
	return models.Intent{}
}

// Router applies the send-time half of the channel policy.
type Router struct {
	persons ports.PersonRegistry
	portal  ports.PortalChecker
}

func NewRouter(persons ports.PersonRegistry, portal ports.PortalChecker) *Router {
	return &Router{persons: persons, portal: portal}
}

// ResolveChannel picks the distribution channel for an archived notice.
// Protected persons get no ordinary distribution. Employers that cannot be
// reached through the portal get paper mail.
func (r *Router) ResolveChannel(ctx context.Context, d models.VarselDelivery) (models.DistributionChannel, error) {
	switch d.Varsel.Intent.Distribution {
	case models.DistributionArbeidstaker:
		protected, err := r.persons.IsProtected(ctx, d.PersonIdent)
		if err != nil {
			return "", fmt.Errorf("check address protection: %w", err)
		}
		if protected {
			return models.ChannelSuppressed, nil
		}
		return models.ChannelDigital, nil
	case models.DistributionArbeidsgiver:
		reachable, err := r.portal.IsReachable(ctx, d.Virksomhetsnummer, d.PersonIdent)
		if err != nil {
			return "", fmt.Errorf("check portal reachability: %w", err)
		}
		if reachable {
			return models.ChannelPortal, nil
		}
		return models.ChannelPaper, nil
	}
	return "", fmt.Errorf("notice %s has no distribution intent", d.Varsel.UUID)
}
