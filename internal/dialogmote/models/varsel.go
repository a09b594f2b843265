package models

import (
	"time"

	"github.com/google/uuid"
)

// VarselType is the event a notice informs about.
type VarselType string

const (
	VarselTypeInnkalt     VarselType = "INNKALT"
	VarselTypeNyttTidSted VarselType = "NYTT_TID_STED"
	VarselTypeAvlyst      VarselType = "AVLYST"
	VarselTypeReferat     VarselType = "REFERAT"
)

// VarselTypeFor maps a target status to the notice it produces. LUKKET has no
// notice.
func VarselTypeFor(s Status) (VarselType, bool) {
	switch s {
	case StatusInnkalt:
		return VarselTypeInnkalt, true
	case StatusNyttTidSted:
		return VarselTypeNyttTidSted, true
	case StatusAvlyst:
		return VarselTypeAvlyst, true
	case StatusFerdigstilt:
		return VarselTypeReferat, true
	}
	return "", false
}

// ParticipantType tags the three participant variants.
type ParticipantType string

const (
	ParticipantArbeidstaker ParticipantType = "ARBEIDSTAKER"
	ParticipantArbeidsgiver ParticipantType = "ARBEIDSGIVER"
	ParticipantBehandler    ParticipantType = "BEHANDLER"
)

// DistributionKind selects which send-time policy applies before a notice is
// handed to the distribution service.
type DistributionKind string

const (
	DistributionNone DistributionKind = ""
	// DistributionArbeidstaker is subject to the protected-address check.
	DistributionArbeidstaker DistributionKind = "ARBEIDSTAKER"
	// DistributionArbeidsgiver is subject to the portal-reachability check.
	DistributionArbeidsgiver DistributionKind = "ARBEIDSGIVER"
)

// DistributionChannel records how a notice actually left the system.
type DistributionChannel string

const (
	ChannelDigital    DistributionChannel = "DIGITAL"
	ChannelPortal     DistributionChannel = "PORTAL"
	ChannelPaper      DistributionChannel = "PAPER"
	ChannelSuppressed DistributionChannel = "SUPPRESSED"
)

// JournalpostIDFailed is stored when archival fails and retries are disabled,
// so the row leaves the journalføring backlog without a real archive id.
const JournalpostIDFailed = "failed"

// Intent is the set of delivery channels chosen when the notice was created.
type Intent struct {
	InApp            bool             `json:"in_app"`
	Journalfor       bool             `json:"journalfor"`
	Distribution     DistributionKind `json:"distribution,omitempty"`
	BehandlerMelding bool             `json:"behandler_melding"`
}

// DocumentComponentType is the kind of block in a structured letter.
type DocumentComponentType string

const (
	ComponentHeaderH1  DocumentComponentType = "HEADER_H1"
	ComponentHeaderH2  DocumentComponentType = "HEADER_H2"
	ComponentParagraph DocumentComponentType = "PARAGRAPH"
	ComponentLink      DocumentComponentType = "LINK"
)

// DocumentComponent is one block of the structured letter content that the
// renderer turns into a PDF.
type DocumentComponent struct {
	Type  DocumentComponentType `json:"type"`
	Key   string                `json:"key,omitempty"`
	Title string                `json:"title,omitempty"`
	Texts []string              `json:"texts"`
}

// Varsel is a notice sent to one participant. Document content is immutable;
// only the delivery tracking fields change, and only from unset to set.
type Varsel struct {
	ID              int64
	UUID            uuid.UUID
	CreatedAt       time.Time
	UpdatedAt       time.Time
	MoteID          int64
	ParticipantType ParticipantType
	ParticipantID   int64
	Type            VarselType
	Fritekst        string
	Document        []DocumentComponent
	PdfID           int64
	Intent          Intent

	JournalpostID          *string
	DistributionOrderID    *string
	DistributionChannel    *DistributionChannel
	BehandlerMeldingSentAt *time.Time
	LestAt                 *time.Time
}

// IsJournalfort reports whether archival finished, including the failed
// sentinel.
func (v *Varsel) IsJournalfort() bool {
	return v.JournalpostID != nil
}

// NeedsJournalforing reports whether the journalføring publisher should pick
// the notice up.
func (v *Varsel) NeedsJournalforing() bool {
	return v.Intent.Journalfor && v.JournalpostID == nil
}

// NeedsDistribution reports whether the notice is archived with a real id and
// still waits for a distribution order.
func (v *Varsel) NeedsDistribution() bool {
	return v.Intent.Distribution != DistributionNone &&
		v.JournalpostID != nil &&
		*v.JournalpostID != JournalpostIDFailed &&
		v.DistributionOrderID == nil &&
		v.DistributionChannel == nil
}

func (v *Varsel) NeedsBehandlerMelding() bool {
	return v.Intent.BehandlerMelding && v.BehandlerMeldingSentAt == nil
}

// Answerable reports whether the participant may reply to the notice.
func (v *Varsel) Answerable() bool {
	return v.Type == VarselTypeInnkalt || v.Type == VarselTypeNyttTidSted
}
