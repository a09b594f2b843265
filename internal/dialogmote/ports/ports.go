// Package ports declares the external collaborators the dialogmøte services
// and publishers depend on. Implementations live in internal/clients and
// internal/platform; tests use the gomock doubles in ports/mocks.
package ports

//go:generate mockgen -source=ports.go -destination=mocks/mocks.go -package=mocks

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"

	"isdialogmote/internal/dialogmote/models"
	id "isdialogmote/pkg/domain"
)

// RenderRequest is the document model handed to the PDF renderer.
type RenderRequest struct {
	Mottaker  models.ParticipantType
	Type      models.VarselType
	Document  []models.DocumentComponent
	CreatedAt time.Time
}

// Renderer turns a structured document into PDF bytes. A failure aborts the
// transition that needed the document.
type Renderer interface {
	Render(ctx context.Context, req RenderRequest) ([]byte, error)
}

// PersonRegistry answers identity questions about a person.
type PersonRegistry interface {
	DisplayName(ctx context.Context, ident id.PersonIdent) (string, error)
	IsProtected(ctx context.Context, ident id.PersonIdent) (bool, error)
	// Identities returns every ident the registry knows for the person,
	// historic ones included.
	Identities(ctx context.Context, ident id.PersonIdent) ([]id.PersonIdent, error)
}

// OrganizationRegistry resolves employer names.
type OrganizationRegistry interface {
	DisplayName(ctx context.Context, orgnr id.Virksomhetsnummer) (string, error)
}

// RecipientIDType tells the archive how to read Recipient.ID.
type RecipientIDType string

const (
	RecipientFNR   RecipientIDType = "FNR"
	RecipientORGNR RecipientIDType = "ORGNR"
	RecipientHPRNR RecipientIDType = "HPRNR"
)

type Recipient struct {
	ID     string
	IDType RecipientIDType
	Name   string
}

// ArchiveRequest registers a letter in the national document archive.
// IdempotencyKey is the notice uuid; the archive rejects a second request
// with the same key with an ArchiveConflictError.
type ArchiveRequest struct {
	IdempotencyKey string
	Title          string
	Brevkode       string
	Subject        id.PersonIdent
	Recipient      Recipient
	Pdf            []byte
}

// ArchiveConflictError reports that the document was already archived under
// JournalpostID. Callers treat it as success.
type ArchiveConflictError struct {
	JournalpostID string
}

func (e *ArchiveConflictError) Error() string {
	return fmt.Sprintf("already archived as journalpost %s", e.JournalpostID)
}

type ArchiveClient interface {
	Archive(ctx context.Context, req ArchiveRequest) (journalpostID string, err error)
}

// DistributionRequest orders physical or digital delivery of an archived
// letter. Channel PAPER goes through the postal gateway.
type DistributionRequest struct {
	IdempotencyKey string
	JournalpostID  string
	Channel        models.DistributionChannel
}

type DistributionClient interface {
	Distribute(ctx context.Context, req DistributionRequest) (orderID string, err error)
}

// EventBus publishes a keyed message. Returning nil means the broker confirmed
// the write.
type EventBus interface {
	Publish(ctx context.Context, topic, key string, payload []byte) error
}

// PortalChecker reports whether an employer can be reached through the
// employer portal for the given employee.
type PortalChecker interface {
	IsReachable(ctx context.Context, orgnr id.Virksomhetsnummer, ident id.PersonIdent) (bool, error)
}

// InAppNotification is the best-effort message shown in the employee's
// digital inbox.
type InAppNotification struct {
	VarselUUID  uuid.UUID
	MoteUUID    uuid.UUID
	PersonIdent id.PersonIdent
	Type        models.VarselType
	CreatedAt   time.Time
}

type InAppNotifier interface {
	Notify(ctx context.Context, n InAppNotification) error
}

// BehandlerMelding is a notice delivered to a health-care provider over the
// clinical messaging bus. VarselUUID doubles as the message id.
type BehandlerMelding struct {
	VarselUUID   uuid.UUID
	MoteUUID     uuid.UUID
	BehandlerRef string
	PersonIdent  id.PersonIdent
	Type         models.VarselType
	Tid          time.Time
	Sted         string
	Document     []models.DocumentComponent
	Pdf          []byte
}

type BehandlerBus interface {
	Send(ctx context.Context, msg BehandlerMelding) error
}
