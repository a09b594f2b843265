package handler

import (
	"context"
	"log/slog"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"

	"isdialogmote/internal/dialogmote/models"
	"isdialogmote/internal/dialogmote/service"
	"isdialogmote/internal/platform/metrics"
	"isdialogmote/internal/platform/middleware"
	id "isdialogmote/pkg/domain"
	dErrors "isdialogmote/pkg/domain-errors"
	"isdialogmote/pkg/platform/httputil"
	"isdialogmote/pkg/platform/middleware/requesttime"
)

// PersonIdentHeader carries the person ident on list requests so it never
// appears in URLs or access logs.
const PersonIdentHeader = "Nav-Personident"

//go:generate mockgen -source=handler.go -destination=mocks/mocks.go -package=mocks Service

// Service defines the dialogmøte operations exposed over HTTP.
type Service interface {
	Create(ctx context.Context, req service.CreateRequest) (*models.Dialogmote, error)
	NyttTidSted(ctx context.Context, moteUUID uuid.UUID, req service.NyttTidStedRequest) (*models.Dialogmote, error)
	Avlys(ctx context.Context, moteUUID uuid.UUID, req service.AvlysRequest) (*models.Dialogmote, error)
	Ferdigstill(ctx context.Context, moteUUID uuid.UUID, req service.ReferatInput) (*models.Dialogmote, error)
	SaveReferatDraft(ctx context.Context, moteUUID uuid.UUID, req service.ReferatInput) (*models.Referat, error)
	Lukk(ctx context.Context, moteUUID uuid.UUID) (*models.Dialogmote, error)
	RegisterSvar(ctx context.Context, varselUUID uuid.UUID, svarType models.SvarType, tekst string) (*models.Dialogmotesvar, error)
	MarkVarselRead(ctx context.Context, varselUUID uuid.UUID) error
	ChangeIdent(ctx context.Context, from, to id.PersonIdent) (int, error)
	TildelVeileder(ctx context.Context, moteUUIDs []uuid.UUID, veileder id.NavIdent) error
	ResetTestdata(ctx context.Context, ident id.PersonIdent) (int, error)
	Get(ctx context.Context, moteUUID uuid.UUID) (*models.Dialogmote, error)
	ListByPerson(ctx context.Context, ident id.PersonIdent) ([]*models.Dialogmote, error)
	ListByEnhet(ctx context.Context, enhet id.EnhetNr) ([]*models.Dialogmote, error)
}

// RequestTimeout bounds every API request.
const RequestTimeout = 30 * time.Second

// Handler serves the dialogmøte API.
type Handler struct {
	logger  *slog.Logger
	svc     Service
	metrics *metrics.Metrics
	timeout time.Duration
}

// New creates a dialogmøte Handler. metrics may be nil.
func New(svc Service, logger *slog.Logger, m *metrics.Metrics) *Handler {
	return &Handler{
		logger:  logger,
		svc:     svc,
		metrics: m,
		timeout: RequestTimeout,
	}
}

// Register mounts the API on r.
//
// Case-officer routes require the Nav-Ident header. Participant routes
// (svar, read receipts) are authenticated upstream and act as the system.
func (h *Handler) Register(r chi.Router) {
	api := chi.NewRouter()
	api.Use(middleware.Recovery(h.logger))
	api.Use(middleware.RequestID)
	api.Use(middleware.Logger(h.logger))
	api.Use(middleware.Timeout(h.timeout))
	api.Use(middleware.ContentTypeJSON)
	api.Use(middleware.LatencyMiddleware(h.metrics))
	api.Use(requesttime.Middleware)

	api.Group(func(r chi.Router) {
		r.Use(middleware.RequireNavIdent(h.logger))
		r.Post("/api/v2/dialogmote", h.handleCreate)
		r.Get("/api/v2/dialogmote/personident", h.handleListByPerson)
		r.Get("/api/v2/dialogmote/enhet/{enhetNr}", h.handleListByEnhet)
		r.Post("/api/v2/dialogmote/tildel", h.handleTildel)
		r.Get("/api/v2/dialogmote/{moteUUID}", h.handleGet)
		r.Post("/api/v2/dialogmote/{moteUUID}/nytttidsted", h.handleNyttTidSted)
		r.Post("/api/v2/dialogmote/{moteUUID}/avlys", h.handleAvlys)
		r.Post("/api/v2/dialogmote/{moteUUID}/ferdigstill", h.handleFerdigstill)
		r.Post("/api/v2/dialogmote/{moteUUID}/mellomlagre", h.handleSaveReferatDraft)
		r.Post("/api/v2/dialogmote/{moteUUID}/lukk", h.handleLukk)
		r.Post("/api/v2/identendring", h.handleChangeIdent)
		r.Delete("/api/v2/testdata/personident", h.handleResetTestdata)
	})

	api.Group(func(r chi.Router) {
		r.Post("/api/v2/varsel/{varselUUID}/svar", h.handleSvar)
		r.Post("/api/v2/varsel/{varselUUID}/les", h.handleMarkRead)
	})

	r.Mount("/", api)
}

func (h *Handler) handleCreate(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	var body createRequest
	if err := httputil.DecodeJSON(r, &body); err != nil {
		h.fail(ctx, w, err, "invalid create request")
		return
	}
	sanitize(&body)
	req, err := body.toService()
	if err != nil {
		h.fail(ctx, w, err, "invalid create request")
		return
	}
	m, err := h.svc.Create(ctx, req)
	if err != nil {
		h.fail(ctx, w, err, "failed to create dialogmote")
		return
	}
	httputil.WriteJSON(w, http.StatusCreated, toResponse(m))
}

func (h *Handler) handleGet(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	moteUUID, err := id.ParseMoteUUID(chi.URLParam(r, "moteUUID"))
	if err != nil {
		h.fail(ctx, w, err, "invalid dialogmote uuid")
		return
	}
	m, err := h.svc.Get(ctx, moteUUID)
	if err != nil {
		h.fail(ctx, w, err, "failed to get dialogmote")
		return
	}
	httputil.WriteJSON(w, http.StatusOK, toResponse(m))
}

func (h *Handler) handleListByPerson(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	ident, err := id.ParsePersonIdent(r.Header.Get(PersonIdentHeader))
	if err != nil {
		h.fail(ctx, w, err, "invalid person ident header")
		return
	}
	ms, err := h.svc.ListByPerson(ctx, ident)
	if err != nil {
		h.fail(ctx, w, err, "failed to list dialogmoter for person")
		return
	}
	httputil.WriteJSON(w, http.StatusOK, toResponses(ms))
}

func (h *Handler) handleListByEnhet(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	enhet, err := id.ParseEnhetNr(chi.URLParam(r, "enhetNr"))
	if err != nil {
		h.fail(ctx, w, err, "invalid enhet")
		return
	}
	ms, err := h.svc.ListByEnhet(ctx, enhet)
	if err != nil {
		h.fail(ctx, w, err, "failed to list dialogmoter for enhet")
		return
	}
	httputil.WriteJSON(w, http.StatusOK, toResponses(ms))
}

func (h *Handler) handleNyttTidSted(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	moteUUID, ok := h.moteUUID(w, r)
	if !ok {
		return
	}
	var body nyttTidStedRequest
	if err := httputil.DecodeJSON(r, &body); err != nil {
		h.fail(ctx, w, err, "invalid nytt tid sted request")
		return
	}
	sanitize(&body)
	m, err := h.svc.NyttTidSted(ctx, moteUUID, body.toService())
	if err != nil {
		h.fail(ctx, w, err, "failed to change tid and sted")
		return
	}
	httputil.WriteJSON(w, http.StatusOK, toResponse(m))
}

func (h *Handler) handleAvlys(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	moteUUID, ok := h.moteUUID(w, r)
	if !ok {
		return
	}
	var body avlysRequest
	if err := httputil.DecodeJSON(r, &body); err != nil {
		h.fail(ctx, w, err, "invalid avlys request")
		return
	}
	m, err := h.svc.Avlys(ctx, moteUUID, body.toService())
	if err != nil {
		h.fail(ctx, w, err, "failed to cancel dialogmote")
		return
	}
	httputil.WriteJSON(w, http.StatusOK, toResponse(m))
}

func (h *Handler) handleFerdigstill(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	moteUUID, ok := h.moteUUID(w, r)
	if !ok {
		return
	}
	var body referatRequest
	if err := httputil.DecodeJSON(r, &body); err != nil {
		h.fail(ctx, w, err, "invalid referat")
		return
	}
	sanitize(&body)
	m, err := h.svc.Ferdigstill(ctx, moteUUID, body.toService())
	if err != nil {
		h.fail(ctx, w, err, "failed to finalize dialogmote")
		return
	}
	httputil.WriteJSON(w, http.StatusOK, toResponse(m))
}

func (h *Handler) handleSaveReferatDraft(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	moteUUID, ok := h.moteUUID(w, r)
	if !ok {
		return
	}
	var body referatRequest
	if err := httputil.DecodeJSON(r, &body); err != nil {
		h.fail(ctx, w, err, "invalid referat")
		return
	}
	ref, err := h.svc.SaveReferatDraft(ctx, moteUUID, body.toService())
	if err != nil {
		h.fail(ctx, w, err, "failed to save referat draft")
		return
	}
	httputil.WriteJSON(w, http.StatusOK, toReferatResponse(ref))
}

func (h *Handler) handleLukk(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	moteUUID, ok := h.moteUUID(w, r)
	if !ok {
		return
	}
	m, err := h.svc.Lukk(ctx, moteUUID)
	if err != nil {
		h.fail(ctx, w, err, "failed to close dialogmote")
		return
	}
	httputil.WriteJSON(w, http.StatusOK, toResponse(m))
}

func (h *Handler) handleTildel(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	var body tildelRequest
	if err := httputil.DecodeJSON(r, &body); err != nil {
		h.fail(ctx, w, err, "invalid tildel request")
		return
	}
	veileder, err := id.ParseNavIdent(body.VeilederIdent)
	if err != nil {
		h.fail(ctx, w, err, "invalid veileder ident")
		return
	}
	if len(body.DialogmoteUUID) == 0 {
		h.fail(ctx, w, dErrors.New(dErrors.CodeValidation, "dialogmoteUuids is required"), "invalid tildel request")
		return
	}
	if err := h.svc.TildelVeileder(ctx, body.DialogmoteUUID, veileder); err != nil {
		h.fail(ctx, w, err, "failed to assign veileder")
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func (h *Handler) handleChangeIdent(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	var body identEndringRequest
	if err := httputil.DecodeJSON(r, &body); err != nil {
		h.fail(ctx, w, err, "invalid ident change request")
		return
	}
	sanitize(&body)
	from, err := id.ParsePersonIdent(body.Fra)
	if err != nil {
		h.fail(ctx, w, err, "invalid old ident")
		return
	}
	to, err := id.ParsePersonIdent(body.Til)
	if err != nil {
		h.fail(ctx, w, err, "invalid new ident")
		return
	}
	n, err := h.svc.ChangeIdent(ctx, from, to)
	if err != nil {
		h.fail(ctx, w, err, "failed to change ident")
		return
	}
	httputil.WriteJSON(w, http.StatusOK, countResponse{Count: n})
}

func (h *Handler) handleResetTestdata(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	ident, err := id.ParsePersonIdent(r.Header.Get(PersonIdentHeader))
	if err != nil {
		h.fail(ctx, w, err, "invalid person ident header")
		return
	}
	n, err := h.svc.ResetTestdata(ctx, ident)
	if err != nil {
		h.fail(ctx, w, err, "failed to reset testdata")
		return
	}
	httputil.WriteJSON(w, http.StatusOK, countResponse{Count: n})
}

func (h *Handler) handleSvar(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	varselUUID, err := id.ParseMoteUUID(chi.URLParam(r, "varselUUID"))
	if err != nil {
		h.fail(ctx, w, err, "invalid varsel uuid")
		return
	}
	var body svarRequest
	if err := httputil.DecodeJSON(r, &body); err != nil {
		h.fail(ctx, w, err, "invalid svar")
		return
	}
	sanitize(&body)
	svarType, err := body.svarType()
	if err != nil {
		h.fail(ctx, w, err, "invalid svar")
		return
	}
	if _, err := h.svc.RegisterSvar(ctx, varselUUID, svarType, body.SvarTekst); err != nil {
		h.fail(ctx, w, err, "failed to register svar")
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func (h *Handler) handleMarkRead(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	varselUUID, err := id.ParseMoteUUID(chi.URLParam(r, "varselUUID"))
	if err != nil {
		h.fail(ctx, w, err, "invalid varsel uuid")
		return
	}
	if err := h.svc.MarkVarselRead(ctx, varselUUID); err != nil {
		h.fail(ctx, w, err, "failed to mark varsel read")
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func (h *Handler) moteUUID(w http.ResponseWriter, r *http.Request) (uuid.UUID, bool) {
	moteUUID, err := id.ParseMoteUUID(chi.URLParam(r, "moteUUID"))
	if err != nil {
		h.fail(r.Context(), w, err, "invalid dialogmote uuid")
		return uuid.Nil, false
	}
	return moteUUID, true
}

// fail logs client errors at warn and everything else at error, then writes
// the mapped response.
func (h *Handler) fail(ctx context.Context, w http.ResponseWriter, err error, msg string) {
	status := httputil.StatusFor(dErrors.CodeOf(err))
	if status >= http.StatusInternalServerError {
		h.logger.ErrorContext(ctx, msg,
			"request_id", middleware.GetRequestID(ctx),
			"error", err.Error(),
		)
	} else {
		h.logger.WarnContext(ctx, msg,
			"request_id", middleware.GetRequestID(ctx),
			"error", err.Error(),
		)
	}
	httputil.WriteError(w, err)
}
