package cases

import (
	"log/slog"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"
	"github.com/go-playground/validator/v10"

	"github.com/providence-asso/providence/internal/funds"
	"github.com/providence-asso/providence/internal/platform/httpx"
	"github.com/providence-asso/providence/internal/shared"
)

// Handler manages case endpoints.
type Handler struct {
	logger    *slog.Logger
	service   *Service
	validator *validator.Validate
}

// NewHandler builds Handler instance.
func NewHandler(logger *slog.Logger, service *Service) *Handler {
	return &Handler{logger: logger, service: service, validator: validator.New()}
}

// MountRoutes registers case routes.
func (h *Handler) MountRoutes(r chi.Router) {
	r.Post("/", h.createCase)
	r.Get("/", h.listCases)
	r.Get("/{caseID}", h.showCase)
	r.Put("/{caseID}/allocation", h.setAllocation)
	r.Put("/{caseID}/classification", h.changeClassification)
	r.Put("/{caseID}/followup", h.updateFollowup)
}

type createCaseRequest struct {
	MeetingID       int64   `json:"meeting_id" validate:"required"`
	BeneficiaryID   int64   `json:"beneficiary_id" validate:"required"`
	Classification  string  `json:"classification" validate:"required"`
	Urgent          bool    `json:"urgent"`
	RequestedAmount int64   `json:"requested_amount" validate:"required,gt=0"`
	ExternalAmount  int64   `json:"external_amount" validate:"gte=0"`
	Description     string  `json:"description"`
	NeedCategoryIDs []int64 `json:"need_category_ids"`
}

func (h *Handler) createCase(w http.ResponseWriter, r *http.Request) {
	var req createCaseRequest
	if err := httpx.DecodeJSON(r, &req); err != nil {
		httpx.Problem(w, http.StatusBadRequest, "Validation Failed", "malformed request body")
		return
	}
	if err := h.validator.Struct(req); err != nil {
		httpx.Problem(w, http.StatusBadRequest, "Validation Failed", err.Error())
		return
	}

	var submitterID int64
	if identity := shared.IdentityFromContext(r.Context()); identity != nil {
		submitterID = identity.UserID
	}

	c, err := h.service.CreateCase(r.Context(), CreateCaseInput{
		MeetingID:       req.MeetingID,
		BeneficiaryID:   req.BeneficiaryID,
		SubmitterID:     submitterID,
		Classification:  funds.Classification(req.Classification),
		Urgent:          req.Urgent,
		RequestedAmount: req.RequestedAmount,
		ExternalAmount:  req.ExternalAmount,
		Description:     req.Description,
		NeedCategoryIDs: req.NeedCategoryIDs,
	})
	if err != nil {
		h.logger.Error("create case", slog.Int64("meeting_id", req.MeetingID), slog.Any("error", err))
		httpx.RespondError(w, err)
		return
	}
	httpx.JSON(w, http.StatusCreated, c)
}

func (h *Handler) listCases(w http.ResponseWriter, r *http.Request) {
	var filter ListFilter
	if v := r.URL.Query().Get("meeting"); v != "" {
		id, err := strconv.ParseInt(v, 10, 64)
		if err != nil {
			httpx.Problem(w, http.StatusBadRequest, "Validation Failed", "invalid meeting filter")
			return
		}
		filter.MeetingID = id
	}
	if v := r.URL.Query().Get("classification"); v != "" {
		class, err := funds.ParseClassification(v)
		if err != nil {
			httpx.RespondError(w, err)
			return
		}
		filter.Classification = class
	}
	filter.UrgentOnly = r.URL.Query().Get("urgent") == "true"

	list, err := h.service.ListCases(r.Context(), filter)
	if err != nil {
		h.logger.Error("list cases", slog.Any("error", err))
		httpx.RespondError(w, err)
		return
	}
	httpx.JSON(w, http.StatusOK, map[string]any{"cases": list})
}

func (h *Handler) showCase(w http.ResponseWriter, r *http.Request) {
	id, ok := h.pathID(w, r, "caseID")
	if !ok {
		return
	}
	c, err := h.service.GetCase(r.Context(), id)
	if err != nil {
		httpx.RespondError(w, err)
		return
	}
	httpx.JSON(w, http.StatusOK, c)
}

type setAllocationRequest struct {
	Amount int64 `json:"amount" validate:"gte=0"`
}

func (h *Handler) setAllocation(w http.ResponseWriter, r *http.Request) {
	id, ok := h.pathID(w, r, "caseID")
	if !ok {
		return
	}
	var req setAllocationRequest
	if err := httpx.DecodeJSON(r, &req); err != nil {
		httpx.Problem(w, http.StatusBadRequest, "Validation Failed", "malformed request body")
		return
	}
	if err := h.validator.Struct(req); err != nil {
		httpx.Problem(w, http.StatusBadRequest, "Validation Failed", err.Error())
		return
	}

	c, err := h.service.SetAllocation(r.Context(), id, req.Amount)
	if err != nil {
		h.logger.Error("set allocation", slog.Int64("case_id", id), slog.Any("error", err))
		httpx.RespondError(w, err)
		return
	}
	httpx.JSON(w, http.StatusOK, c)
}

type changeClassificationRequest struct {
	Classification string `json:"classification" validate:"required"`
}

func (h *Handler) changeClassification(w http.ResponseWriter, r *http.Request) {
	id, ok := h.pathID(w, r, "caseID")
	if !ok {
		return
	}
	var req changeClassificationRequest
	if err := httpx.DecodeJSON(r, &req); err != nil {
		httpx.Problem(w, http.StatusBadRequest, "Validation Failed", "malformed request body")
		return
	}
	if err := h.validator.Struct(req); err != nil {
		httpx.Problem(w, http.StatusBadRequest, "Validation Failed", err.Error())
		return
	}

	c, err := h.service.ChangeClassification(r.Context(), id, funds.Classification(req.Classification))
	if err != nil {
		h.logger.Error("change classification", slog.Int64("case_id", id), slog.Any("error", err))
		httpx.RespondError(w, err)
		return
	}
	httpx.JSON(w, http.StatusOK, c)
}

type updateFollowupRequest struct {
	Status        string `json:"status" validate:"required"`
	DonationState string `json:"donation_state"`
	Report        string `json:"report"`
}

func (h *Handler) updateFollowup(w http.ResponseWriter, r *http.Request) {
	id, ok := h.pathID(w, r, "caseID")
	if !ok {
		return
	}
	var req updateFollowupRequest
	if err := httpx.DecodeJSON(r, &req); err != nil {
		httpx.Problem(w, http.StatusBadRequest, "Validation Failed", "malformed request body")
		return
	}
	if err := h.validator.Struct(req); err != nil {
		httpx.Problem(w, http.StatusBadRequest, "Validation Failed", err.Error())
		return
	}

	c, err := h.service.UpdateFollowup(r.Context(), UpdateFollowupInput{
		CaseID:        id,
		Status:        Status(req.Status),
		DonationState: DonationState(req.DonationState),
		Report:        req.Report,
	})
	if err != nil {
		h.logger.Error("update followup", slog.Int64("case_id", id), slog.Any("error", err))
		httpx.RespondError(w, err)
		return
	}
	httpx.JSON(w, http.StatusOK, c)
}

func (h *Handler) pathID(w http.ResponseWriter, r *http.Request, name string) (int64, bool) {
	id, err := strconv.ParseInt(chi.URLParam(r, name), 10, 64)
	if err != nil {
		httpx.Problem(w, http.StatusBadRequest, "Validation Failed", "invalid "+name)
		return 0, false
	}
	return id, true
}
