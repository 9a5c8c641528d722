package beneficiaries

import (
	"log/slog"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"
	"github.com/go-playground/validator/v10"

	"github.com/providence-asso/providence/internal/platform/httpx"
	"github.com/providence-asso/providence/internal/shared"
)

// Handler manages beneficiary endpoints.
type Handler struct {
	logger    *slog.Logger
	service   *Service
	validator *validator.Validate
}

// NewHandler builds Handler instance.
func NewHandler(logger *slog.Logger, service *Service) *Handler {
	return &Handler{logger: logger, service: service, validator: validator.New()}
}

// MountRoutes registers beneficiary routes.
func (h *Handler) MountRoutes(r chi.Router) {
	r.Post("/", h.create)
	r.Get("/", h.list)
	r.Get("/{beneficiaryID}", h.show)
	r.Put("/{beneficiaryID}", h.update)
}

type upsertRequest struct {
	LastName      string `json:"last_name" validate:"required"`
	GivenNames    string `json:"given_names"`
	Sex           string `json:"sex" validate:"omitempty,oneof=M F"`
	MaritalStatus string `json:"marital_status"`
	Profession    string `json:"profession"`
	Role          string `json:"role"`
	Children      int    `json:"children" validate:"gte=0"`
	YearsInFaith  int    `json:"years_in_faith" validate:"gte=0"`
	CommunityID   *int64 `json:"community_id"`
}

func (r upsertRequest) toInput() UpsertInput {
	return UpsertInput{
		LastName:      r.LastName,
		GivenNames:    r.GivenNames,
		Sex:           r.Sex,
		MaritalStatus: r.MaritalStatus,
		Profession:    r.Profession,
		Role:          r.Role,
		Children:      r.Children,
		YearsInFaith:  r.YearsInFaith,
		CommunityID:   r.CommunityID,
	}
}

func (h *Handler) create(w http.ResponseWriter, r *http.Request) {
	var req upsertRequest
	if err := httpx.DecodeJSON(r, &req); err != nil {
		httpx.Problem(w, http.StatusBadRequest, "Validation Failed", "malformed request body")
		return
	}
	if err := h.validator.Struct(req); err != nil {
		httpx.Problem(w, http.StatusBadRequest, "Validation Failed", err.Error())
		return
	}
	b, err := h.service.Create(r.Context(), req.toInput())
	if err != nil {
		h.logger.Error("create beneficiary", slog.Any("error", err))
		httpx.RespondError(w, err)
		return
	}
	httpx.JSON(w, http.StatusCreated, b)
}

func (h *Handler) list(w http.ResponseWriter, r *http.Request) {
	list, err := h.service.List(r.Context(), r.URL.Query().Get("q"), shared.PageFromRequest(r))
	if err != nil {
		h.logger.Error("list beneficiaries", slog.Any("error", err))
		httpx.RespondError(w, err)
		return
	}
	httpx.JSON(w, http.StatusOK, map[string]any{"beneficiaries": list})
}

func (h *Handler) show(w http.ResponseWriter, r *http.Request) {
	id, ok := h.pathID(w, r, "beneficiaryID")
	if !ok {
		return
	}
	b, err := h.service.Get(r.Context(), id)
	if err != nil {
		httpx.RespondError(w, err)
		return
	}
	httpx.JSON(w, http.StatusOK, b)
}

func (h *Handler) update(w http.ResponseWriter, r *http.Request) {
	id, ok := h.pathID(w, r, "beneficiaryID")
	if !ok {
		return
	}
	var req upsertRequest
	if err := httpx.DecodeJSON(r, &req); err != nil {
		httpx.Problem(w, http.StatusBadRequest, "Validation Failed", "malformed request body")
		return
	}
	if err := h.validator.Struct(req); err != nil {
		httpx.Problem(w, http.StatusBadRequest, "Validation Failed", err.Error())
		return
	}
	b, err := h.service.Update(r.Context(), id, req.toInput())
	if err != nil {
		h.logger.Error("update beneficiary", slog.Int64("beneficiary_id", id), slog.Any("error", err))
		httpx.RespondError(w, err)
		return
	}
	httpx.JSON(w, http.StatusOK, b)
}

func (h *Handler) pathID(w http.ResponseWriter, r *http.Request, name string) (int64, bool) {
	id, err := strconv.ParseInt(chi.URLParam(r, name), 10, 64)
	if err != nil {
		httpx.Problem(w, http.StatusBadRequest, "Validation Failed", "invalid "+name)
		return 0, false
	}
	return id, true
}
