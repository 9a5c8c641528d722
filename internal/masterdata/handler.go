package masterdata

import (
	"log/slog"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"
	"github.com/go-playground/validator/v10"

	"github.com/providence-asso/providence/internal/funds"
	"github.com/providence-asso/providence/internal/platform/httpx"
)

// Handler manages master data endpoints.
type Handler struct {
	logger    *slog.Logger
	service   *Service
	validator *validator.Validate
}

// NewHandler builds Handler instance.
func NewHandler(logger *slog.Logger, service *Service) *Handler {
	return &Handler{logger: logger, service: service, validator: validator.New()}
}

// MountRoutes registers master data routes.
func (h *Handler) MountRoutes(r chi.Router) {
	r.Post("/families", h.createFamily)
	r.Get("/families", h.listFamilies)
	r.Post("/communities", h.createCommunity)
	r.Get("/communities", h.listCommunities)
	r.Post("/need-categories", h.createNeedCategory)
	r.Get("/need-categories", h.listNeedCategories)
}

type createFamilyRequest struct {
	Name string `json:"name" validate:"required"`
}

func (h *Handler) createFamily(w http.ResponseWriter, r *http.Request) {
	var req createFamilyRequest
	if err := httpx.DecodeJSON(r, &req); err != nil {
		httpx.Problem(w, http.StatusBadRequest, "Validation Failed", "malformed request body")
		return
	}
	if err := h.validator.Struct(req); err != nil {
		httpx.Problem(w, http.StatusBadRequest, "Validation Failed", err.Error())
		return
	}
	family, err := h.service.CreateFamily(r.Context(), req.Name)
	if err != nil {
		h.logger.Error("create family", slog.Any("error", err))
		httpx.RespondError(w, err)
		return
	}
	httpx.JSON(w, http.StatusCreated, family)
}

func (h *Handler) listFamilies(w http.ResponseWriter, r *http.Request) {
	families, err := h.service.ListFamilies(r.Context())
	if err != nil {
		httpx.RespondError(w, err)
		return
	}
	httpx.JSON(w, http.StatusOK, map[string]any{"families": families})
}

type createCommunityRequest struct {
	FamilyID int64  `json:"family_id" validate:"required"`
	Name     string `json:"name" validate:"required"`
	City     string `json:"city"`
}

func (h *Handler) createCommunity(w http.ResponseWriter, r *http.Request) {
	var req createCommunityRequest
	if err := httpx.DecodeJSON(r, &req); err != nil {
		httpx.Problem(w, http.StatusBadRequest, "Validation Failed", "malformed request body")
		return
	}
	if err := h.validator.Struct(req); err != nil {
		httpx.Problem(w, http.StatusBadRequest, "Validation Failed", err.Error())
		return
	}
	community, err := h.service.CreateCommunity(r.Context(), Community{
		FamilyID: req.FamilyID,
		Name:     req.Name,
		City:     req.City,
	})
	if err != nil {
		h.logger.Error("create community", slog.Any("error", err))
		httpx.RespondError(w, err)
		return
	}
	httpx.JSON(w, http.StatusCreated, community)
}

func (h *Handler) listCommunities(w http.ResponseWriter, r *http.Request) {
	var familyID int64
	if v := r.URL.Query().Get("family"); v != "" {
		id, err := strconv.ParseInt(v, 10, 64)
		if err != nil {
			httpx.Problem(w, http.StatusBadRequest, "Validation Failed", "invalid family filter")
			return
		}
		familyID = id
	}
	communities, err := h.service.ListCommunities(r.Context(), familyID)
	if err != nil {
		httpx.RespondError(w, err)
		return
	}
	httpx.JSON(w, http.StatusOK, map[string]any{"communities": communities})
}

type createNeedCategoryRequest struct {
	Name           string `json:"name" validate:"required"`
	Classification string `json:"classification"`
}

func (h *Handler) createNeedCategory(w http.ResponseWriter, r *http.Request) {
	var req createNeedCategoryRequest
	if err := httpx.DecodeJSON(r, &req); err != nil {
		httpx.Problem(w, http.StatusBadRequest, "Validation Failed", "malformed request body")
		return
	}
	if err := h.validator.Struct(req); err != nil {
		httpx.Problem(w, http.StatusBadRequest, "Validation Failed", err.Error())
		return
	}
	category, err := h.service.CreateNeedCategory(r.Context(), NeedCategory{
		Name:           req.Name,
		Classification: funds.Classification(req.Classification),
	})
	if err != nil {
		h.logger.Error("create need category", slog.Any("error", err))
		httpx.RespondError(w, err)
		return
	}
	httpx.JSON(w, http.StatusCreated, category)
}

func (h *Handler) listNeedCategories(w http.ResponseWriter, r *http.Request) {
	categories, err := h.service.ListNeedCategories(r.Context())
	if err != nil {
		httpx.RespondError(w, err)
		return
	}
	httpx.JSON(w, http.StatusOK, map[string]any{"need_categories": categories})
}
