package users

import (
	"log/slog"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"
	"github.com/go-playground/validator/v10"

	"github.com/providence-asso/providence/internal/platform/httpx"
	"github.com/providence-asso/providence/internal/shared"
)

// Handler manages user account endpoints.
type Handler struct {
	logger    *slog.Logger
	service   *Service
	validator *validator.Validate
}

// NewHandler builds Handler instance.
func NewHandler(logger *slog.Logger, service *Service) *Handler {
	return &Handler{logger: logger, service: service, validator: validator.New()}
}

// MountRoutes registers user routes.
func (h *Handler) MountRoutes(r chi.Router) {
	r.Post("/", h.createUser)
	r.Get("/", h.listUsers)
	r.Get("/{userID}", h.showUser)
	r.Put("/{userID}", h.updateUser)
	r.Put("/{userID}/dues", h.setDues)
	r.Put("/{userID}/active", h.setActive)
}

// MountMemberRoutes registers the members view.
func (h *Handler) MountMemberRoutes(r chi.Router) {
	r.Get("/", h.listMembers)
}

type createUserRequest struct {
	Username      string `json:"username" validate:"required"`
	Password      string `json:"password" validate:"required,min=8"`
	FirstName     string `json:"first_name"`
	LastName      string `json:"last_name" validate:"required"`
	Email         string `json:"email" validate:"omitempty,email"`
	Phone         string `json:"phone"`
	Role          string `json:"role"`
	IsSuperuser   bool   `json:"is_superuser"`
	CanContribute bool   `json:"can_contribute"`
	SocialDue     *int64 `json:"social_due"`
	MissionDue    *int64 `json:"mission_due"`
}

func (h *Handler) createUser(w http.ResponseWriter, r *http.Request) {
	var req createUserRequest
	if err := httpx.DecodeJSON(r, &req); err != nil {
		httpx.Problem(w, http.StatusBadRequest, "Validation Failed", "malformed request body")
		return
	}
	if err := h.validator.Struct(req); err != nil {
		httpx.Problem(w, http.StatusBadRequest, "Validation Failed", err.Error())
		return
	}

	user, err := h.service.CreateUser(r.Context(), CreateUserInput{
		Username:      req.Username,
		Password:      req.Password,
		FirstName:     req.FirstName,
		LastName:      req.LastName,
		Email:         req.Email,
		Phone:         req.Phone,
		Role:          req.Role,
		IsSuperuser:   req.IsSuperuser,
		CanContribute: req.CanContribute,
		SocialDue:     req.SocialDue,
		MissionDue:    req.MissionDue,
	})
	if err != nil {
		h.logger.Error("create user", slog.String("username", req.Username), slog.Any("error", err))
		httpx.RespondError(w, err)
		return
	}
	httpx.JSON(w, http.StatusCreated, user)
}

func (h *Handler) listUsers(w http.ResponseWriter, r *http.Request) {
	users, err := h.service.ListUsers(r.Context(), shared.PageFromRequest(r))
	if err != nil {
		h.logger.Error("list users", slog.Any("error", err))
		httpx.RespondError(w, err)
		return
	}
	httpx.JSON(w, http.StatusOK, map[string]any{"users": users})
}

func (h *Handler) listMembers(w http.ResponseWriter, r *http.Request) {
	members, err := h.service.ListMembers(r.Context())
	if err != nil {
		h.logger.Error("list members", slog.Any("error", err))
		httpx.RespondError(w, err)
		return
	}
	httpx.JSON(w, http.StatusOK, map[string]any{"members": members})
}

func (h *Handler) showUser(w http.ResponseWriter, r *http.Request) {
	id, ok := h.pathID(w, r, "userID")
	if !ok {
		return
	}
	user, err := h.service.GetUser(r.Context(), id)
	if err != nil {
		httpx.RespondError(w, err)
		return
	}
	httpx.JSON(w, http.StatusOK, user)
}

type updateUserRequest struct {
	FirstName string `json:"first_name"`
	LastName  string `json:"last_name" validate:"required"`
	Email     string `json:"email" validate:"omitempty,email"`
	Phone     string `json:"phone"`
	Role      string `json:"role"`
}

func (h *Handler) updateUser(w http.ResponseWriter, r *http.Request) {
	id, ok := h.pathID(w, r, "userID")
	if !ok {
		return
	}
	var req updateUserRequest
	if err := httpx.DecodeJSON(r, &req); err != nil {
		httpx.Problem(w, http.StatusBadRequest, "Validation Failed", "malformed request body")
		return
	}
	if err := h.validator.Struct(req); err != nil {
		httpx.Problem(w, http.StatusBadRequest, "Validation Failed", err.Error())
		return
	}

	user, err := h.service.UpdateUser(r.Context(), UpdateUserInput{
		UserID:    id,
		FirstName: req.FirstName,
		LastName:  req.LastName,
		Email:     req.Email,
		Phone:     req.Phone,
		Role:      req.Role,
	})
	if err != nil {
		h.logger.Error("update user", slog.Int64("user_id", id), slog.Any("error", err))
		httpx.RespondError(w, err)
		return
	}
	httpx.JSON(w, http.StatusOK, user)
}

type setDuesRequest struct {
	CanContribute bool   `json:"can_contribute"`
	SocialDue     *int64 `json:"social_due"`
	MissionDue    *int64 `json:"mission_due"`
}

func (h *Handler) setDues(w http.ResponseWriter, r *http.Request) {
	id, ok := h.pathID(w, r, "userID")
	if !ok {
		return
	}
	var req setDuesRequest
	if err := httpx.DecodeJSON(r, &req); err != nil {
		httpx.Problem(w, http.StatusBadRequest, "Validation Failed", "malformed request body")
		return
	}

	user, err := h.service.SetDues(r.Context(), SetDuesInput{
		UserID:        id,
		CanContribute: req.CanContribute,
		SocialDue:     req.SocialDue,
		MissionDue:    req.MissionDue,
	})
	if err != nil {
		h.logger.Error("set dues", slog.Int64("user_id", id), slog.Any("error", err))
		httpx.RespondError(w, err)
		return
	}
	httpx.JSON(w, http.StatusOK, user)
}

type setActiveRequest struct {
	Active bool `json:"active"`
}

func (h *Handler) setActive(w http.ResponseWriter, r *http.Request) {
	id, ok := h.pathID(w, r, "userID")
	if !ok {
		return
	}
	var req setActiveRequest
	if err := httpx.DecodeJSON(r, &req); err != nil {
		httpx.Problem(w, http.StatusBadRequest, "Validation Failed", "malformed request body")
		return
	}

	user, err := h.service.SetActive(r.Context(), id, req.Active)
	if err != nil {
		h.logger.Error("set active", slog.Int64("user_id", id), slog.Any("error", err))
		httpx.RespondError(w, err)
		return
	}
	httpx.JSON(w, http.StatusOK, user)
}

func (h *Handler) pathID(w http.ResponseWriter, r *http.Request, name string) (int64, bool) {
	id, err := strconv.ParseInt(chi.URLParam(r, name), 10, 64)
	if err != nil {
		httpx.Problem(w, http.StatusBadRequest, "Validation Failed", "invalid "+name)
		return 0, false
	}
	return id, true
}
