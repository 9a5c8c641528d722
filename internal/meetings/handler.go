package meetings

import (
	"log/slog"
	"net/http"
	"strconv"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-playground/validator/v10"

	"github.com/providence-asso/providence/internal/platform/httpx"
	"github.com/providence-asso/providence/internal/shared"
)

// Handler manages meeting endpoints.
type Handler struct {
	logger    *slog.Logger
	service   *Service
	validator *validator.Validate
}

// NewHandler builds Handler instance.
func NewHandler(logger *slog.Logger, service *Service) *Handler {
	return &Handler{logger: logger, service: service, validator: validator.New()}
}

// MountRoutes registers meeting routes.
func (h *Handler) MountRoutes(r chi.Router) {
	r.Post("/", h.createMeeting)
	r.Get("/", h.listMeetings)
	r.Get("/{meetingID}", h.showMeeting)
	r.Put("/{meetingID}/contributions/{contributionID}", h.updateContribution)
	r.Post("/{meetingID}/contributions/{contributionID}/release", h.releaseContribution)
	r.Get("/{meetingID}/unreleased", h.listUnreleased)
	r.Post("/{meetingID}/assignments", h.createAssignment)
}

type createMeetingRequest struct {
	HostID    int64   `json:"host_id" validate:"required"`
	Date      string  `json:"date" validate:"required"`
	Location  string  `json:"location" validate:"required"`
	Minutes   string  `json:"minutes"`
	Attendees []int64 `json:"attendees"`
}

func (h *Handler) createMeeting(w http.ResponseWriter, r *http.Request) {
	var req createMeetingRequest
	if err := httpx.DecodeJSON(r, &req); err != nil {
		httpx.Problem(w, http.StatusBadRequest, "Validation Failed", "malformed request body")
		return
	}
	if err := h.validator.Struct(req); err != nil {
		httpx.Problem(w, http.StatusBadRequest, "Validation Failed", err.Error())
		return
	}
	date, err := time.Parse("2006-01-02", req.Date)
	if err != nil {
		httpx.Problem(w, http.StatusBadRequest, "Validation Failed", "date must be YYYY-MM-DD")
		return
	}

	meeting, err := h.service.CreateMeeting(r.Context(), CreateMeetingInput{
		HostID:    req.HostID,
		Date:      date,
		Location:  req.Location,
		Minutes:   req.Minutes,
		Attendees: req.Attendees,
	})
	if err != nil {
		h.logger.Error("create meeting", slog.Any("error", err))
		httpx.RespondError(w, err)
		return
	}
	httpx.JSON(w, http.StatusCreated, meeting)
}

func (h *Handler) listMeetings(w http.ResponseWriter, r *http.Request) {
	meetings, err := h.service.ListMeetings(r.Context(), shared.PageFromRequest(r))
	if err != nil {
		h.logger.Error("list meetings", slog.Any("error", err))
		httpx.RespondError(w, err)
		return
	}
	httpx.JSON(w, http.StatusOK, map[string]any{"meetings": meetings})
}

func (h *Handler) showMeeting(w http.ResponseWriter, r *http.Request) {
	id, ok := h.pathID(w, r, "meetingID")
	if !ok {
		return
	}
	meeting, ledger, err := h.service.GetMeeting(r.Context(), id)
	if err != nil {
		httpx.RespondError(w, err)
		return
	}
	httpx.JSON(w, http.StatusOK, map[string]any{
		"meeting":       meeting,
		"contributions": ledger,
	})
}

type updateContributionRequest struct {
	SocialAmount  int64 `json:"social_amount" validate:"gte=0"`
	MissionAmount int64 `json:"mission_amount" validate:"gte=0"`
}

func (h *Handler) updateContribution(w http.ResponseWriter, r *http.Request) {
	meetingID, ok := h.pathID(w, r, "meetingID")
	if !ok {
		return
	}
	contributionID, ok := h.pathID(w, r, "contributionID")
	if !ok {
		return
	}
	var req updateContributionRequest
	if err := httpx.DecodeJSON(r, &req); err != nil {
		httpx.Problem(w, http.StatusBadRequest, "Validation Failed", "malformed request body")
		return
	}
	if err := h.validator.Struct(req); err != nil {
		httpx.Problem(w, http.StatusBadRequest, "Validation Failed", err.Error())
		return
	}

	contrib, err := h.service.UpdateContributionAmounts(r.Context(), meetingID, contributionID, req.SocialAmount, req.MissionAmount)
	if err != nil {
		h.logger.Error("update contribution", slog.Int64("contribution_id", contributionID), slog.Any("error", err))
		httpx.RespondError(w, err)
		return
	}
	httpx.JSON(w, http.StatusOK, contrib)
}

type releaseRequest struct {
	SocialReleased  bool `json:"social_released"`
	MissionReleased bool `json:"mission_released"`
}

func (h *Handler) releaseContribution(w http.ResponseWriter, r *http.Request) {
	meetingID, ok := h.pathID(w, r, "meetingID")
	if !ok {
		return
	}
	contributionID, ok := h.pathID(w, r, "contributionID")
	if !ok {
		return
	}
	var req releaseRequest
	if err := httpx.DecodeJSON(r, &req); err != nil {
		httpx.Problem(w, http.StatusBadRequest, "Validation Failed", "malformed request body")
		return
	}

	contrib, err := h.service.Release(r.Context(), meetingID, contributionID, req.SocialReleased, req.MissionReleased)
	if err != nil {
		h.logger.Error("release contribution", slog.Int64("contribution_id", contributionID), slog.Any("error", err))
		httpx.RespondError(w, err)
		return
	}
	httpx.JSON(w, http.StatusOK, contrib)
}

func (h *Handler) listUnreleased(w http.ResponseWriter, r *http.Request) {
	meetingID, ok := h.pathID(w, r, "meetingID")
	if !ok {
		return
	}
	unreleased, err := h.service.ListUnreleased(r.Context(), meetingID)
	if err != nil {
		httpx.RespondError(w, err)
		return
	}
	httpx.JSON(w, http.StatusOK, map[string]any{"unreleased": unreleased})
}

type createAssignmentRequest struct {
	ContributionID int64 `json:"contribution_id" validate:"required"`
	CollectorID    int64 `json:"collector_id" validate:"required"`
	CaseID         int64 `json:"case_id" validate:"required"`
	Amount         int64 `json:"amount" validate:"required,gt=0"`
}

func (h *Handler) createAssignment(w http.ResponseWriter, r *http.Request) {
	meetingID, ok := h.pathID(w, r, "meetingID")
	if !ok {
		return
	}
	var req createAssignmentRequest
	if err := httpx.DecodeJSON(r, &req); err != nil {
		httpx.Problem(w, http.StatusBadRequest, "Validation Failed", "malformed request body")
		return
	}
	if err := h.validator.Struct(req); err != nil {
		httpx.Problem(w, http.StatusBadRequest, "Validation Failed", err.Error())
		return
	}

	assignment, err := h.service.CreateAssignment(r.Context(), CreateAssignmentInput{
		MeetingID:      meetingID,
		ContributionID: req.ContributionID,
		CollectorID:    req.CollectorID,
		CaseID:         req.CaseID,
		Amount:         req.Amount,
	})
	if err != nil {
		h.logger.Error("create assignment", slog.Int64("meeting_id", meetingID), slog.Any("error", err))
		httpx.RespondError(w, err)
		return
	}
	httpx.JSON(w, http.StatusCreated, assignment)
}

func (h *Handler) pathID(w http.ResponseWriter, r *http.Request, name string) (int64, bool) {
	id, err := strconv.ParseInt(chi.URLParam(r, name), 10, 64)
	if err != nil {
		httpx.Problem(w, http.StatusBadRequest, "Validation Failed", "invalid "+name)
		return 0, false
	}
	return id, true
}
