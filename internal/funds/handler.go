package funds

import (
	"log/slog"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"

	"github.com/providence-asso/providence/internal/platform/httpx"
	"github.com/providence-asso/providence/internal/shared"
)

// Handler serves fund summaries.
type Handler struct {
	logger    *slog.Logger
	service   *Service
	formatter *shared.Formatter
}

// NewHandler builds Handler instance.
func NewHandler(logger *slog.Logger, service *Service, formatter *shared.Formatter) *Handler {
	return &Handler{logger: logger, service: service, formatter: formatter}
}

// MountRoutes registers fund routes under the meetings subtree.
func (h *Handler) MountRoutes(r chi.Router) {
	r.Get("/{meetingID}/funds/{classification}", h.showSummary)
}

type summaryDisplay struct {
	Contributions     string `json:"contributions"`
	Requested         string `json:"requested"`
	UrgentRequested   string `json:"urgent_requested"`
	Available         string `json:"available"`
	AvailableNegative bool   `json:"available_negative"`
}

type summaryResponse struct {
	Summary
	Display summaryDisplay `json:"display"`
}

func (h *Handler) showSummary(w http.ResponseWriter, r *http.Request) {
	meetingID, err := strconv.ParseInt(chi.URLParam(r, "meetingID"), 10, 64)
	if err != nil {
		httpx.Problem(w, http.StatusBadRequest, "Validation Failed", "invalid meeting ID")
		return
	}
	class, err := ParseClassification(chi.URLParam(r, "classification"))
	if err != nil {
		httpx.RespondError(w, err)
		return
	}

	summary, err := h.service.Summary(r.Context(), meetingID, class)
	if err != nil {
		h.logger.Error("fund summary", slog.Int64("meeting_id", meetingID), slog.String("classification", string(class)), slog.Any("error", err))
		httpx.RespondError(w, err)
		return
	}

	httpx.JSON(w, http.StatusOK, summaryResponse{
		Summary: summary,
		Display: summaryDisplay{
			Contributions:     h.formatter.AmountWithCurrency(summary.Totals.Contributions),
			Requested:         h.formatter.AmountWithCurrency(summary.Totals.Requested),
			UrgentRequested:   h.formatter.AmountWithCurrency(summary.Totals.UrgentRequested),
			Available:         h.formatter.AmountWithCurrency(summary.Available),
			AvailableNegative: shared.Negative(summary.Available),
		},
	})
}
