package http

import (
	"log/slog"
	"net/http"

	"github.com/bansalKrishna311/tryo/internal/feedback"
	"github.com/bansalKrishna311/tryo/internal/onboarding"
	"github.com/bansalKrishna311/tryo/pkg/httputil"
	"github.com/bansalKrishna311/tryo/pkg/validator"
)

// ProfileHandler serves the onboarding flag and the feedback form.
type ProfileHandler struct {
	onboarding *onboarding.Flag
	feedback   *feedback.Service
	logger     *slog.Logger
}

func NewProfileHandler(flag *onboarding.Flag, fb *feedback.Service, logger *slog.Logger) *ProfileHandler {
	return &ProfileHandler{onboarding: flag, feedback: fb, logger: logger}
}

// GetOnboarding handles GET /api/v1/onboarding
func (h *ProfileHandler) GetOnboarding(w http.ResponseWriter, r *http.Request) {
	httputil.WriteJSON(w, http.StatusOK, httputil.Response{Data: onboardingView{Seen: h.onboarding.Seen(r.Context())}})
}

// CompleteOnboarding handles PUT /api/v1/onboarding
func (h *ProfileHandler) CompleteOnboarding(w http.ResponseWriter, r *http.Request) {
	if err := h.onboarding.MarkSeen(r.Context()); err != nil {
		httputil.WriteError(w, r, err, h.logger)
		return
	}
	httputil.WriteJSON(w, http.StatusOK, httputil.Response{Data: onboardingView{Seen: true}})
}

// SubmitFeedback handles POST /api/v1/feedback
func (h *ProfileHandler) SubmitFeedback(w http.ResponseWriter, r *http.Request) {
	var form feedback.Form
	if err := validator.DecodeAndValidate(r, &form); err != nil {
		httputil.WriteValidationError(w, err)
		return
	}

	sub, err := h.feedback.Submit(r.Context(), form)
	if err != nil {
		httputil.WriteValidationError(w, err)
		return
	}
	httputil.WriteJSON(w, http.StatusCreated, httputil.Response{Data: feedbackView{ID: sub.ID, SubmittedAt: sub.SubmittedAt}})
}
