// Package feedback accepts the in-app feedback form. Submissions are logged
// and published; nothing is stored.
package feedback

import (
	"context"
	"log/slog"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/bansalKrishna311/tryo/pkg/logger"
	"github.com/bansalKrishna311/tryo/pkg/validator"
)

// Form is one feedback submission.
type Form struct {
	Name    string `json:"name" validate:"notblank,max=100"`
	Email   string `json:"email" validate:"required,email,max=254"`
	Message string `json:"message" validate:"notblank,max=2000"`
}

// Submission is an accepted Form.
type Submission struct {
	ID          string    `json:"id"`
	Name        string    `json:"name"`
	Email       string    `json:"email"`
	Message     string    `json:"message"`
	SubmittedAt time.Time `json:"submitted_at"`
}

// Publisher receives accepted submissions.
type Publisher interface {
	PublishFeedbackSubmitted(ctx context.Context, s Submission) error
}

// Service validates and forwards feedback.
type Service struct {
	publisher Publisher
	logger    *slog.Logger
	now       func() time.Time
}

// NewService creates a feedback service. publisher may be nil.
func NewService(publisher Publisher, log *slog.Logger) *Service {
	if log == nil {
		log = slog.Default()
	}
	return &Service{publisher: publisher, logger: log, now: time.Now}
}

// Submit validates f and returns the accepted submission. Validation errors
// are *validator.ValidationError. A publish failure is logged, not returned.
func (s *Service) Submit(ctx context.Context, f Form) (Submission, error) {
	f.Name = strings.TrimSpace(f.Name)
	f.Email = strings.TrimSpace(f.Email)
	f.Message = strings.TrimSpace(f.Message)
	if err := validator.Validate(f); err != nil {
		return Submission{}, err
	}

	sub := Submission{
		ID:          uuid.NewString(),
		Name:        f.Name,
		Email:       f.Email,
		Message:     f.Message,
		SubmittedAt: s.now().UTC(),
	}

	log := logger.WithContext(ctx, s.logger)
	log.Info("feedback submitted",
		slog.String("feedback_id", sub.ID),
		slog.String("name", sub.Name),
		slog.Int("message_length", len(sub.Message)),
	)

	if s.publisher != nil {
		if err := s.publisher.PublishFeedbackSubmitted(ctx, sub); err != nil {
			log.Warn("failed to publish feedback",
				slog.String("feedback_id", sub.ID),
				slog.String("error", err.Error()),
			)
		}
	}
	return sub, nil
}
