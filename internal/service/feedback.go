package service

import (
	"errors"
	"time"

	"github.com/go-playground/validator/v10"

	"github.com/lumenlabs/studyportal/internal/apperr"
	"github.com/lumenlabs/studyportal/internal/model"
	"github.com/lumenlabs/studyportal/internal/principal"
	"github.com/lumenlabs/studyportal/internal/repository"
	"github.com/lumenlabs/studyportal/internal/study"
)

// FeedbackInput is one weekly check-in submission. WeekNumber may be
// omitted; the calculated week from the participant's enrollment then
// fills it in.
type FeedbackInput struct {
	WeekNumber    int    `json:"week_number" validate:"omitempty,min=1,max=52"`
	SkinRating    int    `json:"skin_rating" validate:"required,min=1,max=10"`
	RoutineRating int    `json:"routine_rating" validate:"required,min=1,max=10"`
	Reflections   string `json:"reflections" validate:"max=4000"`
}

// FeedbackView pairs a stored row with the week the calculator infers
// from its own timestamp. The two can legitimately diverge; readers get
// both instead of a conflated value.
type FeedbackView struct {
	*model.Feedback
	CalculatedWeek int `json:"calculated_week"`
}

type FeedbackService struct {
	feedback repository.FeedbackRepository
	profiles repository.ProfileRepository
	validate *validator.Validate
}

func NewFeedbackService(feedback repository.FeedbackRepository, profiles repository.ProfileRepository) *FeedbackService {
	return &FeedbackService{
		feedback: feedback,
		profiles: profiles,
		validate: validator.New(),
	}
}

// Submit records one check-in for the calling participant. Duplicate
// submissions for a week are tolerated; the latest wins at read time.
func (s *FeedbackService) Submit(p principal.Principal, input FeedbackInput) (*model.Feedback, error) {
	err := s.validate.Struct(input)
	if err != nil {
		return nil, asFieldErrors(err)
	}

	prof, err := s.profiles.ByOwner(p, "")
	if errors.Is(err, repository.ErrProfileNotFound) {
		return nil, apperr.NewValidationError(apperr.FieldError{Field: "profile", Reason: "complete your profile before submitting feedback"})
	}
	if err != nil {
		return nil, err
	}

	week := input.WeekNumber
	if week == 0 {
		week = study.WeekNumber(prof.CreatedAt, time.Now())
	}

	fb := &model.Feedback{
		ProfileID:     prof.ID,
		UserID:        p.ID,
		WeekNumber:    week,
		SkinRating:    input.SkinRating,
		RoutineRating: input.RoutineRating,
		Reflections:   input.Reflections,
	}
	err = s.feedback.Create(p, fb)
	if err != nil {
		return nil, err
	}

	return fb, nil
}

// List returns every check-in for the resolved owner, annotated with
// the calculated-week fallback.
func (s *FeedbackService) List(p principal.Principal, targetOwner string) ([]*FeedbackView, error) {
	prof, err := s.profiles.ByOwner(p, targetOwner)
	if errors.Is(err, repository.ErrProfileNotFound) {
		return []*FeedbackView{}, nil
	}
	if err != nil {
		return nil, err
	}

	items, err := s.feedback.ByOwner(p, targetOwner)
	if err != nil {
		return nil, err
	}

	views := make([]*FeedbackView, 0, len(items))
	for _, fb := range items {
		views = append(views, &FeedbackView{
			Feedback:       fb,
			CalculatedWeek: study.ArtifactWeek(prof.CreatedAt, fb.CreatedAt),
		})
	}
	return views, nil
}

// ForWeek resolves the week's conceptual slot: the latest row wins when
// duplicates exist.
func (s *FeedbackService) ForWeek(p principal.Principal, targetOwner string, week int) (*model.Feedback, error) {
	items, err := s.feedback.ByOwner(p, targetOwner)
	if err != nil {
		return nil, err
	}

	var latest *model.Feedback
	for _, fb := range items {
		if fb.WeekNumber != week {
			continue
		}
		if latest == nil || fb.CreatedAt.After(latest.CreatedAt) {
			latest = fb
		}
	}
	return latest, nil
}
