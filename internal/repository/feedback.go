package repository

import (
	"time"

	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"

	"github.com/lumenlabs/studyportal/internal/apperr"
	"github.com/lumenlabs/studyportal/internal/model"
	"github.com/lumenlabs/studyportal/internal/principal"
)

type FeedbackRepository interface {
	Create(p principal.Principal, fb *model.Feedback) error
	ByOwner(p principal.Principal, targetOwner string) ([]*model.Feedback, error)
}

type feedbackRepository struct {
	db *sqlx.DB
}

func NewFeedbackRepository(db *sqlx.DB) FeedbackRepository {
	return &feedbackRepository{db: db}
}

func (r *feedbackRepository) Create(p principal.Principal, fb *model.Feedback) error {
	if err := checkWriteOwner(p, fb.UserID); err != nil {
		return err
	}

	if fb.ID == "" {
		fb.ID = uuid.New().String()
	}
	if fb.CreatedAt.IsZero() {
		fb.CreatedAt = time.Now()
	}

	// Duplicate (profile, week) rows are tolerated; readers take the
	// latest row per week.
	_, err := r.db.Exec(`
		INSERT INTO feedback (id, profile_id, user_id, week_number, skin_rating,
		                      routine_rating, reflections, created_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8)
	`, fb.ID, fb.ProfileID, fb.UserID, fb.WeekNumber, fb.SkinRating,
		fb.RoutineRating, fb.Reflections, fb.CreatedAt)
	if err != nil {
		return apperr.Transient(err)
	}

	return nil
}

func (r *feedbackRepository) ByOwner(p principal.Principal, targetOwner string) ([]*model.Feedback, error) {
	owner, err := resolveOwner(p, targetOwner)
	if err != nil {
		return nil, err
	}

	var items []*model.Feedback
	err = r.db.Select(&items, `
		SELECT * FROM feedback
		WHERE user_id = $1
		ORDER BY week_number ASC, created_at ASC
	`, owner)
	if err != nil {
		return nil, apperr.Transient(err)
	}

	return items, nil
}
