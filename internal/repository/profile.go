package repository

import (
	"database/sql"
	"time"

	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"

	"github.com/lumenlabs/studyportal/internal/apperr"
	"github.com/lumenlabs/studyportal/internal/model"
	"github.com/lumenlabs/studyportal/internal/principal"
)

type ProfileRepository interface {
	ByOwner(p principal.Principal, targetOwner string) (*model.Profile, error)
	Create(p principal.Principal, profile *model.Profile) error
	Update(p principal.Principal, profile *model.Profile) error
}

type profileRepository struct {
	db *sqlx.DB
}

func NewProfileRepository(db *sqlx.DB) ProfileRepository {
	return &profileRepository{db: db}
}

// ByOwner returns the single profile row for the resolved owner.
// Participants always read their own; admins may pass a target.
func (r *profileRepository) ByOwner(p principal.Principal, targetOwner string) (*model.Profile, error) {
	owner, err := resolveOwner(p, targetOwner)
	if err != nil {
		return nil, err
	}

	var profile model.Profile
	err = r.db.Get(&profile, `SELECT * FROM profiles WHERE user_id = $1`, owner)

	if err == sql.ErrNoRows {
		return nil, ErrProfileNotFound
	}
	if err != nil {
		return nil, apperr.Transient(err)
	}

	return &profile, nil
}

func (r *profileRepository) Create(p principal.Principal, profile *model.Profile) error {
	if err := checkWriteOwner(p, profile.UserID); err != nil {
		return err
	}

	if profile.ID == "" {
		profile.ID = uuid.New().String()
	}
	now := time.Now()
	if profile.CreatedAt.IsZero() {
		profile.CreatedAt = now
	}
	profile.UpdatedAt = now

	_, err := r.db.Exec(`
		INSERT INTO profiles (id, user_id, status, current_week, age_range, skin_tone,
		                      concerns, image_consent, research_consent, monthly_spend,
		                      routine_frequency, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13)
	`, profile.ID, profile.UserID, profile.Status, profile.CurrentWeek, profile.AgeRange,
		profile.SkinTone, profile.Concerns, profile.ImageConsent, profile.ResearchConsent,
		profile.MonthlySpend, profile.RoutineFrequency, profile.CreatedAt, profile.UpdatedAt)
	if err != nil {
		return apperr.Transient(err)
	}

	return nil
}

// Update writes by the profile's own id, never by user id, so an admin
// edit can never straddle two participants. created_at and user_id are
// immutable.
func (r *profileRepository) Update(p principal.Principal, profile *model.Profile) error {
	if err := checkWriteOwner(p, profile.UserID); err != nil {
		return err
	}

	profile.UpdatedAt = time.Now()

	result, err := r.db.Exec(`
		UPDATE profiles
		SET status = $1, current_week = $2, age_range = $3, skin_tone = $4, concerns = $5,
		    image_consent = $6, research_consent = $7, monthly_spend = $8,
		    routine_frequency = $9, updated_at = $10
		WHERE id = $11
	`, profile.Status, profile.CurrentWeek, profile.AgeRange, profile.SkinTone,
		profile.Concerns, profile.ImageConsent, profile.ResearchConsent,
		profile.MonthlySpend, profile.RoutineFrequency, profile.UpdatedAt, profile.ID)
	if err != nil {
		return apperr.Transient(err)
	}

	rows, err := result.RowsAffected()
	if err != nil {
		return apperr.Transient(err)
	}
	if rows == 0 {
		return ErrProfileNotFound
	}

	return nil
}
