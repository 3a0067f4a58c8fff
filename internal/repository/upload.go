package repository

import (
	"time"

	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"

	"github.com/lumenlabs/studyportal/internal/apperr"
	"github.com/lumenlabs/studyportal/internal/model"
	"github.com/lumenlabs/studyportal/internal/principal"
)

type UploadRepository interface {
	Create(p principal.Principal, upload *model.Upload) error
	ByOwner(p principal.Principal, targetOwner string) ([]*model.Upload, error)
	ByOwnerAndWeek(p principal.Principal, targetOwner string, week int) ([]*model.Upload, error)
	Delete(p principal.Principal, id string) error
}

type uploadRepository struct {
	db *sqlx.DB
}

func NewUploadRepository(db *sqlx.DB) UploadRepository {
	return &uploadRepository{db: db}
}

func (r *uploadRepository) Create(p principal.Principal, upload *model.Upload) error {
	if err := checkWriteOwner(p, upload.UserID); err != nil {
		return err
	}

	if upload.ID == "" {
		upload.ID = uuid.New().String()
	}
	if upload.CreatedAt.IsZero() {
		upload.CreatedAt = time.Now()
	}

	_, err := r.db.Exec(`
		INSERT INTO uploads (id, profile_id, user_id, week_number, storage_path,
		                     original_name, mime_type, size, consent, notes, created_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11)
	`, upload.ID, upload.ProfileID, upload.UserID, upload.WeekNumber, upload.StoragePath,
		upload.OriginalName, upload.MimeType, upload.Size, upload.Consent, upload.Notes,
		upload.CreatedAt)
	if err != nil {
		return apperr.Transient(err)
	}

	return nil
}

func (r *uploadRepository) ByOwner(p principal.Principal, targetOwner string) ([]*model.Upload, error) {
	owner, err := resolveOwner(p, targetOwner)
	if err != nil {
		return nil, err
	}

	var items []*model.Upload
	err = r.db.Select(&items, `
		SELECT * FROM uploads WHERE user_id = $1 ORDER BY created_at ASC
	`, owner)
	if err != nil {
		return nil, apperr.Transient(err)
	}

	return items, nil
}

func (r *uploadRepository) ByOwnerAndWeek(p principal.Principal, targetOwner string, week int) ([]*model.Upload, error) {
	owner, err := resolveOwner(p, targetOwner)
	if err != nil {
		return nil, err
	}

	var items []*model.Upload
	err = r.db.Select(&items, `
		SELECT * FROM uploads
		WHERE user_id = $1 AND week_number = $2
		ORDER BY created_at ASC
	`, owner, week)
	if err != nil {
		return nil, apperr.Transient(err)
	}

	return items, nil
}

// Delete removes an upload row after a failed blob write. Scoped to the
// caller's own rows like every other write.
func (r *uploadRepository) Delete(p principal.Principal, id string) error {
	result, err := r.db.Exec(`DELETE FROM uploads WHERE id = $1 AND user_id = $2`, id, p.ID)
	if err != nil {
		return apperr.Transient(err)
	}

	rows, err := result.RowsAffected()
	if err != nil {
		return apperr.Transient(err)
	}
	if rows == 0 {
		return ErrUploadNotFound
	}

	return nil
}
