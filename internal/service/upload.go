package service

import (
	"errors"
	"fmt"
	"log/slog"
	"mime/multipart"
	"path/filepath"
	"time"

	"github.com/google/uuid"

	"github.com/lumenlabs/studyportal/internal/apperr"
	"github.com/lumenlabs/studyportal/internal/model"
	"github.com/lumenlabs/studyportal/internal/principal"
	"github.com/lumenlabs/studyportal/internal/repository"
	"github.com/lumenlabs/studyportal/internal/storage"
	"github.com/lumenlabs/studyportal/internal/study"
	"github.com/lumenlabs/studyportal/internal/validation"
)

// MaxFilesPerUpload caps one multipart call.
const MaxFilesPerUpload = 3

// UploadView is an upload row with its blob resolved to a signed URL.
// Degraded marks a row whose blob could not be signed; it is reported,
// never silently dropped.
type UploadView struct {
	*model.Upload
	URL      string `json:"url"`
	Degraded bool   `json:"degraded"`
}

// UploadResult reports a multi-file submission: the operation as a
// whole succeeds when at least one file made it, with per-file
// failures listed separately.
type UploadResult struct {
	Saved  []*model.Upload     `json:"saved"`
	Failed []apperr.UnitResult `json:"failed"`
}

type UploadService struct {
	uploads    repository.UploadRepository
	profiles   repository.ProfileRepository
	storage    storage.Storage
	signExpiry time.Duration
}

func NewUploadService(uploads repository.UploadRepository, profiles repository.ProfileRepository, store storage.Storage, signExpiry time.Duration) *UploadService {
	return &UploadService{
		uploads:    uploads,
		profiles:   profiles,
		storage:    store,
		signExpiry: signExpiry,
	}
}

// Submit stores up to MaxFilesPerUpload photos for one week. Blob and
// row are created together: a row is only written after its blob is
// stored, and a failed row write removes the orphaned blob.
func (s *UploadService) Submit(p principal.Principal, week int, consent bool, notes string, files []*multipart.FileHeader) (*UploadResult, error) {
	if len(files) == 0 {
		return nil, apperr.NewValidationError(apperr.FieldError{Field: "files", Reason: "at least one file is required"})
	}
	if len(files) > MaxFilesPerUpload {
		return nil, apperr.NewValidationError(apperr.FieldError{Field: "files", Reason: fmt.Sprintf("at most %d files per upload", MaxFilesPerUpload)})
	}

	prof, err := s.profiles.ByOwner(p, "")
	if errors.Is(err, repository.ErrProfileNotFound) {
		return nil, apperr.NewValidationError(apperr.FieldError{Field: "profile", Reason: "complete your profile before uploading"})
	}
	if err != nil {
		return nil, err
	}

	if week == 0 {
		week = study.WeekNumber(prof.CreatedAt, time.Now())
	}
	if week < 1 || week > 52 {
		return nil, apperr.NewValidationError(apperr.FieldError{Field: "week", Reason: "must be between 1 and 52"})
	}

	result := &UploadResult{}
	for _, header := range files {
		upload, err := s.saveOne(p, prof, week, consent, notes, header)
		if err != nil {
			result.Failed = append(result.Failed, apperr.UnitResult{Name: header.Filename, Err: err})
			continue
		}
		result.Saved = append(result.Saved, upload)
	}

	if len(result.Saved) == 0 {
		return nil, fmt.Errorf("all %d file(s) failed: %w", len(files), result.Failed[0].Err)
	}
	if len(result.Failed) > 0 {
		return result, &apperr.PartialBatchError{Failed: result.Failed}
	}
	return result, nil
}

func (s *UploadService) saveOne(p principal.Principal, prof *model.Profile, week int, consent bool, notes string, header *multipart.FileHeader) (*model.Upload, error) {
	err := validation.ValidateStudyPhoto(header)
	if err != nil {
		return nil, err
	}

	file, err := header.Open()
	if err != nil {
		return nil, apperr.Transient(err)
	}
	defer func() { _ = file.Close() }()

	ext := filepath.Ext(header.Filename)
	path := fmt.Sprintf("uploads/%s/week-%02d/%s%s", p.ID, week, uuid.New().String(), ext)

	err = s.storage.Put(path, file)
	if err != nil {
		return nil, apperr.Transient(err)
	}

	upload := &model.Upload{
		ProfileID:    prof.ID,
		UserID:       p.ID,
		WeekNumber:   week,
		StoragePath:  path,
		OriginalName: header.Filename,
		MimeType:     header.Header.Get("Content-Type"),
		Size:         header.Size,
		Consent:      consent,
		Notes:        notes,
	}
	err = s.uploads.Create(p, upload)
	if err != nil {
		// Row write failed: remove the orphaned blob so blob and row
		// stay created-together.
		delErr := s.storage.Delete(path)
		if delErr != nil {
			slog.Error("failed to delete blob during cleanup", "error", delErr, "path", path)
		}
		return nil, err
	}

	return upload, nil
}

// List returns the resolved owner's uploads for a week (or all weeks
// when week is 0), each blob signed for temporary read. A row whose
// blob cannot be signed comes back degraded rather than disappearing.
func (s *UploadService) List(p principal.Principal, targetOwner string, week int) ([]*UploadView, error) {
	var items []*model.Upload
	var err error
	if week > 0 {
		items, err = s.uploads.ByOwnerAndWeek(p, targetOwner, week)
	} else {
		items, err = s.uploads.ByOwner(p, targetOwner)
	}
	if err != nil {
		return nil, err
	}

	views := make([]*UploadView, 0, len(items))
	for _, upload := range items {
		view := &UploadView{Upload: upload}
		url, err := s.storage.Sign(upload.StoragePath, s.signExpiry)
		if err != nil {
			slog.Error("upload blob could not be signed", "upload_id", upload.ID, "path", upload.StoragePath, "error", err)
			view.Degraded = true
		} else {
			view.URL = url
		}
		views = append(views, view)
	}
	return views, nil
}
