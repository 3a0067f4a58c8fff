package service

import (
	"github.com/lumenlabs/studyportal/internal/apperr"
	"github.com/lumenlabs/studyportal/internal/logger"
	"github.com/lumenlabs/studyportal/internal/model"
	"github.com/lumenlabs/studyportal/internal/principal"
	"github.com/lumenlabs/studyportal/internal/repository"
)

// AdminService carries the administrator-driven lifecycle operations:
// advancing a participant into week_active/study_complete and bumping
// their week pointer. These are the external triggers the status engine
// treats as monotonic, externally-set state.
type AdminService struct {
	users    repository.UserRepository
	profiles repository.ProfileRepository
}

func NewAdminService(users repository.UserRepository, profiles repository.ProfileRepository) *AdminService {
	return &AdminService{users: users, profiles: profiles}
}

// Advance moves a participant's status and/or week pointer forward.
// Both are ratchets: a lower status or week than the stored one is
// rejected, never applied.
func (s *AdminService) Advance(p principal.Principal, targetOwner string, status model.Status, week *int) (*model.Profile, error) {
	if !p.Admin {
		logger.Security("non-admin advance rejected", "principal", p.ID, "target", targetOwner)
		return nil, apperr.ErrIsolationViolation
	}
	if targetOwner == "" {
		return nil, apperr.NewValidationError(apperr.FieldError{Field: "owner", Reason: "is required"})
	}

	ve := apperr.NewValidationError()
	if status != "" && !status.Valid() {
		ve.Add("status", "is not a known status")
	}
	if week != nil && (*week < 1 || *week > 52) {
		ve.Add("week", "must be between 1 and 52")
	}
	if !ve.Empty() {
		return nil, ve
	}

	prof, err := s.profiles.ByOwner(p, targetOwner)
	if err != nil {
		return nil, err
	}

	if status != "" {
		if status.Rank() < prof.Status.Rank() {
			return nil, apperr.NewValidationError(apperr.FieldError{Field: "status", Reason: "cannot move backwards from " + string(prof.Status)})
		}
		prof.Status = status
	}
	if week != nil {
		if prof.CurrentWeek != nil && *week < *prof.CurrentWeek {
			return nil, apperr.NewValidationError(apperr.FieldError{Field: "week", Reason: "cannot decrease current week"})
		}
		prof.CurrentWeek = week
	}
	// Entering an active phase implies the week pointer exists.
	if prof.CurrentWeek == nil && prof.Status.Rank() >= model.StatusProfileComplete.Rank() {
		one := 1
		prof.CurrentWeek = &one
	}

	err = s.profiles.Update(p, prof)
	if err != nil {
		return nil, err
	}
	return prof, nil
}

// Participants lists enrolled (non-admin) users for the admin console.
func (s *AdminService) Participants(p principal.Principal) ([]*model.User, error) {
	return s.users.Participants(p)
}
