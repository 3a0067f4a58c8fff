package repository

import (
	"errors"

	"github.com/lumenlabs/studyportal/internal/apperr"
	"github.com/lumenlabs/studyportal/internal/logger"
	"github.com/lumenlabs/studyportal/internal/principal"
)

var (
	ErrUserNotFound    = errors.New("user not found")
	ErrProfileNotFound = errors.New("profile not found")
	ErrUploadNotFound  = errors.New("upload not found")
)

// resolveOwner applies the row-isolation contract to a read: a
// participant is always scoped to their own rows (an explicit target is
// tolerated only when it names themselves); an administrator may select
// any owner and falls back to their own id when no target is given.
func resolveOwner(p principal.Principal, target string) (string, error) {
	if p.Admin {
		if target == "" {
			return p.ID, nil
		}
		return target, nil
	}
	if target != "" && target != p.ID {
		logger.Security("cross-tenant read rejected", "principal", p.ID, "target", target)
		return "", apperr.ErrIsolationViolation
	}
	return p.ID, nil
}

// checkWriteOwner applies the contract to a write: every inserted or
// updated row must carry the calling principal's own identity unless
// the caller is an administrator acting on a participant's thread.
// Defense in depth: callers already stamp the owner, this rejects any
// that slip through with someone else's.
func checkWriteOwner(p principal.Principal, owner string) error {
	if owner == p.ID || p.Admin {
		return nil
	}
	logger.Security("cross-tenant write rejected", "principal", p.ID, "owner", owner)
	return apperr.ErrIsolationViolation
}
