package study

import (
	"errors"
	"log/slog"
	"sync"
	"time"

	"github.com/lumenlabs/studyportal/internal/apperr"
	"github.com/lumenlabs/studyportal/internal/model"
	"github.com/lumenlabs/studyportal/internal/principal"
	"github.com/lumenlabs/studyportal/internal/repository"
)

var (
	// ErrSaveInFlight is returned when a save is requested while another
	// one is still outstanding. The second call is rejected, never
	// queued, so two rapid edits cannot race into a lost update.
	ErrSaveInFlight = errors.New("profile save already in flight")

	// ErrBreakerTripped is returned once auto-save has been permanently
	// disabled by an authentication failure. Recovery is explicit:
	// re-authenticate and construct a new coordinator.
	ErrBreakerTripped = errors.New("auto-save disabled after authentication failure")
)

// saveState is the coordinator's tiny state machine. All transitions
// happen under the mutex, before any store I/O, so a check can never be
// separated from its set by a suspension point.
type saveState int

const (
	stateIdle saveState = iota
	stateScheduled
	stateInFlight
)

// SaveResult reports the outcome of a successful profile save.
type SaveResult struct {
	Profile      *model.Profile
	WasFirstSave bool
}

// SyncCoordinator owns the single writable path for one participant's
// profile. It merges partial updates over the stored snapshot, derives
// the new status on every write, debounces auto-saves, enforces
// at-most-one-in-flight write, and trips a circuit breaker when the
// session is dead.
//
// The in-flight discipline serializes writes from this instance only.
// Two coordinator instances (two sessions) still race last-write-wins
// at the store; that is an accepted weakness, not a guarantee.
type SyncCoordinator struct {
	profiles repository.ProfileRepository
	p        principal.Principal
	debounce time.Duration
	onError  func(error)

	mu      sync.Mutex
	state   saveState
	tripped bool
	timer   *time.Timer
	pending model.ProfilePatch
}

// NewSyncCoordinator builds a coordinator for one authenticated
// principal. onError receives auto-save failures (may be nil); manual
// Save failures are returned directly.
func NewSyncCoordinator(profiles repository.ProfileRepository, p principal.Principal, debounce time.Duration, onError func(error)) *SyncCoordinator {
	return &SyncCoordinator{
		profiles: profiles,
		p:        p,
		debounce: debounce,
		onError:  onError,
	}
}

// Save performs a create-or-update of the principal's own profile. A
// concurrent call while another save is outstanding returns
// ErrSaveInFlight immediately.
func (c *SyncCoordinator) Save(patch model.ProfilePatch) (SaveResult, error) {
	if c.p.ID == "" {
		return SaveResult{}, apperr.ErrAuthenticationRequired
	}

	c.mu.Lock()
	if c.state == stateInFlight {
		c.mu.Unlock()
		return SaveResult{}, ErrSaveInFlight
	}
	c.state = stateInFlight
	c.mu.Unlock()

	res, err := c.write(patch)

	c.mu.Lock()
	c.state = stateIdle
	c.mu.Unlock()

	return res, err
}

// AutoSave schedules a debounced save: the write fires once a full
// quiet period has elapsed since the most recent call, and each call
// restarts the timer (debounce, not throttle). Patches accumulated
// across calls within one quiet period are merged into a single write.
func (c *SyncCoordinator) AutoSave(patch model.ProfilePatch) error {
	if c.p.ID == "" {
		return apperr.ErrAuthenticationRequired
	}

	c.mu.Lock()
	defer c.mu.Unlock()

	if c.tripped {
		return ErrBreakerTripped
	}

	mergePatch(&c.pending, patch)
	if c.state == stateIdle {
		c.state = stateScheduled
	}
	if c.timer != nil {
		c.timer.Stop()
	}
	c.timer = time.AfterFunc(c.debounce, c.flush)

	return nil
}

// flush runs when the debounce timer fires. If a save is already in
// flight the scheduled save is skipped, not queued, so rapid edits
// cannot pile up behind a slow write.
func (c *SyncCoordinator) flush() {
	c.mu.Lock()
	if c.tripped || c.state == stateInFlight {
		c.pending = model.ProfilePatch{}
		c.mu.Unlock()
		return
	}
	patch := c.pending
	c.pending = model.ProfilePatch{}
	if patch == (model.ProfilePatch{}) {
		// A manual save already consumed this quiet period.
		c.state = stateIdle
		c.mu.Unlock()
		return
	}
	c.state = stateInFlight
	c.mu.Unlock()

	_, err := c.write(patch)

	c.mu.Lock()
	c.state = stateIdle
	if err != nil && errors.Is(err, apperr.ErrAuthenticationRequired) {
		// Dead session: latch off all further auto-saves so we never
		// retry-loop against it.
		c.tripped = true
	}
	cb := c.onError
	c.mu.Unlock()

	if err != nil {
		slog.Warn("auto-save failed", "user_id", c.p.ID, "error", err)
		if cb != nil {
			cb(err)
		}
	}
}

// Tripped reports whether the auto-save breaker has latched.
func (c *SyncCoordinator) Tripped() bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.tripped
}

// Close cancels any scheduled auto-save. An in-flight write is not
// interrupted; only its local bookkeeping remains.
func (c *SyncCoordinator) Close() {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.timer != nil {
		c.timer.Stop()
		c.timer = nil
	}
	c.pending = model.ProfilePatch{}
	if c.state == stateScheduled {
		c.state = stateIdle
	}
}

// write is the single store round-trip: read existing, merge, derive
// status, insert or update by the profile's own id.
func (c *SyncCoordinator) write(patch model.ProfilePatch) (SaveResult, error) {
	existing, err := c.profiles.ByOwner(c.p, "")

	var prof *model.Profile
	first := false
	switch {
	case err == nil:
		prof = existing
	case errors.Is(err, repository.ErrProfileNotFound):
		first = true
		prof = &model.Profile{
			UserID: c.p.ID,
			Status: model.StatusOnboardPending,
		}
	default:
		return SaveResult{}, err
	}

	patch.ApplyTo(prof)
	ApplyStatus(prof)

	if first {
		err = c.profiles.Create(c.p, prof)
	} else {
		err = c.profiles.Update(c.p, prof)
	}
	if err != nil {
		return SaveResult{}, err
	}

	return SaveResult{Profile: prof, WasFirstSave: first}, nil
}

// mergePatch folds src over dst, field by field.
func mergePatch(dst *model.ProfilePatch, src model.ProfilePatch) {
	if src.AgeRange != nil {
		dst.AgeRange = src.AgeRange
	}
	if src.SkinTone != nil {
		dst.SkinTone = src.SkinTone
	}
	if src.Concerns != nil {
		dst.Concerns = src.Concerns
	}
	if src.ImageConsent != nil {
		dst.ImageConsent = src.ImageConsent
	}
	if src.ResearchConsent != nil {
		dst.ResearchConsent = src.ResearchConsent
	}
	if src.MonthlySpend != nil {
		dst.MonthlySpend = src.MonthlySpend
	}
	if src.RoutineFrequency != nil {
		dst.RoutineFrequency = src.RoutineFrequency
	}
}
