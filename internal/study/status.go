package study

import "github.com/lumenlabs/studyportal/internal/model"

// DeriveStatus computes a participant's lifecycle status from a profile
// snapshot. Pure and idempotent: the same snapshot always yields the
// same result.
//
// Only onboard_pending → profile_complete is computed here. week_active
// and study_complete are externally set (administrator or schedule) and
// are preserved untouched — this engine never downgrades a status it
// observes, whatever the survey fields look like.
//
// CurrentWeek is a ratchet, not a derived value: it is set to 1 on the
// first transition into profile_complete and never recomputed after.
func DeriveStatus(p *model.Profile) (model.Status, *int) {
	switch p.Status {
	case model.StatusWeekActive, model.StatusStudyComplete:
		return p.Status, p.CurrentWeek
	}

	if surveyComplete(p) {
		week := p.CurrentWeek
		if week == nil {
			one := 1
			week = &one
		}
		return model.StatusProfileComplete, week
	}

	return model.StatusOnboardPending, p.CurrentWeek
}

// surveyComplete reports whether every required onboarding field is
// present: age range, skin tone, a non-empty concern list, and image
// consent strictly granted.
func surveyComplete(p *model.Profile) bool {
	return p.AgeRange != "" &&
		p.SkinTone != "" &&
		len(p.Concerns) > 0 &&
		p.ImageConsent
}

// ApplyStatus runs DeriveStatus and writes the result back onto the
// snapshot. The sync coordinator calls this on every merged update
// before it reaches the store.
func ApplyStatus(p *model.Profile) {
	p.Status, p.CurrentWeek = DeriveStatus(p)
}
