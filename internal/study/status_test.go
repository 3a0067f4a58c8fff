package study

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/lumenlabs/studyportal/internal/model"
)

func intp(v int) *int { return &v }

func completeProfile() *model.Profile {
	return &model.Profile{
		Status:       model.StatusOnboardPending,
		AgeRange:     "25-34",
		SkinTone:     "medium",
		Concerns:     model.StringList{"dryness"},
		ImageConsent: true,
	}
}

func TestDeriveStatusPending(t *testing.T) {
	tests := []struct {
		name   string
		mutate func(*model.Profile)
	}{
		{name: "missing age range", mutate: func(p *model.Profile) { p.AgeRange = "" }},
		{name: "missing skin tone", mutate: func(p *model.Profile) { p.SkinTone = "" }},
		{name: "empty concerns", mutate: func(p *model.Profile) { p.Concerns = nil }},
		{name: "no image consent", mutate: func(p *model.Profile) { p.ImageConsent = false }},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			p := completeProfile()
			tt.mutate(p)

			status, week := DeriveStatus(p)
			assert.Equal(t, model.StatusOnboardPending, status)
			assert.Nil(t, week)
		})
	}
}

func TestDeriveStatusComplete(t *testing.T) {
	p := completeProfile()

	status, week := DeriveStatus(p)
	assert.Equal(t, model.StatusProfileComplete, status)
	if assert.NotNil(t, week) {
		assert.Equal(t, 1, *week)
	}
}

func TestDeriveStatusResearchConsentNotRequired(t *testing.T) {
	p := completeProfile()
	p.ResearchConsent = false

	status, _ := DeriveStatus(p)
	assert.Equal(t, model.StatusProfileComplete, status)
}

func TestDeriveStatusPreservesExternalPhases(t *testing.T) {
	for _, status := range []model.Status{model.StatusWeekActive, model.StatusStudyComplete} {
		t.Run(string(status), func(t *testing.T) {
			p := completeProfile()
			p.Status = status
			p.CurrentWeek = intp(3)
			p.AgeRange = "" // incomplete survey must not downgrade

			got, week := DeriveStatus(p)
			assert.Equal(t, status, got)
			if assert.NotNil(t, week) {
				assert.Equal(t, 3, *week)
			}
		})
	}
}

func TestDeriveStatusWeekRatchet(t *testing.T) {
	p := completeProfile()
	p.Status = model.StatusProfileComplete
	p.CurrentWeek = intp(4)

	_, week := DeriveStatus(p)
	if assert.NotNil(t, week) {
		assert.Equal(t, 4, *week, "an already-set week is never recomputed")
	}
}

func TestDeriveStatusIncompleteKeepsWeek(t *testing.T) {
	// A week set by an administrator survives even if the survey is
	// somehow incomplete again.
	p := &model.Profile{Status: model.StatusOnboardPending, CurrentWeek: intp(2)}

	status, week := DeriveStatus(p)
	assert.Equal(t, model.StatusOnboardPending, status)
	if assert.NotNil(t, week) {
		assert.Equal(t, 2, *week)
	}
}

func TestDeriveStatusIdempotent(t *testing.T) {
	p := completeProfile()

	ApplyStatus(p)
	status, week := p.Status, p.CurrentWeek

	for i := 0; i < 5; i++ {
		ApplyStatus(p)
		assert.Equal(t, status, p.Status)
		assert.Equal(t, week, p.CurrentWeek)
	}
}
