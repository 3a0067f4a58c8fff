package model

import (
	"database/sql/driver"
	"encoding/json"
	"fmt"
	"time"
)

// Status is the derived lifecycle phase of a participant.
// onboard_pending and profile_complete are computed from the profile
// snapshot; week_active and study_complete are set by administrators
// and are only ever preserved, never derived, by this service.
type Status string

const (
	StatusOnboardPending  Status = "onboard_pending"
	StatusProfileComplete Status = "profile_complete"
	StatusWeekActive      Status = "week_active"
	StatusStudyComplete   Status = "study_complete"
)

// statusRank orders statuses for monotonicity checks. A status never
// moves to a lower rank.
var statusRank = map[Status]int{
	StatusOnboardPending:  0,
	StatusProfileComplete: 1,
	StatusWeekActive:      2,
	StatusStudyComplete:   3,
}

// Rank returns the ordering position of s, or -1 for unknown values.
func (s Status) Rank() int {
	r, ok := statusRank[s]
	if !ok {
		return -1
	}
	return r
}

func (s Status) Valid() bool { return s.Rank() >= 0 }

// StringList stores a list of short strings as a JSON array in a single
// text column, which keeps the schema identical across sqlite and postgres.
type StringList []string

func (l StringList) Value() (driver.Value, error) {
	if l == nil {
		l = StringList{}
	}
	b, err := json.Marshal(l)
	if err != nil {
		return nil, err
	}
	return string(b), nil
}

func (l *StringList) Scan(src any) error {
	switch v := src.(type) {
	case nil:
		*l = nil
		return nil
	case string:
		return json.Unmarshal([]byte(v), l)
	case []byte:
		return json.Unmarshal(v, l)
	default:
		return fmt.Errorf("cannot scan %T into StringList", src)
	}
}

// Profile is the single per-participant survey and state record.
// CreatedAt doubles as the enrollment timestamp and is immutable;
// CurrentWeek is a ratchet that is set once and never decreased.
type Profile struct {
	ID          string `db:"id" json:"id"`
	UserID      string `db:"user_id" json:"user_id"`
	Status      Status `db:"status" json:"status"`
	CurrentWeek *int   `db:"current_week" json:"current_week"`

	AgeRange         string     `db:"age_range" json:"age_range"`
	SkinTone         string     `db:"skin_tone" json:"skin_tone"`
	Concerns         StringList `db:"concerns" json:"concerns"`
	ImageConsent     bool       `db:"image_consent" json:"image_consent"`
	ResearchConsent  bool       `db:"research_consent" json:"research_consent"`
	MonthlySpend     string     `db:"monthly_spend" json:"monthly_spend"`
	RoutineFrequency string     `db:"routine_frequency" json:"routine_frequency"`

	CreatedAt time.Time `db:"created_at" json:"created_at"`
	UpdatedAt time.Time `db:"updated_at" json:"updated_at"`
}

// ProfilePatch is a partial profile update. Nil fields are left as-is;
// the sync coordinator merges a patch over the stored snapshot before
// deriving the new status.
type ProfilePatch struct {
	AgeRange         *string     `json:"age_range" validate:"omitempty,max=32"`
	SkinTone         *string     `json:"skin_tone" validate:"omitempty,max=64"`
	Concerns         *StringList `json:"concerns" validate:"omitempty,max=20,dive,max=64"`
	ImageConsent     *bool       `json:"image_consent"`
	ResearchConsent  *bool       `json:"research_consent"`
	MonthlySpend     *string     `json:"monthly_spend" validate:"omitempty,max=32"`
	RoutineFrequency *string     `json:"routine_frequency" validate:"omitempty,max=32"`
}

// ApplyTo merges the patch over p in place.
func (patch ProfilePatch) ApplyTo(p *Profile) {
	if patch.AgeRange != nil {
		p.AgeRange = *patch.AgeRange
	}
	if patch.SkinTone != nil {
		p.SkinTone = *patch.SkinTone
	}
	if patch.Concerns != nil {
		p.Concerns = *patch.Concerns
	}
	if patch.ImageConsent != nil {
		p.ImageConsent = *patch.ImageConsent
	}
	if patch.ResearchConsent != nil {
		p.ResearchConsent = *patch.ResearchConsent
	}
	if patch.MonthlySpend != nil {
		p.MonthlySpend = *patch.MonthlySpend
	}
	if patch.RoutineFrequency != nil {
		p.RoutineFrequency = *patch.RoutineFrequency
	}
}
