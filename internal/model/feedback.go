package model

import "time"

// Feedback is one weekly check-in. There is one conceptual slot per
// (profile, week) but the table does not enforce uniqueness; readers
// resolve duplicates by taking the latest row for a week.
type Feedback struct {
	ID            string    `db:"id" json:"id"`
	ProfileID     string    `db:"profile_id" json:"profile_id"`
	UserID        string    `db:"user_id" json:"user_id"`
	WeekNumber    int       `db:"week_number" json:"week_number"`
	SkinRating    int       `db:"skin_rating" json:"skin_rating"`
	RoutineRating int       `db:"routine_rating" json:"routine_rating"`
	Reflections   string    `db:"reflections" json:"reflections"`
	CreatedAt     time.Time `db:"created_at" json:"created_at"`
}
