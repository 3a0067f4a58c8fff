package model

import "time"

// Upload is one weekly photo submission. StoragePath is the private
// blob locator; it is never served directly and is resolved to a
// time-limited signed URL at read time. A row whose blob cannot be
// signed is surfaced as degraded, not dropped.
type Upload struct {
	ID           string    `db:"id" json:"id"`
	ProfileID    string    `db:"profile_id" json:"profile_id"`
	UserID       string    `db:"user_id" json:"user_id"`
	WeekNumber   int       `db:"week_number" json:"week_number"`
	StoragePath  string    `db:"storage_path" json:"-"`
	OriginalName string    `db:"original_name" json:"original_name"`
	MimeType     string    `db:"mime_type" json:"mime_type"`
	Size         int64     `db:"size" json:"size"`
	Consent      bool      `db:"consent" json:"consent"`
	Notes        string    `db:"notes" json:"notes"`
	CreatedAt    time.Time `db:"created_at" json:"created_at"`
}
