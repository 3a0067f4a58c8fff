package study

import "time"

// WeekNumber maps an enrollment timestamp and the current time to a
// 1-based study week. Partial days count toward the current week
// (ceiling on the day count before dividing), so a participant rolls
// into the next weekly bucket the moment a seventh full day has passed.
// Enrollment moments ago is always week 1, never week 0.
func WeekNumber(enrolledAt, now time.Time) int {
	elapsed := now.Sub(enrolledAt)
	if elapsed <= 0 {
		return 1
	}

	days := int(elapsed / (24 * time.Hour))
	if elapsed%(24*time.Hour) != 0 {
		days++
	}

	week := (days + 6) / 7
	if week < 1 {
		week = 1
	}
	return week
}

// ArtifactWeek classifies a weekly artifact that lacks an explicit week
// tag, from its own creation time relative to enrollment. This is a
// fallback only: it can diverge from the canonical week recorded at
// submission time, and callers are expected to expose both rather than
// conflate them.
func ArtifactWeek(enrolledAt, createdAt time.Time) int {
	return WeekNumber(enrolledAt, createdAt)
}
