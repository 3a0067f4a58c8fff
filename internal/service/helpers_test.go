package service

import (
	"testing"
	"time"

	"github.com/jmoiron/sqlx"
	"github.com/stretchr/testify/require"

	"github.com/lumenlabs/studyportal/internal/db"
	"github.com/lumenlabs/studyportal/internal/model"
	"github.com/lumenlabs/studyportal/internal/principal"
	"github.com/lumenlabs/studyportal/internal/repository"
)

var (
	ann   = principal.Principal{ID: "ann"}
	staff = principal.Principal{ID: "staff", Admin: true}
)

func newTestDB(t *testing.T) *sqlx.DB {
	t.Helper()

	conn, err := sqlx.Connect("sqlite", ":memory:")
	require.NoError(t, err)
	conn.SetMaxOpenConns(1)

	require.NoError(t, db.RunMigrations(conn.DB, "sqlite"))

	t.Cleanup(func() { _ = conn.Close() })
	return conn
}

func seedUsers(t *testing.T, conn *sqlx.DB) {
	t.Helper()

	users := repository.NewUserRepository(conn)
	require.NoError(t, users.Ensure(&model.User{ID: "ann", Email: "ann@example.com"}))
	require.NoError(t, users.Ensure(&model.User{ID: "ben", Email: "ben@example.com"}))
	require.NoError(t, users.Ensure(&model.User{ID: "staff", Email: "staff@example.com", Admin: true}))
}

// seedProfile enrolls ann with the given enrollment timestamp.
func seedProfile(t *testing.T, profiles repository.ProfileRepository, enrolledAt time.Time) *model.Profile {
	t.Helper()

	prof := &model.Profile{
		UserID:    "ann",
		Status:    model.StatusProfileComplete,
		AgeRange:  "25-34",
		SkinTone:  "medium",
		Concerns:  model.StringList{"dryness"},
		CreatedAt: enrolledAt,
	}
	require.NoError(t, profiles.Create(ann, prof))
	return prof
}
