package repository

import (
	"database/sql"
	"time"

	"github.com/jmoiron/sqlx"

	"github.com/lumenlabs/studyportal/internal/apperr"
	"github.com/lumenlabs/studyportal/internal/model"
	"github.com/lumenlabs/studyportal/internal/principal"
)

type UserRepository interface {
	ByID(id string) (*model.User, error)
	Ensure(user *model.User) error
	Participants(p principal.Principal) ([]*model.User, error)
}

type userRepository struct {
	db *sqlx.DB
}

func NewUserRepository(db *sqlx.DB) UserRepository {
	return &userRepository{db: db}
}

func (r *userRepository) ByID(id string) (*model.User, error) {
	var user model.User
	err := r.db.Get(&user, `SELECT * FROM users WHERE id = $1`, id)

	if err == sql.ErrNoRows {
		return nil, ErrUserNotFound
	}
	if err != nil {
		return nil, apperr.Transient(err)
	}

	return &user, nil
}

// Ensure mirrors an identity-provider principal into the users table.
// Safe to call on every authenticated request; existing rows keep their
// original created_at.
func (r *userRepository) Ensure(user *model.User) error {
	if user.CreatedAt.IsZero() {
		user.CreatedAt = time.Now()
	}

	_, err := r.db.Exec(`
		INSERT INTO users (id, email, admin, created_at)
		VALUES ($1, $2, $3, $4)
		ON CONFLICT (id) DO UPDATE SET email = $2, admin = $3
	`, user.ID, user.Email, user.Admin, user.CreatedAt)
	if err != nil {
		return apperr.Transient(err)
	}

	return nil
}

// Participants lists non-admin users for the admin console.
func (r *userRepository) Participants(p principal.Principal) ([]*model.User, error) {
	if !p.Admin {
		return nil, apperr.ErrIsolationViolation
	}

	var users []*model.User
	err := r.db.Select(&users, `SELECT * FROM users WHERE admin = FALSE ORDER BY created_at ASC`)
	if err != nil {
		return nil, apperr.Transient(err)
	}

	return users, nil
}
