package auth

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/corkboard-app/corkboard/internal/shared"
)

// Repository defines persistence operations for the auth module.
type Repository interface {
	CreateUser(ctx context.Context, user *User) error
	FindUserByEmail(ctx context.Context, email string) (*User, error)
	FindUserByID(ctx context.Context, id string) (*User, error)
	UpdateUserProfile(ctx context.Context, id, fullName string, meta Meta) error
	TouchLastLogin(ctx context.Context, id string) error

	CreateSession(ctx context.Context, sess *Session) error
	FindSessionByToken(ctx context.Context, token string) (*Session, error)
	DeleteSessionByToken(ctx context.Context, token string) error
	DeleteSessionsByUser(ctx context.Context, userID string) (int64, error)
	DeleteExpiredSessions(ctx context.Context, now time.Time) (int64, error)
}

// SQLiteRepository implements Repository against the embedded SQLite database.
type SQLiteRepository struct {
	db *sql.DB
}

// NewRepository constructs a SQLite-backed repository.
func NewRepository(db *sql.DB) *SQLiteRepository {
	return &SQLiteRepository{db: db}
}

const userColumns = `id, email, password_hash, full_name, meta, is_active, role, created_at, updated_at, last_login`

// CreateUser inserts a new user row. A violation of the unique email
// constraint is surfaced as shared.ErrEmailTaken; the constraint is the
// authoritative duplicate check under concurrent registration.
func (r *SQLiteRepository) CreateUser(ctx context.Context, user *User) error {
	meta, err := encodeMeta(user.Meta)
	if err != nil {
		return err
	}
	_, err = r.db.ExecContext(ctx, `
		INSERT INTO users (id, email, password_hash, full_name, meta, is_active, role, created_at, updated_at)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?)
	`, user.ID, user.Email, user.PasswordHash, user.FullName, meta, user.IsActive, string(user.Role), user.CreatedAt, user.UpdatedAt)
	if err != nil {
		if isUniqueViolation(err, "users.email") {
			return shared.ErrEmailTaken
		}
		return fmt.Errorf("insert user: %w", err)
	}
	return nil
}

// FindUserByEmail fetches a user by email, case-sensitive as stored.
func (r *SQLiteRepository) FindUserByEmail(ctx context.Context, email string) (*User, error) {
	row := r.db.QueryRowContext(ctx, `SELECT `+userColumns+` FROM users WHERE email = ?`, email)
	return scanUser(row)
}

// FindUserByID fetches a user by primary key.
func (r *SQLiteRepository) FindUserByID(ctx context.Context, id string) (*User, error) {
	row := r.db.QueryRowContext(ctx, `SELECT `+userColumns+` FROM users WHERE id = ?`, id)
	return scanUser(row)
}

// UpdateUserProfile updates display name and metadata.
func (r *SQLiteRepository) UpdateUserProfile(ctx context.Context, id, fullName string, meta Meta) error {
	encoded, err := encodeMeta(meta)
	if err != nil {
		return err
	}
	res, err := r.db.ExecContext(ctx, `
		UPDATE users SET full_name = ?, meta = ?, updated_at = ? WHERE id = ?
	`, fullName, encoded, time.Now().UTC(), id)
	if err != nil {
		return fmt.Errorf("update user profile: %w", err)
	}
	return requireRow(res)
}

// TouchLastLogin refreshes the last_login timestamp.
func (r *SQLiteRepository) TouchLastLogin(ctx context.Context, id string) error {
	_, err := r.db.ExecContext(ctx, `UPDATE users SET last_login = ? WHERE id = ?`, time.Now().UTC(), id)
	if err != nil {
		return fmt.Errorf("touch last login: %w", err)
	}
	return nil
}

// CreateSession persists a new session row.
func (r *SQLiteRepository) CreateSession(ctx context.Context, sess *Session) error {
	_, err := r.db.ExecContext(ctx, `
		INSERT INTO sessions (id, user_id, token, expires_at, created_at)
		VALUES (?, ?, ?, ?, ?)
	`, sess.ID, sess.UserID, sess.Token, sess.ExpiresAt, sess.CreatedAt)
	if err != nil {
		return fmt.Errorf("insert session: %w", err)
	}
	return nil
}

// FindSessionByToken fetches a session row by token.
func (r *SQLiteRepository) FindSessionByToken(ctx context.Context, token string) (*Session, error) {
	sess := &Session{}
	err := r.db.QueryRowContext(ctx, `
		SELECT id, user_id, token, expires_at, created_at FROM sessions WHERE token = ?
	`, token).Scan(&sess.ID, &sess.UserID, &sess.Token, &sess.ExpiresAt, &sess.CreatedAt)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, shared.ErrNotFound
		}
		return nil, fmt.Errorf("get session: %w", err)
	}
	return sess, nil
}

// DeleteSessionByToken removes a session row. Deleting an absent token is a no-op.
func (r *SQLiteRepository) DeleteSessionByToken(ctx context.Context, token string) error {
	if _, err := r.db.ExecContext(ctx, `DELETE FROM sessions WHERE token = ?`, token); err != nil {
		return fmt.Errorf("delete session: %w", err)
	}
	return nil
}

// DeleteSessionsByUser removes every session owned by userID.
func (r *SQLiteRepository) DeleteSessionsByUser(ctx context.Context, userID string) (int64, error) {
	res, err := r.db.ExecContext(ctx, `DELETE FROM sessions WHERE user_id = ?`, userID)
	if err != nil {
		return 0, fmt.Errorf("delete user sessions: %w", err)
	}
	return res.RowsAffected()
}

// DeleteExpiredSessions removes every session past its expiry.
func (r *SQLiteRepository) DeleteExpiredSessions(ctx context.Context, now time.Time) (int64, error) {
	res, err := r.db.ExecContext(ctx, `DELETE FROM sessions WHERE expires_at <= ?`, now)
	if err != nil {
		return 0, fmt.Errorf("delete expired sessions: %w", err)
	}
	return res.RowsAffected()
}

func scanUser(row *sql.Row) (*User, error) {
	user := &User{}
	var meta string
	var role string
	var lastLogin sql.NullTime
	err := row.Scan(&user.ID, &user.Email, &user.PasswordHash, &user.FullName, &meta,
		&user.IsActive, &role, &user.CreatedAt, &user.UpdatedAt, &lastLogin)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, shared.ErrNotFound
		}
		return nil, fmt.Errorf("get user: %w", err)
	}
	user.Role = Role(role)
	if lastLogin.Valid {
		t := lastLogin.Time
		user.LastLogin = &t
	}
	if err := json.Unmarshal([]byte(meta), &user.Meta); err != nil {
		return nil, fmt.Errorf("decode user meta: %w", err)
	}
	return user, nil
}

func encodeMeta(meta Meta) (string, error) {
	if meta == nil {
		meta = Meta{}
	}
	data, err := json.Marshal(meta)
	if err != nil {
		return "", fmt.Errorf("encode user meta: %w", err)
	}
	return string(data), nil
}

func requireRow(res sql.Result) error {
	n, err := res.RowsAffected()
	if err != nil {
		return err
	}
	if n == 0 {
		return shared.ErrNotFound
	}
	return nil
}

func isUniqueViolation(err error, constraint string) bool {
	return err != nil && strings.Contains(err.Error(), "UNIQUE constraint failed: "+constraint)
}

var _ Repository = (*SQLiteRepository)(nil)
