package repository

import (
	"context"
	"database/sql"
	"errors"
	"time"

	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"

	"online-voting/internal/domain"
)

// Session is one issued refresh token. Role is the role the token was
// issued under; a refresh under a different role is refused.
type Session struct {
	ID        uuid.UUID   `db:"session_id"`
	UserID    uuid.UUID   `db:"user_id"`
	TokenHash string      `db:"token_hash"`
	Role      domain.Role `db:"role"`
	UserAgent *string     `db:"user_agent"`
	IPAddress *string     `db:"ip_address"`
	ExpiresAt time.Time   `db:"expires_at"`
	CreatedAt time.Time   `db:"created_at"`
	RevokedAt *time.Time  `db:"revoked_at"`
}

type SessionRepository interface {
	Create(ctx context.Context, session *Session) error
	GetByTokenHash(ctx context.Context, tokenHash string) (*Session, error)
	ListActiveForUser(ctx context.Context, userID uuid.UUID) ([]Session, error)
	Revoke(ctx context.Context, id uuid.UUID) error
	RevokeAllForUser(ctx context.Context, userID uuid.UUID) (int64, error)
	// RevokeBeyondLimit keeps the newest keep live sessions of a user and
	// revokes the rest.
	RevokeBeyondLimit(ctx context.Context, userID uuid.UUID, keep int) (int64, error)
	// DeleteExpired removes sessions that expired or were revoked before cutoff.
	DeleteExpired(ctx context.Context, cutoff time.Time) (int64, error)
}

type sessionRepository struct {
	db *sqlx.DB
}

func NewSessionRepository(db *sqlx.DB) SessionRepository {
	return &sessionRepository{db: db}
}

func (r *sessionRepository) Create(ctx context.Context, session *Session) error {
	query := `
		INSERT INTO sessions (session_id, user_id, token_hash, role, user_agent, ip_address, expires_at)
		VALUES (:session_id, :user_id, :token_hash, :role, :user_agent, :ip_address, :expires_at)
		RETURNING created_at`

	rows, err := r.db.NamedQueryContext(ctx, query, session)
	if err != nil {
		return err
	}
	defer rows.Close()
	if rows.Next() {
		if err := rows.Scan(&session.CreatedAt); err != nil {
			return err
		}
	}
	return rows.Err()
}

func (r *sessionRepository) GetByTokenHash(ctx context.Context, tokenHash string) (*Session, error) {
	var session Session
	query := `
		SELECT session_id, user_id, token_hash, role, user_agent, ip_address, expires_at, created_at, revoked_at
		FROM sessions
		WHERE token_hash = $1 AND revoked_at IS NULL AND expires_at > NOW()`

	err := r.db.GetContext(ctx, &session, query, tokenHash)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &session, nil
}

func (r *sessionRepository) ListActiveForUser(ctx context.Context, userID uuid.UUID) ([]Session, error) {
	sessions := []Session{}
	query := `
		SELECT session_id, user_id, token_hash, role, user_agent, ip_address, expires_at, created_at, revoked_at
		FROM sessions
		WHERE user_id = $1 AND revoked_at IS NULL AND expires_at > NOW()
		ORDER BY created_at DESC`

	if err := r.db.SelectContext(ctx, &sessions, query, userID); err != nil {
		return nil, err
	}
	return sessions, nil
}

func (r *sessionRepository) Revoke(ctx context.Context, id uuid.UUID) error {
	query := `UPDATE sessions SET revoked_at = NOW() WHERE session_id = $1 AND revoked_at IS NULL`
	_, err := r.db.ExecContext(ctx, query, id)
	return err
}

func (r *sessionRepository) RevokeAllForUser(ctx context.Context, userID uuid.UUID) (int64, error) {
	query := `UPDATE sessions SET revoked_at = NOW() WHERE user_id = $1 AND revoked_at IS NULL`
	return r.affected(r.db.ExecContext(ctx, query, userID))
}

func (r *sessionRepository) RevokeBeyondLimit(ctx context.Context, userID uuid.UUID, keep int) (int64, error) {
	query := `
		UPDATE sessions SET revoked_at = NOW()
		WHERE session_id IN (
			SELECT session_id FROM sessions
			WHERE user_id = $1 AND revoked_at IS NULL AND expires_at > NOW()
			ORDER BY created_at DESC, session_id
			OFFSET $2
		)`
	return r.affected(r.db.ExecContext(ctx, query, userID, keep))
}

func (r *sessionRepository) DeleteExpired(ctx context.Context, cutoff time.Time) (int64, error) {
	query := `DELETE FROM sessions WHERE expires_at < $1 OR revoked_at < $1`
	return r.affected(r.db.ExecContext(ctx, query, cutoff))
}

func (r *sessionRepository) affected(res sql.Result, err error) (int64, error) {
	if err != nil {
		return 0, err
	}
	return res.RowsAffected()
}
