package auth

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/google/uuid"
	"golang.org/x/crypto/bcrypt"
)

const (
	DefaultSessionTTL      = 30 * 24 * time.Hour
	DefaultMaxFailedLogins = 5
	DefaultLockout         = 15 * time.Minute
)

// Clock supplies the current time.
type Clock interface {
	Now() time.Time
}

type systemClock struct{}

func (systemClock) Now() time.Time { return time.Now() }

// User is a registered account.
type User struct {
	ID          int64     `json:"id"`
	Email       string    `json:"email"`
	DisplayName string    `json:"display_name"`
	CreatedAt   time.Time `json:"created_at"`
}

// Session is an authenticated login.
type Session struct {
	Token     string    `json:"token"`
	UserID    int64     `json:"user_id"`
	CreatedAt time.Time `json:"created_at"`
	ExpiresAt time.Time `json:"expires_at"`
}

// Option configures a Store.
type Option func(*Store)

// WithSessionTTL sets how long a session stays valid.
func WithSessionTTL(d time.Duration) Option {
	return func(s *Store) { s.sessionTTL = d }
}

// WithLockout locks an account for d after max consecutive failed logins.
func WithLockout(max int, d time.Duration) Option {
	return func(s *Store) {
		s.maxFailed = max
		s.lockout = d
	}
}

// WithBcryptCost sets the password hashing cost.
func WithBcryptCost(cost int) Option {
	return func(s *Store) { s.cost = cost }
}

// WithClock sets the time source.
func WithClock(c Clock) Option {
	return func(s *Store) { s.clock = c }
}

// WithLogger sets the logger.
func WithLogger(l *slog.Logger) Option {
	return func(s *Store) { s.logger = l }
}

// Store manages users and sessions.
type Store struct {
	db         *sql.DB
	sessionTTL time.Duration
	maxFailed  int
	lockout    time.Duration
	cost       int
	clock      Clock
	logger     *slog.Logger
}

// NewStore creates an auth store over a migrated database.
func NewStore(db *sql.DB, opts ...Option) *Store {
	s := &Store{
		db:         db,
		sessionTTL: DefaultSessionTTL,
		maxFailed:  DefaultMaxFailedLogins,
		lockout:    DefaultLockout,
		cost:       bcrypt.DefaultCost,
		clock:      systemClock{},
	}
	for _, opt := range opts {
		opt(s)
	}
	if s.logger == nil {
		s.logger = slog.Default()
	}
	return s
}

func (s *Store) now() time.Time {
	return s.clock.Now().UTC()
}

// Register creates an account and returns it with a fresh session.
func (s *Store) Register(ctx context.Context, email, password, displayName string) (*User, *Session, error) {
	email = NormalizeEmail(email)
	if !ValidateEmail(email) {
		return nil, nil, ErrInvalidEmail
	}
	if ok, msg := ValidatePassword(password); !ok {
		return nil, nil, newError(CodeWeakPassword, msg)
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(password), s.cost)
	if err != nil {
		return nil, nil, fmt.Errorf("hash password: %w", err)
	}

	now := s.now()
	res, err := s.db.ExecContext(ctx, `
		INSERT INTO users (email, display_name, password_hash, created_at)
		VALUES (?, ?, ?, ?)`,
		email, displayName, string(hash), now,
	)
	if err != nil {
		if errors.Is(mapSQLiteError(err), ErrDuplicate) {
			return nil, nil, ErrEmailInUse
		}
		return nil, nil, fmt.Errorf("insert user: %w", err)
	}
	id, err := res.LastInsertId()
	if err != nil {
		return nil, nil, fmt.Errorf("get last insert id: %w", err)
	}

	u := &User{ID: id, Email: email, DisplayName: displayName, CreatedAt: now}
	sess, err := s.createSession(ctx, id)
	if err != nil {
		return nil, nil, err
	}
	s.logger.Info("user registered", "user_id", id)
	return u, sess, nil
}

// Login verifies credentials and opens a session. Repeated failures lock
// the account for the configured cooldown.
func (s *Store) Login(ctx context.Context, email, password string) (*User, *Session, error) {
	email = NormalizeEmail(email)
	if !ValidateEmail(email) {
		return nil, nil, ErrInvalidEmail
	}

	var (
		u           User
		hash        string
		failed      int
		lockedUntil sql.NullTime
		disabled    bool
	)
	err := s.db.QueryRowContext(ctx, `
		SELECT id, email, display_name, password_hash, failed_logins, locked_until, disabled, created_at
		FROM users WHERE email = ?`, email,
	).Scan(&u.ID, &u.Email, &u.DisplayName, &hash, &failed, &lockedUntil, &disabled, &u.CreatedAt)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil, ErrUserNotFound
	}
	if err != nil {
		return nil, nil, fmt.Errorf("get user: %w", err)
	}

	now := s.now()
	if disabled {
		return nil, nil, ErrUserDisabled
	}
	if lockedUntil.Valid && now.Before(lockedUntil.Time) {
		return nil, nil, ErrTooManyRequests
	}

	if err := bcrypt.CompareHashAndPassword([]byte(hash), []byte(password)); err != nil {
		if !errors.Is(err, bcrypt.ErrMismatchedHashAndPassword) {
			return nil, nil, fmt.Errorf("compare password: %w", err)
		}
		return nil, nil, s.recordFailure(ctx, u.ID, failed+1, now)
	}

	if failed > 0 || lockedUntil.Valid {
		if _, err := s.db.ExecContext(ctx,
			`UPDATE users SET failed_logins = 0, locked_until = NULL WHERE id = ?`, u.ID); err != nil {
			return nil, nil, fmt.Errorf("reset failed logins: %w", err)
		}
	}

	sess, err := s.createSession(ctx, u.ID)
	if err != nil {
		return nil, nil, err
	}
	return &u, sess, nil
}

func (s *Store) recordFailure(ctx context.Context, userID int64, failed int, now time.Time) error {
	if s.maxFailed > 0 && failed >= s.maxFailed {
		if _, err := s.db.ExecContext(ctx,
			`UPDATE users SET failed_logins = 0, locked_until = ? WHERE id = ?`,
			now.Add(s.lockout), userID); err != nil {
			return fmt.Errorf("lock user: %w", err)
		}
		s.logger.Warn("account locked", "user_id", userID, "until", now.Add(s.lockout))
		return ErrTooManyRequests
	}
	if _, err := s.db.ExecContext(ctx,
		`UPDATE users SET failed_logins = ? WHERE id = ?`, failed, userID); err != nil {
		return fmt.Errorf("record failed login: %w", err)
	}
	return ErrWrongPassword
}

func (s *Store) createSession(ctx context.Context, userID int64) (*Session, error) {
	now := s.now()
	sess := &Session{
		Token:     uuid.NewString(),
		UserID:    userID,
		CreatedAt: now,
		ExpiresAt: now.Add(s.sessionTTL),
	}
	_, err := s.db.ExecContext(ctx, `
		INSERT INTO sessions (token, user_id, created_at, expires_at)
		VALUES (?, ?, ?, ?)`,
		sess.Token, sess.UserID, sess.CreatedAt, sess.ExpiresAt,
	)
	if err != nil {
		return nil, fmt.Errorf("insert session: %w", mapSQLiteError(err))
	}
	return sess, nil
}

// Logout ends a session. Unknown tokens are ignored.
func (s *Store) Logout(ctx context.Context, token string) error {
	if _, err := s.db.ExecContext(ctx, `DELETE FROM sessions WHERE token = ?`, token); err != nil {
		return fmt.Errorf("delete session: %w", err)
	}
	return nil
}

// UserForToken returns the account behind a live session.
// Returns ErrSessionNotFound for unknown or expired tokens.
func (s *Store) UserForToken(ctx context.Context, token string) (*User, error) {
	if token == "" {
		return nil, ErrSessionNotFound
	}
	var (
		u         User
		expiresAt time.Time
		disabled  bool
	)
	err := s.db.QueryRowContext(ctx, `
		SELECT u.id, u.email, u.display_name, u.created_at, u.disabled, s.expires_at
		FROM sessions s JOIN users u ON u.id = s.user_id
		WHERE s.token = ?`, token,
	).Scan(&u.ID, &u.Email, &u.DisplayName, &u.CreatedAt, &disabled, &expiresAt)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrSessionNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("get session: %w", err)
	}
	if !s.now().Before(expiresAt) {
		return nil, ErrSessionNotFound
	}
	if disabled {
		return nil, ErrUserDisabled
	}
	return &u, nil
}

// SetDisabled enables or disables an account. Disabling drops its sessions.
func (s *Store) SetDisabled(ctx context.Context, userID int64, disabled bool) error {
	res, err := s.db.ExecContext(ctx, `UPDATE users SET disabled = ? WHERE id = ?`, disabled, userID)
	if err != nil {
		return fmt.Errorf("update user: %w", err)
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return ErrUserNotFound
	}
	if disabled {
		if _, err := s.db.ExecContext(ctx, `DELETE FROM sessions WHERE user_id = ?`, userID); err != nil {
			return fmt.Errorf("delete sessions: %w", err)
		}
	}
	return nil
}

// PruneSessions deletes expired sessions and returns how many were removed.
func (s *Store) PruneSessions(ctx context.Context) (int, error) {
	res, err := s.db.ExecContext(ctx, `DELETE FROM sessions WHERE expires_at <= ?`, s.now())
	if err != nil {
		return 0, fmt.Errorf("prune sessions: %w", err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return 0, fmt.Errorf("rows affected: %w", err)
	}
	return int(n), nil
}
