package database

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/Black179/Digi-gold/internal/models"
	"github.com/Black179/Digi-gold/internal/store"

	"github.com/google/uuid"
	"go.uber.org/zap"
)

// GetUsers returns all users ordered by creation time
func (s *Service) GetUsers(ctx context.Context) ([]models.User, error) {
	rows, err := s.db.QueryContext(ctx, queryGetUsers)
	if err != nil {
		return nil, fmt.Errorf("failed to get users: %w", err)
	}
	defer func(rows *sql.Rows) {
		if err := rows.Close(); err != nil {
			zap.L().Warn("Failed to close rows", zap.Error(err))
		}
	}(rows)

	var users []models.User
	for rows.Next() {
		var user models.User
		if err := rows.Scan(&user.Id, &user.Name, &user.Email, &user.CreatedAt, &user.UpdatedAt); err != nil {
			return nil, fmt.Errorf("failed to scan user: %w", err)
		}
		users = append(users, user)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating user rows: %w", err)
	}

	return users, nil
}

func (s *Service) GetUserById(ctx context.Context, userId string) (*models.User, error) {
	var user models.User
	err := s.db.QueryRowContext(ctx, queryGetUserById, userId).
		Scan(&user.Id, &user.Name, &user.Email, &user.CreatedAt, &user.UpdatedAt)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, store.ErrUserNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get user %s: %w", userId, err)
	}
	return &user, nil
}

func (s *Service) GetUserByEmail(ctx context.Context, email string) (*models.User, error) {
	var user models.User
	err := s.db.QueryRowContext(ctx, queryGetUserByEmail, email).
		Scan(&user.Id, &user.Name, &user.Email, &user.CreatedAt, &user.UpdatedAt)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, store.ErrUserNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get user by email: %w", err)
	}
	return &user, nil
}

func (s *Service) CreateUser(ctx context.Context, name, email string) (*models.User, error) {
	if name == "" || email == "" {
		return nil, fmt.Errorf("name and email are required")
	}

	userId := uuid.New().String()
	if _, err := s.db.ExecContext(ctx, queryInsertUser, userId, name, email); err != nil {
		return nil, fmt.Errorf("failed to create user: %w", err)
	}

	zap.L().Info("User created", zap.String("user_id", userId), zap.String("email", email))
	return s.GetUserByEmail(ctx, email)
}

// CreateSession issues a new bearer token for the user, valid for ttl.
func (s *Service) CreateSession(ctx context.Context, userId string, ttl time.Duration) (*models.Session, error) {
	if _, err := s.GetUserById(ctx, userId); err != nil {
		return nil, err
	}

	session := &models.Session{
		Token:     uuid.New().String(),
		UserId:    userId,
		ExpiresAt: time.Now().UTC().Add(ttl),
		CreatedAt: time.Now().UTC(),
	}

	if _, err := s.db.ExecContext(ctx, queryInsertSession, session.Token, session.UserId, session.ExpiresAt); err != nil {
		return nil, fmt.Errorf("failed to create session: %w", err)
	}

	zap.L().Info("Session created",
		zap.String("user_id", userId),
		zap.Time("expires_at", session.ExpiresAt))
	return session, nil
}

// ValidateSession resolves a bearer token to the owning user id. Unknown and
// expired tokens both fail with store.ErrInvalidSession.
func (s *Service) ValidateSession(ctx context.Context, token string) (string, error) {
	if token == "" {
		return "", store.ErrInvalidSession
	}

	var session models.Session
	err := s.db.QueryRowContext(ctx, queryGetSession, token).
		Scan(&session.Token, &session.UserId, &session.ExpiresAt, &session.CreatedAt)
	if errors.Is(err, sql.ErrNoRows) {
		return "", store.ErrInvalidSession
	}
	if err != nil {
		return "", fmt.Errorf("failed to look up session: %w", err)
	}

	if time.Now().UTC().After(session.ExpiresAt) {
		return "", store.ErrInvalidSession
	}

	return session.UserId, nil
}
