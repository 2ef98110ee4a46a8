// Package auth はセッショントークンの発行・検証・失効を提供する。
package auth

import (
	"context"
	"crypto/rand"
	"encoding/hex"
	"fmt"
	"log/slog"
	"time"

	"github.com/google/uuid"
	"github.com/hitoshi/peerline/internal/model"
	"github.com/hitoshi/peerline/internal/repository"
)

// Service はトークンのライフサイクル（issued → revoked）を管理する。
// revokedは終端状態で、一度失効したトークンが再び有効と判定されることはない。
type Service struct {
	tokenRepo repository.TokenRepository
	userRepo  repository.UserRepository
}

// NewService はServiceを生成する。
func NewService(tokenRepo repository.TokenRepository, userRepo repository.UserRepository) *Service {
	return &Service{
		tokenRepo: tokenRepo,
		userRepo:  userRepo,
	}
}

// Issue は指定ユーザーに紐付くトークンをissued状態で発行する。
func (s *Service) Issue(ctx context.Context, userID string) (*model.Token, error) {
	if userID == "" {
		return nil, fmt.Errorf("user ID is required")
	}

	value, err := generateTokenValue()
	if err != nil {
		return nil, fmt.Errorf("failed to generate token value: %w", err)
	}

	token := &model.Token{
		ID:        uuid.New().String(),
		Value:     value,
		UserID:    userID,
		CreatedAt: time.Now(),
	}

	if err := s.tokenRepo.Create(ctx, token); err != nil {
		return nil, fmt.Errorf("failed to save token: %w", err)
	}

	slog.Info("token issued", slog.String("user_id", userID))
	return token, nil
}

// Validate はトークン文字列を検証し、紐付くユーザーを返す。
// トークンが未指定・未知・失効済みのいずれでも外向きには同じ
// Unauthorizedエラーを返す。
func (s *Service) Validate(ctx context.Context, value string) (*model.User, error) {
	if value == "" {
		return nil, model.NewUnauthorizedError()
	}

	token, err := s.tokenRepo.FindByValue(ctx, value)
	if err != nil {
		return nil, fmt.Errorf("failed to find token: %w", err)
	}
	if token == nil || token.Revoked {
		return nil, model.NewUnauthorizedError()
	}

	user, err := s.userRepo.FindByID(ctx, token.UserID)
	if err != nil {
		return nil, fmt.Errorf("failed to find token owner: %w", err)
	}
	if user == nil {
		// トークンが存在してもユーザーが消えていれば有効なセッションではない
		return nil, model.NewUnauthorizedError()
	}

	return user, nil
}

// Revoke はトークンを失効させる（ログアウト）。
// 未知または失効済みのトークンに対しては何もしない。
func (s *Service) Revoke(ctx context.Context, value string) error {
	if value == "" {
		return nil
	}

	if err := s.tokenRepo.Revoke(ctx, value); err != nil {
		return fmt.Errorf("failed to revoke token: %w", err)
	}

	slog.Info("token revoked")
	return nil
}

// generateTokenValue は暗号的に安全なトークン文字列を生成する。
func generateTokenValue() (string, error) {
	b := make([]byte, 32)
	if _, err := rand.Read(b); err != nil {
		return "", err
	}
	return hex.EncodeToString(b), nil
}
