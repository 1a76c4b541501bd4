package usecase

import (
	"context"
	"fmt"
	"strings"

	"github.com/brunobenavent/api-futbol/internal/domain/user"
	"github.com/brunobenavent/api-futbol/internal/platform/logging"
)

type AdjustTokensInput struct {
	Actor     user.Principal
	UserID    string
	Operation string
	Amount    int64
}

// TokenService lets administrators move token balances by hand.
type TokenService struct {
	users  user.Repository
	logger *logging.Logger
}

func NewTokenService(users user.Repository, logger *logging.Logger) *TokenService {
	return &TokenService{users: users, logger: logger}
}

func (s *TokenService) Adjust(ctx context.Context, input AdjustTokensInput) (user.User, error) {
	ctx, span := startUsecaseSpan(ctx, "usecase.TokenService.Adjust")
	defer span.End()

	if !input.Actor.IsAdmin() {
		return user.User{}, adminOnly("adjust tokens")
	}
	userID := strings.TrimSpace(input.UserID)
	if userID == "" {
		return user.User{}, fmt.Errorf("%w: user id is required", ErrInvalidInput)
	}
	if input.Amount <= 0 {
		return user.User{}, fmt.Errorf("%w: amount must be > 0", ErrInvalidInput)
	}

	op := user.TokenOperation(strings.ToLower(strings.TrimSpace(input.Operation)))
	switch op {
	case user.TokenOperationAdd, user.TokenOperationSubtract:
	default:
		return user.User{}, fmt.Errorf("%w: operation must be add or subtract", ErrInvalidInput)
	}

	if _, exists, err := s.users.GetByID(ctx, userID); err != nil {
		return user.User{}, fmt.Errorf("get user: %w", err)
	} else if !exists {
		return user.User{}, notFound("user", userID)
	}

	updated, err := s.users.AdjustTokens(ctx, userID, op, input.Amount)
	if err != nil {
		return user.User{}, fmt.Errorf("adjust tokens: %w", err)
	}

	s.logger.InfoContext(ctx, "tokens adjusted",
		"user_id", userID,
		"operation", op,
		"amount", input.Amount,
		"balance", updated.Tokens,
		"actor", input.Actor.UserID,
	)
	return updated, nil
}
