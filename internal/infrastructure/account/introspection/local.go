package introspection

import (
	"context"
	"fmt"
	"strings"

	"github.com/brunobenavent/api-futbol/internal/domain/user"
	"github.com/brunobenavent/api-futbol/internal/usecase"
)

const localTokenPrefix = "local:"

// LocalVerifier accepts "local:<userID>" tokens for users already in the ledger.
// It backs local runs where no accounts service is configured.
type LocalVerifier struct {
	users user.Repository
}

func NewLocalVerifier(users user.Repository) *LocalVerifier {
	return &LocalVerifier{users: users}
}

func (v *LocalVerifier) VerifyAccessToken(ctx context.Context, token string) (user.Principal, error) {
	userID, ok := strings.CutPrefix(strings.TrimSpace(token), localTokenPrefix)
	if !ok || strings.TrimSpace(userID) == "" {
		return user.Principal{}, fmt.Errorf("%w: unsupported local token", usecase.ErrUnauthorized)
	}

	account, exists, err := v.users.GetByID(ctx, strings.TrimSpace(userID))
	if err != nil {
		return user.Principal{}, fmt.Errorf("get user: %w", err)
	}
	if !exists {
		return user.Principal{}, fmt.Errorf("%w: unknown user", usecase.ErrUnauthorized)
	}
	return user.Principal{UserID: account.ID, Role: account.Role}, nil
}
