package user

import "context"

type TokenOperation string

const (
	TokenOperationAdd      TokenOperation = "add"
	TokenOperationSubtract TokenOperation = "subtract"
)

// Repository stores users and their token balances.
type Repository interface {
	GetByID(ctx context.Context, userID string) (User, bool, error)
	// AdjustTokens applies op atomically. Subtraction floors the balance at zero.
	AdjustTokens(ctx context.Context, userID string, op TokenOperation, amount int64) (User, error)
}
