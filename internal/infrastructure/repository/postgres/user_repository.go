package postgres

import (
	"context"
	"fmt"

	"github.com/brunobenavent/api-futbol/internal/domain/user"
	qb "github.com/brunobenavent/api-futbol/internal/platform/querybuilder"
	"github.com/jmoiron/sqlx"
)

type UserRepository struct {
	db *sqlx.DB
}

func NewUserRepository(db *sqlx.DB) *UserRepository {
	return &UserRepository{db: db}
}

func (r *UserRepository) GetByID(ctx context.Context, userID string) (user.User, bool, error) {
	query, args, err := qb.Select("*").From("users").
		Where(qb.Eq("id", userID)).
		Limit(1).
		ToSQL()
	if err != nil {
		return user.User{}, false, fmt.Errorf("build select user by id query: %w", err)
	}

	var row userTableModel
	if err := r.db.GetContext(ctx, &row, query, args...); err != nil {
		if isNotFound(err) {
			return user.User{}, false, nil
		}
		return user.User{}, false, fmt.Errorf("select user by id: %w", err)
	}
	return userFromRow(row), true, nil
}

func (r *UserRepository) AdjustTokens(ctx context.Context, userID string, op user.TokenOperation, amount int64) (user.User, error) {
	update := qb.Update("users").SetExpr("updated_at", "NOW()")
	switch op {
	case user.TokenOperationAdd:
		update.SetExpr("tokens", "tokens + ?", amount)
	case user.TokenOperationSubtract:
		update.SetExpr("tokens", "GREATEST(tokens - ?, 0)", amount)
	default:
		return user.User{}, fmt.Errorf("unknown token operation %q", op)
	}

	query, args, err := update.
		Where(qb.Eq("id", userID)).
		Suffix("RETURNING *").
		ToSQL()
	if err != nil {
		return user.User{}, fmt.Errorf("build adjust tokens query: %w", err)
	}

	var row userTableModel
	if err := r.db.GetContext(ctx, &row, query, args...); err != nil {
		if isNotFound(err) {
			return user.User{}, fmt.Errorf("adjust tokens: user not found: %s", userID)
		}
		return user.User{}, fmt.Errorf("adjust tokens: %w", err)
	}
	return userFromRow(row), nil
}

func userFromRow(row userTableModel) user.User {
	return user.User{
		ID:     row.ID,
		Alias:  row.Alias,
		Role:   user.Role(row.Role),
		Tokens: row.Tokens,
	}
}
