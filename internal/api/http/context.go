package http

import (
	"context"

	"carrental-backend/internal/domain"
)

type contextKey string

const userContextKey contextKey = "user"

func withUser(ctx context.Context, user *domain.User) context.Context {
	return context.WithValue(ctx, userContextKey, user)
}

// UserFromContext returns the authenticated caller, or nil on public routes
func UserFromContext(ctx context.Context) *domain.User {
	user, _ := ctx.Value(userContextKey).(*domain.User)
	return user
}
