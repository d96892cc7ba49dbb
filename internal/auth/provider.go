package auth

import (
	"context"

	"github.com/flexprice/invoicer/internal/config"
	ierr "github.com/flexprice/invoicer/internal/errors"
	"github.com/flexprice/invoicer/internal/types"
)

// Claims is what a validated token tells us about the caller
type Claims struct {
	UserID string
	Email  string
}

type Provider interface {
	GetProvider() types.AuthProvider
	ValidateToken(ctx context.Context, token string) (*Claims, error)
}

func NewProvider(cfg *config.Configuration) Provider {
	switch cfg.Auth.Provider {
	case types.AuthProviderSupabase:
		return NewSupabaseAuth(cfg)
	default:
		return NewJWTAuth(cfg)
	}
}

// CurrentUserID returns the authenticated user id carried by ctx
func CurrentUserID(ctx context.Context) (string, error) {
	userID := types.GetUserID(ctx)
	if userID == "" {
		return "", ierr.NewError("no authenticated user in context").
			WithHint("Please sign in to continue").
			Mark(ierr.ErrUnauthenticated)
	}
	return userID, nil
}
