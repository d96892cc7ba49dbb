package auth

import (
	"context"

	"github.com/nedpals/supabase-go"

	"github.com/flexprice/invoicer/internal/config"
	ierr "github.com/flexprice/invoicer/internal/errors"
	"github.com/flexprice/invoicer/internal/types"
)

type supabaseAuth struct {
	AuthConfig config.AuthConfig
	client     *supabase.Client
}

// NewSupabaseAuth validates supabase access tokens. With a JWT secret
// configured tokens are checked locally, otherwise supabase is asked.
func NewSupabaseAuth(cfg *config.Configuration) Provider {
	return &supabaseAuth{
		AuthConfig: cfg.Auth,
		client:     supabase.CreateClient(cfg.Auth.Supabase.BaseURL, cfg.Auth.Supabase.ServiceKey),
	}
}

func (s *supabaseAuth) GetProvider() types.AuthProvider {
	return types.AuthProviderSupabase
}

func (s *supabaseAuth) ValidateToken(ctx context.Context, token string) (*Claims, error) {
	if s.AuthConfig.Secret != "" {
		claims, err := parseHMAC(token, s.AuthConfig.Secret)
		if err != nil {
			return nil, err
		}

		userID, ok := claims["sub"].(string)
		if !ok || userID == "" {
			return nil, ierr.NewError("token missing user ID").
				WithHint("Token missing user ID").
				Mark(ierr.ErrUnauthenticated)
		}
		email, _ := claims["email"].(string)
		return &Claims{UserID: userID, Email: email}, nil
	}

	user, err := s.client.Auth.User(ctx, token)
	if err != nil {
		return nil, ierr.WithError(err).
			WithHint("Invalid or expired session").
			Mark(ierr.ErrUnauthenticated)
	}
	if user == nil || user.ID == "" {
		return nil, ierr.NewError("supabase returned no user").
			WithHint("Invalid or expired session").
			Mark(ierr.ErrUnauthenticated)
	}
	return &Claims{UserID: user.ID, Email: user.Email}, nil
}
