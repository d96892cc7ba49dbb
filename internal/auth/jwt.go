package auth

import (
	"context"
	"fmt"
	"time"

	"github.com/golang-jwt/jwt/v4"

	"github.com/flexprice/invoicer/internal/config"
	ierr "github.com/flexprice/invoicer/internal/errors"
	"github.com/flexprice/invoicer/internal/types"
)

// DefaultTokenTTL is the lifetime of tokens issued by the CLI
const DefaultTokenTTL = 30 * 24 * time.Hour

type jwtAuth struct {
	AuthConfig config.AuthConfig
	now        func() time.Time
}

// NewJWTAuth validates HS256 tokens signed with the configured secret
func NewJWTAuth(cfg *config.Configuration) *jwtAuth {
	return &jwtAuth{
		AuthConfig: cfg.Auth,
		now:        time.Now,
	}
}

func (j *jwtAuth) GetProvider() types.AuthProvider {
	return types.AuthProviderJWT
}

func (j *jwtAuth) ValidateToken(ctx context.Context, token string) (*Claims, error) {
	claims, err := parseHMAC(token, j.AuthConfig.Secret)
	if err != nil {
		return nil, err
	}

	userID, ok := claims["user_id"].(string)
	if !ok || userID == "" {
		// tokens minted by other issuers carry the user in sub
		userID, ok = claims["sub"].(string)
	}
	if !ok || userID == "" {
		return nil, ierr.NewError("token missing user ID").
			WithHint("Token missing user ID").
			Mark(ierr.ErrUnauthenticated)
	}

	email, _ := claims["email"].(string)
	return &Claims{UserID: userID, Email: email}, nil
}

// IssueToken signs a token for userID valid for ttl
func (j *jwtAuth) IssueToken(userID string, ttl time.Duration) (string, error) {
	if j.AuthConfig.Secret == "" {
		return "", ierr.NewError("auth secret is not configured").
			WithHint("Set auth.secret to issue tokens").
			Mark(ierr.ErrValidation)
	}
	if ttl <= 0 {
		ttl = DefaultTokenTTL
	}

	now := j.now()
	claims := jwt.MapClaims{
		"user_id": userID,
		"exp":     now.Add(ttl).Unix(),
		"iat":     now.Unix(),
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	signed, err := token.SignedString([]byte(j.AuthConfig.Secret))
	if err != nil {
		return "", ierr.WithError(err).
			WithHint("Failed to generate token").
			Mark(ierr.ErrSystem)
	}
	return signed, nil
}

func parseHMAC(token, secret string) (jwt.MapClaims, error) {
	parsedToken, err := jwt.Parse(token, func(token *jwt.Token) (interface{}, error) {
		if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, ierr.NewError("unexpected signing method").
				WithHint(fmt.Sprintf("unexpected signing method: %v", token.Header["alg"])).
				Mark(ierr.ErrUnauthenticated)
		}
		return []byte(secret), nil
	})
	if err != nil {
		return nil, ierr.WithError(err).
			WithHint("Token parse error").
			Mark(ierr.ErrUnauthenticated)
	}

	claims, ok := parsedToken.Claims.(jwt.MapClaims)
	if !ok || !parsedToken.Valid {
		return nil, ierr.NewError("invalid token claims").
			WithHint("Invalid token claims").
			Mark(ierr.ErrUnauthenticated)
	}
	return claims, nil
}
