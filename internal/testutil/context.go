package testutil

import (
	"context"

	"github.com/flexprice/invoicer/internal/types"
)

// SetupContext returns a request context signed in as the fixture owner
func SetupContext() context.Context {
	return ContextFor(FixtureOwnerID)
}

// ContextFor returns a request context signed in as userID
func ContextFor(userID string) context.Context {
	ctx := types.SetUserID(context.Background(), userID)
	return types.SetRequestID(ctx, types.GenerateUUIDWithPrefix("req"))
}
