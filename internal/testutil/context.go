package testutil

import (
	"context"

	"github.com/funnytourism/tourprice/internal/types"
)

const DefaultUserID = "usr_admin_test"

func SetupContext() context.Context {
	ctx := context.Background()
	ctx = types.SetUserID(ctx, DefaultUserID)
	ctx = types.SetRequestID(ctx, types.GenerateUUID())
	return ctx
}
