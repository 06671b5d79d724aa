package utils

import (
	"context"

	"protocol-system/internal/authz"
	"protocol-system/internal/entities"
	"protocol-system/pkg/contextkeys"
	apperrors "protocol-system/pkg/errors"
)

func WithIdentity(ctx context.Context, identity entities.Identity, caps authz.Capabilities) context.Context {
	ctx = context.WithValue(ctx, contextkeys.IdentityKey, identity)
	return context.WithValue(ctx, contextkeys.CapabilitiesKey, caps)
}

func GetIdentityFromCtx(ctx context.Context) (entities.Identity, error) {
	identity, ok := ctx.Value(contextkeys.IdentityKey).(entities.Identity)
	if !ok || identity.UserID == 0 {
		return entities.Identity{}, apperrors.ErrIdentityNotFoundInContext
	}
	return identity, nil
}

func GetCapabilitiesFromCtx(ctx context.Context) authz.Capabilities {
	caps, _ := ctx.Value(contextkeys.CapabilitiesKey).(authz.Capabilities)
	return caps
}
