package seeders

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"protocol-system/internal/repositories/memory"
	"protocol-system/pkg/config"
	"protocol-system/pkg/utils"
)

func TestRun_IsIdempotent(t *testing.T) {
	ctx := context.Background()
	store := memory.NewStore()
	cfg := config.SeedConfig{AdminPassword: "admin-pass", UserPassword: "user-pass"}

	require.NoError(t, Run(ctx, store.Stores(), cfg, zap.NewNop()))
	require.NoError(t, Run(ctx, store.Stores(), cfg, zap.NewNop()))

	sectors, err := store.Sectors().GetSectors(ctx)
	require.NoError(t, err)
	assert.Len(t, sectors, len(sectorsData))

	protocol, err := store.Users().FindUsersBySector(ctx, "Protocol")
	require.NoError(t, err)
	assert.Len(t, protocol, 3)

	admin, err := store.Users().FindUserByLogin(ctx, "admin")
	require.NoError(t, err)
	assert.NoError(t, utils.ComparePasswords(admin.Password, "admin-pass"))

	clerk, err := store.Users().FindUserByLogin(ctx, "finance.clerk")
	require.NoError(t, err)
	assert.NoError(t, utils.ComparePasswords(clerk.Password, "user-pass"))
}
