// File: internal/cart/service_test.go
package cart

import (
	"context"
	"net/http"
	"testing"

	"castlecare_backend/internal/common"
	"castlecare_backend/internal/platform/database"

	"github.com/alicebob/miniredis/v2"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

func newTestCartService(t *testing.T) *Service {
	t.Helper()
	mr := miniredis.RunT(t)
	client := &database.RedisClient{
		Client: redis.NewClient(&redis.Options{Addr: mr.Addr()}),
	}
	return NewService(NewRedisRepository(client), zap.NewNop())
}

func TestCartStartsEmpty(t *testing.T) {
	svc := newTestCartService(t)

	c, err := svc.Get(context.Background(), "uid-1")
	require.NoError(t, err)
	assert.NotNil(t, c.Items)
	assert.Empty(t, c.Items)
	assert.Zero(t, c.TotalCents)
}

func TestCartAddAndTotals(t *testing.T) {
	svc := newTestCartService(t)
	ctx := context.Background()

	c, err := svc.AddItem(ctx, "uid-1", Item{ID: "lawn-basic", Name: "Lawn Care", PriceCents: 4900, Type: "lawncare"})
	require.NoError(t, err)
	assert.Equal(t, 1, c.TotalItems)
	assert.Equal(t, int64(4900), c.TotalCents)

	c, err = svc.AddItem(ctx, "uid-1", Item{ID: "lights", Name: "Lighting Install", PriceCents: 12900, Type: "lighting"})
	require.NoError(t, err)
	assert.Equal(t, 2, c.TotalItems)
	assert.Equal(t, int64(17800), c.TotalCents)
}

func TestCartRejectsDuplicateItem(t *testing.T) {
	svc := newTestCartService(t)
	ctx := context.Background()

	_, err := svc.AddItem(ctx, "uid-1", Item{ID: "lawn-basic", Name: "Lawn Care", PriceCents: 4900})
	require.NoError(t, err)

	_, err = svc.AddItem(ctx, "uid-1", Item{ID: "lawn-basic", Name: "Lawn Care", PriceCents: 4900})
	require.Error(t, err)
	apiErr, ok := common.IsAPIError(err)
	require.True(t, ok)
	assert.Equal(t, http.StatusConflict, apiErr.StatusCode)
}

func TestCartRemoveItem(t *testing.T) {
	svc := newTestCartService(t)
	ctx := context.Background()

	_, err := svc.AddItem(ctx, "uid-1", Item{ID: "a", Name: "A", PriceCents: 1000})
	require.NoError(t, err)
	_, err = svc.AddItem(ctx, "uid-1", Item{ID: "b", Name: "B", PriceCents: 2000})
	require.NoError(t, err)

	c, err := svc.RemoveItem(ctx, "uid-1", "a")
	require.NoError(t, err)
	assert.Equal(t, 1, c.TotalItems)
	assert.Equal(t, int64(2000), c.TotalCents)

	// Removing an unknown item is a no-op.
	c, err = svc.RemoveItem(ctx, "uid-1", "missing")
	require.NoError(t, err)
	assert.Equal(t, 1, c.TotalItems)
}

func TestCartReplaceIsLastWriteWins(t *testing.T) {
	svc := newTestCartService(t)
	ctx := context.Background()

	_, err := svc.AddItem(ctx, "uid-1", Item{ID: "a", Name: "A", PriceCents: 1000})
	require.NoError(t, err)

	c, err := svc.Replace(ctx, "uid-1", []Item{
		{ID: "x", Name: "X", PriceCents: 500},
		{ID: "y", Name: "Y", PriceCents: 700},
	})
	require.NoError(t, err)
	assert.Equal(t, 2, c.TotalItems)
	assert.Equal(t, int64(1200), c.TotalCents)

	got, err := svc.Get(ctx, "uid-1")
	require.NoError(t, err)
	assert.Equal(t, c.Items, got.Items)

	// Replacing with nil yields an empty cart, never null items.
	c, err = svc.Replace(ctx, "uid-1", nil)
	require.NoError(t, err)
	assert.NotNil(t, c.Items)
	assert.Empty(t, c.Items)
}

func TestCartIsolatedPerUser(t *testing.T) {
	svc := newTestCartService(t)
	ctx := context.Background()

	_, err := svc.AddItem(ctx, "uid-1", Item{ID: "a", Name: "A", PriceCents: 1000})
	require.NoError(t, err)

	other, err := svc.Get(ctx, "uid-2")
	require.NoError(t, err)
	assert.Empty(t, other.Items)
}

func TestCartClear(t *testing.T) {
	svc := newTestCartService(t)
	ctx := context.Background()

	_, err := svc.AddItem(ctx, "uid-1", Item{ID: "a", Name: "A", PriceCents: 1000})
	require.NoError(t, err)

	require.NoError(t, svc.Clear(ctx, "uid-1"))

	c, err := svc.Get(ctx, "uid-1")
	require.NoError(t, err)
	assert.Empty(t, c.Items)
}
