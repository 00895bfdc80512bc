// File: internal/catalog/service_test.go
package catalog

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

func TestCreatePricingOptionSlugifiesName(t *testing.T) {
	svc := NewService(NewGORMRepository(newTestDB(t)), zap.NewNop())
	ctx := context.Background()

	option, err := svc.CreatePricingOption(ctx, CreatePricingOptionRequest{
		Name:        "Holiday Lighting Install & Takedown",
		PriceCents:  19900,
		ServiceType: "Lighting",
	})
	require.NoError(t, err)
	assert.Equal(t, "holiday-lighting-install-takedown", option.Slug)
	assert.Equal(t, "lighting", option.ServiceType, "service type is normalized to lowercase")
	assert.Equal(t, TierOneTime, option.Tier, "tier defaults to one_time")
	assert.True(t, option.Active)

	got, err := svc.GetPricingOptionBySlug(ctx, option.Slug)
	require.NoError(t, err)
	assert.Equal(t, option.ID, got.ID)
}

func TestCheckAvailability(t *testing.T) {
	db := newTestDB(t)
	svc := NewService(NewGORMRepository(db), zap.NewNop())
	ctx := context.Background()

	require.NoError(t, db.Create(&ServiceArea{ZipPrefix: "787", Label: "Austin metro"}).Error)

	result, err := svc.CheckAvailability(ctx, "78701")
	require.NoError(t, err)
	assert.True(t, result.Available)
	assert.Equal(t, "Austin metro", result.Label)

	result, err = svc.CheckAvailability(ctx, "10001")
	require.NoError(t, err, "an unserved ZIP is a normal answer, not an error")
	assert.False(t, result.Available)

	_, err = svc.CheckAvailability(ctx, "123")
	require.Error(t, err, "short ZIPs are rejected")
}
