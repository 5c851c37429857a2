package service

import (
	"context"
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	domainerrors "github.com/quillpress/quillpress-server/internal/errors"
)

func TestAdSenseService_Upsert(t *testing.T) {
	h := newHarness(t)
	ctx := context.Background()
	admin := h.admin.Actor()

	cfg, err := h.adsense.GetConfig(ctx, admin)
	require.NoError(t, err)
	assert.Nil(t, cfg)

	pub, err := h.adsense.GetPublicConfig(ctx)
	require.NoError(t, err)
	assert.Nil(t, pub)

	first, err := h.adsense.UpdateConfig(ctx, admin, UpdateAdSenseRequest{
		PublisherID: "pub-123",
		HeaderSlot:  strPtr("111"),
		FooterSlot:  strPtr("444"),
		Enabled:     true,
	})
	require.NoError(t, err)
	assert.Equal(t, "pub-123", first.PublisherID)
	assert.Equal(t, "111", *first.HeaderSlot)
	assert.Nil(t, first.SidebarSlot)
	assert.True(t, first.Enabled)

	second, err := h.adsense.UpdateConfig(ctx, admin, UpdateAdSenseRequest{
		PublisherID: "pub-456",
		SidebarSlot: strPtr("222"),
	})
	require.NoError(t, err)
	assert.Equal(t, first.ID, second.ID, "singleton keeps its id")
	assert.True(t, first.CreatedAt.Equal(second.CreatedAt))
	assert.True(t, second.UpdatedAt.After(first.UpdatedAt))
	assert.Equal(t, "pub-456", second.PublisherID)
	assert.Nil(t, second.HeaderSlot, "omitted slots become null")
	assert.Nil(t, second.FooterSlot)
	assert.Equal(t, "222", *second.SidebarSlot)
	assert.False(t, second.Enabled)

	stored, err := h.adsense.GetConfig(ctx, admin)
	require.NoError(t, err)
	assert.Equal(t, second.ID, stored.ID)
	assert.Equal(t, "pub-456", stored.PublisherID)
}

func TestAdSenseService_PublicConfigHidesFields(t *testing.T) {
	h := newHarness(t)
	ctx := context.Background()

	_, err := h.adsense.UpdateConfig(ctx, h.admin.Actor(), UpdateAdSenseRequest{
		PublisherID:   "pub-secret",
		InArticleSlot: strPtr("333"),
		Enabled:       true,
	})
	require.NoError(t, err)

	pub, err := h.adsense.GetPublicConfig(ctx)
	require.NoError(t, err)
	require.NotNil(t, pub)
	assert.Equal(t, "333", *pub.InArticleSlot)
	assert.True(t, pub.Enabled)

	raw, err := json.Marshal(pub)
	require.NoError(t, err)
	var fields map[string]any
	require.NoError(t, json.Unmarshal(raw, &fields))
	for _, hidden := range []string{"id", "publisher_id", "created_at", "updated_at"} {
		assert.NotContains(t, fields, hidden)
	}
	assert.Len(t, fields, 5)
}

func TestAdSenseService_RequiresAdmin(t *testing.T) {
	h := newHarness(t)
	ctx := context.Background()

	_, err := h.adsense.GetConfig(ctx, h.author.Actor())
	assert.ErrorIs(t, err, domainerrors.ErrPermissionDenied)

	_, err = h.adsense.UpdateConfig(ctx, nil, UpdateAdSenseRequest{PublisherID: "pub"})
	assert.ErrorIs(t, err, domainerrors.ErrUnauthorized)

	_, err = h.adsense.UpdateConfig(ctx, h.admin.Actor(), UpdateAdSenseRequest{})
	assert.ErrorIs(t, err, domainerrors.ErrValidation)
}
