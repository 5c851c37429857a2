package domain

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestBlogPost_TransitionTo(t *testing.T) {
	earlier := time.Date(2026, 1, 2, 3, 4, 5, 0, time.UTC)
	now := earlier.Add(48 * time.Hour)

	tests := []struct {
		name          string
		from          PostStatus
		publishedAt   *time.Time
		to            PostStatus
		wantPublished *time.Time
	}{
		{"new post published", "", nil, StatusPublished, &now},
		{"new post draft", "", nil, StatusDraft, nil},
		{"draft to published", StatusDraft, nil, StatusPublished, &now},
		{"published to draft", StatusPublished, &earlier, StatusDraft, nil},
		{"published stays published", StatusPublished, &earlier, StatusPublished, &earlier},
		{"draft stays draft", StatusDraft, nil, StatusDraft, nil},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			p := &BlogPost{Status: tt.from, PublishedAt: tt.publishedAt}
			p.TransitionTo(tt.to, now)

			assert.Equal(t, tt.to, p.Status)
			if tt.wantPublished == nil {
				assert.Nil(t, p.PublishedAt)
				return
			}
			require.NotNil(t, p.PublishedAt)
			assert.True(t, tt.wantPublished.Equal(*p.PublishedAt))
		})
	}
}

func TestPostStatus_Valid(t *testing.T) {
	assert.True(t, StatusDraft.Valid())
	assert.True(t, StatusPublished.Valid())
	assert.False(t, PostStatus("archived").Valid())
}

func TestAdSenseConfig_Public(t *testing.T) {
	header := "1111"
	cfg := &AdSenseConfig{
		ID:          "ads-1",
		PublisherID: "pub-123",
		HeaderSlot:  &header,
		Enabled:     true,
		CreatedAt:   time.Now(),
		UpdatedAt:   time.Now(),
	}

	pub := cfg.Public()
	require.NotNil(t, pub)
	assert.Equal(t, &header, pub.HeaderSlot)
	assert.Nil(t, pub.SidebarSlot)
	assert.True(t, pub.Enabled)

	var nilCfg *AdSenseConfig
	assert.Nil(t, nilCfg.Public())
}

func TestUser_Sanitized(t *testing.T) {
	u := &User{ID: "usr-1", PasswordHash: "$argon2id$secret", Role: RoleAuthor}

	clean := u.Sanitized()
	assert.Empty(t, clean.PasswordHash)
	assert.Equal(t, "$argon2id$secret", u.PasswordHash, "original must be untouched")
	assert.Equal(t, &Actor{ID: "usr-1", Role: RoleAuthor}, u.Actor())
}
