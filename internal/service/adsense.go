package service

import (
	"context"
	"fmt"

	"github.com/quillpress/quillpress-server/internal/domain"
	"github.com/quillpress/quillpress-server/internal/id"
)

// AdSenseService manages the singleton ad configuration.
type AdSenseService struct {
	Deps
}

// NewAdSenseService creates an ad configuration service.
func NewAdSenseService(deps Deps) *AdSenseService {
	return &AdSenseService{Deps: deps.withDefaults()}
}

// UpdateAdSenseRequest replaces the whole configuration. Omitted slots are
// stored as null.
type UpdateAdSenseRequest struct {
	PublisherID   string  `json:"publisher_id" minLength:"1" maxLength:"100" validate:"required,max=100" doc:"AdSense publisher ID"`
	HeaderSlot    *string `json:"header_slot,omitempty" validate:"omitempty,max=100" doc:"Header ad slot ID"`
	SidebarSlot   *string `json:"sidebar_slot,omitempty" validate:"omitempty,max=100" doc:"Sidebar ad slot ID"`
	InArticleSlot *string `json:"in_article_slot,omitempty" validate:"omitempty,max=100" doc:"In-article ad slot ID"`
	FooterSlot    *string `json:"footer_slot,omitempty" validate:"omitempty,max=100" doc:"Footer ad slot ID"`
	Enabled       bool    `json:"enabled,omitempty" doc:"Whether ads are rendered"`
}

// GetConfig returns the configuration or nil. Super admin only.
func (s *AdSenseService) GetConfig(ctx context.Context, actor *domain.Actor) (*domain.AdSenseConfig, error) {
	if err := domain.Authorize(actor, "", domain.AccessSuperAdmin); err != nil {
		return nil, s.fail(ctx, "adsense.getConfig", err)
	}
	cfg, err := nullIfMissing(s.Store.GetAdSenseConfig(ctx))
	if err != nil {
		return nil, s.fail(ctx, "adsense.getConfig", err)
	}
	return cfg, nil
}

// UpdateConfig overwrites the configuration, creating it on first use.
// Super admin only.
func (s *AdSenseService) UpdateConfig(ctx context.Context, actor *domain.Actor, req UpdateAdSenseRequest) (*domain.AdSenseConfig, error) {
	if err := domain.Authorize(actor, "", domain.AccessSuperAdmin); err != nil {
		return nil, s.fail(ctx, "adsense.updateConfig", err)
	}
	if err := s.Validator.Validate(req); err != nil {
		return nil, s.fail(ctx, "adsense.updateConfig", err)
	}

	// The id and created_at are only used when the row does not exist yet.
	cfgID, err := id.Generate(id.PrefixAdSense)
	if err != nil {
		return nil, s.fail(ctx, "adsense.updateConfig", fmt.Errorf("generate config ID: %w", err))
	}
	now := s.now()
	stored, err := s.Store.UpsertAdSenseConfig(ctx, &domain.AdSenseConfig{
		ID:            cfgID,
		PublisherID:   req.PublisherID,
		HeaderSlot:    emptyToNil(req.HeaderSlot),
		SidebarSlot:   emptyToNil(req.SidebarSlot),
		InArticleSlot: emptyToNil(req.InArticleSlot),
		FooterSlot:    emptyToNil(req.FooterSlot),
		Enabled:       req.Enabled,
		CreatedAt:     now,
		UpdatedAt:     now,
	})
	if err != nil {
		return nil, s.fail(ctx, "adsense.updateConfig", translate(err, "adsense config"))
	}
	s.log(ctx).Info("AdSense config updated", "enabled", stored.Enabled, "by", actor.ID)
	return stored, nil
}

// GetPublicConfig returns the reader-safe subset or nil.
func (s *AdSenseService) GetPublicConfig(ctx context.Context) (*domain.PublicAdSenseConfig, error) {
	cfg, err := nullIfMissing(s.Store.GetAdSenseConfig(ctx))
	if err != nil {
		return nil, s.fail(ctx, "adsense.getPublicConfig", err)
	}
	return cfg.Public(), nil
}
